package bot

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"drive-thru/config"
	"drive-thru/engine"
	"drive-thru/models"
	"drive-thru/services"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
)

const commandTimeout = 10 * time.Second

// Bot is a text ordering channel: one chat, one session.
type Bot struct {
	api     *tgbotapi.BotAPI
	svc     *services.OrderService
	staff   *services.StaffAuth
	storeID string
	log     *zap.Logger

	sessionsMu sync.RWMutex
	sessions   map[int64]string // chatID -> sessionID
}

func New(cfg *config.Config, svc *services.OrderService, staff *services.StaffAuth, log *zap.Logger) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(cfg.Telegram.Token)
	if err != nil {
		return nil, err
	}
	return &Bot{
		api:      api,
		svc:      svc,
		staff:    staff,
		storeID:  cfg.Store.ID,
		log:      log,
		sessions: make(map[int64]string),
	}, nil
}

func (b *Bot) setBotCommands() error {
	cfg := tgbotapi.NewSetMyCommands(
		tgbotapi.BotCommand{Command: "start", Description: "Nouvelle commande"},
		tgbotapi.BotCommand{Command: "add", Description: "Ajouter un article"},
		tgbotapi.BotCommand{Command: "remove", Description: "Retirer un article"},
		tgbotapi.BotCommand{Command: "order", Description: "Voir ma commande"},
		tgbotapi.BotCommand{Command: "confirm", Description: "Valider la commande"},
		tgbotapi.BotCommand{Command: "cancel", Description: "Annuler la commande"},
	)
	_, err := b.api.Request(cfg)
	return err
}

// Start polls for updates until ctx is done.
func (b *Bot) Start(ctx context.Context) {
	if err := b.setBotCommands(); err != nil {
		b.log.Warn("set bot commands", zap.Error(err))
	}
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60
	updates := b.api.GetUpdatesChan(u)

	for {
		select {
		case <-ctx.Done():
			b.api.StopReceivingUpdates()
			return
		case update, ok := <-updates:
			if !ok {
				return
			}
			if update.Message == nil {
				continue
			}
			b.handleMessage(ctx, update.Message)
		}
	}
}

func (b *Bot) handleMessage(ctx context.Context, msg *tgbotapi.Message) {
	chatID := msg.Chat.ID
	cmd, args := splitCommand(msg.Text)

	switch cmd {
	case "start":
		b.handleStart(ctx, chatID)
	case "add", "":
		b.handleAdd(ctx, chatID, args)
	case "remove":
		b.handleRemove(ctx, chatID, args)
	case "order":
		b.handleOrder(chatID)
	case "confirm":
		b.run(ctx, chatID, services.ConfirmOrderCommand{})
	case "cancel":
		b.run(ctx, chatID, services.CancelOrderCommand{Reason: "cancelled from telegram"})
	case "86", "back":
		b.deleteMessage(chatID, msg.MessageID) // it holds the staff password
		b.handleAvailability(ctx, chatID, args, cmd == "back")
	default:
		b.send(chatID, "Commande inconnue. Essayez /add 2 menu giant grand avec rustiques.")
	}
}

func (b *Bot) handleStart(ctx context.Context, chatID int64) {
	b.sessionsMu.Lock()
	old, had := b.sessions[chatID]
	delete(b.sessions, chatID)
	b.sessionsMu.Unlock()
	if had {
		_ = b.svc.EndSession(old)
	}

	if _, err := b.session(ctx, chatID); err != nil {
		b.log.Error("start session", zap.Int64("chat_id", chatID), zap.Error(err))
		b.send(chatID, "Le service de commande est indisponible.")
		return
	}
	b.send(chatID, "Bonjour ! Que souhaitez-vous commander ?\nExemple : 2 menu giant grand avec rustiques, ice tea")
}

func (b *Bot) forget(chatID int64, sessionID string) {
	b.sessionsMu.Lock()
	if b.sessions[chatID] == sessionID {
		delete(b.sessions, chatID)
	}
	b.sessionsMu.Unlock()
}

// session returns the chat's session, opening one on first use.
func (b *Bot) session(ctx context.Context, chatID int64) (string, error) {
	b.sessionsMu.RLock()
	id, ok := b.sessions[chatID]
	b.sessionsMu.RUnlock()
	if ok {
		return id, nil
	}

	sess, err := b.svc.StartSession(ctx, b.storeID, fmt.Sprintf("telegram:%d", chatID), false)
	if err != nil {
		return "", err
	}
	b.sessionsMu.Lock()
	b.sessions[chatID] = sess.ID
	b.sessionsMu.Unlock()
	return sess.ID, nil
}

func (b *Bot) handleAdd(ctx context.Context, chatID int64, text string) {
	req, err := parseAdd(text)
	if err != nil {
		b.send(chatID, "Que souhaitez-vous ajouter ?")
		return
	}
	cat, err := b.svc.Menu(ctx, b.storeID)
	if err != nil {
		b.log.Error("load menu", zap.String("store_id", b.storeID), zap.Error(err))
		b.send(chatID, "Le service de commande est indisponible.")
		return
	}
	b.runDecoded(ctx, chatID, services.CommandAddItem, req.command(cat.Products))
}

func (b *Bot) handleRemove(ctx context.Context, chatID int64, name string) {
	if strings.TrimSpace(name) == "" {
		b.send(chatID, "Quel article dois-je retirer ?")
		return
	}
	b.runDecoded(ctx, chatID, services.CommandRemoveItem, services.RemoveItemCommand{ProductName: name})
}

// runDecoded sends cmd through the same decoding and validation as tool
// calls from the voice channel.
func (b *Bot) runDecoded(ctx context.Context, chatID int64, name string, cmd services.Command) {
	raw, err := json.Marshal(cmd)
	if err != nil {
		b.log.Error("marshal command", zap.Error(err))
		return
	}
	decoded, err := services.DecodeCommand(name, raw)
	if err != nil {
		b.send(chatID, "Je n'ai pas compris votre demande.")
		return
	}
	b.run(ctx, chatID, decoded)
}

func (b *Bot) run(ctx context.Context, chatID int64, cmd services.Command) {
	ctx, cancel := context.WithTimeout(ctx, commandTimeout)
	defer cancel()

	id, err := b.session(ctx, chatID)
	if err != nil {
		b.send(chatID, "Le service de commande est indisponible.")
		return
	}
	res, err := b.svc.Execute(ctx, id, cmd)
	if errors.Is(err, services.ErrSessionNotFound) {
		// expired while the chat was quiet
		b.forget(chatID, id)
		if id, err = b.session(ctx, chatID); err == nil {
			res, err = b.svc.Execute(ctx, id, cmd)
		}
	}
	switch {
	case errors.Is(err, services.ErrOrderNotEditable), errors.Is(err, services.ErrInvalidTransition):
		b.send(chatID, "Cette commande est clôturée. Tapez /start pour en commencer une nouvelle.")
		return
	case err != nil:
		b.log.Error("execute command", zap.Int64("chat_id", chatID), zap.String("command", cmd.Name()), zap.Error(err))
		b.send(chatID, "Une erreur est survenue, veuillez réessayer.")
		return
	}

	sess, err := b.svc.Session(id)
	if err != nil {
		return
	}
	b.send(chatID, replyText(res, sess))
}

// replyText renders a command result for the chat.
func replyText(res services.CommandResult, sess services.Session) string {
	var lines []string
	if !res.Success {
		lines = append(lines, res.Message)
		if len(res.Errors) > 0 && res.Errors[0].Suggestion != "" {
			lines = append(lines, res.Errors[0].Suggestion)
		}
		return strings.Join(lines, "\n")
	}
	lines = append(lines, res.Warnings...)
	if msg := services.CustomerMessageForOrderStatus(sess.Order, sess.Order.Status); msg != "" && sess.Order.Status != models.OrderStatusDraft {
		lines = append(lines, msg)
	} else {
		lines = append(lines, engine.Summary(sess.Order, engine.SummaryShort))
	}
	if sess.Order.POSOrderID != "" && sess.Order.Status == models.OrderStatusSentToPOS {
		lines = append(lines, "Numéro de commande : "+sess.Order.POSOrderID)
	}
	return strings.Join(lines, "\n")
}

func (b *Bot) handleOrder(chatID int64) {
	b.sessionsMu.RLock()
	id, ok := b.sessions[chatID]
	b.sessionsMu.RUnlock()
	if !ok {
		b.send(chatID, "Votre commande est vide.")
		return
	}
	sess, err := b.svc.Session(id)
	if err != nil {
		b.send(chatID, "Votre commande est vide.")
		return
	}
	b.send(chatID, engine.Summary(sess.Order, engine.SummaryFull))
}

func (b *Bot) handleAvailability(ctx context.Context, chatID int64, args string, available bool) {
	password, name, ok := splitStaffArgs(args)
	if !ok {
		b.send(chatID, "Usage : /86 <mot de passe> <produit> ou /back <mot de passe> <produit>")
		return
	}
	var throttled *services.ThrottleError
	if err := b.staff.Check(fmt.Sprintf("chat:%d", chatID), password); err != nil {
		switch {
		case errors.As(err, &throttled):
			b.send(chatID, fmt.Sprintf("Trop de tentatives. Réessayez dans %d s.", throttled.WaitSeconds))
		case errors.Is(err, services.ErrStaffAuthDisabled):
			b.send(chatID, "Les actions équipier sont désactivées.")
		default:
			b.send(chatID, "Mot de passe incorrect.")
		}
		return
	}

	cat, err := b.svc.Menu(ctx, b.storeID)
	if err != nil {
		b.send(chatID, "Le service de commande est indisponible.")
		return
	}
	p, found := engine.ResolveAny(name, cat.Products)
	if !found {
		b.send(chatID, fmt.Sprintf("Produit inconnu : %s", name))
		return
	}
	if err := b.svc.SetAvailability(ctx, b.storeID, p.ID, available); err != nil {
		b.log.Error("set availability", zap.String("product_id", p.ID), zap.Error(err))
		b.send(chatID, "Impossible de modifier la disponibilité.")
		return
	}
	if available {
		b.send(chatID, fmt.Sprintf("%s est de nouveau disponible.", p.Name))
	} else {
		b.send(chatID, fmt.Sprintf("%s est en rupture.", p.Name))
	}
}

func (b *Bot) send(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	if _, err := b.api.Send(msg); err != nil {
		b.log.Warn("send error", zap.Int64("chat_id", chatID), zap.Error(err))
	}
}

func (b *Bot) deleteMessage(chatID int64, messageID int) {
	if _, err := b.api.Request(tgbotapi.NewDeleteMessage(chatID, messageID)); err != nil {
		b.log.Debug("delete message", zap.Int64("chat_id", chatID), zap.Error(err))
	}
}
