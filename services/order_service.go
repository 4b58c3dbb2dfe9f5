package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"drive-thru/engine"
	"drive-thru/models"

	"go.uber.org/zap"
)

var ErrOrderNotEditable = errors.New("order is no longer editable")

// CommandResult is what a channel sends back after a command. Message is a
// short status for the conversational layer; failures carry the first
// error's French customer message.
type CommandResult struct {
	Success  bool                     `json:"success"`
	Message  string                   `json:"message"`
	Errors   []engine.ValidationError `json:"errors,omitempty"`
	Warnings []string                 `json:"warnings,omitempty"`
	Order    engine.DisplayOrder      `json:"order"`
}

// OrderService runs commands against session orders. Each session is
// sequenced by the store; the engine itself is shared.
type OrderService struct {
	engine     *engine.Engine
	catalogues CatalogueProvider
	sessions   *SessionStore
	pos        POSSubmitter
	log        *zap.Logger

	mu        sync.RWMutex
	listeners []func(Session)
	enders    []func(sessionID string)
}

func NewOrderService(eng *engine.Engine, catalogues CatalogueProvider, sessions *SessionStore, pos POSSubmitter, log *zap.Logger) *OrderService {
	return &OrderService{engine: eng, catalogues: catalogues, sessions: sessions, pos: pos, log: log}
}

// OnOrderUpdate registers fn to be called after every change to a session's
// order. Calls for one session arrive in commit order. fn must not block.
func (s *OrderService) OnOrderUpdate(fn func(Session)) {
	s.mu.Lock()
	s.listeners = append(s.listeners, fn)
	s.mu.Unlock()
}

func (s *OrderService) notify(sess Session) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, fn := range s.listeners {
		fn(sess)
	}
}

// OnSessionEnd registers fn to be called when a session is ended or expires.
func (s *OrderService) OnSessionEnd(fn func(sessionID string)) {
	s.mu.Lock()
	s.enders = append(s.enders, fn)
	s.mu.Unlock()
}

func (s *OrderService) ended(id string) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, fn := range s.enders {
		fn(id)
	}
}

// StartSession opens a session with an empty draft order. The store must
// resolve to a catalogue.
func (s *OrderService) StartSession(ctx context.Context, storeID, laneID string, testMode bool) (Session, error) {
	if storeID == "" {
		storeID = DefaultStoreID
	}
	if _, err := s.catalogues.Catalogue(ctx, storeID); err != nil {
		return Session{}, err
	}
	id := s.engine.NewID()
	sess := Session{
		ID:        id,
		StoreID:   storeID,
		LaneID:    laneID,
		TestMode:  testMode,
		Order:     s.engine.NewOrder(id, storeID, laneID),
		CreatedAt: s.engine.Now(),
	}
	s.sessions.Put(sess)
	s.log.Info("session started", zap.String("session_id", id), zap.String("store_id", storeID), zap.String("lane_id", laneID), zap.Bool("test_mode", testMode))
	return sess, nil
}

func (s *OrderService) EndSession(id string) error {
	if err := s.sessions.Delete(id); err != nil {
		return err
	}
	s.log.Info("session ended", zap.String("session_id", id))
	s.ended(id)
	return nil
}

// ExpireIdle ends every session without a command for longer than idle.
func (s *OrderService) ExpireIdle(idle time.Duration) int {
	ids := s.sessions.Expire(idle)
	for _, id := range ids {
		s.log.Info("session expired", zap.String("session_id", id), zap.Duration("idle", idle))
		s.ended(id)
	}
	return len(ids)
}

// RunExpiry calls ExpireIdle every interval until ctx is done.
func (s *OrderService) RunExpiry(ctx context.Context, idle, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.ExpireIdle(idle)
		}
	}
}

func (s *OrderService) Session(id string) (Session, error) {
	return s.sessions.Get(id)
}

// Execute applies one command to the session's order. Domain failures come
// back as a CommandResult with Success false; the returned error is reserved
// for unknown sessions, closed orders and infrastructure failures.
func (s *OrderService) Execute(ctx context.Context, sessionID string, cmd Command) (CommandResult, error) {
	var res CommandResult
	changed := false
	sess, err := s.sessions.update(sessionID, func(sess *Session) error {
		var err error
		switch c := cmd.(type) {
		case AddItemCommand:
			res, changed, err = s.mutate(ctx, sess, func(o models.Order, cat Catalogue) engine.Result {
				return s.engine.AddItem(o, c.Parsed(), cat.Products, cat.Rules)
			}, "Item added successfully")
		case RemoveItemCommand:
			res, changed, err = s.mutate(ctx, sess, func(o models.Order, cat Catalogue) engine.Result {
				return s.engine.RemoveByName(o, c.ProductName, cat.Products)
			}, "Item removed successfully")
		case ConfirmOrderCommand:
			res, changed, err = s.confirm(ctx, sess)
		case CancelOrderCommand:
			res, changed, err = s.cancel(ctx, sess, c.Reason)
		default:
			return fmt.Errorf("%w: %T", ErrUnknownCommand, cmd)
		}
		return err
	}, func(committed Session) {
		if changed {
			s.notify(committed)
		}
	})

	logger := s.log.With(zap.String("session_id", sessionID), zap.String("command", cmd.Name()))
	if err != nil {
		logger.Warn("command failed", zap.Error(err))
		return CommandResult{}, err
	}
	if !res.Success {
		if len(res.Errors) > 0 {
			logger.Info("command rejected", zap.String("order_id", sess.Order.ID), zap.String("error_code", string(res.Errors[0].Code)))
		}
	} else {
		logger.Info("command applied", zap.String("order_id", sess.Order.ID), zap.Int64("total", sess.Order.Total))
	}
	res.Order = engine.ToDisplay(sess.Order)
	return res, nil
}

func (s *OrderService) mutate(ctx context.Context, sess *Session, apply func(models.Order, Catalogue) engine.Result, okMessage string) (CommandResult, bool, error) {
	if sess.Order.Status != models.OrderStatusDraft {
		return CommandResult{}, false, fmt.Errorf("%w: status %s", ErrOrderNotEditable, sess.Order.Status)
	}
	cat, err := s.catalogues.Catalogue(ctx, sess.StoreID)
	if err != nil {
		return CommandResult{}, false, err
	}
	r := apply(sess.Order, cat)
	if !r.Success {
		return failedResult(r.Errors, r.Warnings), false, nil
	}
	r.Order.UpdatedAt = s.engine.Now()
	sess.Order = r.Order
	return CommandResult{Success: true, Message: okMessage, Warnings: r.Warnings}, true, nil
}

func failedResult(errs []engine.ValidationError, warnings []string) CommandResult {
	res := CommandResult{Success: false, Errors: errs, Warnings: warnings}
	if len(errs) > 0 {
		res.Message = errs[0].CustomerMessage
	}
	return res
}

// confirm validates the draft and hands it to the till. A till failure
// leaves the order in draft so the customer can retry or change it.
func (s *OrderService) confirm(ctx context.Context, sess *Session) (CommandResult, bool, error) {
	cat, err := s.catalogues.Catalogue(ctx, sess.StoreID)
	if err != nil {
		return CommandResult{}, false, err
	}
	if report := engine.Validate(sess.Order, cat.Products, cat.Rules); !report.Valid {
		return failedResult(report.Errors, nil), false, nil
	}

	o := sess.Order.Clone()
	if err := transition(&o, models.OrderStatusConfirmed); err != nil {
		return CommandResult{}, false, err
	}
	now := s.engine.Now()
	o.ConfirmedAt = &now
	o.UpdatedAt = now

	message := "Order sent to POS"
	if sess.TestMode {
		o.POSOrderID = fmt.Sprintf("TEST-%d", now.UnixMilli())
		message = "Order confirmed in test mode"
	} else {
		receipt, err := s.pos.Submit(ctx, o)
		if err != nil {
			var perr *POSError
			if !errors.As(err, &perr) {
				return CommandResult{}, false, fmt.Errorf("pos submit: %w", err)
			}
			s.log.Warn("pos rejected order", zap.String("session_id", sess.ID), zap.String("order_id", o.ID), zap.String("error_code", perr.Code), zap.Bool("recoverable", perr.Recoverable))
			action := engine.ActionTransferHuman
			if perr.Recoverable {
				action = engine.ActionNone
			}
			return failedResult([]engine.ValidationError{{
				Code:            engine.ErrorCode(perr.Code),
				Message:         perr.Message,
				CustomerMessage: perr.CustomerMessage,
				Recoverable:     perr.Recoverable,
				SuggestedAction: action,
			}}, nil), false, nil
		}
		o.POSOrderID = receipt.OrderID
	}
	if err := transition(&o, models.OrderStatusSentToPOS); err != nil {
		return CommandResult{}, false, err
	}
	sess.Order = o
	return CommandResult{Success: true, Message: message}, true, nil
}

func (s *OrderService) cancel(ctx context.Context, sess *Session, reason string) (CommandResult, bool, error) {
	o := sess.Order.Clone()
	if err := transition(&o, models.OrderStatusCancelled); err != nil {
		return CommandResult{}, false, err
	}
	if o.POSOrderID != "" && !strings.HasPrefix(o.POSOrderID, "TEST-") {
		if err := s.pos.Cancel(ctx, o.POSOrderID, reason); err != nil {
			var perr *POSError
			if errors.As(err, &perr) {
				return failedResult([]engine.ValidationError{{
					Code:            engine.ErrorCode(perr.Code),
					Message:         perr.Message,
					CustomerMessage: "Impossible d'annuler la commande.",
					SuggestedAction: engine.ActionTransferHuman,
				}}, nil), false, nil
			}
			return CommandResult{}, false, fmt.Errorf("pos cancel: %w", err)
		}
	}
	o.UpdatedAt = s.engine.Now()
	sess.Order = o
	return CommandResult{Success: true, Message: "Order cancelled"}, true, nil
}

// SetAvailability marks a product in or out of stock for a store. Orders
// already holding the product keep it; the validator flags it at
// confirmation.
func (s *OrderService) SetAvailability(ctx context.Context, storeID, productID string, available bool) error {
	if err := s.catalogues.SetAvailability(ctx, storeID, productID, available); err != nil {
		return err
	}
	s.log.Info("availability changed", zap.String("store_id", storeID), zap.String("product_id", productID), zap.Bool("available", available))
	return nil
}

// Menu returns the store's catalogue snapshot.
func (s *OrderService) Menu(ctx context.Context, storeID string) (Catalogue, error) {
	return s.catalogues.Catalogue(ctx, storeID)
}
