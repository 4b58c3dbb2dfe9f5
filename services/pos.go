package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"drive-thru/models"

	"go.uber.org/zap"
)

const (
	POSChannel = "drive_thru"
	POSSource  = "voicebot"
)

type POSModifier struct {
	Type      models.ComponentType `json:"type"`
	ProductID string               `json:"productId"`
	Price     int64                `json:"price"`
}

type POSItem struct {
	ProductID string        `json:"productId"`
	Quantity  int           `json:"quantity"`
	UnitPrice int64         `json:"unitPrice"`
	Modifiers []POSModifier `json:"modifiers"`
}

type POSMetadata struct {
	SessionID string `json:"sessionId"`
	LaneID    string `json:"laneId,omitempty"`
	Source    string `json:"source"`
}

// POSPayload is the order as the till receives it.
type POSPayload struct {
	ExternalID string      `json:"externalId"`
	StoreID    string      `json:"storeId"`
	Channel    string      `json:"channel"`
	Items      []POSItem   `json:"items"`
	Subtotal   int64       `json:"subtotal"`
	Tax        int64       `json:"tax"`
	Total      int64       `json:"total"`
	Currency   string      `json:"currency"`
	Metadata   POSMetadata `json:"metadata"`
}

func BuildPOSPayload(o models.Order) POSPayload {
	p := POSPayload{
		ExternalID: o.ID,
		StoreID:    o.StoreID,
		Channel:    POSChannel,
		Items:      make([]POSItem, 0, len(o.Items)),
		Subtotal:   o.Subtotal,
		Tax:        o.Tax,
		Total:      o.Total,
		Currency:   o.Currency,
		Metadata:   POSMetadata{SessionID: o.SessionID, LaneID: o.LaneID, Source: POSSource},
	}
	for _, it := range o.Items {
		item := POSItem{
			ProductID: it.ProductID,
			Quantity:  it.Qty,
			UnitPrice: it.UnitPrice,
			Modifiers: make([]POSModifier, 0, len(it.Modifiers)),
		}
		for _, m := range it.Modifiers {
			item.Modifiers = append(item.Modifiers, POSModifier{Type: m.Type, ProductID: m.ProductID, Price: m.ExtraPrice})
		}
		p.Items = append(p.Items, item)
	}
	return p
}

// POSError is a failure reported by, or while talking to, the till.
type POSError struct {
	Code            string
	Message         string
	CustomerMessage string
	Recoverable     bool
}

func (e *POSError) Error() string {
	return fmt.Sprintf("pos %s: %s", e.Code, e.Message)
}

var posCustomerMessages = map[string]string{
	"PRODUCT_NOT_FOUND":    "Un produit n'est plus disponible.",
	"PRODUCT_UNAVAILABLE":  "Un produit est en rupture de stock.",
	"INVALID_QUANTITY":     "Quantité invalide.",
	"STORE_CLOSED":         "Le restaurant est fermé.",
	"PAYMENT_REQUIRED":     "Veuillez vous présenter au guichet de paiement.",
	"ORDER_LIMIT_EXCEEDED": "La commande dépasse les limites autorisées.",
	"SYSTEM_ERROR":         "Erreur système. Veuillez réessayer.",
	"DUPLICATE_ORDER":      "Cette commande a déjà été enregistrée.",
	"POS_TIMEOUT":          "La caisse ne répond pas. Veuillez patienter.",
	"POS_CONNECTION_ERROR": "Erreur de connexion avec la caisse.",
}

const posDefaultCustomerMessage = "Erreur lors de l'envoi de la commande."

// NewPOSError fills the customer message and recoverability from code.
func NewPOSError(code, message string) *POSError {
	msg, ok := posCustomerMessages[code]
	if !ok {
		msg = posDefaultCustomerMessage
	}
	recoverable := false
	switch code {
	case "SYSTEM_ERROR", "POS_TIMEOUT", "POS_CONNECTION_ERROR":
		recoverable = true
	}
	return &POSError{Code: code, Message: message, CustomerMessage: msg, Recoverable: recoverable}
}

// posContextError maps a done context to the transport error the till
// would have produced.
func posContextError(err error) *POSError {
	if errors.Is(err, context.DeadlineExceeded) {
		return NewPOSError("POS_TIMEOUT", "pos request timed out")
	}
	return NewPOSError("POS_CONNECTION_ERROR", err.Error())
}

type POSReceipt struct {
	OrderID          string
	OrderNumber      string
	EstimatedMinutes int
}

// POSSubmitter hands confirmed orders to the till. Errors are *POSError.
type POSSubmitter interface {
	Submit(ctx context.Context, o models.Order) (POSReceipt, error)
	Cancel(ctx context.Context, posOrderID, reason string) error
}

// ShadowPOS accepts every order without sending it anywhere. The payload is
// built and logged so it can be compared with what the till would receive.
type ShadowPOS struct {
	log *zap.Logger
	now func() time.Time
}

func NewShadowPOS(log *zap.Logger) *ShadowPOS {
	return &ShadowPOS{log: log, now: time.Now}
}

func (p *ShadowPOS) Submit(ctx context.Context, o models.Order) (POSReceipt, error) {
	if err := ctx.Err(); err != nil {
		return POSReceipt{}, posContextError(err)
	}
	payload := BuildPOSPayload(o)
	ms := p.now().UnixMilli()
	r := POSReceipt{
		OrderID:          fmt.Sprintf("MOCK-%d", ms),
		OrderNumber:      fmt.Sprintf("A-%d", ms%100),
		EstimatedMinutes: 15,
	}
	p.log.Info("shadow mode: order not sent to pos",
		zap.String("order_id", o.ID),
		zap.String("store_id", o.StoreID),
		zap.String("pos_order_id", r.OrderID),
		zap.Int("items", len(payload.Items)),
		zap.Int64("total", payload.Total),
	)
	return r, nil
}

func (p *ShadowPOS) Cancel(ctx context.Context, posOrderID, reason string) error {
	if err := ctx.Err(); err != nil {
		return posContextError(err)
	}
	p.log.Info("shadow mode: pos cancel skipped", zap.String("pos_order_id", posOrderID), zap.String("reason", reason))
	return nil
}
