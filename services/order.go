package services

import (
	"errors"
	"fmt"

	"drive-thru/engine"
	"drive-thru/models"
)

var ErrInvalidTransition = errors.New("invalid status transition")

// nextStatuses lists the forward moves of the lifecycle. Cancellation is
// handled separately: any non-terminal status may be cancelled.
var nextStatuses = map[models.OrderStatus][]models.OrderStatus{
	models.OrderStatusDraft:     {models.OrderStatusConfirmed},
	models.OrderStatusConfirmed: {models.OrderStatusSentToPOS},
	models.OrderStatusSentToPOS: {models.OrderStatusAccepted, models.OrderStatusRejected},
	models.OrderStatusAccepted:  {models.OrderStatusPreparing},
	models.OrderStatusPreparing: {models.OrderStatusReady},
	models.OrderStatusReady:     {models.OrderStatusDelivered},
	models.OrderStatusDelivered: {models.OrderStatusPaid},
}

// ValidStatusTransition returns true if moving from -> to is allowed.
func ValidStatusTransition(from, to models.OrderStatus) bool {
	if from == "" || to == "" || from.Terminal() {
		return false
	}
	if to == models.OrderStatusCancelled {
		return true
	}
	for _, next := range nextStatuses[from] {
		if next == to {
			return true
		}
	}
	return false
}

// transition sets o.Status or returns ErrInvalidTransition.
func transition(o *models.Order, to models.OrderStatus) error {
	if !ValidStatusTransition(o.Status, to) {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, o.Status, to)
	}
	o.Status = to
	return nil
}

// CustomerMessageForOrderStatus returns the French line spoken or shown to the
// customer when the order reaches status.
func CustomerMessageForOrderStatus(o models.Order, status models.OrderStatus) string {
	total := engine.FormatPrice(o.Total)
	switch status {
	case models.OrderStatusConfirmed:
		return fmt.Sprintf("Votre commande est confirmée. Total %s.", total)
	case models.OrderStatusSentToPOS:
		return fmt.Sprintf("Votre commande est transmise en cuisine. Total %s. Avancez jusqu'au guichet, s'il vous plaît.", total)
	case models.OrderStatusAccepted:
		return "La cuisine a bien reçu votre commande."
	case models.OrderStatusRejected:
		return "Votre commande n'a pas pu être enregistrée. Un équipier va vous aider."
	case models.OrderStatusPreparing:
		return "Votre commande est en préparation."
	case models.OrderStatusReady:
		return "Votre commande est prête, présentez-vous au guichet."
	case models.OrderStatusDelivered:
		return "Voici votre commande. Bon appétit !"
	case models.OrderStatusPaid:
		return fmt.Sprintf("Paiement de %s reçu. Merci et à bientôt !", total)
	case models.OrderStatusCancelled:
		return "Votre commande est annulée."
	default:
		return ""
	}
}
