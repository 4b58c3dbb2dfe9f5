package services

import (
	"errors"
	"strings"
	"testing"

	"drive-thru/models"
)

func TestValidStatusTransition(t *testing.T) {
	tests := []struct {
		from, to models.OrderStatus
		want     bool
	}{
		{models.OrderStatusDraft, models.OrderStatusConfirmed, true},
		{models.OrderStatusDraft, models.OrderStatusSentToPOS, false},
		{models.OrderStatusConfirmed, models.OrderStatusSentToPOS, true},
		{models.OrderStatusConfirmed, models.OrderStatusDraft, false},
		{models.OrderStatusSentToPOS, models.OrderStatusAccepted, true},
		{models.OrderStatusSentToPOS, models.OrderStatusRejected, true},
		{models.OrderStatusAccepted, models.OrderStatusPreparing, true},
		{models.OrderStatusAccepted, models.OrderStatusReady, false},
		{models.OrderStatusPreparing, models.OrderStatusReady, true},
		{models.OrderStatusReady, models.OrderStatusDelivered, true},
		{models.OrderStatusDelivered, models.OrderStatusPaid, true},
		{models.OrderStatusDraft, models.OrderStatusCancelled, true},
		{models.OrderStatusSentToPOS, models.OrderStatusCancelled, true},
		{models.OrderStatusDelivered, models.OrderStatusCancelled, true},
		{models.OrderStatusRejected, models.OrderStatusCancelled, false},
		{models.OrderStatusRejected, models.OrderStatusAccepted, false},
		{models.OrderStatusPaid, models.OrderStatusCancelled, false},
		{models.OrderStatusCancelled, models.OrderStatusDraft, false},
		{"", models.OrderStatusDraft, false},
		{models.OrderStatusDraft, "", false},
	}
	for _, tt := range tests {
		got := ValidStatusTransition(tt.from, tt.to)
		if got != tt.want {
			t.Errorf("ValidStatusTransition(%q, %q) = %v, want %v", tt.from, tt.to, got, tt.want)
		}
	}
}

func TestTransition(t *testing.T) {
	o := models.Order{Status: models.OrderStatusDraft}
	if err := transition(&o, models.OrderStatusConfirmed); err != nil {
		t.Fatalf("draft -> confirmed: %v", err)
	}
	err := transition(&o, models.OrderStatusPaid)
	if !errors.Is(err, ErrInvalidTransition) {
		t.Errorf("confirmed -> paid: err = %v, want ErrInvalidTransition", err)
	}
	if o.Status != models.OrderStatusConfirmed {
		t.Errorf("status changed on failed transition: %s", o.Status)
	}
}

func TestCustomerMessageForOrderStatus(t *testing.T) {
	o := models.Order{Total: 1990}
	m := CustomerMessageForOrderStatus(o, models.OrderStatusSentToPOS)
	if !strings.Contains(m, "19,90€") {
		t.Errorf("sent_to_pos message should contain the total: %s", m)
	}
	m = CustomerMessageForOrderStatus(o, models.OrderStatusCancelled)
	if !strings.Contains(m, "annulée") {
		t.Errorf("cancelled message = %s", m)
	}
	if m := CustomerMessageForOrderStatus(o, "unknown"); m != "" {
		t.Errorf("unknown status message = %q, want empty", m)
	}
}
