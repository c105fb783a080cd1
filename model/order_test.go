package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDeriveOrderStatus(t *testing.T) {
	tests := []struct {
		name        string
		paymentType string
		deferred    string
		expected    string
	}{
		{name: "cash is paid", paymentType: "Cash", deferred: "Venmo", expected: OrderStatusPaid},
		{name: "deferred label is pending", paymentType: "Venmo", deferred: "Venmo", expected: OrderStatusPending},
		{name: "match is exact, not case folded", paymentType: "venmo", deferred: "Venmo", expected: OrderStatusPaid},
		{name: "free-form label is paid", paymentType: "IOU scribbled on a napkin", deferred: "Venmo", expected: OrderStatusPaid},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, DeriveOrderStatus(tc.paymentType, tc.deferred))
		})
	}
}
