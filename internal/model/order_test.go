package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPaymentTransitions(t *testing.T) {
	cases := []struct {
		from, to PaymentStatus
		ok       bool
	}{
		{PaymentPending, PaymentConfirmed, true},
		{PaymentPending, PaymentCanceled, true},
		{PaymentPaid, PaymentConfirmed, true},
		{PaymentConfirmed, PaymentRefunded, true},
		{PaymentOverdue, PaymentPaid, true},
		{PaymentConfirmed, PaymentPending, false},
		{PaymentRefunded, PaymentConfirmed, false},
		{PaymentCanceled, PaymentPaid, false},
		{PaymentConfirmed, PaymentCanceled, false},
	}
	for _, c := range cases {
		assert.Equal(t, c.ok, c.from.CanTransition(c.to), "%s -> %s", c.from, c.to)
	}
}

func TestPaymentTransitionSameStateIsReplay(t *testing.T) {
	// Webhook providers redeliver; a same-state update must stay legal.
	for _, s := range []PaymentStatus{PaymentPending, PaymentConfirmed, PaymentRefunded, PaymentCanceled} {
		assert.True(t, s.CanTransition(s), "replay of %s", s)
	}
}

func TestPaymentTerminalStates(t *testing.T) {
	assert.True(t, PaymentRefunded.Terminal())
	assert.True(t, PaymentCanceled.Terminal())
	assert.False(t, PaymentConfirmed.Terminal())
	assert.False(t, PaymentPending.Terminal())
}

func TestCustomPaperTransitions(t *testing.T) {
	assert.True(t, CustomPaperRequested.CanTransition(CustomPaperQuoted))
	assert.True(t, CustomPaperQuoted.CanTransition(CustomPaperApproved))
	assert.True(t, CustomPaperQuoted.CanTransition(CustomPaperRejected))
	assert.True(t, CustomPaperReview.CanTransition(CustomPaperInProgress), "review can bounce back for fixes")

	assert.False(t, CustomPaperRequested.CanTransition(CustomPaperApproved), "cannot approve without a quote")
	assert.False(t, CustomPaperApproved.CanTransition(CustomPaperRejected), "no reject after approval")
	assert.False(t, CustomPaperCompleted.CanTransition(CustomPaperInProgress))
	assert.False(t, CustomPaperRejected.CanTransition(CustomPaperQuoted))
}

func TestValidPaymentMethod(t *testing.T) {
	assert.True(t, ValidPaymentMethod(MethodPix))
	assert.True(t, ValidPaymentMethod(MethodBoleto))
	assert.False(t, ValidPaymentMethod("PAYPAL"))
}
