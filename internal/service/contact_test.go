package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/studahub/backend/internal/antispam"
	"github.com/studahub/backend/internal/model"
	"github.com/studahub/backend/internal/repository"
)

func newContactService(t *testing.T) (ContactService, *testEnv) {
	t.Helper()
	env := newTestEnv(t)
	store := antispam.NewMemoryStore(antispam.Config{})
	t.Cleanup(func() { _ = store.Close() })
	scorer := antispam.NewScorer(store, antispam.Config{})
	messages := repository.NewMessageRepository(env.db)
	return NewContactService(messages, scorer, env.outbox, "staff@studahub.local"), env
}

func humanInput() ContactInput {
	return ContactInput{
		Name:      "Maria Souza",
		Email:     "maria.souza@gmail.com",
		Subject:   "Course question",
		Message:   "Does the statistics course include the exercise sheets?",
		IP:        "203.0.113.20",
		UserAgent: "Mozilla/5.0 (X11; Linux x86_64)",
	}
}

func TestSubmitStoresAndNotifiesStaff(t *testing.T) {
	svc, env := newContactService(t)

	m, err := svc.Submit(context.Background(), humanInput())
	require.NoError(t, err)
	assert.Equal(t, model.MessageUnread, m.Status)
	assert.Equal(t, model.PriorityNormal, m.Priority)

	pending, err := env.outbox.CountPending(context.Background())
	require.NoError(t, err)
	assert.EqualValues(t, 1, pending)
}

func TestSubmitHoneypotBlocked(t *testing.T) {
	svc, env := newContactService(t)

	in := humanInput()
	in.Honeypot = "http://spam.example"
	_, err := svc.Submit(context.Background(), in)
	assert.ErrorIs(t, err, ErrSpamBlocked)

	// Nothing stored, nothing mailed.
	var count int64
	require.NoError(t, env.db.Model(&model.ContactMessage{}).Count(&count).Error)
	assert.EqualValues(t, 0, count)
	pending, err := env.outbox.CountPending(context.Background())
	require.NoError(t, err)
	assert.EqualValues(t, 0, pending)
}

func TestSubmitBorderlineAsksForCaptcha(t *testing.T) {
	svc, _ := newContactService(t)

	in := humanInput()
	in.Email = "someone@mailinator.com"
	_, err := svc.Submit(context.Background(), in)
	assert.ErrorIs(t, err, ErrCaptchaRequired)
}

func TestPaymentComplaintsGetHighPriority(t *testing.T) {
	svc, _ := newContactService(t)

	in := humanInput()
	in.Subject = "Problema com pagamento"
	in.Message = "I paid yesterday and the course is still locked."
	m, err := svc.Submit(context.Background(), in)
	require.NoError(t, err)
	assert.Equal(t, model.PriorityHigh, m.Priority)
}
