package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/studahub/backend/internal/model"
	"github.com/studahub/backend/internal/repository"
)

func newPaperService(t *testing.T) (CustomPaperService, *testEnv) {
	t.Helper()
	env := newTestEnv(t)
	papers := repository.NewCustomPaperRepository(env.db)
	return NewCustomPaperService(papers, env.users, env.outbox), env
}

func requestPaper(t *testing.T, svc CustomPaperService, userID string) *model.CustomPaper {
	t.Helper()
	p, err := svc.Request(context.Background(), userID, CustomPaperInput{
		Title:       "Market analysis",
		Description: "20 pages on regional e-commerce trends",
		Subject:     "economics",
		Pages:       20,
	})
	require.NoError(t, err)
	require.Equal(t, model.CustomPaperRequested, p.Status)
	return p
}

func TestQuoteThenApproveFreezesFinalPrice(t *testing.T) {
	svc, env := newPaperService(t)
	seedUser(t, env.db, "student", model.RoleStudent)
	p := requestPaper(t, svc, "student")

	quoted, err := svc.Quote(context.Background(), p.ID, 5000, nil)
	require.NoError(t, err)
	assert.Equal(t, model.CustomPaperQuoted, quoted.Status)
	require.NotNil(t, quoted.QuotedCents)
	assert.EqualValues(t, 5000, *quoted.QuotedCents)

	approved, err := svc.Approve(context.Background(), "student", p.ID)
	require.NoError(t, err)
	assert.Equal(t, model.CustomPaperApproved, approved.Status)
	require.NotNil(t, approved.FinalCents)
	assert.EqualValues(t, 5000, *approved.FinalCents)
}

func TestApproveRequiresQuote(t *testing.T) {
	svc, env := newPaperService(t)
	seedUser(t, env.db, "student", model.RoleStudent)
	p := requestPaper(t, svc, "student")

	_, err := svc.Approve(context.Background(), "student", p.ID)
	assert.ErrorIs(t, err, ErrNotQuoted)
}

func TestApproveOnlyByOwner(t *testing.T) {
	svc, env := newPaperService(t)
	seedUser(t, env.db, "student", model.RoleStudent)
	seedUser(t, env.db, "other", model.RoleStudent)
	p := requestPaper(t, svc, "student")
	_, err := svc.Quote(context.Background(), p.ID, 5000, nil)
	require.NoError(t, err)

	_, err = svc.Approve(context.Background(), "other", p.ID)
	assert.ErrorIs(t, err, ErrNotOwner)
}

func TestDoubleApproveRejected(t *testing.T) {
	svc, env := newPaperService(t)
	seedUser(t, env.db, "student", model.RoleStudent)
	p := requestPaper(t, svc, "student")
	_, err := svc.Quote(context.Background(), p.ID, 5000, nil)
	require.NoError(t, err)
	_, err = svc.Approve(context.Background(), "student", p.ID)
	require.NoError(t, err)

	_, err = svc.Approve(context.Background(), "student", p.ID)
	assert.ErrorIs(t, err, ErrNotQuoted, "approval is only legal from exactly QUOTED")
}

func TestQuoteRequiresPositivePrice(t *testing.T) {
	svc, env := newPaperService(t)
	seedUser(t, env.db, "student", model.RoleStudent)
	p := requestPaper(t, svc, "student")

	_, err := svc.Quote(context.Background(), p.ID, 0, nil)
	assert.ErrorIs(t, err, ErrMissingQuote)
}

func TestRejectAfterApprovalFails(t *testing.T) {
	svc, env := newPaperService(t)
	seedUser(t, env.db, "student", model.RoleStudent)
	p := requestPaper(t, svc, "student")
	_, err := svc.Quote(context.Background(), p.ID, 5000, nil)
	require.NoError(t, err)
	_, err = svc.Approve(context.Background(), "student", p.ID)
	require.NoError(t, err)

	_, err = svc.Reject(context.Background(), p.ID)
	assert.ErrorIs(t, err, ErrAlreadyDecided)
}

func TestDeliverMovesToReview(t *testing.T) {
	svc, env := newPaperService(t)
	seedUser(t, env.db, "student", model.RoleStudent)
	p := requestPaper(t, svc, "student")
	_, err := svc.Quote(context.Background(), p.ID, 5000, nil)
	require.NoError(t, err)
	_, err = svc.Approve(context.Background(), "student", p.ID)
	require.NoError(t, err)
	_, err = svc.Progress(context.Background(), p.ID, model.CustomPaperInProgress)
	require.NoError(t, err)

	delivered, err := svc.Deliver(context.Background(), p.ID, "https://files.example/paper.pdf")
	require.NoError(t, err)
	assert.Equal(t, model.CustomPaperReview, delivered.Status)
	assert.Equal(t, "https://files.example/paper.pdf", delivered.DeliverableURL)

	// Review can be sent back for fixes or completed.
	_, err = svc.Progress(context.Background(), p.ID, model.CustomPaperCompleted)
	assert.NoError(t, err)
}

func TestProgressRejectsIllegalJump(t *testing.T) {
	svc, env := newPaperService(t)
	seedUser(t, env.db, "student", model.RoleStudent)
	p := requestPaper(t, svc, "student")

	_, err := svc.Progress(context.Background(), p.ID, model.CustomPaperCompleted)
	assert.ErrorIs(t, err, ErrBadTransition)
}

func TestMessagesRestrictedToOwnerAndStaff(t *testing.T) {
	svc, env := newPaperService(t)
	seedUser(t, env.db, "student", model.RoleStudent)
	seedUser(t, env.db, "other", model.RoleStudent)
	seedUser(t, env.db, "staff", model.RoleCollaborator)
	p := requestPaper(t, svc, "student")

	_, err := svc.AddMessage(context.Background(), p.ID, "student", model.RoleStudent, "any update?")
	require.NoError(t, err)
	_, err = svc.AddMessage(context.Background(), p.ID, "staff", model.RoleCollaborator, "drafting now")
	require.NoError(t, err)

	_, err = svc.AddMessage(context.Background(), p.ID, "other", model.RoleStudent, "sneaky")
	assert.ErrorIs(t, err, ErrNotOwner)

	msgs, err := svc.Messages(context.Background(), "student", false, p.ID)
	require.NoError(t, err)
	assert.Len(t, msgs, 2)

	_, err = svc.Messages(context.Background(), "other", false, p.ID)
	assert.ErrorIs(t, err, ErrNotOwner)
}
