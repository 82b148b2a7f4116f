package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/studahub/backend/internal/model"
	"github.com/studahub/backend/internal/repository"
)

func newCollabService(t *testing.T) (CollaboratorService, *testEnv) {
	t.Helper()
	env := newTestEnv(t)
	apps := repository.NewCollaboratorRepository(env.db)
	return NewCollaboratorService(apps, env.users, env.outbox), env
}

func TestApplyOncePerUser(t *testing.T) {
	svc, env := newCollabService(t)
	seedUser(t, env.db, "u1", model.RoleStudent)

	app, err := svc.Apply(context.Background(), "u1", "https://cv.example/u1.pdf", "I want to help")
	require.NoError(t, err)
	assert.Equal(t, model.ApplicationPending, app.Status)
	assert.Equal(t, model.StageReceived, app.Stage)

	_, err = svc.Apply(context.Background(), "u1", "https://cv.example/u1.pdf", "again")
	assert.ErrorIs(t, err, ErrDuplicateApplication)
}

func TestAdvanceStageForwardOnly(t *testing.T) {
	svc, env := newCollabService(t)
	seedUser(t, env.db, "u1", model.RoleStudent)
	app, err := svc.Apply(context.Background(), "u1", "https://cv.example/u1.pdf", "hi")
	require.NoError(t, err)

	adv, err := svc.AdvanceStage(context.Background(), app.ID, model.StageInterview)
	require.NoError(t, err)
	assert.Equal(t, model.StageInterview, adv.Stage)
	assert.Equal(t, model.ApplicationInterviewing, adv.Status)

	_, err = svc.AdvanceStage(context.Background(), app.ID, model.StageScreening)
	assert.ErrorIs(t, err, ErrBadTransition, "stages never move backwards")

	_, err = svc.AdvanceStage(context.Background(), app.ID, "LUNCH")
	assert.ErrorIs(t, err, ErrUnknownStage)
}

func TestEvaluationAveragesIntoScore(t *testing.T) {
	svc, env := newCollabService(t)
	seedUser(t, env.db, "u1", model.RoleStudent)
	seedUser(t, env.db, "eval1", model.RoleAdmin)
	seedUser(t, env.db, "eval2", model.RoleAdmin)
	app, err := svc.Apply(context.Background(), "u1", "https://cv.example/u1.pdf", "hi")
	require.NoError(t, err)

	require.NoError(t, svc.Evaluate(context.Background(), app.ID, "eval1", 8, "solid"))
	require.NoError(t, svc.Evaluate(context.Background(), app.ID, "eval2", 6, "ok"))

	got, err := svc.Get(context.Background(), app.ID)
	require.NoError(t, err)
	require.NotNil(t, got.Score)
	assert.InDelta(t, 7.0, *got.Score, 0.001)
}

func TestApprovePromotesUser(t *testing.T) {
	svc, env := newCollabService(t)
	seedUser(t, env.db, "u1", model.RoleStudent)
	app, err := svc.Apply(context.Background(), "u1", "https://cv.example/u1.pdf", "hi")
	require.NoError(t, err)

	require.NoError(t, svc.Approve(context.Background(), app.ID))

	got, err := svc.Get(context.Background(), app.ID)
	require.NoError(t, err)
	assert.Equal(t, model.ApplicationApproved, got.Status)
	assert.Equal(t, model.StageHired, got.Stage)

	u, err := env.users.GetByID(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, model.RoleCollaborator, u.Role, "approval and role change are one transaction")
}
