package service

import (
	"context"
	"errors"

	"github.com/studahub/backend/internal/model"
	"github.com/studahub/backend/internal/repository"
)

var (
	ErrDuplicateApplication = errors.New("user already has an application")
	ErrUnknownStage         = errors.New("unknown application stage")
)

type CollaboratorService interface {
	// Apply inserts directly and treats the unique-index violation as the
	// duplicate signal; there is no pre-check query to race against.
	Apply(ctx context.Context, userID, resumeURL, motivation string) (*model.CollaboratorApplication, error)
	MyApplication(ctx context.Context, userID string) (*model.CollaboratorApplication, error)
	List(ctx context.Context, status model.ApplicationStatus, page, pageSize int) ([]*model.CollaboratorApplication, error)
	Get(ctx context.Context, id string) (*model.CollaboratorApplication, error)

	AdvanceStage(ctx context.Context, id string, stage model.ApplicationStage) (*model.CollaboratorApplication, error)
	Evaluate(ctx context.Context, id, evaluatorID string, score float64, notes string) error
	Approve(ctx context.Context, id string) error
	Reject(ctx context.Context, id string) (*model.CollaboratorApplication, error)
}

type collaboratorService struct {
	apps   repository.CollaboratorRepository
	users  repository.UserRepository
	outbox repository.OutboxRepository
}

func NewCollaboratorService(apps repository.CollaboratorRepository, users repository.UserRepository, outbox repository.OutboxRepository) CollaboratorService {
	return &collaboratorService{apps: apps, users: users, outbox: outbox}
}

func (s *collaboratorService) Apply(ctx context.Context, userID, resumeURL, motivation string) (*model.CollaboratorApplication, error) {
	a := &model.CollaboratorApplication{
		UserID:     userID,
		Status:     model.ApplicationPending,
		Stage:      model.StageReceived,
		ResumeURL:  resumeURL,
		Motivation: motivation,
	}
	if err := s.apps.Create(ctx, a); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrDuplicateApplication
		}
		return nil, err
	}
	return a, nil
}

func (s *collaboratorService) MyApplication(ctx context.Context, userID string) (*model.CollaboratorApplication, error) {
	return s.apps.GetByUserID(ctx, userID)
}

func (s *collaboratorService) List(ctx context.Context, status model.ApplicationStatus, page, pageSize int) ([]*model.CollaboratorApplication, error) {
	offset, limit := pageBounds(page, pageSize)
	return s.apps.List(ctx, status, offset, limit)
}

func (s *collaboratorService) Get(ctx context.Context, id string) (*model.CollaboratorApplication, error) {
	return s.apps.GetByID(ctx, id)
}

// AdvanceStage only moves forward through the pipeline; an interview-or-later
// stage also flips the status to INTERVIEWING.
func (s *collaboratorService) AdvanceStage(ctx context.Context, id string, stage model.ApplicationStage) (*model.CollaboratorApplication, error) {
	idx := model.StageIndex(stage)
	if idx < 0 {
		return nil, ErrUnknownStage
	}
	a, err := s.apps.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if model.StageIndex(a.Stage) >= idx {
		return nil, ErrBadTransition
	}
	a.Stage = stage
	if idx >= model.StageIndex(model.StageInterview) && a.Status == model.ApplicationPending {
		a.Status = model.ApplicationInterviewing
	}
	if err := s.apps.Update(ctx, a); err != nil {
		return nil, err
	}
	return a, nil
}

func (s *collaboratorService) Evaluate(ctx context.Context, id, evaluatorID string, score float64, notes string) error {
	return s.apps.AddEvaluation(ctx, &model.Evaluation{
		ApplicationID: id,
		EvaluatorID:   evaluatorID,
		Score:         score,
		Notes:         notes,
	})
}

// Approve promotes the linked user to COLLABORATOR in the same transaction
// as the status change, then emails the applicant.
func (s *collaboratorService) Approve(ctx context.Context, id string) error {
	if err := s.apps.Approve(ctx, id); err != nil {
		return err
	}
	a, err := s.apps.GetByID(ctx, id)
	if err != nil {
		return err
	}
	s.notify(ctx, a.UserID, "Welcome to the team",
		"Your collaborator application was approved.", "application_approved", a.ID)
	return nil
}

func (s *collaboratorService) Reject(ctx context.Context, id string) (*model.CollaboratorApplication, error) {
	a, err := s.apps.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if a.Status == model.ApplicationApproved || a.Status == model.ApplicationRejected {
		return nil, ErrAlreadyDecided
	}
	a.Status = model.ApplicationRejected
	if err := s.apps.Update(ctx, a); err != nil {
		return nil, err
	}
	s.notify(ctx, a.UserID, "About your application",
		"Your collaborator application was not accepted this time.", "application_rejected", a.ID)
	return a, nil
}

func (s *collaboratorService) notify(ctx context.Context, userID, subject, body, kind, refID string) {
	u, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return
	}
	_ = s.outbox.Enqueue(ctx, &model.EmailOutbox{
		Recipient: u.Email,
		Subject:   subject,
		Body:      body,
		Kind:      kind,
		RefID:     refID,
	})
}
