package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/studahub/backend/internal/model"
	"github.com/studahub/backend/internal/repository"
)

var (
	ErrNotOwner       = errors.New("not the owner of this request")
	ErrNotQuoted      = errors.New("request must be quoted before approval")
	ErrBadTransition  = errors.New("illegal status transition")
	ErrMissingQuote   = errors.New("quoted price is required")
	ErrAlreadyDecided = errors.New("request already decided")
)

type CustomPaperInput struct {
	Title       string
	Description string
	Subject     string
	Pages       int
	Urgency     model.Urgency
	Deadline    *time.Time
}

type CustomPaperService interface {
	Request(ctx context.Context, userID string, in CustomPaperInput) (*model.CustomPaper, error)
	Get(ctx context.Context, userID string, isStaff bool, id string) (*model.CustomPaper, error)
	ListMine(ctx context.Context, userID string, page, pageSize int) ([]*model.CustomPaper, error)
	ListAll(ctx context.Context, status model.CustomPaperStatus, page, pageSize int) ([]*model.CustomPaper, error)

	// Quote, Reject, Progress and Deliver are staff actions; Approve belongs
	// to the owning student and only succeeds from exactly QUOTED.
	Quote(ctx context.Context, id string, priceCents int64, deadline *time.Time) (*model.CustomPaper, error)
	Approve(ctx context.Context, userID, id string) (*model.CustomPaper, error)
	Reject(ctx context.Context, id string) (*model.CustomPaper, error)
	Progress(ctx context.Context, id string, next model.CustomPaperStatus) (*model.CustomPaper, error)
	Deliver(ctx context.Context, id, fileURL string) (*model.CustomPaper, error)

	AddMessage(ctx context.Context, paperID, senderID string, role model.Role, content string) (*model.CustomPaperMessage, error)
	Messages(ctx context.Context, userID string, isStaff bool, paperID string) ([]*model.CustomPaperMessage, error)
}

type customPaperService struct {
	papers repository.CustomPaperRepository
	users  repository.UserRepository
	outbox repository.OutboxRepository
}

func NewCustomPaperService(papers repository.CustomPaperRepository, users repository.UserRepository, outbox repository.OutboxRepository) CustomPaperService {
	return &customPaperService{papers: papers, users: users, outbox: outbox}
}

func (s *customPaperService) Request(ctx context.Context, userID string, in CustomPaperInput) (*model.CustomPaper, error) {
	urgency := in.Urgency
	if urgency == "" {
		urgency = model.UrgencyNormal
	}
	if !model.ValidUrgency(urgency) {
		return nil, fmt.Errorf("invalid urgency %q", in.Urgency)
	}
	p := &model.CustomPaper{
		UserID:      userID,
		Title:       in.Title,
		Description: in.Description,
		Subject:     in.Subject,
		Pages:       in.Pages,
		Urgency:     urgency,
		Status:      model.CustomPaperRequested,
		Deadline:    in.Deadline,
	}
	if err := s.papers.Create(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *customPaperService) Get(ctx context.Context, userID string, isStaff bool, id string) (*model.CustomPaper, error) {
	p, err := s.papers.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !isStaff && p.UserID != userID {
		return nil, ErrNotOwner
	}
	return p, nil
}

func (s *customPaperService) ListMine(ctx context.Context, userID string, page, pageSize int) ([]*model.CustomPaper, error) {
	offset, limit := pageBounds(page, pageSize)
	return s.papers.ListByUser(ctx, userID, offset, limit)
}

func (s *customPaperService) ListAll(ctx context.Context, status model.CustomPaperStatus, page, pageSize int) ([]*model.CustomPaper, error) {
	offset, limit := pageBounds(page, pageSize)
	return s.papers.List(ctx, status, offset, limit)
}

func (s *customPaperService) Quote(ctx context.Context, id string, priceCents int64, deadline *time.Time) (*model.CustomPaper, error) {
	if priceCents <= 0 {
		return nil, ErrMissingQuote
	}
	p, err := s.papers.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !p.Status.CanTransition(model.CustomPaperQuoted) {
		return nil, ErrBadTransition
	}
	p.Status = model.CustomPaperQuoted
	p.QuotedCents = &priceCents
	if deadline != nil {
		p.Deadline = deadline
	}
	if err := s.papers.Update(ctx, p); err != nil {
		return nil, err
	}
	s.notify(ctx, p.UserID, "Your custom paper was quoted",
		fmt.Sprintf("Request %q was quoted at R$ %.2f. Approve it to start production.", p.Title, float64(priceCents)/100),
		"custom_paper_quoted", p.ID)
	return p, nil
}

// Approve moves QUOTED to APPROVED and freezes the final price. The status
// guard rejects double approval and approval before any quote exists, and
// only the requesting student may approve.
func (s *customPaperService) Approve(ctx context.Context, userID, id string) (*model.CustomPaper, error) {
	p, err := s.papers.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p.UserID != userID {
		return nil, ErrNotOwner
	}
	if p.Status != model.CustomPaperQuoted {
		return nil, ErrNotQuoted
	}
	final := *p.QuotedCents
	p.Status = model.CustomPaperApproved
	p.FinalCents = &final
	if err := s.papers.Update(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *customPaperService) Reject(ctx context.Context, id string) (*model.CustomPaper, error) {
	p, err := s.papers.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !p.Status.CanTransition(model.CustomPaperRejected) {
		return nil, ErrAlreadyDecided
	}
	p.Status = model.CustomPaperRejected
	if err := s.papers.Update(ctx, p); err != nil {
		return nil, err
	}
	s.notify(ctx, p.UserID, "Your custom paper request was declined",
		fmt.Sprintf("Request %q was declined by our staff.", p.Title),
		"custom_paper_rejected", p.ID)
	return p, nil
}

func (s *customPaperService) Progress(ctx context.Context, id string, next model.CustomPaperStatus) (*model.CustomPaper, error) {
	p, err := s.papers.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !p.Status.CanTransition(next) {
		return nil, ErrBadTransition
	}
	p.Status = next
	if err := s.papers.Update(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

// Deliver attaches the deliverable and moves the request to REVIEW.
func (s *customPaperService) Deliver(ctx context.Context, id, fileURL string) (*model.CustomPaper, error) {
	p, err := s.papers.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !p.Status.CanTransition(model.CustomPaperReview) {
		return nil, ErrBadTransition
	}
	p.Status = model.CustomPaperReview
	p.DeliverableURL = fileURL
	if err := s.papers.Update(ctx, p); err != nil {
		return nil, err
	}
	s.notify(ctx, p.UserID, "Your custom paper is ready for review",
		fmt.Sprintf("A deliverable for %q is available.", p.Title),
		"custom_paper_delivered", p.ID)
	return p, nil
}

func (s *customPaperService) AddMessage(ctx context.Context, paperID, senderID string, role model.Role, content string) (*model.CustomPaperMessage, error) {
	p, err := s.papers.GetByID(ctx, paperID)
	if err != nil {
		return nil, err
	}
	if role == model.RoleStudent && p.UserID != senderID {
		return nil, ErrNotOwner
	}
	m := &model.CustomPaperMessage{
		CustomPaperID: paperID,
		SenderID:      senderID,
		SenderRole:    role,
		Content:       content,
	}
	if err := s.papers.AddMessage(ctx, m); err != nil {
		return nil, err
	}
	return m, nil
}

func (s *customPaperService) Messages(ctx context.Context, userID string, isStaff bool, paperID string) ([]*model.CustomPaperMessage, error) {
	p, err := s.papers.GetByID(ctx, paperID)
	if err != nil {
		return nil, err
	}
	if !isStaff && p.UserID != userID {
		return nil, ErrNotOwner
	}
	return s.papers.ListMessages(ctx, paperID)
}

func (s *customPaperService) notify(ctx context.Context, userID, subject, body, kind, refID string) {
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

func pageBounds(page, pageSize int) (offset, limit int) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 10
	}
	return (page - 1) * pageSize, pageSize
}
