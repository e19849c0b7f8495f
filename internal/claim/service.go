package claim

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/frahmantamala/claim-management/internal/core/events"
)

// Repository is the persistence port for claims. UpdateStatus is a
// compare-and-swap on the version column: it must fail with
// ErrClaimConflict when the stored version no longer matches.
type Repository interface {
	Create(ctx context.Context, c *Claim) error
	GetByID(ctx context.Context, id int64) (*Claim, error)
	ListByLecturer(ctx context.Context, lecturerID int64, limit, offset int) ([]*Claim, error)
	ListByStatus(ctx context.Context, statuses []Status, limit, offset int) ([]*Claim, error)
	ListAllWithLecturer(ctx context.Context, limit, offset int) ([]*ClaimWithLecturer, error)
	UpdateStatus(ctx context.Context, id, version int64, status Status, notes string) error
}

// DocumentStore persists supporting documents; the claim row only keeps
// the stored name it returns.
type DocumentStore interface {
	Store(ctx context.Context, content io.Reader, originalName string) (string, error)
	Retrieve(ctx context.Context, storedName string) (io.ReadCloser, error)
	Delete(ctx context.Context, storedName string) error
}

// EventPublisher publishes claim lifecycle events after state changes
// have been committed.
type EventPublisher interface {
	Publish(ctx context.Context, event events.Event)
}

// Actor identifies the authenticated user performing a claim operation,
// with the permissions granted to them.
type Actor struct {
	ID          int64
	Permissions []string
}

type Service struct {
	repo     Repository
	docs     DocumentStore
	engine   *WorkflowEngine
	eventBus EventPublisher
	logger   *slog.Logger
}

func NewService(repo Repository, docs DocumentStore, eventBus EventPublisher, logger *slog.Logger) *Service {
	return &Service{
		repo:     repo,
		docs:     docs,
		engine:   NewWorkflowEngine(),
		eventBus: eventBus,
		logger:   logger,
	}
}

// SubmitClaim validates the submission, runs it through the workflow
// engine, stores the optional supporting document and persists the claim.
// If persistence fails after the document was stored, the document is
// deleted so no orphan files accumulate.
func (s *Service) SubmitClaim(ctx context.Context, actor Actor, dto CreateClaimDTO, doc io.Reader, docName string) (*Claim, error) {
	if !CanPerform(actor.Permissions, "", ActionSubmit) {
		return nil, ErrUnauthorizedAccess
	}
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	c := &Claim{
		LecturerID:  actor.ID,
		HoursWorked: dto.HoursWorked,
		HourlyRate:  dto.HourlyRate,
		Notes:       dto.Notes,
		SubmittedOn: time.Now(),
		Version:     1,
	}
	if err := s.engine.ProcessNewClaim(c); err != nil {
		return nil, err
	}

	if doc != nil {
		storedName, err := s.docs.Store(ctx, doc, docName)
		if err != nil {
			s.logger.Error("document upload failed",
				"lecturer_id", actor.ID,
				"file_name", docName,
				"error", err)
			return nil, err
		}
		c.UploadedFileName = &storedName
	}

	if err := s.repo.Create(ctx, c); err != nil {
		if c.UploadedFileName != nil {
			if delErr := s.docs.Delete(ctx, *c.UploadedFileName); delErr != nil {
				s.logger.Error("orphan document cleanup failed",
					"stored_name", *c.UploadedFileName,
					"error", delErr)
			}
		}
		s.logger.Error("claim create failed", "lecturer_id", actor.ID, "error", err)
		return nil, fmt.Errorf("create claim: %w", err)
	}

	s.logger.Info("claim submitted",
		"claim_id", c.ID,
		"lecturer_id", actor.ID,
		"status", c.Status,
		"total_amount", c.TotalAmount)

	s.eventBus.Publish(ctx, events.NewClaimEvent(events.ClaimSubmitted, c.ID, actor.ID, map[string]interface{}{
		"status":       c.Status.String(),
		"total_amount": c.TotalAmount.String(),
	}))
	return c, nil
}

// GetClaim returns a single claim. Lecturers may only read their own;
// reviewers and admins may read any.
func (s *Service) GetClaim(ctx context.Context, actor Actor, claimID int64) (*Claim, error) {
	c, err := s.repo.GetByID(ctx, claimID)
	if err != nil {
		return nil, err
	}
	if c.LecturerID != actor.ID && !CanViewAll(actor.Permissions) {
		return nil, ErrUnauthorizedAccess
	}
	return c, nil
}

// ListMyClaims returns the actor's own claims, newest submission first.
func (s *Service) ListMyClaims(ctx context.Context, actor Actor, limit, offset int) ([]*Claim, error) {
	limit, offset = normalizePagination(limit, offset)
	return s.repo.ListByLecturer(ctx, actor.ID, limit, offset)
}

// ListReviewQueue returns pending and under-review claims in submission
// order, oldest first, so reviewers work the queue FIFO.
func (s *Service) ListReviewQueue(ctx context.Context, actor Actor, limit, offset int) ([]*Claim, error) {
	if !CanViewAll(actor.Permissions) {
		return nil, ErrUnauthorizedAccess
	}
	limit, offset = normalizePagination(limit, offset)
	return s.repo.ListByStatus(ctx, []Status{StatusPending, StatusUnderReview}, limit, offset)
}

// ListAllClaims returns every claim joined with lecturer details.
func (s *Service) ListAllClaims(ctx context.Context, actor Actor, limit, offset int) ([]*ClaimWithLecturer, error) {
	if !CanViewAll(actor.Permissions) {
		return nil, ErrUnauthorizedAccess
	}
	limit, offset = normalizePagination(limit, offset)
	return s.repo.ListAllWithLecturer(ctx, limit, offset)
}

// ApproveClaim moves a reviewable claim to approved. The versioned update
// surfaces ErrClaimConflict when another reviewer got there first.
func (s *Service) ApproveClaim(ctx context.Context, actor Actor, claimID int64) (*Claim, error) {
	c, err := s.repo.GetByID(ctx, claimID)
	if err != nil {
		return nil, err
	}
	if !CanPerform(actor.Permissions, c.Status, ActionApprove) {
		if c.Status.IsTerminal() {
			return nil, ErrAlreadyReviewed
		}
		return nil, ErrUnauthorizedAccess
	}

	version := c.Version
	if err := s.engine.Approve(c); err != nil {
		return nil, err
	}
	if err := s.repo.UpdateStatus(ctx, c.ID, version, c.Status, c.Notes); err != nil {
		s.logger.Warn("approve failed", "claim_id", c.ID, "reviewer_id", actor.ID, "error", err)
		return nil, err
	}
	c.Version = version + 1

	s.logger.Info("claim approved", "claim_id", c.ID, "reviewer_id", actor.ID)
	s.eventBus.Publish(ctx, events.NewClaimEvent(events.ClaimApproved, c.ID, actor.ID, nil))
	return c, nil
}

// RejectClaim moves a reviewable claim to rejected, appending the reason
// to the claim's notes.
func (s *Service) RejectClaim(ctx context.Context, actor Actor, claimID int64, dto RejectClaimDTO) (*Claim, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}
	c, err := s.repo.GetByID(ctx, claimID)
	if err != nil {
		return nil, err
	}
	if !CanPerform(actor.Permissions, c.Status, ActionReject) {
		if c.Status.IsTerminal() {
			return nil, ErrAlreadyReviewed
		}
		return nil, ErrUnauthorizedAccess
	}

	version := c.Version
	if err := s.engine.Reject(c, dto.Reason); err != nil {
		return nil, err
	}
	if err := s.repo.UpdateStatus(ctx, c.ID, version, c.Status, c.Notes); err != nil {
		s.logger.Warn("reject failed", "claim_id", c.ID, "reviewer_id", actor.ID, "error", err)
		return nil, err
	}
	c.Version = version + 1

	s.logger.Info("claim rejected", "claim_id", c.ID, "reviewer_id", actor.ID)
	s.eventBus.Publish(ctx, events.NewClaimEvent(events.ClaimRejected, c.ID, actor.ID, map[string]interface{}{
		"reason": dto.Reason,
	}))
	return c, nil
}

// DownloadDocument streams the claim's supporting document. Access rules
// match GetClaim.
func (s *Service) DownloadDocument(ctx context.Context, actor Actor, claimID int64) (io.ReadCloser, string, error) {
	c, err := s.GetClaim(ctx, actor, claimID)
	if err != nil {
		return nil, "", err
	}
	if c.UploadedFileName == nil || *c.UploadedFileName == "" {
		return nil, "", ErrDocumentNotFound
	}
	rc, err := s.docs.Retrieve(ctx, *c.UploadedFileName)
	if err != nil {
		s.logger.Error("document retrieve failed",
			"claim_id", c.ID,
			"stored_name", *c.UploadedFileName,
			"error", err)
		return nil, "", ErrDocumentNotFound
	}
	return rc, *c.UploadedFileName, nil
}

func normalizePagination(limit, offset int) (int, int) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}
