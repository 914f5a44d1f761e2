package service

import (
	"context"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"laundromat/internal/audit/repository"
	"laundromat/pkg/config"
	apperrors "laundromat/pkg/errors"
	"laundromat/pkg/model"
)

type AuditService interface {
	Record(ctx context.Context, entry model.AuditEntry)
	List(ctx context.Context, limit int, offset int64) ([]*model.AuditEntry, int64, error)
}

type auditService struct {
	repo repository.AuditRepository
	cfg  *config.Config
}

func NewAuditService(repo repository.AuditRepository, cfg *config.Config) AuditService {
	return &auditService{
		repo: repo,
		cfg:  cfg,
	}
}

// Record appends one audit entry. It is best-effort: a write failure
// is logged and never fails the admin's request.
func (s *auditService) Record(ctx context.Context, entry model.AuditEntry) {
	entry.ID = primitive.NewObjectID().Hex()
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}

	if err := s.repo.Insert(ctx, &entry); err != nil {
		s.cfg.Log.Error("Failed to record audit entry",
			"action", entry.Action,
			"resource", entry.Resource,
			"error", err,
		)
		return
	}

	s.cfg.Log.Info("Audit entry recorded",
		"action", entry.Action,
		"resource", entry.Resource,
		"resource_id", entry.ResourceID,
	)
}

func (s *auditService) List(ctx context.Context, limit int, offset int64) ([]*model.AuditEntry, int64, error) {
	limit = config.NormalizePaginationLimit(limit)
	offset = config.NormalizeOffset(offset)

	var count int64
	var entries []*model.AuditEntry
	var errCount, errFind error
	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		count, errCount = s.repo.Count(ctx)
	}()
	go func() {
		defer wg.Done()
		entries, errFind = s.repo.FindRecent(ctx, limit, offset)
	}()
	wg.Wait()

	if errFind != nil {
		return nil, 0, apperrors.Internal("Failed to list audit entries", errFind)
	}
	if errCount != nil {
		return nil, 0, apperrors.Internal("Failed to count audit entries", errCount)
	}

	return entries, count, nil
}
