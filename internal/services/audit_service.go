package services

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/nasiya-uz/nasiya-api/internal/models"
	"github.com/nasiya-uz/nasiya-api/internal/repository"
)

// AuditService writes the append-only action history. Log is tx-aware: called
// inside a transaction the entry commits or rolls back with the mutation it
// describes, so a failed audit write aborts the whole operation.
type AuditService struct {
	repo repository.AuditRepository
}

func NewAuditService(repo repository.AuditRepository) *AuditService {
	return &AuditService{repo: repo}
}

// Log records an audit entry. oldValue and newValue are snapshotted to JSON;
// pass nil to omit a side (creates have no old value, deletes no new value).
func (s *AuditService) Log(ctx context.Context, userID uint, tableName string, recordID uint, actionType string, oldValue, newValue any, comment string) error {
	entry := &models.ActionHistory{
		Entity:     tableName,
		RecordID:   recordID,
		ActionType: actionType,
		Comment:    comment,
		UserID:     userID,
	}

	if oldValue != nil {
		raw, err := json.Marshal(oldValue)
		if err != nil {
			return fmt.Errorf("marshal old value for %s/%d: %w", tableName, recordID, err)
		}
		snapshot := string(raw)
		entry.OldValue = &snapshot
	}
	if newValue != nil {
		raw, err := json.Marshal(newValue)
		if err != nil {
			return fmt.Errorf("marshal new value for %s/%d: %w", tableName, recordID, err)
		}
		snapshot := string(raw)
		entry.NewValue = &snapshot
	}

	return s.repo.Create(ctx, entry)
}

// List retrieves action history entries, newest first
func (s *AuditService) List(ctx context.Context, query *repository.ListQuery) ([]models.ActionHistory, int64, error) {
	return s.repo.List(ctx, query)
}
