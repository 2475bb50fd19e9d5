package repository

import (
	"context"

	"github.com/nasiya-uz/nasiya-api/internal/models"
	"gorm.io/gorm"
)

// AuditRepository appends and lists action history entries. Entries written
// inside a transaction commit or roll back with it; there is no update or
// delete path, the history is append-only.
type AuditRepository interface {
	Create(ctx context.Context, entry *models.ActionHistory) error
	List(ctx context.Context, query *ListQuery) ([]models.ActionHistory, int64, error)
}

type auditRepository struct {
	db *gorm.DB
}

// NewAuditRepository creates a new audit repository
func NewAuditRepository(db *gorm.DB) AuditRepository {
	return &auditRepository{db: db}
}

func (r *auditRepository) Create(ctx context.Context, entry *models.ActionHistory) error {
	return conn(ctx, r.db).Create(entry).Error
}

func (r *auditRepository) List(ctx context.Context, query *ListQuery) ([]models.ActionHistory, int64, error) {
	var entries []models.ActionHistory
	var total int64

	q := conn(ctx, r.db).Model(&models.ActionHistory{})
	if table := query.Filters["table_name"]; table != "" {
		q = q.Where("table_name = ?", table)
	}
	if action := query.Filters["action_type"]; action != "" {
		q = q.Where("action_type = ?", action)
	}
	if recordID := query.Filters["record_id"]; recordID != "" {
		q = q.Where("record_id = ?", recordID)
	}

	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := q.Order("created_at desc").
		Limit(query.PerPage).
		Offset(query.Offset()).
		Find(&entries).Error
	return entries, total, err
}
