package repos

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/overruled/mocktrial-backend/internal/apierr"
	"github.com/overruled/mocktrial-backend/internal/logger"
	"github.com/overruled/mocktrial-backend/internal/types"
)

type CaseRepo interface {
	// Create writes the case and both of its sides atomically.
	Create(ctx context.Context, tx *gorm.DB, c *types.Case) error
	// GetByID joins the case with both sides.
	GetByID(ctx context.Context, tx *gorm.DB, caseID uuid.UUID) (*types.Case, error)
	// SetStatus mutates the case status and touches updated_at.
	SetStatus(ctx context.Context, tx *gorm.DB, caseID uuid.UUID, status string) error
}

type caseRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewCaseRepo(db *gorm.DB, baseLog *logger.Logger) CaseRepo {
	return &caseRepo{db: db, log: baseLog.With("repo", "CaseRepo")}
}

func (cr *caseRepo) Create(ctx context.Context, tx *gorm.DB, c *types.Case) error {
	transaction := tx
	if transaction == nil {
		transaction = cr.db
	}

	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	for i := range c.Sides {
		if c.Sides[i].ID == uuid.Nil {
			c.Sides[i].ID = uuid.New()
		}
		c.Sides[i].CaseID = c.ID
	}
	if c.Status == "" {
		c.Status = types.CaseStatusPending
	}

	if err := transaction.WithContext(ctx).Create(c).Error; err != nil {
		return apierr.Wrap(apierr.KindStorage, "create case", err)
	}
	return nil
}

func (cr *caseRepo) GetByID(ctx context.Context, tx *gorm.DB, caseID uuid.UUID) (*types.Case, error) {
	transaction := tx
	if transaction == nil {
		transaction = cr.db
	}

	var result types.Case
	err := transaction.WithContext(ctx).
		Preload("Sides", func(db *gorm.DB) *gorm.DB { return db.Order("side ASC") }).
		First(&result, "id = ?", caseID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apierr.Newf(apierr.KindNotFound, "case %s not found", caseID)
		}
		return nil, apierr.Wrap(apierr.KindStorage, "get case", err)
	}
	return &result, nil
}

func (cr *caseRepo) SetStatus(ctx context.Context, tx *gorm.DB, caseID uuid.UUID, status string) error {
	transaction := tx
	if transaction == nil {
		transaction = cr.db
	}

	res := transaction.WithContext(ctx).Model(&types.Case{}).
		Where("id = ?", caseID).
		Updates(map[string]interface{}{"status": status, "updated_at": time.Now()})
	if res.Error != nil {
		return apierr.Wrap(apierr.KindStorage, "set case status", res.Error)
	}
	if res.RowsAffected == 0 {
		return apierr.Newf(apierr.KindNotFound, "case %s not found", caseID)
	}
	return nil
}
