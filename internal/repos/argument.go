package repos

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/overruled/mocktrial-backend/internal/apierr"
	"github.com/overruled/mocktrial-backend/internal/logger"
	"github.com/overruled/mocktrial-backend/internal/types"
)

type ArgumentRepo interface {
	// Save appends one argument round. The sequence number is computed
	// here as count+1 inside the given transaction and the five-round cap
	// is enforced; a collision on (case_id, sequence_number) from a
	// concurrent writer surfaces as a ConcurrentModification error. Save
	// also advances the case status to in_argument.
	Save(ctx context.Context, tx *gorm.DB, a *types.Argument) error
	// GetAll returns all rounds, sequence ascending.
	GetAll(ctx context.Context, tx *gorm.DB, caseID uuid.UUID) ([]types.Argument, error)
	Count(ctx context.Context, tx *gorm.DB, caseID uuid.UUID) (int, error)
}

type argumentRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewArgumentRepo(db *gorm.DB, baseLog *logger.Logger) ArgumentRepo {
	return &argumentRepo{db: db, log: baseLog.With("repo", "ArgumentRepo")}
}

func (ar *argumentRepo) Save(ctx context.Context, tx *gorm.DB, a *types.Argument) error {
	run := func(transaction *gorm.DB) error {
		var count int64
		err := transaction.WithContext(ctx).Model(&types.Argument{}).
			Where("case_id = ?", a.CaseID).
			Count(&count).Error
		if err != nil {
			return apierr.Wrap(apierr.KindStorage, "count arguments", err)
		}
		if count >= types.MaxArgumentsPerCase {
			return apierr.Newf(apierr.KindValidation,
				"case %s already has the maximum of %d arguments", a.CaseID, types.MaxArgumentsPerCase)
		}

		if a.ID == uuid.Nil {
			a.ID = uuid.New()
		}
		a.SequenceNumber = int(count) + 1

		if err := transaction.WithContext(ctx).Create(a).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return apierr.Newf(apierr.KindConcurrentModification,
					"argument %d for case %s already written", a.SequenceNumber, a.CaseID)
			}
			return apierr.Wrap(apierr.KindStorage, "create argument", err)
		}

		res := transaction.WithContext(ctx).Model(&types.Case{}).
			Where("id = ? AND status <> ?", a.CaseID, types.CaseStatusInArgument).
			Update("status", types.CaseStatusInArgument)
		if res.Error != nil {
			return apierr.Wrap(apierr.KindStorage, "advance case status", res.Error)
		}
		return nil
	}

	if tx != nil {
		return run(tx)
	}
	return ar.db.WithContext(ctx).Transaction(func(transaction *gorm.DB) error {
		return run(transaction)
	})
}

func (ar *argumentRepo) GetAll(ctx context.Context, tx *gorm.DB, caseID uuid.UUID) ([]types.Argument, error) {
	transaction := tx
	if transaction == nil {
		transaction = ar.db
	}

	var results []types.Argument
	err := transaction.WithContext(ctx).
		Where("case_id = ?", caseID).
		Order("sequence_number ASC").
		Find(&results).Error
	if err != nil {
		return nil, apierr.Wrap(apierr.KindStorage, "get arguments", err)
	}
	return results, nil
}

func (ar *argumentRepo) Count(ctx context.Context, tx *gorm.DB, caseID uuid.UUID) (int, error) {
	transaction := tx
	if transaction == nil {
		transaction = ar.db
	}

	var count int64
	err := transaction.WithContext(ctx).Model(&types.Argument{}).
		Where("case_id = ?", caseID).
		Count(&count).Error
	if err != nil {
		return 0, apierr.Wrap(apierr.KindStorage, "count arguments", err)
	}
	return int(count), nil
}
