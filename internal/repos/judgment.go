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

type JudgmentRepo interface {
	// Save appends a new judgment version. The version is always computed
	// here as max(version)+1 inside the given transaction; callers never
	// supply one. A collision on (case_id, version) from a concurrent
	// writer surfaces as a ConcurrentModification error. Save also flips
	// the case status from pending to judged on the first version.
	Save(ctx context.Context, tx *gorm.DB, j *types.Judgment) error
	// GetLatest returns the highest-version judgment, or nil when the case
	// has none yet.
	GetLatest(ctx context.Context, tx *gorm.DB, caseID uuid.UUID) (*types.Judgment, error)
	// GetAll returns the full version history, version ascending.
	GetAll(ctx context.Context, tx *gorm.DB, caseID uuid.UUID) ([]types.Judgment, error)
}

type judgmentRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewJudgmentRepo(db *gorm.DB, baseLog *logger.Logger) JudgmentRepo {
	return &judgmentRepo{db: db, log: baseLog.With("repo", "JudgmentRepo")}
}

func (jr *judgmentRepo) Save(ctx context.Context, tx *gorm.DB, j *types.Judgment) error {
	run := func(transaction *gorm.DB) error {
		var maxVersion int64
		err := transaction.WithContext(ctx).Model(&types.Judgment{}).
			Where("case_id = ?", j.CaseID).
			Select("COALESCE(MAX(version), 0)").
			Scan(&maxVersion).Error
		if err != nil {
			return apierr.Wrap(apierr.KindStorage, "read max judgment version", err)
		}

		if j.ID == uuid.Nil {
			j.ID = uuid.New()
		}
		j.Version = int(maxVersion) + 1

		if err := transaction.WithContext(ctx).Create(j).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return apierr.Newf(apierr.KindConcurrentModification,
					"judgment version %d for case %s already written", j.Version, j.CaseID)
			}
			return apierr.Wrap(apierr.KindStorage, "create judgment", err)
		}

		if j.Version == 1 {
			res := transaction.WithContext(ctx).Model(&types.Case{}).
				Where("id = ? AND status = ?", j.CaseID, types.CaseStatusPending).
				Update("status", types.CaseStatusJudged)
			if res.Error != nil {
				return apierr.Wrap(apierr.KindStorage, "advance case status", res.Error)
			}
		}
		return nil
	}

	if tx != nil {
		return run(tx)
	}
	err := jr.db.WithContext(ctx).Transaction(func(transaction *gorm.DB) error {
		return run(transaction)
	})
	return err
}

func (jr *judgmentRepo) GetLatest(ctx context.Context, tx *gorm.DB, caseID uuid.UUID) (*types.Judgment, error) {
	transaction := tx
	if transaction == nil {
		transaction = jr.db
	}

	var result types.Judgment
	err := transaction.WithContext(ctx).
		Where("case_id = ?", caseID).
		Order("version DESC").
		First(&result).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, apierr.Wrap(apierr.KindStorage, "get latest judgment", err)
	}
	return &result, nil
}

func (jr *judgmentRepo) GetAll(ctx context.Context, tx *gorm.DB, caseID uuid.UUID) ([]types.Judgment, error) {
	transaction := tx
	if transaction == nil {
		transaction = jr.db
	}

	var results []types.Judgment
	err := transaction.WithContext(ctx).
		Where("case_id = ?", caseID).
		Order("version ASC").
		Find(&results).Error
	if err != nil {
		return nil, apierr.Wrap(apierr.KindStorage, "get judgments", err)
	}
	return results, nil
}
