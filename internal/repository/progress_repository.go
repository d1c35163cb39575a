//go:generate mockery --name ProgressRepository --output ./mocks --outpkg mocks --case=underscore
package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go_4_vocab_quiz/internal/middleware"
	"go_4_vocab_quiz/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ProgressRepository interface {
	Create(ctx context.Context, tx *gorm.DB, progress *model.ReviewProgress) error
	FindByItem(ctx context.Context, db *gorm.DB, learnerID uuid.UUID, kind model.ReviewKind, itemID uuid.UUID) (*model.ReviewProgress, error)
	Update(ctx context.Context, tx *gorm.DB, progress *model.ReviewProgress) error
	FindDue(ctx context.Context, db *gorm.DB, learnerID uuid.UUID, kind model.ReviewKind, now time.Time, limit int) ([]*model.ReviewProgress, error)
}

type gormProgressRepository struct{}

func NewGormProgressRepository() ProgressRepository {
	return &gormProgressRepository{}
}

func (r *gormProgressRepository) Create(ctx context.Context, tx *gorm.DB, progress *model.ReviewProgress) error {
	result := tx.WithContext(ctx).Create(progress)
	if result.Error != nil {
		if isDuplicateKey(result.Error) {
			return model.ErrConflict
		}
		return fmt.Errorf("gormProgressRepository.Create: %w", result.Error)
	}
	return nil
}

func (r *gormProgressRepository) FindByItem(ctx context.Context, db *gorm.DB, learnerID uuid.UUID, kind model.ReviewKind, itemID uuid.UUID) (*model.ReviewProgress, error) {
	var progress model.ReviewProgress
	result := db.WithContext(ctx).
		Where("learner_id = ? AND kind = ? AND item_id = ?", learnerID, kind, itemID).
		First(&progress)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, model.ErrNotFound
		}
		return nil, fmt.Errorf("gormProgressRepository.FindByItem: %w", result.Error)
	}
	return &progress, nil
}

func (r *gormProgressRepository) Update(ctx context.Context, tx *gorm.DB, progress *model.ReviewProgress) error {
	result := tx.WithContext(ctx).
		Model(&model.ReviewProgress{}).
		Where("progress_id = ?", progress.ProgressID).
		Updates(map[string]interface{}{
			"ease_factor":      progress.EaseFactor,
			"interval_days":    progress.IntervalDays,
			"repetitions":      progress.Repetitions,
			"last_quality":     progress.LastQuality,
			"next_review_at":   progress.NextReviewAt,
			"last_reviewed_at": progress.LastReviewedAt,
		})
	if result.Error != nil {
		middleware.GetLogger(ctx).Error("Error updating progress in DB", "error", result.Error, "progress_id", progress.ProgressID.String())
		return fmt.Errorf("gormProgressRepository.Update: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return model.ErrNotFound
	}
	return nil
}

func (r *gormProgressRepository) FindDue(ctx context.Context, db *gorm.DB, learnerID uuid.UUID, kind model.ReviewKind, now time.Time, limit int) ([]*model.ReviewProgress, error) {
	var progresses []*model.ReviewProgress
	result := db.WithContext(ctx).
		Where("learner_id = ? AND kind = ? AND next_review_at <= ?", learnerID, kind, now.UTC()).
		Order("next_review_at ASC, ease_factor ASC").
		Limit(limit).
		Find(&progresses)
	if result.Error != nil {
		middleware.GetLogger(ctx).Error("Error finding due progress in DB", "error", result.Error, "learner_id", learnerID.String(), "kind", kind)
		return nil, fmt.Errorf("gormProgressRepository.FindDue: %w", result.Error)
	}
	return progresses, nil
}
