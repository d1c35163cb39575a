//go:generate mockery --name EventRepository --output ./mocks --outpkg mocks --case=underscore
package repository

import (
	"context"
	"errors"
	"fmt"

	"go_4_vocab_quiz/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// EventRepository は受け付けた復習結果 (ReviewEvent) を保存します。
type EventRepository interface {
	Create(ctx context.Context, tx *gorm.DB, event *model.ReviewEvent) error
	FindByEventID(ctx context.Context, db *gorm.DB, learnerID uuid.UUID, eventID string) (*model.ReviewEvent, error)
}

type gormEventRepository struct{}

func NewGormEventRepository() EventRepository {
	return &gormEventRepository{}
}

func (r *gormEventRepository) Create(ctx context.Context, tx *gorm.DB, event *model.ReviewEvent) error {
	result := tx.WithContext(ctx).Create(event)
	if result.Error != nil {
		if isDuplicateKey(result.Error) {
			return model.ErrConflict
		}
		return fmt.Errorf("gormEventRepository.Create: %w", result.Error)
	}
	return nil
}

func (r *gormEventRepository) FindByEventID(ctx context.Context, db *gorm.DB, learnerID uuid.UUID, eventID string) (*model.ReviewEvent, error) {
	var event model.ReviewEvent
	result := db.WithContext(ctx).Where("event_id = ? AND learner_id = ?", eventID, learnerID).First(&event)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, model.ErrNotFound
		}
		return nil, fmt.Errorf("gormEventRepository.FindByEventID: %w", result.Error)
	}
	return &event, nil
}
