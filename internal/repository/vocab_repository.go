//go:generate mockery --name VocabRepository --output ./mocks --outpkg mocks --case=underscore
package repository

import (
	"context"
	"fmt"

	"go_4_vocab_quiz/internal/middleware"
	"go_4_vocab_quiz/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type VocabRepository interface {
	Create(ctx context.Context, tx *gorm.DB, vocab *model.Vocab) error
	FindByIDs(ctx context.Context, db *gorm.DB, learnerID uuid.UUID, vocabIDs []uuid.UUID) ([]*model.Vocab, error)
	FindUnseen(ctx context.Context, db *gorm.DB, learnerID uuid.UUID, limit int) ([]*model.Vocab, error)
	// FindDistractors は excludeID 以外の単語をランダムに最大 limit 件返します
	FindDistractors(ctx context.Context, db *gorm.DB, learnerID, excludeID uuid.UUID, limit int) ([]*model.Vocab, error)
	CheckTermExists(ctx context.Context, db *gorm.DB, learnerID uuid.UUID, term string) (bool, error)
}

type gormVocabRepository struct{}

func NewGormVocabRepository() VocabRepository {
	return &gormVocabRepository{}
}

func (r *gormVocabRepository) Create(ctx context.Context, tx *gorm.DB, vocab *model.Vocab) error {
	logger := middleware.GetLogger(ctx)
	result := tx.WithContext(ctx).Create(vocab)
	if result.Error != nil {
		logger.Error("Error creating vocab in DB",
			"error", result.Error,
			"learner_id", vocab.LearnerID.String(),
			"term", vocab.Term,
		)
		return fmt.Errorf("gormVocabRepository.Create: %w", result.Error)
	}
	return nil
}

func (r *gormVocabRepository) FindByIDs(ctx context.Context, db *gorm.DB, learnerID uuid.UUID, vocabIDs []uuid.UUID) ([]*model.Vocab, error) {
	var vocabs []*model.Vocab
	if len(vocabIDs) == 0 {
		return vocabs, nil
	}
	result := db.WithContext(ctx).Where("learner_id = ? AND vocab_id IN ?", learnerID, vocabIDs).Find(&vocabs)
	if result.Error != nil {
		middleware.GetLogger(ctx).Error("Error finding vocabs by IDs in DB", "error", result.Error, "learner_id", learnerID.String())
		return nil, fmt.Errorf("gormVocabRepository.FindByIDs: %w", result.Error)
	}
	return vocabs, nil
}

func (r *gormVocabRepository) FindUnseen(ctx context.Context, db *gorm.DB, learnerID uuid.UUID, limit int) ([]*model.Vocab, error) {
	var vocabs []*model.Vocab
	if limit <= 0 {
		return vocabs, nil
	}
	// まだ一度も復習していない (進捗がない) 単語
	result := db.WithContext(ctx).
		Joins("LEFT JOIN review_progress ON review_progress.item_id = vocabs.vocab_id AND review_progress.learner_id = vocabs.learner_id AND review_progress.kind = ?", model.KindVocab).
		Where("vocabs.learner_id = ? AND review_progress.progress_id IS NULL", learnerID).
		Order("vocabs.created_at ASC").
		Limit(limit).
		Find(&vocabs)
	if result.Error != nil {
		middleware.GetLogger(ctx).Error("Error finding unseen vocabs in DB", "error", result.Error, "learner_id", learnerID.String())
		return nil, fmt.Errorf("gormVocabRepository.FindUnseen: %w", result.Error)
	}
	return vocabs, nil
}

func (r *gormVocabRepository) FindDistractors(ctx context.Context, db *gorm.DB, learnerID, excludeID uuid.UUID, limit int) ([]*model.Vocab, error) {
	var vocabs []*model.Vocab
	if limit <= 0 {
		return vocabs, nil
	}
	// RANDOM() は postgres と sqlite の両方で使える
	result := db.WithContext(ctx).
		Where("learner_id = ? AND vocab_id <> ?", learnerID, excludeID).
		Order("RANDOM()").
		Limit(limit).
		Find(&vocabs)
	if result.Error != nil {
		middleware.GetLogger(ctx).Error("Error finding distractor vocabs in DB", "error", result.Error, "learner_id", learnerID.String())
		return nil, fmt.Errorf("gormVocabRepository.FindDistractors: %w", result.Error)
	}
	return vocabs, nil
}

func (r *gormVocabRepository) CheckTermExists(ctx context.Context, db *gorm.DB, learnerID uuid.UUID, term string) (bool, error) {
	var count int64
	result := db.WithContext(ctx).Model(&model.Vocab{}).Where("learner_id = ? AND term = ?", learnerID, term).Count(&count)
	if result.Error != nil {
		middleware.GetLogger(ctx).Error("Error checking term existence in DB", "error", result.Error, "learner_id", learnerID.String(), "term", term)
		return false, fmt.Errorf("gormVocabRepository.CheckTermExists: %w", result.Error)
	}
	return count > 0, nil
}
