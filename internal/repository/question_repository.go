//go:generate mockery --name QuestionRepository --output ./mocks --outpkg mocks --case=underscore
package repository

import (
	"context"
	"errors"
	"fmt"

	"go_4_vocab_quiz/internal/middleware"
	"go_4_vocab_quiz/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type QuestionRepository interface {
	Create(ctx context.Context, tx *gorm.DB, question *model.Question) error
	FindByID(ctx context.Context, db *gorm.DB, questionID uuid.UUID) (*model.Question, error)
	// FindByIDsWithOptions は選択肢を Position 順に Preload して返します
	FindByIDsWithOptions(ctx context.Context, db *gorm.DB, questionIDs []uuid.UUID) ([]*model.Question, error)
	FindUnseenWithOptions(ctx context.Context, db *gorm.DB, learnerID uuid.UUID, limit int) ([]*model.Question, error)
	FindOptionsByQuestionIDs(ctx context.Context, db *gorm.DB, questionIDs []uuid.UUID) ([]*model.Option, error)
	CheckPromptExists(ctx context.Context, db *gorm.DB, prompt string) (bool, error)
}

type gormQuestionRepository struct{}

func NewGormQuestionRepository() QuestionRepository {
	return &gormQuestionRepository{}
}

func orderedOptions(db *gorm.DB) *gorm.DB {
	return db.Order("options.position ASC")
}

func (r *gormQuestionRepository) Create(ctx context.Context, tx *gorm.DB, question *model.Question) error {
	// Options も関連として一緒に作成される
	result := tx.WithContext(ctx).Create(question)
	if result.Error != nil {
		if isDuplicateKey(result.Error) {
			return model.ErrConflict
		}
		middleware.GetLogger(ctx).Error("Error creating question in DB", "error", result.Error, "prompt", question.Prompt)
		return fmt.Errorf("gormQuestionRepository.Create: %w", result.Error)
	}
	return nil
}

func (r *gormQuestionRepository) FindByID(ctx context.Context, db *gorm.DB, questionID uuid.UUID) (*model.Question, error) {
	var question model.Question
	result := db.WithContext(ctx).Where("question_id = ?", questionID).First(&question)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, model.ErrNotFound
		}
		middleware.GetLogger(ctx).Error("Error finding question by ID in DB", "error", result.Error, "question_id", questionID.String())
		return nil, fmt.Errorf("gormQuestionRepository.FindByID: %w", result.Error)
	}
	return &question, nil
}

func (r *gormQuestionRepository) FindByIDsWithOptions(ctx context.Context, db *gorm.DB, questionIDs []uuid.UUID) ([]*model.Question, error) {
	var questions []*model.Question
	if len(questionIDs) == 0 {
		return questions, nil
	}
	result := db.WithContext(ctx).
		Preload("Options", orderedOptions).
		Where("question_id IN ?", questionIDs).
		Find(&questions)
	if result.Error != nil {
		middleware.GetLogger(ctx).Error("Error finding questions by IDs in DB", "error", result.Error)
		return nil, fmt.Errorf("gormQuestionRepository.FindByIDsWithOptions: %w", result.Error)
	}
	return questions, nil
}

func (r *gormQuestionRepository) FindUnseenWithOptions(ctx context.Context, db *gorm.DB, learnerID uuid.UUID, limit int) ([]*model.Question, error) {
	var questions []*model.Question
	if limit <= 0 {
		return questions, nil
	}
	result := db.WithContext(ctx).
		Preload("Options", orderedOptions).
		Joins("LEFT JOIN review_progress ON review_progress.item_id = questions.question_id AND review_progress.learner_id = ? AND review_progress.kind = ?", learnerID, model.KindQuestion).
		Where("review_progress.progress_id IS NULL").
		Order("questions.created_at ASC").
		Limit(limit).
		Find(&questions)
	if result.Error != nil {
		middleware.GetLogger(ctx).Error("Error finding unseen questions in DB", "error", result.Error, "learner_id", learnerID.String())
		return nil, fmt.Errorf("gormQuestionRepository.FindUnseenWithOptions: %w", result.Error)
	}
	return questions, nil
}

func (r *gormQuestionRepository) FindOptionsByQuestionIDs(ctx context.Context, db *gorm.DB, questionIDs []uuid.UUID) ([]*model.Option, error) {
	var options []*model.Option
	if len(questionIDs) == 0 {
		return options, nil
	}
	result := db.WithContext(ctx).
		Where("question_id IN ?", questionIDs).
		Order("question_id ASC, position ASC").
		Find(&options)
	if result.Error != nil {
		middleware.GetLogger(ctx).Error("Error finding options in DB", "error", result.Error)
		return nil, fmt.Errorf("gormQuestionRepository.FindOptionsByQuestionIDs: %w", result.Error)
	}
	return options, nil
}

func (r *gormQuestionRepository) CheckPromptExists(ctx context.Context, db *gorm.DB, prompt string) (bool, error) {
	var count int64
	result := db.WithContext(ctx).Model(&model.Question{}).Where("prompt = ?", prompt).Count(&count)
	if result.Error != nil {
		return false, fmt.Errorf("gormQuestionRepository.CheckPromptExists: %w", result.Error)
	}
	return count > 0, nil
}
