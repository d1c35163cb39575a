//go:generate mockery --name LearnerService --output ./mocks --outpkg mocks --case=underscore
// internal/service/learner_service.go
package service

import (
	"context"
	"errors"
	"strings"

	"go_4_vocab_quiz/internal/middleware"
	"go_4_vocab_quiz/internal/model"
	"go_4_vocab_quiz/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type LearnerService interface {
	CreateLearner(ctx context.Context, name string) (*model.Learner, error)
	GetLearner(ctx context.Context, learnerID uuid.UUID) (*model.Learner, error)
	// Exists は middleware.LearnerAuthenticator を満たします
	Exists(ctx context.Context, learnerID uuid.UUID) (bool, error)
}

type learnerService struct {
	db          *gorm.DB
	learnerRepo repository.LearnerRepository
}

func NewLearnerService(db *gorm.DB, repo repository.LearnerRepository) LearnerService {
	return &learnerService{db: db, learnerRepo: repo}
}

func (s *learnerService) CreateLearner(ctx context.Context, name string) (*model.Learner, error) {
	logger := middleware.GetLogger(ctx)

	name = strings.TrimSpace(name)
	if name == "" {
		return nil, model.NewAppError("VALIDATION_ERROR", "名前は必須項目です。", "name", model.ErrInvalidInput)
	}
	learner := &model.Learner{
		LearnerID: uuid.New(), // Service層でUUIDを生成
		Name:      name,
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.learnerRepo.Create(ctx, tx, learner); err != nil {
			if errors.Is(err, model.ErrConflict) {
				return model.NewAppError("DUPLICATE_NAME", "この名前はすでに使われています。", "name", err)
			}
			logger.Error("Error creating learner in repo", "error", err)
			return model.NewAppError("INTERNAL_SERVER_ERROR", "学習者の作成に失敗しました。", "", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	logger.Info("Learner created", "learner_id", learner.LearnerID)
	return learner, nil
}

func (s *learnerService) GetLearner(ctx context.Context, learnerID uuid.UUID) (*model.Learner, error) {
	learner, err := s.learnerRepo.FindByID(ctx, s.db, learnerID)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return nil, model.NewAppError("LEARNER_NOT_FOUND", "学習者が見つかりません。", "", err)
		}
		return nil, model.NewAppError("INTERNAL_SERVER_ERROR", "学習者の取得に失敗しました。", "", err)
	}
	return learner, nil
}

func (s *learnerService) Exists(ctx context.Context, learnerID uuid.UUID) (bool, error) {
	_, err := s.learnerRepo.FindByID(ctx, s.db, learnerID)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}
