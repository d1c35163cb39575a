//go:generate mockery --name QuestionService --output ./mocks --outpkg mocks --case=underscore
package service

import (
	"bytes"
	"context"
	"errors"

	"go_4_vocab_quiz/internal/middleware"
	"go_4_vocab_quiz/internal/model"
	"go_4_vocab_quiz/internal/repository"

	"github.com/google/uuid"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"gorm.io/gorm"
)

// MaxOptionsQuestionIDs は一度の選択肢取得で指定できる問題数の上限
const MaxOptionsQuestionIDs = 100

type QuestionService interface {
	GetQuestionDetail(ctx context.Context, questionID uuid.UUID) (*model.QuestionDetailResponse, error)
	ListOptions(ctx context.Context, questionIDs []uuid.UUID) ([]*model.Option, error)
}

type questionService struct {
	db           *gorm.DB
	questionRepo repository.QuestionRepository
	md           goldmark.Markdown
}

func NewQuestionService(db *gorm.DB, repo repository.QuestionRepository) QuestionService {
	return &questionService{
		db:           db,
		questionRepo: repo,
		// 生の HTML は出力しない (WithUnsafe は付けない)
		md: goldmark.New(goldmark.WithExtensions(extension.GFM)),
	}
}

func (s *questionService) GetQuestionDetail(ctx context.Context, questionID uuid.UUID) (*model.QuestionDetailResponse, error) {
	logger := middleware.GetLogger(ctx).With("question_id", questionID)

	question, err := s.questionRepo.FindByID(ctx, s.db, questionID)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return nil, model.NewAppError("QUESTION_NOT_FOUND", "問題が見つかりません。", "", err)
		}
		return nil, model.NewAppError("INTERNAL_SERVER_ERROR", "問題の取得に失敗しました。", "", err)
	}

	var buf bytes.Buffer
	if err := s.md.Convert([]byte(question.Content), &buf); err != nil {
		logger.Error("Failed to render question content", "error", err)
		return nil, model.NewAppError("INTERNAL_SERVER_ERROR", "問題本文の変換に失敗しました。", "", errors.Join(model.ErrInternalServer, err))
	}

	return &model.QuestionDetailResponse{
		QuestionID:  question.QuestionID,
		Prompt:      question.Prompt,
		Content:     question.Content,
		ContentHTML: buf.String(),
	}, nil
}

func (s *questionService) ListOptions(ctx context.Context, questionIDs []uuid.UUID) ([]*model.Option, error) {
	if len(questionIDs) == 0 {
		return nil, model.NewAppError("VALIDATION_ERROR", "question_idsは必須項目です。", "question_ids", model.ErrInvalidInput)
	}
	if len(questionIDs) > MaxOptionsQuestionIDs {
		return nil, model.NewAppError("VALIDATION_ERROR", "question_idsが多すぎます。", "question_ids", model.ErrInvalidInput)
	}
	options, err := s.questionRepo.FindOptionsByQuestionIDs(ctx, s.db, questionIDs)
	if err != nil {
		return nil, model.NewAppError("INTERNAL_SERVER_ERROR", "選択肢の取得に失敗しました。", "", err)
	}
	return options, nil
}
