//go:generate mockery --name ReviewService --output ./mocks --outpkg mocks --case=underscore
package service

import (
	"context"
	"errors"
	"time"

	"go_4_vocab_quiz/internal/config"
	"go_4_vocab_quiz/internal/middleware"
	"go_4_vocab_quiz/internal/model"
	"go_4_vocab_quiz/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ReviewService interface {
	GetReviewBatch(ctx context.Context, learnerID uuid.UUID, kind model.ReviewKind) ([]*model.ReviewItem, error)
	SubmitReview(ctx context.Context, learnerID uuid.UUID, kind model.ReviewKind, itemID uuid.UUID, req *model.SubmitReviewRequest) (*model.SubmitReviewResponse, error)
}

type reviewService struct {
	db           *gorm.DB
	progRepo     repository.ProgressRepository
	vocabRepo    repository.VocabRepository
	questionRepo repository.QuestionRepository
	eventRepo    repository.EventRepository
	cfg          *config.Config

	now     func() time.Time
	shuffle shuffleFunc
}

func NewReviewService(
	db *gorm.DB,
	progRepo repository.ProgressRepository,
	vocabRepo repository.VocabRepository,
	questionRepo repository.QuestionRepository,
	eventRepo repository.EventRepository,
	cfg *config.Config,
) ReviewService {
	return &reviewService{
		db:           db,
		progRepo:     progRepo,
		vocabRepo:    vocabRepo,
		questionRepo: questionRepo,
		eventRepo:    eventRepo,
		cfg:          cfg,
		now:          time.Now,
		shuffle:      defaultShuffle,
	}
}

func invalidKindError(kind model.ReviewKind) error {
	return model.NewAppError("INVALID_KIND", "kindは vocab または question を指定してください。", "kind", model.ErrInvalidInput)
}

// GetReviewBatch は期限の来た復習対象を優先し、残りを未学習の項目で埋めて返します。
func (s *reviewService) GetReviewBatch(ctx context.Context, learnerID uuid.UUID, kind model.ReviewKind) ([]*model.ReviewItem, error) {
	logger := middleware.GetLogger(ctx).With("learner_id", learnerID, "kind", kind)

	if !kind.Valid() {
		return nil, invalidKindError(kind)
	}

	limit := s.cfg.App.ReviewLimit
	due, err := s.progRepo.FindDue(ctx, s.db, learnerID, kind, s.now(), limit)
	if err != nil {
		logger.Error("Failed to find due progress from repository", "error", err)
		return nil, model.NewAppError("INTERNAL_SERVER_ERROR", "復習対象の取得に失敗しました。", "", err)
	}

	dueIDs := make([]uuid.UUID, 0, len(due))
	ease := make(map[uuid.UUID]float64, len(due))
	for _, p := range due {
		dueIDs = append(dueIDs, p.ItemID)
		ease[p.ItemID] = p.EaseFactor
	}

	var items []*model.ReviewItem
	switch kind {
	case model.KindVocab:
		items, err = s.vocabBatch(ctx, learnerID, dueIDs, ease, limit)
	case model.KindQuestion:
		items, err = s.questionBatch(ctx, learnerID, dueIDs, ease, limit)
	}
	if err != nil {
		logger.Error("Failed to build review batch", "error", err)
		return nil, model.NewAppError("INTERNAL_SERVER_ERROR", "復習対象の取得に失敗しました。", "", err)
	}

	logger.Info("Successfully built review batch", "due", len(dueIDs), "count", len(items))
	return items, nil
}

func (s *reviewService) vocabBatch(ctx context.Context, learnerID uuid.UUID, dueIDs []uuid.UUID, ease map[uuid.UUID]float64, limit int) ([]*model.ReviewItem, error) {
	logger := middleware.GetLogger(ctx)

	dueVocabs, err := s.vocabRepo.FindByIDs(ctx, s.db, learnerID, dueIDs)
	if err != nil {
		return nil, err
	}
	byID := make(map[uuid.UUID]*model.Vocab, len(dueVocabs))
	for _, v := range dueVocabs {
		byID[v.VocabID] = v
	}

	// 期限順を保つ
	vocabs := make([]*model.Vocab, 0, limit)
	for _, id := range dueIDs {
		v, ok := byID[id]
		if !ok {
			logger.Warn("Found progress without vocab, skipping", "item_id", id)
			continue
		}
		vocabs = append(vocabs, v)
	}

	if remaining := limit - len(vocabs); remaining > 0 {
		unseen, err := s.vocabRepo.FindUnseen(ctx, s.db, learnerID, remaining)
		if err != nil {
			return nil, err
		}
		vocabs = append(vocabs, unseen...)
	}

	items := make([]*model.ReviewItem, 0, len(vocabs))
	for _, v := range vocabs {
		distractors, err := s.vocabRepo.FindDistractors(ctx, s.db, learnerID, v.VocabID, s.cfg.App.DistractorCount)
		if err != nil {
			return nil, err
		}
		e, ok := ease[v.VocabID]
		if !ok {
			e = model.InitialEaseFactor
		}
		item := buildVocabItem(v, distractors, e, s.shuffle)
		if item == nil {
			logger.Warn("Not enough distinct definitions for choices, skipping", "item_id", v.VocabID)
			continue
		}
		items = append(items, item)
	}
	return items, nil
}

func (s *reviewService) questionBatch(ctx context.Context, learnerID uuid.UUID, dueIDs []uuid.UUID, ease map[uuid.UUID]float64, limit int) ([]*model.ReviewItem, error) {
	logger := middleware.GetLogger(ctx)

	dueQuestions, err := s.questionRepo.FindByIDsWithOptions(ctx, s.db, dueIDs)
	if err != nil {
		return nil, err
	}
	byID := make(map[uuid.UUID]*model.Question, len(dueQuestions))
	for _, q := range dueQuestions {
		byID[q.QuestionID] = q
	}

	questions := make([]*model.Question, 0, limit)
	for _, id := range dueIDs {
		q, ok := byID[id]
		if !ok {
			logger.Warn("Found progress without question, skipping", "item_id", id)
			continue
		}
		questions = append(questions, q)
	}

	if remaining := limit - len(questions); remaining > 0 {
		unseen, err := s.questionRepo.FindUnseenWithOptions(ctx, s.db, learnerID, remaining)
		if err != nil {
			return nil, err
		}
		questions = append(questions, unseen...)
	}

	items := make([]*model.ReviewItem, 0, len(questions))
	for _, q := range questions {
		e, ok := ease[q.QuestionID]
		if !ok {
			e = model.InitialEaseFactor
		}
		item := buildQuestionItem(q, e, s.shuffle)
		if item == nil {
			logger.Warn("Question has no correct option or too few options, skipping", "question_id", q.QuestionID)
			continue
		}
		items = append(items, item)
	}
	return items, nil
}

// SubmitReview は回答結果を受け取り、SM-2 で次回の復習日を再計算します。
// 同じ event_id の再送には保存済みの結果を返し、二重に計算しません。
func (s *reviewService) SubmitReview(ctx context.Context, learnerID uuid.UUID, kind model.ReviewKind, itemID uuid.UUID, req *model.SubmitReviewRequest) (*model.SubmitReviewResponse, error) {
	logger := middleware.GetLogger(ctx).With("learner_id", learnerID, "kind", kind, "item_id", itemID)

	if !kind.Valid() {
		return nil, invalidKindError(kind)
	}
	if req == nil || req.Quality == nil || req.ElapsedMs == nil {
		return nil, model.NewAppError("VALIDATION_ERROR", "qualityとelapsed_msは必須項目です。", "", model.ErrInvalidInput)
	}
	quality := *req.Quality
	if quality < 0 || quality > 5 {
		return nil, model.NewAppError("VALIDATION_ERROR", "回答品質は0から5の範囲で指定してください。", "quality", model.ErrInvalidInput)
	}
	if *req.ElapsedMs < 0 {
		return nil, model.NewAppError("VALIDATION_ERROR", "回答時間は0以上の値にしてください。", "elapsed_ms", model.ErrInvalidInput)
	}

	eventID := req.EventID
	if eventID == "" {
		eventID = uuid.NewString()
	}

	var resp *model.SubmitReviewResponse
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if req.EventID != "" {
			prev, err := s.eventRepo.FindByEventID(ctx, tx, learnerID, req.EventID)
			if err == nil {
				if prev.Kind != kind || prev.ItemID != itemID {
					return model.NewAppError("EVENT_ID_CONFLICT", "event_idが別の回答で使われています。", "event_id", model.ErrConflict)
				}
				logger.Info("Replayed review event, returning stored result", "event_id", req.EventID)
				resp = &model.SubmitReviewResponse{NextReviewAt: prev.NextReviewAt, Ease: prev.EaseFactor, IntervalDays: prev.IntervalDays}
				return nil
			}
			if !errors.Is(err, model.ErrNotFound) {
				logger.Error("Error finding review event", "error", err)
				return model.NewAppError("INTERNAL_SERVER_ERROR", "回答履歴の確認中にエラーが発生しました。", "", err)
			}
		}

		if err := s.ensureItemExists(ctx, tx, learnerID, kind, itemID); err != nil {
			return err
		}

		progress, err := s.progRepo.FindByItem(ctx, tx, learnerID, kind, itemID)
		if err != nil && !errors.Is(err, model.ErrNotFound) {
			logger.Error("Error finding progress in transaction", "error", err)
			return model.NewAppError("INTERNAL_SERVER_ERROR", "学習進捗の確認中にエラーが発生しました。", "", err)
		}
		isFound := err == nil

		if !isFound {
			progress = &model.ReviewProgress{
				ProgressID: uuid.New(),
				LearnerID:  learnerID,
				Kind:       kind,
				ItemID:     itemID,
				EaseFactor: model.InitialEaseFactor,
			}
		}
		ApplyReview(progress, quality, s.now())

		if !isFound {
			logger.Info("Progress not found, creating new progress.", "quality", quality)
			if createErr := s.progRepo.Create(ctx, tx, progress); createErr != nil {
				logger.Error("Error creating new progress", "error", createErr)
				return model.NewAppError("INTERNAL_SERVER_ERROR", "学習進捗の作成に失敗しました。", "", createErr)
			}
		} else {
			logger.Info("Updating existing progress.", "quality", quality)
			if updateErr := s.progRepo.Update(ctx, tx, progress); updateErr != nil {
				if errors.Is(updateErr, model.ErrNotFound) {
					logger.Warn("Failed to update progress, record not found", "error", updateErr)
					return model.NewAppError("NOT_FOUND", "更新対象の学習進捗が見つかりませんでした。", "", updateErr)
				}
				logger.Error("Error updating existing progress", "error", updateErr)
				return model.NewAppError("INTERNAL_SERVER_ERROR", "学習進捗の更新に失敗しました。", "", updateErr)
			}
		}

		event := &model.ReviewEvent{
			EventID:      eventID,
			LearnerID:    learnerID,
			Kind:         kind,
			ItemID:       itemID,
			Quality:      quality,
			ElapsedMs:    *req.ElapsedMs,
			EaseFactor:   progress.EaseFactor,
			IntervalDays: progress.IntervalDays,
			NextReviewAt: progress.NextReviewAt,
		}
		if err := s.eventRepo.Create(ctx, tx, event); err != nil {
			if errors.Is(err, model.ErrConflict) {
				return model.NewAppError("EVENT_ID_CONFLICT", "event_idが別の回答で使われています。", "event_id", err)
			}
			logger.Error("Error creating review event", "error", err)
			return model.NewAppError("INTERNAL_SERVER_ERROR", "回答履歴の保存に失敗しました。", "", err)
		}

		resp = &model.SubmitReviewResponse{
			NextReviewAt: progress.NextReviewAt,
			Ease:         progress.EaseFactor,
			IntervalDays: progress.IntervalDays,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Debug("Review submitted", "next_review_at", resp.NextReviewAt, "ease", resp.Ease)
	return resp, nil
}

func (s *reviewService) ensureItemExists(ctx context.Context, tx *gorm.DB, learnerID uuid.UUID, kind model.ReviewKind, itemID uuid.UUID) error {
	notFound := model.NewAppError("ITEM_NOT_FOUND", "復習対象が見つかりません。", "", model.ErrNotFound)

	switch kind {
	case model.KindVocab:
		vocabs, err := s.vocabRepo.FindByIDs(ctx, tx, learnerID, []uuid.UUID{itemID})
		if err != nil {
			return model.NewAppError("INTERNAL_SERVER_ERROR", "復習対象の確認中にエラーが発生しました。", "", err)
		}
		if len(vocabs) == 0 {
			return notFound
		}
	case model.KindQuestion:
		if _, err := s.questionRepo.FindByID(ctx, tx, itemID); err != nil {
			if errors.Is(err, model.ErrNotFound) {
				return notFound
			}
			return model.NewAppError("INTERNAL_SERVER_ERROR", "復習対象の確認中にエラーが発生しました。", "", err)
		}
	}
	return nil
}
