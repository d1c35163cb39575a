package handlers

import (
	"log/slog"
	"net/http"
	"strings"

	"go_4_vocab_quiz/internal/middleware"
	"go_4_vocab_quiz/internal/model"
	"go_4_vocab_quiz/internal/service"
	"go_4_vocab_quiz/internal/webutil"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

type QuestionHandler struct {
	service service.QuestionService
}

func NewQuestionHandler(s service.QuestionService) *QuestionHandler {
	return &QuestionHandler{service: s}
}

// GetQuestion は GET /questions/{question_id} を処理します。
func (h *QuestionHandler) GetQuestion(w http.ResponseWriter, r *http.Request) {
	logger := middleware.GetLogger(r.Context()).With(slog.String("handler", "GetQuestion"))

	questionID, err := uuid.Parse(chi.URLParam(r, "question_id"))
	if err != nil {
		webutil.HandleError(w, logger, model.NewAppError("INVALID_ID_FORMAT", "IDの形式が正しくありません。", "question_id", model.ErrInvalidInput))
		return
	}

	detail, err := h.service.GetQuestionDetail(r.Context(), questionID)
	if err != nil {
		webutil.HandleError(w, logger, err)
		return
	}
	webutil.RespondWithJSON(w, http.StatusOK, detail)
}

// ListOptions は GET /options?question_ids=a,b,c を処理します。
func (h *QuestionHandler) ListOptions(w http.ResponseWriter, r *http.Request) {
	logger := middleware.GetLogger(r.Context()).With(slog.String("handler", "ListOptions"))

	raw := r.URL.Query().Get("question_ids")
	var ids []uuid.UUID
	for _, s := range strings.Split(raw, ",") {
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		id, err := uuid.Parse(s)
		if err != nil {
			webutil.HandleError(w, logger, model.NewAppError("INVALID_ID_FORMAT", "IDの形式が正しくありません。", "question_ids", model.ErrInvalidInput))
			return
		}
		ids = append(ids, id)
	}

	options, err := h.service.ListOptions(r.Context(), ids)
	if err != nil {
		webutil.HandleError(w, logger, err)
		return
	}
	if options == nil {
		options = []*model.Option{}
	}
	webutil.RespondWithJSON(w, http.StatusOK, options)
}
