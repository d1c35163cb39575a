// internal/handlers/review_handler.go
package handlers

import (
	"log/slog"
	"net/http"

	"go_4_vocab_quiz/internal/middleware"
	"go_4_vocab_quiz/internal/model"
	"go_4_vocab_quiz/internal/service"
	"go_4_vocab_quiz/internal/webutil"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

type ReviewHandler struct {
	service service.ReviewService
}

func NewReviewHandler(s service.ReviewService) *ReviewHandler {
	return &ReviewHandler{service: s}
}

// GetReviewBatch は GET /reviews?kind=vocab|question を処理します。kind 省略時は vocab。
func (h *ReviewHandler) GetReviewBatch(w http.ResponseWriter, r *http.Request) {
	logger := middleware.GetLogger(r.Context()).With(slog.String("handler", "GetReviewBatch"))

	learnerID, err := middleware.GetLearnerIDFromContext(r.Context())
	if err != nil {
		webutil.HandleError(w, logger, err)
		return
	}

	kind := model.ReviewKind(r.URL.Query().Get("kind"))
	if kind == "" {
		kind = model.KindVocab
	}

	items, err := h.service.GetReviewBatch(r.Context(), learnerID, kind)
	if err != nil {
		webutil.HandleError(w, logger, err)
		return
	}

	if items == nil {
		items = []*model.ReviewItem{}
	}
	webutil.RespondWithJSON(w, http.StatusOK, items)
}

// SubmitReview は POST /reviews/{kind}/{item_id} を処理します。
func (h *ReviewHandler) SubmitReview(w http.ResponseWriter, r *http.Request) {
	logger := middleware.GetLogger(r.Context()).With(slog.String("handler", "SubmitReview"))

	learnerID, err := middleware.GetLearnerIDFromContext(r.Context())
	if err != nil {
		webutil.HandleError(w, logger, err)
		return
	}

	kind := model.ReviewKind(chi.URLParam(r, "kind"))
	itemIDStr := chi.URLParam(r, "item_id")
	itemID, err := uuid.Parse(itemIDStr)
	if err != nil {
		logger.Warn("Invalid item ID format", slog.String("item_id", itemIDStr))
		webutil.HandleError(w, logger, model.NewAppError("INVALID_ID_FORMAT", "IDの形式が正しくありません。", "item_id", model.ErrInvalidInput))
		return
	}

	var req model.SubmitReviewRequest
	if err := webutil.DecodeAndValidate(r, &req); err != nil {
		logger.Warn("Invalid submit review request", slog.String("error", err.Error()))
		webutil.HandleError(w, logger, err)
		return
	}

	resp, err := h.service.SubmitReview(r.Context(), learnerID, kind, itemID, &req)
	if err != nil {
		webutil.HandleError(w, logger, err)
		return
	}

	webutil.RespondWithJSON(w, http.StatusOK, resp)
}
