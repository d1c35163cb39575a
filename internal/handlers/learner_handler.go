// internal/handlers/learner_handler.go
package handlers

import (
	"log/slog"
	"net/http"

	"go_4_vocab_quiz/internal/middleware"
	"go_4_vocab_quiz/internal/model"
	"go_4_vocab_quiz/internal/service"
	"go_4_vocab_quiz/internal/webutil"
)

type LearnerHandler struct {
	service service.LearnerService
}

func NewLearnerHandler(s service.LearnerService) *LearnerHandler {
	return &LearnerHandler{service: s}
}

// CreateLearner は学習者を作成します (認証不要)
func (h *LearnerHandler) CreateLearner(w http.ResponseWriter, r *http.Request) {
	logger := middleware.GetLogger(r.Context()).With(slog.String("handler", "CreateLearner"))

	var req model.CreateLearnerRequest
	if err := webutil.DecodeAndValidate(r, &req); err != nil {
		logger.Warn("Invalid create learner request", slog.String("error", err.Error()))
		webutil.HandleError(w, logger, err)
		return
	}

	learner, err := h.service.CreateLearner(r.Context(), req.Name)
	if err != nil {
		webutil.HandleError(w, logger, err)
		return
	}

	webutil.RespondWithJSON(w, http.StatusCreated, model.LearnerResponse{
		LearnerID: learner.LearnerID,
		Name:      learner.Name,
		CreatedAt: learner.CreatedAt,
	})
}

// GetMe は認証済み学習者の情報を返します
func (h *LearnerHandler) GetMe(w http.ResponseWriter, r *http.Request) {
	logger := middleware.GetLogger(r.Context()).With(slog.String("handler", "GetMe"))

	learnerID, err := middleware.GetLearnerIDFromContext(r.Context())
	if err != nil {
		webutil.HandleError(w, logger, err)
		return
	}

	learner, err := h.service.GetLearner(r.Context(), learnerID)
	if err != nil {
		webutil.HandleError(w, logger, err)
		return
	}

	webutil.RespondWithJSON(w, http.StatusOK, model.LearnerResponse{
		LearnerID: learner.LearnerID,
		Name:      learner.Name,
		CreatedAt: learner.CreatedAt,
	})
}
