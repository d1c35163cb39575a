package main

import (
	"context"
	"testing"
	"time"

	"go_4_vocab_quiz/internal/config"
	"go_4_vocab_quiz/internal/model"
	"go_4_vocab_quiz/internal/review"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToSubmission(t *testing.T) {
	itemID := uuid.New()
	sub := toSubmission(review.AnswerEvent{
		ItemID:    itemID,
		Kind:      model.KindQuestion,
		IsCorrect: true,
		Quality:   4,
		Elapsed:   4500*time.Millisecond + 999*time.Microsecond,
	})

	assert.Equal(t, itemID, sub.ItemID)
	assert.Equal(t, model.KindQuestion, sub.Kind)
	assert.Equal(t, 4.0, sub.Quality)
	assert.Equal(t, int64(4500), sub.ElapsedMs)
	assert.Empty(t, sub.EventID, "EventID は送信キューが採番する")
}

func TestRunReview_InvalidSettings(t *testing.T) {
	tests := []struct {
		name string
		cfg  config.ClientConfig
		want string
	}{
		{"異常系: 不正な kind", config.ClientConfig{Kind: "grammar", LearnerID: uuid.NewString()}, "invalid kind"},
		{"異常系: 学習者の指定なし", config.ClientConfig{Kind: "vocab"}, "learner_id or client.token"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := runReview(context.Background(), tt.cfg, config.OutboxConfig{})
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestNewLogger(t *testing.T) {
	for _, level := range []string{"debug", "info", "warn", "error", "unknown"} {
		assert.NotNil(t, newLogger(level))
	}
}
