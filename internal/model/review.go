// internal/model/review.go
package model

import (
	"time"

	"github.com/google/uuid"
)

// ReviewItem は復習バッチの1問分です。サーバーとクライアントで共有します。
// 選択肢の IsCorrect は採点用で、回答前に表示してはいけません。
type ReviewItem struct {
	ItemID             uuid.UUID      `json:"item_id"`
	Kind               ReviewKind     `json:"kind"`
	Prompt             string         `json:"prompt"`
	Content            string         `json:"content,omitempty"` // 問題詳細を取得したときだけ入る
	Options            []ReviewOption `json:"options"`
	CorrectOptionIndex int            `json:"correct_option_index"`
	Ease               float64        `json:"ease"`
}

type ReviewOption struct {
	OptionID  uuid.UUID `json:"option_id"`
	Text      string    `json:"text"`
	IsCorrect bool      `json:"is_correct"`
}

// SubmitReviewRequest は復習結果送信リクエストのDTO
type SubmitReviewRequest struct {
	Quality   *float64 `json:"quality" validate:"required,min=0,max=5"`
	ElapsedMs *int64   `json:"elapsed_ms" validate:"required,min=0"`
	EventID   string   `json:"event_id" validate:"omitempty,max=64"`
}

// SubmitReviewResponse はサーバーが再計算したスケジュール
type SubmitReviewResponse struct {
	NextReviewAt time.Time `json:"next_review_at"`
	Ease         float64   `json:"ease"`
	IntervalDays int       `json:"interval_days"`
}
