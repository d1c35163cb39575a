// internal/model/question.go
package model

import (
	"time"

	"github.com/google/uuid"
)

// Question は全学習者で共有される多肢選択問題です。
// Content は Markdown で、詳細APIで HTML に変換して返します。
type Question struct {
	QuestionID uuid.UUID `gorm:"type:uuid;primaryKey" json:"question_id"`
	Prompt     string    `gorm:"not null;unique" json:"prompt"`
	Content    string    `json:"content"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`

	Options []Option `gorm:"foreignKey:QuestionID;references:QuestionID" json:"-"`
}

func (Question) TableName() string {
	return "questions"
}

type Option struct {
	OptionID   uuid.UUID `gorm:"type:uuid;primaryKey" json:"option_id"`
	QuestionID uuid.UUID `gorm:"type:uuid;not null;index" json:"question_id"`
	Text       string    `gorm:"not null" json:"text"`
	IsCorrect  bool      `gorm:"not null;default:false" json:"is_correct"`
	Position   int       `gorm:"not null;default:0" json:"position"`
}

func (Option) TableName() string {
	return "options"
}

// QuestionDetailResponse は問題詳細APIのレスポンス
type QuestionDetailResponse struct {
	QuestionID  uuid.UUID `json:"question_id"`
	Prompt      string    `json:"prompt"`
	Content     string    `json:"content"`
	ContentHTML string    `json:"content_html"`
}
