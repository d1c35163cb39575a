// internal/model/progress.go
package model

import (
	"time"

	"github.com/google/uuid"
)

// ReviewKind は復習対象の種類
type ReviewKind string

const (
	KindVocab    ReviewKind = "vocab"
	KindQuestion ReviewKind = "question"
)

func (k ReviewKind) Valid() bool {
	return k == KindVocab || k == KindQuestion
}

// SM-2 の初期値
const (
	InitialEaseFactor = 2.5
	MinEaseFactor     = 1.3
)

// ReviewProgress は学習者ごと・対象ごとの復習スケジュールです
type ReviewProgress struct {
	ProgressID     uuid.UUID  `gorm:"type:uuid;primaryKey"`
	LearnerID      uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex:idx_learner_item"`
	Kind           ReviewKind `gorm:"type:varchar(16);not null;uniqueIndex:idx_learner_item"`
	ItemID         uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex:idx_learner_item"`
	EaseFactor     float64    `gorm:"not null;default:2.5"`
	IntervalDays   int        `gorm:"not null;default:0"`
	Repetitions    int        `gorm:"not null;default:0"`
	LastQuality    float64
	NextReviewAt   time.Time `gorm:"not null;index"`
	LastReviewedAt *time.Time
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

func (ReviewProgress) TableName() string {
	return "review_progress"
}

// ReviewEvent は受け付けた復習結果の記録です。
// EventID はクライアントが生成し、再送時の二重計上を防ぎます。学習者ごとに一意です。
type ReviewEvent struct {
	LearnerID    uuid.UUID  `gorm:"type:uuid;primaryKey"`
	EventID      string     `gorm:"type:varchar(64);primaryKey"`
	Kind         ReviewKind `gorm:"type:varchar(16);not null"`
	ItemID       uuid.UUID  `gorm:"type:uuid;not null"`
	Quality      float64    `gorm:"not null"`
	ElapsedMs    int64      `gorm:"not null"`
	EaseFactor   float64    `gorm:"not null"`
	IntervalDays int        `gorm:"not null"`
	NextReviewAt time.Time  `gorm:"not null"`
	CreatedAt    time.Time
}

func (ReviewEvent) TableName() string {
	return "review_events"
}
