// internal/model/vocab.go
package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Vocab は学習者が覚える単語とその意味です
type Vocab struct {
	VocabID    uuid.UUID      `gorm:"type:uuid;primaryKey" json:"vocab_id"`
	LearnerID  uuid.UUID      `gorm:"type:uuid;not null;index" json:"-"`
	Term       string         `gorm:"not null" json:"term"`
	Definition string         `gorm:"not null" json:"definition"`
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
	DeletedAt  gorm.DeletedAt `gorm:"index" json:"-"` // 論理削除用
}

func (Vocab) TableName() string {
	return "vocabs"
}
