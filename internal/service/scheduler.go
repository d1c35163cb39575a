package service

import (
	"math"
	"time"

	"go_4_vocab_quiz/internal/model"
)

// MaxIntervalDays は復習間隔の上限 (日)
const MaxIntervalDays = 365

// ApplyReview は SM-2 に従って進捗を更新します。
// quality は 0〜5 の範囲に丸めてから使います。
func ApplyReview(p *model.ReviewProgress, quality float64, now time.Time) {
	q := math.Max(0, math.Min(5, quality))

	ease := p.EaseFactor
	if ease == 0 {
		ease = model.InitialEaseFactor
	}
	ease = ease + 0.1 - (5-q)*(0.08+(5-q)*0.02)
	if ease < model.MinEaseFactor {
		ease = model.MinEaseFactor
	}

	var interval int
	if q < 3 {
		// 失敗したら最初からやり直し
		p.Repetitions = 0
		interval = 1
	} else {
		p.Repetitions++
		switch p.Repetitions {
		case 1:
			interval = 1
		case 2:
			interval = 6
		default:
			interval = int(math.Ceil(float64(p.IntervalDays) * ease))
		}
	}
	if interval > MaxIntervalDays {
		interval = MaxIntervalDays
	}

	// DB の精度 (マイクロ秒) に揃える
	reviewedAt := now.UTC().Truncate(time.Microsecond)
	p.EaseFactor = ease
	p.IntervalDays = interval
	p.LastQuality = q
	p.LastReviewedAt = &reviewedAt
	p.NextReviewAt = reviewedAt.AddDate(0, 0, interval)
}
