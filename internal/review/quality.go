package review

import "time"

// 回答時間のしきい値
const (
	FastAnswer = 4 * time.Second
	SlowAnswer = 10 * time.Second
)

// EstimateQuality は正誤と回答時間から SM-2 の回答品質 (0〜5) を推定します。
// 負の時間は速い回答として扱います。
func EstimateQuality(isCorrect bool, elapsed time.Duration) float64 {
	if isCorrect {
		switch {
		case elapsed < FastAnswer:
			return 5
		case elapsed < SlowAnswer:
			return 4
		default:
			return 3.5
		}
	}
	switch {
	case elapsed < FastAnswer:
		return 2
	case elapsed < SlowAnswer:
		return 1
	default:
		return 0
	}
}
