package service

import (
	"math/rand"

	"go_4_vocab_quiz/internal/model"
)

// shuffleFunc は rand.Shuffle と同じシグネチャ。テストでは差し替えます。
type shuffleFunc func(n int, swap func(i, j int))

var defaultShuffle shuffleFunc = rand.Shuffle

// shuffleOptions は選択肢を並べ替え、並べ替え後の正解の位置を返します。
// 正解が無い場合は -1。
func shuffleOptions(options []model.ReviewOption, shuffle shuffleFunc) int {
	if shuffle != nil {
		shuffle(len(options), func(i, j int) {
			options[i], options[j] = options[j], options[i]
		})
	}
	for i, o := range options {
		if o.IsCorrect {
			return i
		}
	}
	return -1
}

// MinOptions は出題できる選択肢の最小数
const MinOptions = 2

// buildVocabItem は正しい意味と他の単語の意味から選択肢を組み立てます。
// 選択肢IDは意味の出典となった単語のIDです。紛らわしい選択肢が作れなければ nil。
func buildVocabItem(v *model.Vocab, distractors []*model.Vocab, ease float64, shuffle shuffleFunc) *model.ReviewItem {
	options := make([]model.ReviewOption, 0, len(distractors)+1)
	options = append(options, model.ReviewOption{OptionID: v.VocabID, Text: v.Definition, IsCorrect: true})
	for _, d := range distractors {
		if d.VocabID == v.VocabID || d.Definition == v.Definition {
			continue
		}
		options = append(options, model.ReviewOption{OptionID: d.VocabID, Text: d.Definition})
	}
	if len(options) < MinOptions {
		return nil
	}
	correct := shuffleOptions(options, shuffle)
	return &model.ReviewItem{
		ItemID:             v.VocabID,
		Kind:               model.KindVocab,
		Prompt:             v.Term,
		Options:            options,
		CorrectOptionIndex: correct,
		Ease:               ease,
	}
}

// buildQuestionItem は保存済みの選択肢から復習アイテムを組み立てます。
// 正解の選択肢が無い問題と選択肢が1つ以下の問題は nil を返します。
func buildQuestionItem(q *model.Question, ease float64, shuffle shuffleFunc) *model.ReviewItem {
	if len(q.Options) < MinOptions {
		return nil
	}
	options := make([]model.ReviewOption, 0, len(q.Options))
	for _, o := range q.Options {
		options = append(options, model.ReviewOption{OptionID: o.OptionID, Text: o.Text, IsCorrect: o.IsCorrect})
	}
	correct := shuffleOptions(options, shuffle)
	if correct < 0 {
		return nil
	}
	return &model.ReviewItem{
		ItemID:             q.QuestionID,
		Kind:               model.KindQuestion,
		Prompt:             q.Prompt,
		Options:            options,
		CorrectOptionIndex: correct,
		Ease:               ease,
	}
}
