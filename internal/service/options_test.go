package service

import (
	"testing"

	"go_4_vocab_quiz/internal/model"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildVocabItem(t *testing.T) {
	target := &model.Vocab{VocabID: uuid.New(), Term: "ephemeral", Definition: "一時的な"}
	d1 := &model.Vocab{VocabID: uuid.New(), Term: "robust", Definition: "頑丈な"}
	d2 := &model.Vocab{VocabID: uuid.New(), Term: "brief", Definition: "一時的な"} // 同じ意味は除外
	d3 := &model.Vocab{VocabID: uuid.New(), Term: "vivid", Definition: "鮮やかな"}

	t.Run("正常系: 並べ替えなしなら正解は先頭", func(t *testing.T) {
		item := buildVocabItem(target, []*model.Vocab{d1, d2, d3}, 2.2, noShuffle)

		assert.Equal(t, target.VocabID, item.ItemID)
		assert.Equal(t, model.KindVocab, item.Kind)
		assert.Equal(t, "ephemeral", item.Prompt)
		assert.Equal(t, 2.2, item.Ease)
		require.Len(t, item.Options, 3)
		assert.Equal(t, 0, item.CorrectOptionIndex)
		assert.Equal(t, target.VocabID, item.Options[0].OptionID)
		assert.Equal(t, d1.VocabID, item.Options[1].OptionID)
		assert.Equal(t, d3.VocabID, item.Options[2].OptionID)
	})

	t.Run("正常系: 並べ替え後も正解の位置を追跡する", func(t *testing.T) {
		item := buildVocabItem(target, []*model.Vocab{d1, d3}, 2.5, reverseShuffle)

		require.Len(t, item.Options, 3)
		assert.Equal(t, 2, item.CorrectOptionIndex)
		assert.Equal(t, "一時的な", item.Options[item.CorrectOptionIndex].Text)
		assert.True(t, item.Options[item.CorrectOptionIndex].IsCorrect)
	})

	t.Run("異常系: 他の単語が無ければ1択になるのでnil", func(t *testing.T) {
		assert.Nil(t, buildVocabItem(target, nil, 2.5, defaultShuffle))
	})

	t.Run("異常系: 他の単語がすべて同じ意味ならnil", func(t *testing.T) {
		same := &model.Vocab{VocabID: uuid.New(), Term: "transient", Definition: target.Definition}
		assert.Nil(t, buildVocabItem(target, []*model.Vocab{same, target}, 2.5, noShuffle))
	})
}

func TestBuildQuestionItem(t *testing.T) {
	qid := uuid.New()

	t.Run("正常系: 保存済みの選択肢から組み立てる", func(t *testing.T) {
		q := &model.Question{
			QuestionID: qid,
			Prompt:     "冪等なメソッドは?",
			Options: []model.Option{
				{OptionID: uuid.New(), Text: "POST", Position: 0},
				{OptionID: uuid.New(), Text: "PUT", IsCorrect: true, Position: 1},
				{OptionID: uuid.New(), Text: "PATCH", Position: 2},
			},
		}
		item := buildQuestionItem(q, 2.5, reverseShuffle)
		require.NotNil(t, item)
		assert.Equal(t, model.KindQuestion, item.Kind)
		assert.Equal(t, 1, item.CorrectOptionIndex)
		assert.Equal(t, "PATCH", item.Options[0].Text)
		assert.Equal(t, "PUT", item.Options[item.CorrectOptionIndex].Text)
	})

	t.Run("異常系: 正解の無い問題はnil", func(t *testing.T) {
		q := &model.Question{
			QuestionID: qid,
			Options:    []model.Option{{OptionID: uuid.New(), Text: "A"}},
		}
		assert.Nil(t, buildQuestionItem(q, 2.5, noShuffle))
	})

	t.Run("異常系: 選択肢が1つだけの問題はnil", func(t *testing.T) {
		q := &model.Question{
			QuestionID: qid,
			Options:    []model.Option{{OptionID: uuid.New(), Text: "A", IsCorrect: true}},
		}
		assert.Nil(t, buildQuestionItem(q, 2.5, noShuffle))
	})
}
