package service

import (
	"context"
	"testing"

	"go_4_vocab_quiz/internal/model"
	"go_4_vocab_quiz/internal/repository"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_questionService(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	svc := NewQuestionService(db, repository.NewGormQuestionRepository())

	q1 := &model.Question{QuestionID: uuid.New(), Prompt: "冪等なメソッドは?", Content: "**PUT** は冪等です。\n\n| a | b |\n|---|---|\n| 1 | 2 |\n\n<script>alert(1)</script>"}
	q1.Options = []model.Option{
		{OptionID: uuid.New(), QuestionID: q1.QuestionID, Text: "PUT", IsCorrect: true, Position: 1},
		{OptionID: uuid.New(), QuestionID: q1.QuestionID, Text: "POST", Position: 0},
	}
	q2 := &model.Question{QuestionID: uuid.New(), Prompt: "安全なメソッドは?"}
	q2.Options = []model.Option{{OptionID: uuid.New(), QuestionID: q2.QuestionID, Text: "GET", IsCorrect: true}}
	require.NoError(t, db.Create(q1).Error)
	require.NoError(t, db.Create(q2).Error)

	t.Run("正常系: Markdownを HTML に変換して返す", func(t *testing.T) {
		detail, err := svc.GetQuestionDetail(ctx, q1.QuestionID)
		require.NoError(t, err)
		assert.Equal(t, q1.Prompt, detail.Prompt)
		assert.Contains(t, detail.ContentHTML, "<strong>PUT</strong>")
		assert.Contains(t, detail.ContentHTML, "<table>") // GFM のテーブル
		assert.NotContains(t, detail.ContentHTML, "<script>")
	})

	t.Run("異常系: 存在しない問題", func(t *testing.T) {
		_, err := svc.GetQuestionDetail(ctx, uuid.New())
		assert.ErrorIs(t, err, model.ErrNotFound)
	})

	t.Run("正常系: 複数問題の選択肢をまとめて取得", func(t *testing.T) {
		options, err := svc.ListOptions(ctx, []uuid.UUID{q1.QuestionID, q2.QuestionID})
		require.NoError(t, err)
		require.Len(t, options, 3)

		byQuestion := map[uuid.UUID][]string{}
		for _, o := range options {
			byQuestion[o.QuestionID] = append(byQuestion[o.QuestionID], o.Text)
		}
		assert.Equal(t, []string{"POST", "PUT"}, byQuestion[q1.QuestionID])
		assert.Equal(t, []string{"GET"}, byQuestion[q2.QuestionID])
	})

	t.Run("異常系: question_idsが空", func(t *testing.T) {
		_, err := svc.ListOptions(ctx, nil)
		assert.ErrorIs(t, err, model.ErrInvalidInput)
	})
}
