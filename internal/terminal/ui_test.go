package terminal

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"sync"
	"testing"
	"time"

	"go_4_vocab_quiz/internal/model"
	"go_4_vocab_quiz/internal/review"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubSource struct {
	batches [][]*model.ReviewItem
	errs    []error
	calls   int
}

func (s *stubSource) FetchDue(ctx context.Context, kind model.ReviewKind) ([]*model.ReviewItem, error) {
	i := s.calls
	s.calls++
	if i < len(s.errs) && s.errs[i] != nil {
		return nil, s.errs[i]
	}
	if i < len(s.batches) {
		return s.batches[i], nil
	}
	return nil, nil
}

type eventLog struct {
	mu     sync.Mutex
	events []review.AnswerEvent
}

func (l *eventLog) Submit(ev review.AnswerEvent) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.events = append(l.events, ev)
	return nil
}

func vocabItem(term string, correct int, texts ...string) *model.ReviewItem {
	item := &model.ReviewItem{ItemID: uuid.New(), Kind: model.KindVocab, Prompt: term, CorrectOptionIndex: correct}
	for i, text := range texts {
		item.Options = append(item.Options, model.ReviewOption{OptionID: uuid.New(), Text: text, IsCorrect: i == correct})
	}
	return item
}

func runUI(t *testing.T, source review.BatchSource, input string) (string, *eventLog) {
	t.Helper()
	var out bytes.Buffer
	ui := New(strings.NewReader(input), &out)
	events := &eventLog{}
	ctrl := review.NewController(model.KindVocab, source, events, ui,
		review.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))))
	t.Cleanup(ctrl.Close)

	require.NoError(t, ui.Run(context.Background(), ctrl))
	return out.String(), events
}

func TestUI_AnswerAndAdvance(t *testing.T) {
	source := &stubSource{batches: [][]*model.ReviewItem{{
		vocabItem("ephemeral", 1, "永遠の", "つかの間の", "頑丈な"),
		vocabItem("robust", 2, "壊れやすい", "つかの間の", "頑丈な"),
	}}}

	// 1問目は正解、2問目は不正解、完了後に終了
	out, events := runUI(t, source, "2\n\n1\n\nq\n")

	assert.Contains(t, out, "[1/2] ephemeral")
	assert.Contains(t, out, "   2) つかの間の")
	assert.Contains(t, out, "正解!")
	assert.Contains(t, out, " ○ 2) つかの間の  <- あなたの回答")
	assert.Contains(t, out, "[2/2] robust")
	assert.Contains(t, out, "不正解")
	assert.Contains(t, out, " × 1) 壊れやすい  <- あなたの回答")
	assert.Contains(t, out, " ○ 3) 頑丈な")
	assert.Contains(t, out, "全 2 問が終わりました。")

	require.Len(t, events.events, 2)
	assert.True(t, events.events[0].IsCorrect)
	assert.Equal(t, 1, events.events[0].SelectedIndex)
	assert.False(t, events.events[1].IsCorrect)
	assert.Equal(t, 1, source.calls)
}

func TestUI_InvalidInput(t *testing.T) {
	source := &stubSource{batches: [][]*model.ReviewItem{{vocabItem("ephemeral", 0, "つかの間の", "永遠の")}}}

	out, events := runUI(t, source, "abc\n9\n0\n1\nq\n")

	assert.Contains(t, out, "番号を入力してください。")
	assert.Equal(t, 2, strings.Count(out, "1 から 2 の番号を入力してください。"))
	require.Len(t, events.events, 1)
	assert.Equal(t, 0, events.events[0].SelectedIndex)
}

func TestUI_NoItemsDueAndRetry(t *testing.T) {
	source := &stubSource{
		errs:    []error{errors.New("connection refused")},
		batches: [][]*model.ReviewItem{nil, {}},
	}

	out, _ := runUI(t, source, "r\nq\n")

	assert.Contains(t, out, "[error] 復習項目の取得に失敗しました。")
	assert.Contains(t, out, "[info] 今は復習する項目がありません。")
	assert.Equal(t, 2, strings.Count(out, "r で再取得、q で終了: "))
	assert.Equal(t, 2, source.calls)
}

func TestUI_RestartAfterCompletion(t *testing.T) {
	source := &stubSource{batches: [][]*model.ReviewItem{
		{vocabItem("ephemeral", 0, "つかの間の", "永遠の")},
		{vocabItem("robust", 0, "頑丈な", "壊れやすい")},
	}}

	out, events := runUI(t, source, "1\n\nr\n1\n\nq\n")

	assert.Contains(t, out, "[1/1] ephemeral")
	assert.Contains(t, out, "[1/1] robust")
	assert.Equal(t, 2, strings.Count(out, "全 1 問が終わりました。"))
	assert.Len(t, events.events, 2)
	assert.Equal(t, 2, source.calls)
}

func TestUI_EndOfInput(t *testing.T) {
	source := &stubSource{batches: [][]*model.ReviewItem{{vocabItem("ephemeral", 0, "つかの間の", "永遠の")}}}

	out, events := runUI(t, source, "")
	assert.Contains(t, out, "[1/1] ephemeral")
	assert.Empty(t, events.events)
}

func TestUI_RenderScheduleAndContent(t *testing.T) {
	var out bytes.Buffer
	ui := New(strings.NewReader(""), &out)
	item := vocabItem("GETは冪等?", 0, "はい", "いいえ")
	item.Content = "RFC 9110\nsection 9.2.2"
	selected := 0

	ui.renderItem(review.Snapshot{State: review.StatePresenting, Item: item, Position: 0, Total: 3})
	ui.renderFeedback(review.Snapshot{
		State:         review.StateAnswering,
		Item:          item,
		SelectedIndex: &selected,
		LastAnswer:    &review.AnswerEvent{IsCorrect: true},
		Schedule:      &model.SubmitReviewResponse{NextReviewAt: time.Date(2024, 5, 7, 12, 0, 0, 0, time.Local), IntervalDays: 6},
	})

	s := out.String()
	assert.Contains(t, s, "[1/3] GETは冪等?\n    RFC 9110\n    section 9.2.2\n")
	assert.Contains(t, s, "次回: 2024-05-07 (6 日後)")
}

func TestUI_ScheduledAfterFeedback(t *testing.T) {
	item := vocabItem("ephemeral", 0, "つかの間の", "永遠の")
	selected := 0
	answering := review.Snapshot{State: review.StateAnswering, Item: item, SelectedIndex: &selected, LastAnswer: &review.AnswerEvent{IsCorrect: true}}
	resp := model.SubmitReviewResponse{NextReviewAt: time.Date(2024, 5, 2, 12, 0, 0, 0, time.Local), IntervalDays: 1}

	t.Run("正常系: 結果の表示後に届いた予定を追記する", func(t *testing.T) {
		var out bytes.Buffer
		ui := New(strings.NewReader(""), &out)

		ui.renderFeedback(answering)
		assert.NotContains(t, out.String(), "次回")

		ui.Scheduled(item.ItemID, resp)
		assert.Contains(t, out.String(), "ephemeral の次回: 2024-05-02 (1 日後)")

		// 同じ予定を二度は出さない
		ui.Scheduled(item.ItemID, resp)
		assert.Equal(t, 1, strings.Count(out.String(), "次回"))
	})

	t.Run("正常系: 表示前に届いた予定は結果と一緒に出す", func(t *testing.T) {
		var out bytes.Buffer
		ui := New(strings.NewReader(""), &out)

		ui.Scheduled(item.ItemID, resp)
		assert.Empty(t, out.String())

		ui.renderFeedback(answering)
		assert.Equal(t, 1, strings.Count(out.String(), "次回: 2024-05-02 (1 日後)"))
	})

	t.Run("正常系: 別の項目の予定は追記しない", func(t *testing.T) {
		var out bytes.Buffer
		ui := New(strings.NewReader(""), &out)

		ui.renderFeedback(answering)
		ui.Scheduled(uuid.New(), resp)
		assert.NotContains(t, out.String(), "次回")
	})
}
