package review

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"go_4_vocab_quiz/internal/model"

	"github.com/google/uuid"
)

var (
	// ErrInvalidTransition は現在の状態では実行できない操作です。状態は変わりません。
	ErrInvalidTransition = errors.New("invalid session transition")
	ErrOptionOutOfRange  = errors.New("option index out of range")
	ErrClosed            = errors.New("session closed")
)

// State はセッションの状態
type State int

const (
	StateIdle State = iota
	StateLoading
	StatePresenting
	StateAnswering
	StateCompleted
	StateNoItemsDue
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateLoading:
		return "loading"
	case StatePresenting:
		return "presenting"
	case StateAnswering:
		return "answering"
	case StateCompleted:
		return "completed"
	case StateNoItemsDue:
		return "no_items_due"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// AnswerEvent は1問分の回答結果です。
type AnswerEvent struct {
	ItemID        uuid.UUID
	Kind          model.ReviewKind
	SelectedIndex int
	IsCorrect     bool
	Quality       float64
	Elapsed       time.Duration
	AnsweredAt    time.Time
}

// BatchSource は期限の来た復習項目を取得します。
type BatchSource interface {
	FetchDue(ctx context.Context, kind model.ReviewKind) ([]*model.ReviewItem, error)
}

// Submitter は回答結果を受け取ります。呼び出し元をブロックしてはいけません。
type Submitter interface {
	Submit(ev AnswerEvent) error
}

// SubmitterFunc は関数を Submitter として使うためのアダプタ
type SubmitterFunc func(ev AnswerEvent) error

func (f SubmitterFunc) Submit(ev AnswerEvent) error { return f(ev) }

// Snapshot は表示用のセッション状態のコピーです。
type Snapshot struct {
	State         State
	Kind          model.ReviewKind
	Item          *model.ReviewItem // Presenting / Answering の間だけ非nil
	Position      int
	Total         int
	SelectedIndex *int // Answering の間だけ非nil
	Answering     bool
	LastAnswer    *AnswerEvent
	// Schedule はサーバーが返した現在の項目の次回予定 (送信済みの場合)
	Schedule *model.SubmitReviewResponse
}

// Option は Controller の設定を変更します。
type Option func(*Controller)

func WithLogger(logger *slog.Logger) Option {
	return func(c *Controller) { c.logger = logger }
}

// WithClock は現在時刻の取得方法を差し替えます (テスト用)。
func WithClock(now func() time.Time) Option {
	return func(c *Controller) { c.now = now }
}

// Controller は1回の復習セッションの状態遷移を管理します。
//
//	Idle/Completed/NoItemsDue --Start--> Loading --> Presenting | NoItemsDue
//	Presenting --Select--> Answering --Next--> Presenting | Completed
//
// 最後の項目を過ぎると Completed になり、次のバッチは Start を呼ぶまで取得しません。
type Controller struct {
	kind      model.ReviewKind
	source    BatchSource
	submitter Submitter
	notifier  Notifier
	logger    *slog.Logger
	now       func() time.Time

	// ライフサイクル。Close で取り消され、取得中の結果は破棄される
	lifecycle context.Context
	cancel    context.CancelFunc

	mu         sync.Mutex
	closed     bool
	state      State
	generation uint64
	items      []*model.ReviewItem
	index      int
	startTime  time.Time
	selected   *int
	lastAnswer *AnswerEvent
	schedules  map[uuid.UUID]model.SubmitReviewResponse
}

func NewController(kind model.ReviewKind, source BatchSource, submitter Submitter, notifier Notifier, opts ...Option) *Controller {
	ctx, cancel := context.WithCancel(context.Background())
	c := &Controller{
		kind:      kind,
		source:    source,
		submitter: submitter,
		notifier:  notifier,
		logger:    slog.Default(),
		now:       time.Now,
		lifecycle: ctx,
		cancel:    cancel,
		state:     StateIdle,
		schedules: make(map[uuid.UUID]model.SubmitReviewResponse),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.notifier == nil {
		c.notifier = LogNotifier{Logger: c.logger}
	}
	return c
}

// Start は新しいバッチを取得してセッションを開始します。
// 取得に失敗した場合はエラーを通知して NoItemsDue になり、再度 Start で再試行できます。
func (c *Controller) Start(ctx context.Context) error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return ErrClosed
	}
	if c.state == StateLoading {
		c.mu.Unlock()
		return ErrInvalidTransition
	}
	c.generation++
	gen := c.generation
	c.state = StateLoading
	c.items = nil
	c.index = 0
	c.selected = nil
	c.lastAnswer = nil
	c.schedules = make(map[uuid.UUID]model.SubmitReviewResponse)
	c.mu.Unlock()

	fetchCtx, cancel := context.WithCancel(c.lifecycle)
	defer cancel()
	stop := context.AfterFunc(ctx, cancel)
	defer stop()

	items, err := c.source.FetchDue(fetchCtx, c.kind)

	// Notifier は Snapshot を呼び返すことがあるので、ロックを外してから通知する
	c.mu.Lock()
	if c.closed || gen != c.generation {
		c.mu.Unlock()
		c.logger.Debug("Discarding stale review batch", "generation", gen)
		return ErrClosed
	}

	if err != nil {
		c.state = StateNoItemsDue
		c.mu.Unlock()
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		c.logger.Error("Failed to fetch review batch", "kind", c.kind, "error", err)
		c.notifier.Notify(NoticeError, "復習項目の取得に失敗しました。もう一度お試しください。")
		return fmt.Errorf("fetch review batch: %w", err)
	}

	c.items = playable(items, c.logger)
	if len(c.items) == 0 {
		c.state = StateNoItemsDue
		c.mu.Unlock()
		c.notifier.Notify(NoticeInfo, "今は復習する項目がありません。")
		return nil
	}

	c.state = StatePresenting
	c.startTime = c.now()
	n := len(c.items)
	c.mu.Unlock()
	c.logger.Info("Review session started", "kind", c.kind, "items", n)
	return nil
}

// playable は回答できない項目 (選択肢が2つ未満・正解位置が範囲外) を除きます。
func playable(items []*model.ReviewItem, logger *slog.Logger) []*model.ReviewItem {
	out := make([]*model.ReviewItem, 0, len(items))
	for _, it := range items {
		if it == nil || len(it.Options) < 2 || it.CorrectOptionIndex < 0 || it.CorrectOptionIndex >= len(it.Options) {
			logger.Warn("Skipping review item that cannot be answered", "item", it)
			continue
		}
		out = append(out, it)
	}
	return out
}

// Select は選択肢を選んで回答します。回答結果は Submitter に渡し、送信の完了は待ちません。
func (c *Controller) Select(index int) error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return ErrClosed
	}
	if c.state != StatePresenting {
		c.mu.Unlock()
		return ErrInvalidTransition
	}
	item := c.items[c.index]
	if index < 0 || index >= len(item.Options) {
		c.mu.Unlock()
		return ErrOptionOutOfRange
	}

	now := c.now()
	elapsed := now.Sub(c.startTime)
	isCorrect := index == item.CorrectOptionIndex
	ev := AnswerEvent{
		ItemID:        item.ItemID,
		Kind:          item.Kind,
		SelectedIndex: index,
		IsCorrect:     isCorrect,
		Quality:       EstimateQuality(isCorrect, elapsed),
		Elapsed:       elapsed,
		AnsweredAt:    now,
	}
	if ev.Kind == "" {
		ev.Kind = c.kind
	}

	selected := index
	c.selected = &selected
	c.lastAnswer = &ev
	c.state = StateAnswering
	c.mu.Unlock()

	// 送信の失敗はセッションを止めない
	if err := c.submitter.Submit(ev); err != nil {
		c.logger.Warn("Failed to queue answer", "item_id", ev.ItemID, "error", err)
	}
	return nil
}

// Next は次の項目へ進みます。最後の項目の後は Completed になります。
func (c *Controller) Next() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return ErrClosed
	}
	if c.state != StateAnswering {
		return ErrInvalidTransition
	}

	c.selected = nil
	c.index++
	if c.index >= len(c.items) {
		c.state = StateCompleted
		c.logger.Info("Review session completed", "kind", c.kind, "items", len(c.items))
		return nil
	}
	c.state = StatePresenting
	c.startTime = c.now()
	return nil
}

// Delivered はサーバーが受け付けた回答の次回予定を記録します。送信キューから呼ばれます。
func (c *Controller) Delivered(itemID uuid.UUID, resp model.SubmitReviewResponse) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.schedules[itemID] = resp
}

// Snapshot は現在の状態のコピーを返します。
func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()

	s := Snapshot{
		State:     c.state,
		Kind:      c.kind,
		Total:     len(c.items),
		Answering: c.state == StateAnswering,
	}
	if c.state == StatePresenting || c.state == StateAnswering {
		s.Item = c.items[c.index]
		s.Position = c.index
		if sched, ok := c.schedules[s.Item.ItemID]; ok {
			s.Schedule = &sched
		}
	} else if c.state == StateCompleted {
		s.Position = len(c.items)
	}
	if c.selected != nil {
		v := *c.selected
		s.SelectedIndex = &v
	}
	if c.lastAnswer != nil {
		ev := *c.lastAnswer
		s.LastAnswer = &ev
	}
	return s
}

// Close は取得中の処理を取り消し、以降の操作を拒否します。
func (c *Controller) Close() {
	c.mu.Lock()
	c.closed = true
	c.mu.Unlock()
	c.cancel()
}
