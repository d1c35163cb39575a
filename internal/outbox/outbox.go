// Package outbox は復習結果の送信キューです。
// 回答は即座に積まれ、ワーカーがレート制限と指数バックオフ付きでサーバーへ届けます。
package outbox

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"go_4_vocab_quiz/internal/config"
	"go_4_vocab_quiz/internal/model"

	"github.com/google/uuid"
	"github.com/lithammer/shortuuid/v4"
	"golang.org/x/time/rate"
)

var (
	ErrFull    = errors.New("outbox is full")
	ErrPending = errors.New("outbox still has undelivered submissions")
)

// Submission はサーバーへ送る1回分の回答結果
type Submission struct {
	EventID   string
	Kind      model.ReviewKind
	ItemID    uuid.UUID
	Quality   float64
	ElapsedMs int64
}

type Sender interface {
	Send(ctx context.Context, sub Submission) (*model.SubmitReviewResponse, error)
}

// DeadLetter は配送をあきらめたエントリ
type DeadLetter struct {
	Submission Submission
	Attempts   int
	Err        error
}

type entry struct {
	sub         Submission
	attempts    int
	nextAttempt time.Time
	inFlight    bool
}

type Option func(*Outbox)

func WithLogger(logger *slog.Logger) Option {
	return func(o *Outbox) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// OnDelivered は配送成功時に呼ばれる関数を設定します。ワーカーの goroutine から呼ばれます。
func OnDelivered(fn func(sub Submission, resp *model.SubmitReviewResponse)) Option {
	return func(o *Outbox) { o.onDelivered = fn }
}

func WithClock(now func() time.Time) Option {
	return func(o *Outbox) { o.now = now }
}

type Outbox struct {
	mu      sync.Mutex
	queue   []*entry
	dropped []DeadLetter

	sender      Sender
	cfg         config.OutboxConfig
	limiter     *rate.Limiter
	logger      *slog.Logger
	now         func() time.Time
	onDelivered func(Submission, *model.SubmitReviewResponse)
	wake        chan struct{}
}

func New(sender Sender, cfg config.OutboxConfig, opts ...Option) *Outbox {
	full := config.Config{Outbox: cfg}
	config.ApplyDefaults(&full)

	o := &Outbox{
		sender:  sender,
		cfg:     full.Outbox,
		limiter: rate.NewLimiter(rate.Limit(full.Outbox.RatePerSecond), 1),
		logger:  slog.Default(),
		now:     time.Now,
		wake:    make(chan struct{}, 1),
	}
	for _, opt := range opts {
		opt(o)
	}
	o.logger = o.logger.With("component", "outbox")
	return o
}

// Enqueue はブロックせずに送信を予約します。満杯なら ErrFull。
// EventID が空なら採番します。
func (o *Outbox) Enqueue(sub Submission) (Submission, error) {
	if sub.EventID == "" {
		sub.EventID = shortuuid.New()
	}

	o.mu.Lock()
	if len(o.queue) >= o.cfg.Capacity {
		o.mu.Unlock()
		return sub, ErrFull
	}
	o.queue = append(o.queue, &entry{sub: sub, nextAttempt: o.now()})
	o.mu.Unlock()

	o.signal()
	return sub, nil
}

func (o *Outbox) signal() {
	select {
	case o.wake <- struct{}{}:
	default:
	}
}

// Pending は未配送 (送信中を含む) の件数
func (o *Outbox) Pending() int {
	o.mu.Lock()
	defer o.mu.Unlock()
	return len(o.queue)
}

func (o *Outbox) Dropped() []DeadLetter {
	o.mu.Lock()
	defer o.mu.Unlock()
	out := make([]DeadLetter, len(o.dropped))
	copy(out, o.dropped)
	return out
}

// Run は ctx が終わるまで配送を続けます。
func (o *Outbox) Run(ctx context.Context) error {
	o.logger.Info("Outbox worker started", "capacity", o.cfg.Capacity, "max_attempts", o.cfg.MaxAttempts)
	defer o.logger.Info("Outbox worker stopped", "pending", o.Pending())

	for {
		e, wait := o.claimDue()
		if e == nil {
			if err := o.sleep(ctx, wait); err != nil {
				return nil
			}
			continue
		}

		if err := o.limiter.Wait(ctx); err != nil {
			o.release(e)
			return nil
		}
		o.deliver(ctx, e)
	}
}

// claimDue は送信時刻を過ぎた最古のエントリを送信中にして返します。
// なければ次の送信時刻までの待ち時間を返します (負なら待ち続ける)。
func (o *Outbox) claimDue() (*entry, time.Duration) {
	o.mu.Lock()
	defer o.mu.Unlock()

	now := o.now()
	wait := time.Duration(-1)
	for _, e := range o.queue {
		if e.inFlight {
			continue
		}
		if !e.nextAttempt.After(now) {
			e.inFlight = true
			return e, 0
		}
		if d := e.nextAttempt.Sub(now); wait < 0 || d < wait {
			wait = d
		}
	}
	return nil, wait
}

func (o *Outbox) sleep(ctx context.Context, wait time.Duration) error {
	var timer <-chan time.Time
	if wait >= 0 {
		t := time.NewTimer(wait)
		defer t.Stop()
		timer = t.C
	}
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-o.wake:
	case <-timer:
	}
	return nil
}

func (o *Outbox) release(e *entry) {
	o.mu.Lock()
	e.inFlight = false
	o.mu.Unlock()
}

func (o *Outbox) deliver(ctx context.Context, e *entry) {
	logger := o.logger.With("event_id", e.sub.EventID, "item_id", e.sub.ItemID, "kind", e.sub.Kind)

	resp, err := o.sender.Send(ctx, e.sub)
	if err == nil {
		o.remove(e)
		logger.Debug("Submission delivered", "attempts", e.attempts+1)
		if o.onDelivered != nil && resp != nil {
			o.onDelivered(e.sub, resp)
		}
		return
	}

	// 終了による取り消しは試行回数に数えない
	if ctx.Err() != nil {
		o.release(e)
		return
	}

	o.mu.Lock()
	e.attempts++
	e.inFlight = false
	attempts := e.attempts
	permanent := IsPermanent(err)
	if permanent || attempts >= o.cfg.MaxAttempts {
		o.removeLocked(e)
		o.dropped = append(o.dropped, DeadLetter{Submission: e.sub, Attempts: attempts, Err: err})
		o.mu.Unlock()
		logger.Error("Submission dropped", "attempts", attempts, "permanent", permanent, "error", err)
		return
	}
	delay := o.backoff(attempts)
	e.nextAttempt = o.now().Add(delay)
	o.mu.Unlock()

	logger.Warn("Submission failed, will retry", "attempts", attempts, "retry_in", delay, "error", err)
}

// backoff は n 回失敗した後の待ち時間 BaseBackoff·2^(n−1) (MaxBackoff で頭打ち)
func (o *Outbox) backoff(n int) time.Duration {
	d := o.cfg.BaseBackoff
	for i := 1; i < n; i++ {
		d *= 2
		if d >= o.cfg.MaxBackoff {
			return o.cfg.MaxBackoff
		}
	}
	if d > o.cfg.MaxBackoff {
		return o.cfg.MaxBackoff
	}
	return d
}

func (o *Outbox) remove(e *entry) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.removeLocked(e)
}

func (o *Outbox) removeLocked(e *entry) {
	for i, x := range o.queue {
		if x == e {
			o.queue = append(o.queue[:i], o.queue[i+1:]...)
			return
		}
	}
}

// Flush はバックオフを無視して残り全件を1回ずつ送ります。終了時に使います。
// 送りきれなかった分があれば ErrPending を返します。
func (o *Outbox) Flush(ctx context.Context) error {
	o.mu.Lock()
	var batch []*entry
	for _, e := range o.queue {
		if !e.inFlight {
			e.inFlight = true
			batch = append(batch, e)
		}
	}
	o.mu.Unlock()

	for i, e := range batch {
		if ctx.Err() != nil {
			for _, rest := range batch[i:] {
				o.release(rest)
			}
			break
		}
		o.deliver(ctx, e)
	}

	if n := o.Pending(); n > 0 {
		return fmt.Errorf("%w: %d", ErrPending, n)
	}
	return nil
}

// IsPermanent は再送しても成功しない失敗かどうかを判定します。
// エラーチェーンのどこかが Permanent() bool を実装していればそれに従います。
func IsPermanent(err error) bool {
	var p interface{ Permanent() bool }
	if errors.As(err, &p) {
		return p.Permanent()
	}
	return false
}
