// Package terminal は復習セッションを端末に表示し、入力をセッションへ渡します。
// 状態遷移や採点はすべて review.Controller が行い、ここでは表示と入力だけを扱います。
package terminal

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"sync"

	"go_4_vocab_quiz/internal/model"
	"go_4_vocab_quiz/internal/review"

	"github.com/google/uuid"
)

// Session は UI から操作するセッション。*review.Controller が満たします。
type Session interface {
	Start(ctx context.Context) error
	Select(index int) error
	Next() error
	Snapshot() review.Snapshot
}

type UI struct {
	in  *bufio.Reader
	mu  sync.Mutex
	out io.Writer

	awaiting  *model.ReviewItem // 次回予定を待っている回答済みの項目
	delivered map[uuid.UUID]model.SubmitReviewResponse
}

func New(in io.Reader, out io.Writer) *UI {
	return &UI{in: bufio.NewReader(in), out: out, delivered: make(map[uuid.UUID]model.SubmitReviewResponse)}
}

// Notify は review.Notifier の実装。別 goroutine から呼ばれることがあります。
func (u *UI) Notify(level review.NoticeLevel, message string) {
	u.printf("[%s] %s\n", level, message)
}

func (u *UI) printf(format string, args ...any) {
	u.mu.Lock()
	defer u.mu.Unlock()
	fmt.Fprintf(u.out, format, args...)
}

// Run は入力が尽きるか q が入力されるまでセッションを進めます。
func (u *UI) Run(ctx context.Context, s Session) error {
	if err := u.start(ctx, s); err != nil {
		return ignoreClosed(err)
	}

	for {
		if err := ctx.Err(); err != nil {
			return nil
		}

		snap := s.Snapshot()
		var label string
		switch snap.State {
		case review.StatePresenting:
			u.renderItem(snap)
			label = "番号を選んでください (q で終了): "
		case review.StateAnswering:
			u.renderFeedback(snap)
			label = "Enter で次へ (q で終了): "
		case review.StateCompleted:
			u.printf("\n全 %d 問が終わりました。\n", snap.Total)
			label = "r でもう一度、q で終了: "
		case review.StateNoItemsDue:
			label = "r で再取得、q で終了: "
		default:
			return fmt.Errorf("unexpected session state: %s", snap.State)
		}

		line, err := u.readLine(label)
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return err
		}
		if line == "q" {
			return nil
		}

		switch snap.State {
		case review.StatePresenting:
			u.choose(s, line)
		case review.StateAnswering:
			if err := s.Next(); err != nil {
				u.printf("%v\n", err)
			}
		case review.StateCompleted, review.StateNoItemsDue:
			if line == "r" {
				if err := u.start(ctx, s); err != nil {
					return ignoreClosed(err)
				}
			}
		}
	}
}

// start は取得を始めます。取得失敗は Notifier 経由で表示済みなので続行します。
func (u *UI) start(ctx context.Context, s Session) error {
	u.printf("読み込み中...\n")
	err := s.Start(ctx)
	if errors.Is(err, review.ErrClosed) || errors.Is(err, review.ErrInvalidTransition) {
		return err
	}
	return nil
}

func (u *UI) choose(s Session, line string) {
	n, err := strconv.Atoi(line)
	if err != nil {
		u.printf("番号を入力してください。\n")
		return
	}
	if err := s.Select(n - 1); err != nil {
		if errors.Is(err, review.ErrOptionOutOfRange) {
			u.printf("1 から %d の番号を入力してください。\n", len(s.Snapshot().Item.Options))
			return
		}
		u.printf("%v\n", err)
	}
}

func (u *UI) readLine(label string) (string, error) {
	u.printf("%s", label)
	line, err := u.in.ReadString('\n')
	if err != nil && (line == "" || !errors.Is(err, io.EOF)) {
		return "", err
	}
	return strings.ToLower(strings.TrimSpace(line)), nil
}

func ignoreClosed(err error) error {
	if errors.Is(err, review.ErrClosed) {
		return nil
	}
	return err
}
