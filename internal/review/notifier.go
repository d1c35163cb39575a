package review

import "log/slog"

// NoticeLevel はユーザー向け通知の重要度
type NoticeLevel int

const (
	NoticeInfo NoticeLevel = iota
	NoticeError
)

func (l NoticeLevel) String() string {
	if l == NoticeError {
		return "error"
	}
	return "info"
}

// Notifier はユーザー向けメッセージの出力先です。Controller に注入します。
type Notifier interface {
	Notify(level NoticeLevel, message string)
}

// NotifierFunc は関数を Notifier として使うためのアダプタ
type NotifierFunc func(level NoticeLevel, message string)

func (f NotifierFunc) Notify(level NoticeLevel, message string) { f(level, message) }

// LogNotifier は通知を slog に出力します。画面が無い場合に使います。
type LogNotifier struct {
	Logger *slog.Logger
}

func (n LogNotifier) Notify(level NoticeLevel, message string) {
	logger := n.Logger
	if logger == nil {
		logger = slog.Default()
	}
	if level == NoticeError {
		logger.Error(message, "notice", true)
		return
	}
	logger.Info(message, "notice", true)
}
