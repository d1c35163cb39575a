package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"go_4_vocab_quiz/internal/apiclient"
	"go_4_vocab_quiz/internal/config"
	"go_4_vocab_quiz/internal/model"
	"go_4_vocab_quiz/internal/outbox"
	"go_4_vocab_quiz/internal/review"
	"go_4_vocab_quiz/internal/terminal"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

func newReviewCmd() *cobra.Command {
	var kind string
	var detail bool
	cmd := &cobra.Command{
		Use:   "review",
		Short: "Start an interactive review session in the terminal",
		RunE: func(cmd *cobra.Command, args []string) error {
			clientCfg := config.Cfg.Client
			if cmd.Flags().Changed("kind") {
				clientCfg.Kind = kind
			}
			if cmd.Flags().Changed("detail") {
				clientCfg.Detail = detail
			}
			return runReview(cmd.Context(), clientCfg, config.Cfg.Outbox)
		},
	}
	cmd.Flags().StringVar(&kind, "kind", config.DefaultReviewKind, "vocab or question")
	cmd.Flags().BoolVar(&detail, "detail", false, "fetch question details and options separately")
	return cmd
}

// toSubmission は回答イベントを送信キューの形式に変換します。
func toSubmission(ev review.AnswerEvent) outbox.Submission {
	return outbox.Submission{
		Kind:      ev.Kind,
		ItemID:    ev.ItemID,
		Quality:   ev.Quality,
		ElapsedMs: ev.Elapsed.Milliseconds(),
	}
}

func runReview(ctx context.Context, clientCfg config.ClientConfig, outboxCfg config.OutboxConfig) error {
	logger := slog.Default().With("component", "review")

	kind := model.ReviewKind(clientCfg.Kind)
	if !kind.Valid() {
		return fmt.Errorf("invalid kind %q: use vocab or question", clientCfg.Kind)
	}
	if clientCfg.LearnerID == "" && clientCfg.Token == "" {
		return fmt.Errorf("client.learner_id or client.token must be set")
	}

	client := apiclient.New(clientCfg, apiclient.WithLogger(logger))
	var source review.BatchSource = client
	if clientCfg.Detail {
		source = apiclient.NewDetailSource(client)
	}

	ui := terminal.New(os.Stdin, os.Stdout)

	var ctrl *review.Controller
	box := outbox.New(client, outboxCfg,
		outbox.WithLogger(logger),
		outbox.OnDelivered(func(sub outbox.Submission, resp *model.SubmitReviewResponse) {
			ctrl.Delivered(sub.ItemID, *resp)
			ui.Scheduled(sub.ItemID, *resp)
		}),
	)
	ctrl = review.NewController(kind, source,
		review.SubmitterFunc(func(ev review.AnswerEvent) error {
			_, err := box.Enqueue(toSubmission(ev))
			return err
		}),
		ui,
		review.WithLogger(logger),
	)
	defer ctrl.Close()

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return box.Run(gctx) })

	// 標準入力の読み込みは取り消せないので errgroup の外で動かし、終了だけ待つ
	uiDone := make(chan error, 1)
	go func() { uiDone <- ui.Run(gctx, ctrl) }()

	var uiErr error
	select {
	case uiErr = <-uiDone:
	case <-gctx.Done():
	}
	stop()
	ctrl.Close()

	runErr := g.Wait()

	flushCtx, cancel := context.WithTimeout(context.Background(), outboxCfg.FlushTimeout)
	defer cancel()
	if err := box.Flush(flushCtx); err != nil {
		logger.Warn("Some review results were not delivered", "error", err)
	}
	for _, dl := range box.Dropped() {
		logger.Error("Review result was dropped",
			"event_id", dl.Submission.EventID,
			"item_id", dl.Submission.ItemID,
			"attempts", dl.Attempts,
			"error", dl.Err,
		)
	}

	if uiErr != nil {
		return uiErr
	}
	return runErr
}
