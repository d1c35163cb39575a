// Package apiclient は復習 API の HTTP クライアントです。
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"go_4_vocab_quiz/internal/config"
	"go_4_vocab_quiz/internal/model"
	"go_4_vocab_quiz/internal/outbox"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// APIError はサーバーが返したエラーレスポンス
type APIError struct {
	StatusCode int
	Code       string
	Message    string
}

func (e *APIError) Error() string {
	if e.Code == "" {
		return fmt.Sprintf("api error: status %d", e.StatusCode)
	}
	return fmt.Sprintf("api error: status %d: %s: %s", e.StatusCode, e.Code, e.Message)
}

// Permanent は再送しても結果が変わらないエラーかどうか。
// 408 と 429 以外の 4xx が該当します。
func (e *APIError) Permanent() bool {
	if e.StatusCode == http.StatusRequestTimeout || e.StatusCode == http.StatusTooManyRequests {
		return false
	}
	return e.StatusCode >= 400 && e.StatusCode < 500
}

type Client struct {
	baseURL    string
	learnerID  string
	token      string
	httpClient *http.Client
	cfg        config.ClientConfig
	logger     *slog.Logger
}

type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

func New(cfg config.ClientConfig, opts ...Option) *Client {
	full := config.Config{Client: cfg}
	config.ApplyDefaults(&full)

	c := &Client{
		baseURL:    strings.TrimRight(full.Client.BaseURL, "/"),
		learnerID:  full.Client.LearnerID,
		token:      full.Client.Token,
		httpClient: &http.Client{},
		cfg:        full.Client,
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// FetchDue は GET /api/v1/reviews?kind=... で出題対象を取得します。
func (c *Client) FetchDue(ctx context.Context, kind model.ReviewKind) ([]*model.ReviewItem, error) {
	q := url.Values{"kind": {string(kind)}}
	var items []*model.ReviewItem
	if err := c.do(ctx, http.MethodGet, "/api/v1/reviews", q, nil, &items); err != nil {
		return nil, errors.Wrapf(err, "fetch due %s items", kind)
	}
	return items, nil
}

// Submit は POST /api/v1/reviews/{kind}/{item_id} で回答結果を送ります。
func (c *Client) Submit(ctx context.Context, kind model.ReviewKind, itemID uuid.UUID, req model.SubmitReviewRequest) (*model.SubmitReviewResponse, error) {
	path := fmt.Sprintf("/api/v1/reviews/%s/%s", url.PathEscape(string(kind)), itemID)
	var resp model.SubmitReviewResponse
	if err := c.do(ctx, http.MethodPost, path, nil, req, &resp); err != nil {
		return nil, errors.Wrapf(err, "submit review for %s", itemID)
	}
	return &resp, nil
}

// Send は送信キューからの1件を Submit に変換します。
func (c *Client) Send(ctx context.Context, sub outbox.Submission) (*model.SubmitReviewResponse, error) {
	quality, elapsed := sub.Quality, sub.ElapsedMs
	return c.Submit(ctx, sub.Kind, sub.ItemID, model.SubmitReviewRequest{
		Quality:   &quality,
		ElapsedMs: &elapsed,
		EventID:   sub.EventID,
	})
}

func (c *Client) GetQuestion(ctx context.Context, questionID uuid.UUID) (*model.QuestionDetailResponse, error) {
	var detail model.QuestionDetailResponse
	if err := c.do(ctx, http.MethodGet, "/api/v1/questions/"+questionID.String(), nil, nil, &detail); err != nil {
		return nil, errors.Wrapf(err, "get question %s", questionID)
	}
	return &detail, nil
}

// ListOptions は複数の問題の選択肢を1回で取得します。
func (c *Client) ListOptions(ctx context.Context, questionIDs []uuid.UUID) ([]*model.Option, error) {
	ids := make([]string, len(questionIDs))
	for i, id := range questionIDs {
		ids[i] = id.String()
	}
	q := url.Values{"question_ids": {strings.Join(ids, ",")}}
	var options []*model.Option
	if err := c.do(ctx, http.MethodGet, "/api/v1/options", q, nil, &options); err != nil {
		return nil, errors.Wrapf(err, "list options of %d questions", len(questionIDs))
	}
	return options, nil
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out any) error {
	ctx, cancel := context.WithTimeout(ctx, c.cfg.RequestTimeout)
	defer cancel()

	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return errors.Wrap(err, "failed to encode request body")
		}
		reader = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, reader)
	if err != nil {
		return errors.Wrap(err, "failed to build request")
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	} else if c.learnerID != "" {
		req.Header.Set("X-Learner-ID", c.learnerID)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return errors.Wrapf(err, "%s %s", method, path)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		apiErr := &APIError{StatusCode: resp.StatusCode}
		var errResp model.APIErrorResponse
		if err := json.NewDecoder(resp.Body).Decode(&errResp); err == nil {
			apiErr.Code = errResp.Error.Code
			apiErr.Message = errResp.Error.Message
		}
		c.logger.Debug("API returned error", "method", method, "path", path, "status", resp.StatusCode, "code", apiErr.Code)
		return apiErr
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return errors.Wrap(err, "failed to decode response")
	}
	return nil
}
