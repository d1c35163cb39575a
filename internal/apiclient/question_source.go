package apiclient

import (
	"context"
	"math/rand"
	"net/http"
	"sort"

	"go_4_vocab_quiz/internal/model"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"
)

// DefaultDetailConcurrency は問題詳細を同時に取得する上限
const DefaultDetailConcurrency = 4

// DetailSource は question の出題対象を詳細 API と選択肢 API から組み立て直します。
// 詳細は並行に取得し、選択肢はまとめて1回で取得します。vocab はそのまま返します。
type DetailSource struct {
	client      *Client
	concurrency int
	shuffle     func(n int, swap func(i, j int))
}

func NewDetailSource(client *Client) *DetailSource {
	return &DetailSource{client: client, concurrency: DefaultDetailConcurrency, shuffle: rand.Shuffle}
}

func (s *DetailSource) FetchDue(ctx context.Context, kind model.ReviewKind) ([]*model.ReviewItem, error) {
	items, err := s.client.FetchDue(ctx, kind)
	if err != nil || kind != model.KindQuestion || len(items) == 0 {
		return items, err
	}

	ids := make([]uuid.UUID, len(items))
	for i, item := range items {
		ids[i] = item.ItemID
	}

	details := make([]*model.QuestionDetailResponse, len(items))
	var grouped map[uuid.UUID][]*model.Option

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency + 1)
	g.Go(func() error {
		options, err := s.client.ListOptions(gctx, ids)
		if err != nil {
			return err
		}
		grouped = groupOptions(options)
		return nil
	})
	for i, id := range ids {
		i, id := i, id
		g.Go(func() error {
			detail, err := s.client.GetQuestion(gctx, id)
			if err != nil {
				// 取得中に削除された問題は飛ばす
				var apiErr *APIError
				if errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound {
					return nil
				}
				return err
			}
			details[i] = detail
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, errors.Wrap(err, "fetch question details")
	}

	out := make([]*model.ReviewItem, 0, len(items))
	for i, item := range items {
		detail := details[i]
		if detail == nil {
			continue
		}
		rebuilt := s.rebuild(item, detail, grouped[item.ItemID])
		if rebuilt == nil {
			s.client.logger.Warn("Question has no usable options", "question_id", detail.QuestionID)
			continue
		}
		out = append(out, rebuilt)
	}
	return out, nil
}

// rebuild は詳細と選択肢から出題用の項目を作ります。正解がちょうど1つでなければ nil。
func (s *DetailSource) rebuild(base *model.ReviewItem, detail *model.QuestionDetailResponse, options []*model.Option) *model.ReviewItem {
	item := &model.ReviewItem{
		ItemID:  base.ItemID,
		Kind:    model.KindQuestion,
		Prompt:  detail.Prompt,
		Content: detail.Content,
		Ease:    base.Ease,
	}
	correct := 0
	for _, o := range options {
		if o.IsCorrect {
			correct++
		}
		item.Options = append(item.Options, model.ReviewOption{OptionID: o.OptionID, Text: o.Text, IsCorrect: o.IsCorrect})
	}
	if len(item.Options) < 2 || correct != 1 {
		return nil
	}

	if s.shuffle != nil {
		s.shuffle(len(item.Options), func(i, j int) {
			item.Options[i], item.Options[j] = item.Options[j], item.Options[i]
		})
	}
	for i, o := range item.Options {
		if o.IsCorrect {
			item.CorrectOptionIndex = i
		}
	}
	return item
}

// groupOptions は選択肢を問題ごとにまとめ、Position 順に並べます。
func groupOptions(options []*model.Option) map[uuid.UUID][]*model.Option {
	grouped := make(map[uuid.UUID][]*model.Option)
	for _, o := range options {
		grouped[o.QuestionID] = append(grouped[o.QuestionID], o)
	}
	for _, list := range grouped {
		sort.SliceStable(list, func(i, j int) bool { return list[i].Position < list[j].Position })
	}
	return grouped
}
