package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"go_4_vocab_quiz/internal/middleware"
	"go_4_vocab_quiz/internal/model"
	"go_4_vocab_quiz/internal/repository"
	"go_4_vocab_quiz/internal/webutil"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"
	"gorm.io/gorm"
)

// Deck は seed コマンドで取り込む YAML の構造です。
//
//	learner: alice
//	vocab:
//	  - term: ephemeral
//	    definition: 一時的な
//	questions:
//	  - prompt: "HTTP の冪等なメソッドは?"
//	    content: "**PUT** と ..."
//	    options:
//	      - text: PUT
//	        correct: true
type Deck struct {
	Learner   string         `yaml:"learner" validate:"max=100"`
	Vocab     []DeckVocab    `yaml:"vocab" validate:"dive"`
	Questions []DeckQuestion `yaml:"questions" validate:"dive"`
}

type DeckVocab struct {
	Term       string `yaml:"term" validate:"required,max=255"`
	Definition string `yaml:"definition" validate:"required"`
}

type DeckQuestion struct {
	Prompt  string       `yaml:"prompt" validate:"required"`
	Content string       `yaml:"content"`
	Options []DeckOption `yaml:"options" validate:"required,min=2,dive"`
}

type DeckOption struct {
	Text    string `yaml:"text" validate:"required"`
	Correct bool   `yaml:"correct"`
}

// SeedResult は取り込み件数の集計
type SeedResult struct {
	LearnerID        uuid.UUID
	VocabCreated     int
	VocabSkipped     int
	QuestionsCreated int
	QuestionsSkipped int
}

// LoadDeck は YAML を読み込み、バリデーションします。
func LoadDeck(r io.Reader) (*Deck, error) {
	var deck Deck
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&deck); err != nil {
		return nil, fmt.Errorf("decode deck: %w", err)
	}
	if err := webutil.ValidateStruct(&deck); err != nil {
		return nil, err
	}
	if len(deck.Vocab) > 0 && strings.TrimSpace(deck.Learner) == "" {
		return nil, model.NewAppError("VALIDATION_ERROR", "vocab を取り込むには learner が必要です。", "learner", model.ErrInvalidInput)
	}
	for i, q := range deck.Questions {
		correct := 0
		for _, o := range q.Options {
			if o.Correct {
				correct++
			}
		}
		if correct != 1 {
			return nil, model.NewAppError("VALIDATION_ERROR", fmt.Sprintf("questions[%d] は正解の選択肢をちょうど1つ持つ必要があります。", i), "options", model.ErrInvalidInput)
		}
	}
	return &deck, nil
}

type SeedService interface {
	ImportDeck(ctx context.Context, deck *Deck) (*SeedResult, error)
}

type seedService struct {
	db           *gorm.DB
	learnerRepo  repository.LearnerRepository
	vocabRepo    repository.VocabRepository
	questionRepo repository.QuestionRepository
}

func NewSeedService(db *gorm.DB, learnerRepo repository.LearnerRepository, vocabRepo repository.VocabRepository, questionRepo repository.QuestionRepository) SeedService {
	return &seedService{db: db, learnerRepo: learnerRepo, vocabRepo: vocabRepo, questionRepo: questionRepo}
}

// ImportDeck はデッキを1トランザクションで取り込みます。
// 学習者は名前で探し、無ければ作成します。既存の単語・問題はスキップします。
func (s *seedService) ImportDeck(ctx context.Context, deck *Deck) (*SeedResult, error) {
	logger := middleware.GetLogger(ctx)
	result := &SeedResult{}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if name := strings.TrimSpace(deck.Learner); name != "" {
			learner, err := s.findOrCreateLearner(ctx, tx, name)
			if err != nil {
				return err
			}
			result.LearnerID = learner.LearnerID

			for _, v := range deck.Vocab {
				exists, err := s.vocabRepo.CheckTermExists(ctx, tx, learner.LearnerID, v.Term)
				if err != nil {
					return err
				}
				if exists {
					result.VocabSkipped++
					continue
				}
				vocab := &model.Vocab{
					VocabID:    uuid.New(),
					LearnerID:  learner.LearnerID,
					Term:       v.Term,
					Definition: v.Definition,
				}
				if err := s.vocabRepo.Create(ctx, tx, vocab); err != nil {
					return err
				}
				result.VocabCreated++
			}
		}

		for _, q := range deck.Questions {
			exists, err := s.questionRepo.CheckPromptExists(ctx, tx, q.Prompt)
			if err != nil {
				return err
			}
			if exists {
				result.QuestionsSkipped++
				continue
			}
			question := &model.Question{
				QuestionID: uuid.New(),
				Prompt:     q.Prompt,
				Content:    q.Content,
			}
			for i, o := range q.Options {
				question.Options = append(question.Options, model.Option{
					OptionID:   uuid.New(),
					QuestionID: question.QuestionID,
					Text:       o.Text,
					IsCorrect:  o.Correct,
					Position:   i,
				})
			}
			if err := s.questionRepo.Create(ctx, tx, question); err != nil {
				return err
			}
			result.QuestionsCreated++
		}
		return nil
	})
	if err != nil {
		logger.Error("Failed to import deck", "error", err)
		return nil, err
	}

	logger.Info("Deck imported",
		"learner_id", result.LearnerID,
		"vocab_created", result.VocabCreated,
		"vocab_skipped", result.VocabSkipped,
		"questions_created", result.QuestionsCreated,
		"questions_skipped", result.QuestionsSkipped,
	)
	return result, nil
}

func (s *seedService) findOrCreateLearner(ctx context.Context, tx *gorm.DB, name string) (*model.Learner, error) {
	learner, err := s.learnerRepo.FindByName(ctx, tx, name)
	if err == nil {
		return learner, nil
	}
	if !errors.Is(err, model.ErrNotFound) {
		return nil, err
	}
	learner = &model.Learner{LearnerID: uuid.New(), Name: name}
	if err := s.learnerRepo.Create(ctx, tx, learner); err != nil {
		return nil, err
	}
	return learner, nil
}
