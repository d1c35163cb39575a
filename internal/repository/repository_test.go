package repository

import (
	"context"
	"fmt"
	"testing"
	"time"

	"go_4_vocab_quiz/internal/model"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// RepositorySuite はテストごとに新しいインメモリ SQLite でリポジトリを検証します。
type RepositorySuite struct {
	suite.Suite
	ctx     context.Context
	db      *gorm.DB
	learner *model.Learner
	now     time.Time

	learners  LearnerRepository
	vocabs    VocabRepository
	questions QuestionRepository
	progress  ProgressRepository
	events    EventRepository
}

func TestRepositorySuite(t *testing.T) {
	suite.Run(t, new(RepositorySuite))
}

func (s *RepositorySuite) SetupTest() {
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	s.Require().NoError(err)
	sqlDB, err := db.DB()
	s.Require().NoError(err)
	sqlDB.SetMaxOpenConns(1)
	s.Require().NoError(Migrate(db))

	s.ctx = context.Background()
	s.db = db
	s.now = time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)
	s.learners = NewGormLearnerRepository()
	s.vocabs = NewGormVocabRepository()
	s.questions = NewGormQuestionRepository()
	s.progress = NewGormProgressRepository()
	s.events = NewGormEventRepository()

	s.learner = &model.Learner{LearnerID: uuid.New(), Name: "alice"}
	s.Require().NoError(s.learners.Create(s.ctx, s.db, s.learner))
}

func (s *RepositorySuite) TearDownTest() {
	if sqlDB, err := s.db.DB(); err == nil {
		sqlDB.Close()
	}
}

func (s *RepositorySuite) createVocab(term string, createdAt time.Time) *model.Vocab {
	v := &model.Vocab{VocabID: uuid.New(), LearnerID: s.learner.LearnerID, Term: term, Definition: term + "の意味", CreatedAt: createdAt}
	s.Require().NoError(s.vocabs.Create(s.ctx, s.db, v))
	return v
}

func (s *RepositorySuite) createProgress(kind model.ReviewKind, itemID uuid.UUID, next time.Time, ease float64) *model.ReviewProgress {
	p := &model.ReviewProgress{
		ProgressID:   uuid.New(),
		LearnerID:    s.learner.LearnerID,
		Kind:         kind,
		ItemID:       itemID,
		EaseFactor:   ease,
		NextReviewAt: next,
	}
	s.Require().NoError(s.progress.Create(s.ctx, s.db, p))
	return p
}

func (s *RepositorySuite) TestLearner_DuplicateName() {
	err := s.learners.Create(s.ctx, s.db, &model.Learner{LearnerID: uuid.New(), Name: "alice"})
	s.ErrorIs(err, model.ErrConflict)

	found, err := s.learners.FindByName(s.ctx, s.db, "alice")
	s.Require().NoError(err)
	s.Equal(s.learner.LearnerID, found.LearnerID)

	_, err = s.learners.FindByID(s.ctx, s.db, uuid.New())
	s.ErrorIs(err, model.ErrNotFound)
}

func (s *RepositorySuite) TestProgress_FindDueOrdering() {
	a := s.createVocab("a", s.now)
	b := s.createVocab("b", s.now)
	c := s.createVocab("c", s.now)
	d := s.createVocab("d", s.now)

	// 同じ期限なら ease の低い方が先
	s.createProgress(model.KindVocab, a.VocabID, s.now.Add(-time.Hour), 2.5)
	s.createProgress(model.KindVocab, b.VocabID, s.now.Add(-time.Hour), 1.8)
	s.createProgress(model.KindVocab, c.VocabID, s.now.Add(-48*time.Hour), 2.5)
	s.createProgress(model.KindVocab, d.VocabID, s.now.Add(time.Hour), 1.3) // まだ期限前
	s.createProgress(model.KindQuestion, uuid.New(), s.now.Add(-time.Hour), 2.5)

	due, err := s.progress.FindDue(s.ctx, s.db, s.learner.LearnerID, model.KindVocab, s.now, 10)
	s.Require().NoError(err)
	s.Require().Len(due, 3)
	s.Equal(c.VocabID, due[0].ItemID)
	s.Equal(b.VocabID, due[1].ItemID)
	s.Equal(a.VocabID, due[2].ItemID)

	limited, err := s.progress.FindDue(s.ctx, s.db, s.learner.LearnerID, model.KindVocab, s.now, 1)
	s.Require().NoError(err)
	s.Len(limited, 1)
}

func (s *RepositorySuite) TestProgress_UniquePerItemAndUpdate() {
	v := s.createVocab("ephemeral", s.now)
	p := s.createProgress(model.KindVocab, v.VocabID, s.now, 2.5)

	dup := &model.ReviewProgress{ProgressID: uuid.New(), LearnerID: s.learner.LearnerID, Kind: model.KindVocab, ItemID: v.VocabID, NextReviewAt: s.now}
	s.ErrorIs(s.progress.Create(s.ctx, s.db, dup), model.ErrConflict)

	reviewed := s.now
	p.EaseFactor = 2.6
	p.IntervalDays = 1
	p.Repetitions = 1
	p.LastQuality = 5
	p.NextReviewAt = s.now.AddDate(0, 0, 1)
	p.LastReviewedAt = &reviewed
	s.Require().NoError(s.progress.Update(s.ctx, s.db, p))

	found, err := s.progress.FindByItem(s.ctx, s.db, s.learner.LearnerID, model.KindVocab, v.VocabID)
	s.Require().NoError(err)
	s.InDelta(2.6, found.EaseFactor, 1e-9)
	s.Equal(1, found.Repetitions)
	s.True(found.NextReviewAt.Equal(s.now.AddDate(0, 0, 1)))

	missing := &model.ReviewProgress{ProgressID: uuid.New()}
	s.ErrorIs(s.progress.Update(s.ctx, s.db, missing), model.ErrNotFound)

	_, err = s.progress.FindByItem(s.ctx, s.db, s.learner.LearnerID, model.KindQuestion, v.VocabID)
	s.ErrorIs(err, model.ErrNotFound)
}

func (s *RepositorySuite) TestVocab_FindUnseenAndDistractors() {
	first := s.createVocab("first", s.now.Add(-2*time.Hour))
	second := s.createVocab("second", s.now.Add(-time.Hour))
	third := s.createVocab("third", s.now)
	s.createProgress(model.KindVocab, second.VocabID, s.now, 2.5)

	// 他の学習者の単語は混ざらない
	other := &model.Learner{LearnerID: uuid.New(), Name: "bob"}
	s.Require().NoError(s.learners.Create(s.ctx, s.db, other))
	s.Require().NoError(s.vocabs.Create(s.ctx, s.db, &model.Vocab{VocabID: uuid.New(), LearnerID: other.LearnerID, Term: "x", Definition: "y"}))

	unseen, err := s.vocabs.FindUnseen(s.ctx, s.db, s.learner.LearnerID, 10)
	s.Require().NoError(err)
	s.Require().Len(unseen, 2)
	s.Equal(first.VocabID, unseen[0].VocabID)
	s.Equal(third.VocabID, unseen[1].VocabID)

	distractors, err := s.vocabs.FindDistractors(s.ctx, s.db, s.learner.LearnerID, first.VocabID, 5)
	s.Require().NoError(err)
	s.Len(distractors, 2)
	for _, d := range distractors {
		s.NotEqual(first.VocabID, d.VocabID)
		s.Equal(s.learner.LearnerID, d.LearnerID)
	}

	exists, err := s.vocabs.CheckTermExists(s.ctx, s.db, s.learner.LearnerID, "first")
	s.Require().NoError(err)
	s.True(exists)
	exists, err = s.vocabs.CheckTermExists(s.ctx, s.db, other.LearnerID, "first")
	s.Require().NoError(err)
	s.False(exists)
}

func (s *RepositorySuite) TestQuestion_OptionsOrderedByPosition() {
	q := &model.Question{
		QuestionID: uuid.New(),
		Prompt:     "GETは冪等?",
		Options: []model.Option{
			{OptionID: uuid.New(), Text: "c", Position: 2},
			{OptionID: uuid.New(), Text: "a", Position: 0, IsCorrect: true},
			{OptionID: uuid.New(), Text: "b", Position: 1},
		},
	}
	s.Require().NoError(s.questions.Create(s.ctx, s.db, q))

	dup := &model.Question{QuestionID: uuid.New(), Prompt: "GETは冪等?"}
	s.ErrorIs(s.questions.Create(s.ctx, s.db, dup), model.ErrConflict)

	found, err := s.questions.FindByIDsWithOptions(s.ctx, s.db, []uuid.UUID{q.QuestionID})
	s.Require().NoError(err)
	s.Require().Len(found, 1)
	s.Require().Len(found[0].Options, 3)
	s.Equal("a", found[0].Options[0].Text)
	s.Equal("c", found[0].Options[2].Text)

	options, err := s.questions.FindOptionsByQuestionIDs(s.ctx, s.db, []uuid.UUID{q.QuestionID})
	s.Require().NoError(err)
	s.Require().Len(options, 3)
	s.Equal(0, options[0].Position)

	unseen, err := s.questions.FindUnseenWithOptions(s.ctx, s.db, s.learner.LearnerID, 10)
	s.Require().NoError(err)
	s.Len(unseen, 1)

	s.createProgress(model.KindQuestion, q.QuestionID, s.now, 2.5)
	unseen, err = s.questions.FindUnseenWithOptions(s.ctx, s.db, s.learner.LearnerID, 10)
	s.Require().NoError(err)
	s.Empty(unseen)

	_, err = s.questions.FindByID(s.ctx, s.db, uuid.New())
	s.ErrorIs(err, model.ErrNotFound)
}

func (s *RepositorySuite) TestEvent_ScopedPerLearner() {
	ev := &model.ReviewEvent{
		EventID:      "evt-1",
		LearnerID:    s.learner.LearnerID,
		Kind:         model.KindVocab,
		ItemID:       uuid.New(),
		Quality:      4,
		EaseFactor:   2.5,
		IntervalDays: 1,
		NextReviewAt: s.now.AddDate(0, 0, 1),
	}
	s.Require().NoError(s.events.Create(s.ctx, s.db, ev))

	again := *ev
	s.ErrorIs(s.events.Create(s.ctx, s.db, &again), model.ErrConflict)

	found, err := s.events.FindByEventID(s.ctx, s.db, s.learner.LearnerID, "evt-1")
	s.Require().NoError(err)
	s.Equal(ev.ItemID, found.ItemID)

	_, err = s.events.FindByEventID(s.ctx, s.db, uuid.New(), "evt-1")
	s.ErrorIs(err, model.ErrNotFound)

	// 他の学習者は同じ event_id を使える
	bob := &model.Learner{LearnerID: uuid.New(), Name: "bob"}
	s.Require().NoError(s.learners.Create(s.ctx, s.db, bob))
	bobs := *ev
	bobs.LearnerID = bob.LearnerID
	bobs.ItemID = uuid.New()
	s.Require().NoError(s.events.Create(s.ctx, s.db, &bobs))

	found, err = s.events.FindByEventID(s.ctx, s.db, bob.LearnerID, "evt-1")
	s.Require().NoError(err)
	s.Equal(bobs.ItemID, found.ItemID)
}
