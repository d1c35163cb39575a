package main

import (
	"fmt"
	"log/slog"
	"os"

	"go_4_vocab_quiz/internal/repository"
	"go_4_vocab_quiz/internal/service"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

func newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update database tables",
		RunE: func(cmd *cobra.Command, args []string) error {
			db, closeDB, err := openDB(slog.Default())
			if err != nil {
				return err
			}
			defer closeDB()

			if err := repository.Migrate(db); err != nil {
				return err
			}
			slog.Info("Database migrated")
			return nil
		},
	}
}

func newSeedCmd() *cobra.Command {
	var file string
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Import a YAML deck of vocabulary and questions",
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(file)
			if err != nil {
				return err
			}
			defer f.Close()

			deck, err := service.LoadDeck(f)
			if err != nil {
				return fmt.Errorf("load deck %s: %w", file, err)
			}

			logger := slog.Default()
			db, closeDB, err := openDB(logger)
			if err != nil {
				return err
			}
			defer closeDB()
			if err := repository.Migrate(db); err != nil {
				return err
			}

			seeder := service.NewSeedService(db,
				repository.NewGormLearnerRepository(),
				repository.NewGormVocabRepository(),
				repository.NewGormQuestionRepository(),
			)
			result, err := seeder.ImportDeck(cmd.Context(), deck)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if result.LearnerID != uuid.Nil {
				fmt.Fprintf(out, "learner_id: %s\n", result.LearnerID)
			}
			fmt.Fprintf(out, "vocab: %d created, %d skipped\n", result.VocabCreated, result.VocabSkipped)
			fmt.Fprintf(out, "questions: %d created, %d skipped\n", result.QuestionsCreated, result.QuestionsSkipped)
			return nil
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "deck.yaml", "deck file to import")
	return cmd
}
