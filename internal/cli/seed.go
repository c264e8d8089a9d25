package cli

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/spf13/cobra"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"

	"github.com/quangngonz/mini-cs50x-answer-api/internal/config"
	"github.com/quangngonz/mini-cs50x-answer-api/internal/domain"
	pgstore "github.com/quangngonz/mini-cs50x-answer-api/internal/infra/postgres"
)

// NewSeedCmd loads the question set and blank team records before a run.
func NewSeedCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Seed questions and blank team progress records",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSeed(cmd.Context(), *configPath)
		},
	}
}

func runSeed(ctx context.Context, configPath string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if cfg.Postgres.URL == "" {
		return fmt.Errorf("seed requires a postgres url")
	}
	if err := runMigrationsWithConfig(ctx, cfg); err != nil {
		return err
	}

	sqldb := sql.OpenDB(pgdriver.NewConnector(pgdriver.WithDSN(cfg.Postgres.URL)))
	db := bun.NewDB(sqldb, pgdialect.New())
	defer db.Close()

	questions := defaultQuestions()
	if err := pgstore.SeedQuestions(ctx, db, questions); err != nil {
		return err
	}
	log.Printf("seeded %d questions", len(questions))

	teamCount := cfg.Scoreboard.SeedTeams
	if teamCount <= 0 {
		teamCount = 8
	}
	progress := pgstore.NewProgressStore(db)
	directory := pgstore.NewTeamDirectory(db)
	created := 0
	for i := 1; i <= teamCount; i++ {
		teamID := fmt.Sprintf("Team %d", i)
		// Never reset an existing team's progress mid-competition.
		if _, err := progress.Get(ctx, teamID); err == nil {
			continue
		} else if !errors.Is(err, domain.ErrTeamNotFound) {
			return err
		}
		if err := progress.Put(ctx, blankProgress(teamID, len(questions))); err != nil {
			return err
		}
		if err := directory.Create(ctx, domain.TeamInfo{TeamNameID: teamID}); err != nil {
			return err
		}
		created++
	}
	log.Printf("created %d of %d teams", created, teamCount)
	return nil
}

func blankProgress(teamID string, questionCount int) domain.TeamProgress {
	return domain.TeamProgress{
		TeamID:     teamID,
		Solves:     make([]bool, questionCount),
		Timestamps: make([]*time.Time, questionCount),
	}
}

// defaultQuestions is the demo question set, also used by the in-memory
// wiring when no database is configured.
func defaultQuestions() []domain.Question {
	return []domain.Question{
		{ID: 1, Text: "What is 2 + 2?", Answer: "4", StarRating: 1},
		{ID: 2, Text: "What is the capital of France?", Answer: "Paris", StarRating: 1},
		{ID: 3, Text: "What is 5 * 6?", Answer: "30", StarRating: 2},
		{ID: 4, Text: "Who wrote Hamlet?", Answer: "Shakespeare", StarRating: 2},
		{ID: 5, Text: "What is the boiling point of water in Celsius?", Answer: "100", StarRating: 3},
	}
}

func defaultTeams(questionCount int) []domain.TeamProgress {
	teams := make([]domain.TeamProgress, 0, 8)
	for i := 1; i <= 8; i++ {
		teams = append(teams, blankProgress(fmt.Sprintf("Team %d", i), questionCount))
	}
	return teams
}
