package postgres

import (
	"context"
	"fmt"

	"github.com/uptrace/bun"

	"github.com/quangngonz/mini-cs50x-answer-api/internal/domain"
)

type questionRow struct {
	bun.BaseModel `bun:"table:questions"`

	ID         int    `bun:"id,pk"`
	Text       string `bun:"question"`
	Answer     string `bun:"answer"`
	StarRating int    `bun:"star_rating"`
}

// SeedQuestions upserts the fixed question set before a competition run.
func SeedQuestions(ctx context.Context, db *bun.DB, questions []domain.Question) error {
	rows := make([]questionRow, 0, len(questions))
	for _, q := range questions {
		rows = append(rows, questionRow{
			ID:         q.ID,
			Text:       q.Text,
			Answer:     q.Answer,
			StarRating: q.StarRating,
		})
	}
	_, err := db.NewInsert().
		Model(&rows).
		On("CONFLICT (id) DO UPDATE").
		Set("question = EXCLUDED.question").
		Set("answer = EXCLUDED.answer").
		Set("star_rating = EXCLUDED.star_rating").
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("%w: seed questions: %v", domain.ErrStorage, err)
	}
	return nil
}
