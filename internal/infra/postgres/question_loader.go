package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v4/pgxpool"

	"github.com/quangngonz/mini-cs50x-answer-api/internal/domain"
)

// QuestionLoader reads the question set from Postgres. It sits behind the
// caching repositories (memory or Redis) rather than being hit per request.
type QuestionLoader struct {
	pool *pgxpool.Pool
}

func NewQuestionLoader(pool *pgxpool.Pool) *QuestionLoader {
	return &QuestionLoader{pool: pool}
}

func (l *QuestionLoader) LoadQuestions(ctx context.Context) ([]domain.Question, error) {
	rows, err := l.pool.Query(ctx, `SELECT id, question, answer, star_rating FROM questions ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("%w: load questions: %v", domain.ErrStorage, err)
	}
	defer rows.Close()

	var questions []domain.Question
	for rows.Next() {
		var q domain.Question
		if err := rows.Scan(&q.ID, &q.Text, &q.Answer, &q.StarRating); err != nil {
			return nil, fmt.Errorf("%w: scan question: %v", domain.ErrStorage, err)
		}
		questions = append(questions, q)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: load questions: %v", domain.ErrStorage, err)
	}
	return questions, nil
}
