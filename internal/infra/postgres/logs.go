package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/uptrace/bun"

	"github.com/quangngonz/mini-cs50x-answer-api/internal/domain"
)

type submissionRow struct {
	bun.BaseModel `bun:"table:submissions"`

	ID          int64     `bun:"id,pk,autoincrement"`
	TeamNameID  string    `bun:"team_name_id"`
	QuestionID  int       `bun:"question_id"`
	Answer      string    `bun:"answer"`
	SubmittedAt time.Time `bun:"submitted_at"`
	Correct     bool      `bun:"correct"`
}

// SubmissionLog appends and lists answer attempts; rows are never updated
// or deleted.
type SubmissionLog struct {
	db *bun.DB
}

func NewSubmissionLog(db *bun.DB) *SubmissionLog {
	return &SubmissionLog{db: db}
}

func (l *SubmissionLog) Append(ctx context.Context, submission domain.Submission) error {
	row := submissionRow{
		TeamNameID:  submission.TeamID,
		QuestionID:  submission.QuestionID,
		Answer:      submission.Answer,
		SubmittedAt: submission.SubmittedAt,
		Correct:     submission.Correct,
	}
	if _, err := l.db.NewInsert().Model(&row).Exec(ctx); err != nil {
		return fmt.Errorf("%w: append submission: %v", domain.ErrStorage, err)
	}
	return nil
}

func (l *SubmissionLog) List(ctx context.Context) ([]domain.Submission, error) {
	var rows []submissionRow
	if err := l.db.NewSelect().Model(&rows).Order("id ASC").Scan(ctx); err != nil {
		return nil, fmt.Errorf("%w: list submissions: %v", domain.ErrStorage, err)
	}
	out := make([]domain.Submission, 0, len(rows))
	for _, row := range rows {
		out = append(out, domain.Submission{
			TeamID:      row.TeamNameID,
			QuestionID:  row.QuestionID,
			Answer:      row.Answer,
			SubmittedAt: row.SubmittedAt,
			Correct:     row.Correct,
		})
	}
	return out, nil
}

type hintRow struct {
	bun.BaseModel `bun:"table:hints_given"`

	ID         int64     `bun:"id,pk,autoincrement"`
	TeamNameID string    `bun:"team_name_id"`
	QuestionID int       `bun:"question_id"`
	GivenAt    time.Time `bun:"given_at"`
}

// HintLog appends and lists granted hints.
type HintLog struct {
	db *bun.DB
}

func NewHintLog(db *bun.DB) *HintLog {
	return &HintLog{db: db}
}

func (l *HintLog) Append(ctx context.Context, hint domain.Hint) error {
	row := hintRow{
		TeamNameID: hint.TeamID,
		QuestionID: hint.QuestionID,
		GivenAt:    hint.GivenAt,
	}
	if _, err := l.db.NewInsert().Model(&row).Exec(ctx); err != nil {
		return fmt.Errorf("%w: append hint: %v", domain.ErrStorage, err)
	}
	return nil
}

func (l *HintLog) List(ctx context.Context) ([]domain.Hint, error) {
	var rows []hintRow
	if err := l.db.NewSelect().Model(&rows).Order("id ASC").Scan(ctx); err != nil {
		return nil, fmt.Errorf("%w: list hints: %v", domain.ErrStorage, err)
	}
	out := make([]domain.Hint, 0, len(rows))
	for _, row := range rows {
		out = append(out, domain.Hint{
			TeamID:     row.TeamNameID,
			QuestionID: row.QuestionID,
			GivenAt:    row.GivenAt,
		})
	}
	return out, nil
}
