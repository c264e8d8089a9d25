package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/uptrace/bun"

	"github.com/quangngonz/mini-cs50x-answer-api/internal/domain"
)

type teamProgressRow struct {
	bun.BaseModel `bun:"table:teams_progress"`

	TeamNameID string       `bun:"team_name_id,pk"`
	Solves     []bool       `bun:"solves,type:jsonb"`
	Timestamps []*time.Time `bun:"timestamps,type:jsonb"`
	HintsGiven int          `bun:"hints_given"`
}

// ProgressStore persists per-team solve records in Postgres via bun.
type ProgressStore struct {
	db *bun.DB
}

func NewProgressStore(db *bun.DB) *ProgressStore {
	return &ProgressStore{db: db}
}

func (s *ProgressStore) Get(ctx context.Context, teamID string) (domain.TeamProgress, error) {
	var row teamProgressRow
	err := s.db.NewSelect().Model(&row).Where("team_name_id = ?", teamID).Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.TeamProgress{}, domain.ErrTeamNotFound
	}
	if err != nil {
		return domain.TeamProgress{}, fmt.Errorf("%w: get team progress: %v", domain.ErrStorage, err)
	}
	return progressFromRow(row), nil
}

func (s *ProgressStore) Put(ctx context.Context, progress domain.TeamProgress) error {
	row := rowFromProgress(progress)
	_, err := s.db.NewInsert().
		Model(&row).
		On("CONFLICT (team_name_id) DO UPDATE").
		Set("solves = EXCLUDED.solves").
		Set("timestamps = EXCLUDED.timestamps").
		Set("hints_given = EXCLUDED.hints_given").
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("%w: put team progress: %v", domain.ErrStorage, err)
	}
	return nil
}

func (s *ProgressStore) List(ctx context.Context) ([]domain.TeamProgress, error) {
	var rows []teamProgressRow
	if err := s.db.NewSelect().Model(&rows).Order("team_name_id ASC").Scan(ctx); err != nil {
		return nil, fmt.Errorf("%w: list team progress: %v", domain.ErrStorage, err)
	}
	out := make([]domain.TeamProgress, 0, len(rows))
	for _, row := range rows {
		out = append(out, progressFromRow(row))
	}
	return out, nil
}

// IncrementHints bumps hints_given in a single UPDATE so concurrent grants
// never lose an increment.
func (s *ProgressStore) IncrementHints(ctx context.Context, teamID string) error {
	res, err := s.db.NewUpdate().
		Model((*teamProgressRow)(nil)).
		Set("hints_given = hints_given + 1").
		Where("team_name_id = ?", teamID).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("%w: increment hints: %v", domain.ErrStorage, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return domain.ErrTeamNotFound
	}
	return nil
}

func progressFromRow(row teamProgressRow) domain.TeamProgress {
	return domain.TeamProgress{
		TeamID:     row.TeamNameID,
		Solves:     row.Solves,
		Timestamps: row.Timestamps,
		HintsGiven: row.HintsGiven,
	}
}

func rowFromProgress(progress domain.TeamProgress) teamProgressRow {
	return teamProgressRow{
		TeamNameID: progress.TeamID,
		Solves:     progress.Solves,
		Timestamps: progress.Timestamps,
		HintsGiven: progress.HintsGiven,
	}
}
