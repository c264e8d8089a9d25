package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/uptrace/bun"

	"github.com/quangngonz/mini-cs50x-answer-api/internal/domain"
)

type teamInfoRow struct {
	bun.BaseModel `bun:"table:team_info"`

	TeamNameID  string   `bun:"team_name_id,pk"`
	TeamName    string   `bun:"team_name"`
	LeaderEmail string   `bun:"leader_email"`
	TeamMembers []string `bun:"team_members,type:jsonb"`
}

// TeamDirectory resolves team identity records stored in Postgres.
type TeamDirectory struct {
	db *bun.DB
}

func NewTeamDirectory(db *bun.DB) *TeamDirectory {
	return &TeamDirectory{db: db}
}

func (d *TeamDirectory) Resolve(ctx context.Context, teamID string) (domain.TeamInfo, error) {
	var row teamInfoRow
	err := d.db.NewSelect().Model(&row).Where("team_name_id = ?", teamID).Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.TeamInfo{}, domain.ErrTeamInfoNotFound
	}
	if err != nil {
		return domain.TeamInfo{}, fmt.Errorf("%w: resolve team info: %v", domain.ErrStorage, err)
	}
	return infoFromRow(row), nil
}

func (d *TeamDirectory) ByLeaderEmail(ctx context.Context, email string) (domain.TeamInfo, error) {
	var row teamInfoRow
	err := d.db.NewSelect().Model(&row).Where("leader_email = ?", email).Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.TeamInfo{}, domain.ErrTeamInfoNotFound
	}
	if err != nil {
		return domain.TeamInfo{}, fmt.Errorf("%w: team by leader email: %v", domain.ErrStorage, err)
	}
	return infoFromRow(row), nil
}

func (d *TeamDirectory) UpdateName(ctx context.Context, teamID, name string) error {
	res, err := d.db.NewUpdate().
		Model((*teamInfoRow)(nil)).
		Set("team_name = ?", name).
		Where("team_name_id = ?", teamID).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("%w: update team name: %v", domain.ErrStorage, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return domain.ErrTeamInfoNotFound
	}
	return nil
}

// Create registers a team identity record (seeding).
func (d *TeamDirectory) Create(ctx context.Context, info domain.TeamInfo) error {
	row := teamInfoRow{
		TeamNameID:  info.TeamNameID,
		TeamName:    info.TeamName,
		LeaderEmail: info.LeaderEmail,
		TeamMembers: info.TeamMembers,
	}
	_, err := d.db.NewInsert().
		Model(&row).
		On("CONFLICT (team_name_id) DO NOTHING").
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("%w: create team info: %v", domain.ErrStorage, err)
	}
	return nil
}

func infoFromRow(row teamInfoRow) domain.TeamInfo {
	return domain.TeamInfo{
		TeamNameID:  row.TeamNameID,
		TeamName:    row.TeamName,
		LeaderEmail: row.LeaderEmail,
		TeamMembers: row.TeamMembers,
	}
}
