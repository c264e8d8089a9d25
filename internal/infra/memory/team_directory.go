package memory

import (
	"context"
	"sync"

	"github.com/quangngonz/mini-cs50x-answer-api/internal/domain"
)

// TeamDirectory is an in-memory implementation of app.TeamDirectory.
type TeamDirectory struct {
	mu    sync.RWMutex
	byID  map[string]domain.TeamInfo
	index map[string]string // leader email -> team id
}

func NewTeamDirectory(infos ...domain.TeamInfo) *TeamDirectory {
	dir := &TeamDirectory{
		byID:  make(map[string]domain.TeamInfo),
		index: make(map[string]string),
	}
	for _, info := range infos {
		dir.byID[info.TeamNameID] = info
		if info.LeaderEmail != "" {
			dir.index[info.LeaderEmail] = info.TeamNameID
		}
	}
	return dir
}

func (d *TeamDirectory) Resolve(_ context.Context, teamID string) (domain.TeamInfo, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	info, ok := d.byID[teamID]
	if !ok {
		return domain.TeamInfo{}, domain.ErrTeamInfoNotFound
	}
	return info, nil
}

func (d *TeamDirectory) ByLeaderEmail(_ context.Context, email string) (domain.TeamInfo, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	teamID, ok := d.index[email]
	if !ok {
		return domain.TeamInfo{}, domain.ErrTeamInfoNotFound
	}
	return d.byID[teamID], nil
}

func (d *TeamDirectory) UpdateName(_ context.Context, teamID, name string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	info, ok := d.byID[teamID]
	if !ok {
		return domain.ErrTeamInfoNotFound
	}
	info.TeamName = name
	d.byID[teamID] = info
	return nil
}
