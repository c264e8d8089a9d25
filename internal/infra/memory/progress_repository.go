package memory

import (
	"context"
	"sync"

	"github.com/quangngonz/mini-cs50x-answer-api/internal/domain"
)

// ProgressRepository is an in-memory implementation of app.ProgressRepository.
// List returns teams in insertion order so downstream sorts stay deterministic.
type ProgressRepository struct {
	mu    sync.RWMutex
	teams map[string]domain.TeamProgress
	order []string
}

func NewProgressRepository(teams ...domain.TeamProgress) *ProgressRepository {
	repo := &ProgressRepository{teams: make(map[string]domain.TeamProgress)}
	for _, team := range teams {
		repo.teams[team.TeamID] = team.Clone()
		repo.order = append(repo.order, team.TeamID)
	}
	return repo
}

func (r *ProgressRepository) Get(_ context.Context, teamID string) (domain.TeamProgress, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	progress, ok := r.teams[teamID]
	if !ok {
		return domain.TeamProgress{}, domain.ErrTeamNotFound
	}
	return progress.Clone(), nil
}

func (r *ProgressRepository) Put(_ context.Context, progress domain.TeamProgress) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.teams[progress.TeamID]; !ok {
		r.order = append(r.order, progress.TeamID)
	}
	r.teams[progress.TeamID] = progress.Clone()
	return nil
}

func (r *ProgressRepository) List(_ context.Context) ([]domain.TeamProgress, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]domain.TeamProgress, 0, len(r.order))
	for _, teamID := range r.order {
		out = append(out, r.teams[teamID].Clone())
	}
	return out, nil
}

// IncrementHints bumps the counter under the repository lock, so concurrent
// grants never lose an increment.
func (r *ProgressRepository) IncrementHints(_ context.Context, teamID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	progress, ok := r.teams[teamID]
	if !ok {
		return domain.ErrTeamNotFound
	}
	progress.HintsGiven++
	r.teams[teamID] = progress
	return nil
}
