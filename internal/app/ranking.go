package app

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sort"
	"time"

	"github.com/quangngonz/mini-cs50x-answer-api/internal/domain"
)

// epochZero is the latest-solve sentinel for teams with no solves yet; a
// real value keeps the tie-break chain a total order.
var epochZero = time.Unix(0, 0).UTC()

// ComputeRankings rebuilds the leaderboard from scratch: progress rows,
// question stars, the submission log, and the hint log. Any read failure
// aborts the whole computation; a partial board is never returned.
func (s *ScoreboardService) ComputeRankings(ctx context.Context) ([]domain.RankingEntry, error) {
	teams, err := s.progress.List(ctx)
	if err != nil {
		return nil, err
	}
	questions, err := s.questions.List(ctx)
	if err != nil {
		return nil, err
	}
	submissions, err := s.submissions.List(ctx)
	if err != nil {
		return nil, err
	}
	hints, err := s.hints.List(ctx)
	if err != nil {
		return nil, err
	}

	stars := starRatings(questions)

	wrongByTeam := make(map[string]int)
	for _, sub := range submissions {
		if !sub.Correct {
			wrongByTeam[sub.TeamID]++
		}
	}
	hintsByTeam := make(map[string]int)
	for _, hint := range hints {
		hintsByTeam[hint.TeamID]++
	}

	entries := make([]domain.RankingEntry, 0, len(teams))
	for _, team := range teams {
		entries = append(entries, domain.RankingEntry{
			TeamID:       team.TeamID,
			DisplayName:  s.displayName(ctx, team.TeamID),
			Score:        scoreOf(team.Solves, stars),
			HintsGiven:   hintsByTeam[team.TeamID],
			WrongAnswers: wrongByTeam[team.TeamID],
			LatestSolve:  latestSolve(team.Timestamps),
			Solves:       team.Solves,
			Timestamps:   team.Timestamps,
		})
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return rankBefore(entries[i], entries[j])
	})
	return entries, nil
}

// TeamStats reports one team's score, solves and hint count with the same
// star alignment the ranking uses.
func (s *ScoreboardService) TeamStats(ctx context.Context, teamID string) (domain.TeamStats, error) {
	if teamID == "" {
		return domain.TeamStats{}, fmt.Errorf("%w: team_name_id is required", domain.ErrMissingField)
	}
	progress, err := s.progress.Get(ctx, teamID)
	if err != nil {
		return domain.TeamStats{}, err
	}
	questions, err := s.questions.List(ctx)
	if err != nil {
		return domain.TeamStats{}, err
	}
	return domain.TeamStats{
		TeamID:     teamID,
		Score:      scoreOf(progress.Solves, starRatings(questions)),
		HintsGiven: progress.HintsGiven,
		Solves:     progress.Solves,
		Timestamps: progress.Timestamps,
	}, nil
}

// TeamQuestions returns the raw solve record for one team.
func (s *ScoreboardService) TeamQuestions(ctx context.Context, teamID string) (domain.TeamProgress, error) {
	if teamID == "" {
		return domain.TeamProgress{}, fmt.Errorf("%w: team_name_id is required", domain.ErrMissingField)
	}
	return s.progress.Get(ctx, teamID)
}

// ListQuestions returns the question set sorted by ID with answers withheld.
func (s *ScoreboardService) ListQuestions(ctx context.Context) ([]domain.Question, error) {
	questions, err := s.questions.List(ctx)
	if err != nil {
		return nil, err
	}
	sort.Slice(questions, func(i, j int) bool { return questions[i].ID < questions[j].ID })
	for i := range questions {
		questions[i].Answer = ""
	}
	return questions, nil
}

func (s *ScoreboardService) displayName(ctx context.Context, teamID string) string {
	info, err := s.teams.Resolve(ctx, teamID)
	if err != nil {
		if !errors.Is(err, domain.ErrTeamInfoNotFound) {
			log.Printf("ranking: resolve display name for %s: %v", teamID, err)
		}
		return teamID
	}
	if info.TeamName == "" {
		return teamID
	}
	return info.TeamName
}

// starRatings extracts point values of rated questions in ascending ID
// order; positions align with the per-team solve arrays.
func starRatings(questions []domain.Question) []int {
	sorted := append([]domain.Question(nil), questions...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].ID < sorted[j].ID })
	stars := make([]int, 0, len(sorted))
	for _, q := range sorted {
		if q.StarRating != 0 {
			stars = append(stars, q.StarRating)
		}
	}
	return stars
}

func scoreOf(solves []bool, stars []int) int {
	score := 0
	for i, solved := range solves {
		if solved && i < len(stars) {
			score += stars[i]
		}
	}
	return score
}

func latestSolve(timestamps []*time.Time) time.Time {
	latest := epochZero
	for _, ts := range timestamps {
		if ts != nil && ts.After(latest) {
			latest = *ts
		}
	}
	return latest
}

// rankBefore is the full tie-break chain: score descending, then fewer
// hints, then fewer wrong answers, then the earlier latest solve.
func rankBefore(a, b domain.RankingEntry) bool {
	if a.Score != b.Score {
		return a.Score > b.Score
	}
	if a.HintsGiven != b.HintsGiven {
		return a.HintsGiven < b.HintsGiven
	}
	if a.WrongAnswers != b.WrongAnswers {
		return a.WrongAnswers < b.WrongAnswers
	}
	return a.LatestSolve.Before(b.LatestSolve)
}
