package app

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"
	"unicode"

	"golang.org/x/sync/errgroup"

	"github.com/quangngonz/mini-cs50x-answer-api/internal/domain"
)

// QuestionRepository serves the fixed question set (from cache/backing store).
type QuestionRepository interface {
	List(ctx context.Context) ([]domain.Question, error)
	Get(ctx context.Context, id int) (domain.Question, error)
}

// ProgressRepository abstracts how per-team solve records are stored.
type ProgressRepository interface {
	Get(ctx context.Context, teamID string) (domain.TeamProgress, error)
	Put(ctx context.Context, progress domain.TeamProgress) error
	List(ctx context.Context) ([]domain.TeamProgress, error)
}

// HintIncrementer is an optional strengthening of ProgressRepository: stores
// that can bump hints_given atomically should implement it so concurrent
// hint grants don't race a read-modify-write.
type HintIncrementer interface {
	IncrementHints(ctx context.Context, teamID string) error
}

// SubmissionLog is the append-only audit trail of answer attempts.
type SubmissionLog interface {
	Append(ctx context.Context, submission domain.Submission) error
	List(ctx context.Context) ([]domain.Submission, error)
}

// HintLog is the append-only record of hints granted.
type HintLog interface {
	Append(ctx context.Context, hint domain.Hint) error
	List(ctx context.Context) ([]domain.Hint, error)
}

// TeamDirectory resolves team identity records.
type TeamDirectory interface {
	Resolve(ctx context.Context, teamID string) (domain.TeamInfo, error)
	ByLeaderEmail(ctx context.Context, email string) (domain.TeamInfo, error)
	UpdateName(ctx context.Context, teamID, name string) error
}

// DefaultReportingZone is the competition's reporting offset; all solve and
// submission timestamps are recorded in it.
var DefaultReportingZone = time.FixedZone("UTC+7", 7*60*60)

// ScoreboardService contains the competition use cases: answer submission,
// hint grants, rankings, and per-team stats.
type ScoreboardService struct {
	questions   QuestionRepository
	progress    ProgressRepository
	submissions SubmissionLog
	hints       HintLog
	teams       TeamDirectory
	now         func() time.Time
	zone        *time.Location
	feed        *rankingFeed
}

func NewScoreboardService(questions QuestionRepository, progress ProgressRepository, submissions SubmissionLog, hints HintLog, teams TeamDirectory) *ScoreboardService {
	return NewScoreboardServiceWithClock(questions, progress, submissions, hints, teams, time.Now, DefaultReportingZone)
}

// NewScoreboardServiceWithClock allows deterministic timestamps in tests and
// a non-default reporting zone.
func NewScoreboardServiceWithClock(questions QuestionRepository, progress ProgressRepository, submissions SubmissionLog, hints HintLog, teams TeamDirectory, now func() time.Time, zone *time.Location) *ScoreboardService {
	if zone == nil {
		zone = DefaultReportingZone
	}
	return &ScoreboardService{
		questions:   questions,
		progress:    progress,
		submissions: submissions,
		hints:       hints,
		teams:       teams,
		now:         now,
		zone:        zone,
		feed:        newRankingFeed(),
	}
}

// SubmitAnswer checks a team's answer against the stored one, records the
// solve at most once per question, and appends an audit record for every
// attempt. A progress-write failure is logged but never suppresses the
// audit append; submission history must survive a failed state update.
func (s *ScoreboardService) SubmitAnswer(ctx context.Context, teamID string, questionID int, answer string) (domain.SubmitResult, error) {
	if teamID == "" || questionID <= 0 || answer == "" {
		return domain.SubmitResult{}, fmt.Errorf("%w: team_name_id, question_id and answer are required", domain.ErrMissingField)
	}

	// The two reads are unrelated, fetch them concurrently.
	var (
		question domain.Question
		progress domain.TeamProgress
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		question, err = s.questions.Get(gctx, questionID)
		return err
	})
	g.Go(func() error {
		var err error
		progress, err = s.progress.Get(gctx, teamID)
		return err
	})
	if err := g.Wait(); err != nil {
		return domain.SubmitResult{}, err
	}

	idx := questionID - 1
	if idx >= len(progress.Solves) {
		return domain.SubmitResult{}, fmt.Errorf("%w: question %d is outside the team's progress range", domain.ErrQuestionNotFound, questionID)
	}

	now := s.now().In(s.zone)
	correct := canonicalAnswer(answer) == canonicalAnswer(question.Answer)

	if correct && !progress.Solves[idx] {
		updated := progress.Clone()
		for len(updated.Timestamps) < len(updated.Solves) {
			updated.Timestamps = append(updated.Timestamps, nil)
		}
		updated.Solves[idx] = true
		ts := now
		updated.Timestamps[idx] = &ts
		if err := s.progress.Put(ctx, updated); err != nil {
			log.Printf("submit: update progress for team %s: %v", teamID, err)
		}
	}

	if err := s.submissions.Append(ctx, domain.Submission{
		TeamID:      teamID,
		QuestionID:  questionID,
		Answer:      answer,
		SubmittedAt: now,
		Correct:     correct,
	}); err != nil {
		return domain.SubmitResult{}, err
	}

	if correct {
		s.publishRankings(ctx)
	}
	return domain.SubmitResult{Correct: correct}, nil
}

// AddHint appends a hint record and bumps the team's hint counter. Two calls
// grant two hints; there is no idempotence here.
func (s *ScoreboardService) AddHint(ctx context.Context, teamID string, questionID int) (domain.Hint, error) {
	if teamID == "" || questionID <= 0 {
		return domain.Hint{}, fmt.Errorf("%w: team_name_id and question_id are required", domain.ErrMissingField)
	}

	progress, err := s.progress.Get(ctx, teamID)
	if err != nil {
		return domain.Hint{}, err
	}

	hint := domain.Hint{
		TeamID:     teamID,
		QuestionID: questionID,
		GivenAt:    s.now().In(s.zone),
	}
	if err := s.hints.Append(ctx, hint); err != nil {
		return domain.Hint{}, err
	}

	if inc, ok := s.progress.(HintIncrementer); ok {
		err = inc.IncrementHints(ctx, teamID)
	} else {
		updated := progress.Clone()
		updated.HintsGiven++
		err = s.progress.Put(ctx, updated)
	}
	if err != nil {
		return domain.Hint{}, err
	}

	s.publishRankings(ctx)
	return hint, nil
}

// TeamByEmail finds the team record registered under a leader's email.
func (s *ScoreboardService) TeamByEmail(ctx context.Context, email string) (domain.TeamInfo, error) {
	if email == "" {
		return domain.TeamInfo{}, fmt.Errorf("%w: email is required", domain.ErrMissingField)
	}
	return s.teams.ByLeaderEmail(ctx, email)
}

// UpdateTeamName sets the display name shown on the leaderboard.
func (s *ScoreboardService) UpdateTeamName(ctx context.Context, teamID, name string) error {
	if teamID == "" || name == "" {
		return fmt.Errorf("%w: team_name_id and team_name are required", domain.ErrMissingField)
	}
	if err := s.teams.UpdateName(ctx, teamID, name); err != nil {
		return err
	}
	s.publishRankings(ctx)
	return nil
}

// canonicalAnswer normalizes free text for comparison: trim, uppercase,
// then strip every remaining whitespace rune ("  pa RIS " == "PARIS").
func canonicalAnswer(s string) string {
	upper := strings.ToUpper(strings.TrimSpace(s))
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, upper)
}
