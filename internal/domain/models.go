package domain

import "time"

// Question is one entry of the fixed, ordered question set. Questions are
// immutable for the duration of a competition run and are ordered by ID;
// question ID n maps to index n-1 of every per-team solve array.
type Question struct {
	ID         int    `json:"id"`
	Text       string `json:"question"`
	Answer     string `json:"answer,omitempty"`
	StarRating int    `json:"star_rating"` // point value, >= 0
}

// TeamProgress tracks one team's solves across the question set.
// Timestamps[i] is non-nil exactly when Solves[i] is true, and a solve
// never transitions back to false.
type TeamProgress struct {
	TeamID     string       `json:"team_name_id"`
	Solves     []bool       `json:"solves"`
	Timestamps []*time.Time `json:"timestamps"`
	HintsGiven int          `json:"hints_given"`
}

// Clone returns a deep copy so callers can mutate without aliasing the
// repository's view of the record.
func (p TeamProgress) Clone() TeamProgress {
	out := p
	out.Solves = append([]bool(nil), p.Solves...)
	out.Timestamps = make([]*time.Time, len(p.Timestamps))
	for i, ts := range p.Timestamps {
		if ts != nil {
			t := *ts
			out.Timestamps[i] = &t
		}
	}
	return out
}

// Submission is one append-only audit record per answer attempt, including
// duplicates and wrong answers. Answer holds the literal submitted text,
// not its canonical form.
type Submission struct {
	TeamID      string    `json:"team_name_id"`
	QuestionID  int       `json:"question_id"`
	Answer      string    `json:"answer"`
	SubmittedAt time.Time `json:"submitted_at"`
	Correct     bool      `json:"correct"`
}

// Hint is one append-only record per hint granted.
type Hint struct {
	TeamID     string    `json:"team_name_id"`
	QuestionID int       `json:"question_id"`
	GivenAt    time.Time `json:"given_at"`
}

// TeamInfo is the identity record behind display-name resolution.
type TeamInfo struct {
	TeamNameID  string   `json:"team_name_id"`
	TeamName    string   `json:"team_name"`
	LeaderEmail string   `json:"leader_email"`
	TeamMembers []string `json:"team_members"`
}

// SubmitResult is the caller-facing outcome of an answer submission.
type SubmitResult struct {
	Correct bool `json:"correct"`
}

// RankingEntry is a derived leaderboard row, recomputed on every request
// and never persisted.
type RankingEntry struct {
	TeamID       string       `json:"team_name_id"`
	DisplayName  string       `json:"team_name"`
	Score        int          `json:"score"`
	HintsGiven   int          `json:"hints_given"`
	WrongAnswers int          `json:"wrong_answers"`
	LatestSolve  time.Time    `json:"latest_solve"`
	Solves       []bool       `json:"solves"`
	Timestamps   []*time.Time `json:"timestamps"`
}

// TeamStats is the single-team view of the same derived numbers.
type TeamStats struct {
	TeamID     string       `json:"team_name_id"`
	Score      int          `json:"score"`
	HintsGiven int          `json:"hints_given"`
	Solves     []bool       `json:"solves"`
	Timestamps []*time.Time `json:"timestamps"`
}
