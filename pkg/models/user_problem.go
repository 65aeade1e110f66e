package models

import "time"

// Progress statuses a user can assign to a tracked problem.
const (
	StatusNotStarted        = "Not Started"
	StatusInProgress        = "In Progress"
	StatusStuck             = "Stuck"
	StatusPartialSolution   = "Partial Solution"
	StatusCompleted         = "Completed"
	StatusNeedsOptimization = "Needs Optimization"
	StatusRevisit           = "Revisit"
)

// ValidStatus reports whether s is one of the enumerated progress statuses.
func ValidStatus(s string) bool {
	switch s {
	case StatusNotStarted, StatusInProgress, StatusStuck, StatusPartialSolution,
		StatusCompleted, StatusNeedsOptimization, StatusRevisit:
		return true
	}
	return false
}

// UserProblem is one user's tracking record for one catalog problem.
// At most one row exists per (user_id, problem_id) pair.
type UserProblem struct {
	ID          int64      `json:"id" db:"id"`
	UserID      string     `json:"user_id" db:"user_id"`
	ProblemID   int64      `json:"problem_id" db:"problem_id"`
	Status      string     `json:"status" db:"status"`
	Rating      *int       `json:"rating" db:"rating"` // 1-10, pointer so null is explicit
	Notes       string     `json:"notes" db:"notes"`
	LastAttempt *time.Time `json:"last_attempt" db:"last_attempt"`
	CreatedAt   time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at" db:"updated_at"`
}

// ProblemWithProgress is the joined view returned by the write path and by
// userOnly listings.
type ProblemWithProgress struct {
	Problem     Problem     `json:"problem"`
	UserProblem UserProblem `json:"userProblem"`
}

type UpdateRatingRequest struct {
	Rating *int `json:"rating" binding:"required"`
}

type UpdateStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// Attempt is one attempt-history entry under a user problem.
type Attempt struct {
	ID            int64     `json:"id" db:"id"`
	UserProblemID int64     `json:"user_problem_id" db:"user_problem_id"`
	Date          time.Time `json:"date" db:"date"`
	Duration      *int      `json:"duration" db:"duration"` // minutes
	Status        string    `json:"status" db:"status"`
	Approach      string    `json:"approach" db:"approach"`
	Notes         string    `json:"notes" db:"notes"`
}

type AddAttemptRequest struct {
	Status   string `json:"status" binding:"required"`
	Duration *int   `json:"duration"`
	Approach string `json:"approach"`
	Notes    string `json:"notes"`
}

// CodeSnippet is one stored solution under a user problem.
type CodeSnippet struct {
	ID              int64     `json:"id" db:"id"`
	UserProblemID   int64     `json:"user_problem_id" db:"user_problem_id"`
	Caption         string    `json:"caption" db:"caption"`
	Code            string    `json:"code" db:"code"`
	TimeComplexity  string    `json:"time_complexity" db:"time_complexity"`
	SpaceComplexity string    `json:"space_complexity" db:"space_complexity"`
	CreatedAt       time.Time `json:"created_at" db:"created_at"`
	UpdatedAt       time.Time `json:"updated_at" db:"updated_at"`
}

type AddSnippetRequest struct {
	Caption         string `json:"caption"`
	Code            string `json:"code" binding:"required"`
	TimeComplexity  string `json:"time_complexity"`
	SpaceComplexity string `json:"space_complexity"`
}
