package models

import "time"

// Example is one worked example attached to a problem description.
type Example struct {
	Input       string `json:"input"`
	Output      string `json:"output"`
	Explanation string `json:"explanation"`
}

// Problem is one row of the shared catalog. Catalog rows are never owned by
// a single user; user-specific state lives in UserProblem.
type Problem struct {
	ID          int64     `json:"id" db:"id"`
	Slug        string    `json:"slug" db:"slug"`
	Title       string    `json:"title" db:"title"`
	Difficulty  string    `json:"difficulty" db:"difficulty"`
	Topic       string    `json:"topic" db:"topic"`
	URL         string    `json:"url" db:"url"`
	Description string    `json:"description" db:"description"`
	Examples    []Example `json:"examples" db:"examples"`
	Constraints []string  `json:"constraints" db:"constraints"`
	StarterCode string    `json:"starterCode" db:"starter_code"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" db:"updated_at"`
}

// ProblemData is what the external source adapter returns for a slug,
// before the catalog assigns an id.
type ProblemData struct {
	Title       string    `json:"title"`
	Slug        string    `json:"slug"`
	Difficulty  string    `json:"difficulty"`
	Topic       string    `json:"topic"`
	URL         string    `json:"url"`
	Description string    `json:"description"`
	Examples    []Example `json:"examples"`
	Constraints []string  `json:"constraints"`
	StarterCode string    `json:"starterCode"`
}

// CuratedProblem is one entry of the built-in curated list used for
// bulk-add convenience. Metadata here is a hint; the adapter still fetches
// canonical data when the problem is added.
type CuratedProblem struct {
	ID         string `json:"id"`
	Title      string `json:"title"`
	Difficulty string `json:"difficulty"`
	Topic      string `json:"topic"`
	URL        string `json:"url"`
}

type AddProblemRequest struct {
	Title       string    `json:"title" binding:"required"`
	Difficulty  string    `json:"difficulty" binding:"required"`
	Topic       string    `json:"topic" binding:"required"`
	URL         string    `json:"url" binding:"required"`
	Description string    `json:"description"`
	Examples    []Example `json:"examples"`
	Constraints []string  `json:"constraints"`
	StarterCode string    `json:"starterCode"`
}

type FetchProblemRequest struct {
	Slug string `json:"slug" binding:"required"`
}
