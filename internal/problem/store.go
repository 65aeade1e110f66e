package problem

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/leettrack/leettrack/pkg/models"
)

// Store wraps catalog and progress access. The connection pool is injected
// so tests can point it at an isolated database.
type Store struct {
	db *sql.DB
}

func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}

const problemColumns = `id, slug, title, difficulty, topic, url, description, examples, constraints, starter_code, created_at, updated_at`

func scanProblem(row interface{ Scan(...interface{}) error }) (*models.Problem, error) {
	var p models.Problem
	var examplesJSON, constraintsJSON string
	err := row.Scan(
		&p.ID,
		&p.Slug,
		&p.Title,
		&p.Difficulty,
		&p.Topic,
		&p.URL,
		&p.Description,
		&examplesJSON,
		&constraintsJSON,
		&p.StarterCode,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if examplesJSON != "" {
		if err := json.Unmarshal([]byte(examplesJSON), &p.Examples); err != nil {
			return nil, fmt.Errorf("decode examples for %q: %w", p.Slug, err)
		}
	}
	if constraintsJSON != "" {
		if err := json.Unmarshal([]byte(constraintsJSON), &p.Constraints); err != nil {
			return nil, fmt.Errorf("decode constraints for %q: %w", p.Slug, err)
		}
	}
	if p.Examples == nil {
		p.Examples = []models.Example{}
	}
	if p.Constraints == nil {
		p.Constraints = []string{}
	}
	return &p, nil
}

// GetProblemByURL returns the catalog row with the given source URL, or
// ErrNotFound.
func (s *Store) GetProblemByURL(url string) (*models.Problem, error) {
	row := s.db.QueryRow(`SELECT `+problemColumns+` FROM problems WHERE url = ?`, url)
	p, err := scanProblem(row)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%w: url %q", ErrNotFound, url)
	}
	return p, err
}

// GetProblemBySlug returns the catalog row with the given slug, or
// ErrNotFound.
func (s *Store) GetProblemBySlug(slug string) (*models.Problem, error) {
	row := s.db.QueryRow(`SELECT `+problemColumns+` FROM problems WHERE slug = ?`, slug)
	p, err := scanProblem(row)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%w: slug %q", ErrNotFound, slug)
	}
	return p, err
}

// errSlugTaken reports a catalog insert that lost a uniqueness race; the
// caller re-reads by slug instead of failing.
var errSlugTaken = fmt.Errorf("slug or url already present")

// InsertProblem inserts a new catalog row and returns its id. A uniqueness
// violation comes back as errSlugTaken.
func (s *Store) InsertProblem(slug string, data *models.AddProblemRequest) (int64, error) {
	examples := data.Examples
	if examples == nil {
		examples = []models.Example{}
	}
	constraints := data.Constraints
	if constraints == nil {
		constraints = []string{}
	}
	examplesJSON, err := json.Marshal(examples)
	if err != nil {
		return 0, err
	}
	constraintsJSON, err := json.Marshal(constraints)
	if err != nil {
		return 0, err
	}

	query := `INSERT INTO problems (slug, title, difficulty, topic, url, description, examples, constraints, starter_code)
	          VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`
	res, err := s.db.Exec(
		query,
		slug,
		data.Title,
		data.Difficulty,
		data.Topic,
		data.URL,
		data.Description,
		string(examplesJSON),
		string(constraintsJSON),
		data.StarterCode,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return 0, errSlugTaken
		}
		return 0, err
	}
	return res.LastInsertId()
}

// ListProblems returns the full shared catalog.
func (s *Store) ListProblems() ([]models.Problem, error) {
	rows, err := s.db.Query(`SELECT ` + problemColumns + ` FROM problems ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	problems := []models.Problem{}
	for rows.Next() {
		p, err := scanProblem(rows)
		if err != nil {
			return nil, err
		}
		problems = append(problems, *p)
	}
	return problems, rows.Err()
}

func scanUserProblem(row interface{ Scan(...interface{}) error }) (*models.UserProblem, error) {
	var up models.UserProblem
	var rating sql.NullInt64
	var lastAttempt sql.NullTime
	err := row.Scan(
		&up.ID,
		&up.UserID,
		&up.ProblemID,
		&up.Status,
		&rating,
		&up.Notes,
		&lastAttempt,
		&up.CreatedAt,
		&up.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if rating.Valid {
		r := int(rating.Int64)
		up.Rating = &r
	}
	if lastAttempt.Valid {
		t := lastAttempt.Time
		up.LastAttempt = &t
	}
	return &up, nil
}

const userProblemColumns = `id, user_id, problem_id, status, rating, notes, last_attempt, created_at, updated_at`

// GetUserProblem returns the progress row for (userID, problemID), or
// ErrNotFound.
func (s *Store) GetUserProblem(userID string, problemID int64) (*models.UserProblem, error) {
	row := s.db.QueryRow(
		`SELECT `+userProblemColumns+` FROM user_problems WHERE user_id = ? AND problem_id = ?`,
		userID, problemID,
	)
	up, err := scanUserProblem(row)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%w: no progress for problem %d", ErrNotFound, problemID)
	}
	return up, err
}

// InsertUserProblem creates a progress row with default state. A uniqueness
// violation maps to ErrDuplicate.
func (s *Store) InsertUserProblem(userID string, problemID int64) (*models.UserProblem, error) {
	_, err := s.db.Exec(
		`INSERT INTO user_problems (user_id, problem_id, status, notes) VALUES (?, ?, ?, '')`,
		userID, problemID, models.StatusNotStarted,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, ErrDuplicate
		}
		return nil, err
	}
	return s.GetUserProblem(userID, problemID)
}

// ListUserProblems returns the caller's joined problem+progress rows.
func (s *Store) ListUserProblems(userID string) ([]models.ProblemWithProgress, error) {
	query := `
        SELECT p.id, p.slug, p.title, p.difficulty, p.topic, p.url, p.description,
               p.examples, p.constraints, p.starter_code, p.created_at, p.updated_at,
               up.id, up.user_id, up.problem_id, up.status, up.rating, up.notes,
               up.last_attempt, up.created_at, up.updated_at
        FROM user_problems up
        JOIN problems p ON up.problem_id = p.id
        WHERE up.user_id = ?
        ORDER BY up.updated_at DESC
    `
	rows, err := s.db.Query(query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	list := []models.ProblemWithProgress{}
	for rows.Next() {
		var pw models.ProblemWithProgress
		var examplesJSON, constraintsJSON string
		var rating sql.NullInt64
		var lastAttempt sql.NullTime

		err := rows.Scan(
			&pw.Problem.ID,
			&pw.Problem.Slug,
			&pw.Problem.Title,
			&pw.Problem.Difficulty,
			&pw.Problem.Topic,
			&pw.Problem.URL,
			&pw.Problem.Description,
			&examplesJSON,
			&constraintsJSON,
			&pw.Problem.StarterCode,
			&pw.Problem.CreatedAt,
			&pw.Problem.UpdatedAt,
			&pw.UserProblem.ID,
			&pw.UserProblem.UserID,
			&pw.UserProblem.ProblemID,
			&pw.UserProblem.Status,
			&rating,
			&pw.UserProblem.Notes,
			&lastAttempt,
			&pw.UserProblem.CreatedAt,
			&pw.UserProblem.UpdatedAt,
		)
		if err != nil {
			return nil, err
		}

		if examplesJSON != "" {
			if err := json.Unmarshal([]byte(examplesJSON), &pw.Problem.Examples); err != nil {
				return nil, fmt.Errorf("decode examples for %q: %w", pw.Problem.Slug, err)
			}
		}
		if constraintsJSON != "" {
			if err := json.Unmarshal([]byte(constraintsJSON), &pw.Problem.Constraints); err != nil {
				return nil, fmt.Errorf("decode constraints for %q: %w", pw.Problem.Slug, err)
			}
		}
		if pw.Problem.Examples == nil {
			pw.Problem.Examples = []models.Example{}
		}
		if pw.Problem.Constraints == nil {
			pw.Problem.Constraints = []string{}
		}
		if rating.Valid {
			r := int(rating.Int64)
			pw.UserProblem.Rating = &r
		}
		if lastAttempt.Valid {
			t := lastAttempt.Time
			pw.UserProblem.LastAttempt = &t
		}

		list = append(list, pw)
	}
	return list, rows.Err()
}

// ProgressPatch is a key-presence-aware partial update. SetX false leaves
// the column untouched; SetX true with a nil pointer clears a nullable
// column.
type ProgressPatch struct {
	SetStatus bool
	Status    string

	SetRating bool
	Rating    *int

	SetNotes bool
	Notes    string

	SetLastAttempt bool
	LastAttempt    *time.Time
}

// Empty reports whether the patch touches no columns.
func (p ProgressPatch) Empty() bool {
	return !p.SetStatus && !p.SetRating && !p.SetNotes && !p.SetLastAttempt
}

// UpdateUserProblem applies a partial update to the progress row for
// (userID, problemID). ErrNotFound when no such pairing exists.
func (s *Store) UpdateUserProblem(userID string, problemID int64, patch ProgressPatch) error {
	query := `UPDATE user_problems SET updated_at = ?`
	args := []interface{}{time.Now()}

	if patch.SetStatus {
		query += `, status = ?`
		args = append(args, patch.Status)
	}
	if patch.SetRating {
		query += `, rating = ?`
		if patch.Rating != nil {
			args = append(args, *patch.Rating)
		} else {
			args = append(args, nil)
		}
	}
	if patch.SetNotes {
		query += `, notes = ?`
		args = append(args, patch.Notes)
	}
	if patch.SetLastAttempt {
		query += `, last_attempt = ?`
		if patch.LastAttempt != nil {
			args = append(args, *patch.LastAttempt)
		} else {
			args = append(args, nil)
		}
	}

	query += ` WHERE user_id = ? AND problem_id = ?`
	args = append(args, userID, problemID)

	res, err := s.db.Exec(query, args...)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return fmt.Errorf("%w: no progress for problem %d", ErrNotFound, problemID)
	}
	return nil
}

// ClearProgress deletes every progress row for the user together with
// dependent attempt history and code snippets, dependents first so
// referential constraints hold. Returns the number of progress rows
// removed. ErrNoProgress when the user tracks nothing.
func (s *Store) ClearProgress(userID string) (int, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	var count int
	if err := tx.QueryRow(`SELECT COUNT(*) FROM user_problems WHERE user_id = ?`, userID).Scan(&count); err != nil {
		return 0, err
	}
	if count == 0 {
		return 0, ErrNoProgress
	}

	sub := `SELECT id FROM user_problems WHERE user_id = ?`
	if _, err := tx.Exec(`DELETE FROM attempt_history WHERE user_problem_id IN (`+sub+`)`, userID); err != nil {
		return 0, err
	}
	if _, err := tx.Exec(`DELETE FROM code_snippets WHERE user_problem_id IN (`+sub+`)`, userID); err != nil {
		return 0, err
	}
	if _, err := tx.Exec(`DELETE FROM user_problems WHERE user_id = ?`, userID); err != nil {
		return 0, err
	}

	return count, tx.Commit()
}

// InsertAttempt appends an attempt-history row under a progress record.
func (s *Store) InsertAttempt(userProblemID int64, req models.AddAttemptRequest) (*models.Attempt, error) {
	res, err := s.db.Exec(
		`INSERT INTO attempt_history (user_problem_id, duration, status, approach, notes) VALUES (?, ?, ?, ?, ?)`,
		userProblemID, req.Duration, req.Status, req.Approach, req.Notes,
	)
	if err != nil {
		return nil, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}

	var a models.Attempt
	var duration sql.NullInt64
	err = s.db.QueryRow(
		`SELECT id, user_problem_id, date, duration, status, approach, notes FROM attempt_history WHERE id = ?`, id,
	).Scan(&a.ID, &a.UserProblemID, &a.Date, &duration, &a.Status, &a.Approach, &a.Notes)
	if err != nil {
		return nil, err
	}
	if duration.Valid {
		d := int(duration.Int64)
		a.Duration = &d
	}
	return &a, nil
}

// ListAttempts returns attempt history for a progress record, newest first.
func (s *Store) ListAttempts(userProblemID int64) ([]models.Attempt, error) {
	rows, err := s.db.Query(
		`SELECT id, user_problem_id, date, duration, status, approach, notes
		 FROM attempt_history WHERE user_problem_id = ? ORDER BY date DESC, id DESC`,
		userProblemID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	attempts := []models.Attempt{}
	for rows.Next() {
		var a models.Attempt
		var duration sql.NullInt64
		if err := rows.Scan(&a.ID, &a.UserProblemID, &a.Date, &duration, &a.Status, &a.Approach, &a.Notes); err != nil {
			return nil, err
		}
		if duration.Valid {
			d := int(duration.Int64)
			a.Duration = &d
		}
		attempts = append(attempts, a)
	}
	return attempts, rows.Err()
}

// InsertSnippet stores a code snippet under a progress record.
func (s *Store) InsertSnippet(userProblemID int64, req models.AddSnippetRequest) (*models.CodeSnippet, error) {
	res, err := s.db.Exec(
		`INSERT INTO code_snippets (user_problem_id, caption, code, time_complexity, space_complexity) VALUES (?, ?, ?, ?, ?)`,
		userProblemID, req.Caption, req.Code, req.TimeComplexity, req.SpaceComplexity,
	)
	if err != nil {
		return nil, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}

	var cs models.CodeSnippet
	err = s.db.QueryRow(
		`SELECT id, user_problem_id, caption, code, time_complexity, space_complexity, created_at, updated_at
		 FROM code_snippets WHERE id = ?`, id,
	).Scan(&cs.ID, &cs.UserProblemID, &cs.Caption, &cs.Code, &cs.TimeComplexity, &cs.SpaceComplexity, &cs.CreatedAt, &cs.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &cs, nil
}

// ListSnippets returns the snippets stored under a progress record.
func (s *Store) ListSnippets(userProblemID int64) ([]models.CodeSnippet, error) {
	rows, err := s.db.Query(
		`SELECT id, user_problem_id, caption, code, time_complexity, space_complexity, created_at, updated_at
		 FROM code_snippets WHERE user_problem_id = ? ORDER BY id`,
		userProblemID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	snippets := []models.CodeSnippet{}
	for rows.Next() {
		var cs models.CodeSnippet
		if err := rows.Scan(&cs.ID, &cs.UserProblemID, &cs.Caption, &cs.Code, &cs.TimeComplexity, &cs.SpaceComplexity, &cs.CreatedAt, &cs.UpdatedAt); err != nil {
			return nil, err
		}
		snippets = append(snippets, cs)
	}
	return snippets, rows.Err()
}

// CountUserProblems reports how many problems the user tracks.
func (s *Store) CountUserProblems(userID string) (int, error) {
	var count int
	err := s.db.QueryRow(`SELECT COUNT(*) FROM user_problems WHERE user_id = ?`, userID).Scan(&count)
	return count, err
}
