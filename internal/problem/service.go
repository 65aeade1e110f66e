package problem

import (
	"context"
	"errors"
	"fmt"

	"github.com/leettrack/leettrack/pkg/logger"
	"github.com/leettrack/leettrack/pkg/metrics"
	"github.com/leettrack/leettrack/pkg/models"
)

// Service orchestrates the external source and the store so adding a
// problem to a user's list never duplicates catalog rows or progress rows.
type Service struct {
	store  *Store
	source Source
	log    *logger.Logger
}

func NewService(store *Store, source Source) *Service {
	return &Service{
		store:  store,
		source: source,
		log:    logger.GetLogger().WithContext("component", "problem_service"),
	}
}

// Store exposes the underlying store for read paths that need no
// orchestration.
func (s *Service) Store() *Store {
	return s.store
}

// FetchFromSource is the adapter passthrough used by the fetch endpoint.
func (s *Service) FetchFromSource(ctx context.Context, slug string) (*models.ProblemData, error) {
	return s.source.Fetch(ctx, slug)
}

// AddProblemForUser attaches a problem to the user's list, creating the
// catalog row first if this is the first reference to it anywhere.
//
// The catalog insert is race-safe without locks: losing a uniqueness race
// to a concurrent inserter is resolved by a single fallback re-read. At
// most one catalog row and one progress row are created per call.
func (s *Service) AddProblemForUser(ctx context.Context, userID string, req models.AddProblemRequest) (*models.ProblemWithProgress, error) {
	if req.Title == "" || req.Difficulty == "" || req.Topic == "" || req.URL == "" {
		return nil, fmt.Errorf("%w: title, difficulty, topic and url are required", ErrValidation)
	}

	slug := DeriveSlug(req.URL, req.Title)
	if slug == "" {
		return nil, fmt.Errorf("%w: cannot derive slug from %q", ErrValidation, req.URL)
	}

	// Metadata-light adds (curated list, bare URL) are enriched from the
	// external source before touching the catalog; a source failure leaves
	// all state unchanged.
	if req.Description == "" && len(req.Examples) == 0 {
		data, err := s.source.Fetch(ctx, slug)
		if err == nil {
			req.Title = data.Title
			req.Difficulty = data.Difficulty
			req.Topic = data.Topic
			req.Description = data.Description
			req.Examples = data.Examples
			req.Constraints = data.Constraints
			req.StarterCode = data.StarterCode
		} else if !errors.Is(err, ErrNotFound) && !errors.Is(err, ErrUpstream) &&
			!errors.Is(err, ErrIncompleteData) {
			return nil, err
		} else {
			// Problems that exist only in the caller's head (or in a
			// curated list the upstream no longer serves) are still
			// trackable with the metadata provided.
			s.log.Warn("source_fetch_failed", "slug", slug, "error", err.Error())
		}
	}

	problemID, err := s.resolveProblemID(slug, &req)
	if err != nil {
		return nil, err
	}

	if _, err := s.store.GetUserProblem(userID, problemID); err == nil {
		metrics.IncrementDuplicateRejects()
		return nil, fmt.Errorf("%q is %w", req.Title, ErrDuplicate)
	} else if !errors.Is(err, ErrNotFound) {
		return nil, err
	}

	up, err := s.store.InsertUserProblem(userID, problemID)
	if err != nil {
		if errors.Is(err, ErrDuplicate) {
			metrics.IncrementDuplicateRejects()
			return nil, fmt.Errorf("%q is %w", req.Title, ErrDuplicate)
		}
		return nil, err
	}

	prob, err := s.store.GetProblemBySlug(slug)
	if err != nil {
		return nil, err
	}

	metrics.IncrementProblemsAdded()
	s.log.Info("problem_added", "user_id", userID, "slug", slug, "problem_id", problemID)

	return &models.ProblemWithProgress{Problem: *prob, UserProblem: *up}, nil
}

// resolveProblemID finds or creates the catalog row for the request and
// returns its id. A lost insert race resolves through one re-read by slug;
// only an insert failure with no row to re-read is an error.
func (s *Service) resolveProblemID(slug string, req *models.AddProblemRequest) (int64, error) {
	if existing, err := s.store.GetProblemByURL(req.URL); err == nil {
		return existing.ID, nil
	} else if !errors.Is(err, ErrNotFound) {
		return 0, err
	}

	if existing, err := s.store.GetProblemBySlug(slug); err == nil {
		return existing.ID, nil
	} else if !errors.Is(err, ErrNotFound) {
		return 0, err
	}

	id, err := s.store.InsertProblem(slug, req)
	if err == nil {
		return id, nil
	}
	if !errors.Is(err, errSlugTaken) {
		return 0, err
	}

	// A concurrent inserter won the race; the row exists now.
	existing, err := s.store.GetProblemBySlug(slug)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return 0, fmt.Errorf("%w: slug %q", ErrConflict, slug)
		}
		return 0, err
	}
	metrics.IncrementUpsertRacesWon()
	s.log.Info("catalog_insert_race_recovered", "slug", slug, "problem_id", existing.ID)
	return existing.ID, nil
}

// GetJoined returns the caller's joined problem+progress view for a slug.
func (s *Service) GetJoined(userID, slug string) (*models.ProblemWithProgress, error) {
	prob, err := s.store.GetProblemBySlug(slug)
	if err != nil {
		return nil, err
	}
	up, err := s.store.GetUserProblem(userID, prob.ID)
	if err != nil {
		return nil, err
	}
	return &models.ProblemWithProgress{Problem: *prob, UserProblem: *up}, nil
}

// UpdateStatus sets the progress status for (userID, slug).
func (s *Service) UpdateStatus(userID, slug, status string) (*models.ProblemWithProgress, error) {
	if !models.ValidStatus(status) {
		return nil, fmt.Errorf("%w: unknown status %q", ErrValidation, status)
	}
	return s.UpdateFields(userID, slug, ProgressPatch{SetStatus: true, Status: status})
}

// UpdateRating sets the 1-10 rating for (userID, slug).
func (s *Service) UpdateRating(userID, slug string, rating int) (*models.ProblemWithProgress, error) {
	if rating < 1 || rating > 10 {
		return nil, fmt.Errorf("%w: rating must be between 1 and 10", ErrValidation)
	}
	return s.UpdateFields(userID, slug, ProgressPatch{SetRating: true, Rating: &rating})
}

// UpdateFields applies a partial update: only fields present in the patch
// change, and a present-but-null rating or last attempt clears the column.
func (s *Service) UpdateFields(userID, slug string, patch ProgressPatch) (*models.ProblemWithProgress, error) {
	if patch.Empty() {
		return nil, fmt.Errorf("%w: no fields to update", ErrValidation)
	}
	if patch.SetStatus && !models.ValidStatus(patch.Status) {
		return nil, fmt.Errorf("%w: unknown status %q", ErrValidation, patch.Status)
	}
	if patch.SetRating && patch.Rating != nil && (*patch.Rating < 1 || *patch.Rating > 10) {
		return nil, fmt.Errorf("%w: rating must be between 1 and 10", ErrValidation)
	}

	prob, err := s.store.GetProblemBySlug(slug)
	if err != nil {
		return nil, err
	}
	if err := s.store.UpdateUserProblem(userID, prob.ID, patch); err != nil {
		return nil, err
	}

	up, err := s.store.GetUserProblem(userID, prob.ID)
	if err != nil {
		return nil, err
	}
	return &models.ProblemWithProgress{Problem: *prob, UserProblem: *up}, nil
}

// ListCatalog returns the full shared catalog, no progress join.
func (s *Service) ListCatalog() ([]models.Problem, error) {
	return s.store.ListProblems()
}

// ListForUser returns the caller's joined rows.
func (s *Service) ListForUser(userID string) ([]models.ProblemWithProgress, error) {
	return s.store.ListUserProblems(userID)
}

// ClearAllProgress removes every progress row for the user, dependents
// first. The catalog is untouched. Returns how many problems were cleared.
func (s *Service) ClearAllProgress(userID string) (int, error) {
	count, err := s.store.ClearProgress(userID)
	if err != nil {
		return 0, err
	}
	s.log.Info("progress_cleared", "user_id", userID, "count", count)
	return count, nil
}

// Attempt statuses recorded in history entries.
const (
	AttemptFailed  = "Failed"
	AttemptPartial = "Partial"
	AttemptSolved  = "Solved"
)

func validAttemptStatus(s string) bool {
	return s == AttemptFailed || s == AttemptPartial || s == AttemptSolved
}

// AddAttempt appends an attempt-history entry under the caller's progress
// row for the slug.
func (s *Service) AddAttempt(userID, slug string, req models.AddAttemptRequest) (*models.Attempt, error) {
	if !validAttemptStatus(req.Status) {
		return nil, fmt.Errorf("%w: unknown attempt status %q", ErrValidation, req.Status)
	}
	up, err := s.userProblemBySlug(userID, slug)
	if err != nil {
		return nil, err
	}
	return s.store.InsertAttempt(up.ID, req)
}

// ListAttempts returns the caller's attempt history for the slug.
func (s *Service) ListAttempts(userID, slug string) ([]models.Attempt, error) {
	up, err := s.userProblemBySlug(userID, slug)
	if err != nil {
		return nil, err
	}
	return s.store.ListAttempts(up.ID)
}

// AddSnippet stores a code snippet under the caller's progress row.
func (s *Service) AddSnippet(userID, slug string, req models.AddSnippetRequest) (*models.CodeSnippet, error) {
	up, err := s.userProblemBySlug(userID, slug)
	if err != nil {
		return nil, err
	}
	return s.store.InsertSnippet(up.ID, req)
}

// ListSnippets returns the caller's snippets for the slug.
func (s *Service) ListSnippets(userID, slug string) ([]models.CodeSnippet, error) {
	up, err := s.userProblemBySlug(userID, slug)
	if err != nil {
		return nil, err
	}
	return s.store.ListSnippets(up.ID)
}

func (s *Service) userProblemBySlug(userID, slug string) (*models.UserProblem, error) {
	prob, err := s.store.GetProblemBySlug(slug)
	if err != nil {
		return nil, err
	}
	return s.store.GetUserProblem(userID, prob.ID)
}
