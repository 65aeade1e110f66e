package problem_test

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"reflect"
	"sync"
	"testing"

	"github.com/leettrack/leettrack/internal/problem"
	"github.com/leettrack/leettrack/pkg/database"
	"github.com/leettrack/leettrack/pkg/logger"
	"github.com/leettrack/leettrack/pkg/models"
)

func setupService(t *testing.T) (*problem.Service, *problem.MockSource, *sql.DB) {
	t.Helper()

	tmpDir := t.TempDir()
	db, err := database.Open(tmpDir + "/test.db")
	if err != nil {
		t.Fatalf("init db: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	logger.Init(logger.INFO, false, nil)

	source := problem.NewMockSource()
	service := problem.NewService(problem.NewStore(db), source)
	return service, source, db
}

func addRequest(title, url string) models.AddProblemRequest {
	return models.AddProblemRequest{
		Title:      title,
		Difficulty: "Easy",
		Topic:      "Array",
		URL:        url,
	}
}

func TestAddProblemForUser_SecondAddRejected(t *testing.T) {
	service, _, db := setupService(t)
	ctx := context.Background()

	req := addRequest("Two Sum", "https://leetcode.com/problems/two-sum/")

	first, err := service.AddProblemForUser(ctx, "user-1", req)
	if err != nil {
		t.Fatalf("first add: %v", err)
	}
	if first.UserProblem.Status != models.StatusNotStarted {
		t.Errorf("expected default status, got %q", first.UserProblem.Status)
	}

	_, err = service.AddProblemForUser(ctx, "user-1", req)
	if !errors.Is(err, problem.ErrDuplicate) {
		t.Fatalf("expected ErrDuplicate, got %v", err)
	}

	var catalogCount, progressCount int
	db.QueryRow(`SELECT COUNT(*) FROM problems`).Scan(&catalogCount)
	db.QueryRow(`SELECT COUNT(*) FROM user_problems`).Scan(&progressCount)
	if catalogCount != 1 || progressCount != 1 {
		t.Fatalf("expected 1 catalog + 1 progress row, got %d + %d", catalogCount, progressCount)
	}
}

func TestAddProblemForUser_SharedCatalogRow(t *testing.T) {
	service, _, db := setupService(t)
	ctx := context.Background()

	req := addRequest("Two Sum", "https://leetcode.com/problems/two-sum/")

	for _, userID := range []string{"user-a", "user-b"} {
		if _, err := service.AddProblemForUser(ctx, userID, req); err != nil {
			t.Fatalf("add for %s: %v", userID, err)
		}
	}

	var catalogCount, progressCount int
	db.QueryRow(`SELECT COUNT(*) FROM problems`).Scan(&catalogCount)
	db.QueryRow(`SELECT COUNT(*) FROM user_problems`).Scan(&progressCount)
	if catalogCount != 1 {
		t.Errorf("expected 1 shared catalog row, got %d", catalogCount)
	}
	if progressCount != 2 {
		t.Errorf("expected 2 progress rows, got %d", progressCount)
	}
}

func TestAddProblemForUser_EnrichesFromSource(t *testing.T) {
	service, _, _ := setupService(t)
	ctx := context.Background()

	// Metadata-light request for a slug the source knows.
	result, err := service.AddProblemForUser(ctx, "user-1", addRequest("Two Sum", "https://leetcode.com/problems/two-sum/"))
	if err != nil {
		t.Fatalf("add: %v", err)
	}

	if result.Problem.Description == "" {
		t.Error("expected description from source")
	}
	if len(result.Problem.Examples) == 0 {
		t.Error("expected examples from source")
	}
	if result.Problem.StarterCode == "" {
		t.Error("expected starter code from source")
	}
}

func TestAddProblemForUser_SourceDownStillAdds(t *testing.T) {
	service, source, _ := setupService(t)
	ctx := context.Background()

	source.ShouldFailFetch = true

	result, err := service.AddProblemForUser(ctx, "user-1", addRequest("My Own Problem", "https://example.com/problems/my-own-problem/"))
	if err != nil {
		t.Fatalf("add with source down: %v", err)
	}
	if result.Problem.Title != "My Own Problem" {
		t.Errorf("expected provided title, got %q", result.Problem.Title)
	}
	if result.Problem.Description != "" {
		t.Errorf("expected no description, got %q", result.Problem.Description)
	}
}

func TestAddProblemForUser_IncompletePayloadStillAdds(t *testing.T) {
	service, source, _ := setupService(t)
	ctx := context.Background()

	// Upstream answers but the record is missing required fields. The add
	// proceeds on caller-supplied metadata, same as a source outage.
	source.ShouldReturnIncomplete = true

	result, err := service.AddProblemForUser(ctx, "user-1", addRequest("Half Baked", "https://example.com/problems/half-baked/"))
	if err != nil {
		t.Fatalf("add with incomplete upstream record: %v", err)
	}
	if result.Problem.Title != "Half Baked" {
		t.Errorf("expected provided title, got %q", result.Problem.Title)
	}
	if result.Problem.Difficulty != "Easy" {
		t.Errorf("expected provided difficulty, got %q", result.Problem.Difficulty)
	}
}

func TestAddProblemForUser_MissingFields(t *testing.T) {
	service, _, _ := setupService(t)
	ctx := context.Background()

	req := addRequest("Two Sum", "https://leetcode.com/problems/two-sum/")
	req.Difficulty = ""

	_, err := service.AddProblemForUser(ctx, "user-1", req)
	if !errors.Is(err, problem.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
}

func TestAddProblemForUser_ConcurrentAdds(t *testing.T) {
	service, _, db := setupService(t)
	ctx := context.Background()

	req := addRequest("Two Sum", "https://leetcode.com/problems/two-sum/")

	const workers = 8
	var wg sync.WaitGroup
	errCh := make(chan error, workers)

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			userID := fmt.Sprintf("user-%d", n)
			if _, err := service.AddProblemForUser(ctx, userID, req); err != nil {
				errCh <- fmt.Errorf("%s: %w", userID, err)
			}
		}(i)
	}
	wg.Wait()
	close(errCh)

	for err := range errCh {
		t.Errorf("concurrent add failed: %v", err)
	}

	var catalogCount, progressCount int
	db.QueryRow(`SELECT COUNT(*) FROM problems`).Scan(&catalogCount)
	db.QueryRow(`SELECT COUNT(*) FROM user_problems`).Scan(&progressCount)
	if catalogCount != 1 {
		t.Errorf("expected exactly 1 catalog row, got %d", catalogCount)
	}
	if progressCount != workers {
		t.Errorf("expected %d progress rows, got %d", workers, progressCount)
	}
}

func TestUpdateRating_Bounds(t *testing.T) {
	service, _, _ := setupService(t)
	ctx := context.Background()

	if _, err := service.AddProblemForUser(ctx, "user-1", addRequest("Two Sum", "https://leetcode.com/problems/two-sum/")); err != nil {
		t.Fatalf("add: %v", err)
	}

	for _, bad := range []int{0, 11, -3} {
		if _, err := service.UpdateRating("user-1", "two-sum", bad); !errors.Is(err, problem.ErrValidation) {
			t.Errorf("rating %d: expected ErrValidation, got %v", bad, err)
		}
	}

	result, err := service.UpdateRating("user-1", "two-sum", 7)
	if err != nil {
		t.Fatalf("rating 7: %v", err)
	}
	if result.UserProblem.Rating == nil || *result.UserProblem.Rating != 7 {
		t.Fatalf("expected rating 7, got %v", result.UserProblem.Rating)
	}
}

func TestUpdateStatus_Validation(t *testing.T) {
	service, _, _ := setupService(t)
	ctx := context.Background()

	if _, err := service.AddProblemForUser(ctx, "user-1", addRequest("Two Sum", "https://leetcode.com/problems/two-sum/")); err != nil {
		t.Fatalf("add: %v", err)
	}

	if _, err := service.UpdateStatus("user-1", "two-sum", "Reading"); !errors.Is(err, problem.ErrValidation) {
		t.Errorf("expected ErrValidation for unknown status, got %v", err)
	}

	result, err := service.UpdateStatus("user-1", "two-sum", models.StatusCompleted)
	if err != nil {
		t.Fatalf("valid status: %v", err)
	}
	if result.UserProblem.Status != models.StatusCompleted {
		t.Errorf("expected Completed, got %q", result.UserProblem.Status)
	}
}

func TestUpdateStatus_NoProgressRow(t *testing.T) {
	service, _, _ := setupService(t)
	ctx := context.Background()

	// user-1 tracks it; user-2 does not.
	if _, err := service.AddProblemForUser(ctx, "user-1", addRequest("Two Sum", "https://leetcode.com/problems/two-sum/")); err != nil {
		t.Fatalf("add: %v", err)
	}

	if _, err := service.UpdateStatus("user-2", "two-sum", models.StatusCompleted); !errors.Is(err, problem.ErrNotFound) {
		t.Errorf("expected ErrNotFound for untracked user, got %v", err)
	}

	if _, err := service.UpdateStatus("user-1", "no-such-slug", models.StatusCompleted); !errors.Is(err, problem.ErrNotFound) {
		t.Errorf("expected ErrNotFound for unknown slug, got %v", err)
	}
}

func TestUpdateFields_PartialSemantics(t *testing.T) {
	service, _, _ := setupService(t)
	ctx := context.Background()

	if _, err := service.AddProblemForUser(ctx, "user-1", addRequest("Two Sum", "https://leetcode.com/problems/two-sum/")); err != nil {
		t.Fatalf("add: %v", err)
	}

	rating := 5
	if _, err := service.UpdateFields("user-1", "two-sum", problem.ProgressPatch{
		SetStatus: true, Status: models.StatusInProgress,
		SetRating: true, Rating: &rating,
		SetNotes: true, Notes: "sliding window does not apply here",
	}); err != nil {
		t.Fatalf("full patch: %v", err)
	}

	// Absent fields stay untouched.
	result, err := service.UpdateFields("user-1", "two-sum", problem.ProgressPatch{
		SetStatus: true, Status: models.StatusCompleted,
	})
	if err != nil {
		t.Fatalf("status-only patch: %v", err)
	}
	if result.UserProblem.Status != models.StatusCompleted {
		t.Errorf("status not updated: %q", result.UserProblem.Status)
	}
	if result.UserProblem.Rating == nil || *result.UserProblem.Rating != 5 {
		t.Errorf("rating should be untouched, got %v", result.UserProblem.Rating)
	}
	if result.UserProblem.Notes != "sliding window does not apply here" {
		t.Errorf("notes should be untouched, got %q", result.UserProblem.Notes)
	}

	// A present-but-null rating clears it.
	result, err = service.UpdateFields("user-1", "two-sum", problem.ProgressPatch{
		SetRating: true, Rating: nil,
	})
	if err != nil {
		t.Fatalf("clear-rating patch: %v", err)
	}
	if result.UserProblem.Rating != nil {
		t.Errorf("rating should be cleared, got %v", result.UserProblem.Rating)
	}

	// An empty patch is rejected.
	if _, err := service.UpdateFields("user-1", "two-sum", problem.ProgressPatch{}); !errors.Is(err, problem.ErrValidation) {
		t.Errorf("expected ErrValidation for empty patch, got %v", err)
	}
}

func TestClearAllProgress(t *testing.T) {
	service, source, db := setupService(t)
	ctx := context.Background()

	urls := []string{
		"https://leetcode.com/problems/two-sum/",
		"https://leetcode.com/problems/valid-parentheses/",
		"https://leetcode.com/problems/merge-intervals/",
	}
	source.Put(&models.ProblemData{
		Title: "Merge Intervals", Slug: "merge-intervals",
		Difficulty: "Medium", Topic: "Intervals",
		URL: "https://leetcode.com/problems/merge-intervals/",
	})

	for i, url := range urls {
		if _, err := service.AddProblemForUser(ctx, "user-1", addRequest(fmt.Sprintf("Problem %d", i), url)); err != nil {
			t.Fatalf("add %s: %v", url, err)
		}
		slug := problem.DeriveSlug(url, "")
		for j := 0; j < 2; j++ {
			if _, err := service.AddAttempt("user-1", slug, models.AddAttemptRequest{Status: problem.AttemptFailed}); err != nil {
				t.Fatalf("attempt on %s: %v", slug, err)
			}
		}
		if _, err := service.AddSnippet("user-1", slug, models.AddSnippetRequest{Code: "pass"}); err != nil {
			t.Fatalf("snippet on %s: %v", slug, err)
		}
	}

	// Another user keeps one row to prove scoping.
	if _, err := service.AddProblemForUser(ctx, "user-2", addRequest("Two Sum", urls[0])); err != nil {
		t.Fatalf("add for user-2: %v", err)
	}

	count, err := service.ClearAllProgress("user-1")
	if err != nil {
		t.Fatalf("clear: %v", err)
	}
	if count != 3 {
		t.Errorf("expected 3 cleared, got %d", count)
	}

	var problems, progress, attempts, snippets int
	db.QueryRow(`SELECT COUNT(*) FROM problems`).Scan(&problems)
	db.QueryRow(`SELECT COUNT(*) FROM user_problems`).Scan(&progress)
	db.QueryRow(`SELECT COUNT(*) FROM attempt_history`).Scan(&attempts)
	db.QueryRow(`SELECT COUNT(*) FROM code_snippets`).Scan(&snippets)

	if problems != 3 {
		t.Errorf("catalog should be untouched, got %d rows", problems)
	}
	if progress != 1 {
		t.Errorf("expected only user-2's progress row, got %d", progress)
	}
	if attempts != 0 || snippets != 0 {
		t.Errorf("expected dependents wiped, got %d attempts, %d snippets", attempts, snippets)
	}

	// Clearing an empty slate is an error, not a no-op.
	if _, err := service.ClearAllProgress("user-1"); !errors.Is(err, problem.ErrNoProgress) {
		t.Errorf("expected ErrNoProgress, got %v", err)
	}
}

func TestProblemFieldsRoundTrip(t *testing.T) {
	service, _, _ := setupService(t)
	ctx := context.Background()

	req := addRequest("Custom Problem", "https://example.com/problems/custom-problem/")
	req.Description = "Do the thing."
	req.Examples = []models.Example{
		{Input: "x = 1", Output: "2", Explanation: "doubling"},
		{Input: "x = -1", Output: "-2"},
	}
	req.Constraints = []string{"-100 <= x <= 100"}
	req.StarterCode = "def solve(x):\n    pass"

	result, err := service.AddProblemForUser(ctx, "user-1", req)
	if err != nil {
		t.Fatalf("add: %v", err)
	}

	got, err := service.GetJoined("user-1", result.Problem.Slug)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Problem.Description != req.Description {
		t.Errorf("description mismatch: %q", got.Problem.Description)
	}
	if !reflect.DeepEqual(got.Problem.Examples, req.Examples) {
		t.Errorf("examples mismatch: %+v", got.Problem.Examples)
	}
	if !reflect.DeepEqual(got.Problem.Constraints, req.Constraints) {
		t.Errorf("constraints mismatch: %+v", got.Problem.Constraints)
	}
	if got.Problem.StarterCode != req.StarterCode {
		t.Errorf("starter code mismatch: %q", got.Problem.StarterCode)
	}
}

func TestAttemptsAndSnippets(t *testing.T) {
	service, _, _ := setupService(t)
	ctx := context.Background()

	if _, err := service.AddProblemForUser(ctx, "user-1", addRequest("Two Sum", "https://leetcode.com/problems/two-sum/")); err != nil {
		t.Fatalf("add: %v", err)
	}

	duration := 30
	if _, err := service.AddAttempt("user-1", "two-sum", models.AddAttemptRequest{
		Status:   problem.AttemptSolved,
		Duration: &duration,
		Approach: "hash map",
	}); err != nil {
		t.Fatalf("attempt: %v", err)
	}

	if _, err := service.AddAttempt("user-1", "two-sum", models.AddAttemptRequest{Status: "Gave Up"}); !errors.Is(err, problem.ErrValidation) {
		t.Errorf("expected ErrValidation for bad attempt status, got %v", err)
	}

	attempts, err := service.ListAttempts("user-1", "two-sum")
	if err != nil {
		t.Fatalf("list attempts: %v", err)
	}
	if len(attempts) != 1 {
		t.Fatalf("expected 1 attempt, got %d", len(attempts))
	}
	if attempts[0].Duration == nil || *attempts[0].Duration != 30 {
		t.Errorf("duration mismatch: %v", attempts[0].Duration)
	}

	if _, err := service.AddSnippet("user-1", "two-sum", models.AddSnippetRequest{
		Caption: "first pass",
		Code:    "def twoSum(): ...",
	}); err != nil {
		t.Fatalf("snippet: %v", err)
	}

	snippets, err := service.ListSnippets("user-1", "two-sum")
	if err != nil {
		t.Fatalf("list snippets: %v", err)
	}
	if len(snippets) != 1 || snippets[0].Caption != "first pass" {
		t.Fatalf("unexpected snippets: %+v", snippets)
	}

	// Attempts on an untracked slug fail with the progress-row error.
	if _, err := service.AddAttempt("user-2", "two-sum", models.AddAttemptRequest{Status: problem.AttemptSolved}); !errors.Is(err, problem.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestSlugCollision_DifferentURLSameSlug(t *testing.T) {
	service, source, db := setupService(t)
	ctx := context.Background()

	source.ShouldFailFetch = true

	// Same derived slug from two different hosts resolves to one catalog row.
	if _, err := service.AddProblemForUser(ctx, "user-1", addRequest("Two Sum", "https://leetcode.com/problems/two-sum/")); err != nil {
		t.Fatalf("first add: %v", err)
	}
	if _, err := service.AddProblemForUser(ctx, "user-2", addRequest("Two Sum", "https://mirror.example.com/problems/two-sum/")); err != nil {
		t.Fatalf("second add: %v", err)
	}

	var catalogCount int
	db.QueryRow(`SELECT COUNT(*) FROM problems`).Scan(&catalogCount)
	if catalogCount != 1 {
		t.Fatalf("expected 1 catalog row for shared slug, got %d", catalogCount)
	}
}

func TestGetProblemBySlug_CorruptExamplesColumn(t *testing.T) {
	service, _, db := setupService(t)

	_, err := db.Exec(`INSERT INTO problems (slug, title, difficulty, topic, url, examples)
		VALUES ('broken', 'Broken', 'Easy', 'Array', 'https://example.com/problems/broken/', 'not-json')`)
	if err != nil {
		t.Fatalf("seed corrupt row: %v", err)
	}

	if _, err := service.Store().GetProblemBySlug("broken"); err == nil {
		t.Fatal("expected error reading row with corrupt examples column")
	}
}
