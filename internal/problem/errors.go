package problem

import "errors"

// Error taxonomy for the catalog and progress stores. Handlers map these to
// HTTP statuses with errors.Is; nothing here is matched by message text.
var (
	// ErrNotFound covers a missing catalog row, a missing progress row, or
	// an upstream response with no question payload.
	ErrNotFound = errors.New("not found")

	// ErrDuplicate means the user already tracks this problem. Adding is
	// not idempotent at the progress level; callers surface this to the
	// user rather than treating it as a no-op.
	ErrDuplicate = errors.New("already in your list")

	// ErrConflict means the catalog insert lost a uniqueness race and the
	// fallback re-read still found nothing. This is the unexpected case;
	// a lost race that re-reads successfully is not an error at all.
	ErrConflict = errors.New("conflicting catalog insert")

	// ErrUpstream covers network failures and non-2xx replies from the
	// external problem source. Retryable by the caller, never auto-retried.
	ErrUpstream = errors.New("upstream source failure")

	// ErrIncompleteData means the upstream payload arrived but is missing
	// required fields.
	ErrIncompleteData = errors.New("incomplete problem data")

	// ErrNoProgress means a clear-progress call found zero rows to clear.
	ErrNoProgress = errors.New("no progress to clear")

	// ErrValidation covers bad input shape or range.
	ErrValidation = errors.New("invalid input")
)
