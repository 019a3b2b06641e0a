package edgar

import (
	"errors"
	"fmt"
)

// Sentinel errors form the closed taxonomy callers match with
// errors.Is. Message text is never part of the contract.
var (
	// ErrInvalidConfig reports a bad client configuration. It is
	// returned at construction time, never at request time.
	ErrInvalidConfig = errors.New("invalid configuration")

	// ErrNotFound reports that an entity or document does not exist.
	// Never retried.
	ErrNotFound = errors.New("resource not found")

	// ErrRateLimitExceeded reports that retries were exhausted against
	// repeated 429 responses.
	ErrRateLimitExceeded = errors.New("rate limit exceeded")

	// ErrServerError reports that retries were exhausted against
	// repeated 5xx responses or connection failures.
	ErrServerError = errors.New("server error")

	// ErrDecode reports a whole-payload structural failure (corrupt
	// compression stream, unparseable root XML, invalid JSON).
	// Line-level and item-level skips are warnings, not errors.
	ErrDecode = errors.New("decode error")
)

// ClientError reports a non-retryable 4xx response other than 404,
// carrying the status and any response payload.
type ClientError struct {
	Status  int
	Payload []byte
}

func (e *ClientError) Error() string {
	preview := string(e.Payload)
	if len(preview) > 200 {
		preview = preview[:200]
	}
	return fmt.Sprintf("client error: status %d: %s", e.Status, preview)
}

func decodeErr(err error) error {
	return fmt.Errorf("%w: %v", ErrDecode, err)
}
