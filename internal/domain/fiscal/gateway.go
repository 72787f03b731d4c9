package fiscal

import (
	"context"
	"errors"
)

// Gateway is the port to the external tax-authority system. Implementations
// must bound each call with a timeout; a timeout is a transport failure,
// retryable on the next scheduled run.
type Gateway interface {
	// SubmitZReport sends the aggregated report under the tenant's
	// credentials and returns the authority's acknowledgement
	SubmitZReport(ctx context.Context, creds Credentials, report *ZReport) (*SubmissionAck, error)
}

// Gateway errors
var (
	// ErrRejected is returned when the authority refuses the report
	ErrRejected = errors.New("fiscal: report rejected by tax authority")

	// ErrUnavailable is returned on transport failures and timeouts
	ErrUnavailable = errors.New("fiscal: tax authority unavailable")
)
