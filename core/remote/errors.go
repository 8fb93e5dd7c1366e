package remote

import (
	"errors"
	"fmt"

	"github.com/minio/minio-go/v7"
)

var (
	// ErrFetching is a transport failure: the backend could not be reached
	// or did not answer in time.
	ErrFetching = errors.New("remote: fetch failed")

	// ErrParsing means the backend answered but the document was missing or
	// did not decode into the expected entity shape.
	ErrParsing = errors.New("remote: parse failed")

	// ErrUnreachable is returned when the pre-write connectivity probe
	// fails. The write is aborted before any mutation is attempted.
	ErrUnreachable = errors.New("remote: backend unreachable")
)

// classify maps a storage error onto the remote error taxonomy. A missing
// key on a reachable backend is a parse-class failure (the record does not
// exist), everything else is transport.
func classify(err error) error {
	if resp := minio.ToErrorResponse(err); resp.Code == "NoSuchKey" {
		return fmt.Errorf("%w: %s", ErrParsing, resp.Code)
	}
	return fmt.Errorf("%w: %v", ErrFetching, err)
}
