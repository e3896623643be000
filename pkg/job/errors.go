package job

import "errors"

var (
	// ErrInvalidPayload is returned when a payload cannot be marshaled.
	ErrInvalidPayload = errors.New("job: invalid payload")

	// ErrPoolRequired is returned when creating an enqueuer without a
	// database pool.
	ErrPoolRequired = errors.New("job: pool is required")
)
