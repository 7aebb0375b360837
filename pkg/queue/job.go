package queue

import "context"

// Job handles one message type pulled off the queue.
type Job interface {
	// Name is the unique identifier of the job.
	Name() string

	// Type is the message type this job consumes.
	Type() string

	// Handle processes one payload. Errors trigger the retry flow.
	Handle(ctx context.Context, payload interface{}) error
}
