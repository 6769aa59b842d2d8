package content

import "context"

// System defines the public contract for one content resource.
type System interface {
	// Resource returns the descriptor this system serves.
	Resource() Resource

	// Handler returns the HTTP handler, rejecting bodies over maxBodySize bytes.
	Handler(maxBodySize int64) *Handler

	// List returns every record, newest first.
	List(ctx context.Context) ([]Record, error)
	// ListByCategory returns records whose category matches exactly, newest first.
	ListByCategory(ctx context.Context, category string) ([]Record, error)
	Create(ctx context.Context, cmd CreateCommand) (*Record, error)
	Update(ctx context.Context, id int64, cmd UpdateCommand) (*Record, error)
	Delete(ctx context.Context, id int64) error

	// Count returns the number of stored records.
	Count(ctx context.Context) (int64, error)
	// Ping runs a trivial query through a request session and returns its result.
	Ping(ctx context.Context) (int, error)
}
