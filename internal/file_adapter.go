package internal

import "context"

// Store keeps an off-site copy of a finished backup file.
type Store interface {
	Put(ctx context.Context, path string) error
}
