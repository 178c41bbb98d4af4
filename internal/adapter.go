package internal

import "context"

// PageSource returns every page of a remote database, in the order the
// service returned them.
type PageSource interface {
	FetchPages(ctx context.Context, databaseID string) ([]Page, error)
}
