package internal

import (
	"context"
	"strings"
)

// HistoryStore records one entry per configured table for every run.
type HistoryStore interface {
	Init(url string) error
	Record(ctx context.Context, entries []HistoryEntry) error
	Close() error
}

// NewHistoryStore picks the backend from the URL scheme.
func NewHistoryStore(urlStr string) (HistoryStore, error) {
	var store HistoryStore
	if strings.HasPrefix(urlStr, "mongodb://") || strings.HasPrefix(urlStr, "mongodb+srv://") {
		store = &MongodbHistory{}
	} else if strings.HasPrefix(urlStr, "elasticsearch+") || strings.HasPrefix(urlStr, "opensearch+") {
		store = &OpensearchHistory{}
	} else {
		store = &SqlHistory{}
	}

	if err := store.Init(urlStr); err != nil {
		return nil, err
	}
	return store, nil
}
