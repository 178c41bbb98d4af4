package internal

import (
	"context"
	"errors"
	"net/url"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type MongodbHistory struct {
	DB *mongo.Database
}

func (a *MongodbHistory) Init(urlStr string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	u, err := url.Parse(urlStr)
	if err != nil {
		return err
	}

	if len(u.Path) < 2 {
		return errors.New("No database specified")
	}

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(urlStr))
	if err != nil {
		return err
	}

	a.DB = client.Database(u.Path[1:])

	return nil
}

func (a *MongodbHistory) Record(ctx context.Context, entries []HistoryEntry) error {
	if len(entries) == 0 {
		return nil
	}

	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	docs := make([]interface{}, len(entries))
	for i, entry := range entries {
		docs[i] = entry
	}

	_, err := a.DB.Collection(historyTable).InsertMany(ctx, docs)
	return err
}

func (a *MongodbHistory) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	return a.DB.Client().Disconnect(ctx)
}
