package internal

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/opensearch-project/opensearch-go"
	"github.com/opensearch-project/opensearch-go/opensearchapi"
)

const defaultHistoryIndex = "notion-backup"

// OpensearchHistory indexes one document per entry. Elasticsearch URLs work
// the same way.
type OpensearchHistory struct {
	DB    *opensearch.Client
	index string
}

func (a *OpensearchHistory) Init(urlStr string) error {
	if strings.HasPrefix(urlStr, "elasticsearch+") {
		urlStr = strings.TrimPrefix(urlStr, "elasticsearch+")
	} else {
		urlStr = strings.TrimPrefix(urlStr, "opensearch+")
	}

	u, err := url.Parse(urlStr)
	if err != nil {
		return err
	}

	if len(u.Path) < 2 {
		a.index = defaultHistoryIndex
	} else {
		a.index = u.Path[1:]
	}
	u.Path = ""

	client, err := opensearch.NewClient(opensearch.Config{
		Addresses: []string{
			u.String(),
		},
	})
	if err != nil {
		return err
	}

	a.DB = client

	return nil
}

func (a *OpensearchHistory) Record(ctx context.Context, entries []HistoryEntry) error {
	for _, entry := range entries {
		body, err := json.Marshal(entry)
		if err != nil {
			return err
		}

		req := opensearchapi.IndexRequest{
			Index: a.index,
			Body:  bytes.NewReader(body),
		}
		res, err := req.Do(ctx, a.DB)
		if err != nil {
			return err
		}

		err = checkResult(res)
		res.Body.Close()
		if err != nil {
			return err
		}
	}
	return nil
}

func (a *OpensearchHistory) Close() error {
	return nil
}

func checkResult(res *opensearchapi.Response) error {
	if !res.IsError() {
		return nil
	}

	var e struct {
		Error struct {
			Type   string `json:"type"`
			Reason string `json:"reason"`
		} `json:"error"`
	}
	if err := json.NewDecoder(res.Body).Decode(&e); err != nil {
		return errors.New(fmt.Sprintf("[%s] error parsing the response body: %s", res.Status(), err))
	}
	return errors.New(fmt.Sprintf("[%s] %s: %s", res.Status(), e.Error.Type, e.Error.Reason))
}
