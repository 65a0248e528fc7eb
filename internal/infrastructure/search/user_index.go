// Package search keeps a searchable copy of user identity records in
// Elasticsearch. Redis or Postgres stays the source of truth; the index is
// written best effort after every create or update.
package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"

	"github.com/oksasatya/go-follow-graph/internal/domain/entity"
)

const (
	defaultSize = 10
	maxSize     = 50
	timeout     = 3 * time.Second
)

const usersMapping = `{
  "mappings": {
    "properties": {
      "login":      {"type": "keyword", "fields": {"text": {"type": "text"}}},
      "email":      {"type": "keyword"},
      "first_name": {"type": "text"},
      "last_name":  {"type": "text"},
      "gravatar":   {"type": "keyword", "index": false},
      "created_at": {"type": "date"},
      "updated_at": {"type": "date"}
    }
  }
}`

type UserIndex struct {
	es    *elasticsearch.Client
	index string
}

func NewUserIndex(es *elasticsearch.Client, index string) *UserIndex {
	return &UserIndex{es: es, index: index}
}

// EnsureIndex creates the index with its mapping when it does not exist.
func (x *UserIndex) EnsureIndex(ctx context.Context) error {
	c, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	res, err := x.es.Indices.Exists([]string{x.index}, x.es.Indices.Exists.WithContext(c))
	if err != nil {
		return fmt.Errorf("es: checking index %s: %w", x.index, err)
	}
	drain(res)
	if res.StatusCode == http.StatusOK {
		return nil
	}

	res, err = x.es.Indices.Create(x.index,
		x.es.Indices.Create.WithContext(c),
		x.es.Indices.Create.WithBody(strings.NewReader(usersMapping)),
	)
	if err != nil {
		return fmt.Errorf("es: creating index %s: %w", x.index, err)
	}
	defer drain(res)
	// a concurrent creator wins the race with resource_already_exists_exception
	if res.IsError() && res.StatusCode != http.StatusBadRequest {
		return fmt.Errorf("es: creating index %s: %s", x.index, res.Status())
	}
	return nil
}

// Index upserts the document of u, keyed by login.
func (x *UserIndex) Index(ctx context.Context, u *entity.User) error {
	b, err := json.Marshal(u)
	if err != nil {
		return err
	}
	req := esapi.IndexRequest{Index: x.index, DocumentID: u.Login, Body: bytes.NewReader(b), Refresh: "false"}
	c, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	res, err := req.Do(c, x.es)
	if err != nil {
		return fmt.Errorf("es: indexing %s: %w", u.Login, err)
	}
	defer drain(res)
	if res.IsError() {
		return fmt.Errorf("es: indexing %s: %s", u.Login, res.Status())
	}
	return nil
}

// Search runs a multi_match over login, names and email. size is clamped to [1, 50].
func (x *UserIndex) Search(ctx context.Context, q string, size int) ([]entity.User, error) {
	if size <= 0 || size > maxSize {
		size = defaultSize
	}
	query := map[string]any{
		"query": map[string]any{
			"multi_match": map[string]any{
				"query":  q,
				"fields": []string{"login.text^3", "first_name", "last_name", "email^2"},
			},
		},
		"size": size,
	}
	b, err := json.Marshal(query)
	if err != nil {
		return nil, err
	}

	c, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	res, err := x.es.Search(
		x.es.Search.WithContext(c),
		x.es.Search.WithIndex(x.index),
		x.es.Search.WithBody(bytes.NewReader(b)),
	)
	if err != nil {
		return nil, fmt.Errorf("es: searching %q: %w", q, err)
	}
	defer drain(res)
	if res.IsError() {
		return nil, fmt.Errorf("es: searching %q: %s", q, res.Status())
	}

	var parsed struct {
		Hits struct {
			Hits []struct {
				ID     string      `json:"_id"`
				Source entity.User `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("es: decoding search response: %w", err)
	}

	out := make([]entity.User, 0, len(parsed.Hits.Hits))
	for _, h := range parsed.Hits.Hits {
		out = append(out, h.Source)
	}
	return out, nil
}

func drain(res *esapi.Response) {
	if res == nil || res.Body == nil {
		return
	}
	_, _ = io.Copy(io.Discard, res.Body)
	_ = res.Body.Close()
}
