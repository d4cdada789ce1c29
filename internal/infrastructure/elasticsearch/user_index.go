package elasticsearch

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	es "github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"

	"github.com/oksasatya/petaverse-auth/internal/application"
)

// UserIndex stores credential-free user projections in one index.
type UserIndex struct {
	Client    *es.Client
	IndexName string
	Timeout   time.Duration
}

func NewUserIndex(client *es.Client, index string) *UserIndex {
	return &UserIndex{Client: client, IndexName: index, Timeout: 3 * time.Second}
}

func (x *UserIndex) Index(ctx context.Context, doc application.UserDocument) error {
	b, err := json.Marshal(doc)
	if err != nil {
		return err
	}
	c, cancel := context.WithTimeout(ctx, x.Timeout)
	defer cancel()
	req := esapi.IndexRequest{Index: x.IndexName, DocumentID: doc.ID, Body: bytes.NewReader(b), Refresh: "false"}
	res, err := req.Do(c, x.Client)
	if err != nil {
		return err
	}
	defer func() { _ = res.Body.Close() }()
	if res.IsError() {
		return fmt.Errorf("index user %s: %s", doc.ID, res.Status())
	}
	return nil
}

func (x *UserIndex) Remove(ctx context.Context, id string) error {
	c, cancel := context.WithTimeout(ctx, x.Timeout)
	defer cancel()
	req := esapi.DeleteRequest{Index: x.IndexName, DocumentID: id}
	res, err := req.Do(c, x.Client)
	if err != nil {
		return err
	}
	defer func() { _ = res.Body.Close() }()
	if res.IsError() && res.StatusCode != http.StatusNotFound {
		return fmt.Errorf("remove user %s: %s", id, res.Status())
	}
	return nil
}

// Search runs a multi_match over email, name and country.
func (x *UserIndex) Search(ctx context.Context, q string, size int) ([]application.UserDocument, error) {
	query := map[string]any{
		"query": map[string]any{
			"multi_match": map[string]any{
				"query":  q,
				"fields": []string{"email^2", "name", "country"},
			},
		},
		"size": size,
	}
	b, err := json.Marshal(query)
	if err != nil {
		return nil, err
	}

	c, cancel := context.WithTimeout(ctx, x.Timeout)
	defer cancel()

	res, err := x.Client.Search(
		x.Client.Search.WithContext(c),
		x.Client.Search.WithIndex(x.IndexName),
		x.Client.Search.WithBody(bytes.NewReader(b)),
	)
	if err != nil {
		return nil, err
	}
	defer func() { _ = res.Body.Close() }()
	if res.IsError() {
		return nil, fmt.Errorf("search users: %s", res.Status())
	}
	return decodeHits(res.Body)
}

func decodeHits(body io.Reader) ([]application.UserDocument, error) {
	var parsed struct {
		Hits struct {
			Hits []struct {
				Source application.UserDocument `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(body).Decode(&parsed); err != nil {
		return nil, err
	}
	out := make([]application.UserDocument, 0, len(parsed.Hits.Hits))
	for _, h := range parsed.Hits.Hits {
		out = append(out, h.Source)
	}
	return out, nil
}

var _ application.UserIndexer = (*UserIndex)(nil)
