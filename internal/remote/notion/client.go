// Package notion provides a client for the remote document-database
// API: paginated collection queries plus page create and update.
package notion

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/agentstation/docsync/internal/transport"
	"github.com/agentstation/docsync/pkg/errors"
	"github.com/agentstation/docsync/pkg/logging"
	"github.com/agentstation/docsync/pkg/mapping"
	"github.com/agentstation/docsync/pkg/properties"
)

// DefaultBaseURL is the remote API endpoint used when none is configured.
const DefaultBaseURL = "https://api.notion.com/v1"

// DefaultPageSize is the batch size requested per query page.
const DefaultPageSize = 100

// Page is one remote record: a stable identifier plus its typed
// property values. Key is derived on fetch and is not part of the
// wire format.
type Page struct {
	ID         string                      `json:"id"`
	Properties map[string]properties.Value `json:"properties"`
	Key        string                      `json:"-"`
}

// Client issues requests against one remote collection (database).
type Client struct {
	transport  *transport.Client
	baseURL    string
	databaseID string
}

// NewClient creates a client for the given collection.
func NewClient(t *transport.Client, baseURL, databaseID string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		transport:  t,
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		databaseID: databaseID,
	}
}

type queryRequest struct {
	PageSize    int    `json:"page_size"`
	StartCursor string `json:"start_cursor,omitempty"`
}

type queryResponse struct {
	Results    []Page  `json:"results"`
	HasMore    bool    `json:"has_more"`
	NextCursor *string `json:"next_cursor"`
}

// FetchAll pages through the whole collection, accumulating records in
// arrival order. Each record's composite key is derived as it arrives
// and checked for uniqueness; a repeat aborts immediately, as does any
// network or decode failure, since classification over an incomplete
// or ambiguous record set cannot be trusted.
func (c *Client) FetchAll(ctx context.Context, m *mapping.Mapping, spec mapping.KeySpec) ([]Page, error) {
	log := logging.FromContext(ctx)
	url := fmt.Sprintf("%s/databases/%s/query", c.baseURL, c.databaseID)

	var pages []Page
	seen := make(map[string]struct{})
	cursor := ""

	for {
		req := queryRequest{PageSize: DefaultPageSize, StartCursor: cursor}
		resp, err := c.transport.Do(ctx, http.MethodPost, url, req)
		if err != nil {
			return nil, &errors.FetchError{Collection: c.databaseID, Err: err}
		}

		var batch queryResponse
		if err := transport.DecodeResponse(resp, &batch); err != nil {
			return nil, &errors.FetchError{Collection: c.databaseID, Err: err}
		}

		for i := range batch.Results {
			page := &batch.Results[i]
			key, err := mapping.PageKey(page.Properties, m, spec)
			if err != nil {
				return nil, &errors.FetchError{Collection: c.databaseID, Err: err}
			}
			if _, dup := seen[key]; dup {
				return nil, errors.NewDuplicateKeyError(errors.SideRemote, key, 0)
			}
			seen[key] = struct{}{}
			page.Key = key
		}
		pages = append(pages, batch.Results...)

		log.Debug().
			Int("batch", len(batch.Results)).
			Int("total", len(pages)).
			Bool("has_more", batch.HasMore).
			Msg("Fetched collection batch")

		if !batch.HasMore || batch.NextCursor == nil {
			return pages, nil
		}
		cursor = *batch.NextCursor
	}
}

type pageRequest struct {
	Parent     *parentRef                  `json:"parent,omitempty"`
	Properties map[string]properties.Value `json:"properties"`
}

type parentRef struct {
	DatabaseID string `json:"database_id"`
}

type pageResponse struct {
	ID string `json:"id"`
}

// CreatePage creates a new record in the collection and returns its
// identifier.
func (c *Client) CreatePage(ctx context.Context, props map[string]properties.Value) (string, error) {
	url := c.baseURL + "/pages"
	body := pageRequest{
		Parent:     &parentRef{DatabaseID: c.databaseID},
		Properties: props,
	}

	resp, err := c.transport.Do(ctx, http.MethodPost, url, body)
	if err != nil {
		return "", err
	}

	var out pageResponse
	if err := transport.DecodeResponse(resp, &out); err != nil {
		return "", err
	}
	return out.ID, nil
}

// UpdatePage overwrites the mapped properties of an existing record
// and returns its identifier.
func (c *Client) UpdatePage(ctx context.Context, pageID string, props map[string]properties.Value) (string, error) {
	url := c.baseURL + "/pages/" + pageID
	body := pageRequest{Properties: props}

	resp, err := c.transport.Do(ctx, http.MethodPatch, url, body)
	if err != nil {
		return "", err
	}

	var out pageResponse
	if err := transport.DecodeResponse(resp, &out); err != nil {
		return "", err
	}
	return out.ID, nil
}
