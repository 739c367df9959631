package notion

import (
	"context"
	"net/http"

	"github.com/agentstation/docsync/internal/transport"
)

// SchemaProperty describes one property of the remote collection's
// schema, as reported by the collection metadata endpoint.
type SchemaProperty struct {
	ID   string `json:"id"`
	Type string `json:"type"`
	Name string `json:"name"`
}

type schemaResponse struct {
	Properties map[string]SchemaProperty `json:"properties"`
}

// Schema fetches the collection's property schema, keyed by property
// name. Useful for checking a mapping file against the live collection.
func (c *Client) Schema(ctx context.Context) (map[string]SchemaProperty, error) {
	url := c.baseURL + "/databases/" + c.databaseID

	resp, err := c.transport.Do(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}

	var out schemaResponse
	if err := transport.DecodeResponse(resp, &out); err != nil {
		return nil, err
	}
	return out.Properties, nil
}
