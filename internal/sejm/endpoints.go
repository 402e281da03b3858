package sejm

import (
	"context"
	"fmt"
	"time"
)

// actPath returns the registry path for a single act.
func actPath(publisher string, year, position int) string {
	return fmt.Sprintf("acts/%s/%d/%d", publisher, year, position)
}

// GetAct fetches the full record of a single act.
func (c *Client) GetAct(ctx context.Context, publisher string, year, position int, ttl time.Duration) (map[string]any, error) {
	return c.getObject(ctx, actPath(publisher, year, position), nil, ttl)
}

// SearchActs runs the registry search endpoint with the given query
// parameters.
func (c *Client) SearchActs(ctx context.Context, params map[string]string, ttl time.Duration) (map[string]any, error) {
	return c.getObject(ctx, "acts/search", params, ttl)
}

// BrowseActs lists the acts of one publisher and year.
func (c *Client) BrowseActs(ctx context.Context, publisher string, year int, ttl time.Duration) (map[string]any, error) {
	return c.getObject(ctx, fmt.Sprintf("acts/%s/%d", publisher, year), nil, ttl)
}

// GetActStructure fetches the structural table of contents of an act.
func (c *Client) GetActStructure(ctx context.Context, publisher string, year, position int, ttl time.Duration) (any, error) {
	return c.GetJSON(ctx, actPath(publisher, year, position)+"/struct", nil, ttl)
}

// GetActReferences fetches the reference graph of an act (amends, amended
// by, implements, and the rest).
func (c *Client) GetActReferences(ctx context.Context, publisher string, year, position int, ttl time.Duration) (map[string]any, error) {
	return c.getObject(ctx, actPath(publisher, year, position)+"/references", nil, ttl)
}

// GetActHTML fetches the consolidated HTML text of an act.
func (c *Client) GetActHTML(ctx context.Context, publisher string, year, position int) (string, error) {
	return c.GetText(ctx, actPath(publisher, year, position)+"/text.html")
}

// GetActPDF fetches the PDF text of an act.
func (c *Client) GetActPDF(ctx context.Context, publisher string, year, position int) ([]byte, error) {
	return c.GetBytes(ctx, actPath(publisher, year, position)+"/text.pdf")
}

// ActPDFURL returns the public URL of the act PDF without fetching it.
func (c *Client) ActPDFURL(publisher string, year, position int) string {
	return fmt.Sprintf("%s/%s/text.pdf", c.baseURL, actPath(publisher, year, position))
}

// GetMetadata fetches one of the registry dictionary endpoints (keywords,
// statuses, types, institutions, publishers).
func (c *Client) GetMetadata(ctx context.Context, endpoint string, ttl time.Duration) (any, error) {
	return c.GetJSON(ctx, endpoint, nil, ttl)
}

// getObject fetches JSON and requires a top-level object.
func (c *Client) getObject(ctx context.Context, path string, params map[string]string, ttl time.Duration) (map[string]any, error) {
	decoded, err := c.GetJSON(ctx, path, params, ttl)
	if err != nil {
		return nil, err
	}
	obj, ok := decoded.(map[string]any)
	if !ok {
		return nil, &APIError{StatusCode: 200, Path: path, Message: "unexpected response shape"}
	}
	return obj, nil
}
