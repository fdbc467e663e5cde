package landscape

import (
	"context"

	"github.com/sufield/landscape/params"
)

// Thin typed wrappers for a few common actions. The generic Invoke path is
// the source of truth; these only save call sites from assembling parameter
// maps by hand. Any action not covered here is still reachable through
// Invoke with its server-side name.

// GetComputersOptions narrows a GetComputers query. Zero values are omitted
// from the request.
type GetComputersOptions struct {
	Query       string
	Limit       int
	Offset      int
	Tags        []string
	WithNetwork bool
}

// GetComputers lists computers matching the given options.
func (c *Client) GetComputers(ctx context.Context, opts GetComputersOptions) (any, error) {
	p := params.Map{}
	if opts.Query != "" {
		p["query"] = params.String(opts.Query)
	}
	if opts.Limit > 0 {
		p["limit"] = params.Int(opts.Limit)
	}
	if opts.Offset > 0 {
		p["offset"] = params.Int(opts.Offset)
	}
	if len(opts.Tags) > 0 {
		tags := make(params.List, len(opts.Tags))
		for i, tag := range opts.Tags {
			tags[i] = params.String(tag)
		}
		p["tags"] = tags
	}
	if opts.WithNetwork {
		p["with_network"] = params.Bool(true)
	}
	return c.Invoke(ctx, "GetComputers", p)
}

// AddTagsToComputers applies tags to the computers selected by query.
func (c *Client) AddTagsToComputers(ctx context.Context, query string, tags []string) (any, error) {
	tagValues := make(params.List, len(tags))
	for i, tag := range tags {
		tagValues[i] = params.String(tag)
	}
	return c.Invoke(ctx, "AddTagsToComputers", params.Map{
		"query": params.String(query),
		"tags":  tagValues,
	})
}

// GetScriptCode fetches the raw code of a stored script. The payload is
// plain text, not JSON.
func (c *Client) GetScriptCode(ctx context.Context, scriptID int) ([]byte, error) {
	return c.InvokeRaw(ctx, "GetScriptCode", params.Map{
		"script_id": params.Int(scriptID),
	})
}
