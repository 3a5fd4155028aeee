package testzeus

import "context"

const tagsCollection = "tags"

// ListTags returns one page of tags.
func (c *Client) ListTags(ctx context.Context, opts ListOptions) (*Page[Tag], error) {
	return listRecords[Tag](ctx, c, tagsCollection, opts)
}

// GetTag fetches a tag by ID, falling back to a name lookup.
func (c *Client) GetTag(ctx context.Context, idOrName string) (*Tag, error) {
	return getRecordByIDOrName[Tag](ctx, c, tagsCollection, idOrName)
}

// CreateTag creates a new tag.
func (c *Client) CreateTag(ctx context.Context, name string) (*Tag, error) {
	return createRecord[Tag](ctx, c, tagsCollection, map[string]any{"name": name})
}
