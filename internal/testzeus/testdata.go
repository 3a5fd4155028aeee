package testzeus

import "context"

const testDataCollection = "test_data"

// CreateTestDataInput holds the fields for a new test-data record.
type CreateTestDataInput struct {
	Name string         `json:"name"`
	Type string         `json:"type,omitempty"`
	Data map[string]any `json:"data,omitempty"`
}

// ListTestData returns one page of test-data records.
func (c *Client) ListTestData(ctx context.Context, opts ListOptions) (*Page[TestDataRecord], error) {
	return listRecords[TestDataRecord](ctx, c, testDataCollection, opts)
}

// GetTestData fetches a test-data record by ID, falling back to a name
// lookup.
func (c *Client) GetTestData(ctx context.Context, idOrName string) (*TestDataRecord, error) {
	return getRecordByIDOrName[TestDataRecord](ctx, c, testDataCollection, idOrName)
}

// CreateTestData creates a new test-data record.
func (c *Client) CreateTestData(ctx context.Context, in CreateTestDataInput) (*TestDataRecord, error) {
	return createRecord[TestDataRecord](ctx, c, testDataCollection, in)
}
