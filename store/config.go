package store

// Config holds configuration for the Store.
type Config struct {
	// TableName is the DynamoDB table backing the domain.
	// Default: "sdbmap_items"
	TableName string

	// NameAttribute is the table's hash key, holding the item name.
	// It is never returned as an item attribute.
	// Default: "item_name"
	NameAttribute string

	// ConsistentRead enables strongly consistent GetItem and Scan calls.
	// The store the adapter targets is eventually consistent, so the
	// default is false.
	ConsistentRead bool

	// PageSize limits the items evaluated per Scan page.
	// Default: 0 (DynamoDB's 1 MB page limit)
	PageSize int32
}

// DefaultConfig returns the default table layout.
func DefaultConfig() Config {
	return Config{
		TableName:     "sdbmap_items",
		NameAttribute: "item_name",
	}
}

// validate fills in missing values.
func (c *Config) validate() {
	if c.TableName == "" {
		c.TableName = "sdbmap_items"
	}
	if c.NameAttribute == "" {
		c.NameAttribute = "item_name"
	}
	if c.PageSize < 0 {
		c.PageSize = 0
	}
}
