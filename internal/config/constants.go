package config

const (
	DefaultDatabasePath = "./magazzino.db"

	// DefaultAPIVersion is the Shopify Admin API version used when the
	// shop settings do not override it.
	DefaultAPIVersion = "2024-04"

	// DefaultPageLimit is the per-call order limit for the partitioned
	// walk. Shopify caps orders.json at 250 per page.
	DefaultPageLimit = 250
)
