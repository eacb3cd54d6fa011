package metadata

// --- SQLite Keys ---
// These keys are used for the 'key' column in the 'metadata' SQLite table.
const (
	// CatalogSeedVersionKey stores the version string of the storage/item
	// catalog that was last imported by cmd/seeddb.
	CatalogSeedVersionKey = "catalog_seed_version"

	// LastResyncDonationIDKey stores the ID of the last donation record that
	// was covered by the last successful Redis aggregate resync.
	LastResyncDonationIDKey = "last_resync_donation_id"
)

// --- Redis Keys ---
// These keys are used for storing live platform aggregates in Redis.
const (
	// RedisTotalDonationsKey is a Redis String (counter) holding the live
	// number of processed donations.
	RedisTotalDonationsKey = "meta:total_donations"

	// RedisTotalPointsKey is a Redis String (counter) holding the live sum of
	// points awarded across all users.
	RedisTotalPointsKey = "meta:total_points"

	// RedisTotalAmountKey is a Redis String (counter) holding the live sum of
	// donated amounts (monetary equivalent).
	RedisTotalAmountKey = "meta:total_amount"
)
