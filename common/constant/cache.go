package constant

import "time"

const (
	CatalogItemsCacheKey = "catalog:items"

	StatsOrderCountKey   = "stats:orders:count"
	StatsPendingCountKey = "stats:orders:pending"
	StatsRevenueKey      = "stats:orders:revenue_cents"
)

const (
	CatalogItemsCacheTTL = 5 * time.Minute
)
