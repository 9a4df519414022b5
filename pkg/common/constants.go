package common

const (
	TablePortfolioAssets   = "portfolio_assets"
	TableDailyIntelligence = "daily_intelligence"

	StoreOpSelect = "select"
	StoreOpInsert = "insert"

	RedisKeyIntelligenceClaim = "intel"

	MetricsJobName = "daily_agent"
)
