package consts

import "time"

// Server configuration
const (
	DefaultPort       = "8080"
	ReadHeaderTimeout = 3 * time.Second
	RateLimitRequests = 60
	RateLimitWindow   = time.Minute
	MaxBodyBytes      = 1 << 20
)

// Cron schedules
const (
	CronSummarize     = "0 */2 * * *" // Every 2 hours
	CronGenerateChart = "5 0 * * *"   // Daily at 00:05 UTC
	CronCleanup       = "30 0 * * *"  // Daily at 00:30 UTC
)

// Data retention and summarization
const (
	SnapshotRetentionYears = 10
	SummarizeLookbackYears = 2
)

// File paths and directories
const (
	DatabaseFile   = "fruitcast.db"
	ChartDataDir   = "web/chartdata"
	ChartsJSONFile = "charts.json"
	SummariesDir   = "summaries"
	BundleFile     = "bundle.json"
	AllYearsDir    = "all"

	HarvestExportFile  = "verified_harvest_records.csv"
	PlantingExportFile = "verified_plant_records.csv"
)

// File permissions
const (
	DirPermissions  = 0750
	FilePermissions = 0600
)

// Date formats
const (
	DateFormat     = "2006-01-02"
	DateTimeFormat = "2006-01-02 15:04:05"
)

// Query parameters
const (
	YearParam = "year"
	TabParam  = "tab"
	FromParam = "from"
)

// Dashboard sections
const (
	TabHarvest  = "harvest"
	TabPlanting = "planting"
	DefaultTab  = TabHarvest
)

// Chart configuration
const (
	ChartWidth      = "900px"
	ChartHeight     = "420px"
	PageTitle       = "FruitCast Dashboard"
	EChartsAssetURL = "https://go-echarts.github.io/go-echarts-assets/assets/echarts.min.js"
)

// Chart colors and styling
const (
	ChartBackgroundColor = "#ffffff"
	ChartTextColor       = "#000000"
	HarvestColor         = "rgba(75, 192, 192, 0.6)"
	PlantingColor        = "rgba(54, 162, 235, 0.6)"
	AvgWeightColor       = "rgba(255, 159, 64, 0.6)"
)

// API configuration
const (
	AuthHeaderPrefix = "Bearer "
	APIKeyQueryParam = "api_key"
)
