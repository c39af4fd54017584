package constants

// Batch layout and stage names.

const (
	RunDateFormat      = "20060102" // run dates are YYYYMMDD and partition all state
	TimeFormatLogStamp = "2006-01-02T15:04:05-0700"

	DirLanding = "landing"
	DirStage   = "stage"
	DirLogs    = "logs"

	ChecksumLogPrefix      = "checksums_"
	OrchestrationLogPrefix = "orchestration_"
	LogFileExtension       = "log"

	StageAcquire   = "acquire"
	StagePromote   = "promote"
	StageReconcile = "reconcile"
	StageLoad      = "load"
	StageQuality   = "quality-gate"

	EmojiBang  = "\U0001F4A5"
	EmojiCheck = "✅"

	EnvVarPrefix = "BG" // prefix for environment variables in twelveFactorMode

	ConnectionTypeSnowflake = "snowflake"
	ConnectionTypeSqlServer = "sqlserver"
	ConnectionTypeNetezza   = "netezza"
	ConnectionTypeMock      = "mock"
	ConnectionTypeS3        = "s3"
)

// Quality gate check names. These appear in reports and policy rules so they
// are part of the external contract.

const (
	CheckNegativeQty       = "neg_qty"
	CheckNegativeAmount    = "neg_amt"
	CheckOrphanCustomer    = "orphan_cust"
	CheckOrphanProduct     = "orphan_prod"
	CheckDupCurrentProduct = "dup_current_product"
	CheckYearlySales       = "yearly_sales"
	CheckVipSales          = "vip_sales"
	CheckParity            = "parity"
)

// Warehouse table names consumed read-only by the quality gate.

const (
	TableFactSales      = "fact_sales"
	TableDimCustomer    = "dim_customer"
	TableDimProductScd2 = "dim_product_scd2"
)
