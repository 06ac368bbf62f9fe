package config

// EnvPrefix is passed to envconfig; individual fields carry explicit
// PLATEWISE_ names so the prefix stays empty.
const EnvPrefix = ""

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

const (
	EnvDBDSN  = "PLATEWISE_DB_DSN"
	EnvDBHost = "PLATEWISE_DB_HOST"
	EnvDBUser = "PLATEWISE_DB_USER"
	EnvDBName = "PLATEWISE_DB_NAME"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
