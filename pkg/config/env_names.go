package config

// EnvPrefix is passed to envconfig; individual fields carry full names.
const EnvPrefix = ""

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

const (
	EnvDBDSN  = "EMBERWICK_DB_DSN"
	EnvDBHost = "EMBERWICK_DB_HOST"
	EnvDBUser = "EMBERWICK_DB_USER"
	EnvDBName = "EMBERWICK_DB_NAME"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
