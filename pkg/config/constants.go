package config

// EnvPrefix is applied to every environment variable envconfig reads.
const EnvPrefix = ""

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

const (
	EnvDBDSN  = "CALDERA_DB_DSN"
	EnvDBHost = "CALDERA_DB_HOST"
	EnvDBUser = "CALDERA_DB_USER"
	EnvDBName = "CALDERA_DB_NAME"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
