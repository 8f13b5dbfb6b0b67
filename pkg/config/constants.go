package config

// EnvPrefix is the envconfig prefix applied on top of the explicit tags.
const EnvPrefix = "SWA"

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

const (
	EnvDBDSN  = "SWA_DB_DSN"
	EnvDBHost = "SWA_DB_HOST"
	EnvDBUser = "SWA_DB_USER"
	EnvDBName = "SWA_DB_NAME"
)

var componentDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
