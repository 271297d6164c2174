package config

const (
	EnvPrefix = "TOURHUB"

	AppEnvDev  = "dev"
	AppEnvProd = "production"

	EnvAppEnv = "TOURHUB_APP_ENV"
	EnvPort   = "TOURHUB_APP_PORT"

	EnvDBDSN  = "TOURHUB_DB_DSN"
	EnvDBHost = "TOURHUB_DB_HOST"
	EnvDBUser = "TOURHUB_DB_USER"
	EnvDBName = "TOURHUB_DB_NAME"

	EnvRedisURL = "TOURHUB_REDIS_URL"

	EnvJWTSecret  = "TOURHUB_JWT_SECRET"
	EnvJWTIssuer  = "TOURHUB_JWT_ISSUER"
	EnvJWTExpMins = "TOURHUB_JWT_EXPIRATION_MINUTES"
)

var componentDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
