package config

const (
	EnvPrefix = "BAZAARGO"

	AppEnvDev  = "development"
	AppEnvProd = "production"

	DBDriverSQLite   = "sqlite"
	DBDriverPostgres = "postgres"

	EnvAppEnv          = "BAZAARGO_APP_ENV"
	EnvPort            = "BAZAARGO_APP_PORT"
	EnvDBDSN           = "BAZAARGO_DB_DSN"
	EnvUpstreamBaseURL = "BAZAARGO_UPSTREAM_BASE_URL"
	EnvJWTSecret       = "BAZAARGO_JWT_SECRET"
	EnvJWTIssuer       = "BAZAARGO_JWT_ISSUER"
)
