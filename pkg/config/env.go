package config

// EnvPrefix is empty because every field carries its fully qualified variable name.
const EnvPrefix = ""

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"

	BasketBackendRedis    = "redis"
	BasketBackendPostgres = "postgres"

	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

const (
	EnvAppEnv  = "STOREFRONT_APP_ENV"
	EnvPort    = "STOREFRONT_APP_PORT"
	EnvBaseURL = "STOREFRONT_BASE_URL"

	EnvDBDSN  = "STOREFRONT_DB_DSN"
	EnvDBHost = "STOREFRONT_DB_HOST"
	EnvDBUser = "STOREFRONT_DB_USER"
	EnvDBName = "STOREFRONT_DB_NAME"

	EnvRedisURL = "STOREFRONT_REDIS_URL"

	EnvIdentitySecret = "STOREFRONT_IDENTITY_JWT_SECRET"
	EnvIdentityIssuer = "STOREFRONT_IDENTITY_ISSUER"
	EnvAdminEmails    = "STOREFRONT_ADMIN_EMAILS"

	EnvStripeAPIKey = "STOREFRONT_STRIPE_API_KEY"

	EnvBasketBackend = "STOREFRONT_BASKET_BACKEND"
	EnvUseSQLite     = "STOREFRONT_USE_SQLITE"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
