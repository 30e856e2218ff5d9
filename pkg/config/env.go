package config

const EnvPrefix = "STOREFRONT"

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"

	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

const (
	EnvAppEnv          = "STOREFRONT_APP_ENV"
	EnvPort            = "STOREFRONT_APP_PORT"
	EnvDBDSN           = "STOREFRONT_DB_DSN"
	EnvDBHost          = "STOREFRONT_DB_HOST"
	EnvDBUser          = "STOREFRONT_DB_USER"
	EnvDBName          = "STOREFRONT_DB_NAME"
	EnvRedisURL        = "STOREFRONT_REDIS_URL"
	EnvBackendBaseURL  = "STOREFRONT_BACKEND_BASE_URL"
	EnvUseSQLite       = "STOREFRONT_USE_SQLITE"
	EnvDistrictRates   = "STOREFRONT_DELIVERY_DISTRICT_RATES"
	EnvDefaultDelivery = "STOREFRONT_DELIVERY_DEFAULT_FEE"
)

var splitDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
