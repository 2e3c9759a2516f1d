package config

const (
	EnvPrefix = "STOREFRONT"

	AppEnvDev  = "dev"
	AppEnvProd = "prod"

	EnvAppEnv            = "STOREFRONT_APP_ENV"
	EnvPort              = "STOREFRONT_APP_PORT"
	EnvStateDriver       = "STOREFRONT_STATE_DRIVER"
	EnvStateStrictDecode = "STOREFRONT_STATE_STRICT_DECODE"
	EnvDBDSN             = "STOREFRONT_DB_DSN"
	EnvRedisURL          = "STOREFRONT_REDIS_URL"
	EnvRedisAddr         = "STOREFRONT_REDIS_ADDR"
	EnvCheckoutTaxRate   = "STOREFRONT_CHECKOUT_TAX_RATE"
	EnvCORSOrigins       = "STOREFRONT_CORS_ORIGINS"

	DefaultSQLiteDSN = "file:storefront.db?_busy_timeout=5000"
)
