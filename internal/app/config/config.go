package config

import (
	"jaspel-service/internal/pkg/constvars"
	"jaspel-service/internal/pkg/utils"

	"github.com/joho/godotenv"
)

func init() {
	godotenv.Load()
}

func NewDriverConfig() *DriverConfig {
	return &DriverConfig{
		MongoDB: MongoDB{
			Port:     utils.GetEnvString("MONGODB_PORT", "27017"),
			Host:     utils.GetEnvString("MONGODB_HOST", "localhost"),
			DbName:   utils.GetEnvString("MONGODB_DB_NAME", "jaspel"),
			Username: utils.GetEnvString("MONGODB_USERNAME", "defaultUsername"),
			Password: utils.GetEnvString("MONGODB_PASSWORD", "defaultPassword"),
		},
		Redis: Redis{
			Host:     utils.GetEnvString("REDIS_HOST", "localhost"),
			Port:     utils.GetEnvString("REDIS_PORT", "6379"),
			Password: utils.GetEnvString("REDIS_PASSWORD", ""),
		},
		Logger: Logger{
			Level:               utils.GetEnvString("LOGGER_LEVEL", "debug"),
			OutputFileName:      utils.GetEnvString("LOGGER_OUTPUT_FILENAME", "logger.log"),
			OutputErrorFileName: utils.GetEnvString("LOGGER_OUTPUT_ERROR_FILENAME", "logger_error.log"),
		},
		RabbitMQ: RabbitMQ{
			Port:     utils.GetEnvString("RABBITMQ_PORT", "5672"),
			Host:     utils.GetEnvString("RABBITMQ_HOST", "localhost"),
			Username: utils.GetEnvString("RABBITMQ_USERNAME", "defaultUsername"),
			Password: utils.GetEnvString("RABBITMQ_PASSWORD", "defaultPassword"),
		},
		Minio: Minio{
			Port:     utils.GetEnvString("MINIO_PORT", "9000"),
			Host:     utils.GetEnvString("MINIO_HOST", "localhost"),
			Username: utils.GetEnvString("MINIO_USERNAME", "defaultUsername"),
			Password: utils.GetEnvString("MINIO_PASSWORD", "defaultPassword"),
			UseSSL:   utils.GetEnvBool("MINIO_USE_SSL", false),
		},
	}
}

func NewInternalConfig() *InternalConfig {
	return &InternalConfig{
		App: App{
			Env:                      utils.GetEnvString("APP_ENV", constvars.AppEnvDevelopment),
			Port:                     utils.GetEnvString("APP_PORT", ":8080"),
			Version:                  utils.GetEnvString("APP_VERSION", "v1"),
			Address:                  utils.GetEnvString("APP_ADDRESS", "localhost"),
			Timezone:                 utils.GetEnvString("APP_TIMEZONE", "Asia/Jakarta"),
			EndpointPrefix:           utils.GetEnvString("APP_ENDPOINT_PREFIX", "api"),
			MaxRequests:              utils.GetEnvInt("APP_MAX_REQUESTS", 10),
			ShutdownTimeoutInSeconds: utils.GetEnvInt("APP_SHUTDOWN_TIMEOUT_IN_SECONDS", 10),
		},
		JWT: JWT{
			Secret: utils.GetEnvString("JWT_SECRET", "anyjwt"),
		},
		Jaspel: Jaspel{
			NominalCeiling:                utils.GetEnvInt64("JASPEL_NOMINAL_CEILING", constvars.DefaultNominalCeiling),
			AggregateCacheTTLInMinutes:    utils.GetEnvInt("JASPEL_AGGREGATE_CACHE_TTL_IN_MINUTES", 60),
			SettlementMaxAttempts:         utils.GetEnvInt("JASPEL_SETTLEMENT_MAX_ATTEMPTS", 3),
			SettlementJobTimeoutInSeconds: utils.GetEnvInt("JASPEL_SETTLEMENT_JOB_TIMEOUT_IN_SECONDS", 180),
			SettlementMaxQueue:            utils.GetEnvInt("JASPEL_SETTLEMENT_MAX_QUEUE", 10),
			SettlementFormulaClock:        utils.GetEnvString("JASPEL_SETTLEMENT_FORMULA_CLOCK", constvars.SettlementFormulaClockNow),
		},
		RabbitMQ: AppRabbitMQ{
			SettlementQueue:   utils.GetEnvString("APP_RABBITMQ_SETTLEMENT_QUEUE", "daily_settlement_queue"),
			SettlementDLQ:     utils.GetEnvString("APP_RABBITMQ_SETTLEMENT_DLQ", "daily_settlement_dlq"),
			NotificationQueue: utils.GetEnvString("APP_RABBITMQ_NOTIFICATION_QUEUE", "jaspel_notification_queue"),
		},
		Minio: AppMinio{
			ReconciliationBucket: utils.GetEnvString("APP_MINIO_RECONCILIATION_BUCKET", "jaspel-reconciliation"),
		},
	}
}
