package config

type (
	InternalConfig struct {
		App      App
		JWT      JWT
		Jaspel   Jaspel
		RabbitMQ AppRabbitMQ
		Minio    AppMinio
	}

	DriverConfig struct {
		MongoDB  MongoDB
		Redis    Redis
		Logger   Logger
		RabbitMQ RabbitMQ
		Minio    Minio
	}

	App struct {
		Env                      string
		Port                     string
		Version                  string
		Address                  string
		Timezone                 string
		EndpointPrefix           string
		MaxRequests              int
		ShutdownTimeoutInSeconds int
	}

	JWT struct {
		Secret string
	}

	// Jaspel groups the fee-settlement engine tunables.
	Jaspel struct {
		// NominalCeiling is the upper bound the integrity guard accepts
		// for a single fee record, in whole rupiah.
		NominalCeiling int64
		// AggregateCacheTTLInMinutes bounds the advisory aggregate
		// counters kept in redis.
		AggregateCacheTTLInMinutes int
		// SettlementMaxAttempts is the retry budget before a settlement
		// job is dead-lettered for manual follow-up.
		SettlementMaxAttempts int
		// SettlementJobTimeoutInSeconds caps a single settlement attempt.
		SettlementJobTimeoutInSeconds int
		// SettlementMaxQueue is how many queued jobs one worker tick
		// drains.
		SettlementMaxQueue int
		// SettlementFormulaClock selects whether formula lookup during
		// batch settlement uses the wall clock ("now", historical
		// behavior) or the patient count's own date ("record").
		SettlementFormulaClock string
	}

	AppRabbitMQ struct {
		SettlementQueue    string
		SettlementDLQ      string
		NotificationQueue string
	}

	AppMinio struct {
		ReconciliationBucket string
	}

	MongoDB struct {
		Port     string
		Host     string
		DbName   string
		Username string
		Password string
	}
	Redis struct {
		Host     string
		Port     string
		Password string
	}
	Logger struct {
		Level               string
		OutputFileName      string
		OutputErrorFileName string
	}
	RabbitMQ struct {
		Port     string
		Host     string
		Username string
		Password string
	}
	Minio struct {
		Port     string
		Host     string
		Username string
		Password string
		UseSSL   bool
	}
)
