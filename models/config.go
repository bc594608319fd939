package models

type Config struct {
	Debug bool `yaml:"debug" envconfig:"VITIGEN_DEBUG"`
	Api   struct {
		Port                           string `yaml:"port" envconfig:"VITIGEN_API_INTERNAL_PORT"`
		Url                            string `yaml:"url" envconfig:"VITIGEN_API_URL"`
		UploadPath                     string `yaml:"uploadPath" envconfig:"VITIGEN_API_UPLOAD_PATH"`
		IngestionBatchSize             int    `yaml:"ingestionBatchSize" envconfig:"VITIGEN_API_INGESTION_BATCH_SIZE" default:"1000"`
		FileProcessingConcurrencyLevel int    `yaml:"fileProcessingConcurrencyLevel" envconfig:"VITIGEN_API_FILE_PROCESSING_CONCURRENCY_LEVEL" default:"2"`
		SearchTimeoutSeconds           int    `yaml:"searchTimeoutSeconds" envconfig:"VITIGEN_API_SEARCH_TIMEOUT_SECONDS" default:"30"`
	} `yaml:"api"`
	Mongo struct {
		Url         string `yaml:"url" envconfig:"VITIGEN_MONGO_URL"`
		Database    string `yaml:"database" envconfig:"VITIGEN_MONGO_DATABASE"`
		MaxPoolSize uint64 `yaml:"maxPoolSize" envconfig:"VITIGEN_MONGO_MAX_POOL_SIZE" default:"100"`
	} `yaml:"mongo"`
	AuthX struct {
		IsAuthenticationEnabled bool   `yaml:"enabled" envconfig:"VITIGEN_AUTHN_ENABLED"`
		IdentityServiceUrl      string `yaml:"identityServiceUrl" envconfig:"VITIGEN_AUTHN_IDENTITY_URL"`
	} `yaml:"authx"`
	Notifier struct {
		Url         string `yaml:"url" envconfig:"VITIGEN_NOTIFIER_URL"`
		ApiKey      string `yaml:"apiKey" envconfig:"VITIGEN_NOTIFIER_API_KEY"`
		SenderEmail string `yaml:"senderEmail" envconfig:"VITIGEN_NOTIFIER_SENDER_EMAIL"`
		SenderName  string `yaml:"senderName" envconfig:"VITIGEN_NOTIFIER_SENDER_NAME"`
	} `yaml:"notifier"`
}
