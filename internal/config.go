package internal

type (
	ServiceConfig struct {
		Port          string `yaml:"port" env:"PORT" env-default:"8000"`
		MaxFileSizeMB int    `yaml:"max_file_size_mb" env:"MAX_FILE_SIZE_MB" env-default:"10"`
		MaxBatchSize  int    `yaml:"max_batch_size" env:"MAX_BATCH_SIZE" env-default:"3"`
	}

	ClientConfig struct {
		BaseURL string `yaml:"base_url" env:"CAPTION_API_URL" env-default:"http://localhost:8000"`
	}

	AppConfig struct {
		Service ServiceConfig `yaml:"service"`
		Client  ClientConfig  `yaml:"client"`
	}
)
