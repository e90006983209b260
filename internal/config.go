package internal

import (
	"fmt"
	"time"

	"github.com/Netflix/go-env"
	"github.com/joho/godotenv"
)

type Config struct {
	LogLevel         string        `env:"LOG_LEVEL,default=INFO"`
	BadgerFilepath   string        `env:"BADGER_FILEPATH,required=true"`
	BlugeFilepath    string        `env:"BLUGE_FILEPATH,required=true"`
	Host             string        `env:"HOST,default=0.0.0.0"`
	Port             int           `env:"PORT,required=true"`
	DebugPort        int           `env:"DEBUG_PORT"`
	BufferSize       int           `env:"BUFFER_SIZE,default=1024"`
	SessionBuffer    int           `env:"SESSION_BUFFER_SIZE,default=64"`
	SinkTimeout      time.Duration `env:"SINK_TIMEOUT,default=2s"`
	RestartInterval  time.Duration `env:"RESTART_INTERVAL,default=1s"`
	ShutdownTimeout  time.Duration `env:"SHUTDOWN_TIMEOUT,default=10s"`
	PageSize         int           `env:"PAGE_SIZE,default=100"`
	MaxContentLength int           `env:"MAX_CONTENT_LENGTH,default=4000"`
	JwtSecret        string        `env:"JWT_SECRET,required=true"`
	JwtIssuer        string        `env:"JWT_ISSUER,default=care-thread"`
	BootstrapAdmin   string        `env:"BOOTSTRAP_ADMIN"`
}

// LoadConfig reads an optional .env file then decodes the environment.
// Variables already set in the environment win over the file.
func LoadConfig(files ...string) (Config, error) {
	var config Config
	if err := godotenv.Load(files...); err != nil && len(files) > 0 {
		return config, fmt.Errorf("env file error: %w", err)
	}
	if _, err := env.UnmarshalFromEnviron(&config); err != nil {
		return config, fmt.Errorf("config error: %w", err)
	}
	if config.PageSize <= 0 {
		return config, fmt.Errorf("PAGE_SIZE must be positive, got %d", config.PageSize)
	}
	if len(config.JwtSecret) < 32 {
		return config, fmt.Errorf("JWT_SECRET must be at least 32 bytes long")
	}
	return config, nil
}
