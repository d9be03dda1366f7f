package env

import (
	"context"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	Host         string        `env:"DOIP_HOST"`
	Port         int           `env:"DOIP_PORT,default=55957"`
	QueryTimeout time.Duration `env:"DOIP_QUERY_TIMEOUT,default=4s"`
	DebugHTTP    bool          `env:"DOIP_DEBUG_HTTP"`
}

func LoadConfig(ctx context.Context) (*Config, error) {
	config := Config{}

	if err := godotenv.Load(".env.local"); err != nil {
		if !os.IsNotExist(err) {
			panic(err)
		}
	}

	if err := envconfig.Process(ctx, &config); err != nil {
		return nil, err
	}

	return &config, nil
}
