package config

import (
	"fmt"

	"github.com/Netflix/go-env"
)

type Config struct {
	DatabaseDSN       string `env:"DATABASE_DSN,required=true"`
	RabbitMQURL       string `env:"RABBITMQ_URL,required=true"`
	RedisURL          string `env:"REDIS_URL,required=true"`
	FCMServerKey      string `env:"FCM_SERVER_KEY,required=true"`
	FCMEndpoint       string `env:"FCM_ENDPOINT,default=https://fcm.googleapis.com/fcm/send"`
	NotificationIcon  string `env:"NOTIFICATION_ICON,default=/images/touch/chrome-touch-icon-192x192.png"`
	WorkerConcurrency int    `env:"WORKER_CONCURRENCY,default=4"`
	APIPort           int    `env:"API_PORT,default=8080"`
	WorkerPort        int    `env:"WORKER_PORT,default=8081"`
	LogLevel          string `env:"LOG_LEVEL,default=info"`
}

func Load() (*Config, error) {
	var cfg Config
	_, err := env.UnmarshalFromEnviron(&cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return &cfg, nil
}
