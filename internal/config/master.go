package config

import (
	"os"
	"strconv"
)

type AppConfig struct {
	DebugMode      bool
	LogLevel       string
	HttpPort       int
	RunSvcCfg      *RunSvcCfg
	ExecutorConfig *ExecutorConfig
	RedisConfig    *RedisConfig
	PostgresConfig *PostgresConfig
	JwtConfig      *JwtConfig
}

func NewSystemConfig() *AppConfig {
	port, err := strconv.Atoi(os.Getenv("HTTP_PORT"))
	if err != nil || port <= 0 {
		port = 8082
	}
	return &AppConfig{
		DebugMode:      os.Getenv("DEBUG_MODE") == "true",
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		HttpPort:       port,
		RunSvcCfg:      NewRunSvcCfg(),
		ExecutorConfig: NewExecutorConfig(),
		RedisConfig:    NewRedisConfig(),
		PostgresConfig: NewPostgresConfig(),
		JwtConfig:      NewJwtConfig(),
	}
}
