package config

import (
	"os"
	"strconv"
)

type RedisConfig struct {
	Enabled  bool
	DB       int
	Url      string
	Password string
}

func NewRedisConfig() *RedisConfig {
	db, err := strconv.Atoi(os.Getenv("REDIS_DB"))
	if err != nil {
		db = 0
	}
	return &RedisConfig{
		Enabled:  os.Getenv("REDIS_ENABLED") == "true",
		DB:       db,
		Url:      getEnv("REDIS_ADDR", "localhost:6379"),
		Password: os.Getenv("REDIS_PASSWORD"),
	}
}
