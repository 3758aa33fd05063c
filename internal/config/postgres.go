package config

import "os"

type PostgresConfig struct {
	Url string
}

func NewPostgresConfig() *PostgresConfig {
	return &PostgresConfig{
		Url: os.Getenv("DATABASE_URL"),
	}
}

func (c *PostgresConfig) Enabled() bool {
	return c.Url != ""
}
