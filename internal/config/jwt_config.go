package config

import "os"

type JwtConfig struct {
	Secret string
}

func NewJwtConfig() *JwtConfig {
	return &JwtConfig{
		Secret: os.Getenv("JWT_SECRET"),
	}
}

// Enabled reports whether API requests must carry a signed token
func (c *JwtConfig) Enabled() bool {
	return c.Secret != ""
}
