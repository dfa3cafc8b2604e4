// Package config - jwt.go provides token validation configuration.
package config

import (
	"fmt"
	"os"
)

// JWTConfig holds configuration for validating bearer tokens issued by the
// identity provider. The tracker only verifies tokens, it never mints them.
type JWTConfig struct {
	Secret string
}

// NewJWTConfig reads JWT_SECRET from the environment.
func NewJWTConfig() (*JWTConfig, error) {
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required but not set")
	}
	return &JWTConfig{Secret: secret}, nil
}
