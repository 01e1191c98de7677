package main

import (
	"fmt"

	"github.com/kelseyhightower/envconfig"
)

const envPrefix = "GBMCP"

type Config struct {
	BoardAddr string `envconfig:"BOARD_ADDR" default:"http://localhost:3200"`
	APIKey    string `envconfig:"API_KEY" required:"true"`
}

func NewConfig() (*Config, error) {
	c := &Config{}
	err := envconfig.Process(envPrefix, c)
	if err != nil {
		return nil, fmt.Errorf("failed to parse environment variables: %w", err)
	}
	return c, nil
}
