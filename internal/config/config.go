// Package config содержит логику чтения конфигурации сервиса сводки заказов.
package config

import (
	"flag"
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

const (
	defaultRunAddress       = "localhost:8080"
	defaultOrdersAPIAddress = "https://kata-espublicotech.g3stiona.com/v1"
	defaultOrdersAPITimeout = 10 * time.Second
)

// Config содержит параметры конфигурации сервиса сводки заказов.
// Пустой DatabaseURI означает хранение заказов в памяти процесса.
type Config struct {
	RunAddress       string        `env:"RUN_ADDRESS"`
	DatabaseURI      string        `env:"DATABASE_URI"`
	OrdersAPIAddress string        `env:"ORDERS_API_ADDRESS"`
	OrdersAPITimeout time.Duration `env:"ORDERS_API_TIMEOUT"`
}

// Parse считывает конфигурацию из флагов командной строки и переменных окружения.
// Переменные окружения имеют приоритет над флагами.
func Parse() (*Config, error) {
	cfg := &Config{}

	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	envRunAddress := cfg.RunAddress
	envDatabaseURI := cfg.DatabaseURI
	envOrdersAPIAddress := cfg.OrdersAPIAddress
	envOrdersAPITimeout := cfg.OrdersAPITimeout

	flag.StringVar(&cfg.RunAddress, "a", defaultRunAddress, "address and port for HTTP server")
	flag.StringVar(&cfg.DatabaseURI, "d", "", "database URI, in-memory store when empty")
	flag.StringVar(&cfg.OrdersAPIAddress, "r", defaultOrdersAPIAddress, "remote orders API base URL")
	flag.DurationVar(&cfg.OrdersAPITimeout, "t", defaultOrdersAPITimeout, "remote orders API request timeout")

	flag.Parse()

	if envRunAddress != "" {
		cfg.RunAddress = envRunAddress
	}
	if envDatabaseURI != "" {
		cfg.DatabaseURI = envDatabaseURI
	}
	if envOrdersAPIAddress != "" {
		cfg.OrdersAPIAddress = envOrdersAPIAddress
	}
	if envOrdersAPITimeout != 0 {
		cfg.OrdersAPITimeout = envOrdersAPITimeout
	}

	if cfg.RunAddress == "" {
		cfg.RunAddress = defaultRunAddress
	}
	if cfg.OrdersAPIAddress == "" {
		cfg.OrdersAPIAddress = defaultOrdersAPIAddress
	}
	if cfg.OrdersAPITimeout <= 0 {
		cfg.OrdersAPITimeout = defaultOrdersAPITimeout
	}

	return cfg, nil
}
