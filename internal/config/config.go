package config

import (
	"fmt"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

type Config struct {
	MySQL     MySQL
	Redis     Redis
	Inventory Inventory
	Order     Order
}

type MySQL struct {
	DSN             string        `env:"MYSQL_DSN" env-default:"root:root@tcp(localhost:3306)/stockreserve?parseTime=true"`
	MaxOpenConns    int           `env:"MYSQL_MAX_OPEN_CONNS" env-default:"50"`
	MaxIdleConns    int           `env:"MYSQL_MAX_IDLE_CONNS" env-default:"25"`
	ConnMaxLifetime time.Duration `env:"MYSQL_CONN_MAX_LIFETIME" env-default:"5m"`
}

type Redis struct {
	Addr     string `env:"REDIS_ADDR" env-default:"localhost:6379"`
	PoolSize int    `env:"REDIS_POOL_SIZE" env-default:"100"`
}

type Inventory struct {
	Addr string `env:"INVENTORY_ADDR" env-default:":8081"`
}

type Order struct {
	Addr             string        `env:"ORDER_ADDR" env-default:":8080"`
	InventoryURL     string        `env:"INVENTORY_URL" env-default:"http://localhost:8081"`
	InventoryTimeout time.Duration `env:"INVENTORY_TIMEOUT" env-default:"5s"`
	AuthToken        string        `env:"ORDER_AUTH_TOKEN" env-default:"valid-token"`
	ShutdownTimeout  time.Duration `env:"SHUTDOWN_TIMEOUT" env-default:"5s"`
}

// Load reads configuration from the environment, with an optional .env file
// for local development.
func Load() (*Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("read env: %w", err)
	}
	return &cfg, nil
}
