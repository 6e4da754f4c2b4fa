package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Server   ServerConfig
	Postgres PostgresConfig
	Redis    RedisConfig
	Store    StoreConfig
	Limits   LimitsConfig
}

type ServerConfig struct {
	Host string
	Port int
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

type PostgresConfig struct {
	User     string
	Password string
	Name     string
	Host     string
	Port     int
	SSLMode  string
	MaxConns int32
}

// StoreConfig bounds transactional work against the database.
type StoreConfig struct {
	TxTimeout    time.Duration
	FloorPlanTTL time.Duration
	OpenTabTTL   time.Duration
}

// LimitsConfig shapes per-client checkout throughput.
type LimitsConfig struct {
	CheckoutPerMinute int
	IdempotencyTTL    time.Duration
}

func New() (*Config, error) {
	const op = "config.New"

	_ = godotenv.Load()

	serverHost := os.Getenv("SERVER_HOST")
	if serverHost == "" {
		serverHost = "localhost"
	}

	serverPortStr := os.Getenv("SERVER_PORT")
	if serverPortStr == "" {
		serverPortStr = "8080"
	}

	serverPort, err := strconv.Atoi(serverPortStr)
	if err != nil {
		return nil, fmt.Errorf("%s: invalid SERVER_PORT: %w", op, err)
	}

	serverCfg := ServerConfig{
		Host: serverHost,
		Port: serverPort,
	}

	postgresHost := os.Getenv("POSTGRES_HOST")
	if postgresHost == "" {
		postgresHost = "localhost"
	}

	postgresPortStr := os.Getenv("POSTGRES_PORT")
	if postgresPortStr == "" {
		postgresPortStr = "5432"
	}

	postgresPort, err := strconv.Atoi(postgresPortStr)
	if err != nil {
		return nil, fmt.Errorf("%s: invalid POSTGRES_PORT: %w", op, err)
	}

	postgresUser := os.Getenv("POSTGRES_USER")
	if postgresUser == "" {
		return nil, fmt.Errorf("%s: missing POSTGRES_USER", op)
	}

	postgresPassword := os.Getenv("POSTGRES_PASSWORD")
	if postgresPassword == "" {
		return nil, fmt.Errorf("%s: missing POSTGRES_PASSWORD", op)
	}

	postgresDB := os.Getenv("POSTGRES_DB")
	if postgresDB == "" {
		return nil, fmt.Errorf("%s: missing POSTGRES_DB", op)
	}

	postgresSSLMode := os.Getenv("POSTGRES_SSLMODE")
	if postgresSSLMode == "" {
		postgresSSLMode = "disable"
	}

	maxConnsStr := os.Getenv("POSTGRES_MAX_CONNS")
	if maxConnsStr == "" {
		maxConnsStr = "10"
	}

	maxConns, err := strconv.Atoi(maxConnsStr)
	if err != nil {
		return nil, fmt.Errorf("%s: invalid POSTGRES_MAX_CONNS: %w", op, err)
	}

	postgresCfg := PostgresConfig{
		User:     postgresUser,
		Password: postgresPassword,
		Name:     postgresDB,
		Host:     postgresHost,
		Port:     postgresPort,
		SSLMode:  postgresSSLMode,
		MaxConns: int32(maxConns),
	}

	redisAddr := os.Getenv("REDIS_ADDR")
	if redisAddr == "" {
		redisAddr = "localhost:6379"
	}

	redisCfg := RedisConfig{
		Addr:     redisAddr,
		Password: os.Getenv("REDIS_PASSWORD"),
		DB:       0,
	}

	txTimeout, err := durationEnv("STORE_TX_TIMEOUT", 10*time.Second)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	floorPlanTTL, err := durationEnv("CACHE_FLOOR_PLAN_TTL", 5*time.Second)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	openTabTTL, err := durationEnv("CACHE_OPEN_TAB_TTL", 3*time.Second)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	storeCfg := StoreConfig{
		TxTimeout:    txTimeout,
		FloorPlanTTL: floorPlanTTL,
		OpenTabTTL:   openTabTTL,
	}

	checkoutPerMinuteStr := os.Getenv("CHECKOUT_PER_MINUTE")
	if checkoutPerMinuteStr == "" {
		checkoutPerMinuteStr = "30"
	}

	checkoutPerMinute, err := strconv.Atoi(checkoutPerMinuteStr)
	if err != nil {
		return nil, fmt.Errorf("%s: invalid CHECKOUT_PER_MINUTE: %w", op, err)
	}

	idemTTL, err := durationEnv("IDEMPOTENCY_TTL", 2*time.Hour)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	limitsCfg := LimitsConfig{
		CheckoutPerMinute: checkoutPerMinute,
		IdempotencyTTL:    idemTTL,
	}

	return &Config{
		Server:   serverCfg,
		Postgres: postgresCfg,
		Redis:    redisCfg,
		Store:    storeCfg,
		Limits:   limitsCfg,
	}, nil
}

func durationEnv(name string, def time.Duration) (time.Duration, error) {
	s := os.Getenv(name)
	if s == "" {
		return def, nil
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", name, err)
	}
	return d, nil
}
