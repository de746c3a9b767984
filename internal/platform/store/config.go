package store

import "time"

// Config enables and configures each backend
type Config struct {
	PG    PGConfig
	CH    CHConfig
	Redis RedisConfig
}

// PGConfig configures the Postgres pool
type PGConfig struct {
	Enabled     bool
	URL         string
	MaxConns    int32
	LogSQL      bool
	SlowQueryMs int

	// ConnectRetries bounds the startup ping loop, 20 when zero
	ConnectRetries int
	// PingTimeout bounds each startup ping, 3s when zero
	PingTimeout time.Duration
}

// CHConfig configures ClickHouse
type CHConfig struct {
	Enabled bool
	URL     string
	// Role tags the connection in system.query_log, e.g. "api"
	Role string
}

// RedisConfig configures Redis
type RedisConfig struct {
	Enabled  bool
	Addr     string
	Password string
	DB       int
}
