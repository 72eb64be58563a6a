package config

import (
	"main/utils"
	"time"
)

type ServerConfig struct {
	Port string
	// Every repository call runs under this deadline instead of relying
	// on driver defaults.
	OperationTimeout time.Duration
	MaxBodyBytes     int64
}

func LoadServerConfig() ServerConfig {
	return ServerConfig{
		Port:             utils.GetEnvAsString("PORT", "8080"),
		OperationTimeout: utils.GetEnvAsDuration("OPERATION_TIMEOUT", 10*time.Second),
		MaxBodyBytes:     int64(utils.GetEnvAsInt("MAX_BODY_BYTES", 1<<20)),
	}
}

type CacheConfig struct {
	RedisURL string
	TaskTTL  time.Duration
}

func LoadCacheConfig() CacheConfig {
	return CacheConfig{
		RedisURL: utils.GetEnvAsString("REDIS_URL", "redis://localhost:6379/0"),
		TaskTTL:  utils.GetEnvAsDuration("TASK_CACHE_TTL", 5*time.Minute),
	}
}

type WorkdayConfig struct {
	// StandardDay is the length of a normal shift; anything worked past
	// it counts as overtime.
	StandardDay time.Duration
}

func LoadWorkdayConfig() WorkdayConfig {
	return WorkdayConfig{
		StandardDay: utils.GetEnvAsDuration("STANDARD_WORKDAY", 8*time.Hour),
	}
}
