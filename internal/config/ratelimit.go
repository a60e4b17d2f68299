package config

import "time"

// RateLimitConfig describes one token-bucket profile. Two profiles exist:
// a general API ceiling and a much tighter one for the auth endpoints.
type RateLimitConfig struct {
	Enabled        bool
	Capacity       int           // bucket size (burst)
	RefillTokens   int           // tokens added per interval
	RefillInterval time.Duration // refill cadence
	TTL            time.Duration // idle bucket expiry in redis
	Prefix         string        // redis key prefix, also separates profiles
}

// LoadAPIRateLimit returns the general API profile: 400 requests per
// 15 minutes per client IP by default.
func LoadAPIRateLimit() RateLimitConfig {
	return loadRateLimit("RATE_LIMIT_API", RateLimitConfig{
		Enabled:        true,
		Capacity:       400,
		RefillTokens:   400,
		RefillInterval: 15 * time.Minute,
		TTL:            time.Hour,
		Prefix:         "rl:api",
	})
}

// LoadAuthRateLimit returns the auth endpoint profile: 12 requests per
// 15 minutes per client IP by default.
func LoadAuthRateLimit() RateLimitConfig {
	return loadRateLimit("RATE_LIMIT_AUTH", RateLimitConfig{
		Enabled:        true,
		Capacity:       12,
		RefillTokens:   12,
		RefillInterval: 15 * time.Minute,
		TTL:            time.Hour,
		Prefix:         "rl:auth",
	})
}

func loadRateLimit(prefix string, def RateLimitConfig) RateLimitConfig {
	cfg := RateLimitConfig{
		Enabled:        envBool(prefix+"_ENABLED", def.Enabled),
		Capacity:       envInt(prefix+"_CAPACITY", def.Capacity),
		RefillTokens:   envInt(prefix+"_REFILL_TOKENS", def.RefillTokens),
		RefillInterval: envDur(prefix+"_REFILL_INTERVAL", def.RefillInterval),
		TTL:            envDur(prefix+"_TTL", def.TTL),
		Prefix:         def.Prefix,
	}
	if cfg.Capacity < 1 {
		cfg.Capacity = 1
	}
	if cfg.RefillTokens < 1 {
		cfg.RefillTokens = 1
	}
	if cfg.RefillInterval <= 0 {
		cfg.RefillInterval = time.Second
	}
	if cfg.TTL < 2*cfg.RefillInterval {
		cfg.TTL = 2 * cfg.RefillInterval
	}
	return cfg
}
