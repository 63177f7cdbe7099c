package settings

// Service identity and request defaults.
const (
	// ServiceName is reported by the info and health endpoints.
	ServiceName = "Calculator API"
	// ServiceVersion is reported by the info and health endpoints.
	ServiceVersion = "2.0.0"
	// DefaultPageLimit is used when a list request omits limit.
	DefaultPageLimit = 100
	// MaxPageLimit caps the number of rows a single list request returns.
	MaxPageLimit = 1000
	// DefaultPort is the HTTP listen port when none is configured.
	DefaultPort = 8318
	// DefaultLoginRateLimit is the per-IP login limit per second (0 means unlimited).
	DefaultLoginRateLimit = 0
	// DefaultCalculatorRateLimit is the per-user calculation limit per second (0 means unlimited).
	DefaultCalculatorRateLimit = 0
	// DefaultRateLimitRedisPrefix is the fallback Redis key prefix.
	DefaultRateLimitRedisPrefix = "calc:rl"
)
