package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	ListenPort      string        // ex: ":8080"
	ShutdownTimeout time.Duration // ex: 5s
	RequestTimeout  time.Duration // per-request deadline, also bounds upstream fetches

	LogLevel  string // "debug" | "info" | "warn" | "error"
	PrettyLog bool   // true => zap dev (color), false => zap prod (JSON)

	DefaultDataSource string        // base URL used when a widget has no data-source
	PresetsFile       string        // path to presets.yaml (optional, empty = presets disabled)
	ReloadInterval    time.Duration // interval to reload presets.yaml (default: 1h)
	WatchPresets      bool          // reload presets on file change
	UpstreamRPS       float64       // outbound requests per second to data sources (0 = unlimited)
	UpstreamBurst     int           // outbound burst
	UpstreamUserAgent string        // User-Agent sent to data sources (empty = built-in)
	AllowedSources    []string      // http(s) prefixes request attributes may point at (default: DefaultDataSource)

	// Redis (optional, empty addr = impression stats disabled)
	RedisAddr           string        // ex: "localhost:6379"
	RedisUser           string        // optional
	RedisPassword       string        // optional
	RedisDB             int           // Redis DB number
	RedisDT             time.Duration // Redis dial timeout (ex: 5s)
	RedisRT             time.Duration // Redis read timeout (ex: 3s)
	RedisWT             time.Duration // Redis write timeout (ex: 3s)
	RedisMaxWait        time.Duration // max wait between retries (ex: 10s)
	RedisPingTimeout    time.Duration // timeout for each ping attempt (ex: 5s)
	RedisPoolSize       int           // Redis connection pool size
	RedisConnectTimeout time.Duration // Total time to retry connecting (ex: 30s)
	RedisRetryInterval  time.Duration // Initial wait between retries (ex: 2s, grows exponentially)
	RedisWarnThreshold  int           // warn after this many attempts

	AllowedCIDRS []string // optional, restrict infra endpoints to specific IPs/CIDRs
	AllowedHosts []string // optional, Host headers accepted on /reload and /stats
	TrustProxy   bool     // true => trust X-Forwarded-For headers (e.g. cloudflared)
	CORSOrigins  []string // origins allowed to fetch widget fragments ("*" = any)

	RateLimitBurst  int // inbound widget requests burst per client IP
	RateLimitPerMin int // inbound widget requests refill per client IP per minute
	MaxPageBytes    int // POST /embed body cap in bytes
}

func Load() *Config {
	cfg := &Config{
		// Server settings
		ListenPort:      getenv("WEBRING_LISTEN_PORT", ":8080"),
		ShutdownTimeout: mustDuration("WEBRING_SHUTDOWN_TIMEOUT", 5*time.Second),
		RequestTimeout:  mustDuration("WEBRING_REQUEST_TIMEOUT", 10*time.Second),

		// Logging
		LogLevel:  getenv("WEBRING_LOG_LEVEL", "info"),
		PrettyLog: mustBool("WEBRING_PRETTY_LOG", true),

		// Widget data
		DefaultDataSource: normalizeBaseURL(getenv("WEBRING_DEFAULT_SOURCE", "https://saturn91.github.io/saturn91-webring-data/public/")),
		PresetsFile:       getenv("WEBRING_PRESETS_FILE", ""), // Optional, empty = presets disabled
		ReloadInterval:    mustDuration("WEBRING_RELOAD_INTERVAL", time.Hour),
		WatchPresets:      mustBool("WEBRING_WATCH_PRESETS", true),
		UpstreamRPS:       getenvFloat("WEBRING_UPSTREAM_RPS", 5),
		UpstreamBurst:     getenvInt("WEBRING_UPSTREAM_BURST", 10),
		UpstreamUserAgent: getenv("WEBRING_UPSTREAM_USER_AGENT", ""),
		AllowedSources:    splitAndTrim(getenv("WEBRING_ALLOWED_SOURCES", "")),

		// Redis settings
		RedisAddr:           getenv("WEBRING_REDIS_ADDR", ""),
		RedisUser:           getenv("WEBRING_REDIS_USERNAME", "default"),
		RedisPassword:       getenv("WEBRING_REDIS_PASSWORD", ""),
		RedisDB:             getenvInt("WEBRING_REDIS_DB", 0),
		RedisDT:             mustDuration("WEBRING_REDIS_DIAL_TIMEOUT", 5*time.Second),
		RedisRT:             mustDuration("WEBRING_REDIS_READ_TIMEOUT", 3*time.Second),
		RedisWT:             mustDuration("WEBRING_REDIS_WRITE_TIMEOUT", 3*time.Second),
		RedisMaxWait:        mustDuration("WEBRING_REDIS_MAX_WAIT", 10*time.Second),
		RedisPingTimeout:    mustDuration("WEBRING_REDIS_PING_TIMEOUT", 5*time.Second),
		RedisPoolSize:       getenvInt("WEBRING_REDIS_POOL_SIZE", 10),
		RedisConnectTimeout: mustDuration("WEBRING_REDIS_CONNECT_TIMEOUT", 30*time.Second),
		RedisRetryInterval:  mustDuration("WEBRING_REDIS_RETRY_INTERVAL", 2*time.Second),
		RedisWarnThreshold:  getenvInt("WEBRING_REDIS_WARN_THRESHOLD", 3),

		// Access restrictions
		AllowedCIDRS: parseAllowedIPs(getenv("WEBRING_ALLOWED_CIDRS", "")),
		AllowedHosts: splitAndTrim(getenv("WEBRING_ALLOWED_HOSTS", "")),
		TrustProxy:   mustBool("WEBRING_TRUST_PROXY", false),
		CORSOrigins:  splitAndTrim(getenv("WEBRING_CORS_ORIGINS", "*")),

		RateLimitBurst:  getenvInt("WEBRING_RATE_LIMIT_BURST", 30),
		RateLimitPerMin: getenvInt("WEBRING_RATE_LIMIT_PER_MIN", 60),
		MaxPageBytes:    getenvInt("WEBRING_MAX_PAGE_BYTES", 2<<20),
	}

	if len(cfg.AllowedSources) == 0 {
		cfg.AllowedSources = []string{cfg.DefaultDataSource}
	}
	for i, src := range cfg.AllowedSources {
		cfg.AllowedSources[i] = normalizeBaseURL(src)
	}

	if cfg.UpstreamRPS < 0 {
		panic(fmt.Sprintf("❌ FATAL: WEBRING_UPSTREAM_RPS must be >= 0, got %v", cfg.UpstreamRPS))
	}

	// Log config only in debug mode with redacted sensitive fields
	if cfg.LogLevel == "debug" {
		cfgCopy := *cfg
		if cfg.RedisPassword != "" {
			cfgCopy.RedisPassword = "***REDACTED***"
		}
		log.Printf("[DEBUG] cfg: %+v\n", cfgCopy)
	}

	return cfg
}

// StatsEnabled reports whether a Redis address was configured.
func (c *Config) StatsEnabled() bool {
	return c.RedisAddr != ""
}

// helpers
func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return def
}

func getenvFloat(key string, def float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return def
}

func mustBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		b, err := strconv.ParseBool(v)
		if err == nil {
			return b
		}
	}
	return def
}

func mustDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}

func parseAllowedIPs(allowed string) []string {
	if allowed == "" {
		return nil
	}
	ips := make([]string, 0, 4)
	for _, ip := range splitAndTrim(allowed) {
		if ip != "" {
			ips = append(ips, ip)
		}
	}
	return ips
}

func splitAndTrim(s string) []string {
	if s == "" {
		return nil
	}
	raw := strings.Split(s, ",")
	parts := make([]string, 0, len(raw))
	for _, part := range raw {
		trimmed := strings.TrimSpace(part)
		// Remove surrounding quotes if present
		trimmed = strings.Trim(trimmed, `"'`)
		if trimmed != "" {
			parts = append(parts, trimmed)
		}
	}
	return parts
}

// normalizeBaseURL makes sure a data source base ends with a slash so that
// "index.json" and "<category>.json" can be appended directly.
func normalizeBaseURL(s string) string {
	s = strings.TrimSpace(s)
	if s == "" || strings.HasSuffix(s, "/") {
		return s
	}
	return s + "/"
}
