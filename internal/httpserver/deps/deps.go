package deps

import (
	"time"

	"github.com/MrSnakeDoc/webring/internal/bootstrap"
	"github.com/MrSnakeDoc/webring/internal/index"
	"github.com/MrSnakeDoc/webring/internal/logger"
	redisstore "github.com/MrSnakeDoc/webring/internal/store/redis"
)

type Deps struct {
	Logger            logger.Logger
	StartTime         time.Time
	Version           string
	Commit            string
	BuildDate         string
	GoVersion         string
	AllowedHosts      []string                // Host headers allowed on operator endpoints
	AllowedCIDRS      []string                // IPs allowed to access infra endpoints
	TrustProxy        bool                    // true if running behind a trusted reverse proxy (e.g., cloudflared)
	CORSOrigins       []string                // origins allowed to fetch widget fragments
	RateLimitBurst    int                     // widget requests burst per client IP
	RateLimitPerMin   int                     // widget requests refill per client IP per minute
	MaxPageBytes      int64                   // upper bound for POST /embed bodies
	DefaultDataSource string                  // data source used when a widget sets none
	Booter            *bootstrap.Bootstrapper // runs the widget pipeline on a page
	Presets           *index.MemoryIndex      // nil when presets are disabled
	Stats             *redisstore.Store       // nil when impression stats are disabled
	ReloadTrigger     chan struct{}           // nil when presets are disabled
}
