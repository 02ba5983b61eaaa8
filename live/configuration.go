package live

import (
	"time"

	"github.com/alexedwards/scs/v2"
	"github.com/rs/zerolog"
)

func ptr(l zerolog.Level) *zerolog.Level { return &l }

var (
	LogLevelDebug = ptr(zerolog.DebugLevel)
	LogLevelInfo  = ptr(zerolog.InfoLevel)
	LogLevelWarn  = ptr(zerolog.WarnLevel)
	LogLevelError = ptr(zerolog.ErrorLevel)
)

// Plugin is a func that can mutate the given *App runtime, e.g. to serve assets
// and add them to the document head.
type Plugin func(a *App)

// Options defines configuration options for the application
type Options struct {
	// DevMode switches logging to the human readable console writer.
	DevMode bool

	// The http server address. e.g. ':3000'
	ServerAddress string

	// LogLevel sets the minimum log level. nil keeps the default (Info).
	LogLevel *zerolog.Level

	// Logger overrides the default logger entirely. When set, LogLevel and
	// DevMode have no effect on logging.
	Logger *zerolog.Logger

	// The title of the HTML document.
	DocumentTitle string

	// The meta description of the HTML document.
	DocumentDescription string

	// Plugins to extend the capabilities of the application.
	Plugins []Plugin

	// SessionManager enables cookie-based sessions. If set, handlers are wrapped
	// with scs LoadAndSave middleware.
	SessionManager *scs.SessionManager

	// DatastarContent is a self-hosted Datastar.js bundle. If nil, the CDN build is used.
	DatastarContent []byte

	// DatastarPath is the URL path where the script is served.
	DatastarPath string

	// PubSub enables publish/subscribe messaging. Use livenats.New() for an
	// embedded NATS backend, or supply any PubSub implementation.
	PubSub PubSub

	// ContextTTL is how long a view may live without an SSE connection before it is
	// reaped. Zero means 30s, negative disables reaping.
	ContextTTL time.Duration

	// ActionRateLimit is the bucket shared by all actions of one view. Zero fields mean
	// 10 calls per second with a burst of 20.
	ActionRateLimit RateLimitConfig
}
