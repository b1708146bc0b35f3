package logger

import (
	"context"
	"log/slog"
	"os"
	"runtime"
	"strings"
	"sync"

	"github.com/m3rciful/fishbot/core/buildinfo"
	coreconfig "github.com/m3rciful/fishbot/core/config"
)

var (
	initOnce sync.Once

	levelVar slog.LevelVar

	// L is the base logger exposed for compatibility while migrating to context-first logging.
	L *slog.Logger

	// TG logs Telegram transport events.
	TG *slog.Logger
	// Shop logs commerce API client activity.
	Shop *slog.Logger
	// Session logs session store activity.
	Session *slog.Logger
	// FSM logs conversation state machine transitions.
	FSM *slog.Logger
)

func init() {
	// Keep package-level loggers usable before InitLogger runs (tests, tools).
	wireComponents(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: &levelVar})))
}

// InitLogger configures the global structured logger. It may be called only once.
func InitLogger(cfg *coreconfig.Config) error {
	initOnce.Do(func() {
		levelVar.Set(selectLevel(cfg))

		opts := &slog.HandlerOptions{Level: &levelVar}
		var handler slog.Handler
		if selectFormat(cfg) == "json" {
			handler = slog.NewJSONHandler(os.Stdout, opts)
		} else {
			handler = slog.NewTextHandler(os.Stdout, opts)
		}

		logger := slog.New(contextHandler{handler})
		slog.SetDefault(logger)
		wireComponents(logger)
		logStartup(cfg)
	})
	return nil
}

// Shutdown flushes buffered log output. Stock slog handlers write
// synchronously, so this only exists to keep the shutdown path uniform.
func Shutdown() error { return nil }

// Component returns a logger tagged with the given component name.
func Component(name string) *slog.Logger {
	return L.With("component", name)
}

func wireComponents(base *slog.Logger) {
	L = base
	TG = base.With("component", "tg")
	Shop = base.With("component", "shop")
	Session = base.With("component", "session")
	FSM = base.With("component", "fsm")
}

func logStartup(cfg *coreconfig.Config) {
	attrs := []slog.Attr{
		slog.String("component", "app"),
		slog.String("event", "startup"),
		slog.String("go_version", runtime.Version()),
		slog.String("build_commit", buildinfo.Commit),
		slog.String("build_time", buildinfo.Date),
	}
	if cfg != nil {
		attrs = append(attrs, slog.String("cfg_profile", cfg.Logging.Profile))
	}
	L.LogAttrs(context.Background(), slog.LevelInfo, "startup", attrs...)
}

func selectFormat(cfg *coreconfig.Config) string {
	if cfg == nil {
		return "json"
	}
	raw := strings.ToLower(strings.TrimSpace(cfg.Logging.Format))
	switch raw {
	case "kv", "text", "pretty":
		return "text"
	case "json":
		return "json"
	}
	// Prefer human-friendly format when profile indicates debug/dev mode.
	if strings.EqualFold(cfg.Logging.Profile, "debug") || strings.EqualFold(cfg.Logging.Profile, "dev") {
		return "text"
	}
	return "json"
}

func selectLevel(cfg *coreconfig.Config) slog.Level {
	if cfg == nil {
		return slog.LevelInfo
	}
	switch strings.ToLower(strings.TrimSpace(cfg.Logging.Level)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// contextHandler enriches records with correlation metadata carried in context.
type contextHandler struct {
	slog.Handler
}

func (h contextHandler) Handle(ctx context.Context, rec slog.Record) error {
	if rid := RIDFrom(ctx); rid != "" {
		rec.AddAttrs(slog.String("rid", rid))
	}
	if handler := HandlerFrom(ctx); handler != "" {
		rec.AddAttrs(slog.String("handler", handler))
	}
	return h.Handler.Handle(ctx, rec)
}

func (h contextHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return contextHandler{h.Handler.WithAttrs(attrs)}
}

func (h contextHandler) WithGroup(name string) slog.Handler {
	return contextHandler{h.Handler.WithGroup(name)}
}
