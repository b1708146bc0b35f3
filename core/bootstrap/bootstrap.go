// Package bootstrap initializes shared infrastructure before the bot starts.
package bootstrap

import (
	"context"
	"fmt"

	coreconfig "github.com/m3rciful/fishbot/core/config"
	"github.com/m3rciful/fishbot/core/logger"
	"github.com/m3rciful/fishbot/core/telegram/state"
)

// Options control the bootstrap pipeline.
type Options struct {
	Config *coreconfig.Config

	LoggerInit      func(*coreconfig.Config) error
	ConnectSessions func(context.Context, coreconfig.RedisConfig) (state.Manager, error)
}

// Result exposes infrastructure initialized by the bootstrap pipeline.
type Result struct {
	Sessions state.Manager
}

// Run initializes the logger and connects to the session store.
func Run(ctx context.Context, opts Options) (*Result, error) {
	if opts.Config == nil {
		return nil, fmt.Errorf("bootstrap: nil config provided")
	}

	loggerInit := opts.LoggerInit
	if loggerInit == nil {
		loggerInit = logger.InitLogger
	}
	if err := loggerInit(opts.Config); err != nil {
		return nil, fmt.Errorf("bootstrap: logger init failed: %w", err)
	}

	connect := opts.ConnectSessions
	if connect == nil {
		connect = state.NewRedisManager
	}
	sessions, err := connect(ctx, opts.Config.Redis)
	if err != nil {
		return nil, fmt.Errorf("bootstrap: session store initialization failed: %w", err)
	}

	return &Result{Sessions: sessions}, nil
}
