package mcp

import (
	"context"
	"log/slog"
	"os"
	"time"
)

// ParentPollInterval is how often WatchParent checks the parent pid.
var ParentPollInterval = 2 * time.Second

var getppid = os.Getppid

// WatchParent cancels the serving context when the parent process dies
// (the MCP client exited or restarted without closing stdin), so the server
// does not linger as an orphan.
//
// It must not read stdin: the stdio transport owns it, and stolen bytes
// corrupt the JSON-RPC stream.
//
// The goroutine exits when ctx is canceled or parent death is detected.
func WatchParent(ctx context.Context, cancel context.CancelFunc, logger *slog.Logger) {
	if logger == nil {
		logger = slog.Default()
	}
	ppid := getppid()
	interval := ParentPollInterval
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if getppid() != ppid {
					logger.Warn("parent process exited, shutting down", "ppid", ppid)
					cancel()
					return
				}
			}
		}
	}()
}
