package ftpd

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/gonzalop/ftp/server"

	"github.com/lanshare/ftpd/config"
	"github.com/lanshare/ftpd/internal/i18n"
)

// HandlerConfig collects the runtime parameters handed to the protocol
// engine: welcome banner, connection caps, and the passive-mode settings
// shared by every session.
type HandlerConfig struct {
	Banner       string
	MaxCons      int
	MaxConsPerIP int
	Settings     server.Settings

	// Logger is the engine's logger; nil keeps the engine's default.
	Logger *slog.Logger
	// Metrics is an optional collector for engine metrics.
	Metrics server.MetricsCollector
}

// ApplyHandlerOptions maps the configuration's optional runtime fields onto
// h. This is the lenient validation mode: it is a best-effort
// secondary application layer reachable from paths that bypass the strict
// config.Validate, so each field is applied independently and a malformed
// passive-port pair is reported and skipped instead of aborting startup.
func ApplyHandlerOptions(h *HandlerConfig, cfg *config.Config, sink i18n.Sink) {
	if sink == nil {
		sink = i18n.Discard
	}

	if len(cfg.PassivePorts) > 0 {
		if start, end, ok := passivePair(cfg.PassivePorts); ok {
			// stored inclusive on both ends: clients may be offered
			// every port in start..end
			h.Settings.PasvMinPort = start
			h.Settings.PasvMaxPort = end
			sink.Emit(i18n.LevelInfo, "network_passive_ports", map[string]any{"start": start, "end": end})
		} else {
			sink.Emit(i18n.LevelError, "passive_ports_invalid", map[string]any{
				"passive_ports": fmt.Sprint(cfg.PassivePorts),
			})
		}
	}

	if banner := strings.TrimSpace(cfg.Banner); banner != "" {
		h.Banner = banner
		sink.Emit(i18n.LevelInfo, "network_banner", map[string]any{"banner": banner})
	}

	if cfg.MaxCons > 0 {
		h.MaxCons = cfg.MaxCons
		sink.Emit(i18n.LevelInfo, "network_max_cons", map[string]any{"max_cons": cfg.MaxCons})
	}
	if cfg.MaxConsPerIP > 0 {
		h.MaxConsPerIP = cfg.MaxConsPerIP
		sink.Emit(i18n.LevelInfo, "network_max_cons_per_ip", map[string]any{"max_cons_per_ip": cfg.MaxConsPerIP})
	}
}

func passivePair(ports []int) (start, end int, ok bool) {
	if len(ports) != 2 {
		return 0, 0, false
	}
	start, end = ports[0], ports[1]
	if start < 1024 || start > 65535 || end < 1024 || end > 65535 || start > end {
		return 0, 0, false
	}
	return start, end, true
}

// engineOptions assembles the protocol engine's functional options for the
// given session driver.
func (h *HandlerConfig) engineOptions(driver server.Driver) []server.Option {
	opts := []server.Option{server.WithDriver(driver)}
	if h.Banner != "" {
		opts = append(opts, server.WithWelcomeMessage(h.Banner))
	}
	if h.MaxCons > 0 || h.MaxConsPerIP > 0 {
		opts = append(opts, server.WithMaxConnections(h.MaxCons, h.MaxConsPerIP))
	}
	if h.Logger != nil {
		opts = append(opts, server.WithLogger(h.Logger))
	}
	if h.Metrics != nil {
		opts = append(opts, server.WithMetricsCollector(h.Metrics))
	}
	return opts
}
