// Package logger wires the event sink of the core packages to logrus and
// provides the bridge to the protocol engine's slog-based logging.
package logger

import (
	"log/slog"
	"sync"

	log "github.com/sirupsen/logrus"

	"github.com/lanshare/ftpd/internal/i18n"
)

// New returns a logrus logger configured for the command surface.
func New() *log.Logger {
	l := log.New()
	l.SetFormatter(&log.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05",
	})
	return l
}

// Sink renders core events through a locale Renderer into a logrus logger.
// It is the command surface's implementation of i18n.Sink; a graphical
// surface would provide its own.
type Sink struct {
	log *log.Logger

	mu       sync.RWMutex
	renderer *i18n.Renderer
}

// NewSink returns a Sink rendering with renderer and writing to logger.
func NewSink(logger *log.Logger, renderer *i18n.Renderer) *Sink {
	return &Sink{log: logger, renderer: renderer}
}

// SetRenderer swaps the locale Renderer. The command surface uses this to
// adopt the configuration document's language when no explicit language
// flag was given; events already emitted keep their original locale.
func (s *Sink) SetRenderer(renderer *i18n.Renderer) {
	s.mu.Lock()
	s.renderer = renderer
	s.mu.Unlock()
}

// Emit implements i18n.Sink.
func (s *Sink) Emit(level i18n.Level, key string, params map[string]any) {
	s.mu.RLock()
	renderer := s.renderer
	s.mu.RUnlock()
	msg := renderer.Render(key, params)
	switch level {
	case i18n.LevelError:
		s.log.Error(msg)
	case i18n.LevelWarn:
		s.log.Warn(msg)
	default:
		s.log.Info(msg)
	}
}

// Engine returns the slog logger handed to the protocol engine. Engine
// output below error level is discarded; the lifecycle manager reports
// everything the operator needs through its own events.
func Engine(logger *log.Logger) *slog.Logger {
	w := logger.WriterLevel(log.ErrorLevel)
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: slog.LevelError}))
}
