package logger

import (
	"testing"

	log "github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"gotest.tools/v3/assert"

	"github.com/lanshare/ftpd/internal/i18n"
)

func TestSinkLevelMapping(t *testing.T) {
	logger, hook := test.NewNullLogger()
	sink := NewSink(logger, i18n.NewRenderer(i18n.LocaleEnUS))

	sink.Emit(i18n.LevelInfo, "server_started", nil)
	sink.Emit(i18n.LevelWarn, "network_error", map[string]any{"error": "boom"})
	sink.Emit(i18n.LevelError, "config_error", map[string]any{"error": "bad"})

	entries := hook.AllEntries()
	assert.Equal(t, len(entries), 3)
	assert.Equal(t, entries[0].Level, log.InfoLevel)
	assert.Equal(t, entries[1].Level, log.WarnLevel)
	assert.Equal(t, entries[2].Level, log.ErrorLevel)
}

func TestSinkRendersEvents(t *testing.T) {
	logger, hook := test.NewNullLogger()
	sink := NewSink(logger, i18n.NewRenderer(i18n.LocaleEnUS))

	sink.Emit(i18n.LevelInfo, "network_listening_on", map[string]any{"host": "0.0.0.0", "port": 2121})

	entry := hook.LastEntry()
	assert.Assert(t, entry != nil)
	// the rendered line carries the substituted parameters, not the key
	assert.Assert(t, entry.Message != "network_listening_on")
}

func TestSinkSetRendererSwitchesLocale(t *testing.T) {
	logger, hook := test.NewNullLogger()
	sink := NewSink(logger, i18n.NewRenderer(i18n.LocaleZhCN))

	sink.Emit(i18n.LevelInfo, "server_started", nil)
	before := hook.LastEntry().Message

	sink.SetRenderer(i18n.NewRenderer(i18n.LocaleEnUS))
	sink.Emit(i18n.LevelInfo, "server_started", nil)
	after := hook.LastEntry().Message

	assert.Assert(t, before != after)
	assert.Equal(t, after, i18n.NewRenderer(i18n.LocaleEnUS).Render("server_started", nil))
}

func TestEngineLoggerDiscardsBelowError(t *testing.T) {
	logger, hook := test.NewNullLogger()
	engine := Engine(logger)

	engine.Info("chatter")
	engine.Debug("chatter")
	assert.Equal(t, len(hook.AllEntries()), 0)
}
