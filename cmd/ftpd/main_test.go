package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus/hooks/test"
	"gotest.tools/v3/assert"

	"github.com/lanshare/ftpd/config"
	"github.com/lanshare/ftpd/internal/i18n"
	"github.com/lanshare/ftpd/internal/logger"
)

func TestResolveLocale(t *testing.T) {
	assert.Equal(t, resolveLocale("en_US"), i18n.LocaleEnUS)
	assert.Equal(t, resolveLocale("english"), i18n.LocaleEnUS)
	assert.Equal(t, resolveLocale("zh"), i18n.LocaleZhCN)
	assert.Equal(t, resolveLocale(""), i18n.LocaleZhCN)

	// auto always lands on a supported locale
	loc := resolveLocale(i18n.LocaleAuto)
	assert.Assert(t, loc == i18n.LocaleEnUS || loc == i18n.LocaleZhCN, "got %q", loc)
}

func TestDocumentLanguageSelectsLocale(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	assert.NilError(t, os.WriteFile(path, []byte(`
language = "en_US"

[[users]]
username = "alice"
password = "secret"
`), 0o644))

	log, hook := test.NewNullLogger()
	sink := logger.NewSink(log, i18n.NewRenderer(i18n.LocaleZhCN))

	applyDocumentLanguage(config.NewStore(nil), path, sink)
	sink.Emit(i18n.LevelInfo, "server_started", nil)

	want := i18n.NewRenderer(i18n.LocaleEnUS).Render("server_started", nil)
	assert.Equal(t, hook.LastEntry().Message, want)
}

func TestDocumentLanguageKeepsRendererOnBadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	assert.NilError(t, os.WriteFile(path, []byte(`language = "en_US"`), 0o644))

	log, hook := test.NewNullLogger()
	sink := logger.NewSink(log, i18n.NewRenderer(i18n.LocaleZhCN))

	// no users, so the document does not validate and the locale stands
	applyDocumentLanguage(config.NewStore(nil), path, sink)
	sink.Emit(i18n.LevelInfo, "server_started", nil)

	want := i18n.NewRenderer(i18n.LocaleZhCN).Render("server_started", nil)
	assert.Equal(t, hook.LastEntry().Message, want)
}

func TestDocumentLanguageSynthesizesDefaultConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")

	log, _ := test.NewNullLogger()
	sink := logger.NewSink(log, i18n.NewRenderer(i18n.LocaleEnUS))

	// an absent document is created with defaults, whose language is zh_CN
	applyDocumentLanguage(config.NewStore(nil), path, sink)

	_, err := os.Stat(path)
	assert.NilError(t, err)

	logOut, hook := test.NewNullLogger()
	sink = logger.NewSink(logOut, i18n.NewRenderer(i18n.LocaleEnUS))
	applyDocumentLanguage(config.NewStore(nil), path, sink)
	sink.Emit(i18n.LevelInfo, "server_started", nil)

	want := i18n.NewRenderer(i18n.LocaleZhCN).Render("server_started", nil)
	assert.Equal(t, hook.LastEntry().Message, want)
}