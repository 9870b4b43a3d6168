package i18n

import (
	"strings"
	"testing"

	"gotest.tools/v3/assert"
)

func TestNormalize(t *testing.T) {
	cases := map[string]string{
		"zh_CN":    LocaleZhCN,
		"zh":       LocaleZhCN,
		"zh_cn":    LocaleZhCN,
		"chinese":  LocaleZhCN,
		"ZH-CN":    LocaleZhCN,
		"en_US":    LocaleEnUS,
		"en":       LocaleEnUS,
		"english":  LocaleEnUS,
		"EN-us":    LocaleEnUS,
		"":         LocaleZhCN,
		"klingon":  LocaleZhCN,
		"fr_FR":    LocaleZhCN,
	}
	for in, want := range cases {
		assert.Equal(t, Normalize(in), want, "tag %q", in)
	}
}

func TestRenderSubstitutesParams(t *testing.T) {
	r := NewRenderer(LocaleEnUS)
	assert.Equal(t, r.Locale(), LocaleEnUS)

	msg := r.Render("network_listening_on", map[string]any{"host": "0.0.0.0", "port": 2121})
	assert.Assert(t, strings.Contains(msg, "0.0.0.0"), "got %q", msg)
	assert.Assert(t, strings.Contains(msg, "2121"), "got %q", msg)
	assert.Assert(t, !strings.Contains(msg, "{host}"), "got %q", msg)
	assert.Assert(t, !strings.Contains(msg, "{port}"), "got %q", msg)
}

func TestRenderUnknownKeyEchoes(t *testing.T) {
	r := NewRenderer(LocaleZhCN)
	assert.Equal(t, r.Render("no_such_event", nil), "no_such_event")
}

func TestRendererFallsBackToChinese(t *testing.T) {
	r := NewRenderer("not-a-locale")
	assert.Equal(t, r.Locale(), LocaleZhCN)
	assert.Assert(t, len(r.Keys()) > 0)
}

func TestLocalesCoverTheSameKeys(t *testing.T) {
	zh := NewRenderer(LocaleZhCN)
	en := NewRenderer(LocaleEnUS)
	assert.DeepEqual(t, zh.Keys(), en.Keys())
}

func TestRenderersAreIndependent(t *testing.T) {
	zh := NewRenderer(LocaleZhCN)
	en := NewRenderer(LocaleEnUS)

	key := "server_started"
	assert.Assert(t, zh.Render(key, nil) != en.Render(key, nil))
}
