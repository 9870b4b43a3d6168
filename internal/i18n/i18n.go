// Package i18n provides locale-independent status events and their
// per-locale rendering.
//
// The core packages never produce display text. They emit an event key plus
// named parameters through a Sink, and every presentation adapter renders
// those events with its own Renderer. This keeps the command-line log output
// and any embedding surface free to localize independently.
package i18n

import (
	"embed"
	"fmt"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// Level classifies an emitted event for the consuming sink.
type Level int

const (
	// LevelInfo is regular progress and status information.
	LevelInfo Level = iota
	// LevelWarn is a recoverable problem that did not stop the server.
	LevelWarn
	// LevelError is a failure the operator should look at.
	LevelError
)

// Sink consumes status events emitted by the core packages.
//
// Implementations must not block; they are called from the server lifecycle
// path.
type Sink interface {
	Emit(level Level, key string, params map[string]any)
}

// Discard is a Sink that drops every event.
var Discard Sink = discardSink{}

type discardSink struct{}

func (discardSink) Emit(Level, string, map[string]any) {}

//go:embed locales/*.yaml
var localeFS embed.FS

// Renderer formats event keys into display text for exactly one locale.
//
// A Renderer is constructed once per adapter with an explicit locale and is
// safe for concurrent use; there is no process-wide current-language state.
type Renderer struct {
	locale   string
	messages map[string]string
}

// NewRenderer returns a Renderer for the given locale tag. The tag is
// normalized first; locales without a message table fall back to LocaleZhCN.
func NewRenderer(tag string) *Renderer {
	loc := Normalize(tag)
	messages, err := loadMessages(loc)
	if err != nil {
		loc = LocaleZhCN
		messages, _ = loadMessages(loc)
	}
	return &Renderer{locale: loc, messages: messages}
}

// Locale returns the normalized locale this Renderer formats for.
func (r *Renderer) Locale() string {
	return r.locale
}

// Render resolves key to the locale's message and substitutes every {name}
// placeholder with the matching parameter. Unknown keys render as the key
// itself so that a missing table entry never hides an event.
func (r *Renderer) Render(key string, params map[string]any) string {
	msg, ok := r.messages[key]
	if !ok {
		msg = key
	}
	if len(params) == 0 {
		return msg
	}
	pairs := make([]string, 0, 2*len(params))
	for name, value := range params {
		pairs = append(pairs, "{"+name+"}", fmt.Sprint(value))
	}
	return strings.NewReplacer(pairs...).Replace(msg)
}

// Keys returns the sorted event keys of the locale's message table.
func (r *Renderer) Keys() []string {
	keys := make([]string, 0, len(r.messages))
	for k := range r.messages {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func loadMessages(locale string) (map[string]string, error) {
	raw, err := localeFS.ReadFile("locales/" + locale + ".yaml")
	if err != nil {
		return nil, err
	}
	messages := make(map[string]string)
	if err := yaml.Unmarshal(raw, &messages); err != nil {
		return nil, err
	}
	return messages, nil
}
