package i18n

import (
	"strings"

	locale "github.com/jeandeaual/go-locale"
	"golang.org/x/text/language"
)

// Supported locales.
const (
	LocaleZhCN = "zh_CN"
	LocaleEnUS = "en_US"

	// LocaleAuto requests host-locale detection instead of a fixed locale.
	LocaleAuto = "auto"
)

var matcher = language.NewMatcher([]language.Tag{
	language.MustParse("zh-CN"),
	language.MustParse("en-US"),
})

var aliases = map[string]string{
	"zh":      LocaleZhCN,
	"zh_cn":   LocaleZhCN,
	"zh-cn":   LocaleZhCN,
	"chinese": LocaleZhCN,
	"en":      LocaleEnUS,
	"en_us":   LocaleEnUS,
	"en-us":   LocaleEnUS,
	"english": LocaleEnUS,
}

// Normalize maps a user-supplied language tag onto a supported locale.
// It accepts BCP 47 tags as well as the word forms "chinese" and "english".
// Unrecognized input normalizes to LocaleZhCN.
func Normalize(tag string) string {
	t := strings.ToLower(strings.TrimSpace(tag))
	if t == "" || t == LocaleAuto {
		return LocaleZhCN
	}
	if loc, ok := aliases[t]; ok {
		return loc
	}
	parsed, err := language.Parse(strings.ReplaceAll(t, "_", "-"))
	if err != nil {
		return LocaleZhCN
	}
	_, index, conf := matcher.Match(parsed)
	if conf == language.No {
		return LocaleZhCN
	}
	if index == 1 {
		return LocaleEnUS
	}
	return LocaleZhCN
}

// Detect resolves the "auto" locale from the host environment. A host whose
// locale matches Chinese yields zh_CN; everything else, including detection
// failure, yields en_US.
func Detect() string {
	raw, err := locale.GetLocale()
	if err != nil || raw == "" {
		return LocaleEnUS
	}
	parsed, err := language.Parse(strings.ReplaceAll(raw, "_", "-"))
	if err != nil {
		return LocaleEnUS
	}
	base, _ := parsed.Base()
	if base.String() == "zh" {
		return LocaleZhCN
	}
	return LocaleEnUS
}
