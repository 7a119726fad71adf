package i18n

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/nicksnyder/go-i18n/v2/i18n"
	"golang.org/x/text/language"
)

type contextKey struct{}

// localizerKey carries the request-scoped Localizer through context.
var localizerKey contextKey

// SupportedLanguages lists the locale tags loaded into the bundle, in load
// order. The path classifier uses the same list for locale-prefixed routes.
var SupportedLanguages []string

// InitBundle loads TOML message files (named <lang>.toml) into a bundle.
func InitBundle(filePaths []string, defaultLang string) (*i18n.Bundle, error) {
	bundle := i18n.NewBundle(language.MustParse(defaultLang))
	bundle.RegisterUnmarshalFunc("toml", toml.Unmarshal)
	SupportedLanguages = make([]string, 0, len(filePaths))

	for _, filePath := range filePaths {
		file, err := os.ReadFile(filePath)
		if err != nil {
			return nil, err
		}

		lang := extractLanguageFromPath(filePath)
		SupportedLanguages = append(SupportedLanguages, lang)

		if _, err := bundle.ParseMessageFileBytes(file, filePath); err != nil {
			return nil, err
		}
	}
	return bundle, nil
}

func extractLanguageFromPath(filePath string) string {
	baseName := filepath.Base(filePath)
	return strings.TrimSuffix(baseName, filepath.Ext(baseName))
}

// WithLocalizer stores a request-scoped Localizer on the context.
func WithLocalizer(ctx context.Context, localizer *i18n.Localizer) context.Context {
	return context.WithValue(ctx, localizerKey, localizer)
}

// T resolves a message key against the request locale. Without a localizer on
// the context (cron jobs, tests) the key itself is returned, so messages
// degrade readably instead of panicking.
func T(ctx context.Context, key string) string {
	localizer, ok := ctx.Value(localizerKey).(*i18n.Localizer)
	if !ok {
		return key
	}
	msg, err := localizer.Localize(&i18n.LocalizeConfig{MessageID: key})
	if err != nil {
		return key
	}
	return msg
}
