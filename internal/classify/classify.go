// Package classify decides whether an inbound request path belongs to the
// application itself or is a short-code candidate. It is a pure function
// layer: no I/O, no errors, unrecognized shapes just fall through.
package classify

import (
	"regexp"
	"strings"
)

// Kind tags a classification result.
type Kind int

const (
	// None means the path is neither an application page nor a candidate
	// (static files, deep paths, malformed segments).
	None Kind = iota
	// Reserved is an application route that must never be treated as a code.
	Reserved
	// LocalePrefixed is a locale tag followed by an application route.
	LocalePrefixed
	// ShortCodeCandidate is a single segment that may resolve to a link.
	ShortCodeCandidate
)

// Result is the outcome of classifying one path.
type Result struct {
	Kind   Kind
	Name   string // reserved route name, without leading slash
	Locale string // locale tag for LocalePrefixed results
	Rest   string // remainder after the locale tag
	Code   string // candidate code for ShortCodeCandidate results
}

// Sentinels the framework uses for its not-found rendering. They shape like
// codes but must never reach the resolver.
const (
	NotFoundSentinel         = "not-found"
	InternalNotFoundSentinel = "_not-found"
)

// codePattern accepts 4-8 alphanumeric characters: generated codes are 6,
// custom codes 4-5, and historical records run up to 8.
var codePattern = regexp.MustCompile(`^[A-Za-z0-9]{4,8}$`)

// reservedPaths are exact-match application routes: home variants, legal
// pages, account pages and the not-found sentinels.
var reservedPaths = map[string]bool{
	"":                       true,
	"home":                   true,
	"index":                  true,
	"custom":                 true,
	"history":                true,
	"login":                  true,
	"account":                true,
	"privacy-policy":         true,
	"terms":                  true,
	"contact":                true,
	NotFoundSentinel:         true,
	InternalNotFoundSentinel: true,
}

// Classifier classifies request paths against a fixed set of locales. The
// locale list comes from the loaded i18n bundle so routing and translation
// never drift apart.
type Classifier struct {
	locales map[string]bool
}

// New builds a Classifier recognizing the given locale tags.
func New(locales []string) *Classifier {
	m := make(map[string]bool, len(locales))
	for _, l := range locales {
		m[l] = true
	}
	return &Classifier{locales: m}
}

// Classify maps a request path to a Result. Paths are expected without the
// asset/API namespaces, which are routed upstream of this layer.
func (c *Classifier) Classify(path string) Result {
	path = strings.Trim(path, "/")

	if reservedPaths[path] {
		return Result{Kind: Reserved, Name: path}
	}

	segments := strings.Split(path, "/")

	// A locale tag followed by one more segment is a localized page route.
	// The remainder is only ever re-checked against the reserved set; it is
	// never a short-code candidate at this layer.
	if len(segments) == 2 && c.locales[segments[0]] {
		return Result{Kind: LocalePrefixed, Locale: segments[0], Rest: segments[1]}
	}

	if len(segments) == 1 && codePattern.MatchString(path) {
		return Result{Kind: ShortCodeCandidate, Code: path}
	}

	return Result{Kind: None}
}
