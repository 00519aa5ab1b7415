package locale

import "strings"

// Locale is one of the two UI languages served by the site.
type Locale string

const (
	English Locale = "en"
	Italian Locale = "it"

	Default = English
)

// Supported lists every locale in display order.
var Supported = []Locale{English, Italian}

// IsLocale reports whether value is exactly one of the supported codes.
func IsLocale(value string) bool {
	for _, l := range Supported {
		if string(l) == value {
			return true
		}
	}
	return false
}

// Parse normalizes value (case and surrounding space) and returns the matching
// locale, or Default when value is not a supported code.
func Parse(value string) Locale {
	normalized := strings.ToLower(strings.TrimSpace(value))
	if IsLocale(normalized) {
		return Locale(normalized)
	}
	return Default
}

// Opposite returns the other supported locale.
func Opposite(l Locale) Locale {
	if l == English {
		return Italian
	}
	return English
}

// FromPath extracts a leading locale segment from a URL path.
func FromPath(pathname string) Locale {
	segments := splitPath(pathname)
	if len(segments) > 0 && IsLocale(segments[0]) {
		return Locale(segments[0])
	}
	return Default
}

// StripPrefix removes a leading locale segment, if any.
func StripPrefix(pathname string) string {
	segments := splitPath(pathname)
	if len(segments) > 0 && IsLocale(segments[0]) {
		return "/" + strings.Join(segments[1:], "/")
	}
	return pathname
}

// WithLocale rewrites pathname for l. The default locale carries no prefix.
func WithLocale(pathname string, l Locale) string {
	stripped := StripPrefix(pathname)
	if l == Default {
		if stripped == "" {
			return "/"
		}
		return stripped
	}
	if stripped == "" || stripped == "/" {
		return "/" + string(l)
	}
	if !strings.HasPrefix(stripped, "/") {
		stripped = "/" + stripped
	}
	return "/" + string(l) + stripped
}

// Prefix returns the path prefix for l: empty for the default locale.
func Prefix(l Locale) string {
	if l == Default {
		return ""
	}
	return "/" + string(l)
}

func (l Locale) String() string {
	return string(l)
}

func splitPath(pathname string) []string {
	var segments []string
	for _, s := range strings.Split(pathname, "/") {
		if s != "" {
			segments = append(segments, s)
		}
	}
	return segments
}
