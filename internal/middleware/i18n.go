package middleware

import (
	"context"
	"net"
	"net/http"
	"strings"

	"golang.org/x/text/language"
)

type localeContextKey struct{}

// LocaleKey indexes the resolved UI locale in the request context.
var LocaleKey = localeContextKey{}

// CountryLookup resolves ISO country codes for an IP address.
type CountryLookup func(ip string) (string, error)

// supportedLocales lists the page languages, preferred first. The WAN 2.2
// model is Chinese, so the form ships an en/zh pair.
var supportedLocales = []language.Tag{
	language.English,
	language.Chinese,
}

var localeMatcher = language.NewMatcher(supportedLocales)

// I18N resolves the UI locale for each request: explicit X-Locale header
// first, then Accept-Language, then the country of the client IP, then the
// configured default.
func I18N(defaultLocale string, lookup CountryLookup) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			locale := detectLocale(r, defaultLocale, lookup)
			ctx := context.WithValue(r.Context(), LocaleKey, locale)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func detectLocale(r *http.Request, fallback string, lookup CountryLookup) string {
	if v := r.Header.Get("X-Locale"); v != "" {
		return normalizeLocale(v)
	}
	if header := r.Header.Get("Accept-Language"); header != "" {
		if tags, _, err := language.ParseAcceptLanguage(header); err == nil && len(tags) > 0 {
			_, index, conf := localeMatcher.Match(tags...)
			if conf > language.No {
				return localeName(supportedLocales[index])
			}
		}
	}
	if lookup != nil {
		if country, err := lookup(ClientIP(r)); err == nil && strings.EqualFold(country, "CN") {
			return "zh"
		}
	}
	if fallback != "" {
		return normalizeLocale(fallback)
	}
	return "en"
}

func normalizeLocale(locale string) string {
	tag, err := language.Parse(locale)
	if err != nil {
		return "en"
	}
	_, index, conf := localeMatcher.Match(tag)
	if conf == language.No {
		return "en"
	}
	return localeName(supportedLocales[index])
}

func localeName(tag language.Tag) string {
	base, _ := tag.Base()
	return base.String()
}

// ClientIP returns the best-effort client IP address for the request.
func ClientIP(r *http.Request) string {
	if r == nil {
		return ""
	}
	if xf := r.Header.Get("X-Forwarded-For"); xf != "" {
		parts := strings.Split(xf, ",")
		if len(parts) > 0 {
			return strings.TrimSpace(parts[0])
		}
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// LocaleFromContext returns the locale resolved by the I18N middleware.
func LocaleFromContext(ctx context.Context) string {
	if v, ok := ctx.Value(LocaleKey).(string); ok {
		return v
	}
	return "en"
}
