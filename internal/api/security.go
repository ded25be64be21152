package api

import (
	"html"
	"net/http"
	"net/url"
	"regexp"
)

// SecurityMiddleware sets response security headers. Inline styles are
// allowed because section visibility is carried in style attributes.
func SecurityMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")
		w.Header().Set("Content-Security-Policy",
			"default-src 'self'; style-src 'self' 'unsafe-inline'; form-action 'self'; frame-ancestors 'none'")
		next.ServeHTTP(w, r)
	})
}

// InputSanitizationMiddleware rewrites query values with dangerous markup
// stripped and the remainder HTML-escaped.
func InputSanitizationMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.RawQuery != "" {
			sanitized := make(url.Values)
			for key, values := range r.URL.Query() {
				for _, value := range values {
					sanitized.Add(key, sanitizeInput(value))
				}
			}
			r.URL.RawQuery = sanitized.Encode()
		}
		next.ServeHTTP(w, r)
	})
}

var dangerousPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?is)<script[^>]*>.*?</script>`),
	regexp.MustCompile(`(?is)<style[^>]*>.*?</style>`),
	regexp.MustCompile(`(?i)<(iframe|object|embed|link|meta)[^>]*>`),
	regexp.MustCompile(`(?i)on\w+\s*=`),
	regexp.MustCompile(`(?i)javascript:`),
	regexp.MustCompile(`(?i)data:[^,]*?base64`),
	regexp.MustCompile(`(?i)expression\s*\(`),
}

func sanitizeInput(input string) string {
	if input == "" {
		return input
	}
	for _, pattern := range dangerousPatterns {
		input = pattern.ReplaceAllString(input, "")
	}
	return html.EscapeString(input)
}
