package log

import (
	"regexp"
	"strings"
)

// MaskValue is the string used to replace sensitive values.
const MaskValue = "***REDACTED***"

// defaultKeys are attribute keys whose values are always masked.
var defaultKeys = []string{
	// Request headers that per-site settings may carry
	"authorization", "proxy-authorization", "cookie", "set-cookie",
	"x-api-key", "x-auth-token",

	// Credentials
	"password", "passwd", "secret", "token", "api_key", "apikey",
	"access_token", "refresh_token", "private_key", "secret_key",
	"session", "session_id", "sessionid", "sid",

	// Contact data of the user directory
	"email", "e-mail", "mail", "phone", "address",
}

// defaultKeywords mask any key that contains them, e.g. "user_email".
// The bare word "key" is left out: "primary_key" and "monkey" are harmless.
var defaultKeywords = []string{
	"password", "passwd", "secret", "token", "auth",
	"credential", "private", "cookie", "email",
}

// secretValues mask a whole value regardless of its key.
var secretValues = []*regexp.Regexp{
	regexp.MustCompile(`^eyJ[A-Za-z0-9_-]*\.eyJ[A-Za-z0-9_-]*\.[A-Za-z0-9_-]*$`), // JWT
	regexp.MustCompile(`(?i)^bearer\s+.+`),
	regexp.MustCompile(`(?i)^basic\s+[A-Za-z0-9+/=]+$`),
	regexp.MustCompile(`^AKIA[0-9A-Z]{16}$`),
	regexp.MustCompile(`(?i)-----BEGIN.*(PRIVATE|SECRET).*KEY-----`),
	regexp.MustCompile(`^[^@\s/:]+@[^@\s/]+\.[^@\s/]+$`), // e-mail address
}

// URLs are logged on nearly every line, so only their secret parts are
// masked: the password of the user info and the values of query
// parameters that usually hold credentials.
var (
	urlPassword = regexp.MustCompile(`(://[^/@\s:]+:)[^/@\s]+@`)
	urlSecret   = regexp.MustCompile(`(?i)([?&](?:access_token|api_key|apikey|auth|key|password|secret|session|sig|signature|token)=)[^&#\s"'<>]*`)
)

// redactor decides which attributes are masked.
type redactor struct {
	keys     map[string]struct{}
	keywords []string
}

func newRedactor(extraKeys []string) *redactor {
	r := &redactor{
		keys:     make(map[string]struct{}, len(defaultKeys)+len(extraKeys)),
		keywords: defaultKeywords,
	}
	for _, k := range defaultKeys {
		r.keys[k] = struct{}{}
	}
	for _, k := range extraKeys {
		if k = strings.ToLower(strings.TrimSpace(k)); k != "" {
			r.keys[k] = struct{}{}
		}
	}
	return r
}

// sensitiveKey reports whether values logged under key must be masked.
func (r *redactor) sensitiveKey(key string) bool {
	key = strings.ToLower(key)
	if _, ok := r.keys[key]; ok {
		return true
	}
	for _, kw := range r.keywords {
		if strings.Contains(key, kw) {
			return true
		}
	}
	return false
}

// value returns v with its secrets masked. The second result reports
// whether anything changed.
func (r *redactor) value(v string) (string, bool) {
	for _, p := range secretValues {
		if p.MatchString(v) {
			return MaskValue, true
		}
	}

	masked := urlPassword.ReplaceAllString(v, "${1}"+MaskValue+"@")
	masked = urlSecret.ReplaceAllString(masked, "${1}"+MaskValue)
	return masked, masked != v
}
