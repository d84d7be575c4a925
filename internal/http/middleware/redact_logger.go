// Package middleware
//
// This file scrubs personal data before anything about a request reaches the
// logs. Sensitive headers are masked outright. In the remaining header
// values and in the query string, UUIDs, Airtable record ids, emails and
// phone numbers are replaced by a placeholder.
package middleware

import (
	"regexp"
	"strings"

	"github.com/gin-gonic/gin"
)

const redacted = "[REDACTED]"

var (
	// UUIDs go first so the phone pattern cannot eat their digit groups.
	uuidRE  = regexp.MustCompile(`(?i)\b[0-9a-f]{8}-[0-9a-f]{4}-[1-5][0-9a-f]{3}-[89ab][0-9a-f]{3}-[0-9a-f]{12}\b`)
	emailRE = regexp.MustCompile(`(?i)\b[a-z0-9._%+\-]+@[a-z0-9.\-]+\.[a-z]{2,}\b`)
	phoneRE = regexp.MustCompile(`\b(?:\+?\d{1,3}[ .-]?)?(?:\(?\d{2,4}\)?[ .-]?)?\d{3,4}[ .-]?\d{4}\b`)
	// Airtable record ids show up in query strings (?id=rec...).
	recordRE = regexp.MustCompile(`\brec[A-Za-z0-9]{14}\b`)
)

// RedactOptions lists extra headers whose values are never logged.
// Authorization, Cookie and Set-Cookie are always masked.
type RedactOptions struct {
	MaskHeaders []string
}

// Redact scrubs ids, emails and phone numbers from s.
func Redact(s string) string {
	if s == "" {
		return s
	}
	s = uuidRE.ReplaceAllString(s, "[REDACTED:id]")
	s = recordRE.ReplaceAllString(s, "[REDACTED:id]")
	s = emailRE.ReplaceAllString(s, "[REDACTED:email]")
	return phoneRE.ReplaceAllString(s, "[REDACTED:phone]")
}

// RedactingLogger enriches the request logger with a scrubbed view of the
// request headers and query. It must run before Logger, which emits the
// access line. Bodies are never logged; ingredient lists and recipes stay
// out of the logs.
func RedactingLogger(opts RedactOptions) gin.HandlerFunc {
	mask := map[string]struct{}{
		"authorization": {},
		"cookie":        {},
		"set-cookie":    {},
	}
	for _, h := range opts.MaskHeaders {
		if h = strings.ToLower(strings.TrimSpace(h)); h != "" {
			mask[h] = struct{}{}
		}
	}

	return func(c *gin.Context) {
		headers := make(map[string]string, len(c.Request.Header))
		for k, vv := range c.Request.Header {
			if _, ok := mask[strings.ToLower(k)]; ok {
				headers[k] = redacted
				continue
			}
			headers[k] = Redact(strings.Join(vv, ", "))
		}
		c.Set(redactedHeadersKey, headers)
		c.Set(redactedQueryKey, Redact(c.Request.URL.RawQuery))
		c.Next()
	}
}

const (
	redactedHeadersKey = "redact.headers"
	redactedQueryKey   = "redact.query"
)

// safeRequest returns the scrubbed headers and query recorded by
// RedactingLogger. ok is false when it did not run.
func safeRequest(c *gin.Context) (headers map[string]string, query string, ok bool) {
	v, found := c.Get(redactedHeadersKey)
	if !found {
		return nil, "", false
	}
	headers, _ = v.(map[string]string)
	query = c.GetString(redactedQueryKey)
	return headers, query, true
}
