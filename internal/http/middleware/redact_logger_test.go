package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRedact(t *testing.T) {
	cases := map[string]string{
		"":                                         "",
		"id=2f1c8e1a-5b3d-4c2e-9a7b-1234567890ab":  "id=[REDACTED:id]",
		"id=recA1b2C3d4E5f6G7":                     "id=[REDACTED:id]",
		"to=chef@example.com":                      "to=[REDACTED:email]",
		"call 212-555-1212 now":                    "call [REDACTED:phone] now",
		"servings=4":                               "servings=4",
	}
	for in, want := range cases {
		assert.Equal(t, want, Redact(in), in)
	}
}

func TestRedactingLogger_MasksHeadersInAccessLine(t *testing.T) {
	buf := captureLogs(t)
	r := gin.New()
	r.Use(RequestID(), RedactingLogger(RedactOptions{MaskHeaders: []string{" X-Api-Key "}}), Logger())
	r.GET("/recipes", func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodGet, "/recipes?q=chef@example.com", nil)
	req.Header.Set("Authorization", "Bearer secret")
	req.Header.Set("X-Api-Key", "k-123")
	req.Header.Set("X-Trace", "chef@example.com")
	serve(r, req)

	lines := logLines(t, buf)
	require.Len(t, lines, 1)
	assert.Equal(t, "q=[REDACTED:email]", lines[0]["query"])

	headers, ok := lines[0]["headers"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, redacted, headers["Authorization"])
	assert.Equal(t, redacted, headers["X-Api-Key"])
	assert.Equal(t, "[REDACTED:email]", headers["X-Trace"])
	assert.NotContains(t, buf.String(), "secret")
	assert.NotContains(t, buf.String(), "k-123")
}

func TestLogger_RedactsQueryWithoutRedactingLogger(t *testing.T) {
	buf := captureLogs(t)
	r := gin.New()
	r.Use(Logger())
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })
	serve(r, httptest.NewRequest(http.MethodGet, "/?mail=a@b.fr", nil))

	lines := logLines(t, buf)
	require.Len(t, lines, 1)
	assert.Equal(t, "mail=[REDACTED:email]", lines[0]["query"])
	assert.NotContains(t, lines[0], "headers")
}
