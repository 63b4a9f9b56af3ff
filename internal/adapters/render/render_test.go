package render

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderVerifySuccess(t *testing.T) {
	r, err := New()
	require.NoError(t, err)

	page, err := r.Render("verify-success", map[string]string{
		"message":  "Your email address has been verified",
		"userName": "Ana",
		"appName":  "Rabbit Farm",
	})
	require.NoError(t, err)
	assert.Contains(t, page, "Your email address has been verified")
	assert.Contains(t, page, "Thanks, Ana.")
	assert.Contains(t, page, "Rabbit Farm")
}

func TestRenderEscapesValues(t *testing.T) {
	r, err := New()
	require.NoError(t, err)

	page, err := r.Render("verify-error", map[string]string{
		"errorMessage": "<script>alert(1)</script>",
		"appName":      "Rabbit Farm",
	})
	require.NoError(t, err)
	assert.NotContains(t, page, "<script>")
	assert.Contains(t, page, "&lt;script&gt;")
}

func TestRenderMissingKeyFails(t *testing.T) {
	r, err := New()
	require.NoError(t, err)

	_, err = r.Render("verify-error", map[string]string{"appName": "Rabbit Farm"})
	assert.Error(t, err)
}

func TestRenderUnknownTemplate(t *testing.T) {
	r, err := New()
	require.NoError(t, err)

	_, err = r.Render("welcome", nil)
	assert.ErrorContains(t, err, `template "welcome" not found`)
	assert.Contains(t, r.Fallback(), "Something went wrong")
}
