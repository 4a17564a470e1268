package view

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderEmailVerifiedPage(t *testing.T) {
	engine, err := NewEngine()
	require.NoError(t, err)

	res := httptest.NewRecorder()
	err = engine.Render(res, http.StatusOK, "pages/email_verified.html", TemplateData{
		Title: "Email verified",
		Data:  map[string]any{"LoginURL": "https://app.test.local/login"},
	})
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, res.Code)
	assert.Contains(t, res.Header().Get("Content-Type"), "text/html")
	assert.Contains(t, res.Body.String(), "Email verified")
	assert.Contains(t, res.Body.String(), "https://app.test.local/login")
}

func TestRenderUnknownTemplateFails(t *testing.T) {
	engine, err := NewEngine()
	require.NoError(t, err)

	res := httptest.NewRecorder()
	err = engine.Render(res, http.StatusOK, "pages/missing.html", TemplateData{})
	assert.Error(t, err)
}

func TestNilEngineFailsGracefully(t *testing.T) {
	var engine *Engine
	err := engine.Render(httptest.NewRecorder(), http.StatusOK, "pages/error.html", TemplateData{})
	assert.Error(t, err)
}
