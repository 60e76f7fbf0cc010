package main

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fakePlatform(t *testing.T) *httptest.Server {
	t.Helper()
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/api/usuarios/login", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"token": "tok-cli", "nombre": "Ana"})
	})
	r.GET("/api/recursos", func(c *gin.Context) {
		c.Data(http.StatusOK, "application/json", []byte(`[
			{"_id": "t1", "tipo": "TESIS", "titulo": "Redes neuronales", "tags": ["IA"], "detalles": {"universidad": "UNAM", "url_pdf": "https://x/tesis.pdf"}, "autor_id": {"_id": "u1", "nombre": "Ana"}},
			{"_id": "v1", "tipo": "VIDEO", "titulo": "Clase de Go", "tags": [], "detalles": {"url_video": "https://youtu.be/go", "duracion": "15 min"}},
			{"_id": "v2", "tipo": "VIDEO", "titulo": "Sin enlace", "tags": [], "detalles": {}},
			{"_id": "x1", "tipo": "PODCAST", "titulo": "Podcast"}
		]`))
	})
	r.POST("/api/recursos", func(c *gin.Context) {
		if c.GetHeader("Authorization") != "Bearer tok-cli" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"msg": "token inválido"})
			return
		}
		var body gin.H
		_ = c.ShouldBindJSON(&body)
		body["_id"] = "new-1"
		c.JSON(http.StatusCreated, body)
	})
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return srv
}

func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func TestCLI_Workflow(t *testing.T) {
	srv := fakePlatform(t)
	t.Setenv("API_BASE_URL", srv.URL)
	t.Setenv("STORE_DSN", filepath.Join(t.TempDir(), "session.db"))

	_, err := runCLI(t, "whoami")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not logged in")

	out, err := runCLI(t, "login", "--email", "ana@uni.edu", "--password", "secret")
	require.NoError(t, err)
	assert.Contains(t, out, "Welcome, Ana")

	out, err = runCLI(t, "whoami")
	require.NoError(t, err)
	assert.Contains(t, out, "Ana")

	out, err = runCLI(t, "resources", "list", "--group", "research")
	require.NoError(t, err)
	assert.Contains(t, out, "Redes neuronales")
	assert.Contains(t, out, "UNAM")
	assert.Contains(t, out, "#IA")
	assert.NotContains(t, out, "Clase de Go")
	assert.Contains(t, out, "1 resource(s) of unknown kind not shown")

	out, err = runCLI(t, "resources", "list", "--group", "media")
	require.NoError(t, err)
	assert.Contains(t, out, "Clase de Go")
	assert.Contains(t, out, "15 min")

	out, err = runCLI(t, "resources", "open", "t1", "--print")
	require.NoError(t, err)
	assert.Contains(t, out, "document_viewer")
	assert.Contains(t, out, "https://docs.google.com/viewer?url=https%3A%2F%2Fx%2Ftesis.pdf&embedded=true")
	assert.Contains(t, out, "VisorDocumento")

	out, err = runCLI(t, "resources", "open", "v2", "--print")
	require.NoError(t, err)
	assert.Contains(t, out, "This resource has no valid URL attached.")

	out, err = runCLI(t, "resources", "create", "--kind", "video", "--title", "Nueva clase", "--video-url", "https://youtu.be/new", "--tags", "Go, CLI")
	require.NoError(t, err)
	assert.Contains(t, out, "Resource published")
	assert.Contains(t, out, "#Go #CLI")
	assert.Contains(t, out, "2 resource(s) now listed under media")

	_, err = runCLI(t, "resources", "create", "--kind", "article", "--title", "x")
	require.Error(t, err)

	out, err = runCLI(t, "logout")
	require.NoError(t, err)
	assert.Contains(t, out, "Logged out")

	_, err = runCLI(t, "resources", "create", "--kind", "thesis", "--title", "Otra")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "academia login")
}
