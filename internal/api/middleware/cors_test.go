package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCORSMiddleware(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})

	t.Run("configured origin is echoed", func(t *testing.T) {
		handler := CORSMiddleware([]string{"https://parkshare.vn"})(next)
		req := httptest.NewRequest(http.MethodGet, "/api/rewards", nil)
		req.Header.Set("Origin", "https://parkshare.vn")
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)

		assert.Equal(t, "https://parkshare.vn", w.Header().Get("Access-Control-Allow-Origin"))
		assert.Equal(t, "Origin", w.Header().Get("Vary"))
		assert.Equal(t, http.StatusTeapot, w.Code)
	})

	t.Run("unknown origin gets no allow header", func(t *testing.T) {
		handler := CORSMiddleware([]string{"https://parkshare.vn"})(next)
		req := httptest.NewRequest(http.MethodGet, "/api/rewards", nil)
		req.Header.Set("Origin", "https://evil.example")
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)

		assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
	})

	t.Run("preflight short circuits", func(t *testing.T) {
		handler := CORSMiddleware(nil)(next)
		req := httptest.NewRequest(http.MethodOptions, "/api/users", nil)
		req.Header.Set("Origin", "http://localhost:5173")
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
	})
}
