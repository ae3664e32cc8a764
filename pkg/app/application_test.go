package app

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"medassist/pkg/config"
	"medassist/pkg/logger"

	"github.com/julienschmidt/httprouter"
)

type routesFunc func(*httprouter.Router)

func (f routesFunc) RegisterRoutes(r *httprouter.Router) { f(r) }

func testConfig() *config.Config {
	return &config.Config{
		Log:               logger.Nop(),
		Port:              "8080",
		RateLimitRequests: 2,
		RateLimitWindow:   time.Minute,
		RequestTimeout:    time.Second,
		MaxRequestSize:    1024,
		ReadTimeout:       time.Second,
		WriteTimeout:      time.Second,
		IdleTimeout:       time.Second,
		ShutdownTimeout:   time.Second,
	}
}

func TestApplication_Routing(t *testing.T) {
	health := routesFunc(func(r *httprouter.Router) {
		r.GET("/health", func(w http.ResponseWriter, _ *http.Request, _ httprouter.Params) {
			w.WriteHeader(http.StatusOK)
		})
	})
	api := routesFunc(func(r *httprouter.Router) {
		r.POST("/api/v1/things", func(w http.ResponseWriter, _ *http.Request, _ httprouter.Params) {
			w.WriteHeader(http.StatusCreated)
		})
	})

	a := NewApplication(testConfig())
	a.SetApp(health, api)
	defer a.rateLimiter.Stop()
	h := a.Handler()

	do := func(method, path, body, contentType string) int {
		req := httptest.NewRequest(method, path, strings.NewReader(body))
		if contentType != "" {
			req.Header.Set("Content-Type", contentType)
		}
		req.Header.Set("X-Caller-ID", "test")
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		return rec.Code
	}

	if code := do(http.MethodGet, "/health", "", ""); code != http.StatusOK {
		t.Errorf("health status = %d", code)
	}
	if code := do(http.MethodPost, "/api/v1/things", "{}", "text/plain"); code != http.StatusUnsupportedMediaType {
		t.Errorf("wrong content type status = %d", code)
	}
	if code := do(http.MethodPost, "/api/v1/things", "{}", "application/json"); code != http.StatusCreated {
		t.Errorf("create status = %d", code)
	}
	if code := do(http.MethodPost, "/api/v1/things", "{}", "application/json"); code != http.StatusCreated {
		t.Errorf("second create status = %d", code)
	}
	if code := do(http.MethodPost, "/api/v1/things", "{}", "application/json"); code != http.StatusTooManyRequests {
		t.Errorf("rate limited status = %d", code)
	}
	for i := 0; i < 5; i++ {
		if code := do(http.MethodGet, "/health", "", ""); code != http.StatusOK {
			t.Errorf("health must not be rate limited, status = %d", code)
		}
	}
}
