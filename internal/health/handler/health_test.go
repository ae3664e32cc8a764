package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"medassist/pkg/client"
	"medassist/pkg/logger"

	"github.com/goccy/go-json"
	"github.com/julienschmidt/httprouter"
)

type pingFunc func(ctx context.Context) error

func (f pingFunc) Ping(ctx context.Context) error { return f(ctx) }

func TestHealthHandler(t *testing.T) {
	tests := []struct {
		name       string
		store      Pinger
		path       string
		wantStatus int
		wantBody   HealthResponse
	}{
		{
			name:       "liveness ignores the store",
			store:      client.NewClient(),
			path:       "/health",
			wantStatus: http.StatusOK,
			wantBody:   HealthResponse{Status: "ok"},
		},
		{
			name:       "ready with store",
			store:      pingFunc(func(ctx context.Context) error { return nil }),
			path:       "/ready",
			wantStatus: http.StatusOK,
			wantBody:   HealthResponse{Status: "ready", Database: "ok"},
		},
		{
			name:       "not ready without connection",
			store:      client.NewClient(),
			path:       "/ready",
			wantStatus: http.StatusServiceUnavailable,
			wantBody:   HealthResponse{Status: "unavailable", Database: "error"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := httprouter.New()
			NewHealthHandler(tt.store, logger.Nop()).RegisterRoutes(router)

			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, tt.path, nil))

			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			var got HealthResponse
			if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if got != tt.wantBody {
				t.Errorf("body = %+v, want %+v", got, tt.wantBody)
			}
		})
	}
}
