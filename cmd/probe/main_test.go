package main

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/projecthelena/gitops-demo/internal/api"
	"github.com/projecthelena/gitops-demo/internal/config"
	"github.com/projecthelena/gitops-demo/internal/logging"
	"github.com/projecthelena/gitops-demo/internal/status"
)

func TestRun_AgainstRouter(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cfg := config.Default()
	logger := logging.NewWithWriter(io.Discard, "test")
	ts := httptest.NewServer(api.NewRouter(ctx, status.NewService(nil), &cfg, logger))
	defer ts.Close()

	if err := run(ctx, ts.Client(), ts.URL+"/", 3, 5*time.Millisecond, logger); err != nil {
		t.Fatalf("run() error = %v", err)
	}
}

func TestRun_Failures(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{
			name: "wrong version",
			handler: func(w http.ResponseWriter, r *http.Request) {
				_, _ = io.WriteString(w, `{"status":"UP","message":"GitOps Demo Application is running!","version":"2.0"}`)
			},
		},
		{
			name: "server error",
			handler: func(w http.ResponseWriter, r *http.Request) {
				http.Error(w, "boom", http.StatusInternalServerError)
			},
		},
		{
			name: "numeric timestamp",
			handler: func(w http.ResponseWriter, r *http.Request) {
				if r.URL.Path == "/" {
					_, _ = io.WriteString(w, `{"status":"UP","message":"GitOps Demo Application is running!","version":"1.0"}`)
					return
				}
				_, _ = io.WriteString(w, `{"status":"UP","timestamp":1700000000000}`)
			},
		},
		{
			name: "timestamp goes backwards",
			handler: func() http.HandlerFunc {
				stamps := []string{"2000", "1000"}
				return func(w http.ResponseWriter, r *http.Request) {
					if r.URL.Path == "/" {
						_, _ = io.WriteString(w, `{"status":"UP","message":"GitOps Demo Application is running!","version":"1.0"}`)
						return
					}
					stamp := stamps[0]
					stamps = stamps[1:]
					_, _ = io.WriteString(w, `{"status":"UP","timestamp":"`+stamp+`"}`)
				}
			}(),
		},
	}

	logger := logging.NewWithWriter(io.Discard, "test")
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts := httptest.NewServer(tt.handler)
			defer ts.Close()

			if err := run(context.Background(), ts.Client(), ts.URL, 2, time.Millisecond, logger); err == nil {
				t.Error("expected run() to fail")
			}
		})
	}
}
