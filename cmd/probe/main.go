// Command probe smoke-checks a running gitops-demo instance: it fetches / once
// and /health repeatedly, and fails on the first payload that breaks the contract.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/projecthelena/gitops-demo/internal/logging"
	"github.com/projecthelena/gitops-demo/internal/status"
)

func main() {
	baseURL := flag.String("url", "http://localhost:8080", "Base URL of the service")
	count := flag.Int("count", 3, "Number of /health calls")
	interval := flag.Duration("interval", time.Second, "Delay between /health calls")
	flag.Parse()

	logger := logging.New("probe")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	client := &http.Client{Timeout: 10 * time.Second}
	if err := run(ctx, client, *baseURL, *count, *interval, logger); err != nil {
		logger.Printf("FAIL: %v", err)
		os.Exit(1)
	}
	logger.Println("OK")
}

func run(ctx context.Context, client *http.Client, baseURL string, count int, interval time.Duration, logger *log.Logger) error {
	baseURL = strings.TrimSuffix(baseURL, "/")

	root, err := fetch(ctx, client, baseURL+"/")
	if err != nil {
		return err
	}
	if err := status.ValidateRoot(root); err != nil {
		return fmt.Errorf("GET /: %w", err)
	}
	logger.Printf("GET / -> %s (version %s)", root["status"], root["version"])

	var prev int64
	for i := 0; i < count; i++ {
		if i > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(interval):
			}
		}

		health, err := fetch(ctx, client, baseURL+"/health")
		if err != nil {
			return err
		}
		ts, err := status.ValidateHealth(health)
		if err != nil {
			return fmt.Errorf("GET /health: %w", err)
		}
		if i > 0 {
			if err := status.CheckMonotonic(prev, ts); err != nil {
				return fmt.Errorf("GET /health: %w", err)
			}
		}
		logger.Printf("GET /health -> %s at %d", health["status"], ts)
		prev = ts
	}

	return nil
}

func fetch(ctx context.Context, client *http.Client, url string) (map[string]string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("GET %s: %w", url, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("GET %s: unexpected status %d", url, resp.StatusCode)
	}

	var payload map[string]string
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("GET %s: decode body: %w", url, err)
	}
	return payload, nil
}
