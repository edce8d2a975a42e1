package status

import (
	"errors"
	"fmt"
	"slices"
	"strconv"
	"time"
)

const (
	StatusUp = "UP"
	Message  = "GitOps Demo Application is running!"
	Version  = "1.0"
)

var (
	ErrMissingKey    = errors.New("missing key")
	ErrUnexpectedKey = errors.New("unexpected key")
	ErrUnexpectedVal = errors.New("unexpected value")
	ErrBadTimestamp  = errors.New("timestamp is not a non-negative integer")
	ErrClockWentBack = errors.New("timestamp went backwards")
)

var (
	rootKeys   = []string{"status", "message", "version"}
	healthKeys = []string{"status", "timestamp"}
)

// Clock returns the current wall-clock time.
type Clock func() time.Time

// Service builds the status payloads. The zero value reads time.Now.
type Service struct {
	now Clock
}

// NewService returns a Service reading the given clock. A nil clock means time.Now.
func NewService(now Clock) *Service {
	return &Service{now: now}
}

// Root returns the fixed application status. Every call allocates a fresh map.
func Root() map[string]string {
	return map[string]string{
		"status":  StatusUp,
		"message": Message,
		"version": Version,
	}
}

// Health returns the liveness payload stamped with the current time in epoch milliseconds.
func (s *Service) Health() map[string]string {
	now := time.Now
	if s != nil && s.now != nil {
		now = s.now
	}
	return map[string]string{
		"status":    StatusUp,
		"timestamp": strconv.FormatInt(now().UnixMilli(), 10),
	}
}

// ValidateRoot checks a decoded root payload against the published contract.
func ValidateRoot(payload map[string]string) error {
	if err := checkKeys(payload, rootKeys); err != nil {
		return err
	}
	want := Root()
	for _, k := range rootKeys {
		if payload[k] != want[k] {
			return fmt.Errorf("%w: %s=%q, want %q", ErrUnexpectedVal, k, payload[k], want[k])
		}
	}
	return nil
}

// ValidateHealth checks a decoded health payload and returns its timestamp in epoch milliseconds.
func ValidateHealth(payload map[string]string) (int64, error) {
	if err := checkKeys(payload, healthKeys); err != nil {
		return 0, err
	}
	if payload["status"] != StatusUp {
		return 0, fmt.Errorf("%w: status=%q, want %q", ErrUnexpectedVal, payload["status"], StatusUp)
	}
	ts, err := strconv.ParseInt(payload["timestamp"], 10, 64)
	if err != nil || ts < 0 {
		return 0, fmt.Errorf("%w: %q", ErrBadTimestamp, payload["timestamp"])
	}
	return ts, nil
}

// CheckMonotonic reports whether next does not precede prev.
func CheckMonotonic(prev, next int64) error {
	if next < prev {
		return fmt.Errorf("%w: %d after %d", ErrClockWentBack, next, prev)
	}
	return nil
}

func checkKeys(payload map[string]string, keys []string) error {
	for _, k := range keys {
		if _, ok := payload[k]; !ok {
			return fmt.Errorf("%w: %s", ErrMissingKey, k)
		}
	}
	for k := range payload {
		if !slices.Contains(keys, k) {
			return fmt.Errorf("%w: %s", ErrUnexpectedKey, k)
		}
	}
	return nil
}
