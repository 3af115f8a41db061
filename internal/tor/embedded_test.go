package tor

import (
	"errors"
	"testing"
	"time"
)

// TestEmbeddedTor tests the daemon manager without starting Tor.
func TestEmbeddedTor(t *testing.T) {
	t.Parallel()

	t.Run("default timeout", func(t *testing.T) {
		t.Parallel()

		e := NewEmbeddedTor()
		if e.startupTimeout != DefaultStartupTimeout {
			t.Errorf("expected %v, got %v", DefaultStartupTimeout, e.startupTimeout)
		}
	})

	t.Run("custom timeout", func(t *testing.T) {
		t.Parallel()

		e := NewEmbeddedTor(WithStartupTimeout(5 * time.Minute))
		if e.startupTimeout != 5*time.Minute {
			t.Errorf("expected 5m, got %v", e.startupTimeout)
		}
	})

	t.Run("non-positive timeout keeps default", func(t *testing.T) {
		t.Parallel()

		e := NewEmbeddedTor(WithStartupTimeout(0))
		if e.startupTimeout != DefaultStartupTimeout {
			t.Errorf("expected default timeout, got %v", e.startupTimeout)
		}
	})

	t.Run("not running before start", func(t *testing.T) {
		t.Parallel()

		e := NewEmbeddedTor()
		if e.IsRunning() {
			t.Error("expected IsRunning to be false")
		}
		if e.SocksAddr() != "" {
			t.Errorf("expected empty SocksAddr, got %q", e.SocksAddr())
		}
		if err := e.Stop(); err != nil {
			t.Errorf("expected Stop on unstarted daemon to succeed, got %v", err)
		}
	})

	t.Run("NewClient requires a running daemon", func(t *testing.T) {
		t.Parallel()

		if _, err := NewEmbeddedTor().NewClient(); !errors.Is(err, ErrTorNotRunning) {
			t.Errorf("expected ErrTorNotRunning, got %v", err)
		}
	})
}
