package tor

import (
	"errors"
	"testing"
	"time"
)

// TestNewDaemon tests defaults of a daemon that was never started.
func TestNewDaemon(t *testing.T) {
	t.Parallel()

	d := NewDaemon()
	if d.startupTimeout != defaultStartupTimeout {
		t.Errorf("startupTimeout = %v, want %v", d.startupTimeout, defaultStartupTimeout)
	}
	if d.IsRunning() {
		t.Error("new daemon should not be running")
	}
	if d.SocksAddr() != "" {
		t.Errorf("SocksAddr() = %q, want empty", d.SocksAddr())
	}
	if err := d.Stop(); err != nil {
		t.Errorf("Stop() on idle daemon: %v", err)
	}
	if _, err := d.NewClient(time.Second); !errors.Is(err, ErrDaemonNotRunning) {
		t.Errorf("expected ErrDaemonNotRunning, got %v", err)
	}
}

// TestWithStartupTimeout tests the startup timeout option.
func TestWithStartupTimeout(t *testing.T) {
	t.Parallel()

	t.Run("positive value is applied", func(t *testing.T) {
		t.Parallel()

		if got := NewDaemon(WithStartupTimeout(time.Minute)).startupTimeout; got != time.Minute {
			t.Errorf("startupTimeout = %v, want 1m", got)
		}
	})

	t.Run("zero keeps the default", func(t *testing.T) {
		t.Parallel()

		if got := NewDaemon(WithStartupTimeout(0)).startupTimeout; got != defaultStartupTimeout {
			t.Errorf("startupTimeout = %v, want %v", got, defaultStartupTimeout)
		}
	})
}
