package tor

import (
	"context"
	"fmt"
	"time"

	"github.com/nao1215/tornago"
)

// defaultStartupTimeout is how long a fresh Tor process may take to
// bootstrap.
const defaultStartupTimeout = 3 * time.Minute

// Daemon is a Tor process owned by this program.
type Daemon struct {
	process        *tornago.TorProcess
	socksAddr      string
	startupTimeout time.Duration
}

// DaemonOption configures a Daemon.
type DaemonOption func(*Daemon)

// WithStartupTimeout sets the bootstrap timeout.
func WithStartupTimeout(timeout time.Duration) DaemonOption {
	return func(d *Daemon) {
		if timeout > 0 {
			d.startupTimeout = timeout
		}
	}
}

// NewDaemon creates a Daemon. Call Start to launch Tor.
func NewDaemon(opts ...DaemonOption) *Daemon {
	d := &Daemon{startupTimeout: defaultStartupTimeout}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Start launches Tor on random local ports and waits for it to bootstrap.
// The tor binary must be installed.
func (d *Daemon) Start(ctx context.Context) error {
	launchCfg, err := tornago.NewTorLaunchConfig(
		tornago.WithTorSocksAddr(":0"),
		tornago.WithTorControlAddr(":0"),
		tornago.WithTorStartupTimeout(d.startupTimeout),
	)
	if err != nil {
		return fmt.Errorf("failed to create Tor launch config: %w", err)
	}

	process, err := tornago.StartTorDaemon(launchCfg)
	if err != nil {
		return fmt.Errorf("failed to start Tor: %w", err)
	}

	if err := ctx.Err(); err != nil {
		_ = process.Stop() //nolint:errcheck // best effort
		return err
	}

	d.process = process
	d.socksAddr = process.SocksAddr()
	return nil
}

// Stop terminates the process. It is safe to call on a stopped Daemon.
func (d *Daemon) Stop() error {
	if d.process == nil {
		return nil
	}
	err := d.process.Stop()
	d.process = nil
	return err
}

// SocksAddr returns the SOCKS5 address of the running process.
func (d *Daemon) SocksAddr() string {
	return d.socksAddr
}

// IsRunning reports whether Start succeeded and Stop was not called.
func (d *Daemon) IsRunning() bool {
	return d.process != nil
}

// NewClient returns a Client for the daemon's SOCKS5 port.
func (d *Daemon) NewClient(timeout time.Duration) (*Client, error) {
	if !d.IsRunning() {
		return nil, ErrDaemonNotRunning
	}
	return NewClient(d.socksAddr, timeout)
}
