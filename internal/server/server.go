package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/charmbracelet/log"
	"github.com/charmbracelet/ssh"
	"github.com/charmbracelet/wish"
	bm "github.com/charmbracelet/wish/bubbletea"
	"golang.org/x/sync/errgroup"

	"devportal/internal/config"
	"devportal/internal/router"
)

const (
	version = "dev"

	readHeaderTimeout = 10 * time.Second
	shutdownTimeout   = 15 * time.Second
)

// Runtime wires config, the HTTP portal and the optional Wish terminal server
// as a testable unit.
type Runtime struct {
	cfg           config.Config
	logger        *log.Logger
	middlewareIDs []string
	http          *http.Server
	ssh           *ssh.Server
}

// New builds both servers without listening. sessions and chain are ignored
// when the terminal surface is disabled.
func New(cfg config.Config, logger *log.Logger, web http.Handler, sessions bm.Handler, chain []router.Descriptor) (*Runtime, error) {
	if logger == nil {
		return nil, errors.New("server: logger is required")
	}
	if web == nil {
		return nil, errors.New("server: http handler is required")
	}

	rt := &Runtime{
		cfg:    cfg,
		logger: logger,
		http: &http.Server{
			Addr:              cfg.HTTPAddress(),
			Handler:           web,
			ReadHeaderTimeout: readHeaderTimeout,
		},
	}
	if !cfg.SSHEnabled {
		return rt, nil
	}
	if sessions == nil {
		return nil, errors.New("server: session handler is required when ssh is enabled")
	}

	sshServer, err := wish.NewServer(
		wish.WithAddress(cfg.SSHAddress()),
		wish.WithHostKeyPath(cfg.SSHHostKeyPath),
		wish.WithIdleTimeout(cfg.SSHIdleTimeout),
		wish.WithMiddleware(wishMiddleware(sessions, chain)...),
	)
	if err != nil {
		return nil, fmt.Errorf("build ssh server: %w", err)
	}

	rt.ssh = sshServer
	rt.middlewareIDs = router.Names(chain)
	return rt, nil
}

// wishMiddleware orders the chain for wish, which wraps the last middleware
// outermost. The bubbletea handler always runs innermost.
func wishMiddleware(sessions bm.Handler, chain []router.Descriptor) []wish.Middleware {
	outerFirst := router.MiddlewareFromDescriptors(chain)
	mw := make([]wish.Middleware, 0, len(outerFirst)+1)
	mw = append(mw, bm.Middleware(sessions))
	for i := len(outerFirst) - 1; i >= 0; i-- {
		mw = append(mw, outerFirst[i])
	}
	return mw
}

func (r *Runtime) MiddlewareIDs() []string {
	out := make([]string, len(r.middlewareIDs))
	copy(out, r.middlewareIDs)
	return out
}

func (r *Runtime) HTTPAddress() string {
	return r.http.Addr
}

// SSHAddress is empty when the terminal surface is disabled.
func (r *Runtime) SSHAddress() string {
	if r.ssh == nil {
		return ""
	}
	return r.ssh.Addr
}

// Run binds both listeners, then serves until ctx is cancelled, SIGINT/SIGTERM
// arrives, or either server fails. Listen errors are returned before anything
// is served. Servers closed by shutdown are not errors.
func (r *Runtime) Run(ctx context.Context) error {
	ctx, stopSignals := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stopSignals()

	httpLn, err := net.Listen("tcp", r.http.Addr)
	if err != nil {
		return fmt.Errorf("http listen %s: %w", r.http.Addr, err)
	}
	var sshLn net.Listener
	if r.ssh != nil {
		sshLn, err = net.Listen("tcp", r.ssh.Addr)
		if err != nil {
			_ = httpLn.Close()
			return fmt.Errorf("ssh listen %s: %w", r.ssh.Addr, err)
		}
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		if err := r.http.Serve(httpLn); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})
	if sshLn != nil {
		g.Go(func() error {
			err := r.ssh.Serve(sshLn)
			if err == nil || errors.Is(err, ssh.ErrServerClosed) || errors.Is(err, net.ErrClosed) {
				return nil
			}
			return fmt.Errorf("ssh server: %w", err)
		})
	}
	g.Go(func() error {
		<-gctx.Done()
		return r.shutdown(sshLn)
	})

	r.logger.Info("startup",
		"event", "startup",
		"version", version,
		"http_addr", httpLn.Addr().String(),
		"ssh_enabled", sshLn != nil,
		"ssh_addr", listenAddr(sshLn),
		"middleware", strings.Join(r.middlewareIDs, ","),
		"host_key_path", r.cfg.SSHHostKeyPath,
		"idle_timeout", r.cfg.SSHIdleTimeout,
		"app_config", r.cfg.AppConfigPath,
	)

	err = g.Wait()
	r.logger.Info("shutdown complete", "event", "shutdown", "err", err)
	return err
}

func listenAddr(ln net.Listener) string {
	if ln == nil {
		return ""
	}
	return ln.Addr().String()
}

// shutdown closes the ssh listener itself so Serve returns even when it has
// not started tracking the listener yet.
func (r *Runtime) shutdown(sshLn net.Listener) error {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	errs := []error{}
	if err := r.http.Shutdown(ctx); err != nil {
		errs = append(errs, fmt.Errorf("shutdown http server: %w", err))
	}
	if sshLn != nil {
		_ = sshLn.Close()
		if err := r.ssh.Shutdown(ctx); err != nil && !errors.Is(err, ssh.ErrServerClosed) && !errors.Is(err, net.ErrClosed) {
			errs = append(errs, fmt.Errorf("shutdown ssh server: %w", err))
		}
	}
	return errors.Join(errs...)
}
