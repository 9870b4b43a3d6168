// Package ftpd resolves a declarative TOML configuration into a running FTP
// server and manages that server's lifecycle: start, cooperative stop, and
// liveness supervision. The FTP wire protocol itself is owned entirely by
// the protocol engine; this package only composes configuration,
// authorization, and runtime options around it.
package ftpd

import (
	"context"
	"log/slog"
	"net"
	"os"
	"path/filepath"
	"strconv"
	"sync"
	"time"

	"github.com/gonzalop/ftp/server"
	"github.com/pkg/errors"

	"github.com/lanshare/ftpd/auth"
	"github.com/lanshare/ftpd/config"
	"github.com/lanshare/ftpd/internal/i18n"
	"github.com/lanshare/ftpd/internal/netutil"
)

// State is the lifecycle state of a Manager. The only transition path is
// Stopped -> Starting -> Running -> Stopping -> Stopped; a failed start
// returns to Stopped and surfaces its error to the caller, there is no
// failed terminal state.
type State int32

const (
	// StateStopped means no server instance exists.
	StateStopped State = iota
	// StateStarting means Start is composing and validating an instance.
	StateStarting
	// StateRunning means the worker goroutine is serving.
	StateRunning
	// StateStopping means a stop request is being carried out.
	StateStopping
)

func (s State) String() string {
	switch s {
	case StateStarting:
		return "starting"
	case StateRunning:
		return "running"
	case StateStopping:
		return "stopping"
	default:
		return "stopped"
	}
}

// pollInterval is how often Run checks worker liveness.
const pollInterval = 100 * time.Millisecond

// Manager owns at most one running server instance and coordinates its
// lifecycle. All collaborators, including the event sink, are injected at
// construction; a Manager never touches global logging state.
type Manager struct {
	configPath string
	sharedDir  string
	port       int
	sink       i18n.Sink
	store      *config.Store
	handler    HandlerConfig

	mu      sync.Mutex
	state   State
	srv     *server.Server
	ln      net.Listener
	done    chan struct{}
	failure error
}

// Option configures a Manager.
type Option func(*Manager)

// WithSharedDir overrides the shared directory used for accounts without an
// explicit home. The default is <cwd>/shared.
func WithSharedDir(dir string) Option {
	return func(m *Manager) {
		m.sharedDir = dir
	}
}

// WithPort overrides the listening port. Precedence is override, then the
// configuration's port, then 2121.
func WithPort(port int) Option {
	return func(m *Manager) {
		m.port = port
	}
}

// WithSink sets the event sink receiving structured status events.
func WithSink(sink i18n.Sink) Option {
	return func(m *Manager) {
		m.sink = sink
	}
}

// WithEngineLogger sets the logger handed to the protocol engine.
func WithEngineLogger(l *slog.Logger) Option {
	return func(m *Manager) {
		m.handler.Logger = l
	}
}

// WithMetrics sets an optional metrics collector for the protocol engine.
func WithMetrics(c server.MetricsCollector) Option {
	return func(m *Manager) {
		m.handler.Metrics = c
	}
}

// New returns a Manager for the configuration at configPath. The instance
// starts in StateStopped; nothing is read or bound until Start.
func New(configPath string, opts ...Option) *Manager {
	m := &Manager{
		configPath: configPath,
		sink:       i18n.Discard,
		state:      StateStopped,
	}
	for _, opt := range opts {
		opt(m)
	}
	m.store = config.NewStore(m.sink)
	return m
}

// Store exposes the Manager's configuration store, for adapters that edit
// the persisted document. Edits never affect a running instance; the
// authorization table and handler options are snapshots taken at Start.
func (m *Manager) Store() *config.Store {
	return m.store
}

// Start resolves the configuration into a running server instance.
//
// It ensures the shared directory, loads and validates the configuration,
// builds the authorization table, applies the runtime options, binds the
// listener, and only then spawns the single worker goroutine running the
// engine's blocking serve loop. Any failure before the worker is spawned
// aborts the transition back to StateStopped and is returned synchronously;
// no listener is ever bound on an invalid configuration.
//
// Starting while an instance is live is rejected without touching it.
func (m *Manager) Start() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.state != StateStopped {
		return errors.Errorf("ftp server already %s", m.state)
	}
	m.state = StateStarting
	m.failure = nil

	cfg, table, handler, port, sharedDir, err := m.compose()
	if err != nil {
		m.state = StateStopped
		return err
	}

	driver, err := auth.NewDriver(table, &handler.Settings)
	if err != nil {
		m.state = StateStopped
		return err
	}

	addr := net.JoinHostPort(cfg.Listen, strconv.Itoa(port))
	srv, err := server.NewServer(addr, handler.engineOptions(driver)...)
	if err != nil {
		m.state = StateStopped
		return err
	}
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		m.state = StateStopped
		return &BindError{Addr: addr, Err: err}
	}

	m.srv = srv
	m.ln = ln
	m.done = make(chan struct{})
	m.state = StateRunning

	m.logStartupSummary(cfg, table, sharedDir, cfg.Listen, port)

	go m.serve(srv, ln, m.done)
	return nil
}

// compose performs every synchronous, non-blocking part of startup:
// directories, configuration, authorization, runtime options.
func (m *Manager) compose() (*config.Config, *auth.Table, *HandlerConfig, int, string, error) {
	sharedDir := m.sharedDir
	if sharedDir == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, nil, nil, 0, "", errors.Wrap(err, "cannot determine working directory")
		}
		sharedDir = filepath.Join(cwd, config.DefaultSharedDir)
	}
	sharedDir, err := filepath.Abs(sharedDir)
	if err != nil {
		return nil, nil, nil, 0, "", errors.Wrap(err, "cannot resolve shared directory")
	}
	if err = os.MkdirAll(sharedDir, 0o755); err != nil {
		return nil, nil, nil, 0, "", &config.IOError{Op: "create directory", Path: sharedDir, Err: err}
	}

	m.sink.Emit(i18n.LevelInfo, "config_loading", nil)
	cfg, err := m.store.Read(m.configPath)
	if err != nil {
		m.sink.Emit(i18n.LevelError, "config_error", map[string]any{"error": err.Error()})
		return nil, nil, nil, 0, "", err
	}
	m.sink.Emit(i18n.LevelInfo, "config_loaded", nil)

	port := m.port
	if port == 0 {
		port = cfg.Port
	}
	if port == 0 {
		port = config.DefaultPort
	}

	table, err := auth.Build(&cfg, sharedDir, m.sink)
	if err != nil {
		m.sink.Emit(i18n.LevelError, "server_startup_failed", map[string]any{"error": err.Error()})
		return nil, nil, nil, 0, "", err
	}

	handler := m.handler
	ApplyHandlerOptions(&handler, &cfg, m.sink)

	return &cfg, table, &handler, port, sharedDir, nil
}

// serve runs the engine's blocking accept loop on the worker goroutine.
// The engine returning anything but ErrServerClosed is a runtime failure:
// it is recorded, reported, and followed by the same cleanup path as an
// explicit stop. A panic in the engine must not take down the supervisor.
func (m *Manager) serve(srv *server.Server, ln net.Listener, done chan struct{}) {
	defer func() {
		if r := recover(); r != nil {
			m.recordFailure(&RuntimeFailure{Err: errors.Errorf("panic: %v", r)})
		}
		close(done)
		m.stopInstance(done)
	}()

	// Stop may close the listener before the engine has registered it, so
	// an accept error on a closed listener is a clean shutdown too.
	err := srv.Serve(ln)
	if err != nil && err != server.ErrServerClosed && !errors.Is(err, net.ErrClosed) {
		m.recordFailure(&RuntimeFailure{Err: err})
	}
}

// stopInstance runs the stop path only while done still belongs to the
// live instance, so a worker that outlived a restart cannot stop its
// successor.
func (m *Manager) stopInstance(done chan struct{}) {
	m.mu.Lock()
	current := m.done == done
	m.mu.Unlock()
	if current {
		m.Stop()
	}
}

func (m *Manager) recordFailure(err error) {
	m.mu.Lock()
	m.failure = err
	m.mu.Unlock()
	m.sink.Emit(i18n.LevelError, "server_runtime_error", map[string]any{"error": err.Error()})
}

// Run starts the server and supervises it until ctx is cancelled or the
// worker exits. Supervision is a fixed-interval liveness poll; the calling
// goroutine blocks nowhere else. The server is always stopped on the way
// out, and an unexpected worker termination is returned as *RuntimeFailure.
func (m *Manager) Run(ctx context.Context) error {
	if err := m.Start(); err != nil {
		return err
	}
	m.sink.Emit(i18n.LevelInfo, "server_running", nil)

	for m.IsRunning() {
		select {
		case <-ctx.Done():
			m.Stop()
			return nil
		case <-time.After(pollInterval):
		}
	}
	m.Stop()
	return m.LastFailure()
}

// Stop requests the protocol engine to close the listener and every active
// connection. It is idempotent: stopping an already-stopped Manager is a
// no-op. Close errors are reported and swallowed; the Manager always ends
// in StateStopped. Stop returns once the close request has been issued; it
// does not wait for connections to drain.
func (m *Manager) Stop() {
	m.mu.Lock()
	if m.state == StateStopped || m.state == StateStopping {
		m.mu.Unlock()
		return
	}
	m.state = StateStopping
	srv := m.srv
	ln := m.ln
	m.srv = nil
	m.ln = nil
	m.mu.Unlock()

	if srv != nil {
		if err := srv.Shutdown(context.Background()); err != nil {
			m.sink.Emit(i18n.LevelWarn, "network_error", map[string]any{"error": err.Error()})
		}
	}
	// The engine only closes listeners it has seen in Serve. Close ours
	// unconditionally so the port is free for an immediate restart even
	// when the worker never reached Serve.
	if ln != nil {
		ln.Close()
	}

	m.mu.Lock()
	m.state = StateStopped
	m.mu.Unlock()
	m.sink.Emit(i18n.LevelInfo, "server_stopped", nil)
}

// IsRunning reports whether a server handle exists and its worker is still
// alive.
func (m *Manager) IsRunning() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.srv == nil || m.done == nil {
		return false
	}
	select {
	case <-m.done:
		return false
	default:
		return true
	}
}

// State returns the Manager's lifecycle state.
func (m *Manager) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// BoundAddr returns the listener's address while an instance is live, or
// nil. Useful when the configuration requested port 0.
func (m *Manager) BoundAddr() net.Addr {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.ln == nil {
		return nil
	}
	return m.ln.Addr()
}

// LastFailure returns the *RuntimeFailure of the most recent worker
// termination, or nil. Polling adapters use this to observe failures that
// happened without an explicit Stop call.
func (m *Manager) LastFailure() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.failure
}

// logStartupSummary reports the bound address, directories, and the full
// account list with clear-text passwords. The summary is the operator's
// handout for clients on a trusted LAN.
func (m *Manager) logStartupSummary(cfg *config.Config, table *auth.Table, sharedDir, host string, port int) {
	emit := func(key string, params map[string]any) {
		m.sink.Emit(i18n.LevelInfo, key, params)
	}
	emit("ui_separator", nil)
	emit("server_started", nil)
	emit("network_listening_on", map[string]any{"host": host, "port": port})
	emit("network_shared_directory", map[string]any{"path": sharedDir})
	emit("network_config_file", map[string]any{"path": m.configPath})
	emit("network_account_list", nil)
	for _, username := range table.Usernames() {
		entry, _ := table.Lookup(username)
		emit("network_account_entry", map[string]any{
			"username": username,
			"password": entry.Password,
			"home":     entry.Home,
		})
	}
	emit("ui_separator", nil)
	hint := "<server-ip>"
	if addr, ok := netutil.BestEffortLocalAddress(); ok {
		hint = addr
	}
	emit("tip_lan_access", map[string]any{"url": "ftp://" + net.JoinHostPort(hint, strconv.Itoa(port))})
	emit("ui_separator", nil)
}
