package app

import (
	"errors"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/caddyserver/caddy/v2"
	"go.uber.org/zap"

	"github.com/imgk/caddy-cstring/arena"
	"github.com/imgk/caddy-cstring/cstring"
)

func init() {
	caddy.RegisterModule(App{})
}

// CaddyAppID is ...
const CaddyAppID = "cstring"

// ErrUnknownHandle is returned for IDs that were never issued or whose
// handle is already destroyed.
var ErrUnknownHandle = errors.New("unknown C string handle")

// Entry is a live handle as seen through the app.
type Entry struct {
	ID      arena.ID `json:"id"`
	Content string   `json:"content"`
}

// App keeps C string handles on behalf of remote callers. Handles are
// addressed by arena IDs, so a destroyed handle can never be reached again.
type App struct {
	// Debug turns on misuse detection in the provider.
	Debug bool `json:"debug,omitempty"`
	// Output is where printed strings go: stdout, stderr or discard.
	Output string `json:"output,omitempty"`

	*store

	lg *zap.Logger
}

// store serialises access to the provider, which does no locking of its own.
type store struct {
	mu       sync.Mutex
	provider *cstring.Provider
	handles  *arena.Arena[cstring.Handle]
}

// NewApp returns an App that uses p. It is ready without Provision.
func NewApp(p *cstring.Provider) *App {
	app := &App{}
	app.setup(p, zap.NewNop())
	return app
}

// CaddyModule is ...
func (App) CaddyModule() caddy.ModuleInfo {
	return caddy.ModuleInfo{
		ID:  CaddyAppID,
		New: func() caddy.Module { return new(App) },
	}
}

// Provision is ...
func (app *App) Provision(ctx caddy.Context) error {
	lg := ctx.Logger(app)

	out, err := openOutput(app.Output)
	if err != nil {
		return err
	}

	opts := []cstring.Option{
		cstring.WithLogger(lg),
		cstring.WithOutput(out),
		cstring.WithDebug(app.Debug),
	}
	if reg := ctx.GetMetricsRegistry(); reg != nil {
		m, err := cstring.NewMetrics(reg)
		if err != nil {
			return fmt.Errorf("register cstring metrics error: %w", err)
		}
		opts = append(opts, cstring.WithMetrics(m))
	}

	app.setup(cstring.NewProvider(opts...), lg)
	return nil
}

func (app *App) setup(p *cstring.Provider, lg *zap.Logger) {
	app.store = &store{
		provider: p,
		handles:  arena.New[cstring.Handle](),
	}
	app.lg = lg
}

func openOutput(name string) (io.Writer, error) {
	switch name {
	case "", "stdout":
		return os.Stdout, nil
	case "stderr":
		return os.Stderr, nil
	case "discard":
		return io.Discard, nil
	default:
		return nil, fmt.Errorf("unknown output: %s", name)
	}
}

// Start is ...
func (app *App) Start() error {
	return nil
}

// Stop destroys every handle that is still live.
func (app *App) Stop() error {
	app.mu.Lock()
	defer app.mu.Unlock()

	n := app.handles.Len()
	app.handles.Drain(func(_ arena.ID, h cstring.Handle) {
		app.provider.Destroy(h)
	})
	if n > 0 {
		app.lg.Info("destroyed live C strings on stop", zap.Int("count", n))
	}
	return nil
}

// Create makes a new handle and returns its ID.
func (app *App) Create() arena.ID {
	app.mu.Lock()
	defer app.mu.Unlock()

	return app.handles.Insert(app.provider.Create())
}

// Use prints the handle under id and returns its content.
func (app *App) Use(id arena.ID) (string, error) {
	app.mu.Lock()
	defer app.mu.Unlock()

	h, ok := app.handles.Get(id)
	if !ok {
		return "", fmt.Errorf("use %v error: %w", id, ErrUnknownHandle)
	}
	app.provider.Use(h)
	return app.provider.String(h), nil
}

// Destroy releases the handle under id.
func (app *App) Destroy(id arena.ID) error {
	app.mu.Lock()
	defer app.mu.Unlock()

	h, ok := app.handles.Remove(id)
	if !ok {
		return fmt.Errorf("destroy %v error: %w", id, ErrUnknownHandle)
	}
	app.provider.Destroy(h)
	return nil
}

// List returns every live handle in slot order.
func (app *App) List() []Entry {
	app.mu.Lock()
	defer app.mu.Unlock()

	entries := make([]Entry, 0, app.handles.Len())
	app.handles.Range(func(id arena.ID, h cstring.Handle) bool {
		entries = append(entries, Entry{ID: id, Content: app.provider.String(h)})
		return true
	})
	return entries
}

// Stats is ...
func (app *App) Stats() cstring.Stats {
	return app.provider.Stats()
}

var (
	_ caddy.App         = (*App)(nil)
	_ caddy.Provisioner = (*App)(nil)
)
