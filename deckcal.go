package deckcal

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"

	"github.com/aretw0/deckcal/internal/config"
	"github.com/aretw0/deckcal/internal/logging"
	"github.com/aretw0/deckcal/pkg/adapters/file"
	"github.com/aretw0/deckcal/pkg/adapters/memory"
	"github.com/aretw0/deckcal/pkg/adapters/redis"
	"github.com/aretw0/deckcal/pkg/adapters/sqlite"
	"github.com/aretw0/deckcal/pkg/calibration"
	"github.com/aretw0/deckcal/pkg/domain"
	"github.com/aretw0/deckcal/pkg/modules"
	"github.com/aretw0/deckcal/pkg/persistence/middleware"
	"github.com/aretw0/deckcal/pkg/ports"
	"github.com/aretw0/deckcal/pkg/session"
)

// Deck is the high-level entry point of the library. It places modules on
// the deck and runs calibration sessions against a session store.
type Deck struct {
	loader  *modules.Loader
	manager *session.Manager

	apiLevel    domain.APIVersion
	store       ports.SessionStore
	journal     ports.Journal
	locker      ports.DistributedLocker
	definitions fs.FS
	hooks       domain.LifecycleHooks
	logger      *slog.Logger

	closers []func() error
}

// Option defines a functional option for configuring the Deck.
type Option func(*Deck)

// WithAPILevel sets the api level modules are loaded at. The zero value
// means modules.MaxSupportedVersion.
func WithAPILevel(v domain.APIVersion) Option {
	return func(d *Deck) {
		d.apiLevel = v
	}
}

// WithStore sets the session store (default: in memory).
func WithStore(s ports.SessionStore) Option {
	return func(d *Deck) {
		d.store = s
	}
}

// WithJournal records every submitted command.
func WithJournal(j ports.Journal) Option {
	return func(d *Deck) {
		d.journal = j
	}
}

// WithLocker enables distributed session locking.
func WithLocker(l ports.DistributedLocker) Option {
	return func(d *Deck) {
		d.locker = l
	}
}

// WithDefinitions replaces the bundled module definitions.
func WithDefinitions(fsys fs.FS) Option {
	return func(d *Deck) {
		d.definitions = fsys
	}
}

// WithLifecycleHooks registers observability hooks. Repeated calls merge.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(d *Deck) {
		d.hooks = d.hooks.Merge(hooks)
	}
}

// WithLogger sets a custom structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(d *Deck) {
		d.logger = logger
	}
}

// New creates a Deck. Without options sessions live in memory.
func New(opts ...Option) *Deck {
	d := &Deck{logger: logging.NewNop()}
	for _, opt := range opts {
		opt(d)
	}
	if d.store == nil {
		d.store = memory.NewStore()
	}

	loaderOpts := []modules.LoaderOption{modules.WithLogger(d.logger)}
	if d.definitions != nil {
		loaderOpts = append(loaderOpts, modules.WithFS(d.definitions))
	}
	d.loader = modules.NewLoader(loaderOpts...)

	managerOpts := []session.Option{session.WithLogger(d.logger), session.WithHooks(d.hooks)}
	if d.journal != nil {
		managerOpts = append(managerOpts, session.WithJournal(d.journal))
	}
	if d.locker != nil {
		managerOpts = append(managerOpts, session.WithLocker(d.locker))
	}
	d.manager = session.NewManager(d.store, managerOpts...)
	return d
}

// Open builds a Deck from configuration: store backend (optionally
// encrypted), journal and api level. Options are applied after the configured ones. Call Close when done.
func Open(cfg config.Config, opts ...Option) (*Deck, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	api, _ := cfg.API()
	ttl, _ := cfg.RedisTTL()

	var (
		base    = []Option{WithAPILevel(api)}
		closers []func() error
	)

	var store ports.SessionStore
	switch cfg.Store.Backend {
	case config.BackendMemory:
		store = memory.NewStore()
	case config.BackendFile:
		store = file.New(cfg.Store.Dir)
	case config.BackendRedis:
		rc := cfg.Store.Redis
		rs := redis.New(rc.Addr, rc.Password, rc.DB, redis.WithPrefix(rc.Prefix), redis.WithTTL(ttl))
		store = rs
		base = append(base, WithLocker(redis.NewLocker(rs.Client(), rs.Prefix())))
		closers = append(closers, rs.Close)
	}

	if key, fallback, _ := cfg.EncryptionKeys(); key != nil {
		store = middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{
			ActiveKey:    key,
			FallbackKeys: fallback,
		})(store)
	}
	base = append(base, WithStore(store))

	if cfg.Journal.SQLite != "" {
		j, err := sqlite.Open(cfg.Journal.SQLite)
		if err != nil {
			for _, c := range closers {
				_ = c()
			}
			return nil, err
		}
		base = append(base, WithJournal(j))
		closers = append(closers, j.Close)
	}

	d := New(append(base, opts...)...)
	d.closers = closers
	return d, nil
}

// Close releases backend connections opened by Open.
func (d *Deck) Close() error {
	var errs []error
	for _, c := range d.closers {
		errs = append(errs, c())
	}
	d.closers = nil
	return errors.Join(errs...)
}

// APILevel is the level modules are loaded at.
func (d *Deck) APILevel() domain.APIVersion {
	if d.apiLevel.IsZero() {
		return modules.MaxSupportedVersion
	}
	return d.apiLevel
}

// LoadModule resolves a load name ("magdeck", "Temperature Module GEN2")
// or canonical model and builds it on parent.
func (d *Deck) LoadModule(ctx context.Context, name string, parent domain.Location) (*modules.ModuleGeometry, error) {
	model, err := modules.ResolveModuleModel(name)
	if err != nil {
		// Canonical models are accepted as they are.
		if !modules.Model(name).Known() {
			return nil, err
		}
		model = modules.Model(name)
	}
	m, err := d.loader.LoadModule(ctx, model, parent, d.APILevel())
	if err != nil {
		return nil, err
	}
	d.logger.Debug("Module loaded", "model", string(model), "api_level", d.APILevel().String())
	return m, nil
}

// LoadModuleFromDefinition builds a module from a caller-supplied definition.
func (d *Deck) LoadModuleFromDefinition(ctx context.Context, def modules.Definition, parent domain.Location) (*modules.ModuleGeometry, error) {
	return d.loader.LoadModuleFromDefinition(ctx, def, parent, d.APILevel())
}

// StartSession begins a calibration session.
func (d *Deck) StartSession(ctx context.Context, workflow calibration.Workflow) (*session.Session, error) {
	return d.manager.Start(ctx, workflow)
}

// Send submits a named command to a session.
func (d *Deck) Send(ctx context.Context, sessionID, command string) (*session.Session, error) {
	cmd, ok := calibration.ParseCommand(command)
	if !ok {
		return nil, fmt.Errorf("%w: unknown command %q", domain.ErrInvalidArgument, command)
	}
	return d.manager.Dispatch(ctx, sessionID, cmd)
}

// Session loads a session.
func (d *Deck) Session(ctx context.Context, sessionID string) (*session.Session, error) {
	return d.manager.Load(ctx, sessionID)
}

// Sessions lists stored session IDs.
func (d *Deck) Sessions(ctx context.Context) ([]string, error) {
	return d.manager.List(ctx)
}

// EndSession removes a session from the store.
func (d *Deck) EndSession(ctx context.Context, sessionID string) error {
	return d.manager.Delete(ctx, sessionID)
}

// Journal returns every command submitted to a session.
func (d *Deck) Journal(ctx context.Context, sessionID string) ([]domain.JournalEntry, error) {
	return d.manager.Journal(ctx, sessionID)
}

// AllowedCommands lists what the session accepts next.
func (d *Deck) AllowedCommands(s *session.Session) ([]calibration.Command, error) {
	sm, err := calibration.ForWorkflow(calibration.Workflow(s.Workflow))
	if err != nil {
		return nil, err
	}
	return sm.AllowedCommands(calibration.State(s.State)), nil
}

// Manager exposes the session manager for advanced use.
func (d *Deck) Manager() *session.Manager {
	return d.manager
}
