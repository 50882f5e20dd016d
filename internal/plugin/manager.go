package plugin

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"sync"

	"github.com/praneethvg/video-summarizer/internal/config"
	"github.com/praneethvg/video-summarizer/internal/events"
	"github.com/praneethvg/video-summarizer/internal/logging"
)

// ErrInstantiation marks a factory failure during Load. The failure is
// recoverable: the offending plugin is excluded and loading continues.
var ErrInstantiation = errors.New("plugin instantiation failed")

// Registration is the outcome of loading one descriptor. Err is set when the
// factory failed; such registrations are reported but never subscribed.
type Registration struct {
	Descriptor Descriptor
	Plugin     Plugin
	Err        error
}

type tableEntry struct {
	descriptor Descriptor
	factory    Factory
}

// Manager owns the plugin registration table and the set of loaded plugins.
type Manager struct {
	deps   Deps
	logger *slog.Logger

	mu     sync.Mutex
	table  map[string]tableEntry
	loaded []Registration
}

// NewManager constructs a manager around the shared dependencies. The
// dispatcher is required; plugins subscribe through it at load time.
func NewManager(deps Deps) (*Manager, error) {
	if deps.Dispatcher == nil {
		return nil, fmt.Errorf("plugin manager requires a dispatcher")
	}
	logger := deps.Logger
	if logger == nil {
		logger = logging.NopLogger()
	}
	return &Manager{
		deps:   deps,
		logger: logging.WithComponent(logger, "plugin"),
		table:  make(map[string]tableEntry),
	}, nil
}

// Register adds a descriptor and its factory to the registration table.
// Registering a name twice replaces the earlier entry; the last registration
// wins.
func (m *Manager) Register(desc Descriptor, factory Factory) error {
	desc.Name = strings.TrimSpace(desc.Name)
	if desc.Name == "" {
		return fmt.Errorf("register: plugin name required")
	}
	if factory == nil {
		return fmt.Errorf("register: factory required for %q", desc.Name)
	}
	if desc.Kind != KindProvider && desc.Kind != KindProcessor {
		return fmt.Errorf("register: unknown kind %q for %q", desc.Kind, desc.Name)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.table[desc.Name]; exists {
		m.logger.Debug("plugin registration replaced", slog.String("plugin", desc.Name))
	}
	m.table[desc.Name] = tableEntry{descriptor: desc, factory: factory}
	return nil
}

// Discover lists the registration table sorted by plugin name. It never
// instantiates anything.
func (m *Manager) Discover() []Descriptor {
	m.mu.Lock()
	defer m.mu.Unlock()

	descriptors := make([]Descriptor, 0, len(m.table))
	for _, entry := range m.table {
		descriptors = append(descriptors, entry.descriptor)
	}
	sort.Slice(descriptors, func(i, j int) bool {
		return descriptors[i].Name < descriptors[j].Name
	})
	return descriptors
}

// Enabled reports whether the policy allows the named plugin to load. A
// non-empty enabled list is authoritative; otherwise the load-all default
// decides. An empty list with the default off loads nothing.
func Enabled(name string, policy config.Plugins) bool {
	if len(policy.Enabled) > 0 {
		for _, enabled := range policy.Enabled {
			if strings.EqualFold(enabled, name) {
				return true
			}
		}
		return false
	}
	return policy.LoadAllByDefault
}

// Load instantiates the descriptors the policy enables, in the order given,
// and subscribes each instance to its declared event types. A factory error
// is logged, recorded on the returned registration, and skipped; the
// remaining descriptors still load. Already-loaded names are not reloaded.
func (m *Manager) Load(ctx context.Context, descriptors []Descriptor, policy config.Plugins) []Registration {
	m.mu.Lock()
	defer m.mu.Unlock()

	results := make([]Registration, 0, len(descriptors))
	for _, desc := range descriptors {
		if ctx.Err() != nil {
			break
		}
		if !Enabled(desc.Name, policy) {
			m.logger.Debug("plugin disabled by policy", slog.String("plugin", desc.Name))
			continue
		}
		if m.isLoadedLocked(desc.Name) {
			continue
		}
		entry, ok := m.table[desc.Name]
		if !ok {
			err := fmt.Errorf("%w: %s: no factory registered", ErrInstantiation, desc.Name)
			m.logger.Warn("plugin load failed", slog.String("plugin", desc.Name), slog.String("error", err.Error()))
			results = append(results, Registration{Descriptor: desc, Err: err})
			continue
		}

		instance, err := entry.factory(m.deps, m.settingsFor(desc.Name))
		if err != nil {
			err = fmt.Errorf("%w: %s: %w", ErrInstantiation, desc.Name, err)
			m.logger.Warn("plugin load failed", slog.String("plugin", desc.Name), slog.String("error", err.Error()))
			results = append(results, Registration{Descriptor: entry.descriptor, Err: err})
			continue
		}

		reg := Registration{Descriptor: entry.descriptor, Plugin: instance}
		m.subscribe(reg)
		m.loaded = append(m.loaded, reg)
		results = append(results, reg)
		m.logger.Info("plugin loaded",
			slog.String("plugin", desc.Name),
			slog.String("kind", string(entry.descriptor.Kind)),
			slog.String("version", entry.descriptor.Version))
	}
	return results
}

// Unload detaches the named plugin from every event type and forgets it.
// Returns false when the plugin is not loaded.
func (m *Manager) Unload(name string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i, reg := range m.loaded {
		if reg.Descriptor.Name == name {
			m.deps.Dispatcher.UnsubscribeAll(name)
			m.loaded = append(m.loaded[:i], m.loaded[i+1:]...)
			m.logger.Info("plugin unloaded", slog.String("plugin", name))
			return true
		}
	}
	return false
}

// Loaded returns the successfully loaded plugins in load order.
func (m *Manager) Loaded() []Registration {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Registration, len(m.loaded))
	copy(out, m.loaded)
	return out
}

// Providers returns the loaded provider plugins in load order.
func (m *Manager) Providers() []Provider {
	m.mu.Lock()
	defer m.mu.Unlock()

	var providers []Provider
	for _, reg := range m.loaded {
		if provider, ok := reg.Plugin.(Provider); ok {
			providers = append(providers, provider)
		}
	}
	return providers
}

func (m *Manager) isLoadedLocked(name string) bool {
	for _, reg := range m.loaded {
		if reg.Descriptor.Name == name {
			return true
		}
	}
	return false
}

func (m *Manager) settingsFor(name string) map[string]any {
	if m.deps.Config == nil {
		return map[string]any{}
	}
	return m.deps.Config.PluginSettings(name)
}

func (m *Manager) subscribe(reg Registration) {
	for _, eventType := range reg.Plugin.SubscribedEvents() {
		handler := pluginHandler{name: reg.Descriptor.Name, plugin: reg.Plugin}
		if err := m.deps.Dispatcher.Subscribe(eventType, handler); err != nil {
			m.logger.Warn("plugin subscription failed",
				slog.String("plugin", reg.Descriptor.Name),
				slog.String("event_type", string(eventType)),
				slog.String("error", err.Error()))
		}
	}
}

// pluginHandler adapts a plugin to the dispatcher's handler contract.
type pluginHandler struct {
	name   string
	plugin Plugin
}

func (h pluginHandler) Name() string { return h.name }

func (h pluginHandler) Handle(ctx context.Context, env events.Envelope) error {
	return h.plugin.Handle(ctx, env)
}
