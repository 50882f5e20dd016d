package plugin_test

import (
	"context"
	"errors"
	"testing"

	"github.com/praneethvg/video-summarizer/internal/config"
	"github.com/praneethvg/video-summarizer/internal/events"
	"github.com/praneethvg/video-summarizer/internal/plugin"
	"github.com/praneethvg/video-summarizer/internal/testsupport"
)

type stubPlugin struct {
	desc       plugin.Descriptor
	subscribed []events.Type
	handled    []events.Envelope
	settings   map[string]any
}

func (s *stubPlugin) Info() plugin.Descriptor         { return s.desc }
func (s *stubPlugin) SubscribedEvents() []events.Type { return s.subscribed }
func (s *stubPlugin) Handle(ctx context.Context, env events.Envelope) error {
	s.handled = append(s.handled, env)
	return nil
}

func newManager(t *testing.T, cfg *config.Config) (*plugin.Manager, *events.Dispatcher) {
	t.Helper()
	dispatcher := events.NewDispatcher(nil)
	mgr, err := plugin.NewManager(plugin.Deps{Config: cfg, Dispatcher: dispatcher})
	if err != nil {
		t.Fatalf("NewManager failed: %v", err)
	}
	return mgr, dispatcher
}

func registerStub(t *testing.T, mgr *plugin.Manager, name string, subscribed ...events.Type) *stubPlugin {
	t.Helper()
	stub := &stubPlugin{
		desc: plugin.Descriptor{
			Name:    name,
			Version: "1.0.0",
			Kind:    plugin.KindProcessor,
		},
		subscribed: subscribed,
	}
	err := mgr.Register(stub.desc, func(deps plugin.Deps, settings map[string]any) (plugin.Plugin, error) {
		stub.settings = settings
		return stub, nil
	})
	if err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	return stub
}

func TestDiscoverSortsByNameWithoutInstantiating(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	mgr, _ := newManager(t, cfg)

	instantiated := false
	for _, name := range []string{"zeta", "alpha", "mid"} {
		desc := plugin.Descriptor{Name: name, Kind: plugin.KindProcessor}
		err := mgr.Register(desc, func(deps plugin.Deps, settings map[string]any) (plugin.Plugin, error) {
			instantiated = true
			return &stubPlugin{desc: desc}, nil
		})
		if err != nil {
			t.Fatalf("Register failed: %v", err)
		}
	}

	descriptors := mgr.Discover()
	if len(descriptors) != 3 {
		t.Fatalf("expected 3 descriptors, got %d", len(descriptors))
	}
	if descriptors[0].Name != "alpha" || descriptors[1].Name != "mid" || descriptors[2].Name != "zeta" {
		t.Fatalf("expected lexical order, got %v", descriptors)
	}
	if instantiated {
		t.Fatal("Discover must not instantiate plugins")
	}
}

func TestRegisterLastWinsForDuplicateName(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	mgr, _ := newManager(t, cfg)

	first := plugin.Descriptor{Name: "dup", Version: "1.0.0", Kind: plugin.KindProcessor}
	second := plugin.Descriptor{Name: "dup", Version: "2.0.0", Kind: plugin.KindProcessor}
	if err := mgr.Register(first, func(plugin.Deps, map[string]any) (plugin.Plugin, error) {
		return &stubPlugin{desc: first}, nil
	}); err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	if err := mgr.Register(second, func(plugin.Deps, map[string]any) (plugin.Plugin, error) {
		return &stubPlugin{desc: second}, nil
	}); err != nil {
		t.Fatalf("Register failed: %v", err)
	}

	descriptors := mgr.Discover()
	if len(descriptors) != 1 || descriptors[0].Version != "2.0.0" {
		t.Fatalf("expected last registration to win, got %v", descriptors)
	}
}

func TestLoadHonorsEnabledList(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithPluginPolicy([]string{"wanted"}, true))
	mgr, _ := newManager(t, cfg)
	registerStub(t, mgr, "wanted")
	registerStub(t, mgr, "unwanted")

	results := mgr.Load(context.Background(), mgr.Discover(), cfg.Plugins)

	if len(results) != 1 || results[0].Descriptor.Name != "wanted" || results[0].Err != nil {
		t.Fatalf("expected only wanted to load, got %v", results)
	}
	loaded := mgr.Loaded()
	if len(loaded) != 1 || loaded[0].Descriptor.Name != "wanted" {
		t.Fatalf("unexpected loaded set: %v", loaded)
	}
}

func TestLoadAllByDefault(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithPluginPolicy(nil, true))
	mgr, _ := newManager(t, cfg)
	registerStub(t, mgr, "one")
	registerStub(t, mgr, "two")

	results := mgr.Load(context.Background(), mgr.Discover(), cfg.Plugins)
	if len(results) != 2 {
		t.Fatalf("expected both plugins to load, got %v", results)
	}
}

func TestLoadNothingWhenPolicyEmpty(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithPluginPolicy(nil, false))
	mgr, _ := newManager(t, cfg)
	registerStub(t, mgr, "one")

	results := mgr.Load(context.Background(), mgr.Discover(), cfg.Plugins)
	if len(results) != 0 {
		t.Fatalf("expected nothing to load, got %v", results)
	}
	if len(mgr.Loaded()) != 0 {
		t.Fatalf("expected empty loaded set, got %v", mgr.Loaded())
	}
}

func TestLoadIsolatesFactoryFailure(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithPluginPolicy(nil, true))
	mgr, _ := newManager(t, cfg)

	broken := plugin.Descriptor{Name: "broken", Kind: plugin.KindProcessor}
	if err := mgr.Register(broken, func(plugin.Deps, map[string]any) (plugin.Plugin, error) {
		return nil, errors.New("missing credential")
	}); err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	registerStub(t, mgr, "healthy")

	results := mgr.Load(context.Background(), mgr.Discover(), cfg.Plugins)

	if len(results) != 2 {
		t.Fatalf("expected both attempts reported, got %v", results)
	}
	var brokenReg, healthyReg *plugin.Registration
	for i := range results {
		switch results[i].Descriptor.Name {
		case "broken":
			brokenReg = &results[i]
		case "healthy":
			healthyReg = &results[i]
		}
	}
	if brokenReg == nil || !errors.Is(brokenReg.Err, plugin.ErrInstantiation) {
		t.Fatalf("expected instantiation error for broken, got %v", brokenReg)
	}
	if healthyReg == nil || healthyReg.Err != nil {
		t.Fatalf("expected healthy to load, got %v", healthyReg)
	}
	loaded := mgr.Loaded()
	if len(loaded) != 1 || loaded[0].Descriptor.Name != "healthy" {
		t.Fatalf("expected only healthy in loaded set, got %v", loaded)
	}
}

func TestLoadSubscribesInLoadOrder(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithPluginPolicy(nil, true))
	mgr, dispatcher := newManager(t, cfg)
	first := registerStub(t, mgr, "aaa", events.TypeSummaryCreated)
	second := registerStub(t, mgr, "bbb", events.TypeSummaryCreated)

	mgr.Load(context.Background(), mgr.Discover(), cfg.Plugins)

	names := dispatcher.SubscriberNames(events.TypeSummaryCreated)
	if len(names) != 2 || names[0] != "aaa" || names[1] != "bbb" {
		t.Fatalf("unexpected subscription order: %v", names)
	}

	dispatcher.Publish(context.Background(), events.NewEnvelope(events.TypeSummaryCreated, "test", nil))
	if len(first.handled) != 1 || len(second.handled) != 1 {
		t.Fatalf("expected both plugins to receive the event: %d %d", len(first.handled), len(second.handled))
	}
}

func TestLoadPassesSettingsBlock(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithPluginPolicy(nil, true))
	cfg.Plugins.Settings = map[string]map[string]any{
		"tuned": {"threshold": int64(3)},
	}
	mgr, _ := newManager(t, cfg)
	stub := registerStub(t, mgr, "tuned")

	mgr.Load(context.Background(), mgr.Discover(), cfg.Plugins)

	if stub.settings == nil {
		t.Fatal("expected settings to be passed to factory")
	}
	if v, ok := stub.settings["threshold"]; !ok || v != int64(3) {
		t.Fatalf("unexpected settings: %v", stub.settings)
	}
}

func TestLoadSkipsAlreadyLoaded(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithPluginPolicy(nil, true))
	mgr, _ := newManager(t, cfg)
	registerStub(t, mgr, "once")

	if results := mgr.Load(context.Background(), mgr.Discover(), cfg.Plugins); len(results) != 1 {
		t.Fatalf("expected first load to report one plugin, got %v", results)
	}
	if results := mgr.Load(context.Background(), mgr.Discover(), cfg.Plugins); len(results) != 0 {
		t.Fatalf("expected second load to be a no-op, got %v", results)
	}
	if len(mgr.Loaded()) != 1 {
		t.Fatalf("expected one loaded plugin, got %v", mgr.Loaded())
	}
}

func TestUnloadRemovesSubscriptions(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithPluginPolicy(nil, true))
	mgr, dispatcher := newManager(t, cfg)
	stub := registerStub(t, mgr, "temp", events.TypeVideoDownloaded, events.TypeSummaryCreated)

	mgr.Load(context.Background(), mgr.Discover(), cfg.Plugins)
	if !mgr.Unload("temp") {
		t.Fatal("expected Unload to report success")
	}

	dispatcher.Publish(context.Background(), events.NewEnvelope(events.TypeVideoDownloaded, "test", nil))
	dispatcher.Publish(context.Background(), events.NewEnvelope(events.TypeSummaryCreated, "test", nil))
	if len(stub.handled) != 0 {
		t.Fatalf("expected no deliveries after unload, got %d", len(stub.handled))
	}
	if mgr.Unload("temp") {
		t.Fatal("expected second Unload to report not loaded")
	}
	if len(mgr.Loaded()) != 0 {
		t.Fatalf("expected empty loaded set, got %v", mgr.Loaded())
	}
}

func TestEnabledPolicy(t *testing.T) {
	cases := []struct {
		name    string
		enabled []string
		loadAll bool
		plugin  string
		want    bool
	}{
		{"explicit enable", []string{"a"}, false, "a", true},
		{"explicit list excludes others", []string{"a"}, true, "b", false},
		{"load all default", nil, true, "anything", true},
		{"nothing enabled", nil, false, "anything", false},
		{"case insensitive", []string{"Sentiment"}, false, "sentiment", true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			policy := config.Plugins{Enabled: tc.enabled, LoadAllByDefault: tc.loadAll}
			if got := plugin.Enabled(tc.plugin, policy); got != tc.want {
				t.Fatalf("Enabled(%q) = %v, want %v", tc.plugin, got, tc.want)
			}
		})
	}
}
