package app

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/tparrish/hitch/internal/config"
	"github.com/tparrish/hitch/internal/corral"
	"github.com/tparrish/hitch/internal/panel"
	"github.com/tparrish/hitch/internal/prefs"
	"github.com/tparrish/hitch/internal/state"
	"github.com/tparrish/hitch/internal/ui"
	"github.com/tparrish/hitch/internal/workspace"
)

// Options configure the Hitch application.
type Options struct {
	ConfigPath string
	PrefsPath  string // empty uses default ~/.config/hitch/prefs.toml
	PollEvery  int    // seconds; zero uses default
}

// Run boots the Hitch TUI until the context is cancelled.
func Run(ctx context.Context, opts Options) error {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return fmt.Errorf("load corral config: %w", err)
	}

	prefsPath := opts.PrefsPath
	if prefsPath == "" {
		prefsPath = prefs.DefaultPath()
	}
	userPrefs, err := prefs.Load(prefsPath)
	if err != nil {
		return fmt.Errorf("load prefs: %w", err)
	}

	client, err := corral.NewClient(cfg.BaseURL, cfg.PartialPath, cfg.SavePath)
	if err != nil {
		return fmt.Errorf("init corral client: %w", err)
	}

	store := &state.Store{}
	sessions := workspace.NewStore()

	controller := panel.NewController(panel.Options{
		Gateway:   corral.NewGateway(client),
		Loader:    client,
		Workspace: sessions,
		Prefs:     userPrefs,
		PrefsPath: prefsPath,
	})

	interval := defaultPollInterval
	if opts.PollEvery > 0 {
		interval = time.Duration(opts.PollEvery) * time.Second
	}

	// Start background poller and populate the store before the UI draws.
	poller := StartPoller(ctx, store, client, interval)
	controller.Register(refreshOnSave{poller: poller})

	// Bring back the job that was open when the last session ended.
	if _, err := controller.RestoreSession(ctx); err != nil {
		log.Printf("restore panel session: %v", err)
	}

	uiOpts := ui.Options{
		Context:    ctx,
		Controller: controller,
		Store:      store,
		Workspace:  sessions,
		Config:     &cfg,
		PollTick:   interval,
		ThemeName:  userPrefs.Theme,
		PrefsPath:  prefsPath,
	}
	return ui.Run(uiOpts)
}

// refreshOnSave is the panel collaborator that keeps the schedule fresh:
// any successful save kicks an immediate poll so the saved job shows up
// without waiting for the next tick.
type refreshOnSave struct {
	poller *Poller
}

func (r refreshOnSave) JobSaved(string, workspace.Meta) { r.poller.Kick() }
func (r refreshOnSave) JobClosed(string)                {}
