package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"configurator/internal/agent"
	"configurator/internal/asset"
	"configurator/internal/camera"
	"configurator/internal/catalog"
	"configurator/internal/commands"
	"configurator/internal/debug"
	"configurator/internal/engineconfig"
	"configurator/internal/env"
	"configurator/internal/fonts"
	"configurator/internal/graphics"
	"configurator/internal/llm"
	"configurator/internal/logger"
	"configurator/internal/phase"
	"configurator/internal/scene"
	"configurator/internal/terminal"
	"configurator/internal/ui"
)

const (
	windowTitle = "Configurator"
	aiTimeout   = 60 * time.Second
)

type options struct {
	config   string
	envFile  string
	assets   string
	catalog  string
	windowed bool
}

func main() {
	var o options
	root := &cobra.Command{
		Use:          "configurator",
		Short:        "Interactive 3D vehicle configurator",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.Context(), o)
		},
	}
	pf := root.PersistentFlags()
	pf.StringVar(&o.config, "config", engineconfig.EngineConfigPath, "preferences file")
	pf.StringVar(&o.envFile, "env", ".env", "dotenv file with API keys")
	pf.StringVar(&o.assets, "assets", "", "directory of local vehicle models (overrides asset_dir)")
	pf.StringVar(&o.catalog, "catalog", "", "variant catalog YAML (overrides catalog_path)")
	root.Flags().BoolVar(&o.windowed, "windowed", false, "start windowed even if fullscreen is saved")

	root.AddCommand(&cobra.Command{
		Use:   "catalog",
		Short: "List the variants and their options",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			prefs, _ := loadPrefs(o)
			cat, err := loadCatalog(prefs)
			if err != nil {
				return err
			}
			printCatalog(cmd.OutOrStdout(), cat)
			return nil
		},
	})
	root.AddCommand(&cobra.Command{
		Use:   "prefetch",
		Short: "Download and decode every vehicle model without opening a window",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return prefetch(cmd.Context(), cmd.OutOrStdout(), o)
		},
	})

	if err := root.ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}

// loadPrefs reads preferences and applies the command-line overrides. A broken file still
// yields usable defaults alongside the error.
func loadPrefs(o options) (engineconfig.EnginePrefs, error) {
	prefs, err := engineconfig.LoadFile(o.config)
	if o.assets != "" {
		prefs.AssetDir = o.assets
	}
	if o.catalog != "" {
		prefs.CatalogPath = o.catalog
	}
	return prefs, err
}

func loadCatalog(prefs engineconfig.EnginePrefs) (*catalog.Catalog, error) {
	if prefs.CatalogPath == "" {
		return catalog.Embedded()
	}
	return catalog.LoadFile(prefs.CatalogPath)
}

func run(ctx context.Context, o options) error {
	log := logger.New()
	defer log.Close()
	if err := env.Load(o.envFile); err != nil {
		log.Error(err, "env file unreadable", "path", o.envFile)
	}
	prefs, err := loadPrefs(o)
	if err != nil {
		log.Error(err, "preferences unreadable, using defaults")
	}
	cat, err := loadCatalog(prefs)
	if err != nil {
		return fmt.Errorf("catalog: %w", err)
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	store := phase.NewStore(cat, phase.WithSettleDelay(time.Duration(prefs.SettleMS)*time.Millisecond))
	last := store.Phase()
	store.Subscribe(func(st phase.State) {
		if st.Phase != last {
			log.Info("phase", "from", last.String(), "to", st.Phase.String(), "vehicle", string(st.Selected))
			last = st.Phase
		}
	})
	loader := asset.NewLoader(ctx, log, asset.WithAssetDir(prefs.AssetDir), asset.WithCacheDir(prefs.CacheDir))
	cam := camera.NewController(camera.WidePose,
		camera.WithSmoothing(prefs.CameraSmoothing),
		camera.WithFrameIndependence(prefs.FrameIndependent))
	overlay := ui.New()
	scn := scene.New(store, loader, cam, overlay, log)

	dbg := debug.New()
	dbg.Camera = scn.DescribeView
	dbg.Pending = loader.Pending

	reg := commands.NewRegistry()
	term := terminal.New(log, reg)
	save := func(p engineconfig.EnginePrefs) error { return engineconfig.SaveFile(o.config, p) }
	window := graphics.Window{
		Title:      windowTitle,
		Width:      prefs.WindowWidth,
		Height:     prefs.WindowHeight,
		Fullscreen: prefs.Fullscreen && !o.windowed,
		TargetFPS:  prefs.TargetFPS,
	}

	finder := fonts.NewFinder()
	loadFont := func(family string) {
		go func() {
			path, err := finder.Resolve(ctx, family)
			if err != nil {
				log.Error(err, "font unavailable", "family", family)
				return
			}
			store.Dispatch(func(*phase.Store) {
				if err := overlay.LoadFont(path); err != nil {
					log.Error(err, "font could not be loaded", "path", path)
					return
				}
				term.SetFont(overlay.Font())
				dbg.SetFont(overlay.Font())
				prefs.UIFont = family
				if err := save(prefs); err != nil {
					log.Error(err, "save preferences")
				}
				log.Info("font loaded", "family", family)
			})
		}()
	}

	commands.RegisterConfigurator(reg, commands.Deps{
		Store:         store,
		Log:           log,
		Prefs:         &prefs,
		SavePrefs:     save,
		DescribeView:  scn.DescribeView,
		ResetOrbit:    scn.ResetOrbit,
		SetFullscreen: func(on bool) { graphics.SetFullscreen(on, window) },
		LoadFont:      loadFont,
	})

	keys := llm.Keys{
		OpenAI:  env.First("OPENAI_API_KEY"),
		Groq:    env.First("GROQ_API_KEY"),
		BaseURL: prefs.AIBaseURL,
	}
	// The model preference is owned by the render thread.
	model := func() string {
		ch := make(chan string, 1)
		store.Dispatch(func(*phase.Store) { ch <- prefs.AIModel })
		select {
		case m := <-ch:
			return m
		case <-ctx.Done():
			return ""
		}
	}
	assistant := agent.New(llm.FromKeys(keys), model, agent.BuildPrompt(cat))
	agent.RegisterConfiguratorHandlers(assistant, store, reg, log)
	term.ViewContext = func() string { return agent.ViewContext(store.State(), cat) }
	term.OnNaturalLanguage = func(line, view string) {
		rctx, done := context.WithTimeout(ctx, aiTimeout)
		defer done()
		summary, err := assistant.Run(rctx, line, view)
		if err != nil {
			log.Error(err, "assistant failed")
			return
		}
		log.Log("assistant: " + summary)
	}

	if prefs.UIFont != "" {
		loadFont(prefs.UIFont)
	}
	log.Info("configurator started", "variants", cat.Len(), "assets", prefs.AssetDir,
		"assistant", strings.Join(assistant.Actions(), ","))

	update := func(dt float32) {
		term.Update()
		scn.PointerBlocked = term.IsOpen()
		scn.Update(dt)
		dbg.ShowFPS, dbg.ShowMemAlloc, dbg.ShowCamera = prefs.ShowFPS, prefs.ShowMemAlloc, prefs.ShowCamera
	}
	draw := func() {
		scn.Draw()
		term.Draw()
		dbg.Draw()
	}
	graphics.Run(window, update, draw, scn.Unload)
	return nil
}
