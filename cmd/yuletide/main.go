package main

import (
	"flag"
	"os"
	"runtime"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/Carmen-Shannon/oxy-yuletide/engine"
	"github.com/Carmen-Shannon/oxy-yuletide/engine/loader"
	"github.com/Carmen-Shannon/oxy-yuletide/engine/renderer"
	"github.com/Carmen-Shannon/oxy-yuletide/engine/window"
	"github.com/Carmen-Shannon/oxy-yuletide/internal/config"
	"github.com/Carmen-Shannon/oxy-yuletide/internal/yuletide"
)

func init() {
	// GLFW and the GPU surface must stay on the main thread.
	runtime.LockOSThread()
}

func main() {
	// ---- Flags (explicitly set flags win over yuletide.yaml) ----
	var (
		configPath = flag.String("config", "yuletide.yaml", "path to the YAML config (optional)")
		assets     = flag.String("assets", "", "asset root directory")
		seed       = flag.Int64("seed", 0, "random seed for the tree lights and gift sizes")
		logLevel   = flag.String("log-level", "", "log level: trace | debug | info | warn | error")
	)
	flag.Parse()

	// ---- Logging ----
	zerolog.TimeFieldFormat = time.RFC3339
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.Kitchen})

	// ---- Config ----
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Warn().Err(err).Str("path", *configPath).Msg("config load failed; proceeding with defaults")
		cfg = config.Default()
	}

	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "assets":
			cfg.Assets = *assets
		case "seed":
			cfg.Seed = seed
		case "log-level":
			cfg.LogLevel = *logLevel
		}
	})

	level, err := zerolog.ParseLevel(strings.ToLower(cfg.LogLevel))
	if err != nil || cfg.LogLevel == "" {
		log.Warn().Str("log_level", cfg.LogLevel).Msg("unknown log level, using info")
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	log.Info().
		Str("assets", cfg.Assets).
		Int("width", cfg.Window.Width).
		Int("height", cfg.Window.Height).
		Bool("vsync", cfg.Window.VSync).
		Int("msaa", cfg.Window.MSAA).
		Msg("starting")

	// ---- Window + renderer ----
	win, err := window.NewWindow(
		window.WithTitle(cfg.Window.Title),
		window.WithSize(cfg.Window.Width, cfg.Window.Height),
		window.WithMinSize(320, 240),
	)
	if err != nil {
		log.Fatal().Err(err).Msg("window")
	}

	presentMode := renderer.PresentModeVSync
	if !cfg.Window.VSync {
		presentMode = renderer.PresentModeUncapped
	}
	msaa := renderer.MSAA4x
	if cfg.Window.MSAA == 1 {
		msaa = renderer.MSAAOff
	}
	r, err := renderer.NewRenderer(renderer.BackendTypeWGPU, win,
		renderer.WithPresentMode(presentMode),
		renderer.WithMSAA(msaa),
		renderer.WithForceSoftwareRenderer(cfg.Window.Software),
		renderer.WithLogger(log.Logger),
	)
	if err != nil {
		log.Fatal().Err(err).Msg("renderer")
	}
	defer r.Release()

	// ---- Loader ----
	loaderOpts := []loader.LoaderBuilderOption{loader.WithRoot(cfg.Assets), loader.WithLogger(log.Logger)}
	if cfg.Loader.Workers > 0 {
		loaderOpts = append(loaderOpts, loader.WithWorkers(cfg.Loader.Workers))
	}
	l := loader.NewLoader(loaderOpts...)
	defer l.Close()

	// ---- Scene ----
	app := yuletide.NewApp(
		yuletide.WithLogger(log.Logger),
		yuletide.WithLoader(l),
		yuletide.WithRenderer(r),
		yuletide.WithRandom(yuletide.NewRandom(cfg.Seed)),
		yuletide.WithSize(win.Width(), win.Height()),
	)
	app.Assemble()
	app.Bind(win)
	defer app.Close()

	// ---- Loop ----
	eng := engine.NewEngine(
		engine.WithWindow(win),
		engine.WithLogger(log.Logger),
		engine.WithProfiling(cfg.Profile),
		engine.WithRenderFrameLimit(cfg.FrameLimit),
		engine.WithFrameCallback(app.Frame),
	)
	eng.SetCloseCallback(func() {
		log.Info().Int("pending_loads", app.Pending()).Msg("window closed")
	})
	eng.Run()
}
