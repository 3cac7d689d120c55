package main

import (
	"context"
	"embed"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"fyne.io/fyne/v2/app"
	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	"BossTimers/catalog"
	"BossTimers/config"
	"BossTimers/dispatch"
	"BossTimers/i18n"
	"BossTimers/ui"
)

//go:embed assets/*
var content embed.FS

const embeddedCatalog = "assets/bosses.json"

func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf("No .env file loaded: %v", err)
	}

	configPath := flag.String("config", "bosstimers.yaml", "path to the settings file")
	headless := flag.Bool("headless", false, "run without windows and log timers instead")
	boss := flag.String("boss", "", "boss whose encounter starts immediately (headless only)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	cfg.ApplyEnv()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid config: %v", err)
	}
	i18n.Setup(cfg.Language)

	cat, err := loadCatalog(cfg)
	if err != nil {
		log.Fatalf("Failed to load bosses: %v", err)
	}
	for _, d := range cat.DanglingTriggers() {
		log.Printf("Triggered skill not in catalog: %s", d)
	}
	for _, u := range cat.UnknownConditions() {
		log.Printf("Skill with unknown trigger condition will never start: %s", u)
	}
	log.Printf("Loaded %d bosses.", len(cat.BossNames()))

	if *headless {
		if err := runHeadless(cfg, cat, *boss); err != nil {
			log.Fatalf("Headless run failed: %v", err)
		}
		return
	}
	runWindowed(cfg, cat)
}

func loadCatalog(cfg config.Config) (*catalog.Catalog, error) {
	if cfg.DataFile != "" {
		return catalog.Load(cfg.DataFile)
	}
	log.Printf("No data file configured, using the built-in bosses")
	return catalog.LoadFrom(content, embeddedCatalog)
}

func runHeadless(cfg config.Config, cat *catalog.Catalog, boss string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a := NewAppManager(cfg, cat, dispatch.LogOverlay{}, nil)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return a.Run(gctx)
	})
	g.Go(func() error {
		if boss != "" {
			if err := a.SelectBoss(boss); err != nil {
				return err
			}
			if err := a.StartEncounter(); err != nil {
				return err
			}
		}
		<-gctx.Done()
		return nil
	})
	return g.Wait()
}

func runWindowed(cfg config.Config, cat *catalog.Catalog) {
	fyneApp := app.New()
	fyneApp.Settings().SetTheme(ui.NewCustomTheme(0))

	overlay := ui.NewOverlay(fyneApp)
	a := NewAppManager(cfg, cat, overlay, nil)
	overlay.OnStopRequest(func(id string) {
		if err := a.StopTimer(id); err != nil {
			log.Printf("Stop timer %s: %v", id, err)
		}
	})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		if err := a.Run(ctx); err != nil {
			log.Printf("Dispatcher stopped: %v", err)
		}
	}()

	m := ui.CreateMainWindow(a, fyneApp)
	m.Window.SetMaster()
	m.Window.SetOnClosed(cancel)
	overlay.Window().Show()

	m.Window.ShowAndRun()
	cancel()
	<-done
}
