// Package main contains the application wiring and the AppManager which
// connects the catalog, the trigger worker, the dispatcher loop, audio and
// the UI.
//
// Maintenance notes / tips:
//   - Concurrency model: all timer state lives on the dispatcher goroutine
//     (see dispatch.Dispatcher.Run). The UI never touches a timer directly;
//     it posts commands and waits briefly for the reply.
//   - Image conditions are checked on the trigger worker goroutine so a slow
//     screen capture never delays ticks. Results come back over a channel
//     the dispatcher selects on.
//   - The catalog is loaded once before NewAppManager and is read-only
//     afterwards.
package main

import (
	"context"
	"errors"
	"log"
	"os"
	"sync"
	"time"

	"BossTimers/audio"
	"BossTimers/catalog"
	"BossTimers/config"
	"BossTimers/control"
	"BossTimers/dispatch"
	"BossTimers/screen"
	"BossTimers/trigger"
)

// replyTimeout bounds how long a UI action waits for the dispatcher.
const replyTimeout = 200 * time.Millisecond

// AppManager is the main application struct, holding all state.
type AppManager struct {
	catalog    *catalog.Catalog
	dispatcher *dispatch.Dispatcher
	worker     *trigger.Worker
	player     *audio.Player
	logger     *log.Logger

	mu       sync.Mutex
	selected string
}

// NewAppManager wires the check worker, audio and dispatcher for cat.
// Nothing runs until Run is called.
func NewAppManager(cfg config.Config, cat *catalog.Catalog, overlay dispatch.Overlay, logger *log.Logger) *AppManager {
	if logger == nil {
		logger = log.Default()
	}

	matcher := screen.NewMatcher(screen.Options{
		Dir:       cfg.ImageDir,
		Threshold: cfg.MatchThreshold,
		Scale:     cfg.MatchScale,
		Capturer:  capturerFor(cfg, logger),
		Logger:    logger,
	})
	worker := trigger.NewWorker(trigger.NewEvaluator(matcher.MatchImage, logger), trigger.WorkerOptions{
		Capacity:    cfg.QueueCapacity,
		StopTimeout: cfg.StopTimeout,
		Logger:      logger,
	})

	player := audio.NewPlayer(os.DirFS(cfg.SoundDir), logger)
	if sounds := alertSounds(cat); len(sounds) > 0 {
		if err := player.Init(); err != nil {
			logger.Printf("Audio disabled: %v", err)
		}
		n := player.Preload(sounds)
		logger.Printf("Loaded %d of %d alert sounds", n, len(sounds))
	}

	a := &AppManager{
		catalog: cat,
		worker:  worker,
		player:  player,
		logger:  logger,
	}
	a.dispatcher = dispatch.New(dispatch.Options{
		Catalog:         cat,
		Checks:          worker,
		Overlay:         overlay,
		Alerter:         player,
		TickInterval:    cfg.TickInterval,
		MaxCascadeDepth: cfg.MaxCascadeDepth,
		Logger:          logger,
	})
	return a
}

// Run starts the worker and the dispatcher loop and blocks until ctx is
// cancelled. The worker is stopped before Run returns.
func (a *AppManager) Run(ctx context.Context) error {
	a.worker.Start()
	err := a.dispatcher.Run(ctx)
	if stopErr := a.worker.Stop(); stopErr != nil && !errors.Is(stopErr, trigger.ErrStopTimeout) {
		err = errors.Join(err, stopErr)
	}
	return err
}

func (a *AppManager) do(cmd control.Command) error {
	ctx, cancel := context.WithTimeout(context.Background(), replyTimeout)
	defer cancel()
	return a.dispatcher.Do(ctx, cmd)
}

// BossNames returns the catalog's bosses in order.
func (a *AppManager) BossNames() []string {
	return a.catalog.BossNames()
}

func (a *AppManager) Boss(name string) (catalog.Boss, bool) {
	return a.catalog.Boss(name)
}

// SelectBoss makes name the target of later skill and encounter commands.
func (a *AppManager) SelectBoss(name string) error {
	if err := a.do(control.Command{Type: control.CmdSelectBoss, Boss: name}); err != nil {
		return err
	}
	a.mu.Lock()
	a.selected = name
	a.mu.Unlock()
	return nil
}

func (a *AppManager) StartSkill(name string) error {
	return a.do(control.Command{Type: control.CmdStartSkill, Skill: name})
}

func (a *AppManager) StartEncounter() error {
	return a.do(control.Command{Type: control.CmdStartEncounter})
}

// StopTimer ends one running timer early. It never cascades.
func (a *AppManager) StopTimer(id string) error {
	return a.do(control.Command{Type: control.CmdStopTimer, TimerID: id})
}

// Timers lists the running timers in start order.
func (a *AppManager) Timers() ([]control.TimerInfo, error) {
	ctx, cancel := context.WithTimeout(context.Background(), replyTimeout)
	defer cancel()
	return a.dispatcher.Timers(ctx)
}

func (a *AppManager) StopAll() error {
	return a.do(control.Command{Type: control.CmdStopAll})
}

// HandleKeyRune handles key presses for the application: space starts the
// encounter, r stops everything and 1-9 start the matching skill row.
func (a *AppManager) HandleKeyRune(r rune) {
	var err error
	switch {
	case r == ' ':
		err = a.StartEncounter()
	case r == 'r' || r == 'R':
		err = a.StopAll()
	case r >= '1' && r <= '9':
		a.mu.Lock()
		boss := a.selected
		a.mu.Unlock()
		skills := a.catalog.ListSkills(boss)
		if i := int(r - '1'); i < len(skills) {
			err = a.StartSkill(skills[i].Name)
		}
	}
	if err != nil {
		a.logger.Printf("Key %q: %v", r, err)
	}
}

// capturerFor captures the configured region, or the whole display when no
// region is set.
func capturerFor(cfg config.Config, logger *log.Logger) screen.Capturer {
	if r, ok := cfg.Region(); ok {
		logger.Printf("Matching images inside screen region %v", r)
		return screen.NewRegionCapturer(r)
	}
	return screen.DisplayCapturer{Display: cfg.CaptureDisplay}
}

// alertSounds lists each distinct alert sound in catalog order.
func alertSounds(cat *catalog.Catalog) []string {
	seen := make(map[string]bool)
	var out []string
	for _, b := range cat.BossNames() {
		for _, s := range cat.ListSkills(b) {
			if s.AlertSound == "" || seen[s.AlertSound] {
				continue
			}
			seen[s.AlertSound] = true
			out = append(out, s.AlertSound)
		}
	}
	return out
}
