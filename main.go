package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ConserveLee/farm-macro/internal/constants"
	"github.com/ConserveLee/farm-macro/internal/engine"
	"github.com/ConserveLee/farm-macro/internal/engine/input"
	"github.com/ConserveLee/farm-macro/internal/engine/screen"
	"github.com/ConserveLee/farm-macro/internal/hotkey"
	"github.com/ConserveLee/farm-macro/internal/hotkey/native"
	"github.com/ConserveLee/farm-macro/internal/logger"
	"github.com/spf13/cobra"
)

type options struct {
	debug     bool
	display   int
	toggleKey string
	stopKey   string
	sellKey   string
	dumpPath  string

	farmLeft  time.Duration
	farmRight time.Duration
	interval  time.Duration
	clicks    int

	noPests  bool
	cooldown time.Duration
	keywords []string
	region   string
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := &options{}
	cmd := &cobra.Command{
		Use:   "farm-macro",
		Short: "Hotkey-toggled farming macro with OCR pest detection",
		Long: `farm-macro holds the movement keys for the left and right lane of a
farming plot, checks the chat for pest spawn messages between cycles and
attacks when one shows up.

Press the toggle key (F8) to start or stop, Esc to stop unconditionally.`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.Context(), opts)
		},
	}

	defaults := engine.DefaultConfig()
	detector := engine.DefaultDetectorConfig()
	region := detector.Region

	f := cmd.Flags()
	f.BoolVar(&opts.debug, "debug", false, "enable debug logging")
	f.IntVar(&opts.display, "display", 0, "display index the scan region is relative to")
	f.StringVar(&opts.toggleKey, "toggle-key", constants.ToggleKey, "key that starts/stops the macro")
	f.StringVar(&opts.stopKey, "stop-key", constants.EmergencyStopKey, "key that always stops the macro")
	f.StringVar(&opts.sellKey, "sell-key", "", "optional key that switches a running macro to the sell routine")
	f.StringVar(&opts.dumpPath, "dump", "", "save the first scanned region to this PNG file")
	f.DurationVar(&opts.farmLeft, "left", defaults.FarmLeft, "left lane hold duration")
	f.DurationVar(&opts.farmRight, "right", defaults.FarmRight, "right lane hold duration")
	f.DurationVar(&opts.interval, "interval", defaults.LoopInterval, "sleep between state machine iterations")
	f.IntVar(&opts.clicks, "pest-clicks", defaults.PestClicks, "attack clicks per pest kill")
	f.BoolVar(&opts.noPests, "no-pests", false, "disable OCR pest detection")
	f.DurationVar(&opts.cooldown, "ocr-cooldown", detector.Cooldown, "minimum time between two OCR scans")
	f.StringSliceVar(&opts.keywords, "keywords", detector.Keywords, "chat keywords that signal a pest")
	f.StringVar(&opts.region, "region", fmt.Sprintf("%d,%d,%d,%d", region.Min.X, region.Min.Y, region.Max.X, region.Max.Y),
		"chat region to scan: left,top,right,bottom")

	return cmd
}

func (o *options) config() engine.Config {
	cfg := engine.DefaultConfig()
	cfg.FarmLeft = o.farmLeft
	cfg.FarmRight = o.farmRight
	cfg.LoopInterval = o.interval
	cfg.PestClicks = o.clicks
	return cfg
}

func (o *options) detectorConfig() (engine.DetectorConfig, error) {
	cfg := engine.DefaultDetectorConfig()
	cfg.Enabled = !o.noPests
	cfg.Cooldown = o.cooldown
	cfg.Keywords = o.keywords
	region, err := engine.ParseRegion(o.region)
	if err != nil {
		return cfg, err
	}
	cfg.Region = region
	return cfg, nil
}

func run(ctx context.Context, opts *options) error {
	if ctx == nil {
		ctx = context.Background()
	}

	appLogger, err := logger.New(opts.debug)
	if err != nil {
		return err
	}
	defer appLogger.Sync()

	cfg := opts.config()
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	detectorCfg, err := opts.detectorConfig()
	if err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	if err := detectorCfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	// --- Engine ---
	scanner := screen.NewScanner()
	scanner.SetDisplayID(opts.display)
	scanner.SetDebugFunc(appLogger.Debug)
	if opts.dumpPath != "" {
		scanner.EnableDebugDump(opts.dumpPath)
	}
	defer scanner.Close()

	detector := engine.NewPestDetector(scanner, detectorCfg, appLogger)
	macro := engine.NewController(input.NewRobot(), detector, cfg, appLogger)
	macro.SetTransitionFunc(func(from, to engine.State) {
		appLogger.Debug("[%s] -> [%s]", from, to)
	})

	// --- Hotkeys ---
	keys := hotkey.NewManager(appLogger)
	if err := keys.Register(opts.toggleKey, func() {
		if macro.Running() {
			appLogger.Info("Toggling: stop")
		} else {
			appLogger.Info("Toggling: start")
		}
		macro.Toggle()
	}); err != nil {
		return fmt.Errorf("toggle key: %w", err)
	}
	if err := keys.Register(opts.stopKey, func() {
		appLogger.Info("Emergency stop requested")
		macro.Stop()
	}, hotkey.FireOnRepeat()); err != nil {
		return fmt.Errorf("stop key: %w", err)
	}
	if opts.sellKey != "" {
		if err := keys.Register(opts.sellKey, macro.RequestSell); err != nil {
			return fmt.Errorf("sell key: %w", err)
		}
	}

	source, err := native.NewSource(appLogger, keys.Keys()...)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	appLogger.Info("Macro loaded. Press %s to start/stop; %s to emergency-stop.", opts.toggleKey, opts.stopKey)

	// Inputs are released as soon as the hook dies or a signal arrives
	err = keys.Serve(ctx, source, macro.Stop)
	if err != nil {
		appLogger.Error("Hotkey listener failed: %v", err)
	}
	macro.Wait()
	appLogger.Info("Bye.")
	return err
}
