package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/AlecAivazis/survey/v2"
	"github.com/spf13/cobra"

	core "github.com/orbitalarena/simcore/internal/core"
	"github.com/orbitalarena/simcore/internal/reporting"
	"github.com/orbitalarena/simcore/pkg/logger"
	"github.com/orbitalarena/simcore/pkg/orbitaladapter"
	"github.com/orbitalarena/simcore/pkg/physicsref"
	"github.com/orbitalarena/simcore/pkg/prefs"
	"github.com/orbitalarena/simcore/pkg/scenario"
	"github.com/orbitalarena/simcore/pkg/simconfig"
	"github.com/orbitalarena/simcore/pkg/store"
)

const observerSentinel = "__observer__"

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run a scenario headless",
	Long:  `Loads a scenario, selects a player (or observer mode), and drives the tick loop until interrupted.`,
	RunE:  runHeadless,
}

func init() {
	runCmd.Flags().StringP("scenario", "s", "", "scenario source (file path or http(s) URL)")
	runCmd.Flags().StringP("player", "p", "", "preferred player entity id, or __observer__")
	runCmd.Flags().Float64("tick-hz", 60, "wall-clock tick rate in Hz")
}

func runHeadless(cmd *cobra.Command, _ []string) error {
	cfg, err := loadRunConfig(cmd)
	if err != nil {
		return err
	}

	tickHz, _ := cmd.Flags().GetFloat64("tick-hz")
	playerFlag, _ := cmd.Flags().GetString("player")

	c, initResult, err := buildAndInit(cmd.Context(), cfg, playerFlag)
	if err != nil {
		return err
	}

	el := reporting.NewEventLogger()
	logger.LogSection("Run started")
	logger.LogKeyValue("entities", initResult.EntityCount)
	logger.LogKeyValue("observer_mode", initResult.ObserverMode)

	applyPersistedVizPrefs(c)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigChan
		logger.Warn("received interrupt signal, stopping run...")
		cancel()
	}()

	driveTickLoop(ctx, c, tickHz, el, nil)

	return saveRunReport(cfg, el, c)
}

// loadRunConfig runs simconfig's three-tier pipeline and applies the
// run command's own CLI overrides on top.
func loadRunConfig(cmd *cobra.Command) (*simconfig.SimulationConfig, error) {
	scenarioFlag, _ := cmd.Flags().GetString("scenario")

	cfg, err := simconfig.LoadConfigWithOverrides(cfgFile, simconfig.CLIOverrides{
		ScenarioSource: scenarioFlag,
		LogLevel:       logLevel,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	if cfg.ScenarioSource == "" {
		var path string
		prompt := &survey.Input{Message: "Scenario source (file path or URL):"}
		if err := survey.AskOne(prompt, &path, survey.WithValidator(survey.Required)); err != nil {
			return nil, err
		}
		cfg.ScenarioSource = path
	}

	return cfg, nil
}

// buildAndInit wires the reference external-collaborator adapters,
// constructs a Core, registers the standard ECS system order, and
// calls Init against the configured scenario source.
func buildAndInit(ctx context.Context, cfg *simconfig.SimulationConfig, playerFlag string) (*core.Core, *core.InitResult, error) {
	world := core.NewWorld(2451545.0)
	// The per-component systems (ai/control/physics/sensors/weapons/
	// cyber/comm/events/visualization) are external collaborators; a
	// real host registers its own Step implementations here.
	// These no-op placeholders keep the standard system order present
	// and exercised by the orchestrator's tick loop for a headless run.
	for _, name := range core.StandardSystemOrder {
		world.AddSystem(core.System{Name: name, Step: func(dt float64, w *core.World) {}})
	}

	flight := physicsref.NewFlightIntegrator()
	propagator := orbitaladapter.NewPropagator()
	solvers := orbitaladapter.NewSolvers()
	sun := physicsref.NewHeliocentricSunSource()
	elevation := physicsref.NewSyntheticElevationSource()

	c := core.NewCore(world, flight, propagator, solvers, sun, elevation)

	loader := scenario.NewLoader(cfg.ScenarioSchemaConstraint)

	playerID, err := resolvePlayerID(playerFlag)
	if err != nil {
		return nil, nil, err
	}

	res, initErr := c.Init(ctx, loader, cfg.ScenarioSource, playerID)
	if initErr != nil {
		return nil, nil, fmt.Errorf("init failed: %w", initErr)
	}

	return c, res, nil
}

// resolvePlayerID returns the --player flag value if set, otherwise
// prompts interactively for an entity id and falls back to observer
// mode on a blank answer. Init itself tolerates an unknown id by
// falling back to observer mode, so this never hard-fails.
func resolvePlayerID(playerFlag string) (string, error) {
	if playerFlag != "" {
		return playerFlag, nil
	}

	var answer string
	prompt := &survey.Input{
		Message: "Player entity id (blank for observer mode):",
	}
	if err := survey.AskOne(prompt, &answer); err != nil {
		return "", err
	}
	if answer == "" {
		return observerSentinel, nil
	}
	return answer, nil
}

// applyPersistedVizPrefs seeds the visualization plane's global flags
// from the user's saved preferences blob.
func applyPersistedVizPrefs(c *core.Core) {
	p := prefs.NewService().Get()
	c.Viz.Global = core.GlobalVizFlags{
		Orbits:  p.VizOrbits,
		Trails:  p.VizTrails,
		Labels:  p.VizLabels,
		Sensors: p.VizSensors,
		Comms:   p.VizComms,
	}
}

// driveTickLoop advances c at tickHz until ctx is cancelled. If
// publish is non-nil, it is called after each tick with the current
// sim time for a renderer bridge to push frames.
func driveTickLoop(ctx context.Context, c *core.Core, tickHz float64, el *reporting.EventLogger, publish func(simTimeS float64)) {
	if tickHz <= 0 {
		tickHz = 60
	}
	ticker := time.NewTicker(time.Duration(float64(time.Second) / tickHz))
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			errLog := c.Tick(core.TickInput{Now: now, Mode: core.ModeObserver})
			for _, tickErr := range errLog.Errors {
				el.LogSystem(reporting.SeverityWarning, tickErr.Error())
			}
			if publish != nil {
				publish(c.World.SimTimeS)
			}
		}
	}
}

func saveRunReport(cfg *simconfig.SimulationConfig, el *reporting.EventLogger, c *core.Core) error {
	gen := reporting.NewAARGenerator(el, reporting.AARConfig{
		OutputDir:   cfg.AAROutputDir,
		Format:      "both",
		DetailLevel: "full",
	})
	aar := gen.GenerateAAR(c.Engagement.ByTeam, c.Cyber.ByTeam)
	if err := gen.SaveAAR(aar); err != nil {
		return fmt.Errorf("failed to save after-action report: %w", err)
	}
	logger.Success("after-action report saved to " + cfg.AAROutputDir)

	if cfg.StorePath != "" {
		if err := persistRunHistory(cfg, el, c); err != nil {
			logger.Errorf("failed to persist run history: %v", err)
		}
	}

	return nil
}

func persistRunHistory(cfg *simconfig.SimulationConfig, el *reporting.EventLogger, c *core.Core) error {
	st, err := store.Open(cfg.StorePath)
	if err != nil {
		return err
	}
	defer st.Close()

	ctx := context.Background()
	for _, snap := range c.Analytics.Snapshots() {
		if err := st.AppendSnapshot(ctx, el.RunID(), snap); err != nil {
			return err
		}
	}
	return nil
}
