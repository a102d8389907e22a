package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	core "github.com/orbitalarena/simcore/internal/core"
	"github.com/orbitalarena/simcore/internal/reporting"
	"github.com/orbitalarena/simcore/pkg/bridge"
	"github.com/orbitalarena/simcore/pkg/logger"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run a scenario and push state to a connected renderer",
	Long:  `Like run, but also starts a websocket bridge renderers can connect to for per-tick push updates.`,
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().StringP("scenario", "s", "", "scenario source (file path or http(s) URL)")
	serveCmd.Flags().StringP("player", "p", "", "preferred player entity id, or __observer__")
	serveCmd.Flags().Float64("tick-hz", 60, "wall-clock tick rate in Hz")
	serveCmd.Flags().String("bridge-addr", "", "override the configured bridge listen address")
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := loadRunConfig(cmd)
	if err != nil {
		return err
	}
	if addr, _ := cmd.Flags().GetString("bridge-addr"); addr != "" {
		cfg.BridgeListenAddr = addr
	}

	tickHz, _ := cmd.Flags().GetFloat64("tick-hz")
	playerFlag, _ := cmd.Flags().GetString("player")

	c, initResult, err := buildAndInit(cmd.Context(), cfg, playerFlag)
	if err != nil {
		return err
	}
	applyPersistedVizPrefs(c)

	el := reporting.NewEventLogger()
	logger.LogSection("Serve started")
	logger.LogKeyValue("entities", initResult.EntityCount)
	logger.LogKeyValue("bridge_addr", cfg.BridgeListenAddr)

	b := bridge.New(cfg.BridgeListenAddr)
	go func() {
		if err := b.ListenAndServe(); err != nil {
			logger.Errorf("bridge server stopped: %v", err)
		}
	}()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigChan
		logger.Warn("received interrupt signal, stopping serve...")
		cancel()
	}()

	publish := func(simTimeS float64) {
		b.Publish(bridge.Frame{
			SimTimeS: simTimeS,
			Kind:     "analytics",
			Data:     snapshotAnalytics(c),
		})
	}

	driveTickLoop(ctx, c, tickHz, el, publish)

	return saveRunReport(cfg, el, c)
}

func snapshotAnalytics(c *core.Core) interface{} {
	snaps := c.Analytics.Snapshots()
	if len(snaps) == 0 {
		return nil
	}
	return snaps[len(snaps)-1]
}
