// Command shadowplay runs the 12:01 level or sweeps a caster headlessly.
package main

import (
	"fmt"
	"os"

	"shadowplay/internal/config"
	"shadowplay/internal/game"
	"shadowplay/internal/logging"
	"shadowplay/internal/scripts"
	"shadowplay/internal/world"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

type app struct {
	configPath string
	verbose    bool

	cfg    *config.Config
	logger *zap.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:           "shadowplay",
		Short:         "A side-scroller where shadows on the back wall are solid ground",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(a.configPath)
			if err != nil {
				return err
			}
			if a.verbose {
				cfg.Logging.Level = "debug"
			}
			logger, err := logging.New(cfg.Logging.Level, cfg.Logging.Development)
			if err != nil {
				return fmt.Errorf("failed to initialize logger: %w", err)
			}
			a.cfg = cfg
			a.logger = logger
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if a.logger != nil {
				_ = a.logger.Sync()
			}
		},
	}
	root.PersistentFlags().StringVarP(&a.configPath, "config", "c", "assets/config/shadowplay.yaml", "config file")
	root.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "debug logging")

	root.AddCommand(a.runCmd(), a.simulateCmd())
	return root
}

func (a *app) runCmd() *cobra.Command {
	var scene string
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Open a window and play a scene",
		RunE: func(cmd *cobra.Command, args []string) error {
			if scene != "" {
				a.cfg.Scene = scene
			}
			defaults, err := a.cfg.Shadow.Engine()
			if err != nil {
				return err
			}
			scripts.SetShadowDefaults(defaults)

			w := world.New(a.logger)
			if err := w.LoadScene(a.cfg.Scene); err != nil {
				return err
			}
			a.logger.Info("scene loaded",
				zap.String("path", a.cfg.Scene),
				zap.Int("objects", len(w.Scene.GameObjects)),
				zap.Int("casters", len(w.ShadowScripts())))
			return game.New(a.cfg, w, a.logger).Run()
		},
	}
	cmd.Flags().StringVar(&scene, "scene", "", "scene file (overrides the config)")
	return cmd
}

func (a *app) simulateCmd() *cobra.Command {
	opts := game.DefaultSimOptions()
	var (
		facing, skewMode string
		lifted, vertices bool
		casterY          float32
	)
	cmd := &cobra.Command{
		Use:   "simulate",
		Short: "Walk a player past one caster without a window and print the shadow",
		RunE: func(cmd *cobra.Command, args []string) error {
			sc := a.cfg.Shadow
			if cmd.Flags().Changed("facing") {
				sc.Facing = facing
			}
			if cmd.Flags().Changed("skew-mode") {
				sc.SkewMode = skewMode
			}
			if cmd.Flags().Changed("lifted") {
				sc.Lifted = lifted
			}
			shadowCfg, err := sc.Engine()
			if err != nil {
				return err
			}
			opts.Shadow = shadowCfg
			opts.CasterPos.Y = casterY

			samples, err := game.Simulate(opts, a.logger)
			if err != nil {
				return err
			}
			return game.WriteSamples(cmd.OutOrStdout(), samples, vertices)
		},
	}
	f := cmd.Flags()
	f.Float32Var(&opts.From, "from", opts.From, "player start X")
	f.Float32Var(&opts.To, "to", opts.To, "player end X")
	f.IntVar(&opts.Steps, "steps", opts.Steps, "number of samples")
	f.Float32Var(&casterY, "caster-y", opts.CasterPos.Y, "caster centre height")
	f.StringVar(&facing, "facing", "", "right-vector, forward-vector or rotation-dot")
	f.StringVar(&skewMode, "skew-mode", "", "trapezoid or legacy")
	f.BoolVar(&lifted, "lifted", false, "drop the floor plane while the caster is above eye level")
	f.BoolVar(&vertices, "vertices", false, "print the wall plane's vertices")
	return cmd
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
