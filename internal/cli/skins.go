package cli

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/Carmen-Shannon/oxy-spine/engine"
	"github.com/Carmen-Shannon/oxy-spine/engine/asset"
	"github.com/Carmen-Shannon/oxy-spine/engine/controller"
	"github.com/Carmen-Shannon/oxy-spine/engine/loader"
	"github.com/Carmen-Shannon/oxy-spine/engine/profiler"
	"github.com/Carmen-Shannon/oxy-spine/engine/skeleton"
	"github.com/Carmen-Shannon/oxy-spine/internal/config"
	"github.com/Carmen-Shannon/oxy-spine/internal/equipment"
	"github.com/Carmen-Shannon/oxy-spine/internal/tui"
)

func newSkinsCommand(v *viper.Viper) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "skins",
		Short: "Interactive skin and equipment swap demo",
		PreRunE: func(cmd *cobra.Command, args []string) error {
			return bindFlags(v, cmd, map[string]string{
				"skeleton.json":      "skeleton",
				"skeleton.atlas":     "atlas",
				"skeleton.skin":      "skin",
				"skeleton.animation": "animation",
				"equipment.manifest": "manifest",
			})
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadFrom(v)
			if err != nil {
				return err
			}
			if err := cfg.Validate(); err != nil {
				return err
			}

			manifest := equipment.Default()
			if cfg.Equipment.Manifest != "" {
				if manifest, err = equipment.LoadFile(cfg.Equipment.Manifest); err != nil {
					return err
				}
			}

			src, closeSrc, err := openSource(cfg)
			if err != nil {
				return err
			}
			defer closeSrc()

			// the terminal belongs to the UI; library logs only go out with --verbose
			logger := newLogger(v, cmd.ErrOrStderr())
			s := asset.NewServer(
				asset.WithSource(src),
				asset.WithWorkers(cfg.Engine.Workers),
				asset.WithLogger(logger),
			)
			if _, err := loader.Register(s); err != nil {
				return err
			}
			prof := profiler.NewProfiler()
			prof.SetLogger(logger)
			eng := engine.NewEngine(
				engine.WithAssetServer(s),
				engine.WithResolver(skeleton.NewResolver(skeleton.WithServer(s), skeleton.WithLogger(logger))),
				engine.WithSpawner(controller.NewSpawner(controller.WithLogger(logger))),
				engine.WithTickRate(cfg.Engine.TickRate),
				engine.WithProfiling(cfg.Engine.Profiling),
				engine.WithProfiler(prof),
			)

			doc, err := asset.Load[*loader.SkeletonJSON](s, cfg.Skeleton.JSON)
			if err != nil {
				return fmt.Errorf("failed to load %s: %w", cfg.Skeleton.JSON, err)
			}
			atlas, err := asset.Load[*loader.Atlas](s, cfg.Skeleton.Atlas)
			if err != nil {
				doc.Release()
				return fmt.Errorf("failed to load %s: %w", cfg.Skeleton.Atlas, err)
			}
			sd := eng.Resolver().Add(skeleton.NewFromJSON(doc, atlas))
			entity := eng.Spawner().Spawn(sd, controller.SpawnOptions{
				Skin:      cfg.Skeleton.Skin,
				Animation: cfg.Skeleton.Animation,
				Loop:      true,
			})
			defer eng.Spawner().Despawn(entity)

			app := tui.NewApp(eng, entity, manifest)
			if _, err := tea.NewProgram(app, tea.WithAltScreen()).Run(); err != nil {
				return fmt.Errorf("failed to run skins demo: %w", err)
			}
			return nil
		},
	}

	cmd.Flags().String("skeleton", "", "skeleton JSON path (relative to the asset root)")
	cmd.Flags().String("atlas", "", "atlas path (defaults to the skeleton path with .atlas)")
	cmd.Flags().String("skin", "", "initial skin")
	cmd.Flags().String("animation", "", "animation to loop")
	cmd.Flags().String("manifest", "", "equipment manifest (YAML)")
	return cmd
}
