package cli

import (
	"fmt"
	"io"
	"log"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/Carmen-Shannon/oxy-spine/engine/asset"
	"github.com/Carmen-Shannon/oxy-spine/internal/config"
)

// NewRootCommand builds the oxy-spine command tree. Each call returns independent commands and
// configuration, so tests can run commands side by side.
func NewRootCommand() *cobra.Command {
	v := viper.New()
	var cfgFile string

	root := &cobra.Command{
		Use:   "oxy-spine",
		Short: "oxy-spine - Spine skeleton loading and inspection",
		Long: `oxy-spine loads Spine 2D skeletons (texture atlas plus skeleton JSON) through an
asynchronous asset server and resolves them into shared skeleton templates.

Example:
  oxy-spine inspect --skeleton spineboy/spineboy.json
  oxy-spine pack --dir assets --out assets.res
  oxy-spine skins`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			dir, err := os.Getwd()
			if err != nil {
				return fmt.Errorf("failed to get working directory: %w", err)
			}
			if err := config.Init(v, cfgFile, dir); err != nil {
				return err
			}
			if v.GetBool("verbose") && v.ConfigFileUsed() != "" {
				fmt.Fprintln(cmd.ErrOrStderr(), "Using config file:", v.ConfigFileUsed())
			}
			return nil
		},
	}

	root.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is .oxy-spine.yaml)")
	root.PersistentFlags().Bool("verbose", false, "enable verbose output")
	_ = v.BindPFlag("verbose", root.PersistentFlags().Lookup("verbose"))
	root.PersistentFlags().String("assets", "", "asset root directory")
	_ = v.BindPFlag("assets.root", root.PersistentFlags().Lookup("assets"))
	root.PersistentFlags().String("pack", "", "asset pack file, used instead of the asset root")
	_ = v.BindPFlag("assets.pack", root.PersistentFlags().Lookup("pack"))

	root.AddCommand(newInspectCommand(v), newPackCommand(), newSkinsCommand(v))
	return root
}

// Execute runs the root command
func Execute() error {
	return NewRootCommand().Execute()
}

// openSource returns the asset source selected by cfg and a function that releases it.
func openSource(cfg *config.Config) (asset.Source, func(), error) {
	if cfg.Assets.Pack != "" {
		pack, err := asset.OpenBoltSource(cfg.Assets.Pack)
		if err != nil {
			return nil, nil, err
		}
		return pack, func() {
			if err := pack.Close(); err != nil {
				log.Printf("[CLI] failed to close pack %s: %v", cfg.Assets.Pack, err)
			}
		}, nil
	}
	if _, err := os.Stat(cfg.Assets.Root); err != nil {
		return nil, nil, fmt.Errorf("failed to open asset root: %w", err)
	}
	return asset.NewDirSource(cfg.Assets.Root), func() {}, nil
}

// newLogger keeps library logging quiet unless --verbose is set.
func newLogger(v *viper.Viper, w io.Writer) *log.Logger {
	if !v.GetBool("verbose") {
		w = io.Discard
	}
	return log.New(w, "", log.LstdFlags)
}

// bindFlags binds command-local flags to config keys. Commands share flag names, so binding
// happens when the command runs rather than when it is built.
func bindFlags(v *viper.Viper, cmd *cobra.Command, keys map[string]string) error {
	for key, name := range keys {
		if err := v.BindPFlag(key, cmd.Flags().Lookup(name)); err != nil {
			return fmt.Errorf("failed to bind --%s: %w", name, err)
		}
	}
	return nil
}
