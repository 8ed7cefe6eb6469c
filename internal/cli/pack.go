package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/Carmen-Shannon/oxy-spine/engine/asset"
)

func newPackCommand() *cobra.Command {
	var dir, out string

	cmd := &cobra.Command{
		Use:   "pack",
		Short: "Pack every file under a directory into an asset pack",
		RunE: func(cmd *cobra.Command, args []string) error {
			info, err := os.Stat(dir)
			if err != nil {
				return fmt.Errorf("failed to open %s: %w", dir, err)
			}
			if !info.IsDir() {
				return fmt.Errorf("%s is not a directory", dir)
			}
			n, err := asset.PackFS(out, os.DirFS(dir))
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "packed %d files from %s into %s\n", n, dir, out)
			return nil
		},
	}

	cmd.Flags().StringVar(&dir, "dir", "assets", "directory to pack")
	cmd.Flags().StringVar(&out, "out", "assets.res", "pack file to write")
	return cmd
}
