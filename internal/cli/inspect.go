package cli

import (
	"errors"
	"fmt"
	"io"
	"slices"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/Carmen-Shannon/oxy-spine/engine/asset"
	"github.com/Carmen-Shannon/oxy-spine/engine/loader"
	"github.com/Carmen-Shannon/oxy-spine/engine/skeleton"
	"github.com/Carmen-Shannon/oxy-spine/engine/spine"
	"github.com/Carmen-Shannon/oxy-spine/internal/config"
)

// ErrUnresolved is returned when a skeleton is still pending after the inspect timeout.
var ErrUnresolved = errors.New("skeleton did not resolve")

func newInspectCommand(v *viper.Viper) *cobra.Command {
	var timeout time.Duration
	var pages bool

	cmd := &cobra.Command{
		Use:   "inspect",
		Short: "Load and resolve a skeleton, then print its bones, slots, skins and animations",
		PreRunE: func(cmd *cobra.Command, args []string) error {
			return bindFlags(v, cmd, map[string]string{
				"skeleton.json":  "skeleton",
				"skeleton.atlas": "atlas",
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
			src, closeSrc, err := openSource(cfg)
			if err != nil {
				return err
			}
			defer closeSrc()

			logger := newLogger(v, cmd.ErrOrStderr())
			s := asset.NewServer(
				asset.WithSource(src),
				asset.WithWorkers(cfg.Engine.Workers),
				asset.WithLogger(logger),
			)
			if _, err := loader.Register(s, loader.WithPageDependencies(pages)); err != nil {
				return err
			}
			r := skeleton.NewResolver(skeleton.WithServer(s), skeleton.WithLogger(logger))

			sd, err := resolve(s, r, cfg.Skeleton.JSON, cfg.Skeleton.Atlas, timeout)
			if err != nil {
				return err
			}
			printSkeleton(cmd.OutOrStdout(), cfg, sd.Template())
			return nil
		},
	}

	cmd.Flags().String("skeleton", "", "skeleton JSON path (relative to the asset root)")
	cmd.Flags().String("atlas", "", "atlas path (defaults to the skeleton path with .atlas)")
	cmd.Flags().DurationVar(&timeout, "timeout", 10*time.Second, "how long to wait for the skeleton to resolve")
	cmd.Flags().BoolVar(&pages, "pages", true, "load atlas page images as dependencies")
	return cmd
}

// resolve drives the server and resolver until the skeleton data leaves Pending.
func resolve(s asset.Server, r skeleton.Resolver, jsonPath, atlasPath string, timeout time.Duration) (*skeleton.SkeletonData, error) {
	doc, err := asset.Load[*loader.SkeletonJSON](s, jsonPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", jsonPath, err)
	}
	atlas, err := asset.Load[*loader.Atlas](s, atlasPath)
	if err != nil {
		doc.Release()
		return nil, fmt.Errorf("failed to load %s: %w", atlasPath, err)
	}
	h := r.Add(skeleton.NewFromJSON(doc, atlas))
	sd, _ := h.Get()

	deadline := time.Now().Add(timeout)
	for {
		s.WaitIdle()
		s.Update()
		r.Evaluate()

		switch sd.State() {
		case skeleton.StateResolved:
			return sd, nil
		case skeleton.StateFailed:
			return nil, sd.Err()
		}
		if err := r.Blocked(h.ID()); err != nil {
			return nil, err
		}
		if time.Now().After(deadline) {
			return nil, fmt.Errorf("%w after %s: %s", ErrUnresolved, timeout, jsonPath)
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func printSkeleton(w io.Writer, cfg *config.Config, d *spine.SkeletonData) {
	fmt.Fprintf(w, "skeleton: %s\n", cfg.Skeleton.JSON)
	fmt.Fprintf(w, "atlas:    %s\n", cfg.Skeleton.Atlas)
	if d.Version != "" {
		fmt.Fprintf(w, "spine:    %s\n", d.Version)
	}
	fmt.Fprintf(w, "size:     %gx%g\n", d.Width, d.Height)

	fmt.Fprintf(w, "\nbones (%d):\n", len(d.Bones()))
	for _, b := range d.Bones() {
		parent := "-"
		if b.Parent != nil {
			parent = b.Parent.Name
		}
		fmt.Fprintf(w, "  %-16s parent=%s\n", b.Name, parent)
	}

	fmt.Fprintf(w, "\nslots (%d):\n", len(d.Slots()))
	for _, s := range d.Slots() {
		fmt.Fprintf(w, "  %-16s bone=%s attachment=%s\n", s.Name, s.Bone.Name, orDash(s.AttachmentName))
	}

	fmt.Fprintf(w, "\nskins (%d):\n", len(d.Skins()))
	for _, skin := range d.Skins() {
		entries := skin.Entries()
		names := make([]string, 0, len(entries))
		for _, e := range entries {
			name := e.Attachment.Name
			if e.Attachment.Path != "" && e.Attachment.Path != name {
				name += "=" + e.Attachment.Path
			}
			names = append(names, name)
		}
		slices.Sort(names)
		fmt.Fprintf(w, "  %-16s %s\n", skin.Name(), strings.Join(names, ", "))
	}

	fmt.Fprintf(w, "\nanimations (%d):\n", len(d.Animations()))
	for _, a := range d.Animations() {
		fmt.Fprintf(w, "  %-16s %.3fs\n", a.Name, a.Duration)
	}
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
