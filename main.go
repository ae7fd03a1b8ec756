// Command keelwright is the ship-hull part editor backend. It runs console
// scripts against a scene, exports render meshes and manages the editor
// configuration.
package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/chazu/keelwright/pkg/config"
	"github.com/chazu/keelwright/pkg/part"
	"github.com/chazu/keelwright/pkg/scene"
)

type options struct {
	configPath   string
	registryPath string
	scenePath    string
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := &options{}
	root := &cobra.Command{
		Use:           "keelwright",
		Short:         "Geometry and constraint engine of a ship-hull part editor",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&opts.configPath, "config", "keelwright.toml", "configuration file")
	root.PersistentFlags().StringVar(&opts.registryPath, "registry", "", "part metadata YAML (overrides the config)")
	root.PersistentFlags().StringVar(&opts.scenePath, "scene", "", "scene fixture YAML to start from")

	root.AddCommand(newEvalCmd(opts), newMeshCmd(opts), newConfigCmd(opts))
	return root
}

func newLogger(cfg config.Log, w io.Writer) (*slog.Logger, error) {
	level, err := cfg.SlogLevel()
	if err != nil {
		return nil, err
	}
	hopts := &slog.HandlerOptions{Level: level}
	switch strings.ToLower(cfg.Format) {
	case "", "text":
		return slog.New(slog.NewTextHandler(w, hopts)), nil
	case "json":
		return slog.New(slog.NewJSONHandler(w, hopts)), nil
	}
	return nil, fmt.Errorf("unknown log format %q", cfg.Format)
}

// load builds the App described by the flags: configuration, registry,
// logger and the optional starting scene.
func (o *options) load(stderr io.Writer) (*App, error) {
	cfg, err := config.Load(o.configPath)
	if err != nil {
		return nil, err
	}
	logger, err := newLogger(cfg.Log, stderr)
	if err != nil {
		return nil, err
	}

	reg := part.DefaultRegistry()
	regPath := cfg.Registry
	if o.registryPath != "" {
		regPath = o.registryPath
	}
	if regPath != "" {
		if reg, err = part.LoadRegistryFile(regPath); err != nil {
			return nil, err
		}
		logger.Debug("registry loaded", "path", regPath, "types", len(reg.Types()))
	}

	s := scene.New(reg, cfg, logger)
	if o.scenePath != "" {
		f, err := scene.LoadFixtureFile(o.scenePath)
		if err != nil {
			return nil, err
		}
		if err := s.Restore(f); err != nil {
			return nil, err
		}
		logger.Debug("scene loaded", "path", o.scenePath, "parts", s.Len())
	}
	return NewApp(s, logger), nil
}

func readScripts(args []string, stdin io.Reader) (string, error) {
	if len(args) == 0 {
		args = []string{"-"}
	}
	var sb strings.Builder
	for _, name := range args {
		var data []byte
		var err error
		if name == "-" {
			data, err = io.ReadAll(stdin)
		} else {
			data, err = os.ReadFile(name)
		}
		if err != nil {
			return "", fmt.Errorf("read script: %w", err)
		}
		sb.Write(data)
		sb.WriteByte('\n')
	}
	return sb.String(), nil
}

func newEvalCmd(opts *options) *cobra.Command {
	var out string
	cmd := &cobra.Command{
		Use:   "eval [script...]",
		Short: "Run console scripts against the scene",
		Long:  "Run console scripts (stdin when none or \"-\" is given) and print the value of the last expression.",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := opts.load(cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			source, err := readScripts(args, cmd.InOrStdin())
			if err != nil {
				return err
			}
			res := app.Evaluate(source)
			for _, w := range res.Warnings {
				fmt.Fprintf(cmd.ErrOrStderr(), "warning: %s: %s\n", w.PartID, w.Message)
			}
			if len(res.Errors) > 0 {
				for _, e := range res.Errors {
					if e.Line > 0 {
						fmt.Fprintf(cmd.ErrOrStderr(), "error: line %d: %s\n", e.Line, e.Message)
					} else {
						fmt.Fprintf(cmd.ErrOrStderr(), "error: %s\n", e.Message)
					}
				}
				return errors.New("evaluation failed")
			}
			fmt.Fprintln(cmd.OutOrStdout(), res.Value)
			if out != "" {
				return app.Scene().Snapshot().SaveFile(out)
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "", "write the resulting scene fixture to this file")
	return cmd
}

func newMeshCmd(opts *options) *cobra.Command {
	var out string
	cmd := &cobra.Command{
		Use:   "mesh",
		Short: "Export the render meshes of the scene as JSON",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := opts.load(cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			meshes, err := app.Meshes()
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			if out != "" {
				f, err := os.Create(out)
				if err != nil {
					return err
				}
				defer f.Close()
				w = f
			}
			enc := json.NewEncoder(w)
			enc.SetIndent("", "  ")
			return enc.Encode(meshes)
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "", "output file (default stdout)")
	return cmd
}

func newConfigCmd(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage the configuration file",
	}
	var force bool
	initCmd := &cobra.Command{
		Use:   "init",
		Short: "Write the default configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := os.Stat(opts.configPath); err == nil && !force {
				return fmt.Errorf("%s already exists (use --force to overwrite)", opts.configPath)
			} else if err != nil && !errors.Is(err, fs.ErrNotExist) {
				return err
			}
			if err := config.Default().Save(opts.configPath); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "wrote", opts.configPath)
			return nil
		},
	}
	initCmd.Flags().BoolVar(&force, "force", false, "overwrite an existing file")
	cmd.AddCommand(initCmd)
	return cmd
}
