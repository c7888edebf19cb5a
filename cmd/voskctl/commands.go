package main

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/ekisa-team/voskcore/bundle"
	"github.com/ekisa-team/voskcore/internal/config"
	"github.com/ekisa-team/voskcore/internal/unpack"
	"github.com/ekisa-team/voskcore/model"
	"github.com/ekisa-team/voskcore/native"
)

type rootFlags struct {
	bundleRoot string
	provider   string
	logLevel   int
}

// loadResult is printed by the load command.
type loadResult struct {
	Path        string          `json:"path"`
	Provider    native.Provider `json:"provider"`
	SpeakerPath string          `json:"speaker_path,omitempty"`
}

func newRootCmd(log *slog.Logger) *cobra.Command {
	flags := &rootFlags{}
	registry := native.DefaultRegistry()

	root := &cobra.Command{
		Use:          "voskctl",
		Short:        "Inspect and load offline speech recognition models",
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVar(&flags.bundleRoot, "bundle-root", "", "bundled resource root (default: resources next to the executable)")
	root.PersistentFlags().StringVar(&flags.provider, "provider", string(native.ProviderVosk), "native library provider")
	root.PersistentFlags().IntVar(&flags.logLevel, "native-log-level", -1, "native library log level (-1 disables)")

	root.AddCommand(
		newResolveCmd(flags),
		newLoadCmd(flags, registry, log),
		newUnpackCmd(),
	)

	return root
}

func newResolveCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "resolve NAME",
		Short: "Print the model directory NAME resolves to",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := model.Resolve(args[0], bundle.NewDirResolver(flags.bundleRoot))
			if err != nil {
				return err
			}

			_, err = fmt.Fprintln(cmd.OutOrStdout(), path)
			return err
		},
	}
}

func newLoadCmd(flags *rootFlags, registry *native.Registry, log *slog.Logger) *cobra.Command {
	var speakerDir string

	cmd := &cobra.Command{
		Use:   "load NAME",
		Short: "Load a model and its optional speaker model, then release them",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			lib, err := registry.Get(native.Provider(flags.provider))
			if err != nil {
				return err
			}
			lib.SetLogLevel(flags.logLevel)

			h, err := model.New(args[0],
				model.WithLibrary(lib),
				model.WithResolver(bundle.NewDirResolver(flags.bundleRoot)),
				model.WithSpeakerDir(speakerDir),
				model.WithLogger(log),
			)
			if err != nil {
				return err
			}
			defer h.Close()

			return writeJSON(cmd.OutOrStdout(), loadResult{
				Path:        h.Path(),
				Provider:    h.Provider(),
				SpeakerPath: h.SpeakerPath(),
			})
		},
	}
	cmd.Flags().StringVar(&speakerDir, "speaker-dir", model.DefaultSpeakerDir, "speaker model directory inside the model (empty disables)")

	return cmd
}

func newUnpackCmd() *cobra.Command {
	var modelsDir string

	cmd := &cobra.Command{
		Use:   "unpack SRC",
		Short: "Copy a model directory into the writable models directory",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if modelsDir == "" {
				modelsDir = config.ResolveModelsPath(nil)
			}

			target, cached, err := unpack.Unpack(cmd.Context(), args[0], modelsDir)
			if err != nil {
				return err
			}

			return writeJSON(cmd.OutOrStdout(), map[string]any{
				"path":       target,
				"up_to_date": cached,
			})
		},
	}
	cmd.Flags().StringVar(&modelsDir, "models-dir", "", "target models directory")

	return cmd
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
