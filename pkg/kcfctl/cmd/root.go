package cmd

import (
	"io"
	"os"

	"github.com/spf13/cobra"
)

// Config carries test-overridable wiring for the root command.
type Config struct {
	OutputWriter io.Writer
}

func DefaultConfig() Config {
	return Config{OutputWriter: os.Stdout}
}

// NewRootCommand builds the kcfctl command tree.
func NewRootCommand(cfg Config) *cobra.Command {
	if cfg.OutputWriter == nil {
		cfg.OutputWriter = os.Stdout
	}

	root := &cobra.Command{
		Use:           "kcfctl",
		Short:         "Kubernetes client factory CLI",
		Long:          "kcfctl assembles authenticated Kubernetes client configurations from layered configuration sources and reports the result.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetOut(cfg.OutputWriter)

	root.AddCommand(NewVersionCommand())
	root.AddCommand(NewCheckCommand())

	return root
}

// Execute runs the root command with default wiring.
func Execute() error {
	return NewRootCommand(DefaultConfig()).Execute()
}
