package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/telekom/k8s-client-factory/pkg/auth"
	"github.com/telekom/k8s-client-factory/pkg/config"
	"github.com/telekom/k8s-client-factory/pkg/factory"
)

type checkOptions struct {
	master            string
	namespace         string
	authPrefix        string
	clientType        string
	propertiesFile    string
	defaultTokenFile  string
	defaultCACertFile string
	ping              bool
	debug             bool
}

// NewCheckCommand assembles a client from the given configuration sources
// and reports the result, optionally contacting the cluster.
func NewCheckCommand() *cobra.Command {
	opts := &checkOptions{}

	cmd := &cobra.Command{
		Use:   "check",
		Short: "Assemble a client configuration and report the result",
		RunE: func(cmd *cobra.Command, _ []string) error {
			log, err := setupLogger(opts.debug)
			if err != nil {
				return err
			}
			defer func() { _ = log.Sync() }()

			props := config.Properties{}
			if opts.propertiesFile != "" {
				props, err = config.Load(opts.propertiesFile)
				if err != nil {
					return err
				}
			}

			clientType := factory.ClientType(opts.clientType)
			f := factory.New(log.Sugar(), auth.NewRegistry())
			handle, err := f.CreateClient(
				opts.master,
				opts.namespace,
				opts.authPrefix,
				clientType,
				props,
				auth.Defaults{
					TokenFile:  opts.defaultTokenFile,
					CACertFile: opts.defaultCACertFile,
				},
			)
			if err != nil {
				return fmt.Errorf("client construction failed: %w", err)
			}

			writer := cmd.OutOrStdout()
			_, _ = fmt.Fprintf(writer, "master:      %s\n", handle.Config.REST.Host)
			_, _ = fmt.Fprintf(writer, "namespace:   %s\n", handle.Config.Namespace)
			_, _ = fmt.Fprintf(writer, "credentials: %s\n", handle.Config.Credentials.Kind)
			_, _ = fmt.Fprintf(writer, "dispatcher:  %s\n", handle.Dispatcher.Name())

			if opts.ping {
				serverVersion, err := handle.Clientset.Discovery().ServerVersion()
				if err != nil {
					return fmt.Errorf("cluster unreachable: %w", err)
				}
				_, _ = fmt.Fprintf(writer, "server:      %s\n", serverVersion.GitVersion)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&opts.master, "master", "", "Kubernetes API server URL (required)")
	cmd.Flags().StringVar(&opts.namespace, "namespace", "", "Namespace override")
	cmd.Flags().StringVar(&opts.authPrefix, "auth-prefix", "kubernetes.authentication", "Configuration prefix for credential keys")
	cmd.Flags().StringVar(&opts.clientType, "client-type", string(factory.Driver), "Client role: driver or submission")
	cmd.Flags().StringVar(&opts.propertiesFile, "properties", "", "YAML properties file providing the configuration lookup")
	cmd.Flags().StringVar(&opts.defaultTokenFile, "default-token-file", "", "Environment-provided fallback token file")
	cmd.Flags().StringVar(&opts.defaultCACertFile, "default-ca-cert-file", "", "Environment-provided fallback CA certificate file")
	cmd.Flags().BoolVar(&opts.ping, "ping", false, "Contact the cluster and print its server version")
	cmd.Flags().BoolVar(&opts.debug, "debug", false, "Enable debug logging")
	_ = cmd.MarkFlagRequired("master")

	return cmd
}

func setupLogger(debug bool) (*zap.Logger, error) {
	if debug {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}
