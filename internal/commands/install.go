package commands

import (
	"github.com/spf13/cobra"

	"github.com/usagelab/tokenscope/internal/installer"
)

// NewInstallCommand builds the host provisioning command. It must run as
// root; a non-nil error (exit status 1) means the service was not verified
// running.
func NewInstallCommand() *cobra.Command {
	var opts installer.Options

	cmd := &cobra.Command{
		Use:   "install",
		Short: "Install the usage agent as a systemd service",
		Long: `Install provisions this host with the tokenscope usage agent: it installs
prerequisite packages, downloads the latest released agent binary, writes
its configuration, registers a systemd unit, starts the service, and
verifies it is running. Every step is fatal on failure.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.Out = cmd.OutOrStdout()
			return installer.New(opts).Run(cmd.Context())
		},
	}

	cmd.Flags().StringVar(&opts.Repo, "repo", "", "GitHub owner/name to download releases from")
	cmd.Flags().StringVar(&opts.ServiceName, "service", "", "systemd service name")
	cmd.Flags().StringVar(&opts.UsageLog, "usage-log", "", "JSONL path the agent writes usage events to")
	cmd.Flags().StringVar(&opts.HTTPProxy, "http-proxy", "", "HTTP proxy written to the agent configuration")
	cmd.Flags().StringVar(&opts.HTTPSProxy, "https-proxy", "", "HTTPS proxy written to the agent configuration")
	cmd.Flags().StringVar(&opts.NoProxy, "no-proxy", "", "comma-separated proxy bypass list")

	return cmd
}
