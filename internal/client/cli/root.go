package cli

import (
	"context"
	"time"

	"github.com/dmitrijs2005/sealbox/internal/client/config"
	"github.com/spf13/cobra"
)

// NewRootCmd builds the sealbox command tree.
func NewRootCmd() *cobra.Command {
	app := &App{}

	var (
		dir     string
		server  string
		timeout time.Duration
	)

	root := &cobra.Command{
		Use:           "sealbox",
		Short:         "End-to-end encrypted file sharing",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if dir == "" {
				d, err := config.DefaultDir()
				if err != nil {
					return err
				}
				dir = d
			}

			cfg, err := config.Load(dir)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("server") {
				cfg.ServerAddr = server
			}
			if cmd.Flags().Changed("timeout") {
				cfg.RequestTimeout = timeout
			}

			app.dir = dir
			app.cfg = cfg
			app.out = cmd.OutOrStdout()
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			app.close()
		},
	}

	root.PersistentFlags().StringVar(&dir, "dir", "", "client directory (default $XDG_CONFIG_HOME/sealbox)")
	root.PersistentFlags().StringVarP(&server, "server", "a", "", "server address host:port")
	root.PersistentFlags().DurationVar(&timeout, "timeout", 0, "per-request timeout, e.g. 30s")

	root.AddCommand(
		newKeygenCmd(app),
		newRegisterCmd(app),
		newLoginCmd(app),
		newLogoutCmd(app),
		newWhoAmICmd(app),
		newUploadCmd(app),
		newDownloadCmd(app),
		newShareCmd(app),
		newListCmd(app),
	)

	return root
}

// Execute runs the CLI with os.Args.
func Execute(ctx context.Context) error {
	return NewRootCmd().ExecuteContext(ctx)
}
