// Package cli provides the command-line interface for ghswitch.
package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/dmarrero/ghswitch/internal/gitcfg"
	"github.com/dmarrero/ghswitch/internal/keyring"
	"github.com/dmarrero/ghswitch/internal/notify"
	"github.com/dmarrero/ghswitch/internal/profile"
	"github.com/dmarrero/ghswitch/internal/sshkey"
)

// CLI holds the application state for the CLI.
type CLI struct {
	Profiles *profile.Manager
	SSH      *sshkey.Manager
	Git      *gitcfg.Manager
	Keyring  keyring.Store
	rootCmd  *cobra.Command

	// Flags
	verboseFlag bool
	outputFlag  string
	notifyFlag  bool
}

// New creates a new CLI instance.
func New() *CLI {
	cli := &CLI{
		Profiles: profile.NewDefaultManager(),
		SSH:      sshkey.NewDefault(),
		Git:      gitcfg.NewDefault(),
		Keyring:  keyring.DefaultStore(),
	}

	cli.rootCmd = &cobra.Command{
		Use:   "ghswitch [command]",
		Short: "ghswitch - GitHub identity profile switcher",
		Long: `ghswitch manages multiple named GitHub identities (full name, email,
SSH keypair) on one machine and switches between them.

Each switch rewrites the global git identity and activates a managed
SSH config stanza pointing at the profile's key, while preserving every
unrelated entry in ~/.ssh/config.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return cli.SSH.EnsureSetup()
		},
	}

	// Global flags
	cli.rootCmd.PersistentFlags().BoolVarP(&cli.verboseFlag, "verbose", "v", false, "Enable verbose output")
	cli.rootCmd.PersistentFlags().StringVarP(&cli.outputFlag, "output", "o", "text", "Output format (text, json)")
	cli.rootCmd.PersistentFlags().BoolVar(&cli.notifyFlag, "notify", false, "Send a desktop notification on switch")

	cli.addCommands()

	return cli
}

// addCommands adds all subcommands to the root command.
func (cli *CLI) addCommands() {
	cli.rootCmd.AddCommand(
		cli.newProfileCmd(),
		cli.newSSHCmd(),
		cli.newGitCmd(),
		cli.newVersionCmd(),
		cli.newCompletionCmd(),
	)
}

// Execute runs the CLI.
func (cli *CLI) Execute(ctx context.Context) error {
	return cli.rootCmd.ExecuteContext(ctx)
}

// notifier returns the notifier configured by the --notify flag.
func (cli *CLI) notifier() notify.Notifier {
	return notify.New(cli.notifyFlag)
}
