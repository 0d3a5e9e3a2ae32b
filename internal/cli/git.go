package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// GitStatusOutput represents git identity status for JSON output.
type GitStatusOutput struct {
	Available bool   `json:"available"`
	Version   string `json:"version,omitempty"`
	Name      string `json:"name,omitempty"`
	Email     string `json:"email,omitempty"`
	Profile   string `json:"profile,omitempty"`
}

// newGitCmd creates the git command group.
func (cli *CLI) newGitCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "git",
		Short: "Inspect the global git identity",
	}

	cmd.AddCommand(
		cli.newGitShowCmd(),
		cli.newGitValidateCmd(),
	)

	return cmd
}

func (cli *CLI) newGitShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show the current global git identity",
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := ParseOutputFormat(cli.outputFlag)
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			status := GitStatusOutput{Available: cli.Git.Available(ctx)}
			if status.Available {
				status.Version = cli.Git.Version(ctx)
				status.Name, status.Email = cli.Git.Current(ctx)
			}
			if active, ok := cli.Profiles.Current(); ok {
				status.Profile = active
			}

			output := NewOutputWriter(format)
			return output.Write(status, func() {
				if !status.Available {
					fmt.Println("git is not installed or not on PATH.")
					return
				}
				fmt.Printf("Git:     %s\n", status.Version)
				fmt.Printf("Name:    %s\n", orUnset(status.Name))
				fmt.Printf("Email:   %s\n", orUnset(status.Email))
				fmt.Printf("Profile: %s\n", orUnset(status.Profile))
			})
		},
	}
}

func orUnset(s string) string {
	if s == "" {
		return "(unset)"
	}
	return s
}

func (cli *CLI) newGitValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Check that the git identity matches the active profile",
		RunE: func(cmd *cobra.Command, args []string) error {
			active, ok := cli.Profiles.Current()
			if !ok {
				return fmt.Errorf("no active profile")
			}
			rec, err := cli.Profiles.Get(active)
			if err != nil {
				return err
			}

			if !cli.Git.Validate(cmd.Context(), rec.FullName, rec.Email) {
				name, email := cli.Git.Current(cmd.Context())
				return fmt.Errorf("git identity %q <%s> does not match active profile %q (%s <%s>)",
					name, email, active, rec.FullName, rec.Email)
			}
			fmt.Printf("Git identity matches active profile %q.\n", active)
			return nil
		},
	}
}
