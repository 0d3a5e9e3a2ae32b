package cli

import (
	"errors"
	"fmt"
	"os"
	"sort"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/dmarrero/ghswitch/internal/profile"
	"github.com/dmarrero/ghswitch/internal/registry"
	"github.com/dmarrero/ghswitch/internal/utils"
)

// ProfileListOutput represents profile list output for JSON.
type ProfileListOutput struct {
	Active   string                      `json:"active,omitempty"`
	Profiles map[string]registry.Profile `json:"profiles"`
}

// newProfileCmd creates the profile command group.
func (cli *CLI) newProfileCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "profile",
		Aliases: []string{"profiles"},
		Short:   "Manage GitHub identity profiles",
		Long: `Manage named GitHub identity profiles.

Examples:
  # List all profiles
  ghswitch profile list

  # Create a profile with a freshly generated key
  ghswitch profile create work --fullname "Jane Doe" --email jane@company.com

  # Create a profile from an existing key
  ghswitch profile create personal --fullname "Jane" --email jane@home.net \
      --import-key ~/.ssh/id_ed25519

  # Switch identities
  ghswitch profile switch work`,
	}

	cmd.AddCommand(
		cli.newProfileListCmd(),
		cli.newProfileCreateCmd(),
		cli.newProfileSwitchCmd(),
		cli.newProfileUpdateCmd(),
		cli.newProfileDeleteCmd(),
		cli.newProfileShowCmd(),
		cli.newProfileExportCmd(),
		cli.newProfileImportCmd(),
	)

	return cmd
}

func (cli *CLI) newProfileListCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List all profiles",
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := ParseOutputFormat(cli.outputFlag)
			if err != nil {
				return err
			}

			profiles, err := cli.Profiles.List()
			if err != nil {
				return err
			}
			active, _ := cli.Profiles.Current()

			output := NewOutputWriter(format)
			return output.Write(ProfileListOutput{Active: active, Profiles: profiles}, func() {
				if len(profiles) == 0 {
					fmt.Println("No profiles configured.")
					fmt.Println()
					fmt.Println("Create one with: ghswitch profile create <name> --fullname <name> --email <email>")
					return
				}

				names := make([]string, 0, len(profiles))
				for name := range profiles {
					names = append(names, name)
				}
				sort.Strings(names)

				w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
				fmt.Fprintln(w, "NAME\tFULL NAME\tEMAIL\tKEY\tLAST USED")
				for _, name := range names {
					rec := profiles[name]
					marker := ""
					if name == active {
						marker = "* "
					}
					fmt.Fprintf(w, "%s%s\t%s\t%s\t%s\t%s\n",
						marker, name, rec.FullName, rec.Email,
						rec.SSHKeySource, lastUsed(rec))
				}
				w.Flush()
			})
		},
	}
}

func lastUsed(rec registry.Profile) string {
	if rec.LastUsed == "" {
		return "Never"
	}
	t, err := time.Parse(time.RFC3339, rec.LastUsed)
	if err != nil {
		return rec.LastUsed
	}
	return utils.FormatTimeAgo(t)
}

func (cli *CLI) newProfileCreateCmd() *cobra.Command {
	var (
		fullName   string
		email      string
		importKey  string
		passphrase bool
		remember   bool
	)

	cmd := &cobra.Command{
		Use:   "create <name>",
		Short: "Create a new profile",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := args[0]
			if !profile.ValidProfileName(name) {
				return fmt.Errorf("profile name must contain only letters, numbers, hyphens and underscores")
			}
			if !profile.ValidEmail(email) {
				return fmt.Errorf("invalid email format %q", email)
			}
			if cli.Profiles.Exists(name) {
				return fmt.Errorf("profile %q already exists", name)
			}

			secret := ""
			if passphrase {
				var err error
				secret, err = promptPassphrase()
				if err != nil {
					return err
				}
			}

			var keyPath, publicKey string
			meta := profile.Metadata{}

			if importKey != "" {
				source := utils.ExpandPath(importKey)
				if used, owner := cli.SSH.KeyInUse(source, cli.Profiles.Fingerprints(cli.SSH.Fingerprint)); used {
					return fmt.Errorf("key %s is already used by profile %q", source, owner)
				}

				var err error
				keyPath, publicKey, err = cli.SSH.Import(name, source, email)
				if err != nil {
					return err
				}
				meta.Source = "imported"
				meta.PassphraseProtected = cli.SSH.PassphraseProtected(keyPath)
			} else {
				var err error
				keyPath, publicKey, err = cli.SSH.Generate(name, email, secret)
				if err != nil {
					return err
				}
				meta.PassphraseProtected = secret != ""
			}
			meta.Fingerprint = cli.SSH.Fingerprint(keyPath)

			if err := cli.Profiles.Create(name, fullName, email, keyPath, publicKey, meta); err != nil {
				// Keep the SSH directory consistent with the registry.
				cli.SSH.RemoveKey(keyPath)
				return err
			}

			if remember && secret != "" {
				if err := cli.Keyring.Set(name, secret); err != nil && cli.verboseFlag {
					fmt.Fprintf(os.Stderr, "Warning: could not store passphrase in keyring: %v\n", err)
				}
			}

			fmt.Printf("Profile %q created.\n", name)
			fmt.Printf("SSH key: %s\n", keyPath)
			fmt.Println()
			fmt.Println("Add the public key to your GitHub account:")
			fmt.Println("  " + publicKey)
			return nil
		},
	}

	cmd.Flags().StringVar(&fullName, "fullname", "", "Full name for git commits")
	cmd.Flags().StringVar(&email, "email", "", "Email address for git commits and the key comment")
	cmd.Flags().StringVar(&importKey, "import-key", "", "Import an existing private key instead of generating one")
	cmd.Flags().BoolVar(&passphrase, "passphrase", false, "Prompt for a passphrase to protect the generated key")
	cmd.Flags().BoolVar(&remember, "remember", false, "Store the passphrase in the OS keyring")
	cmd.MarkFlagRequired("fullname")
	cmd.MarkFlagRequired("email")

	return cmd
}

func (cli *CLI) newProfileSwitchCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "switch <name>",
		Aliases: []string{"use"},
		Short:   "Switch git and SSH identity to a profile",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := args[0]
			notifier := cli.notifier()

			if err := cli.Profiles.Switch(cmd.Context(), name, cli.Git, cli.SSH); err != nil {
				notifier.NotifyFailure(name, err)
				return err
			}

			rec, err := cli.Profiles.Get(name)
			if err == nil {
				notifier.NotifySwitch(name, rec.Email)
			}
			fmt.Printf("Switched to profile %q.\n", name)
			return nil
		},
	}
}

func (cli *CLI) newProfileUpdateCmd() *cobra.Command {
	var (
		fullName string
		email    string
	)

	cmd := &cobra.Command{
		Use:   "update <name>",
		Short: "Update a profile's identity fields",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			upd := profile.Update{}
			if cmd.Flags().Changed("fullname") {
				upd.FullName = &fullName
			}
			if cmd.Flags().Changed("email") {
				upd.Email = &email
			}
			if upd.FullName == nil && upd.Email == nil {
				return errors.New("nothing to update: pass --fullname and/or --email")
			}

			if err := cli.Profiles.Update(args[0], upd); err != nil {
				return err
			}
			fmt.Printf("Profile %q updated.\n", args[0])
			return nil
		},
	}

	cmd.Flags().StringVar(&fullName, "fullname", "", "New full name")
	cmd.Flags().StringVar(&email, "email", "", "New email address")

	return cmd
}

func (cli *CLI) newProfileDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "delete <name>",
		Aliases: []string{"remove", "rm"},
		Short:   "Delete a profile and its SSH key",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := args[0]
			if err := cli.Profiles.Delete(name, cli.SSH); err != nil {
				return err
			}
			// Best effort: forget any remembered passphrase.
			if err := cli.Keyring.Delete(name); err != nil && cli.verboseFlag {
				fmt.Fprintf(os.Stderr, "Warning: could not remove keyring entry: %v\n", err)
			}
			fmt.Printf("Profile %q deleted.\n", name)
			return nil
		},
	}
}

func (cli *CLI) newProfileShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "show <name>",
		Aliases: []string{"status"},
		Short:   "Show a profile's details",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := ParseOutputFormat(cli.outputFlag)
			if err != nil {
				return err
			}

			rec, err := cli.Profiles.Get(args[0])
			if err != nil {
				return err
			}
			active, _ := cli.Profiles.Current()

			output := NewOutputWriter(format)
			return output.Write(rec, func() {
				fmt.Printf("Profile:     %s\n", args[0])
				fmt.Printf("Full name:   %s\n", rec.FullName)
				fmt.Printf("Email:       %s\n", rec.Email)
				fmt.Printf("SSH key:     %s (%s, %s)\n", rec.SSHKeyPath, rec.SSHKeyType, rec.SSHKeySource)
				if rec.SSHKeyFingerprint != "" {
					fmt.Printf("Fingerprint: %s\n", rec.SSHKeyFingerprint)
				}
				fmt.Printf("Protected:   %v\n", rec.SSHKeyPassphraseProtected)
				fmt.Printf("Created:     %s\n", rec.CreatedAt)
				fmt.Printf("Last used:   %s\n", lastUsed(rec))
				fmt.Printf("Active:      %v\n", args[0] == active)
			})
		},
	}
}

func (cli *CLI) newProfileExportCmd() *cobra.Command {
	var (
		formatFlag string
		fileFlag   string
	)

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export all profiles to TOML, YAML or JSON",
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := registry.ParseFormat(formatFlag)
			if err != nil {
				return err
			}

			data, err := cli.Profiles.Export(format)
			if err != nil {
				return err
			}

			if fileFlag == "" || fileFlag == "-" {
				_, err = os.Stdout.Write(data)
				return err
			}
			return os.WriteFile(utils.ExpandPath(fileFlag), data, 0600)
		},
	}

	cmd.Flags().StringVar(&formatFlag, "format", "toml", "Export format (toml, yaml, json)")
	cmd.Flags().StringVar(&fileFlag, "file", "-", "Destination file, or - for stdout")

	return cmd
}

func (cli *CLI) newProfileImportCmd() *cobra.Command {
	var (
		formatFlag string
		overwrite  bool
	)

	cmd := &cobra.Command{
		Use:   "import <file>",
		Short: "Import profiles from an exported document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := registry.ParseFormat(formatFlag)
			if err != nil {
				return err
			}

			data, err := os.ReadFile(utils.ExpandPath(args[0]))
			if err != nil {
				return fmt.Errorf("reading import file: %w", err)
			}

			imported, err := cli.Profiles.Import(data, format, overwrite)
			if err != nil {
				return err
			}
			fmt.Printf("Imported %d profile(s).\n", len(imported))
			return nil
		},
	}

	cmd.Flags().StringVar(&formatFlag, "format", "toml", "Import format (toml, yaml, json)")
	cmd.Flags().BoolVar(&overwrite, "overwrite", false, "Replace existing profiles on name collision")

	return cmd
}
