package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/dmarrero/ghswitch/internal/profile"
	"github.com/dmarrero/ghswitch/internal/utils"
)

func profileUpdate(keyPath, publicKey, fingerprint, source string, protected bool) profile.Update {
	return profile.Update{
		SSHKeyPath:          &keyPath,
		SSHKeyPublic:        &publicKey,
		Fingerprint:         &fingerprint,
		PassphraseProtected: &protected,
		Source:              &source,
	}
}

// newSSHCmd creates the ssh command group.
func (cli *CLI) newSSHCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ssh",
		Short: "Manage profile SSH keys and connectivity",
		Long: `Manage the SSH keys backing profiles.

Examples:
  # Regenerate a profile's keypair
  ghswitch ssh regenerate work

  # Show a key's fingerprint
  ghswitch ssh fingerprint work

  # Verify GitHub authentication through the profile's host alias
  ghswitch ssh test work

  # Inspect the machine's existing SSH setup
  ghswitch ssh detect`,
	}

	cmd.AddCommand(
		cli.newSSHGenerateCmd(),
		cli.newSSHImportCmd(),
		cli.newSSHRegenerateCmd(),
		cli.newSSHFingerprintCmd(),
		cli.newSSHTestCmd(),
		cli.newSSHCopyCmd(),
		cli.newSSHDetectCmd(),
		cli.newSSHAdoptCmd(),
		cli.newSSHAgentCmd(),
	)

	return cmd
}

func (cli *CLI) newSSHGenerateCmd() *cobra.Command {
	var (
		passphrase bool
		remember   bool
	)

	cmd := &cobra.Command{
		Use:   "generate <profile>",
		Short: "Generate a keypair for a profile that has none",
		Long: `Generate a fresh Ed25519 keypair for an existing profile, for
example after importing a profile document onto a new machine. Fails if
a key already exists at the profile's path; use "ssh regenerate" to
replace one.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := args[0]
			rec, err := cli.Profiles.Get(name)
			if err != nil {
				return err
			}

			secret := ""
			if passphrase {
				secret, err = promptPassphrase()
				if err != nil {
					return err
				}
			}

			keyPath, publicKey, err := cli.SSH.Generate(name, rec.Email, secret)
			if err != nil {
				return err
			}

			fingerprint := cli.SSH.Fingerprint(keyPath)
			if err := cli.Profiles.Update(name, profileUpdate(keyPath, publicKey, fingerprint, "generated", secret != "")); err != nil {
				return err
			}

			if remember && secret != "" {
				if err := cli.Keyring.Set(name, secret); err != nil && cli.verboseFlag {
					fmt.Fprintf(os.Stderr, "Warning: could not store passphrase in keyring: %v\n", err)
				}
			}

			fmt.Printf("Generated key for profile %q.\n", name)
			fmt.Println()
			fmt.Println("Add the public key to your GitHub account:")
			fmt.Println("  " + publicKey)
			return nil
		},
	}

	cmd.Flags().BoolVar(&passphrase, "passphrase", false, "Prompt for a passphrase for the new key")
	cmd.Flags().BoolVar(&remember, "remember", false, "Store the passphrase in the OS keyring")

	return cmd
}

func (cli *CLI) newSSHImportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "import <profile> <private-key-path>",
		Short: "Import an existing keypair for a profile",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := args[0]
			rec, err := cli.Profiles.Get(name)
			if err != nil {
				return err
			}

			source := utils.ExpandPath(args[1])
			if used, owner := cli.SSH.KeyInUse(source, cli.Profiles.Fingerprints(cli.SSH.Fingerprint)); used {
				return fmt.Errorf("key %s is already used by profile %q", source, owner)
			}

			keyPath, publicKey, err := cli.SSH.Import(name, source, rec.Email)
			if err != nil {
				return err
			}

			fingerprint := cli.SSH.Fingerprint(keyPath)
			protected := cli.SSH.PassphraseProtected(keyPath)
			if err := cli.Profiles.Update(name, profileUpdate(keyPath, publicKey, fingerprint, "imported", protected)); err != nil {
				return err
			}

			fmt.Printf("Imported key for profile %q from %s.\n", name, source)
			return nil
		},
	}
}

func (cli *CLI) newSSHRegenerateCmd() *cobra.Command {
	var (
		passphrase bool
		remember   bool
	)

	cmd := &cobra.Command{
		Use:   "regenerate <profile>",
		Short: "Replace a profile's SSH keypair with a fresh one",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := args[0]
			rec, err := cli.Profiles.Get(name)
			if err != nil {
				return err
			}

			secret := ""
			if passphrase {
				secret, err = promptPassphrase()
				if err != nil {
					return err
				}
			}

			keyPath, publicKey, err := cli.SSH.Regenerate(name, rec.Email, secret)
			if err != nil {
				return err
			}

			fingerprint := cli.SSH.Fingerprint(keyPath)
			if err := cli.Profiles.Update(name, profileUpdate(keyPath, publicKey, fingerprint, "generated", secret != "")); err != nil {
				return err
			}

			if remember && secret != "" {
				if err := cli.Keyring.Set(name, secret); err != nil && cli.verboseFlag {
					fmt.Fprintf(os.Stderr, "Warning: could not store passphrase in keyring: %v\n", err)
				}
			}

			fmt.Printf("Regenerated key for profile %q.\n", name)
			fmt.Println()
			fmt.Println("Update the public key on your GitHub account:")
			fmt.Println("  " + publicKey)
			return nil
		},
	}

	cmd.Flags().BoolVar(&passphrase, "passphrase", false, "Prompt for a passphrase for the new key")
	cmd.Flags().BoolVar(&remember, "remember", false, "Store the passphrase in the OS keyring")

	return cmd
}

func (cli *CLI) newSSHFingerprintCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "fingerprint <profile>",
		Short: "Print a profile key's fingerprint",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rec, err := cli.Profiles.Get(args[0])
			if err != nil {
				return err
			}

			fingerprint := cli.SSH.Fingerprint(rec.SSHKeyPath)
			if fingerprint == "" {
				return fmt.Errorf("no readable public key for profile %q at %s", args[0], rec.SSHKeyPath)
			}
			fmt.Println(fingerprint)
			return nil
		},
	}
}

func (cli *CLI) newSSHTestCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "test <profile>",
		Short: "Test GitHub authentication for a profile",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := args[0]
			if !cli.Profiles.Exists(name) {
				return fmt.Errorf("profile %q not found", name)
			}

			ok, message := cli.SSH.TestConnection(cmd.Context(), name)
			fmt.Println(message)
			if !ok {
				return fmt.Errorf("connection test failed for profile %q", name)
			}
			return nil
		},
	}
}

func (cli *CLI) newSSHCopyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "copy <profile>",
		Short: "Copy a profile's public key to the clipboard",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := args[0]
			if !cli.Profiles.Exists(name) {
				return fmt.Errorf("profile %q not found", name)
			}

			publicKey := cli.SSH.PublicKey(name)
			if publicKey == "" {
				return fmt.Errorf("no public key found for profile %q", name)
			}

			if cli.SSH.CopyPublicKeyToClipboard(name) {
				fmt.Println("Public key copied to clipboard.")
				return nil
			}

			// Headless environments have no clipboard; print instead.
			fmt.Println("Clipboard unavailable. Public key:")
			fmt.Println("  " + publicKey)
			return nil
		},
	}
}

func (cli *CLI) newSSHDetectCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "detect",
		Short: "Analyze existing SSH keys and GitHub configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := ParseOutputFormat(cli.outputFlag)
			if err != nil {
				return err
			}

			report := cli.SSH.DetectSetup(cmd.Context())

			output := NewOutputWriter(format)
			return output.Write(report, func() {
				fmt.Printf("SSH keys found:        %d\n", len(report.AllKeys))
				fmt.Printf("GitHub-likely keys:    %d\n", len(report.GitHubKeys))
				fmt.Printf("GitHub host in config: %v\n", report.HasGitHubHost)
				fmt.Printf("GitHub connectivity:   %v\n", report.Connectivity)
				if len(report.AllKeys) > 0 {
					fmt.Println()
					for _, key := range report.AllKeys {
						fmt.Printf("  %s (%s)\n", key.Name, key.Type)
					}
				}
				if len(report.Recommendations) > 0 {
					fmt.Println()
					for _, rec := range report.Recommendations {
						fmt.Println("- " + rec)
					}
				}
			})
		},
	}
}

func (cli *CLI) newSSHAdoptCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "adopt <profile>",
		Short: "Point the default github.com host entry at a profile's key",
		Long: `Rewrite the bare "Host github.com" entry in the SSH config so its
IdentityFile is the profile's key, creating the entry when absent. Useful
when existing tooling relies on the default host rather than the
per-profile alias.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rec, err := cli.Profiles.Get(args[0])
			if err != nil {
				return err
			}
			if err := cli.SSH.UpdateDefaultHost(rec.SSHKeyPath); err != nil {
				return err
			}
			fmt.Printf("Default github.com host now uses profile %q.\n", args[0])
			return nil
		},
	}
}

func (cli *CLI) newSSHAgentCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "agent",
		Short: "Interact with the running ssh-agent",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List fingerprints of keys loaded in the ssh-agent",
		RunE: func(cmd *cobra.Command, args []string) error {
			fingerprints := cli.SSH.ListAgentFingerprints(cmd.Context())
			if len(fingerprints) == 0 {
				fmt.Println("No keys loaded (or no agent running).")
				return nil
			}
			for _, fp := range fingerprints {
				fmt.Println(fp)
			}
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "add <profile>",
		Short: "Add a profile's key to the ssh-agent",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rec, err := cli.Profiles.Get(args[0])
			if err != nil {
				return err
			}

			if cli.SSH.KeyInAgent(cmd.Context(), rec.SSHKeyPath) {
				fmt.Println("Key is already loaded in the agent.")
				return nil
			}

			// A remembered passphrase answers the ssh-add prompt.
			passphrase := ""
			if cli.SSH.PassphraseProtected(rec.SSHKeyPath) {
				stored, err := cli.Keyring.Get(args[0])
				if err != nil {
					return fmt.Errorf("key is passphrase-protected and no passphrase is stored; run: ssh-add %s", rec.SSHKeyPath)
				}
				passphrase = stored
			}

			if !cli.SSH.AddToAgent(cmd.Context(), rec.SSHKeyPath, passphrase) {
				return fmt.Errorf("ssh-add failed for %s", rec.SSHKeyPath)
			}
			fmt.Println("Key added to the agent.")
			return nil
		},
	})

	return cmd
}
