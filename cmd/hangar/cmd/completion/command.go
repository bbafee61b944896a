// Package completion provides the completion command.
package completion

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/agentstation/hangar/internal/cmd/completion"
	"github.com/agentstation/hangar/internal/cmd/constants"
)

// NewCommand creates the completion command.
func NewCommand() *cobra.Command {
	var install, uninstall bool

	cmd := &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate completion script",
		Long: `To load completions:

Bash:

  $ source <(hangar completion bash)

Zsh:

  # If shell completion is not already enabled in your environment,
  # you will need to enable it. You can execute the following once:
  $ echo "autoload -U compinit; compinit" >> ~/.zshrc

  $ hangar completion zsh > "${fpath[1]}/_hangar"

Fish:

  $ hangar completion fish | source

PowerShell:

  PS> hangar completion powershell | Out-String | Invoke-Expression

For bash, zsh and fish, --install writes the script to the usual
completion directory (Homebrew's when present) and --uninstall removes it.`,
		DisableFlagsInUseLine: true,
		ValidArgs:             constants.Shells(),
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			shell := args[0]
			out := cmd.OutOrStdout()

			switch {
			case install && uninstall:
				return fmt.Errorf("--install and --uninstall are mutually exclusive")
			case install:
				path, err := completion.Install(cmd.Root(), shell)
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "%s completions installed to: %s\n", shell, path)
				fmt.Fprintln(out, "Start a new shell session to enable them.")
				return nil
			case uninstall:
				removed, err := completion.Uninstall(shell)
				for _, p := range removed {
					fmt.Fprintf(out, "Removed %s\n", p)
				}
				if err != nil {
					return err
				}
				if len(removed) == 0 {
					fmt.Fprintf(out, "No %s completions found\n", shell)
				}
				return nil
			default:
				return completion.Generate(cmd.Root(), shell, out)
			}
		},
	}

	cmd.Flags().BoolVar(&install, "install", false, "install the completion script for the shell")
	cmd.Flags().BoolVar(&uninstall, "uninstall", false, "remove installed completion scripts for the shell")
	return cmd
}
