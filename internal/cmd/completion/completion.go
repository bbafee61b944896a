// Package completion generates, installs and removes shell completion
// scripts for the hangar CLI.
package completion

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/agentstation/hangar/internal/cmd/constants"
	pkgconstants "github.com/agentstation/hangar/pkg/constants"
	"github.com/agentstation/hangar/pkg/errors"
)

const binary = "hangar"

// Generate writes the completion script for shell to w.
func Generate(root *cobra.Command, shell string, w io.Writer) error {
	switch shell {
	case constants.ShellBash:
		return root.GenBashCompletionV2(w, true)
	case constants.ShellZsh:
		return root.GenZshCompletion(w)
	case constants.ShellFish:
		return root.GenFishCompletion(w, true)
	case constants.ShellPowerShell:
		return root.GenPowerShellCompletionWithDesc(w)
	default:
		return unsupported(shell)
	}
}

// Install writes the completion script for shell to its usual location and
// returns the path written.
func Install(root *cobra.Command, shell string) (path string, err error) {
	path, err = Path(shell)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(filepath.Dir(path), pkgconstants.DirPermissions); err != nil {
		return "", errors.WrapIO("create", filepath.Dir(path), err)
	}

	file, err := os.Create(path) // #nosec G304 - path comes from Path
	if err != nil {
		return "", errors.WrapIO("create", path, err)
	}
	defer func() {
		if closeErr := file.Close(); closeErr != nil && err == nil {
			err = errors.WrapIO("close", path, closeErr)
		}
	}()

	if err := Generate(root, shell, file); err != nil {
		return "", fmt.Errorf("generating %s completion: %w", shell, err)
	}
	return path, nil
}

// Uninstall removes the completion script Install would write, and any copy
// found in other common locations. It returns the removed paths.
func Uninstall(shell string) ([]string, error) {
	path, err := Path(shell)
	if err != nil {
		return nil, err
	}

	var removed []string
	for _, p := range append([]string{path}, commonPaths(shell)...) {
		info, err := os.Stat(p)
		if err != nil || info.IsDir() {
			continue
		}
		if err := os.Remove(p); err != nil {
			return removed, errors.WrapIO("remove", p, err)
		}
		removed = append(removed, p)
	}
	return removed, nil
}

// Path returns where Install puts the completion script for shell:
// under $HOMEBREW_PREFIX when set or detected, otherwise in the user's
// home directory.
func Path(shell string) (string, error) {
	var brewRel, homeRel string
	switch shell {
	case constants.ShellBash:
		brewRel = filepath.Join("etc", "bash_completion.d", binary)
		homeRel = filepath.Join(".bash_completion.d", binary)
	case constants.ShellZsh:
		brewRel = filepath.Join("share", "zsh", "site-functions", "_"+binary)
		homeRel = filepath.Join(".zsh", "completions", "_"+binary)
	case constants.ShellFish:
		brewRel = filepath.Join("share", "fish", "vendor_completions.d", binary+".fish")
		homeRel = filepath.Join(".config", "fish", "completions", binary+".fish")
	default:
		return "", unsupported(shell)
	}

	if prefix := brewPrefix(); prefix != "" {
		return filepath.Join(prefix, brewRel), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", errors.WrapIO("locate", "home directory", err)
	}
	return filepath.Join(home, homeRel), nil
}

func brewPrefix() string {
	if prefix := os.Getenv("HOMEBREW_PREFIX"); prefix != "" {
		return prefix
	}
	for _, prefix := range []string{"/opt/homebrew", "/usr/local"} {
		if _, err := os.Stat(filepath.Join(prefix, "bin", "brew")); err == nil {
			return prefix
		}
	}
	return ""
}

func commonPaths(shell string) []string {
	home, _ := os.UserHomeDir()
	switch shell {
	case constants.ShellBash:
		return []string{
			"/etc/bash_completion.d/" + binary,
			"/usr/share/bash-completion/completions/" + binary,
			filepath.Join(home, ".bash_completion.d", binary),
		}
	case constants.ShellZsh:
		return []string{
			"/usr/local/share/zsh/site-functions/_" + binary,
			filepath.Join(home, ".zsh", "completions", "_"+binary),
		}
	case constants.ShellFish:
		return []string{
			"/usr/share/fish/completions/" + binary + ".fish",
			filepath.Join(home, ".config", "fish", "completions", binary+".fish"),
		}
	}
	return nil
}

func unsupported(shell string) error {
	return errors.NewValidationError("shell", shell, "unsupported shell (want bash, zsh, fish or powershell)")
}
