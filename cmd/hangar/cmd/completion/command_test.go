package completion

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := &cobra.Command{Use: "hangar"}
	root.AddCommand(NewCommand())
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(append([]string{"completion"}, args...))
	err := root.Execute()
	return out.String(), err
}

func TestCompletionScript(t *testing.T) {
	out, err := execute(t, "bash")
	require.NoError(t, err)
	assert.Contains(t, out, "__start_hangar")
}

func TestCompletionInstall(t *testing.T) {
	prefix := t.TempDir()
	t.Setenv("HOMEBREW_PREFIX", prefix)
	t.Setenv("HOME", t.TempDir())

	out, err := execute(t, "fish", "--install")
	require.NoError(t, err)
	assert.Contains(t, out, filepath.Join(prefix, "share", "fish", "vendor_completions.d", "hangar.fish"))

	out, err = execute(t, "fish", "--uninstall")
	require.NoError(t, err)
	assert.Contains(t, out, "Removed ")

	out, err = execute(t, "fish", "--uninstall")
	require.NoError(t, err)
	assert.Contains(t, out, "No fish completions found")
}

func TestCompletionErrors(t *testing.T) {
	_, err := execute(t, "tcsh")
	assert.Error(t, err)

	_, err = execute(t)
	assert.Error(t, err)

	_, err = execute(t, "zsh", "--install", "--uninstall")
	assert.Error(t, err)
}
