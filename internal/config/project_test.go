package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	foundationerrors "git.home.luguber.info/inful/rde/internal/foundation/errors"
)

func writePackageJSON(t *testing.T, dir, name string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "package.json"), []byte(`{"name":"`+name+`"}`), 0o600))
}

func TestKindFromPackageName(t *testing.T) {
	kind, err := KindFromPackageName("@scope/widgets-rdt")
	require.NoError(t, err)
	assert.Equal(t, KindFramework, kind)

	kind, err = KindFromPackageName("admin-rds")
	require.NoError(t, err)
	assert.Equal(t, KindStarterKit, kind)

	_, err = KindFromPackageName("plain-package")
	require.Error(t, err)
	assert.True(t, foundationerrors.HasCategory(err, foundationerrors.CategoryConfig))
}

func TestLoadProject_DerivesKindFromPackageJSON(t *testing.T) {
	dir := t.TempDir()
	writePackageJSON(t, dir, "shop-rdt")

	p, err := LoadProject(dir, "")
	require.NoError(t, err)
	assert.True(t, p.IsFramework())
	assert.Equal(t, FrameworkVue, p.Framework)
	assert.Empty(t, p.Docs.UserScripts)
}

func TestLoadProject_ExplicitFile(t *testing.T) {
	dir := t.TempDir()
	content := `kind: starter-kit
framework: react
docs:
  user_scripts: <script>window.track()</script>
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, DefaultProjectFile), []byte(content), 0o600))

	p, err := LoadProject(dir, DefaultProjectFile)
	require.NoError(t, err)
	assert.Equal(t, KindStarterKit, p.Kind)
	assert.False(t, p.IsFramework())
	assert.Equal(t, FrameworkReact, p.Framework)
	assert.Equal(t, "<script>window.track()</script>", p.Docs.UserScripts)
}

func TestLoadProject_Errors(t *testing.T) {
	t.Run("no package.json and no kind", func(t *testing.T) {
		_, err := LoadProject(t.TempDir(), "")
		require.Error(t, err)
		assert.True(t, foundationerrors.HasCategory(err, foundationerrors.CategoryConfig))
	})

	t.Run("bad package name", func(t *testing.T) {
		dir := t.TempDir()
		writePackageJSON(t, dir, "something-else")
		_, err := LoadProject(dir, "")
		require.Error(t, err)
	})

	t.Run("unknown framework", func(t *testing.T) {
		dir := t.TempDir()
		require.NoError(t, os.WriteFile(filepath.Join(dir, DefaultProjectFile), []byte("kind: framework\nframework: svelte\n"), 0o600))
		_, err := LoadProject(dir, "")
		require.ErrorIs(t, err, ErrUnknownFramework)
	})

	t.Run("unknown kind", func(t *testing.T) {
		dir := t.TempDir()
		require.NoError(t, os.WriteFile(filepath.Join(dir, DefaultProjectFile), []byte("kind: library\n"), 0o600))
		_, err := LoadProject(dir, "")
		require.Error(t, err)
	})
}
