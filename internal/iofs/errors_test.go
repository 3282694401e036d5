package iofs

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/gnames/gn"
	"github.com/gnames/mpdb/pkg/config"
	"github.com/gnames/mpdb/pkg/errcode"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func gnError(t *testing.T, err error) *gn.Error {
	t.Helper()
	var gnErr *gn.Error
	require.True(t, errors.As(err, &gnErr), "%v", err)
	return gnErr
}

func TestEnsureDirsError(t *testing.T) {
	// HOME is a regular file, no directory can be made under it
	home := filepath.Join(t.TempDir(), "home")
	require.NoError(t, os.WriteFile(home, []byte("x"), 0644))

	err := EnsureDirs(home)
	require.Error(t, err)

	gnErr := gnError(t, err)
	assert.Equal(t, errcode.CreateDirError, gnErr.Code)
	require.Len(t, gnErr.Vars, 1)
	assert.Equal(t, config.ConfigDir(home), gnErr.Vars[0])
	assert.Contains(t, gnErr.Err.Error(), config.ConfigDir(home))
}

func TestEnsureConfigFileError(t *testing.T) {
	home := t.TempDir()
	// config dir is never created
	err := EnsureConfigFile(home)
	require.Error(t, err)

	gnErr := gnError(t, err)
	assert.Equal(t, errcode.ConfigWriteError, gnErr.Code)
	path := config.ConfigFilePath(home)
	assert.Equal(t, []any{path}, gnErr.Vars)
	assert.ErrorIs(t, gnErr.Err, os.ErrNotExist)

	_, statErr := os.Stat(path)
	assert.True(t, os.IsNotExist(statErr))
}

func TestConfigReadError(t *testing.T) {
	cause := errors.New("yaml: line 3: mapping values are not allowed")
	err := ConfigReadError("/home/u/.config/mpdb/config.yaml", cause)

	gnErr := gnError(t, err)
	assert.Equal(t, errcode.ConfigReadError, gnErr.Code)
	assert.Contains(t, gnErr.Msg, "fix or remove")
	assert.ErrorIs(t, gnErr.Err, cause)
	assert.Contains(t, err.Error(), "config.yaml")
}
