package storage

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalStorageSaveAndOpen(t *testing.T) {
	dir := t.TempDir()
	store, err := NewLocalStorage(dir)
	require.NoError(t, err)

	rel, err := store.Save("reports/register.csv", []byte("roll,name\n1,Mira\n"))
	require.NoError(t, err)
	assert.Equal(t, "reports/register.csv", rel)

	file, err := store.Open(rel)
	require.NoError(t, err)
	require.NoError(t, file.Close())
}

func TestLocalStoragePathsStayInsideBaseDir(t *testing.T) {
	dir := t.TempDir()
	store, err := NewLocalStorage(dir)
	require.NoError(t, err)

	for _, name := range []string{
		"../outside.csv",
		"reports/../../outside.csv",
		"/etc/passwd",
	} {
		resolved := store.Path(name)
		assert.True(t, strings.HasPrefix(resolved, dir+string(filepath.Separator)),
			"path %q resolved outside base dir: %s", name, resolved)
	}
}
