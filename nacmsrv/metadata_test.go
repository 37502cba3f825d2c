package nacmsrv

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetadataSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "meta.json")
	m := &Metadata{PolicyVersion: "v3", LoadedAt: "5"}
	require.NoError(t, m.Save(path))

	loaded := NewMetadata()
	require.NoError(t, loaded.Load(path))
	assert.Equal(t, "v3", loaded.PolicyVersion)
	assert.Equal(t, "5", loaded.LoadedAt)
}

func TestMetadataLoadMissingFile(t *testing.T) {
	loaded := NewMetadata()
	err := loaded.Load(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)
}

func TestCheckpointMissingSourceIsNotError(t *testing.T) {
	assert.NoError(t, Checkpoint(filepath.Join(t.TempDir(), "missing.json")))
}

func TestCheckpointCreatesBackup(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "meta.json")
	m := NewMetadata()
	require.NoError(t, m.Save(path))
	require.NoError(t, Checkpoint(path))
	assert.FileExists(t, path+backupExt)
}
