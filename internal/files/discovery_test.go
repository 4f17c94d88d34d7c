package files

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"moviescope/internal/config"
	apperrors "moviescope/internal/errors"
)

// touch creates name in dir with a modification time offset from now
func touch(t *testing.T, dir, name string, age time.Duration) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte("id\n1\n"), 0644))
	modTime := time.Now().Add(-age)
	require.NoError(t, os.Chtimes(path, modTime, modTime))
	return path
}

func names(files []FileInfo) []string {
	out := make([]string, len(files))
	for i, f := range files {
		out[i] = f.Name
	}
	return out
}

func TestFindDatasets(t *testing.T) {
	tests := []struct {
		name  string
		files []string
		want  []string
	}{
		{
			name:  "csv and xlsx",
			files: []string{"tmdb-movies.csv", "tmdb-movies.xlsx", "notes.txt"},
			want:  []string{"tmdb-movies.csv", "tmdb-movies.xlsx"},
		},
		{
			name:  "case insensitive extension",
			files: []string{"MOVIES.CSV"},
			want:  []string{"MOVIES.CSV"},
		},
		{
			name:  "skips lock files and previous outputs",
			files: []string{"~$tmdb-movies.xlsx", config.CleanedDatasetFile, config.CleaningLogFile, "raw.csv"},
			want:  []string{"raw.csv"},
		},
		{
			name:  "empty directory",
			files: nil,
			want:  []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			for i, name := range tt.files {
				touch(t, dir, name, time.Duration(len(tt.files)-i)*time.Minute)
			}

			files, err := NewDiscovery("").FindDatasets(dir)
			require.NoError(t, err)
			assert.Equal(t, tt.want, names(files))

			for _, f := range files {
				assert.Equal(t, filepath.Join(dir, f.Name), f.Path)
				assert.Positive(t, f.Size)
			}
		})
	}
}

func TestFindDatasets_RelativeToBase(t *testing.T) {
	base := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(base, "data"), 0755))
	touch(t, filepath.Join(base, "data"), "movies.csv", 0)

	files, err := NewDiscovery(base).FindDatasets("data")
	require.NoError(t, err)
	require.Len(t, files, 1)
	assert.Equal(t, filepath.Join(base, "data", "movies.csv"), files[0].Path)

	_, err = NewDiscovery(base).FindDatasets("missing")
	assert.Error(t, err)
}

func TestResolveDataset(t *testing.T) {
	t.Run("file is returned as is", func(t *testing.T) {
		path := touch(t, t.TempDir(), "movies.csv", 0)
		got, err := NewDiscovery("").ResolveDataset(path)
		require.NoError(t, err)
		assert.Equal(t, path, got)
	})

	t.Run("missing path is returned for the input check", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "absent.csv")
		got, err := NewDiscovery("").ResolveDataset(path)
		require.NoError(t, err)
		assert.Equal(t, path, got)
	})

	t.Run("directory picks the newest dataset", func(t *testing.T) {
		dir := t.TempDir()
		touch(t, dir, "old.csv", 2*time.Hour)
		newest := touch(t, dir, "new.xlsx", time.Minute)
		touch(t, dir, config.CleanedDatasetFile, 0)

		got, err := NewDiscovery("").ResolveDataset(dir)
		require.NoError(t, err)
		assert.Equal(t, newest, got)
	})

	t.Run("directory without datasets", func(t *testing.T) {
		dir := t.TempDir()
		touch(t, dir, "readme.txt", 0)

		_, err := NewDiscovery("").ResolveDataset(dir)
		require.Error(t, err)
		assert.True(t, apperrors.IsType(err, apperrors.ErrTypeNotFound))
	})
}

func TestGetLatestFile(t *testing.T) {
	_, ok := GetLatestFile(nil)
	assert.False(t, ok)

	now := time.Now()
	latest, ok := GetLatestFile([]FileInfo{
		{Name: "a", ModTime: now.Add(-time.Hour)},
		{Name: "b", ModTime: now},
		{Name: "c", ModTime: now.Add(-time.Minute)},
	})
	require.True(t, ok)
	assert.Equal(t, "b", latest.Name)
}
