package main

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dave/mapmerge/kml"
	"github.com/dave/mapmerge/store"
)

func TestRun(t *testing.T) {
	dir := t.TempDir()
	writeKmz(t, filepath.Join(dir, "morning.kmz"), kmlWithTracks(map[string]string{"Lap 1": "1,2,3 4,5,6"}))
	writeKmz(t, filepath.Join(dir, "evening.kmz"), kmlWithTracks(map[string]string{"Stroll": "7,8,9 10,11,12"}))

	output := filepath.Join(t.TempDir(), "combined.kml")
	logger, _ := testLogger(t)
	err := run(context.Background(), options{
		dir:    dir,
		output: output,
		style:  DefaultStyle,
	}, logger)
	require.NoError(t, err)

	loaded, err := kml.Load(output)
	require.NoError(t, err)
	assert.Len(t, loaded.Placemarks(), 2)
}

func TestRunSkipsCorruptArchive(t *testing.T) {
	dir := t.TempDir()
	writeKmz(t, filepath.Join(dir, "good.kmz"), kmlWithTracks(map[string]string{"Good": "1,2,3 4,5,6"}))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "bad.kmz"), []byte("not a zip"), 0666))

	output := filepath.Join(t.TempDir(), "combined.kml")
	logger, buf := testLogger(t)
	err := run(context.Background(), options{dir: dir, output: output, style: DefaultStyle}, logger)
	require.NoError(t, err)

	loaded, err := kml.Load(output)
	require.NoError(t, err)
	require.Len(t, loaded.Placemarks(), 1)
	assert.Equal(t, "Good", loaded.Placemarks()[0].Name)
	assert.Contains(t, buf.String(), "skipping archive")
}

func TestRunNoRoutes(t *testing.T) {
	output := filepath.Join(t.TempDir(), "combined.kml")
	logger, _ := testLogger(t)
	err := run(context.Background(), options{dir: t.TempDir(), output: output, style: DefaultStyle}, logger)
	require.Error(t, err)
	assert.NoFileExists(t, output)
}

func TestRunMergeAcrossRuns(t *testing.T) {
	storePath := filepath.Join(t.TempDir(), "routes.store")
	output := filepath.Join(t.TempDir(), "combined.kml")
	logger, _ := testLogger(t)

	// First run: one archive with one track.
	dir1 := t.TempDir()
	writeKmz(t, filepath.Join(dir1, "run.kmz"), kmlWithTracks(map[string]string{"Lap 1": "1,2,3 4,5,6"}))
	require.NoError(t, run(context.Background(), options{
		dir: dir1, output: output, mergeStore: storePath, style: DefaultStyle,
	}, logger))

	// Second run: a new archive, plus the first one re-exported with a
	// different line. The re-export must replace, the new one must add.
	dir2 := t.TempDir()
	writeKmz(t, filepath.Join(dir2, "run.kmz"), kmlWithTracks(map[string]string{"Lap 1": "9,9,9 8,8,8 7,7,7"}))
	writeKmz(t, filepath.Join(dir2, "hike.kmz"), kmlWithTracks(map[string]string{"Summit": "5,5,5 6,6,6"}))
	require.NoError(t, run(context.Background(), options{
		dir: dir2, output: output, mergeStore: storePath, style: DefaultStyle,
	}, logger))

	col, err := store.Load(storePath)
	require.NoError(t, err)
	assert.Equal(t, []string{"hike/Summit", "run/Lap 1"}, col.IDs())
	assert.Len(t, col["run/Lap 1"].Line, 3)

	loaded, err := kml.Load(output)
	require.NoError(t, err)
	assert.Len(t, loaded.Placemarks(), 2)
}

func TestRunCorruptStoreFatal(t *testing.T) {
	dir := t.TempDir()
	writeKmz(t, filepath.Join(dir, "run.kmz"), kmlWithTracks(map[string]string{"Lap 1": "1,2,3 4,5,6"}))

	storePath := filepath.Join(t.TempDir(), "routes.store")
	require.NoError(t, os.WriteFile(storePath, []byte("not a store"), 0666))

	output := filepath.Join(t.TempDir(), "combined.kml")
	logger, _ := testLogger(t)
	err := run(context.Background(), options{
		dir: dir, output: output, mergeStore: storePath, style: DefaultStyle,
	}, logger)
	require.Error(t, err)
	assert.True(t, errors.Is(err, store.ErrCorrupt))
	assert.NoFileExists(t, output)
}

func TestRunUpload(t *testing.T) {
	dir := t.TempDir()
	writeKmz(t, filepath.Join(dir, "run.kmz"), kmlWithTracks(map[string]string{"Lap 1": "1,2,3 4,5,6"}))

	output := filepath.Join(t.TempDir(), "combined.kml")
	logger, _ := testLogger(t)

	var gotPath, gotName string
	err := run(context.Background(), options{
		dir:    dir,
		output: output,
		upload: true,
		style:  DefaultStyle,
		uploader: func(ctx context.Context, fpath, name string) (string, error) {
			gotPath, gotName = fpath, name
			return "remote-id-1", nil
		},
	}, logger)
	require.NoError(t, err)
	assert.Equal(t, output, gotPath)
	assert.Equal(t, "combined.kml", gotName)
}

func TestRunUploadFailure(t *testing.T) {
	dir := t.TempDir()
	writeKmz(t, filepath.Join(dir, "run.kmz"), kmlWithTracks(map[string]string{"Lap 1": "1,2,3 4,5,6"}))

	output := filepath.Join(t.TempDir(), "combined.kml")
	logger, _ := testLogger(t)

	err := run(context.Background(), options{
		dir:    dir,
		output: output,
		upload: true,
		style:  DefaultStyle,
		uploader: func(ctx context.Context, fpath, name string) (string, error) {
			return "", errors.New("quota exceeded")
		},
	}, logger)
	require.Error(t, err)

	// The local output survives a failed upload.
	assert.FileExists(t, output)
}
