package archive

import (
	"archive/zip"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeZip(t *testing.T, files map[string]string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "bundle.zip")
	f, err := os.Create(p)
	require.NoError(t, err)
	zw := zip.NewWriter(f)
	for name, body := range files {
		w, err := zw.Create(name)
		require.NoError(t, err)
		_, err = w.Write([]byte(body))
		require.NoError(t, err)
	}
	require.NoError(t, zw.Close())
	require.NoError(t, f.Close())
	return p
}

func TestUnzipAndFindModel(t *testing.T) {
	zp := writeZip(t, map[string]string{
		"scene.gltf":           "{}",
		"scene.bin":            "bin",
		"textures/paint.png":   "png",
		"extra/nested/car.glb": "glb",
	})
	dest := t.TempDir()
	files, err := Unzip(zp, dest)
	require.NoError(t, err)
	assert.Len(t, files, 4)

	got, err := FindModelFile(dest)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dest, "extra", "nested", "car.glb"), got, ".glb wins over .gltf")
}

func TestFindModelPrefersShallow(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "lod"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "lod", "a.glb"), nil, 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "z.glb"), nil, 0644))

	got, err := FindModelFile(dir)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "z.glb"), got)
}

func TestFindModelNone(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "readme.txt"), nil, 0644))
	_, err := FindModelFile(dir)
	assert.ErrorIs(t, err, ErrNoModel)
}

func TestUnzipSkipsEscapes(t *testing.T) {
	zp := writeZip(t, map[string]string{"../evil.glb": "x", "ok.glb": "y"})
	dest := t.TempDir()
	files, err := Unzip(zp, dest)
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(dest, "ok.glb")}, files)
}

func TestUnzipMissing(t *testing.T) {
	_, err := Unzip(filepath.Join(t.TempDir(), "nope.zip"), t.TempDir())
	assert.Error(t, err)
}
