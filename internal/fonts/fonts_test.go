package fonts

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"configurator/internal/download"
)

func touch(t *testing.T, path string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte("font"), 0o644))
}

func TestScanDir(t *testing.T) {
	dir := t.TempDir()
	touch(t, filepath.Join(dir, "Inter", "Inter-Regular.ttf"))
	touch(t, filepath.Join(dir, "Inter", "OFL.txt"))
	touch(t, filepath.Join(dir, "Mono.OTF"))

	files, err := ScanDir(dir)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"Inter/Inter-Regular.ttf", "Mono.OTF"}, files)

	files, err = ScanDir(filepath.Join(dir, "missing"))
	require.NoError(t, err)
	assert.Empty(t, files)
}

func TestSearchCandidates(t *testing.T) {
	assert.Equal(t, []string{"Inter/Inter-Regular.ttf", "Inter", "Inter/Inter-Regular"},
		SearchCandidates("Inter/Inter-Regular.ttf"))
	assert.Equal(t, []string{"GoogleSans-Regular.ttf", "GoogleSans", "GoogleSans-Regular"},
		SearchCandidates("GoogleSans-Regular.ttf"))
	assert.Equal(t, []string{"fonts/my-font", "fonts", "my"}, SearchCandidates("fonts/my-font"))
	assert.Equal(t, []string{"Open Sans"}, SearchCandidates(" Open Sans "))
	assert.Nil(t, SearchCandidates("  "))
}

func TestFindInPrefersRegular(t *testing.T) {
	dir := t.TempDir()
	touch(t, filepath.Join(dir, "Inter", "Inter-Bold.ttf"))
	touch(t, filepath.Join(dir, "Inter", "Inter-Regular.ttf"))
	touch(t, filepath.Join(dir, "OpenSans", "OpenSans-Light.ttf"))

	p, err := FindIn([]string{dir}, "inter")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "Inter", "Inter-Regular.ttf"), p)

	p, err = FindIn([]string{filepath.Join(dir, "nope"), dir}, "Open Sans")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "OpenSans", "OpenSans-Light.ttf"), p)

	_, err = FindIn([]string{dir}, "Roboto")
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestFolders(t *testing.T) {
	assert.Equal(t, []string{"opensans", "open-sans"}, Folders("Open Sans"))
	assert.Equal(t, []string{"inter"}, Folders("Inter"))
	assert.Nil(t, Folders(""))
}

func googleServer(t *testing.T, listings map[string][]githubFile, hits *atomic.Int32) (*httptest.Server, *Finder) {
	t.Helper()
	mux := http.NewServeMux()
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	mux.HandleFunc("/ofl/", func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		files, ok := listings[filepath.Base(r.URL.Path)]
		if !ok {
			http.NotFound(w, r)
			return
		}
		for i := range files {
			if files[i].DownloadURL != "" && files[i].DownloadURL[0] == '/' {
				files[i].DownloadURL = srv.URL + files[i].DownloadURL
			}
		}
		_ = json.NewEncoder(w).Encode(files)
	})
	mux.HandleFunc("/raw/", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("ttf:" + r.URL.Path))
	})
	dir := t.TempDir()
	return srv, &Finder{
		Dirs:      []string{dir},
		API:       srv.URL + "/ofl",
		RawPrefix: srv.URL + "/raw/",
		Client:    srv.Client(),
		Download:  download.Download,
	}
}

func TestResolveDownloadsUprightFace(t *testing.T) {
	var hits atomic.Int32
	_, f := googleServer(t, map[string][]githubFile{
		"open-sans": {
			{Name: "OFL.txt", Type: "file", DownloadURL: "/raw/ofl/open-sans/OFL.txt"},
			{Name: "OpenSans-Italic.ttf", Type: "file", DownloadURL: "/raw/ofl/open-sans/OpenSans-Italic.ttf"},
			{Name: "OpenSans-Regular.ttf", Type: "file", DownloadURL: "/raw/ofl/open-sans/OpenSans-Regular.ttf"},
			{Name: "static", Type: "dir"},
		},
	}, &hits)

	p, err := f.Resolve(context.Background(), "Open Sans")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(f.Dirs[0], "open-sans", "OpenSans-Regular.ttf"), p)
	data, err := os.ReadFile(p)
	require.NoError(t, err)
	assert.Equal(t, "ttf:/raw/ofl/open-sans/OpenSans-Regular.ttf", string(data))
	assert.Equal(t, int32(2), hits.Load(), "opensans is tried first and misses")

	// The second call finds the downloaded file locally.
	p2, err := f.Resolve(context.Background(), "Open Sans")
	require.NoError(t, err)
	assert.Equal(t, p, p2)
	assert.Equal(t, int32(2), hits.Load())
}

func TestResolveRejectsForeignOrigins(t *testing.T) {
	var hits atomic.Int32
	_, f := googleServer(t, map[string][]githubFile{
		"inter": {{Name: "Inter.ttf", Type: "file", DownloadURL: "https://evil.example/Inter.ttf"}},
	}, &hits)

	_, err := f.Resolve(context.Background(), "Inter")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no .ttf/.otf file")
}

func TestResolveFallsBackToItalic(t *testing.T) {
	var hits atomic.Int32
	_, f := googleServer(t, map[string][]githubFile{
		"lora": {{Name: "Lora-Italic.ttf", Type: "file", DownloadURL: "/raw/ofl/lora/Lora-Italic.ttf"}},
	}, &hits)

	p, err := f.Resolve(context.Background(), "Lora")
	require.NoError(t, err)
	assert.Equal(t, "Lora-Italic.ttf", filepath.Base(p))
}

func TestResolveUnknownFamily(t *testing.T) {
	var hits atomic.Int32
	_, f := googleServer(t, nil, &hits)

	_, err := f.Resolve(context.Background(), "No Such Font")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found on Google Fonts")

	_, err = f.Resolve(context.Background(), " ")
	assert.EqualError(t, err, "fonts: empty family name")
}
