package fonts

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"path/filepath"
	"strings"

	"configurator/internal/download"
)

const (
	googleFontsAPI = "https://api.github.com/repos/google/fonts/contents/ofl"
	googleFontsRaw = "https://raw.githubusercontent.com/google/fonts/"
)

type githubFile struct {
	Name        string `json:"name"`
	Type        string `json:"type"`
	DownloadURL string `json:"download_url"`
}

// Finder resolves a family name to a local font file.
type Finder struct {
	// Dirs are searched in order; downloads land in Dirs[0].
	Dirs []string

	// API lists a family folder of the google/fonts repository.
	API string

	// RawPrefix is the only download origin accepted from the listing.
	RawPrefix string
	Client    *http.Client

	// Download saves a URL under a directory and returns the file path.
	Download func(ctx context.Context, url, dir string) (string, error)
}

// NewFinder returns a Finder over DefaultDirs and the public Google Fonts repository.
func NewFinder() *Finder {
	return &Finder{
		Dirs:      DefaultDirs,
		API:       googleFontsAPI,
		RawPrefix: googleFontsRaw,
		Client:    download.Client,
		Download:  download.Download,
	}
}

// Resolve returns a local path for family, downloading it when no local file matches.
func (f *Finder) Resolve(ctx context.Context, family string) (string, error) {
	terms := SearchCandidates(family)
	if len(terms) == 0 {
		return "", errors.New("fonts: empty family name")
	}
	for _, term := range terms {
		if p, err := FindIn(f.Dirs, term); err == nil {
			return p, nil
		}
	}
	if len(f.Dirs) == 0 {
		return "", fmt.Errorf("fonts: %q not found and no font directory to download into", family)
	}
	var lastErr error
	for _, folder := range Folders(family) {
		u, err := f.downloadURL(ctx, folder)
		if err != nil {
			lastErr = err
			continue
		}
		return f.Download(ctx, u, filepath.Join(f.Dirs[0], folder))
	}
	return "", lastErr
}

// Folders converts a display name to the folder names used under google/fonts/ofl:
// "Open Sans" -> ["opensans", "open-sans"].
func Folders(family string) []string {
	lower := strings.ToLower(strings.TrimSpace(family))
	if lower == "" {
		return nil
	}
	joined := strings.ReplaceAll(lower, " ", "")
	hyphens := strings.ReplaceAll(lower, " ", "-")
	if hyphens == joined {
		return []string{joined}
	}
	return []string{joined, hyphens}
}

// downloadURL lists folder and picks an upright face, falling back to an italic one.
func (f *Finder) downloadURL(ctx context.Context, folder string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.API+"/"+url.PathEscape(folder), nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("Accept", "application/vnd.github.v3+json")
	resp, err := f.Client.Do(req)
	if err != nil {
		return "", fmt.Errorf("google fonts: %w", err)
	}
	defer resp.Body.Close()
	switch {
	case resp.StatusCode == http.StatusNotFound:
		return "", fmt.Errorf("font %q not found on Google Fonts", folder)
	case resp.StatusCode != http.StatusOK:
		return "", fmt.Errorf("google fonts: HTTP %d", resp.StatusCode)
	}
	var files []githubFile
	if err := json.NewDecoder(resp.Body).Decode(&files); err != nil {
		return "", fmt.Errorf("google fonts: %w", err)
	}
	var italic string
	for _, file := range files {
		if file.Type != "file" || !isFont(file.Name) || !strings.HasPrefix(file.DownloadURL, f.RawPrefix) {
			continue
		}
		if strings.Contains(strings.ToLower(file.Name), "italic") {
			if italic == "" {
				italic = file.DownloadURL
			}
			continue
		}
		return file.DownloadURL, nil
	}
	if italic != "" {
		return italic, nil
	}
	return "", fmt.Errorf("no .ttf/.otf file found for %q on Google Fonts", folder)
}
