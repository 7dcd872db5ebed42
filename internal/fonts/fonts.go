// Package fonts finds the overlay font by family name: first among local files, then on
// the Google Fonts repository, downloading it into the first font directory.
package fonts

import (
	"os"
	"path/filepath"
	"strings"
)

// Exts are the extensions considered font files.
var Exts = []string{".ttf", ".otf"}

// DefaultDirs are the font directories tried when running from the repo root or from cmd/configurator.
var DefaultDirs = []string{"assets/fonts", "../../assets/fonts"}

// ScanDir returns relative paths of all font files under dir (e.g. "Inter/Inter-Regular.ttf").
// Paths use forward slashes. A missing dir yields no files.
func ScanDir(dir string) ([]string, error) {
	var out []string
	dir = filepath.Clean(dir)
	err := filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			if os.IsNotExist(err) {
				return nil
			}
			return err
		}
		if info.IsDir() || !isFont(path) {
			return nil
		}
		rel, err := filepath.Rel(dir, path)
		if err != nil {
			return err
		}
		out = append(out, filepath.ToSlash(rel))
		return nil
	})
	return out, err
}

func isFont(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, e := range Exts {
		if ext == e {
			return true
		}
	}
	return false
}

// normalize lowercases and removes spaces, dashes and underscores for fuzzy matching.
func normalize(s string) string {
	return strings.NewReplacer(" ", "", "-", "", "_", "").Replace(strings.ToLower(s))
}

// SearchCandidates returns the terms to try in order for a family name or partial path:
// "Inter/Inter-Regular.ttf" -> ["Inter/Inter-Regular.ttf", "Inter", "Inter/Inter-Regular"].
func SearchCandidates(name string) []string {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil
	}
	seen := map[string]bool{}
	var out []string
	add := func(s string) {
		s = strings.TrimSpace(s)
		if s != "" && !seen[s] {
			seen[s] = true
			out = append(out, s)
		}
	}
	add(name)
	if i := strings.IndexAny(name, "/\\"); i > 0 {
		add(name[:i])
	}
	base := name
	if i := strings.LastIndexAny(name, "/\\"); i >= 0 {
		base = name[i+1:]
	}
	if i := strings.Index(base, "-"); i > 0 {
		add(base[:i])
	}
	for _, ext := range Exts {
		if strings.HasSuffix(strings.ToLower(name), ext) {
			add(name[:len(name)-len(ext)])
			break
		}
	}
	return out
}

// FindIn searches dirs for a font file whose path contains search, ignoring case and
// separators. When several match, a "Regular" face wins. Returns the full path.
func FindIn(dirs []string, search string) (string, error) {
	norm := normalize(search)
	if norm == "" {
		return "", os.ErrNotExist
	}
	var matches []string
	for _, base := range dirs {
		list, err := ScanDir(base)
		if err != nil {
			continue
		}
		for _, rel := range list {
			if strings.Contains(normalize(rel), norm) {
				matches = append(matches, filepath.Join(base, filepath.FromSlash(rel)))
			}
		}
	}
	if len(matches) == 0 {
		return "", os.ErrNotExist
	}
	for _, m := range matches {
		if strings.Contains(strings.ToLower(filepath.Base(m)), "regular") {
			return m, nil
		}
	}
	return matches[0], nil
}
