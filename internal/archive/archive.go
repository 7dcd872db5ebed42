package archive

import (
	"archive/zip"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// ErrNoModel is returned by FindModelFile when a directory holds no glTF asset.
var ErrNoModel = errors.New("archive: no .glb or .gltf file found")

// Unzip extracts zipPath into destDir, preserving directory structure.
// destDir is created if needed. Returns the list of extracted file paths, or an error.
// Entries that would escape destDir are skipped.
func Unzip(zipPath, destDir string) (extracted []string, err error) {
	r, err := zip.OpenReader(zipPath)
	if err != nil {
		return nil, fmt.Errorf("unzip: %w", err)
	}
	defer r.Close()
	if err := os.MkdirAll(destDir, 0755); err != nil {
		return nil, fmt.Errorf("unzip: %w", err)
	}
	absDir, err := filepath.Abs(destDir)
	if err != nil {
		return nil, fmt.Errorf("unzip: %w", err)
	}
	for _, f := range r.File {
		dest := filepath.Clean(filepath.Join(destDir, f.Name))
		absDest, err := filepath.Abs(dest)
		if err != nil {
			return nil, fmt.Errorf("unzip: %w", err)
		}
		if !strings.HasPrefix(absDest, absDir+string(os.PathSeparator)) && absDest != absDir {
			continue // skip path escape
		}
		if f.FileInfo().IsDir() {
			_ = os.MkdirAll(dest, 0755)
			continue
		}
		if err := extractFile(f, dest); err != nil {
			return nil, fmt.Errorf("unzip: %w", err)
		}
		extracted = append(extracted, dest)
	}
	return extracted, nil
}

func extractFile(f *zip.File, dest string) error {
	if err := os.MkdirAll(filepath.Dir(dest), 0755); err != nil {
		return err
	}
	out, err := os.Create(dest)
	if err != nil {
		return err
	}
	rc, err := f.Open()
	if err != nil {
		out.Close()
		return err
	}
	_, err = io.Copy(out, rc)
	rc.Close()
	if cerr := out.Close(); err == nil {
		err = cerr
	}
	return err
}

// FindModelFile returns the asset to load from an extracted bundle: the shallowest .glb,
// otherwise the shallowest .gltf. Ties are broken alphabetically.
func FindModelFile(dir string) (string, error) {
	var glb, gltf []string
	err := filepath.WalkDir(filepath.Clean(dir), func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || strings.HasPrefix(d.Name(), "__MACOSX") {
			return nil
		}
		switch strings.ToLower(filepath.Ext(path)) {
		case ".glb":
			glb = append(glb, path)
		case ".gltf":
			gltf = append(gltf, path)
		}
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("find model: %w", err)
	}
	for _, set := range [][]string{glb, gltf} {
		if len(set) == 0 {
			continue
		}
		sort.Slice(set, func(i, j int) bool {
			di, dj := depth(set[i]), depth(set[j])
			if di != dj {
				return di < dj
			}
			return set[i] < set[j]
		})
		return set[0], nil
	}
	return "", ErrNoModel
}

func depth(p string) int {
	return strings.Count(filepath.ToSlash(p), "/")
}
