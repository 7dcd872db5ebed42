package download

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"
)

const defaultUserAgent = "configurator/1.0 (+asset fetch)"

// Client is the HTTP client used by Download. Tests swap it for one with a shorter timeout.
var Client = &http.Client{Timeout: 60 * time.Second}

// Download fetches url and saves it under destDir. Filename is derived from the URL path
// or Content-Disposition; extension from URL or Content-Type. Returns the path to the saved file
// (destDir + filename). destDir is created if needed. An existing file with the same name is
// reused without touching the network.
func Download(ctx context.Context, url string, destDir string) (savedPath string, err error) {
	if cached := cachedPath(url, destDir); cached != "" {
		return cached, nil
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("download: %w", err)
	}
	req.Header.Set("User-Agent", defaultUserAgent)
	resp, err := Client.Do(req)
	if err != nil {
		return "", fmt.Errorf("download: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("download: HTTP %d", resp.StatusCode)
	}
	ext := extensionFromURL(url)
	if ext == "" {
		ext = extensionFromContentType(resp.Header.Get("Content-Type"))
	}
	if ext == "" {
		ext = ".bin"
	}
	name := filenameFromContentDisposition(resp.Header.Get("Content-Disposition"))
	if name == "" {
		name = filenameFromURL(url)
	}
	name = sanitizeFilename(name)
	if !strings.HasSuffix(strings.ToLower(name), ext) {
		name = name + ext
	}
	savedPath = filepath.Join(destDir, name)
	if err := os.MkdirAll(destDir, 0755); err != nil {
		return "", fmt.Errorf("download: %w", err)
	}
	tmp := savedPath + ".part"
	out, err := os.Create(tmp)
	if err != nil {
		return "", fmt.Errorf("download: %w", err)
	}
	_, err = io.Copy(out, resp.Body)
	if cerr := out.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		_ = os.Remove(tmp)
		return "", fmt.Errorf("download: %w", err)
	}
	if err := os.Rename(tmp, savedPath); err != nil {
		return "", fmt.Errorf("download: %w", err)
	}
	return savedPath, nil
}

// cachedPath returns the previously saved file for url when its name is known from the URL alone.
func cachedPath(url, destDir string) string {
	ext := extensionFromURL(url)
	if ext == "" {
		return ""
	}
	p := filepath.Join(destDir, sanitizeFilename(filenameFromURL(url))+ext)
	if info, err := os.Stat(p); err == nil && !info.IsDir() && info.Size() > 0 {
		return p
	}
	return ""
}

func filenameFromContentDisposition(cd string) string {
	cd = strings.TrimSpace(cd)
	// filename="..."; or filename*=UTF-8''...
	if i := strings.Index(cd, "filename*=UTF-8''"); i >= 0 {
		s := cd[i+len("filename*=UTF-8''"):]
		if j := strings.IndexAny(s, ";\r\n"); j >= 0 {
			s = s[:j]
		}
		return trimExt(strings.Trim(s, "\""))
	}
	if i := strings.Index(cd, "filename="); i >= 0 {
		s := cd[i+len("filename="):]
		if j := strings.IndexAny(s, ";\r\n"); j >= 0 {
			s = s[:j]
		}
		return trimExt(strings.Trim(s, "\" "))
	}
	return ""
}

func extensionFromContentType(ct string) string {
	ct = strings.ToLower(strings.TrimSpace(ct))
	if idx := strings.Index(ct, ";"); idx >= 0 {
		ct = ct[:idx]
	}
	switch ct {
	case "model/gltf-binary":
		return ".glb"
	case "model/gltf+json":
		return ".gltf"
	case "application/zip", "application/x-zip-compressed":
		return ".zip"
	case "image/png":
		return ".png"
	case "image/jpeg":
		return ".jpg"
	}
	return ""
}

var knownExt = map[string]bool{
	".glb": true, ".gltf": true, ".bin": true, ".zip": true,
	".png": true, ".jpg": true, ".jpeg": true, ".ttf": true, ".otf": true,
}

func extensionFromURL(url string) string {
	path := stripQuery(url)
	ext := strings.ToLower(filepath.Ext(path))
	if knownExt[ext] {
		return ext
	}
	return ""
}

func filenameFromURL(url string) string {
	return trimExt(filepath.Base(stripQuery(url)))
}

func stripQuery(url string) string {
	if idx := strings.IndexAny(url, "?#"); idx >= 0 {
		return url[:idx]
	}
	return url
}

func trimExt(name string) string {
	return strings.TrimSuffix(name, filepath.Ext(name))
}

var safeNameRe = regexp.MustCompile(`[^a-zA-Z0-9_.-]+`)

func sanitizeFilename(name string) string {
	if name == "" || name == "." || name == "/" {
		return "download"
	}
	name = safeNameRe.ReplaceAllString(name, "_")
	if len(name) > 96 {
		name = name[:96]
	}
	return name
}
