package main

import (
	"context"
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"configurator/internal/asset"
	"configurator/internal/catalog"
	"configurator/internal/logger"
)

const prefetchPoll = 50 * time.Millisecond

// prefetch resolves and decodes every catalog asset so the first launch starts from the cache.
func prefetch(ctx context.Context, out io.Writer, o options) error {
	prefs, err := loadPrefs(o)
	if err != nil {
		fmt.Fprintf(out, "warning: %v\n", err)
	}
	cat, err := loadCatalog(prefs)
	if err != nil {
		return fmt.Errorf("catalog: %w", err)
	}
	log := logger.Discard()
	loader := asset.NewLoader(ctx, log, asset.WithAssetDir(prefs.AssetDir), asset.WithCacheDir(prefs.CacheDir))
	byHandle := map[*asset.Handle][]catalog.ID{}
	for _, id := range cat.IDs() {
		v, _ := cat.Variant(id)
		h := loader.Load(v.Asset, v.Scale)
		byHandle[h] = append(byHandle[h], id)
	}

	tick := time.NewTicker(prefetchPoll)
	defer tick.Stop()
	for {
		loader.Poll()
		if loader.Pending() == 0 {
			break
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-tick.C:
		}
	}

	var lines []string
	failed := 0
	for h, ids := range byHandle {
		names := make([]string, len(ids))
		for i, id := range ids {
			names[i] = string(id)
		}
		label := strings.Join(names, ", ")
		switch h.State() {
		case asset.Ready:
			lines = append(lines, fmt.Sprintf("%s: ready, %d surfaces, scale %.3f (%s)",
				label, h.Graph().SurfaceCount(), h.Transform().Scale, h.Path()))
		default:
			failed++
			lines = append(lines, fmt.Sprintf("%s: %s: %v", label, h.State(), h.Err()))
		}
	}
	sort.Strings(lines)
	for _, l := range lines {
		fmt.Fprintln(out, l)
	}
	if failed > 0 {
		return fmt.Errorf("%d asset(s) unavailable", failed)
	}
	return nil
}

func printCatalog(out io.Writer, cat *catalog.Catalog) {
	for _, id := range cat.IDs() {
		v, _ := cat.Variant(id)
		fmt.Fprintf(out, "%s  %s  from %s\n", id, v.FullName, catalog.FormatPrice(v.BasePrice))
		fmt.Fprintf(out, "    %d colors, %d wheels, %d interiors, %d packages, asset %s\n",
			len(v.Colors), len(v.Wheels), len(v.Interiors), len(v.Packages), v.Asset)
	}
}
