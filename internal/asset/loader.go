package asset

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"configurator/internal/archive"
	"configurator/internal/download"
	"configurator/internal/logger"
)

// State is a handle's lifecycle position.
type State int

const (
	Pending State = iota
	Ready
	Failed
)

func (s State) String() string {
	switch s {
	case Ready:
		return "ready"
	case Failed:
		return "failed"
	}
	return "pending"
}

// Handle is the cached, normalized form of one vehicle asset. Only Loader.Poll moves a
// handle out of Pending, and it does so at most once.
type Handle struct {
	Ref          string
	VariantScale float32

	state     State
	path      string
	graph     *Graph
	transform Transform
	err       error
	revision  int
}

func (h *Handle) State() State { return h.state }

// Ready reports whether geometry and its transform are available.
func (h *Handle) Ready() bool { return h.state == Ready }

// Path is the local file the geometry was decoded from.
func (h *Handle) Path() string { return h.path }

func (h *Handle) Graph() *Graph { return h.graph }

// Transform is the normalization computed when the handle became ready.
func (h *Handle) Transform() Transform { return h.transform }

// Err is the reason for a failed handle.
func (h *Handle) Err() error { return h.err }

// Footprint is the normalized box the renderer should reserve for this vehicle:
// the real bounds once ready, the placeholder otherwise.
func (h *Handle) Footprint() Box {
	if h.state == Ready {
		return h.transform.ApplyBox(h.graph.Bounds)
	}
	return PlaceholderBox(h.VariantScale)
}

// Revision increases whenever the classifier recolors the handle's materials so the
// renderer knows to push new colors to the GPU.
func (h *Handle) Revision() int { return h.revision }

// Touch marks the handle's materials as changed.
func (h *Handle) Touch() { h.revision++ }

// Fetcher resolves an asset reference to a local file.
type Fetcher func(ctx context.Context, ref string) (string, error)

// Decoder turns a local file into a Graph.
type Decoder func(path string) (*Graph, error)

type result struct {
	handle *Handle
	path   string
	graph  *Graph
	err    error
}

// Loader fetches and decodes assets in the background and hands them to the render
// thread through Poll.
type Loader struct {
	ctx      context.Context
	log      *logger.Logger
	fetch    Fetcher
	decode   Decoder
	assetDir string
	cacheDir string

	handles map[string]*Handle
	results chan result
	pending int
}

// Option configures a Loader.
type Option func(*Loader)

// WithAssetDir sets the directory relative refs are resolved against.
func WithAssetDir(dir string) Option { return func(l *Loader) { l.assetDir = dir } }

// WithCacheDir sets where downloads and unpacked bundles are stored.
func WithCacheDir(dir string) Option { return func(l *Loader) { l.cacheDir = dir } }

// WithFetcher replaces the default file/HTTP/zip resolution.
func WithFetcher(f Fetcher) Option { return func(l *Loader) { l.fetch = f } }

// WithDecoder replaces the glTF decoder.
func WithDecoder(d Decoder) Option { return func(l *Loader) { l.decode = d } }

// NewLoader returns a Loader whose background work stops when ctx is cancelled.
func NewLoader(ctx context.Context, log *logger.Logger, opts ...Option) *Loader {
	l := &Loader{
		ctx:      ctx,
		log:      log,
		decode:   DecodeFile,
		assetDir: "assets/models",
		cacheDir: "cache/models",
		handles:  make(map[string]*Handle),
		results:  make(chan result, 8),
	}
	for _, o := range opts {
		o(l)
	}
	if l.fetch == nil {
		l.fetch = l.resolve
	}
	return l
}

// Load returns the handle for ref, starting a background load the first time ref is seen.
// It never blocks.
func (l *Loader) Load(ref string, variantScale float32) *Handle {
	key := fmt.Sprintf("%s@%g", ref, variantScale)
	if h, ok := l.handles[key]; ok {
		return h
	}
	h := &Handle{Ref: ref, VariantScale: variantScale}
	l.handles[key] = h
	if strings.TrimSpace(ref) == "" {
		l.settle(h, result{handle: h, err: fmt.Errorf("asset: empty reference")})
		return h
	}
	l.pending++
	go l.work(h)
	return h
}

func (l *Loader) work(h *Handle) {
	r := result{handle: h}
	r.path, r.err = l.fetch(l.ctx, h.Ref)
	if r.err == nil {
		r.graph, r.err = l.decode(r.path)
	}
	select {
	case l.results <- r:
	case <-l.ctx.Done():
	}
}

// Poll applies finished loads and returns the handles that changed state. Call it from the
// render thread once per frame.
func (l *Loader) Poll() []*Handle {
	var settled []*Handle
	for {
		select {
		case r := <-l.results:
			l.pending--
			if l.settle(r.handle, r) {
				settled = append(settled, r.handle)
			}
		default:
			return settled
		}
	}
}

// Pending is the number of loads still in flight.
func (l *Loader) Pending() int { return l.pending }

func (l *Loader) settle(h *Handle, r result) bool {
	if h.state != Pending {
		return false
	}
	if r.err == nil && r.graph == nil {
		r.err = ErrNoGeometry
	}
	if r.err == nil {
		h.transform, r.err = Normalize(r.graph.Bounds, h.VariantScale)
	}
	if r.err != nil {
		h.state, h.err = Failed, r.err
		l.log.Warn("asset failed, using placeholder", "ref", h.Ref, "err", r.err)
		return true
	}
	h.state, h.path, h.graph = Ready, r.path, r.graph
	l.log.Info("asset ready", "ref", h.Ref, "surfaces", r.graph.SurfaceCount(), "scale", h.transform.Scale)
	return true
}

// resolve maps ref to a local .glb/.gltf: http(s) refs are downloaded to the cache,
// relative paths are looked up in the asset directory, and .zip bundles are unpacked.
func (l *Loader) resolve(ctx context.Context, ref string) (string, error) {
	var path string
	switch {
	case strings.HasPrefix(ref, "http://"), strings.HasPrefix(ref, "https://"):
		p, err := download.Download(ctx, ref, l.cacheDir)
		if err != nil {
			return "", err
		}
		path = p
	case filepath.IsAbs(ref):
		path = ref
	default:
		path = filepath.Join(l.assetDir, filepath.FromSlash(ref))
	}
	if _, err := os.Stat(path); err != nil {
		return "", fmt.Errorf("asset: %w", err)
	}
	if strings.EqualFold(filepath.Ext(path), ".zip") {
		dest := filepath.Join(l.cacheDir, strings.TrimSuffix(filepath.Base(path), filepath.Ext(path)))
		if _, err := archive.Unzip(path, dest); err != nil {
			return "", err
		}
		return archive.FindModelFile(dest)
	}
	return path, nil
}
