// Package assets loads the model the viewer shows and reports its bounds.
//
// Loading is the only asynchronous part of the viewer. It reports byte
// progress while reading and, once parsed, yields the bounding box whose
// center seeds the camera target.
package assets

import (
	"context"
	"fmt"
	"io"
	"os"
	"sync"

	"go.uber.org/zap"

	"github.com/Faultbox/daylight/internal/logger"
)

// Model is a parsed model file.
type Model struct {
	Path     string
	Document *Document
	Binary   []byte
	Bounds   Box
}

// Read parses a model from r. total is the expected size in bytes, or zero
// when unknown.
func Read(ctx context.Context, r io.Reader, total int64, onProgress ProgressFunc) (*Model, error) {
	pr := &progressReader{ctx: ctx, r: r, total: total, fn: onProgress}
	data, err := io.ReadAll(pr)
	if err != nil {
		return nil, fmt.Errorf("reading model: %w", err)
	}

	doc, bin, err := ParseGLB(data)
	if err != nil {
		return nil, err
	}
	bounds, err := doc.Bounds()
	if err != nil {
		return nil, err
	}
	return &Model{Document: doc, Binary: bin, Bounds: bounds}, nil
}

// Manager loads models from disk and caches them by path.
type Manager struct {
	mu    sync.RWMutex
	cache map[string]*Model
}

// NewManager creates an empty manager.
func NewManager() *Manager {
	return &Manager{cache: make(map[string]*Model)}
}

// Load reads and parses the model at path, reusing a cached copy if the
// same path was loaded before.
func (m *Manager) Load(ctx context.Context, path string, onProgress ProgressFunc) (*Model, error) {
	m.mu.RLock()
	cached, ok := m.cache[path]
	m.mu.RUnlock()
	if ok {
		logger.Debug("model cache hit", zap.String("path", path))
		return cached, nil
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening model %s: %w", path, err)
	}
	defer f.Close()

	var total int64
	if info, err := f.Stat(); err == nil {
		total = info.Size()
	}

	model, err := Read(ctx, f, total, onProgress)
	if err != nil {
		return nil, fmt.Errorf("loading model %s: %w", path, err)
	}
	model.Path = path

	m.mu.Lock()
	m.cache[path] = model
	m.mu.Unlock()

	logger.Info("model loaded",
		zap.String("path", path),
		zap.Int("nodes", len(model.Document.Nodes)),
		zap.Int("meshes", len(model.Document.Meshes)),
		zap.Any("center", model.Bounds.Center()),
	)
	return model, nil
}

// LoadAsync loads path on a new goroutine and delivers the result on the
// returned channel, which receives exactly one value.
func (m *Manager) LoadAsync(ctx context.Context, path string, onProgress ProgressFunc) <-chan Result {
	ch := make(chan Result, 1)
	go func() {
		model, err := m.Load(ctx, path, onProgress)
		ch <- Result{Model: model, Err: err}
	}()
	return ch
}

// Result is the outcome of LoadAsync.
type Result struct {
	Model *Model
	Err   error
}

// Clear drops all cached models.
func (m *Manager) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cache = make(map[string]*Model)
}
