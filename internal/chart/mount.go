package chart

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// Mount is the surface a scene is drawn into. Each Render replaces whatever
// the previous call produced.
type Mount interface {
	Render(scene Scene) error
}

// FileMount renders to an SVG file, swapping it in with a rename.
type FileMount struct {
	Path string
}

func (m FileMount) Render(scene Scene) error {
	if dir := filepath.Dir(m.Path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create chart dir: %w", err)
		}
	}
	var buf bytes.Buffer
	if err := RenderSVG(&buf, scene); err != nil {
		return fmt.Errorf("render svg: %w", err)
	}
	tmp := m.Path + ".tmp"
	if err := os.WriteFile(tmp, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("write chart: %w", err)
	}
	if err := os.Rename(tmp, m.Path); err != nil {
		return fmt.Errorf("replace chart: %w", err)
	}
	return nil
}

// MemoryMount keeps the latest rendered document in memory.
type MemoryMount struct {
	mu      sync.RWMutex
	doc     []byte
	renders int
}

func (m *MemoryMount) Render(scene Scene) error {
	var buf bytes.Buffer
	if err := RenderSVG(&buf, scene); err != nil {
		return fmt.Errorf("render svg: %w", err)
	}
	m.mu.Lock()
	m.doc = buf.Bytes()
	m.renders++
	m.mu.Unlock()
	return nil
}

// Bytes returns the current document, or nil before the first render.
func (m *MemoryMount) Bytes() []byte {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.doc
}

func (m *MemoryMount) Renders() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.renders
}
