// Package project tracks the open script folder, its active run target,
// and the recent-project history.
package project

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

const metaFileName = ".ahkworkbench.json"

type meta struct {
	ActiveTarget string `json:"active_target,omitempty"`
}

// Project is a script folder with a small JSON metadata file at its root.
type Project struct {
	root string
	meta meta
}

// Open loads the project rooted at dir. A missing or unreadable metadata
// file starts the project with empty metadata rather than failing.
func Open(dir string) (*Project, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to open project: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("project root %s is not a directory", dir)
	}

	p := &Project{root: dir}
	data, err := os.ReadFile(p.metaPath())
	if err == nil {
		if err := json.Unmarshal(data, &p.meta); err != nil {
			p.meta = meta{}
		}
	}
	return p, nil
}

// Create makes the directory (and parents) if needed, then opens it.
func Create(dir string) (*Project, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create project directory: %w", err)
	}
	return Open(dir)
}

func (p *Project) Root() string { return p.root }

func (p *Project) Name() string { return filepath.Base(p.root) }

func (p *Project) metaPath() string { return filepath.Join(p.root, metaFileName) }

// ActiveTarget returns the root-relative path of the script marked as the
// run target, or "" when none is set.
func (p *Project) ActiveTarget() string { return p.meta.ActiveTarget }

// ActiveTargetAbs returns the absolute path of the active target, or ""
// when none is set.
func (p *Project) ActiveTargetAbs() string {
	if p.meta.ActiveTarget == "" {
		return ""
	}
	if filepath.IsAbs(p.meta.ActiveTarget) {
		return p.meta.ActiveTarget
	}
	return filepath.Join(p.root, p.meta.ActiveTarget)
}

// SetActiveTarget records path as the run target and persists the metadata.
// Paths inside the project root are stored relative to it so the project
// folder stays relocatable.
func (p *Project) SetActiveTarget(path string) error {
	stored := path
	if rel, err := filepath.Rel(p.root, path); err == nil && filepath.IsLocal(rel) {
		stored = rel
	}
	p.meta.ActiveTarget = stored
	return p.saveMeta()
}

// ClearActiveTarget removes the run target and persists the metadata.
func (p *Project) ClearActiveTarget() error {
	p.meta.ActiveTarget = ""
	return p.saveMeta()
}

func (p *Project) saveMeta() error {
	data, err := json.MarshalIndent(p.meta, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode project metadata: %w", err)
	}
	if err := os.WriteFile(p.metaPath(), data, 0o644); err != nil {
		return fmt.Errorf("failed to save project metadata: %w", err)
	}
	return nil
}
