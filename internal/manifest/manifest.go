// Package manifest records what a generator run did to the project: every
// rendered file, patch and JSON edit with its outcome and the hash of the
// resulting content.
package manifest

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io/fs"
	"maps"
	"slices"
	"sync"
	"time"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/util"
	"github.com/google/uuid"
	"gopkg.in/yaml.v3"
)

// Path is the project-relative location of the manifest.
const Path = ".jhipster/multitenancy-manifest.yaml"

// Sentinel errors for manifest operations.
var (
	// ErrInvalidManifest indicates the manifest file could not be parsed.
	ErrInvalidManifest = errors.New("manifest: invalid manifest file")

	// ErrNotStarted indicates Track or Save was called before Begin.
	ErrNotStarted = errors.New("manifest: run not started, call Begin() first")

	// ErrEmptyName indicates an entry without an operation name.
	ErrEmptyName = errors.New("manifest: entry name is empty")
)

// Kind classifies a file operation.
type Kind string

const (
	// KindRender is a file rendered from a template.
	KindRender Kind = "render"
	// KindPatch is a text patch of a host file.
	KindPatch Kind = "patch"
	// KindJSON is an edit of a JSON document.
	KindJSON Kind = "json"
)

// Entry is the outcome of one file operation.
type Entry struct {
	Name   string `yaml:"name"`
	Path   string `yaml:"path"`
	Kind   Kind   `yaml:"kind"`
	Status string `yaml:"status"`
	Detail string `yaml:"detail,omitempty"`
	SHA256 string `yaml:"sha256,omitempty"`
}

// Manifest is the persisted record of one run.
type Manifest struct {
	RunID         string            `yaml:"run_id"`
	PreviousRunID string            `yaml:"previous_run_id,omitempty"`
	Version       string            `yaml:"version"`
	GeneratedAt   time.Time         `yaml:"generated_at"`
	Tenant        map[string]string `yaml:"tenant"`
	Entries       []Entry           `yaml:"entries"`
}

// Writer stages file content. *workspace.Workspace satisfies it.
type Writer interface {
	Write(path string, data []byte) error
}

// Manager tracks the entries of the current run.
type Manager interface {
	// Load reads the manifest of the previous run, if any. It returns nil
	// without error when the project has no manifest.
	Load(fsys billy.Filesystem) (*Manifest, error)

	// Begin starts a new run.
	Begin(version string, tenant map[string]string)

	// Resume starts a new run that carries over the tenant and entries of
	// the previous run.
	Resume(version string)

	// Track records e, replacing an earlier entry with the same name.
	Track(e Entry) error

	// GetEntry returns the entry recorded under name in the current run, or
	// in the previous run when the current run has none.
	GetEntry(name string) (Entry, bool)

	// Entries returns the entries of the current run in tracking order.
	Entries() []Entry

	// Save renders the current run as YAML and stages it at Path.
	Save(w Writer) error
}

type manager struct {
	mu       sync.Mutex
	previous *Manifest
	current  *Manifest
	now      func() time.Time
}

// NewManager creates a Manager.
func NewManager() Manager {
	return &manager{now: time.Now}
}

func (m *manager) Load(fsys billy.Filesystem) (*Manifest, error) {
	data, err := util.ReadFile(fsys, Path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("read manifest: %w", err)
	}

	var mf Manifest
	if err := yaml.Unmarshal(data, &mf); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidManifest, err)
	}

	m.mu.Lock()
	m.previous = &mf
	m.mu.Unlock()
	return &mf, nil
}

func (m *manager) Begin(version string, tenant map[string]string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.start(version)
	m.current.Tenant = tenant
}

func (m *manager) Resume(version string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.start(version)
	if m.previous != nil {
		m.current.Tenant = maps.Clone(m.previous.Tenant)
		m.current.Entries = slices.Clone(m.previous.Entries)
	}
}

// start opens a new current run. Callers hold m.mu.
func (m *manager) start(version string) {
	m.current = &Manifest{
		RunID:       uuid.NewString(),
		Version:     version,
		GeneratedAt: m.now().UTC().Truncate(time.Second),
	}
	if m.previous != nil {
		m.current.PreviousRunID = m.previous.RunID
	}
}

func (m *manager) Track(e Entry) error {
	if e.Name == "" {
		return ErrEmptyName
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.current == nil {
		return ErrNotStarted
	}
	if i := slices.IndexFunc(m.current.Entries, func(x Entry) bool { return x.Name == e.Name }); i >= 0 {
		m.current.Entries[i] = e
		return nil
	}
	m.current.Entries = append(m.current.Entries, e)
	return nil
}

func (m *manager) GetEntry(name string) (Entry, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, mf := range []*Manifest{m.current, m.previous} {
		if mf == nil {
			continue
		}
		for _, e := range mf.Entries {
			if e.Name == name {
				return e, true
			}
		}
	}
	return Entry{}, false
}

func (m *manager) Entries() []Entry {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.current == nil {
		return nil
	}
	return slices.Clone(m.current.Entries)
}

func (m *manager) Save(w Writer) error {
	m.mu.Lock()
	if m.current == nil {
		m.mu.Unlock()
		return ErrNotStarted
	}
	data, err := yaml.Marshal(m.current)
	m.mu.Unlock()
	if err != nil {
		return fmt.Errorf("marshal manifest: %w", err)
	}

	if err := w.Write(Path, data); err != nil {
		return fmt.Errorf("write manifest: %w", err)
	}
	return nil
}

// Hash returns the hex-encoded SHA-256 of data.
func Hash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}
