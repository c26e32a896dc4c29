package inmemory

import (
	"errors"
	"fmt"
	"sync"

	"github.com/bestit/odm-param-converter-bundle/pkg/paramconv"
)

// ErrSealed is returned when registering classes after Seal.
var ErrSealed = errors.New("document manager is sealed")

// ClassSpec describes one mapped document class and its seed data.
type ClassSpec struct {
	Class string
	// Repository is the repository identifier reported by the class metadata.
	// An empty identifier makes the class unsupported by the resolver.
	Repository string
	// Fields lists the persisted field names. When non-empty, lookups on any
	// other field fail like a rejected query predicate.
	Fields  []string
	Records []Record
	Finders []FinderSpec
}

// DocumentManager is a paramconv.DocumentManager over in-process data.
// It is seeded at startup with Register and sealed afterwards; lookups are
// safe for concurrent use.
type DocumentManager struct {
	mu      sync.RWMutex
	classes map[string]*classEntry
	sealed  bool
}

type classEntry struct {
	meta *Metadata
	repo *Repository
}

var _ paramconv.DocumentManager = (*DocumentManager)(nil)

// NewDocumentManager creates an empty, unsealed document manager.
func NewDocumentManager() *DocumentManager {
	return &DocumentManager{
		classes: make(map[string]*classEntry),
	}
}

// Register adds a class, its records and finders.
func (dm *DocumentManager) Register(spec ClassSpec) error {
	if spec.Class == "" {
		return errors.New("class name cannot be empty")
	}

	repo := newRepository(spec)
	for _, f := range spec.Finders {
		if err := repo.registerFinder(f); err != nil {
			return fmt.Errorf("class %s: %w", spec.Class, err)
		}
	}

	dm.mu.Lock()
	defer dm.mu.Unlock()

	if dm.sealed {
		return ErrSealed
	}
	if _, exists := dm.classes[spec.Class]; exists {
		return fmt.Errorf("class %s already registered", spec.Class)
	}

	dm.classes[spec.Class] = &classEntry{
		meta: &Metadata{repository: spec.Repository, fields: append([]string(nil), spec.Fields...)},
		repo: repo,
	}
	return nil
}

// Seal prevents further registrations.
func (dm *DocumentManager) Seal() {
	dm.mu.Lock()
	defer dm.mu.Unlock()
	dm.sealed = true
}

// Classes returns the number of registered classes.
func (dm *DocumentManager) Classes() int {
	dm.mu.RLock()
	defer dm.mu.RUnlock()
	return len(dm.classes)
}

// Repository implements paramconv.DocumentManager.
func (dm *DocumentManager) Repository(class string) (paramconv.Repository, error) {
	entry, err := dm.lookup(class)
	if err != nil {
		return nil, err
	}
	return entry.repo, nil
}

// ClassMetadata implements paramconv.DocumentManager.
func (dm *DocumentManager) ClassMetadata(class string) (paramconv.ClassMetadata, error) {
	entry, err := dm.lookup(class)
	if err != nil {
		return nil, err
	}
	return entry.meta, nil
}

// RepositoryFor returns the concrete repository of class, for seeding.
func (dm *DocumentManager) RepositoryFor(class string) (*Repository, error) {
	entry, err := dm.lookup(class)
	if err != nil {
		return nil, err
	}
	return entry.repo, nil
}

func (dm *DocumentManager) lookup(class string) (*classEntry, error) {
	dm.mu.RLock()
	defer dm.mu.RUnlock()

	entry, ok := dm.classes[class]
	if !ok {
		return nil, fmt.Errorf("class %q: %w", class, paramconv.ErrUnknownClass)
	}
	return entry, nil
}

// Metadata is the class metadata of a registered class.
type Metadata struct {
	repository string
	fields     []string
}

var _ paramconv.ClassMetadata = (*Metadata)(nil)

func (m *Metadata) RepositoryIdentifier() string { return m.repository }

// NewInstance returns an empty Document declaring the class fields.
func (m *Metadata) NewInstance() any {
	return &Document{fields: m.fields}
}

// Document is an empty instance of a registered class.
type Document struct {
	fields []string
}

var _ paramconv.FieldDefiner = (*Document)(nil)

// FieldDefinitions reports the class fields. Values are untyped in memory.
func (d *Document) FieldDefinitions() map[string]paramconv.FieldDefinition {
	defs := make(map[string]paramconv.FieldDefinition, len(d.fields))
	for _, f := range d.fields {
		defs[f] = paramconv.FieldDefinition{Type: "any"}
	}
	return defs
}
