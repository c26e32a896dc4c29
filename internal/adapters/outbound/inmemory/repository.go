package inmemory

import (
	"context"
	"fmt"
	"net/http"
	"sync"

	"github.com/bestit/odm-param-converter-bundle/pkg/paramconv"
)

// Record is a stored document: field name to value.
type Record map[string]any

func (r Record) clone() Record {
	out := make(Record, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}

// FinderSpec declares a named finder. Each parameter is matched against the
// record field of the same name.
type FinderSpec struct {
	Name   string
	Params []paramconv.Param
	// Many returns every matching record instead of the first one.
	Many bool
}

// Repository stores the records of one class in insertion order.
type Repository struct {
	mu      sync.RWMutex
	name    string
	fields  map[string]struct{}
	records []Record
	methods map[string]paramconv.Method
}

var (
	_ paramconv.Repository     = (*Repository)(nil)
	_ paramconv.MethodProvider = (*Repository)(nil)
)

func newRepository(spec ClassSpec) *Repository {
	name := spec.Repository
	if name == "" {
		name = spec.Class + "Repository"
	}
	repo := &Repository{
		name:    name,
		methods: make(map[string]paramconv.Method),
	}
	if len(spec.Fields) > 0 {
		repo.fields = make(map[string]struct{}, len(spec.Fields))
		for _, f := range spec.Fields {
			repo.fields[f] = struct{}{}
		}
	}
	for _, rec := range spec.Records {
		repo.records = append(repo.records, rec.clone())
	}
	return repo
}

func (r *Repository) String() string { return r.name }

// Insert appends a record.
func (r *Repository) Insert(rec Record) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.records = append(r.records, rec.clone())
}

// FindOneBy returns a copy of the first record matching every criteria field,
// or nil when none matches. Values are compared by their string form, so the
// string "5" from a route parameter matches a stored 5.
func (r *Repository) FindOneBy(ctx context.Context, criteria paramconv.Criteria) (any, error) {
	matches, err := r.find(ctx, criteria, 1)
	if err != nil || len(matches) == 0 {
		return nil, err
	}
	return matches[0], nil
}

// FindBy returns copies of every record matching criteria.
func (r *Repository) FindBy(ctx context.Context, criteria paramconv.Criteria) ([]Record, error) {
	return r.find(ctx, criteria, -1)
}

// Method implements paramconv.MethodProvider.
func (r *Repository) Method(name string) (paramconv.Method, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	m, ok := r.methods[name]
	return m, ok
}

// RegisterMethod adds or replaces a named finder.
func (r *Repository) RegisterMethod(m paramconv.Method) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.methods[m.Name] = m
}

func (r *Repository) registerFinder(spec FinderSpec) error {
	if spec.Name == "" {
		return fmt.Errorf("finder name cannot be empty")
	}
	seen := make(map[string]struct{}, len(spec.Params))
	for _, p := range spec.Params {
		if _, dup := seen[p.Name]; dup {
			return fmt.Errorf("finder %s: duplicate parameter %q", spec.Name, p.Name)
		}
		seen[p.Name] = struct{}{}
	}

	params := append([]paramconv.Param(nil), spec.Params...)
	r.RegisterMethod(paramconv.Method{
		Name:   spec.Name,
		Params: params,
		Func: func(ctx context.Context, args []any) (any, error) {
			criteria := finderCriteria(params, args)
			if spec.Many {
				return r.FindBy(ctx, criteria)
			}
			return r.FindOneBy(ctx, criteria)
		},
	})
	return nil
}

// finderCriteria turns positional arguments back into criteria. A finder
// called without signature binding receives the criteria itself.
func finderCriteria(params []paramconv.Param, args []any) paramconv.Criteria {
	if len(args) == 1 {
		if c, ok := args[0].(paramconv.Criteria); ok {
			return c
		}
	}
	criteria := make(paramconv.Criteria, len(params))
	for i, p := range params {
		if i < len(args) {
			criteria[p.Name] = args[i]
		}
	}
	return criteria
}

func (r *Repository) find(ctx context.Context, criteria paramconv.Criteria, limit int) ([]Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	if r.fields != nil {
		for field := range criteria {
			if _, ok := r.fields[field]; !ok {
				return nil, &paramconv.ResponseError{
					Code:    http.StatusBadRequest,
					Message: fmt.Sprintf("%s: unknown field %q in query", r.name, field),
				}
			}
		}
	}

	matches := make([]Record, 0)
	for _, rec := range r.records {
		if !matchRecord(rec, criteria) {
			continue
		}
		matches = append(matches, rec.clone())
		if limit > 0 && len(matches) == limit {
			break
		}
	}
	return matches, nil
}

func matchRecord(rec Record, criteria paramconv.Criteria) bool {
	for field, want := range criteria {
		got, ok := rec[field]
		if !ok {
			if want != nil {
				return false
			}
			continue
		}
		if fmt.Sprint(got) != fmt.Sprint(want) {
			return false
		}
	}
	return true
}
