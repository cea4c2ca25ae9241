package registry

import (
	"context"
	"testing"
)

// fakeRepository is an in-memory Repository stand-in for Service tests,
// which exercise caching and compile-before-save behavior rather than SQL.
type fakeRepository struct {
	byName map[string]*GrammarRecord
	gets   int
}

func newFakeRepository() *fakeRepository {
	return &fakeRepository{byName: make(map[string]*GrammarRecord)}
}

func (f *fakeRepository) Create(ctx context.Context, rec *GrammarRecord) error {
	f.byName[rec.Name] = rec
	return nil
}
func (f *fakeRepository) Get(ctx context.Context, id string) (*GrammarRecord, error) {
	for _, r := range f.byName {
		if r.ID == id {
			return r, nil
		}
	}
	return nil, errNotFound(id)
}
func (f *fakeRepository) GetByName(ctx context.Context, name string) (*GrammarRecord, error) {
	f.gets++
	rec, ok := f.byName[name]
	if !ok {
		return nil, errNotFound(name)
	}
	return rec, nil
}
func (f *fakeRepository) List(ctx context.Context, activeOnly bool) ([]*GrammarRecord, error) {
	var out []*GrammarRecord
	for _, r := range f.byName {
		if !activeOnly || r.Active {
			out = append(out, r)
		}
	}
	return out, nil
}
func (f *fakeRepository) Update(ctx context.Context, rec *GrammarRecord) error {
	f.byName[rec.Name] = rec
	return nil
}
func (f *fakeRepository) Delete(ctx context.Context, id string) error {
	for name, r := range f.byName {
		if r.ID == id {
			delete(f.byName, name)
			return nil
		}
	}
	return errNotFound(id)
}
func (f *fakeRepository) Activate(ctx context.Context, id string) error { return nil }

type notFoundError string

func (e notFoundError) Error() string { return "not found: " + string(e) }
func errNotFound(id string) error     { return notFoundError(id) }

func TestServiceCompileCachesAfterFirstLoad(t *testing.T) {
	repo := newFakeRepository()
	repo.byName["greeting"] = &GrammarRecord{Name: "greeting", Version: "1", Active: true, Source: `1 "greeting" [w]`}
	svc := NewService(repo)

	first, err := svc.Compile(context.Background(), "greeting")
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	second, err := svc.Compile(context.Background(), "greeting")
	if err != nil {
		t.Fatalf("Compile (cached): %v", err)
	}
	if first != second {
		t.Errorf("expected the second Compile to return the cached table")
	}
	if repo.gets != 2 {
		t.Errorf("expected GetByName to be called once per Compile (repo lookup still happens to check the active version), got %d", repo.gets)
	}
}

func TestServiceCompileRejectsUnresolvableGrammar(t *testing.T) {
	repo := newFakeRepository()
	repo.byName["broken"] = &GrammarRecord{Name: "broken", Version: "1", Active: true, Source: `1 "broken" [@"missing"]`}
	svc := NewService(repo)

	if _, err := svc.Compile(context.Background(), "broken"); err == nil {
		t.Fatal("expected Compile to fail on an unresolvable reference")
	}
}

func TestServiceSaveRejectsInvalidGrammarBeforePersisting(t *testing.T) {
	repo := newFakeRepository()
	svc := NewService(repo)

	if _, err := svc.Save(context.Background(), "broken", `1 "broken" [@"missing"]`, "1"); err == nil {
		t.Fatal("expected Save to reject an unresolvable grammar")
	}
	if len(repo.byName) != 0 {
		t.Errorf("expected nothing persisted for a rejected grammar, got %d records", len(repo.byName))
	}
}

func TestServiceSavePersistsValidGrammar(t *testing.T) {
	repo := newFakeRepository()
	svc := NewService(repo)

	rec, err := svc.Save(context.Background(), "greeting", `1 "greeting" [w]`, "1")
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if rec.Name != "greeting" || !rec.Active {
		t.Errorf("unexpected record: %+v", rec)
	}
	if _, ok := repo.byName["greeting"]; !ok {
		t.Error("expected the record to be persisted via the repository")
	}
}
