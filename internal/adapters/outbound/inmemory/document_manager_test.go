package inmemory

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bestit/odm-param-converter-bundle/pkg/paramconv"
)

func userSpec() ClassSpec {
	return ClassSpec{
		Class:      "User",
		Repository: "UserRepository",
		Fields:     []string{"id", "email", "slug", "status"},
		Records: []Record{
			{"id": 1, "email": "a@b.com", "slug": "abc", "status": "active"},
			{"id": 2, "email": "c@d.com", "slug": "def", "status": "blocked"},
			{"id": 3, "email": "e@f.com", "slug": "ghi", "status": "active"},
		},
		Finders: []FinderSpec{
			{Name: "findBySlug", Params: []paramconv.Param{paramconv.Required("slug"), paramconv.Optional("status", "active")}},
			{Name: "findByStatus", Params: []paramconv.Param{paramconv.Required("status")}, Many: true},
		},
	}
}

func newSeeded(t *testing.T) *DocumentManager {
	t.Helper()
	dm := NewDocumentManager()
	require.NoError(t, dm.Register(userSpec()))
	require.NoError(t, dm.Register(ClassSpec{Class: "Draft"}))
	dm.Seal()
	return dm
}

func TestDocumentManager_Register(t *testing.T) {
	dm := NewDocumentManager()
	require.NoError(t, dm.Register(userSpec()))

	err := dm.Register(userSpec())
	assert.ErrorContains(t, err, "already registered")

	err = dm.Register(ClassSpec{})
	assert.ErrorContains(t, err, "cannot be empty")

	err = dm.Register(ClassSpec{Class: "Bad", Finders: []FinderSpec{{Name: "f", Params: []paramconv.Param{{Name: "a"}, {Name: "a"}}}}})
	assert.ErrorContains(t, err, "duplicate parameter")

	dm.Seal()
	err = dm.Register(ClassSpec{Class: "Late"})
	assert.ErrorIs(t, err, ErrSealed)
	assert.Equal(t, 1, dm.Classes())
}

func TestDocumentManager_Metadata(t *testing.T) {
	dm := newSeeded(t)

	meta, err := dm.ClassMetadata("User")
	require.NoError(t, err)
	assert.Equal(t, "UserRepository", meta.RepositoryIdentifier())
	assert.Equal(t, []string{"email", "id", "slug", "status"}, paramconv.FieldsOf(meta.NewInstance()))

	meta, err = dm.ClassMetadata("Draft")
	require.NoError(t, err)
	assert.Empty(t, meta.RepositoryIdentifier())

	_, err = dm.ClassMetadata("Missing")
	assert.ErrorIs(t, err, paramconv.ErrUnknownClass)
	_, err = dm.Repository("Missing")
	assert.ErrorIs(t, err, paramconv.ErrUnknownClass)
}

func TestRepository_FindOneBy(t *testing.T) {
	dm := newSeeded(t)
	repo, err := dm.Repository("User")
	require.NoError(t, err)
	ctx := context.Background()

	got, err := repo.FindOneBy(ctx, paramconv.Criteria{"id": "2"})
	require.NoError(t, err)
	assert.Equal(t, Record{"id": 2, "email": "c@d.com", "slug": "def", "status": "blocked"}, got)

	got, err = repo.FindOneBy(ctx, paramconv.Criteria{"status": "active"})
	require.NoError(t, err)
	assert.Equal(t, 1, got.(Record)["id"], "first match in insertion order")

	got, err = repo.FindOneBy(ctx, paramconv.Criteria{"id": "9"})
	require.NoError(t, err)
	assert.Nil(t, got)

	_, err = repo.FindOneBy(ctx, paramconv.Criteria{"token": "x"})
	var resp *paramconv.ResponseError
	require.ErrorAs(t, err, &resp)
	assert.Equal(t, 400, resp.Code)

	canceled, cancel := context.WithCancel(ctx)
	cancel()
	_, err = repo.FindOneBy(canceled, paramconv.Criteria{"id": 1})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRepository_RecordsAreCopies(t *testing.T) {
	dm := newSeeded(t)
	repo, err := dm.RepositoryFor("User")
	require.NoError(t, err)

	got, err := repo.FindOneBy(context.Background(), paramconv.Criteria{"id": 1})
	require.NoError(t, err)
	got.(Record)["email"] = "changed"

	again, err := repo.FindOneBy(context.Background(), paramconv.Criteria{"id": 1})
	require.NoError(t, err)
	assert.Equal(t, "a@b.com", again.(Record)["email"])
}

func TestRepository_Finders(t *testing.T) {
	dm := newSeeded(t)
	repo, err := dm.Repository("User")
	require.NoError(t, err)
	ctx := context.Background()

	got, err := paramconv.BindBySignature(ctx, repo, "findBySlug", paramconv.Criteria{"slug": "abc"})
	require.NoError(t, err)
	assert.Equal(t, 1, got.(Record)["id"])

	got, err = paramconv.BindBySignature(ctx, repo, "findBySlug", paramconv.Criteria{"slug": "def"})
	require.NoError(t, err)
	assert.Nil(t, got, "default status filters out blocked users")

	got, err = paramconv.BindBySignature(ctx, repo, "findByStatus", paramconv.Criteria{"status": "active"})
	require.NoError(t, err)
	assert.Len(t, got, 2)

	_, err = paramconv.BindBySignature(ctx, repo, "findByStatus", paramconv.Criteria{})
	assert.ErrorIs(t, err, paramconv.ErrMissingArgument)

	m, ok := repo.(paramconv.MethodProvider).Method("findByStatus")
	require.True(t, ok)
	got, err = m.Func(ctx, []any{paramconv.Criteria{"status": "blocked"}})
	require.NoError(t, err)
	assert.Len(t, got, 1)
}

func TestRepository_ConcurrentAccess(t *testing.T) {
	dm := newSeeded(t)
	repo, err := dm.RepositoryFor("User")
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(2)
		go func(i int) {
			defer wg.Done()
			repo.Insert(Record{"id": 100 + i, "status": "new"})
		}(i)
		go func() {
			defer wg.Done()
			_, _ = repo.FindBy(context.Background(), paramconv.Criteria{"status": "new"})
		}()
	}
	wg.Wait()

	all, err := repo.FindBy(context.Background(), paramconv.Criteria{"status": "new"})
	require.NoError(t, err)
	assert.Len(t, all, 8)
}
