package paramconv

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBindBySignature(t *testing.T) {
	var gotArgs []any
	find := Method{
		Name:   "find",
		Params: []Param{Required("id"), Required("status"), Optional("limit", 10)},
		Func: func(_ context.Context, args []any) (any, error) {
			gotArgs = args
			return "ok", nil
		},
	}
	repo := &fakeRepo{methods: map[string]Method{"find": find}}

	t.Run("binds by name in declaration order", func(t *testing.T) {
		got, err := BindBySignature(context.Background(), repo, "find", Criteria{"status": "open", "id": 5, "extra": true})
		require.NoError(t, err)
		assert.Equal(t, "ok", got)
		assert.Equal(t, []any{5, "open", 10}, gotArgs)
	})

	t.Run("criteria overrides default", func(t *testing.T) {
		_, err := BindBySignature(context.Background(), repo, "find", Criteria{"status": "open", "id": 5, "limit": 1})
		require.NoError(t, err)
		assert.Equal(t, []any{5, "open", 1}, gotArgs)
	})

	t.Run("nil criteria value still binds", func(t *testing.T) {
		_, err := BindBySignature(context.Background(), repo, "find", Criteria{"status": nil, "id": 5})
		require.NoError(t, err)
		assert.Equal(t, []any{5, nil, 10}, gotArgs)
	})

	t.Run("missing required parameter", func(t *testing.T) {
		gotArgs = nil
		_, err := BindBySignature(context.Background(), repo, "find", Criteria{"id": 5})
		require.ErrorIs(t, err, ErrMissingArgument)

		var missing *MissingArgumentError
		require.ErrorAs(t, err, &missing)
		assert.Equal(t, "status", missing.Param)
		assert.Equal(t, "find", missing.Method)
		assert.Equal(t, "UserRepository", missing.Repository)
		assert.Contains(t, err.Error(), `"status"`)
		assert.Nil(t, gotArgs, "finder must not run")
	})

	t.Run("unknown method", func(t *testing.T) {
		_, err := BindBySignature(context.Background(), repo, "findAll", Criteria{})
		assert.ErrorIs(t, err, ErrUnknownMethod)
	})
}

type plainRepo struct{}

func (plainRepo) FindOneBy(context.Context, Criteria) (any, error) { return nil, nil }

func TestBindBySignature_RepositoryWithoutMethods(t *testing.T) {
	_, err := BindBySignature(context.Background(), plainRepo{}, "find", Criteria{})
	require.ErrorIs(t, err, ErrUnknownMethod)
	assert.Contains(t, err.Error(), "paramconv.plainRepo")
}
