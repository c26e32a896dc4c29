package paramconv

import (
	"context"
	"fmt"
)

// BindBySignature calls the finder named method on repo, binding each declared
// parameter from criteria by name, falling back to the parameter's default.
// A parameter with neither yields a *MissingArgumentError.
func BindBySignature(ctx context.Context, repo Repository, method string, criteria Criteria) (any, error) {
	m, err := lookupMethod(repo, method)
	if err != nil {
		return nil, err
	}

	args := make([]any, 0, len(m.Params))
	for _, p := range m.Params {
		switch v, ok := criteria[p.Name]; {
		case ok:
			args = append(args, v)
		case p.HasDefault:
			args = append(args, p.Default)
		default:
			return nil, &MissingArgumentError{
				Repository: repositoryName(repo),
				Method:     method,
				Param:      p.Name,
			}
		}
	}

	return m.Func(ctx, args)
}

// callMethod calls the finder named method with criteria as its only argument.
func callMethod(ctx context.Context, repo Repository, method string, criteria Criteria) (any, error) {
	m, err := lookupMethod(repo, method)
	if err != nil {
		return nil, err
	}
	return m.Func(ctx, []any{criteria})
}

func lookupMethod(repo Repository, method string) (Method, error) {
	provider, ok := repo.(MethodProvider)
	if !ok {
		return Method{}, fmt.Errorf("%w: %s has no named finders, cannot call %q", ErrUnknownMethod, repositoryName(repo), method)
	}
	m, ok := provider.Method(method)
	if !ok || m.Func == nil {
		return Method{}, fmt.Errorf("%w: %s::%s", ErrUnknownMethod, repositoryName(repo), method)
	}
	return m, nil
}

// repositoryName is used in error messages. Repositories may implement
// fmt.Stringer to report a friendlier name than their Go type.
func repositoryName(repo Repository) string {
	if s, ok := repo.(fmt.Stringer); ok {
		return s.String()
	}
	return fmt.Sprintf("%T", repo)
}
