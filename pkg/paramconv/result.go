package paramconv

type resultKind uint8

const (
	notApplicable resultKind = iota
	found
	foundNothing
)

// Result is the outcome of one resolution strategy.
//
// The zero value is NotApplicable: the strategy did not run because the
// request lacks what it needs. FoundNothing means the strategy ran and the
// repository returned no document, which stops the fallback chain.
type Result struct {
	kind  resultKind
	value any
}

// NotApplicable reports that a strategy did not apply to the request.
func NotApplicable() Result { return Result{} }

// Found wraps a resolved document or collection. A nil value yields FoundNothing.
func Found(v any) Result {
	if v == nil {
		return FoundNothing()
	}
	return Result{kind: found, value: v}
}

// FoundNothing reports that a strategy ran and resolved no document.
func FoundNothing() Result { return Result{kind: foundNothing} }

// Applicable reports whether the strategy ran.
func (r Result) Applicable() bool { return r.kind != notApplicable }

// Value returns the resolved value and whether one was found.
func (r Result) Value() (any, bool) { return r.value, r.kind == found }

func (r Result) String() string {
	switch r.kind {
	case found:
		return "found"
	case foundNothing:
		return "found nothing"
	default:
		return "not applicable"
	}
}
