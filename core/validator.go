package core

import "fmt"

// ValidatorKind distinguishes the two validator shapes of spec.md §4.3.
type ValidatorKind int

const (
	ValidatorObject ValidatorKind = iota
	ValidatorCollection
)

// Validator evaluates one expression against a bound source list and
// requires a boolean result. An Object validator runs once; a Collection
// validator iterates numeric subscripts under KeyPrefix until the first
// missing element, remapping every User-keyed source on each iteration.
type Validator struct {
	Kind      ValidatorKind
	Expr      ExprRef
	KeyPrefix string // Collection only
}

// Run executes v, returning false (never an error) when the bound
// expression evaluates false; a failing validator drives the caller to fail
// the action with ErrInputInvalid, per spec.md §4.3.
func (v Validator) Run(rc *ResolveContext, tpl *Template) (bool, error) {
	switch v.Kind {
	case ValidatorObject:
		return rc.EvalBoolRef(tpl, v.Expr)
	case ValidatorCollection:
		return v.runCollection(rc, tpl)
	default:
		return false, fmt.Errorf("%w: unknown validator kind", ErrInvalidWfStructure)
	}
}

func (v Validator) runCollection(rc *ResolveContext, tpl *Template) (bool, error) {
	for n := 0; ; n++ {
		remapped := make([]ValueSource, len(v.Expr.Sources))
		elementPresent := false
		for i, s := range v.Expr.Sources {
			if s.Kind == SrcUser {
				key := fmt.Sprintf("%s.%d.%s", v.KeyPrefix, n, s.Key)
				remapped[i] = User(key)
				if _, ok := rc.UserInput[key]; ok {
					elementPresent = true
				}
			} else {
				remapped[i] = s
			}
		}
		if !elementPresent {
			// No User-keyed source found for subscript n: the collection is
			// exhausted (or was empty). A validator over an empty
			// collection is vacuously satisfied.
			return true, nil
		}
		bound, err := rc.Bind(remapped)
		if err != nil {
			return false, err
		}
		ok, err := Eval(tpl.Expressions[v.Expr.ExprIndex], bound)
		if err != nil {
			return false, err
		}
		b, err := ok.AsBool()
		if err != nil {
			return false, err
		}
		if !b {
			return false, nil
		}
	}
}

// RunValidators runs every validator in refs, failing fast with
// ErrInputInvalid on the first false result or propagating the first
// resolution error encountered.
func RunValidators(rc *ResolveContext, tpl *Template, refs []Validator) error {
	for _, v := range refs {
		ok, err := v.Run(rc, tpl)
		if err != nil {
			return err
		}
		if !ok {
			return ErrInputInvalid
		}
	}
	return nil
}
