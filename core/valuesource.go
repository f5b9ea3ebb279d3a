package core

import "fmt"

// SourceKind enumerates the symbolic value sources a ValueSource resolves
// against, in the precedence order listed in spec.md §4.2.
type SourceKind int

const (
	SrcTpl SourceKind = iota
	SrcTplSettings
	SrcPropSettings
	SrcAction
	SrcActivity
	SrcStorage
	SrcGlobalStorage
	SrcRuntime
	SrcUser
)

// Runtime constant ids (spec.md §4.2).
const (
	RuntimeDAOAccount = 0
	RuntimeNow        = 1
	RuntimeCaller     = 2
)

// ValueSource names one symbolic reference to be resolved to a concrete
// Value immediately before expression evaluation or payload construction
// ("bind", per the glossary).
type ValueSource struct {
	Kind      SourceKind
	Key       string
	RuntimeID int
}

func Tpl(key string) ValueSource         { return ValueSource{Kind: SrcTpl, Key: key} }
func TplSettings(key string) ValueSource { return ValueSource{Kind: SrcTplSettings, Key: key} }
func PropSettings(key string) ValueSource { return ValueSource{Kind: SrcPropSettings, Key: key} }
func Action(key string) ValueSource      { return ValueSource{Kind: SrcAction, Key: key} }
func Activity(key string) ValueSource    { return ValueSource{Kind: SrcActivity, Key: key} }
func Storage(key string) ValueSource     { return ValueSource{Kind: SrcStorage, Key: key} }
func GlobalStorage(key string) ValueSource {
	return ValueSource{Kind: SrcGlobalStorage, Key: key}
}
func Runtime(id int) ValueSource { return ValueSource{Kind: SrcRuntime, RuntimeID: id} }
func User(key string) ValueSource { return ValueSource{Kind: SrcUser, Key: key} }

// ResolveContext bundles every backing store a ValueSource may read from.
// Resolution is a single read-only pass: nothing here is mutated by Resolve.
type ResolveContext struct {
	Template         *Template
	Settings         *TemplateSettings
	ProposeSettings  *ProposeSettings
	ActivityCode     string
	ActionIndex      int
	Bucket           *StorageBucket
	Global           *StorageBucket
	DAOAccount       Address
	Now              int64
	Caller           Address
	UserInput        map[string]Value
}

// Resolve resolves src to a Value. Missing keys return ErrSourceMissing
// (user-recoverable: Storage/User lookups) or ErrSourceMissingConfig (fatal:
// Tpl/TplSettings/PropSettings/Action/Activity lookups, since those come
// from template or proposal configuration, not live user input).
func (rc *ResolveContext) Resolve(src ValueSource) (Value, error) {
	switch src.Kind {
	case SrcTpl:
		if rc.Template == nil {
			return Value{}, ErrSourceMissingConfig
		}
		v, ok := rc.Template.Constants[src.Key]
		if !ok {
			return Value{}, fmt.Errorf("%w: template constant %q", ErrSourceMissingConfig, src.Key)
		}
		return v, nil
	case SrcTplSettings:
		if rc.Settings == nil {
			return Value{}, ErrSourceMissingConfig
		}
		v, ok := rc.Settings.Constants[src.Key]
		if !ok {
			return Value{}, fmt.Errorf("%w: template-settings constant %q", ErrSourceMissingConfig, src.Key)
		}
		return v, nil
	case SrcPropSettings:
		if rc.ProposeSettings == nil {
			return Value{}, ErrSourceMissingConfig
		}
		v, ok := rc.ProposeSettings.Constants[src.Key]
		if !ok {
			return Value{}, fmt.Errorf("%w: propose-settings constant %q", ErrSourceMissingConfig, src.Key)
		}
		return v, nil
	case SrcActivity:
		if rc.ProposeSettings == nil {
			return Value{}, ErrSourceMissingConfig
		}
		am, ok := rc.ProposeSettings.PerActivity[rc.ActivityCode]
		if !ok {
			return Value{}, fmt.Errorf("%w: activity constants for %q", ErrSourceMissingConfig, rc.ActivityCode)
		}
		v, ok := am.Constants[src.Key]
		if !ok {
			return Value{}, fmt.Errorf("%w: activity constant %q", ErrSourceMissingConfig, src.Key)
		}
		return v, nil
	case SrcAction:
		if rc.ProposeSettings == nil {
			return Value{}, ErrSourceMissingConfig
		}
		am, ok := rc.ProposeSettings.PerActivity[rc.ActivityCode]
		if !ok {
			return Value{}, fmt.Errorf("%w: action constants for activity %q", ErrSourceMissingConfig, rc.ActivityCode)
		}
		acm, ok := am.PerAction[rc.ActionIndex]
		if !ok {
			return Value{}, fmt.Errorf("%w: action constants for action %d", ErrSourceMissingConfig, rc.ActionIndex)
		}
		v, ok := acm[src.Key]
		if !ok {
			return Value{}, fmt.Errorf("%w: action constant %q", ErrSourceMissingConfig, src.Key)
		}
		return v, nil
	case SrcStorage:
		if rc.Bucket == nil {
			return Value{}, ErrSourceMissing
		}
		v, ok := rc.Bucket.Get(src.Key)
		if !ok {
			return Value{}, fmt.Errorf("%w: storage key %q", ErrSourceMissing, src.Key)
		}
		return v, nil
	case SrcGlobalStorage:
		if rc.Global == nil {
			return Value{}, ErrSourceMissing
		}
		v, ok := rc.Global.Get(src.Key)
		if !ok {
			return Value{}, fmt.Errorf("%w: global storage key %q", ErrSourceMissing, src.Key)
		}
		return v, nil
	case SrcRuntime:
		switch src.RuntimeID {
		case RuntimeDAOAccount:
			return StringValue(rc.DAOAccount.String()), nil
		case RuntimeNow:
			return U64Value(uint64(rc.Now)), nil
		case RuntimeCaller:
			return StringValue(rc.Caller.String()), nil
		default:
			return Value{}, fmt.Errorf("%w: unknown runtime id %d", ErrSourceMissingConfig, src.RuntimeID)
		}
	case SrcUser:
		v, ok := rc.UserInput[src.Key]
		if !ok {
			return Value{}, fmt.Errorf("%w: user input key %q", ErrSourceMissing, src.Key)
		}
		return v, nil
	default:
		return Value{}, fmt.Errorf("%w: unknown source kind %d", ErrSourceMissingConfig, src.Kind)
	}
}

// Bind resolves every source in order into a bound argument vector, failing
// on the first missing source — used by expression binding and by
// collection validators.
func (rc *ResolveContext) Bind(sources []ValueSource) ([]Value, error) {
	out := make([]Value, len(sources))
	for i, s := range sources {
		v, err := rc.Resolve(s)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

// ExprRef binds a pooled expression (by index into the template's
// Expressions slice) to a concrete source list.
type ExprRef struct {
	ExprIndex int
	Sources   []ValueSource
}

// EvalRef binds and evaluates an ExprRef against tpl's expression pool.
func (rc *ResolveContext) EvalRef(tpl *Template, ref ExprRef) (Value, error) {
	if ref.ExprIndex < 0 || ref.ExprIndex >= len(tpl.Expressions) {
		return Value{}, fmt.Errorf("%w: expression index %d out of range", ErrInvalidWfStructure, ref.ExprIndex)
	}
	bound, err := rc.Bind(ref.Sources)
	if err != nil {
		return Value{}, err
	}
	return Eval(tpl.Expressions[ref.ExprIndex], bound)
}

// EvalBoolRef is EvalRef plus the boolean-result requirement guard
// expressions and validators share.
func (rc *ResolveContext) EvalBoolRef(tpl *Template, ref ExprRef) (bool, error) {
	v, err := rc.EvalRef(tpl, ref)
	if err != nil {
		return false, err
	}
	return v.AsBool()
}
