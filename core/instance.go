package core

import "fmt"

// InstanceState is the lifecycle of one proposal's workflow execution
// (spec.md §4.9 "States").
type InstanceState int

const (
	InstanceWaiting InstanceState = iota
	InstanceRunning
	InstanceFatalError
	InstanceFinished
)

// Instance is the per-proposal execution cursor through a template (spec.md
// §3 "Instance").
type Instance struct {
	State              InstanceState
	LastTransitionAt    int64
	CurrentActivity     string
	PreviousActivity    string
	ActionsDone         int
	TransitionCounters  map[string]uint32 // "from->to" -> count
	TemplateCode        string
}

func NewInstance(templateCode string) *Instance {
	return &Instance{
		State:              InstanceWaiting,
		CurrentActivity:    InitActivityCode,
		TransitionCounters: make(map[string]uint32),
		TemplateCode:       templateCode,
	}
}

func transitionKey(from, to string) string { return from + "->" + to }

// PostprocessKind enumerates the instruction shapes a postprocessing block
// can contain (spec.md §4.9 "Postprocessing").
type PostprocessKind int

const (
	PPDeleteKey PostprocessKind = iota
	PPStoreValue
	PPStoreDynamicValue
	PPStoreFnCallResult
	PPStoreExpression
	PPConditionalStore
)

// PostprocessInstr is one instruction of a postprocessing block, applied to
// a storage bucket after an action (or its callback) completes.
type PostprocessInstr struct {
	Kind PostprocessKind

	Key          string       // DeleteKey, StoreValue, StoreDynamicValue, StoreFnCallResult, StoreExpression, ConditionalStore target
	Value        Value        // StoreValue
	Source       ValueSource  // StoreDynamicValue
	ResultDatatype Datatype   // StoreFnCallResult: how to parse the callback bytes
	Expr         ExprRef      // StoreExpression
	Condition    ExprRef      // ConditionalStore
	ThenInstr    *PostprocessInstr // ConditionalStore: executed when Condition is true
}

// RunPostprocessing applies instrs in order to bucket. fnCallResult carries
// the raw callback bytes (nil outside an FnCall callback) already parsed
// into a Value by the caller per ResultDatatype, because decoding policy is
// owned by C11, not here.
func RunPostprocessing(rc *ResolveContext, tpl *Template, instrs []PostprocessInstr, bucket *StorageBucket, fnCallResult *Value) error {
	for _, instr := range instrs {
		if err := runOneInstr(rc, tpl, instr, bucket, fnCallResult); err != nil {
			return err
		}
	}
	return nil
}

func runOneInstr(rc *ResolveContext, tpl *Template, instr PostprocessInstr, bucket *StorageBucket, fnCallResult *Value) error {
	switch instr.Kind {
	case PPDeleteKey:
		bucket.Delete(instr.Key)
		return nil
	case PPStoreValue:
		bucket.Set(instr.Key, instr.Value)
		return nil
	case PPStoreDynamicValue:
		v, err := rc.Resolve(instr.Source)
		if err != nil {
			return err
		}
		bucket.Set(instr.Key, v)
		return nil
	case PPStoreFnCallResult:
		if fnCallResult == nil {
			return fmt.Errorf("%w: StoreFnCallResult outside an FnCall callback", ErrInvalidWfStructure)
		}
		if err := instr.ResultDatatype.Check(*fnCallResult); err != nil {
			return err
		}
		bucket.Set(instr.Key, *fnCallResult)
		return nil
	case PPStoreExpression:
		v, err := rc.EvalRef(tpl, instr.Expr)
		if err != nil {
			return err
		}
		bucket.Set(instr.Key, v)
		return nil
	case PPConditionalStore:
		ok, err := rc.EvalBoolRef(tpl, instr.Condition)
		if err != nil {
			return err
		}
		if ok && instr.ThenInstr != nil {
			return runOneInstr(rc, tpl, *instr.ThenInstr, bucket, fnCallResult)
		}
		return nil
	default:
		return fmt.Errorf("%w: unknown postprocessing instruction kind %d", ErrInvalidWfStructure, instr.Kind)
	}
}

// ActionInput is one action slot's invocation-time input: either present
// (with its bound values keyed by field name) or absent (Present == false),
// per spec.md §4.9 step 5.
type ActionInput struct {
	Present bool
	Fields  map[string]Value
}

// RunActivityRequest bundles the inputs to RunActivity (spec.md §4.9
// "Run-activity protocol").
type RunActivityRequest struct {
	ProposalID     uint64
	TargetActivity string
	ActionInputs   []ActionInput
	Invoker        Address
	Now            int64
}

// ActionDispatcher performs the side-effecting part of dispatching a single
// action by kind, so RunActivity stays a pure-ish orchestrator over C11/C12.
// FnCall and SendNear returns (asyncPending=true, nil) on successful
// dispatch: the instance cursor must pause until the external callback
// lands.
type ActionDispatcher interface {
	DispatchDaoAction(act Action, bound map[string]Value) error
	DispatchEvent(act Action, bound map[string]Value) error
	DispatchFnCall(instanceID uint64, activityCode string, actionIndex int, act Action, bound map[string]Value) (asyncPending bool, err error)
	DispatchSendNear(instanceID uint64, activityCode string, actionIndex int, act Action, bound map[string]Value) (asyncPending bool, err error)
}

// RunActivity implements the central algorithm of spec.md §4.9. tpl and
// settings are the proposal's bound template/template-settings; rc carries
// every other resolution backend (storage, runtime constants, propose
// settings). accepted is the proposal-state check the caller has already
// verified and must pass true for RunActivity to proceed.
func RunActivity(inst *Instance, tpl *Template, settings *TemplateSettings, rc *ResolveContext, rights RightsContext, dispatch ActionDispatcher, req RunActivityRequest, accepted bool) error {
	// Step 1: proposal/instance state checks.
	if !accepted {
		return ErrProposalNotAccepted
	}
	if inst.State == InstanceFinished || inst.State == InstanceFatalError {
		return ErrInstanceTerminal
	}

	// Step 2: per-activity rights, skipped for an Automatic target activity.
	activityRights := settings.ActivityRights[req.TargetActivity]
	target, _ := tpl.activityByCode(req.TargetActivity)
	automatic := target != nil && target.Automatic
	if !automatic && !AnyMatches(rights, activityRights, req.Invoker) {
		return ErrRightsDenied
	}

	transitioning := req.TargetActivity != inst.CurrentActivity
	if transitioning {
		// Step 3: transition existence, limit, condition.
		tr := tpl.transitionTo(inst.CurrentActivity, req.TargetActivity)
		if tr == nil {
			return ErrTransitionNotFound
		}
		key := transitionKey(inst.CurrentActivity, req.TargetActivity)
		limit := tr.Limit
		if override, ok := settings.TransitionLimits[key]; ok {
			limit = override
		}
		if limit != 0 && inst.TransitionCounters[key] >= limit {
			return ErrTransitionLimit
		}
		if tr.Condition != nil {
			ok, err := rc.EvalBoolRef(tpl, *tr.Condition)
			if err != nil {
				return err
			}
			if !ok {
				return ErrConditionFalse
			}
		}
	}

	activity, _ := tpl.activityByCode(req.TargetActivity)
	if activity == nil {
		return fmt.Errorf("%w: activity %q not found", ErrInvalidWfStructure, req.TargetActivity)
	}

	// Step 4: entry condition.
	if activity.EntryGuard != nil {
		ok, err := rc.EvalBoolRef(tpl, *activity.EntryGuard)
		if err != nil {
			return err
		}
		if !ok {
			return ErrConditionFalse
		}
	}

	startIdx := 0
	if !transitioning {
		startIdx = inst.ActionsDone
	}

	for idx := startIdx; idx < len(activity.Actions); idx++ {
		act := activity.Actions[idx]
		input := ActionInput{}
		if idx < len(req.ActionInputs) {
			input = req.ActionInputs[idx]
		}

		if !input.Present {
			if act.Optional {
				continue
			}
			return ErrActionMissing
		}

		rc.ActivityCode = req.TargetActivity
		rc.ActionIndex = idx
		if act.InputFrom == InputFromInvoker {
			rc.UserInput = input.Fields
		}

		if act.Guard != nil {
			ok, err := rc.EvalBoolRef(tpl, *act.Guard)
			if err != nil {
				return err
			}
			if !ok {
				return ErrConditionFalse
			}
		}

		if err := RunValidators(rc, tpl, act.Validators); err != nil {
			return err
		}

		bound, err := bindActionInputs(rc, act)
		if err != nil {
			return err
		}

		async := false
		switch act.Kind {
		case ActionDaoAction:
			if err := dispatch.DispatchDaoAction(act, bound); err != nil {
				return err
			}
			if err := RunPostprocessing(rc, tpl, act.Postprocessing, rc.Bucket, nil); err != nil {
				return err
			}
		case ActionEvent:
			if err := dispatch.DispatchEvent(act, bound); err != nil {
				return err
			}
			if err := RunPostprocessing(rc, tpl, act.Postprocessing, rc.Bucket, nil); err != nil {
				return err
			}
		case ActionSendNear:
			pending, err := dispatch.DispatchSendNear(req.ProposalID, req.TargetActivity, idx, act, bound)
			if err != nil {
				return err
			}
			async = pending
		case ActionFnCall:
			pending, err := dispatch.DispatchFnCall(req.ProposalID, req.TargetActivity, idx, act, bound)
			if err != nil {
				return err
			}
			async = pending
		default:
			return fmt.Errorf("%w: unknown action kind %d", ErrInvalidWfStructure, act.Kind)
		}

		if async && !activity.IsSync {
			// Step 5 (pause): record the transition, but leave the
			// actions-done cursor on this pending action and stop processing
			// further actions; Deliver moves the cursor past it on success.
			advanceCursor(inst, transitioning, req.TargetActivity, idx, req.Now)
			inst.ActionsDone = idx
			inst.State = InstanceRunning
			return nil
		}
	}

	// Step 6: full activity advance.
	advanceCursor(inst, transitioning, req.TargetActivity, len(activity.Actions)-1, req.Now)
	inst.State = InstanceRunning

	// Step 7: terminal automatic finish.
	if tpl.Terminal[req.TargetActivity] && activity.Terminality == TerminalityAutomatic {
		inst.State = InstanceFinished
	}
	return nil
}

func advanceCursor(inst *Instance, transitioning bool, target string, lastIdx int, now int64) {
	if transitioning {
		key := transitionKey(inst.CurrentActivity, target)
		inst.TransitionCounters[key]++
		inst.PreviousActivity = inst.CurrentActivity
		inst.CurrentActivity = target
		inst.ActionsDone = 0
	} else {
		inst.ActionsDone = lastIdx + 1
	}
	inst.LastTransitionAt = now
}

// bindActionInputs resolves the bound value map an action's handlers and
// postprocessing consume, keyed by the field names carried in the invoker's
// input map or the propose-settings action constants.
func bindActionInputs(rc *ResolveContext, act Action) (map[string]Value, error) {
	if act.InputFrom == InputFromPropSettings {
		am, ok := rc.ProposeSettings.PerActivity[rc.ActivityCode]
		if !ok {
			return nil, fmt.Errorf("%w: activity constants for %q", ErrSourceMissingConfig, rc.ActivityCode)
		}
		fields, ok := am.PerAction[rc.ActionIndex]
		if !ok {
			return nil, fmt.Errorf("%w: action constants for action %d", ErrSourceMissingConfig, rc.ActionIndex)
		}
		return fields, nil
	}
	return rc.UserInput, nil
}

// FinishInstance implements workflow_finish: requires a TerminalityUser
// terminal activity to have completed before the instance transitions to
// Finished (spec.md §4.9 step 7, §6 "workflow_finish").
func FinishInstance(inst *Instance, tpl *Template) error {
	if inst.State == InstanceFinished || inst.State == InstanceFatalError {
		return ErrInstanceTerminal
	}
	activity, _ := tpl.activityByCode(inst.CurrentActivity)
	if activity == nil {
		return fmt.Errorf("%w: activity %q not found", ErrInvalidWfStructure, inst.CurrentActivity)
	}
	if !tpl.Terminal[inst.CurrentActivity] {
		return ErrInvalidState
	}
	if activity.Terminality == TerminalityNone {
		return ErrInvalidState
	}
	if inst.ActionsDone < len(activity.Actions) {
		return ErrNotReady
	}
	inst.State = InstanceFinished
	return nil
}

// FailCallback implements the must-succeed failure path of spec.md §4.11:
// on a failed FnCall callback, drive the instance to FatalError if the
// action was must-succeed, otherwise leave the cursor untouched so the
// action may be retried.
func FailCallback(inst *Instance, mustSucceed bool) error {
	if mustSucceed {
		inst.State = InstanceFatalError
		return ErrPromiseFailed
	}
	return ErrPromiseFailed
}
