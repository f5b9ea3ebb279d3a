package core

import (
	"encoding/json"
	"fmt"
)

// PendingCall is the persisted state of one in-flight FnCall/SendNear
// dispatch: enough to apply postprocessing and advance/fail the instance
// once the host delivers its completion callback (spec.md §4.11).
type PendingCall struct {
	InstanceID      uint64
	ActivityCode    string
	ActionIndex     int
	MustSucceed     bool
	Postprocessing  []PostprocessInstr
	ResultDatatype  Datatype
	StorageKey      string // receiver-storage key for StoreFnCallResult target, if any
}

// ExternalCaller is the host inter-contract call primitive spec.md §1
// assumes but places out of scope: implementations model it as an
// in-process promise/callback broker because no real host is available in
// this engine (spec.md Non-goals: "an inter-contract call primitive with
// success/failure callbacks").
type ExternalCaller interface {
	Call(receiver Address, method string, gas uint64, deposit Value, args map[string]Value) (callID uint64, err error)
}

// PromiseBroker dispatches outbound calls and tracks which PendingCall each
// callID corresponds to, delivering results back through Deliver. It
// mirrors spec.md §5's suspension model: an instance parked on a pending
// call cannot be advanced again until Deliver runs, because the pending
// entry is keyed by call id, not instance id, so concurrent instances never
// collide.
type PromiseBroker struct {
	caller  ExternalCaller
	pending map[uint64]PendingCall
}

func NewPromiseBroker(caller ExternalCaller) *PromiseBroker {
	return &PromiseBroker{caller: caller, pending: make(map[uint64]PendingCall)}
}

// Dispatch resolves an action's FnCallSpec receiver, method and deposit,
// issues the call through ExternalCaller with the bound values (C2's output)
// as its argument map, and registers the PendingCall so Deliver can resume
// execution later.
func (b *PromiseBroker) Dispatch(rc *ResolveContext, spec FnCallSpec, bound map[string]Value, pc PendingCall) (bool, error) {
	receiver, err := rc.Resolve(spec.Receiver)
	if err != nil {
		return false, err
	}
	receiverStr, err := receiver.AsString()
	if err != nil {
		return false, err
	}
	addr, err := ParseAddress(receiverStr)
	if err != nil {
		return false, fmt.Errorf("%w: %v", ErrParseAccountConfig, err)
	}
	method, err := rc.Resolve(spec.Method)
	if err != nil {
		return false, err
	}
	methodStr, err := method.AsString()
	if err != nil {
		return false, err
	}
	deposit := NullValue()
	if spec.HasDeposit {
		deposit, err = rc.Resolve(spec.DepositFrom)
		if err != nil {
			return false, err
		}
	}

	callID, err := b.caller.Call(addr, methodStr, spec.GasBudget, deposit, bound)
	if err != nil {
		return false, err
	}
	b.pending[callID] = pc
	return true, nil
}

// CallbackResult is exactly what the host delivers on call completion:
// spec.md §4.11 requires "exactly one promise result must be present."
type CallbackResult struct {
	CallID  uint64
	Success bool
	Bytes   []byte // ignored when !Success
}

// Deliver applies a landed callback: on success, decode Bytes per the
// pending call's ResultDatatype and run postprocessing; on failure, drive
// the instance to FatalError if MustSucceed, otherwise leave it retryable.
func (b *PromiseBroker) Deliver(rc *ResolveContext, tpl *Template, inst *Instance, res CallbackResult, bucket *StorageBucket) error {
	pc, ok := b.pending[res.CallID]
	if !ok {
		return fmt.Errorf("%w: unknown call id %d", ErrInvalidWfStructure, res.CallID)
	}
	delete(b.pending, res.CallID)
	sugar().Debugw("promise callback delivered", "call_id", res.CallID, "instance_id", pc.InstanceID, "success", res.Success)

	if !res.Success {
		return FailCallback(inst, pc.MustSucceed)
	}

	var v Value
	if len(res.Bytes) > 0 {
		if err := json.Unmarshal(res.Bytes, &v); err != nil {
			return fmt.Errorf("%w: %v", ErrDeserializeDaoObject, err)
		}
		if err := pc.ResultDatatype.Check(v); err != nil {
			return err
		}
	} else {
		v = NullValue()
	}

	if err := RunPostprocessing(rc, tpl, pc.Postprocessing, bucket, &v); err != nil {
		return err
	}

	advanceCursor(inst, false, pc.ActivityCode, pc.ActionIndex, rc.Now)
	inst.State = InstanceRunning
	if tpl.Terminal[pc.ActivityCode] {
		if activity, _ := tpl.activityByCode(pc.ActivityCode); activity != nil && activity.Terminality == TerminalityAutomatic && inst.ActionsDone >= len(activity.Actions) {
			inst.State = InstanceFinished
		}
	}
	return nil
}

// BuildCallArgs serializes bound into the metadata-driven JSON payload
// spec.md §6 describes ("Argument encoding"): every Value already marshals
// per its own Datatype rules (u128 as a string, vectors as arrays) via
// Value.MarshalJSON, so this is a straight map encode.
func BuildCallArgs(bound map[string]Value) ([]byte, error) {
	return json.Marshal(bound)
}
