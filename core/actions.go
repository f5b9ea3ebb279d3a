package core

import "fmt"

// DAODispatcher is the concrete ActionDispatcher RunActivity drives: it
// typed-casts an action's bound input map per the closed DaoActionKind set
// (spec.md §4.12) and calls the matching DAO handler, and it routes
// FnCall/SendNear dispatch through the DAO's PromiseBroker (C11).
type DAODispatcher struct {
	DAO *DAO
	RC  *ResolveContext
	Now int64
}

func addressFromValue(v Value) (Address, error) {
	s, err := v.AsString()
	if err != nil {
		return Address{}, err
	}
	return ParseAddress(s)
}

func membersFromValue(v Value) ([]GroupMember, error) {
	if v.Kind != KindVecString {
		return nil, fmt.Errorf("%w: expected vec<string> of account ids", ErrCast)
	}
	out := make([]GroupMember, 0, len(v.VS))
	for _, s := range v.VS {
		a, err := ParseAddress(s)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrParseAccountUser, err)
		}
		out = append(out, GroupMember{Account: a})
	}
	return out, nil
}

func addressesFromValue(v Value) ([]Address, error) {
	members, err := membersFromValue(v)
	if err != nil {
		return nil, err
	}
	out := make([]Address, len(members))
	for i, m := range members {
		out[i] = m.Account
	}
	return out, nil
}

// DispatchDaoAction implements ActionDispatcher for the DaoAction kind,
// dispatching on act.DaoAction to the matching DAO.Handle* method with
// inputs cast from bound per spec.md §4.12: "typed-casts per its metadata
// descriptor, and fails with InputInvalid on cast failure."
func (d *DAODispatcher) DispatchDaoAction(act Action, bound map[string]Value) error {
	get := func(k string) Value { return bound[k] }
	cast := func(err error) error {
		if err != nil {
			return ErrInputInvalid
		}
		return nil
	}

	switch act.DaoAction {
	case DaoActionGroupAdd:
		name, err1 := get("name").AsString()
		partition, err2 := get("partition").AsString()
		leader, err3 := addressFromValue(get("leader"))
		members, err4 := membersFromValue(get("members"))
		if err1 != nil || err2 != nil || err3 != nil || err4 != nil {
			return ErrInputInvalid
		}
		return cast(d.DAO.HandleGroupAdd(GroupAddInput{Name: name, PartitionName: partition, Leader: leader, Members: members}))

	case DaoActionGroupRemove:
		name, err := get("name").AsString()
		if err != nil {
			return ErrInputInvalid
		}
		return cast(d.DAO.HandleGroupRemove(name))

	case DaoActionGroupAddMembers:
		name, err1 := get("name").AsString()
		members, err2 := membersFromValue(get("members"))
		if err1 != nil || err2 != nil {
			return ErrInputInvalid
		}
		return cast(d.DAO.HandleGroupAddMembers(name, members, d.Now))

	case DaoActionGroupRemoveMembers:
		name, err1 := get("name").AsString()
		accounts, err2 := addressesFromValue(get("members"))
		if err1 != nil || err2 != nil {
			return ErrInputInvalid
		}
		return cast(d.DAO.HandleGroupRemoveMembers(name, accounts))

	case DaoActionGroupRemoveRoles:
		name, err1 := get("name").AsString()
		role, err2 := get("role").AsString()
		if err1 != nil || err2 != nil {
			return ErrInputInvalid
		}
		return cast(d.DAO.HandleGroupRemoveRoles(name, role))

	case DaoActionGroupRemoveMemberRoles:
		name, err1 := get("name").AsString()
		account, err2 := addressFromValue(get("account"))
		if err1 != nil || err2 != nil {
			return ErrInputInvalid
		}
		return cast(d.DAO.HandleGroupRemoveMemberRoles(name, account))

	case DaoActionTagAdd:
		category, err1 := get("category").AsString()
		key, err2 := get("key").AsString()
		value, err3 := get("value").AsString()
		if err1 != nil || err2 != nil || err3 != nil {
			return ErrInputInvalid
		}
		return cast(d.DAO.HandleTagAdd(category, key, value))

	case DaoActionTagEdit:
		category, err1 := get("category").AsString()
		key, err2 := get("key").AsString()
		value, err3 := get("value").AsString()
		if err1 != nil || err2 != nil || err3 != nil {
			return ErrInputInvalid
		}
		return cast(d.DAO.HandleTagEdit(category, key, value))

	case DaoActionTagRemove:
		category, err1 := get("category").AsString()
		key, err2 := get("key").AsString()
		if err1 != nil || err2 != nil {
			return ErrInputInvalid
		}
		return cast(d.DAO.HandleTagRemove(category, key))

	case DaoActionMediaAdd:
		name, err1 := get("name").AsString()
		category, err2 := get("category").AsString()
		if err1 != nil || err2 != nil {
			return ErrInputInvalid
		}
		content := []byte(get("content").S)
		_, err := d.DAO.HandleMediaAdd(content, name, category)
		return cast(err)

	case DaoActionMediaUpdate:
		id, err1 := get("id").AsU64()
		name, err2 := get("name").AsString()
		category, err3 := get("category").AsString()
		if err1 != nil || err2 != nil || err3 != nil {
			return ErrInputInvalid
		}
		return cast(d.DAO.HandleMediaUpdate(id, name, category))

	case DaoActionMediaInvalidate:
		id, err := get("id").AsU64()
		if err != nil {
			return ErrInputInvalid
		}
		return cast(d.DAO.HandleMediaInvalidate(id))

	case DaoActionTreasuryAddPartition:
		name, err := get("name").AsString()
		if err != nil {
			return ErrInputInvalid
		}
		return cast(d.DAO.HandleTreasuryAddPartition(name))

	case DaoActionPartitionAddAssetAmount:
		name, err1 := get("partition").AsString()
		if err1 != nil {
			return ErrInputInvalid
		}
		asset := assetFromBound(bound)
		return cast(d.DAO.HandlePartitionAddAssetAmount(name, asset, get("amount")))

	case DaoActionRewardAdd:
		return ErrInvalidWfStructure // RewardAdd is constructed by template authors server-side, not user input; see DESIGN.md

	case DaoActionUserRoleAdd:
		group, err1 := get("group").AsString()
		account, err2 := addressFromValue(get("account"))
		role, err3 := get("role").AsString()
		if err1 != nil || err2 != nil || err3 != nil {
			return ErrInputInvalid
		}
		return cast(d.DAO.HandleUserRoleAdd(group, account, role))

	case DaoActionUserRoleRemove:
		group, err1 := get("group").AsString()
		account, err2 := addressFromValue(get("account"))
		role, err3 := get("role").AsString()
		if err1 != nil || err2 != nil || err3 != nil {
			return ErrInputInvalid
		}
		return cast(d.DAO.HandleUserRoleRemove(group, account, role))

	case DaoActionEvent:
		name, err := get("name").AsString()
		if err != nil {
			return ErrInputInvalid
		}
		return cast(d.DAO.HandleEvent(name))

	default:
		return fmt.Errorf("%w: unknown dao action kind %d", ErrInvalidWfStructure, act.DaoAction)
	}
}

// assetFromBound reconstructs an AssetID from the bound fields a
// PartitionAddAssetAmount action carries: asset_kind, asset_contract,
// asset_token.
func assetFromBound(bound map[string]Value) AssetID {
	kind := AssetNative
	if k, ok := bound["asset_kind"]; ok {
		if u, err := k.AsU64(); err == nil {
			kind = AssetKind(u)
		}
	}
	var contract Address
	if c, ok := bound["asset_contract"]; ok {
		if a, err := addressFromValue(c); err == nil {
			contract = a
		}
	}
	var token string
	if t, ok := bound["asset_token"]; ok {
		token = t.S
	}
	return AssetID{Kind: kind, Contract: contract, TokenID: token}
}

func (d *DAODispatcher) DispatchEvent(act Action, bound map[string]Value) error {
	return d.DAO.HandleEvent(act.Event.Name)
}

func (d *DAODispatcher) DispatchFnCall(instanceID uint64, activityCode string, actionIndex int, act Action, bound map[string]Value) (bool, error) {
	pc := PendingCall{InstanceID: instanceID, ActivityCode: activityCode, ActionIndex: actionIndex, MustSucceed: act.FnCall.MustSucceed, Postprocessing: act.Postprocessing}
	return d.DAO.Broker.Dispatch(d.RC, act.FnCall, bound, pc)
}

func (d *DAODispatcher) DispatchSendNear(instanceID uint64, activityCode string, actionIndex int, act Action, bound map[string]Value) (bool, error) {
	rc := d.RC
	receiver, err := rc.Resolve(act.SendNear.Receiver)
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
	amount, err := rc.Resolve(act.SendNear.Amount)
	if err != nil {
		return false, err
	}
	pc := PendingCall{InstanceID: instanceID, ActivityCode: activityCode, ActionIndex: actionIndex, Postprocessing: act.Postprocessing}
	callID, err := d.DAO.Broker.caller.Call(addr, "", 0, amount, nil)
	if err != nil {
		return false, err
	}
	d.DAO.Broker.pending[callID] = pc
	return true, nil
}
