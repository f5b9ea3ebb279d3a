package core

// RightKind enumerates the authorization predicate shapes of spec.md §4.9
// ("Rights evaluation"): Anyone, Group, GroupMember, GroupRole, GroupLeader,
// Member (any group membership), TokenHolder (delegated stake > 0), and a
// single fixed Account.
type RightKind int

const (
	RightAnyone RightKind = iota
	RightGroup
	RightGroupMember
	RightGroupRole
	RightGroupLeader
	RightMember
	RightTokenHolder
	RightAccount
)

// Right is one authorization predicate. A right-list grants access if any
// element matches the caller; an empty list denies all (spec.md §4.9).
type Right struct {
	Kind    RightKind
	Group   string
	Role    string
	Account Address
}

func Anyone() Right                  { return Right{Kind: RightAnyone} }
func InGroup(group string) Right     { return Right{Kind: RightGroup, Group: group} }
func GroupMemberRight(group string, account Address) Right {
	return Right{Kind: RightGroupMember, Group: group, Account: account}
}
func GroupRoleRight(group, role string) Right { return Right{Kind: RightGroupRole, Group: group, Role: role} }
func GroupLeaderRight(group string) Right     { return Right{Kind: RightGroupLeader, Group: group} }
func AnyMember() Right                        { return Right{Kind: RightMember} }
func TokenHolderRight() Right                 { return Right{Kind: RightTokenHolder} }
func AccountRight(a Address) Right            { return Right{Kind: RightAccount, Account: a} }

// RightsContext supplies everything Matches needs to evaluate a Right
// against a specific caller.
type RightsContext struct {
	Groups          map[string]*Group
	DelegatedStake  func(Address) uint64 // nil means no delegation backend wired
}

func (r Right) Matches(rc RightsContext, caller Address) bool {
	switch r.Kind {
	case RightAnyone:
		return true
	case RightGroup:
		g, ok := rc.Groups[r.Group]
		return ok && g.HasMember(caller)
	case RightGroupMember:
		return r.Account == caller
	case RightGroupRole:
		g, ok := rc.Groups[r.Group]
		return ok && g.HasRole(caller, r.Role)
	case RightGroupLeader:
		g, ok := rc.Groups[r.Group]
		return ok && g.Leader == caller
	case RightMember:
		for _, g := range rc.Groups {
			if g.HasMember(caller) {
				return true
			}
		}
		return false
	case RightTokenHolder:
		if rc.DelegatedStake == nil {
			return false
		}
		return rc.DelegatedStake(caller) > 0
	case RightAccount:
		return r.Account == caller
	default:
		return false
	}
}

// AnyMatches grants access if any right in rights matches caller; an empty
// list denies all, per spec.md §4.9.
func AnyMatches(rc RightsContext, rights []Right, caller Address) bool {
	for _, r := range rights {
		if r.Matches(rc, caller) {
			return true
		}
	}
	return false
}

// RequireRights wraps AnyMatches with the engine's standard rejection
// sentinel, the same check RunActivity's step 2 makes inline (spec.md §4.9).
func RequireRights(rc RightsContext, rights []Right, caller Address) error {
	if !AnyMatches(rc, rights, caller) {
		return ErrRightsDenied
	}
	return nil
}
