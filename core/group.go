package core

// GroupMember is one membership record within a Group: a DAO account plus
// a recorded stake weight. TokenWeighted voting reads Delegation balances,
// not this field.
type GroupMember struct {
	Account Address
	Stake   uint64 // e.g. staked token units backing this membership
}

// DefaultMemberRole is the role every new member of a group is assigned on
// join, per spec.md §4.7: "Adding an account to a group assigns it the
// group's default role; optional additional roles are recorded in the
// per-user role map."
const DefaultMemberRole = "member"

// Group partitions DAO members for rights evaluation and reward
// distribution (spec.md §3 "Group"): members, named roles mapping to member
// subsets, and the treasury partition rewards for this group draw from.
type Group struct {
	Name          string
	PartitionName string
	Members       []GroupMember
	Roles         map[string][]Address // role name -> members holding it
	Leader        Address
	DefaultRole   string
}

func NewGroup(name, partitionName string) *Group {
	return &Group{Name: name, PartitionName: partitionName, Roles: make(map[string][]Address), DefaultRole: DefaultMemberRole}
}

func (g *Group) indexOfMember(a Address) int {
	for i, m := range g.Members {
		if m.Account == a {
			return i
		}
	}
	return -1
}

func (g *Group) HasMember(a Address) bool { return g.indexOfMember(a) >= 0 }

// AddMembers appends members to the group and assigns each one the group's
// default role (spec.md §4.7), so every joiner is immediately a holder of
// DefaultRole without a separate UserRoleAdd call.
func (g *Group) AddMembers(members []GroupMember) error {
	for _, m := range members {
		if g.HasMember(m.Account) {
			return ErrMemberExists
		}
	}
	g.Members = append(g.Members, members...)
	role := g.DefaultRole
	if role == "" {
		role = DefaultMemberRole
	}
	for _, m := range members {
		g.Roles[role] = append(g.Roles[role], m.Account)
	}
	return nil
}

func (g *Group) RemoveMembers(accounts []Address) error {
	for _, a := range accounts {
		i := g.indexOfMember(a)
		if i < 0 {
			return ErrMemberMissing
		}
		g.Members = append(g.Members[:i], g.Members[i+1:]...)
		for role, holders := range g.Roles {
			g.Roles[role] = removeAddress(holders, a)
		}
	}
	return nil
}

func (g *Group) AddRoles(role string, accounts []Address) error {
	for _, a := range accounts {
		if !g.HasMember(a) {
			return ErrMemberMissing
		}
	}
	g.Roles[role] = append(g.Roles[role], accounts...)
	return nil
}

func (g *Group) RemoveRoles(role string) error {
	if _, ok := g.Roles[role]; !ok {
		return ErrRoleNotFound
	}
	delete(g.Roles, role)
	return nil
}

func (g *Group) RemoveMemberRoles(a Address) {
	for role, holders := range g.Roles {
		g.Roles[role] = removeAddress(holders, a)
	}
}

func (g *Group) HasRole(a Address, role string) bool {
	for _, h := range g.Roles[role] {
		if h == a {
			return true
		}
	}
	return false
}

func removeAddress(s []Address, a Address) []Address {
	out := s[:0]
	for _, x := range s {
		if x != a {
			out = append(out, x)
		}
	}
	return out
}

// TotalStake sums every member's stake weight. Proposal finalization does
// not use it; the TokenWeighted denominator is the Delegation total.
func (g *Group) TotalStake() uint64 {
	var total uint64
	for _, m := range g.Members {
		total += m.Stake
	}
	return total
}

func (g *Group) StakeOf(a Address) uint64 {
	if i := g.indexOfMember(a); i >= 0 {
		return g.Members[i].Stake
	}
	return 0
}
