package core

import (
	"sync"
)

// DAO aggregates every process-global mutable subsystem spec.md §5 assigns
// to a single-threaded state struct: groups, partitions, rewards, wallets,
// templates, proposals, instances, delegation, tags, and media (spec.md §9
// "Global mutable state... implementers in a systems language should model
// them as owned fields of a top-level state struct passed by exclusive
// reference to every mutating operation").
type DAO struct {
	mu sync.RWMutex

	Account Address

	Groups        map[string]*Group
	UserRoles     map[Address]map[string][]string // account -> group -> roles
	Partitions    map[string]*Partition
	Rewards       map[uint64]*Reward
	nextRewardID  uint64
	Wallets       map[Address]*Wallet
	Templates     map[string]*Template
	TemplateSettings []*TemplateSettings
	Proposals     map[uint64]*Proposal
	nextProposalID uint64
	Instances     map[uint64]*Instance
	ProposeSettingsByProposal map[uint64]*ProposeSettings
	Delegation    *Delegation
	Tags          *TagTable
	Media         *MediaRegistry
	GlobalBucket  *StorageBucket
	InstanceBuckets map[uint64]*StorageBucket
	Broker        *PromiseBroker
	EventLog      []string

	// TotalMembersCount is the DAO-wide running total of group memberships,
	// incremented on every GroupAdd/GroupAddMembers and decremented on every
	// GroupRemove/GroupRemoveMembers (spec.md §8 scenario 4).
	TotalMembersCount uint64
}

// New constructs an empty DAO rooted at account, the constructor's
// counterpart to spec.md §6 "new(init_args)" — callers populate groups,
// tags, templates, and partitions afterward via the same action handlers
// every proposal-driven mutation goes through.
func New(account Address, caller ExternalCaller) *DAO {
	return &DAO{
		Account:         account,
		Groups:          make(map[string]*Group),
		UserRoles:       make(map[Address]map[string][]string),
		Partitions:      make(map[string]*Partition),
		Rewards:         make(map[uint64]*Reward),
		Wallets:         make(map[Address]*Wallet),
		Templates:       make(map[string]*Template),
		Proposals:       make(map[uint64]*Proposal),
		Instances:       make(map[uint64]*Instance),
		ProposeSettingsByProposal: make(map[uint64]*ProposeSettings),
		Delegation:      NewDelegation(),
		Tags:            NewTagTable(),
		Media:           NewMediaRegistry(),
		GlobalBucket:    NewStorageBucket(),
		InstanceBuckets: make(map[uint64]*StorageBucket),
		Broker:          NewPromiseBroker(caller),
	}
}

func (d *DAO) rightsContext() RightsContext {
	return RightsContext{Groups: d.Groups, DelegatedStake: func(a Address) uint64 {
		return d.Delegation.BalanceOf(a)
	}}
}

func (d *DAO) walletFor(a Address) *Wallet {
	w, ok := d.Wallets[a]
	if !ok {
		w = NewWallet(a)
		d.Wallets[a] = w
	}
	return w
}

// creditGroupRole credits every current holder of (group, role) with every
// reward bound to that pairing. HandleRewardAdd and HandleGroupAddMembers
// call it; HandleGroupAdd and HandleUserRoleAdd do not, so members of a
// newly added group and holders of a role granted by UserRoleAdd are not
// credited with rewards already bound to that pairing.
func (d *DAO) creditGroupRole(group *Group, role string, now int64) {
	for id, r := range d.Rewards {
		if r.GroupName != group.Name || r.Role != role {
			continue
		}
		for _, acc := range group.Roles[role] {
			d.walletFor(acc).Join(id, now)
		}
	}
}

// RegisterExecutedActivity fires the C6 reward-crediting hook for
// activityCode. ProposalVote calls it with "vote" and ProposalFinish with
// "accepted_proposal"; delegation changes do not call it.
func (d *DAO) RegisterExecutedActivity(account Address, activityCode string) {
	w := d.walletFor(account)
	for _, r := range d.Rewards {
		w.RecordActivity(r, activityCode)
	}
}

// --- C12 Action Handlers -------------------------------------------------

// GroupAddInput is the typed input for DaoActionGroupAdd.
type GroupAddInput struct {
	Name          string
	PartitionName string
	Leader        Address
	Members       []GroupMember
}

func (d *DAO) HandleGroupAdd(in GroupAddInput) error {
	if _, exists := d.Groups[in.Name]; exists {
		return ErrAlreadyExists
	}
	g := NewGroup(in.Name, in.PartitionName)
	g.Leader = in.Leader
	if err := g.AddMembers(in.Members); err != nil {
		return err
	}
	d.Groups[in.Name] = g
	d.TotalMembersCount += uint64(len(in.Members))
	Broadcast("group:add", []byte(in.Name))
	return nil
}

func (d *DAO) HandleGroupRemove(name string) error {
	g, ok := d.Groups[name]
	if !ok {
		return ErrGroupNotFound
	}
	d.TotalMembersCount -= uint64(len(g.Members))
	delete(d.Groups, name)
	Broadcast("group:remove", []byte(name))
	return nil
}

func (d *DAO) HandleGroupAddMembers(name string, members []GroupMember, now int64) error {
	g, ok := d.Groups[name]
	if !ok {
		return ErrGroupNotFound
	}
	if err := g.AddMembers(members); err != nil {
		return err
	}
	d.TotalMembersCount += uint64(len(members))
	for role := range g.Roles {
		d.creditGroupRole(g, role, now)
	}
	return nil
}

func (d *DAO) HandleGroupRemoveMembers(name string, accounts []Address) error {
	g, ok := d.Groups[name]
	if !ok {
		return ErrGroupNotFound
	}
	for _, a := range accounts {
		if g.Leader == a {
			g.Leader = AddressZero
		}
	}
	if err := g.RemoveMembers(accounts); err != nil {
		return err
	}
	d.TotalMembersCount -= uint64(len(accounts))
	return nil
}

func (d *DAO) HandleGroupRemoveRoles(name, role string) error {
	g, ok := d.Groups[name]
	if !ok {
		return ErrGroupNotFound
	}
	return g.RemoveRoles(role)
}

func (d *DAO) HandleGroupRemoveMemberRoles(name string, account Address) error {
	g, ok := d.Groups[name]
	if !ok {
		return ErrGroupNotFound
	}
	g.RemoveMemberRoles(account)
	return nil
}

func (d *DAO) HandleTagAdd(category, key, value string) error { return d.Tags.Add(category, key, value) }
func (d *DAO) HandleTagEdit(category, key, value string) error { return d.Tags.Edit(category, key, value) }
func (d *DAO) HandleTagRemove(category, key string) error     { return d.Tags.Remove(category, key) }

func (d *DAO) HandleTreasuryAddPartition(name string) error {
	if _, exists := d.Partitions[name]; exists {
		return ErrAlreadyExists
	}
	d.Partitions[name] = NewPartition(name)
	return nil
}

// HandlePartitionAddAssetAmount credits amount of asset into partitionName,
// the DaoActionPartitionAddAssetAmount handler (spec.md §4.12).
func (d *DAO) HandlePartitionAddAssetAmount(partitionName string, asset AssetID, amount Value) error {
	p, ok := d.Partitions[partitionName]
	if !ok {
		return ErrNotFound
	}
	amt, err := amount.AsU128()
	if err != nil {
		return err
	}
	p.AddAmount(asset, amt)
	return nil
}

func (d *DAO) HandleRewardAdd(r *Reward, now int64) error {
	p, ok := d.Partitions[r.PartitionName]
	if !ok {
		return ErrTreasuryPartitionAssetNotFound
	}
	for _, a := range r.Assets {
		if p.Balance(a.Asset) == nil {
			return ErrInvalidAsset
		}
	}
	d.nextRewardID++
	r.ID = d.nextRewardID
	d.Rewards[r.ID] = r
	if g, ok := d.Groups[r.GroupName]; ok {
		d.creditGroupRole(g, r.Role, now)
	}
	return nil
}

func (d *DAO) HandleUserRoleAdd(group string, account Address, role string) error {
	g, ok := d.Groups[group]
	if !ok {
		return ErrGroupNotFound
	}
	if err := g.AddRoles(role, []Address{account}); err != nil {
		return err
	}
	if d.UserRoles[account] == nil {
		d.UserRoles[account] = make(map[string][]string)
	}
	d.UserRoles[account][group] = append(d.UserRoles[account][group], role)
	return nil
}

func (d *DAO) HandleUserRoleRemove(group string, account Address, role string) error {
	g, ok := d.Groups[group]
	if !ok {
		return ErrGroupNotFound
	}
	g.Roles[role] = removeAddress(g.Roles[role], account)
	if roles, ok := d.UserRoles[account][group]; ok {
		out := roles[:0]
		for _, r := range roles {
			if r != role {
				out = append(out, r)
			}
		}
		d.UserRoles[account][group] = out
	}
	return nil
}

func (d *DAO) HandleMediaAdd(content []byte, name, category string) (*Media, error) {
	c, err := NewMediaCID(content)
	if err != nil {
		return nil, err
	}
	return d.Media.Add(c, name, category), nil
}

func (d *DAO) HandleMediaUpdate(id uint64, name, category string) error {
	return d.Media.Update(id, name, category)
}

func (d *DAO) HandleMediaInvalidate(id uint64) error {
	return d.Media.Invalidate(id)
}

func (d *DAO) HandleEvent(name string) error {
	d.EventLog = append(d.EventLog, name)
	Broadcast("wf:event", []byte(name))
	return nil
}
