package core

import (
	"fmt"
	"math/big"
)

// AssetKind distinguishes the native asset from fungible/non-fungible
// tokens held by a treasury partition (spec.md §3 "Asset").
type AssetKind int

const (
	AssetNative AssetKind = iota
	AssetFT
	AssetNFT
)

// AssetID identifies an asset by structural equality: two AssetIDs
// referring to the same contract/token pair are interchangeable regardless
// of where they were constructed, so partitions can be looked up by value.
type AssetID struct {
	Kind     AssetKind
	Contract Address // zero for AssetNative
	TokenID  string  // NFT token id, empty for native/FT
}

func (a AssetID) Equal(b AssetID) bool {
	return a.Kind == b.Kind && a.Contract == b.Contract && a.TokenID == b.TokenID
}

func (a AssetID) String() string {
	switch a.Kind {
	case AssetNative:
		return "native"
	case AssetFT:
		return fmt.Sprintf("ft:%s", a.Contract.Short())
	default:
		return fmt.Sprintf("nft:%s:%s", a.Contract.Short(), a.TokenID)
	}
}

// PartitionAsset couples an AssetID with an optional unlocking schedule:
// a nil Unlocking means the full amount is immediately spendable. Available
// is a real ledger of what may currently be debited — credited by Unlock's
// delta (or directly by AddAmount for unscheduled credits) and debited
// directly by RemoveAmount — rather than a value re-derived from the
// schedule on every call (spec.md §4.4/§4.5).
type PartitionAsset struct {
	ID        AssetID
	Amount    *big.Int
	Available *big.Int
	Unlocking *UnlockingSchedule
}

// Partition is one named slice of DAO treasury, holding an independent set
// of assets each with their own optional unlocking curve (spec.md §3/§4.5
// "Treasury partition").
type Partition struct {
	Name   string
	Assets []PartitionAsset
}

func NewPartition(name string) *Partition {
	return &Partition{Name: name}
}

func (p *Partition) find(id AssetID) int {
	for i, a := range p.Assets {
		if a.ID.Equal(id) {
			return i
		}
	}
	return -1
}

// AddAmount credits id by amount, creating the asset entry (unlocked, no
// schedule) if it doesn't already exist. Unscheduled credits (manual credit
// actions, receive-token callbacks) are immediately spendable, so Available
// is credited alongside Amount (spec.md §4.5 "add_amount... increases
// available").
func (p *Partition) AddAmount(id AssetID, amount *big.Int) {
	if i := p.find(id); i >= 0 {
		p.Assets[i].Amount.Add(p.Assets[i].Amount, amount)
		p.Assets[i].Available.Add(p.Assets[i].Available, amount)
		return
	}
	p.Assets = append(p.Assets, PartitionAsset{ID: id, Amount: new(big.Int).Set(amount), Available: new(big.Int).Set(amount)})
}

// AddAssetWithUnlocking registers a new asset entry governed by an
// unlocking schedule. Returns ErrTreasuryPartitionAssetAlreadyExists if the
// asset is already tracked in this partition. Available starts at the
// schedule's already-unlocked amount (its init distribution), not zero.
func (p *Partition) AddAssetWithUnlocking(id AssetID, schedule *UnlockingSchedule) error {
	if p.find(id) >= 0 {
		return ErrTreasuryPartitionAssetAlreadyExists
	}
	p.Assets = append(p.Assets, PartitionAsset{
		ID:        id,
		Amount:    new(big.Int).Set(schedule.TotalLocked),
		Available: new(big.Int).Set(schedule.TotalUnlocked),
		Unlocking: schedule,
	})
	return nil
}

// RemoveAmount triggers unlock then debits directly from the Available
// ledger, clamping rather than failing on an over-request: it returns the
// amount actually removed, which may be less than requested (spec.md
// §4.5). Only a missing asset entry is an error.
func (p *Partition) RemoveAmount(id AssetID, requested *big.Int, now int64) (*big.Int, error) {
	i := p.find(id)
	if i < 0 {
		return nil, ErrTreasuryPartitionAssetNotFound
	}
	if p.Assets[i].Unlocking != nil {
		delta := p.Assets[i].Unlocking.Unlock(now)
		p.Assets[i].Available.Add(p.Assets[i].Available, delta)
	}
	removed := new(big.Int).Set(requested)
	if p.Assets[i].Available.Cmp(removed) < 0 {
		removed = new(big.Int).Set(p.Assets[i].Available)
	}
	p.Assets[i].Available.Sub(p.Assets[i].Available, removed)
	p.Assets[i].Amount.Sub(p.Assets[i].Amount, removed)
	return removed, nil
}

// Unlock advances every unlocking-governed asset in the partition to now,
// crediting Available with each asset's newly-unlocked delta and returning
// the total newly-unlocked amount per asset for event emission.
func (p *Partition) Unlock(now int64) map[string]*big.Int {
	out := make(map[string]*big.Int)
	for i := range p.Assets {
		if p.Assets[i].Unlocking == nil {
			continue
		}
		delta := p.Assets[i].Unlocking.Unlock(now)
		p.Assets[i].Available.Add(p.Assets[i].Available, delta)
		if delta.Sign() != 0 {
			out[p.Assets[i].ID.String()] = delta
		}
	}
	return out
}

// Balance returns the raw remaining balance (locked + unlocked) of id, or
// nil if the asset isn't tracked.
func (p *Partition) Balance(id AssetID) *big.Int {
	if i := p.find(id); i >= 0 {
		return new(big.Int).Set(p.Assets[i].Amount)
	}
	return nil
}
