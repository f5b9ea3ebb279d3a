package core

import "math/big"

// WageAssetStat tracks one asset's withdrawal bookkeeping for a Wage
// reward: the cumulative amount already withdrawn, checked against the
// formula's gross accrual to compute the remaining claimable balance.
type WageAssetStat struct {
	Withdrawn *big.Int
}

// ActivityAssetStat tracks one asset's pending count for an Activity
// reward. ExecutedCount is reset to zero on every withdraw (spec.md §4.6:
// "already reset on prior withdraw"); TotalWithdrawnCount is a running
// audit total, never consulted by the claimable formula.
type ActivityAssetStat struct {
	ExecutedCount       uint64
	TotalWithdrawnCount uint64
}

// WalletRewardRef is one (wallet, reward) binding: when the member joined
// (or left) the role that grants it, plus per-asset withdrawal stats
// (spec.md §3 "Wallet").
type WalletRewardRef struct {
	RewardID      uint64
	TimeAdded     int64
	TimeRemoved   *int64
	WageStats     map[string]*WageAssetStat     // asset key -> stat, Wage rewards only
	ActivityStats map[string]*ActivityAssetStat // asset key -> stat, Activity rewards only
}

func newWalletRewardRef(rewardID uint64, now int64) *WalletRewardRef {
	return &WalletRewardRef{
		RewardID:      rewardID,
		TimeAdded:     now,
		WageStats:     make(map[string]*WageAssetStat),
		ActivityStats: make(map[string]*ActivityAssetStat),
	}
}

// FailedWithdraw records a withdrawal whose outbound transfer callback
// reported failure; the amount stays immediately reclaimable but the
// partition is never re-credited (spec.md §9 Open Questions).
type FailedWithdraw struct {
	Asset  AssetID
	Amount *big.Int
}

// Wallet is one account's reward-accrual and withdrawal ledger (spec.md §3
// "Wallet").
type Wallet struct {
	Owner           Address
	Refs            map[uint64]*WalletRewardRef
	FailedWithdraws []FailedWithdraw
}

func NewWallet(owner Address) *Wallet {
	return &Wallet{Owner: owner, Refs: make(map[uint64]*WalletRewardRef)}
}

// Join registers a new active reward reference for the wallet, called when
// the member joins a group with a bound role (spec.md §4.6).
func (w *Wallet) Join(rewardID uint64, now int64) *WalletRewardRef {
	if ref, ok := w.Refs[rewardID]; ok {
		return ref
	}
	ref := newWalletRewardRef(rewardID, now)
	w.Refs[rewardID] = ref
	return ref
}

// Leave marks the reference's TimeRemoved, freezing further Wage accrual
// past now while still allowing any already-accrued balance to be claimed.
func (w *Wallet) Leave(rewardID uint64, now int64) {
	if ref, ok := w.Refs[rewardID]; ok {
		t := now
		ref.TimeRemoved = &t
	}
}

// RecordActivity increments the pending count for every asset of reward r
// when activityCode matches one of r's counted codes — called through
// DAO.RegisterExecutedActivity from the vote and accepted-proposal hooks;
// no delegation hook records an activity.
func (w *Wallet) RecordActivity(r *Reward, activityCode string) {
	if !r.countsActivity(activityCode) {
		return
	}
	ref, ok := w.Refs[r.ID]
	if !ok {
		return
	}
	for _, a := range r.Assets {
		key := a.Asset.String()
		stat, ok := ref.ActivityStats[key]
		if !ok {
			stat = &ActivityAssetStat{}
			ref.ActivityStats[key] = stat
		}
		stat.ExecutedCount++
	}
}

// claimableWage implements spec.md §4.6's wage formula exactly:
// max(0, ⌊(min(now,valid_to) − max(time_added,valid_from)) / unit_seconds⌋ · per_unit_amount − withdrawn).
func claimableWage(ref *WalletRewardRef, r *Reward, rate *big.Int, now int64) *big.Int {
	end := now
	if r.ValidTo != 0 && r.ValidTo < end {
		end = r.ValidTo
	}
	start := ref.TimeAdded
	if r.ValidFrom > start {
		start = r.ValidFrom
	}
	if ref.TimeRemoved != nil && *ref.TimeRemoved < end {
		end = *ref.TimeRemoved
	}
	if end <= start || r.UnitSeconds <= 0 {
		return big.NewInt(0)
	}
	units := (end - start) / r.UnitSeconds
	return new(big.Int).Mul(big.NewInt(units), rate)
}

// Claimable returns the currently claimable amount of asset under reward r
// for this wallet, per spec.md §4.6.
func (w *Wallet) Claimable(r *Reward, asset AssetID, now int64) *big.Int {
	ref, ok := w.Refs[r.ID]
	if !ok {
		return big.NewInt(0)
	}
	rate := r.rateFor(asset)
	if rate == nil {
		return big.NewInt(0)
	}
	key := asset.String()
	switch r.Type {
	case RewardWage:
		gross := claimableWage(ref, r, rate, now)
		stat, ok := ref.WageStats[key]
		if !ok {
			stat = &WageAssetStat{Withdrawn: big.NewInt(0)}
		}
		claim := new(big.Int).Sub(gross, stat.Withdrawn)
		if claim.Sign() < 0 {
			return big.NewInt(0)
		}
		return claim
	case RewardActivity:
		stat, ok := ref.ActivityStats[key]
		if !ok {
			return big.NewInt(0)
		}
		return new(big.Int).Mul(new(big.Int).SetUint64(stat.ExecutedCount), rate)
	default:
		return big.NewInt(0)
	}
}

// withdrawAdvance is the bookkeeping state needed to reverse an optimistic
// stat advance if the outbound transfer later fails. preExecutedCount is the
// ActivityAssetStat.ExecutedCount value immediately before advanceStats
// zeroed it, so a failed RewardActivity withdraw can be restored exactly
// rather than discarded.
type withdrawAdvance struct {
	reward           *Reward
	asset            AssetID
	amount           *big.Int
	preExecutedCount uint64
}

// Withdraw runs the first four steps of spec.md §4.6's withdrawal protocol:
// compute claimable, debit the partition (clamped on shortfall), and
// advance the wallet's stats optimistically with whatever was actually
// debited. It returns the amount to dispatch via the external-call
// orchestrator (C11) and an opaque advance token to pass to FailWithdraw if
// the dispatch fails; a successful dispatch needs no further call.
func (w *Wallet) Withdraw(r *Reward, asset AssetID, partition *Partition, now int64) (*big.Int, *withdrawAdvance, error) {
	claim := w.Claimable(r, asset, now)
	if claim.Sign() == 0 {
		return nil, nil, ErrNotEnoughDeposit
	}
	debited, err := partition.RemoveAmount(asset, claim, now)
	if err != nil {
		return nil, nil, err
	}
	if debited.Sign() <= 0 {
		return nil, nil, ErrTreasuryPartitionInsufficientFunds
	}

	preExecutedCount := w.advanceStats(r, asset, debited)
	return debited, &withdrawAdvance{reward: r, asset: asset, amount: debited, preExecutedCount: preExecutedCount}, nil
}

// advanceStats applies the optimistic stat advance and returns the
// RewardActivity ExecutedCount as it stood immediately before the advance
// (0 for Wage rewards, or when there is no existing stat), so a later
// FailWithdraw can restore it precisely instead of assuming 1.
func (w *Wallet) advanceStats(r *Reward, asset AssetID, amount *big.Int) uint64 {
	ref := w.Refs[r.ID]
	if ref == nil {
		return 0
	}
	key := asset.String()
	switch r.Type {
	case RewardWage:
		stat, ok := ref.WageStats[key]
		if !ok {
			stat = &WageAssetStat{Withdrawn: big.NewInt(0)}
			ref.WageStats[key] = stat
		}
		stat.Withdrawn.Add(stat.Withdrawn, amount)
	case RewardActivity:
		stat, ok := ref.ActivityStats[key]
		if ok {
			pre := stat.ExecutedCount
			stat.TotalWithdrawnCount += stat.ExecutedCount
			stat.ExecutedCount = 0
			return pre
		}
	}
	return 0
}

// FailWithdraw completes step 5 of the withdrawal protocol on a reported
// transfer failure: the clamped amount becomes immediately reclaimable via
// FailedWithdraws, and the optimistic stat advance is reversed to the
// extent possible. The partition is deliberately NOT re-credited (spec.md
// §9 Open Questions: assets may already have left the chain).
func (w *Wallet) FailWithdraw(adv *withdrawAdvance) {
	w.FailedWithdraws = append(w.FailedWithdraws, FailedWithdraw{Asset: adv.asset, Amount: new(big.Int).Set(adv.amount)})
	ref := w.Refs[adv.reward.ID]
	if ref == nil {
		return
	}
	key := adv.asset.String()
	switch adv.reward.Type {
	case RewardWage:
		if stat, ok := ref.WageStats[key]; ok {
			stat.Withdrawn.Sub(stat.Withdrawn, adv.amount)
			if stat.Withdrawn.Sign() < 0 {
				stat.Withdrawn.SetInt64(0)
			}
		}
	case RewardActivity:
		if stat, ok := ref.ActivityStats[key]; ok {
			stat.ExecutedCount += adv.preExecutedCount
			if stat.TotalWithdrawnCount >= adv.preExecutedCount {
				stat.TotalWithdrawnCount -= adv.preExecutedCount
			} else {
				stat.TotalWithdrawnCount = 0
			}
		}
	}
}

// ReclaimFailedWithdraw removes one entry from FailedWithdraws for the
// caller to re-dispatch via C11; bookkeeping for a successful retry is the
// caller's responsibility (it does not re-enter the Withdraw protocol).
func (w *Wallet) ReclaimFailedWithdraw(i int) (FailedWithdraw, error) {
	if i < 0 || i >= len(w.FailedWithdraws) {
		return FailedWithdraw{}, ErrNotFound
	}
	fw := w.FailedWithdraws[i]
	w.FailedWithdraws = append(w.FailedWithdraws[:i], w.FailedWithdraws[i+1:]...)
	return fw, nil
}
