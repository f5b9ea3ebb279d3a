package core

import (
	"math/big"
	"testing"
)

func nativeAsset() AssetID { return AssetID{Kind: AssetNative} }

func TestPartitionRemoveAmountClampsOverRequest(t *testing.T) {
	p := NewPartition("general")
	p.AddAmount(nativeAsset(), big.NewInt(100))

	removed, err := p.RemoveAmount(nativeAsset(), big.NewInt(1000), 0)
	if err != nil {
		t.Fatalf("RemoveAmount returned an error on over-request, want clamp: %v", err)
	}
	if removed.Cmp(big.NewInt(100)) != 0 {
		t.Fatalf("expected removed amount clamped to 100, got %s", removed)
	}
	if bal := p.Balance(nativeAsset()); bal.Sign() != 0 {
		t.Fatalf("expected zero remaining balance after full drain, got %s", bal)
	}
}

func TestPartitionRemoveAmountMissingAssetErrors(t *testing.T) {
	p := NewPartition("general")
	if _, err := p.RemoveAmount(nativeAsset(), big.NewInt(1), 0); err != ErrTreasuryPartitionAssetNotFound {
		t.Fatalf("expected ErrTreasuryPartitionAssetNotFound, got %v", err)
	}
}

func TestPartitionRemoveAmountRespectsUnlockCursor(t *testing.T) {
	p := NewPartition("vesting")
	sched := mustSchedule(t, 1000, 0, 0, 100, []Period{
		{Kind: PeriodLinear, End: 100, Amount: big.NewInt(1000)},
	})
	if err := p.AddAssetWithUnlocking(nativeAsset(), sched); err != nil {
		t.Fatalf("AddAssetWithUnlocking: %v", err)
	}

	// At t=50, only half (500) should be spendable even though 1000 is requested.
	removed, err := p.RemoveAmount(nativeAsset(), big.NewInt(1000), 50)
	if err != nil {
		t.Fatalf("RemoveAmount: %v", err)
	}
	if removed.Cmp(big.NewInt(500)) != 0 {
		t.Fatalf("expected 500 removed at halfway unlock, got %s", removed)
	}

	// At t=100 the rest unlocks and remaining balance (500) is all spendable.
	removed2, err := p.RemoveAmount(nativeAsset(), big.NewInt(1000), 100)
	if err != nil {
		t.Fatalf("RemoveAmount: %v", err)
	}
	if removed2.Cmp(big.NewInt(500)) != 0 {
		t.Fatalf("expected remaining 500 removed at full unlock, got %s", removed2)
	}
}

func TestPartitionRemoveAmountTracksAvailableNotCumulativeUnlock(t *testing.T) {
	p := NewPartition("vesting")
	sched := mustSchedule(t, 1000, 0, 0, 100, []Period{
		{Kind: PeriodLinear, End: 100, Amount: big.NewInt(1000)},
	})
	if err := p.AddAssetWithUnlocking(nativeAsset(), sched); err != nil {
		t.Fatalf("AddAssetWithUnlocking: %v", err)
	}

	// At t=50, only 500 has ever unlocked. Three successive withdrawal
	// requests of 499 at the same timestamp must not be able to drain more
	// than that 500, even though totalUnlockedAt(50) doesn't change between
	// calls.
	total := big.NewInt(0)
	for i := 0; i < 3; i++ {
		removed, err := p.RemoveAmount(nativeAsset(), big.NewInt(499), 50)
		if err != nil {
			t.Fatalf("RemoveAmount[%d]: %v", i, err)
		}
		total.Add(total, removed)
	}
	if total.Cmp(big.NewInt(500)) != 0 {
		t.Fatalf("expected at most 500 spendable at t=50 across repeated withdrawals, drained %s", total)
	}
	if bal := p.Balance(nativeAsset()); bal.Cmp(big.NewInt(500)) != 0 {
		t.Fatalf("expected 500 remaining principal after draining spendable portion, got %s", bal)
	}
}

func TestPartitionAssetIdentityUniqueness(t *testing.T) {
	p := NewPartition("general")
	sched := mustSchedule(t, 100, 100, 0, 0, nil)
	if err := p.AddAssetWithUnlocking(nativeAsset(), sched); err != nil {
		t.Fatalf("first AddAssetWithUnlocking: %v", err)
	}
	if err := p.AddAssetWithUnlocking(nativeAsset(), sched); err != ErrTreasuryPartitionAssetAlreadyExists {
		t.Fatalf("expected ErrTreasuryPartitionAssetAlreadyExists on duplicate identity, got %v", err)
	}
}

func TestAssetIDEqualIgnoresConstructionSite(t *testing.T) {
	a := AssetID{Kind: AssetFT, Contract: ModuleAddress("token"), TokenID: ""}
	b := AssetID{Kind: AssetFT, Contract: ModuleAddress("token"), TokenID: ""}
	if !a.Equal(b) {
		t.Fatalf("expected structurally identical AssetIDs to be Equal")
	}
}
