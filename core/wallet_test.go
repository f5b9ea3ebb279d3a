package core

import (
	"math/big"
	"testing"
)

func TestWalletClaimableWageExactFormula(t *testing.T) {
	r, err := NewReward(1, "core", "treasurer", "general", RewardWage, []AssetRate{
		{Asset: nativeAsset(), PerUnitAmount: big.NewInt(10)},
	})
	if err != nil {
		t.Fatalf("NewReward: %v", err)
	}
	r.UnitSeconds = 60
	r.ValidFrom = 0
	r.ValidTo = 0

	w := NewWallet(ModuleAddress("alice"))
	w.Join(r.ID, 0)

	// floor((300-0)/60) * 10 = 5*10 = 50
	if got := w.Claimable(r, nativeAsset(), 300); got.Cmp(big.NewInt(50)) != 0 {
		t.Fatalf("expected claimable 50, got %s", got)
	}
}

func TestWalletClaimableWageRespectsValidToAndLeave(t *testing.T) {
	r, err := NewReward(1, "core", "treasurer", "general", RewardWage, []AssetRate{
		{Asset: nativeAsset(), PerUnitAmount: big.NewInt(10)},
	})
	if err != nil {
		t.Fatalf("NewReward: %v", err)
	}
	r.UnitSeconds = 60
	r.ValidTo = 200

	w := NewWallet(ModuleAddress("alice"))
	w.Join(r.ID, 0)
	w.Leave(r.ID, 120)

	// time_removed (120) < valid_to (200) so end = 120: floor(120/60)*10 = 20
	if got := w.Claimable(r, nativeAsset(), 1000); got.Cmp(big.NewInt(20)) != 0 {
		t.Fatalf("expected claimable 20 after leave caps accrual, got %s", got)
	}
}

func TestWalletActivityAccrualAndWithdrawResetsCount(t *testing.T) {
	r, err := NewReward(1, "core", "voter", "general", RewardActivity, []AssetRate{
		{Asset: nativeAsset(), PerUnitAmount: big.NewInt(3)},
	})
	if err != nil {
		t.Fatalf("NewReward: %v", err)
	}
	r.ActivityCodes = []string{"vote"}

	w := NewWallet(ModuleAddress("alice"))
	w.Join(r.ID, 0)
	w.RecordActivity(r, "vote")
	w.RecordActivity(r, "vote")
	w.RecordActivity(r, "accepted_proposal") // not counted

	if got := w.Claimable(r, nativeAsset(), 0); got.Cmp(big.NewInt(6)) != 0 {
		t.Fatalf("expected claimable 6 (2 * 3), got %s", got)
	}

	part := NewPartition("general")
	part.AddAmount(nativeAsset(), big.NewInt(1000))

	debited, adv, err := w.Withdraw(r, nativeAsset(), part, 0)
	if err != nil {
		t.Fatalf("Withdraw: %v", err)
	}
	if debited.Cmp(big.NewInt(6)) != 0 {
		t.Fatalf("expected debited 6, got %s", debited)
	}
	if got := w.Claimable(r, nativeAsset(), 0); got.Sign() != 0 {
		t.Fatalf("expected claimable reset to 0 after withdraw, got %s", got)
	}
	_ = adv
}

func TestWalletWithdrawClampsToPartitionBalance(t *testing.T) {
	r, err := NewReward(1, "core", "treasurer", "general", RewardWage, []AssetRate{
		{Asset: nativeAsset(), PerUnitAmount: big.NewInt(10)},
	})
	if err != nil {
		t.Fatalf("NewReward: %v", err)
	}
	r.UnitSeconds = 1

	w := NewWallet(ModuleAddress("alice"))
	w.Join(r.ID, 0)

	part := NewPartition("general")
	part.AddAmount(nativeAsset(), big.NewInt(5)) // far less than the 1000 that would accrue

	debited, _, err := w.Withdraw(r, nativeAsset(), part, 100)
	if err != nil {
		t.Fatalf("Withdraw: %v", err)
	}
	if debited.Cmp(big.NewInt(5)) != 0 {
		t.Fatalf("expected withdraw clamped to partition balance 5, got %s", debited)
	}
}

func TestWalletFailWithdrawRestoresActivityCountExactly(t *testing.T) {
	r, err := NewReward(1, "core", "voter", "general", RewardActivity, []AssetRate{
		{Asset: nativeAsset(), PerUnitAmount: big.NewInt(3)},
	})
	if err != nil {
		t.Fatalf("NewReward: %v", err)
	}
	r.ActivityCodes = []string{"vote"}

	w := NewWallet(ModuleAddress("alice"))
	w.Join(r.ID, 0)
	for i := 0; i < 5; i++ {
		w.RecordActivity(r, "vote")
	}

	part := NewPartition("general")
	part.AddAmount(nativeAsset(), big.NewInt(1000))

	debited, adv, err := w.Withdraw(r, nativeAsset(), part, 0)
	if err != nil {
		t.Fatalf("Withdraw: %v", err)
	}
	if debited.Cmp(big.NewInt(15)) != 0 {
		t.Fatalf("expected debited 15 (5*3), got %s", debited)
	}
	if got := w.Claimable(r, nativeAsset(), 0); got.Sign() != 0 {
		t.Fatalf("expected claimable reset to 0 immediately after withdraw, got %s", got)
	}

	w.FailWithdraw(adv)

	if got := w.Claimable(r, nativeAsset(), 0); got.Cmp(big.NewInt(15)) != 0 {
		t.Fatalf("expected all 5 activities (15 claimable) restored on failed withdraw, got %s", got)
	}

	ref := w.Refs[r.ID]
	stat := ref.ActivityStats[nativeAsset().String()]
	if stat.ExecutedCount != 5 {
		t.Fatalf("expected ExecutedCount restored to 5, got %d", stat.ExecutedCount)
	}
	if stat.TotalWithdrawnCount != 0 {
		t.Fatalf("expected TotalWithdrawnCount reversed to 0, got %d", stat.TotalWithdrawnCount)
	}
}

func TestWalletFailWithdrawReversesStatsWithoutRecrediting(t *testing.T) {
	r, err := NewReward(1, "core", "treasurer", "general", RewardWage, []AssetRate{
		{Asset: nativeAsset(), PerUnitAmount: big.NewInt(10)},
	})
	if err != nil {
		t.Fatalf("NewReward: %v", err)
	}
	r.UnitSeconds = 1

	w := NewWallet(ModuleAddress("alice"))
	w.Join(r.ID, 0)

	part := NewPartition("general")
	part.AddAmount(nativeAsset(), big.NewInt(1000))

	_, adv, err := w.Withdraw(r, nativeAsset(), part, 10)
	if err != nil {
		t.Fatalf("Withdraw: %v", err)
	}
	balAfterWithdraw := part.Balance(nativeAsset())

	w.FailWithdraw(adv)

	if len(w.FailedWithdraws) != 1 {
		t.Fatalf("expected one FailedWithdraws entry, got %d", len(w.FailedWithdraws))
	}
	if got := w.Claimable(r, nativeAsset(), 10); got.Sign() <= 0 {
		t.Fatalf("expected stat reversal to restore claimable balance, got %s", got)
	}
	if bal := part.Balance(nativeAsset()); bal.Cmp(balAfterWithdraw) != 0 {
		t.Fatalf("partition must not be re-credited on failed withdraw: before=%s after=%s", balAfterWithdraw, bal)
	}
}
