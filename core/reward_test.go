package core

import (
	"math/big"
	"testing"
)

func TestNewRewardRejectsDuplicateAssetIdentity(t *testing.T) {
	assets := []AssetRate{
		{Asset: nativeAsset(), PerUnitAmount: big.NewInt(1)},
		{Asset: nativeAsset(), PerUnitAmount: big.NewInt(2)},
	}
	if _, err := NewReward(1, "core", "treasurer", "general", RewardWage, assets); err != ErrAlreadyExists {
		t.Fatalf("expected ErrAlreadyExists for duplicate asset identity, got %v", err)
	}
}

func TestRewardCountsActivityOnlyForActivityType(t *testing.T) {
	r, err := NewReward(1, "core", "voter", "general", RewardActivity, []AssetRate{
		{Asset: nativeAsset(), PerUnitAmount: big.NewInt(5)},
	})
	if err != nil {
		t.Fatalf("NewReward: %v", err)
	}
	r.ActivityCodes = []string{"vote"}
	if !r.countsActivity("vote") {
		t.Fatalf("expected vote to be counted")
	}
	if r.countsActivity("accepted_proposal") {
		t.Fatalf("expected accepted_proposal not to be counted")
	}

	wage, err := NewReward(2, "core", "voter", "general", RewardWage, []AssetRate{
		{Asset: nativeAsset(), PerUnitAmount: big.NewInt(5)},
	})
	if err != nil {
		t.Fatalf("NewReward: %v", err)
	}
	wage.ActivityCodes = []string{"vote"}
	if wage.countsActivity("vote") {
		t.Fatalf("a Wage reward must never count activities")
	}
}
