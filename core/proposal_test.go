package core

import (
	"math/big"
	"testing"
)

func democraticSettings(quorum, approve, spam uint8) *TemplateSettings {
	return &TemplateSettings{
		AllowedProposers: []Right{Anyone()},
		AllowedVoters:    Anyone(),
		Scenario:         ScenarioDemocratic,
		DurationSeconds:  100,
		QuorumPercent:    quorum,
		ApproveThreshold: approve,
		SpamThreshold:    spam,
		VoteOnlyOnce:     true,
	}
}

func testRights() RightsContext {
	return RightsContext{Groups: map[string]*Group{}, DelegatedStake: func(Address) uint64 { return 0 }}
}

func TestCreateProposalRequiresProposerRight(t *testing.T) {
	settings := democraticSettings(50, 50, 50)
	settings.AllowedProposers = []Right{AccountRight(ModuleAddress("authorized"))}
	_, err := CreateProposal(1, settings, testRights(), ModuleAddress("stranger"), big.NewInt(0), 0, "tpl", 0, "")
	if err != ErrRightsDenied {
		t.Fatalf("expected ErrRightsDenied, got %v", err)
	}
}

func TestVoteDoubleVoteRejected(t *testing.T) {
	settings := democraticSettings(1, 50, 90)
	p, err := CreateProposal(1, settings, testRights(), ModuleAddress("creator"), big.NewInt(0), 0, "tpl", 0, "")
	if err != nil {
		t.Fatalf("CreateProposal: %v", err)
	}
	voter := ModuleAddress("voter")
	if err := Vote(p, settings, testRights(), voter, 0, 2, big.NewInt(0), 10); err != nil {
		t.Fatalf("first vote: %v", err)
	}
	if err := Vote(p, settings, testRights(), voter, 1, 2, big.NewInt(0), 11); err != ErrDoubleVote {
		t.Fatalf("expected ErrDoubleVote, got %v", err)
	}
}

func TestVotePastDeadlineRejected(t *testing.T) {
	settings := democraticSettings(1, 50, 90)
	p, err := CreateProposal(1, settings, testRights(), ModuleAddress("creator"), big.NewInt(0), 0, "tpl", 0, "")
	if err != nil {
		t.Fatalf("CreateProposal: %v", err)
	}
	if err := Vote(p, settings, testRights(), ModuleAddress("voter"), 0, 2, big.NewInt(0), p.EndAt+1); err != ErrExpired {
		t.Fatalf("expected ErrExpired, got %v", err)
	}
}

// TestDemocraticAcceptedScenario reproduces spec.md §8 scenario 1: quorum
// met, approve share clears threshold.
func TestDemocraticAcceptedScenario(t *testing.T) {
	settings := democraticSettings(51, 51, 80)
	p, err := CreateProposal(1, settings, testRights(), ModuleAddress("creator"), big.NewInt(0), 0, "tpl", 0, "")
	if err != nil {
		t.Fatalf("CreateProposal: %v", err)
	}
	members := []Address{ModuleAddress("m1"), ModuleAddress("m2"), ModuleAddress("m3"), ModuleAddress("m4")}
	votes := []uint8{0, 0, 0, 1} // 3 approve (option 0), 1 reject (option 1)
	for i, m := range members {
		if err := Vote(p, settings, testRights(), m, votes[i], 2, big.NewInt(0), 10); err != nil {
			t.Fatalf("vote %d: %v", i, err)
		}
	}
	weightOf := func(Address) uint64 { return 1 }
	res, err := Finalize(p, settings, settings.DurationSeconds+1, uint64(len(members)), 0, weightOf, 0, 1)
	if err != nil {
		t.Fatalf("Finalize: %v", err)
	}
	if res.State != ProposalAccepted {
		t.Fatalf("expected Accepted, got %v (turnout=%d approve=%d)", res.State, res.TurnoutPercent, res.ApprovePercent)
	}
}

// TestTokenWeightedSpamScenario reproduces spec.md §8 scenario 6: spam
// share (900/1000 = 90%) exceeds an 80% spam threshold.
func TestTokenWeightedSpamScenario(t *testing.T) {
	settings := democraticSettings(1, 51, 80)
	settings.Scenario = ScenarioTokenWeighted
	p, err := CreateProposal(1, settings, testRights(), ModuleAddress("creator"), big.NewInt(0), 0, "tpl", 0, "")
	if err != nil {
		t.Fatalf("CreateProposal: %v", err)
	}
	spammer := ModuleAddress("spammer")
	if err := Vote(p, settings, testRights(), spammer, 2, 3, big.NewInt(0), 10); err != nil {
		t.Fatalf("vote: %v", err)
	}
	weights := map[Address]uint64{spammer: 900}
	weightOf := func(a Address) uint64 { return weights[a] }
	res, err := Finalize(p, settings, settings.DurationSeconds+1, 0, 1000, weightOf, 0, 2)
	if err != nil {
		t.Fatalf("Finalize: %v", err)
	}
	if res.State != ProposalSpam {
		t.Fatalf("expected Spam, got %v (spam_pct=%d)", res.State, res.SpamPercent)
	}
	if refund := ProposeRefund(settings, big.NewInt(100)); refund.Sign() != 0 {
		t.Fatalf("expected zero ProposeRefundPercent default to yield zero refund, got %s", refund)
	}
}

func TestPercentRoundHalfUp(t *testing.T) {
	cases := []struct {
		num, den uint64
		want     uint8
	}{
		{1, 2, 50},
		{1, 3, 33},
		{2, 3, 67},
		{0, 0, 0},
		{10, 10, 100},
	}
	for _, c := range cases {
		if got := percentRoundHalfUp(c.num, c.den); got != c.want {
			t.Fatalf("percentRoundHalfUp(%d,%d) = %d, want %d", c.num, c.den, got, c.want)
		}
	}
}
