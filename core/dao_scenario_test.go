package core

import (
	"math/big"
	"testing"
)

type noopCallerTest struct{ nextID uint64 }

func (c *noopCallerTest) Call(receiver Address, method string, gas uint64, deposit Value, args map[string]Value) (uint64, error) {
	c.nextID++
	return c.nextID, nil
}

func buildScenarioDAO() (*DAO, *TemplateSettings) {
	d := New(ModuleAddress("dao"), &noopCallerTest{})

	tpl := NewTemplate("spend-proposal", 1)
	tpl.Activities = append(tpl.Activities, Activity{
		Code:        "spend",
		Actions:     []Action{{Kind: ActionDaoAction, DaoAction: DaoActionEvent, Event: EventSpec{Name: "spend"}}},
		Terminality: TerminalityAutomatic,
	})
	tpl.Transitions[InitActivityCode] = []Transition{{To: "spend", Limit: 1}}
	tpl.Terminal["spend"] = true
	d.Templates[tpl.Code] = tpl

	settings := &TemplateSettings{
		AllowedProposers: []Right{Anyone()},
		AllowedVoters:    Anyone(),
		ActivityRights:   map[string][]Right{"spend": {Anyone()}},
		TransitionLimits: map[string]uint32{},
		Scenario:         ScenarioDemocratic,
		DurationSeconds:  100,
		QuorumPercent:    51,
		ApproveThreshold: 51,
		SpamThreshold:    80,
		VoteOnlyOnce:     true,
	}
	d.TemplateSettings = append(d.TemplateSettings, settings)
	return d, settings
}

// TestProposalLifecycleEndToEnd drives ProposalCreate -> ProposalVote ->
// ProposalFinish -> WorkflowRunActivity through the DAO aggregate, the full
// pipeline spec.md §6 names across proposal_create, proposal_vote,
// proposal_finish and workflow_run_activity.
func TestProposalLifecycleEndToEnd(t *testing.T) {
	d, _ := buildScenarioDAO()
	creator := ModuleAddress("creator")

	p, err := d.ProposalCreate("spend-proposal", 0, &ProposeSettings{}, creator, big.NewInt(0), 0, "")
	if err != nil {
		t.Fatalf("ProposalCreate: %v", err)
	}

	voters := []Address{ModuleAddress("v1"), ModuleAddress("v2"), ModuleAddress("v3")}
	// The Democratic turnout denominator is the DAO's group membership.
	if err := d.HandleGroupAdd(GroupAddInput{Name: "voters", PartitionName: "treasury", Members: []GroupMember{
		{Account: voters[0]}, {Account: voters[1]}, {Account: voters[2]},
	}}); err != nil {
		t.Fatalf("HandleGroupAdd: %v", err)
	}
	for _, v := range voters {
		if err := d.ProposalVote(p.ID, v, 0, 2, big.NewInt(0), 10); err != nil {
			t.Fatalf("ProposalVote(%s): %v", v, err)
		}
	}

	d.Partitions["treasury"] = NewPartition("treasury")
	res, err := d.ProposalFinish(p.ID, 101, big.NewInt(0), 0, 1, "treasury")
	if err != nil {
		t.Fatalf("ProposalFinish: %v", err)
	}
	if res.State != ProposalAccepted {
		t.Fatalf("expected proposal accepted, got %v", res.State)
	}

	req := RunActivityRequest{
		ProposalID:     p.ID,
		TargetActivity: "spend",
		ActionInputs:   []ActionInput{{Present: true, Fields: map[string]Value{"name": StringValue("spend")}}},
		Invoker:        creator,
		Now:            102,
	}
	if err := d.WorkflowRunActivity(req); err != nil {
		t.Fatalf("WorkflowRunActivity: %v", err)
	}

	inst := d.Instances[p.ID]
	if inst.State != InstanceFinished {
		t.Fatalf("expected instance to auto-finish after the terminal spend activity, got %v", inst.State)
	}
	if len(d.EventLog) != 1 || d.EventLog[0] != "spend" {
		t.Fatalf("expected the spend event to be logged, got %v", d.EventLog)
	}
}

// TestHandleGroupAddAssignsDefaultRolesAndCountsMembers covers spec.md §8
// scenario 4: a GroupAdd with a leader and three members produces a group
// whose members each hold the group's default role, whose leader is set,
// and whose addition increments the DAO-wide TotalMembersCount by 3.
func TestHandleGroupAddAssignsDefaultRolesAndCountsMembers(t *testing.T) {
	d := New(ModuleAddress("dao"), &noopCallerTest{})
	acc1, acc2, acc3 := ModuleAddress("acc1"), ModuleAddress("acc2"), ModuleAddress("acc3")

	err := d.HandleGroupAdd(GroupAddInput{
		Name:          "council",
		PartitionName: "treasury",
		Leader:        acc1,
		Members: []GroupMember{
			{Account: acc1}, {Account: acc2}, {Account: acc3},
		},
	})
	if err != nil {
		t.Fatalf("HandleGroupAdd: %v", err)
	}

	g := d.Groups["council"]
	if g == nil {
		t.Fatalf("expected group %q to exist", "council")
	}
	if g.Leader != acc1 {
		t.Fatalf("expected leader acc1, got %v", g.Leader)
	}
	for _, acc := range []Address{acc1, acc2, acc3} {
		if !g.HasMember(acc) {
			t.Fatalf("expected %v to be a member", acc)
		}
		if !g.HasRole(acc, DefaultMemberRole) {
			t.Fatalf("expected %v to hold the default role on join", acc)
		}
	}
	if d.TotalMembersCount != 3 {
		t.Fatalf("expected TotalMembersCount incremented by 3, got %d", d.TotalMembersCount)
	}
}

// TestProposalLifecycleSpamForfeitsDeposit covers the Spam branch of
// ProposalFinish: the deposit is credited into the named treasury partition
// instead of being refunded.
func TestProposalLifecycleSpamForfeitsDeposit(t *testing.T) {
	d, settings := buildScenarioDAO()
	settings.Scenario = ScenarioTokenWeighted
	settings.QuorumPercent = 1
	creator := ModuleAddress("creator")

	p, err := d.ProposalCreate("spend-proposal", 0, &ProposeSettings{}, creator, big.NewInt(500), 0, "")
	if err != nil {
		t.Fatalf("ProposalCreate: %v", err)
	}

	spammer := ModuleAddress("spammer")
	d.Delegation.DelegateOwned(spammer, 900)
	d.Delegation.DelegateOwned(ModuleAddress("other"), 100)
	if err := d.ProposalVote(p.ID, spammer, 2, 3, big.NewInt(0), 10); err != nil {
		t.Fatalf("ProposalVote: %v", err)
	}

	d.Partitions["treasury"] = NewPartition("treasury")
	res, err := d.ProposalFinish(p.ID, 101, big.NewInt(500), 0, 2, "treasury")
	if err != nil {
		t.Fatalf("ProposalFinish: %v", err)
	}
	if res.State != ProposalSpam {
		t.Fatalf("expected proposal marked spam, got %v (spam_pct=%d)", res.State, res.SpamPercent)
	}
	if bal := d.Partitions["treasury"].Balance(AssetID{Kind: AssetNative}); bal == nil || bal.Cmp(big.NewInt(500)) != 0 {
		t.Fatalf("expected the forfeited deposit credited into treasury, got %v", bal)
	}
}
