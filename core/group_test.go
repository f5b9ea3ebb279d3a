package core

import "testing"

func TestGroupAddMembersRejectsDuplicate(t *testing.T) {
	g := NewGroup("core", "general")
	m := GroupMember{Account: ModuleAddress("alice")}
	if err := g.AddMembers([]GroupMember{m}); err != nil {
		t.Fatalf("first AddMembers: %v", err)
	}
	if err := g.AddMembers([]GroupMember{m}); err != ErrMemberExists {
		t.Fatalf("expected ErrMemberExists, got %v", err)
	}
}

func TestGroupRemoveMembersStripsRoles(t *testing.T) {
	g := NewGroup("core", "general")
	alice := ModuleAddress("alice")
	if err := g.AddMembers([]GroupMember{{Account: alice}}); err != nil {
		t.Fatalf("AddMembers: %v", err)
	}
	if err := g.AddRoles("treasurer", []Address{alice}); err != nil {
		t.Fatalf("AddRoles: %v", err)
	}
	if !g.HasRole(alice, "treasurer") {
		t.Fatalf("expected alice to hold treasurer role")
	}
	if err := g.RemoveMembers([]Address{alice}); err != nil {
		t.Fatalf("RemoveMembers: %v", err)
	}
	if g.HasMember(alice) {
		t.Fatalf("expected alice removed from membership")
	}
	if g.HasRole(alice, "treasurer") {
		t.Fatalf("expected alice's role stripped on removal")
	}
}

func TestGroupAddMembersAssignsDefaultRole(t *testing.T) {
	g := NewGroup("core", "general")
	alice := ModuleAddress("alice")
	if err := g.AddMembers([]GroupMember{{Account: alice}}); err != nil {
		t.Fatalf("AddMembers: %v", err)
	}
	if !g.HasRole(alice, DefaultMemberRole) {
		t.Fatalf("expected alice to hold the group's default role on join")
	}
}

func TestGroupAddRolesRequiresMembership(t *testing.T) {
	g := NewGroup("core", "general")
	stranger := ModuleAddress("stranger")
	if err := g.AddRoles("treasurer", []Address{stranger}); err != ErrMemberMissing {
		t.Fatalf("expected ErrMemberMissing, got %v", err)
	}
}

func TestGroupTotalStake(t *testing.T) {
	g := NewGroup("core", "general")
	if err := g.AddMembers([]GroupMember{
		{Account: ModuleAddress("alice"), Stake: 10},
		{Account: ModuleAddress("bob"), Stake: 25},
	}); err != nil {
		t.Fatalf("AddMembers: %v", err)
	}
	if got := g.TotalStake(); got != 35 {
		t.Fatalf("expected total stake 35, got %d", got)
	}
	if got := g.StakeOf(ModuleAddress("bob")); got != 25 {
		t.Fatalf("expected bob's stake 25, got %d", got)
	}
}

func TestRightsEvaluation(t *testing.T) {
	g := NewGroup("core", "general")
	alice := ModuleAddress("alice")
	g.Leader = alice
	if err := g.AddMembers([]GroupMember{{Account: alice}}); err != nil {
		t.Fatalf("AddMembers: %v", err)
	}
	rc := RightsContext{Groups: map[string]*Group{"core": g}}

	if !GroupLeaderRight("core").Matches(rc, alice) {
		t.Fatalf("expected leader right to match the group leader")
	}
	if GroupLeaderRight("core").Matches(rc, ModuleAddress("bob")) {
		t.Fatalf("expected leader right to reject a non-leader")
	}
	if !InGroup("core").Matches(rc, alice) {
		t.Fatalf("expected group right to match a member")
	}
	if InGroup("missing").Matches(rc, alice) {
		t.Fatalf("expected group right against an unknown group to reject")
	}
}
