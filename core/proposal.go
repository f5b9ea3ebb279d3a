package core

import "math/big"

// VotingScenario selects the vote-weight model bound into template
// settings (spec.md glossary "Scenario").
type VotingScenario int

const (
	ScenarioDemocratic VotingScenario = iota
	ScenarioTokenWeighted
)

// ProposalState is the terminal classification finalize produces (spec.md
// §3 "Proposal").
type ProposalState int

const (
	ProposalInProgress ProposalState = iota
	ProposalInvalid
	ProposalSpam
	ProposalRejected
	ProposalAccepted
)

// Proposal is one governance proposal: a bound template/settings pair plus
// its vote tally and lifecycle state (spec.md §3 "Proposal").
type Proposal struct {
	ID                 uint64
	DescriptionRef      string
	CreatedAt           int64
	EndAt               int64
	Creator             Address
	Votes               map[Address]uint8 // account -> chosen vote option
	State               ProposalState
	TemplateCode        string
	TemplateSettingsIdx int
	Tally               map[uint8]uint64 // option -> summed weight
}

// CreateProposal implements spec.md §4.10 "Create": validates the deposit
// and proposer right, then allocates the proposal shell. The caller is
// responsible for creating the bound Waiting instance and storage bucket.
func CreateProposal(id uint64, settings *TemplateSettings, rights RightsContext, caller Address, deposit *big.Int, now int64, templateCode string, settingsIdx int, descriptionRef string) (*Proposal, error) {
	if settings.DepositPropose != nil {
		min, err := settings.DepositPropose.AsU128()
		if err != nil {
			return nil, err
		}
		if deposit.Cmp(min) < 0 {
			return nil, ErrNotEnoughDeposit
		}
	}
	if !AnyMatches(rights, settings.AllowedProposers, caller) {
		return nil, ErrRightsDenied
	}
	return &Proposal{
		ID:                  id,
		DescriptionRef:       descriptionRef,
		CreatedAt:            now,
		EndAt:                now + settings.DurationSeconds,
		Creator:              caller,
		Votes:                make(map[Address]uint8),
		State:                ProposalInProgress,
		TemplateCode:         templateCode,
		TemplateSettingsIdx:  settingsIdx,
		Tally:                make(map[uint8]uint64),
	}, nil
}

// VoteOptionValid reports whether option appears among the settings'
// recognized options (the zero-based option count is carried alongside
// settings by the caller since it isn't itself part of TemplateSettings).
func VoteOptionValid(option uint8, optionCount uint8) bool {
	return option < optionCount
}

// Vote implements spec.md §4.10 "Vote".
func Vote(p *Proposal, settings *TemplateSettings, rights RightsContext, caller Address, option uint8, optionCount uint8, deposit *big.Int, now int64) error {
	if p.State != ProposalInProgress {
		return ErrInvalidState
	}
	if now > p.EndAt {
		return ErrExpired
	}
	if settings.DepositVote != nil {
		min, err := settings.DepositVote.AsU128()
		if err != nil {
			return err
		}
		if deposit.Cmp(min) < 0 {
			return ErrNotEnoughDeposit
		}
	}
	if !settings.AllowedVoters.Matches(rights, caller) {
		return ErrRightsDenied
	}
	if _, already := p.Votes[caller]; already && settings.VoteOnlyOnce {
		return ErrDoubleVote
	}
	if !VoteOptionValid(option, optionCount) {
		return ErrVoteOptionInvalid
	}
	p.Votes[caller] = option
	return nil
}

// VoteWeight returns the weight a caller's vote carries under settings'
// scenario: 1 under Democratic, delegatedAmount(caller) under
// TokenWeighted.
func VoteWeight(settings *TemplateSettings, caller Address, delegatedAmount func(Address) uint64) uint64 {
	if settings.Scenario == ScenarioDemocratic {
		return 1
	}
	return delegatedAmount(caller)
}

// FinalizeResult carries the computed tally alongside the terminal state,
// for callers that need the numbers for logging/refund decisions.
type FinalizeResult struct {
	State         ProposalState
	TurnoutPercent  uint8
	ApprovePercent  uint8
	SpamPercent     uint8
}

// percentRoundHalfUp implements spec.md §4.10 and §9's exact formula:
// ((numerator * 10_000) / denominator as f64 / 100).round() as u8,
// reproduced with pure integer arithmetic: scale by 10_000, then round the
// resulting permil-times-ten value to the nearest percent, half rounding up.
func percentRoundHalfUp(numerator, denominator uint64) uint8 {
	if denominator == 0 {
		return 0
	}
	scaled := (numerator * 10000) / denominator // integer division, matches the source's f64 truncation-then-scale
	pct := (scaled + 50) / 100
	if pct > 100 {
		pct = 100
	}
	return uint8(pct)
}

// Finalize implements spec.md §4.10 "Finalize". groupSize/totalDelegated
// give total_possible depending on scenario; weightOf resolves each
// voter's recorded option to a weight. approveOption/spamOption identify
// which tally bucket counts as the approve/spam share.
func Finalize(p *Proposal, settings *TemplateSettings, now int64, groupSize uint64, totalDelegatedSupply uint64, weightOf func(Address) uint64, approveOption, spamOption uint8) (FinalizeResult, error) {
	if p.State != ProposalInProgress {
		return FinalizeResult{}, ErrInvalidState
	}
	if now <= p.EndAt {
		return FinalizeResult{}, ErrNotReady
	}

	totalPossible := groupSize
	if settings.Scenario == ScenarioTokenWeighted {
		totalPossible = totalDelegatedSupply
	}

	p.Tally = make(map[uint8]uint64)
	var totalVotes uint64
	for voter, option := range p.Votes {
		w := weightOf(voter)
		p.Tally[option] += w
		totalVotes += w
	}

	turnout := percentRoundHalfUp(totalVotes, totalPossible)
	approveShare := percentRoundHalfUp(p.Tally[approveOption], totalPossible)
	spamShare := percentRoundHalfUp(p.Tally[spamOption], totalPossible)

	switch {
	case turnout < settings.QuorumPercent:
		p.State = ProposalInvalid
	case spamShare > settings.SpamThreshold:
		p.State = ProposalSpam
	case approveShare >= settings.ApproveThreshold:
		p.State = ProposalAccepted
	default:
		p.State = ProposalRejected
	}

	return FinalizeResult{State: p.State, TurnoutPercent: turnout, ApprovePercent: approveShare, SpamPercent: spamShare}, nil
}

// ProposeRefund computes the deposit_propose_return amount owed to the
// creator on Accepted (spec.md §4.10: "partially refunded... percent"). On
// Spam the deposit is forfeit to the treasury; callers should not call this
// for that case.
func ProposeRefund(settings *TemplateSettings, deposit *big.Int) *big.Int {
	refund := new(big.Int).Mul(deposit, big.NewInt(int64(settings.ProposeRefundPercent)))
	return refund.Div(refund, big.NewInt(100))
}
