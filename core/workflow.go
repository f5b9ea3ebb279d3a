package core

import (
	"math/big"

	"github.com/google/uuid"
)

// ProposalCreate wires spec.md §4.10 "Create" to DAO state: it resolves the
// bound template/settings, allocates the proposal id, and stands up the
// Waiting instance and propose-settings binding in one call (spec.md §6
// "proposal_create").
func (d *DAO) ProposalCreate(templateCode string, settingsIdx int, propose *ProposeSettings, caller Address, deposit *big.Int, now int64, descriptionRef string) (*Proposal, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	tpl, ok := d.Templates[templateCode]
	if !ok {
		return nil, ErrNotFound
	}
	if settingsIdx < 0 || settingsIdx >= len(d.TemplateSettings) {
		return nil, ErrNotFound
	}
	settings := d.TemplateSettings[settingsIdx]

	if descriptionRef == "" {
		descriptionRef = uuid.New().String()
	}

	d.nextProposalID++
	id := d.nextProposalID
	p, err := CreateProposal(id, settings, d.rightsContext(), caller, deposit, now, templateCode, settingsIdx, descriptionRef)
	if err != nil {
		d.nextProposalID--
		return nil, err
	}
	d.Proposals[id] = p
	d.Instances[id] = NewInstance(tpl.Code)
	d.ProposeSettingsByProposal[id] = propose
	if tpl.NeedsStorage {
		d.InstanceBuckets[id] = NewStorageBucket()
	}
	sugar().Infow("proposal created", "proposal_id", id, "template", templateCode, "creator", caller.String())
	return p, nil
}

// ProposalVote wires spec.md §4.10 "Vote" to DAO state (spec.md §6
// "proposal_vote").
func (d *DAO) ProposalVote(proposalID uint64, caller Address, option uint8, optionCount uint8, deposit *big.Int, now int64) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	p, ok := d.Proposals[proposalID]
	if !ok {
		return ErrNotFound
	}
	settings := d.TemplateSettings[p.TemplateSettingsIdx]
	if err := Vote(p, settings, d.rightsContext(), caller, option, optionCount, deposit, now); err != nil {
		return err
	}
	d.RegisterExecutedActivity(caller, "vote")
	return nil
}

// ProposalFinish wires spec.md §4.10 "Finalize" to DAO state, crediting the
// creator's accepted-proposal reward and processing the refund/forfeit
// policy (spec.md §6 "proposal_finish"). depositPartition names the
// treasury partition a forfeited spam deposit is credited back into.
func (d *DAO) ProposalFinish(proposalID uint64, now int64, deposit *big.Int, approveOption, spamOption uint8, depositPartition string) (FinalizeResult, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	p, ok := d.Proposals[proposalID]
	if !ok {
		return FinalizeResult{}, ErrNotFound
	}
	settings := d.TemplateSettings[p.TemplateSettingsIdx]

	var groupSize uint64
	for _, g := range d.Groups {
		groupSize += uint64(len(g.Members))
	}
	weightOf := func(a Address) uint64 { return VoteWeight(settings, a, d.Delegation.BalanceOf) }

	res, err := Finalize(p, settings, now, groupSize, d.Delegation.Total(), weightOf, approveOption, spamOption)
	if err != nil {
		return FinalizeResult{}, err
	}

	depositAsset := AssetID{Kind: AssetNative}
	switch res.State {
	case ProposalAccepted:
		d.RegisterExecutedActivity(p.Creator, "accepted_proposal")
		if refund := ProposeRefund(settings, deposit); refund.Sign() > 0 {
			if _, err := d.Broker.caller.Call(p.Creator, "refund_propose_deposit", 0, U128Value(refund), nil); err != nil {
				sugar().Warnw("propose deposit refund dispatch failed", "proposal_id", proposalID, "err", err)
			}
		}
		sugar().Infow("proposal accepted", "proposal_id", proposalID, "approve_pct", res.ApprovePercent)
	case ProposalSpam:
		if part, ok := d.Partitions[depositPartition]; ok && deposit.Sign() > 0 {
			part.AddAmount(depositAsset, deposit)
		}
		sugar().Warnw("proposal marked spam, deposit forfeit", "proposal_id", proposalID, "spam_pct", res.SpamPercent)
	}
	return res, nil
}

// WorkflowRunActivity wires spec.md §4.9's RunActivity to DAO state (spec.md
// §6 "workflow_run_activity").
func (d *DAO) WorkflowRunActivity(req RunActivityRequest) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	p, ok := d.Proposals[req.ProposalID]
	if !ok {
		return ErrNotFound
	}
	inst, ok := d.Instances[req.ProposalID]
	if !ok {
		return ErrNotFound
	}
	tpl, ok := d.Templates[p.TemplateCode]
	if !ok {
		return ErrNotFound
	}
	settings := d.TemplateSettings[p.TemplateSettingsIdx]
	propose := d.ProposeSettingsByProposal[req.ProposalID]
	bucket := d.bucketFor(req.ProposalID)

	rc := &ResolveContext{
		Template:        tpl,
		Settings:        settings,
		ProposeSettings: propose,
		Bucket:          bucket,
		Global:          d.GlobalBucket,
		DAOAccount:      d.Account,
		Now:             req.Now,
		Caller:          req.Invoker,
	}
	dispatcher := &DAODispatcher{DAO: d, RC: rc, Now: req.Now}

	accepted := p.State == ProposalAccepted
	err := RunActivity(inst, tpl, settings, rc, d.rightsContext(), dispatcher, req, accepted)
	if err != nil {
		sugar().Debugw("workflow_run_activity failed", "proposal_id", req.ProposalID, "activity", req.TargetActivity, "error", err)
	}
	return err
}

// WorkflowFinish wires spec.md §6's workflow_finish entry point.
func (d *DAO) WorkflowFinish(proposalID uint64) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	p, ok := d.Proposals[proposalID]
	if !ok {
		return ErrNotFound
	}
	inst, ok := d.Instances[proposalID]
	if !ok {
		return ErrNotFound
	}
	tpl, ok := d.Templates[p.TemplateCode]
	if !ok {
		return ErrNotFound
	}
	return FinishInstance(inst, tpl)
}

// DeliverCallback wires spec.md §6's host-private postprocess callback to
// the PromiseBroker (spec.md §4.11).
func (d *DAO) DeliverCallback(proposalID uint64, res CallbackResult, now int64) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	inst, ok := d.Instances[proposalID]
	if !ok {
		return ErrNotFound
	}
	p := d.Proposals[proposalID]
	tpl := d.Templates[p.TemplateCode]
	bucket := d.bucketFor(proposalID)
	rc := &ResolveContext{Template: tpl, Now: now, DAOAccount: d.Account, Bucket: bucket, Global: d.GlobalBucket}
	return d.Broker.Deliver(rc, tpl, inst, res, bucket)
}
