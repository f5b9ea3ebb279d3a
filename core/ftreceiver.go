package core

import (
	"fmt"
	"math/big"
)

// FtTransferMsgKind discriminates the ft_on_transfer msg payload (spec.md
// §6): either crediting a workflow instance's storage bucket, or crediting
// a treasury partition directly.
type FtTransferMsgKind int

const (
	FtTransferWorkflow FtTransferMsgKind = iota
	FtTransferTreasury
)

// FtTransferMsg is the decoded form of ft_on_transfer's msg argument.
type FtTransferMsg struct {
	Kind          FtTransferMsgKind
	ProposalID    uint64 // Workflow
	StorageKey    string // Workflow
	PartitionName string // Treasury
}

// FtOnTransfer implements spec.md §6's token-receiver endpoint: on
// Workflow, it stashes (sender, token, amount) into the target instance's
// storage bucket per the template's receiver-storage-key bindings; on
// Treasury, it credits the named partition's asset balance directly.
func (d *DAO) FtOnTransfer(sender Address, token AssetID, amount *big.Int, msg FtTransferMsg) error {
	switch msg.Kind {
	case FtTransferWorkflow:
		inst, ok := d.Instances[msg.ProposalID]
		if !ok {
			return ErrNotFound
		}
		tpl, ok := d.Templates[inst.TemplateCode]
		if !ok {
			return fmt.Errorf("%w: template %q", ErrInvalidWfStructure, inst.TemplateCode)
		}
		found := false
		for _, rk := range tpl.ReceiverKeys {
			if rk.MemoKey != msg.StorageKey {
				continue
			}
			found = true
			bucket := d.bucketFor(msg.ProposalID)
			bucket.Set(rk.SenderKey, StringValue(sender.String()))
			bucket.Set(rk.TokenKey, StringValue(token.String()))
			if existing, ok := bucket.Get(rk.AmountKey); ok {
				prev, err := existing.AsU128()
				if err == nil {
					amount = new(big.Int).Add(prev, amount)
				}
			}
			bucket.Set(rk.AmountKey, U128Value(amount))
		}
		if !found {
			return fmt.Errorf("%w: no receiver-storage key %q on template %q", ErrInvalidWfStructure, msg.StorageKey, inst.TemplateCode)
		}
		return nil
	case FtTransferTreasury:
		p, ok := d.Partitions[msg.PartitionName]
		if !ok {
			return ErrTreasuryPartitionAssetNotFound
		}
		p.AddAmount(token, amount)
		return nil
	default:
		return fmt.Errorf("%w: unknown ft_on_transfer msg kind %d", ErrInvalidWfStructure, msg.Kind)
	}
}

func (d *DAO) bucketFor(proposalID uint64) *StorageBucket {
	b, ok := d.InstanceBuckets[proposalID]
	if !ok {
		b = NewStorageBucket()
		d.InstanceBuckets[proposalID] = b
	}
	return b
}
