package core

// Delegation tracks per-account delegated voting weight and its aggregate
// total (spec.md §3 "Delegation"). It is mutated only by the staking
// contract's callbacks — register_delegation, delegate_owned, undelegate,
// transfer_amount (spec.md §6) — never by workflow or proposal logic
// directly.
type Delegation struct {
	balances map[Address]uint64
	total    uint64
}

func NewDelegation() *Delegation {
	return &Delegation{balances: make(map[Address]uint64)}
}

// Register ensures an account has a tracked (possibly zero) balance, the
// staking contract's register_delegation hook.
func (d *Delegation) Register(account Address) {
	if _, ok := d.balances[account]; !ok {
		d.balances[account] = 0
	}
}

// DelegateOwned credits amount to account's delegated balance and the
// aggregate total (staking contract's delegate_owned hook).
func (d *Delegation) DelegateOwned(account Address, amount uint64) {
	d.balances[account] += amount
	d.total += amount
}

// Undelegate debits amount from account's delegated balance and the
// aggregate total. Returns ErrTreasuryPartitionInsufficientFunds-shaped
// ErrInvalidAsset if the account's balance would go negative — the staking
// contract is expected never to request more than it previously delegated.
func (d *Delegation) Undelegate(account Address, amount uint64) error {
	bal, ok := d.balances[account]
	if !ok || bal < amount {
		return ErrInvalidAsset
	}
	d.balances[account] = bal - amount
	d.total -= amount
	return nil
}

// TransferAmount moves delegated weight between two accounts without
// changing the aggregate total (staking contract's transfer_amount hook).
func (d *Delegation) TransferAmount(from, to Address, amount uint64) error {
	bal, ok := d.balances[from]
	if !ok || bal < amount {
		return ErrInvalidAsset
	}
	d.balances[from] = bal - amount
	d.balances[to] += amount
	return nil
}

func (d *Delegation) BalanceOf(account Address) uint64 { return d.balances[account] }

func (d *Delegation) Total() uint64 { return d.total }
