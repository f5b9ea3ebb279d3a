package core

import "errors"

// Sentinel errors following the taxonomy of spec.md §7. Recoverability is a
// property of where an error surfaces, not of the sentinel: callers that
// receive one of these from RunActivity find the instance cursor not
// advanced, while a failed must-succeed callback drives the instance into a
// terminal FatalError state through FailCallback, which returns
// ErrPromiseFailed.
var (
	// Generic lookups, matching dao.go / storage.go naming.
	ErrNotFound      = errors.New("not found")
	ErrAlreadyExists = errors.New("already exists")
	ErrUnauthorized  = errors.New("unauthorized")
	ErrInvalidState  = errors.New("invalid state")
	ErrInvalidAsset  = errors.New("invalid asset")
	ErrExpired       = errors.New("deadline passed")
	ErrNotReady      = errors.New("not ready")

	// DAO / group registry.
	ErrDAOExists    = errors.New("dao already exists")
	ErrMemberExists = errors.New("member already added")
	ErrMemberMissing = errors.New("member not part of group")
	ErrGroupNotFound = errors.New("group not found")
	ErrRoleNotFound  = errors.New("role not found")

	// Proposal / voting lifecycle (C10).
	ErrNotEnoughDeposit = errors.New("deposit below required minimum")
	ErrDoubleVote       = errors.New("already voted")
	ErrVoteOptionInvalid = errors.New("vote option not in settings")
	ErrProposalNotAccepted = errors.New("proposal not accepted")

	// Expression evaluation (C1).
	ErrEvalDivByZero  = errors.New("division by zero")
	ErrEvalIncompatible = errors.New("incompatible operand types")
	ErrEvalArity      = errors.New("expression argument arity mismatch")

	// Value source resolution (C2).
	ErrSourceMissing       = errors.New("value source missing")        // user-recoverable
	ErrSourceMissingConfig = errors.New("configuration value source missing") // fatal

	// Validator engine (C3).
	ErrInputInvalid = errors.New("input failed validation")

	// Typed casts.
	ErrCast = errors.New("value cast failed")

	// Instance / workflow runtime (C9, C11).
	ErrActionMissing      = errors.New("required action input missing")
	ErrConditionFalse     = errors.New("guard condition evaluated false")
	ErrTransitionNotFound = errors.New("no transition to requested activity")
	ErrTransitionLimit    = errors.New("transition limit exhausted")
	ErrInstanceTerminal   = errors.New("instance already finished or fatally errored")
	ErrInvalidWfStructure = errors.New("template self-inconsistent")
	ErrPromiseFailed      = errors.New("external call failed")
	ErrRightsDenied       = errors.New("caller does not satisfy required rights")

	// Account id parsing.
	ErrParseAccountUser   = errors.New("invalid account id in user input")
	ErrParseAccountConfig = errors.New("invalid account id in template configuration")

	// Deserialization of metadata-bound inputs.
	ErrDeserializeDaoObject = errors.New("input binding failed datatype check")

	// Treasury partitions (C5).
	ErrTreasuryPartitionAssetAlreadyExists = errors.New("asset already tracked in partition")
	ErrTreasuryPartitionAssetNotFound      = errors.New("asset not tracked in partition")
	ErrTreasuryPartitionInsufficientFunds = errors.New("spendable balance below requested amount")
)
