package core

import (
	"fmt"
	"math/big"
)

// PeriodKind distinguishes a linear-release period from an immediate
// (cliff) one, per spec.md §3/§4.4.
type PeriodKind int

const (
	PeriodLinear PeriodKind = iota
	PeriodImmediate
)

// Period is one leg of a piecewise-linear unlocking curve: it releases
// Amount between the previous period's end (or the schedule's Start) and
// End, either linearly (PeriodLinear) or all at once at its start
// (PeriodImmediate).
type Period struct {
	Kind   PeriodKind
	End    int64 // absolute unix-seconds end of this period
	Amount *big.Int
}

// UnlockingSchedule is a piecewise-linear integer unlocking curve over an
// ordered list of periods (spec.md §3/§4.4). All arithmetic is integer-only;
// the fractional-release formula truncates via integer division, which is
// part of the contract callers must reproduce bit-for-bit.
type UnlockingSchedule struct {
	TotalLocked       *big.Int
	Start             int64
	Duration          int64
	Periods           []Period
	Cursor            int
	UnlockedInCurrent *big.Int
	TotalUnlocked     *big.Int
}

// NewUnlockingSchedule validates and constructs a schedule. initDistribution
// is the portion of amount released immediately at Start, outside of any
// period (spec.md §4.4: "Σ period.amount + init_distribution = amount").
func NewUnlockingSchedule(amount, initDistribution *big.Int, start, duration int64, periods []Period) (*UnlockingSchedule, error) {
	if len(periods) > 65535 {
		return nil, fmt.Errorf("%w: %d periods exceeds u16 max", ErrInvalidWfStructure, len(periods))
	}
	sum := new(big.Int).Set(initDistribution)
	prevEnd := start
	for _, p := range periods {
		sum.Add(sum, p.Amount)
		if p.End <= prevEnd {
			return nil, fmt.Errorf("%w: period end %d does not advance past %d", ErrInvalidWfStructure, p.End, prevEnd)
		}
		prevEnd = p.End
	}
	if sum.Cmp(amount) != 0 {
		return nil, fmt.Errorf("%w: sum of period amounts + init distribution (%s) != total amount (%s)", ErrInvalidWfStructure, sum, amount)
	}
	if len(periods) > 0 && periods[len(periods)-1].End-start != duration {
		return nil, fmt.Errorf("%w: sum of period durations != total duration", ErrInvalidWfStructure)
	}
	return &UnlockingSchedule{
		TotalLocked:       new(big.Int).Set(amount),
		Start:             start,
		Duration:          duration,
		Periods:           periods,
		Cursor:            0,
		UnlockedInCurrent: big.NewInt(0),
		TotalUnlocked:     new(big.Int).Set(initDistribution),
	}, nil
}

// totalUnlockedAt computes, as a pure function of now, the cumulative
// amount that should have unlocked by now — independent of prior calls, so
// Unlock's monotonicity and exhaustion invariants fall directly out of this
// definition rather than needing separate incremental bookkeeping.
func (s *UnlockingSchedule) totalUnlockedAt(now int64) *big.Int {
	cum := new(big.Int).Set(s.initDistribution())
	if now <= s.Start {
		return cum
	}
	prevEnd := s.Start
	for _, p := range s.Periods {
		if now >= p.End {
			cum.Add(cum, p.Amount)
			prevEnd = p.End
			continue
		}
		switch p.Kind {
		case PeriodImmediate:
			cum.Add(cum, p.Amount)
		case PeriodLinear:
			dur := p.End - prevEnd
			if dur > 0 {
				elapsed := now - prevEnd
				pct := new(big.Int).Mul(big.NewInt(elapsed), big.NewInt(100))
				pct.Div(pct, big.NewInt(dur))
				frac := new(big.Int).Mul(pct, p.Amount)
				frac.Div(frac, big.NewInt(100))
				cum.Add(cum, frac)
			}
		}
		return clampMax(cum, s.TotalLocked)
	}
	return clampMax(cum, s.TotalLocked)
}

func clampMax(v, max *big.Int) *big.Int {
	if v.Cmp(max) > 0 {
		return new(big.Int).Set(max)
	}
	return v
}

func (s *UnlockingSchedule) sumPeriods() *big.Int {
	sum := big.NewInt(0)
	for _, p := range s.Periods {
		sum.Add(sum, p.Amount)
	}
	return sum
}

// initDistribution recovers the immediate-at-Start portion from
// TotalLocked - Σperiods, so totalUnlockedAt doesn't need a separately
// stored field once the schedule has been constructed.
func (s *UnlockingSchedule) initDistribution() *big.Int {
	return new(big.Int).Sub(s.TotalLocked, s.sumPeriods())
}

// Unlock returns the amount newly unlocked since the last call and advances
// the schedule's cursor bookkeeping to reflect now. Monotonic: successive
// calls never decrease TotalUnlocked. At or after the final period's End,
// TotalUnlocked == TotalLocked.
func (s *UnlockingSchedule) Unlock(now int64) *big.Int {
	target := s.totalUnlockedAt(now)
	delta := new(big.Int).Sub(target, s.TotalUnlocked)
	if delta.Sign() < 0 {
		delta = big.NewInt(0)
	} else {
		s.TotalUnlocked = target
	}

	// Advance the period cursor to the period containing now (or the last
	// period if now is past the schedule), for introspection/debugging.
	prevEnd := s.Start
	for i, p := range s.Periods {
		if now < p.End {
			s.Cursor = i
			s.UnlockedInCurrent = new(big.Int).Sub(target, s.totalUnlockedAt(prevEnd))
			return delta
		}
		prevEnd = p.End
	}
	if len(s.Periods) > 0 {
		s.Cursor = len(s.Periods) - 1
	}
	s.UnlockedInCurrent = big.NewInt(0)
	return delta
}
