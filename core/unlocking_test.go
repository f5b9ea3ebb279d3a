package core

import (
	"math/big"
	"testing"
)

func mustSchedule(t *testing.T, amount, init int64, start, duration int64, periods []Period) *UnlockingSchedule {
	t.Helper()
	s, err := NewUnlockingSchedule(big.NewInt(amount), big.NewInt(init), start, duration, periods)
	if err != nil {
		t.Fatalf("NewUnlockingSchedule: %v", err)
	}
	return s
}

func TestUnlockingScheduleMonotonic(t *testing.T) {
	s := mustSchedule(t, 1000, 0, 0, 100, []Period{
		{Kind: PeriodLinear, End: 100, Amount: big.NewInt(1000)},
	})
	prev := big.NewInt(0)
	for _, now := range []int64{0, 10, 25, 50, 75, 99, 100, 200} {
		got := s.totalUnlockedAt(now)
		if got.Cmp(prev) < 0 {
			t.Fatalf("totalUnlockedAt(%d) = %s, decreased from %s", now, got, prev)
		}
		prev = got
	}
}

func TestUnlockingScheduleExhaustion(t *testing.T) {
	s := mustSchedule(t, 1000, 0, 0, 100, []Period{
		{Kind: PeriodLinear, End: 100, Amount: big.NewInt(1000)},
	})
	if got := s.totalUnlockedAt(100); got.Cmp(big.NewInt(1000)) != 0 {
		t.Fatalf("expected fully unlocked at period end, got %s", got)
	}
	if got := s.totalUnlockedAt(10_000); got.Cmp(big.NewInt(1000)) != 0 {
		t.Fatalf("expected clamp at TotalLocked long after end, got %s", got)
	}
}

func TestUnlockingScheduleExactHalfway(t *testing.T) {
	s := mustSchedule(t, 1000, 0, 0, 100, []Period{
		{Kind: PeriodLinear, End: 100, Amount: big.NewInt(1000)},
	})
	// floor(50*100/100) * 1000/100 = floor(50) * 10 = 500
	if got := s.totalUnlockedAt(50); got.Cmp(big.NewInt(500)) != 0 {
		t.Fatalf("expected 500 at halfway, got %s", got)
	}
}

func TestUnlockingScheduleSumInvariant(t *testing.T) {
	periods := []Period{
		{Kind: PeriodImmediate, End: 10, Amount: big.NewInt(100)},
		{Kind: PeriodLinear, End: 110, Amount: big.NewInt(400)},
	}
	// init + sum(periods) must equal amount, and sum(durations) must equal duration.
	if _, err := NewUnlockingSchedule(big.NewInt(600), big.NewInt(100), 0, 110, periods); err != nil {
		t.Fatalf("expected valid schedule, got error: %v", err)
	}
	if _, err := NewUnlockingSchedule(big.NewInt(601), big.NewInt(100), 0, 110, periods); err == nil {
		t.Fatalf("expected sum-mismatch error, got none")
	}
}

func TestUnlockingSchedulePeriodCountLimit(t *testing.T) {
	periods := make([]Period, 65536)
	if _, err := NewUnlockingSchedule(big.NewInt(0), big.NewInt(0), 0, 0, periods); err == nil {
		t.Fatalf("expected period-count-limit error")
	}
}

func TestUnlockDeltaAndCursor(t *testing.T) {
	s := mustSchedule(t, 1000, 0, 0, 100, []Period{
		{Kind: PeriodLinear, End: 100, Amount: big.NewInt(1000)},
	})
	d1 := s.Unlock(50)
	if d1.Cmp(big.NewInt(500)) != 0 {
		t.Fatalf("expected delta 500, got %s", d1)
	}
	d2 := s.Unlock(50)
	if d2.Sign() != 0 {
		t.Fatalf("expected zero delta on repeat call at same time, got %s", d2)
	}
	d3 := s.Unlock(100)
	if d3.Cmp(big.NewInt(500)) != 0 {
		t.Fatalf("expected remaining 500 delta at period end, got %s", d3)
	}
	if s.TotalUnlocked.Cmp(big.NewInt(1000)) != 0 {
		t.Fatalf("expected fully unlocked total, got %s", s.TotalUnlocked)
	}
}
