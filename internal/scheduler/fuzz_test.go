package scheduler

import (
	"testing"
)

func FuzzAdvance(f *testing.F) {
	f.Add(0, 2.5, 0, 4)
	f.Add(6, 2.5, 2, 5)
	f.Add(365, 1.3, 12, 0)
	f.Add(-4, 9.0, -1, 42)

	s, err := New(DefaultConfig())
	if err != nil {
		f.Fatal(err)
	}

	f.Fuzz(func(t *testing.T, interval int, ease float64, repetition int, quality int) {
		if ease != ease || ease < 0 || ease > 10 {
			t.Skip()
		}
		if interval < 0 || interval > 365 || repetition < 0 || repetition > 1000 {
			t.Skip()
		}
		got := s.Advance(State{Interval: interval, EaseFactor: ease, Repetition: repetition}, quality, testNow)
		if got.EaseFactor < MinEaseFactor {
			t.Fatalf("ease factor %v below %v", got.EaseFactor, MinEaseFactor)
		}
		if got.Interval < 1 || got.Interval > 365 {
			t.Fatalf("interval %d out of [1, 365]", got.Interval)
		}
		if got.Repetition < 0 {
			t.Fatalf("negative repetition %d", got.Repetition)
		}
	})
}
