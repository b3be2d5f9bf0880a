package match

import (
	"math"
	"testing"
)

func TestUpdatePairMovesRatings(t *testing.T) {
	m := NewPreferenceModel([]string{"a", "b"})
	m.UpdatePair("a", "b")

	if m.Elo("a") <= initialPref {
		t.Fatalf("winner Elo should rise above %f, got %f", initialPref, m.Elo("a"))
	}
	if m.Elo("b") >= initialPref {
		t.Fatalf("loser Elo should fall below %f, got %f", initialPref, m.Elo("b"))
	}
	if m.BTL("a") <= 0 || m.BTL("b") >= 0 {
		t.Fatalf("BTL should split around zero, got %f / %f", m.BTL("a"), m.BTL("b"))
	}
}

func TestUpdatePairFirstStepIsHalfK(t *testing.T) {
	m := NewPreferenceModel([]string{"a", "b"})
	m.UpdatePair("a", "b")

	// Equal ratings mean an expected score of 0.5, so the winner gains K/2.
	want := initialPref + eloK/2
	if math.Abs(m.Elo("a")-want) > 1e-9 {
		t.Fatalf("winner Elo: got %f want %f", m.Elo("a"), want)
	}
}

func TestEloIsZeroSum(t *testing.T) {
	m := NewPreferenceModel([]string{"a", "b", "c"})
	m.UpdatePair("a", "b")
	m.UpdatePair("b", "c")
	m.UpdatePair("a", "c")

	sum := m.Elo("a") + m.Elo("b") + m.Elo("c")
	if math.Abs(sum-3*initialPref) > 1e-6 {
		t.Fatalf("Elo total drifted: got %f want %f", sum, 3*initialPref)
	}
}

func TestRepeatedWinsSaturate(t *testing.T) {
	m := NewPreferenceModel([]string{"a", "b"})
	var prevGain float64 = math.Inf(1)
	prev := m.Elo("a")
	for i := 0; i < 5; i++ {
		m.UpdatePair("a", "b")
		gain := m.Elo("a") - prev
		if gain >= prevGain {
			t.Fatalf("round %d: Elo gain should shrink, got %f after %f", i, gain, prevGain)
		}
		prevGain = gain
		prev = m.Elo("a")
	}
}

func TestEloBounds(t *testing.T) {
	m := NewPreferenceModel([]string{"a"})
	if _, _, ok := m.EloBounds(); ok {
		t.Fatal("bounds should be unavailable with a single rating")
	}

	m = NewPreferenceModel([]string{"a", "b"})
	m.UpdatePair("a", "b")
	min, max, ok := m.EloBounds()
	if !ok {
		t.Fatal("bounds should be available")
	}
	if min != m.Elo("b") || max != m.Elo("a") {
		t.Fatalf("bounds mismatch: min=%f max=%f", min, max)
	}
}

func TestUnseenUniversityDefaults(t *testing.T) {
	m := NewPreferenceModel(nil)
	if m.Elo("x") != initialPref {
		t.Fatalf("unseen Elo should default to %f, got %f", initialPref, m.Elo("x"))
	}
	if m.BTL("x") != 0 {
		t.Fatalf("unseen BTL should default to 0, got %f", m.BTL("x"))
	}
}
