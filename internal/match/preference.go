package match

import "math"

const (
	eloK        = 24.0
	btlLearning = 0.08
	initialPref = 1000.0
)

// PreferenceModel tracks revealed preference from pairwise judgments. Two
// estimators run in parallel: Elo ratings for interpretability and a
// Bradley-Terry strength per university for probabilistic blending.
type PreferenceModel struct {
	elo map[string]float64
	btl map[string]float64
}

// NewPreferenceModel initializes ratings for the given universities.
func NewPreferenceModel(uniIDs []string) *PreferenceModel {
	m := &PreferenceModel{
		elo: make(map[string]float64, len(uniIDs)),
		btl: make(map[string]float64, len(uniIDs)),
	}
	for _, id := range uniIDs {
		m.elo[id] = initialPref
		m.btl[id] = 0.0
	}
	return m
}

func (m *PreferenceModel) ensure(id string) {
	if _, ok := m.elo[id]; !ok {
		m.elo[id] = initialPref
	}
	if _, ok := m.btl[id]; !ok {
		m.btl[id] = 0.0
	}
}

// Elo returns the current Elo rating, or the initial rating if unseen.
func (m *PreferenceModel) Elo(id string) float64 {
	if r, ok := m.elo[id]; ok {
		return r
	}
	return initialPref
}

// EloBounds returns the min and max ratings across all universities.
func (m *PreferenceModel) EloBounds() (min, max float64, ok bool) {
	if len(m.elo) < 2 {
		return 0, 0, false
	}
	first := true
	for _, r := range m.elo {
		if first {
			min, max = r, r
			first = false
			continue
		}
		if r < min {
			min = r
		}
		if r > max {
			max = r
		}
	}
	return min, max, true
}

// BTL returns the Bradley-Terry strength, zero if unseen.
func (m *PreferenceModel) BTL(id string) float64 {
	return m.btl[id]
}

// probBTL is the Bradley-Terry probability that i beats j.
func (m *PreferenceModel) probBTL(i, j string) float64 {
	return 1.0 / (1.0 + math.Exp(-(m.btl[i] - m.btl[j])))
}

// UpdatePair applies one pairwise result to both estimators.
func (m *PreferenceModel) UpdatePair(winner, loser string) {
	m.ensure(winner)
	m.ensure(loser)

	rw, rl := m.elo[winner], m.elo[loser]
	expected := 1.0 / (1.0 + math.Pow(10, (rl-rw)/400.0))
	m.elo[winner] = rw + eloK*(1.0-expected)
	m.elo[loser] = rl + eloK*(0.0-(1.0-expected))

	p := m.probBTL(winner, loser)
	m.btl[winner] += btlLearning * (1.0 - p)
	m.btl[loser] -= btlLearning * (1.0 - p)
}
