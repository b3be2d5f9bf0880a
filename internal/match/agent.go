package match

import (
	"math"
	"math/rand"
	"sort"
	"strconv"
	"strings"

	"github.com/mayeul-docq/univia/internal/model/catalog"
	"github.com/mayeul-docq/univia/internal/model/survey"
)

const (
	alphaStart = 0.65
	alphaFloor = 0.35
	alphaDecay = 0.03

	// MaxQuestionsPerUni bounds follow-up questions per university. The
	// survey service enforces the same quota across requests.
	MaxQuestionsPerUni = 5

	defaultSeed = 42
)

// Slots are the profile gaps the agent can ask about, in priority order.
var Slots = []string{
	"budget_range",
	"need_portfolio",
	"ielts_plan",
	"campus_setting",
	"pmr_needs",
}

// SlotPrompt maps a slot to the question shown to the student.
var SlotPrompt = map[string]string{
	"budget_range":   "What total annual budget (fees + housing + living) are you aiming for, in EUR?",
	"need_portfolio": "Will you have a portfolio ready by the UCAS deadline?",
	"ielts_plan":     "Do you have an IELTS plan (target date, target score)?",
	"campus_setting": "Do you prefer an urban, suburban or rural campus?",
	"pmr_needs":      "Do you have accessibility needs to take into account?",
}

// Agent holds the matching state for one student: the deterministic soft-fit
// side, the learned preference side, and the triplet currently on display.
type Agent struct {
	student catalog.Student
	unis    map[string]catalog.University
	uniIDs  []string

	pref  *PreferenceModel
	alpha float64

	seen       map[string]struct{}
	shortlist  []string
	exclusions []survey.Exclusion
	askedSlots map[string]struct{}

	softCache map[string]float64

	// Triplet is the ordered set of universities under comparison. The
	// survey service may replace columns between steps.
	Triplet []string
}

// NewAgent builds an agent over the catalog with a deterministic shuffle.
func NewAgent(student catalog.Student, universities []catalog.University) *Agent {
	unis := make(map[string]catalog.University, len(universities))
	ids := make([]string, 0, len(universities))
	for _, u := range universities {
		unis[u.ID] = u
		ids = append(ids, u.ID)
	}
	rand.New(rand.NewSource(defaultSeed)).Shuffle(len(ids), func(i, j int) {
		ids[i], ids[j] = ids[j], ids[i]
	})

	a := &Agent{
		student:    student,
		unis:       unis,
		uniIDs:     ids,
		pref:       NewPreferenceModel(ids),
		alpha:      alphaStart,
		seen:       make(map[string]struct{}),
		askedSlots: make(map[string]struct{}),
		softCache:  make(map[string]float64),
	}
	a.Triplet = a.selectInitialTriplet()
	return a
}

// Student returns the current (possibly answer-updated) profile.
func (a *Agent) Student() catalog.Student { return a.student }

// University looks up a catalog entry by id.
func (a *Agent) University(id string) (catalog.University, bool) {
	u, ok := a.unis[id]
	return u, ok
}

// UniIDs returns all university ids in agent order.
func (a *Agent) UniIDs() []string {
	return append([]string(nil), a.uniIDs...)
}

// SoftFit returns the cached deterministic fit for one university.
func (a *Agent) SoftFit(uniID string) float64 {
	if sc, ok := a.softCache[uniID]; ok {
		return sc
	}
	sc, _ := SoftFit(a.student, a.unis[uniID])
	a.softCache[uniID] = sc
	return sc
}

// HybridScore blends soft fit with normalized preference. Alpha starts high
// (fit-dominated) and shifts toward preference as judgments accumulate.
func (a *Agent) HybridScore(uniID string) float64 {
	sf := a.SoftFit(uniID)

	elo01 := 0.5
	if min, max, ok := a.pref.EloBounds(); ok {
		elo01 = (a.pref.Elo(uniID) - min) / (max - min + 1e-6)
	}
	btl01 := 1.0 / (1.0 + math.Exp(-a.pref.BTL(uniID)))
	pref01 := 0.5*elo01 + 0.5*btl01

	return a.alpha*sf + (1.0-a.alpha)*pref01
}

// Elo exposes the raw preference rating for state snapshots.
func (a *Agent) Elo(uniID string) float64 { return a.pref.Elo(uniID) }

// NextQuestions returns up to maxQ unasked slots with their prompts.
func (a *Agent) NextQuestions(maxQ int) []survey.Question {
	qs := make([]survey.Question, 0, maxQ)
	for _, slot := range Slots {
		if _, asked := a.askedSlots[slot]; asked {
			continue
		}
		qs = append(qs, survey.Question{Slot: slot, Text: SlotPrompt[slot]})
		if len(qs) == maxQ {
			break
		}
	}
	return qs
}

// ApplyAnswers folds slot answers into the student profile and invalidates
// the soft-fit cache where the answer changes scoring inputs.
func (a *Agent) ApplyAnswers(answers map[string]string) {
	for slot, value := range answers {
		a.askedSlots[slot] = struct{}{}
		switch slot {
		case "budget_range":
			raw := strings.ReplaceAll(strings.TrimSpace(value), ",", ".")
			if amt, err := strconv.ParseFloat(raw, 64); err == nil {
				a.student.Budget.AnnualTotal = &catalog.Money{Amount: amt, Currency: "EUR"}
			}
			a.invalidateSoftFit()
		case "need_portfolio":
			a.invalidateSoftFit()
		case "campus_setting":
			val := strings.ToLower(strings.TrimSpace(value))
			if val == "urban" || val == "suburban" || val == "rural" {
				a.student.Preferences.CampusSetting = val
				a.invalidateSoftFit()
			}
		case "pmr_needs":
			val := strings.ToLower(strings.TrimSpace(value))
			a.student.Constraints.PMR = val == "yes" || val == "oui" || val == "true" || val == "vrai"
			a.invalidateSoftFit()
		}
	}
}

// Feedback records one pairwise judgment and shifts weight toward the
// preference side of the hybrid score.
func (a *Agent) Feedback(betterID, worseID string) {
	a.pref.UpdatePair(betterID, worseID)
	a.alpha = math.Max(alphaFloor, a.alpha-alphaDecay)
}

// RankAll returns all university ids ordered by descending hybrid score.
func (a *Agent) RankAll() []string {
	ids := a.UniIDs()
	sortByScoreDesc(ids, a.HybridScore)
	return ids
}

// Step marks the triplet as seen and snapshots the visible state.
func (a *Agent) Step() survey.StateSnapshot {
	for _, id := range a.Triplet {
		a.seen[id] = struct{}{}
	}

	scores := make(map[string]survey.ScoreDetail, len(a.Triplet))
	for _, id := range a.Triplet {
		scores[id] = survey.ScoreDetail{
			SoftFit: a.SoftFit(id),
			Pref:    a.pref.Elo(id),
			Hybrid:  a.HybridScore(id),
		}
	}

	return survey.StateSnapshot{
		Triplet:    append([]string(nil), a.Triplet...),
		Scores:     scores,
		Shortlist:  append([]string(nil), a.shortlist...),
		Exclusions: append([]survey.Exclusion(nil), a.exclusions...),
		SeenCount:  len(a.seen),
	}
}

func (a *Agent) invalidateSoftFit() {
	a.softCache = make(map[string]float64)
}

// selectInitialTriplet ranks by soft fit then diversifies across campus
// setting and tuition bucket so the first comparison is informative.
func (a *Agent) selectInitialTriplet() []string {
	ids := a.UniIDs()
	sortByScoreDesc(ids, a.SoftFit)
	return a.diversifyPick(ids, 3)
}

func (a *Agent) diversifyPick(candidates []string, k int) []string {
	selected := make([]string, 0, k)
	seenKeys := make(map[string]struct{})

	for _, id := range candidates {
		uni := a.unis[id]
		key := uni.Campus.Setting
		if key == "" {
			key = "na"
		}
		key += "/" + tuitionBucket(uni)
		if _, dup := seenKeys[key]; dup && len(selected) < k-1 {
			continue
		}
		selected = append(selected, id)
		seenKeys[key] = struct{}{}
		if len(selected) == k {
			break
		}
	}

	// Backfill when diversity left gaps.
	for i := 0; len(selected) < k && i < len(candidates); i++ {
		if !contains(selected, candidates[i]) {
			selected = append(selected, candidates[i])
		}
	}
	if len(selected) > k {
		selected = selected[:k]
	}
	return selected
}

func tuitionBucket(uni catalog.University) string {
	tuition, _ := uni.TuitionAmount()
	switch {
	case tuition >= 28000:
		return "high"
	case tuition >= 22000:
		return "mid"
	default:
		return "low"
	}
}

func contains(ids []string, id string) bool {
	for _, have := range ids {
		if have == id {
			return true
		}
	}
	return false
}

// sortByScoreDesc sorts ids in place by descending score; equal scores keep
// agent order.
func sortByScoreDesc(ids []string, score func(string) float64) {
	sort.SliceStable(ids, func(i, j int) bool {
		return score(ids[i]) > score(ids[j])
	})
}
