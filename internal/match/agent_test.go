package match

import (
	"testing"

	"github.com/mayeul-docq/univia/internal/model/catalog"
)

func testCatalog() []catalog.University {
	mk := func(id, setting string, tuition float64, pmr bool) catalog.University {
		u := testUniversity(id)
		u.Campus.Setting = setting
		u.Campus.PMROK = pmr
		u.Fees.Tuition = &catalog.Money{Amount: tuition, Currency: "GBP"}
		return u
	}
	return []catalog.University{
		mk("u-urban-high", "urban", 29000, true),
		mk("u-urban-mid", "urban", 24000, true),
		mk("u-urban-low", "urban", 18000, false),
		mk("u-suburban-mid", "suburban", 23000, true),
		mk("u-rural-low", "rural", 15000, true),
		mk("u-rural-mid", "rural", 22500, false),
	}
}

func TestNewAgentIsDeterministic(t *testing.T) {
	a := NewAgent(testStudent(), testCatalog())
	b := NewAgent(testStudent(), testCatalog())

	aIDs, bIDs := a.UniIDs(), b.UniIDs()
	if len(aIDs) != len(bIDs) {
		t.Fatalf("id count mismatch: %d vs %d", len(aIDs), len(bIDs))
	}
	for i := range aIDs {
		if aIDs[i] != bIDs[i] {
			t.Fatalf("shuffle should be seeded: index %d differs (%s vs %s)", i, aIDs[i], bIDs[i])
		}
	}
	for i := range a.Triplet {
		if a.Triplet[i] != b.Triplet[i] {
			t.Fatalf("initial triplet should be deterministic: %v vs %v", a.Triplet, b.Triplet)
		}
	}
}

func TestInitialTripletIsDiverse(t *testing.T) {
	a := NewAgent(testStudent(), testCatalog())
	if len(a.Triplet) != 3 {
		t.Fatalf("expected a triplet, got %v", a.Triplet)
	}

	keys := make(map[string]bool)
	for _, id := range a.Triplet {
		uni, ok := a.University(id)
		if !ok {
			t.Fatalf("triplet member %s not in catalog", id)
		}
		keys[uni.Campus.Setting+"/"+tuitionBucket(uni)] = true
	}
	if len(keys) < 2 {
		t.Fatalf("triplet should span campus/tuition buckets, got %v", a.Triplet)
	}
}

func TestHybridScoreBlendsTowardPreference(t *testing.T) {
	a := NewAgent(testStudent(), testCatalog())
	winner, loser := a.Triplet[0], a.Triplet[1]

	before := a.HybridScore(winner) - a.HybridScore(loser)
	for i := 0; i < 4; i++ {
		a.Feedback(winner, loser)
	}
	after := a.HybridScore(winner) - a.HybridScore(loser)

	if after <= before {
		t.Fatalf("repeated wins should widen the hybrid gap: before=%f after=%f", before, after)
	}
}

func TestFeedbackDecaysAlphaToFloor(t *testing.T) {
	a := NewAgent(testStudent(), testCatalog())
	for i := 0; i < 50; i++ {
		a.Feedback(a.Triplet[0], a.Triplet[1])
	}
	if a.alpha != alphaFloor {
		t.Fatalf("alpha should settle at the floor %f, got %f", alphaFloor, a.alpha)
	}
}

func TestNextQuestionsRespectsMax(t *testing.T) {
	a := NewAgent(testStudent(), testCatalog())

	qs := a.NextQuestions(3)
	if len(qs) != 3 {
		t.Fatalf("expected 3 questions, got %d", len(qs))
	}
	for _, q := range qs {
		if SlotPrompt[q.Slot] != q.Text {
			t.Fatalf("question text should come from the slot prompt: %+v", q)
		}
	}
}

func TestNextQuestionsSkipsAnsweredSlots(t *testing.T) {
	a := NewAgent(testStudent(), testCatalog())
	a.ApplyAnswers(map[string]string{"budget_range": "36000"})

	for _, q := range a.NextQuestions(len(Slots)) {
		if q.Slot == "budget_range" {
			t.Fatal("answered slot should not be asked again")
		}
	}
}

func TestApplyAnswersBudget(t *testing.T) {
	a := NewAgent(testStudent(), testCatalog())

	a.ApplyAnswers(map[string]string{"budget_range": " 36 500,50 "})
	if a.Student().Budget.AnnualTotal != nil && a.Student().Budget.AnnualTotal.Amount == 36500.50 {
		t.Fatal("budget with an inner space should not parse")
	}

	a.ApplyAnswers(map[string]string{"budget_range": "36500,50"})
	got := a.Student().Budget.AnnualTotal
	if got == nil || got.Amount != 36500.50 || got.Currency != "EUR" {
		t.Fatalf("comma decimal budget should parse to EUR: %+v", got)
	}
}

func TestApplyAnswersCampusSetting(t *testing.T) {
	a := NewAgent(testStudent(), testCatalog())

	a.ApplyAnswers(map[string]string{"campus_setting": "RURAL "})
	if a.Student().Preferences.CampusSetting != "rural" {
		t.Fatalf("campus setting should normalize, got %q", a.Student().Preferences.CampusSetting)
	}

	a.ApplyAnswers(map[string]string{"campus_setting": "seaside"})
	if a.Student().Preferences.CampusSetting != "rural" {
		t.Fatalf("invalid setting should be ignored, got %q", a.Student().Preferences.CampusSetting)
	}
}

func TestApplyAnswersPMR(t *testing.T) {
	a := NewAgent(testStudent(), testCatalog())

	a.ApplyAnswers(map[string]string{"pmr_needs": "Oui"})
	if !a.Student().Constraints.PMR {
		t.Fatal("oui should set the PMR constraint")
	}

	a.ApplyAnswers(map[string]string{"pmr_needs": "no"})
	if a.Student().Constraints.PMR {
		t.Fatal("no should clear the PMR constraint")
	}
}

func TestApplyAnswersInvalidatesSoftFit(t *testing.T) {
	a := NewAgent(testStudent(), testCatalog())
	before := a.SoftFit("u-urban-low")

	// u-urban-low is not PMR accessible, so declaring a PMR need must
	// lower its fit.
	a.ApplyAnswers(map[string]string{"pmr_needs": "yes"})
	after := a.SoftFit("u-urban-low")
	if after >= before {
		t.Fatalf("PMR answer should lower fit for inaccessible campus: before=%f after=%f", before, after)
	}
}

func TestRankAllOrdersByHybrid(t *testing.T) {
	a := NewAgent(testStudent(), testCatalog())
	ranked := a.RankAll()
	if len(ranked) != len(testCatalog()) {
		t.Fatalf("ranking should cover the catalog, got %d entries", len(ranked))
	}
	for i := 1; i < len(ranked); i++ {
		if a.HybridScore(ranked[i-1]) < a.HybridScore(ranked[i]) {
			t.Fatalf("ranking not descending at %d: %v", i, ranked)
		}
	}
}

func TestStepSnapshotsTriplet(t *testing.T) {
	a := NewAgent(testStudent(), testCatalog())
	st := a.Step()

	if len(st.Triplet) != 3 {
		t.Fatalf("snapshot should carry the triplet, got %v", st.Triplet)
	}
	if st.SeenCount != 3 {
		t.Fatalf("first step should mark 3 seen, got %d", st.SeenCount)
	}
	for _, id := range st.Triplet {
		sc, ok := st.Scores[id]
		if !ok {
			t.Fatalf("missing score for %s", id)
		}
		if sc.Pref != 1000 {
			t.Fatalf("fresh Elo should be 1000, got %f", sc.Pref)
		}
		if sc.Hybrid < 0 || sc.Hybrid > 1 {
			t.Fatalf("hybrid out of range for %s: %f", id, sc.Hybrid)
		}
	}

	// Re-stepping the same triplet does not inflate the seen count.
	st = a.Step()
	if st.SeenCount != 3 {
		t.Fatalf("seen count should stay 3, got %d", st.SeenCount)
	}
}
