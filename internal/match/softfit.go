package match

import "github.com/mayeul-docq/univia/internal/model/catalog"

// Soft-fit criteria with their weights. The weights sum to 1 so the score
// stays in [0,1], and the slice fixes the summation order so identical
// inputs always produce the identical float.
var softFitCriteria = []struct {
	name   string
	weight float64
}{
	{"accreditation", 0.24},
	{"portfolio", 0.16},
	{"campus_setting", 0.12},
	{"budget_gap", 0.18},
	{"student_staff_ratio", 0.10},
	{"english_ready", 0.10},
	{"accessibility_pmr", 0.10},
}

const (
	baseLivingCostGBP  = 12000.0
	urbanLivingExtra   = 3000.0
	gbpToEUR           = 1.15
	portfolioGradeHint = 14.0
)

// SoftFit scores how well a university fits a student on published criteria
// alone, before any preference feedback. The breakdown maps each criterion
// to its unweighted [0,1] score.
func SoftFit(student catalog.Student, uni catalog.University) (float64, map[string]float64) {
	breakdown := make(map[string]float64, len(softFitCriteria))

	if uni.Accredited("RIBA", "ARB") {
		breakdown["accreditation"] = 1.0
	}

	// A strong arts grade hints the portfolio will be ready in time.
	artsGrade, hasArts := student.Grade("arts_plastiques")
	portfolioReady := hasArts && artsGrade >= portfolioGradeHint
	if !uni.Admissions.RequiresPortfolio || portfolioReady {
		breakdown["portfolio"] = 1.0
	} else {
		breakdown["portfolio"] = 0.4
	}

	breakdown["campus_setting"] = campusSettingScore(student.Preferences.CampusSetting, uni.Campus.Setting)
	breakdown["budget_gap"] = budgetScore(student, uni)
	breakdown["student_staff_ratio"] = staffRatioScore(uni.Offer.StudentStaffRatio)
	breakdown["english_ready"] = englishScore(student, uni)

	if !student.Constraints.PMR || uni.Campus.PMROK {
		breakdown["accessibility_pmr"] = 1.0
	} else {
		breakdown["accessibility_pmr"] = 0.3
	}

	score := 0.0
	for _, c := range softFitCriteria {
		score += c.weight * breakdown[c.name]
	}
	return score, breakdown
}

func campusSettingScore(pref, actual string) float64 {
	if pref == "" || actual == "" {
		return 0.5
	}
	if pref == actual {
		return 1.0
	}
	// Urban and suburban are close enough to count for half.
	if (pref == "urban" || pref == "suburban") && (actual == "urban" || actual == "suburban") {
		return 0.5
	}
	return 0.0
}

func budgetScore(student catalog.Student, uni catalog.University) float64 {
	tuition, hasTuition := uni.TuitionAmount()
	if !hasTuition || student.Budget.AnnualTotal == nil {
		return 0.6
	}

	living := baseLivingCostGBP
	if uni.Campus.Setting == "urban" {
		living += urbanLivingExtra
	}
	totalEUR := (tuition + living) * gbpToEUR
	gap := student.Budget.AnnualTotal.Amount - totalEUR

	switch {
	case gap >= 5000:
		return 1.0
	case gap >= 0:
		return 0.8
	case gap > -5000:
		return 0.5
	default:
		return 0.2
	}
}

func staffRatioScore(ratio *float64) float64 {
	if ratio == nil {
		return 0.6
	}
	switch {
	case *ratio <= 12:
		return 1.0
	case *ratio <= 16:
		return 0.8
	case *ratio <= 20:
		return 0.6
	default:
		return 0.4
	}
}

func englishScore(student catalog.Student, uni catalog.University) float64 {
	if uni.Admissions.EnglishMin == nil || uni.Admissions.EnglishMin.IELTSOverall == nil {
		return 0.7
	}
	if student.Academics.English.Score == nil {
		return 0.6
	}
	diff := *student.Academics.English.Score - *uni.Admissions.EnglishMin.IELTSOverall
	switch {
	case diff >= 0.5:
		return 1.0
	case diff >= 0.0:
		return 0.8
	case diff >= -0.5:
		return 0.6
	default:
		return 0.3
	}
}
