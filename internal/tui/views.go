package tui

import (
	"fmt"
	"strings"

	"github.com/mayeul-docq/univia/internal/model/survey"
)

// Tier buckets a hybrid score for display.
type Tier string

const (
	TierOK   Tier = "ok"
	TierWarn Tier = "warn"
	TierBad  Tier = "bad"
)

// TierFor classifies a hybrid score: ok at 0.8 and above, warn at 0.6 and
// above, bad below.
func TierFor(hybrid float64) Tier {
	switch {
	case hybrid >= 0.8:
		return TierOK
	case hybrid >= 0.6:
		return TierWarn
	default:
		return TierBad
	}
}

func (th Theme) tierStyle(t Tier) func(...string) string {
	switch t {
	case TierOK:
		return th.TierOK.Render
	case TierWarn:
		return th.TierWarn.Render
	default:
		return th.TierBad.Render
	}
}

// renderScoreBlock formats the score lines for one university card. A
// university without a score entry shows dashes and classifies as a zero
// hybrid.
func renderScoreBlock(th Theme, st *survey.StateSnapshot, uniID string) string {
	hybrid := 0.0
	soft, pref := "-", "-"
	if st != nil {
		if sc, ok := st.Scores[uniID]; ok {
			hybrid = sc.Hybrid
			soft = fmt.Sprintf("%.2f", sc.SoftFit)
			pref = fmt.Sprintf("%.0f", sc.Pref)
		}
	}
	tier := TierFor(hybrid)
	var b strings.Builder
	b.WriteString(th.tierStyle(tier)(fmt.Sprintf("hybrid %.2f [%s]", hybrid, tier)))
	b.WriteString("\n")
	b.WriteString(th.Muted.Render(fmt.Sprintf("soft fit %s   pref %s", soft, pref)))
	return b.String()
}

// renderRanking formats the ranking panel: a 1-based enumerated list of
// "id — score" lines with three decimals, plus a stop marker once the
// survey has converged.
func renderRanking(th Theme, entries []survey.RankingEntry, stop bool) string {
	var b strings.Builder
	b.WriteString(th.RankingHeader.Render("Ranking"))
	b.WriteString("\n")
	if len(entries) == 0 {
		b.WriteString(th.Muted.Render("no ranking yet"))
		return b.String()
	}
	for i, e := range entries {
		b.WriteString(fmt.Sprintf("%d. %s — %.3f", i+1, e.UniID, e.Score))
		b.WriteString("\n")
	}
	if stop {
		b.WriteString(th.StopMarker.Render("stopping confidence reached"))
	} else {
		b.WriteString(th.Muted.Render("still exploring"))
	}
	return b.String()
}

// renderStatusLine summarizes session progress under the header.
func renderStatusLine(th Theme, st *survey.StateSnapshot) string {
	if st == nil {
		return th.Muted.Render("waiting for first state")
	}
	parts := []string{
		fmt.Sprintf("seen %d", st.SeenCount),
		fmt.Sprintf("confident %d", len(st.ConfidentUnis)),
	}
	if len(st.Shortlist) > 0 {
		parts = append(parts, fmt.Sprintf("shortlist %d", len(st.Shortlist)))
	}
	if st.ShouldStop {
		parts = append(parts, "ready to stop")
	}
	return th.Muted.Render(strings.Join(parts, "   "))
}
