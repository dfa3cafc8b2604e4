// Package insights turns aggregated funnel metrics into human-readable
// recommendations. Each rule is an independent predicate over the analytics
// summary; any subset may fire, and missing data simply suppresses a rule.
package insights

import (
	"fmt"

	"github.com/jonathan/application-tracker/internal/analytics"
	"github.com/jonathan/application-tracker/internal/types"
)

// Rule thresholds.
const (
	lowResponseRate  = 20 // percent
	slowResponseDays = 14
	backlogSize      = 5
	strongSuccess    = 10 // percent
	standoutCompany  = 30 // percent group success rate
	methodGap        = 10 // percentage points
)

// Insight kinds, one per rule.
const (
	KindLowResponseRate = "low_response_rate"
	KindSlowResponses   = "slow_responses"
	KindPlannedBacklog  = "planned_backlog"
	KindStrongSuccess   = "strong_success"
	KindCompanyFocus    = "company_focus"
	KindMethodGap       = "method_gap"
)

// Insight is a single rule-generated recommendation.
type Insight struct {
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

// Generate evaluates every rule against the summary and returns the insights
// that fired, in fixed rule order. An empty or zero summary yields an empty
// list, never an error.
func Generate(s analytics.Summary) []Insight {
	var out []Insight

	appliedOrLater := 0
	for status, n := range s.FunnelCounts {
		if status.ReachedApplied() {
			appliedOrLater += n
		}
	}

	if appliedOrLater > 0 && s.ResponseRate < lowResponseRate {
		out = append(out, Insight{
			Kind: KindLowResponseRate,
			Message: fmt.Sprintf("Your response rate is %d%%. Consider tailoring your resume and cover letter more closely to each posting.",
				s.ResponseRate),
		})
	}

	if s.AvgResponseDays > slowResponseDays {
		out = append(out, Insight{
			Kind: KindSlowResponses,
			Message: fmt.Sprintf("Companies take %d days on average to respond to you. Consider following up about a week after applying.",
				s.AvgResponseDays),
		})
	}

	if planned := s.FunnelCounts[types.StatusPlanned]; planned > backlogSize {
		out = append(out, Insight{
			Kind: KindPlannedBacklog,
			Message: fmt.Sprintf("You have %d planned applications waiting. Start submitting them to keep your funnel moving.",
				planned),
		})
	}

	if s.SuccessRate > strongSuccess {
		out = append(out, Insight{
			Kind: KindStrongSuccess,
			Message: fmt.Sprintf("Your success rate is %d%%, above typical conversion. Keep doing what you're doing.",
				s.SuccessRate),
		})
	}

	for _, g := range s.CompanyBreakdown {
		if g.SuccessRate > standoutCompany {
			out = append(out, Insight{
				Kind: KindCompanyFocus,
				Message: fmt.Sprintf("%s shows a %d%% offer rate for you. Look for openings at similar companies.",
					g.Name, g.SuccessRate),
			})
			break // one standout is enough for the suggestion
		}
	}

	if insight, ok := methodGapInsight(s.MethodComparison); ok {
		out = append(out, insight)
	}

	return out
}

// methodGapInsight fires when both application methods have data and their
// success rates differ by more than the gap threshold.
func methodGapInsight(methods []analytics.MethodStat) (Insight, bool) {
	if len(methods) < 2 {
		return Insight{}, false
	}
	a, b := methods[0], methods[1]
	if a.Total == 0 || b.Total == 0 {
		return Insight{}, false
	}

	winner, loser := a, b
	if b.SuccessRate > a.SuccessRate {
		winner, loser = b, a
	}
	if winner.SuccessRate-loser.SuccessRate <= methodGap {
		return Insight{}, false
	}

	return Insight{
		Kind: KindMethodGap,
		Message: fmt.Sprintf("Applications via %s outperform %s by %d points. Prefer that method where you can.",
			methodLabel(winner.Method), methodLabel(loser.Method), winner.SuccessRate-loser.SuccessRate),
	}, true
}

func methodLabel(method string) string {
	switch method {
	case analytics.MethodJobPosting:
		return "saved job postings"
	case analytics.MethodManual:
		return "manual entry"
	}
	return method
}
