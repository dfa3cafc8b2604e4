// Package analytics computes derived funnel metrics over an owner's full
// application set. Everything here is a pure function of its input snapshot:
// no storage access, no errors, zeros and empty lists for missing data.
package analytics

import (
	"time"

	"github.com/jonathan/application-tracker/internal/types"
)

// MaxGroups caps how many breakdown groups are reported.
const MaxGroups = 10

// MinGroupSize is the statistical-noise filter: groups with fewer
// applications than this are dropped from breakdowns.
const MinGroupSize = 2

// Method labels for the linked-vs-manual comparison.
const (
	MethodJobPosting = "job_posting"
	MethodManual     = "manual"
)

// Summary is the aggregated view of one owner's applications.
type Summary struct {
	TotalApplications int                  `json:"total_applications"`
	FunnelCounts      map[types.Status]int `json:"funnel_counts"`
	ResponseRate      int                  `json:"response_rate"`
	SuccessRate       int                  `json:"success_rate"`
	AvgResponseDays   int                  `json:"avg_response_days"`
	CompanyBreakdown  []GroupStat          `json:"company_breakdown"`
	TitleBreakdown    []GroupStat          `json:"title_breakdown"`
	MethodComparison  []MethodStat         `json:"method_comparison"`
	TimeSeries        []TimeBucket         `json:"time_series"`
}

// GroupStat holds the per-group funnel outcome for a company or job title.
type GroupStat struct {
	Name         string `json:"name"`
	Total        int    `json:"total"`
	Offers       int    `json:"offers"`
	Interviews   int    `json:"interviews"`
	Rejected     int    `json:"rejected"`
	SuccessRate  int    `json:"success_rate"`
	ResponseRate int    `json:"response_rate"`
}

// MethodStat compares outcomes between posting-linked and manual applications.
type MethodStat struct {
	Method       string `json:"method"`
	Total        int    `json:"total"`
	SuccessRate  int    `json:"success_rate"`
	ResponseRate int    `json:"response_rate"`
}

// TimeBucket is one calendar month of application volume.
type TimeBucket struct {
	Label string     `json:"label"`
	Year  int        `json:"year"`
	Month time.Month `json:"month"`
	Count int        `json:"count"`
}
