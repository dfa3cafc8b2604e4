package analytics

import (
	"math"
	"sort"
	"time"

	"github.com/jonathan/application-tracker/internal/types"
)

// TimeSeriesMonths is how many monthly buckets the time series reports.
const TimeSeriesMonths = 6

// Aggregate computes the full analytics summary over a point-in-time snapshot
// of one owner's applications. The caller excludes soft-deleted rows; now
// anchors the time-series buckets. Output is identical for any permutation of
// the input.
func Aggregate(pairs []types.ApplicationWithMetric, now time.Time) Summary {
	s := Summary{
		TotalApplications: len(pairs),
		FunnelCounts:      make(map[types.Status]int),
	}

	for _, p := range pairs {
		s.FunnelCounts[p.Application.Status]++
	}

	responded := s.FunnelCounts[types.StatusInterview] + s.FunnelCounts[types.StatusOffer]
	reachedApplied := responded + s.FunnelCounts[types.StatusApplied] + s.FunnelCounts[types.StatusRejected]
	s.ResponseRate = rate(responded, reachedApplied)
	s.SuccessRate = rate(s.FunnelCounts[types.StatusOffer], reachedApplied)
	s.AvgResponseDays = avgResponseDays(pairs)

	s.CompanyBreakdown = breakdown(pairs, func(a *types.Application) string { return a.Company })
	s.TitleBreakdown = breakdown(pairs, func(a *types.Application) string { return a.JobTitle })
	s.MethodComparison = methodComparison(pairs)
	s.TimeSeries = timeSeries(pairs, now)

	return s
}

// rate returns num/denom as a whole percentage, 0 when denom is 0.
func rate(num, denom int) int {
	if denom == 0 {
		return 0
	}
	return int(math.Round(float64(num) / float64(denom) * 100))
}

// avgResponseDays averages the observed response latencies, each converted to
// whole days first. 0 when no latency has been observed yet.
func avgResponseDays(pairs []types.ApplicationWithMetric) int {
	var sum, count int
	for _, p := range pairs {
		if p.Metric == nil || p.Metric.TimeToResponseHours == nil {
			continue
		}
		sum += *p.Metric.TimeToResponseHours / 24
		count++
	}
	if count == 0 {
		return 0
	}
	return int(math.Round(float64(sum) / float64(count)))
}

// breakdown groups applications by key and reports per-group outcomes.
// Groups below MinGroupSize are dropped, the rest sorted by success rate
// descending (ties by size, then name, keeping the order deterministic) and
// capped at MaxGroups.
func breakdown(pairs []types.ApplicationWithMetric, key func(*types.Application) string) []GroupStat {
	groups := make(map[string]*GroupStat)
	for i := range pairs {
		app := &pairs[i].Application
		name := key(app)
		g, ok := groups[name]
		if !ok {
			g = &GroupStat{Name: name}
			groups[name] = g
		}
		g.Total++
		switch app.Status {
		case types.StatusOffer:
			g.Offers++
		case types.StatusInterview:
			g.Interviews++
		case types.StatusRejected:
			g.Rejected++
		}
	}

	var out []GroupStat
	for _, g := range groups {
		if g.Total < MinGroupSize {
			continue
		}
		g.SuccessRate = rate(g.Offers, g.Total)
		g.ResponseRate = rate(g.Offers+g.Interviews, g.Total)
		out = append(out, *g)
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].SuccessRate != out[j].SuccessRate {
			return out[i].SuccessRate > out[j].SuccessRate
		}
		if out[i].Total != out[j].Total {
			return out[i].Total > out[j].Total
		}
		return out[i].Name < out[j].Name
	})

	if len(out) > MaxGroups {
		out = out[:MaxGroups]
	}
	return out
}

// methodComparison partitions applications into posting-linked vs manual and
// computes the same rate pair for each partition.
func methodComparison(pairs []types.ApplicationWithMetric) []MethodStat {
	linked := MethodStat{Method: MethodJobPosting}
	manual := MethodStat{Method: MethodManual}
	var linkedOffers, linkedResponded, manualOffers, manualResponded int

	for _, p := range pairs {
		app := p.Application
		target := &manual
		offers, responded := &manualOffers, &manualResponded
		if app.JobPostingID != nil {
			target = &linked
			offers, responded = &linkedOffers, &linkedResponded
		}
		target.Total++
		if app.Status == types.StatusOffer {
			*offers++
		}
		if app.Status.Responded() {
			*responded++
		}
	}

	linked.SuccessRate = rate(linkedOffers, linked.Total)
	linked.ResponseRate = rate(linkedResponded, linked.Total)
	manual.SuccessRate = rate(manualOffers, manual.Total)
	manual.ResponseRate = rate(manualResponded, manual.Total)

	return []MethodStat{linked, manual}
}

// timeSeries counts applications created per calendar month over the
// TimeSeriesMonths most recent buckets, oldest first, anchored at now.
func timeSeries(pairs []types.ApplicationWithMetric, now time.Time) []TimeBucket {
	buckets := make([]TimeBucket, 0, TimeSeriesMonths)
	counts := make(map[string]int)

	for _, p := range pairs {
		created := p.Application.CreatedAt.UTC()
		counts[created.Format("2006-01")]++
	}

	anchor := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	for i := TimeSeriesMonths - 1; i >= 0; i-- {
		month := anchor.AddDate(0, -i, 0)
		buckets = append(buckets, TimeBucket{
			Label: month.Format("Jan 2006"),
			Year:  month.Year(),
			Month: month.Month(),
			Count: counts[month.Format("2006-01")],
		})
	}
	return buckets
}
