package analytics

import (
	"math/rand"
	"reflect"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/jonathan/application-tracker/internal/types"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func app(company, title string, status types.Status, created time.Time) types.ApplicationWithMetric {
	a := types.Application{
		ID:        uuid.New(),
		OwnerID:   uuid.New(),
		JobTitle:  title,
		Company:   company,
		Status:    status,
		CreatedAt: created,
	}
	if status.ReachedApplied() {
		applied := created.AddDate(0, 0, 1)
		a.AppliedAt = &applied
	}
	return types.ApplicationWithMetric{Application: a}
}

func withHours(p types.ApplicationWithMetric, hours int) types.ApplicationWithMetric {
	p.Metric = &types.ApplicationMetric{
		ID:                  uuid.New(),
		ApplicationID:       p.Application.ID,
		ResponseReceived:    true,
		TimeToResponseHours: &hours,
	}
	return p
}

func withPosting(p types.ApplicationWithMetric) types.ApplicationWithMetric {
	id := uuid.New()
	p.Application.JobPostingID = &id
	return p
}

func TestAggregateEmpty(t *testing.T) {
	s := Aggregate(nil, date(2024, time.June, 15))

	if s.TotalApplications != 0 {
		t.Errorf("TotalApplications = %d, expected 0", s.TotalApplications)
	}
	if s.ResponseRate != 0 || s.SuccessRate != 0 || s.AvgResponseDays != 0 {
		t.Errorf("rates = (%d, %d, %d), expected all 0", s.ResponseRate, s.SuccessRate, s.AvgResponseDays)
	}
	if len(s.CompanyBreakdown) != 0 || len(s.TitleBreakdown) != 0 {
		t.Error("breakdowns should be empty for empty input")
	}
	if len(s.TimeSeries) != TimeSeriesMonths {
		t.Errorf("TimeSeries has %d buckets, expected %d", len(s.TimeSeries), TimeSeriesMonths)
	}
	for _, b := range s.TimeSeries {
		if b.Count != 0 {
			t.Errorf("bucket %s count = %d, expected 0", b.Label, b.Count)
		}
	}
}

// Scenario: five applications to Acme (2 offers, 1 interview, 2 rejected)
// and one to Globex. Acme reports successRate=40, responseRate=60; Globex is
// filtered out as a single-application group.
func TestCompanyBreakdownScenario(t *testing.T) {
	created := date(2024, time.May, 1)
	pairs := []types.ApplicationWithMetric{
		app("Acme", "Backend Engineer", types.StatusOffer, created),
		app("Acme", "Backend Engineer", types.StatusOffer, created),
		app("Acme", "Platform Engineer", types.StatusInterview, created),
		app("Acme", "Backend Engineer", types.StatusRejected, created),
		app("Acme", "SRE", types.StatusRejected, created),
		app("Globex", "Backend Engineer", types.StatusApplied, created),
	}

	s := Aggregate(pairs, date(2024, time.June, 15))

	if len(s.CompanyBreakdown) != 1 {
		t.Fatalf("CompanyBreakdown has %d groups, expected 1 (Globex filtered): %+v", len(s.CompanyBreakdown), s.CompanyBreakdown)
	}
	acme := s.CompanyBreakdown[0]
	if acme.Name != "Acme" {
		t.Fatalf("group name = %q, expected Acme", acme.Name)
	}
	if acme.Total != 5 || acme.Offers != 2 || acme.Interviews != 1 || acme.Rejected != 2 {
		t.Errorf("Acme counts = %+v, expected total=5 offers=2 interviews=1 rejected=2", acme)
	}
	if acme.SuccessRate != 40 {
		t.Errorf("Acme success rate = %d, expected 40", acme.SuccessRate)
	}
	if acme.ResponseRate != 60 {
		t.Errorf("Acme response rate = %d, expected 60", acme.ResponseRate)
	}
}

func TestOverallRates(t *testing.T) {
	created := date(2024, time.May, 1)
	pairs := []types.ApplicationWithMetric{
		app("Acme", "Backend Engineer", types.StatusPlanned, created), // not in denominator
		app("Acme", "Backend Engineer", types.StatusApplied, created),
		app("Acme", "Backend Engineer", types.StatusInterview, created),
		app("Acme", "Backend Engineer", types.StatusOffer, created),
		app("Acme", "Backend Engineer", types.StatusRejected, created),
	}

	s := Aggregate(pairs, date(2024, time.June, 15))

	// 2 responded (interview+offer) out of 4 applied-or-later
	if s.ResponseRate != 50 {
		t.Errorf("ResponseRate = %d, expected 50", s.ResponseRate)
	}
	// 1 offer out of 4 applied-or-later
	if s.SuccessRate != 25 {
		t.Errorf("SuccessRate = %d, expected 25", s.SuccessRate)
	}
	if s.FunnelCounts[types.StatusPlanned] != 1 || s.FunnelCounts[types.StatusOffer] != 1 {
		t.Errorf("FunnelCounts = %v", s.FunnelCounts)
	}
}

func TestRatesZeroWithoutDenominator(t *testing.T) {
	created := date(2024, time.May, 1)
	pairs := []types.ApplicationWithMetric{
		app("Acme", "Backend Engineer", types.StatusPlanned, created),
		app("Globex", "Backend Engineer", types.StatusPlanned, created),
	}

	s := Aggregate(pairs, date(2024, time.June, 15))
	if s.ResponseRate != 0 || s.SuccessRate != 0 {
		t.Errorf("rates = (%d, %d), expected (0, 0) when nothing applied", s.ResponseRate, s.SuccessRate)
	}
}

func TestRatesBounded(t *testing.T) {
	created := date(2024, time.May, 1)
	statuses := []types.Status{types.StatusPlanned, types.StatusApplied, types.StatusInterview, types.StatusOffer, types.StatusRejected}
	var pairs []types.ApplicationWithMetric
	for i := 0; i < 50; i++ {
		pairs = append(pairs, app("Acme", "Engineer", statuses[i%len(statuses)], created))
	}

	s := Aggregate(pairs, date(2024, time.June, 15))
	for name, v := range map[string]int{"response": s.ResponseRate, "success": s.SuccessRate} {
		if v < 0 || v > 100 {
			t.Errorf("%s rate %d outside [0, 100]", name, v)
		}
	}
}

func TestAvgResponseDays(t *testing.T) {
	created := date(2024, time.May, 1)
	pairs := []types.ApplicationWithMetric{
		withHours(app("Acme", "Backend Engineer", types.StatusInterview, created), 192), // 8 days
		withHours(app("Globex", "Backend Engineer", types.StatusRejected, created), 48), // 2 days
		app("Initech", "Backend Engineer", types.StatusApplied, created),                // no sample
	}

	s := Aggregate(pairs, date(2024, time.June, 15))
	if s.AvgResponseDays != 5 {
		t.Errorf("AvgResponseDays = %d, expected 5", s.AvgResponseDays)
	}
}

func TestGroupsBelowMinimumNeverAppear(t *testing.T) {
	created := date(2024, time.May, 1)
	var pairs []types.ApplicationWithMetric
	for _, company := range []string{"A", "B", "C", "D"} {
		pairs = append(pairs, app(company, "Engineer", types.StatusOffer, created))
	}
	pairs = append(pairs, app("E", "Engineer", types.StatusOffer, created))
	pairs = append(pairs, app("E", "Engineer", types.StatusRejected, created))

	s := Aggregate(pairs, date(2024, time.June, 15))
	for _, g := range s.CompanyBreakdown {
		if g.Total < MinGroupSize {
			t.Errorf("group %q with total %d below minimum appeared", g.Name, g.Total)
		}
	}
	if len(s.CompanyBreakdown) != 1 || s.CompanyBreakdown[0].Name != "E" {
		t.Errorf("CompanyBreakdown = %+v, expected only group E", s.CompanyBreakdown)
	}
}

func TestMethodComparison(t *testing.T) {
	created := date(2024, time.May, 1)
	pairs := []types.ApplicationWithMetric{
		withPosting(app("Acme", "Engineer", types.StatusOffer, created)),
		withPosting(app("Acme", "Engineer", types.StatusRejected, created)),
		app("Globex", "Engineer", types.StatusApplied, created),
		app("Globex", "Engineer", types.StatusInterview, created),
		app("Globex", "Engineer", types.StatusApplied, created),
		app("Globex", "Engineer", types.StatusApplied, created),
	}

	s := Aggregate(pairs, date(2024, time.June, 15))
	if len(s.MethodComparison) != 2 {
		t.Fatalf("MethodComparison has %d entries, expected 2", len(s.MethodComparison))
	}

	byMethod := map[string]MethodStat{}
	for _, m := range s.MethodComparison {
		byMethod[m.Method] = m
	}

	linked := byMethod[MethodJobPosting]
	if linked.Total != 2 || linked.SuccessRate != 50 || linked.ResponseRate != 50 {
		t.Errorf("linked = %+v, expected total=2 success=50 response=50", linked)
	}
	manual := byMethod[MethodManual]
	if manual.Total != 4 || manual.SuccessRate != 0 || manual.ResponseRate != 25 {
		t.Errorf("manual = %+v, expected total=4 success=0 response=25", manual)
	}
}

func TestTimeSeriesBuckets(t *testing.T) {
	pairs := []types.ApplicationWithMetric{
		app("Acme", "Engineer", types.StatusApplied, date(2024, time.June, 3)),
		app("Acme", "Engineer", types.StatusApplied, date(2024, time.June, 28)),
		app("Acme", "Engineer", types.StatusApplied, date(2024, time.April, 10)),
		app("Acme", "Engineer", types.StatusApplied, date(2023, time.June, 10)), // outside window
	}

	s := Aggregate(pairs, date(2024, time.June, 15))
	if len(s.TimeSeries) != TimeSeriesMonths {
		t.Fatalf("TimeSeries has %d buckets, expected %d", len(s.TimeSeries), TimeSeriesMonths)
	}

	last := s.TimeSeries[len(s.TimeSeries)-1]
	if last.Label != "Jun 2024" || last.Count != 2 {
		t.Errorf("last bucket = %+v, expected Jun 2024 with count 2", last)
	}

	var april TimeBucket
	for _, b := range s.TimeSeries {
		if b.Label == "Apr 2024" {
			april = b
		}
	}
	if april.Count != 1 {
		t.Errorf("Apr 2024 count = %d, expected 1", april.Count)
	}
}

func TestAggregateOrderIndependent(t *testing.T) {
	created := date(2024, time.May, 1)
	pairs := []types.ApplicationWithMetric{
		withHours(app("Acme", "Backend Engineer", types.StatusOffer, created), 100),
		app("Acme", "Backend Engineer", types.StatusRejected, created),
		withPosting(app("Globex", "SRE", types.StatusInterview, created.AddDate(0, 1, 0))),
		app("Globex", "SRE", types.StatusApplied, created.AddDate(0, 1, 0)),
		app("Initech", "Backend Engineer", types.StatusPlanned, created),
	}
	now := date(2024, time.June, 15)

	want := Aggregate(pairs, now)

	rng := rand.New(rand.NewSource(42))
	for i := 0; i < 10; i++ {
		shuffled := make([]types.ApplicationWithMetric, len(pairs))
		copy(shuffled, pairs)
		rng.Shuffle(len(shuffled), func(a, b int) { shuffled[a], shuffled[b] = shuffled[b], shuffled[a] })

		got := Aggregate(shuffled, now)
		if !reflect.DeepEqual(got, want) {
			t.Fatalf("Aggregate not order-independent:\ngot  %+v\nwant %+v", got, want)
		}
	}
}
