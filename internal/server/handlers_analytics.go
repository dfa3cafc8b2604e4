package server

import (
	"net/http"
	"time"

	"github.com/jonathan/application-tracker/internal/analytics"
	"github.com/jonathan/application-tracker/internal/insights"
	"github.com/jonathan/application-tracker/internal/server/middleware"
)

// InsightsResponse represents the response for generated insights
type InsightsResponse struct {
	Insights []insights.Insight `json:"insights"`
	Count    int                `json:"count"`
}

// handleAnalytics computes the funnel summary over the owner's live
// applications. The aggregation is a pure function of the snapshot, so an
// empty account returns zeros rather than an error.
func (s *Server) handleAnalytics(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.GetUserID(r)
	if err != nil {
		s.errorResponse(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	pairs, err := s.db.ListApplicationsWithMetrics(r.Context(), userID)
	if err != nil {
		s.errorFor(w, err)
		return
	}

	summary := analytics.Aggregate(pairs, time.Now().UTC())
	s.jsonResponse(w, http.StatusOK, summary)
}

// handleInsights runs the insight rules over the owner's funnel summary.
func (s *Server) handleInsights(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.GetUserID(r)
	if err != nil {
		s.errorResponse(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	pairs, err := s.db.ListApplicationsWithMetrics(r.Context(), userID)
	if err != nil {
		s.errorFor(w, err)
		return
	}

	summary := analytics.Aggregate(pairs, time.Now().UTC())
	items := insights.Generate(summary)
	s.jsonResponse(w, http.StatusOK, InsightsResponse{
		Insights: items,
		Count:    len(items),
	})
}
