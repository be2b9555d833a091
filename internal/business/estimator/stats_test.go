package estimator

import (
	"math"
	"testing"

	"github.com/valora-mx/estimator-api/pkg/model"
)

func TestAggregateLeadStats(t *testing.T) {
	leads := []model.Lead{
		{
			Property: model.PropertyInput{PropertyType: model.PropertyHouse},
			Contact:  model.ContactInfo{InterestLevel: model.InterestUrgent},
			Estimate: model.PriceEstimate{PointEstimate: 1_000_000},
		},
		{
			Property: model.PropertyInput{PropertyType: model.PropertyApartment},
			Contact:  model.ContactInfo{InterestLevel: model.InterestCurious},
			Estimate: model.PriceEstimate{PointEstimate: 10_000},
		},
		{
			Property: model.PropertyInput{PropertyType: model.PropertyHouse},
			Contact:  model.ContactInfo{InterestLevel: model.InterestUrgent},
			Estimate: model.PriceEstimate{PointEstimate: 2_000_000},
		},
	}

	stats := AggregateLeadStats(leads)
	if stats.TotalLeads != 3 {
		t.Errorf("total = %d, want 3", stats.TotalLeads)
	}
	if stats.TotalHouses != 2 || stats.TotalApartments != 1 {
		t.Errorf("houses/apartments = %d/%d, want 2/1", stats.TotalHouses, stats.TotalApartments)
	}
	if math.Abs(stats.AvgEstimate-1_003_333.33) > 1 {
		t.Errorf("avg = %v, want ~1003333.33", stats.AvgEstimate)
	}
	if stats.ByInterest[model.InterestUrgent.Label()] != 2 {
		t.Errorf("urgent count = %d, want 2", stats.ByInterest[model.InterestUrgent.Label()])
	}
}

func TestAggregateLeadStatsEmpty(t *testing.T) {
	stats := AggregateLeadStats(nil)
	if stats.TotalLeads != 0 || stats.AvgEstimate != 0 {
		t.Errorf("expected zero stats, got %+v", stats)
	}
}
