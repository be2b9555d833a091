package estimator

import "github.com/valora-mx/estimator-api/pkg/model"

// AggregateLeadStats reduces completed leads into dashboard stats.
func AggregateLeadStats(leads []model.Lead) model.LeadStats {
	var total, houses, apartments int
	var estimateSum float64
	byInterest := make(map[string]int)

	for _, l := range leads {
		total++
		estimateSum += float64(l.Estimate.PointEstimate)
		switch l.Property.PropertyType {
		case model.PropertyHouse:
			houses++
		case model.PropertyApartment:
			apartments++
		}
		if l.Contact.InterestLevel.Valid() {
			byInterest[l.Contact.InterestLevel.Label()]++
		}
	}

	var avg float64
	if total > 0 {
		avg = estimateSum / float64(total)
	}

	return model.LeadStats{
		TotalLeads:      total,
		TotalHouses:     houses,
		TotalApartments: apartments,
		AvgEstimate:     avg,
		ByInterest:      byInterest,
	}
}
