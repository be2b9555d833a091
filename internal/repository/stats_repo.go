package repository

import (
	"context"
	"fmt"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/valora-mx/estimator-api/pkg/model"
)

// StatsRepository manages the system/stats singleton document.
type StatsRepository struct {
	client *firestore.Client
}

func NewStatsRepository(client *firestore.Client) *StatsRepository {
	return &StatsRepository{client: client}
}

func (r *StatsRepository) SaveLeadStats(ctx context.Context, stats model.LeadStats) error {
	stats.LastUpdated = time.Now().UTC()
	ref := r.client.Collection("system").Doc("stats")
	if _, err := ref.Set(ctx, stats); err != nil {
		return fmt.Errorf("save lead stats: %w", err)
	}
	return nil
}

func (r *StatsRepository) GetLeadStats(ctx context.Context) (model.LeadStats, error) {
	ref := r.client.Collection("system").Doc("stats")
	snap, err := ref.Get(ctx)
	if err != nil {
		return model.LeadStats{}, fmt.Errorf("get lead stats: %w", err)
	}
	var stats model.LeadStats
	if err := snap.DataTo(&stats); err != nil {
		return model.LeadStats{}, fmt.Errorf("decode lead stats: %w", err)
	}
	return stats, nil
}
