package repository

import (
	"context"
	"fmt"

	"cloud.google.com/go/firestore"
	"github.com/valora-mx/estimator-api/pkg/model"
	"github.com/valora-mx/estimator-api/pkg/util"
	"google.golang.org/api/iterator"
)

const leadsCollection = "leads"

// LeadRepository handles Firestore read/write for completed estimations.
type LeadRepository struct {
	client *firestore.Client
}

func NewLeadRepository(client *firestore.Client) *LeadRepository {
	return &LeadRepository{client: client}
}

// Save writes one lead document. The lead's ID becomes the document ID; a
// lead without one falls back to a hash of its email and address.
func (r *LeadRepository) Save(ctx context.Context, lead model.Lead) error {
	docID := lead.ID
	if docID == "" {
		docID = util.HashLeadKey(lead.Contact.Email, lead.Property.Address)
		lead.ID = docID
	}
	ref := r.client.Collection(leadsCollection).Doc(docID)
	if _, err := ref.Set(ctx, lead); err != nil {
		return fmt.Errorf("save lead %s: %w", docID, err)
	}
	return nil
}

// List returns the most recent leads, newest first.
func (r *LeadRepository) List(ctx context.Context, limit int) ([]model.Lead, error) {
	if limit <= 0 {
		limit = 50
	}
	iter := r.client.Collection(leadsCollection).
		OrderBy("createdAt", firestore.Desc).
		Limit(limit).
		Documents(ctx)

	var leads []model.Lead
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("iterate leads: %w", err)
		}
		var l model.Lead
		if err := doc.DataTo(&l); err != nil {
			return nil, fmt.Errorf("decode lead %s: %w", doc.Ref.ID, err)
		}
		if l.ID == "" {
			l.ID = doc.Ref.ID
		}
		leads = append(leads, l)
	}
	return leads, nil
}

// FetchAll loads every lead for stats aggregation.
func (r *LeadRepository) FetchAll(ctx context.Context) ([]model.Lead, error) {
	iter := r.client.Collection(leadsCollection).Documents(ctx)

	var leads []model.Lead
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("iterate leads: %w", err)
		}
		var l model.Lead
		if err := doc.DataTo(&l); err != nil {
			return nil, fmt.Errorf("decode lead %s: %w", doc.Ref.ID, err)
		}
		leads = append(leads, l)
	}
	return leads, nil
}
