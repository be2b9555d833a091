package model

import (
	"fmt"
	"time"
)

// PropertyType selects which pretrained model bundle is used: houses are
// priced for sale, apartments for monthly rent.
type PropertyType string

const (
	PropertyHouse     PropertyType = "House"
	PropertyApartment PropertyType = "Apartment"
)

// ParsePropertyType validates a raw string coming in over the API.
func ParsePropertyType(s string) (PropertyType, error) {
	switch PropertyType(s) {
	case PropertyHouse, PropertyApartment:
		return PropertyType(s), nil
	}
	return "", fmt.Errorf("unknown property type %q", s)
}

// PropertyInput collects the step-1 facts about a property.
type PropertyInput struct {
	PropertyType PropertyType `json:"propertyType,omitempty" firestore:"propertyType,omitempty"`
	Address      string       `json:"address,omitempty" firestore:"address,omitempty"`
	LandAreaM2   int          `json:"landAreaM2,omitempty" firestore:"landAreaM2,omitempty"`
	BuiltAreaM2  int          `json:"builtAreaM2,omitempty" firestore:"builtAreaM2,omitempty"`
	Bedrooms     int          `json:"bedrooms,omitempty" firestore:"bedrooms,omitempty"`
	Bathrooms    float64      `json:"bathrooms,omitempty" firestore:"bathrooms,omitempty"` // 0.5 increments
}

// GeoLocation is a resolved coordinate pair for the selected address.
// A nil *GeoLocation means the address is unresolved.
type GeoLocation struct {
	Latitude        float64 `json:"latitude" firestore:"latitude"`
	Longitude       float64 `json:"longitude" firestore:"longitude"`
	ResolvedAddress string  `json:"resolvedAddress,omitempty" firestore:"resolvedAddress,omitempty"`
}

// InterestLevel is the 5-point sell/rent urgency scale from step 2.
type InterestLevel int

const (
	InterestCurious InterestLevel = iota + 1
	InterestMaybeLater
	InterestNoRush
	InterestActive
	InterestUrgent
)

var interestLabels = map[InterestLevel]string{
	InterestCurious:    "Just exploring the value out of curiosity",
	InterestMaybeLater: "Might consider selling/renting in the future",
	InterestNoRush:     "Interested in selling/renting, but in no rush",
	InterestActive:     "Actively looking to sell/rent",
	InterestUrgent:     "Need to sell/rent as soon as possible",
}

// Valid reports whether the level is one of the five defined steps.
func (l InterestLevel) Valid() bool {
	return l >= InterestCurious && l <= InterestUrgent
}

// Label returns the user-facing description of the level.
func (l InterestLevel) Label() string {
	return interestLabels[l]
}

// ParseInterestLevel validates a raw integer coming in over the API.
func ParseInterestLevel(v int) (InterestLevel, error) {
	l := InterestLevel(v)
	if !l.Valid() {
		return 0, fmt.Errorf("interest level must be 1..5, got %d", v)
	}
	return l, nil
}

// ContactInfo collects the step-2 contact fields.
type ContactInfo struct {
	FirstName     string        `json:"firstName,omitempty" firestore:"firstName,omitempty"`
	LastName      string        `json:"lastName,omitempty" firestore:"lastName,omitempty"`
	Email         string        `json:"email,omitempty" firestore:"email,omitempty"`
	Phone         string        `json:"phone,omitempty" firestore:"phone,omitempty"`
	InterestLevel InterestLevel `json:"interestLevel,omitempty" firestore:"interestLevel,omitempty"`
}

// FullName joins first and last name for persistence.
func (c ContactInfo) FullName() string {
	return c.FirstName + " " + c.LastName
}

// PriceEstimate is the rounded point estimate plus its confidence band.
// All three values are whole currency units (MXN).
type PriceEstimate struct {
	PointEstimate int64 `json:"pointEstimate" firestore:"pointEstimate"`
	RangeMin      int64 `json:"rangeMin" firestore:"rangeMin"`
	RangeMax      int64 `json:"rangeMax" firestore:"rangeMax"`
}

// Lead is the persisted record of one completed estimation. It becomes a
// Firestore document and one appended spreadsheet row.
type Lead struct {
	ID        string        `json:"id,omitempty" firestore:"id,omitempty"`
	CreatedAt time.Time     `json:"createdAt,omitempty" firestore:"createdAt,omitempty"`
	Property  PropertyInput `json:"property,omitempty" firestore:"property,omitempty"`
	Location  *GeoLocation  `json:"location,omitempty" firestore:"location,omitempty"`
	Contact   ContactInfo   `json:"contact,omitempty" firestore:"contact,omitempty"`
	Estimate  PriceEstimate `json:"estimate" firestore:"estimate"`
}

// LeadStats is a singleton document that pre-aggregates dashboard metrics.
type LeadStats struct {
	LastUpdated     time.Time      `json:"lastUpdated,omitempty" firestore:"lastUpdated,omitempty"`
	TotalLeads      int            `json:"totalLeads,omitempty" firestore:"totalLeads,omitempty"`
	TotalHouses     int            `json:"totalHouses,omitempty" firestore:"totalHouses,omitempty"`
	TotalApartments int            `json:"totalApartments,omitempty" firestore:"totalApartments,omitempty"`
	AvgEstimate     float64        `json:"avgEstimate,omitempty" firestore:"avgEstimate,omitempty"`
	ByInterest      map[string]int `json:"byInterest,omitempty" firestore:"byInterest,omitempty"`
}
