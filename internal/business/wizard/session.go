package wizard

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"sync"
	"time"

	"github.com/valora-mx/estimator-api/pkg/model"
	"github.com/valora-mx/estimator-api/pkg/util"
)

// Step identifies the wizard position. Progression is linear; only
// StepContactInfo supports going back.
type Step int

const (
	StepPropertyDetails Step = iota + 1
	StepContactInfo
	StepResults
)

var (
	// ErrWrongStep is returned when an operation is attempted outside the
	// step it belongs to.
	ErrWrongStep = errors.New("operation not allowed in the current step")
)

// ValidationError reports the first failing step-gate condition. It carries
// the offending field and never changes session state.
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Session is the per-user wizard state. All mutation goes through its
// methods; each takes the session lock, so a session handles one request at
// a time.
type Session struct {
	mu sync.Mutex

	ID          string
	CurrentStep Step
	Property    model.PropertyInput
	Geo         *model.GeoLocation
	Suggestions []string
	Contact     model.ContactInfo
	Result      *model.PriceEstimate
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func newSession(id string) *Session {
	now := time.Now().UTC()
	return &Session{
		ID:          id,
		CurrentStep: StepPropertyDetails,
		Property:    model.PropertyInput{PropertyType: model.PropertyHouse},
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// PropertyUpdate carries the step-1 fields from the API.
type PropertyUpdate struct {
	PropertyType string  `json:"propertyType"`
	Address      string  `json:"address"`
	LandAreaM2   int     `json:"landAreaM2"`
	BuiltAreaM2  int     `json:"builtAreaM2"`
	Bedrooms     int     `json:"bedrooms"`
	Bathrooms    float64 `json:"bathrooms"`
}

// ContactUpdate carries the step-2 fields from the API.
type ContactUpdate struct {
	FirstName     string `json:"firstName"`
	LastName      string `json:"lastName"`
	Email         string `json:"email"`
	Phone         string `json:"phone"`
	InterestLevel int    `json:"interestLevel"`
}

// UpdateProperty mutates the step-1 fields. Allowed only while on step 1;
// property facts are read-only once the wizard has produced a result.
func (s *Session) UpdateProperty(u PropertyUpdate) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.CurrentStep != StepPropertyDetails {
		return ErrWrongStep
	}

	propertyType, err := model.ParsePropertyType(u.PropertyType)
	if err != nil {
		return &ValidationError{Field: "propertyType", Message: err.Error()}
	}
	if u.LandAreaM2 < 0 {
		return &ValidationError{Field: "landAreaM2", Message: "must not be negative"}
	}
	if u.BuiltAreaM2 < 0 {
		return &ValidationError{Field: "builtAreaM2", Message: "must not be negative"}
	}
	if u.Bedrooms < 0 {
		return &ValidationError{Field: "bedrooms", Message: "must not be negative"}
	}
	if u.Bathrooms < 0 {
		return &ValidationError{Field: "bathrooms", Message: "must not be negative"}
	}
	if math.Mod(u.Bathrooms*2, 1) != 0 {
		return &ValidationError{Field: "bathrooms", Message: "must be in 0.5 increments"}
	}

	address := util.NormalizeAddress(u.Address)
	if address != s.Property.Address {
		// A different address invalidates the previous resolution.
		s.Geo = nil
		s.Suggestions = nil
	}

	s.Property = model.PropertyInput{
		PropertyType: propertyType,
		Address:      address,
		LandAreaM2:   u.LandAreaM2,
		BuiltAreaM2:  u.BuiltAreaM2,
		Bedrooms:     u.Bedrooms,
		Bathrooms:    u.Bathrooms,
	}
	s.touch()
	return nil
}

// SetSuggestions stores the latest address completions for display.
func (s *Session) SetSuggestions(suggestions []string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Suggestions = suggestions
	s.touch()
}

// SelectAddress records the chosen address and its resolution outcome. A nil
// geo overwrites any previous resolution: selecting an unresolvable address
// leaves the session unresolved.
func (s *Session) SelectAddress(address string, geo *model.GeoLocation) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.CurrentStep != StepPropertyDetails {
		return ErrWrongStep
	}
	s.Property.Address = util.NormalizeAddress(address)
	s.Geo = geo
	s.touch()
	return nil
}

// UpdateContact mutates the step-2 fields. Full validation happens at the
// step gate; here only normalization and enum parsing apply.
func (s *Session) UpdateContact(u ContactUpdate) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.CurrentStep != StepContactInfo {
		return ErrWrongStep
	}

	contact := model.ContactInfo{
		FirstName: util.NormalizeName(u.FirstName),
		LastName:  util.NormalizeName(u.LastName),
		Email:     strings.TrimSpace(u.Email),
		Phone:     util.NormalizePhone(u.Phone),
	}
	if u.InterestLevel != 0 {
		level, err := model.ParseInterestLevel(u.InterestLevel)
		if err != nil {
			return &ValidationError{Field: "interestLevel", Message: err.Error()}
		}
		contact.InterestLevel = level
	}
	s.Contact = contact
	s.touch()
	return nil
}

// Next advances the wizard one step if the current step's gate passes. It
// returns the step the session ends up on. A *ValidationError leaves the
// session exactly where it was. Step 3 is terminal: advancing from it is
// ErrWrongStep.
func (s *Session) Next() (Step, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch s.CurrentStep {
	case StepPropertyDetails:
		if verr := s.propertyGate(); verr != nil {
			return s.CurrentStep, verr
		}
		s.CurrentStep = StepContactInfo
	case StepContactInfo:
		if verr := s.contactGate(); verr != nil {
			return s.CurrentStep, verr
		}
		s.CurrentStep = StepResults
	default:
		return s.CurrentStep, ErrWrongStep
	}
	s.touch()
	return s.CurrentStep, nil
}

func (s *Session) propertyGate() *ValidationError {
	if s.Geo == nil {
		return &ValidationError{Field: "address", Message: "select an address that can be located"}
	}
	if s.Property.LandAreaM2 <= 0 {
		return &ValidationError{Field: "landAreaM2", Message: "enter the land area"}
	}
	if s.Property.BuiltAreaM2 <= 0 {
		return &ValidationError{Field: "builtAreaM2", Message: "enter the built area"}
	}
	if s.Property.Bedrooms <= 0 {
		return &ValidationError{Field: "bedrooms", Message: "enter the number of bedrooms"}
	}
	if s.Property.Bathrooms <= 0 {
		return &ValidationError{Field: "bathrooms", Message: "enter the number of bathrooms"}
	}
	return nil
}

func (s *Session) contactGate() *ValidationError {
	if s.Contact.FirstName == "" {
		return &ValidationError{Field: "firstName", Message: "enter your first name"}
	}
	if s.Contact.LastName == "" {
		return &ValidationError{Field: "lastName", Message: "enter your last name"}
	}
	if !IsValidEmail(s.Contact.Email) {
		return &ValidationError{Field: "email", Message: "enter a valid email address"}
	}
	if !IsValidPhone(s.Contact.Phone) {
		return &ValidationError{Field: "phone", Message: "enter a valid phone number"}
	}
	if !s.Contact.InterestLevel.Valid() {
		return &ValidationError{Field: "interestLevel", Message: "select your interest level"}
	}
	return nil
}

// AbortResults returns a session to the contact step after the estimation
// pipeline failed, so the user can retry. Only valid from step 3.
func (s *Session) AbortResults() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.CurrentStep != StepResults {
		return ErrWrongStep
	}
	s.CurrentStep = StepContactInfo
	s.Result = nil
	s.touch()
	return nil
}

// Back returns to the property-details step. Only valid from step 2.
func (s *Session) Back() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.CurrentStep != StepContactInfo {
		return ErrWrongStep
	}
	s.CurrentStep = StepPropertyDetails
	s.touch()
	return nil
}

// Reset wipes every field back to its initial default, keeping only the
// session ID. This is the "new estimation" action, not a back-transition.
func (s *Session) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()

	fresh := newSession(s.ID)
	s.CurrentStep = fresh.CurrentStep
	s.Property = fresh.Property
	s.Geo = nil
	s.Suggestions = nil
	s.Contact = model.ContactInfo{}
	s.Result = nil
	s.UpdatedAt = fresh.UpdatedAt
}

// SetResult stores the computed estimate. Valid only on the results step.
func (s *Session) SetResult(est model.PriceEstimate) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.CurrentStep != StepResults {
		return ErrWrongStep
	}
	s.Result = &est
	s.touch()
	return nil
}

// Snapshot is a lock-consistent copy of the session for rendering.
type Snapshot struct {
	ID          string               `json:"id"`
	CurrentStep Step                 `json:"currentStep"`
	Property    model.PropertyInput  `json:"property"`
	Geo         *model.GeoLocation   `json:"geo,omitempty"`
	Suggestions []string             `json:"suggestions,omitempty"`
	Contact     model.ContactInfo    `json:"contact"`
	Result      *model.PriceEstimate `json:"result,omitempty"`
}

// View returns a snapshot safe to serialize outside the lock.
func (s *Session) View() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := Snapshot{
		ID:          s.ID,
		CurrentStep: s.CurrentStep,
		Property:    s.Property,
		Contact:     s.Contact,
		Suggestions: append([]string(nil), s.Suggestions...),
	}
	if s.Geo != nil {
		geo := *s.Geo
		snap.Geo = &geo
	}
	if s.Result != nil {
		result := *s.Result
		snap.Result = &result
	}
	return snap
}

func (s *Session) touch() {
	s.UpdatedAt = time.Now().UTC()
}
