package wizard

import (
	"errors"
	"testing"

	"github.com/valora-mx/estimator-api/pkg/model"
)

func completeStepOne(t *testing.T, s *Session) {
	t.Helper()
	if err := s.UpdateProperty(PropertyUpdate{
		PropertyType: "House",
		Address:      "Calle Principal 123",
		LandAreaM2:   200,
		BuiltAreaM2:  150,
		Bedrooms:     3,
		Bathrooms:    2.5,
	}); err != nil {
		t.Fatalf("UpdateProperty: %v", err)
	}
	if err := s.SelectAddress("Calle Principal 123, CDMX", &model.GeoLocation{
		Latitude: 19.43, Longitude: -99.13, ResolvedAddress: "Calle Principal 123, CDMX",
	}); err != nil {
		t.Fatalf("SelectAddress: %v", err)
	}
}

func completeStepTwo(t *testing.T, s *Session) {
	t.Helper()
	if err := s.UpdateContact(ContactUpdate{
		FirstName:     "Ana",
		LastName:      "García",
		Email:         "ana@example.com",
		Phone:         "+529214447277",
		InterestLevel: 4,
	}); err != nil {
		t.Fatalf("UpdateContact: %v", err)
	}
}

func TestSessionHappyPath(t *testing.T) {
	s := NewStore().Create()
	if s.View().CurrentStep != StepPropertyDetails {
		t.Fatal("new session should start at step 1")
	}

	completeStepOne(t, s)
	step, err := s.Next()
	if err != nil {
		t.Fatalf("step1 Next: %v", err)
	}
	if step != StepContactInfo {
		t.Fatalf("expected step 2, got %d", step)
	}

	completeStepTwo(t, s)
	step, err = s.Next()
	if err != nil {
		t.Fatalf("step2 Next: %v", err)
	}
	if step != StepResults {
		t.Fatalf("expected step 3, got %d", step)
	}

	if err := s.SetResult(model.PriceEstimate{PointEstimate: 630_000, RangeMin: 599_000, RangeMax: 672_000}); err != nil {
		t.Fatalf("SetResult: %v", err)
	}
	if got := s.View().Result; got == nil || got.PointEstimate != 630_000 {
		t.Fatalf("unexpected result: %+v", got)
	}
}

func TestStepOneGateRefusals(t *testing.T) {
	base := PropertyUpdate{
		PropertyType: "House",
		Address:      "Calle Principal 123",
		LandAreaM2:   200,
		BuiltAreaM2:  150,
		Bedrooms:     3,
		Bathrooms:    2.5,
	}
	tests := []struct {
		name      string
		mutate    func(*PropertyUpdate)
		resolve   bool
		wantField string
	}{
		{"unresolved address", func(u *PropertyUpdate) {}, false, "address"},
		{"zero land area", func(u *PropertyUpdate) { u.LandAreaM2 = 0 }, true, "landAreaM2"},
		{"zero built area", func(u *PropertyUpdate) { u.BuiltAreaM2 = 0 }, true, "builtAreaM2"},
		{"zero bedrooms", func(u *PropertyUpdate) { u.Bedrooms = 0 }, true, "bedrooms"},
		{"zero bathrooms", func(u *PropertyUpdate) { u.Bathrooms = 0 }, true, "bathrooms"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewStore().Create()
			u := base
			tt.mutate(&u)
			if err := s.UpdateProperty(u); err != nil {
				t.Fatalf("UpdateProperty: %v", err)
			}
			if tt.resolve {
				if err := s.SelectAddress(u.Address, &model.GeoLocation{Latitude: 19.4, Longitude: -99.1}); err != nil {
					t.Fatalf("SelectAddress: %v", err)
				}
			}

			step, err := s.Next()
			var verr *ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("expected ValidationError, got %v", err)
			}
			if verr.Field != tt.wantField {
				t.Errorf("failing field = %s, want %s", verr.Field, tt.wantField)
			}
			if step != StepPropertyDetails || s.View().CurrentStep != StepPropertyDetails {
				t.Error("refused transition must not change the step")
			}
		})
	}
}

func TestStepTwoGateReportsFirstFailure(t *testing.T) {
	base := ContactUpdate{
		FirstName:     "Ana",
		LastName:      "García",
		Email:         "ana@example.com",
		Phone:         "+529214447277",
		InterestLevel: 3,
	}
	tests := []struct {
		name      string
		mutate    func(*ContactUpdate)
		wantField string
	}{
		{"missing first name", func(u *ContactUpdate) { u.FirstName = "" }, "firstName"},
		{"missing last name", func(u *ContactUpdate) { u.LastName = "" }, "lastName"},
		{"bad email", func(u *ContactUpdate) { u.Email = "not-an-email" }, "email"},
		{"bad phone", func(u *ContactUpdate) { u.Phone = "0123" }, "phone"},
		{"no interest level", func(u *ContactUpdate) { u.InterestLevel = 0 }, "interestLevel"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewStore().Create()
			completeStepOne(t, s)
			if _, err := s.Next(); err != nil {
				t.Fatalf("advance to step 2: %v", err)
			}

			u := base
			tt.mutate(&u)
			if err := s.UpdateContact(u); err != nil {
				t.Fatalf("UpdateContact: %v", err)
			}

			_, err := s.Next()
			var verr *ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("expected ValidationError, got %v", err)
			}
			if verr.Field != tt.wantField {
				t.Errorf("failing field = %s, want %s", verr.Field, tt.wantField)
			}
			if s.View().CurrentStep != StepContactInfo {
				t.Error("refused transition must not change the step")
			}
		})
	}
}

func TestBackOnlyFromStepTwo(t *testing.T) {
	s := NewStore().Create()
	if err := s.Back(); !errors.Is(err, ErrWrongStep) {
		t.Fatalf("Back from step 1: expected ErrWrongStep, got %v", err)
	}

	completeStepOne(t, s)
	if _, err := s.Next(); err != nil {
		t.Fatalf("Next: %v", err)
	}
	if err := s.Back(); err != nil {
		t.Fatalf("Back from step 2: %v", err)
	}
	if s.View().CurrentStep != StepPropertyDetails {
		t.Fatal("expected to be back on step 1")
	}
	// Step-1 data survives a back transition.
	if s.View().Property.LandAreaM2 != 200 {
		t.Fatal("property details should survive Back")
	}
}

func TestPropertyImmutableAfterResults(t *testing.T) {
	s := NewStore().Create()
	completeStepOne(t, s)
	if _, err := s.Next(); err != nil {
		t.Fatalf("Next: %v", err)
	}
	completeStepTwo(t, s)
	if _, err := s.Next(); err != nil {
		t.Fatalf("Next: %v", err)
	}

	err := s.UpdateProperty(PropertyUpdate{PropertyType: "House", Address: "x", LandAreaM2: 1, BuiltAreaM2: 1, Bedrooms: 1, Bathrooms: 1})
	if !errors.Is(err, ErrWrongStep) {
		t.Fatalf("expected ErrWrongStep, got %v", err)
	}
	if _, err := s.Next(); !errors.Is(err, ErrWrongStep) {
		t.Fatalf("Next from terminal step: expected ErrWrongStep, got %v", err)
	}
}

func TestResetClearsEverything(t *testing.T) {
	s := NewStore().Create()
	completeStepOne(t, s)
	if _, err := s.Next(); err != nil {
		t.Fatalf("Next: %v", err)
	}
	completeStepTwo(t, s)
	if _, err := s.Next(); err != nil {
		t.Fatalf("Next: %v", err)
	}
	if err := s.SetResult(model.PriceEstimate{PointEstimate: 1}); err != nil {
		t.Fatalf("SetResult: %v", err)
	}

	s.Reset()

	snap := s.View()
	if snap.CurrentStep != StepPropertyDetails {
		t.Error("reset should return to step 1")
	}
	if snap.Geo != nil {
		t.Error("reset should clear the resolved address")
	}
	if snap.Result != nil {
		t.Error("reset should clear the result")
	}
	if snap.Contact != (model.ContactInfo{}) {
		t.Errorf("reset should clear contact info, got %+v", snap.Contact)
	}
	want := model.PropertyInput{PropertyType: model.PropertyHouse}
	if snap.Property != want {
		t.Errorf("reset should restore property defaults, got %+v", snap.Property)
	}
	if len(snap.Suggestions) != 0 {
		t.Error("reset should clear suggestions")
	}
}

func TestChangedAddressInvalidatesResolution(t *testing.T) {
	s := NewStore().Create()
	completeStepOne(t, s)
	if s.View().Geo == nil {
		t.Fatal("expected resolved location")
	}

	if err := s.UpdateProperty(PropertyUpdate{
		PropertyType: "House",
		Address:      "Otra Calle 456",
		LandAreaM2:   200,
		BuiltAreaM2:  150,
		Bedrooms:     3,
		Bathrooms:    2.5,
	}); err != nil {
		t.Fatalf("UpdateProperty: %v", err)
	}
	if s.View().Geo != nil {
		t.Fatal("editing the address must clear the stale resolution")
	}
}

func TestUpdatePropertyRejections(t *testing.T) {
	tests := []struct {
		name   string
		update PropertyUpdate
		field  string
	}{
		{"bad type", PropertyUpdate{PropertyType: "Castle"}, "propertyType"},
		{"negative land", PropertyUpdate{PropertyType: "House", LandAreaM2: -1}, "landAreaM2"},
		{"quarter bathroom", PropertyUpdate{PropertyType: "Apartment", Bathrooms: 1.25}, "bathrooms"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewStore().Create()
			err := s.UpdateProperty(tt.update)
			var verr *ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("expected ValidationError, got %v", err)
			}
			if verr.Field != tt.field {
				t.Errorf("field = %s, want %s", verr.Field, tt.field)
			}
		})
	}
}

func TestStoreLifecycle(t *testing.T) {
	st := NewStore()
	s := st.Create()

	got, err := st.Get(s.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got != s {
		t.Fatal("Get should return the same session instance")
	}

	if _, err := st.Get("missing"); !errors.Is(err, ErrSessionNotFound) {
		t.Fatalf("expected ErrSessionNotFound, got %v", err)
	}

	st.Remove(s.ID)
	if _, err := st.Get(s.ID); !errors.Is(err, ErrSessionNotFound) {
		t.Fatal("expected session to be removed")
	}
	if st.Len() != 0 {
		t.Fatalf("expected empty store, got %d", st.Len())
	}
}
