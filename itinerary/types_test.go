package itinerary

import (
	"errors"
	"reflect"
	"testing"
)

func TestParseBudget(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    Budget
		wantErr bool
	}{
		{
			name:  "amount with currency",
			input: "30000 INR",
			want:  Budget{Amount: 30000, Currency: "INR"},
		},
		{
			name:  "decimal amount",
			input: "1500.50 EUR",
			want:  Budget{Amount: 1500.50, Currency: "EUR"},
		},
		{
			name:  "bare amount",
			input: "800",
			want:  Budget{Amount: 800},
		},
		{
			name:  "lowercase currency uppercased",
			input: "500 usd",
			want:  Budget{Amount: 500, Currency: "USD"},
		},
		{
			name:  "no space before currency",
			input: "500USD",
			want:  Budget{Amount: 500, Currency: "USD"},
		},
		{
			name:    "zero amount",
			input:   "0 INR",
			wantErr: true,
		},
		{
			name:    "negative amount",
			input:   "-100",
			wantErr: true,
		},
		{
			name:    "not a number",
			input:   "lots of money",
			wantErr: true,
		},
		{
			name:    "empty",
			input:   "",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseBudget(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("ParseBudget(%q): expected error, got %+v", tt.input, got)
				}
				if !errors.Is(err, ErrInvalidParameters) {
					t.Errorf("ParseBudget(%q): error = %v, want ErrInvalidParameters", tt.input, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseBudget(%q): unexpected error: %v", tt.input, err)
			}
			if got != tt.want {
				t.Errorf("ParseBudget(%q) = %+v, want %+v", tt.input, got, tt.want)
			}
		})
	}
}

func TestBudgetString(t *testing.T) {
	if got := (Budget{Amount: 30000, Currency: "INR"}).String(); got != "30000 INR" {
		t.Errorf("String() = %q, want %q", got, "30000 INR")
	}
	if got := (Budget{Amount: 800}).String(); got != "800" {
		t.Errorf("String() = %q, want %q", got, "800")
	}
}

func TestTripParametersValidate(t *testing.T) {
	valid := TripParameters{
		Destination: "Paris",
		Days:        3,
		Budget:      Budget{Amount: 30000, Currency: "INR"},
		TripType:    "cultural",
	}
	if err := valid.Validate(); err != nil {
		t.Fatalf("valid parameters rejected: %v", err)
	}

	tests := []struct {
		name   string
		mutate func(*TripParameters)
	}{
		{"empty destination", func(p *TripParameters) { p.Destination = "  " }},
		{"zero days", func(p *TripParameters) { p.Days = 0 }},
		{"negative days", func(p *TripParameters) { p.Days = -2 }},
		{"zero budget", func(p *TripParameters) { p.Budget = Budget{} }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := valid
			tt.mutate(&p)
			err := p.Validate()
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			if !errors.Is(err, ErrInvalidParameters) {
				t.Errorf("error = %v, want ErrInvalidParameters", err)
			}
		})
	}
}

func TestItineraryClone(t *testing.T) {
	original := Itinerary{
		Days: []DayPlan{
			{
				Day: 1,
				Activities: []Activity{
					{Time: "09:00", Title: "Walk", Cost: 100},
					{Time: "12:30", Title: "Lunch", Cost: 50},
				},
				Subtotal: 150,
			},
		},
		TotalEstimatedCost: 150,
		BudgetUtilization:  0.75,
	}

	clone := original.Clone()
	if !reflect.DeepEqual(clone, original) {
		t.Fatalf("clone differs from original:\n%+v\n%+v", clone, original)
	}

	// Mutating the clone must not reach the original.
	clone.Days[0].Activities[0].Title = "changed"
	clone.Days[0].Activities = append(clone.Days[0].Activities, Activity{Title: "extra"})
	if original.Days[0].Activities[0].Title != "Walk" {
		t.Error("mutating clone activity changed the original")
	}
	if len(original.Days[0].Activities) != 2 {
		t.Errorf("appending to clone changed original length: %d", len(original.Days[0].Activities))
	}
}
