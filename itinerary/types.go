// Package itinerary defines the canonical travel plan data model, the budget
// allocator, and the schema validator that repairs loosely-shaped candidate
// plans into consistent itineraries.
package itinerary

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Budget is a positive amount with a currency label (e.g. 30000 INR).
type Budget struct {
	Amount   float64 `json:"amount" yaml:"amount"`
	Currency string  `json:"currency,omitempty" yaml:"currency,omitempty"`
}

// String renders the budget for prompts and display.
func (b Budget) String() string {
	if b.Currency == "" {
		return strconv.FormatFloat(b.Amount, 'f', -1, 64)
	}
	return fmt.Sprintf("%s %s", strconv.FormatFloat(b.Amount, 'f', -1, 64), b.Currency)
}

var budgetPattern = regexp.MustCompile(`^\s*([0-9]+(?:\.[0-9]+)?)\s*([A-Za-z]{0,3})\s*$`)

// ParseBudget parses inputs like "30000 INR", "1500.50 EUR", or "800".
func ParseBudget(s string) (Budget, error) {
	matches := budgetPattern.FindStringSubmatch(s)
	if matches == nil {
		return Budget{}, fmt.Errorf("%w: budget %q is not a number with optional currency", ErrInvalidParameters, s)
	}
	amount, err := strconv.ParseFloat(matches[1], 64)
	if err != nil || amount <= 0 {
		return Budget{}, fmt.Errorf("%w: budget must be positive", ErrInvalidParameters)
	}
	return Budget{Amount: amount, Currency: strings.ToUpper(matches[2])}, nil
}

// TripParameters are the immutable inputs a plan is generated from.
// Re-generation creates a new itinerary rather than mutating an existing one.
type TripParameters struct {
	Destination string `json:"destination"`
	Days        int    `json:"days"`
	Budget      Budget `json:"budget"`
	TripType    string `json:"trip_type"`
}

// Validate checks the parameters before any generation work starts.
func (p TripParameters) Validate() error {
	if strings.TrimSpace(p.Destination) == "" {
		return fmt.Errorf("%w: destination is required", ErrInvalidParameters)
	}
	if p.Days < 1 {
		return fmt.Errorf("%w: days must be at least 1, got %d", ErrInvalidParameters, p.Days)
	}
	if p.Budget.Amount <= 0 {
		return fmt.Errorf("%w: budget must be positive", ErrInvalidParameters)
	}
	return nil
}

// Activity is a single scheduled item within a day.
type Activity struct {
	Time        string  `json:"time"`
	Title       string  `json:"title"`
	Description string  `json:"description,omitempty"`
	Cost        float64 `json:"cost"`
	Category    string  `json:"category,omitempty"`
	SafetyNote  string  `json:"safety_note,omitempty"`
}

// DayPlan is one day's ordered activities. Day indices are 1-based and
// contiguous within an itinerary.
type DayPlan struct {
	Day        int        `json:"day"`
	Activities []Activity `json:"activities"`
	Subtotal   float64    `json:"subtotal"`
}

// Itinerary is the full multi-day plan. TotalEstimatedCost and
// BudgetUtilization are derived by the validator and never trusted from
// candidate input.
type Itinerary struct {
	Days               []DayPlan `json:"days"`
	TotalEstimatedCost float64   `json:"total_estimated_cost"`
	BudgetUtilization  float64   `json:"budget_utilization"`
}

// Clone returns a deep copy. Modification takes a snapshot with it so the
// prior plan stays valid after the new one is built.
func (it Itinerary) Clone() Itinerary {
	out := Itinerary{
		Days:               make([]DayPlan, len(it.Days)),
		TotalEstimatedCost: it.TotalEstimatedCost,
		BudgetUtilization:  it.BudgetUtilization,
	}
	for i, d := range it.Days {
		out.Days[i] = DayPlan{
			Day:        d.Day,
			Activities: append([]Activity(nil), d.Activities...),
			Subtotal:   d.Subtotal,
		}
	}
	return out
}

// Trip is the owning record an itinerary belongs to.
type Trip struct {
	ID        string         `json:"id"`
	Params    TripParameters `json:"params"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
}

// Snapshot is the single retained prior itinerary enabling one-level undo.
// Each accepted modification overwrites it.
type Snapshot struct {
	TripID    string    `json:"trip_id"`
	Itinerary Itinerary `json:"itinerary"`
	TakenAt   time.Time `json:"taken_at"`
	Sequence  uint64    `json:"sequence"`
}

// roundCurrency rounds to two decimal places, the precision used for all
// derived cost fields.
func roundCurrency(v float64) float64 {
	return math.Round(v*100) / 100
}
