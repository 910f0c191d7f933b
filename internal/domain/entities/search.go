package entities

import "strings"

// SearchFilters narrows a parking lot listing. Every field is optional.
type SearchFilters struct {
	Search        string
	VehicleType   VehicleType
	MaxPrice      *int
	AvailableOnly bool
	MinRating     *float64
	// MaxDistance is accepted for compatibility and not applied.
	MaxDistance *float64
}

// LotPredicate decides whether a lot survives one filter step
type LotPredicate func(*ParkingLot) bool

// Predicates returns the filter steps in the order they are applied. The
// active-status step is always first.
func (f SearchFilters) Predicates() []LotPredicate {
	steps := []LotPredicate{
		func(p *ParkingLot) bool { return p.Status == LotStatusActive },
	}

	if f.Search != "" {
		needle := strings.ToLower(f.Search)
		steps = append(steps, func(p *ParkingLot) bool {
			return strings.Contains(strings.ToLower(p.Name), needle) ||
				strings.Contains(strings.ToLower(p.Address), needle)
		})
	}

	if f.AvailableOnly {
		steps = append(steps, (*ParkingLot).HasAvailability)
	}

	switch f.VehicleType {
	case VehicleTypeMotorcycle:
		steps = append(steps, func(p *ParkingLot) bool {
			if p.MotorcycleCapacity <= 0 {
				return false
			}
			return f.MaxPrice == nil || p.MotorcyclePrice <= *f.MaxPrice
		})
	case VehicleTypeCar:
		steps = append(steps, func(p *ParkingLot) bool {
			if p.CarCapacity <= 0 {
				return false
			}
			return f.MaxPrice == nil || p.CarPrice <= *f.MaxPrice
		})
	}

	if f.MinRating != nil {
		minRating := *f.MinRating
		steps = append(steps, func(p *ParkingLot) bool {
			return p.RatingValue() >= minRating
		})
	}

	return steps
}

// Apply narrows lots step by step and keeps the input order
func (f SearchFilters) Apply(lots []*ParkingLot) []*ParkingLot {
	result := lots
	for _, keep := range f.Predicates() {
		narrowed := make([]*ParkingLot, 0, len(result))
		for _, lot := range result {
			if keep(lot) {
				narrowed = append(narrowed, lot)
			}
		}
		result = narrowed
	}
	return result
}

// LotSuggestion is a lightweight type-ahead match
type LotSuggestion struct {
	ID      string  `json:"id"`
	Name    string  `json:"name"`
	Address string  `json:"address"`
	Rating  float64 `json:"rating"`
}
