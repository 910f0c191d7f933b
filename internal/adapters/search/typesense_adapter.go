package search

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/parkshare/backend/internal/domain/entities"
	"github.com/parkshare/backend/internal/domain/repositories"
	tsclient "github.com/parkshare/backend/internal/infrastructure/clients/typesense"
	"github.com/typesense/typesense-go/v2/typesense/api"
	"github.com/typesense/typesense-go/v2/typesense/api/pointer"
)

// TypesenseAdapter keeps a typo-tolerant copy of the lot catalog for
// type-ahead. The store stays the source of truth.
type TypesenseAdapter struct {
	client *tsclient.Client
}

var _ repositories.ParkingLotIndex = (*TypesenseAdapter)(nil)

// NewTypesenseAdapter creates a new Typesense adapter
func NewTypesenseAdapter(client *tsclient.Client) *TypesenseAdapter {
	return &TypesenseAdapter{client: client}
}

// Index upserts a lot document
func (a *TypesenseAdapter) Index(ctx context.Context, lot *entities.ParkingLot) error {
	_, err := a.client.Client().Collection(tsclient.ParkingLotsCollection).Documents().Upsert(ctx, parkingLotDocument(lot))
	if err != nil {
		return fmt.Errorf("failed to index parking lot: %w", err)
	}
	return nil
}

// Suggest returns active lots whose name or address matches query
func (a *TypesenseAdapter) Suggest(ctx context.Context, query string, limit int) ([]*entities.LotSuggestion, error) {
	q := strings.TrimSpace(query)
	if q == "" {
		q = "*"
	}

	params := &api.SearchCollectionParams{
		Q:        pointer.String(q),
		QueryBy:  pointer.String("name,address,tags"),
		FilterBy: pointer.String("status:=" + string(entities.LotStatusActive)),
		PerPage:  pointer.Int(limit),
	}

	result, err := a.client.Client().Collection(tsclient.ParkingLotsCollection).Documents().Search(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("failed to search parking lots: %w", err)
	}

	suggestions := []*entities.LotSuggestion{}
	if result.Hits == nil {
		return suggestions, nil
	}
	for _, hit := range *result.Hits {
		if hit.Document == nil {
			continue
		}
		suggestions = append(suggestions, suggestionFromDocument(*hit.Document))
	}
	return suggestions, nil
}

func parkingLotDocument(lot *entities.ParkingLot) map[string]interface{} {
	loc := lot.Location()
	return map[string]interface{}{
		"id":               lot.ID,
		"name":             lot.Name,
		"address":          lot.Address,
		"status":           string(lot.Status),
		"location":         []float64{loc.Latitude, loc.Longitude},
		"rating":           lot.RatingValue(),
		"total_reviews":    lot.TotalReviews,
		"motorcycle_price": lot.MotorcyclePrice,
		"car_price":        lot.CarPrice,
		"tags":             buildLotTags(lot),
		"created_at":       lot.CreatedAt.Unix(),
	}
}

func suggestionFromDocument(doc map[string]interface{}) *entities.LotSuggestion {
	s := &entities.LotSuggestion{}
	s.ID, _ = doc["id"].(string)
	s.Name, _ = doc["name"].(string)
	s.Address, _ = doc["address"].(string)
	if rating, ok := doc["rating"].(float64); ok {
		s.Rating = rating
	}
	return s
}

// buildLotTags collects the searchable keywords of a lot: its facilities and
// the vehicle kinds it accepts
func buildLotTags(lot *entities.ParkingLot) []string {
	if lot == nil {
		return nil
	}

	set := make(map[string]struct{})
	for _, f := range lot.Facilities {
		if f = strings.ToLower(strings.TrimSpace(f)); f != "" {
			set[f] = struct{}{}
		}
	}
	if lot.MotorcycleCapacity > 0 {
		set[string(entities.VehicleTypeMotorcycle)] = struct{}{}
	}
	if lot.CarCapacity > 0 {
		set[string(entities.VehicleTypeCar)] = struct{}{}
	}

	tags := make([]string, 0, len(set))
	for tag := range set {
		tags = append(tags, tag)
	}
	sort.Strings(tags)
	return tags
}
