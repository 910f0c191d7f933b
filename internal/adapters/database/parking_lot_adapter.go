package database

import (
	"context"
	"encoding/json"

	"github.com/doug-martin/goqu/v9"
	"github.com/parkshare/backend/internal/domain/entities"
	apperrors "github.com/parkshare/backend/pkg/errors"
)

const parkingLotsTable = "parking_lots"

var parkingLotColumns = []interface{}{
	"id", "name", "address", "latitude", "longitude", "owner_id",
	"motorcycle_capacity", "car_capacity", "motorcycle_price", "car_price",
	"current_motorcycle_spots", "current_car_spots", "facilities", "operating_hours",
	"rating", "total_reviews", "status", "description", "created_at",
}

// parkingLotRow carries the JSONB columns that do not map onto the entity
type parkingLotRow struct {
	entities.ParkingLot
	FacilitiesJSON     []byte `db:"facilities"`
	OperatingHoursJSON []byte `db:"operating_hours"`
}

func (r *parkingLotRow) toEntity() (*entities.ParkingLot, error) {
	lot := r.ParkingLot
	if len(r.FacilitiesJSON) > 0 {
		if err := json.Unmarshal(r.FacilitiesJSON, &lot.Facilities); err != nil {
			return nil, apperrors.NewInternalError("failed to decode facilities", err)
		}
	}
	if len(r.OperatingHoursJSON) > 0 && string(r.OperatingHoursJSON) != "null" {
		var hours entities.OperatingHours
		if err := json.Unmarshal(r.OperatingHoursJSON, &hours); err != nil {
			return nil, apperrors.NewInternalError("failed to decode operating hours", err)
		}
		lot.OperatingHours = &hours
	}
	return &lot, nil
}

func parkingLotRecord(lot *entities.ParkingLot) (goqu.Record, error) {
	facilities, err := json.Marshal(lot.Facilities)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to encode facilities", err)
	}
	hours, err := json.Marshal(lot.OperatingHours)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to encode operating hours", err)
	}

	return goqu.Record{
		"id":                       lot.ID,
		"name":                     lot.Name,
		"address":                  lot.Address,
		"latitude":                 lot.Latitude,
		"longitude":                lot.Longitude,
		"owner_id":                 lot.OwnerID,
		"motorcycle_capacity":      lot.MotorcycleCapacity,
		"car_capacity":             lot.CarCapacity,
		"motorcycle_price":         lot.MotorcyclePrice,
		"car_price":                lot.CarPrice,
		"current_motorcycle_spots": lot.CurrentMotorcycleSpots,
		"current_car_spots":        lot.CurrentCarSpots,
		"facilities":               string(facilities),
		"operating_hours":          string(hours),
		"rating":                   lot.Rating,
		"total_reviews":            lot.TotalReviews,
		"status":                   string(lot.Status),
		"description":              lot.Description,
		"created_at":               lot.CreatedAt,
	}, nil
}

type parkingLotAdapter struct {
	*Store
}

func (a *parkingLotAdapter) Create(ctx context.Context, lot *entities.ParkingLot) error {
	defer a.timed(ctx, "parking_lots.create")()

	record, err := parkingLotRecord(lot)
	if err != nil {
		return err
	}
	return writeError(a.insert(ctx, parkingLotsTable, record), "parking lot", nil)
}

// GetByID locks the row inside a transaction so rating recomputes serialize
func (a *parkingLotAdapter) GetByID(ctx context.Context, id string) (*entities.ParkingLot, error) {
	defer a.timed(ctx, "parking_lots.get")()

	ds := a.dialect.From(parkingLotsTable).Select(parkingLotColumns...).Where(goqu.Ex{"id": id})
	var row parkingLotRow
	if err := a.get(ctx, &row, a.forUpdate(ds)); err != nil {
		return nil, readError(err, "parking lot")
	}
	return row.toEntity()
}

func (a *parkingLotAdapter) GetByIDs(ctx context.Context, ids []string) ([]*entities.ParkingLot, error) {
	if len(ids) == 0 {
		return []*entities.ParkingLot{}, nil
	}
	defer a.timed(ctx, "parking_lots.get_many")()
	return a.list(ctx, a.dialect.From(parkingLotsTable).Where(goqu.Ex{"id": ids}))
}

func (a *parkingLotAdapter) List(ctx context.Context) ([]*entities.ParkingLot, error) {
	defer a.timed(ctx, "parking_lots.list")()
	return a.list(ctx, a.dialect.From(parkingLotsTable))
}

func (a *parkingLotAdapter) ListByOwner(ctx context.Context, ownerID string) ([]*entities.ParkingLot, error) {
	defer a.timed(ctx, "parking_lots.list_by_owner")()
	return a.list(ctx, a.dialect.From(parkingLotsTable).Where(goqu.Ex{"owner_id": ownerID}))
}

// Search pushes the exact integer predicates into SQL and applies the full
// filter chain to the result, so text matching and rating parsing behave
// exactly as in every other store
func (a *parkingLotAdapter) Search(ctx context.Context, filters entities.SearchFilters) ([]*entities.ParkingLot, error) {
	defer a.timed(ctx, "parking_lots.search")()

	ds := a.dialect.From(parkingLotsTable).Where(goqu.Ex{"status": string(entities.LotStatusActive)})

	if filters.AvailableOnly {
		ds = ds.Where(goqu.Or(
			goqu.C("current_motorcycle_spots").Gt(0),
			goqu.C("current_car_spots").Gt(0),
		))
	}

	switch filters.VehicleType {
	case entities.VehicleTypeMotorcycle:
		ds = ds.Where(goqu.C("motorcycle_capacity").Gt(0))
		if filters.MaxPrice != nil {
			ds = ds.Where(goqu.C("motorcycle_price").Lte(*filters.MaxPrice))
		}
	case entities.VehicleTypeCar:
		ds = ds.Where(goqu.C("car_capacity").Gt(0))
		if filters.MaxPrice != nil {
			ds = ds.Where(goqu.C("car_price").Lte(*filters.MaxPrice))
		}
	}

	lots, err := a.list(ctx, ds)
	if err != nil {
		return nil, err
	}
	return filters.Apply(lots), nil
}

func (a *parkingLotAdapter) Update(ctx context.Context, lot *entities.ParkingLot) error {
	defer a.timed(ctx, "parking_lots.update")()

	record, err := parkingLotRecord(lot)
	if err != nil {
		return err
	}
	delete(record, "id")
	delete(record, "created_at")
	return writeError(a.update(ctx, parkingLotsTable, lot.ID, record, "parking lot"), "parking lot", nil)
}

func (a *parkingLotAdapter) list(ctx context.Context, ds *goqu.SelectDataset) ([]*entities.ParkingLot, error) {
	ds = ds.Select(parkingLotColumns...).Order(goqu.C("seq").Asc())

	var rows []parkingLotRow
	if err := a.selectAll(ctx, &rows, ds); err != nil {
		return nil, err
	}

	lots := make([]*entities.ParkingLot, 0, len(rows))
	for i := range rows {
		lot, err := rows[i].toEntity()
		if err != nil {
			return nil, err
		}
		lots = append(lots, lot)
	}
	return lots, nil
}
