package seed

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/parkshare/backend/internal/domain/entities"
	"github.com/parkshare/backend/internal/domain/repositories"
	"github.com/parkshare/backend/internal/infrastructure/observability"
)

// Result reports how many records a run inserted
type Result struct {
	Rewards     int
	ParkingLots int
}

type lotSeed struct {
	name, address, lat, lng, owner string
	motoCap, carCap                int
	motoPrice, carPrice            int
	motoFree, carFree              int
	facilities                     []string
	open, close                    string
	is24h                          bool
	description                    string
}

// Rewards returns the demo reward catalog
func Rewards() []*entities.Reward {
	return []*entities.Reward{
		{Name: "Voucher Grab 20k", Description: "Giảm 20,000đ cho chuyến đi", PointsCost: 100, Category: entities.RewardCategoryTransport, Icon: "fas fa-gift", IsActive: true},
		{Name: "Voucher Starbucks", Description: "Giảm 25,000đ đồ uống", PointsCost: 150, Category: entities.RewardCategoryFood, Icon: "fas fa-coffee", IsActive: true},
		{Name: "Voucher xăng 50k", Description: "Petrolimex/Shell", PointsCost: 300, Category: entities.RewardCategoryFuel, Icon: "fas fa-gas-pump", IsActive: true},
	}
}

var lotSeeds = []lotSeed{
	{"Bãi xe Nguyễn Huệ", "78 Nguyễn Huệ, Quận 1, TP.HCM", "10.7769", "106.7009", "owner1", 50, 20, 5000, 15000, 35, 8, []string{"covered", "security"}, "06:00", "22:00", false, "Bãi xe rộng rãi tại trung tâm thành phố"},
	{"Bãi xe Vincom Center", "70-72 Lê Thánh Tôn, Quận 1, TP.HCM", "10.7829", "106.7024", "owner2", 100, 50, 8000, 15000, 0, 0, []string{"covered", "security", "camera", "toilet"}, "08:00", "22:00", false, "Bãi xe tại trung tâm thương mại Vincom"},
	{"Bãi xe Chợ Bến Thành", "Lê Lợi, Quận 1, TP.HCM", "10.7720", "106.6980", "owner3", 80, 30, 3000, 12000, 45, 15, []string{"security"}, "05:00", "23:00", false, "Bãi xe gần chợ Bến Thành, thuận tiện mua sắm"},
	{"Bãi xe Landmark 81", "208 Nguyễn Hữu Cảnh, Bình Thạnh, TP.HCM", "10.7944", "106.7219", "owner4", 150, 80, 10000, 20000, 120, 50, []string{"covered", "security", "camera", "toilet", "ev_charging"}, "00:00", "23:59", true, "Bãi xe hiện đại tại tòa nhà cao nhất Việt Nam"},
	{"Bãi xe Nhà Thờ Đức Bà", "01 Công xã Paris, Quận 1, TP.HCM", "10.7797", "106.6990", "owner5", 60, 25, 4000, 15000, 40, 12, []string{"security", "camera"}, "06:00", "21:00", false, "Bãi xe gần địa danh nổi tiếng, thuận tiện tham quan"},
	{"Bãi xe Bưu Điện Trung Tâm", "02 Công xã Paris, Quận 1, TP.HCM", "10.7798", "106.7000", "owner6", 40, 15, 3500, 12000, 25, 8, []string{"security"}, "07:00", "20:00", false, "Bãi xe nhỏ gọn gần bưu điện trung tâm"},
	{"Bãi xe Bitexco Financial Tower", "02 Hải Triều, Quận 1, TP.HCM", "10.7718", "106.7038", "owner7", 120, 60, 9000, 18000, 80, 35, []string{"covered", "security", "camera", "toilet", "valet"}, "00:00", "23:59", true, "Bãi xe cao cấp với dịch vụ valet parking"},
	{"Bãi xe Phố Đi Bộ Nguyễn Huệ", "Nguyễn Huệ, Quận 1, TP.HCM", "10.7743", "106.7019", "owner8", 90, 0, 6000, 0, 60, 0, []string{"security", "camera"}, "06:00", "23:00", false, "Bãi xe dành cho xe máy gần phố đi bộ"},
	{"Bãi xe Crescent Mall", "101 Tôn Dật Tiên, Quận 7, TP.HCM", "10.7265", "106.7193", "owner9", 200, 100, 7000, 15000, 150, 70, []string{"covered", "security", "camera", "toilet"}, "08:00", "22:00", false, "Bãi xe rộng rãi tại trung tâm thương mại Crescent"},
	{"Bãi xe Đại Học Khoa Học Xã Hội", "10-12 Đinh Tiên Hoàng, Quận 1, TP.HCM", "10.7763", "106.7044", "owner10", 100, 20, 2000, 8000, 70, 10, []string{"covered", "security"}, "06:00", "22:00", false, "Bãi xe sinh viên, giá rẻ"},
	{"Bãi xe Bệnh Viện Chợ Rẫy", "201B Nguyễn Chí Thanh, Quận 5, TP.HCM", "10.7556", "106.6652", "owner11", 120, 50, 5000, 15000, 30, 5, []string{"covered", "security", "camera"}, "00:00", "23:59", true, "Bãi xe bệnh viện, hoạt động 24/7"},
	{"Bãi xe Aeon Mall Tân Phú", "30 Bộ Đề, Quận Tân Phú, TP.HCM", "10.7907", "106.6266", "owner12", 250, 120, 6000, 15000, 200, 90, []string{"covered", "security", "camera", "toilet", "elevator"}, "08:00", "22:00", false, "Bãi xe ngầm hiện đại tại Aeon Mall"},
	{"Bãi xe Sân Bay Tân Sơn Nhất", "Trường Sơn, Tân Bình, TP.HCM", "10.8188", "106.6595", "owner13", 300, 200, 15000, 40000, 250, 150, []string{"covered", "security", "camera", "toilet", "ev_charging"}, "00:00", "23:59", true, "Bãi xe sân bay, giá theo giờ"},
	{"Bãi xe Thảo Cầm Viên", "02 Nguyễn Bỉnh Khiêm, Quận 1, TP.HCM", "10.7875", "106.7059", "owner14", 70, 35, 4000, 10000, 50, 20, []string{"security", "camera"}, "07:00", "19:00", false, "Bãi xe gần sở thú, phù hợp cho gia đình"},
	{"Bãi xe Công Viên Gia Định", "Hoàng Minh Giám, Phú Nhuận, TP.HCM", "10.7998", "106.6787", "owner15", 60, 30, 3000, 10000, 45, 22, []string{"security"}, "05:00", "22:00", false, "Bãi xe công viên, thoáng mát"},
	{"Bãi xe Đầm Sen", "03 Hòa Bình, Quận 11, TP.HCM", "10.7639", "106.6375", "owner16", 180, 70, 5000, 15000, 100, 40, []string{"covered", "security", "camera", "toilet"}, "07:00", "21:00", false, "Bãi xe khu vui chơi Đầm Sen"},
	{"Bãi xe Chợ Hoa Hồ Thị Kỷ", "375A Hồ Thị Kỷ, Quận 10, TP.HCM", "10.7716", "106.6734", "owner17", 50, 20, 2000, 8000, 35, 12, []string{"security"}, "00:00", "23:59", true, "Bãi xe chợ hoa, hoạt động cả đêm"},
	{"Bãi xe Giga Mall", "240-242 Phạm Văn Đồng, Thủ Đức, TP.HCM", "10.8491", "106.7627", "owner18", 200, 100, 7000, 15000, 170, 80, []string{"covered", "security", "camera", "toilet", "elevator"}, "08:00", "22:00", false, "Bãi xe hiện đại tại Giga Mall Thủ Đức"},
	{"Bãi xe TTTM Sense City", "290 Lê Văn Sỹ, Quận 3, TP.HCM", "10.7825", "106.6893", "owner19", 90, 40, 6000, 15000, 60, 25, []string{"covered", "security", "camera", "toilet"}, "08:00", "22:00", false, "Bãi xe trung tâm thương mại Sense City"},
	{"Bãi xe Chợ Tân Định", "Hai Bà Trưng, Quận 1, TP.HCM", "10.7891", "106.6931", "owner20", 70, 25, 3000, 10000, 50, 15, []string{"security", "camera"}, "05:00", "20:00", false, "Bãi xe chợ truyền thống, giá bình dân"},
}

// ParkingLots returns the demo lots in Ho Chi Minh City. Every lot starts
// without reviews.
func ParkingLots(now time.Time) []*entities.ParkingLot {
	lots := make([]*entities.ParkingLot, 0, len(lotSeeds))
	for i, s := range lotSeeds {
		description := s.description
		lots = append(lots, &entities.ParkingLot{
			Name:                   s.name,
			Address:                s.address,
			Latitude:               s.lat,
			Longitude:              s.lng,
			OwnerID:                s.owner,
			MotorcycleCapacity:     s.motoCap,
			CarCapacity:            s.carCap,
			MotorcyclePrice:        s.motoPrice,
			CarPrice:               s.carPrice,
			CurrentMotorcycleSpots: s.motoFree,
			CurrentCarSpots:        s.carFree,
			Facilities:             append([]string(nil), s.facilities...),
			OperatingHours:         &entities.OperatingHours{OpenTime: s.open, CloseTime: s.close, Is24h: s.is24h},
			Rating:                 entities.UnratedRating,
			Status:                 entities.LotStatusActive,
			Description:            &description,
			// keeps creation order stable for listings
			CreatedAt: now.Add(time.Duration(i) * time.Millisecond),
		})
	}
	return lots
}

// Load inserts the demo catalog and lots. Each half is skipped when the store
// already holds data of that kind, so repeated runs are harmless. Inserted
// lots are pushed to index when one is given.
func Load(ctx context.Context, store repositories.Store, index repositories.ParkingLotIndex) (*Result, error) {
	logger := observability.LoggerFromContext(ctx)
	result := &Result{}
	var inserted []*entities.ParkingLot

	err := store.WithinTx(ctx, func(tx repositories.Store) error {
		rewards, err := tx.Rewards().ListActive(ctx)
		if err != nil {
			return fmt.Errorf("list rewards: %w", err)
		}
		if len(rewards) == 0 {
			for _, reward := range Rewards() {
				reward.ID = uuid.New().String()
				if err := tx.Rewards().Create(ctx, reward); err != nil {
					return fmt.Errorf("create reward %s: %w", reward.Name, err)
				}
				result.Rewards++
			}
		}

		lots, err := tx.ParkingLots().List(ctx)
		if err != nil {
			return fmt.Errorf("list parking lots: %w", err)
		}
		if len(lots) == 0 {
			for _, lot := range ParkingLots(time.Now().UTC()) {
				lot.ID = uuid.New().String()
				if err := tx.ParkingLots().Create(ctx, lot); err != nil {
					return fmt.Errorf("create parking lot %s: %w", lot.Name, err)
				}
				inserted = append(inserted, lot)
			}
			result.ParkingLots = len(inserted)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if index != nil {
		for _, lot := range inserted {
			if err := index.Index(ctx, lot); err != nil {
				logger.Warn().Err(err).Str("lot_id", lot.ID).Msg("failed to index seeded parking lot")
			}
		}
	}

	logger.Info().Int("rewards", result.Rewards).Int("parking_lots", result.ParkingLots).Msg("demo data loaded")
	return result, nil
}

// CacheInvalidator drops cached API responses
type CacheInvalidator interface {
	InvalidateRewards(ctx context.Context) error
	InvalidateParkingLots(ctx context.Context) error
}

// RefreshCaches drops cached catalog and lot responses for whatever a run inserted
func RefreshCaches(ctx context.Context, cache CacheInvalidator, result *Result) error {
	if cache == nil || result == nil {
		return nil
	}
	if result.Rewards > 0 {
		if err := cache.InvalidateRewards(ctx); err != nil {
			return fmt.Errorf("invalidate rewards: %w", err)
		}
	}
	if result.ParkingLots > 0 {
		if err := cache.InvalidateParkingLots(ctx); err != nil {
			return fmt.Errorf("invalidate parking lots: %w", err)
		}
	}
	return nil
}
