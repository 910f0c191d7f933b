package entities

// CreateUserInput is the registration payload
type CreateUserInput struct {
	Username    string      `json:"username" validate:"required,min=3,max=50"`
	Email       string      `json:"email" validate:"required,email"`
	Password    string      `json:"password" validate:"required"`
	FullName    string      `json:"fullName" validate:"required"`
	Phone       *string     `json:"phone"`
	VehicleType VehicleType `json:"vehicleType" validate:"omitempty,oneof=motorcycle car both"`
}

// UserPatch carries the profile fields a user may change. Points and tier
// belong to the ledger and are not patchable.
type UserPatch struct {
	Username    *string      `json:"username"`
	Email       *string      `json:"email"`
	Password    *string      `json:"password"`
	FullName    *string      `json:"fullName"`
	Phone       *string      `json:"phone"`
	VehicleType *VehicleType `json:"vehicleType"`
}

// CreateParkingLotInput is the lot registration payload. Call Normalize
// before validating it.
type CreateParkingLotInput struct {
	Name                   string          `json:"name" validate:"required"`
	Address                string          `json:"address" validate:"required"`
	Latitude               FlexDecimal     `json:"latitude" validate:"required,latitude"`
	Longitude              FlexDecimal     `json:"longitude" validate:"required,longitude"`
	Lat                    FlexDecimal     `json:"lat" validate:"-"`
	Lng                    FlexDecimal     `json:"lng" validate:"-"`
	OwnerID                string          `json:"ownerId"`
	MotorcycleCapacity     FlexInt         `json:"motorcycleCapacity" validate:"gte=0"`
	CarCapacity            FlexInt         `json:"carCapacity" validate:"gte=0"`
	MotorcyclePrice        FlexInt         `json:"motorcyclePrice" validate:"gte=0"`
	CarPrice               FlexInt         `json:"carPrice" validate:"gte=0"`
	CurrentMotorcycleSpots *FlexInt        `json:"currentMotorcycleSpots" validate:"omitempty,gte=0"`
	CurrentCarSpots        *FlexInt        `json:"currentCarSpots" validate:"omitempty,gte=0"`
	Facilities             FlexStrings     `json:"facilities" validate:"omitempty,dive,facility"`
	OperatingHours         *OperatingHours `json:"operatingHours" validate:"required"`
	Description            *string         `json:"description"`
}

// Normalize resolves coordinate aliases, the owner default and facility
// duplicates in place
func (in *CreateParkingLotInput) Normalize() {
	if in.Latitude == "" {
		in.Latitude = in.Lat
	}
	if in.Longitude == "" {
		in.Longitude = in.Lng
	}
	if in.OwnerID == "" {
		in.OwnerID = AnonymousOwner
	}
	in.Facilities = normalizeFacilities(in.Facilities)
}

// ToParkingLot builds an unsaved lot. Current spots default to capacity.
func (in *CreateParkingLotInput) ToParkingLot() *ParkingLot {
	lot := &ParkingLot{
		Name:                   in.Name,
		Address:                in.Address,
		Latitude:               string(in.Latitude),
		Longitude:              string(in.Longitude),
		OwnerID:                in.OwnerID,
		MotorcycleCapacity:     int(in.MotorcycleCapacity),
		CarCapacity:            int(in.CarCapacity),
		MotorcyclePrice:        int(in.MotorcyclePrice),
		CarPrice:               int(in.CarPrice),
		CurrentMotorcycleSpots: int(in.MotorcycleCapacity),
		CurrentCarSpots:        int(in.CarCapacity),
		Facilities:             normalizeFacilities(in.Facilities),
		OperatingHours:         in.OperatingHours,
		Rating:                 UnratedRating,
		TotalReviews:           0,
		Status:                 LotStatusActive,
		Description:            in.Description,
	}
	if lot.OwnerID == "" {
		lot.OwnerID = AnonymousOwner
	}
	if in.CurrentMotorcycleSpots != nil {
		lot.CurrentMotorcycleSpots = int(*in.CurrentMotorcycleSpots)
	}
	if in.CurrentCarSpots != nil {
		lot.CurrentCarSpots = int(*in.CurrentCarSpots)
	}
	return lot
}

// ParkingLotPatch carries the mutable lot fields. Rating and review count
// are derived from reviews and cannot be patched.
type ParkingLotPatch struct {
	Name                   *string         `json:"name"`
	Address                *string         `json:"address"`
	Latitude               *string         `json:"latitude"`
	Longitude              *string         `json:"longitude"`
	MotorcycleCapacity     *int            `json:"motorcycleCapacity"`
	CarCapacity            *int            `json:"carCapacity"`
	MotorcyclePrice        *int            `json:"motorcyclePrice"`
	CarPrice               *int            `json:"carPrice"`
	CurrentMotorcycleSpots *int            `json:"currentMotorcycleSpots"`
	CurrentCarSpots        *int            `json:"currentCarSpots"`
	Facilities             *FlexStrings    `json:"facilities"`
	OperatingHours         *OperatingHours `json:"operatingHours"`
	Status                 *LotStatus      `json:"status"`
	Description            *string         `json:"description"`
}

// CreateReviewInput is the review payload
type CreateReviewInput struct {
	ParkingLotID string  `json:"parkingLotId" validate:"required"`
	UserID       string  `json:"userId" validate:"required"`
	Rating       int     `json:"rating" validate:"required,min=1,max=5"`
	Comment      *string `json:"comment"`
}

// CreateCommunityUpdateInput is the community report payload. Any
// pointsEarned sent by the client is ignored.
type CreateCommunityUpdateInput struct {
	ParkingLotID string          `json:"parkingLotId" validate:"required"`
	UserID       string          `json:"userId" validate:"required"`
	Status       CommunityStatus `json:"status" validate:"required,oneof=available full almost_full"`
	Comment      *string         `json:"comment"`
}

// RedeemRewardInput is the redemption payload
type RedeemRewardInput struct {
	UserID string `json:"userId" validate:"required"`
}
