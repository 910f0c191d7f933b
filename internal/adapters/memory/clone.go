package memory

import "github.com/parkshare/backend/internal/domain/entities"

// Records are copied on the way in and out so callers never share memory
// with the dataset.

func cloneUser(u *entities.User) *entities.User {
	c := *u
	if u.Phone != nil {
		phone := *u.Phone
		c.Phone = &phone
	}
	return &c
}

func cloneLot(p *entities.ParkingLot) *entities.ParkingLot {
	c := *p
	if p.Facilities != nil {
		c.Facilities = append([]string(nil), p.Facilities...)
	}
	if p.OperatingHours != nil {
		hours := *p.OperatingHours
		c.OperatingHours = &hours
	}
	if p.Description != nil {
		desc := *p.Description
		c.Description = &desc
	}
	return &c
}

func cloneReview(r *entities.Review) *entities.Review {
	c := *r
	c.Comment = cloneString(r.Comment)
	return &c
}

func cloneUpdate(u *entities.CommunityUpdate) *entities.CommunityUpdate {
	c := *u
	c.Comment = cloneString(u.Comment)
	return &c
}

func cloneReward(r *entities.Reward) *entities.Reward {
	c := *r
	return &c
}

func cloneUserReward(r *entities.UserReward) *entities.UserReward {
	c := *r
	return &c
}

func cloneEntry(e *entities.PointsHistory) *entities.PointsHistory {
	c := *e
	c.Description = cloneString(e.Description)
	return &c
}

func cloneString(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}
