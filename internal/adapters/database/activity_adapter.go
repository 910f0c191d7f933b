package database

import (
	"context"

	"github.com/doug-martin/goqu/v9"
	"github.com/doug-martin/goqu/v9/exp"
	"github.com/parkshare/backend/internal/domain/entities"
)

const (
	reviewsTable          = "reviews"
	communityUpdatesTable = "community_updates"
	rewardsTable          = "rewards"
	userRewardsTable      = "user_rewards"
	pointsHistoryTable    = "points_history"
)

var (
	reviewColumns          = []interface{}{"id", "parking_lot_id", "user_id", "rating", "comment", "created_at"}
	communityUpdateColumns = []interface{}{"id", "parking_lot_id", "user_id", "status", "comment", "points_earned", "created_at"}
	rewardColumns          = []interface{}{"id", "name", "description", "points_cost", "category", "icon", "is_active"}
	userRewardColumns      = []interface{}{"id", "user_id", "reward_id", "redeemed_at", "is_used"}
	pointsHistoryColumns   = []interface{}{"id", "user_id", "points", "activity", "description", "created_at"}
)

// newest orders append-only tables; seq breaks timestamp ties by insertion
var newest = []exp.OrderedExpression{goqu.C("created_at").Desc(), goqu.C("seq").Desc()}

type reviewAdapter struct {
	*Store
}

func (a *reviewAdapter) Create(ctx context.Context, review *entities.Review) error {
	defer a.timed(ctx, "reviews.create")()

	return writeError(a.insert(ctx, reviewsTable, goqu.Record{
		"id":             review.ID,
		"parking_lot_id": review.ParkingLotID,
		"user_id":        review.UserID,
		"rating":         review.Rating,
		"comment":        review.Comment,
		"created_at":     review.CreatedAt,
	}), "review", nil)
}

func (a *reviewAdapter) ListByParkingLot(ctx context.Context, parkingLotID string) ([]*entities.Review, error) {
	defer a.timed(ctx, "reviews.list_by_parking_lot")()

	reviews := []*entities.Review{}
	ds := a.dialect.From(reviewsTable).Select(reviewColumns...).
		Where(goqu.Ex{"parking_lot_id": parkingLotID}).
		Order(goqu.C("seq").Asc())
	if err := a.selectAll(ctx, &reviews, ds); err != nil {
		return nil, err
	}
	return reviews, nil
}

type communityUpdateAdapter struct {
	*Store
}

func (a *communityUpdateAdapter) Create(ctx context.Context, update *entities.CommunityUpdate) error {
	defer a.timed(ctx, "community_updates.create")()

	return writeError(a.insert(ctx, communityUpdatesTable, goqu.Record{
		"id":             update.ID,
		"parking_lot_id": update.ParkingLotID,
		"user_id":        update.UserID,
		"status":         string(update.Status),
		"comment":        update.Comment,
		"points_earned":  update.PointsEarned,
		"created_at":     update.CreatedAt,
	}), "community update", nil)
}

func (a *communityUpdateAdapter) ListRecent(ctx context.Context, limit int) ([]*entities.CommunityUpdate, error) {
	defer a.timed(ctx, "community_updates.list_recent")()

	ds := a.dialect.From(communityUpdatesTable).Select(communityUpdateColumns...).Order(newest...)
	if limit >= 0 {
		ds = ds.Limit(uint(limit))
	}

	updates := []*entities.CommunityUpdate{}
	if err := a.selectAll(ctx, &updates, ds); err != nil {
		return nil, err
	}
	return updates, nil
}

type rewardAdapter struct {
	*Store
}

func (a *rewardAdapter) Create(ctx context.Context, reward *entities.Reward) error {
	defer a.timed(ctx, "rewards.create")()

	return writeError(a.insert(ctx, rewardsTable, goqu.Record{
		"id":          reward.ID,
		"name":        reward.Name,
		"description": reward.Description,
		"points_cost": reward.PointsCost,
		"category":    string(reward.Category),
		"icon":        reward.Icon,
		"is_active":   reward.IsActive,
	}), "reward", nil)
}

func (a *rewardAdapter) GetByID(ctx context.Context, id string) (*entities.Reward, error) {
	defer a.timed(ctx, "rewards.get")()

	var reward entities.Reward
	ds := a.dialect.From(rewardsTable).Select(rewardColumns...).Where(goqu.Ex{"id": id})
	if err := a.get(ctx, &reward, ds); err != nil {
		return nil, readError(err, "reward")
	}
	return &reward, nil
}

func (a *rewardAdapter) ListActive(ctx context.Context) ([]*entities.Reward, error) {
	defer a.timed(ctx, "rewards.list_active")()

	rewards := []*entities.Reward{}
	ds := a.dialect.From(rewardsTable).Select(rewardColumns...).
		Where(goqu.Ex{"is_active": true}).
		Order(goqu.C("seq").Asc())
	if err := a.selectAll(ctx, &rewards, ds); err != nil {
		return nil, err
	}
	return rewards, nil
}

type userRewardAdapter struct {
	*Store
}

func (a *userRewardAdapter) Create(ctx context.Context, userReward *entities.UserReward) error {
	defer a.timed(ctx, "user_rewards.create")()

	return writeError(a.insert(ctx, userRewardsTable, goqu.Record{
		"id":          userReward.ID,
		"user_id":     userReward.UserID,
		"reward_id":   userReward.RewardID,
		"redeemed_at": userReward.RedeemedAt,
		"is_used":     userReward.IsUsed,
	}), "user reward", nil)
}

func (a *userRewardAdapter) ListByUser(ctx context.Context, userID string) ([]*entities.UserReward, error) {
	defer a.timed(ctx, "user_rewards.list_by_user")()

	userRewards := []*entities.UserReward{}
	ds := a.dialect.From(userRewardsTable).Select(userRewardColumns...).
		Where(goqu.Ex{"user_id": userID}).
		Order(goqu.C("redeemed_at").Desc(), goqu.C("seq").Desc())
	if err := a.selectAll(ctx, &userRewards, ds); err != nil {
		return nil, err
	}
	return userRewards, nil
}

type pointsHistoryAdapter struct {
	*Store
}

func (a *pointsHistoryAdapter) Create(ctx context.Context, entry *entities.PointsHistory) error {
	defer a.timed(ctx, "points_history.create")()

	return writeError(a.insert(ctx, pointsHistoryTable, goqu.Record{
		"id":          entry.ID,
		"user_id":     entry.UserID,
		"points":      entry.Points,
		"activity":    string(entry.Activity),
		"description": entry.Description,
		"created_at":  entry.CreatedAt,
	}), "points history", nil)
}

func (a *pointsHistoryAdapter) ListByUser(ctx context.Context, userID string) ([]*entities.PointsHistory, error) {
	defer a.timed(ctx, "points_history.list_by_user")()

	history := []*entities.PointsHistory{}
	ds := a.dialect.From(pointsHistoryTable).Select(pointsHistoryColumns...).
		Where(goqu.Ex{"user_id": userID}).
		Order(newest...)
	if err := a.selectAll(ctx, &history, ds); err != nil {
		return nil, err
	}
	return history, nil
}
