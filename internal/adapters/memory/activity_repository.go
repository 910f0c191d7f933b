package memory

import (
	"context"
	"sort"
	"time"

	"github.com/parkshare/backend/internal/domain/entities"
	apperrors "github.com/parkshare/backend/pkg/errors"
)

type reviewRepo struct {
	*view
}

func (r *reviewRepo) Create(_ context.Context, review *entities.Review) error {
	r.lock.Lock()
	defer r.lock.Unlock()

	n := len(r.data.reviews)
	r.data.reviews = append(r.data.reviews, cloneReview(review))
	r.journal.record(func() { r.data.reviews = r.data.reviews[:n] })
	return nil
}

func (r *reviewRepo) ListByParkingLot(_ context.Context, parkingLotID string) ([]*entities.Review, error) {
	r.lock.Lock()
	defer r.lock.Unlock()

	out := []*entities.Review{}
	for _, review := range r.data.reviews {
		if review.ParkingLotID == parkingLotID {
			out = append(out, cloneReview(review))
		}
	}
	return out, nil
}

type updateRepo struct {
	*view
}

func (r *updateRepo) Create(_ context.Context, update *entities.CommunityUpdate) error {
	r.lock.Lock()
	defer r.lock.Unlock()

	n := len(r.data.updates)
	r.data.updates = append(r.data.updates, cloneUpdate(update))
	r.journal.record(func() { r.data.updates = r.data.updates[:n] })
	return nil
}

func (r *updateRepo) ListRecent(_ context.Context, limit int) ([]*entities.CommunityUpdate, error) {
	r.lock.Lock()
	defer r.lock.Unlock()

	out := make([]*entities.CommunityUpdate, 0, len(r.data.updates))
	for i := len(r.data.updates) - 1; i >= 0; i-- {
		out = append(out, cloneUpdate(r.data.updates[i]))
	}
	newestFirst(out, func(u *entities.CommunityUpdate) time.Time { return u.CreatedAt })

	if limit >= 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

type rewardRepo struct {
	*view
}

func (r *rewardRepo) Create(_ context.Context, reward *entities.Reward) error {
	r.lock.Lock()
	defer r.lock.Unlock()

	if _, exists := r.data.rewards[reward.ID]; exists {
		return apperrors.NewConflictError("reward already exists")
	}
	r.data.rewards[reward.ID] = cloneReward(reward)
	r.data.rewardOrder = append(r.data.rewardOrder, reward.ID)

	id, n := reward.ID, len(r.data.rewardOrder)-1
	r.journal.record(func() {
		delete(r.data.rewards, id)
		r.data.rewardOrder = r.data.rewardOrder[:n]
	})
	return nil
}

func (r *rewardRepo) GetByID(_ context.Context, id string) (*entities.Reward, error) {
	r.lock.Lock()
	defer r.lock.Unlock()

	if reward, ok := r.data.rewards[id]; ok {
		return cloneReward(reward), nil
	}
	return nil, apperrors.NewNotFoundError("reward not found")
}

func (r *rewardRepo) ListActive(_ context.Context) ([]*entities.Reward, error) {
	r.lock.Lock()
	defer r.lock.Unlock()

	out := []*entities.Reward{}
	for _, id := range r.data.rewardOrder {
		if reward := r.data.rewards[id]; reward.IsActive {
			out = append(out, cloneReward(reward))
		}
	}
	return out, nil
}

type userRewardRepo struct {
	*view
}

func (r *userRewardRepo) Create(_ context.Context, userReward *entities.UserReward) error {
	r.lock.Lock()
	defer r.lock.Unlock()

	n := len(r.data.userRewards)
	r.data.userRewards = append(r.data.userRewards, cloneUserReward(userReward))
	r.journal.record(func() { r.data.userRewards = r.data.userRewards[:n] })
	return nil
}

func (r *userRewardRepo) ListByUser(_ context.Context, userID string) ([]*entities.UserReward, error) {
	r.lock.Lock()
	defer r.lock.Unlock()

	out := []*entities.UserReward{}
	for i := len(r.data.userRewards) - 1; i >= 0; i-- {
		if ur := r.data.userRewards[i]; ur.UserID == userID {
			out = append(out, cloneUserReward(ur))
		}
	}
	newestFirst(out, func(ur *entities.UserReward) time.Time { return ur.RedeemedAt })
	return out, nil
}

type ledgerRepo struct {
	*view
}

func (r *ledgerRepo) Create(_ context.Context, entry *entities.PointsHistory) error {
	r.lock.Lock()
	defer r.lock.Unlock()

	n := len(r.data.ledger)
	r.data.ledger = append(r.data.ledger, cloneEntry(entry))
	r.journal.record(func() { r.data.ledger = r.data.ledger[:n] })
	return nil
}

func (r *ledgerRepo) ListByUser(_ context.Context, userID string) ([]*entities.PointsHistory, error) {
	r.lock.Lock()
	defer r.lock.Unlock()

	out := []*entities.PointsHistory{}
	for i := len(r.data.ledger) - 1; i >= 0; i-- {
		if e := r.data.ledger[i]; e.UserID == userID {
			out = append(out, cloneEntry(e))
		}
	}
	newestFirst(out, func(e *entities.PointsHistory) time.Time { return e.CreatedAt })
	return out, nil
}

// newestFirst sorts by timestamp descending. Input is expected in reverse
// insertion order so equal timestamps keep the latest write first.
func newestFirst[T any](items []T, at func(T) time.Time) {
	sort.SliceStable(items, func(i, j int) bool {
		return at(items[i]).After(at(items[j]))
	})
}
