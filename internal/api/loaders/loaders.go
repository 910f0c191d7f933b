package loaders

import (
	"context"
	"net/http"

	"github.com/graph-gophers/dataloader/v7"
	"github.com/parkshare/backend/internal/domain/entities"
	"github.com/parkshare/backend/internal/domain/repositories"
	apperrors "github.com/parkshare/backend/pkg/errors"
)

type ctxKey string

const loadersKey ctxKey = "dataloaders"

// Loaders batches the lot and user lookups of one request
type Loaders struct {
	ParkingLotLoader *dataloader.Loader[string, *entities.ParkingLot]
	UserLoader       *dataloader.Loader[string, *entities.User]
}

// NewLoaders creates request-scoped loaders over store. Loaders cache
// results, so build a fresh set per request.
func NewLoaders(store repositories.Store) *Loaders {
	return &Loaders{
		ParkingLotLoader: dataloader.NewBatchedLoader(batchByID(
			store.ParkingLots().GetByIDs,
			func(l *entities.ParkingLot) string { return l.ID },
			"parking lot",
		)),
		UserLoader: dataloader.NewBatchedLoader(batchByID(
			store.Users().GetByIDs,
			func(u *entities.User) string { return u.ID },
			"user",
		)),
	}
}

// batchByID adapts a GetByIDs repository call to a batch function that
// answers every key in order, with a not-found error for missing ids
func batchByID[T any](fetch func(context.Context, []string) ([]T, error), idOf func(T) string, what string) dataloader.BatchFunc[string, T] {
	return func(ctx context.Context, keys []string) []*dataloader.Result[T] {
		results := make([]*dataloader.Result[T], len(keys))
		items, err := fetch(ctx, keys)

		byID := make(map[string]T, len(items))
		if err == nil {
			for _, item := range items {
				byID[idOf(item)] = item
			}
		}

		for i, key := range keys {
			if err != nil {
				results[i] = &dataloader.Result[T]{Error: err}
			} else if item, ok := byID[key]; ok {
				results[i] = &dataloader.Result[T]{Data: item}
			} else {
				results[i] = &dataloader.Result[T]{Error: apperrors.NewNotFoundError(what + " " + key + " not found")}
			}
		}
		return results
	}
}

// For returns the loaders for a given context, or nil when none are attached
func For(ctx context.Context) *Loaders {
	l, _ := ctx.Value(loadersKey).(*Loaders)
	return l
}

// WithLoaders returns a new context with the loaders attached
func WithLoaders(ctx context.Context, loaders *Loaders) context.Context {
	return context.WithValue(ctx, loadersKey, loaders)
}

// Middleware attaches a fresh set of loaders to every request
func Middleware(store repositories.Store) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := WithLoaders(r.Context(), NewLoaders(store))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
