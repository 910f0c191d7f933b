package providers

import (
	"context"

	"github.com/parkshare/backend/internal/domain/entities"
)

// ActivityPublisher forwards committed points activity to downstream
// consumers such as analytics or notification services
type ActivityPublisher interface {
	Publish(ctx context.Context, event *entities.ActivityEvent) error
	Close() error
}
