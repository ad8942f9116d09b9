package port

import (
	"context"

	"github.com/nikolayk812/storefront-core/internal/domain"
)

type Notifier interface {
	Notify(ctx context.Context, event domain.CartEvent)
}
