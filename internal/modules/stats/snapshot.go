package stats

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"github.com/georgemunganga/tradeboard-backend/internal/identity"
	"github.com/georgemunganga/tradeboard-backend/internal/modules/customer"
	"github.com/georgemunganga/tradeboard-backend/internal/modules/inventory"
	"github.com/georgemunganga/tradeboard-backend/internal/modules/order"
	"github.com/georgemunganga/tradeboard-backend/internal/modules/payment"
	"github.com/georgemunganga/tradeboard-backend/internal/platform/cache"
	"github.com/georgemunganga/tradeboard-backend/internal/platform/logger"
)

// ErrFetchFailed means at least one collection could not be read. No partial
// snapshot is ever returned alongside it.
var ErrFetchFailed = errors.New("stats: snapshot fetch failed")

// Snapshot is everything the aggregations read for one owner, fetched at
// TakenAt. Treat it as immutable; it may be shared between requests.
type Snapshot struct {
	Owner            identity.Owner      `json:"owner"`
	Orders           []order.Order       `json:"orders"`
	Products         []inventory.Product `json:"products"`
	PaymentsReceived []payment.Payment   `json:"payments_received"`
	PaymentsMade     []payment.Payment   `json:"payments_made"`
	Customers        []customer.Customer `json:"customers"`
	TakenAt          time.Time           `json:"taken_at"`
}

// The sources are satisfied by the module repositories.
type (
	OrderSource interface {
		ListByOwner(ctx context.Context, owner identity.Owner, status string) ([]order.Order, error)
	}
	ProductSource interface {
		ListByOwner(ctx context.Context, owner identity.Owner, category string) ([]inventory.Product, error)
	}
	PaymentSource interface {
		ListByOwner(ctx context.Context, owner identity.Owner, direction payment.Direction) ([]payment.Payment, error)
	}
	CustomerSource interface {
		ListBySupplier(ctx context.Context, supplierID uuid.UUID, status string) ([]customer.Customer, error)
	}
)

type Sources struct {
	Orders    OrderSource
	Products  ProductSource
	Payments  PaymentSource
	Customers CustomerSource
}

// DefaultFetchTimeout bounds one round of snapshot queries.
const DefaultFetchTimeout = 30 * time.Second

// Loader fetches snapshots. Concurrent loads for one owner share a single
// round of queries, and with a positive TTL snapshots are kept in the cache.
// The shared round is detached from the cancellation of whichever caller
// started it; each caller still stops waiting when its own context ends.
type Loader struct {
	src          Sources
	cache        cache.Store
	ttl          time.Duration
	fetchTimeout time.Duration
	log          *logger.Logger
	group        singleflight.Group
	now          func() time.Time
}

func NewLoader(src Sources, store cache.Store, ttl time.Duration, log *logger.Logger) *Loader {
	if store == nil {
		store = cache.NewNoop()
	}
	return &Loader{
		src:          src,
		cache:        store,
		ttl:          ttl,
		fetchTimeout: DefaultFetchTimeout,
		log:          log.With("component", "StatsLoader"),
		now:          time.Now,
	}
}

func cacheKey(owner identity.Owner) string { return "stats:snapshot:" + owner.Key() }

// Load returns the snapshot for owner.
func (l *Loader) Load(ctx context.Context, owner identity.Owner) (*Snapshot, error) {
	if err := owner.Validate(); err != nil {
		return nil, err
	}
	key := cacheKey(owner)

	if l.ttl > 0 {
		var snap Snapshot
		hit, err := l.cache.Get(ctx, key, &snap)
		switch {
		case err != nil:
			l.log.Warn("snapshot cache read failed, using database", "owner", owner.Key(), "error", err)
		case hit:
			return &snap, nil
		}
	}

	ch := l.group.DoChan(key, func() (interface{}, error) {
		fctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), l.fetchTimeout)
		defer cancel()
		snap, err := l.fetch(fctx, owner)
		if err != nil {
			return nil, err
		}
		if l.ttl > 0 {
			if err := l.cache.Set(fctx, key, snap, l.ttl); err != nil {
				l.log.Warn("snapshot cache write failed", "owner", owner.Key(), "error", err)
			}
		}
		return snap, nil
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		if res.Shared {
			l.log.Debug("snapshot load shared", "owner", owner.Key())
		}
		return res.Val.(*Snapshot), nil
	}
}

var _ identity.ChangeNotifier = (*Loader)(nil)

// Invalidate drops any cached snapshot for owner.
func (l *Loader) Invalidate(ctx context.Context, owner identity.Owner) error {
	return l.cache.Delete(ctx, cacheKey(owner))
}

func (l *Loader) fetch(ctx context.Context, owner identity.Owner) (*Snapshot, error) {
	snap := &Snapshot{Owner: owner}
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		rows, err := l.src.Orders.ListByOwner(gctx, owner, "")
		if err != nil {
			return fmt.Errorf("orders: %w", err)
		}
		snap.Orders = rows
		return nil
	})
	g.Go(func() error {
		rows, err := l.src.Products.ListByOwner(gctx, owner, "")
		if err != nil {
			return fmt.Errorf("products: %w", err)
		}
		snap.Products = rows
		return nil
	})
	g.Go(func() error {
		rows, err := l.src.Payments.ListByOwner(gctx, owner, payment.DirectionReceived)
		if err != nil {
			return fmt.Errorf("payments received: %w", err)
		}
		snap.PaymentsReceived = rows
		return nil
	})
	g.Go(func() error {
		rows, err := l.src.Payments.ListByOwner(gctx, owner, payment.DirectionMade)
		if err != nil {
			return fmt.Errorf("payments made: %w", err)
		}
		snap.PaymentsMade = rows
		return nil
	})
	if owner.Role == identity.RoleSupplier && l.src.Customers != nil {
		g.Go(func() error {
			rows, err := l.src.Customers.ListBySupplier(gctx, owner.ID, "")
			if err != nil {
				return fmt.Errorf("customers: %w", err)
			}
			snap.Customers = rows
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		l.log.Error("snapshot fetch failed", "owner", owner.Key(), "error", err)
		return nil, fmt.Errorf("%w: %w", ErrFetchFailed, err)
	}

	snap.Orders = keepOwned(l.log, owner, "orders", snap.Orders, func(o order.Order) bool {
		return owner.Owns(o.VendorID, o.SupplierID)
	})
	snap.Products = keepOwned(l.log, owner, "products", snap.Products, func(p inventory.Product) bool {
		return owner.Owns(p.VendorID, p.SupplierID)
	})
	snap.PaymentsReceived = keepOwned(l.log, owner, "payments_received", snap.PaymentsReceived, func(p payment.Payment) bool {
		return owner.Owns(p.VendorID, p.SupplierID)
	})
	snap.PaymentsMade = keepOwned(l.log, owner, "payments_made", snap.PaymentsMade, func(p payment.Payment) bool {
		return owner.Owns(p.VendorID, p.SupplierID)
	})
	snap.Customers = keepOwned(l.log, owner, "customers", snap.Customers, func(c customer.Customer) bool {
		return c.SupplierID == owner.ID
	})
	snap.TakenAt = l.now().UTC()
	return snap, nil
}

// keepOwned drops rows that belong to someone else. Repositories already
// scope their queries, so a drop here points at a bad query and is logged.
func keepOwned[T any](log *logger.Logger, owner identity.Owner, collection string, rows []T, owned func(T) bool) []T {
	out := make([]T, 0, len(rows))
	for _, r := range rows {
		if owned(r) {
			out = append(out, r)
		}
	}
	if dropped := len(rows) - len(out); dropped > 0 {
		log.Warn("dropped rows of another owner", "owner", owner.Key(), "collection", collection, "dropped", dropped)
	}
	return out
}
