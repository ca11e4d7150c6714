package basket

import (
	"context"
	"errors"
	"fmt"
	"hash/fnv"
	"regexp"
	"strings"
	"sync"

	pkgerrors "github.com/bdshop/storefront-backend/pkg/errors"
	"github.com/bdshop/storefront-backend/pkg/logger"
)

const lockStripes = 64

var profileIDPattern = regexp.MustCompile(`^[A-Za-z0-9_-]{1,128}$`)

// Service exposes the store operations for a browser profile. Every mutation
// loads the blob, applies the change and saves the whole blob again while
// holding the profile's lock.
type Service interface {
	Get(ctx context.Context, profileID string) (State, error)
	AddToBasket(ctx context.Context, profileID, productID string) (State, error)
	RemoveFromBasket(ctx context.Context, profileID, productID string) (State, error)
	RemoveItemCompletely(ctx context.Context, profileID, productID string) (State, error)
	ClearBasket(ctx context.Context, profileID string) (State, error)
	ItemCount(ctx context.Context, profileID, productID string) (int, error)
	AddOrder(ctx context.Context, profileID string, order Order) (bool, State, error)
	CleanupDuplicateOrders(ctx context.Context, profileID string) (int, State, error)
	ClearAllOrders(ctx context.Context, profileID string) (State, error)
	// Update runs fn against the profile's store and saves the result unless fn fails.
	Update(ctx context.Context, profileID string, fn func(*Store) error) (State, error)
}

type service struct {
	repo     Repository
	products ProductResolver
	logg     *logger.Logger
	locks    [lockStripes]sync.Mutex
}

// NewService builds a basket service backed by the provided stack.
func NewService(repo Repository, products ProductResolver, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("basket repository required")
	}
	if products == nil {
		return nil, fmt.Errorf("product resolver required")
	}
	return &service{
		repo:     repo,
		products: products,
		logg:     logg,
	}, nil
}

// ValidateProfileID rejects ids that cannot be used as storage keys.
func ValidateProfileID(profileID string) error {
	if !profileIDPattern.MatchString(profileID) {
		return pkgerrors.New(pkgerrors.CodeValidation, "invalid basket profile id")
	}
	return nil
}

func (s *service) Get(ctx context.Context, profileID string) (State, error) {
	if err := ValidateProfileID(profileID); err != nil {
		return State{}, err
	}
	unlock := s.lock(profileID)
	defer unlock()

	store, err := s.load(ctx, profileID)
	if err != nil {
		return State{}, err
	}
	return store.State(), nil
}

func (s *service) AddToBasket(ctx context.Context, profileID, productID string) (State, error) {
	productID = strings.TrimSpace(productID)
	if productID == "" {
		return State{}, pkgerrors.New(pkgerrors.CodeValidation, "product id is required")
	}
	if err := ValidateProfileID(profileID); err != nil {
		return State{}, err
	}
	product, err := s.products.ResolveProduct(ctx, productID)
	if err != nil {
		if typed := pkgerrors.As(err); typed != nil {
			return State{}, typed
		}
		return State{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "resolve product")
	}
	return s.Update(ctx, profileID, func(store *Store) error {
		store.AddToBasket(product)
		return nil
	})
}

func (s *service) RemoveFromBasket(ctx context.Context, profileID, productID string) (State, error) {
	return s.Update(ctx, profileID, func(store *Store) error {
		store.RemoveFromBasket(productID)
		return nil
	})
}

func (s *service) RemoveItemCompletely(ctx context.Context, profileID, productID string) (State, error) {
	return s.Update(ctx, profileID, func(store *Store) error {
		store.RemoveItemCompletely(productID)
		return nil
	})
}

func (s *service) ClearBasket(ctx context.Context, profileID string) (State, error) {
	return s.Update(ctx, profileID, func(store *Store) error {
		store.ClearBasket()
		return nil
	})
}

func (s *service) ItemCount(ctx context.Context, profileID, productID string) (int, error) {
	state, err := s.Get(ctx, profileID)
	if err != nil {
		return 0, err
	}
	return NewStore(state).ItemCount(productID), nil
}

func (s *service) AddOrder(ctx context.Context, profileID string, order Order) (bool, State, error) {
	var added bool
	state, err := s.Update(ctx, profileID, func(store *Store) error {
		added = store.AddOrder(order)
		return nil
	})
	if err != nil {
		return false, State{}, err
	}
	ctx = s.logg.WithSessionID(ctx, order.SessionID)
	if added {
		s.logg.Info(ctx, "order added to history")
	} else {
		s.logg.Info(ctx, "duplicate order prevented")
	}
	return added, state, nil
}

func (s *service) CleanupDuplicateOrders(ctx context.Context, profileID string) (int, State, error) {
	var removed int
	state, err := s.Update(ctx, profileID, func(store *Store) error {
		removed = store.CleanupDuplicateOrders()
		return nil
	})
	if err != nil {
		return 0, State{}, err
	}
	if removed > 0 {
		s.logg.Info(s.logg.WithField(ctx, "removed", removed), "duplicate orders cleaned up")
	}
	return removed, state, nil
}

func (s *service) ClearAllOrders(ctx context.Context, profileID string) (State, error) {
	state, err := s.Update(ctx, profileID, func(store *Store) error {
		store.ClearAllOrders()
		return nil
	})
	if err != nil {
		return State{}, err
	}
	s.logg.Info(ctx, "order history cleared")
	return state, nil
}

func (s *service) Update(ctx context.Context, profileID string, fn func(*Store) error) (State, error) {
	if err := ValidateProfileID(profileID); err != nil {
		return State{}, err
	}
	unlock := s.lock(profileID)
	defer unlock()

	store, err := s.load(ctx, profileID)
	if err != nil {
		return State{}, err
	}
	if err := fn(store); err != nil {
		return State{}, err
	}
	state := store.State()
	if err := s.repo.Save(ctx, profileID, state); err != nil {
		return State{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "save basket state")
	}
	return state, nil
}

func (s *service) load(ctx context.Context, profileID string) (*Store, error) {
	state, err := s.repo.Load(ctx, profileID)
	if err != nil {
		if !errors.Is(err, ErrCorruptState) {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load basket state")
		}
		s.logg.Warn(s.logg.WithField(s.logg.WithProfileID(ctx, profileID), "reason", err.Error()), "discarding unreadable basket state")
		state = State{}
	}
	return NewStore(state), nil
}

func (s *service) lock(profileID string) func() {
	h := fnv.New32a()
	_, _ = h.Write([]byte(profileID))
	mu := &s.locks[h.Sum32()%lockStripes]
	mu.Lock()
	return mu.Unlock
}
