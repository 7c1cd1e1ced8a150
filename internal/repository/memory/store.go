// Package memory is a transactional in-process implementation of the
// repository stores. Transactions run one at a time against a private copy
// of the data that replaces the shared state only on commit.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/SarprasYP/sispras/internal/repository"
	custom_error "github.com/SarprasYP/sispras/pkg/errors"
	"github.com/SarprasYP/sispras/pkg/models"
)

// Operation names accepted by InjectFault.
const (
	OpEnsureStockItem  = "EnsureStockItem"
	OpIncreaseQuantity = "IncreaseQuantity"
	OpDecreaseQuantity = "DecreaseQuantity"
	OpAppendLogEntry   = "AppendLogEntry"
	OpNextSequence     = "NextSequence"
	OpInsertAssets     = "InsertAssets"
	OpListStockItems   = "ListStockItems"
)

var (
	_ repository.AssetStore  = (*Store)(nil)
	_ repository.LedgerStore = (*Store)(nil)
	_ repository.ReportStore = (*Store)(nil)
	_ repository.UserStore   = (*Store)(nil)
	_ repository.Catalog     = (*Store)(nil)
)

type sequenceKey struct {
	productCode string
	locationID  int
}

type state struct {
	brands      map[int]models.Brand
	products    map[int]models.Product
	locations   map[int]models.Location
	consumables map[int]models.ConsumableProduct
	users       map[int]models.User
	assets      map[int]models.Asset
	sequences   map[sequenceKey]int
	stockItems  map[int]models.StockItem
	logEntries  []models.StockLogEntry
	lastID      map[string]int
}

func newState() *state {
	return &state{
		brands:      map[int]models.Brand{},
		products:    map[int]models.Product{},
		locations:   map[int]models.Location{},
		consumables: map[int]models.ConsumableProduct{},
		users:       map[int]models.User{},
		assets:      map[int]models.Asset{},
		sequences:   map[sequenceKey]int{},
		stockItems:  map[int]models.StockItem{},
		lastID:      map[string]int{},
	}
}

func (s *state) clone() *state {
	c := newState()
	for k, v := range s.brands {
		c.brands[k] = v
	}
	for k, v := range s.products {
		c.products[k] = v
	}
	for k, v := range s.locations {
		c.locations[k] = v
	}
	for k, v := range s.consumables {
		c.consumables[k] = v
	}
	for k, v := range s.users {
		c.users[k] = v
	}
	for k, v := range s.assets {
		c.assets[k] = v
	}
	for k, v := range s.sequences {
		c.sequences[k] = v
	}
	for k, v := range s.stockItems {
		c.stockItems[k] = v
	}
	for k, v := range s.lastID {
		c.lastID[k] = v
	}
	c.logEntries = append(make([]models.StockLogEntry, 0, len(s.logEntries)+1), s.logEntries...)
	return c
}

func (s *state) nextID(table string) int {
	s.lastID[table]++
	return s.lastID[table]
}

type Store struct {
	mu     sync.Mutex
	state  *state
	faults map[string]error
	now    func() time.Time
}

func New() *Store {
	return &Store{
		state:  newState(),
		faults: map[string]error{},
		now:    time.Now,
	}
}

// InjectFault makes the next call of op inside a transaction fail with err.
func (s *Store) InjectFault(op string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.faults[op] = err
}

func (s *Store) fault(op string) error {
	if err, ok := s.faults[op]; ok {
		delete(s.faults, op)
		return err
	}
	return nil
}

// update runs fn against a copy of the state and publishes the copy only
// when fn succeeds. The caller must hold s.mu.
func (s *Store) update(ctx context.Context, fn func(st *state) error) error {
	if err := ctx.Err(); err != nil {
		return custom_error.Transient("transaction aborted", err)
	}
	working := s.state.clone()
	if err := fn(working); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return custom_error.Transient("transaction aborted before commit", err)
	}
	s.state = working
	return nil
}

func (s *Store) read(fn func(st *state)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(s.state)
}

func (s *Store) AddBrand(name string) models.Brand {
	s.mu.Lock()
	defer s.mu.Unlock()
	brand := models.Brand{ID: s.state.nextID("brands"), Name: name}
	s.state.brands[brand.ID] = brand
	return brand
}

func (s *Store) AddProduct(product models.Product) models.Product {
	s.mu.Lock()
	defer s.mu.Unlock()
	product.ID = s.state.nextID("products")
	product.Brand = nil
	s.state.products[product.ID] = product
	return product
}

func (s *Store) AddLocation(location models.Location) models.Location {
	s.mu.Lock()
	defer s.mu.Unlock()
	location.ID = s.state.nextID("locations")
	s.state.locations[location.ID] = location
	return location
}

func (s *Store) AddConsumable(product models.ConsumableProduct) models.ConsumableProduct {
	s.mu.Lock()
	defer s.mu.Unlock()
	product.ID = s.state.nextID("consumable_products")
	s.state.consumables[product.ID] = product
	return product
}

func (s *Store) AddUser(user models.User) models.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	user.ID = s.state.nextID("users")
	s.state.users[user.ID] = user
	return user
}

// SetReorderPoint changes the low-stock threshold of a stock item.
func (s *Store) SetReorderPoint(stockItemID, reorderPoint int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	item, ok := s.state.stockItems[stockItemID]
	if !ok {
		return custom_error.NotFound("stock item %d not found", stockItemID)
	}
	item.ReorderPoint = reorderPoint
	s.state.stockItems[stockItemID] = item
	return nil
}

func (s *Store) GetProduct(_ context.Context, id int) (*models.Product, error) {
	var (
		product *models.Product
		err     error
	)
	s.read(func(st *state) { product, err = st.getProduct(id) })
	return product, err
}

func (s *Store) GetLocation(_ context.Context, id int) (*models.Location, error) {
	var (
		location *models.Location
		err      error
	)
	s.read(func(st *state) { location, err = st.getLocation(id) })
	return location, err
}

func (s *Store) FindUserByUsername(_ context.Context, username string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, user := range s.state.users {
		if user.Username == username {
			u := user
			return &u, nil
		}
	}
	return nil, custom_error.NotFound("user %s not found", username)
}

func (st *state) getProduct(id int) (*models.Product, error) {
	product, ok := st.products[id]
	if !ok {
		return nil, custom_error.NotFound("product %d not found", id)
	}
	if product.BrandID != nil {
		if brand, ok := st.brands[*product.BrandID]; ok {
			product.Brand = &brand
		}
	}
	return &product, nil
}

func (st *state) getLocation(id int) (*models.Location, error) {
	location, ok := st.locations[id]
	if !ok {
		return nil, custom_error.NotFound("location %d not found", id)
	}
	return &location, nil
}
