package memory

import (
	"context"
	"sort"

	"github.com/SarprasYP/sispras/internal/repository"
	custom_error "github.com/SarprasYP/sispras/pkg/errors"
	"github.com/SarprasYP/sispras/pkg/models"
)

type provisioningTx struct {
	store *Store
	st    *state
}

func (s *Store) RunProvisioning(ctx context.Context, fn func(tx repository.ProvisioningTx) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.update(ctx, func(st *state) error {
		return fn(&provisioningTx{store: s, st: st})
	})
}

func (t *provisioningTx) GetProduct(_ context.Context, id int) (*models.Product, error) {
	return t.st.getProduct(id)
}

func (t *provisioningTx) GetLocation(_ context.Context, id int) (*models.Location, error) {
	return t.st.getLocation(id)
}

func (t *provisioningTx) NextSequence(_ context.Context, productCode string, locationID, n int) (int, error) {
	if err := t.store.fault(OpNextSequence); err != nil {
		return 0, err
	}
	key := sequenceKey{productCode: productCode, locationID: locationID}
	last, ok := t.st.sequences[key]
	if !ok {
		last = t.st.countAssets(productCode, locationID)
	}
	t.st.sequences[key] = last + n
	return last + 1, nil
}

func (t *provisioningTx) InsertAssets(_ context.Context, assets []models.Asset) ([]models.Asset, error) {
	if err := t.store.fault(OpInsertAssets); err != nil {
		return nil, err
	}
	serials := make(map[string]struct{}, len(t.st.assets))
	for _, existing := range t.st.assets {
		serials[existing.SerialNumber] = struct{}{}
	}

	now := t.store.now()
	created := make([]models.Asset, 0, len(assets))
	for _, asset := range assets {
		if _, taken := serials[asset.SerialNumber]; taken {
			return nil, custom_error.Duplicate("serial number %s already registered", asset.SerialNumber)
		}
		serials[asset.SerialNumber] = struct{}{}
		asset.ID = t.st.nextID("assets")
		asset.CreatedAt = now
		asset.UpdatedAt = now
		asset.Attributes = copyAttributes(asset.Attributes)
		t.st.assets[asset.ID] = asset
		created = append(created, asset)
	}
	return created, nil
}

func (st *state) countAssets(productCode string, locationID int) int {
	count := 0
	for _, asset := range st.assets {
		if asset.Location.ID != locationID {
			continue
		}
		if product, ok := st.products[asset.Product.ID]; ok && product.ProductCode == productCode {
			count++
		}
	}
	return count
}

// resolveAsset refreshes the product, brand and location snapshots of an asset.
func (st *state) resolveAsset(asset models.Asset) models.Asset {
	if product, err := st.getProduct(asset.Product.ID); err == nil {
		asset.Product = *product
	}
	if location, err := st.getLocation(asset.Location.ID); err == nil {
		asset.Location = *location
	}
	asset.Attributes = copyAttributes(asset.Attributes)
	return asset
}

func (s *Store) GetAsset(_ context.Context, id int) (*models.Asset, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	asset, ok := s.state.assets[id]
	if !ok {
		return nil, custom_error.NotFound("asset %d not found", id)
	}
	resolved := s.state.resolveAsset(asset)
	return &resolved, nil
}

func (s *Store) UpdateAsset(ctx context.Context, id int, changes models.AssetChanges) (*models.Asset, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var updated models.Asset
	err := s.update(ctx, func(st *state) error {
		asset, ok := st.assets[id]
		if !ok {
			return custom_error.NotFound("asset %d not found", id)
		}
		if changes.Condition != nil {
			asset.Condition = *changes.Condition
		}
		if changes.PurchasedYear != nil {
			asset.PurchasedYear = changes.PurchasedYear
		}
		if changes.EstimatedPrice != nil {
			asset.EstimatedPrice = changes.EstimatedPrice
		}
		if changes.Attributes != nil {
			asset.Attributes = copyAttributes(changes.Attributes)
		}
		asset.UpdatedAt = s.now()
		st.assets[id] = asset
		updated = st.resolveAsset(asset)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

func (s *Store) DeleteAsset(ctx context.Context, id int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.update(ctx, func(st *state) error {
		if _, ok := st.assets[id]; !ok {
			return custom_error.NotFound("asset %d not found", id)
		}
		delete(st.assets, id)
		return nil
	})
}

// AllAssets returns every asset ordered by id.
func (s *Store) AllAssets() []models.Asset {
	s.mu.Lock()
	defer s.mu.Unlock()
	assets := make([]models.Asset, 0, len(s.state.assets))
	for _, asset := range s.state.assets {
		assets = append(assets, s.state.resolveAsset(asset))
	}
	sort.Slice(assets, func(i, j int) bool { return assets[i].ID < assets[j].ID })
	return assets
}

func copyAttributes(attributes map[string]any) map[string]any {
	if attributes == nil {
		return nil
	}
	c := make(map[string]any, len(attributes))
	for k, v := range attributes {
		c[k] = v
	}
	return c
}
