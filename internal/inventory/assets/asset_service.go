package assets

import (
	"context"
	"strings"

	"github.com/SarprasYP/sispras/internal/inventory/serial"
	"github.com/SarprasYP/sispras/internal/repository"
	custom_error "github.com/SarprasYP/sispras/pkg/errors"
	"github.com/SarprasYP/sispras/pkg/metadata"
	"github.com/SarprasYP/sispras/pkg/models"
	"github.com/SarprasYP/sispras/pkg/validation"

	"go.uber.org/zap"
)

type AssetService struct {
	store     repository.AssetStore
	generator *serial.Generator
	logger    *zap.Logger
}

func NewAssetService(store repository.AssetStore, generator *serial.Generator, logger *zap.Logger) *AssetService {
	return &AssetService{
		store:     store,
		generator: generator,
		logger:    logger,
	}
}

// CreateAssets provisions req.Quantity assets of one product at one location.
// Sequence numbers are reserved and the assets inserted in a single
// transaction, so either every asset is created or none is.
func (s *AssetService) CreateAssets(ctx context.Context, req CreateAssetsRequest) ([]models.Asset, error) {
	req.Condition = strings.TrimSpace(req.Condition)
	if err := validation.Struct(req); err != nil {
		return nil, err
	}
	condition, err := metadata.NewCondition(req.Condition)
	if err != nil {
		return nil, custom_error.Validation(map[string][]string{"condition": {err.Error()}})
	}

	var created []models.Asset
	err = s.store.RunProvisioning(ctx, func(tx repository.ProvisioningTx) error {
		product, err := tx.GetProduct(ctx, req.ProductID)
		if err != nil {
			return err
		}
		location, err := tx.GetLocation(ctx, req.LocationID)
		if err != nil {
			return err
		}

		first, err := tx.NextSequence(ctx, product.ProductCode, location.ID, req.Quantity)
		if err != nil {
			return err
		}

		batch := make([]models.Asset, 0, req.Quantity)
		for i := 0; i < req.Quantity; i++ {
			serialNumber, err := serial.Format(*product, *location, first+i)
			if err != nil {
				return err
			}
			batch = append(batch, models.Asset{
				Product:        *product,
				Location:       *location,
				SerialNumber:   serialNumber,
				Condition:      condition,
				PurchasedYear:  req.PurchasedYear,
				EstimatedPrice: req.EstimatedPrice,
				Attributes:     req.Attributes,
			})
		}

		created, err = tx.InsertAssets(ctx, batch)
		return err
	})
	if err != nil {
		return nil, err
	}

	serials := make([]string, 0, len(created))
	for _, asset := range created {
		serials = append(serials, asset.SerialNumber)
	}
	s.logger.Info("Assets provisioned",
		zap.Int("product_id", req.ProductID),
		zap.Int("location_id", req.LocationID),
		zap.Int("quantity", len(created)),
		zap.Strings("serials", serials),
	)
	return created, nil
}

func (s *AssetService) GenerateSerial(ctx context.Context, productID, locationID, sequence int) (string, error) {
	return s.generator.Generate(ctx, productID, locationID, sequence)
}

const DefaultListLimit = 10

// ListAssets pages over the asset register. Without an explicit order the
// newest assets come first.
func (s *AssetService) ListAssets(ctx context.Context, req ListAssetsRequest) (*models.AssetPage, error) {
	req.SortBy = strings.TrimSpace(req.SortBy)
	req.Order = strings.ToLower(strings.TrimSpace(req.Order))
	req.Condition = strings.TrimSpace(req.Condition)
	if err := validation.Struct(req); err != nil {
		return nil, err
	}

	query := models.AssetListQuery{
		Page:   max(req.Page, 1),
		Limit:  req.Limit,
		SortBy: req.SortBy,
		Desc:   req.Order != "asc",
		Filters: models.AssetListFilters{
			Q:            strings.TrimSpace(req.Q),
			SerialNumber: strings.TrimSpace(req.SerialNumber),
			ProductID:    req.ProductID,
			ProductName:  strings.TrimSpace(req.ProductName),
			LocationID:   req.LocationID,
			LocationName: strings.TrimSpace(req.LocationName),
			BrandName:    strings.TrimSpace(req.BrandName),
			Condition:    req.Condition,
		},
	}
	if query.Limit == 0 {
		query.Limit = DefaultListLimit
	}
	if query.SortBy == "" {
		query.SortBy = models.AssetSortCreatedAt
	}

	assets, total, err := s.store.ListAssets(ctx, query)
	if err != nil {
		return nil, err
	}
	if assets == nil {
		assets = []models.Asset{}
	}

	return &models.AssetPage{
		Data:       assets,
		Pagination: models.NewPagination(total, query.Page, query.Limit),
	}, nil
}

func (s *AssetService) GetAsset(ctx context.Context, id int) (*models.Asset, error) {
	return s.store.GetAsset(ctx, id)
}

func (s *AssetService) UpdateAsset(ctx context.Context, id int, req UpdateAssetRequest) (*models.Asset, error) {
	if req.Condition != nil {
		trimmed := strings.TrimSpace(*req.Condition)
		req.Condition = &trimmed
	}
	if err := validation.Struct(req); err != nil {
		return nil, err
	}

	changes := models.AssetChanges{
		PurchasedYear:  req.PurchasedYear,
		EstimatedPrice: req.EstimatedPrice,
		Attributes:     req.Attributes,
	}
	if req.Condition != nil {
		condition, err := metadata.NewCondition(*req.Condition)
		if err != nil {
			return nil, custom_error.Validation(map[string][]string{"condition": {err.Error()}})
		}
		changes.Condition = &condition
	}
	if changes.IsEmpty() {
		return nil, custom_error.Validation(map[string][]string{"body": {"at least one field must be provided"}})
	}

	asset, err := s.store.UpdateAsset(ctx, id, changes)
	if err != nil {
		return nil, err
	}

	s.logger.Info("Asset updated", zap.Int("asset_id", id), zap.String("serial", asset.SerialNumber))
	return asset, nil
}

func (s *AssetService) DeleteAsset(ctx context.Context, id int) error {
	if err := s.store.DeleteAsset(ctx, id); err != nil {
		return err
	}

	s.logger.Info("Asset deleted", zap.Int("asset_id", id))
	return nil
}
