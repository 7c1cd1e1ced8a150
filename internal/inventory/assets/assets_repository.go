package assets

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/SarprasYP/sispras/internal/repository"
	custom_error "github.com/SarprasYP/sispras/pkg/errors"
	"github.com/SarprasYP/sispras/pkg/models"

	"github.com/doug-martin/goqu/v9"
)

var (
	_ repository.AssetStore = (*AssetsRepository)(nil)
	_ repository.Catalog    = (*AssetsRepository)(nil)
)

// selector is satisfied by both *goqu.Database and *goqu.TxDatabase.
type selector interface {
	From(from ...interface{}) *goqu.SelectDataset
}

type AssetsRepository struct {
	repository *repository.Repository
}

func NewRepository(r *repository.Repository) *AssetsRepository {
	return &AssetsRepository{
		repository: r,
	}
}

func (r *AssetsRepository) RunProvisioning(ctx context.Context, fn func(tx repository.ProvisioningTx) error) error {
	ctx, cancel := r.repository.WithDeadline(ctx)
	defer cancel()

	err := repository.WithTransaction(ctx, r.repository.GoquDBWrapper, func(tx *goqu.TxDatabase) error {
		return fn(&provisioningTx{tx: tx})
	})
	return custom_error.WrapDBError("asset provisioning transaction failed", err)
}

func (r *AssetsRepository) GetProduct(ctx context.Context, id int) (*models.Product, error) {
	ctx, cancel := r.repository.WithDeadline(ctx)
	defer cancel()
	return selectProduct(ctx, r.repository.GoquDBWrapper, id)
}

func (r *AssetsRepository) GetLocation(ctx context.Context, id int) (*models.Location, error) {
	ctx, cancel := r.repository.WithDeadline(ctx)
	defer cancel()
	return selectLocation(ctx, r.repository.GoquDBWrapper, id)
}

func (r *AssetsRepository) GetAsset(ctx context.Context, id int) (*models.Asset, error) {
	ctx, cancel := r.repository.WithDeadline(ctx)
	defer cancel()

	var flatAsset models.FlatAssetRecord
	found, err := r.getAssetQuery().
		Where(goqu.Ex{"a.id": id}).
		Executor().
		ScanStructContext(ctx, &flatAsset)
	if err != nil {
		return nil, custom_error.WrapDBError("unable to select asset", err)
	}
	if !found {
		return nil, custom_error.NotFound("asset %d not found", id)
	}

	asset, err := flatAsset.TransformToAsset()
	if err != nil {
		return nil, err
	}
	return &asset, nil
}

func (r *AssetsRepository) UpdateAsset(ctx context.Context, id int, changes models.AssetChanges) (*models.Asset, error) {
	record := goqu.Record{"updated_at": goqu.L("NOW()")}
	if changes.Condition != nil {
		record["condition"] = string(*changes.Condition)
	}
	if changes.PurchasedYear != nil {
		record["purchased_year"] = *changes.PurchasedYear
	}
	if changes.EstimatedPrice != nil {
		record["estimated_price"] = *changes.EstimatedPrice
	}
	if changes.Attributes != nil {
		attributes, err := json.Marshal(changes.Attributes)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal attributes: %w", err)
		}
		record["attributes"] = string(attributes)
	}

	deadlineCtx, cancel := r.repository.WithDeadline(ctx)
	defer cancel()

	result, err := r.repository.GoquDBWrapper.Update("assets").
		Set(record).
		Where(goqu.Ex{"id": id}).
		Executor().
		ExecContext(deadlineCtx)
	if err != nil {
		return nil, custom_error.WrapDBError("failed to update asset", err)
	}
	if affected, err := result.RowsAffected(); err != nil {
		return nil, custom_error.WrapDBError("failed to update asset", err)
	} else if affected == 0 {
		return nil, custom_error.NotFound("asset %d not found", id)
	}

	return r.GetAsset(ctx, id)
}

// DeleteAsset removes an asset. Rows still referencing it surface as a
// Conflict through the foreign key violation.
func (r *AssetsRepository) DeleteAsset(ctx context.Context, id int) error {
	ctx, cancel := r.repository.WithDeadline(ctx)
	defer cancel()

	result, err := r.repository.GoquDBWrapper.
		Delete("assets").
		Where(goqu.Ex{"id": id}).
		Executor().
		ExecContext(ctx)
	if err != nil {
		return custom_error.WrapDBError("failed to delete asset", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return custom_error.WrapDBError("failed to delete asset", err)
	}
	if affected == 0 {
		return custom_error.NotFound("asset %d not found", id)
	}

	return nil
}

func (r *AssetsRepository) assetsFrom() *goqu.SelectDataset {
	return r.repository.GoquDBWrapper.From(goqu.T("assets").As("a")).
		Join(goqu.T("products").As("p"), goqu.On(goqu.Ex{"a.product_id": goqu.I("p.id")})).
		LeftJoin(goqu.T("brands").As("b"), goqu.On(goqu.Ex{"p.brand_id": goqu.I("b.id")})).
		Join(goqu.T("locations").As("l"), goqu.On(goqu.Ex{"a.location_id": goqu.I("l.id")}))
}

func (r *AssetsRepository) getAssetQuery() *goqu.SelectDataset {
	return r.assetsFrom().
		Select(
			goqu.I("a.id").As("asset_id"),
			goqu.I("a.serial_number").As("serial_number"),
			goqu.I("a.condition").As("condition"),
			goqu.I("a.purchased_year").As("purchased_year"),
			goqu.I("a.estimated_price").As("estimated_price"),
			goqu.I("a.attributes").As("attributes"),
			goqu.I("a.created_at").As("created_at"),
			goqu.I("a.updated_at").As("updated_at"),
			goqu.I("p.id").As("product_id"),
			goqu.I("p.name").As("product_name"),
			goqu.I("p.product_code").As("product_code"),
			goqu.I("p.measurement_unit").As("product_measurement_unit"),
			goqu.I("b.id").As("brand_id"),
			goqu.I("b.name").As("brand_name"),
			goqu.I("l.id").As("location_id"),
			goqu.I("l.name").As("location_name"),
			goqu.I("l.building").As("location_building"),
			goqu.I("l.floor").As("location_floor"),
		)
}

type provisioningTx struct {
	tx *goqu.TxDatabase
}

func (t *provisioningTx) GetProduct(ctx context.Context, id int) (*models.Product, error) {
	return selectProduct(ctx, t.tx, id)
}

func (t *provisioningTx) GetLocation(ctx context.Context, id int) (*models.Location, error) {
	return selectLocation(ctx, t.tx, id)
}

// NextSequence bumps the (product code, location) counter by n. The upsert
// takes a row lock, so concurrent provisioning of the same pair serializes
// here and receives disjoint ranges.
func (t *provisioningTx) NextSequence(ctx context.Context, productCode string, locationID, n int) (int, error) {
	var existing int
	_, err := t.tx.From(goqu.T("assets").As("a")).
		Select(goqu.COUNT("a.id")).
		Join(goqu.T("products").As("p"), goqu.On(goqu.Ex{"a.product_id": goqu.I("p.id")})).
		Where(goqu.Ex{"p.product_code": productCode, "a.location_id": locationID}).
		Executor().
		ScanValContext(ctx, &existing)
	if err != nil {
		return 0, custom_error.WrapDBError("unable to count existing assets", err)
	}

	var last int
	_, err = t.tx.Insert("asset_sequences").
		Rows(goqu.Record{
			"product_code": productCode,
			"location_id":  locationID,
			"last_value":   existing + n,
		}).
		OnConflict(goqu.DoUpdate("product_code, location_id", goqu.Record{
			"last_value": goqu.L("asset_sequences.last_value + ?", n),
		})).
		Returning("last_value").
		Executor().
		ScanValContext(ctx, &last)
	if err != nil {
		return 0, custom_error.WrapDBError("failed to reserve asset sequence", err)
	}

	return last - n + 1, nil
}

func (t *provisioningTx) InsertAssets(ctx context.Context, assets []models.Asset) ([]models.Asset, error) {
	rows := make([]interface{}, 0, len(assets))
	for _, asset := range assets {
		record := goqu.Record{
			"product_id":      asset.Product.ID,
			"location_id":     asset.Location.ID,
			"serial_number":   asset.SerialNumber,
			"condition":       string(asset.Condition),
			"purchased_year":  asset.PurchasedYear,
			"estimated_price": asset.EstimatedPrice,
			"attributes":      nil,
		}
		if asset.Attributes != nil {
			attributes, err := json.Marshal(asset.Attributes)
			if err != nil {
				return nil, fmt.Errorf("failed to marshal attributes: %w", err)
			}
			record["attributes"] = string(attributes)
		}
		rows = append(rows, record)
	}

	var inserted []struct {
		ID           int       `db:"id"`
		SerialNumber string    `db:"serial_number"`
		CreatedAt    time.Time `db:"created_at"`
		UpdatedAt    time.Time `db:"updated_at"`
	}
	err := t.tx.Insert("assets").
		Rows(rows...).
		Returning("id", "serial_number", "created_at", "updated_at").
		Executor().
		ScanStructsContext(ctx, &inserted)
	if err != nil {
		return nil, custom_error.WrapDBError("failed to insert assets", err)
	}

	bySerial := make(map[string]int, len(inserted))
	for i, row := range inserted {
		bySerial[row.SerialNumber] = i
	}

	created := make([]models.Asset, 0, len(assets))
	for _, asset := range assets {
		i, ok := bySerial[asset.SerialNumber]
		if !ok {
			return nil, fmt.Errorf("inserted asset %s was not returned", asset.SerialNumber)
		}
		asset.ID = inserted[i].ID
		asset.CreatedAt = inserted[i].CreatedAt
		asset.UpdatedAt = inserted[i].UpdatedAt
		created = append(created, asset)
	}
	return created, nil
}

func selectProduct(ctx context.Context, db selector, id int) (*models.Product, error) {
	var product models.Product
	found, err := db.From("products").
		Select("id", "name", "product_code", "brand_id", "measurement_unit").
		Where(goqu.Ex{"id": id}).
		Executor().
		ScanStructContext(ctx, &product)
	if err != nil {
		return nil, custom_error.WrapDBError("unable to select product", err)
	}
	if !found {
		return nil, custom_error.NotFound("product %d not found", id)
	}

	return &product, nil
}

func selectLocation(ctx context.Context, db selector, id int) (*models.Location, error) {
	var location models.Location
	found, err := db.From("locations").
		Select("id", "name", "building", "floor").
		Where(goqu.Ex{"id": id}).
		Executor().
		ScanStructContext(ctx, &location)
	if err != nil {
		return nil, custom_error.WrapDBError("unable to select location", err)
	}
	if !found {
		return nil, custom_error.NotFound("location %d not found", id)
	}

	return &location, nil
}
