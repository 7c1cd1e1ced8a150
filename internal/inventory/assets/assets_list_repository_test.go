package assets

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	custom_error "github.com/SarprasYP/sispras/pkg/errors"
	"github.com/SarprasYP/sispras/pkg/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var flatAssetColumns = []string{
	"asset_id", "serial_number", "condition", "purchased_year", "estimated_price", "attributes",
	"created_at", "updated_at", "product_id", "product_name", "product_code", "product_measurement_unit",
	"brand_id", "brand_name", "location_id", "location_name", "location_building", "location_floor",
}

func TestAssetsRepository_ListAssets(t *testing.T) {
	now := time.Now()

	tests := []struct {
		name      string
		query     models.AssetListQuery
		setup     func(mock sqlmock.Sqlmock)
		expectErr bool
		total     int
		rows      int
	}{
		{
			name: "filters, search and sort",
			query: models.AssetListQuery{
				Page: 2, Limit: 1, SortBy: models.AssetSortSerialNumber,
				Filters: models.AssetListFilters{Q: "kur", Condition: "Good", LocationID: 2},
			},
			setup: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`SELECT COUNT\("a"."id"\) FROM "assets" AS "a" INNER JOIN "products" AS "p" .* WHERE .*"a"."condition" = 'Good'.*"l"."id" = 2.*"a"."serial_number" ILIKE '%kur%'`).
					WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(3))
				mock.ExpectQuery(`ORDER BY "a"."serial_number" ASC NULLS LAST, "a"."id" ASC LIMIT 1 OFFSET 1`).
					WillReturnRows(sqlmock.NewRows(flatAssetColumns).AddRow(
						8, "GA/L3/R12/KUR-002", "Good", nil, nil, nil,
						now, now, 1, "Kursi Lipat", "KUR", "unit",
						nil, nil, 2, "12 (Lab)", "A", "3",
					))
			},
			total: 3,
			rows:  1,
		},
		{
			name:  "newest first",
			query: models.AssetListQuery{Page: 1, Limit: 10, SortBy: models.AssetSortPurchasedYear, Desc: true},
			setup: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`SELECT COUNT`).WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
				mock.ExpectQuery(`ORDER BY "a"."purchased_year" DESC NULLS FIRST, "a"."id" DESC LIMIT 10`).
					WillReturnRows(sqlmock.NewRows(flatAssetColumns))
			},
		},
		{
			name:  "select failure",
			query: models.AssetListQuery{Page: 1, Limit: 10},
			setup: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`SELECT COUNT`).WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
				mock.ExpectQuery(`ORDER BY "a"."created_at" ASC`).WillReturnError(assert.AnError)
			},
			expectErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, mock := newMockRepository(t)
			tt.setup(mock)

			assets, total, err := repo.ListAssets(context.Background(), tt.query)

			if tt.expectErr {
				assert.Equal(t, custom_error.KindInternal, custom_error.KindOf(err))
			} else {
				require.NoError(t, err)
				assert.Equal(t, tt.total, total)
				assert.Len(t, assets, tt.rows)
			}
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}
