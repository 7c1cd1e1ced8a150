package serial

import (
	"context"
	"sync"
	"testing"

	"github.com/SarprasYP/sispras/internal/repository/memory"
	custom_error "github.com/SarprasYP/sispras/pkg/errors"
	"github.com/SarprasYP/sispras/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerator_Generate(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	lab := store.AddLocation(models.Location{Name: "12 (Lab)", Building: "A", Floor: "3"})
	warehouse := store.AddLocation(models.Location{Name: "Gudang", Building: "B", Floor: "1"})
	chair := store.AddProduct(models.Product{Name: "Kursi", ProductCode: "KUR001"})
	unnamed := store.AddProduct(models.Product{Name: "Tanpa kode"})
	blank := store.AddProduct(models.Product{Name: "Kode kosong", ProductCode: "   "})
	padded := store.AddProduct(models.Product{Name: "Meja", ProductCode: " MEJ "})

	generator := NewGenerator(store)

	tests := []struct {
		name       string
		productID  int
		locationID int
		sequence   int
		expected   string
		kind       custom_error.Kind
	}{
		{name: "formats serial", productID: chair.ID, locationID: lab.ID, sequence: 7, expected: "GA/L3/R12/KUR001-007"},
		{name: "room fallback", productID: chair.ID, locationID: warehouse.ID, sequence: 12, expected: "GB/L1/RNA/KUR001-012"},
		{name: "wide sequence", productID: chair.ID, locationID: lab.ID, sequence: 1000, expected: "GA/L3/R12/KUR001-1000"},
		{name: "unknown product", productID: 999, locationID: lab.ID, sequence: 1, kind: custom_error.KindNotFound},
		{name: "unknown location", productID: chair.ID, locationID: 999, sequence: 1, kind: custom_error.KindNotFound},
		{name: "empty product code", productID: unnamed.ID, locationID: lab.ID, sequence: 1, kind: custom_error.KindInvalidArgument},
		{name: "whitespace product code", productID: blank.ID, locationID: lab.ID, sequence: 1, kind: custom_error.KindInvalidArgument},
		{name: "code embedded as stored", productID: padded.ID, locationID: lab.ID, sequence: 3, expected: "GA/L3/R12/ MEJ -003"},
		{name: "zero sequence", productID: chair.ID, locationID: lab.ID, sequence: 0, kind: custom_error.KindInvalidArgument},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			serial, err := generator.Generate(ctx, tt.productID, tt.locationID, tt.sequence)
			if tt.expected == "" {
				require.Error(t, err)
				assert.Equal(t, tt.kind, custom_error.KindOf(err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, serial)
		})
	}
}

func TestGenerator_IsIdempotentUnderConcurrency(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	location := store.AddLocation(models.Location{Name: "101 Kelas", Building: "C", Floor: "2"})
	product := store.AddProduct(models.Product{Name: "Proyektor", ProductCode: "PRY"})
	generator := NewGenerator(store)

	const workers = 16
	results := make([]string, workers)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			serial, err := generator.Generate(ctx, product.ID, location.ID, 42)
			assert.NoError(t, err)
			results[i] = serial
		}(i)
	}
	wg.Wait()

	for _, serial := range results {
		assert.Equal(t, "GC/L2/R101/PRY-042", serial)
	}
}
