package serial

import (
	"context"
	"strings"

	"github.com/SarprasYP/sispras/internal/repository"
	custom_error "github.com/SarprasYP/sispras/pkg/errors"
	"github.com/SarprasYP/sispras/pkg/metadata"
	"github.com/SarprasYP/sispras/pkg/models"
)

type Generator struct {
	catalog repository.Catalog
}

func NewGenerator(catalog repository.Catalog) *Generator {
	return &Generator{catalog: catalog}
}

// Generate resolves the product and location and formats the serial number
// for the given sequence.
func (g *Generator) Generate(ctx context.Context, productID, locationID, sequence int) (string, error) {
	product, err := g.catalog.GetProduct(ctx, productID)
	if err != nil {
		return "", err
	}
	location, err := g.catalog.GetLocation(ctx, locationID)
	if err != nil {
		return "", err
	}

	return Format(*product, *location, sequence)
}

// Format embeds the product code exactly as stored. A code of only
// whitespace counts as missing.
func Format(product models.Product, location models.Location, sequence int) (string, error) {
	if strings.TrimSpace(product.ProductCode) == "" {
		return "", custom_error.InvalidArgument("product %d has no product code", product.ID)
	}
	if sequence < 1 {
		return "", custom_error.InvalidArgument("sequence must be positive, got %d", sequence)
	}

	return metadata.NewSerialNumber(location.Building, location.Floor, location.Name, product.ProductCode, sequence).String(), nil
}
