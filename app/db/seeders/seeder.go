package seeders

import (
	"context"
	"fmt"
	"log"
	"math/rand"

	"github.com/Rakhulsr/go-cartridge/app/db/fakers"
	"github.com/Rakhulsr/go-cartridge/app/models"
	"github.com/Rakhulsr/go-cartridge/app/services"
)

// DBSeed fills the catalog with option values, a small category tree and the
// given number of fake products with generated variations. Everything goes
// through the catalog service so slugs, defaults and images follow the usual rules.
func DBSeed(ctx context.Context, catalog *services.CatalogService, products int) error {
	optionValues := make(map[string][]string)
	for _, optionType := range catalog.OptionTypes() {
		for _, value := range fakers.OptionValues[optionType] {
			if _, err := catalog.AddOptionValue(ctx, optionType, value); err != nil {
				return fmt.Errorf("failed to seed option %s %s: %w", optionType, value, err)
			}
			optionValues[optionType] = append(optionValues[optionType], value)
		}
	}

	var categories []*models.Category
	for _, title := range fakers.CategoryTitles {
		category, err := catalog.CreateCategory(ctx, title, nil, true)
		if err != nil {
			return fmt.Errorf("failed to seed category %s: %w", title, err)
		}
		categories = append(categories, category)

		child, err := catalog.CreateCategory(ctx, "Sale "+title, &category.ID, true)
		if err != nil {
			return fmt.Errorf("failed to seed category under %s: %w", title, err)
		}
		categories = append(categories, child)
	}

	for i := 0; i < products; i++ {
		product := fakers.ProductFaker()
		category := categories[rand.Intn(len(categories))]
		if err := catalog.CreateProduct(ctx, product, []string{category.ID}); err != nil {
			return fmt.Errorf("failed to seed product %s: %w", product.Title, err)
		}
		if len(optionValues) == 0 {
			continue
		}

		variations, err := catalog.CreateVariationsFromOptions(ctx, product.ID, optionValues)
		if err != nil {
			return fmt.Errorf("failed to seed variations for %s: %w", product.Title, err)
		}
		for j := range variations {
			variations[j].NumInStock = fakers.StockFaker()
			if err := catalog.UpdateVariation(ctx, &variations[j]); err != nil {
				return fmt.Errorf("failed to seed stock for %s: %w", variations[j].Sku, err)
			}
		}
	}

	log.Printf("DBSeed: seeded %d categories and %d products", len(categories), products)
	return nil
}
