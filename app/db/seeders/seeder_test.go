package seeders

import (
	"context"
	"testing"

	"github.com/Rakhulsr/go-cartridge/app/configs"
	"github.com/Rakhulsr/go-cartridge/app/db/fakers"
	"github.com/Rakhulsr/go-cartridge/app/models/migrations"
	"github.com/Rakhulsr/go-cartridge/app/routes"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func TestDBSeed(t *testing.T) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })
	require.NoError(t, migrations.AutoMigrate(db))

	svc, err := routes.NewServices(db, configs.ENV{ProductOptions: "Size,Colour", ShippingRates: "standard:10"}, routes.Dependencies{})
	require.NoError(t, err)

	ctx := context.Background()
	require.NoError(t, DBSeed(ctx, svc.Catalog, 5))

	categories, err := svc.Catalog.ListCategories(ctx)
	require.NoError(t, err)
	assert.Len(t, categories, 2*len(fakers.CategoryTitles))

	sizes, err := svc.Catalog.ListOptionValues(ctx, "Size")
	require.NoError(t, err)
	assert.Len(t, sizes, len(fakers.OptionValues["Size"]))

	products, total, err := svc.Catalog.SearchProducts(ctx, "", 100, 0)
	require.NoError(t, err)
	assert.EqualValues(t, 5, total)
	for _, p := range products {
		assert.NotEmpty(t, p.Slug)
	}
}
