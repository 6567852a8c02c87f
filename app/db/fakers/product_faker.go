package fakers

import (
	"math"
	"math/rand"
	"strings"

	"github.com/Rakhulsr/go-cartridge/app/models"
	"github.com/go-faker/faker/v4"
	"github.com/shopspring/decimal"
)

var imagePaths = []string{
	"/images/products/ss.jpg",
	"/images/products/ss1.jpg",
	"/images/products/ss2.jpg",
}

var CategoryTitles = []string{"Clothing", "Shoes", "Accessories"}

var OptionValues = map[string][]string{
	"Size":   {"S", "M", "L", "XL"},
	"Colour": {"Red", "Blue", "Black"},
}

// ProductFaker returns an unsaved product with a price and one to three images.
func ProductFaker() *models.Product {
	title := strings.Title(faker.Word() + " " + faker.Word())

	numImages := rand.Intn(3) + 1
	images := make([]models.ProductImage, numImages)
	for i := range images {
		images[i] = models.ProductImage{
			File:        imagePaths[rand.Intn(len(imagePaths))],
			Description: faker.Sentence(),
		}
		if len(images[i].Description) > 100 {
			images[i].Description = images[i].Description[:100]
		}
	}

	return &models.Product{
		Title:       title,
		Description: faker.Paragraph(),
		Keywords:    faker.Word() + " " + faker.Word(),
		Active:      true,
		Available:   true,
		Priced: models.Priced{
			UnitPrice: decimal.NewNullDecimal(decimal.NewFromFloat(fakePrice())),
		},
		Images: images,
	}
}

// StockFaker returns a stock level, or nil for an untracked variation.
func StockFaker() *int {
	if rand.Intn(4) == 0 {
		return nil
	}
	n := rand.Intn(20) + 1
	return &n
}

func fakePrice() float64 {
	return precision(rand.Float64()*math.Pow10(rand.Intn(3)+1)+1, 2)
}

func precision(val float64, pre int) float64 {
	a := math.Pow10(pre)
	return float64(int(val*a)) / a
}
