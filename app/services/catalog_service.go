package services

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/Rakhulsr/go-cartridge/app/helpers"
	"github.com/Rakhulsr/go-cartridge/app/models"
	"github.com/Rakhulsr/go-cartridge/app/repositories"
	"gorm.io/gorm"
)

// CatalogService manages categories, products, their images and variations.
type CatalogService struct {
	db            *gorm.DB
	categoryRepo  repositories.CategoryRepositoryImpl
	productRepo   repositories.ProductRepositoryImpl
	variationRepo repositories.VariationRepository
	imageRepo     repositories.ImageRepository
	optionRepo    repositories.OptionRepository
	cartRepo      repositories.CartRepository
	optionTypes   models.OptionTypes
}

func NewCatalogService(
	db *gorm.DB,
	categoryRepo repositories.CategoryRepositoryImpl,
	productRepo repositories.ProductRepositoryImpl,
	variationRepo repositories.VariationRepository,
	imageRepo repositories.ImageRepository,
	optionRepo repositories.OptionRepository,
	cartRepo repositories.CartRepository,
	optionTypes models.OptionTypes,
) *CatalogService {
	return &CatalogService{
		db:            db,
		categoryRepo:  categoryRepo,
		productRepo:   productRepo,
		variationRepo: variationRepo,
		imageRepo:     imageRepo,
		optionRepo:    optionRepo,
		cartRepo:      cartRepo,
		optionTypes:   optionTypes,
	}
}

func (s *CatalogService) OptionTypes() models.OptionTypes {
	return s.optionTypes
}

// CreateCategory creates a category below parentID, or a root category when
// parentID is nil. Slug, titles and ordering are fixed at creation.
func (s *CatalogService) CreateCategory(ctx context.Context, title string, parentID *string, active bool) (*models.Category, error) {
	title = strings.TrimSpace(title)

	var parent *models.Category
	if parentID != nil {
		p, err := s.categoryRepo.GetByID(ctx, *parentID)
		if err != nil {
			return nil, fmt.Errorf("failed to get parent category: %w", err)
		}
		if p == nil {
			return nil, ErrCategoryNotFound
		}
		parent = p
	}

	category := &models.Category{
		Title:    title,
		ParentID: parentID,
		Titles:   title,
		Active:   active,
	}
	parentSlug := ""
	if parent != nil {
		parentSlug = parent.Slug
		category.Titles = parent.Titles + models.CategoryTitleSeparator + title
	}

	slug, err := helpers.UniqueSlug(ctx, helpers.JoinSlug(parentSlug, helpers.Slugify(title)), s.categoryRepo.SlugExists)
	if err != nil {
		return nil, err
	}
	category.Slug = slug

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		ordering, err := s.categoryRepo.CountSiblings(ctx, tx, parentID)
		if err != nil {
			return fmt.Errorf("failed to count siblings: %w", err)
		}
		category.Ordering = ordering
		return s.categoryRepo.Create(ctx, tx, category)
	})
	if err != nil {
		log.Printf("CatalogService.CreateCategory: failed to create %q: %v", title, err)
		return nil, fmt.Errorf("failed to create category: %w", err)
	}
	return category, nil
}

// DeleteCategory deletes a category with its whole subtree and closes the gap
// in its siblings' ordering.
func (s *CatalogService) DeleteCategory(ctx context.Context, id string) error {
	category, err := s.categoryRepo.GetByID(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to get category: %w", err)
	}
	if category == nil {
		return ErrCategoryNotFound
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		ids := []string{category.ID}
		level := []string{category.ID}
		for len(level) > 0 {
			children, err := s.categoryRepo.ChildIDs(ctx, tx, level)
			if err != nil {
				return fmt.Errorf("failed to collect subcategories: %w", err)
			}
			ids = append(ids, children...)
			level = children
		}
		if err := s.categoryRepo.DeleteByIDs(ctx, tx, ids); err != nil {
			return fmt.Errorf("failed to delete categories: %w", err)
		}
		return s.categoryRepo.ShiftSiblings(ctx, tx, category.ParentID, category.Ordering)
	})
}

func (s *CatalogService) GetCategoryBySlug(ctx context.Context, slug string) (*models.Category, error) {
	category, err := s.categoryRepo.GetBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	if category == nil || !category.Active {
		return nil, ErrCategoryNotFound
	}
	return category, nil
}

func (s *CatalogService) ListCategories(ctx context.Context) ([]models.Category, error) {
	return s.categoryRepo.GetAll(ctx)
}

func (s *CatalogService) ListCategoryProducts(ctx context.Context, slug string, limit, offset int) ([]models.Product, int64, error) {
	if _, err := s.GetCategoryBySlug(ctx, slug); err != nil {
		return nil, 0, err
	}
	return s.productRepo.GetByCategorySlugPaginated(ctx, slug, limit, offset)
}

// CreateProduct stores a product under a unique slug, links it to
// categoryIDs and gives it a default variation carrying its prices.
func (s *CatalogService) CreateProduct(ctx context.Context, product *models.Product, categoryIDs []string) error {
	product.Title = strings.TrimSpace(product.Title)
	base := product.Slug
	if base == "" {
		base = product.Title
	}
	slug, err := helpers.UniqueSlug(ctx, helpers.Slugify(base), s.productRepo.SlugExists)
	if err != nil {
		return err
	}
	product.Slug = slug

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		categories, err := s.categoryRepo.GetByIDs(ctx, tx, categoryIDs)
		if err != nil {
			return fmt.Errorf("failed to get categories: %w", err)
		}
		if len(categories) != len(uniqueStrings(categoryIDs)) {
			return ErrCategoryNotFound
		}
		product.Categories = categories
		product.Variations = nil
		images := product.Images
		product.Images = nil

		if err := s.productRepo.Create(ctx, tx, product); err != nil {
			return err
		}
		for i := range images {
			images[i].ProductID = product.ID
			images[i].Position = i
			if err := s.imageRepo.Create(ctx, tx, &images[i]); err != nil {
				return fmt.Errorf("failed to create image: %w", err)
			}
		}
		product.Images = images

		if err := s.manageEmpty(ctx, tx, product.ID); err != nil {
			return err
		}
		return s.copyDefaultVariation(ctx, tx, product.ID)
	})
	if err != nil {
		log.Printf("CatalogService.CreateProduct: failed to create %q: %v", product.Title, err)
		return fmt.Errorf("failed to create product: %w", err)
	}

	created, err := s.productRepo.GetByID(ctx, nil, product.ID)
	if err != nil {
		return fmt.Errorf("failed to reload product: %w", err)
	}
	*product = *created
	return nil
}

func (s *CatalogService) GetProductByID(ctx context.Context, id string) (*models.Product, error) {
	product, err := s.productRepo.GetByID(ctx, nil, id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, ErrProductNotFound
	}
	return product, nil
}

// GetProductBySlug returns an active product for the storefront.
func (s *CatalogService) GetProductBySlug(ctx context.Context, slug string) (*models.Product, error) {
	product, err := s.productRepo.GetBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	if product == nil || !product.Active {
		return nil, ErrProductNotFound
	}
	return product, nil
}

func (s *CatalogService) SearchProducts(ctx context.Context, keyword string, limit, offset int) ([]models.Product, int64, error) {
	return s.productRepo.SearchProductsPaginated(ctx, strings.TrimSpace(keyword), limit, offset)
}

// AddImage appends an image to the product. The first image of a product is
// also given to every variation that has none.
func (s *CatalogService) AddImage(ctx context.Context, productID, file, description string) (*models.ProductImage, error) {
	image := &models.ProductImage{ProductID: productID, File: file, Description: description}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		product, err := s.productRepo.GetByID(ctx, tx, productID)
		if err != nil {
			return err
		}
		if product == nil {
			return ErrProductNotFound
		}
		count, err := s.imageRepo.CountForProduct(ctx, tx, productID)
		if err != nil {
			return err
		}
		image.Position = int(count)
		if err := s.imageRepo.Create(ctx, tx, image); err != nil {
			return err
		}
		if count > 0 {
			return nil
		}
		if err := s.variationRepo.AssignImageWhereMissing(ctx, tx, productID, image.ID); err != nil {
			return err
		}
		return s.copyDefaultVariation(ctx, tx, productID)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to add image: %w", err)
	}
	return image, nil
}

// AddOptionValue registers a selectable value for one of the configured option types.
func (s *CatalogService) AddOptionValue(ctx context.Context, optionType, name string) (*models.ProductOption, error) {
	name = strings.TrimSpace(name)
	if !s.optionTypes.Has(optionType) || name == "" {
		return nil, fmt.Errorf("%w: unknown option type %q", ErrInvalidOptions, optionType)
	}
	option := &models.ProductOption{Type: optionType, Name: name}
	if err := s.optionRepo.Add(ctx, option); err != nil {
		return nil, fmt.Errorf("failed to add option value: %w", err)
	}
	return option, nil
}

func (s *CatalogService) ListOptionValues(ctx context.Context, optionType string) ([]models.ProductOption, error) {
	return s.optionRepo.ListByType(ctx, optionType)
}

// CreateVariation adds one variation to a product. The SKU defaults to the
// variation's id and the image to the product's first image.
func (s *CatalogService) CreateVariation(ctx context.Context, variation *models.ProductVariation) error {
	options, err := s.validateOptions(ctx, variation.Options)
	if err != nil {
		return err
	}
	variation.Options = options
	variation.ID = ""
	variation.Sku = strings.TrimSpace(variation.Sku)

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		product, err := s.productRepo.GetByID(ctx, tx, variation.ProductID)
		if err != nil {
			return err
		}
		if product == nil {
			return ErrProductNotFound
		}

		existing, err := s.variationRepo.ListByProduct(ctx, tx, product.ID)
		if err != nil {
			return err
		}
		key := models.OptionsKey(options)
		for _, v := range existing {
			if models.OptionsKey(v.Options) == key {
				return ErrDuplicateCombination
			}
		}
		if !isEmptyCombination(options) {
			if err := s.dropPlaceholder(ctx, tx, existing); err != nil {
				return err
			}
		}

		if err := s.assignDefaultImage(ctx, tx, variation); err != nil {
			return err
		}
		if err := s.variationRepo.Create(ctx, tx, variation); err != nil {
			return err
		}
		if err := s.manageEmpty(ctx, tx, product.ID); err != nil {
			return err
		}
		if err := s.copyDefaultVariation(ctx, tx, product.ID); err != nil {
			return err
		}
		stored, err := s.variationRepo.GetByID(ctx, tx, variation.ID)
		if err != nil {
			return err
		}
		if stored != nil {
			*variation = *stored
		}
		return nil
	})
	if err != nil {
		log.Printf("CatalogService.CreateVariation: product %s: %v", variation.ProductID, err)
		return err
	}
	return nil
}

// CreateVariationsFromOptions creates a variation for every combination of
// the given option values that the product does not have yet.
func (s *CatalogService) CreateVariationsFromOptions(ctx context.Context, productID string, values map[string][]string) ([]models.ProductVariation, error) {
	for name, choices := range values {
		for _, choice := range choices {
			if _, err := s.validateOptions(ctx, []models.OptionSelection{{Name: name, Value: choice}}); err != nil {
				return nil, err
			}
		}
	}
	combinations := s.optionTypes.Combinations(values)

	var created []models.ProductVariation
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		product, err := s.productRepo.GetByID(ctx, tx, productID)
		if err != nil {
			return err
		}
		if product == nil {
			return ErrProductNotFound
		}
		existing, err := s.variationRepo.ListByProduct(ctx, tx, productID)
		if err != nil {
			return err
		}
		seen := make(map[string]bool, len(existing))
		for _, v := range existing {
			seen[models.OptionsKey(v.Options)] = true
		}

		for _, combination := range combinations {
			key := models.OptionsKey(combination)
			if seen[key] {
				continue
			}
			seen[key] = true
			variation := models.ProductVariation{
				ProductID: productID,
				Options:   combination,
				Priced:    models.Priced{UnitPrice: product.UnitPrice},
			}
			if err := s.assignDefaultImage(ctx, tx, &variation); err != nil {
				return err
			}
			if err := s.variationRepo.Create(ctx, tx, &variation); err != nil {
				return err
			}
			created = append(created, variation)
		}

		if err := s.manageEmpty(ctx, tx, productID); err != nil {
			return err
		}
		if err := s.copyDefaultVariation(ctx, tx, productID); err != nil {
			return err
		}
		created, err = s.reloadVariations(ctx, tx, productID, created)
		return err
	})
	if err != nil {
		log.Printf("CatalogService.CreateVariationsFromOptions: product %s: %v", productID, err)
		return nil, err
	}
	return created, nil
}

// UpdateVariation saves changes to an existing variation and refreshes the
// product's copy of the default variation. The default flag is left as
// stored; use SetDefaultVariation to move it.
func (s *CatalogService) UpdateVariation(ctx context.Context, variation *models.ProductVariation) error {
	options, err := s.validateOptions(ctx, variation.Options)
	if err != nil {
		return err
	}
	variation.Options = options

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		current, err := s.variationRepo.GetByID(ctx, tx, variation.ID)
		if err != nil {
			return err
		}
		if current == nil || current.ProductID != variation.ProductID {
			return ErrVariationNotFound
		}
		siblings, err := s.variationRepo.ListByProduct(ctx, tx, variation.ProductID)
		if err != nil {
			return err
		}
		key := models.OptionsKey(options)
		for _, v := range siblings {
			if v.ID != variation.ID && models.OptionsKey(v.Options) == key {
				return ErrDuplicateCombination
			}
		}
		if variation.Sku == "" {
			variation.Sku = current.Sku
		}
		if err := s.assignDefaultImage(ctx, tx, variation); err != nil {
			return err
		}
		variation.CreatedAt = current.CreatedAt
		variation.Default = current.Default
		if err := s.variationRepo.Update(ctx, tx, variation); err != nil {
			return err
		}
		return s.copyDefaultVariation(ctx, tx, variation.ProductID)
	})
}

// SetDefaultVariation makes variationID the product's only default variation.
func (s *CatalogService) SetDefaultVariation(ctx context.Context, productID, variationID string) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		variation, err := s.variationRepo.GetByID(ctx, tx, variationID)
		if err != nil {
			return err
		}
		if variation == nil || variation.ProductID != productID {
			return ErrVariationNotFound
		}
		if err := s.variationRepo.ClearDefault(ctx, tx, productID); err != nil {
			return err
		}
		variation.Default = true
		if err := s.variationRepo.Update(ctx, tx, variation); err != nil {
			return err
		}
		return s.copyDefaultVariation(ctx, tx, productID)
	})
}

func (s *CatalogService) GetVariationBySku(ctx context.Context, sku string) (*models.ProductVariation, error) {
	variation, err := s.variationRepo.GetBySku(ctx, nil, sku)
	if err != nil {
		return nil, err
	}
	if variation == nil {
		return nil, ErrVariationNotFound
	}
	return variation, nil
}

// HasStock reports whether quantity more of the variation can be put in a
// cart. Stock already held in carts counts as taken. Availability is
// remembered in the StockMemo carried by ctx, if any.
func (s *CatalogService) HasStock(ctx context.Context, variation *models.ProductVariation, quantity int) (bool, error) {
	if !variation.IsStockTracked() || quantity == 0 {
		return true, nil
	}

	memo := StockMemoFrom(ctx)
	if memo != nil {
		if available, ok := memo.get(variation.Sku); ok {
			return available >= quantity, nil
		}
	}

	inCarts, err := s.cartRepo.SumQuantityBySku(ctx, variation.Sku)
	if err != nil {
		return false, fmt.Errorf("failed to sum cart quantities: %w", err)
	}
	available := *variation.NumInStock - inCarts
	if memo != nil {
		memo.set(variation.Sku, available)
	}
	return available >= quantity, nil
}

// validateOptions normalizes selections over the configured option types and
// checks each value against the registered values of its type, if any.
func (s *CatalogService) validateOptions(ctx context.Context, selections []models.OptionSelection) ([]models.OptionSelection, error) {
	normalized, err := s.optionTypes.Normalize(selections)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidOptions, err)
	}

	registered, err := s.optionRepo.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list option values: %w", err)
	}
	allowed := make(map[string]map[string]bool)
	for _, o := range registered {
		if allowed[o.Type] == nil {
			allowed[o.Type] = make(map[string]bool)
		}
		allowed[o.Type][o.Name] = true
	}

	for _, sel := range normalized {
		if sel.Value == "" || allowed[sel.Name] == nil {
			continue
		}
		if !allowed[sel.Name][sel.Value] {
			return nil, fmt.Errorf("%w: %q is not a %s", ErrInvalidOptions, sel.Value, sel.Name)
		}
	}
	return normalized, nil
}

func (s *CatalogService) assignDefaultImage(ctx context.Context, tx *gorm.DB, variation *models.ProductVariation) error {
	if variation.ImageID != nil {
		return nil
	}
	image, err := s.imageRepo.FirstForProduct(ctx, tx, variation.ProductID)
	if err != nil {
		return fmt.Errorf("failed to get product image: %w", err)
	}
	if image != nil {
		variation.ImageID = &image.ID
	}
	return nil
}

// manageEmpty keeps a product with exactly one option-less variation when it
// has no others, drops that placeholder once real variations exist, and
// makes sure one variation is the default.
func (s *CatalogService) manageEmpty(ctx context.Context, tx *gorm.DB, productID string) error {
	variations, err := s.variationRepo.ListByProduct(ctx, tx, productID)
	if err != nil {
		return err
	}

	if len(variations) == 0 {
		product, err := s.productRepo.GetByID(ctx, tx, productID)
		if err != nil {
			return err
		}
		placeholder := models.ProductVariation{
			ProductID: productID,
			Options:   s.emptyCombination(),
			Default:   true,
			Priced: models.Priced{
				UnitPrice: product.UnitPrice,
				SalePrice: product.SalePrice,
				SaleFrom:  product.SaleFrom,
				SaleTo:    product.SaleTo,
			},
		}
		if err := s.assignDefaultImage(ctx, tx, &placeholder); err != nil {
			return err
		}
		return s.variationRepo.Create(ctx, tx, &placeholder)
	}

	if len(variations) > 1 {
		if err := s.dropPlaceholder(ctx, tx, variations); err != nil {
			return err
		}
		if variations, err = s.variationRepo.ListByProduct(ctx, tx, productID); err != nil {
			return err
		}
	}

	for _, v := range variations {
		if v.Default {
			return nil
		}
	}
	first := variations[0]
	first.Default = true
	return s.variationRepo.Update(ctx, tx, &first)
}

// reloadVariations returns the stored rows of variations, in the same order,
// so flags set after they were created are visible to the caller.
func (s *CatalogService) reloadVariations(ctx context.Context, tx *gorm.DB, productID string, variations []models.ProductVariation) ([]models.ProductVariation, error) {
	stored, err := s.variationRepo.ListByProduct(ctx, tx, productID)
	if err != nil {
		return nil, err
	}
	byID := make(map[string]models.ProductVariation, len(stored))
	for _, v := range stored {
		byID[v.ID] = v
	}
	out := make([]models.ProductVariation, 0, len(variations))
	for _, v := range variations {
		if fresh, ok := byID[v.ID]; ok {
			out = append(out, fresh)
		}
	}
	return out, nil
}

func (s *CatalogService) dropPlaceholder(ctx context.Context, tx *gorm.DB, variations []models.ProductVariation) error {
	var ids []string
	for _, v := range variations {
		if isEmptyCombination(v.Options) {
			ids = append(ids, v.ID)
		}
	}
	return s.variationRepo.DeleteByIDs(ctx, tx, ids)
}

// copyDefaultVariation mirrors the default variation's prices and image onto the product.
func (s *CatalogService) copyDefaultVariation(ctx context.Context, tx *gorm.DB, productID string) error {
	product, err := s.productRepo.GetByID(ctx, tx, productID)
	if err != nil {
		return err
	}
	if product == nil {
		return ErrProductNotFound
	}

	var def *models.ProductVariation
	for i := range product.Variations {
		if product.Variations[i].Default {
			def = &product.Variations[i]
			break
		}
	}
	if def == nil {
		return fmt.Errorf("%w: product %s", ErrNoDefaultVariation, productID)
	}

	product.Priced = def.Priced
	product.Image = ""
	if def.Image != nil {
		product.Image = def.Image.File
	}
	return s.productRepo.Update(ctx, tx, product)
}

func (s *CatalogService) emptyCombination() []models.OptionSelection {
	combination, _ := s.optionTypes.Normalize(nil)
	return combination
}

func isEmptyCombination(options []models.OptionSelection) bool {
	for _, o := range options {
		if o.Value != "" {
			return false
		}
	}
	return true
}

func uniqueStrings(values []string) []string {
	seen := make(map[string]bool, len(values))
	var out []string
	for _, v := range values {
		if !seen[v] {
			seen[v] = true
			out = append(out, v)
		}
	}
	return out
}
