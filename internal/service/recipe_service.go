package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/kitchenlog/internal/storage"
)

var (
	ErrRecipeExists      = errors.New("recipe already exists")
	ErrRecipeNotFound    = errors.New("recipe not found")
	ErrEmptyRecipeName   = errors.New("recipe name is required")
	ErrInvalidBatchSize  = errors.New("batch size must be at least 1")
	ErrBlankRecipeField  = errors.New("all recipe fields are required")
	ErrUnknownIngredient = errors.New("ingredient is not in the catalog")
)

// RecipeLine is one ingredient row of a recipe. IngredientID may be null in
// stored documents that predate id resolution; it is refreshed on every save.
type RecipeLine struct {
	IngredientID   *string `json:"ingredient_id"`
	IngredientName string  `json:"ingredient_name"`
	Unit           string  `json:"unit"`
	Quantity       float64 `json:"quantity"`
}

// Recipe is one named entry of the recipe document.
type Recipe struct {
	BatchSize   int          `json:"batch_size"`
	Ingredients []RecipeLine `json:"ingredients"`
}

// RecipeDocument maps recipe names to recipes. The whole document is stored
// as a single JSON object in the blob store.
type RecipeDocument map[string]Recipe

// RecipeLineInput is one row submitted by the recipe editor; the ingredient
// is referenced by name and resolved against the current catalog on save.
type RecipeLineInput struct {
	Ingredient string  `json:"ingredient"`
	Unit       string  `json:"unit"`
	Quantity   float64 `json:"quantity"`
}

// RecipeService stores all recipes as one JSON blob, read and rewritten
// wholesale on every mutation. There is no locking or version check on the
// write: concurrent editors can silently overwrite each other, and that is
// an accepted limitation of the document model, not a bug to paper over.
type RecipeService struct {
	store   storage.BlobStore
	catalog *CatalogService
	key     string
}

// NewRecipeService creates a RecipeService writing to keyPrefix + "recipes.json".
func NewRecipeService(store storage.BlobStore, catalog *CatalogService, keyPrefix string) *RecipeService {
	return &RecipeService{store: store, catalog: catalog, key: keyPrefix + "recipes.json"}
}

// List returns the whole recipe document. A missing blob is an empty
// document, not an error.
func (s *RecipeService) List(ctx context.Context) (RecipeDocument, error) {
	return s.load(ctx)
}

// Create adds an empty recipe with the given batch size.
func (s *RecipeService) Create(ctx context.Context, name string, batchSize int) error {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return ErrEmptyRecipeName
	}
	if batchSize < 1 {
		return ErrInvalidBatchSize
	}

	doc, err := s.load(ctx)
	if err != nil {
		return err
	}
	if _, ok := doc[trimmed]; ok {
		return ErrRecipeExists
	}

	doc[trimmed] = Recipe{BatchSize: batchSize, Ingredients: []RecipeLine{}}
	return s.save(ctx, doc)
}

// Update replaces a recipe's batch size and ingredient lines. Every line must
// be fully filled in and reference a current catalog ingredient by name; the
// ingredient id is resolved and snapshotted at save time.
func (s *RecipeService) Update(ctx context.Context, name string, batchSize int, lines []RecipeLineInput) error {
	if batchSize < 1 {
		return ErrInvalidBatchSize
	}

	doc, err := s.load(ctx)
	if err != nil {
		return err
	}
	if _, ok := doc[name]; !ok {
		return ErrRecipeNotFound
	}

	catalog, err := s.catalog.List()
	if err != nil {
		return err
	}
	byName := make(map[string]string, len(catalog))
	for _, ing := range catalog {
		byName[ing.Name] = ing.IngredientID
	}

	resolved := make([]RecipeLine, 0, len(lines))
	for _, line := range lines {
		if strings.TrimSpace(line.Ingredient) == "" || strings.TrimSpace(line.Unit) == "" || line.Quantity <= 0 {
			return ErrBlankRecipeField
		}
		id, ok := byName[line.Ingredient]
		if !ok {
			return fmt.Errorf("%w: %s", ErrUnknownIngredient, line.Ingredient)
		}
		ingredientID := id
		resolved = append(resolved, RecipeLine{
			IngredientID:   &ingredientID,
			IngredientName: line.Ingredient,
			Unit:           line.Unit,
			Quantity:       line.Quantity,
		})
	}

	doc[name] = Recipe{BatchSize: batchSize, Ingredients: resolved}
	return s.save(ctx, doc)
}

// Delete removes a recipe from the document.
func (s *RecipeService) Delete(ctx context.Context, name string) error {
	doc, err := s.load(ctx)
	if err != nil {
		return err
	}
	if _, ok := doc[name]; !ok {
		return ErrRecipeNotFound
	}

	delete(doc, name)
	return s.save(ctx, doc)
}

func (s *RecipeService) load(ctx context.Context) (RecipeDocument, error) {
	body, err := s.store.Get(ctx, s.key)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return RecipeDocument{}, nil
		}
		return nil, fmt.Errorf("load recipe document: %w", err)
	}

	var doc RecipeDocument
	if err := json.Unmarshal(body, &doc); err != nil {
		return nil, fmt.Errorf("decode recipe document: %w", err)
	}
	if doc == nil {
		doc = RecipeDocument{}
	}
	return doc, nil
}

func (s *RecipeService) save(ctx context.Context, doc RecipeDocument) error {
	body, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("encode recipe document: %w", err)
	}
	if err := s.store.Put(ctx, s.key, body, "application/json"); err != nil {
		return fmt.Errorf("save recipe document: %w", err)
	}
	return nil
}
