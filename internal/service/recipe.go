package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"gorm.io/gorm"

	"github.com/pageza/foodgram/backend/internal/logging"
	"github.com/pageza/foodgram/backend/internal/models"
	"github.com/pageza/foodgram/backend/internal/storage"
	"github.com/pageza/foodgram/backend/internal/types"
)

const (
	msgMinOne   = "Ensure this value is greater than or equal to 1."
	msgMaxSmall = "Ensure this value is less than or equal to 32767."
	msgRequired = "This field is required."

	// maxSmallValue bounds cooking times and amounts, after merging too.
	maxSmallValue = 32767
)

// ValidatedRecipe is a recipe write request that passed validation.
// Ingredients are merged per ingredient, keeping first-seen order.
type ValidatedRecipe struct {
	Name        *string
	Text        *string
	CookingTime *int
	Image       *storage.Image
	TagIDs      []uint
	Ingredients []IngredientAmount

	tagsSet        bool
	ingredientsSet bool
}

// IngredientAmount is a merged (ingredient, amount) pair
type IngredientAmount struct {
	IngredientID uint
	Amount       int
}

// RecipeService handles recipe operations
type RecipeService struct {
	db    *gorm.DB
	store storage.Store
}

// Ensure RecipeService implements IRecipeService
var _ IRecipeService = (*RecipeService)(nil)

// NewRecipeService creates a new RecipeService instance
func NewRecipeService(db *gorm.DB, store storage.Store) *RecipeService {
	return &RecipeService{
		db:    db,
		store: store,
	}
}

// Validate checks a write request. With partial set, absent fields are
// allowed and left untouched by Update.
func (s *RecipeService) Validate(ctx context.Context, req *types.RecipeWriteRequest, partial bool) (*ValidatedRecipe, error) {
	verr := &ValidationError{}
	out := &ValidatedRecipe{}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		switch {
		case name == "":
			verr.Add("name", "This field may not be blank.")
		case len([]rune(name)) > 200:
			verr.Add("name", "Ensure this field has no more than 200 characters.")
		}
		out.Name = &name
	} else if !partial {
		verr.Add("name", msgRequired)
	}

	if req.Text != nil {
		if strings.TrimSpace(*req.Text) == "" {
			verr.Add("text", "This field may not be blank.")
		}
		out.Text = req.Text
	} else if !partial {
		verr.Add("text", msgRequired)
	}

	if req.CookingTime != nil {
		switch {
		case *req.CookingTime < 1:
			verr.Add("cooking_time", msgMinOne)
		case *req.CookingTime > maxSmallValue:
			verr.Add("cooking_time", msgMaxSmall)
		}
		out.CookingTime = req.CookingTime
	} else if !partial {
		verr.Add("cooking_time", msgRequired)
	}

	if req.Image != nil {
		img, err := storage.DecodeDataURI(*req.Image)
		if err != nil {
			verr.Add("image", "Upload a valid image.")
		}
		out.Image = img
	} else if !partial {
		verr.Add("image", msgRequired)
	}

	if req.Tags != nil || !partial {
		out.tagsSet = true
		if len(req.Tags) == 0 {
			verr.Add("tags", msgRequired)
		} else {
			out.TagIDs = uniqueIDs(req.Tags)
			missing, err := s.missingIDs(ctx, &models.Tag{}, out.TagIDs)
			if err != nil {
				return nil, err
			}
			for _, id := range missing {
				verr.Add("tags", fmt.Sprintf("Invalid pk %q - object does not exist.", strconv.FormatUint(uint64(id), 10)))
			}
		}
	}

	if req.Ingredients != nil || !partial {
		out.ingredientsSet = true
		if len(req.Ingredients) == 0 {
			verr.Add("ingredients", msgRequired)
		} else {
			if msg := amountError(req.Ingredients); msg != "" {
				verr.Add("ingredients", msg)
			}
			out.Ingredients = mergeIngredients(req.Ingredients)
			ids := make([]uint, len(out.Ingredients))
			for i, item := range out.Ingredients {
				ids[i] = item.IngredientID
			}
			missing, err := s.missingIDs(ctx, &models.Ingredient{}, ids)
			if err != nil {
				return nil, err
			}
			for _, id := range missing {
				verr.Add("ingredients", fmt.Sprintf("Invalid pk %q - object does not exist.", strconv.FormatUint(uint64(id), 10)))
			}
		}
	}

	if err := verr.OrNil(); err != nil {
		return nil, err
	}
	return out, nil
}

// amountError checks each amount and then each merged sum against the
// smallint range. Sums are only taken once every amount is in range.
func amountError(items []types.IngredientAmount) string {
	for _, item := range items {
		switch {
		case item.Amount < 1:
			return "Ensure amount is greater than or equal to 1."
		case item.Amount > maxSmallValue:
			return "Ensure amount is less than or equal to 32767."
		}
	}
	sums := make(map[uint]int, len(items))
	for _, item := range items {
		sums[item.ID] += item.Amount
		if sums[item.ID] > maxSmallValue {
			return "Ensure the total amount of each ingredient is less than or equal to 32767."
		}
	}
	return ""
}

// mergeIngredients sums the amounts of repeated ingredients
func mergeIngredients(items []types.IngredientAmount) []IngredientAmount {
	index := make(map[uint]int, len(items))
	merged := make([]IngredientAmount, 0, len(items))
	for _, item := range items {
		if i, ok := index[item.ID]; ok {
			merged[i].Amount += item.Amount
			continue
		}
		index[item.ID] = len(merged)
		merged = append(merged, IngredientAmount{IngredientID: item.ID, Amount: item.Amount})
	}
	return merged
}

func uniqueIDs(ids []uint) []uint {
	seen := make(map[uint]bool, len(ids))
	out := make([]uint, 0, len(ids))
	for _, id := range ids {
		if !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}
	return out
}

// missingIDs returns the ids that have no row in model's table
func (s *RecipeService) missingIDs(ctx context.Context, model interface{}, ids []uint) ([]uint, error) {
	var found []uint
	if err := s.db.WithContext(ctx).Model(model).Where("id IN ?", ids).Pluck("id", &found).Error; err != nil {
		return nil, fmt.Errorf("failed to look up ids: %w", err)
	}
	present := make(map[uint]bool, len(found))
	for _, id := range found {
		present[id] = true
	}
	var missing []uint
	for _, id := range ids {
		if !present[id] {
			missing = append(missing, id)
		}
	}
	return missing, nil
}

// Create stores the recipe, then its ingredient amounts, then its tags
func (s *RecipeService) Create(ctx context.Context, authorID uint, in *ValidatedRecipe) (*models.Recipe, error) {
	if in.Name == nil || in.Text == nil || in.CookingTime == nil || in.Image == nil {
		return nil, NewValidationError(NonFieldErrors, "Incomplete recipe.")
	}

	imageKey, imageURL, err := s.saveImage(ctx, in.Image)
	if err != nil {
		return nil, err
	}

	recipe := models.Recipe{
		AuthorID:    authorID,
		Name:        *in.Name,
		Text:        *in.Text,
		CookingTime: *in.CookingTime,
		Image:       imageURL,
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Author", "Tags", "Ingredients").Create(&recipe).Error; err != nil {
			return fmt.Errorf("failed to create recipe: %w", err)
		}
		if err := attachIngredients(tx, recipe.ID, in.Ingredients); err != nil {
			return err
		}
		return replaceTags(tx, &recipe, in.TagIDs)
	})
	if err != nil {
		s.discardImage(ctx, imageKey)
		return nil, err
	}

	return s.GetRecipe(ctx, recipe.ID)
}

// Update overwrites the provided fields. Provided ingredient and tag sets
// replace the attached ones.
func (s *RecipeService) Update(ctx context.Context, recipe *models.Recipe, in *ValidatedRecipe) (*models.Recipe, error) {
	updates := map[string]interface{}{}
	if in.Name != nil {
		updates["name"] = *in.Name
	}
	if in.Text != nil {
		updates["text"] = *in.Text
	}
	if in.CookingTime != nil {
		updates["cooking_time"] = *in.CookingTime
	}
	var imageKey string
	if in.Image != nil {
		key, imageURL, err := s.saveImage(ctx, in.Image)
		if err != nil {
			return nil, err
		}
		imageKey = key
		updates["image"] = imageURL
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if len(updates) > 0 {
			if err := tx.Model(&models.Recipe{ID: recipe.ID}).Updates(updates).Error; err != nil {
				return fmt.Errorf("failed to update recipe: %w", err)
			}
		}
		if in.ingredientsSet {
			if err := attachIngredients(tx, recipe.ID, in.Ingredients); err != nil {
				return err
			}
		}
		if in.tagsSet {
			return replaceTags(tx, recipe, in.TagIDs)
		}
		return nil
	})
	if err != nil {
		if imageKey != "" {
			s.discardImage(ctx, imageKey)
		}
		return nil, err
	}

	return s.GetRecipe(ctx, recipe.ID)
}

// attachIngredients makes pairs the exact ingredient set of the recipe.
// Rows already matching a pair are kept as they are.
func attachIngredients(tx *gorm.DB, recipeID uint, pairs []IngredientAmount) error {
	ids := make([]uint, len(pairs))
	for i, p := range pairs {
		ids[i] = p.IngredientID
	}

	stale := tx.Where("recipe_id = ?", recipeID)
	if len(ids) > 0 {
		stale = stale.Where("ingredient_id NOT IN ?", ids)
	}
	if err := stale.Delete(&models.RecipeIngredient{}).Error; err != nil {
		return fmt.Errorf("failed to detach ingredients: %w", err)
	}

	for _, p := range pairs {
		if err := tx.Where("recipe_id = ? AND ingredient_id = ? AND amount <> ?", recipeID, p.IngredientID, p.Amount).
			Delete(&models.RecipeIngredient{}).Error; err != nil {
			return fmt.Errorf("failed to detach ingredient %d: %w", p.IngredientID, err)
		}

		row := models.RecipeIngredient{RecipeID: recipeID, IngredientID: p.IngredientID, Amount: p.Amount}
		if err := tx.Where(&row).FirstOrCreate(&row).Error; err != nil {
			return fmt.Errorf("failed to attach ingredient %d: %w", p.IngredientID, err)
		}
	}
	return nil
}

func replaceTags(tx *gorm.DB, recipe *models.Recipe, tagIDs []uint) error {
	var tags []models.Tag
	if len(tagIDs) > 0 {
		if err := tx.Where("id IN ?", tagIDs).Find(&tags).Error; err != nil {
			return fmt.Errorf("failed to load tags: %w", err)
		}
	}
	if err := tx.Model(&models.Recipe{ID: recipe.ID}).Association("Tags").Replace(tags); err != nil {
		return fmt.Errorf("failed to attach tags: %w", err)
	}
	return nil
}

func (s *RecipeService) saveImage(ctx context.Context, img *storage.Image) (key, url string, err error) {
	key = storage.RecipeImageKey(img.Ext)
	url, err = s.store.Save(ctx, key, img.Data, img.ContentType)
	if err != nil {
		return "", "", fmt.Errorf("failed to store recipe image: %w", err)
	}
	return key, url, nil
}

// discardImage removes an image whose recipe write was rolled back
func (s *RecipeService) discardImage(ctx context.Context, key string) {
	if err := s.store.Delete(ctx, key); err != nil {
		logging.Ctx(ctx).Warn().Err(err).Str("key", key).Msg("failed to remove orphaned recipe image")
	}
}

// GetRecipe retrieves a recipe by ID with its author, tags and ingredients
func (s *RecipeService) GetRecipe(ctx context.Context, id uint) (*models.Recipe, error) {
	var recipe models.Recipe
	if err := withRecipeRelations(s.db.WithContext(ctx)).First(&recipe, id).Error; err != nil {
		return nil, notFound(err)
	}
	return &recipe, nil
}

func withRecipeRelations(db *gorm.DB) *gorm.DB {
	return db.
		Preload("Author").
		Preload("Tags", func(db *gorm.DB) *gorm.DB { return db.Order("tags.id") }).
		Preload("Ingredients", func(db *gorm.DB) *gorm.DB { return db.Order("recipe_ingredients.id") }).
		Preload("Ingredients.Ingredient")
}

// Authorize allows only the author to modify a recipe
func (s *RecipeService) Authorize(recipe *models.Recipe, userID uint) error {
	if userID == 0 || recipe.AuthorID != userID {
		return ErrPermissionDenied
	}
	return nil
}

// DeleteRecipe removes a recipe with its ingredient rows, tag links and bookmarks
func (s *RecipeService) DeleteRecipe(ctx context.Context, recipe *models.Recipe) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, model := range []interface{}{&models.RecipeIngredient{}, &models.Favorite{}, &models.ShoppingCart{}} {
			if err := tx.Where("recipe_id = ?", recipe.ID).Delete(model).Error; err != nil {
				return fmt.Errorf("failed to delete recipe rows: %w", err)
			}
		}
		if err := tx.Model(&models.Recipe{ID: recipe.ID}).Association("Tags").Clear(); err != nil {
			return fmt.Errorf("failed to clear recipe tags: %w", err)
		}
		res := tx.Delete(&models.Recipe{}, recipe.ID)
		if res.Error != nil {
			return fmt.Errorf("failed to delete recipe: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		return nil
	})
}

// ListRecipes returns one page of recipes, newest first, and the total count
func (s *RecipeService) ListRecipes(ctx context.Context, filter types.RecipeFilter, viewerID uint, offset, limit int) ([]types.RecipeResponse, int64, error) {
	if (filter.IsFavorited || filter.IsInShoppingCart) && viewerID == 0 {
		return []types.RecipeResponse{}, 0, nil
	}

	query := func() *gorm.DB {
		q := s.db.WithContext(ctx).Model(&models.Recipe{})
		if filter.AuthorID != nil {
			q = q.Where("recipes.author_id = ?", *filter.AuthorID)
		}
		if len(filter.TagSlugs) > 0 {
			q = q.Where("recipes.id IN (?)", s.db.Table("recipe_tags").
				Select("recipe_tags.recipe_id").
				Joins("JOIN tags ON tags.id = recipe_tags.tag_id").
				Where("tags.slug IN ?", filter.TagSlugs))
		}
		if filter.IsFavorited {
			q = q.Where("recipes.id IN (?)", s.db.Model(&models.Favorite{}).Select("recipe_id").Where("user_id = ?", viewerID))
		}
		if filter.IsInShoppingCart {
			q = q.Where("recipes.id IN (?)", s.db.Model(&models.ShoppingCart{}).Select("recipe_id").Where("user_id = ?", viewerID))
		}
		return q
	}

	var total int64
	if err := query().Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count recipes: %w", err)
	}

	var recipes []models.Recipe
	err := withRecipeRelations(query()).
		Order("recipes.created_at DESC, recipes.id DESC").
		Offset(offset).Limit(limit).
		Find(&recipes).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to fetch recipes: %w", err)
	}

	out, err := s.toResponses(ctx, recipes, viewerID)
	if err != nil {
		return nil, 0, err
	}
	return out, total, nil
}

// ToResponse renders a recipe relative to viewerID
func (s *RecipeService) ToResponse(ctx context.Context, recipe *models.Recipe, viewerID uint) (*types.RecipeResponse, error) {
	out, err := s.toResponses(ctx, []models.Recipe{*recipe}, viewerID)
	if err != nil {
		return nil, err
	}
	return &out[0], nil
}

func (s *RecipeService) toResponses(ctx context.Context, recipes []models.Recipe, viewerID uint) ([]types.RecipeResponse, error) {
	ids := make([]uint, len(recipes))
	authorIDs := make([]uint, len(recipes))
	for i, r := range recipes {
		ids[i] = r.ID
		authorIDs[i] = r.AuthorID
	}

	favorited, err := bookmarkedSet(ctx, s.db, &models.Favorite{}, viewerID, ids)
	if err != nil {
		return nil, err
	}
	inCart, err := bookmarkedSet(ctx, s.db, &models.ShoppingCart{}, viewerID, ids)
	if err != nil {
		return nil, err
	}
	subscribed, err := subscribedSet(ctx, s.db, viewerID, authorIDs)
	if err != nil {
		return nil, err
	}

	out := make([]types.RecipeResponse, len(recipes))
	for i, r := range recipes {
		tags := make([]types.TagResponse, len(r.Tags))
		for j, tag := range r.Tags {
			tags[j] = tagResponse(tag)
		}
		ingredients := make([]types.RecipeIngredientResponse, len(r.Ingredients))
		for j, ri := range r.Ingredients {
			ingredients[j] = types.RecipeIngredientResponse{
				ID:              ri.IngredientID,
				Name:            ri.Ingredient.Name,
				MeasurementUnit: ri.Ingredient.MeasurementUnit,
				Amount:          ri.Amount,
			}
		}

		out[i] = types.RecipeResponse{
			ID:               r.ID,
			Author:           userResponse(r.Author, subscribed[r.AuthorID]),
			Tags:             tags,
			Ingredients:      ingredients,
			IsFavorited:      favorited[r.ID],
			IsInShoppingCart: inCart[r.ID],
			Name:             r.Name,
			Image:            r.Image,
			Text:             r.Text,
			CookingTime:      r.CookingTime,
		}
	}
	return out, nil
}

// bookmarkedSet returns which of recipeIDs have a row in model's table for viewerID
func bookmarkedSet(ctx context.Context, db *gorm.DB, model interface{}, viewerID uint, recipeIDs []uint) (map[uint]bool, error) {
	set := map[uint]bool{}
	if viewerID == 0 || len(recipeIDs) == 0 {
		return set, nil
	}

	var found []uint
	err := db.WithContext(ctx).Model(model).
		Where("user_id = ? AND recipe_id IN ?", viewerID, recipeIDs).
		Pluck("recipe_id", &found).Error
	if err != nil {
		return nil, fmt.Errorf("failed to check bookmarks: %w", err)
	}
	for _, id := range found {
		set[id] = true
	}
	return set, nil
}

func recipeSummary(r models.Recipe) types.RecipeSummary {
	return types.RecipeSummary{
		ID:          r.ID,
		Name:        r.Name,
		Image:       r.Image,
		CookingTime: r.CookingTime,
	}
}

// IsValidation reports whether err is a *ValidationError
func IsValidation(err error) bool {
	var verr *ValidationError
	return errors.As(err, &verr)
}
