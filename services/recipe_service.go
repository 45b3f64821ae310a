package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math/rand"
	"strings"
	"time"

	"vegoodies/models"
)

// ImageURLTTL is how long a presigned image link stays valid.
const ImageURLTTL = 100 * time.Second

// RequiredFields are the form fields a create request must carry.
var RequiredFields = []string{
	"title", "recipe_type", "overview", "method",
	"ingredients", "tags", "portions", "author",
}

type RecipeInput struct {
	Title       string
	RecipeType  string
	Overview    string
	Method      string
	Ingredients string
	Tags        string
	Portions    string
	Author      string
}

// FormReader is satisfied by *gin.Context.
type FormReader interface {
	GetPostForm(key string) (string, bool)
}

// ParseRecipeInput reads every required field. A field that is present but
// empty is accepted; a missing one is a validation error.
func ParseRecipeInput(form FormReader) (RecipeInput, error) {
	values := make(map[string]string, len(RequiredFields))
	for _, f := range RequiredFields {
		v, ok := form.GetPostForm(f)
		if !ok {
			return RecipeInput{}, newRecipeError(KindValidation, "create recipe", fmt.Errorf("missing form field %q", f))
		}
		values[f] = v
	}
	return RecipeInput{
		Title:       values["title"],
		RecipeType:  values["recipe_type"],
		Overview:    values["overview"],
		Method:      values["method"],
		Ingredients: values["ingredients"],
		Tags:        values["tags"],
		Portions:    values["portions"],
		Author:      values["author"],
	}, nil
}

// ImageUpload is an image attached to a create request. Filename becomes the
// storage key as is.
type ImageUpload struct {
	Filename    string
	ContentType string
	Body        io.Reader
}

// NormalizeName derives the unique recipe name from its title.
func NormalizeName(title string) string {
	return strings.ToLower(strings.ReplaceAll(title, " ", ""))
}

type RecipeService struct {
	store   RecipeStore
	images  ImageStore
	shuffle func([]models.Recipe)
}

func NewRecipeService(store RecipeStore, images ImageStore) *RecipeService {
	return &RecipeService{
		store:  store,
		images: images,
		shuffle: func(rs []models.Recipe) {
			rand.Shuffle(len(rs), func(i, j int) { rs[i], rs[j] = rs[j], rs[i] })
		},
	}
}

// Create uploads the image, if any, and then inserts the recipe. A failed
// insert leaves the uploaded object in place.
func (s *RecipeService) Create(ctx context.Context, in RecipeInput, img *ImageUpload) (*RecipeSchema, error) {
	const op = "create recipe"

	rec := models.Recipe{
		RecipeType:  in.RecipeType,
		Title:       in.Title,
		Name:        NormalizeName(in.Title),
		Overview:    in.Overview,
		Method:      in.Method,
		Ingredients: in.Ingredients,
		Tags:        in.Tags,
		Portions:    in.Portions,
		Author:      in.Author,
	}

	if img != nil {
		if err := s.images.Upload(ctx, img.Filename, img.Body, img.ContentType); err != nil {
			imageUploadsTotal.WithLabelValues("error").Inc()
			return nil, newRecipeError(KindUpstream, op, err)
		}
		imageUploadsTotal.WithLabelValues("ok").Inc()
		rec.Image = img.Filename
	}

	if err := s.store.Insert(ctx, &rec); err != nil {
		if errors.Is(err, ErrDuplicateRecipe) {
			return nil, newRecipeError(KindConflict, op, err)
		}
		return nil, newRecipeError(KindUpstream, op, err)
	}

	out := DumpRecipe(&rec)
	return &out, nil
}

// List returns all recipes in random order with image keys swapped for
// presigned links.
func (s *RecipeService) List(ctx context.Context) ([]RecipeSchema, error) {
	const op = "list recipes"

	recipes, err := s.store.GetAll(ctx)
	if err != nil {
		return nil, newRecipeError(KindUpstream, op, err)
	}
	s.shuffle(recipes)

	out := DumpRecipes(recipes)
	for i := range out {
		if err := s.linkImage(ctx, &out[i]); err != nil {
			return nil, newRecipeError(KindUpstream, op, err)
		}
	}
	return out, nil
}

func (s *RecipeService) Get(ctx context.Context, id uint) (*RecipeSchema, error) {
	const op = "get recipe"

	rec, err := s.store.GetByID(ctx, id)
	if errors.Is(err, ErrRecipeNotFound) {
		return nil, newRecipeError(KindNotFound, op, err)
	}
	if err != nil {
		return nil, newRecipeError(KindUpstream, op, err)
	}

	out := DumpRecipe(rec)
	if err := s.linkImage(ctx, &out); err != nil {
		return nil, newRecipeError(KindUpstream, op, err)
	}
	return &out, nil
}

// linkImage replaces the stored key with a presigned URL on the response copy only.
func (s *RecipeService) linkImage(ctx context.Context, r *RecipeSchema) error {
	if r.Image == "" {
		return nil
	}
	url, err := s.images.PresignGet(ctx, r.Image, ImageURLTTL)
	if err != nil {
		return err
	}
	r.Image = url
	return nil
}
