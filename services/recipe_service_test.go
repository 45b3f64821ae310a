package services

import (
	"context"
	"errors"
	"strings"
	"testing"

	"vegoodies/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type formValues map[string]string

func (f formValues) GetPostForm(key string) (string, bool) {
	v, ok := f[key]
	return v, ok
}

func tomatoSoup() RecipeInput {
	return RecipeInput{
		Title: "Tomato Soup", RecipeType: "starter", Overview: "warming", Method: "simmer",
		Ingredients: "tomatoes", Tags: "vegan", Portions: "4", Author: "Jo",
	}
}

func TestNormalizeName(t *testing.T) {
	assert.Equal(t, "tomatosoup", NormalizeName("Tomato Soup"))
	assert.Equal(t, "greenthaicurry", NormalizeName(" Green  Thai Curry "))
	assert.Equal(t, "dahl", NormalizeName("DAHL"))
}

func TestParseRecipeInput(t *testing.T) {
	form := formValues{
		"title": "Tomato Soup", "recipe_type": "starter", "overview": "warming", "method": "simmer",
		"ingredients": "tomatoes", "tags": "vegan", "portions": "4", "author": "Jo",
	}
	in, err := ParseRecipeInput(form)
	require.NoError(t, err)
	assert.Equal(t, tomatoSoup(), in)

	form["tags"] = ""
	in, err = ParseRecipeInput(form)
	require.NoError(t, err)
	assert.Empty(t, in.Tags)

	delete(form, "author")
	_, err = ParseRecipeInput(form)
	require.Error(t, err)
	assert.Equal(t, KindValidation, KindOf(err))
	assert.Contains(t, err.Error(), "author")
}

func TestCreateWithoutImage(t *testing.T) {
	store := &memRecipeStore{}
	images := newMemImageStore()
	svc := NewRecipeService(store, images)

	out, err := svc.Create(context.Background(), tomatoSoup(), nil)
	require.NoError(t, err)

	assert.Equal(t, uint(1), out.ID)
	assert.Equal(t, "tomatosoup", out.Name)
	assert.Empty(t, out.Image)
	assert.Empty(t, images.objects)
	assert.Empty(t, store.rows[0].Image)
}

func TestCreateWithImageStoresKey(t *testing.T) {
	store := &memRecipeStore{}
	images := newMemImageStore()
	svc := NewRecipeService(store, images)

	img := &ImageUpload{Filename: "soup.png", ContentType: "image/png", Body: strings.NewReader("png")}
	out, err := svc.Create(context.Background(), tomatoSoup(), img)
	require.NoError(t, err)

	assert.Equal(t, "soup.png", out.Image)
	assert.Equal(t, "soup.png", store.rows[0].Image)
	assert.Equal(t, []byte("png"), images.objects["soup.png"])
}

func TestCreateDuplicateNameIsConflict(t *testing.T) {
	svc := NewRecipeService(&memRecipeStore{}, newMemImageStore())
	ctx := context.Background()

	first, err := svc.Create(ctx, tomatoSoup(), nil)
	require.NoError(t, err)

	in := tomatoSoup()
	in.Title = "tomato soup"
	_, err = svc.Create(ctx, in, nil)
	require.Error(t, err)
	assert.Equal(t, KindConflict, KindOf(err))
	assert.ErrorIs(t, err, ErrDuplicateRecipe)

	got, err := svc.Get(ctx, first.ID)
	require.NoError(t, err)
	assert.Equal(t, "Tomato Soup", got.Title)
}

func TestCreateUploadFailureIsUpstream(t *testing.T) {
	store := &memRecipeStore{}
	images := newMemImageStore()
	images.uploadErr = errBackend
	svc := NewRecipeService(store, images)

	img := &ImageUpload{Filename: "soup.png", Body: strings.NewReader("png")}
	_, err := svc.Create(context.Background(), tomatoSoup(), img)
	require.Error(t, err)
	assert.Equal(t, KindUpstream, KindOf(err))
	assert.Empty(t, store.rows)
}

func TestCreateLeavesImageWhenInsertFails(t *testing.T) {
	store := &memRecipeStore{}
	images := newMemImageStore()
	svc := NewRecipeService(store, images)
	ctx := context.Background()

	_, err := svc.Create(ctx, tomatoSoup(), nil)
	require.NoError(t, err)

	img := &ImageUpload{Filename: "orphan.png", Body: strings.NewReader("png")}
	_, err = svc.Create(ctx, tomatoSoup(), img)
	require.Error(t, err)
	assert.Contains(t, images.objects, "orphan.png")
}

func TestListPresignsImagesWithoutTouchingStore(t *testing.T) {
	store := &memRecipeStore{}
	images := newMemImageStore()
	svc := NewRecipeService(store, images)
	ctx := context.Background()

	_, err := svc.Create(ctx, tomatoSoup(), &ImageUpload{Filename: "soup.png", Body: strings.NewReader("png")})
	require.NoError(t, err)
	dahl := tomatoSoup()
	dahl.Title = "Dahl"
	_, err = svc.Create(ctx, dahl, nil)
	require.NoError(t, err)

	out, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, out, 2)

	byName := map[string]RecipeSchema{}
	for _, r := range out {
		byName[r.Name] = r
	}
	assert.Equal(t, "https://images.test/soup.png?expires=100&sig=1", byName["tomatosoup"].Image)
	assert.Empty(t, byName["dahl"].Image)
	assert.Equal(t, "soup.png", store.rows[0].Image)

	again, err := svc.List(ctx)
	require.NoError(t, err)
	for _, r := range again {
		if r.Name == "tomatosoup" {
			assert.NotEqual(t, byName["tomatosoup"].Image, r.Image)
		}
	}
}

func TestListShuffles(t *testing.T) {
	store := &memRecipeStore{}
	svc := NewRecipeService(store, newMemImageStore())
	called := 0
	svc.shuffle = func(rs []models.Recipe) {
		called++
		for i, j := 0, len(rs)-1; i < j; i, j = i+1, j-1 {
			rs[i], rs[j] = rs[j], rs[i]
		}
	}
	ctx := context.Background()
	for _, title := range []string{"A", "B", "C"} {
		in := tomatoSoup()
		in.Title = title
		_, err := svc.Create(ctx, in, nil)
		require.NoError(t, err)
	}

	out, err := svc.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, called)
	assert.Equal(t, []string{"c", "b", "a"}, []string{out[0].Name, out[1].Name, out[2].Name})
}

func TestListStoreFailure(t *testing.T) {
	svc := NewRecipeService(&memRecipeStore{failAll: errBackend}, newMemImageStore())

	_, err := svc.List(context.Background())
	assert.Equal(t, KindUpstream, KindOf(err))
	assert.True(t, errors.Is(err, errBackend))
}

func TestGet(t *testing.T) {
	svc := NewRecipeService(&memRecipeStore{}, newMemImageStore())
	ctx := context.Background()

	created, err := svc.Create(ctx, tomatoSoup(), nil)
	require.NoError(t, err)

	got, err := svc.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, *created, *got)

	_, err = svc.Get(ctx, 99)
	assert.Equal(t, KindNotFound, KindOf(err))
}

func TestGetPresignsImage(t *testing.T) {
	svc := NewRecipeService(&memRecipeStore{}, newMemImageStore())
	ctx := context.Background()

	created, err := svc.Create(ctx, tomatoSoup(), &ImageUpload{Filename: "soup.png", Body: strings.NewReader("png")})
	require.NoError(t, err)

	got, err := svc.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(got.Image, "https://images.test/soup.png"))
}

func TestRecipeSchemaRoundTrip(t *testing.T) {
	rec := models.Recipe{ID: 7, RecipeType: "main", Title: "Dahl", Name: "dahl", Image: "dahl.png"}
	assert.Equal(t, rec, DumpRecipe(&rec).Load())
}
