package controllers

import (
	"errors"
	"log/slog"
	"mime"
	"mime/multipart"
	"net/http"
	"strconv"

	"vegoodies/services"
	"vegoodies/utils"

	"github.com/gin-gonic/gin"
)

// createFailedMessage is returned for every create failure; the cause is logged only.
const createFailedMessage = "There was an error, please try again"

type RecipeController struct {
	Recipes *services.RecipeService
}

func NewRecipeController(svc *services.RecipeService) *RecipeController {
	return &RecipeController{Recipes: svc}
}

// POST /recipe  multipart: title, recipe_type, overview, method, ingredients,
// tags, portions, author, optional file "image"
func (rc *RecipeController) CreateRecipe(c *gin.Context) {
	out, err := rc.create(c)
	if err != nil {
		slog.Warn("create recipe failed",
			"requestID", c.GetString("requestID"),
			"kind", services.KindOf(err).String(),
			"error", err,
		)
		c.String(http.StatusBadRequest, createFailedMessage)
		return
	}

	c.Header("Access-Control-Allow-Origin", "*")
	c.Header("Access-Control-Allow-Headers", "Content-Type, Authorization")
	c.Header("Access-Control-Allow-Methods", "OPTIONS, HEAD, GET, POST, DELETE, PUT")
	c.JSON(http.StatusOK, out)
}

func (rc *RecipeController) create(c *gin.Context) (*services.RecipeSchema, error) {
	in, err := services.ParseRecipeInput(c)
	if err != nil {
		return nil, err
	}

	fh, err := c.FormFile("image")
	switch {
	case errors.Is(err, http.ErrMissingFile), errors.Is(err, http.ErrNotMultipart):
		fh = nil
	case err != nil:
		return nil, &services.RecipeError{Kind: services.KindValidation, Op: "read image", Err: err}
	}
	if fh == nil || fh.Size == 0 {
		return rc.Recipes.Create(c.Request.Context(), in, nil)
	}

	f, err := fh.Open()
	if err != nil {
		return nil, &services.RecipeError{Kind: services.KindValidation, Op: "read image", Err: err}
	}
	defer f.Close()

	return rc.Recipes.Create(c.Request.Context(), in, imageUpload(fh, f))
}

func imageUpload(fh *multipart.FileHeader, f multipart.File) *services.ImageUpload {
	name := clientFilename(fh)
	return &services.ImageUpload{
		Filename:    name,
		ContentType: utils.ContentTypeFor(name, fh.Header.Get("Content-Type")),
		Body:        f,
	}
}

// clientFilename returns the filename exactly as the client sent it.
// multipart.FileHeader.Filename has any directory part stripped.
func clientFilename(fh *multipart.FileHeader) string {
	_, params, err := mime.ParseMediaType(fh.Header.Get("Content-Disposition"))
	if err == nil && params["filename"] != "" {
		return params["filename"]
	}
	return fh.Filename
}

// GET /recipe
func (rc *RecipeController) ListRecipes(c *gin.Context) {
	out, err := rc.Recipes.List(c.Request.Context())
	if err != nil {
		slog.Error("list recipes failed", "requestID", c.GetString("requestID"), "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not load recipes"})
		return
	}
	c.JSON(http.StatusOK, out)
}

// GET /recipe/:id
func (rc *RecipeController) GetRecipe(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, strconv.IntSize)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": services.ErrRecipeNotFound.Error()})
		return
	}

	out, err := rc.Recipes.Get(c.Request.Context(), uint(id))
	if services.KindOf(err) == services.KindNotFound {
		c.JSON(http.StatusNotFound, gin.H{"error": services.ErrRecipeNotFound.Error()})
		return
	}
	if err != nil {
		slog.Error("get recipe failed", "requestID", c.GetString("requestID"), "id", id, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not load recipe"})
		return
	}
	c.JSON(http.StatusOK, out)
}
