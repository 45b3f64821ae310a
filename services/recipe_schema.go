package services

import "vegoodies/models"

// RecipeSchema is the JSON form of a recipe. Field names match the form
// fields accepted on create.
type RecipeSchema struct {
	ID          uint   `json:"id"`
	RecipeType  string `json:"recipe_type"`
	Title       string `json:"title"`
	Name        string `json:"name"`
	Overview    string `json:"overview"`
	Method      string `json:"method"`
	Ingredients string `json:"ingredients"`
	Tags        string `json:"tags"`
	Portions    string `json:"portions"`
	Author      string `json:"author"`
	Image       string `json:"image"`
}

func DumpRecipe(r *models.Recipe) RecipeSchema {
	return RecipeSchema{
		ID:          r.ID,
		RecipeType:  r.RecipeType,
		Title:       r.Title,
		Name:        r.Name,
		Overview:    r.Overview,
		Method:      r.Method,
		Ingredients: r.Ingredients,
		Tags:        r.Tags,
		Portions:    r.Portions,
		Author:      r.Author,
		Image:       r.Image,
	}
}

func DumpRecipes(rs []models.Recipe) []RecipeSchema {
	out := make([]RecipeSchema, 0, len(rs))
	for i := range rs {
		out = append(out, DumpRecipe(&rs[i]))
	}
	return out
}

// Load converts back to the stored shape.
func (s RecipeSchema) Load() models.Recipe {
	return models.Recipe{
		ID:          s.ID,
		RecipeType:  s.RecipeType,
		Title:       s.Title,
		Name:        s.Name,
		Overview:    s.Overview,
		Method:      s.Method,
		Ingredients: s.Ingredients,
		Tags:        s.Tags,
		Portions:    s.Portions,
		Author:      s.Author,
		Image:       s.Image,
	}
}
