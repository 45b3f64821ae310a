package services

import (
	"errors"
	"fmt"
)

type ErrorKind int

const (
	KindValidation ErrorKind = iota + 1
	KindConflict
	KindNotFound
	KindUpstream
)

func (k ErrorKind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindConflict:
		return "conflict"
	case KindNotFound:
		return "not_found"
	case KindUpstream:
		return "upstream"
	default:
		return "unknown"
	}
}

var (
	ErrRecipeNotFound  = errors.New("recipe not found")
	ErrDuplicateRecipe = errors.New("recipe with this name already exists")
)

// RecipeError tags a failure with the kind the API layer maps to a status.
type RecipeError struct {
	Kind ErrorKind
	Op   string
	Err  error
}

func (e *RecipeError) Error() string {
	return fmt.Sprintf("%s: %s: %v", e.Op, e.Kind, e.Err)
}

func (e *RecipeError) Unwrap() error { return e.Err }

func newRecipeError(kind ErrorKind, op string, err error) *RecipeError {
	return &RecipeError{Kind: kind, Op: op, Err: err}
}

// KindOf returns the kind of a RecipeError in err's chain, or 0.
func KindOf(err error) ErrorKind {
	var re *RecipeError
	if errors.As(err, &re) {
		return re.Kind
	}
	return 0
}
