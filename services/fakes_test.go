package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"vegoodies/models"
)

type memRecipeStore struct {
	mu      sync.Mutex
	rows    []models.Recipe
	nextID  uint
	failAll error
}

func (m *memRecipeStore) Insert(_ context.Context, r *models.Recipe) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, row := range m.rows {
		if row.Name == r.Name {
			return fmt.Errorf("insert %q: %w", r.Name, ErrDuplicateRecipe)
		}
	}
	m.nextID++
	r.ID = m.nextID
	m.rows = append(m.rows, *r)
	return nil
}

func (m *memRecipeStore) GetAll(context.Context) ([]models.Recipe, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failAll != nil {
		return nil, m.failAll
	}
	return append([]models.Recipe(nil), m.rows...), nil
}

func (m *memRecipeStore) GetByID(_ context.Context, id uint) (*models.Recipe, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, row := range m.rows {
		if row.ID == id {
			r := row
			return &r, nil
		}
	}
	return nil, ErrRecipeNotFound
}

type memImageStore struct {
	mu        sync.Mutex
	objects   map[string][]byte
	uploadErr error
	presigned int
}

func newMemImageStore() *memImageStore {
	return &memImageStore{objects: map[string][]byte{}}
}

func (m *memImageStore) Upload(_ context.Context, key string, body io.Reader, _ string) error {
	if m.uploadErr != nil {
		return m.uploadErr
	}
	b, err := io.ReadAll(body)
	if err != nil {
		return err
	}
	m.mu.Lock()
	m.objects[key] = b
	m.mu.Unlock()
	return nil
}

func (m *memImageStore) PresignGet(_ context.Context, key string, ttl time.Duration) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.presigned++
	return fmt.Sprintf("https://images.test/%s?expires=%d&sig=%d", key, int(ttl.Seconds()), m.presigned), nil
}

var errBackend = errors.New("backend down")
