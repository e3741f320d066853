package handler

import (
	"context"
	"net/http"
	"sync"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	consumableapp "github.com/labstock/backend/internal/application/consumable"
	"github.com/labstock/backend/internal/domain/consumable"
	"github.com/labstock/backend/internal/domain/shared"
	"github.com/labstock/backend/internal/interfaces/http/dto"
)

type fakeCategoryRepo struct {
	mu    sync.Mutex
	items map[uuid.UUID]consumable.Category
}

func newFakeCategoryRepo() *fakeCategoryRepo {
	return &fakeCategoryRepo{items: make(map[uuid.UUID]consumable.Category)}
}

func (r *fakeCategoryRepo) FindByID(_ context.Context, id uuid.UUID) (*consumable.Category, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.items[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	cp := c
	return &cp, nil
}

func (r *fakeCategoryRepo) FindByName(_ context.Context, name string) (*consumable.Category, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, c := range r.items {
		if c.Name == name {
			cp := c
			return &cp, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r *fakeCategoryRepo) FindAll(_ context.Context, _ shared.Filter) ([]consumable.Category, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]consumable.Category, 0, len(r.items))
	for _, c := range r.items {
		out = append(out, c)
	}
	return out, nil
}

func (r *fakeCategoryRepo) Save(_ context.Context, c *consumable.Category) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items[c.ID] = *c
	return nil
}

func (r *fakeCategoryRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.items, id)
	return nil
}

func (r *fakeCategoryRepo) Count(_ context.Context, _ shared.Filter) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return int64(len(r.items)), nil
}

var _ consumable.CategoryRepository = (*fakeCategoryRepo)(nil)

func newCategoryTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	categoryRepo := newFakeCategoryRepo()
	consumableRepo := newFakeConsumableRepo()
	service := consumableapp.NewCategoryService(categoryRepo, consumableRepo)
	h := NewCategoryHandler(service)

	router := gin.New()
	api := router.Group("/api/v1/stock")
	api.POST("/categories", h.Create)
	api.GET("/categories", h.List)
	api.GET("/categories/:id", h.Get)
	api.PUT("/categories/:id", h.Update)
	api.DELETE("/categories/:id", h.Delete)
	return router
}

func TestCategoryHandlerCreate(t *testing.T) {
	router := newCategoryTestRouter(t)

	t.Run("creates category", func(t *testing.T) {
		w := doJSON(t, router, "POST", "/api/v1/stock/categories", gin.H{
			"name":        "Glassware",
			"description": "Beakers, flasks, pipettes",
		})

		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
		resp := decodeResponse(t, w)
		data := resp.Data.(map[string]any)
		assert.Equal(t, "Glassware", data["name"])
	})

	t.Run("rejects duplicate name", func(t *testing.T) {
		w := doJSON(t, router, "POST", "/api/v1/stock/categories", gin.H{
			"name": "Glassware",
		})

		assert.Equal(t, http.StatusConflict, w.Code)
		resp := decodeResponse(t, w)
		require.NotNil(t, resp.Error)
		assert.Equal(t, dto.ErrCodeAlreadyExists, resp.Error.Code)
	})

	t.Run("rejects missing name", func(t *testing.T) {
		w := doJSON(t, router, "POST", "/api/v1/stock/categories", gin.H{
			"description": "no name",
		})

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestCategoryHandlerGet(t *testing.T) {
	router := newCategoryTestRouter(t)

	w := doJSON(t, router, "GET", "/api/v1/stock/categories/"+uuid.NewString(), nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCategoryHandlerList(t *testing.T) {
	router := newCategoryTestRouter(t)

	for _, name := range []string{"Solvents", "Gloves", "Filters"} {
		w := doJSON(t, router, "POST", "/api/v1/stock/categories", gin.H{"name": name})
		require.Equal(t, http.StatusCreated, w.Code)
	}

	w := doJSON(t, router, "GET", "/api/v1/stock/categories?page=1&page_size=2", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	resp := decodeResponse(t, w)
	require.NotNil(t, resp.Meta)
	assert.Equal(t, int64(3), resp.Meta.Total)
	assert.Equal(t, 2, resp.Meta.PageSize)
}
