package services_test

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"bakery-service/models"
	"bakery-service/services"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func boolPtr(b bool) *bool { return &b }

func catalogFixture() []models.Product {
	return []models.Product{
		testProduct("Chocolate Fudge Cake", 3200, models.CategoryCake, true, 1*time.Hour),
		testProduct("Vanilla Cupcake", 350, models.CategoryCupcake, true, 2*time.Hour),
		testProduct("Rye Loaf", 600, models.CategoryBread, true, 3*time.Hour),
		testProduct("Lemon Tart", 450, models.CategoryDessert, false, 4*time.Hour),
	}
}

func TestFilterProducts(t *testing.T) {
	products := catalogFixture()
	products[2].Description = "dark and CHOCOLATEY crumb"

	cases := []struct {
		name     string
		category models.ProductCategory
		search   string
		want     []string
	}{
		{"all", models.CategoryAll, "", []string{"Chocolate Fudge Cake", "Vanilla Cupcake", "Rye Loaf", "Lemon Tart"}},
		{"empty category", "", "", []string{"Chocolate Fudge Cake", "Vanilla Cupcake", "Rye Loaf", "Lemon Tart"}},
		{"category", models.CategoryCupcake, "", []string{"Vanilla Cupcake"}},
		{"search name and description", "", "  chocolate ", []string{"Chocolate Fudge Cake", "Rye Loaf"}},
		{"category and search", models.CategoryBread, "chocolate", []string{"Rye Loaf"}},
		{"no match", models.CategoryCake, "rye", []string{}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := services.FilterProducts(products, tc.category, tc.search)
			names := make([]string, 0, len(got))
			for _, p := range got {
				names = append(names, p.Name)
			}
			assert.Equal(t, tc.want, names)
		})
	}
}

func TestCatalogService_ListAvailable(t *testing.T) {
	repo := newFakeProductRepo(catalogFixture()...)
	svc := services.NewCatalogService(repo, nil, nil, testLogger)

	products, svcErr := svc.ListAvailable(context.Background(), services.CatalogFilter{Category: "All"})

	require.Nil(t, svcErr)
	require.Len(t, products, 3)
	assert.Equal(t, "Chocolate Fudge Cake", products[0].Name)
	assert.Equal(t, "Rye Loaf", products[2].Name)
}

func TestCatalogService_ListAvailable_InvalidCategory(t *testing.T) {
	repo := newFakeProductRepo()
	svc := services.NewCatalogService(repo, nil, nil, testLogger)

	_, svcErr := svc.ListAvailable(context.Background(), services.CatalogFilter{Category: "pies"})

	require.NotNil(t, svcErr)
	assert.Equal(t, http.StatusBadRequest, svcErr.StatusCode)
	assert.Zero(t, repo.findAll)
}

func TestCatalogService_ListAvailable_StorageDown(t *testing.T) {
	repo := newFakeProductRepo()
	repo.findErr = errors.New("no route to host")
	svc := services.NewCatalogService(repo, nil, nil, testLogger)

	_, svcErr := svc.ListAvailable(context.Background(), services.CatalogFilter{})

	require.NotNil(t, svcErr)
	assert.Equal(t, services.KindTransient, svcErr.Kind)
	assert.Equal(t, http.StatusServiceUnavailable, svcErr.StatusCode)
}

func TestCatalogService_CacheServesRepeatListings(t *testing.T) {
	repo := newFakeProductRepo(catalogFixture()...)
	cache := &fakeCatalogCache{}
	svc := services.NewCatalogService(repo, cache, nil, testLogger)

	_, svcErr := svc.ListAvailable(context.Background(), services.CatalogFilter{})
	require.Nil(t, svcErr)
	_, svcErr = svc.ListAvailable(context.Background(), services.CatalogFilter{Category: "cake"})
	require.Nil(t, svcErr)
	assert.Equal(t, 1, repo.findAll)

	_, svcErr = svc.Create(context.Background(), &models.ProductRequest{Name: "Baguette", Price: "3.20", Category: "bread"})
	require.Nil(t, svcErr)
	assert.Equal(t, 1, cache.invalidated)

	products, svcErr := svc.ListAvailable(context.Background(), services.CatalogFilter{Search: "baguette"})
	require.Nil(t, svcErr)
	assert.Equal(t, 2, repo.findAll)
	require.Len(t, products, 1)
	assert.Equal(t, int64(320), products[0].Price)
}

func TestCatalogService_GetAvailableProduct(t *testing.T) {
	fixture := catalogFixture()
	repo := newFakeProductRepo(fixture...)
	svc := services.NewCatalogService(repo, nil, nil, testLogger)

	p, svcErr := svc.GetAvailableProduct(context.Background(), fixture[0].ID)
	require.Nil(t, svcErr)
	assert.Equal(t, fixture[0].Name, p.Name)

	_, svcErr = svc.GetAvailableProduct(context.Background(), fixture[3].ID)
	require.NotNil(t, svcErr)
	assert.Equal(t, http.StatusNotFound, svcErr.StatusCode)

	_, svcErr = svc.GetAvailableProduct(context.Background(), uuid.New())
	require.NotNil(t, svcErr)
	assert.Equal(t, http.StatusNotFound, svcErr.StatusCode)
}

func TestCatalogService_CreateDefaultsAvailable(t *testing.T) {
	svc := services.NewCatalogService(newFakeProductRepo(), nil, nil, testLogger)

	p, svcErr := svc.Create(context.Background(), &models.ProductRequest{
		Name:     " Eclair ",
		Price:    "2.5",
		Category: "Dessert",
	})

	require.Nil(t, svcErr)
	assert.Equal(t, "Eclair", p.Name)
	assert.Equal(t, int64(250), p.Price)
	assert.Equal(t, models.CategoryDessert, p.Category)
	assert.True(t, p.Available)
}

func TestCatalogService_CreateValidation(t *testing.T) {
	cases := map[string]*models.ProductRequest{
		"missing name":   {Price: "1.00", Category: "cake"},
		"bad price":      {Name: "X", Price: "one", Category: "cake"},
		"negative price": {Name: "X", Price: "-2", Category: "cake"},
		"too precise":    {Name: "X", Price: "1.001", Category: "cake"},
		"bad category":   {Name: "X", Price: "1.00", Category: "pie"},
		"all category":   {Name: "X", Price: "1.00", Category: "all"},
	}
	for name, req := range cases {
		t.Run(name, func(t *testing.T) {
			repo := newFakeProductRepo()
			svc := services.NewCatalogService(repo, nil, nil, testLogger)

			_, svcErr := svc.Create(context.Background(), req)

			require.NotNil(t, svcErr)
			assert.Equal(t, services.KindValidation, svcErr.Kind)
			assert.Empty(t, repo.products)
		})
	}
}

func TestCatalogService_UpdateKeepsAvailabilityUnlessSet(t *testing.T) {
	fixture := catalogFixture()
	repo := newFakeProductRepo(fixture...)
	svc := services.NewCatalogService(repo, nil, nil, testLogger)
	hidden := fixture[3]

	p, svcErr := svc.Update(context.Background(), hidden.ID, &models.ProductRequest{
		Name: "Lemon Tart", Price: "5.00", Category: "dessert",
	})
	require.Nil(t, svcErr)
	assert.False(t, p.Available)
	assert.Equal(t, int64(500), repo.products[hidden.ID].Price)

	p, svcErr = svc.Update(context.Background(), hidden.ID, &models.ProductRequest{
		Name: "Lemon Tart", Price: "5.00", Category: "dessert", Available: boolPtr(true),
	})
	require.Nil(t, svcErr)
	assert.True(t, p.Available)
}

func TestCatalogService_DeleteUnknown(t *testing.T) {
	svc := services.NewCatalogService(newFakeProductRepo(), nil, nil, testLogger)

	svcErr := svc.Delete(context.Background(), uuid.New())

	require.NotNil(t, svcErr)
	assert.Equal(t, http.StatusNotFound, svcErr.StatusCode)
}

func TestRedisCatalogCache(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()
	ctx := context.Background()
	cache := services.NewRedisCatalogCache(client, time.Minute, testLogger)

	_, ok := cache.GetAvailable(ctx)
	assert.False(t, ok)

	products := catalogFixture()[:2]
	cache.SetAvailable(ctx, products)
	got, ok := cache.GetAvailable(ctx)
	require.True(t, ok)
	require.Len(t, got, 2)
	assert.Equal(t, products[0].ID, got[0].ID)
	assert.Equal(t, products[1].Price, got[1].Price)

	require.NoError(t, cache.Invalidate(ctx))
	_, ok = cache.GetAvailable(ctx)
	assert.False(t, ok)

	// the orphaned entry still expires on its own
	mr.FastForward(2 * time.Minute)
	assert.False(t, mr.Exists("catalog:available:v:1"))
}
