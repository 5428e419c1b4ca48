package services_test

import (
	"context"
	"errors"
	"net/http"
	"sort"
	"testing"
	"time"

	"bakery-service/models"
	"bakery-service/repository"
	"bakery-service/services"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeOfferingRepo struct {
	offerings map[uuid.UUID]models.ServiceOffering
	findErr   error
	activeArg []bool
}

func newFakeOfferingRepo(os ...models.ServiceOffering) *fakeOfferingRepo {
	r := &fakeOfferingRepo{offerings: map[uuid.UUID]models.ServiceOffering{}}
	for _, o := range os {
		r.offerings[o.ID] = o
	}
	return r
}

func (r *fakeOfferingRepo) FindAll(_ context.Context, activeOnly bool) ([]models.ServiceOffering, error) {
	r.activeArg = append(r.activeArg, activeOnly)
	if r.findErr != nil {
		return nil, r.findErr
	}
	var out []models.ServiceOffering
	for _, o := range r.offerings {
		if activeOnly && !o.Active {
			continue
		}
		out = append(out, o)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].DisplayOrder < out[j].DisplayOrder })
	return out, nil
}

func (r *fakeOfferingRepo) FindByID(_ context.Context, id uuid.UUID) (*models.ServiceOffering, error) {
	o, ok := r.offerings[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &o, nil
}

func (r *fakeOfferingRepo) Create(_ context.Context, o *models.ServiceOffering) error {
	o.ID = uuid.New()
	o.CreatedAt = time.Now()
	r.offerings[o.ID] = *o
	return nil
}

func (r *fakeOfferingRepo) Update(_ context.Context, o *models.ServiceOffering) error {
	if _, ok := r.offerings[o.ID]; !ok {
		return repository.ErrNotFound
	}
	r.offerings[o.ID] = *o
	return nil
}

func (r *fakeOfferingRepo) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := r.offerings[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.offerings, id)
	return nil
}

func offering(title string, order int, active bool) models.ServiceOffering {
	return models.ServiceOffering{ID: uuid.New(), Title: title, Icon: models.IconHeart, DisplayOrder: order, Active: active}
}

func TestOfferingService_ListActive(t *testing.T) {
	repo := newFakeOfferingRepo(
		offering("Catering", 2, true),
		offering("Custom cakes", 0, true),
		offering("Workshops", 1, false),
	)
	svc := services.NewOfferingService(repo, testLogger)

	got, svcErr := svc.ListActive(context.Background())

	require.Nil(t, svcErr)
	require.Len(t, got, 2)
	assert.Equal(t, "Custom cakes", got[0].Title)
	assert.Equal(t, "Catering", got[1].Title)
	assert.Equal(t, []bool{true}, repo.activeArg)

	all, svcErr := svc.ListAll(context.Background())
	require.Nil(t, svcErr)
	assert.Len(t, all, 3)
}

func TestOfferingService_ListActive_StorageDown(t *testing.T) {
	repo := newFakeOfferingRepo()
	repo.findErr = errors.New("connection reset")
	svc := services.NewOfferingService(repo, testLogger)

	_, svcErr := svc.ListActive(context.Background())

	require.NotNil(t, svcErr)
	assert.Equal(t, http.StatusServiceUnavailable, svcErr.StatusCode)
}

func TestOfferingService_CreateDefaults(t *testing.T) {
	repo := newFakeOfferingRepo()
	svc := services.NewOfferingService(repo, testLogger)

	o, svcErr := svc.Create(context.Background(), &models.ServiceOfferingRequest{Title: "  Custom cakes ", Description: " For any occasion "})

	require.Nil(t, svcErr)
	assert.Equal(t, "Custom cakes", o.Title)
	assert.Equal(t, "For any occasion", o.Description)
	assert.Equal(t, models.IconHeart, o.Icon)
	assert.True(t, o.Active)
	assert.Zero(t, o.DisplayOrder)
	assert.Contains(t, repo.offerings, o.ID)
}

func TestOfferingService_CreateValidation(t *testing.T) {
	negative := -1
	cases := []struct {
		name string
		req  models.ServiceOfferingRequest
	}{
		{"missing title", models.ServiceOfferingRequest{Title: "  "}},
		{"unknown icon", models.ServiceOfferingRequest{Title: "Catering", Icon: "rocket"}},
		{"bad image url", models.ServiceOfferingRequest{Title: "Catering", ImageURL: "not a url"}},
		{"negative order", models.ServiceOfferingRequest{Title: "Catering", DisplayOrder: &negative}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			repo := newFakeOfferingRepo()
			svc := services.NewOfferingService(repo, testLogger)

			_, svcErr := svc.Create(context.Background(), &tc.req)

			require.NotNil(t, svcErr)
			assert.Equal(t, services.KindValidation, svcErr.Kind)
			assert.Empty(t, repo.offerings)
		})
	}
}

func TestOfferingService_UpdateKeepsUnsetFields(t *testing.T) {
	existing := offering("Catering", 3, false)
	repo := newFakeOfferingRepo(existing)
	svc := services.NewOfferingService(repo, testLogger)

	o, svcErr := svc.Update(context.Background(), existing.ID, &models.ServiceOfferingRequest{Title: "Event catering", Icon: "users"})

	require.Nil(t, svcErr)
	assert.Equal(t, "Event catering", o.Title)
	assert.Equal(t, models.IconUsers, o.Icon)
	assert.False(t, o.Active)
	assert.Equal(t, 3, o.DisplayOrder)
	assert.Equal(t, "Event catering", repo.offerings[existing.ID].Title)
}

func TestOfferingService_UnknownID(t *testing.T) {
	svc := services.NewOfferingService(newFakeOfferingRepo(), testLogger)

	_, svcErr := svc.Update(context.Background(), uuid.New(), &models.ServiceOfferingRequest{Title: "x"})
	require.NotNil(t, svcErr)
	assert.Equal(t, services.KindNotFound, svcErr.Kind)

	svcErr = svc.Delete(context.Background(), uuid.New())
	require.NotNil(t, svcErr)
	assert.Equal(t, http.StatusNotFound, svcErr.StatusCode)
}
