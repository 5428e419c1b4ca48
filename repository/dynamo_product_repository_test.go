package repository_test

import (
	"context"
	"testing"
	"time"

	"bakery-service/models"
	"bakery-service/repository"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeDynamo keeps items in memory keyed by product_id.
type fakeDynamo struct {
	items map[string]map[string]types.AttributeValue
	scans []*dynamodb.ScanInput
}

func newFakeDynamo() *fakeDynamo {
	return &fakeDynamo{items: map[string]map[string]types.AttributeValue{}}
}

func pk(item map[string]types.AttributeValue) string {
	if s, ok := item["product_id"].(*types.AttributeValueMemberS); ok {
		return s.Value
	}
	return ""
}

func (f *fakeDynamo) GetItem(_ context.Context, in *dynamodb.GetItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error) {
	return &dynamodb.GetItemOutput{Item: f.items[pk(in.Key)]}, nil
}

func (f *fakeDynamo) PutItem(_ context.Context, in *dynamodb.PutItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error) {
	id := pk(in.Item)
	_, exists := f.items[id]
	if cond := aws.ToString(in.ConditionExpression); cond != "" {
		if (cond == "attribute_exists(product_id)") != exists {
			return nil, &types.ConditionalCheckFailedException{Message: aws.String("condition failed")}
		}
	}
	f.items[id] = in.Item
	return &dynamodb.PutItemOutput{}, nil
}

func (f *fakeDynamo) DeleteItem(_ context.Context, in *dynamodb.DeleteItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.DeleteItemOutput, error) {
	id := pk(in.Key)
	if _, ok := f.items[id]; !ok {
		return nil, &types.ConditionalCheckFailedException{Message: aws.String("condition failed")}
	}
	delete(f.items, id)
	return &dynamodb.DeleteItemOutput{}, nil
}

// Scan honours only the available filter the repository sends.
func (f *fakeDynamo) Scan(_ context.Context, in *dynamodb.ScanInput, _ ...func(*dynamodb.Options)) (*dynamodb.ScanOutput, error) {
	f.scans = append(f.scans, in)
	var out []map[string]types.AttributeValue
	for _, it := range f.items {
		if aws.ToString(in.FilterExpression) == "available = :a" {
			if b, ok := it["available"].(*types.AttributeValueMemberBOOL); !ok || !b.Value {
				continue
			}
		}
		out = append(out, it)
	}
	return &dynamodb.ScanOutput{Items: out, Count: int32(len(out))}, nil
}

func putProduct(t *testing.T, f *fakeDynamo, name string, available bool, created time.Time) uuid.UUID {
	t.Helper()
	id := uuid.New()
	item, err := attributevalue.MarshalMap(map[string]interface{}{
		"product_id": id.String(),
		"name":       name,
		"price":      int64(900),
		"category":   "cake",
		"available":  available,
		"created_at": created.UTC().Format(time.RFC3339Nano),
		"updated_at": created.UTC().Format(time.RFC3339Nano),
	})
	require.NoError(t, err)
	f.items[id.String()] = item
	return id
}

func TestDynamoFindAll_AvailableNewestFirst(t *testing.T) {
	f := newFakeDynamo()
	repo := repository.NewDynamoProductRepository(f, "products")
	now := time.Now()
	putProduct(t, f, "Old", true, now.Add(-2*time.Hour))
	putProduct(t, f, "New", true, now)
	putProduct(t, f, "Hidden", false, now.Add(time.Hour))

	products, err := repo.FindAll(context.Background(), repository.ProductQuery{AvailableOnly: true})
	require.NoError(t, err)
	require.Len(t, products, 2)
	assert.Equal(t, "New", products[0].Name)
	assert.Equal(t, "Old", products[1].Name)
	assert.Equal(t, int64(900), products[0].Price)
}

func TestDynamoCreateFindUpdateDelete(t *testing.T) {
	f := newFakeDynamo()
	repo := repository.NewDynamoProductRepository(f, "products")
	ctx := context.Background()

	p := &models.Product{Name: "Macaron box", Price: 1800, Category: models.CategoryDessert, Available: true}
	require.NoError(t, repo.Create(ctx, p))
	require.NotEqual(t, uuid.Nil, p.ID)

	got, err := repo.FindByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "Macaron box", got.Name)
	assert.Equal(t, models.CategoryDessert, got.Category)

	p.Price = 2000
	require.NoError(t, repo.Update(ctx, p))
	got, err = repo.FindByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2000), got.Price)

	n, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	require.NoError(t, repo.Delete(ctx, p.ID))
	_, err = repo.FindByID(ctx, p.ID)
	assert.ErrorIs(t, err, repository.ErrNotFound)
	assert.ErrorIs(t, repo.Delete(ctx, p.ID), repository.ErrNotFound)
}

func TestDynamoUpdate_Missing(t *testing.T) {
	repo := repository.NewDynamoProductRepository(newFakeDynamo(), "products")
	err := repo.Update(context.Background(), &models.Product{ID: uuid.New(), Name: "x"})
	assert.ErrorIs(t, err, repository.ErrNotFound)
}
