package repository

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"bakery-service/models"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/google/uuid"
)

// DynamoAPI is the subset of the DynamoDB client the product table needs.
type DynamoAPI interface {
	GetItem(ctx context.Context, in *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
	PutItem(ctx context.Context, in *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
	DeleteItem(ctx context.Context, in *dynamodb.DeleteItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.DeleteItemOutput, error)
	Scan(ctx context.Context, in *dynamodb.ScanInput, optFns ...func(*dynamodb.Options)) (*dynamodb.ScanOutput, error)
}

// DynamoProductRepository stores products in a table keyed by product_id.
type DynamoProductRepository struct {
	client DynamoAPI
	table  string
}

func NewDynamoProductRepository(client DynamoAPI, table string) *DynamoProductRepository {
	return &DynamoProductRepository{client: client, table: table}
}

type ddbProduct struct {
	ProductID   string `dynamodbav:"product_id"`
	Name        string `dynamodbav:"name"`
	Description string `dynamodbav:"description"`
	Price       int64  `dynamodbav:"price"`
	Category    string `dynamodbav:"category"`
	ImageURL    string `dynamodbav:"image_url,omitempty"`
	Available   bool   `dynamodbav:"available"`
	CreatedAt   string `dynamodbav:"created_at"`
	UpdatedAt   string `dynamodbav:"updated_at"`
}

func toDDB(p *models.Product) ddbProduct {
	return ddbProduct{
		ProductID:   p.ID.String(),
		Name:        p.Name,
		Description: p.Description,
		Price:       p.Price,
		Category:    string(p.Category),
		ImageURL:    p.ImageURL,
		Available:   p.Available,
		CreatedAt:   p.CreatedAt.UTC().Format(time.RFC3339Nano),
		UpdatedAt:   p.UpdatedAt.UTC().Format(time.RFC3339Nano),
	}
}

func (dp ddbProduct) toModel() models.Product {
	p := models.Product{
		Name:        dp.Name,
		Description: dp.Description,
		Price:       dp.Price,
		Category:    models.ProductCategory(dp.Category),
		ImageURL:    dp.ImageURL,
		Available:   dp.Available,
	}
	p.ID, _ = uuid.Parse(dp.ProductID)
	if t, err := time.Parse(time.RFC3339Nano, dp.CreatedAt); err == nil {
		p.CreatedAt = t
	}
	if t, err := time.Parse(time.RFC3339Nano, dp.UpdatedAt); err == nil {
		p.UpdatedAt = t
	}
	return p
}

func (d *DynamoProductRepository) key(id uuid.UUID) (map[string]types.AttributeValue, error) {
	key, err := attributevalue.MarshalMap(map[string]string{"product_id": id.String()})
	if err != nil {
		return nil, fmt.Errorf("marshal key: %w", err)
	}
	return key, nil
}

// FindAll scans the table. Ordering is applied in memory since a scan has
// none.
func (d *DynamoProductRepository) FindAll(ctx context.Context, q ProductQuery) ([]models.Product, error) {
	input := &dynamodb.ScanInput{TableName: aws.String(d.table)}
	if q.AvailableOnly {
		vals, err := attributevalue.MarshalMap(map[string]bool{":a": true})
		if err != nil {
			return nil, fmt.Errorf("marshal filter: %w", err)
		}
		input.FilterExpression = aws.String("available = :a")
		input.ExpressionAttributeValues = vals
	}

	var out []models.Product
	paginator := dynamodb.NewScanPaginator(d.client, input)
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("scan page failed: %w", err)
		}
		var items []ddbProduct
		if err := attributevalue.UnmarshalListOfMaps(page.Items, &items); err != nil {
			return nil, fmt.Errorf("unmarshal items: %w", err)
		}
		for _, it := range items {
			out = append(out, it.toModel())
		}
	}

	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (d *DynamoProductRepository) FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	key, err := d.key(id)
	if err != nil {
		return nil, err
	}
	out, err := d.client.GetItem(ctx, &dynamodb.GetItemInput{TableName: aws.String(d.table), Key: key})
	if err != nil {
		return nil, fmt.Errorf("dynamodb GetItem failed: %w", err)
	}
	if len(out.Item) == 0 {
		return nil, ErrNotFound
	}
	var dp ddbProduct
	if err := attributevalue.UnmarshalMap(out.Item, &dp); err != nil {
		return nil, fmt.Errorf("unmarshal item: %w", err)
	}
	p := dp.toModel()
	return &p, nil
}

// Create assigns the id and timestamps the database would otherwise default.
func (d *DynamoProductRepository) Create(ctx context.Context, product *models.Product) error {
	if product.ID == uuid.Nil {
		product.ID = uuid.New()
	}
	now := time.Now().UTC()
	product.CreatedAt, product.UpdatedAt = now, now

	item, err := attributevalue.MarshalMap(toDDB(product))
	if err != nil {
		return fmt.Errorf("marshal product: %w", err)
	}
	_, err = d.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:           aws.String(d.table),
		Item:                item,
		ConditionExpression: aws.String("attribute_not_exists(product_id)"),
	})
	if err != nil {
		return fmt.Errorf("dynamodb PutItem failed: %w", err)
	}
	return nil
}

// Update replaces the item, keeping its original created_at.
func (d *DynamoProductRepository) Update(ctx context.Context, product *models.Product) error {
	existing, err := d.FindByID(ctx, product.ID)
	if err != nil {
		return err
	}
	product.CreatedAt = existing.CreatedAt
	product.UpdatedAt = time.Now().UTC()

	item, err := attributevalue.MarshalMap(toDDB(product))
	if err != nil {
		return fmt.Errorf("marshal product: %w", err)
	}
	_, err = d.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:           aws.String(d.table),
		Item:                item,
		ConditionExpression: aws.String("attribute_exists(product_id)"),
	})
	if err != nil {
		var ccf *types.ConditionalCheckFailedException
		if errors.As(err, &ccf) {
			return ErrNotFound
		}
		return fmt.Errorf("dynamodb PutItem failed: %w", err)
	}
	return nil
}

func (d *DynamoProductRepository) Delete(ctx context.Context, id uuid.UUID) error {
	key, err := d.key(id)
	if err != nil {
		return err
	}
	_, err = d.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName:           aws.String(d.table),
		Key:                 key,
		ConditionExpression: aws.String("attribute_exists(product_id)"),
	})
	if err != nil {
		var ccf *types.ConditionalCheckFailedException
		if errors.As(err, &ccf) {
			return ErrNotFound
		}
		return fmt.Errorf("delete item failed: %w", err)
	}
	return nil
}

func (d *DynamoProductRepository) Count(ctx context.Context) (int64, error) {
	input := &dynamodb.ScanInput{TableName: aws.String(d.table), Select: types.SelectCount}
	paginator := dynamodb.NewScanPaginator(d.client, input)
	var total int64
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return 0, fmt.Errorf("scan count failed: %w", err)
		}
		total += int64(page.Count)
	}
	return total, nil
}
