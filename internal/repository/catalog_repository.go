package repository

import (
	"context"
	"fmt"
	"sort"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/fourways-coffee/storefront/internal/domain"
)

// CatalogRepository reads coffees keyed by their Stripe price id.
type CatalogRepository struct {
	client    DynamoAPI
	tableName string
}

func NewCatalogRepository(client DynamoAPI, tableName string) *CatalogRepository {
	return &CatalogRepository{
		client:    client,
		tableName: tableName,
	}
}

func productPK(priceRef string) string {
	return "COFFEE#" + priceRef
}

// PutProduct writes or replaces a catalog row.
func (r *CatalogRepository) PutProduct(ctx context.Context, p domain.Product) error {
	av, err := attributevalue.MarshalMap(p)
	if err != nil {
		return fmt.Errorf("failed to marshal product: %w", err)
	}
	for k, v := range itemKey(productPK(p.PriceRef), skMetadata) {
		av[k] = v
	}

	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(r.tableName),
		Item:      av,
	})
	if err != nil {
		return fmt.Errorf("failed to put product %s: %w", p.PriceRef, err)
	}
	return nil
}

// ListSellable returns every sellable coffee, most expensive first.
func (r *CatalogRepository) ListSellable(ctx context.Context) ([]domain.Product, error) {
	var products []domain.Product

	paginator := dynamodb.NewScanPaginator(r.client, &dynamodb.ScanInput{
		TableName: aws.String(r.tableName),
	})
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to scan catalog: %w", err)
		}

		var batch []domain.Product
		if err := attributevalue.UnmarshalListOfMaps(page.Items, &batch); err != nil {
			return nil, fmt.Errorf("failed to unmarshal products: %w", err)
		}
		for _, p := range batch {
			if p.Sellable() {
				products = append(products, p)
			}
		}
	}

	sort.SliceStable(products, func(i, j int) bool {
		return products[i].Price250 > products[j].Price250
	})
	return products, nil
}

func (r *CatalogRepository) GetByRef(ctx context.Context, ref string) (domain.Product, error) {
	out, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.tableName),
		Key:       itemKey(productPK(ref), skMetadata),
	})
	if err != nil {
		return domain.Product{}, fmt.Errorf("failed to get product %s: %w", ref, err)
	}
	if len(out.Item) == 0 {
		return domain.Product{}, domain.ErrProductNotFound
	}

	var p domain.Product
	if err := attributevalue.UnmarshalMap(out.Item, &p); err != nil {
		return domain.Product{}, fmt.Errorf("failed to unmarshal product: %w", err)
	}
	return p, nil
}

// GetByRefs looks up many coffees in one batched read. Unknown references are
// absent from the result.
func (r *CatalogRepository) GetByRefs(ctx context.Context, refs []string) (map[string]domain.Product, error) {
	seen := make(map[string]struct{}, len(refs))
	keys := make([]map[string]types.AttributeValue, 0, len(refs))
	for _, ref := range refs {
		if ref == "" {
			continue
		}
		if _, ok := seen[ref]; ok {
			continue
		}
		seen[ref] = struct{}{}
		keys = append(keys, itemKey(productPK(ref), skMetadata))
	}

	products := make(map[string]domain.Product, len(keys))
	if len(keys) == 0 {
		return products, nil
	}

	items, err := batchGet(ctx, r.client, r.tableName, keys)
	if err != nil {
		return nil, err
	}

	var batch []domain.Product
	if err := attributevalue.UnmarshalListOfMaps(items, &batch); err != nil {
		return nil, fmt.Errorf("failed to unmarshal products: %w", err)
	}
	for _, p := range batch {
		products[p.PriceRef] = p
	}
	return products, nil
}
