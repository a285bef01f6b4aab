package repository

import (
	"context"
	"fmt"
	"sort"
	"strconv"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/fourways-coffee/storefront/internal/domain"
)

type InventoryRepository struct {
	client    DynamoAPI
	tableName string
}

func NewInventoryRepository(client DynamoAPI, tableName string) *InventoryRepository {
	return &InventoryRepository{
		client:    client,
		tableName: tableName,
	}
}

func inventoryPK(id int64) string {
	return "INVENTORY#" + strconv.FormatInt(id, 10)
}

func (r *InventoryRepository) PutRow(ctx context.Context, row domain.InventoryRow) error {
	av, err := attributevalue.MarshalMap(row)
	if err != nil {
		return fmt.Errorf("failed to marshal inventory row: %w", err)
	}
	for k, v := range itemKey(inventoryPK(row.ID), skMetadata) {
		av[k] = v
	}

	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(r.tableName),
		Item:      av,
	})
	if err != nil {
		return fmt.Errorf("failed to put inventory row %d: %w", row.ID, err)
	}
	return nil
}

// List returns all inventory rows, largest green stock first.
func (r *InventoryRepository) List(ctx context.Context) ([]domain.InventoryRow, error) {
	var rows []domain.InventoryRow

	paginator := dynamodb.NewScanPaginator(r.client, &dynamodb.ScanInput{
		TableName: aws.String(r.tableName),
	})
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to scan inventory: %w", err)
		}

		var batch []domain.InventoryRow
		if err := attributevalue.UnmarshalListOfMaps(page.Items, &batch); err != nil {
			return nil, fmt.Errorf("failed to unmarshal inventory: %w", err)
		}
		rows = append(rows, batch...)
	}

	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].GreenGrams > rows[j].GreenGrams
	})
	return rows, nil
}

func (r *InventoryRepository) GetByIDs(ctx context.Context, ids []int64) (map[int64]domain.InventoryRow, error) {
	seen := make(map[int64]struct{}, len(ids))
	keys := make([]map[string]types.AttributeValue, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		keys = append(keys, itemKey(inventoryPK(id), skMetadata))
	}

	rows := make(map[int64]domain.InventoryRow, len(keys))
	if len(keys) == 0 {
		return rows, nil
	}

	items, err := batchGet(ctx, r.client, r.tableName, keys)
	if err != nil {
		return nil, err
	}

	var batch []domain.InventoryRow
	if err := attributevalue.UnmarshalListOfMaps(items, &batch); err != nil {
		return nil, fmt.Errorf("failed to unmarshal inventory: %w", err)
	}
	for _, row := range batch {
		rows[row.ID] = row
	}
	return rows, nil
}

// ApplyRoast writes every adjustment in one transaction. Each update only
// applies if the row's green stock still equals the value it was computed
// from; otherwise nothing is written and domain.ErrInventoryConflict is returned.
func (r *InventoryRepository) ApplyRoast(ctx context.Context, adjustments []domain.RoastAdjustment) error {
	if len(adjustments) == 0 {
		return nil
	}
	if len(adjustments) > maxTransactItems {
		return fmt.Errorf("roast session has %d rows, more than one transaction can hold", len(adjustments))
	}

	transact := make([]types.TransactWriteItem, 0, len(adjustments))
	for _, adj := range adjustments {
		transact = append(transact, types.TransactWriteItem{Update: &types.Update{
			TableName:           aws.String(r.tableName),
			Key:                 itemKey(inventoryPK(adj.InventoryID), skMetadata),
			UpdateExpression:    aws.String("SET green_inventory = :green, roasted_inventory = :roasted"),
			ConditionExpression: aws.String("attribute_exists(PK) AND green_inventory = :expected"),
			ExpressionAttributeValues: map[string]types.AttributeValue{
				":green":    &types.AttributeValueMemberN{Value: strconv.FormatInt(adj.NewGreenGrams, 10)},
				":roasted":  &types.AttributeValueMemberN{Value: strconv.FormatInt(adj.NewRoastedGrams, 10)},
				":expected": &types.AttributeValueMemberN{Value: strconv.FormatInt(adj.ExpectedGreen, 10)},
			},
		}})
	}

	_, err := r.client.TransactWriteItems(ctx, &dynamodb.TransactWriteItemsInput{
		TransactItems: transact,
	})
	if err != nil {
		if anyCancellationIsConditional(err) {
			return domain.ErrInventoryConflict
		}
		return fmt.Errorf("failed to apply roast session: %w", err)
	}
	return nil
}
