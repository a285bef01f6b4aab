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

const (
	orderListPK     = "ORDER"
	createdAtLayout = "2006-01-02T15:04:05.000000000Z"
)

type OrderRepository struct {
	client    DynamoAPI
	tableName string
}

func NewOrderRepository(client DynamoAPI, tableName string) *OrderRepository {
	return &OrderRepository{
		client:    client,
		tableName: tableName,
	}
}

func orderPK(orderID string) string {
	return fmt.Sprintf("ORDER#%s", orderID)
}

func orderItemSK(position int) string {
	return fmt.Sprintf("ITEM#%03d", position)
}

// checkoutPK keys the row that makes a Stripe session id unique.
func checkoutPK(sessionID string) string {
	return fmt.Sprintf("CHECKOUT#%s", sessionID)
}

// ExistsForSession reports whether an order was already recorded for the
// checkout session.
func (r *OrderRepository) ExistsForSession(ctx context.Context, sessionID string) (bool, error) {
	out, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName:      aws.String(r.tableName),
		Key:            itemKey(checkoutPK(sessionID), skMetadata),
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		return false, fmt.Errorf("failed to get checkout marker: %w", err)
	}
	return len(out.Item) > 0, nil
}

// CreateWithItems writes the order, its items and the session marker in one
// transaction. domain.ErrDuplicateOrder is returned when the marker exists.
func (r *OrderRepository) CreateWithItems(ctx context.Context, order domain.Order, items []domain.OrderItem) error {
	if len(items)+2 > maxTransactItems {
		return fmt.Errorf("order %s has %d items, more than one transaction can hold", order.ID, len(items))
	}

	order.ItemCount = len(items)
	orderAV, err := attributevalue.MarshalMap(order)
	if err != nil {
		return fmt.Errorf("failed to marshal order: %w", err)
	}
	for k, v := range itemKey(orderPK(order.ID), skMetadata) {
		orderAV[k] = v
	}
	orderAV[attrGSI1PK] = &types.AttributeValueMemberS{Value: orderListPK}
	orderAV[attrGSI1SK] = &types.AttributeValueMemberS{Value: order.CreatedAt.UTC().Format(createdAtLayout) + "#" + order.ID}

	marker := itemKey(checkoutPK(order.StripeSessionID), skMetadata)
	marker["order_id"] = &types.AttributeValueMemberS{Value: order.ID}

	// The marker must stay first: duplicate detection reads reason zero.
	transact := []types.TransactWriteItem{
		{Put: &types.Put{
			TableName:           aws.String(r.tableName),
			Item:                marker,
			ConditionExpression: aws.String("attribute_not_exists(PK)"),
		}},
		{Put: &types.Put{
			TableName: aws.String(r.tableName),
			Item:      orderAV,
		}},
	}

	for i, item := range items {
		item.OrderID = order.ID
		item.Position = i
		itemAV, err := attributevalue.MarshalMap(item)
		if err != nil {
			return fmt.Errorf("failed to marshal order item: %w", err)
		}
		for k, v := range itemKey(orderPK(order.ID), orderItemSK(i)) {
			itemAV[k] = v
		}
		transact = append(transact, types.TransactWriteItem{Put: &types.Put{
			TableName: aws.String(r.tableName),
			Item:      itemAV,
		}})
	}

	_, err = r.client.TransactWriteItems(ctx, &dynamodb.TransactWriteItemsInput{
		TransactItems: transact,
	})
	if err != nil {
		if firstCancellationIsConditional(err) {
			return domain.ErrDuplicateOrder
		}
		return fmt.Errorf("failed to write order: %w", err)
	}
	return nil
}

// List returns orders newest first, optionally narrowed to one status.
func (r *OrderRepository) List(ctx context.Context, filter domain.DashboardFilter) ([]domain.Order, error) {
	input := &dynamodb.QueryInput{
		TableName:              aws.String(r.tableName),
		IndexName:              aws.String(gsi1Name),
		KeyConditionExpression: aws.String("GSI1PK = :pk"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":pk": &types.AttributeValueMemberS{Value: orderListPK},
		},
		ScanIndexForward: aws.Bool(false),
	}
	if status, ok := filter.Status(); ok {
		input.FilterExpression = aws.String("#status = :status")
		input.ExpressionAttributeNames = map[string]string{"#status": "status"}
		input.ExpressionAttributeValues[":status"] = &types.AttributeValueMemberS{Value: string(status)}
	}

	var orders []domain.Order
	paginator := dynamodb.NewQueryPaginator(r.client, input)
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to query orders: %w", err)
		}

		var batch []domain.Order
		if err := attributevalue.UnmarshalListOfMaps(page.Items, &batch); err != nil {
			return nil, fmt.Errorf("failed to unmarshal orders: %w", err)
		}
		orders = append(orders, batch...)
	}
	return orders, nil
}

// ItemsForOrders batch-fetches the items of the given orders, grouped by
// order id and sorted by position.
func (r *OrderRepository) ItemsForOrders(ctx context.Context, orders []domain.Order) (map[string][]domain.OrderItem, error) {
	byOrder := make(map[string][]domain.OrderItem, len(orders))

	var keys []map[string]types.AttributeValue
	for _, o := range orders {
		for i := 0; i < o.ItemCount; i++ {
			keys = append(keys, itemKey(orderPK(o.ID), orderItemSK(i)))
		}
	}
	if len(keys) == 0 {
		return byOrder, nil
	}

	raw, err := batchGet(ctx, r.client, r.tableName, keys)
	if err != nil {
		return nil, err
	}

	var items []domain.OrderItem
	if err := attributevalue.UnmarshalListOfMaps(raw, &items); err != nil {
		return nil, fmt.Errorf("failed to unmarshal order items: %w", err)
	}
	for _, item := range items {
		byOrder[item.OrderID] = append(byOrder[item.OrderID], item)
	}
	for id := range byOrder {
		sort.Slice(byOrder[id], func(i, j int) bool {
			return byOrder[id][i].Position < byOrder[id][j].Position
		})
	}
	return byOrder, nil
}

// UpdateStatus sets the status of an existing order and returns the updated row.
func (r *OrderRepository) UpdateStatus(ctx context.Context, orderID string, status domain.OrderStatus) (domain.Order, error) {
	out, err := r.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:                aws.String(r.tableName),
		Key:                      itemKey(orderPK(orderID), skMetadata),
		UpdateExpression:         aws.String("SET #status = :status"),
		ConditionExpression:      aws.String("attribute_exists(PK)"),
		ExpressionAttributeNames: map[string]string{"#status": "status"},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":status": &types.AttributeValueMemberS{Value: string(status)},
		},
		ReturnValues: types.ReturnValueAllNew,
	})
	if err != nil {
		if isConditionalCheckFailed(err) {
			return domain.Order{}, domain.ErrOrderNotFound
		}
		return domain.Order{}, fmt.Errorf("failed to update order %s: %w", orderID, err)
	}

	var order domain.Order
	if err := attributevalue.UnmarshalMap(out.Attributes, &order); err != nil {
		return domain.Order{}, fmt.Errorf("failed to unmarshal order: %w", err)
	}
	return order, nil
}
