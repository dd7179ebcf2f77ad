package catalog

import (
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/expression"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

var ErrProductNotFound = errors.New("product not found")

// Product is the subset of the catalog item an order line needs.
type Product struct {
	ID     string  `dynamodbav:"id" json:"id"`
	Name   string  `dynamodbav:"name" json:"name"`
	Price  float64 `dynamodbav:"price" json:"price"`
	Status string  `dynamodbav:"status" json:"status"`
}

type ProductCatalog interface {
	Lookup(ctx context.Context, productID string) (*Product, error)
}

// DynamoAPI is the part of the DynamoDB client the catalog uses.
type DynamoAPI interface {
	GetItem(ctx context.Context, params *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
}

// DynamoCatalog reads products from the table the product service writes.
type DynamoCatalog struct {
	client    DynamoAPI
	tableName string
	expr      expression.Expression
}

func NewDynamoCatalog(client DynamoAPI, tableName string) (*DynamoCatalog, error) {
	projection := expression.NamesList(
		expression.Name("id"),
		expression.Name("name"),
		expression.Name("price"),
		expression.Name("status"),
	)
	expr, err := expression.NewBuilder().WithProjection(projection).Build()
	if err != nil {
		return nil, fmt.Errorf("build projection: %w", err)
	}
	return &DynamoCatalog{client: client, tableName: tableName, expr: expr}, nil
}

func (c *DynamoCatalog) Lookup(ctx context.Context, productID string) (*Product, error) {
	result, err := c.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(c.tableName),
		Key: map[string]types.AttributeValue{
			"id": &types.AttributeValueMemberS{Value: productID},
		},
		ProjectionExpression:     c.expr.Projection(),
		ExpressionAttributeNames: c.expr.Names(),
		ConsistentRead:           aws.Bool(false),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get item from table %s: %w", c.tableName, err)
	}
	if result.Item == nil {
		return nil, ErrProductNotFound
	}

	var product Product
	if err := attributevalue.UnmarshalMap(result.Item, &product); err != nil {
		return nil, fmt.Errorf("failed to unmarshal item: %w", err)
	}
	return &product, nil
}
