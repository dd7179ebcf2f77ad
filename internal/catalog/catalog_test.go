package catalog

import (
	"context"
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeDynamo struct {
	items map[string]map[string]types.AttributeValue
	err   error
	input *dynamodb.GetItemInput
}

func (f *fakeDynamo) GetItem(ctx context.Context, params *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error) {
	f.input = params
	if f.err != nil {
		return nil, f.err
	}
	key := params.Key["id"].(*types.AttributeValueMemberS).Value
	return &dynamodb.GetItemOutput{Item: f.items[key]}, nil
}

func TestLookupReturnsProduct(t *testing.T) {
	client := &fakeDynamo{items: map[string]map[string]types.AttributeValue{
		"p-1": {
			"id":     &types.AttributeValueMemberS{Value: "p-1"},
			"name":   &types.AttributeValueMemberS{Value: "Widget"},
			"price":  &types.AttributeValueMemberN{Value: "19.99"},
			"status": &types.AttributeValueMemberS{Value: "ACTIVE"},
		},
	}}
	c, err := NewDynamoCatalog(client, "products")
	require.NoError(t, err)

	product, err := c.Lookup(context.Background(), "p-1")
	require.NoError(t, err)
	assert.Equal(t, &Product{ID: "p-1", Name: "Widget", Price: 19.99, Status: "ACTIVE"}, product)

	assert.Equal(t, "products", aws.ToString(client.input.TableName))
	assert.NotEmpty(t, aws.ToString(client.input.ProjectionExpression))
	assert.Len(t, client.input.ExpressionAttributeNames, 4)
}

func TestLookupMissingProduct(t *testing.T) {
	c, err := NewDynamoCatalog(&fakeDynamo{}, "products")
	require.NoError(t, err)

	_, err = c.Lookup(context.Background(), "nope")
	assert.ErrorIs(t, err, ErrProductNotFound)
}

func TestLookupClientError(t *testing.T) {
	boom := errors.New("throttled")
	c, err := NewDynamoCatalog(&fakeDynamo{err: boom}, "products")
	require.NoError(t, err)

	_, err = c.Lookup(context.Background(), "p-1")
	assert.ErrorIs(t, err, boom)
	assert.NotErrorIs(t, err, ErrProductNotFound)
}
