package store_test

import (
	"context"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb"

	"github.com/jacentio/sdbmap/store"
)

type apiCall[T, U any] = func(context.Context, *T, ...func(*dynamodb.Options)) (*U, error)

// mockClient routes every DynamoDB call to a func field. Unset fields fail the test.
type mockClient struct {
	GetFunc      apiCall[dynamodb.GetItemInput, dynamodb.GetItemOutput]
	UpdateFunc   apiCall[dynamodb.UpdateItemInput, dynamodb.UpdateItemOutput]
	DeleteFunc   apiCall[dynamodb.DeleteItemInput, dynamodb.DeleteItemOutput]
	ScanFunc     apiCall[dynamodb.ScanInput, dynamodb.ScanOutput]
	CreateFunc   apiCall[dynamodb.CreateTableInput, dynamodb.CreateTableOutput]
	DescribeFunc apiCall[dynamodb.DescribeTableInput, dynamodb.DescribeTableOutput]
}

var (
	_ store.DynamoDBClient = (*mockClient)(nil)
	_ store.TableClient    = (*mockClient)(nil)
)

func newMockClient(t *testing.T) *mockClient {
	return &mockClient{
		GetFunc:      unexpected[dynamodb.GetItemInput, dynamodb.GetItemOutput](t),
		UpdateFunc:   unexpected[dynamodb.UpdateItemInput, dynamodb.UpdateItemOutput](t),
		DeleteFunc:   unexpected[dynamodb.DeleteItemInput, dynamodb.DeleteItemOutput](t),
		ScanFunc:     unexpected[dynamodb.ScanInput, dynamodb.ScanOutput](t),
		CreateFunc:   unexpected[dynamodb.CreateTableInput, dynamodb.CreateTableOutput](t),
		DescribeFunc: unexpected[dynamodb.DescribeTableInput, dynamodb.DescribeTableOutput](t),
	}
}

func unexpected[T, U any](t *testing.T) apiCall[T, U] {
	return func(context.Context, *T, ...func(*dynamodb.Options)) (*U, error) {
		t.Helper()
		t.Fatalf("unexpected %T call", new(T))
		return nil, nil
	}
}

func (m *mockClient) GetItem(ctx context.Context, params *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error) {
	return m.GetFunc(ctx, params, optFns...)
}

func (m *mockClient) UpdateItem(ctx context.Context, params *dynamodb.UpdateItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.UpdateItemOutput, error) {
	return m.UpdateFunc(ctx, params, optFns...)
}

func (m *mockClient) DeleteItem(ctx context.Context, params *dynamodb.DeleteItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.DeleteItemOutput, error) {
	return m.DeleteFunc(ctx, params, optFns...)
}

func (m *mockClient) Scan(ctx context.Context, params *dynamodb.ScanInput, optFns ...func(*dynamodb.Options)) (*dynamodb.ScanOutput, error) {
	return m.ScanFunc(ctx, params, optFns...)
}

func (m *mockClient) CreateTable(ctx context.Context, params *dynamodb.CreateTableInput, optFns ...func(*dynamodb.Options)) (*dynamodb.CreateTableOutput, error) {
	return m.CreateFunc(ctx, params, optFns...)
}

func (m *mockClient) DescribeTable(ctx context.Context, params *dynamodb.DescribeTableInput, optFns ...func(*dynamodb.Options)) (*dynamodb.DescribeTableOutput, error) {
	return m.DescribeFunc(ctx, params, optFns...)
}
