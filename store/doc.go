// Package store defines the attribute-value store the adapter writes to and
// provides a DynamoDB-backed implementation of it.
//
// The store model is SimpleDB's: a domain holds named items, every item holds
// attributes, and every attribute holds one or more string values. Writes are
// additive; replacing a value means deleting the old name/value pair and
// putting the new one.
//
// # Domain
//
// The adapter only depends on the [Domain] interface:
//
//	type Domain interface {
//	    PutAttributes(ctx context.Context, item string, attrs Attributes) error
//	    DeleteAttributes(ctx context.Context, item string, attrs Attributes) error
//	    GetAttributes(ctx context.Context, item string) (Attributes, error)
//	    Query(ctx context.Context, expr string, loadAttrs bool) iter.Seq2[Item, error]
//	}
//
// Domains that can conditionally write also implement [Swapper], which
// enables optimistic locking in the adapter.
//
// # DynamoDB
//
// [Store] maps each item onto one DynamoDB item keyed by the item name, with
// every attribute stored as a string set:
//
//	client := dynamodb.NewFromConfig(awsCfg)
//	domain := store.New(client, store.DefaultConfig())
//
// Query expressions are parsed with package sdbql. Top-level equality
// comparisons are pushed down as Scan filters and every scanned item is
// matched against the full expression before it is returned.
//
// # Errors
//
//   - [ErrNotFound] - item doesn't exist
//   - [ErrConditionFailed] - conditional swap found another value
package store
