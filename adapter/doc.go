// Package adapter maps object-mapper operations onto a SimpleDB-style
// attribute store.
//
// An [Adapter] owns a [store.Domain] and implements create, read-one,
// read-many, update and delete on top of it:
//
//	a := adapter.New(store.New(dynamodb.NewFromConfig(awsCfg), store.DefaultConfig()), adapter.DefaultConfig())
//	n, err := a.Create(ctx, record)
//
// Every item is named by the SHA-1 of its storage name and key values, and
// carries the storage name in the type attribute ("simpledb_type" by
// default) so that queries can be scoped to one model.
//
// # Single-item operations
//
// ReadOne, Update and Delete address one item and only accept equality
// conditions covering each key property exactly once. Anything else fails
// with [ErrUnsupportedOperation] or [ErrIncompleteKey] before the store is
// called.
//
// # Updates
//
// The store can only add and remove attribute values. Update reads the item,
// removes the old values of the changed attributes and adds the new ones.
// The sequence is not atomic. Set Config.VersionAttribute to have Update
// claim a new version with a conditional write first; a lost race returns
// [ErrConcurrentModification] without touching the item.
package adapter
