// Package mapper describes the object-mapper side of the sdbmap adapter.
//
// The adapter never owns resource definitions. It consumes a [Model] (the
// resource type, its properties and its storage name), reads values from
// [Resource] instances on write, and builds [Record] values on read.
//
// # Models
//
// A model lists its properties in declaration order. Properties flagged as
// keys identify an item; their values are hashed into the item name:
//
//	person := &mapper.Model{
//	    Name:        "Person",
//	    StorageName: "people",
//	    Properties: []mapper.Property{
//	        {Name: "id", Kind: mapper.KindString, Key: true},
//	        {Name: "name", Kind: mapper.KindString, Key: true},
//	        {Name: "age", Kind: mapper.KindInteger},
//	        {Name: "wealth", Kind: mapper.KindFloat},
//	    },
//	}
//
// # Queries
//
// A [Query] targets one model with a conjunction of conditions:
//
//	q := mapper.NewQuery(person,
//	    mapper.Condition{Op: mapper.Gte, Property: person.MustProperty("age"), Value: 20},
//	)
//
// # Collections
//
// Read-many results are delivered through a [Collection] that is populated
// lazily the first time it is iterated.
package mapper
