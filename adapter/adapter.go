package adapter

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strconv"
	"time"

	"github.com/jacentio/sdbmap/codec"
	"github.com/jacentio/sdbmap/internal/itemname"
	"github.com/jacentio/sdbmap/mapper"
	"github.com/jacentio/sdbmap/sdbql"
	"github.com/jacentio/sdbmap/store"
)

// Adapter runs mapper operations against a store domain.
type Adapter struct {
	domain   store.Domain
	config   Config
	compiler sdbql.Compiler
	logger   *slog.Logger
}

// New creates an adapter that owns domain for its lifetime.
func New(domain store.Domain, config Config) *Adapter {
	config.validate()
	return &Adapter{
		domain:   domain,
		config:   config,
		compiler: sdbql.Compiler{TypeAttribute: config.TypeAttribute},
		logger:   config.Logger,
	}
}

// Domain returns the store domain the adapter writes to.
func (a *Adapter) Domain() store.Domain {
	return a.domain
}

// ItemName returns the item name a resource is stored under.
func (a *Adapter) ItemName(r mapper.Resource) (string, error) {
	return resourceName(r.Model(), r.Attributes())
}

// Create writes each resource as a new item, in order. It stops at the first
// failure and returns how many resources were written before it.
func (a *Adapter) Create(ctx context.Context, resources ...mapper.Resource) (int, error) {
	created := 0
	for _, r := range resources {
		model := r.Model()
		values := r.Attributes()

		name, err := resourceName(model, values)
		if err != nil {
			return created, fmt.Errorf("create %s: %w", model.Name, err)
		}
		attrs, err := a.encodeResource(model, values)
		if err != nil {
			return created, fmt.Errorf("create %s: %w", model.Name, err)
		}

		if err := a.domain.PutAttributes(ctx, name, attrs); err != nil {
			a.logger.WarnContext(ctx, "put attributes failed",
				"op", "create",
				"model", model.Name,
				"item", name,
				"error", err,
			)
			return created, fmt.Errorf("create %s %s: %w", model.Name, name, err)
		}

		a.logger.DebugContext(ctx, "created item",
			"op", "create",
			"model", model.Name,
			"item", name,
			"attributes", len(attrs),
		)
		created++
	}
	return created, nil
}

// ReadOne fetches the single item a key query addresses.
func (a *Adapter) ReadOne(ctx context.Context, q *mapper.Query) (*mapper.Record, error) {
	name, err := a.singleItem(q)
	if err != nil {
		return nil, err
	}

	attrs, err := a.domain.GetAttributes(ctx, name)
	if err != nil {
		if !errors.Is(err, store.ErrNotFound) {
			a.logger.WarnContext(ctx, "get attributes failed",
				"op", "read",
				"model", q.Model.Name,
				"item", name,
				"error", err,
			)
		}
		return nil, fmt.Errorf("read %s %s: %w", q.Model.Name, name, err)
	}

	fields := q.Projection()
	values, err := codec.DecodeFields(attrs, fields)
	if err != nil {
		return nil, fmt.Errorf("read %s %s: %w", q.Model.Name, name, err)
	}

	a.logger.DebugContext(ctx, "read item",
		"op", "read",
		"model", q.Model.Name,
		"item", name,
	)
	return mapper.Load(q.Model, fields, values)
}

// ReadMany compiles q and returns a collection that runs the store query
// the first time it is iterated. Compilation errors are returned before any
// store call. ctx governs that deferred query, so it must stay live until
// the collection has been read; a cancelled ctx surfaces as an iteration
// error.
func (a *Adapter) ReadMany(ctx context.Context, q *mapper.Query) (*mapper.Collection, error) {
	if q == nil || q.Model == nil {
		return nil, fmt.Errorf("%w: query has no model", ErrUnsupportedOperation)
	}

	expr, err := a.compiler.Compile(q.Model.Storage(), q.Conditions)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", q.Model.Name, err)
	}

	fields := q.Projection()
	return mapper.NewCollection(q, func(load mapper.LoadFunc) error {
		a.logger.DebugContext(ctx, "query items",
			"op", "read_many",
			"model", q.Model.Name,
			"expression", expr,
		)

		n := 0
		for item, err := range a.domain.Query(ctx, expr, true) {
			if errors.Is(err, store.ErrNotFound) {
				break
			}
			if err != nil {
				a.logger.WarnContext(ctx, "query failed",
					"op", "read_many",
					"model", q.Model.Name,
					"expression", expr,
					"error", err,
				)
				return fmt.Errorf("read %s: %w", q.Model.Name, err)
			}

			values, err := codec.DecodeFields(item.Attributes, fields)
			if err != nil {
				return fmt.Errorf("read %s %s: %w", q.Model.Name, item.Name, err)
			}
			if err := load(values); err != nil {
				return err
			}
			n++
		}

		a.logger.DebugContext(ctx, "query complete",
			"op", "read_many",
			"model", q.Model.Name,
			"items", n,
		)
		return nil
	}), nil
}

// Update applies changes, keyed by property name, to the single item q
// addresses. Only the touched attributes are rewritten: their old values are
// removed and the new ones added. Key properties cannot change.
func (a *Adapter) Update(ctx context.Context, changes map[string]any, q *mapper.Query) (int, error) {
	name, err := a.singleItem(q)
	if err != nil {
		return 0, err
	}
	model := q.Model

	touched := make([]mapper.Property, 0, len(changes))
	for _, k := range sortedKeys(changes) {
		p, ok := model.Property(k)
		if !ok {
			return 0, fmt.Errorf("update %s: %w: %q", model.Name, ErrUnknownProperty, k)
		}
		if p.Key {
			return 0, fmt.Errorf("update %s: %w: key property %q cannot change", model.Name, ErrUnsupportedOperation, k)
		}
		if err := a.checkReserved(p); err != nil {
			return 0, fmt.Errorf("update %s: %w", model.Name, err)
		}
		touched = append(touched, p)
	}
	if len(touched) == 0 {
		return 0, nil
	}

	existing, err := a.domain.GetAttributes(ctx, name)
	if err != nil {
		if !errors.Is(err, store.ErrNotFound) {
			a.logger.WarnContext(ctx, "get attributes failed",
				"op", "update",
				"model", model.Name,
				"item", name,
				"error", err,
			)
		}
		return 0, fmt.Errorf("update %s %s: %w", model.Name, name, err)
	}

	if err := a.claimVersion(ctx, model, name, existing); err != nil {
		return 0, err
	}

	removals := store.Attributes{}
	additions := store.Attributes{}
	for _, p := range touched {
		field := p.FieldName()
		if old := existing[field]; len(old) > 0 {
			removals[field] = old
		}
		if values := codec.EncodeProperty(p, changes[p.Name]); len(values) > 0 {
			additions[field] = values
		}
	}

	if len(removals) > 0 {
		if err := a.domain.DeleteAttributes(ctx, name, removals); err != nil {
			a.logger.WarnContext(ctx, "delete attributes failed",
				"op", "update",
				"model", model.Name,
				"item", name,
				"error", err,
			)
			return 0, fmt.Errorf("update %s %s: remove old values: %w", model.Name, name, err)
		}
	}
	if len(additions) > 0 {
		if err := a.domain.PutAttributes(ctx, name, additions); err != nil {
			a.logger.WarnContext(ctx, "put attributes failed",
				"op", "update",
				"model", model.Name,
				"item", name,
				"error", err,
			)
			return 0, fmt.Errorf("update %s %s: add new values: %w", model.Name, name, err)
		}
	}

	a.logger.DebugContext(ctx, "updated item",
		"op", "update",
		"model", model.Name,
		"item", name,
		"removed", len(removals),
		"added", len(additions),
	)
	return 1, nil
}

// Delete removes the single item q addresses. It reports 1 whether or not
// the item existed.
func (a *Adapter) Delete(ctx context.Context, q *mapper.Query) (int, error) {
	name, err := a.singleItem(q)
	if err != nil {
		return 0, err
	}

	if err := a.domain.DeleteAttributes(ctx, name, nil); err != nil {
		a.logger.WarnContext(ctx, "delete item failed",
			"op", "delete",
			"model", q.Model.Name,
			"item", name,
			"error", err,
		)
		return 0, fmt.Errorf("delete %s %s: %w", q.Model.Name, name, err)
	}

	a.logger.DebugContext(ctx, "deleted item",
		"op", "delete",
		"model", q.Model.Name,
		"item", name,
	)
	return 1, nil
}

// singleItem resolves a query that must address exactly one item: every
// condition is an equality and the conditions cover each key property once.
func (a *Adapter) singleItem(q *mapper.Query) (string, error) {
	if q == nil || q.Model == nil {
		return "", fmt.Errorf("%w: query has no model", ErrUnsupportedOperation)
	}
	model := q.Model

	for _, c := range q.Conditions {
		if c.Op != mapper.Eql {
			return "", fmt.Errorf("%s: %w: %s condition on %q", model.Name, ErrUnsupportedOperation, c.Op, c.Property.Name)
		}
	}

	keys := model.Keys()
	if len(keys) == 0 {
		return "", fmt.Errorf("%w: model %s has no key properties", ErrIncompleteKey, model.Name)
	}
	if len(q.Conditions) != len(keys) {
		return "", fmt.Errorf("%s: %w: %d conditions for %d key properties", model.Name, ErrIncompleteKey, len(q.Conditions), len(keys))
	}

	seen := make(map[string]bool, len(keys))
	pairs := make([]itemname.Pair, 0, len(keys))
	for _, c := range q.Conditions {
		p, ok := model.Property(c.Property.Name)
		if !ok || !p.Key {
			return "", fmt.Errorf("%s: %w: %q is not a key property", model.Name, ErrIncompleteKey, c.Property.Name)
		}
		if seen[p.Name] {
			return "", fmt.Errorf("%s: %w: %q given twice", model.Name, ErrIncompleteKey, p.Name)
		}
		if c.Value == nil {
			return "", fmt.Errorf("%s: %w: %q is nil", model.Name, ErrIncompleteKey, p.Name)
		}
		seen[p.Name] = true
		pairs = append(pairs, itemname.Pair{Field: p.Name, Value: keyValue(p, c.Value)})
	}

	return itemname.FromPairs(model.Storage(), pairs), nil
}

// claimVersion advances the version attribute from the value read, or fails
// with ErrConcurrentModification when another writer got there first.
func (a *Adapter) claimVersion(ctx context.Context, model *mapper.Model, name string, existing store.Attributes) error {
	if a.config.VersionAttribute == "" {
		return nil
	}
	swapper, ok := a.domain.(store.Swapper)
	if !ok {
		return nil
	}

	var current string
	if values := existing[a.config.VersionAttribute]; len(values) > 0 {
		current = values[0]
	}
	next, err := nextVersion(current)
	if err != nil {
		return fmt.Errorf("update %s %s: %w", model.Name, name, err)
	}

	if err := swapper.SwapAttribute(ctx, name, a.config.VersionAttribute, current, next); err != nil {
		if errors.Is(err, store.ErrConditionFailed) {
			a.logger.WarnContext(ctx, "version conflict",
				"op", "update",
				"model", model.Name,
				"item", name,
				"version", current,
			)
			return fmt.Errorf("update %s %s: %w", model.Name, name, ErrConcurrentModification)
		}
		return fmt.Errorf("update %s %s: claim version: %w", model.Name, name, err)
	}
	return nil
}

func (a *Adapter) encodeResource(model *mapper.Model, values map[string]any) (store.Attributes, error) {
	for k := range values {
		if _, ok := model.Property(k); !ok {
			return nil, fmt.Errorf("%w: %q", ErrUnknownProperty, k)
		}
	}

	attrs := store.Attributes{}
	for _, p := range model.Properties {
		if err := a.checkReserved(p); err != nil {
			return nil, err
		}
		if encoded := codec.EncodeProperty(p, values[p.Name]); len(encoded) > 0 {
			attrs[p.FieldName()] = encoded
		}
	}

	attrs[a.config.TypeAttribute] = []string{model.Storage()}
	if a.config.VersionAttribute != "" {
		attrs[a.config.VersionAttribute] = []string{codec.Encode(1)}
	}
	return attrs, nil
}

func (a *Adapter) checkReserved(p mapper.Property) error {
	field := p.FieldName()
	if field == a.config.TypeAttribute || (a.config.VersionAttribute != "" && field == a.config.VersionAttribute) {
		return fmt.Errorf("%w: property %q uses reserved attribute %q", ErrUnsupportedOperation, p.Name, field)
	}
	return nil
}

func resourceName(model *mapper.Model, values map[string]any) (string, error) {
	keys := model.Keys()
	if len(keys) == 0 {
		return "", fmt.Errorf("%w: model %s has no key properties", ErrIncompleteKey, model.Name)
	}

	pairs := make([]itemname.Pair, len(keys))
	for i, p := range keys {
		v := values[p.Name]
		if v == nil {
			return "", fmt.Errorf("%w: key property %q is nil", ErrIncompleteKey, p.Name)
		}
		pairs[i] = itemname.Pair{Field: p.Name, Value: keyValue(p, v)}
	}
	return itemname.FromPairs(model.Storage(), pairs), nil
}

// keyValue renders a key value in its natural, unpadded form.
func keyValue(p mapper.Property, v any) string {
	if t, ok := v.(time.Time); ok && p.Kind == mapper.KindDate {
		return t.Format(mapper.DateLayout)
	}
	return codec.Format(v)
}

func nextVersion(current string) (string, error) {
	if current == "" {
		return codec.Encode(1), nil
	}
	n, err := strconv.ParseInt(current, 10, 64)
	if err != nil {
		return "", fmt.Errorf("parse version %q: %w", current, err)
	}
	return codec.Encode(n + 1), nil
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}
