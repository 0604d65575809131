// Package stream provides a DynamoDB Streams handler that turns changes to a
// store table back into typed mapper records.
package stream

import (
	"context"
	"fmt"
	"log/slog"
	"slices"

	"github.com/aws/aws-lambda-go/events"

	"github.com/jacentio/sdbmap/codec"
	"github.com/jacentio/sdbmap/mapper"
	"github.com/jacentio/sdbmap/sdbql"
	"github.com/jacentio/sdbmap/store"
)

// ChangeKind is the kind of item change.
type ChangeKind string

const (
	Insert ChangeKind = "INSERT"
	Modify ChangeKind = "MODIFY"
	Remove ChangeKind = "REMOVE"
)

// Change is one decoded item change. Old is nil for inserts and New is nil
// for removals.
type Change struct {
	Kind     ChangeKind
	ItemName string
	Model    *mapper.Model
	Old      *mapper.Record
	New      *mapper.Record
}

// Sink receives decoded changes. A returned error stops the batch.
type Sink func(ctx context.Context, change Change) error

// Config holds configuration for the Handler.
type Config struct {
	// NameAttribute is the table's hash key holding the item name.
	// Default: "item_name"
	NameAttribute string

	// TypeAttribute holds each item's storage name.
	// Default: "simpledb_type"
	TypeAttribute string
}

// DefaultConfig returns a configuration matching store.DefaultConfig and
// adapter.DefaultConfig.
func DefaultConfig() Config {
	return Config{
		NameAttribute: store.DefaultConfig().NameAttribute,
		TypeAttribute: sdbql.DefaultTypeAttribute,
	}
}

func (c *Config) validate() {
	if c.NameAttribute == "" {
		c.NameAttribute = store.DefaultConfig().NameAttribute
	}
	if c.TypeAttribute == "" {
		c.TypeAttribute = sdbql.DefaultTypeAttribute
	}
}

// Handler processes DynamoDB stream events for a store table.
type Handler struct {
	registry *mapper.Registry
	config   Config
	sink     Sink
	logger   *slog.Logger
}

// NewHandler creates a new stream handler. Items whose type attribute is not
// registered are skipped.
func NewHandler(registry *mapper.Registry, config Config, sink Sink, logger *slog.Logger) *Handler {
	config.validate()
	if registry == nil {
		registry = mapper.NewRegistry()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{
		registry: registry,
		config:   config,
		sink:     sink,
		logger:   logger,
	}
}

// HandleChanges decodes every record of a stream batch and passes it to the
// sink. It is designed to be used as an AWS Lambda handler; an error fails
// the batch so that Lambda retries it.
func (h *Handler) HandleChanges(ctx context.Context, event events.DynamoDBEvent) error {
	delivered, skipped := 0, 0
	for _, record := range event.Records {
		change, ok, err := h.decode(record)
		if err != nil {
			h.logger.Error("failed to decode record",
				"eventID", record.EventID,
				"error", err,
			)
			return err
		}
		if !ok {
			skipped++
			continue
		}

		if h.sink != nil {
			if err := h.sink(ctx, change); err != nil {
				h.logger.Error("sink rejected change",
					"eventID", record.EventID,
					"item", change.ItemName,
					"kind", change.Kind,
					"error", err,
				)
				return fmt.Errorf("deliver %s of %s: %w", change.Kind, change.ItemName, err)
			}
		}
		delivered++
	}

	h.logger.Info("processed change batch",
		"records", len(event.Records),
		"delivered", delivered,
		"skipped", skipped,
	)
	return nil
}

// decode converts a stream record to a Change. Records for unknown event
// types or unregistered models report false.
func (h *Handler) decode(record events.DynamoDBEventRecord) (Change, bool, error) {
	kind := ChangeKind(record.EventName)
	switch kind {
	case Insert, Modify, Remove:
	default:
		h.logger.Debug("skipping record", "eventID", record.EventID, "eventName", record.EventName)
		return Change{}, false, nil
	}

	oldAttrs := ImageAttributes(record.Change.OldImage, h.config.NameAttribute)
	newAttrs := ImageAttributes(record.Change.NewImage, h.config.NameAttribute)

	name := getStringAttr(record.Change.Keys, h.config.NameAttribute)
	if name == "" {
		name = getStringAttr(record.Change.NewImage, h.config.NameAttribute)
	}
	if name == "" {
		name = getStringAttr(record.Change.OldImage, h.config.NameAttribute)
	}

	storage := firstValue(newAttrs, h.config.TypeAttribute)
	if storage == "" {
		storage = firstValue(oldAttrs, h.config.TypeAttribute)
	}
	model, ok := h.registry.Lookup(storage)
	if !ok {
		h.logger.Debug("skipping unregistered type",
			"eventID", record.EventID,
			"item", name,
			"type", storage,
		)
		return Change{}, false, nil
	}

	change := Change{Kind: kind, ItemName: name, Model: model}
	var err error
	if change.Old, err = decodeRecord(model, oldAttrs); err != nil {
		return Change{}, false, fmt.Errorf("decode old image of %s: %w", name, err)
	}
	if change.New, err = decodeRecord(model, newAttrs); err != nil {
		return Change{}, false, fmt.Errorf("decode new image of %s: %w", name, err)
	}
	return change, true, nil
}

func decodeRecord(model *mapper.Model, attrs store.Attributes) (*mapper.Record, error) {
	if len(attrs) == 0 {
		return nil, nil
	}
	values, err := codec.DecodeFields(attrs, model.Properties)
	if err != nil {
		return nil, err
	}
	return mapper.Load(model, model.Properties, values)
}

// ImageAttributes converts a stream image to store attributes, dropping the
// name attribute and values the store cannot represent.
func ImageAttributes(image map[string]events.DynamoDBAttributeValue, nameAttr string) store.Attributes {
	attrs := store.Attributes{}
	for k := range image {
		if k == nameAttr {
			continue
		}
		if values := getStringSetAttr(image, k); len(values) > 0 {
			attrs[k] = values
		}
	}
	return attrs
}

func firstValue(attrs store.Attributes, name string) string {
	if values := attrs[name]; len(values) > 0 {
		return values[0]
	}
	return ""
}

// getStringAttr extracts a string attribute from a DynamoDB stream image.
func getStringAttr(image map[string]events.DynamoDBAttributeValue, key string) string {
	if v, ok := image[key]; ok && v.DataType() == events.DataTypeString {
		return v.String()
	}
	return ""
}

// getStringSetAttr extracts an attribute's values from a DynamoDB stream
// image, sorted. Scalars count as one value; lists keep their string elements.
func getStringSetAttr(image map[string]events.DynamoDBAttributeValue, key string) []string {
	v, ok := image[key]
	if !ok {
		return nil
	}

	var result []string
	switch v.DataType() {
	case events.DataTypeStringSet:
		result = slices.Clone(v.StringSet())
	case events.DataTypeNumberSet:
		result = slices.Clone(v.NumberSet())
	case events.DataTypeString:
		result = []string{v.String()}
	case events.DataTypeNumber:
		result = []string{v.Number()}
	case events.DataTypeList:
		for _, item := range v.List() {
			if item.DataType() == events.DataTypeString {
				result = append(result, item.String())
			}
		}
	}
	slices.Sort(result)
	return result
}
