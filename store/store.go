package store

import (
	"context"
	"errors"
	"fmt"
	"iter"
	"slices"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/expression"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/jacentio/sdbmap/sdbql"
)

// DynamoDBClient is the subset of the DynamoDB API used by Store.
// *dynamodb.Client satisfies it.
type DynamoDBClient interface {
	GetItem(ctx context.Context, params *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
	UpdateItem(ctx context.Context, params *dynamodb.UpdateItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.UpdateItemOutput, error)
	DeleteItem(ctx context.Context, params *dynamodb.DeleteItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.DeleteItemOutput, error)
	Scan(ctx context.Context, params *dynamodb.ScanInput, optFns ...func(*dynamodb.Options)) (*dynamodb.ScanOutput, error)
}

// Store is a Domain backed by a single DynamoDB table.
type Store struct {
	client DynamoDBClient
	config Config
}

var (
	_ Domain  = (*Store)(nil)
	_ Swapper = (*Store)(nil)
)

// New creates a new Store instance.
func New(client DynamoDBClient, config Config) *Store {
	config.validate()
	return &Store{
		client: client,
		config: config,
	}
}

// Config returns the store configuration with defaults applied.
func (s *Store) Config() Config {
	return s.config
}

// PutAttributes adds every value in attrs to the item's string sets.
func (s *Store) PutAttributes(ctx context.Context, item string, attrs Attributes) error {
	key, err := s.key(item)
	if err != nil {
		return err
	}

	var clauses []string
	exprNames := map[string]string{}
	exprValues := map[string]types.AttributeValue{}

	i := 0
	for _, name := range attrs.Names() {
		if name == s.config.NameAttribute {
			return fmt.Errorf("put %q: attribute %q is reserved", item, name)
		}
		values := uniq(attrs[name])
		if len(values) == 0 {
			continue
		}
		nameKey := fmt.Sprintf("#a%d", i)
		valueKey := fmt.Sprintf(":v%d", i)
		exprNames[nameKey] = name
		exprValues[valueKey] = &types.AttributeValueMemberSS{Value: values}
		clauses = append(clauses, fmt.Sprintf("%s %s", nameKey, valueKey))
		i++
	}
	if len(clauses) == 0 {
		return nil
	}

	_, err = s.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:                 aws.String(s.config.TableName),
		Key:                       key,
		UpdateExpression:          aws.String("ADD " + strings.Join(clauses, ", ")),
		ExpressionAttributeNames:  exprNames,
		ExpressionAttributeValues: exprValues,
	})
	if err != nil {
		return fmt.Errorf("put %q: %w", item, err)
	}
	return nil
}

// DeleteAttributes removes name/value pairs from the item. A nil attrs
// deletes the item. Deleting from a missing item is a no-op.
func (s *Store) DeleteAttributes(ctx context.Context, item string, attrs Attributes) error {
	key, err := s.key(item)
	if err != nil {
		return err
	}

	if attrs == nil {
		_, err := s.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
			TableName: aws.String(s.config.TableName),
			Key:       key,
		})
		if err != nil {
			return fmt.Errorf("delete %q: %w", item, err)
		}
		return nil
	}

	var removes, deletes []string
	exprNames := map[string]string{"#name": s.config.NameAttribute}
	exprValues := map[string]types.AttributeValue{}

	for i, name := range attrs.Names() {
		if name == s.config.NameAttribute {
			return fmt.Errorf("delete %q: attribute %q is reserved", item, name)
		}
		nameKey := fmt.Sprintf("#a%d", i)
		exprNames[nameKey] = name

		values := uniq(attrs[name])
		if len(values) == 0 {
			removes = append(removes, nameKey)
			continue
		}
		valueKey := fmt.Sprintf(":v%d", i)
		exprValues[valueKey] = &types.AttributeValueMemberSS{Value: values}
		deletes = append(deletes, fmt.Sprintf("%s %s", nameKey, valueKey))
	}

	var update []string
	if len(removes) > 0 {
		update = append(update, "REMOVE "+strings.Join(removes, ", "))
	}
	if len(deletes) > 0 {
		update = append(update, "DELETE "+strings.Join(deletes, ", "))
	}
	if len(update) == 0 {
		return nil
	}

	input := &dynamodb.UpdateItemInput{
		TableName:                aws.String(s.config.TableName),
		Key:                      key,
		UpdateExpression:         aws.String(strings.Join(update, " ")),
		ConditionExpression:      aws.String("attribute_exists(#name)"),
		ExpressionAttributeNames: exprNames,
	}
	if len(exprValues) > 0 {
		input.ExpressionAttributeValues = exprValues
	}

	_, err = s.client.UpdateItem(ctx, input)

	// Missing item, nothing to remove
	var condErr *types.ConditionalCheckFailedException
	if errors.As(err, &condErr) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("delete attributes of %q: %w", item, err)
	}
	return nil
}

// GetAttributes retrieves an item, returning ErrNotFound if it is missing
// or has no attributes.
func (s *Store) GetAttributes(ctx context.Context, item string) (Attributes, error) {
	key, err := s.key(item)
	if err != nil {
		return nil, err
	}

	result, err := s.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName:      aws.String(s.config.TableName),
		Key:            key,
		ConsistentRead: aws.Bool(s.config.ConsistentRead),
	})
	if err != nil {
		return nil, fmt.Errorf("get %q: %w", item, err)
	}

	attrs := s.unmarshalAttributes(result.Item)
	if len(attrs) == 0 {
		return nil, ErrNotFound
	}
	return attrs, nil
}

// Query scans the table for items matching expr. Equality comparisons that
// every match must satisfy are sent as a Scan filter; the full expression is
// evaluated on each returned item.
func (s *Store) Query(ctx context.Context, expr string, loadAttrs bool) iter.Seq2[Item, error] {
	return func(yield func(Item, error) bool) {
		parsed, err := sdbql.Parse(expr)
		if err != nil {
			yield(Item{}, err)
			return
		}

		input, err := s.scanInput(parsed)
		if err != nil {
			yield(Item{}, err)
			return
		}

		paginator := dynamodb.NewScanPaginator(s.client, input)
		for paginator.HasMorePages() {
			page, err := paginator.NextPage(ctx)
			if err != nil {
				yield(Item{}, fmt.Errorf("scan %s: %w", s.config.TableName, err))
				return
			}
			for _, raw := range page.Items {
				attrs := s.unmarshalAttributes(raw)
				if len(attrs) == 0 || !parsed.Match(attrs) {
					continue
				}

				var name string
				if err := attributevalue.Unmarshal(raw[s.config.NameAttribute], &name); err != nil {
					if !yield(Item{}, fmt.Errorf("unmarshal item name: %w", err)) {
						return
					}
					continue
				}

				it := Item{Name: name}
				if loadAttrs {
					it.Attributes = attrs
				}
				if !yield(it, nil) {
					return
				}
			}
		}
	}
}

// SwapAttribute replaces the single value of name with new, provided the
// item exists and its current value set contains old (or, for an empty old,
// the attribute is absent). A missing item fails with ErrConditionFailed.
func (s *Store) SwapAttribute(ctx context.Context, item, name, old, new string) error {
	key, err := s.key(item)
	if err != nil {
		return err
	}

	exprNames := map[string]string{"#name": s.config.NameAttribute, "#v": name}
	exprValues := map[string]types.AttributeValue{
		":new": &types.AttributeValueMemberSS{Value: []string{new}},
	}
	// The item must exist; a swap never creates one
	cond := "attribute_exists(#name) AND attribute_not_exists(#v)"
	if old != "" {
		cond = "attribute_exists(#name) AND contains(#v, :old)"
		exprValues[":old"] = &types.AttributeValueMemberS{Value: old}
	}

	_, err = s.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:                 aws.String(s.config.TableName),
		Key:                       key,
		UpdateExpression:          aws.String("SET #v = :new"),
		ConditionExpression:       aws.String(cond),
		ExpressionAttributeNames:  exprNames,
		ExpressionAttributeValues: exprValues,
	})
	if err != nil {
		var condErr *types.ConditionalCheckFailedException
		if errors.As(err, &condErr) {
			return ErrConditionFailed
		}
		return fmt.Errorf("swap %q on %q: %w", name, item, err)
	}
	return nil
}

func (s *Store) scanInput(parsed *sdbql.Expr) (*dynamodb.ScanInput, error) {
	input := &dynamodb.ScanInput{
		TableName:      aws.String(s.config.TableName),
		ConsistentRead: aws.Bool(s.config.ConsistentRead),
	}
	if s.config.PageSize > 0 {
		input.Limit = aws.Int32(s.config.PageSize)
	}

	var conds []expression.ConditionBuilder
	for _, eq := range parsed.Equalities() {
		// expression.Name treats these as document path separators
		if strings.ContainsAny(eq.Attribute, ".[]") {
			continue
		}
		conds = append(conds, expression.Name(eq.Attribute).Contains(eq.Value))
	}
	if len(conds) == 0 {
		return input, nil
	}

	filter := conds[0]
	if len(conds) > 1 {
		filter = expression.And(conds[0], conds[1], conds[2:]...)
	}
	expr, err := expression.NewBuilder().WithFilter(filter).Build()
	if err != nil {
		return nil, fmt.Errorf("build scan filter: %w", err)
	}

	input.FilterExpression = expr.Filter()
	input.ExpressionAttributeNames = expr.Names()
	input.ExpressionAttributeValues = expr.Values()
	return input, nil
}

// key builds the DynamoDB primary key for an item name.
func (s *Store) key(item string) (map[string]types.AttributeValue, error) {
	if item == "" {
		return nil, errors.New("sdbmap: empty item name")
	}
	av, err := attributevalue.Marshal(item)
	if err != nil {
		return nil, fmt.Errorf("marshal key: %w", err)
	}
	return map[string]types.AttributeValue{s.config.NameAttribute: av}, nil
}

// unmarshalAttributes converts a DynamoDB item to store attributes, dropping
// the name attribute and any value type the store cannot represent.
func (s *Store) unmarshalAttributes(raw map[string]types.AttributeValue) Attributes {
	attrs := Attributes{}
	for name, av := range raw {
		if name == s.config.NameAttribute {
			continue
		}
		if values, ok := stringValues(av); ok && len(values) > 0 {
			attrs[name] = values
		}
	}
	return attrs
}

func stringValues(av types.AttributeValue) ([]string, bool) {
	switch v := av.(type) {
	case *types.AttributeValueMemberSS:
		return slices.Sorted(slices.Values(v.Value)), true
	case *types.AttributeValueMemberS:
		return []string{v.Value}, true
	case *types.AttributeValueMemberNS:
		return slices.Sorted(slices.Values(v.Value)), true
	case *types.AttributeValueMemberN:
		return []string{v.Value}, true
	}
	return nil, false
}

// uniq returns the sorted distinct values; string sets reject duplicates.
func uniq(values []string) []string {
	if len(values) == 0 {
		return nil
	}
	out := slices.Clone(values)
	slices.Sort(out)
	return slices.Compact(out)
}
