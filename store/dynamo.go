package store

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// Dynamo implements Store against DynamoDB tables.
type Dynamo struct {
	client *dynamodb.Client
}

// NewDynamo creates a Store backed by the given DynamoDB client.
func NewDynamo(client *dynamodb.Client) *Dynamo {
	return &Dynamo{client: client}
}

var _ Store = (*Dynamo)(nil)

// Insert writes a new document, refusing to overwrite an existing id.
func (d *Dynamo) Insert(ctx context.Context, table string, doc Doc) error {
	_, err := d.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:           aws.String(table),
		Item:                doc,
		ConditionExpression: aws.String("attribute_not_exists(id)"),
	})
	var condErr *types.ConditionalCheckFailedException
	if errors.As(err, &condErr) {
		return ErrAlreadyExists
	}
	return wrap("insert", table, err)
}

// Get retrieves a single document by id.
func (d *Dynamo) Get(ctx context.Context, table, id string) (Doc, error) {
	out, err := d.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(table),
		Key:       Key(id),
	})
	if err != nil {
		return nil, wrap("get", table, err)
	}
	if out.Item == nil {
		return nil, ErrNotFound
	}
	return out.Item, nil
}

// Scan returns every document in the table.
func (d *Dynamo) Scan(ctx context.Context, table string) ([]Doc, error) {
	return d.scan(ctx, table, nil, "")
}

// FindWhere returns the documents matching every equality filter.
func (d *Dynamo) FindWhere(ctx context.Context, table string, eq Eq) ([]Doc, error) {
	return d.scan(ctx, table, eq, "")
}

// ExistsWhere reports whether any document matches the filters, excluding
// excludeID. The scan stops at the first match.
func (d *Dynamo) ExistsWhere(ctx context.Context, table string, eq Eq, excludeID string) (bool, error) {
	input := &dynamodb.ScanInput{TableName: aws.String(table)}
	if expr, names, values := filterExpr(eq, excludeID); expr != "" {
		input.FilterExpression = aws.String(expr)
		input.ExpressionAttributeNames = names
		input.ExpressionAttributeValues = values
	}

	paginator := dynamodb.NewScanPaginator(d.client, input)
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return false, wrap("scan", table, err)
		}
		if len(page.Items) > 0 {
			return true, nil
		}
	}
	return false, nil
}

// UpdateFields overwrites the named fields on one document. The id attribute
// is skipped, and a missing id is a no-op rather than an upsert.
func (d *Dynamo) UpdateFields(ctx context.Context, table, id string, fields Doc) error {
	names := map[string]string{}
	values := map[string]types.AttributeValue{}
	var set []string
	i := 0
	for _, k := range sortedKeys(fields) {
		if k == IDAttr {
			continue
		}
		name := fmt.Sprintf("#f%d", i)
		value := fmt.Sprintf(":v%d", i)
		names[name] = k
		values[value] = fields[k]
		set = append(set, name+" = "+value)
		i++
	}
	if len(set) == 0 {
		return nil
	}

	_, err := d.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:                 aws.String(table),
		Key:                       Key(id),
		UpdateExpression:          aws.String("SET " + strings.Join(set, ", ")),
		ConditionExpression:       aws.String("attribute_exists(id)"),
		ExpressionAttributeNames:  names,
		ExpressionAttributeValues: values,
	})
	var condErr *types.ConditionalCheckFailedException
	if errors.As(err, &condErr) {
		return nil // id absent: defined as a no-op
	}
	return wrap("update", table, err)
}

// AddToSet adds a member to a string-set attribute.
func (d *Dynamo) AddToSet(ctx context.Context, table, id, attr, member string) error {
	return d.setWrite(ctx, table, id, attr, member, "ADD")
}

// RemoveFromSet removes a member from a string-set attribute.
func (d *Dynamo) RemoveFromSet(ctx context.Context, table, id, attr, member string) error {
	return d.setWrite(ctx, table, id, attr, member, "DELETE")
}

func (d *Dynamo) setWrite(ctx context.Context, table, id, attr, member, verb string) error {
	_, err := d.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:           aws.String(table),
		Key:                 Key(id),
		UpdateExpression:    aws.String(verb + " #s :m"),
		ConditionExpression: aws.String("attribute_exists(id)"),
		ExpressionAttributeNames: map[string]string{
			"#s": attr,
		},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":m": &types.AttributeValueMemberSS{Value: []string{member}},
		},
	})
	var condErr *types.ConditionalCheckFailedException
	if errors.As(err, &condErr) {
		return nil // target document gone: defined as a no-op
	}
	return wrap("set "+verb, table, err)
}

// DeleteOne removes a document by id.
func (d *Dynamo) DeleteOne(ctx context.Context, table, id string) error {
	_, err := d.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName: aws.String(table),
		Key:       Key(id),
	})
	return wrap("delete", table, err)
}

// DeleteWhere removes every matching document. DynamoDB has no delete-by-
// filter, so matches are collected first and deleted one write at a time.
func (d *Dynamo) DeleteWhere(ctx context.Context, table string, eq Eq) (int, error) {
	docs, err := d.scan(ctx, table, eq, "")
	if err != nil {
		return 0, err
	}
	deleted := 0
	for _, doc := range docs {
		id := DocID(doc)
		if id == "" {
			continue
		}
		if err := d.DeleteOne(ctx, table, id); err != nil {
			return deleted, err
		}
		deleted++
	}
	return deleted, nil
}

func (d *Dynamo) scan(ctx context.Context, table string, eq Eq, excludeID string) ([]Doc, error) {
	input := &dynamodb.ScanInput{TableName: aws.String(table)}
	if expr, names, values := filterExpr(eq, excludeID); expr != "" {
		input.FilterExpression = aws.String(expr)
		input.ExpressionAttributeNames = names
		input.ExpressionAttributeValues = values
	}

	var docs []Doc
	paginator := dynamodb.NewScanPaginator(d.client, input)
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, wrap("scan", table, err)
		}
		for _, item := range page.Items {
			docs = append(docs, item)
		}
	}
	return docs, nil
}

// filterExpr builds a filter expression from equality filters plus an
// optional id exclusion. Keys are ordered for deterministic output.
func filterExpr(eq Eq, excludeID string) (string, map[string]string, map[string]types.AttributeValue) {
	if len(eq) == 0 && excludeID == "" {
		return "", nil, nil
	}

	names := map[string]string{}
	values := map[string]types.AttributeValue{}
	var parts []string

	keys := make([]string, 0, len(eq))
	for k := range eq {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for i, k := range keys {
		name := fmt.Sprintf("#a%d", i)
		value := fmt.Sprintf(":e%d", i)
		names[name] = k
		values[value] = &types.AttributeValueMemberS{Value: eq[k]}
		parts = append(parts, name+" = "+value)
	}
	if excludeID != "" {
		names["#id"] = IDAttr
		values[":exclude"] = &types.AttributeValueMemberS{Value: excludeID}
		parts = append(parts, "#id <> :exclude")
	}
	return strings.Join(parts, " AND "), names, values
}

func sortedKeys(doc Doc) []string {
	keys := make([]string, 0, len(doc))
	for k := range doc {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func wrap(op, table string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s %s: %w: %v", op, table, ErrUnavailable, err)
}
