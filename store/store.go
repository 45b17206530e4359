package store

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// IDAttr is the attribute every document is keyed by.
const IDAttr = "id"

// Doc is a raw document: DynamoDB attribute values keyed by attribute name.
type Doc map[string]types.AttributeValue

// Eq is a conjunction of string-attribute equality filters.
type Eq map[string]string

// Store is the document-store surface the engine is written against.
//
// All filters are equality on string attributes; that is the only shape the
// engine needs (foreign keys and uniqueness keys are strings). Implementations
// must treat updates, set writes and deletes against a missing id as silent
// no-ops, and must never upsert.
type Store interface {
	// Insert writes a new document. The caller supplies the id attribute,
	// freshly generated and guaranteed unique; a colliding id is reported as
	// ErrAlreadyExists.
	Insert(ctx context.Context, table string, doc Doc) error

	// Get returns the document with the given id, or ErrNotFound.
	Get(ctx context.Context, table, id string) (Doc, error)

	// Scan returns a snapshot of every document in the table, in store-native
	// order.
	Scan(ctx context.Context, table string) ([]Doc, error)

	// FindWhere returns the documents matching every equality filter.
	FindWhere(ctx context.Context, table string, eq Eq) ([]Doc, error)

	// ExistsWhere reports whether any document matches every equality filter,
	// excluding the document with id excludeID. An empty excludeID excludes
	// nothing.
	ExistsWhere(ctx context.Context, table string, eq Eq, excludeID string) (bool, error)

	// UpdateFields overwrites the named fields on the document with the given
	// id. The id attribute itself is never written. A missing id is a no-op.
	UpdateFields(ctx context.Context, table, id string, fields Doc) error

	// AddToSet adds member to the named string-set attribute. Adding a member
	// already present leaves the set unchanged; a missing id is a no-op.
	AddToSet(ctx context.Context, table, id, attr, member string) error

	// RemoveFromSet removes member from the named string-set attribute.
	// Removing an absent member, or targeting a missing id, is a no-op.
	RemoveFromSet(ctx context.Context, table, id, attr, member string) error

	// DeleteOne removes the document with the given id; no-op when absent.
	DeleteOne(ctx context.Context, table, id string) error

	// DeleteWhere removes every document matching the equality filters and
	// returns how many were removed.
	DeleteWhere(ctx context.Context, table string, eq Eq) (int, error)
}

// Key builds the primary key for a document id.
func Key(id string) Doc {
	return Doc{IDAttr: &types.AttributeValueMemberS{Value: id}}
}

// DocID extracts the id attribute from a document, or "".
func DocID(doc Doc) string {
	if v, ok := doc[IDAttr].(*types.AttributeValueMemberS); ok {
		return v.Value
	}
	return ""
}
