package store

import (
	"context"
	"sync"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// Memory is an in-memory Store with the same observable semantics as Dynamo.
// It backs the engine's tests and the CLI's --memory mode.
type Memory struct {
	mu     sync.Mutex
	tables map[string]map[string]Doc
	forced error
}

// NewMemory creates an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{tables: make(map[string]map[string]Doc)}
}

var _ Store = (*Memory)(nil)

// FailWith makes every subsequent operation return err until called again
// with nil. Used to exercise partial-failure and propagation paths.
func (m *Memory) FailWith(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.forced = err
}

func (m *Memory) table(name string) map[string]Doc {
	t, ok := m.tables[name]
	if !ok {
		t = make(map[string]Doc)
		m.tables[name] = t
	}
	return t
}

func (m *Memory) Insert(ctx context.Context, table string, doc Doc) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.forced != nil {
		return m.forced
	}
	id := DocID(doc)
	if id == "" {
		return ErrNotFound
	}
	t := m.table(table)
	if _, ok := t[id]; ok {
		return ErrAlreadyExists
	}
	t[id] = cloneDoc(doc)
	return nil
}

func (m *Memory) Get(ctx context.Context, table, id string) (Doc, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.forced != nil {
		return nil, m.forced
	}
	doc, ok := m.table(table)[id]
	if !ok {
		return nil, ErrNotFound
	}
	return cloneDoc(doc), nil
}

func (m *Memory) Scan(ctx context.Context, table string) ([]Doc, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.forced != nil {
		return nil, m.forced
	}
	var docs []Doc
	for _, doc := range m.table(table) {
		docs = append(docs, cloneDoc(doc))
	}
	return docs, nil
}

func (m *Memory) FindWhere(ctx context.Context, table string, eq Eq) ([]Doc, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.forced != nil {
		return nil, m.forced
	}
	var docs []Doc
	for _, doc := range m.table(table) {
		if matches(doc, eq, "") {
			docs = append(docs, cloneDoc(doc))
		}
	}
	return docs, nil
}

func (m *Memory) ExistsWhere(ctx context.Context, table string, eq Eq, excludeID string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.forced != nil {
		return false, m.forced
	}
	for _, doc := range m.table(table) {
		if matches(doc, eq, excludeID) {
			return true, nil
		}
	}
	return false, nil
}

func (m *Memory) UpdateFields(ctx context.Context, table, id string, fields Doc) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.forced != nil {
		return m.forced
	}
	doc, ok := m.table(table)[id]
	if !ok {
		return nil // missing id: no-op, never an upsert
	}
	for k, v := range fields {
		if k == IDAttr {
			continue
		}
		doc[k] = cloneAttr(v)
	}
	return nil
}

func (m *Memory) AddToSet(ctx context.Context, table, id, attr, member string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.forced != nil {
		return m.forced
	}
	doc, ok := m.table(table)[id]
	if !ok {
		return nil
	}
	set, _ := doc[attr].(*types.AttributeValueMemberSS)
	if set == nil {
		doc[attr] = &types.AttributeValueMemberSS{Value: []string{member}}
		return nil
	}
	for _, v := range set.Value {
		if v == member {
			return nil
		}
	}
	doc[attr] = &types.AttributeValueMemberSS{Value: append(append([]string{}, set.Value...), member)}
	return nil
}

func (m *Memory) RemoveFromSet(ctx context.Context, table, id, attr, member string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.forced != nil {
		return m.forced
	}
	doc, ok := m.table(table)[id]
	if !ok {
		return nil
	}
	set, _ := doc[attr].(*types.AttributeValueMemberSS)
	if set == nil {
		return nil
	}
	var kept []string
	for _, v := range set.Value {
		if v != member {
			kept = append(kept, v)
		}
	}
	if len(kept) == 0 {
		// DynamoDB removes the attribute when the last member leaves.
		delete(doc, attr)
		return nil
	}
	doc[attr] = &types.AttributeValueMemberSS{Value: kept}
	return nil
}

func (m *Memory) DeleteOne(ctx context.Context, table, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.forced != nil {
		return m.forced
	}
	delete(m.table(table), id)
	return nil
}

func (m *Memory) DeleteWhere(ctx context.Context, table string, eq Eq) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.forced != nil {
		return 0, m.forced
	}
	t := m.table(table)
	deleted := 0
	for id, doc := range t {
		if matches(doc, eq, "") {
			delete(t, id)
			deleted++
		}
	}
	return deleted, nil
}

func matches(doc Doc, eq Eq, excludeID string) bool {
	if excludeID != "" && DocID(doc) == excludeID {
		return false
	}
	for attr, want := range eq {
		s, ok := doc[attr].(*types.AttributeValueMemberS)
		if !ok || s.Value != want {
			return false
		}
	}
	return true
}

func cloneDoc(doc Doc) Doc {
	out := make(Doc, len(doc))
	for k, v := range doc {
		out[k] = cloneAttr(v)
	}
	return out
}

func cloneAttr(v types.AttributeValue) types.AttributeValue {
	switch av := v.(type) {
	case *types.AttributeValueMemberS:
		return &types.AttributeValueMemberS{Value: av.Value}
	case *types.AttributeValueMemberN:
		return &types.AttributeValueMemberN{Value: av.Value}
	case *types.AttributeValueMemberBOOL:
		return &types.AttributeValueMemberBOOL{Value: av.Value}
	case *types.AttributeValueMemberSS:
		return &types.AttributeValueMemberSS{Value: append([]string{}, av.Value...)}
	case *types.AttributeValueMemberNS:
		return &types.AttributeValueMemberNS{Value: append([]string{}, av.Value...)}
	case *types.AttributeValueMemberNULL:
		return &types.AttributeValueMemberNULL{Value: av.Value}
	default:
		return v
	}
}
