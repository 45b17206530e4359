package store

import (
	"context"
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

func strAttr(v string) types.AttributeValue {
	return &types.AttributeValueMemberS{Value: v}
}

func doc(id string, attrs map[string]string) Doc {
	d := Doc{IDAttr: strAttr(id)}
	for k, v := range attrs {
		d[k] = strAttr(v)
	}
	return d
}

func members(t *testing.T, d Doc, attr string) []string {
	t.Helper()
	if d[attr] == nil {
		return nil
	}
	set, ok := d[attr].(*types.AttributeValueMemberSS)
	if !ok {
		t.Fatalf("attribute %s is %T, not a string set", attr, d[attr])
	}
	return set.Value
}

func TestMemory_InsertDuplicate(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	if err := m.Insert(ctx, "things", doc("a", nil)); err != nil {
		t.Fatalf("first insert: %v", err)
	}
	err := m.Insert(ctx, "things", doc("a", nil))
	if !errors.Is(err, ErrAlreadyExists) {
		t.Errorf("expected ErrAlreadyExists, got %v", err)
	}
}

func TestMemory_GetMissing(t *testing.T) {
	m := NewMemory()

	_, err := m.Get(context.Background(), "things", "nope")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestMemory_GetReturnsCopy(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()
	if err := m.Insert(ctx, "things", doc("a", map[string]string{"color": "red"})); err != nil {
		t.Fatal(err)
	}

	got, err := m.Get(ctx, "things", "a")
	if err != nil {
		t.Fatal(err)
	}
	got["color"] = strAttr("blue")

	again, err := m.Get(ctx, "things", "a")
	if err != nil {
		t.Fatal(err)
	}
	if v := again["color"].(*types.AttributeValueMemberS).Value; v != "red" {
		t.Errorf("stored doc mutated through returned copy: color = %q", v)
	}
}

func TestMemory_UpdateFieldsMissingIDIsNoOp(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	if err := m.UpdateFields(ctx, "things", "ghost", Doc{"color": strAttr("red")}); err != nil {
		t.Fatalf("expected nil, got %v", err)
	}
	if _, err := m.Get(ctx, "things", "ghost"); !errors.Is(err, ErrNotFound) {
		t.Errorf("update against missing id must not upsert, got %v", err)
	}
}

func TestMemory_UpdateFieldsSkipsID(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()
	if err := m.Insert(ctx, "things", doc("a", nil)); err != nil {
		t.Fatal(err)
	}

	if err := m.UpdateFields(ctx, "things", "a", Doc{IDAttr: strAttr("b"), "color": strAttr("red")}); err != nil {
		t.Fatal(err)
	}
	got, err := m.Get(ctx, "things", "a")
	if err != nil {
		t.Fatal(err)
	}
	if DocID(got) != "a" {
		t.Errorf("id rewritten to %q", DocID(got))
	}
}

func TestMemory_AddToSet(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()
	if err := m.Insert(ctx, "parents", doc("p", nil)); err != nil {
		t.Fatal(err)
	}

	for range 2 {
		// Second add of the same member must be a no-op.
		if err := m.AddToSet(ctx, "parents", "p", "childIds", "c1"); err != nil {
			t.Fatal(err)
		}
	}
	if err := m.AddToSet(ctx, "parents", "p", "childIds", "c2"); err != nil {
		t.Fatal(err)
	}

	got, err := m.Get(ctx, "parents", "p")
	if err != nil {
		t.Fatal(err)
	}
	if ms := members(t, got, "childIds"); len(ms) != 2 {
		t.Errorf("expected 2 members, got %v", ms)
	}
}

func TestMemory_AddToSetMissingID(t *testing.T) {
	m := NewMemory()

	if err := m.AddToSet(context.Background(), "parents", "ghost", "childIds", "c1"); err != nil {
		t.Errorf("expected no-op, got %v", err)
	}
}

func TestMemory_RemoveFromSetLastMemberDropsAttr(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()
	if err := m.Insert(ctx, "parents", doc("p", nil)); err != nil {
		t.Fatal(err)
	}
	if err := m.AddToSet(ctx, "parents", "p", "childIds", "c1"); err != nil {
		t.Fatal(err)
	}

	if err := m.RemoveFromSet(ctx, "parents", "p", "childIds", "c1"); err != nil {
		t.Fatal(err)
	}
	got, err := m.Get(ctx, "parents", "p")
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := got["childIds"]; ok {
		t.Error("empty set attribute should be removed")
	}

	// Removing again, or removing an absent member, stays a no-op.
	if err := m.RemoveFromSet(ctx, "parents", "p", "childIds", "c1"); err != nil {
		t.Errorf("expected no-op, got %v", err)
	}
}

func TestMemory_ExistsWhere(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()
	if err := m.Insert(ctx, "items", doc("i1", map[string]string{"model": "X900H", "brand": "Sony"})); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name      string
		eq        Eq
		excludeID string
		want      bool
	}{
		{"match", Eq{"model": "X900H", "brand": "Sony"}, "", true},
		{"partial mismatch", Eq{"model": "X900H", "brand": "Samsung"}, "", false},
		{"exclude self", Eq{"model": "X900H", "brand": "Sony"}, "i1", false},
		{"exclude other", Eq{"model": "X900H", "brand": "Sony"}, "i2", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := m.ExistsWhere(ctx, "items", tt.eq, tt.excludeID)
			if err != nil {
				t.Fatal(err)
			}
			if got != tt.want {
				t.Errorf("ExistsWhere(%v, %q) = %v, want %v", tt.eq, tt.excludeID, got, tt.want)
			}
		})
	}
}

func TestMemory_DeleteWhere(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()
	for _, d := range []Doc{
		doc("s1", map[string]string{"itemId": "i1"}),
		doc("s2", map[string]string{"itemId": "i1"}),
		doc("s3", map[string]string{"itemId": "i2"}),
	} {
		if err := m.Insert(ctx, "sales", d); err != nil {
			t.Fatal(err)
		}
	}

	n, err := m.DeleteWhere(ctx, "sales", Eq{"itemId": "i1"})
	if err != nil {
		t.Fatal(err)
	}
	if n != 2 {
		t.Errorf("deleted %d, want 2", n)
	}
	left, err := m.Scan(ctx, "sales")
	if err != nil {
		t.Fatal(err)
	}
	if len(left) != 1 || DocID(left[0]) != "s3" {
		t.Errorf("unexpected survivors: %v", left)
	}
}

func TestMemory_FailWith(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()
	if err := m.Insert(ctx, "things", doc("a", nil)); err != nil {
		t.Fatal(err)
	}

	m.FailWith(ErrUnavailable)
	if _, err := m.Get(ctx, "things", "a"); !errors.Is(err, ErrUnavailable) {
		t.Errorf("expected forced error, got %v", err)
	}
	if err := m.Insert(ctx, "things", doc("b", nil)); !errors.Is(err, ErrUnavailable) {
		t.Errorf("expected forced error, got %v", err)
	}

	m.FailWith(nil)
	if _, err := m.Get(ctx, "things", "a"); err != nil {
		t.Errorf("expected recovery, got %v", err)
	}
}
