package store

import (
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

func TestFilterExpr_Empty(t *testing.T) {
	expr, names, values := filterExpr(nil, "")
	if expr != "" || names != nil || values != nil {
		t.Errorf("expected empty expression, got %q %v %v", expr, names, values)
	}
}

func TestFilterExpr_SingleEquality(t *testing.T) {
	expr, names, values := filterExpr(Eq{"email": "a@b.com"}, "")

	if expr != "#a0 = :e0" {
		t.Errorf("expr = %q", expr)
	}
	if names["#a0"] != "email" {
		t.Errorf("names = %v", names)
	}
	if v := values[":e0"].(*types.AttributeValueMemberS).Value; v != "a@b.com" {
		t.Errorf("values = %v", values)
	}
}

func TestFilterExpr_DeterministicKeyOrder(t *testing.T) {
	expr, names, _ := filterExpr(Eq{"model": "X900H", "brand": "Sony"}, "")

	// Keys sort alphabetically, so brand binds first.
	if expr != "#a0 = :e0 AND #a1 = :e1" {
		t.Errorf("expr = %q", expr)
	}
	if names["#a0"] != "brand" || names["#a1"] != "model" {
		t.Errorf("names = %v", names)
	}
}

func TestFilterExpr_ExcludeID(t *testing.T) {
	expr, names, values := filterExpr(Eq{"email": "a@b.com"}, "id-1")

	if expr != "#a0 = :e0 AND #id <> :exclude" {
		t.Errorf("expr = %q", expr)
	}
	if names["#id"] != IDAttr {
		t.Errorf("names = %v", names)
	}
	if v := values[":exclude"].(*types.AttributeValueMemberS).Value; v != "id-1" {
		t.Errorf("values = %v", values)
	}
}

func TestFilterExpr_ExcludeOnly(t *testing.T) {
	expr, _, _ := filterExpr(nil, "id-1")
	if expr != "#id <> :exclude" {
		t.Errorf("expr = %q", expr)
	}
}

func TestWrap(t *testing.T) {
	if wrap("scan", "items", nil) != nil {
		t.Error("nil error must stay nil")
	}

	err := wrap("scan", "items", errors.New("connection refused"))
	if !errors.Is(err, ErrUnavailable) {
		t.Errorf("expected ErrUnavailable, got %v", err)
	}
}
