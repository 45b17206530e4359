package retail

import (
	"context"

	"storefront/store"
)

// Parent locates one back-reference set: a table, a document id in it, and
// the string-set attribute holding child ids.
type Parent struct {
	Table string
	ID    string
	Attr  string
}

// Refs keeps back-reference sets synchronized with the foreign keys stored on
// child records. Each push or pull is one idempotent write against the owning
// parent; no call here updates two parents atomically.
type Refs struct {
	store store.Store
}

// NewRefs creates a reference maintainer over the given store.
func NewRefs(s store.Store) *Refs {
	return &Refs{store: s}
}

// ChildCreated adds childID to each parent's back-reference set. Adding an id
// already present leaves the set unchanged.
func (r *Refs) ChildCreated(ctx context.Context, childID string, parents ...Parent) error {
	for _, p := range parents {
		if err := r.store.AddToSet(ctx, p.Table, p.ID, p.Attr, childID); err != nil {
			return err
		}
	}
	return nil
}

// ChildMoved migrates childID between back-reference sets after a foreign key
// change. When from and to name the same parent the foreign key did not
// actually change and no write is issued. The pull runs before the push so an
// interruption leaves at most a missing membership, which a retry or the
// repair pass restores.
func (r *Refs) ChildMoved(ctx context.Context, childID string, from, to Parent) error {
	if from.ID == to.ID {
		return nil
	}
	if err := r.store.RemoveFromSet(ctx, from.Table, from.ID, from.Attr, childID); err != nil {
		return err
	}
	return r.store.AddToSet(ctx, to.Table, to.ID, to.Attr, childID)
}

// ChildRemoved pulls childID out of each parent's back-reference set.
func (r *Refs) ChildRemoved(ctx context.Context, childID string, parents ...Parent) error {
	for _, p := range parents {
		if err := r.store.RemoveFromSet(ctx, p.Table, p.ID, p.Attr, childID); err != nil {
			return err
		}
	}
	return nil
}
