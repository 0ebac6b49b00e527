package repo

import (
	"context"
	"slices"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"go-gin-mongo-blog/internal/domain"
)

type MemoryNamedRepo[T domain.Named] struct {
	t      *table[namedDoc]
	entity string
	now    func() time.Time
}

func (r *MemoryNamedRepo[T]) Create(_ context.Context, name string) (*T, error) {
	now := stamp(r.now)
	d := namedDoc{ID: primitive.NewObjectID(), Name: name, CreatedAt: now, UpdatedAt: now}
	if _, err := r.t.insert(d); err != nil {
		return nil, fault("creating "+r.entity, err)
	}
	v := T(d)
	return &v, nil
}

func (r *MemoryNamedRepo[T]) FindAll(_ context.Context) ([]T, error) {
	docs := r.t.scan(nil)
	slices.SortStableFunc(docs, func(a, b namedDoc) int {
		return compareCreated(a.CreatedAt, b.CreatedAt, a.ID, b.ID)
	})
	out := make([]T, 0, len(docs))
	for _, d := range docs {
		out = append(out, T(d))
	}
	return out, nil
}

func (r *MemoryNamedRepo[T]) FindByID(_ context.Context, id primitive.ObjectID) (*T, error) {
	d, ok := r.t.get(id, nil)
	if !ok {
		return nil, nil
	}
	v := T(d)
	return &v, nil
}

func (r *MemoryNamedRepo[T]) UpdateByID(_ context.Context, id primitive.ObjectID, name *string) (*T, error) {
	now := stamp(r.now)
	d, ok, err := r.t.modify(id, nil, func(d *namedDoc) {
		if name != nil {
			d.Name = *name
		}
		d.UpdatedAt = now
	})
	if err != nil {
		return nil, fault("updating "+r.entity, err)
	}
	if !ok {
		return nil, nil
	}
	v := T(d)
	return &v, nil
}

func (r *MemoryNamedRepo[T]) Delete(_ context.Context, id primitive.ObjectID) (*T, error) {
	d, ok := r.t.remove(id)
	if !ok {
		return nil, nil
	}
	v := T(d)
	return &v, nil
}
