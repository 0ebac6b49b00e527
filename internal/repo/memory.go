package repo

import (
	"bytes"
	"cmp"
	"errors"
	"fmt"
	"slices"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"go-gin-mongo-blog/internal/domain"
)

// ErrDocumentValidation mirrors the store's $jsonSchema rejection.
var ErrDocumentValidation = errors.New("document failed validation")

// table 是一个按插入顺序保存文档的内存集合
type table[T any] struct {
	mu     sync.RWMutex
	order  []primitive.ObjectID
	rows   map[primitive.ObjectID]T
	key    func(*T) primitive.ObjectID
	schema func(*T) error
}

func newTable[T any](key func(*T) primitive.ObjectID, schema func(*T) error) *table[T] {
	return &table[T]{rows: map[primitive.ObjectID]T{}, key: key, schema: schema}
}

// insert 依次写入，遇到校验失败立即停止；返回已写入条数
func (t *table[T]) insert(docs ...T) (int, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	for i := range docs {
		if err := t.schema(&docs[i]); err != nil {
			return i, err
		}
		id := t.key(&docs[i])
		t.rows[id] = docs[i]
		t.order = append(t.order, id)
	}
	return len(docs), nil
}

func (t *table[T]) get(id primitive.ObjectID, match func(*T) bool) (T, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	v, ok := t.rows[id]
	if !ok || (match != nil && !match(&v)) {
		var zero T
		return zero, false
	}
	return v, true
}

func (t *table[T]) scan(match func(*T) bool) []T {
	t.mu.RLock()
	defer t.mu.RUnlock()
	out := []T{}
	for _, id := range t.order {
		v := t.rows[id]
		if match == nil || match(&v) {
			out = append(out, v)
		}
	}
	return out
}

// modify 对匹配的文档应用 fn；校验失败时不落库
func (t *table[T]) modify(id primitive.ObjectID, match func(*T) bool, fn func(*T)) (T, bool, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	var zero T
	v, ok := t.rows[id]
	if !ok || (match != nil && !match(&v)) {
		return zero, false, nil
	}
	fn(&v)
	if err := t.schema(&v); err != nil {
		return zero, false, err
	}
	t.rows[id] = v
	return v, true, nil
}

func (t *table[T]) remove(id primitive.ObjectID) (T, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	v, ok := t.rows[id]
	if !ok {
		return v, false
	}
	delete(t.rows, id)
	t.order = slices.DeleteFunc(t.order, func(x primitive.ObjectID) bool { return x == id })
	return v, true
}

// MemoryStore is an in-process document store with the same visibility and
// schema rules as the MongoDB repositories. Used when no Mongo URI is set and
// in tests.
type MemoryStore struct {
	posts      *table[domain.Post]
	comments   *table[domain.Comment]
	tags       *table[namedDoc]
	categories *table[namedDoc]
	now        func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		posts:      newTable(func(p *domain.Post) primitive.ObjectID { return p.ID }, postSchema),
		comments:   newTable(func(c *domain.Comment) primitive.ObjectID { return c.ID }, commentSchema),
		tags:       newTable(func(d *namedDoc) primitive.ObjectID { return d.ID }, namedSchema),
		categories: newTable(func(d *namedDoc) primitive.ObjectID { return d.ID }, namedSchema),
		now:        time.Now,
	}
}

func (s *MemoryStore) Posts() *MemoryPostRepo       { return &MemoryPostRepo{s: s} }
func (s *MemoryStore) Comments() *MemoryCommentRepo { return &MemoryCommentRepo{s: s} }

func (s *MemoryStore) Tags() *MemoryNamedRepo[domain.Tag] {
	return &MemoryNamedRepo[domain.Tag]{t: s.tags, entity: "tag", now: s.clock}
}

func (s *MemoryStore) Categories() *MemoryNamedRepo[domain.Category] {
	return &MemoryNamedRepo[domain.Category]{t: s.categories, entity: "category", now: s.clock}
}

func (s *MemoryStore) clock() time.Time { return s.now() }

func postSchema(p *domain.Post) error {
	switch {
	case p.Title == "":
		return fmt.Errorf("%w: title is required", ErrDocumentValidation)
	case p.Author == "":
		return fmt.Errorf("%w: author is required", ErrDocumentValidation)
	case p.Category.IsZero():
		return fmt.Errorf("%w: category is required", ErrDocumentValidation)
	}
	return nil
}

func commentSchema(c *domain.Comment) error {
	switch {
	case c.Content == "":
		return fmt.Errorf("%w: content is required", ErrDocumentValidation)
	case c.Name == "":
		return fmt.Errorf("%w: name is required", ErrDocumentValidation)
	case c.Email == "":
		return fmt.Errorf("%w: email is required", ErrDocumentValidation)
	case c.PostID.IsZero():
		return fmt.Errorf("%w: postId is required", ErrDocumentValidation)
	}
	return nil
}

func namedSchema(d *namedDoc) error {
	if d.Name == "" {
		return fmt.Errorf("%w: name is required", ErrDocumentValidation)
	}
	return nil
}

// compareCreated orders by createdAt, then by id; the id breaks ties the
// same way the Mongo sort does.
func compareCreated(at, bt time.Time, aid, bid primitive.ObjectID) int {
	if c := at.Compare(bt); c != 0 {
		return c
	}
	return bytes.Compare(aid[:], bid[:])
}

func compareDeleted(a, b *time.Time) int {
	return cmp.Compare(a.UnixNano(), b.UnixNano())
}
