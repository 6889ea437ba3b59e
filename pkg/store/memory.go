package store

import (
	"context"
	"fmt"
	"sort"
	"sync"
)

// Op names a store operation for fault injection in tests.
type Op string

const (
	OpList   Op = "list"
	OpGet    Op = "get"
	OpCreate Op = "create"
	OpUpdate Op = "update"
	OpDelete Op = "delete"
)

// Memory is an in-process Store used by tests and local development. The
// Fault hook, when set, is consulted before every operation; returning a
// non-nil error makes the operation fail with it, which is how tests simulate
// rate limiting and store outages.
type Memory struct {
	mu    sync.Mutex
	data  map[string]map[string]Document
	Fault func(op Op, collection, id string) error
}

func NewMemory() *Memory {
	return &Memory{data: map[string]map[string]Document{}}
}

func (m *Memory) fail(op Op, collection, id string) error {
	if m.Fault != nil {
		return m.Fault(op, collection, id)
	}
	return nil
}

func (m *Memory) collection(name string) map[string]Document {
	c, ok := m.data[name]
	if !ok {
		c = map[string]Document{}
		m.data[name] = c
	}
	return c
}

func (m *Memory) List(ctx context.Context, collection string, q Query) ([]Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := m.fail(OpList, collection, ""); err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	var docs []Document
	for _, doc := range m.collection(collection) {
		if matches(doc, q.Filters) {
			docs = append(docs, copyDoc(doc))
		}
	}

	sort.Slice(docs, func(i, j int) bool {
		less := docs[i].ID < docs[j].ID
		if q.OrderBy != "" {
			if a, b := fieldKey(docs[i], q.OrderBy), fieldKey(docs[j], q.OrderBy); a != b {
				less = a < b
			}
		}
		if q.Descending {
			return !less
		}
		return less
	})

	if q.CursorAfter != "" {
		cut := 0
		for i, doc := range docs {
			if doc.ID == q.CursorAfter {
				cut = i + 1
				break
			}
		}
		docs = docs[cut:]
	}
	if q.Limit > 0 && len(docs) > q.Limit {
		docs = docs[:q.Limit]
	}
	return docs, nil
}

func (m *Memory) Get(ctx context.Context, collection, id string) (Document, error) {
	if err := ctx.Err(); err != nil {
		return Document{}, err
	}
	if err := m.fail(OpGet, collection, id); err != nil {
		return Document{}, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	doc, ok := m.collection(collection)[id]
	if !ok {
		return Document{}, ErrNotFound
	}
	return copyDoc(doc), nil
}

func (m *Memory) Create(ctx context.Context, collection, id string, fields map[string]any, perms []Permission) (Document, error) {
	if err := ctx.Err(); err != nil {
		return Document{}, err
	}
	if err := m.fail(OpCreate, collection, id); err != nil {
		return Document{}, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if id == "" {
		id = NewID()
	}
	c := m.collection(collection)
	if _, exists := c[id]; exists {
		return Document{}, fmt.Errorf("store: document %s already exists in %s", id, collection)
	}
	doc := Document{ID: id, Fields: copyFields(fields), Permissions: append([]Permission(nil), perms...)}
	c[id] = doc
	return copyDoc(doc), nil
}

func (m *Memory) Update(ctx context.Context, collection, id string, fields map[string]any) (Document, error) {
	if err := ctx.Err(); err != nil {
		return Document{}, err
	}
	if err := m.fail(OpUpdate, collection, id); err != nil {
		return Document{}, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	c := m.collection(collection)
	doc, ok := c[id]
	if !ok {
		return Document{}, ErrNotFound
	}
	for k, v := range fields {
		doc.Fields[k] = v
	}
	c[id] = doc
	return copyDoc(doc), nil
}

func (m *Memory) Delete(ctx context.Context, collection, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := m.fail(OpDelete, collection, id); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	c := m.collection(collection)
	if _, ok := c[id]; !ok {
		return ErrNotFound
	}
	delete(c, id)
	return nil
}

// Count reports how many documents a collection holds. Test helper.
func (m *Memory) Count(collection string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.collection(collection))
}

func matches(doc Document, filters []Filter) bool {
	for _, f := range filters {
		got := fieldKey(doc, f.Field)
		want := fmt.Sprint(f.Value)
		switch f.Op {
		case "eq":
			if got != want {
				return false
			}
		case "lt":
			if !(got < want) {
				return false
			}
		case "gt":
			if !(got > want) {
				return false
			}
		default:
			return false
		}
	}
	return true
}

// fieldKey renders a field for comparison. RFC 3339 instants and plain
// strings compare correctly as text, which covers every query the service
// issues.
func fieldKey(doc Document, field string) string {
	if field == "" || field == "$id" {
		return doc.ID
	}
	v, ok := doc.Fields[field]
	if !ok {
		return ""
	}
	return fmt.Sprint(v)
}

func copyDoc(doc Document) Document {
	return Document{
		ID:          doc.ID,
		Fields:      copyFields(doc.Fields),
		Permissions: append([]Permission(nil), doc.Permissions...),
	}
}

func copyFields(fields map[string]any) map[string]any {
	out := make(map[string]any, len(fields))
	for k, v := range fields {
		out[k] = v
	}
	return out
}
