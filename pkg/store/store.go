// Package store defines the remote document store boundary the rest of the
// service is written against: five operations (list, get, create, update,
// delete), identity-cursor pagination and per-document permission grants.
// Backends classify their failures into the sentinel errors below; callers
// never see driver-specific error types.
package store

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	// ErrNotFound signals an absent document. Callers decide whether absence
	// is benign (free slug, no prior settings) or a genuine failure.
	ErrNotFound = errors.New("store: document not found")

	// ErrRateLimited signals the store rejected the call for issuing
	// operations too quickly. It is the only error class worth retrying.
	ErrRateLimited = errors.New("store: rate limited")
)

func IsNotFound(err error) bool    { return errors.Is(err, ErrNotFound) }
func IsRateLimited(err error) bool { return errors.Is(err, ErrRateLimited) }

// Document is a stored record: an opaque identity plus a flat field map.
type Document struct {
	ID          string
	Fields      map[string]any
	Permissions []Permission
}

// String returns the named field as a string, or "" when absent or mistyped.
func (d Document) String(key string) string {
	s, _ := d.Fields[key].(string)
	return s
}

// Int returns the named field as an int, tolerating the numeric widenings
// JSON and BSON decoding produce.
func (d Document) Int(key string) int {
	switch v := d.Fields[key].(type) {
	case int:
		return v
	case int32:
		return int(v)
	case int64:
		return int(v)
	case float64:
		return int(v)
	default:
		return 0
	}
}

// Bool returns the named field as a bool, or false when absent or mistyped.
func (d Document) Bool(key string) bool {
	b, _ := d.Fields[key].(bool)
	return b
}

// Time parses the named field as an RFC 3339 instant. The zero time is
// returned for absent or malformed values.
func (d Document) Time(key string) time.Time {
	t, err := time.Parse(time.RFC3339, d.String(key))
	if err != nil {
		return time.Time{}
	}
	return t
}

// Permission grants one action on a document to a role.
type Permission struct {
	Action string // read | update | delete
	Role   string // "any" or "user:<id>"
}

const (
	ActionRead   = "read"
	ActionUpdate = "update"
	ActionDelete = "delete"

	RoleAny = "any"
)

func RoleUser(userID string) string { return "user:" + userID }

// OwnerOnly grants read/update/delete to the owner alone.
func OwnerOnly(userID string) []Permission {
	role := RoleUser(userID)
	return []Permission{
		{Action: ActionRead, Role: role},
		{Action: ActionUpdate, Role: role},
		{Action: ActionDelete, Role: role},
	}
}

// PublicReadOwnerWrite grants read to anyone and update/delete to the owner.
// Availability slots use this so public booking pages can list them.
func PublicReadOwnerWrite(userID string) []Permission {
	role := RoleUser(userID)
	return []Permission{
		{Action: ActionRead, Role: RoleAny},
		{Action: ActionUpdate, Role: role},
		{Action: ActionDelete, Role: role},
	}
}

// Filter is a single field predicate.
type Filter struct {
	Field string
	Op    string // eq | lt | gt
	Value any
}

func Equal(field string, value any) Filter       { return Filter{Field: field, Op: "eq", Value: value} }
func LessThan(field string, value any) Filter    { return Filter{Field: field, Op: "lt", Value: value} }
func GreaterThan(field string, value any) Filter { return Filter{Field: field, Op: "gt", Value: value} }

// Query selects, orders and pages documents. The pagination convention is
// cursor-after-identity: pass the last-seen document ID to get the next page.
type Query struct {
	Filters     []Filter
	OrderBy     string // field name; "" orders by document ID
	Descending  bool
	Limit       int
	CursorAfter string
}

// Store is the five-operation document store boundary. Create assigns id
// when it is empty.
type Store interface {
	List(ctx context.Context, collection string, q Query) ([]Document, error)
	Get(ctx context.Context, collection, id string) (Document, error)
	Create(ctx context.Context, collection, id string, fields map[string]any, perms []Permission) (Document, error)
	Update(ctx context.Context, collection, id string, fields map[string]any) (Document, error)
	Delete(ctx context.Context, collection, id string) error
}

// NewID returns a fresh unique document ID.
func NewID() string { return uuid.NewString() }
