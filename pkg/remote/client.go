// Package remote is a thin pass-through to the hosted table store.
package remote

import (
	"context"
	"errors"
	"fmt"
)

// ErrDisabled is returned by every call of a client built without a remote URL.
var ErrDisabled = errors.New("remote store not configured")

// Filter selects rows by equality on one column.
type Filter struct {
	Column string
	Value  string
}

func Eq(column, value string) Filter { return Filter{Column: column, Value: value} }
func ByID(id string) Filter          { return Eq("id", id) }

type Client interface {
	// FetchAll decodes every row of table into out (a pointer to a slice).
	FetchAll(ctx context.Context, table string, out any) error
	Insert(ctx context.Context, table string, record any) error
	Update(ctx context.Context, table string, f Filter, record any) error
	Delete(ctx context.Context, table string, f Filter) error
}

// APIError is a non-2xx answer from the table API.
type APIError struct {
	Table  string
	Op     string
	Status int
	Body   string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("remote %s %s: status %d: %s", e.Op, e.Table, e.Status, e.Body)
}

type disabled struct{}

func NewDisabled() Client { return disabled{} }

func (disabled) FetchAll(context.Context, string, any) error       { return ErrDisabled }
func (disabled) Insert(context.Context, string, any) error         { return ErrDisabled }
func (disabled) Update(context.Context, string, Filter, any) error { return ErrDisabled }
func (disabled) Delete(context.Context, string, Filter) error      { return ErrDisabled }
