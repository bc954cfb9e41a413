// Package store exposes the SQL-backed business entities through a narrow
// facade over interchangeable database drivers.
package store

import (
	"context"
)

// Pagination defaults applied when the caller supplies none.
const (
	DefaultSkip  = 0
	DefaultLimit = 10
)

// Driver is the full surface a database backend must implement. Get
// operations return (nil, nil) when no row matches, so callers can tell
// "not found" apart from an actual failure.
type Driver interface {
	ListVendors(ctx context.Context, skip, limit int) ([]*Vendor, error)
	GetVendor(ctx context.Context, id int32) (*Vendor, error)
	SearchVendors(ctx context.Context, query string) ([]*Vendor, error)

	ListUsers(ctx context.Context, skip, limit int) ([]*User, error)
	GetUser(ctx context.Context, id int32) (*User, error)
	SearchUsers(ctx context.Context, query string) ([]*User, error)

	ListRoles(ctx context.Context, skip, limit int) ([]*Role, error)
	GetRole(ctx context.Context, id int32) (*Role, error)
	SearchRoles(ctx context.Context, query string) ([]*Role, error)

	ListCommodities(ctx context.Context, skip, limit int) ([]*Commodity, error)
	GetCommodity(ctx context.Context, id int32) (*Commodity, error)
	SearchCommodities(ctx context.Context, query string) ([]*Commodity, error)

	ListCurrencies(ctx context.Context, skip, limit int) ([]*Currency, error)
	GetCurrency(ctx context.Context, id int32) (*Currency, error)
	SearchCurrencies(ctx context.Context, query string) ([]*Currency, error)

	EnsureSchema(ctx context.Context) error
	Close() error
}

// Store is the facade handed to the dispatcher and the MCP tools.
type Store struct {
	driver Driver
}

func New(driver Driver) *Store {
	return &Store{driver: driver}
}

func normalize(skip, limit int) (int, int) {
	if skip < 0 {
		skip = DefaultSkip
	}
	if limit <= 0 {
		limit = DefaultLimit
	}
	return skip, limit
}

func (s *Store) ListVendors(ctx context.Context, skip, limit int) ([]*Vendor, error) {
	skip, limit = normalize(skip, limit)
	return s.driver.ListVendors(ctx, skip, limit)
}

func (s *Store) GetVendor(ctx context.Context, id int32) (*Vendor, error) {
	return s.driver.GetVendor(ctx, id)
}

func (s *Store) SearchVendors(ctx context.Context, query string) ([]*Vendor, error) {
	return s.driver.SearchVendors(ctx, query)
}

func (s *Store) ListUsers(ctx context.Context, skip, limit int) ([]*User, error) {
	skip, limit = normalize(skip, limit)
	return s.driver.ListUsers(ctx, skip, limit)
}

func (s *Store) GetUser(ctx context.Context, id int32) (*User, error) {
	return s.driver.GetUser(ctx, id)
}

func (s *Store) SearchUsers(ctx context.Context, query string) ([]*User, error) {
	return s.driver.SearchUsers(ctx, query)
}

func (s *Store) ListRoles(ctx context.Context, skip, limit int) ([]*Role, error) {
	skip, limit = normalize(skip, limit)
	return s.driver.ListRoles(ctx, skip, limit)
}

func (s *Store) GetRole(ctx context.Context, id int32) (*Role, error) {
	return s.driver.GetRole(ctx, id)
}

func (s *Store) SearchRoles(ctx context.Context, query string) ([]*Role, error) {
	return s.driver.SearchRoles(ctx, query)
}

func (s *Store) ListCommodities(ctx context.Context, skip, limit int) ([]*Commodity, error) {
	skip, limit = normalize(skip, limit)
	return s.driver.ListCommodities(ctx, skip, limit)
}

func (s *Store) GetCommodity(ctx context.Context, id int32) (*Commodity, error) {
	return s.driver.GetCommodity(ctx, id)
}

func (s *Store) SearchCommodities(ctx context.Context, query string) ([]*Commodity, error) {
	return s.driver.SearchCommodities(ctx, query)
}

func (s *Store) ListCurrencies(ctx context.Context, skip, limit int) ([]*Currency, error) {
	skip, limit = normalize(skip, limit)
	return s.driver.ListCurrencies(ctx, skip, limit)
}

func (s *Store) GetCurrency(ctx context.Context, id int32) (*Currency, error) {
	return s.driver.GetCurrency(ctx, id)
}

func (s *Store) SearchCurrencies(ctx context.Context, query string) ([]*Currency, error) {
	return s.driver.SearchCurrencies(ctx, query)
}

// EnsureSchema creates the entity tables when they do not exist yet.
func (s *Store) EnsureSchema(ctx context.Context) error {
	return s.driver.EnsureSchema(ctx)
}

// Close releases the underlying database handle.
func (s *Store) Close() error {
	return s.driver.Close()
}
