package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// captureDriver records pagination arguments as they reach the backend.
type captureDriver struct {
	skip, limit int
}

func (d *captureDriver) list(skip, limit int) {
	d.skip, d.limit = skip, limit
}

func (d *captureDriver) ListVendors(_ context.Context, skip, limit int) ([]*Vendor, error) {
	d.list(skip, limit)
	return nil, nil
}
func (d *captureDriver) GetVendor(context.Context, int32) (*Vendor, error)        { return nil, nil }
func (d *captureDriver) SearchVendors(context.Context, string) ([]*Vendor, error) { return nil, nil }
func (d *captureDriver) ListUsers(_ context.Context, skip, limit int) ([]*User, error) {
	d.list(skip, limit)
	return nil, nil
}
func (d *captureDriver) GetUser(context.Context, int32) (*User, error)        { return nil, nil }
func (d *captureDriver) SearchUsers(context.Context, string) ([]*User, error) { return nil, nil }
func (d *captureDriver) ListRoles(_ context.Context, skip, limit int) ([]*Role, error) {
	d.list(skip, limit)
	return nil, nil
}
func (d *captureDriver) GetRole(context.Context, int32) (*Role, error)        { return nil, nil }
func (d *captureDriver) SearchRoles(context.Context, string) ([]*Role, error) { return nil, nil }
func (d *captureDriver) ListCommodities(_ context.Context, skip, limit int) ([]*Commodity, error) {
	d.list(skip, limit)
	return nil, nil
}
func (d *captureDriver) GetCommodity(context.Context, int32) (*Commodity, error) { return nil, nil }
func (d *captureDriver) SearchCommodities(context.Context, string) ([]*Commodity, error) {
	return nil, nil
}
func (d *captureDriver) ListCurrencies(_ context.Context, skip, limit int) ([]*Currency, error) {
	d.list(skip, limit)
	return nil, nil
}
func (d *captureDriver) GetCurrency(context.Context, int32) (*Currency, error) { return nil, nil }
func (d *captureDriver) SearchCurrencies(context.Context, string) ([]*Currency, error) {
	return nil, nil
}
func (d *captureDriver) EnsureSchema(context.Context) error { return nil }
func (d *captureDriver) Close() error                       { return nil }

func TestListAppliesPaginationDefaults(t *testing.T) {
	d := &captureDriver{}
	s := New(d)
	ctx := context.Background()

	_, err := s.ListVendors(ctx, 0, 0)
	require.NoError(t, err)
	assert.Equal(t, DefaultSkip, d.skip)
	assert.Equal(t, DefaultLimit, d.limit)

	_, err = s.ListUsers(ctx, -3, -1)
	require.NoError(t, err)
	assert.Equal(t, DefaultSkip, d.skip)
	assert.Equal(t, DefaultLimit, d.limit)
}

func TestListKeepsExplicitPagination(t *testing.T) {
	d := &captureDriver{}
	s := New(d)

	_, err := s.ListCommodities(context.Background(), 30, 15)
	require.NoError(t, err)
	assert.Equal(t, 30, d.skip)
	assert.Equal(t, 15, d.limit)
}
