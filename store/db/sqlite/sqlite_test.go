package sqlite

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()
	h, err := sql.Open("sqlite", filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	d := NewDB(h)
	t.Cleanup(func() { _ = d.Close() })
	require.NoError(t, d.EnsureSchema(context.Background()))
	return d
}

func seed(t *testing.T, d *DB, stmts ...string) {
	t.Helper()
	for _, stmt := range stmts {
		_, err := d.db.ExecContext(context.Background(), stmt)
		require.NoError(t, err)
	}
}

func TestVendorListGetSearch(t *testing.T) {
	ctx := context.Background()
	d := openTestDB(t)
	seed(t, d,
		`INSERT INTO vendor (name, address, email, type) VALUES ('Acme Metals', '12 Forge Street, London', 'sales@acme.example', 'supplier')`,
		`INSERT INTO vendor (name, address, email, type) VALUES ('Globex Grain', '7 Mill Road, Leeds', 'ops@globex.example', 'broker')`,
		`INSERT INTO vendor (name, deleted) VALUES ('Ghost Corp', 1)`,
	)

	rows, err := d.ListVendors(ctx, 0, 10)
	require.NoError(t, err)
	require.Len(t, rows, 2, "soft-deleted rows stay hidden")
	assert.Equal(t, "Acme Metals", rows[0].Name)
	assert.NotZero(t, rows[0].CreatedTs)

	v, err := d.GetVendor(ctx, rows[1].ID)
	require.NoError(t, err)
	require.NotNil(t, v)
	assert.Equal(t, "Globex Grain", v.Name)

	hits, err := d.SearchVendors(ctx, "london")
	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.Equal(t, "Acme Metals", hits[0].Name)
}

func TestGetVendorNotFoundIsNilNil(t *testing.T) {
	d := openTestDB(t)

	v, err := d.GetVendor(context.Background(), 999)
	require.NoError(t, err)
	assert.Nil(t, v)
}

func TestGetVendorSkipsSoftDeleted(t *testing.T) {
	ctx := context.Background()
	d := openTestDB(t)
	seed(t, d, `INSERT INTO vendor (id, name, deleted) VALUES (5, 'Gone', 1)`)

	v, err := d.GetVendor(ctx, 5)
	require.NoError(t, err)
	assert.Nil(t, v)
}

func TestListVendorsPagination(t *testing.T) {
	ctx := context.Background()
	d := openTestDB(t)
	for i := 0; i < 5; i++ {
		seed(t, d, `INSERT INTO vendor (name) VALUES ('v')`)
	}

	page, err := d.ListVendors(ctx, 2, 2)
	require.NoError(t, err)
	require.Len(t, page, 2)
	assert.Equal(t, int32(3), page[0].ID)
	assert.Equal(t, int32(4), page[1].ID)
}

func TestUserJoinsRoleName(t *testing.T) {
	ctx := context.Background()
	d := openTestDB(t)
	seed(t, d,
		`INSERT INTO role (name) VALUES ('Administrator')`,
		`INSERT INTO user_account (name, email, username, role_id, blocked) VALUES ('Asha Rao', 'asha@example.com', 'asha', 1, 0)`,
	)

	u, err := d.GetUser(ctx, 1)
	require.NoError(t, err)
	require.NotNil(t, u)
	assert.Equal(t, "Administrator", u.RoleName)
	assert.Equal(t, int32(1), u.RoleID)
	assert.False(t, u.Blocked)

	hits, err := d.SearchUsers(ctx, "asha")
	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.Equal(t, "Asha Rao", hits[0].Name)
}

func TestCommodityAndCurrencyRoundTrip(t *testing.T) {
	ctx := context.Background()
	d := openTestDB(t)
	seed(t, d,
		`INSERT INTO commodity (code, name, short_name, unit, lot_size, is_international) VALUES ('XAU', 'Gold', 'GLD', 'oz', 100.5, 1)`,
		`INSERT INTO currency (name, short_name) VALUES ('Pound Sterling', 'GBP')`,
	)

	c, err := d.GetCommodity(ctx, 1)
	require.NoError(t, err)
	require.NotNil(t, c)
	assert.Equal(t, "Gold", c.Name)
	assert.Equal(t, 100.5, c.LotSize)
	assert.True(t, c.IsInternational)

	cur, err := d.SearchCurrencies(ctx, "gbp")
	require.NoError(t, err)
	require.Len(t, cur, 1)
	assert.Equal(t, "Pound Sterling", cur[0].Name)
}

func TestEnsureSchemaIsIdempotent(t *testing.T) {
	d := openTestDB(t)
	require.NoError(t, d.EnsureSchema(context.Background()))
}
