package sqlite

import (
	"context"
	"database/sql"

	"github.com/shahidain/mcp-server/store"
)

const notDeleted = "(deleted IS NULL OR deleted = 0)"

func like(query string) string {
	return "%" + query + "%"
}

const vendorColumns = "id, name, address, contact_no, type, email, acc_no, bank_code, is_international, created_ts"

func scanVendor(row interface{ Scan(...any) error }) (*store.Vendor, error) {
	v := &store.Vendor{}
	err := row.Scan(&v.ID, &v.Name, &v.Address, &v.ContactNo, &v.Type, &v.Email, &v.AccNo, &v.BankCode, &v.IsInternational, &v.CreatedTs)
	if err != nil {
		return nil, err
	}
	return v, nil
}

func (d *DB) ListVendors(ctx context.Context, skip, limit int) ([]*store.Vendor, error) {
	rows, err := d.db.QueryContext(ctx,
		`SELECT `+vendorColumns+` FROM vendor WHERE `+notDeleted+` ORDER BY id LIMIT ? OFFSET ?`, limit, skip)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var list []*store.Vendor
	for rows.Next() {
		v, err := scanVendor(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, v)
	}
	return list, rows.Err()
}

func (d *DB) GetVendor(ctx context.Context, id int32) (*store.Vendor, error) {
	v, err := scanVendor(d.db.QueryRowContext(ctx,
		`SELECT `+vendorColumns+` FROM vendor WHERE id = ? AND `+notDeleted, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return v, err
}

func (d *DB) SearchVendors(ctx context.Context, query string) ([]*store.Vendor, error) {
	q := like(query)
	rows, err := d.db.QueryContext(ctx,
		`SELECT `+vendorColumns+` FROM vendor
		 WHERE `+notDeleted+`
		 AND (name LIKE ? OR address LIKE ? OR contact_no LIKE ? OR email LIKE ? OR type LIKE ? OR bank_code LIKE ?)`,
		q, q, q, q, q, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var list []*store.Vendor
	for rows.Next() {
		v, err := scanVendor(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, v)
	}
	return list, rows.Err()
}

const userColumns = "u.id, u.name, u.email, u.username, u.role_id, r.name, u.blocked, u.created_ts"

func scanUser(row interface{ Scan(...any) error }) (*store.User, error) {
	u := &store.User{}
	err := row.Scan(&u.ID, &u.Name, &u.Email, &u.Username, &u.RoleID, &u.RoleName, &u.Blocked, &u.CreatedTs)
	if err != nil {
		return nil, err
	}
	return u, nil
}

func (d *DB) ListUsers(ctx context.Context, skip, limit int) ([]*store.User, error) {
	rows, err := d.db.QueryContext(ctx,
		`SELECT `+userColumns+` FROM user_account u
		 INNER JOIN role r ON r.id = u.role_id
		 WHERE (u.deleted IS NULL OR u.deleted = 0) ORDER BY u.id LIMIT ? OFFSET ?`, limit, skip)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var list []*store.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, u)
	}
	return list, rows.Err()
}

func (d *DB) GetUser(ctx context.Context, id int32) (*store.User, error) {
	u, err := scanUser(d.db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM user_account u
		 INNER JOIN role r ON r.id = u.role_id
		 WHERE u.id = ? AND (u.deleted IS NULL OR u.deleted = 0)`, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return u, err
}

func (d *DB) SearchUsers(ctx context.Context, query string) ([]*store.User, error) {
	q := like(query)
	rows, err := d.db.QueryContext(ctx,
		`SELECT `+userColumns+` FROM user_account u
		 INNER JOIN role r ON r.id = u.role_id
		 WHERE (u.deleted IS NULL OR u.deleted = 0)
		 AND (u.name LIKE ? OR u.email LIKE ? OR u.username LIKE ?)`, q, q, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var list []*store.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, u)
	}
	return list, rows.Err()
}

const roleColumns = "id, name, created_ts"

func scanRole(row interface{ Scan(...any) error }) (*store.Role, error) {
	r := &store.Role{}
	if err := row.Scan(&r.ID, &r.Name, &r.CreatedTs); err != nil {
		return nil, err
	}
	return r, nil
}

func (d *DB) ListRoles(ctx context.Context, skip, limit int) ([]*store.Role, error) {
	rows, err := d.db.QueryContext(ctx,
		`SELECT `+roleColumns+` FROM role WHERE `+notDeleted+` ORDER BY id LIMIT ? OFFSET ?`, limit, skip)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var list []*store.Role
	for rows.Next() {
		r, err := scanRole(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, r)
	}
	return list, rows.Err()
}

func (d *DB) GetRole(ctx context.Context, id int32) (*store.Role, error) {
	r, err := scanRole(d.db.QueryRowContext(ctx,
		`SELECT `+roleColumns+` FROM role WHERE id = ? AND `+notDeleted, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return r, err
}

func (d *DB) SearchRoles(ctx context.Context, query string) ([]*store.Role, error) {
	rows, err := d.db.QueryContext(ctx,
		`SELECT `+roleColumns+` FROM role WHERE `+notDeleted+` AND name LIKE ?`, like(query))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var list []*store.Role
	for rows.Next() {
		r, err := scanRole(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, r)
	}
	return list, rows.Err()
}

const commodityColumns = "id, code, name, short_name, unit, lot_size, bank_code, is_international, created_ts"

func scanCommodity(row interface{ Scan(...any) error }) (*store.Commodity, error) {
	c := &store.Commodity{}
	err := row.Scan(&c.ID, &c.Code, &c.Name, &c.ShortName, &c.Unit, &c.LotSize, &c.BankCode, &c.IsInternational, &c.CreatedTs)
	if err != nil {
		return nil, err
	}
	return c, nil
}

func (d *DB) ListCommodities(ctx context.Context, skip, limit int) ([]*store.Commodity, error) {
	rows, err := d.db.QueryContext(ctx,
		`SELECT `+commodityColumns+` FROM commodity WHERE `+notDeleted+` ORDER BY id LIMIT ? OFFSET ?`, limit, skip)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var list []*store.Commodity
	for rows.Next() {
		c, err := scanCommodity(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, c)
	}
	return list, rows.Err()
}

func (d *DB) GetCommodity(ctx context.Context, id int32) (*store.Commodity, error) {
	c, err := scanCommodity(d.db.QueryRowContext(ctx,
		`SELECT `+commodityColumns+` FROM commodity WHERE id = ? AND `+notDeleted, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return c, err
}

func (d *DB) SearchCommodities(ctx context.Context, query string) ([]*store.Commodity, error) {
	q := like(query)
	rows, err := d.db.QueryContext(ctx,
		`SELECT `+commodityColumns+` FROM commodity
		 WHERE `+notDeleted+`
		 AND (name LIKE ? OR code LIKE ? OR short_name LIKE ? OR bank_code LIKE ?)`, q, q, q, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var list []*store.Commodity
	for rows.Next() {
		c, err := scanCommodity(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, c)
	}
	return list, rows.Err()
}

const currencyColumns = "id, name, short_name, created_ts"

func scanCurrency(row interface{ Scan(...any) error }) (*store.Currency, error) {
	c := &store.Currency{}
	if err := row.Scan(&c.ID, &c.Name, &c.ShortName, &c.CreatedTs); err != nil {
		return nil, err
	}
	return c, nil
}

func (d *DB) ListCurrencies(ctx context.Context, skip, limit int) ([]*store.Currency, error) {
	rows, err := d.db.QueryContext(ctx,
		`SELECT `+currencyColumns+` FROM currency WHERE `+notDeleted+` ORDER BY id LIMIT ? OFFSET ?`, limit, skip)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var list []*store.Currency
	for rows.Next() {
		c, err := scanCurrency(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, c)
	}
	return list, rows.Err()
}

func (d *DB) GetCurrency(ctx context.Context, id int32) (*store.Currency, error) {
	c, err := scanCurrency(d.db.QueryRowContext(ctx,
		`SELECT `+currencyColumns+` FROM currency WHERE id = ? AND `+notDeleted, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return c, err
}

func (d *DB) SearchCurrencies(ctx context.Context, query string) ([]*store.Currency, error) {
	q := like(query)
	rows, err := d.db.QueryContext(ctx,
		`SELECT `+currencyColumns+` FROM currency
		 WHERE `+notDeleted+` AND (name LIKE ? OR short_name LIKE ?)`, q, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var list []*store.Currency
	for rows.Next() {
		c, err := scanCurrency(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, c)
	}
	return list, rows.Err()
}
