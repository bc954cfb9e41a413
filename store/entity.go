package store

// Vendor is a supplier record.
type Vendor struct {
	ID              int32  `json:"id"`
	Name            string `json:"name"`
	Address         string `json:"address"`
	ContactNo       string `json:"contactNo"`
	Type            string `json:"type"`
	Email           string `json:"email"`
	AccNo           string `json:"accNo"`
	BankCode        string `json:"bankCode"`
	IsInternational bool   `json:"isInternational"`
	CreatedTs       int64  `json:"createdTs"`
}

// User is an application account, joined with its role name.
type User struct {
	ID        int32  `json:"id"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	Username  string `json:"username"`
	RoleID    int32  `json:"roleId"`
	RoleName  string `json:"roleName"`
	Blocked   bool   `json:"blocked"`
	CreatedTs int64  `json:"createdTs"`
}

// Role is a named permission group.
type Role struct {
	ID        int32  `json:"id"`
	Name      string `json:"name"`
	CreatedTs int64  `json:"createdTs"`
}

// Commodity is a tradeable good.
type Commodity struct {
	ID              int32   `json:"id"`
	Code            string  `json:"code"`
	Name            string  `json:"name"`
	ShortName       string  `json:"shortName"`
	Unit            string  `json:"unit"`
	LotSize         float64 `json:"lotSize"`
	BankCode        string  `json:"bankCode"`
	IsInternational bool    `json:"isInternational"`
	CreatedTs       int64   `json:"createdTs"`
}

// Currency is a settlement currency.
type Currency struct {
	ID        int32  `json:"id"`
	Name      string `json:"name"`
	ShortName string `json:"shortName"`
	CreatedTs int64  `json:"createdTs"`
}
