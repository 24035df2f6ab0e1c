package model

type Supplier struct {
	ID      int64   `db:"id" json:"id"`
	Name    string  `db:"name" json:"name"`
	Contact *string `db:"contact" json:"contact,omitempty"`
	Email   *string `db:"email" json:"email,omitempty"`
	Phone   *string `db:"phone" json:"phone,omitempty"`
	Address *string `db:"address" json:"address,omitempty"`
	Active  bool    `db:"active" json:"active"`
}

type CreateSupplierRequest struct {
	Name    string `json:"name" validate:"required"`
	Contact string `json:"contact"`
	Email   string `json:"email" validate:"omitempty,email"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
}

type SupplierPatch struct {
	Name    *string `json:"name"`
	Contact *string `json:"contact"`
	Email   *string `json:"email"`
	Phone   *string `json:"phone"`
	Address *string `json:"address"`
	Active  *bool   `json:"active"`
}

func (p *SupplierPatch) Empty() bool {
	return p.Name == nil && p.Contact == nil && p.Email == nil &&
		p.Phone == nil && p.Address == nil && p.Active == nil
}
