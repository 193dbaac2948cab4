package auth

type Tipo string

const (
	TipoAdmin     Tipo = "admin"
	TipoPrestador Tipo = "prestador"
	TipoUsuario   Tipo = "usuario"
)

func (t Tipo) Valid() bool {
	switch t {
	case TipoAdmin, TipoPrestador, TipoUsuario:
		return true
	}
	return false
}

// HasTipo reports whether p is one of the allowed account types.
func (p Principal) HasTipo(allowed ...Tipo) bool {
	for _, t := range allowed {
		if p.Tipo == t {
			return true
		}
	}
	return false
}

func (p Principal) IsAdmin() bool { return p.Tipo == TipoAdmin }

// CanModify reports whether p may change a resource owned by ownerID.
// Rows without an owner are admin-only.
func (p Principal) CanModify(ownerID *int) bool {
	if p.IsAdmin() {
		return true
	}
	return ownerID != nil && *ownerID == p.ID
}
