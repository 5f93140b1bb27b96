package entity

import "time"

// Client representa un contacto (persona o empresa) con dirección opcional.
// Los campos opcionales en nil equivalen a NULL en el almacén; nunca se guarda "".
type Client struct {
	ID        int64
	Name      string
	Phone     *string
	Email     *string
	CPF       *string // documento nacional (CPF)
	Address   *Address
	CreatedAt time.Time
}

// Address dirección postal libre. Se persiste como documento JSON.
type Address struct {
	Street       string `json:"street"`
	Number       string `json:"number"`
	Complement   string `json:"complement"`
	Neighborhood string `json:"neighborhood"`
	City         string `json:"city"`
	State        string `json:"state"`
	Zip          string `json:"zip"`
}

// IsBlank indica si todos los campos de la dirección están vacíos.
func (a Address) IsBlank() bool {
	return a == Address{}
}

// ClientChanges conjunto de cambios a aplicar sobre un cliente (ya saneado).
// Solo se actualizan los campos con Set en true.
type ClientChanges struct {
	Name    Optional[string]
	Phone   Optional[string]
	Email   Optional[string]
	CPF     Optional[string]
	Address Optional[Address]
}

// Empty indica si no hay ningún campo a modificar.
func (c ClientChanges) Empty() bool {
	return !c.Name.Set && !c.Phone.Set && !c.Email.Set && !c.CPF.Set && !c.Address.Set
}
