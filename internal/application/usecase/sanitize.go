package usecase

import (
	"github.com/jhoicas/agenda-api/internal/application/dto"
	"github.com/jhoicas/agenda-api/internal/domain/entity"
)

// SanitizeClientPatch normaliza un payload de cliente antes de llegar al almacén:
// phone, email y cpf presentes como "" pasan a null, y una dirección presente
// con todos sus campos vacíos pasa a null. No toca ningún otro campo.
// Es una función pura: devuelve una copia.
func SanitizeClientPatch(in dto.ClientPatch) dto.ClientPatch {
	out := in
	out.Phone = blankToNull(in.Phone)
	out.Email = blankToNull(in.Email)
	out.CPF = blankToNull(in.CPF)
	if in.Address.HasValue() && in.Address.Value.IsBlank() {
		out.Address = entity.Null[entity.Address]()
	}
	return out
}

func blankToNull(v entity.Optional[string]) entity.Optional[string] {
	if v.HasValue() && v.Value == "" {
		return entity.Null[string]()
	}
	return v
}
