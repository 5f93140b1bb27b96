package console

import (
	"strings"
	"unicode"

	"github.com/jhoicas/agenda-api/internal/application/dto"
	"golang.org/x/text/cases"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// fold normaliza para comparar sin distinguir mayúsculas ni acentos.
func fold(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		out = s
	}
	return cases.Fold().String(out)
}

func digits(s string) string {
	return strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, s)
}

// FilterClients filtra por nombre, email y ciudad (sin distinguir mayúsculas ni acentos)
// y por los dígitos de teléfono y CPF. Un término vacío devuelve todos.
func FilterClients(clients []dto.ClientResponse, term string) []dto.ClientResponse {
	if term == "" {
		return clients
	}
	text := fold(term)
	num := digits(term)

	var out []dto.ClientResponse
	for _, c := range clients {
		if matchClient(c, text, num) {
			out = append(out, c)
		}
	}
	return out
}

func matchClient(c dto.ClientResponse, text, num string) bool {
	if strings.Contains(fold(c.Name), text) {
		return true
	}
	if c.Email != nil && strings.Contains(fold(*c.Email), text) {
		return true
	}
	if c.Address != nil && strings.Contains(fold(c.Address.City), text) {
		return true
	}
	if num == "" {
		return false
	}
	if c.Phone != nil && strings.Contains(digits(*c.Phone), num) {
		return true
	}
	return c.CPF != nil && strings.Contains(digits(*c.CPF), num)
}

// FormatPhone aplica la máscara (XX) XXXXX-XXXX a los primeros 11 dígitos de value.
func FormatPhone(value string) string {
	d := digits(value)
	if len(d) > 11 {
		d = d[:11]
	}
	if d == "" {
		return ""
	}
	ddd, rest := cut(d, 2)
	part1, part2 := cut(rest, 5)

	var b strings.Builder
	b.WriteString("(" + ddd)
	if part1 != "" {
		b.WriteString(") " + part1)
	}
	if part2 != "" {
		b.WriteString("-" + part2)
	}
	return b.String()
}

func cut(s string, n int) (string, string) {
	if len(s) <= n {
		return s, ""
	}
	return s[:n], s[n:]
}

// VisitsOf visitas de un cliente, en el orden recibido.
func VisitsOf(visits []dto.VisitListItem, clientID int64) []dto.VisitListItem {
	var out []dto.VisitListItem
	for _, v := range visits {
		if v.ClientID == clientID {
			out = append(out, v)
		}
	}
	return out
}
