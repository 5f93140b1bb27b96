package console

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/agenda-api/internal/application/dto"
	"github.com/jhoicas/agenda-api/internal/domain/entity"
)

func ptr(s string) *string { return &s }

func TestFormatPhone(t *testing.T) {
	tests := map[string]string{
		"":                  "",
		"abc":               "",
		"1":                 "(1",
		"11":                "(11",
		"119":               "(11) 9",
		"1198765":           "(11) 98765",
		"11987654":          "(11) 98765-4",
		"11987654321":       "(11) 98765-4321",
		"1198765432100":     "(11) 98765-4321",
		"(11) 9 8765-43":    "(11) 98765-43",
		"+55 11 98765-4321": "(55) 11987-6543",
	}
	for in, want := range tests {
		assert.Equal(t, want, FormatPhone(in), in)
	}
}

func TestFilterClients(t *testing.T) {
	clients := []dto.ClientResponse{
		{ID: 1, Name: "José Álvares", Phone: ptr("(11) 98765-4321")},
		{ID: 2, Name: "Ana", Email: ptr("ana@empresa.com"), CPF: ptr("123.456.789-00")},
		{ID: 3, Name: "Bruno", Address: &entity.Address{City: "São Paulo"}},
	}

	ids := func(list []dto.ClientResponse) []int64 {
		var out []int64
		for _, c := range list {
			out = append(out, c.ID)
		}
		return out
	}

	assert.Len(t, FilterClients(clients, ""), 3)
	assert.Equal(t, []int64{1}, ids(FilterClients(clients, "jose")))
	assert.Equal(t, []int64{1}, ids(FilterClients(clients, "ÁLVA")))
	assert.Equal(t, []int64{2}, ids(FilterClients(clients, "EMPRESA")))
	assert.Equal(t, []int64{3}, ids(FilterClients(clients, "sao paulo")))
	assert.Equal(t, []int64{1}, ids(FilterClients(clients, "98765")))
	assert.Equal(t, []int64{2}, ids(FilterClients(clients, "456.789")))
	assert.Empty(t, FilterClients(clients, "zzz"))
}

func TestVisitsOf(t *testing.T) {
	visits := []dto.VisitListItem{
		{VisitResponse: dto.VisitResponse{ID: 1, ClientID: 7}},
		{VisitResponse: dto.VisitResponse{ID: 2, ClientID: 8}},
		{VisitResponse: dto.VisitResponse{ID: 3, ClientID: 7}},
	}
	got := VisitsOf(visits, 7)
	assert.Len(t, got, 2)
	assert.Equal(t, int64(1), got[0].ID)
	assert.Equal(t, int64(3), got[1].ID)
	assert.Empty(t, VisitsOf(visits, 9))
}
