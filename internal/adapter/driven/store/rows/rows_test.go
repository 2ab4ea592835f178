package rows

import (
	"strings"
	"testing"

	"github.com/diillson/ticket-ledger/internal/domain/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCell(t *testing.T) {
	assert.Equal(t, "", Cell(nil))
	assert.Equal(t, "Ann", Cell("Ann"))
	assert.Equal(t, "-3", Cell(-3))
	assert.Equal(t, "42", Cell(int64(42)))
	assert.Equal(t, "true", Cell(true))
}

func TestStringsAndValues(t *testing.T) {
	m := entity.Matrix{
		{"Today (3/15/2026)"},
		{entity.HeaderBuyer, entity.HeaderTotal},
		{"Ann", 5},
		{},
	}

	assert.Equal(t, [][]string{
		{"Today (3/15/2026)"},
		{"Buyer", "Tickets Purchased"},
		{"Ann", "5"},
		{},
	}, Strings(m))

	values := Values(m)
	require.Len(t, values, 4)
	assert.Equal(t, []interface{}{"Ann", 5}, values[2])
	assert.Empty(t, values[3])
}

func TestEncodeDecode(t *testing.T) {
	in := [][]string{
		{"Today (3/15/2026)"},
		{"Buyer", "Tickets Purchased"},
		{"Smith, Ann", "5"},
		{},
		{"Bob \"B\"", "2"},
	}

	data, err := EncodeBytes(in)
	require.NoError(t, err)

	out, err := Decode(strings.NewReader(string(data)))
	require.NoError(t, err)

	// the blank separator line does not come back
	assert.Equal(t, [][]string{
		{"Today (3/15/2026)"},
		{"Buyer", "Tickets Purchased"},
		{"Smith, Ann", "5"},
		{"Bob \"B\"", "2"},
	}, out)
}

func TestDecodeEmpty(t *testing.T) {
	out, err := Decode(strings.NewReader(""))
	require.NoError(t, err)
	assert.NotNil(t, out)
	assert.Empty(t, out)
}

func TestDecodeError(t *testing.T) {
	_, err := Decode(strings.NewReader("\"unterminated\n"))
	assert.Error(t, err)
}
