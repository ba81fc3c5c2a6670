package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/charmap"
)

const header = "id;nome;codigo;ean;unidade;preco_venda;preco_custo;estoque\n"

func TestParseCatalog_UTF8(t *testing.T) {
	in := header +
		"A;Pão de queijo;PQ1;7891000000011;un;4,50;2,00;10\n" +
		"B;Queijo minas;QM1;;kg;1.234,56;900.10;2,5\n"
	rows, err := parseCatalog(strings.NewReader(in), "")
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, "Pão de queijo", rows[0].product.Name)
	assert.Equal(t, "UN", rows[0].product.Unit)
	assert.EqualValues(t, 450, rows[0].product.SalePrice)
	assert.True(t, rows[0].stock.Equal(decimal.NewFromInt(10)))

	assert.EqualValues(t, 123456, rows[1].product.SalePrice)
	assert.EqualValues(t, 90010, rows[1].product.CostPrice)
	assert.True(t, rows[1].stock.Equal(decimal.RequireFromString("2.5")))
}

func TestParseCatalog_Latin1(t *testing.T) {
	utf8 := header + "C;Açúcar cristal;AC1;;un;5,99;3,10;0\n"
	latin1, err := charmap.ISO8859_1.NewEncoder().Bytes([]byte(utf8))
	require.NoError(t, err)

	rows, err := parseCatalog(bytes.NewReader(latin1), "ISO-8859-1")
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "Açúcar cristal", rows[0].product.Name)
	assert.True(t, rows[0].stock.IsZero())
}

func TestParseCatalog_Errores(t *testing.T) {
	_, err := parseCatalog(strings.NewReader(header+"A;X;;;un;abc;0;1\n"), "")
	assert.ErrorContains(t, err, "línea 2")

	_, err = parseCatalog(strings.NewReader(header+"A;X;;;un;1;0;-3\n"), "")
	assert.ErrorContains(t, err, "negativo")

	_, err = parseCatalog(strings.NewReader(header), "EBCDIC")
	assert.Error(t, err)
}
