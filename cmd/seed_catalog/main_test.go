package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"
)

func TestParseItems_Latin1ConEncabezado(t *testing.T) {
	raw, err := charmap.ISO8859_1.NewEncoder().String("nombre;codigo;umbral_critico\nJeringa 5ml;JER-5;10\nAlgodón;;\nJeringa 5 ml;JER-5;12\n")
	require.NoError(t, err)

	items, err := parseItems(newReader(transform.NewReader(strings.NewReader(raw), charmap.ISO8859_1.NewDecoder())))
	require.NoError(t, err)
	require.Len(t, items, 2)

	assert.Equal(t, "Algodón", items[0].name)
	assert.Empty(t, items[0].code)
	assert.Equal(t, "Jeringa 5 ml", items[1].name)
	assert.Equal(t, 12, items[1].threshold)
}

func TestParseItems_UmbralInvalido(t *testing.T) {
	_, err := parseItems(newReader(strings.NewReader("Gasa;GZ;-3\n")))
	assert.Error(t, err)
}

func TestParseServices_SinDuplicados(t *testing.T) {
	out, err := parseServices(newReader(strings.NewReader("nombre\nUrgencias\nPabellón\nUrgencias\n\n")))
	require.NoError(t, err)
	assert.Equal(t, []string{"Pabellón", "Urgencias"}, out)
}

func TestWriteUp_Idempotente(t *testing.T) {
	var buf bytes.Buffer
	writeUp(&buf, []seedItem{{name: "Suero O'Neil", code: "SU-1", threshold: 4}, {name: "Gasa"}}, []string{"Urgencias"})
	sql := buf.String()

	assert.Contains(t, sql, "ON CONFLICT (name) DO NOTHING")
	assert.Contains(t, sql, "'Suero O''Neil', 'SU-1', 4")
	assert.Contains(t, sql, "ON CONFLICT (product_code) DO UPDATE")
	assert.Contains(t, sql, "WHERE NOT EXISTS (SELECT 1 FROM items WHERE name = 'Gasa')")
}

func TestWriteDown_SoloSinHistoria(t *testing.T) {
	var buf bytes.Buffer
	writeDown(&buf, []seedItem{{name: "Gasa"}}, []string{"Urgencias"})
	assert.Contains(t, buf.String(), "NOT EXISTS (SELECT 1 FROM batches")
	assert.Contains(t, buf.String(), "NOT EXISTS (SELECT 1 FROM movements")
}
