// seed_catalog genera una migración SQL idempotente con el catálogo inicial (insumos y
// servicios destino) a partir de los CSV exportados de la planilla de bodega.
//
// Uso: go run ./cmd/seed_catalog -items insumos.csv -services servicios.csv
//
// insumos.csv:   nombre;codigo;umbral_critico   (codigo y umbral opcionales)
// servicios.csv: nombre
//
// Los CSV vienen en ISO-8859-1 separados por ';'. Escribe
// internal/infrastructure/postgres/migrations/000002_seed_catalog.{up,down}.sql
package main

import (
	"encoding/csv"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"
)

type seedItem struct {
	name      string
	code      string
	threshold int
}

func main() {
	itemsPath := flag.String("items", "insumos.csv", "CSV de insumos")
	servicesPath := flag.String("services", "servicios.csv", "CSV de servicios destino")
	flag.Parse()

	items, err := readItems(*itemsPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Leer insumos: %v\n", err)
		os.Exit(1)
	}
	services, err := readServices(*servicesPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Leer servicios: %v\n", err)
		os.Exit(1)
	}

	dir := filepath.Join(findModuleRoot(), "internal", "infrastructure", "postgres", "migrations")
	if err := writeFile(filepath.Join(dir, "000002_seed_catalog.up.sql"), func(w io.Writer) { writeUp(w, items, services) }); err != nil {
		fmt.Fprintf(os.Stderr, "Escribir up: %v\n", err)
		os.Exit(1)
	}
	if err := writeFile(filepath.Join(dir, "000002_seed_catalog.down.sql"), func(w io.Writer) { writeDown(w, items, services) }); err != nil {
		fmt.Fprintf(os.Stderr, "Escribir down: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Generado %s: %d insumos, %d servicios\n", dir, len(items), len(services))
}

func openLatin1(path string) (*csv.Reader, io.Closer, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, err
	}
	return newReader(transform.NewReader(f, charmap.ISO8859_1.NewDecoder())), f, nil
}

func newReader(r io.Reader) *csv.Reader {
	cr := csv.NewReader(r)
	cr.Comma = ';'
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true
	return cr
}

func readItems(path string) ([]seedItem, error) {
	cr, c, err := openLatin1(path)
	if err != nil {
		return nil, err
	}
	defer c.Close()
	return parseItems(cr)
}

func readServices(path string) ([]string, error) {
	cr, c, err := openLatin1(path)
	if err != nil {
		return nil, err
	}
	defer c.Close()
	return parseServices(cr)
}

// parseItems omite el encabezado y filas sin nombre. Códigos repetidos: gana la última fila.
func parseItems(cr *csv.Reader) ([]seedItem, error) {
	records, err := cr.ReadAll()
	if err != nil {
		return nil, err
	}
	byKey := make(map[string]seedItem)
	for i, rec := range records {
		if i == 0 && isHeader(rec) {
			continue
		}
		it := seedItem{name: field(rec, 0), code: field(rec, 1)}
		if it.name == "" {
			continue
		}
		if raw := field(rec, 2); raw != "" {
			n, err := strconv.Atoi(raw)
			if err != nil || n < 0 {
				return nil, fmt.Errorf("fila %d: umbral inválido %q", i+1, raw)
			}
			it.threshold = n
		}
		key := "code:" + it.code
		if it.code == "" {
			key = "name:" + strings.ToLower(it.name)
		}
		byKey[key] = it
	}
	out := make([]seedItem, 0, len(byKey))
	for _, it := range byKey {
		out = append(out, it)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].name < out[j].name })
	return out, nil
}

func parseServices(cr *csv.Reader) ([]string, error) {
	records, err := cr.ReadAll()
	if err != nil {
		return nil, err
	}
	seen := make(map[string]bool)
	var out []string
	for i, rec := range records {
		if i == 0 && isHeader(rec) {
			continue
		}
		name := field(rec, 0)
		if name == "" || seen[name] {
			continue
		}
		seen[name] = true
		out = append(out, name)
	}
	sort.Strings(out)
	return out, nil
}

func writeUp(w io.Writer, items []seedItem, services []string) {
	fmt.Fprint(w, "-- Catálogo inicial. Generado por cmd/seed_catalog.\n\n")

	if len(services) > 0 {
		fmt.Fprint(w, "INSERT INTO services (name) VALUES\n")
		for i, s := range services {
			sep := ","
			if i == len(services)-1 {
				sep = ""
			}
			fmt.Fprintf(w, "  ('%s')%s\n", escapeSQL(s), sep)
		}
		fmt.Fprint(w, "ON CONFLICT (name) DO NOTHING;\n\n")
	}

	for _, it := range items {
		if it.code != "" {
			fmt.Fprintf(w, "INSERT INTO items (name, product_code, critical_threshold) VALUES ('%s', '%s', %d)\n",
				escapeSQL(it.name), escapeSQL(it.code), it.threshold)
			fmt.Fprint(w, "ON CONFLICT (product_code) DO UPDATE SET name = EXCLUDED.name, critical_threshold = EXCLUDED.critical_threshold;\n")
			continue
		}
		fmt.Fprintf(w, "INSERT INTO items (name, critical_threshold)\n")
		fmt.Fprintf(w, "SELECT '%s', %d WHERE NOT EXISTS (SELECT 1 FROM items WHERE name = '%s');\n",
			escapeSQL(it.name), it.threshold, escapeSQL(it.name))
	}
}

// writeDown solo borra filas sin historia (sin lotes ni movimientos).
func writeDown(w io.Writer, items []seedItem, services []string) {
	fmt.Fprint(w, "-- Reversión del catálogo inicial: solo filas sin historia.\n\n")
	for _, it := range items {
		cond := fmt.Sprintf("name = '%s' AND product_code IS NULL", escapeSQL(it.name))
		if it.code != "" {
			cond = fmt.Sprintf("product_code = '%s'", escapeSQL(it.code))
		}
		fmt.Fprintf(w, "DELETE FROM items WHERE %s AND NOT EXISTS (SELECT 1 FROM batches b WHERE b.item_id = items.id);\n", cond)
	}
	for _, s := range services {
		fmt.Fprintf(w, "DELETE FROM services WHERE name = '%s' AND NOT EXISTS (SELECT 1 FROM movements m WHERE m.destination_service_id = services.id);\n", escapeSQL(s))
	}
}

func writeFile(path string, fn func(io.Writer)) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	fn(f)
	return f.Close()
}

func isHeader(rec []string) bool {
	return strings.EqualFold(field(rec, 0), "nombre")
}

func field(rec []string, i int) string {
	if i >= len(rec) {
		return ""
	}
	return strings.TrimSpace(rec[i])
}

func escapeSQL(s string) string {
	return strings.ReplaceAll(s, "'", "''")
}

func findModuleRoot() string {
	dir, _ := os.Getwd()
	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return dir
		}
		dir = parent
	}
}
