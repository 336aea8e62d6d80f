// seed_catalog genera un script SQL para poblar proveedores y medicamentos
// a partir de los CSV exportados del sistema anterior.
//
// Uso: go run ./cmd/seed_catalog -suppliers proveedores.csv -medicines medicamentos.csv [-latin1] [-out seed.sql]
// Sin -out escribe en stdout. El script es idempotente (ON CONFLICT DO NOTHING).
package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"
)

func main() {
	suppliersPath := flag.String("suppliers", "", "CSV de proveedores: id,name,phone,email")
	medicinesPath := flag.String("medicines", "", "CSV de medicamentos: id,name,category,manufacturer,batch_number,expiry_date,price,cost_price,quantity,reorder_level")
	latin1 := flag.Bool("latin1", false, "los CSV vienen en ISO-8859-1")
	outPath := flag.String("out", "", "archivo de salida (por defecto stdout)")
	flag.Parse()

	if *suppliersPath == "" && *medicinesPath == "" {
		fmt.Fprintln(os.Stderr, "indique -suppliers y/o -medicines")
		os.Exit(2)
	}

	var cat catalog
	if *suppliersPath != "" {
		if err := withFile(*suppliersPath, *latin1, func(r io.Reader) (err error) {
			cat.suppliers, err = parseSuppliers(r)
			return err
		}); err != nil {
			fmt.Fprintf(os.Stderr, "Proveedores: %v\n", err)
			os.Exit(1)
		}
	}
	if *medicinesPath != "" {
		if err := withFile(*medicinesPath, *latin1, func(r io.Reader) (err error) {
			cat.medicines, err = parseMedicines(r)
			return err
		}); err != nil {
			fmt.Fprintf(os.Stderr, "Medicamentos: %v\n", err)
			os.Exit(1)
		}
	}

	out := os.Stdout
	if *outPath != "" {
		f, err := os.Create(*outPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Crear archivo: %v\n", err)
			os.Exit(1)
		}
		defer f.Close()
		out = f
	}
	if err := writeSQL(out, cat); err != nil {
		fmt.Fprintf(os.Stderr, "Escribir SQL: %v\n", err)
		os.Exit(1)
	}
	fmt.Fprintf(os.Stderr, "Generado: %d proveedores, %d medicamentos\n", len(cat.suppliers), len(cat.medicines))
}

func withFile(path string, latin1 bool, fn func(io.Reader) error) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return fn(decodeReader(f, latin1))
}

// decodeReader convierte ISO-8859-1 a UTF-8 cuando se pide.
func decodeReader(r io.Reader, latin1 bool) io.Reader {
	if !latin1 {
		return r
	}
	return transform.NewReader(r, charmap.ISO8859_1.NewDecoder())
}
