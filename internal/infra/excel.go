package infra

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/shakinm/xlsReader/xls"
	"github.com/xuri/excelize/v2"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"
)

var ErrFormatoNoSoportado = errors.New("formato de hoja no soportado (use .xlsx, .xls o .csv)")

// LeerHoja returns the cells of the first sheet of a spreadsheet as text,
// picking the reader from the file extension.
func LeerHoja(filename string, content []byte) ([][]string, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".xlsx", ".xlsm":
		return leerXLSX(content)
	case ".xls":
		return leerXLS(content)
	case ".csv", ".txt":
		return leerCSV(content)
	default:
		return nil, fmt.Errorf("%w: %q", ErrFormatoNoSoportado, filepath.Ext(filename))
	}
}

func leerXLSX(content []byte) ([][]string, error) {
	f, err := excelize.OpenReader(bytes.NewReader(content))
	if err != nil {
		return nil, fmt.Errorf("xlsx: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, errors.New("xlsx: libro sin hojas")
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("xlsx: leer %s: %w", sheets[0], err)
	}
	return rows, nil
}

// leerXLS goes through a temp file: xlsReader only opens paths.
func leerXLS(content []byte) ([][]string, error) {
	tmp, err := os.CreateTemp("", "recaudacion-*.xls")
	if err != nil {
		return nil, fmt.Errorf("xls: crear temporal: %w", err)
	}
	defer os.Remove(tmp.Name())
	if _, err := io.Copy(tmp, bytes.NewReader(content)); err != nil {
		tmp.Close()
		return nil, fmt.Errorf("xls: escribir temporal: %w", err)
	}
	tmp.Close()

	workbook, err := xls.OpenFile(tmp.Name())
	if err != nil {
		return nil, fmt.Errorf("xls: %w", err)
	}
	if workbook.GetNumberSheets() == 0 {
		return nil, errors.New("xls: libro sin hojas")
	}
	sheet, err := workbook.GetSheet(0)
	if err != nil || sheet == nil {
		return nil, fmt.Errorf("xls: primera hoja: %v", err)
	}

	var rows [][]string
	for i := 0; i <= int(sheet.GetNumberRows()); i++ {
		row, err := sheet.GetRow(i)
		if err != nil || row == nil {
			continue
		}
		var out []string
		for _, col := range row.GetCols() {
			if col != nil {
				out = append(out, col.GetString())
			} else {
				out = append(out, "")
			}
		}
		rows = append(rows, out)
	}
	return rows, nil
}

// leerCSV accepts UTF-8 or Windows-1252 text separated by ';' or ','.
func leerCSV(content []byte) ([][]string, error) {
	var r io.Reader = bytes.NewReader(content)
	if !utf8.Valid(content) {
		r = transform.NewReader(r, charmap.Windows1252.NewDecoder())
	}
	reader := csv.NewReader(r)
	reader.Comma = separadorCSV(content)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("csv: %w", err)
	}
	return rows, nil
}

func separadorCSV(content []byte) rune {
	first := content
	if i := bytes.IndexByte(content, '\n'); i >= 0 {
		first = content[:i]
	}
	if bytes.Count(first, []byte(";")) >= bytes.Count(first, []byte(",")) {
		return ';'
	}
	return ','
}
