// Package sheetio reads inventory sources from CSV files and Excel
// workbooks.
package sheetio

import (
	"encoding/csv"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/gnames/aliquotdb/internal/ent/sheet"
	"github.com/xuri/excelize/v2"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// ErrFormat is returned for files that are neither CSV nor XLSX.
var ErrFormat = errors.New("unsupported file format")

type sheetio struct{}

// New creates a sheet.Reader for CSV and XLSX files.
func New() sheet.Reader {
	return sheetio{}
}

// Read returns rows of a CSV file or of the first sheet of a workbook.
func (s sheetio) Read(path string) ([][]string, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return readCSV(path)
	case ".xlsx":
		return readXLSX(path, "")
	default:
		return nil, fmt.Errorf("%w: %s", ErrFormat, path)
	}
}

// ReadSheet returns rows of the named sheet of a workbook.
func (s sheetio) ReadSheet(path, sheetName string) ([][]string, error) {
	if strings.ToLower(filepath.Ext(path)) != ".xlsx" {
		return nil, fmt.Errorf("%w: %s", ErrFormat, path)
	}
	return readXLSX(path, sheetName)
}

func readCSV(path string) ([][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		slog.Error("Cannot open csv file", "path", path, "error", err)
		return nil, err
	}
	defer f.Close()

	// UTF-8 with or without BOM, UTF-16 with BOM.
	dec := unicode.BOMOverride(unicode.UTF8.NewDecoder())
	r := csv.NewReader(transform.NewReader(f, dec))
	r.FieldsPerRecord = -1
	r.LazyQuotes = true

	res, err := r.ReadAll()
	if err != nil {
		slog.Error("Cannot parse csv file", "path", path, "error", err)
		return nil, err
	}
	return res, nil
}

func readXLSX(path, sheetName string) ([][]string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		slog.Error("Cannot open xlsx file", "path", path, "error", err)
		return nil, err
	}
	defer f.Close()

	if sheetName == "" {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return nil, fmt.Errorf("no sheets in %s", path)
		}
		sheetName = sheets[0]
	}

	res, err := f.GetRows(sheetName)
	if err != nil {
		slog.Error("Cannot read sheet", "path", path, "sheet", sheetName, "error", err)
		return nil, err
	}
	raw, err := f.GetRows(sheetName, excelize.Options{RawCellValue: true})
	if err != nil {
		slog.Error("Cannot read sheet", "path", path, "sheet", sheetName, "error", err)
		return nil, err
	}

	d := newDates(f, sheetName)
	for i := range res {
		if i >= len(raw) {
			break
		}
		for j := range res[i] {
			// date cells keep a serial number, formatted text differs from it.
			if j >= len(raw[i]) || raw[i][j] == res[i][j] {
				continue
			}
			if v, ok := d.value(i, j, raw[i][j]); ok {
				res[i][j] = v
			}
		}
	}
	return res, nil
}

var quoted = regexp.MustCompile(`"[^"]*"|\[[^\]]*\]`)

// dates converts date-styled cells of a sheet to 'YYYY-MM-DD', whatever
// number format the cell is displayed with.
type dates struct {
	f        *excelize.File
	sheet    string
	date1904 bool
	styles   map[int]bool
}

func newDates(f *excelize.File, sheet string) dates {
	res := dates{f: f, sheet: sheet, styles: make(map[int]bool)}
	props, err := f.GetWorkbookProps()
	if err == nil && props.Date1904 != nil {
		res.date1904 = *props.Date1904
	}
	return res
}

func (d dates) value(row, col int, raw string) (string, bool) {
	serial, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return "", false
	}
	cell, err := excelize.CoordinatesToCellName(col+1, row+1)
	if err != nil {
		return "", false
	}
	idx, err := d.f.GetCellStyle(d.sheet, cell)
	if err != nil {
		return "", false
	}
	isDate, ok := d.styles[idx]
	if !ok {
		st, err := d.f.GetStyle(idx)
		isDate = err == nil && isDateFormat(st)
		d.styles[idx] = isDate
	}
	if !isDate {
		return "", false
	}
	t, err := excelize.ExcelDateToTime(serial, d.date1904)
	if err != nil {
		return "", false
	}
	return t.Format(time.DateOnly), true
}

// isDateFormat is true for built-in date formats and for custom formats
// with day or year parts.
func isDateFormat(st *excelize.Style) bool {
	if st.CustomNumFmt != nil {
		code := strings.ToLower(quoted.ReplaceAllString(*st.CustomNumFmt, ""))
		return strings.ContainsAny(code, "yd")
	}
	n := st.NumFmt
	switch {
	case n >= 14 && n <= 17, n == 22, n >= 27 && n <= 36, n >= 50 && n <= 58:
		return true
	}
	return false
}
