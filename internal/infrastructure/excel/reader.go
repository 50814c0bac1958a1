package excel

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	domain "github.com/mohammadpnp/instituto-import/internal/domain/training"
	"github.com/xuri/excelize/v2"
)

const defaultHeaderScanRows = 15

type Options struct {
	// SheetName forces a sheet; empty means the first sheet with a detectable header.
	SheetName      string
	HeaderScanRows int
}

type Reader struct {
	opts Options
}

func NewReader(opts Options) *Reader {
	if opts.HeaderScanRows <= 0 {
		opts.HeaderScanRows = defaultHeaderScanRows
	}
	return &Reader{opts: opts}
}

// Parse opens a workbook, locates the header row and returns an iterator over
// the data rows below it. An empty kind is inferred from the headers.
func (r *Reader) Parse(ctx context.Context, src io.Reader, kind domain.ImportKind) (domain.RowIterator, error) {
	f, err := excelize.OpenReader(src)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidWorkbook, err)
	}

	sheets := f.GetSheetList()
	if r.opts.SheetName != "" {
		if idx, _ := f.GetSheetIndex(r.opts.SheetName); idx < 0 {
			f.Close()
			return nil, fmt.Errorf("%w: %s", ErrSheetNotFound, r.opts.SheetName)
		}
		sheets = []string{r.opts.SheetName}
	}

	date1904 := false
	if props, err := f.GetWorkbookProps(); err == nil && props.Date1904 != nil {
		date1904 = *props.Date1904
	}

	for _, sheet := range sheets {
		if err := ctx.Err(); err != nil {
			f.Close()
			return nil, err
		}

		rows, err := f.Rows(sheet)
		if err != nil {
			f.Close()
			return nil, fmt.Errorf("read sheet %s: %w", sheet, err)
		}

		columns, rowNumber, err := r.findHeader(rows)
		if err != nil {
			rows.Close()
			f.Close()
			return nil, fmt.Errorf("scan header of sheet %s: %w", sheet, err)
		}
		if columns == nil {
			rows.Close()
			continue
		}

		sheetKind := kind
		if sheetKind == domain.KindAuto {
			sheetKind = DetectKind(columns)
		}
		if missing := MissingFields(sheetKind, columns); len(missing) > 0 {
			rows.Close()
			f.Close()
			return nil, &MissingColumnsError{SheetName: sheet, Kind: sheetKind, Fields: missing}
		}

		return &sheetRows{
			ctx:       ctx,
			file:      f,
			rows:      rows,
			sheet:     sheet,
			kind:      sheetKind,
			columns:   columns,
			rowNumber: rowNumber,
			date1904:  date1904,
		}, nil
	}

	f.Close()
	return nil, ErrNoHeaderRow
}

// findHeader returns nil columns when no header appears in the scanned rows.
func (r *Reader) findHeader(rows *excelize.Rows) (ColumnMap, int64, error) {
	var rowNumber int64
	for rowNumber < int64(r.opts.HeaderScanRows) && rows.Next() {
		rowNumber++
		cells, err := rows.Columns()
		if err != nil {
			return nil, 0, err
		}
		columns := DetectColumns(cells)
		if columns.Has(domain.FieldUserID) && len(columns) >= 2 {
			return columns, rowNumber, nil
		}
	}
	return nil, 0, rows.Error()
}

type sheetRows struct {
	ctx       context.Context
	file      *excelize.File
	rows      *excelize.Rows
	sheet     string
	kind      domain.ImportKind
	columns   ColumnMap
	rowNumber int64
	date1904  bool

	// percentStyles caches whether a style id renders numbers as percent.
	percentStyles map[int]bool

	current domain.RawRow
	err     error
}

func (s *sheetRows) Kind() domain.ImportKind { return s.kind }

func (s *sheetRows) Next() bool {
	if s.err != nil {
		return false
	}

	for s.rows.Next() {
		s.rowNumber++
		if err := s.ctx.Err(); err != nil {
			s.err = err
			return false
		}

		cells, err := s.rows.Columns(excelize.Options{RawCellValue: true})
		if err != nil {
			s.err = fmt.Errorf("read row %d of sheet %s: %w", s.rowNumber, s.sheet, err)
			return false
		}

		values := make(map[domain.Field]string, len(s.columns))
		blank := true
		for field, idx := range s.columns {
			if idx >= len(cells) {
				continue
			}
			value := strings.TrimSpace(cells[idx])
			if value == "" {
				continue
			}
			switch {
			case dateFields[field]:
				value = s.serialToDate(value)
			case field == domain.FieldPercentage:
				value = s.percentText(idx, value)
			}
			values[field] = value
			blank = false
		}
		if blank {
			continue
		}

		s.current = domain.RawRow{Number: s.rowNumber, Values: values}
		return true
	}

	s.err = s.rows.Error()
	return false
}

// serialToDate renders Excel date serials as ISO text; other values pass through.
func (s *sheetRows) serialToDate(value string) string {
	serial, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return value
	}
	t, err := excelize.ExcelDateToTime(serial, s.date1904)
	if err != nil {
		return value
	}
	return t.Format("2006-01-02 15:04:05")
}

// percentText renders a fraction stored in a percent-formatted cell as "N%",
// the way the sheet displays it. Raw values keep the 1 == 100% ambiguity
// otherwise, so other cells pass through.
func (s *sheetRows) percentText(col int, value string) string {
	n, err := strconv.ParseFloat(value, 64)
	if err != nil || n < 0 || n > 1 {
		return value
	}

	cell, err := excelize.CoordinatesToCellName(col+1, int(s.rowNumber))
	if err != nil {
		return value
	}
	styleID, err := s.file.GetCellStyle(s.sheet, cell)
	if err != nil {
		return value
	}

	percent, ok := s.percentStyles[styleID]
	if !ok {
		percent = isPercentStyle(s.file, styleID)
		if s.percentStyles == nil {
			s.percentStyles = make(map[int]bool)
		}
		s.percentStyles[styleID] = percent
	}
	if !percent {
		return value
	}
	return strconv.FormatFloat(n*100, 'f', -1, 64) + "%"
}

// isPercentStyle reports built-in formats 9 ("0%") and 10 ("0.00%") and any
// custom format with an unquoted percent sign.
func isPercentStyle(f *excelize.File, styleID int) bool {
	style, err := f.GetStyle(styleID)
	if err != nil || style == nil {
		return false
	}
	if style.NumFmt == 9 || style.NumFmt == 10 {
		return true
	}
	if style.CustomNumFmt == nil {
		return false
	}
	inQuotes := false
	for _, r := range *style.CustomNumFmt {
		switch {
		case r == '"':
			inQuotes = !inQuotes
		case r == '%' && !inQuotes:
			return true
		}
	}
	return false
}

func (s *sheetRows) Row() domain.RawRow { return s.current }

func (s *sheetRows) Err() error { return s.err }

func (s *sheetRows) Close() error {
	rowsErr := s.rows.Close()
	if err := s.file.Close(); err != nil {
		return err
	}
	return rowsErr
}
