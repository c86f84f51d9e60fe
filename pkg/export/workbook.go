// Package export renders precomputed values into spreadsheets.
//
// The renderers never compute amounts themselves, they only lay out what
// the ledger and the recovery aggregator computed.
package export

import (
	"bytes"
	"fmt"
	"regexp"
	"strings"

	"github.com/xuri/excelize/v2"
)

// ContentType is the MIME type of the generated workbooks.
const ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

const (
	dateFormat   = "02/01/2006"
	amountFormat = 4 // #,##0.00
)

// sheet writes rows to one worksheet of a workbook.
type sheet struct {
	file *excelize.File
	name string
	row  int
}

// newWorkbook creates a workbook whose first sheet has the given name.
func newWorkbook(name string) (*excelize.File, *sheet, error) {
	f := excelize.NewFile()

	err := f.SetSheetName(f.GetSheetName(0), name)
	if err != nil {
		f.Close()
		return nil, nil, err
	}

	return f, &sheet{file: f, name: name}, nil
}

// addSheet appends a worksheet to the workbook.
func addSheet(f *excelize.File, name string) (*sheet, error) {
	_, err := f.NewSheet(name)
	if err != nil {
		return nil, err
	}

	return &sheet{file: f, name: name}, nil
}

// append writes the values to the next row and returns its number.
func (s *sheet) append(values ...any) (int, error) {
	s.row++

	cell, err := excelize.CoordinatesToCellName(1, s.row)
	if err != nil {
		return 0, err
	}

	return s.row, s.file.SetSheetRow(s.name, cell, &values)
}

// header writes a bold header row and freezes it.
func (s *sheet) header(titles ...string) error {
	values := make([]any, 0, len(titles))
	for _, t := range titles {
		values = append(values, t)
	}

	row, err := s.append(values...)
	if err != nil {
		return err
	}

	style, err := s.file.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"DDEBF7"}, Pattern: 1},
	})
	if err != nil {
		return err
	}

	last, err := excelize.CoordinatesToCellName(len(titles), row)
	if err != nil {
		return err
	}

	first, _ := excelize.CoordinatesToCellName(1, row)
	if err := s.file.SetCellStyle(s.name, first, last, style); err != nil {
		return err
	}

	lastColumn, _ := excelize.ColumnNumberToName(len(titles))
	if err := s.file.SetColWidth(s.name, "A", lastColumn, 18); err != nil {
		return err
	}

	return s.file.SetPanes(s.name, &excelize.Panes{
		Freeze:      true,
		YSplit:      row,
		TopLeftCell: fmt.Sprintf("A%d", row+1),
		ActivePane:  "bottomLeft",
	})
}

// amounts applies the amount number format to the columns for all rows written so far.
func (s *sheet) amounts(columns ...int) error {
	style, err := s.file.NewStyle(&excelize.Style{NumFmt: amountFormat})
	if err != nil {
		return err
	}

	for _, c := range columns {
		top, _ := excelize.CoordinatesToCellName(c, 2)
		bottom, _ := excelize.CoordinatesToCellName(c, max(s.row, 2))
		if err := s.file.SetCellStyle(s.name, top, bottom, style); err != nil {
			return err
		}
	}

	return nil
}

// write serializes the workbook.
func write(f *excelize.File) (*bytes.Buffer, error) {
	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("could not write workbook: %w", err)
	}

	return buf, nil
}

var unsafe = regexp.MustCompile(`[^a-z0-9]+`)

// Filename builds a file name from the parts that is safe to use in a
// Content-Disposition header.
func Filename(parts ...string) string {
	cleaned := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.Trim(unsafe.ReplaceAllString(strings.ToLower(p), "-"), "-")
		if p != "" {
			cleaned = append(cleaned, p)
		}
	}

	return strings.Join(cleaned, "-") + ".xlsx"
}
