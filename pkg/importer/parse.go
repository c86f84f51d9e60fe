package importer

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/ecole-gestion/backend/pkg/models"
	"github.com/xuri/excelize/v2"
	"golang.org/x/exp/slices"
)

// Parse parses a roster file. The format is determined by the extension of
// the file name.
func Parse(f io.Reader, filename string) ([]RosterStudent, error) {
	var (
		records [][]string
		err     error
	)

	switch strings.ToLower(filepath.Ext(filename)) {
	case ".csv":
		records, err = readCSV(f)
	case ".xlsx":
		records, err = readWorkbook(f)
	default:
		return nil, ErrUnsupportedFormat
	}
	if err != nil {
		return nil, err
	}

	return parseRecords(records)
}

// readCSV reads all records of a CSV file. Both comma and semicolon
// separated files are accepted, spreadsheet software in French locales
// uses semicolons.
func readCSV(f io.Reader) ([][]string, error) {
	data, err := io.ReadAll(f)
	if err != nil {
		return nil, fmt.Errorf("could not read the CSV file: %w", err)
	}

	// Strip the byte order mark some spreadsheet software writes
	data = bytes.TrimPrefix(data, []byte("\xef\xbb\xbf"))

	reader := csv.NewReader(bytes.NewReader(data))
	reader.FieldsPerRecord = -1

	header, _, _ := bytes.Cut(data, []byte("\n"))
	if bytes.Count(header, []byte(";")) > bytes.Count(header, []byte(",")) {
		reader.Comma = ';'
	}

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("could not read the CSV file: %w", err)
	}

	return records, nil
}

// readWorkbook reads all rows of the first sheet of a workbook.
func readWorkbook(f io.Reader) ([][]string, error) {
	wb, err := excelize.OpenReader(f)
	if err != nil {
		return nil, fmt.Errorf("could not open the workbook: %w", err)
	}
	defer wb.Close()

	rows, err := wb.GetRows(wb.GetSheetName(0))
	if err != nil {
		return nil, fmt.Errorf("could not read the workbook: %w", err)
	}

	return rows, nil
}

func parseRecords(records [][]string) ([]RosterStudent, error) {
	students := []RosterStudent{}
	var matricules []string

	// The first record is the header
	for i, record := range records {
		line := i + 1
		if line == 1 || blank(record) {
			continue
		}

		if len(record) < requiredColumns {
			return nil, lineError(line, ErrColumnCount)
		}

		s := models.Student{
			Matricule: strings.TrimSpace(record[Matricule]),
			LastName:  record[LastName],
			FirstName: record[FirstName],
			ClassName: record[ClassName],
			Active:    true,
		}

		if s.Matricule == "" {
			return nil, lineError(line, ErrNoMatricule)
		}

		if slices.Contains(matricules, s.Matricule) {
			return nil, lineError(line, ErrDuplicateLine)
		}
		matricules = append(matricules, s.Matricule)

		if len(record) > Email {
			s.Email = strings.TrimSpace(record[Email])
		}

		if len(record) > GuardianEmail {
			s.GuardianEmail = strings.TrimSpace(record[GuardianEmail])
		}

		if err := s.Validate(); err != nil {
			return nil, lineError(line, err)
		}

		students = append(students, RosterStudent{Line: line, Student: s})
	}

	return students, nil
}

func blank(record []string) bool {
	for _, field := range record {
		if strings.TrimSpace(field) != "" {
			return false
		}
	}

	return true
}

// lineError returns the error with the line of the input it occurred in.
func lineError(line int, err error) error {
	return fmt.Errorf("error in line %d of the roster: %w", line, err)
}
