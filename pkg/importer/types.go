// Package importer creates students from roster files exported by the
// school's registration office.
package importer

import (
	"errors"

	"github.com/ecole-gestion/backend/pkg/models"
)

// Columns of a roster file. The first line of the file is a header and is skipped.
const (
	Matricule = iota
	LastName
	FirstName
	ClassName
	Email
	GuardianEmail
)

// requiredColumns is the number of columns every line must at least have.
// The address columns are optional.
const requiredColumns = ClassName + 1

var (
	ErrUnsupportedFormat = errors.New("roster files must be .csv or .xlsx files")
	ErrColumnCount       = errors.New("the line must at least have the columns matricule, last name, first name and class")
	ErrNoMatricule       = errors.New("the matricule must not be empty")
	ErrDuplicateLine     = errors.New("the matricule appears more than once in the file")
)

// RosterStudent is a student parsed from a line of a roster file.
type RosterStudent struct {
	Line    int // Line in the file, starting at 1 for the header
	Student models.Student
}

// Result lists what an import did.
type Result struct {
	Created []models.Student // Students that were created
	Skipped []string         // Matricules that already existed
}
