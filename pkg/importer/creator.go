package importer

import (
	"fmt"

	"github.com/ecole-gestion/backend/pkg/models"
	"github.com/google/uuid"
	"golang.org/x/exp/slices"
	"gorm.io/gorm"
)

// Create creates the students and binds them to the fee configurations.
//
// Students whose matricule already exists are skipped and left unchanged.
// If any student cannot be created, nothing is created.
func Create(db *gorm.DB, students []RosterStudent, configurationIDs []uuid.UUID) (Result, error) {
	result := Result{
		Created: []models.Student{},
		Skipped: []string{},
	}

	unique := make([]uuid.UUID, 0, len(configurationIDs))
	for _, id := range configurationIDs {
		if !slices.Contains(unique, id) {
			unique = append(unique, id)
		}
	}

	err := db.Transaction(func(tx *gorm.DB) error {
		configurations := []models.FeeConfiguration{}
		if len(unique) > 0 {
			err := tx.Where("id IN ?", unique).Find(&configurations).Error
			if err != nil {
				return err
			}

			if len(configurations) != len(unique) {
				return models.ErrReferenceNotFound
			}
		}

		for _, s := range students {
			var existing int64
			err := tx.Model(&models.Student{}).Where("matricule = ?", s.Student.Matricule).Count(&existing).Error
			if err != nil {
				return err
			}

			if existing > 0 {
				result.Skipped = append(result.Skipped, s.Student.Matricule)
				continue
			}

			student := s.Student
			err = tx.Omit("FeeConfigurations").Create(&student).Error
			if err != nil {
				return lineError(s.Line, err)
			}

			if len(configurations) > 0 {
				err = tx.Model(&student).Omit("FeeConfigurations.*").Association("FeeConfigurations").Append(configurations)
				if err != nil {
					return fmt.Errorf("could not bind the student in line %d: %w", s.Line, err)
				}
			}

			result.Created = append(result.Created, student)
		}

		return nil
	})
	if err != nil {
		return Result{}, err
	}

	return result, nil
}
