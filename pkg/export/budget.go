package export

import (
	"bytes"
	"fmt"

	"github.com/ecole-gestion/backend/pkg/models"
)

// BudgetWorkbook renders the expenses of a budget and its ledger summary.
//
// The category of each expense must be preloaded.
func BudgetWorkbook(budget models.Budget, expenses []models.Expense) (*bytes.Buffer, error) {
	f, movements, err := newWorkbook("Dépenses")
	if err != nil {
		return nil, err
	}
	defer f.Close()

	err = movements.header("Date", "Catégorie", "Bénéficiaire", "Référence", "Mode", "Statut", "Montant", "Note")
	if err != nil {
		return nil, err
	}

	for _, e := range expenses {
		date := ""
		if !e.Date.IsZero() {
			date = e.Date.Time().Format(dateFormat)
		}

		_, err := movements.append(date, e.Category.Name, e.Beneficiary, e.Reference, string(e.PaymentMode), string(e.Status), e.Amount.InexactFloat64(), e.Note)
		if err != nil {
			return nil, err
		}
	}

	if err := movements.amounts(7); err != nil {
		return nil, err
	}

	summary, err := addSheet(f, "Synthèse")
	if err != nil {
		return nil, err
	}

	if err := summary.header("Indicateur", "Valeur"); err != nil {
		return nil, err
	}

	lines := [][]any{
		{"Budget", budget.Name},
		{"Période", fmt.Sprintf("%02d/%d", budget.Month, budget.Year)},
		{"Alloué", budget.AllocatedAmount.InexactFloat64()},
		{"Dépensé", budget.SpentAmount.InexactFloat64()},
		{"Restant", budget.RemainingAmount().InexactFloat64()},
	}
	for _, line := range lines {
		if _, err := summary.append(line...); err != nil {
			return nil, err
		}
	}

	return write(f)
}
