package export

import (
	"bytes"

	"github.com/ecole-gestion/backend/pkg/recovery"
)

// RecoveryWorkbook renders the debt rows of a tranche and their rollups.
func RecoveryWorkbook(report recovery.Report) (*bytes.Buffer, error) {
	f, rows, err := newWorkbook("Recouvrement")
	if err != nil {
		return nil, err
	}
	defer f.Close()

	err = rows.header("Matricule", "Nom", "Prénom", "Classe", "Montant dû", "Versé", "Reste", "% payé", "Statut", "Échéance", "Jours restants", "Dernier paiement", "Paiements")
	if err != nil {
		return nil, err
	}

	for _, r := range report.Rows {
		lastPayment := ""
		if !r.LastPaymentDate.IsZero() {
			lastPayment = r.LastPaymentDate.Time().Format(dateFormat)
		}

		_, err := rows.append(
			r.Student.Matricule,
			r.Student.LastName,
			r.Student.FirstName,
			r.Student.ClassName,
			r.TotalDue.InexactFloat64(),
			r.TotalPaid.InexactFloat64(),
			r.Remaining.InexactFloat64(),
			r.DisplayPercent().InexactFloat64(),
			r.Status,
			r.Tranche.DueDate.Time().Format(dateFormat),
			r.DaysUntilDue,
			lastPayment,
			r.PaymentCount,
		)
		if err != nil {
			return nil, err
		}
	}

	if err := rows.amounts(5, 6, 7); err != nil {
		return nil, err
	}

	summary, err := addSheet(f, "Synthèse")
	if err != nil {
		return nil, err
	}

	stats := report.Stats
	lines := [][]any{
		{"Tranche", report.Tranche.Name},
		{"Échéance", report.Tranche.DueDate.Time().Format(dateFormat)},
		{"Date du rapport", report.Today.Time().Format(dateFormat)},
		{"Élèves", stats.StudentCount},
		{"Total dû", stats.TotalDue.InexactFloat64()},
		{"Total versé", stats.TotalPaid.InexactFloat64()},
		{"Reste à recouvrer", stats.TotalRemaining.InexactFloat64()},
		{"Taux de recouvrement (%)", stats.RecoveryRate.Round(1).InexactFloat64()},
	}
	for _, status := range recovery.Statuses() {
		lines = append(lines, []any{status, stats.StatusCounts[status]})
	}

	if err := summary.header("Indicateur", "Valeur"); err != nil {
		return nil, err
	}

	for _, line := range lines {
		if _, err := summary.append(line...); err != nil {
			return nil, err
		}
	}

	return write(f)
}
