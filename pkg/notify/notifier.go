package notify

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"text/template"

	"github.com/ecole-gestion/backend/pkg/models"
	"github.com/ecole-gestion/backend/pkg/recovery"
	"github.com/shopspring/decimal"
)

var (
	ErrNoRecipient = errors.New("the student has neither an email address nor a guardian email address")
	ErrSettled     = errors.New("no reminder is sent for a settled tranche")
)

var confirmationTemplate = template.Must(template.New("confirmation").Parse(`Bonjour,

Nous accusons réception du paiement de {{ .Amount }} pour {{ .Student }} (matricule {{ .Matricule }}).

Référence : {{ .Reference }}
Date : {{ .Date }}
Mode de paiement : {{ .Mode }}
{{- if .Tranche }}
Tranche : {{ .Tranche }}
Total versé pour cette tranche : {{ .Paid }}
Reste à payer : {{ .Remaining }}
{{- end }}

Cordialement,
{{ .School }}
`))

var reminderTemplate = template.Must(template.New("reminder").Parse(`Bonjour,

{{ if .Overdue }}La tranche « {{ .Tranche }} » des frais de scolarité de {{ .Student }} était due le {{ .DueDate }}.{{ else }}La tranche « {{ .Tranche }} » des frais de scolarité de {{ .Student }} est due le {{ .DueDate }}.{{ end }}

Montant de la tranche : {{ .Due }}
Déjà versé : {{ .Paid }} ({{ .Percent }})
Reste à payer : {{ .Remaining }}

Merci de régulariser la situation auprès de la comptabilité.

Cordialement,
{{ .School }}
`))

// Notifier renders and sends the mails sent to students and guardians.
type Notifier struct {
	Mailer   Mailer
	School   string
	Currency string
}

func (n Notifier) render(t *template.Template, data any) (string, error) {
	var b bytes.Buffer
	if err := t.Execute(&b, data); err != nil {
		return "", fmt.Errorf("could not render %s mail: %w", t.Name(), err)
	}
	return b.String(), nil
}

// PaymentConfirmation confirms a recorded payment. If the payment is assigned
// to a tranche, the balance of the student for that tranche is included.
func (n Notifier) PaymentConfirmation(ctx context.Context, payment models.Payment, student models.Student, tranche *models.Tranche, paid, remaining decimal.Decimal) error {
	to := student.Recipient()
	if to == "" {
		return ErrNoRecipient
	}

	data := map[string]any{
		"Amount":    FormatAmount(payment.Amount, n.Currency),
		"Student":   student.FullName(),
		"Matricule": student.Matricule,
		"Reference": payment.Reference,
		"Date":      payment.PaymentDate.Time().Format("02/01/2006"),
		"Mode":      modeLabel(payment.PaymentMode),
		"School":    n.School,
		"Tranche":   "",
	}

	if tranche != nil {
		data["Tranche"] = tranche.Name
		data["Paid"] = FormatAmount(paid, n.Currency)
		data["Remaining"] = FormatAmount(remaining, n.Currency)
	}

	body, err := n.render(confirmationTemplate, data)
	if err != nil {
		return err
	}

	return n.Mailer.Send(ctx, Message{
		To:      []string{to},
		Subject: fmt.Sprintf("Reçu de paiement %s", payment.Reference),
		Body:    body,
	})
}

// RecoveryReminder reminds the guardian of a student of an unsettled tranche.
func (n Notifier) RecoveryReminder(ctx context.Context, row recovery.DebtRow) error {
	if row.Settled() {
		return ErrSettled
	}

	to := row.Student.Recipient()
	if to == "" {
		return ErrNoRecipient
	}

	body, err := n.render(reminderTemplate, map[string]any{
		"Overdue":   row.Status == recovery.StatusOverdue,
		"Tranche":   row.Tranche.Name,
		"Student":   row.Student.FullName(),
		"DueDate":   row.Tranche.DueDate.Time().Format("02/01/2006"),
		"Due":       FormatAmount(row.TotalDue, n.Currency),
		"Paid":      FormatAmount(row.TotalPaid, n.Currency),
		"Percent":   FormatPercent(row.PercentPaid),
		"Remaining": FormatAmount(row.Remaining, n.Currency),
		"School":    n.School,
	})
	if err != nil {
		return err
	}

	return n.Mailer.Send(ctx, Message{
		To:      []string{to},
		Subject: fmt.Sprintf("%s : %s - %s", row.Status, row.Tranche.Name, row.Student.FullName()),
		Body:    body,
	})
}

func modeLabel(mode models.PaymentMode) string {
	switch mode {
	case models.PaymentModeCash:
		return "Espèces"
	case models.PaymentModeCheck:
		return "Chèque"
	case models.PaymentModeTransfer:
		return "Virement"
	case models.PaymentModeMobileMoney:
		return "Mobile money"
	case models.PaymentModeCard:
		return "Carte bancaire"
	}
	return string(mode)
}
