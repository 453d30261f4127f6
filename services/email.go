package services

import (
	"bytes"
	"fmt"
	"html/template"
	"log"
	"strings"
	"time"

	"legajo_app_go/config"
	"legajo_app_go/models"

	"github.com/resend/resend-go/v2"
)

// Email represents an email message
type Email struct {
	To       []string
	Subject  string
	HTMLBody string
	TextBody string
}

// SendEmail sends an email using Resend API
func SendEmail(cfg *config.Config, email *Email) error {
	// In development mode, log the email instead of sending
	if cfg.EmailTestMode {
		logEmailToConsole(email)
		return nil
	}

	// Validate configuration
	if cfg.ResendAPIKey == "" {
		return fmt.Errorf("RESEND_API_KEY not configured")
	}

	client := resend.NewClient(cfg.ResendAPIKey)

	fromAddress := fmt.Sprintf("%s <%s>", cfg.EmailFromName, cfg.EmailFrom)

	params := &resend.SendEmailRequest{
		From:    fromAddress,
		To:      email.To,
		Subject: email.Subject,
	}

	// Set body (prefer HTML if available)
	if email.HTMLBody != "" {
		params.Html = email.HTMLBody
	}
	if email.TextBody != "" {
		params.Text = email.TextBody
	}

	if params.Html == "" && params.Text == "" {
		return fmt.Errorf("email must have either HTMLBody or TextBody")
	}

	sent, err := client.Emails.Send(params)
	if err != nil {
		return fmt.Errorf("failed to send email via Resend: %v", err)
	}

	log.Printf("Email sent successfully via Resend (ID: %s) to: %v", sent.Id, email.To)
	return nil
}

// logEmailToConsole logs email details to console in development mode
func logEmailToConsole(email *Email) {
	separator := strings.Repeat("=", 80)
	log.Printf("\n%s\n📧 EMAIL (Development Mode - Not Actually Sent)\n%s", separator, separator)
	log.Printf("To: %v", email.To)
	log.Printf("Subject: %s", email.Subject)
	log.Printf("\n--- TEXT BODY ---\n%s", email.TextBody)
	log.Printf("%s\n", separator)
}

const contratoAsignadoHTML = `<html><body style="font-family: Arial, sans-serif;">
<h2>Nuevo contrato asignado</h2>
<p>Hola {{.DisplayName}},</p>
<p>Se registró un contrato a tu nombre para el período <strong>{{.Periodo}}</strong>,
vigente desde el {{.FechaInicio}}{{if .FechaFin}} hasta el {{.FechaFin}}{{end}}.</p>
<ul>
<li>Horas semanales: {{.HorasSemanales}}</li>
<li>Horas mensuales: {{.HorasMensuales}}</li>
<li>Total mensual: ${{printf "%.2f" .TotalMensual}}</li>
</ul>
<p>Podés ver el detalle en tu legajo.</p>
</body></html>`

const contratoPorVencerHTML = `<html><body style="font-family: Arial, sans-serif;">
<h2>Contrato próximo a vencer</h2>
<p>Hola {{.DisplayName}},</p>
<p>Tu contrato del período <strong>{{.Periodo}}</strong> vence el {{.FechaFin}}
({{.DiasRestantes}} días restantes).</p>
<p>Contactá a Recursos Humanos si corresponde una renovación.</p>
</body></html>`

const accountStatusHTML = `<html><body style="font-family: Arial, sans-serif;">
<h2>Estado de tu cuenta</h2>
<p>Hola {{.DisplayName}},</p>
<p>Tu cuenta fue <strong>{{.Estado}}</strong>.</p>
</body></html>`

func renderEmailTemplate(name, tmpl string, data interface{}) (string, error) {
	t, err := template.New(name).Parse(tmpl)
	if err != nil {
		return "", fmt.Errorf("failed to parse template %s: %v", name, err)
	}
	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to execute template %s: %v", name, err)
	}
	return buf.String(), nil
}

type contratoAsignadoData struct {
	DisplayName    string
	Periodo        string
	FechaInicio    string
	FechaFin       string
	HorasSemanales float64
	HorasMensuales float64
	TotalMensual   float64
}

// SendContratoAsignadoEmail notifies a person that a contract was issued
func SendContratoAsignadoEmail(cfg *config.Config, toEmail, displayName string, contrato *models.Contract) error {
	data := contratoAsignadoData{
		DisplayName:    displayName,
		Periodo:        contrato.Periodo,
		FechaInicio:    contrato.FechaInicio.Format("02/01/2006"),
		HorasSemanales: contrato.TotalHorasSemanales,
		HorasMensuales: contrato.HorasMensuales,
		TotalMensual:   contrato.TotalMensual,
	}
	if contrato.FechaFin != nil {
		data.FechaFin = contrato.FechaFin.Format("02/01/2006")
	}

	htmlBody, err := renderEmailTemplate("contrato_asignado", contratoAsignadoHTML, data)
	if err != nil {
		return err
	}

	return SendEmail(cfg, &Email{
		To:       []string{toEmail},
		Subject:  fmt.Sprintf("Nuevo contrato asignado - período %s", contrato.Periodo),
		HTMLBody: htmlBody,
		TextBody: fmt.Sprintf("Hola %s, se registró un contrato a tu nombre para el período %s.", displayName, contrato.Periodo),
	})
}

type contratoPorVencerData struct {
	DisplayName   string
	Periodo       string
	FechaFin      string
	DiasRestantes int
}

// SendContratoPorVencerEmail warns a person their contract is about to expire
func SendContratoPorVencerEmail(cfg *config.Config, toEmail, displayName string, contrato *models.Contract) error {
	if contrato.FechaFin == nil {
		return fmt.Errorf("contract %d has no fecha_fin", contrato.ID)
	}

	dias := int(time.Until(*contrato.FechaFin).Hours() / 24)
	if dias < 0 {
		dias = 0
	}

	data := contratoPorVencerData{
		DisplayName:   displayName,
		Periodo:       contrato.Periodo,
		FechaFin:      contrato.FechaFin.Format("02/01/2006"),
		DiasRestantes: dias,
	}

	htmlBody, err := renderEmailTemplate("contrato_por_vencer", contratoPorVencerHTML, data)
	if err != nil {
		return err
	}

	return SendEmail(cfg, &Email{
		To:       []string{toEmail},
		Subject:  fmt.Sprintf("Tu contrato vence el %s", data.FechaFin),
		HTMLBody: htmlBody,
		TextBody: fmt.Sprintf("Hola %s, tu contrato del período %s vence el %s.", displayName, contrato.Periodo, data.FechaFin),
	})
}

// SendAccountStatusEmail notifies a user their account was activated or deactivated
func SendAccountStatusEmail(cfg *config.Config, toEmail, displayName string, active bool) error {
	estado := "desactivada"
	if active {
		estado = "activada"
	}

	htmlBody, err := renderEmailTemplate("account_status", accountStatusHTML, map[string]string{
		"DisplayName": displayName,
		"Estado":      estado,
	})
	if err != nil {
		return err
	}

	return SendEmail(cfg, &Email{
		To:       []string{toEmail},
		Subject:  fmt.Sprintf("Tu cuenta fue %s", estado),
		HTMLBody: htmlBody,
		TextBody: fmt.Sprintf("Hola %s, tu cuenta fue %s.", displayName, estado),
	})
}
