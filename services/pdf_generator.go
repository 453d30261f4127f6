package services

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"log"
	"os"
	"time"

	"legajo_app_go/models"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
	"gorm.io/gorm"
)

// getChromePath returns the Chrome executable path from environment variable
func getChromePath() string {
	return os.Getenv("CHROME_PATH")
}

// PDFOptions contains options for PDF generation
type PDFOptions struct {
	PageOrientation string // portrait, landscape
	PageSize        string // letter, legal, A4
	MarginTop       int    // points (72 = 1 inch)
	MarginBottom    int
	MarginLeft      int
	MarginRight     int
}

// DefaultPDFOptions returns default options for institutional documents
func DefaultPDFOptions() PDFOptions {
	return PDFOptions{
		PageOrientation: "portrait",
		PageSize:        "A4",
		MarginTop:       72,
		MarginBottom:    72,
		MarginLeft:      72,
		MarginRight:     72,
	}
}

// GeneratePDF renders HTML content to PDF using headless Chrome
func GeneratePDF(htmlContent string, options PDFOptions) ([]byte, error) {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.NoSandbox,
		chromedp.DisableGPU,
	)

	// Custom Chrome path (headless-shell in Docker)
	if chromePath := getChromePath(); chromePath != "" {
		opts = append(opts, chromedp.ExecPath(chromePath))
	}

	allocCtx, allocCancel := chromedp.NewExecAllocator(context.Background(), opts...)
	defer allocCancel()

	ctx, cancel := chromedp.NewContext(allocCtx)
	defer cancel()

	var paperWidth, paperHeight float64
	switch options.PageSize {
	case "legal":
		paperWidth = 8.5
		paperHeight = 14.0
	case "letter":
		paperWidth = 8.5
		paperHeight = 11.0
	default: // A4
		paperWidth = 8.27
		paperHeight = 11.69
	}

	if options.PageOrientation == "landscape" {
		paperWidth, paperHeight = paperHeight, paperWidth
	}

	marginTop := float64(options.MarginTop) / 72.0
	marginBottom := float64(options.MarginBottom) / 72.0
	marginLeft := float64(options.MarginLeft) / 72.0
	marginRight := float64(options.MarginRight) / 72.0

	var pdfBuf []byte

	err := chromedp.Run(ctx,
		chromedp.Navigate("about:blank"),
		chromedp.ActionFunc(func(ctx context.Context) error {
			frameTree, err := page.GetFrameTree().Do(ctx)
			if err != nil {
				return err
			}
			return page.SetDocumentContent(frameTree.Frame.ID, htmlContent).Do(ctx)
		}),
		chromedp.Sleep(100),
		chromedp.ActionFunc(func(ctx context.Context) error {
			buf, _, err := page.PrintToPDF().
				WithPaperWidth(paperWidth).
				WithPaperHeight(paperHeight).
				WithMarginTop(marginTop).
				WithMarginBottom(marginBottom).
				WithMarginLeft(marginLeft).
				WithMarginRight(marginRight).
				WithPrintBackground(true).
				WithDisplayHeaderFooter(false).
				Do(ctx)
			if err != nil {
				return err
			}
			pdfBuf = buf
			return nil
		}),
	)

	if err != nil {
		return nil, fmt.Errorf("failed to generate PDF: %w", err)
	}

	return pdfBuf, nil
}

const contratoConstanciaHTML = `<!DOCTYPE html>
<html lang="es">
<head>
<meta charset="utf-8">
<style>
  body { font-family: Georgia, serif; color: #1a1a1a; font-size: 13px; }
  h1 { font-size: 18px; text-align: center; text-transform: uppercase; letter-spacing: 1px; }
  .meta { margin: 24px 0; }
  .meta p { margin: 4px 0; }
  table { width: 100%; border-collapse: collapse; margin-top: 16px; }
  th, td { border: 1px solid #999; padding: 6px 8px; text-align: left; }
  th { background: #f0f0f0; font-size: 11px; text-transform: uppercase; }
  td.num { text-align: right; }
  .totals { margin-top: 20px; text-align: right; }
  .totals p { margin: 3px 0; }
  .firma { margin-top: 80px; text-align: center; }
  .firma .linea { border-top: 1px solid #333; width: 260px; margin: 0 auto 4px; }
</style>
</head>
<body>
  <h1>Constancia de Contratación</h1>
  <div class="meta">
    <p><strong>Contrato N°:</strong> {{.ContratoID}}</p>
    <p><strong>Tipo:</strong> {{.Kind}}</p>
    <p><strong>Persona:</strong> {{.Persona}}</p>
    <p><strong>Período:</strong> {{.Periodo}}</p>
    <p><strong>Vigencia:</strong> desde {{.FechaInicio}}{{if .FechaFin}} hasta {{.FechaFin}}{{else}} (sin fecha de fin){{end}}</p>
  </div>
  <table>
    <thead>
      <tr><th>Ítem</th><th>Detalle</th><th>Cargo</th><th>Hs/sem</th><th>Monto hora</th><th>Subtotal mensual</th></tr>
    </thead>
    <tbody>
      {{range .Items}}
      <tr>
        <td>{{.Tipo}}</td>
        <td>{{.Detalle}}</td>
        <td>{{.Cargo}}</td>
        <td class="num">{{printf "%.1f" .HorasSemanales}}</td>
        <td class="num">$ {{printf "%.2f" .MontoHora}}</td>
        <td class="num">$ {{printf "%.2f" .SubtotalMensual}}</td>
      </tr>
      {{end}}
    </tbody>
  </table>
  <div class="totals">
    <p>Horas semanales: {{printf "%.1f" .TotalHorasSemanales}}</p>
    <p>Horas mensuales: {{printf "%.1f" .HorasMensuales}}</p>
    <p><strong>Total mensual: $ {{printf "%.2f" .TotalMensual}}</strong></p>
  </div>
  <div class="firma">
    <div class="linea"></div>
    <p>Recursos Humanos</p>
    <p>Emitido el {{.Emitido}}</p>
  </div>
</body>
</html>`

type constanciaItem struct {
	Tipo            string
	Detalle         string
	Cargo           string
	HorasSemanales  float64
	MontoHora       float64
	SubtotalMensual float64
}

type constanciaData struct {
	ContratoID          uint
	Kind                string
	Persona             string
	Periodo             string
	FechaInicio         string
	FechaFin            string
	Emitido             string
	Items               []constanciaItem
	TotalHorasSemanales float64
	HorasMensuales      float64
	TotalMensual        float64
}

// BuildContractConstanciaHTML renders the printable record for a contract
func BuildContractConstanciaHTML(contract *models.Contract) (string, error) {
	data := constanciaData{
		ContratoID:          contract.ID,
		Kind:                string(contract.Kind),
		Persona:             contract.Person.NombreCompleto(),
		Periodo:             contract.Periodo,
		FechaInicio:         contract.FechaInicio.Format("02/01/2006"),
		Emitido:             time.Now().Format("02/01/2006"),
		TotalHorasSemanales: contract.TotalHorasSemanales,
		HorasMensuales:      contract.HorasMensuales,
		TotalMensual:        contract.TotalMensual,
	}
	if contract.FechaFin != nil {
		data.FechaFin = contract.FechaFin.Format("02/01/2006")
	}
	for _, item := range contract.Items {
		detalle := ""
		if item.IsDocencia() && item.Materia != nil {
			detalle = item.Materia.Nombre
		} else if item.ActividadDescripcion != nil {
			detalle = *item.ActividadDescripcion
		}
		data.Items = append(data.Items, constanciaItem{
			Tipo:            item.TipoItem,
			Detalle:         detalle,
			Cargo:           item.CargoCodigo,
			HorasSemanales:  item.HorasSemanales,
			MontoHora:       item.MontoHora,
			SubtotalMensual: item.SubtotalMensual,
		})
	}

	tmpl, err := template.New("constancia").Parse(contratoConstanciaHTML)
	if err != nil {
		return "", fmt.Errorf("failed to parse constancia template: %w", err)
	}
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to render constancia: %w", err)
	}
	return buf.String(), nil
}

// GenerateContractPDF loads the contract and renders its constancia as PDF
func GenerateContractPDF(db *gorm.DB, contractID uint) ([]byte, error) {
	contract, err := GetContractByID(db, contractID)
	if err != nil {
		return nil, err
	}

	html, err := BuildContractConstanciaHTML(contract)
	if err != nil {
		return nil, err
	}

	pdf, err := GeneratePDF(html, DefaultPDFOptions())
	if err != nil {
		return nil, err
	}

	// Keep a copy in storage; the download never fails on archival problems
	if err := ArchiveContractPDF(contract, pdf); err != nil {
		log.Printf("[WARNING] failed to archive contract %d PDF: %v", contract.ID, err)
	}

	return pdf, nil
}

// ArchiveContractPDF stores the rendered constancia under the person's
// legajo folder so it stays retrievable after the contract is reissued
func ArchiveContractPDF(contract *models.Contract, pdf []byte) error {
	if Storage == nil {
		return ErrStorageNotReady
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	key := GenerateContractPDFKey(contract.PersonID, contract.ID)
	_, err := Storage.UploadReader(ctx, bytes.NewReader(pdf), key, "application/pdf", int64(len(pdf)))
	return err
}
