package services

import (
	"bytes"
	"fmt"
	"io"
	"strings"
	"time"

	"legajo_app_go/models"

	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"
)

// ImportResult contains the summary of the import process
type ImportResult struct {
	TotalProcessed int
	SuccessCount   int
	FailedCount    int
	SkippedCount   int
	Errors         []string
}

const (
	importSheetInstructions = "Instrucciones"
	importSheetPersonas     = "Personas"
)

// GeneratePersonImportTemplate generates the Excel template for bulk
// person registration
func GeneratePersonImportTemplate(db *gorm.DB) (*bytes.Buffer, error) {
	f := excelize.NewFile()
	defer f.Close()

	f.SetSheetName("Sheet1", importSheetInstructions)

	f.SetCellValue(importSheetInstructions, "A1", "Importación masiva de personas")
	f.SetCellValue(importSheetInstructions, "A3", "Consideraciones:")
	f.SetCellValue(importSheetInstructions, "A4", "- DNI, Apellido y Nombre son obligatorios.")
	f.SetCellValue(importSheetInstructions, "A5", "- Las fechas usan el formato AAAA-MM-DD.")
	f.SetCellValue(importSheetInstructions, "A6", "- Sexo acepta F, M o X.")
	f.SetCellValue(importSheetInstructions, "A7", "- Las filas con DNI ya registrado se omiten.")

	var profiles []models.Profile
	profileCodes := []string{}
	if err := db.Where("activo = ?", true).Order("codigo").Find(&profiles).Error; err == nil {
		for _, p := range profiles {
			profileCodes = append(profileCodes, string(p.Codigo))
		}
	}
	perfilesNote := "- Perfiles acepta códigos separados por |"
	if len(profileCodes) > 0 {
		perfilesNote += fmt.Sprintf(" (%s)", strings.Join(profileCodes, ", "))
	}
	f.SetCellValue(importSheetInstructions, "A8", perfilesNote+".")

	mainTitleStyle, _ := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true, Size: 14}})
	f.SetCellStyle(importSheetInstructions, "A1", "A1", mainTitleStyle)
	f.SetColWidth(importSheetInstructions, "A", "A", 80)

	f.NewSheet(importSheetPersonas)
	headers := []string{
		"DNI*",             // A
		"CUIL",             // B
		"Apellido*",        // C
		"Nombre*",          // D
		"Fecha Nacimiento", // E
		"Sexo",             // F
		"Teléfono",         // G
		"Email",            // H
		"Perfiles",         // I
	}
	for i, header := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(importSheetPersonas, cell, header)
	}
	f.SetColWidth(importSheetPersonas, "A", "I", 20)

	examplePerfil := string(models.ProfileProfesor)
	if len(profileCodes) > 0 {
		examplePerfil = profileCodes[0]
	}
	f.SetCellValue(importSheetPersonas, "A2", "30123456")
	f.SetCellValue(importSheetPersonas, "B2", "20-30123456-3")
	f.SetCellValue(importSheetPersonas, "C2", "Pérez")
	f.SetCellValue(importSheetPersonas, "D2", "Juan")
	f.SetCellValue(importSheetPersonas, "E2", "1985-06-15")
	f.SetCellValue(importSheetPersonas, "F2", "M")
	f.SetCellValue(importSheetPersonas, "G2", "+54 11 5555-1234")
	f.SetCellValue(importSheetPersonas, "H2", "juan.perez@example.com")
	f.SetCellValue(importSheetPersonas, "I2", examplePerfil)

	headerStyle, _ := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	f.SetCellStyle(importSheetPersonas, "A1", "I1", headerStyle)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to write excel buffer: %w", err)
	}
	return buf, nil
}

// ImportPersonsFromExcel parses the template file and registers the people
// it lists. Each row commits on its own so one bad row does not sink the
// rest of the batch.
func ImportPersonsFromExcel(db *gorm.DB, actor models.AuthenticatedActor, file io.Reader) (*ImportResult, error) {
	f, err := excelize.OpenReader(file)
	if err != nil {
		return nil, fmt.Errorf("failed to open excel file: %w", err)
	}
	defer f.Close()

	sheetName := importSheetPersonas
	if idx, _ := f.GetSheetIndex(sheetName); idx < 0 {
		// Fall back to the last sheet for files saved without the
		// instructions tab
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return nil, fmt.Errorf("invalid excel format: no sheets")
		}
		sheetName = sheets[len(sheets)-1]
	}

	rows, err := f.GetRows(sheetName)
	if err != nil {
		return nil, fmt.Errorf("failed to read personas sheet: %w", err)
	}

	result := &ImportResult{Errors: []string{}}

	cell := func(row []string, idx int) string {
		if idx < len(row) {
			return strings.TrimSpace(row[idx])
		}
		return ""
	}

	for i, row := range rows {
		if i == 0 {
			continue // Header
		}

		dni := cell(row, 0)
		cuil := cell(row, 1)
		apellido := cell(row, 2)
		nombre := cell(row, 3)
		if dni == "" && apellido == "" && nombre == "" {
			continue // Empty row
		}
		result.TotalProcessed++
		rowNum := i + 1

		if dni == "" || apellido == "" || nombre == "" {
			result.FailedCount++
			result.Errors = append(result.Errors, fmt.Sprintf("fila %d: DNI, Apellido y Nombre son obligatorios", rowNum))
			continue
		}

		var existing int64
		if err := db.Model(&models.Identification{}).Where("dni = ?", dni).Count(&existing).Error; err != nil {
			result.FailedCount++
			result.Errors = append(result.Errors, fmt.Sprintf("fila %d: %v", rowNum, err))
			continue
		}
		if existing > 0 {
			result.SkippedCount++
			result.Errors = append(result.Errors, fmt.Sprintf("fila %d: DNI %s ya registrado, omitida", rowNum, dni))
			continue
		}

		var fechaNacimiento *time.Time
		if raw := cell(row, 4); raw != "" {
			parsed, err := time.Parse("2006-01-02", raw)
			if err != nil {
				result.FailedCount++
				result.Errors = append(result.Errors, fmt.Sprintf("fila %d: fecha de nacimiento inválida %q", rowNum, raw))
				continue
			}
			fechaNacimiento = &parsed
		}

		var sexo *string
		if raw := strings.ToUpper(cell(row, 5)); raw != "" {
			if raw != models.SexFemale && raw != models.SexMale && raw != models.SexOther {
				result.FailedCount++
				result.Errors = append(result.Errors, fmt.Sprintf("fila %d: sexo inválido %q", rowNum, raw))
				continue
			}
			sexo = &raw
		}

		var telefono, email *string
		if raw := cell(row, 6); raw != "" {
			telefono = &raw
		}
		if raw := cell(row, 7); raw != "" {
			email = &raw
		}

		profileCodes, badCode := parseProfileCodes(cell(row, 8))
		if badCode != "" {
			result.FailedCount++
			result.Errors = append(result.Errors, fmt.Sprintf("fila %d: perfil inválido %q", rowNum, badCode))
			continue
		}

		input := CreatePersonInput{
			Nombre:          nombre,
			Apellido:        apellido,
			FechaNacimiento: fechaNacimiento,
			Sexo:            sexo,
			Telefono:        telefono,
			Email:           email,
			DNI:             dni,
			CUIL:            cuil,
		}
		person, err := CreatePerson(db, actor, input)
		if err != nil {
			result.FailedCount++
			result.Errors = append(result.Errors, fmt.Sprintf("fila %d: %v", rowNum, err))
			continue
		}

		for _, code := range profileCodes {
			if _, err := AssignProfile(db, actor, person.ID, code); err != nil {
				result.Errors = append(result.Errors, fmt.Sprintf("fila %d: perfil %s no asignado: %v", rowNum, code, err))
			}
		}

		result.SuccessCount++
	}

	return result, nil
}

func parseProfileCodes(raw string) ([]models.ProfileCode, string) {
	if raw == "" {
		return nil, ""
	}
	var codes []models.ProfileCode
	for _, part := range strings.Split(raw, "|") {
		part = strings.ToUpper(strings.TrimSpace(part))
		if part == "" {
			continue
		}
		code := models.ProfileCode(part)
		if !code.IsValid() {
			return nil, part
		}
		codes = append(codes, code)
	}
	return codes, ""
}
