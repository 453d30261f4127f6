package handlers

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"legajo_app_go/db"
	"legajo_app_go/middleware"
	"legajo_app_go/models"
	"legajo_app_go/services"

	"github.com/labstack/echo/v4"
)

// contractRequest is the wire shape for contract creation. Dates travel as
// AAAA-MM-DD strings.
type contractRequest struct {
	PersonID      string                       `json:"person_id"`
	Periodo       string                       `json:"periodo"`
	FechaInicio   string                       `json:"fecha_inicio"`
	FechaFin      *string                      `json:"fecha_fin,omitempty"`
	Observaciones *string                      `json:"observaciones,omitempty"`
	Items         []services.ContractItemInput `json:"items"`
}

func (r *contractRequest) toInput(kind models.ContractKind) (services.CreateContractInput, error) {
	input := services.CreateContractInput{
		Kind:          kind,
		PersonID:      r.PersonID,
		Periodo:       r.Periodo,
		Observaciones: r.Observaciones,
		Items:         r.Items,
	}

	if r.FechaInicio != "" {
		parsed, err := time.Parse("2006-01-02", r.FechaInicio)
		if err != nil {
			return input, fmt.Errorf("fecha_inicio inválida: %q", r.FechaInicio)
		}
		input.FechaInicio = parsed
	}
	if r.FechaFin != nil && *r.FechaFin != "" {
		parsed, err := time.Parse("2006-01-02", *r.FechaFin)
		if err != nil {
			return input, fmt.Errorf("fecha_fin inválida: %q", *r.FechaFin)
		}
		input.FechaFin = &parsed
	}
	return input, nil
}

func createContract(c echo.Context, kind models.ContractKind) error {
	var req contractRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}

	input, err := req.toInput(kind)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}

	actor := middleware.GetActor(c)
	contract, err := services.CreateContract(db.DB, actor, input)
	if err != nil {
		return mapServiceError(c, err)
	}
	return c.JSON(http.StatusCreated, contract)
}

// CreateGeneralContractHandler issues a GENERAL contract
func CreateGeneralContractHandler(c echo.Context) error {
	return createContract(c, models.ContractKindGeneral)
}

// CreateProfessorContractHandler issues a PROFESOR contract
func CreateProfessorContractHandler(c echo.Context) error {
	return createContract(c, models.ContractKindProfesor)
}

func contractIDParam(c echo.Context) (uint, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "invalid contract id")
	}
	return uint(id), nil
}

// GetContractHandler returns one contract with its items
func GetContractHandler(c echo.Context) error {
	id, err := contractIDParam(c)
	if err != nil {
		return err
	}

	contract, err := services.GetContractByID(db.DB, id)
	if err != nil {
		return mapServiceError(c, err)
	}
	return c.JSON(http.StatusOK, contract)
}

// GetPersonContractsHandler lists a person's contracts, newest first
func GetPersonContractsHandler(c echo.Context) error {
	contracts, err := services.GetContractsByPerson(db.DB, c.Param("id"))
	if err != nil {
		return mapServiceError(c, err)
	}
	return c.JSON(http.StatusOK, contracts)
}

// DeleteContractHandler removes a contract and returns the deleted row
func DeleteContractHandler(c echo.Context) error {
	id, err := contractIDParam(c)
	if err != nil {
		return err
	}

	actor := middleware.GetActor(c)
	deleted, err := services.DeleteContract(db.DB, actor, id)
	if err != nil {
		return mapServiceError(c, err)
	}
	return c.JSON(http.StatusOK, deleted)
}

// UpdateContractHandler rejects edits: contracts are delete-and-reissue
func UpdateContractHandler(c echo.Context) error {
	return mapServiceError(c, services.ErrContractImmutable)
}

// GetContractPDFHandler streams the printable constancia
func GetContractPDFHandler(c echo.Context) error {
	id, err := contractIDParam(c)
	if err != nil {
		return err
	}

	pdf, err := services.GenerateContractPDF(db.DB, id)
	if err != nil {
		return mapServiceError(c, err)
	}

	c.Response().Header().Set(echo.HeaderContentDisposition,
		fmt.Sprintf(`attachment; filename="contrato_%d.pdf"`, id))
	return c.Blob(http.StatusOK, "application/pdf", pdf)
}
