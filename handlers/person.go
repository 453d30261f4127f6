package handlers

import (
	"net/http"

	"legajo_app_go/db"
	"legajo_app_go/middleware"
	"legajo_app_go/models"
	"legajo_app_go/services"

	"github.com/labstack/echo/v4"
)

// CreatePersonHandler registers a person in the system
func CreatePersonHandler(c echo.Context) error {
	var input services.CreatePersonInput
	if err := c.Bind(&input); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}

	actor := middleware.GetActor(c)
	person, err := services.CreatePerson(db.DB, actor, input)
	if err != nil {
		return mapServiceError(c, err)
	}
	return c.JSON(http.StatusCreated, person)
}

// GetPersonHandler returns a person with the dossier preloaded
func GetPersonHandler(c echo.Context) error {
	person, err := services.GetPersonByID(db.DB, c.Param("id"))
	if err != nil {
		return mapServiceError(c, err)
	}
	return c.JSON(http.StatusOK, person)
}

// UpdatePersonHandler applies a partial edit to the identity core
func UpdatePersonHandler(c echo.Context) error {
	var input services.UpdatePersonInput
	if err := c.Bind(&input); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}

	person, err := services.UpdatePerson(db.DB, c.Param("id"), input)
	if err != nil {
		return mapServiceError(c, err)
	}
	return c.JSON(http.StatusOK, person)
}

type identificationRequest struct {
	DNI  string `json:"dni"`
	CUIL string `json:"cuil"`
}

// UpsertIdentificationHandler sets the person's DNI/CUIL pair
func UpsertIdentificationHandler(c echo.Context) error {
	var req identificationRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}

	ident, err := services.UpsertIdentification(db.DB, c.Param("id"), req.DNI, req.CUIL)
	if err != nil {
		return mapServiceError(c, err)
	}
	return c.JSON(http.StatusOK, ident)
}

// AddDomicileHandler appends a declared address
func AddDomicileHandler(c echo.Context) error {
	var domicile models.Domicile
	if err := c.Bind(&domicile); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}

	if err := services.AddDomicile(db.DB, c.Param("id"), &domicile); err != nil {
		return mapServiceError(c, err)
	}
	return c.JSON(http.StatusCreated, domicile)
}

// AddTitleHandler appends an academic title
func AddTitleHandler(c echo.Context) error {
	var title models.Title
	if err := c.Bind(&title); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}

	if err := services.AddTitle(db.DB, c.Param("id"), &title); err != nil {
		return mapServiceError(c, err)
	}
	return c.JSON(http.StatusCreated, title)
}

type profileRequest struct {
	Codigo string `json:"codigo"`
}

// AssignProfileHandler activates a profile for the person
func AssignProfileHandler(c echo.Context) error {
	var req profileRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}

	actor := middleware.GetActor(c)
	assignment, err := services.AssignProfile(db.DB, actor, c.Param("id"), models.ProfileCode(req.Codigo))
	if err != nil {
		return mapServiceError(c, err)
	}
	return c.JSON(http.StatusCreated, assignment)
}

// RevokeProfileHandler deactivates a profile assignment
func RevokeProfileHandler(c echo.Context) error {
	err := services.RevokeProfile(db.DB, c.Param("id"), models.ProfileCode(c.Param("codigo")))
	if err != nil {
		return mapServiceError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// UploadDocumentHandler stores a dossier file
func UploadDocumentHandler(c echo.Context) error {
	tipoCodigo := c.FormValue("tipo_codigo")
	file, err := c.FormFile("file")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "file is required"})
	}

	actor := middleware.GetActor(c)
	doc, err := services.UploadPersonDocument(db.DB, actor, c.Param("id"), tipoCodigo, file)
	if err != nil {
		return mapServiceError(c, err)
	}
	return c.JSON(http.StatusCreated, doc)
}

// ListDocumentsHandler lists the dossier files
func ListDocumentsHandler(c echo.Context) error {
	docs, err := services.ListPersonDocuments(db.DB, c.Param("id"))
	if err != nil {
		return mapServiceError(c, err)
	}
	return c.JSON(http.StatusOK, docs)
}

// DownloadDocumentHandler streams a dossier file back
func DownloadDocumentHandler(c echo.Context) error {
	reader, doc, err := services.GetDocumentContent(db.DB, c.Param("id"), c.Param("docId"))
	if err != nil {
		return mapServiceError(c, err)
	}
	defer reader.Close()

	c.Response().Header().Set(echo.HeaderContentDisposition,
		`attachment; filename="`+doc.FileOriginalName+`"`)
	return c.Stream(http.StatusOK, doc.MimeType, reader)
}

// DeleteDocumentHandler removes a dossier file
func DeleteDocumentHandler(c echo.Context) error {
	if err := services.DeletePersonDocument(db.DB, c.Param("id"), c.Param("docId")); err != nil {
		return mapServiceError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// ImportPersonsHandler runs the bulk Excel registration
func ImportPersonsHandler(c echo.Context) error {
	file, err := c.FormFile("file")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "file is required"})
	}
	src, err := file.Open()
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "could not open uploaded file"})
	}
	defer src.Close()

	actor := middleware.GetActor(c)
	result, err := services.ImportPersonsFromExcel(db.DB, actor, src)
	if err != nil {
		return mapServiceError(c, err)
	}
	return c.JSON(http.StatusOK, result)
}

// ImportTemplateHandler serves the Excel template for bulk registration
func ImportTemplateHandler(c echo.Context) error {
	buf, err := services.GeneratePersonImportTemplate(db.DB)
	if err != nil {
		return mapServiceError(c, err)
	}

	c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="plantilla_personas.xlsx"`)
	return c.Blob(http.StatusOK,
		"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", buf.Bytes())
}
