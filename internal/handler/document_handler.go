package handler

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	apperrors "carteira/internal/errors"
	"carteira/internal/service"
	"carteira/internal/storage"
)

// DocumentHandler handles document upload, listing, download and deletion.
type DocumentHandler struct {
	documentService service.DocumentService
	storage         *storage.LocalStorage
}

// NewDocumentHandler creates a new document handler.
func NewDocumentHandler(documentService service.DocumentService, storage *storage.LocalStorage) *DocumentHandler {
	return &DocumentHandler{documentService: documentService, storage: storage}
}

// Create godoc
// @Summary Upload a document
// @Tags documents
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param file formData file true "Document file"
// @Param document_type formData string true "Document type (free text, normalized)"
// @Param name formData string true "Display name"
// @Success 201 {object} model.Document
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /documents [post]
func (h *DocumentHandler) Create(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, apperrors.ErrorResponse{
			Error: "file is required",
			Code:  "INVALID_REQUEST",
		})
	}
	name := c.FormValue("name")
	if name == "" {
		name = fileHeader.Filename
	}
	docType := c.FormValue("document_type")

	src, err := fileHeader.Open()
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, apperrors.ErrorResponse{
			Error: "unable to read uploaded file",
			Code:  "INVALID_REQUEST",
		})
	}
	defer src.Close()

	document, err := h.documentService.Create(c.Request().Context(), userID, docType, name, fileHeader.Filename, src)
	if err != nil {
		httpErr := apperrors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}

	return c.JSON(http.StatusCreated, document)
}

// List godoc
// @Summary List the current user's documents
// @Tags documents
// @Produce json
// @Security BearerAuth
// @Success 200 {array} model.Document
// @Failure 401 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /documents [get]
func (h *DocumentHandler) List(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}

	documents, err := h.documentService.ListByUser(c.Request().Context(), userID)
	if err != nil {
		httpErr := apperrors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}

	return c.JSON(http.StatusOK, documents)
}

// Get godoc
// @Summary Get document metadata
// @Tags documents
// @Produce json
// @Security BearerAuth
// @Param id path string true "Document ID"
// @Success 200 {object} model.Document
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /documents/{id} [get]
func (h *DocumentHandler) Get(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}
	documentID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, apperrors.ErrorResponse{
			Error: "invalid document ID",
			Code:  "INVALID_UUID",
		})
	}

	document, err := h.documentService.Get(c.Request().Context(), documentID, userID)
	if err != nil {
		httpErr := apperrors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}

	return c.JSON(http.StatusOK, document)
}

// Download godoc
// @Summary Download the stored document file
// @Tags documents
// @Produce octet-stream
// @Security BearerAuth
// @Param id path string true "Document ID"
// @Success 200 {file} binary
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /documents/{id}/download [get]
func (h *DocumentHandler) Download(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}
	documentID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, apperrors.ErrorResponse{
			Error: "invalid document ID",
			Code:  "INVALID_UUID",
		})
	}

	document, err := h.documentService.Get(c.Request().Context(), documentID, userID)
	if err != nil {
		httpErr := apperrors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}

	return c.Attachment(h.storage.AbsolutePath(document.FilePath), document.Name)
}

// Delete godoc
// @Summary Delete a document and its stored file
// @Tags documents
// @Produce json
// @Security BearerAuth
// @Param id path string true "Document ID"
// @Success 200 {object} map[string]string
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /documents/{id} [delete]
func (h *DocumentHandler) Delete(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}
	documentID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, apperrors.ErrorResponse{
			Error: "invalid document ID",
			Code:  "INVALID_UUID",
		})
	}

	if err := h.documentService.Delete(c.Request().Context(), documentID, userID); err != nil {
		httpErr := apperrors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}

	return c.JSON(http.StatusOK, map[string]string{
		"message": "document deleted successfully",
	})
}
