package handler

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"

	"urudzbenik/internal/model"
	"urudzbenik/internal/repository"
	"urudzbenik/internal/service"
)

// MaxPDFSize is the upload ceiling for a single attachment. Larger files are
// rejected at the boundary, before any service logic runs.
const MaxPDFSize = 10 << 20 // 10 MiB

// RegisterRoutes attaches HTTP routes to the provided Fiber app.
// Handlers stay thin: parse, delegate to the service, map errors.
func RegisterRoutes(app *fiber.App, db *sql.DB, docSvc service.DocumentService) {
	// Serve the handwritten OpenAPI spec and a Swagger UI shell for it
	app.Get("/openapi.yaml", func(c *fiber.Ctx) error {
		c.Type("yaml")
		return c.SendFile("openapi.yaml")
	})
	app.Get("/docs", func(c *fiber.Ctx) error {
		html := `<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="UTF-8" />
  <meta name="viewport" content="width=device-width, initial-scale=1" />
  <title>API Docs</title>
  <link rel="stylesheet" href="https://unpkg.com/swagger-ui-dist@5/swagger-ui.css" />
</head>
<body>
  <div id="swagger-ui"></div>
  <script src="https://unpkg.com/swagger-ui-dist@5/swagger-ui-bundle.js"></script>
  <script>
    window.ui = SwaggerUIBundle({
      url: '/openapi.yaml',
      dom_id: '#swagger-ui',
      presets: [SwaggerUIBundle.presets.apis],
      layout: 'BaseLayout'
    });
  </script>
</body>
</html>`
		return c.Type("html").SendString(html)
	})

	// Service banner
	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"message": "correspondence registry API is running"})
	})

	// Health endpoint: checks DB connectivity only
	app.Get("/health", HealthCheck(db))

	// Simple liveness probe
	app.Get("/healthz", func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	})

	app.Get("/documents", ListDocuments(docSvc))
	app.Post("/documents", CreateDocument(docSvc))
	app.Get("/documents/next-number/:direction", NextNumber(docSvc))
	app.Put("/documents/:id", UpdateDocument(docSvc))
	app.Delete("/documents/:id", DeleteDocument(docSvc))
	app.Get("/documents/:id/download", DownloadAttachment(docSvc))
	app.Delete("/documents/:id/attachment", DeleteAttachment(docSvc))
}

// HealthCheck pings the database with a short timeout.
func HealthCheck(db *sql.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx, cancel := context.WithTimeout(c.UserContext(), 2*time.Second)
		defer cancel()
		if err := db.PingContext(ctx); err != nil {
			return writeError(c, fiber.StatusServiceUnavailable, "SERVICE_UNAVAILABLE", "dependency unavailable")
		}
		return c.Status(fiber.StatusOK).JSON(fiber.Map{"status": "healthy"})
	}
}

// ListDocuments translates the optional query criteria into a filter and
// returns the full matching set, newest-created first.
func ListDocuments(docSvc service.DocumentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var f repository.DocumentFilter

		if v := c.Query("year"); v != "" {
			year, err := strconv.Atoi(v)
			if err != nil {
				return writeError(c, fiber.StatusBadRequest, "VALIDATION_ERROR", "invalid year")
			}
			f.Year = year
		}
		f.TitleContains = c.Query("title")
		f.RegistryNumberContains = c.Query("registry_number")
		if v := c.Query("date_from"); v != "" {
			d, err := model.ParseDate(v)
			if err != nil {
				return writeError(c, fiber.StatusBadRequest, "VALIDATION_ERROR", "invalid date_from: want YYYY-MM-DD")
			}
			f.DateFrom = d
		}
		if v := c.Query("date_to"); v != "" {
			d, err := model.ParseDate(v)
			if err != nil {
				return writeError(c, fiber.StatusBadRequest, "VALIDATION_ERROR", "invalid date_to: want YYYY-MM-DD")
			}
			f.DateTo = d
		}
		if v := c.Query("type"); v != "" {
			dir, err := model.ParseDirectionFilter(v)
			if err != nil {
				return writeError(c, fiber.StatusBadRequest, "VALIDATION_ERROR", "invalid type: want outgoing or incoming")
			}
			f.Direction = dir
		}

		docs, err := docSvc.List(c.UserContext(), f)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(docs)
	}
}

// CreateDocument accepts a multipart form with document fields and an
// optional single PDF part named "pdf".
func CreateDocument(docSvc service.DocumentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		input := service.CreateDocumentInput{
			FlowDirection:  model.FlowDirection(c.FormValue("type")),
			Sender:         c.FormValue("sender"),
			RegistryNumber: c.FormValue("registry_number"),
			Title:          c.FormValue("title"),
			Notes:          c.FormValue("notes"),
		}
		if v := c.FormValue("date"); v != "" {
			d, err := model.ParseDate(v)
			if err != nil {
				return writeError(c, fiber.StatusBadRequest, "VALIDATION_ERROR", "invalid date: want YYYY-MM-DD")
			}
			input.Date = d
		}

		upload, closeUpload, err := pdfUpload(c)
		if err != nil {
			return writeUploadError(c, err)
		}
		if closeUpload != nil {
			defer closeUpload()
		}

		res, err := docSvc.Create(c.UserContext(), input, upload)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(fiber.Map{
			"id":           res.ID,
			"message":      "document created",
			"pdf_uploaded": res.PDFUploaded,
			"pdf_filename": res.PDFFilename,
		})
	}
}

// UpdateDocument applies all editable fields and optionally replaces the
// attachment with a new single PDF part.
func UpdateDocument(docSvc service.DocumentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		input := service.UpdateDocumentInput{
			Sender:         c.FormValue("sender"),
			RegistryNumber: c.FormValue("registry_number"),
			Title:          c.FormValue("title"),
			Notes:          c.FormValue("notes"),
		}
		if v := c.FormValue("date"); v != "" {
			d, err := model.ParseDate(v)
			if err != nil {
				return writeError(c, fiber.StatusBadRequest, "VALIDATION_ERROR", "invalid date: want YYYY-MM-DD")
			}
			input.Date = d
		}

		upload, closeUpload, err := pdfUpload(c)
		if err != nil {
			return writeUploadError(c, err)
		}
		if closeUpload != nil {
			defer closeUpload()
		}

		res, err := docSvc.Update(c.UserContext(), c.Params("id"), input, upload)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(fiber.Map{
			"message":      "document updated",
			"pdf_updated":  res.PDFUpdated,
			"pdf_filename": res.PDFFilename,
		})
	}
}

// DeleteDocument removes the row and its attachment file, if any.
func DeleteDocument(docSvc service.DocumentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if err := docSvc.Delete(c.UserContext(), c.Params("id")); err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(fiber.Map{"message": "document deleted"})
	}
}

// NextNumber suggests the next registry number for the direction in the
// current year. The suggestion is not reserved.
func NextNumber(docSvc service.DocumentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		direction, err := model.ParseFlowDirection(c.Params("direction"))
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "VALIDATION_ERROR", "invalid direction")
		}
		number, err := docSvc.NextNumber(c.UserContext(), direction)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(fiber.Map{"registry_number": number})
	}
}

// DownloadAttachment streams the stored PDF with a filename derived from the
// document title.
func DownloadAttachment(docSvc service.DocumentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		rc, info, err := docSvc.FetchAttachment(c.UserContext(), c.Params("id"))
		if err != nil {
			return writeServiceError(c, err)
		}

		c.Set(fiber.HeaderContentType, info.ContentType)
		c.Set(fiber.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", info.Filename))
		if info.Size > 0 {
			return c.SendStream(rc, int(info.Size))
		}
		return c.SendStream(rc)
	}
}

// DeleteAttachment removes only the attachment, leaving the document in place.
func DeleteAttachment(docSvc service.DocumentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if err := docSvc.RemoveAttachment(c.UserContext(), c.Params("id")); err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(fiber.Map{"message": "attachment removed"})
	}
}

// Boundary violations for the "pdf" multipart part.
var (
	errTooManyFiles = errors.New("only one PDF attachment per request")
	errNotPDF       = errors.New("only PDF files are allowed")
	errFileTooLarge = errors.New("file too large: maximum size is 10 MiB")
	errFileOpen     = errors.New("cannot open uploaded file")
)

// writeUploadError maps a pdfUpload violation onto a 400 response.
func writeUploadError(c *fiber.Ctx, err error) error {
	code := "VALIDATION_ERROR"
	switch {
	case errors.Is(err, errNotPDF):
		code = "INVALID_FILE_TYPE"
	case errors.Is(err, errFileTooLarge):
		code = "FILE_TOO_LARGE"
	case errors.Is(err, errFileOpen):
		code = "FILE_OPEN_ERROR"
	}
	return writeError(c, fiber.StatusBadRequest, code, err.Error())
}

// pdfUpload extracts and validates the optional "pdf" multipart part. All
// boundary rules live here: at most one file, PDF content type, size cap.
// A nil upload with a nil error means no file was sent.
func pdfUpload(c *fiber.Ctx) (*service.AttachmentUpload, func(), error) {
	form, err := c.MultipartForm()
	if err != nil {
		// Not a multipart request at all; treat as fields-only.
		return nil, nil, nil
	}
	files := form.File["pdf"]
	if len(files) == 0 {
		return nil, nil, nil
	}
	if len(files) > 1 {
		return nil, nil, errTooManyFiles
	}

	fh := files[0]
	if fh.Header.Get("Content-Type") != "application/pdf" {
		return nil, nil, errNotPDF
	}
	if fh.Size > MaxPDFSize {
		return nil, nil, errFileTooLarge
	}

	f, err := fh.Open()
	if err != nil {
		return nil, nil, errFileOpen
	}

	return &service.AttachmentUpload{
		Reader:   f,
		Filename: fh.Filename,
		Size:     fh.Size,
	}, func() { f.Close() }, nil
}
