package handler

import (
	"log/slog"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"filevault/internal/http/middleware"
	"filevault/internal/model"
	"filevault/internal/service"
)

type fileResponse struct {
	Message string      `json:"message"`
	File    *model.File `json:"file"`
}

type fileListResponse struct {
	Message     string       `json:"message"`
	TotalFiles  int          `json:"totalFiles"`
	TotalPages  int          `json:"totalPages"`
	CurrentPage int          `json:"currentPage"`
	PageSize    int          `json:"pageSize"`
	Files       []model.File `json:"files"`
}

// FileHandler serves the /file routes. Every route expects middleware.RequireAuth in front.
type FileHandler struct {
	svc service.FileService
	log *slog.Logger
}

// NewFileHandler constructs a FileHandler. A nil logger uses slog.Default().
func NewFileHandler(svc service.FileService, lg *slog.Logger) *FileHandler {
	if lg == nil {
		lg = slog.Default()
	}
	return &FileHandler{svc: svc, log: lg}
}

func callerID(c *fiber.Ctx) (string, bool) {
	id, ok := middleware.IdentityFrom(c)
	if !ok {
		return "", false
	}
	return id.UserID, true
}

// readUpload opens the multipart "file" part. The caller closes the returned part.
func (h *FileHandler) readUpload(c *fiber.Ctx) (service.FileUpload, func(), error) {
	fh, err := c.FormFile("file")
	if err != nil {
		return service.FileUpload{}, nil, service.ErrFileRequired
	}
	f, err := fh.Open()
	if err != nil {
		return service.FileUpload{}, nil, err
	}
	return service.FileUpload{
		Filename:    fh.Filename,
		ContentType: fh.Header.Get(fiber.HeaderContentType),
		Size:        fh.Size,
		Body:        f,
	}, func() { _ = f.Close() }, nil
}

// Upload stores a new file (multipart/form-data, field name: file).
//
// @Summary Upload file
// @Tags file
// @Security BearerAuth
// @Accept mpfd
// @Produce json
// @Param file formData file true "jpeg, png, pdf or docx"
// @Success 201 {object} fileResponse
// @Failure 400 {object} errorPayload
// @Failure 401 {object} errorPayload
// @Router /file/upload [post]
func (h *FileHandler) Upload(c *fiber.Ctx) error {
	owner, ok := callerID(c)
	if !ok {
		return writeError(c, fiber.StatusUnauthorized, "UNAUTHORIZED", "unauthorized")
	}
	in, closeFn, err := h.readUpload(c)
	if err != nil {
		return writeServiceError(c, h.log, err)
	}
	defer closeFn()

	f, err := h.svc.Upload(c.UserContext(), owner, in)
	if err != nil {
		return writeServiceError(c, h.log, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fileResponse{Message: "file uploaded", File: f})
}

// List returns one page of the caller's files.
//
// @Summary List files
// @Tags file
// @Security BearerAuth
// @Produce json
// @Param page query int false "page, 1-based" default(1)
// @Param list_size query int false "page size" default(10)
// @Success 200 {object} fileListResponse
// @Failure 401 {object} errorPayload
// @Router /file/list [get]
func (h *FileHandler) List(c *fiber.Ctx) error {
	owner, ok := callerID(c)
	if !ok {
		return writeError(c, fiber.StatusUnauthorized, "UNAUTHORIZED", "unauthorized")
	}
	page := queryInt(c, "page")
	size := queryInt(c, "list_size")

	res, err := h.svc.List(c.UserContext(), owner, page, size)
	if err != nil {
		return writeServiceError(c, h.log, err)
	}
	return c.JSON(fileListResponse{
		Message:     "file list",
		TotalFiles:  res.Total,
		TotalPages:  res.TotalPages,
		CurrentPage: res.Page,
		PageSize:    res.PageSize,
		Files:       res.Items,
	})
}

// queryInt returns 0 for a missing or malformed value so the service applies its defaults.
func queryInt(c *fiber.Ctx, key string) int {
	n, err := strconv.Atoi(c.Query(key))
	if err != nil {
		return 0
	}
	return n
}

// Get returns a file's metadata.
//
// @Summary File info
// @Tags file
// @Security BearerAuth
// @Produce json
// @Param id path string true "file id"
// @Success 200 {object} fileResponse
// @Failure 403 {object} errorPayload
// @Failure 404 {object} errorPayload
// @Router /file/{id} [get]
func (h *FileHandler) Get(c *fiber.Ctx) error {
	owner, ok := callerID(c)
	if !ok {
		return writeError(c, fiber.StatusUnauthorized, "UNAUTHORIZED", "unauthorized")
	}
	f, err := h.svc.Get(c.UserContext(), owner, c.Params("id"))
	if err != nil {
		return writeServiceError(c, h.log, err)
	}
	return c.JSON(fileResponse{Message: "file info", File: f})
}

// Download streams a file's content as an attachment.
//
// @Summary Download file
// @Tags file
// @Security BearerAuth
// @Produce octet-stream
// @Param id path string true "file id"
// @Success 200 {file} binary
// @Failure 403 {object} errorPayload
// @Failure 404 {object} errorPayload
// @Router /file/{id}/download [get]
func (h *FileHandler) Download(c *fiber.Ctx) error {
	owner, ok := callerID(c)
	if !ok {
		return writeError(c, fiber.StatusUnauthorized, "UNAUTHORIZED", "unauthorized")
	}
	f, rc, err := h.svc.Download(c.UserContext(), owner, c.Params("id"))
	if err != nil {
		return writeServiceError(c, h.log, err)
	}
	c.Attachment(f.Name)
	c.Set(fiber.HeaderContentType, f.MimeType)
	// fasthttp closes rc once the body is written.
	if f.Size > 0 {
		return c.SendStream(rc, int(f.Size))
	}
	return c.SendStream(rc)
}

// Update replaces a file's content (multipart/form-data, field name: file).
//
// @Summary Replace file
// @Tags file
// @Security BearerAuth
// @Accept mpfd
// @Produce json
// @Param id path string true "file id"
// @Param file formData file true "jpeg, png, pdf or docx"
// @Success 200 {object} fileResponse
// @Failure 400 {object} errorPayload
// @Failure 403 {object} errorPayload
// @Failure 404 {object} errorPayload
// @Router /file/update/{id} [put]
func (h *FileHandler) Update(c *fiber.Ctx) error {
	owner, ok := callerID(c)
	if !ok {
		return writeError(c, fiber.StatusUnauthorized, "UNAUTHORIZED", "unauthorized")
	}
	in, closeFn, err := h.readUpload(c)
	if err != nil {
		return writeServiceError(c, h.log, err)
	}
	defer closeFn()

	f, err := h.svc.Update(c.UserContext(), owner, c.Params("id"), in)
	if err != nil {
		return writeServiceError(c, h.log, err)
	}
	return c.JSON(fileResponse{Message: "file updated", File: f})
}

// Delete removes a file and its content.
//
// @Summary Delete file
// @Tags file
// @Security BearerAuth
// @Produce json
// @Param id path string true "file id"
// @Success 200 {object} messageResponse
// @Failure 403 {object} errorPayload
// @Failure 404 {object} errorPayload
// @Router /file/delete/{id} [delete]
func (h *FileHandler) Delete(c *fiber.Ctx) error {
	owner, ok := callerID(c)
	if !ok {
		return writeError(c, fiber.StatusUnauthorized, "UNAUTHORIZED", "unauthorized")
	}
	if err := h.svc.Delete(c.UserContext(), owner, c.Params("id")); err != nil {
		return writeServiceError(c, h.log, err)
	}
	return c.JSON(messageResponse{Message: "file deleted"})
}
