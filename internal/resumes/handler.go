package resumes

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"resume-vault/internal/shared/server/middleware"
	"resume-vault/internal/shared/server/respond"
)

const maxImportSize = 10 << 20 // 10MB

// Handler wires HTTP handlers to the service.
type Handler struct {
	Svc *Service
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

// RegisterRoutes attaches the owner-only resume routes. The group must be
// fenced by middleware.RequireAuth.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/resumes", h.create)
	rg.POST("/resumes/import", h.importResume)
	rg.POST("/resumes/import/file", h.importFile)
	rg.GET("/resumes", h.list)
	rg.PATCH("/resumes/:id", h.update)
	rg.PATCH("/resumes/:id/lock", h.lock)
	rg.DELETE("/resumes/:id", h.remove)
}

// RegisterPublicRoutes attaches routes that admit anonymous callers; the
// visibility guard decides per resume.
func (h *Handler) RegisterPublicRoutes(rg *gin.RouterGroup) {
	rg.GET("/resumes/:id", h.get)
	rg.GET("/resumes/:id/statistics", h.statistics)
	rg.GET("/resumes/:id/print", h.print)
	rg.GET("/resumes/:id/preview", h.preview)
	rg.GET("/public/:username/:slug", h.getPublic)
}

func (h *Handler) create(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)

	var req createResumeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}

	r, err := h.Svc.Create(c.Request.Context(), userID, CreateInput{
		Title:      req.Title,
		Slug:       req.Slug,
		Visibility: Visibility(req.Visibility),
		Data:       req.Data,
	})
	if err != nil {
		h.respondError(c, err, "failed to create resume")
		return
	}
	respond.JSON(c, http.StatusCreated, toResponse(r))
}

func (h *Handler) importResume(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)

	var req importResumeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}

	r, err := h.Svc.Import(c.Request.Context(), userID, ImportInput{
		Data:  req.Data,
		Title: req.Title,
		Slug:  req.Slug,
	})
	if err != nil {
		h.respondError(c, err, "failed to import resume")
		return
	}
	respond.JSON(c, http.StatusCreated, toResponse(r))
}

func (h *Handler) importFile(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxImportSize)

	fileHeader, err := c.FormFile("file")
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "file is required", nil)
		return
	}
	file, err := fileHeader.Open()
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "unable to read file", nil)
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "unable to read file", nil)
		return
	}

	r, err := h.Svc.ImportFile(
		c.Request.Context(),
		userID,
		fileHeader.Filename,
		fileHeader.Header.Get("Content-Type"),
		data,
	)
	if err != nil {
		h.respondError(c, err, "failed to import file")
		return
	}
	respond.JSON(c, http.StatusCreated, toResponse(r))
}

func (h *Handler) list(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)

	list, err := h.Svc.List(c.Request.Context(), userID)
	if err != nil {
		h.respondError(c, err, "failed to list resumes")
		return
	}
	resp := make([]ResumeResponse, 0, len(list))
	for _, r := range list {
		resp = append(resp, toResponse(r))
	}
	respond.JSON(c, http.StatusOK, resp)
}

func (h *Handler) get(c *gin.Context) {
	callerID := middleware.UserIDFromContext(c)
	c.Set("resumeId", c.Param("id"))

	r, err := h.Svc.Get(c.Request.Context(), c.Param("id"), callerID)
	if err != nil {
		h.respondError(c, err, "failed to fetch resume")
		return
	}
	respond.JSON(c, http.StatusOK, toResponse(r))
}

func (h *Handler) getPublic(c *gin.Context) {
	callerID := middleware.UserIDFromContext(c)

	r, err := h.Svc.GetPublic(c.Request.Context(), c.Param("username"), c.Param("slug"), callerID)
	if err != nil {
		h.respondError(c, err, "failed to fetch resume")
		return
	}
	respond.JSON(c, http.StatusOK, toResponse(r))
}

func (h *Handler) update(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)
	c.Set("resumeId", c.Param("id"))

	var req updateResumeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}

	r, err := h.Svc.Update(c.Request.Context(), userID, c.Param("id"), req.toPatch())
	if err != nil {
		h.respondError(c, err, "failed to update resume")
		return
	}
	respond.JSON(c, http.StatusOK, toResponse(r))
}

func (h *Handler) lock(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)
	c.Set("resumeId", c.Param("id"))

	var req lockResumeRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Locked == nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "locked is required", nil)
		return
	}

	r, err := h.Svc.Lock(c.Request.Context(), userID, c.Param("id"), *req.Locked)
	if err != nil {
		h.respondError(c, err, "failed to toggle lock")
		return
	}
	respond.JSON(c, http.StatusOK, toResponse(r))
}

func (h *Handler) remove(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)
	c.Set("resumeId", c.Param("id"))

	if err := h.Svc.Delete(c.Request.Context(), userID, c.Param("id")); err != nil {
		h.respondError(c, err, "failed to delete resume")
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) print(c *gin.Context) {
	callerID := middleware.UserIDFromContext(c)
	c.Set("resumeId", c.Param("id"))

	url, err := h.Svc.Print(c.Request.Context(), c.Param("id"), callerID)
	if err != nil {
		h.respondError(c, err, "failed to print resume")
		return
	}
	respond.JSON(c, http.StatusOK, URLResponse{URL: url})
}

func (h *Handler) preview(c *gin.Context) {
	callerID := middleware.UserIDFromContext(c)
	c.Set("resumeId", c.Param("id"))

	url, err := h.Svc.Preview(c.Request.Context(), c.Param("id"), callerID)
	if err != nil {
		h.respondError(c, err, "failed to render preview")
		return
	}
	respond.JSON(c, http.StatusOK, URLResponse{URL: url})
}

func (h *Handler) statistics(c *gin.Context) {
	callerID := middleware.UserIDFromContext(c)
	c.Set("resumeId", c.Param("id"))

	counts, err := h.Svc.Statistics(c.Request.Context(), c.Param("id"), callerID)
	if err != nil {
		h.respondError(c, err, "failed to fetch statistics")
		return
	}
	respond.JSON(c, http.StatusOK, counts)
}

// respondError maps the pipeline's failure taxonomy onto the error envelope.
// Slug conflicts stay distinguishable so the client can prompt for another
// slug; not-found never reveals whether the id exists under another owner.
func (h *Handler) respondError(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, ErrNotFound):
		respond.Error(c, http.StatusNotFound, "not_found", "resume not found", nil)
	case errors.Is(err, ErrLocked):
		respond.Error(c, http.StatusLocked, "resume_locked", "resume is locked", nil)
	case errors.Is(err, ErrSlugConflict):
		respond.Error(c, http.StatusConflict, "slug_conflict", "a resume with this slug already exists", nil)
	case errors.Is(err, ErrInvalidInput):
		respond.Error(c, http.StatusBadRequest, "validation_error", err.Error(), nil)
	default:
		respond.Error(c, http.StatusInternalServerError, "internal_error", fallback, nil)
	}
}
