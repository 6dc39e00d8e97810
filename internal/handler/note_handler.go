package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"notes-service/internal/apperr"
	"notes-service/internal/middleware"
	"notes-service/internal/model"
	"notes-service/internal/policy"
	"notes-service/internal/store"
	"notes-service/pkg/logger"
	"notes-service/prometheus"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// NoteStore is the slice of the store the note handler needs. Every
// read is tenant-scoped; a note outside the caller's tenant is a
// not-found, never a forbidden.
type NoteStore interface {
	CreateNote(ctx context.Context, note *model.Note) error
	FindNoteByID(ctx context.Context, tenantID, id uint) (*model.Note, error)
	ListNotesByTenant(ctx context.Context, tenantID uint) ([]model.Note, error)
	UpdateNote(ctx context.Context, note *model.Note) error
	DeleteNote(ctx context.Context, tenantID, id uint) error
}

// NoteHandler serves the tenant-scoped note CRUD surface.
type NoteHandler struct {
	store NoteStore
	gate  *policy.SubscriptionGate
}

func NewNoteHandler(s NoteStore, gate *policy.SubscriptionGate) *NoteHandler {
	return &NoteHandler{store: s, gate: gate}
}

type noteRequest struct {
	Title   string   `json:"title"`
	Content string   `json:"content"`
	Tags    []string `json:"tags"`
}

func (r *noteRequest) validate() error {
	if r.Title == "" {
		return apperr.InvalidRequest("title is required")
	}
	if len(r.Title) > model.MaxTitleLength {
		return apperr.InvalidRequest("title exceeds 200 characters")
	}
	if len(r.Content) > model.MaxContentLength {
		return apperr.InvalidRequest("content exceeds 10000 characters")
	}
	return nil
}

// Create makes a new note after the subscription gate admits it. The
// note's tenant is stamped from the author's tenant here, at creation
// time, and is never writable again.
func (h *NoteHandler) Create(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordNoteOperation("create")

	user, ok := middleware.UserFromContext(c)
	if !ok {
		return httpError(c, apperr.Unauthenticated("authentication required"))
	}
	tenant, _ := middleware.TenantFromContext(c)

	var req noteRequest
	if err := c.Bind(&req); err != nil {
		log.Error("Failed to parse note request", zap.Error(err))
		return httpError(c, apperr.InvalidRequest("invalid request"))
	}
	if err := req.validate(); err != nil {
		return httpError(c, err)
	}

	// The gate runs before any mutating store call; a rejected create
	// commits nothing.
	if err := h.gate.CanCreateNote(c.Request().Context(), tenant); err != nil {
		if apperr.KindOf(err) == apperr.KindForbidden {
			log.Warn("Note creation rejected by quota",
				zap.String("tenant_slug", tenant.Slug),
				zap.Uint("user_id", user.ID))
			prometheus.RecordQuotaRejection(tenant.Slug)
		} else {
			log.Error("Subscription gate failed", zap.Error(err))
		}
		return httpError(c, err)
	}

	note := model.Note{
		Title:    req.Title,
		Content:  req.Content,
		Tags:     req.Tags,
		AuthorID: user.ID,
		TenantID: user.TenantID,
	}

	defer prometheus.TrackDBOperation("insert")(time.Now())
	if err := h.store.CreateNote(c.Request().Context(), &note); err != nil {
		log.Error("Failed to create note", zap.Error(err))
		return httpError(c, err)
	}

	log.Info("Note created",
		zap.Uint("note_id", note.ID),
		zap.Uint("author_id", user.ID),
		zap.String("tenant_slug", tenant.Slug))

	return c.JSON(http.StatusCreated, note)
}

// List returns all notes of the caller's tenant.
func (h *NoteHandler) List(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordNoteOperation("list")

	tenant, ok := middleware.TenantFromContext(c)
	if !ok {
		return httpError(c, apperr.Unauthenticated("authentication required"))
	}

	defer prometheus.TrackDBOperation("query")(time.Now())
	notes, err := h.store.ListNotesByTenant(c.Request().Context(), tenant.ID)
	if err != nil {
		log.Error("Failed to list notes", zap.Error(err))
		return httpError(c, err)
	}

	return c.JSON(http.StatusOK, echo.Map{"notes": notes})
}

// Get returns one note of the caller's tenant.
func (h *NoteHandler) Get(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordNoteOperation("get")

	tenant, ok := middleware.TenantFromContext(c)
	if !ok {
		return httpError(c, apperr.Unauthenticated("authentication required"))
	}

	note, err := h.fetchNote(c, tenant.ID)
	if err != nil {
		log.Debug("Note fetch failed", zap.Error(err))
		return httpError(c, err)
	}

	return c.JSON(http.StatusOK, note)
}

// Update rewrites a note's title, content and tags, subject to the
// ownership policy.
func (h *NoteHandler) Update(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordNoteOperation("update")

	user, ok := middleware.UserFromContext(c)
	if !ok {
		return httpError(c, apperr.Unauthenticated("authentication required"))
	}
	tenant, _ := middleware.TenantFromContext(c)

	note, err := h.fetchNote(c, tenant.ID)
	if err != nil {
		return httpError(c, err)
	}

	if !policy.CanModifyNote(note, user) {
		log.Warn("Note update denied",
			zap.Uint("note_id", note.ID),
			zap.Uint("user_id", user.ID))
		prometheus.RecordAuthError("note_not_owned")
		return httpError(c, apperr.Forbidden("only the author or a tenant admin may modify this note"))
	}

	var req noteRequest
	if err := c.Bind(&req); err != nil {
		log.Error("Failed to parse note request", zap.Error(err))
		return httpError(c, apperr.InvalidRequest("invalid request"))
	}
	if err := req.validate(); err != nil {
		return httpError(c, err)
	}

	note.Title = req.Title
	note.Content = req.Content
	note.Tags = req.Tags

	defer prometheus.TrackDBOperation("update")(time.Now())
	if err := h.store.UpdateNote(c.Request().Context(), note); err != nil {
		log.Error("Failed to update note", zap.Error(err))
		return httpError(c, err)
	}

	return c.JSON(http.StatusOK, note)
}

// Delete hard-deletes a note, subject to the same ownership policy as
// Update.
func (h *NoteHandler) Delete(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordNoteOperation("delete")

	user, ok := middleware.UserFromContext(c)
	if !ok {
		return httpError(c, apperr.Unauthenticated("authentication required"))
	}
	tenant, _ := middleware.TenantFromContext(c)

	note, err := h.fetchNote(c, tenant.ID)
	if err != nil {
		return httpError(c, err)
	}

	if !policy.CanModifyNote(note, user) {
		log.Warn("Note delete denied",
			zap.Uint("note_id", note.ID),
			zap.Uint("user_id", user.ID))
		prometheus.RecordAuthError("note_not_owned")
		return httpError(c, apperr.Forbidden("only the author or a tenant admin may delete this note"))
	}

	defer prometheus.TrackDBOperation("delete")(time.Now())
	if err := h.store.DeleteNote(c.Request().Context(), tenant.ID, note.ID); err != nil {
		log.Error("Failed to delete note", zap.Error(err))
		return httpError(c, err)
	}

	log.Info("Note deleted", zap.Uint("note_id", note.ID), zap.Uint("user_id", user.ID))
	return c.NoContent(http.StatusNoContent)
}

func (h *NoteHandler) fetchNote(c echo.Context, tenantID uint) (*model.Note, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return nil, apperr.InvalidRequest("invalid note id")
	}

	note, err := h.store.FindNoteByID(c.Request().Context(), tenantID, uint(id))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, apperr.NotFound("note not found")
		}
		return nil, apperr.Internal("note lookup", err)
	}
	return note, nil
}
