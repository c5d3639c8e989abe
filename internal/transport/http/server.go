package http

import (
	"context"
	"errors"
	"log/slog"
	"mime/multipart"
	"net/http"

	"sunami_park/internal/domain/models"
	"sunami_park/internal/lib/logger/sl"
	"sunami_park/internal/realtime"
	editservice "sunami_park/internal/services/edit_service"
	stateservice "sunami_park/internal/services/state_service"
	"sunami_park/internal/storage"
	"sunami_park/internal/transport/http/dto"
	"sunami_park/internal/transport/http/dto/response"

	"github.com/google/uuid"
	"github.com/labstack/echo-contrib/session"
	"github.com/labstack/echo/v4"

	_ "sunami_park/docs"
)

type StateService interface {
	Settings() *models.ParkSettings
	Items() []models.GalleryItem
	Loading() bool
	Loaded() bool
	Load(ctx context.Context) error
	UpdateSettings(ctx context.Context, upd models.SettingsUpdate) (*models.ParkSettings, error)
	AddGalleryUpload(ctx context.Context, file *multipart.FileHeader) (*models.GalleryItem, error)
	AddGalleryURL(ctx context.Context, fileURL, fileName string, fileType models.FileType) (*models.GalleryItem, error)
	UpdateGalleryItem(ctx context.Context, id uuid.UUID, upd models.GalleryItemUpdate) (*models.GalleryItem, error)
	RemoveGalleryItem(ctx context.Context, id uuid.UUID) error
}

type AdminService interface {
	LogoClick(ctx context.Context, visitorID string) (revealed bool, clicks int64, err error)
	Dismiss(ctx context.Context, visitorID string) error
	Login(ctx context.Context, visitorID, username, password string) (string, error)
}

type EditService interface {
	Phase(section editservice.Section) (editservice.Phase, error)
	Draft(section editservice.Section) (models.SettingsUpdate, error)
	StartEdit(section editservice.Section) error
	SetDraft(section editservice.Section, upd models.SettingsUpdate) error
	Cancel(section editservice.Section) error
	Save(ctx context.Context, section editservice.Section) (*models.ParkSettings, error)
	ResetAll()
}

type Routers struct {
	log          *slog.Logger
	StateService StateService
	AdminService AdminService
	EditService  EditService
	Feed         *realtime.Broker
}

func NewRouter(log *slog.Logger, stateService StateService, adminService AdminService, editService EditService, feed *realtime.Broker) *Routers {
	return &Routers{
		log:          log,
		StateService: stateService,
		AdminService: adminService,
		EditService:  editService,
		Feed:         feed,
	}
}

// GetSettings godoc
// @Summary Current park settings
// @Description Operating hours, ticket prices and facility fees shown on the public site.
// @Tags park
// @Produce json
// @Success 200 {object} response.Response{data=models.ParkSettings}
// @Failure 503 {object} response.ErrorResponse "Content not loaded yet"
// @Router /api/v1/park/settings [get]
func (r *Routers) GetSettings(c echo.Context) error {
	const op = "http.routers.GetSettings"

	settings := r.StateService.Settings()
	if settings == nil {
		// First request can arrive before the startup load finished.
		if err := r.StateService.Load(c.Request().Context()); err != nil {
			r.log.With(slog.String("op", op)).Error("failed to load park state", sl.Err(err))
			return c.JSON(http.StatusServiceUnavailable, response.ErrStateNotLoaded)
		}
		settings = r.StateService.Settings()
	}
	if settings == nil {
		return c.JSON(http.StatusServiceUnavailable, response.ErrStateNotLoaded)
	}

	return c.JSON(http.StatusOK, response.SuccessResponse(settings))
}

// GetGallery godoc
// @Summary Public gallery
// @Description Gallery items ordered by display position.
// @Tags park
// @Produce json
// @Success 200 {object} response.Response{data=[]models.GalleryItem}
// @Router /api/v1/park/gallery [get]
func (r *Routers) GetGallery(c echo.Context) error {
	const op = "http.routers.GetGallery"

	if !r.StateService.Loaded() {
		if err := r.StateService.Load(c.Request().Context()); err != nil {
			r.log.With(slog.String("op", op)).Error("failed to load park state", sl.Err(err))
			return c.JSON(http.StatusServiceUnavailable, response.ErrStateNotLoaded)
		}
	}

	return c.JSON(http.StatusOK, response.SuccessResponse(r.StateService.Items()))
}

// LogoClick godoc
// @Summary Count a logo click
// @Description The fifth click reveals the hidden admin login and resets the counter.
// @Tags admin
// @Produce json
// @Success 200 {object} response.Response{data=dto.LogoClickResponse}
// @Router /api/v1/admin/logo-click [post]
func (r *Routers) LogoClick(c echo.Context) error {
	const op = "http.routers.LogoClick"

	log := r.log.With(slog.String("op", op))

	visitorID, err := r.visitorID(c)
	if err != nil {
		log.Error("failed to resolve visitor session", sl.Err(err))
		return c.JSON(http.StatusInternalServerError, response.ErrInternal)
	}

	revealed, clicks, err := r.AdminService.LogoClick(c.Request().Context(), visitorID)
	if err != nil {
		log.Error("failed to count logo click", sl.Err(err))
		return c.JSON(http.StatusInternalServerError, response.ErrInternal)
	}

	return c.JSON(http.StatusOK, response.SuccessResponse(dto.LogoClickResponse{
		Revealed: revealed,
		Clicks:   clicks,
	}))
}

// Login godoc
// @Summary Admin login
// @Description Checks the credentials behind the hidden login form and returns a JWT.
// @Tags admin
// @Accept json
// @Produce json
// @Param request body dto.LoginRequest true "Admin credentials"
// @Success 200 {object} response.Response{data=map[string]string}
// @Failure 400 {object} response.ErrorResponse
// @Failure 401 {object} response.ErrorResponse
// @Router /api/v1/admin/login [post]
func (r *Routers) Login(c echo.Context) error {
	const op = "http.routers.Login"

	log := r.log.With(slog.String("op", op))

	var req dto.LoginRequest

	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, response.ErrInvalidRequestFormat)
	}

	if err := c.Validate(req); err != nil {
		log.Warn("invalid login request", slog.String("username", req.Username))
		return c.JSON(http.StatusBadRequest, response.ErrInvalidRequestFormat)
	}

	visitorID, err := r.visitorID(c)
	if err != nil {
		log.Error("failed to resolve visitor session", sl.Err(err))
		return c.JSON(http.StatusInternalServerError, response.ErrInternal)
	}

	token, err := r.AdminService.Login(c.Request().Context(), visitorID, req.Username, req.Password)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, response.ErrAuthenticationFailed)
	}

	return c.JSON(http.StatusOK, response.Response{
		Status: "success",
		Data:   map[string]string{"access_token": token},
	})
}

// Dismiss godoc
// @Summary Hide the admin login
// @Description Hides the revealed login form and resets the click counter.
// @Tags admin
// @Produce json
// @Success 200 {object} response.Response
// @Router /api/v1/admin/dismiss [post]
func (r *Routers) Dismiss(c echo.Context) error {
	const op = "http.routers.Dismiss"

	log := r.log.With(slog.String("op", op))

	visitorID, err := r.visitorID(c)
	if err != nil {
		log.Error("failed to resolve visitor session", sl.Err(err))
		return c.JSON(http.StatusInternalServerError, response.ErrInternal)
	}

	if err := r.AdminService.Dismiss(c.Request().Context(), visitorID); err != nil {
		log.Error("failed to dismiss login", sl.Err(err))
		return c.JSON(http.StatusInternalServerError, response.ErrInternal)
	}

	return c.JSON(http.StatusOK, response.Response{Status: "success"})
}

// Logout godoc
// @Summary Admin logout
// @Description Ends the admin session: resets the click counter and drops every open edit session.
// @Tags admin
// @Produce json
// @Success 200 {object} response.Response
// @Security ApiKeyAuth
// @Router /api/v1/admin/logout [post]
func (r *Routers) Logout(c echo.Context) error {
	const op = "http.routers.Logout"

	log := r.log.With(slog.String("op", op))

	visitorID, err := r.visitorID(c)
	if err != nil {
		log.Error("failed to resolve visitor session", sl.Err(err))
		return c.JSON(http.StatusInternalServerError, response.ErrInternal)
	}

	if err := r.AdminService.Dismiss(c.Request().Context(), visitorID); err != nil {
		log.Error("failed to reset click counter", sl.Err(err))
	}

	r.EditService.ResetAll()

	log.Info("admin logged out")

	return c.JSON(http.StatusOK, response.Response{Status: "success"})
}

// UpdateSettings godoc
// @Summary Update park settings
// @Description Applies a partial settings update. Omitted sections stay untouched.
// @Tags park
// @Accept json
// @Produce json
// @Param request body dto.UpdateSettingsRequest true "Partial settings update"
// @Success 200 {object} response.Response{data=models.ParkSettings}
// @Failure 400 {object} response.ErrorResponse
// @Failure 503 {object} response.ErrorResponse "Content not loaded yet"
// @Security ApiKeyAuth
// @Router /api/v1/park/settings [patch]
func (r *Routers) UpdateSettings(c echo.Context) error {
	const op = "http.routers.UpdateSettings"

	log := r.log.With(slog.String("op", op))

	var req dto.UpdateSettingsRequest

	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, response.ErrInvalidRequestFormat)
	}

	if err := c.Validate(req); err != nil {
		return c.JSON(http.StatusBadRequest, response.ErrorResponseWithDetails("invalid_request", err.Error()))
	}

	updated, err := r.StateService.UpdateSettings(c.Request().Context(), req.ToModel())
	if err != nil {
		switch {
		case errors.Is(err, stateservice.ErrNotLoaded):
			return c.JSON(http.StatusServiceUnavailable, response.ErrStateNotLoaded)
		case isValidationError(err):
			return c.JSON(http.StatusBadRequest, response.ErrorResponseWithDetails("invalid_request", err.Error()))
		default:
			log.Error("failed to update settings", sl.Err(err))
			return c.JSON(http.StatusInternalServerError, response.ErrInternal)
		}
	}

	return c.JSON(http.StatusOK, response.SuccessResponse(updated))
}

// AddGalleryItem godoc
// @Summary Add a gallery item
// @Description Multipart upload (form field "file") or JSON body with an external file URL.
// @Tags park
// @Accept json
// @Accept mpfd
// @Produce json
// @Success 201 {object} response.Response{data=models.GalleryItem}
// @Failure 400 {object} response.ErrorResponse
// @Failure 413 {object} response.ErrorResponse "File too large"
// @Failure 415 {object} response.ErrorResponse "Unsupported file type"
// @Security ApiKeyAuth
// @Router /api/v1/park/gallery [post]
func (r *Routers) AddGalleryItem(c echo.Context) error {
	const op = "http.routers.AddGalleryItem"

	log := r.log.With(slog.String("op", op))

	if file, err := c.FormFile("file"); err == nil {
		item, err := r.StateService.AddGalleryUpload(c.Request().Context(), file)
		if err != nil {
			return r.galleryWriteError(c, log, err)
		}
		return c.JSON(http.StatusCreated, response.SuccessResponse(item))
	}

	var req dto.AddGalleryURLRequest

	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, response.ErrInvalidRequestFormat)
	}

	if err := c.Validate(req); err != nil {
		return c.JSON(http.StatusBadRequest, response.ErrorResponseWithDetails("invalid_request", err.Error()))
	}

	item, err := r.StateService.AddGalleryURL(
		c.Request().Context(), req.FileURL, req.FileName, models.FileType(req.FileType))
	if err != nil {
		return r.galleryWriteError(c, log, err)
	}

	return c.JSON(http.StatusCreated, response.SuccessResponse(item))
}

// UpdateGalleryItem godoc
// @Summary Rename or reorder a gallery item
// @Tags park
// @Accept json
// @Produce json
// @Param id path string true "Item UUID" format(uuid)
// @Param request body dto.UpdateGalleryItemRequest true "Fields to change"
// @Success 200 {object} response.Response{data=models.GalleryItem}
// @Failure 400 {object} response.ErrorResponse
// @Failure 404 {object} response.ErrorResponse
// @Security ApiKeyAuth
// @Router /api/v1/park/gallery/{id} [patch]
func (r *Routers) UpdateGalleryItem(c echo.Context) error {
	const op = "http.routers.UpdateGalleryItem"

	log := r.log.With(slog.String("op", op))

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, response.ErrorResponseWithDetails("invalid_request", "invalid item ID format"))
	}

	var req dto.UpdateGalleryItemRequest

	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, response.ErrInvalidRequestFormat)
	}

	if err := c.Validate(req); err != nil {
		return c.JSON(http.StatusBadRequest, response.ErrorResponseWithDetails("invalid_request", err.Error()))
	}

	item, err := r.StateService.UpdateGalleryItem(c.Request().Context(), id, req.ToModel())
	if err != nil {
		return r.galleryWriteError(c, log, err)
	}

	return c.JSON(http.StatusOK, response.SuccessResponse(item))
}

// DeleteGalleryItem godoc
// @Summary Delete a gallery item
// @Description Removes the record; an uploaded file is deleted best-effort, external URLs are left alone.
// @Tags park
// @Produce json
// @Param id path string true "Item UUID" format(uuid)
// @Success 200 {object} response.Response
// @Failure 400 {object} response.ErrorResponse
// @Failure 404 {object} response.ErrorResponse
// @Security ApiKeyAuth
// @Router /api/v1/park/gallery/{id} [delete]
func (r *Routers) DeleteGalleryItem(c echo.Context) error {
	const op = "http.routers.DeleteGalleryItem"

	log := r.log.With(slog.String("op", op))

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, response.ErrorResponseWithDetails("invalid_request", "invalid item ID format"))
	}

	if err := r.StateService.RemoveGalleryItem(c.Request().Context(), id); err != nil {
		return r.galleryWriteError(c, log, err)
	}

	return c.JSON(http.StatusOK, response.Response{Status: "success"})
}

// EditState godoc
// @Summary Edit session state of a section
// @Tags edit
// @Produce json
// @Param section path string true "Section" Enums(timings, prices, facilities, gallery)
// @Success 200 {object} response.Response
// @Failure 400 {object} response.ErrorResponse
// @Security ApiKeyAuth
// @Router /api/v1/admin/edit/{section} [get]
func (r *Routers) EditState(c echo.Context) error {
	section := editservice.Section(c.Param("section"))

	phase, err := r.EditService.Phase(section)
	if err != nil {
		return r.editError(c, err)
	}

	data := map[string]interface{}{"phase": phase}
	if draft, err := r.EditService.Draft(section); err == nil {
		data["draft"] = draft
	}

	return c.JSON(http.StatusOK, response.SuccessResponse(data))
}

// StartEdit godoc
// @Summary Open an edit session
// @Description Seeds the section's draft from the committed state.
// @Tags edit
// @Produce json
// @Param section path string true "Section" Enums(timings, prices, facilities, gallery)
// @Success 200 {object} response.Response{data=models.SettingsUpdate}
// @Failure 400 {object} response.ErrorResponse
// @Failure 409 {object} response.ErrorResponse "Already being edited"
// @Security ApiKeyAuth
// @Router /api/v1/admin/edit/{section}/start [post]
func (r *Routers) StartEdit(c echo.Context) error {
	section := editservice.Section(c.Param("section"))

	if err := r.EditService.StartEdit(section); err != nil {
		return r.editError(c, err)
	}

	draft, err := r.EditService.Draft(section)
	if err != nil {
		return r.editError(c, err)
	}

	return c.JSON(http.StatusOK, response.SuccessResponse(draft))
}

// SetDraft godoc
// @Summary Replace an edit session draft
// @Description Only fields of the session's section are accepted.
// @Tags edit
// @Accept json
// @Produce json
// @Param section path string true "Section" Enums(timings, prices, facilities)
// @Param request body dto.SetDraftRequest true "Draft content"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.ErrorResponse
// @Failure 409 {object} response.ErrorResponse "Not being edited"
// @Security ApiKeyAuth
// @Router /api/v1/admin/edit/{section}/draft [put]
func (r *Routers) SetDraft(c echo.Context) error {
	section := editservice.Section(c.Param("section"))

	var req dto.SetDraftRequest

	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, response.ErrInvalidRequestFormat)
	}

	if err := c.Validate(req); err != nil {
		return c.JSON(http.StatusBadRequest, response.ErrorResponseWithDetails("invalid_request", err.Error()))
	}

	if err := r.EditService.SetDraft(section, req.ToModel()); err != nil {
		return r.editError(c, err)
	}

	return c.JSON(http.StatusOK, response.Response{Status: "success"})
}

// CancelEdit godoc
// @Summary Cancel an edit session
// @Description Discards the draft; the committed state is untouched.
// @Tags edit
// @Produce json
// @Param section path string true "Section" Enums(timings, prices, facilities, gallery)
// @Success 200 {object} response.Response
// @Failure 400 {object} response.ErrorResponse
// @Failure 409 {object} response.ErrorResponse "Save in flight"
// @Security ApiKeyAuth
// @Router /api/v1/admin/edit/{section}/cancel [post]
func (r *Routers) CancelEdit(c echo.Context) error {
	section := editservice.Section(c.Param("section"))

	if err := r.EditService.Cancel(section); err != nil {
		return r.editError(c, err)
	}

	return c.JSON(http.StatusOK, response.Response{Status: "success"})
}

// SaveEdit godoc
// @Summary Save an edit session
// @Description Commits the draft. On failure the draft survives for a retry.
// @Tags edit
// @Produce json
// @Param section path string true "Section" Enums(timings, prices, facilities, gallery)
// @Success 200 {object} response.Response{data=models.ParkSettings}
// @Failure 400 {object} response.ErrorResponse
// @Failure 409 {object} response.ErrorResponse "Save in flight / not editing"
// @Security ApiKeyAuth
// @Router /api/v1/admin/edit/{section}/save [post]
func (r *Routers) SaveEdit(c echo.Context) error {
	const op = "http.routers.SaveEdit"

	log := r.log.With(slog.String("op", op))

	section := editservice.Section(c.Param("section"))

	updated, err := r.EditService.Save(c.Request().Context(), section)
	if err != nil {
		if isValidationError(err) {
			return c.JSON(http.StatusBadRequest, response.ErrorResponseWithDetails("invalid_request", err.Error()))
		}
		if errors.Is(err, editservice.ErrUnknownSection) ||
			errors.Is(err, editservice.ErrNotEditing) ||
			errors.Is(err, editservice.ErrSaveInFlight) {
			return r.editError(c, err)
		}

		log.Error("failed to save section", sl.Err(err))
		return c.JSON(http.StatusInternalServerError, response.ErrInternal)
	}

	// Сохранение секции галереи не несёт настроек.
	if updated == nil {
		return c.JSON(http.StatusOK, response.Response{Status: "success"})
	}

	return c.JSON(http.StatusOK, response.SuccessResponse(updated))
}

func (r *Routers) galleryWriteError(c echo.Context, log *slog.Logger, err error) error {
	switch {
	case errors.Is(err, stateservice.ErrNotLoaded):
		return c.JSON(http.StatusServiceUnavailable, response.ErrStateNotLoaded)
	case errors.Is(err, storage.ErrItemNotFound):
		return c.JSON(http.StatusNotFound, response.ErrItemNotFound)
	case errors.Is(err, storage.ErrFileTooLarge):
		return c.JSON(http.StatusRequestEntityTooLarge,
			response.ErrorResponseWithDetails("file_rejected", err.Error()))
	case errors.Is(err, storage.ErrInvalidFileType):
		return c.JSON(http.StatusUnsupportedMediaType,
			response.ErrorResponseWithDetails("file_rejected", err.Error()))
	case isValidationError(err):
		return c.JSON(http.StatusBadRequest,
			response.ErrorResponseWithDetails("invalid_request", err.Error()))
	default:
		log.Error("gallery write failed", sl.Err(err))
		return c.JSON(http.StatusInternalServerError, response.ErrInternal)
	}
}

func (r *Routers) editError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, editservice.ErrUnknownSection):
		return c.JSON(http.StatusBadRequest,
			response.ErrorResponseWithDetails("invalid_request", err.Error()))
	case errors.Is(err, editservice.ErrNoCommitted), errors.Is(err, stateservice.ErrNotLoaded):
		return c.JSON(http.StatusServiceUnavailable, response.ErrStateNotLoaded)
	default:
		return c.JSON(http.StatusConflict,
			response.ErrorResponseWithDetails("edit_conflict", err.Error()))
	}
}

// visitorID attaches an anonymous ID to the cookie session; the click
// counter is keyed on it.
func (r *Routers) visitorID(c echo.Context) (string, error) {
	sess, err := session.Get("session", c)
	if err != nil {
		return "", err
	}

	if id, ok := sess.Values["visitor_id"].(string); ok && id != "" {
		return id, nil
	}

	id := uuid.New().String()
	sess.Values["visitor_id"] = id
	if err := sess.Save(c.Request(), c.Response()); err != nil {
		return "", err
	}

	return id, nil
}

func isValidationError(err error) bool {
	var settingsErr *models.SettingsValidationError
	var galleryErr *models.GalleryValidationError

	return errors.As(err, &settingsErr) || errors.As(err, &galleryErr)
}
