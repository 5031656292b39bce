package handler // handler package contains the HTTP handlers of the show API

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/tv-show-library/internal/model"
	"github.com/iliyamo/tv-show-library/internal/queue"
	"github.com/iliyamo/tv-show-library/internal/repository"
	"github.com/iliyamo/tv-show-library/internal/service"
	"github.com/iliyamo/tv-show-library/internal/validation"
)

// Messages returned in the "error" and "message" fields.
const (
	msgNotFound     = "TV show not found"
	msgDuplicate    = "A TV show with this title already exists"
	msgInvalidBody  = "invalid request body"
	msgCreated      = "TV show created successfully"
	msgUpdated      = "TV show updated successfully"
	msgDeleted      = "TV show deleted successfully"
	msgNotInCatalog = "TV show '%s' not found in IMDB. Please verify the title is correct."
)

// publishTimeout bounds how long a write waits on the event broker.
const publishTimeout = 3 * time.Second

// TitleVerifier decides whether a title names a real series.
type TitleVerifier interface {
	VerifySeries(ctx context.Context, title string) bool
}

// ShowHandler bundles dependencies for /api/shows.
type ShowHandler struct {
	Shows    *repository.ShowRepo
	Verifier TitleVerifier
	Events   service.EventPublisher
	Validate *validation.Validator
	Log      *slog.Logger
}

func NewShowHandler(shows *repository.ShowRepo, v TitleVerifier, ev service.EventPublisher, log *slog.Logger) *ShowHandler {
	return &ShowHandler{Shows: shows, Verifier: v, Events: ev, Validate: validation.New(), Log: log}
}

// flexBool accepts JSON booleans as well as 0/1 and their string forms.
type flexBool bool

func (b *flexBool) UnmarshalJSON(data []byte) error {
	switch string(bytes.Trim(data, `"`)) {
	case "true", "1":
		*b = true
	case "false", "0", "", "null":
		*b = false
	default:
		return fmt.Errorf("invalid boolean %s", data)
	}
	return nil
}

// showReq is the body of POST and PUT requests.
type showReq struct {
	Title         string   `json:"title"`
	CoverImageURL string   `json:"cover_image_url"`
	Genre         string   `json:"genre"`
	IsEnded       flexBool `json:"is_ended"`
}

func (r showReq) input() validation.ShowInput {
	in := validation.ShowInput{
		Title:         r.Title,
		CoverImageURL: r.CoverImageURL,
		Genre:         r.Genre,
		IsEnded:       bool(r.IsEnded),
	}
	in.Normalize()
	if in.Genre == "" {
		in.Genre = model.DefaultGenre
	}
	return in
}

func errJSON(c echo.Context, status int, msg string) error {
	return c.JSON(status, map[string]string{"error": msg})
}

// parseID treats anything that is not a positive integer as an unknown id.
func parseID(c echo.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	return id, err == nil && id > 0
}

// List handles GET /api/shows?title=&status=
func (h *ShowHandler) List(c echo.Context) error {
	f := repository.ShowFilter{
		Title:  c.QueryParam("title"),
		Status: c.QueryParam("status"), // unknown values mean "all"
	}
	shows, err := h.Shows.List(c.Request().Context(), f)
	if err != nil {
		h.Log.Error("list shows failed", "error", err)
		return errJSON(c, http.StatusInternalServerError, "could not list TV shows")
	}
	return c.JSON(http.StatusOK, shows)
}

// Get handles GET /api/shows/:id
func (h *ShowHandler) Get(c echo.Context) error {
	id, ok := parseID(c)
	if !ok {
		return errJSON(c, http.StatusNotFound, msgNotFound)
	}
	s, err := h.Shows.GetByID(c.Request().Context(), id)
	if errors.Is(err, repository.ErrShowNotFound) {
		return errJSON(c, http.StatusNotFound, msgNotFound)
	}
	if err != nil {
		h.Log.Error("get show failed", "id", id, "error", err)
		return errJSON(c, http.StatusInternalServerError, "could not load TV show")
	}
	return c.JSON(http.StatusOK, s)
}

// bindShow decodes and validates the body.  On failure the response has
// already been written and ok is false.
func (h *ShowHandler) bindShow(c echo.Context) (in validation.ShowInput, ok bool, err error) {
	var body showReq
	if err := c.Bind(&body); err != nil {
		return in, false, errJSON(c, http.StatusBadRequest, msgInvalidBody)
	}
	in = body.input()
	if err := h.Validate.Validate(in); err != nil {
		var ve *validation.Error
		if errors.As(err, &ve) {
			return in, false, errJSON(c, http.StatusBadRequest, ve.Message)
		}
		return in, false, errJSON(c, http.StatusBadRequest, msgInvalidBody)
	}
	return in, true, nil
}

// Create handles POST /api/shows
func (h *ShowHandler) Create(c echo.Context) error {
	ctx := c.Request().Context()
	in, ok, err := h.bindShow(c)
	if !ok {
		return err
	}
	if !h.Verifier.VerifySeries(ctx, in.Title) {
		return errJSON(c, http.StatusBadRequest, fmt.Sprintf(msgNotInCatalog, in.Title))
	}
	taken, err := h.Shows.TitleExists(ctx, in.Title, 0)
	if err != nil {
		h.Log.Error("duplicate check failed", "title", in.Title, "error", err)
		return errJSON(c, http.StatusInternalServerError, "could not create TV show")
	}
	if taken {
		return errJSON(c, http.StatusBadRequest, msgDuplicate)
	}

	s := &model.Show{Title: in.Title, CoverImageURL: in.CoverImageURL, Genre: in.Genre, IsEnded: in.IsEnded}
	if err := h.Shows.Create(ctx, s); err != nil {
		if errors.Is(err, repository.ErrTitleExists) { // lost a race with a concurrent insert
			return errJSON(c, http.StatusBadRequest, msgDuplicate)
		}
		h.Log.Error("create show failed", "title", in.Title, "error", err)
		return errJSON(c, http.StatusInternalServerError, "could not create TV show")
	}
	h.publish(ctx, queue.ActionCreated, *s)
	return c.JSON(http.StatusCreated, map[string]any{"id": s.ID, "message": msgCreated})
}

// Update handles PUT /api/shows/:id and replaces every editable field.
func (h *ShowHandler) Update(c echo.Context) error {
	ctx := c.Request().Context()
	in, ok, err := h.bindShow(c)
	if !ok {
		return err
	}
	id, ok := parseID(c)
	if !ok {
		return errJSON(c, http.StatusNotFound, msgNotFound)
	}
	cur, err := h.Shows.GetByID(ctx, id)
	if errors.Is(err, repository.ErrShowNotFound) {
		return errJSON(c, http.StatusNotFound, msgNotFound)
	}
	if err != nil {
		h.Log.Error("load show for update failed", "id", id, "error", err)
		return errJSON(c, http.StatusInternalServerError, "could not update TV show")
	}
	// Re-verify only when the title actually changes.
	if model.TitleKey(cur.Title) != model.TitleKey(in.Title) && !h.Verifier.VerifySeries(ctx, in.Title) {
		return errJSON(c, http.StatusBadRequest, fmt.Sprintf(msgNotInCatalog, in.Title))
	}
	taken, err := h.Shows.TitleExists(ctx, in.Title, id)
	if err != nil {
		h.Log.Error("duplicate check failed", "title", in.Title, "error", err)
		return errJSON(c, http.StatusInternalServerError, "could not update TV show")
	}
	if taken {
		return errJSON(c, http.StatusBadRequest, msgDuplicate)
	}

	s := model.Show{ID: id, Title: in.Title, CoverImageURL: in.CoverImageURL, Genre: in.Genre, IsEnded: in.IsEnded, CreatedAt: cur.CreatedAt}
	if err := h.Shows.Update(ctx, &s); err != nil {
		switch {
		case errors.Is(err, repository.ErrShowNotFound): // deleted concurrently
			return errJSON(c, http.StatusNotFound, msgNotFound)
		case errors.Is(err, repository.ErrTitleExists):
			return errJSON(c, http.StatusBadRequest, msgDuplicate)
		}
		h.Log.Error("update show failed", "id", id, "error", err)
		return errJSON(c, http.StatusInternalServerError, "could not update TV show")
	}
	h.publish(ctx, queue.ActionUpdated, s)
	return c.JSON(http.StatusOK, map[string]string{"message": msgUpdated})
}

// Delete handles DELETE /api/shows/:id
func (h *ShowHandler) Delete(c echo.Context) error {
	ctx := c.Request().Context()
	id, ok := parseID(c)
	if !ok {
		return errJSON(c, http.StatusNotFound, msgNotFound)
	}
	cur, err := h.Shows.GetByID(ctx, id)
	if err == nil {
		err = h.Shows.Delete(ctx, id)
	}
	if errors.Is(err, repository.ErrShowNotFound) {
		return errJSON(c, http.StatusNotFound, msgNotFound)
	}
	if err != nil {
		h.Log.Error("delete show failed", "id", id, "error", err)
		return errJSON(c, http.StatusInternalServerError, "could not delete TV show")
	}
	h.publish(ctx, queue.ActionDeleted, *cur)
	return c.JSON(http.StatusOK, map[string]string{"message": msgDeleted})
}

// publish sends a change event.  Failures are logged by the publisher and
// never fail the request.
func (h *ShowHandler) publish(ctx context.Context, action string, s model.Show) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), publishTimeout)
	defer cancel()
	_ = h.Events.PublishShowEvent(ctx, queue.NewShowEvent(action, s))
}
