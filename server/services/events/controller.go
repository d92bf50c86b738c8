package events

import (
	"errors"
	"net/http"
	"time"

	"github.com/gabzim/slotsync/server/calendarsync"
	"github.com/gabzim/slotsync/server/catalog"
	"github.com/gabzim/slotsync/server/services/apierr"
	"github.com/gabzim/slotsync/server/targets"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

func NewController(writer *calendarsync.Writer, registry *targets.Registry, log *zap.SugaredLogger) *Controller {
	l := log.With("controller", "EventsController", "sheetSync", writer.WithSheetSync())
	return &Controller{writer: writer, targets: registry, log: l}
}

// Controller is the http side of a bulk writer. Mount one per writer: plain calendar sync and calendar + sheet sync.
type Controller struct {
	log     *zap.SugaredLogger
	writer  *calendarsync.Writer
	targets *targets.Registry
}

func (c *Controller) Status(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, calendarsync.Result{Message: "Calendar API is running"})
}

// Sync handles POST {action, event | events}. ?name= picks the target calendar.
func (c *Controller) Sync(ctx echo.Context) error {
	name := ctx.QueryParam("name")
	target, err := c.resolve(name)
	if err != nil {
		c.log.Warnw("could not resolve target", "name", name, "error", err)
		return apierr.JSON(ctx, http.StatusBadRequest, "Invalid or missing calendar ID", err)
	}

	var req calendarsync.Request
	if err := ctx.Bind(&req); err != nil {
		return apierr.JSON(ctx, http.StatusBadRequest, "Invalid JSON in request body", err)
	}
	if req.Action == "" {
		return apierr.JSON(ctx, http.StatusBadRequest, "Missing action in request body", nil)
	}

	res, err := c.writer.Apply(ctx.Request().Context(), target, &req)
	if err != nil {
		return c.syncError(ctx, target, &req, err)
	}
	c.log.Infow("sync done", "action", req.Action, "target", target.Name, "message", res.Message)
	return ctx.JSON(http.StatusOK, res)
}

// Catalog returns the day's catalog slots, ?date=YYYY-MM-DD (today in the requested zone by default) and ?timeZone=
func (c *Controller) Catalog(ctx echo.Context) error {
	tz := ctx.QueryParam("timeZone")
	if tz == "" {
		tz = catalog.DefaultTimeZone
	}
	loc, err := time.LoadLocation(tz)
	if err != nil {
		return apierr.JSON(ctx, http.StatusBadRequest, "Invalid timeZone", err)
	}
	day := time.Now().In(loc)
	if d := ctx.QueryParam("date"); d != "" {
		parsed, err := time.ParseInLocation("2006-01-02", d, loc)
		if err != nil {
			return apierr.JSON(ctx, http.StatusBadRequest, "Invalid date, expected YYYY-MM-DD", err)
		}
		day = parsed
	}
	return ctx.JSON(http.StatusOK, map[string]interface{}{"events": catalog.Slots(day, tz)})
}

func (c *Controller) resolve(name string) (targets.Target, error) {
	// the sheet tab is named after the target, so no falling back to someone else's tab
	if c.writer.WithSheetSync() {
		return c.targets.Lookup(name)
	}
	return c.targets.Resolve(name)
}

func (c *Controller) syncError(ctx echo.Context, target targets.Target, req *calendarsync.Request, err error) error {
	switch {
	case errors.Is(err, calendarsync.ErrInvalidAction):
		return apierr.JSON(ctx, http.StatusBadRequest, "Invalid action", nil)
	case errors.Is(err, calendarsync.ErrInvalidEvent):
		return apierr.JSON(ctx, http.StatusBadRequest, "Error processing request", err)
	}

	c.log.Errorw("sync failed", "action", req.Action, "target", target.Name, "error", err)
	res := apierr.Response{Message: "Error processing request", Error: apierr.RemoteMessage(err)}
	var partial *calendarsync.PartialError
	if errors.As(err, &partial) {
		done := partial.Done
		res.Committed = &done
	}
	return ctx.JSON(apierr.RemoteStatus(err), res)
}
