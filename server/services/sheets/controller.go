package sheets

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gabzim/slotsync/server/calendarsync"
	"github.com/gabzim/slotsync/server/catalog"
	"github.com/gabzim/slotsync/server/gsheets"
	"github.com/gabzim/slotsync/server/services/apierr"
	"github.com/gabzim/slotsync/server/targets"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

const formTab = "FormData"

var formHeader = []interface{}{"Name", "Age", "Phone"}

type Spreadsheet interface {
	EnsureTab(ctx context.Context, tab string, header []interface{}) error
	EnsureTabs(ctx context.Context, tabs []string, header []interface{}) error
	ReadRows(ctx context.Context, rng string) ([][]interface{}, error)
	AppendRows(ctx context.Context, rng string, rows [][]interface{}) error
}

type FormEntry struct {
	Name  string      `json:"name"`
	Age   interface{} `json:"age"`
	Phone string      `json:"phone"`
}

func (f FormEntry) row() []interface{} {
	return []interface{}{f.Name, fmt.Sprint(f.Age), f.Phone}
}

func (f FormEntry) complete() bool {
	return strings.TrimSpace(f.Name) != "" && strings.TrimSpace(f.Phone) != "" && f.Age != nil && fmt.Sprint(f.Age) != ""
}

func NewController(sheet Spreadsheet, registry *targets.Registry, log *zap.SugaredLogger) *Controller {
	l := log.With("controller", "SheetsController")
	return &Controller{sheet: sheet, targets: registry, log: l}
}

// Controller reads back the per target tabs the sheet sync writes, and takes form submissions
type Controller struct {
	log     *zap.SugaredLogger
	sheet   Spreadsheet
	targets *targets.Registry
}

// TabNames makes sure every target has its tab and returns their names
func (c *Controller) TabNames(ctx echo.Context) error {
	names := c.targets.Names()
	if err := c.sheet.EnsureTabs(ctx.Request().Context(), names, calendarsync.SheetHeader); err != nil {
		c.log.Errorw("could not ensure tabs", "error", err)
		return ctx.JSON(apierr.RemoteStatus(err), apierr.Response{Message: "Failed to prepare sheets", Error: apierr.RemoteMessage(err)})
	}
	return ctx.JSON(http.StatusOK, map[string]interface{}{"sheetNames": names})
}

// TabEvents reads a target's tab back as today's events, ?timeZone= overrides the default zone
func (c *Controller) TabEvents(ctx echo.Context) error {
	target, err := c.targets.Lookup(ctx.Param("name"))
	if err != nil {
		return apierr.JSON(ctx, http.StatusBadRequest, "Invalid or missing sheet name", err)
	}
	tz := ctx.QueryParam("timeZone")
	if tz == "" {
		tz = catalog.DefaultTimeZone
	}
	loc, err := time.LoadLocation(tz)
	if err != nil {
		return apierr.JSON(ctx, http.StatusBadRequest, "Invalid timeZone", err)
	}
	rows, err := c.sheet.ReadRows(ctx.Request().Context(), gsheets.Range(target.Name, "A", "D"))
	if err != nil {
		c.log.Errorw("could not read tab", "tab", target.Name, "error", err)
		return ctx.JSON(apierr.RemoteStatus(err), apierr.Response{Message: "Failed to fetch events", Error: apierr.RemoteMessage(err)})
	}

	today := time.Now().In(loc)
	events := make([]calendarsync.Event, 0, len(rows))
	for i, row := range rows {
		// first row is the header
		if i == 0 {
			continue
		}
		events = append(events, catalog.FromRow(row, today, tz))
	}
	return ctx.JSON(http.StatusOK, map[string]interface{}{"events": events})
}

// AppendForm appends {name, age, phone} to the FormData tab
func (c *Controller) AppendForm(ctx echo.Context) error {
	var entry FormEntry
	if err := ctx.Bind(&entry); err != nil {
		return apierr.JSON(ctx, http.StatusBadRequest, "Invalid JSON in request body", err)
	}
	if !entry.complete() {
		return apierr.JSON(ctx, http.StatusBadRequest, "Missing required fields: name, age, phone", nil)
	}

	reqCtx := ctx.Request().Context()
	err := c.sheet.EnsureTab(reqCtx, formTab, formHeader)
	if err == nil {
		err = c.sheet.AppendRows(reqCtx, gsheets.Range(formTab, "A", "C"), [][]interface{}{entry.row()})
	}
	if err != nil {
		c.log.Errorw("could not add form data", "error", err)
		return ctx.JSON(apierr.RemoteStatus(err), apierr.Response{Message: "Failed to add data to sheet", Error: apierr.RemoteMessage(err)})
	}
	return ctx.JSON(http.StatusOK, calendarsync.Result{Message: "Data added to sheet successfully!"})
}
