package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/gabzim/slotsync/server/calendarsync"
	"github.com/google/go-querystring/query"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

const SessionHeader = "X-Slotsync-Session"

type SyncQuery struct {
	Name string `url:"name,omitempty"`
}

type CatalogQuery struct {
	Date     string `url:"date,omitempty"`
	TimeZone string `url:"timeZone,omitempty"`
}

// Error is a non 2xx answer from the api
type Error struct {
	Status  int
	Message string `json:"message"`
	Detail  string `json:"error"`
}

func (e *Error) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("%v (%d): %v", e.Message, e.Status, e.Detail)
	}
	return fmt.Sprintf("%v (%d)", e.Message, e.Status)
}

// Client talks to the slotsync api. SheetSync picks /sheet-sync over /sync.
type Client struct {
	base     *url.URL
	syncPath string
	session  string
	http     *http.Client
	log      *log.Entry
}

func NewClient(baseURL string, sheetSync bool, httpClient *http.Client) (*Client, error) {
	u, err := url.Parse(strings.TrimSuffix(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("invalid api url %v: %w", baseURL, err)
	}
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	path := "/sync"
	if sheetSync {
		path = "/sheet-sync"
	}
	session := uuid.NewString()
	return &Client{
		base:     u,
		syncPath: path,
		session:  session,
		http:     httpClient,
		log:      log.WithFields(log.Fields{"session": session, "path": path}),
	}, nil
}

func (c *Client) Session() string {
	return c.session
}

// Sync posts one action for the named target
func (c *Client) Sync(ctx context.Context, name string, req *calendarsync.Request) (*calendarsync.Result, error) {
	qs, err := query.Values(SyncQuery{Name: name})
	if err != nil {
		return nil, err
	}
	body, err := json.Marshal(req)
	if err != nil {
		return nil, err
	}
	var res calendarsync.Result
	if err := c.do(ctx, http.MethodPost, c.syncPath, qs, bytes.NewReader(body), &res); err != nil {
		c.log.WithFields(log.Fields{"action": req.Action, "target": name}).Warnf("sync failed: %v", err)
		return nil, err
	}
	c.log.WithFields(log.Fields{"action": req.Action, "target": name}).Debug(res.Message)
	return &res, nil
}

// Catalog fetches the day's slots, empty values leave the server defaults
func (c *Client) Catalog(ctx context.Context, q CatalogQuery) ([]calendarsync.Event, error) {
	qs, err := query.Values(q)
	if err != nil {
		return nil, err
	}
	var res struct {
		Events []calendarsync.Event `json:"events"`
	}
	if err := c.do(ctx, http.MethodGet, "/catalog", qs, nil, &res); err != nil {
		return nil, err
	}
	return res.Events, nil
}

func (c *Client) do(ctx context.Context, method, path string, qs url.Values, body *bytes.Reader, out interface{}) error {
	u := *c.base
	u.Path = c.base.Path + path
	u.RawQuery = qs.Encode()

	var req *http.Request
	var err error
	if body != nil {
		req, err = http.NewRequestWithContext(ctx, method, u.String(), body)
	} else {
		req, err = http.NewRequestWithContext(ctx, method, u.String(), nil)
	}
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(SessionHeader, c.session)

	res, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer res.Body.Close()

	if res.StatusCode >= 300 {
		apiErr := &Error{Status: res.StatusCode}
		if err := json.NewDecoder(res.Body).Decode(apiErr); err != nil || apiErr.Message == "" {
			apiErr.Message = http.StatusText(res.StatusCode)
		}
		return apiErr
	}
	return json.NewDecoder(res.Body).Decode(out)
}
