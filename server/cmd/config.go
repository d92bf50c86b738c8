package main

import (
	"errors"
	"fmt"

	"github.com/gabzim/slotsync/server/targets"
	"github.com/jessevdk/go-flags"
	"github.com/joho/godotenv"
)

var errNoTargets = errors.New("NO_TARGETS_CONFIGURED")

type ServerConfig struct {
	Port            string `long:"port" env:"SLOTSYNC_PORT" default:"8080" description:"port to listen on"`
	CredentialsPath string `long:"credentials" env:"SLOTSYNC_GOOGLE_CREDENTIALS_PATH" default:"./credentials.json" description:"service account json with calendar and sheets access"`
	TargetsPath     string `long:"targets-file" env:"SLOTSYNC_TARGETS_PATH" description:"toml file with the target calendars"`
	Targets         string `long:"targets" env:"SLOTSYNC_TARGETS" description:"target calendars as Name=calendarId,Other=calendarId"`
	DefaultTarget   string `long:"default-target" env:"SLOTSYNC_DEFAULT_TARGET" description:"target used when a request names none"`
	SpreadsheetID   string `long:"spreadsheet" env:"SLOTSYNC_SPREADSHEET_ID" description:"spreadsheet mirrored by /sheet-sync, leave empty to disable"`
	Dev             bool   `long:"dev" env:"SLOTSYNC_DEV" description:"development logging"`
}

func getServerConfig(args []string) (*ServerConfig, error) {
	// a missing .env is fine, the environment might be set some other way
	_ = godotenv.Load()

	var cfg ServerConfig
	if _, err := flags.NewParser(&cfg, flags.Default).ParseArgs(args); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// registry builds the targets from the toml file if there is one, otherwise from the inline list
func (c *ServerConfig) registry() (*targets.Registry, error) {
	var r *targets.Registry
	if c.TargetsPath != "" {
		loaded, err := targets.LoadFile(c.TargetsPath, c.DefaultTarget)
		if err != nil {
			return nil, err
		}
		r = loaded
	} else {
		ids, err := targets.ParseList(c.Targets)
		if err != nil {
			return nil, err
		}
		r = targets.New(c.DefaultTarget, ids)
	}
	if r.Len() == 0 {
		return nil, fmt.Errorf("%w: set SLOTSYNC_TARGETS or SLOTSYNC_TARGETS_PATH", errNoTargets)
	}
	return r, nil
}
