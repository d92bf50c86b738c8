package main

import (
	"os"

	"github.com/jessevdk/go-flags"
)

func getEnvOrDefault(envName, fallback string) string {
	v := os.Getenv(envName)
	if v == "" {
		return fallback
	}
	return v
}

type ConnectConfig struct {
	Host       string `short:"H" long:"host" description:"slotsync api, by default SLOTSYNC_API_HOST or http://localhost:8080"`
	Target     string `short:"n" long:"name" description:"target calendar, empty picks the server default"`
	SheetSync  bool   `short:"s" long:"sheet-sync" description:"mirror every change into the target's sheet tab"`
	Date       string `short:"d" long:"date" description:"catalog day as YYYY-MM-DD, today by default"`
	TimeZone   string `short:"z" long:"tz" description:"catalog time zone, the server default if empty"`
	EventsPath string `short:"e" long:"events" description:"read the catalog from a json file instead of the api"`
	Verbose    bool   `short:"v" long:"verbose" description:"debug logging"`
}

func obtainConfig(args []string) (*ConnectConfig, error) {
	var cfg ConnectConfig
	if _, err := flags.ParseArgs(&cfg, args); err != nil {
		return nil, err
	}
	if cfg.Host == "" {
		cfg.Host = getEnvOrDefault("SLOTSYNC_API_HOST", "http://localhost:8080")
	}
	if cfg.Target == "" {
		cfg.Target = os.Getenv("SLOTSYNC_TARGET")
	}
	return &cfg, nil
}
