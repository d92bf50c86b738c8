package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	"github.com/gabzim/slotsync/clients/api"
	"github.com/gabzim/slotsync/clients/events"
	"github.com/gabzim/slotsync/clients/orchestrator"
	"github.com/gabzim/slotsync/server/calendarsync"
	log "github.com/sirupsen/logrus"
)

const usage = `commands:
  list          show the catalog, * marks selected slots
  toggle <n>    add or remove slot n
  addall        add every slot
  removeall     remove every event from the calendar
  selected      show the selected slots
  quit`

func loadCatalog(ctx context.Context, cfg *ConnectConfig, client *api.Client) ([]calendarsync.Event, error) {
	switch cfg.EventsPath {
	case "":
		return client.Catalog(ctx, api.CatalogQuery{Date: cfg.Date, TimeZone: cfg.TimeZone})
	default:
		f, err := os.Open(cfg.EventsPath)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		return events.ReadAll(ctx, f)
	}
}

func printSlots(w io.Writer, o *orchestrator.Orchestrator) {
	for i, e := range o.Catalog() {
		mark := " "
		if o.IsSelected(e) {
			mark = "*"
		}
		fmt.Fprintf(w, "%s %2d  %s  %s\n", mark, i, e.Start, e.Title)
	}
}

func report(res *calendarsync.Result, err error) {
	if err != nil {
		log.Errorf("Error: %v", err)
		return
	}
	if res.Link != "" {
		fmt.Printf("%s %s\n", res.Message, res.Link)
		return
	}
	fmt.Println(res.Message)
}

// run reads commands from in until quit or EOF
func run(ctx context.Context, o *orchestrator.Orchestrator, in io.Reader, out io.Writer) {
	scanner := bufio.NewScanner(in)
	fmt.Fprintln(out, usage)
	for scanner.Scan() {
		if ctx.Err() != nil {
			return
		}
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}
		switch fields[0] {
		case "list", "ls":
			printSlots(out, o)
		case "toggle", "t":
			if len(fields) < 2 {
				fmt.Fprintln(out, "toggle needs a slot number")
				continue
			}
			n, err := strconv.Atoi(fields[1])
			if err != nil || n < 0 || n >= len(o.Catalog()) {
				fmt.Fprintf(out, "no slot %v\n", fields[1])
				continue
			}
			report(o.Toggle(ctx, o.Catalog()[n]))
		case "addall":
			report(o.AddAll(ctx))
		case "removeall":
			report(o.RemoveAll(ctx))
		case "selected":
			for _, e := range o.Selected() {
				fmt.Fprintf(out, "%s  %s\n", e.Start, e.Title)
			}
		case "quit", "exit":
			return
		default:
			fmt.Fprintln(out, usage)
		}
	}
}

func main() {
	cfg, err := obtainConfig(os.Args[1:])
	if err != nil {
		os.Exit(1)
	}
	if cfg.Verbose {
		log.SetLevel(log.DebugLevel)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	client, err := api.NewClient(cfg.Host, cfg.SheetSync, nil)
	if err != nil {
		log.Fatalf("Error creating api client: %v", err)
	}
	catalog, err := loadCatalog(ctx, cfg, client)
	if err != nil {
		log.Fatalf("Error loading catalog: %v", err)
	}
	log.WithFields(log.Fields{"host": cfg.Host, "target": cfg.Target, "session": client.Session(), "slots": len(catalog)}).Info("connected")

	run(ctx, orchestrator.New(client, cfg.Target, catalog), os.Stdin, os.Stdout)
}
