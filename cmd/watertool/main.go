// Command watertool runs operator tasks against the water monitoring store:
// applying migrations and registering stations.
package main

import (
	"context"
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"text/tabwriter"

	"waterwatch/internal/config"
	"waterwatch/internal/db"
	"waterwatch/internal/migrate"
	"waterwatch/internal/modules/water/repository"
	"waterwatch/internal/modules/water/types"
)

const usage = `usage: watertool <command> [flags]
  migrate         apply pending schema migrations
  add-station     register a station: -name <name> -device <sensorId> [-location <text>]
  list-stations   print registered stations
`

func main() {
	os.Exit(run(context.Background(), os.Args[1:], os.Stdout, os.Stderr))
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	if len(args) < 1 {
		fmt.Fprint(stderr, usage)
		return 2
	}

	cfg, err := config.LoadFromEnv()
	if err != nil {
		fmt.Fprintf(stderr, "config error: %v\n", err)
		return 1
	}
	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: cfg.LogLevel}))

	var cmd func(context.Context, *sql.DB, []string, io.Writer) error
	switch args[0] {
	case "migrate":
		cmd = cmdMigrate
	case "add-station":
		cmd = cmdAddStation
	case "list-stations":
		cmd = cmdListStations
	default:
		fmt.Fprintf(stderr, "unknown command: %s\n%s", args[0], usage)
		return 2
	}

	conn, err := db.Open(cfg, logger)
	if err != nil {
		fmt.Fprintf(stderr, "db open: %v\n", err)
		return 1
	}
	defer func() {
		if closeErr := db.Close(conn); closeErr != nil {
			logger.Error("db close", "error", closeErr)
		}
	}()

	if err := cmd(ctx, conn, args[1:], stdout); err != nil {
		fmt.Fprintf(stderr, "%s: %v\n", args[0], err)
		return 1
	}
	return 0
}

func cmdMigrate(ctx context.Context, conn *sql.DB, _ []string, stdout io.Writer) error {
	if err := migrate.Run(ctx, conn); err != nil {
		return err
	}
	fmt.Fprintln(stdout, "migrations applied")
	return nil
}

func cmdAddStation(ctx context.Context, conn *sql.DB, args []string, stdout io.Writer) error {
	fs := flag.NewFlagSet("add-station", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	name := fs.String("name", "", "station name")
	location := fs.String("location", "", "station location")
	device := fs.String("device", "", "device sensor id the station's sensor reports as")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if strings.TrimSpace(*name) == "" || strings.TrimSpace(*device) == "" {
		return errors.New("-name and -device are required")
	}

	// Registration needs the schema; applying it here is a no-op once current.
	if err := migrate.Run(ctx, conn); err != nil {
		return err
	}

	repo := repository.NewRepository(conn)
	id, err := repo.CreateStation(ctx, types.Station{
		Name:           strings.TrimSpace(*name),
		Location:       strings.TrimSpace(*location),
		DeviceSensorID: strings.TrimSpace(*device),
	})
	if err != nil {
		return err
	}
	fmt.Fprintf(stdout, "station %d registered for device %s\n", id, strings.TrimSpace(*device))
	return nil
}

func cmdListStations(ctx context.Context, conn *sql.DB, _ []string, stdout io.Writer) error {
	stations, err := repository.NewRepository(conn).ListStations(ctx)
	if err != nil {
		return err
	}
	tw := tabwriter.NewWriter(stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tLOCATION\tDEVICE")
	for _, s := range stations {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\n", s.ID, s.Name, s.Location, s.DeviceSensorID)
	}
	return tw.Flush()
}
