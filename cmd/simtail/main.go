// simtail connects to a running simulator and tails live telemetry to the
// terminal as a table, one snapshot per second.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/olekukonko/tablewriter"
	"github.com/rs/zerolog/log"

	"github.com/simlink-project/simlink/config"
	"github.com/simlink-project/simlink/internal/util"
	"github.com/simlink-project/simlink/protocol"
	"github.com/simlink-project/simlink/simconnect"
)

const (
	defineAircraft  = 1
	requestTailData = 1
)

// tailedVars is the telemetry row simtail subscribes to.
var tailedVars = []protocol.FieldSpec{
	{Name: "PLANE LATITUDE", Unit: "degrees", Type: protocol.DataTypeFloat64},
	{Name: "PLANE LONGITUDE", Unit: "degrees", Type: protocol.DataTypeFloat64},
	{Name: "PLANE ALTITUDE", Unit: "feet", Type: protocol.DataTypeFloat64},
	{Name: "AIRSPEED INDICATED", Unit: "knots", Type: protocol.DataTypeFloat64},
	{Name: "VERTICAL SPEED", Unit: "feet per minute", Type: protocol.DataTypeFloat64},
	{Name: "PLANE HEADING DEGREES TRUE", Unit: "degrees", Type: protocol.DataTypeFloat64},
}

// tailer renders each telemetry row and logs session-level records.
type tailer struct {
	schema *protocol.Schema
}

func (t *tailer) HandleOpen(c *simconnect.Client, r *simconnect.RecvOpen) {
	log.Info().
		Str("server", r.ApplicationName).
		Uint32("version", r.AppVerMajor).
		Msg("server acknowledged session")
}

func (t *tailer) HandleQuit(c *simconnect.Client, r *simconnect.RecvQuit) {
	log.Warn().Msg("server is shutting down")
	c.Close()
}

func (t *tailer) HandleException(c *simconnect.Client, r *simconnect.RecvException) {
	log.Error().
		Uint32("exception", r.ExceptionID).
		Uint32("send_id", r.SendID).
		Msg("server reported an exception")
}

func (t *tailer) HandleSimObjectData(c *simconnect.Client, r *simconnect.RecvSimObjectData) {
	if r.RequestID != requestTailData {
		return
	}

	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"Variable", "Unit", "Value"})
	for _, f := range t.schema.Fields() {
		table.Append([]string{f.Name, f.Unit, fmt.Sprintf("%.3f", r.GetFloat64())})
	}
	table.Render()
	fmt.Println()
}

func main() {
	cfgPath := flag.String("config", config.DefaultConfigFile, "path to configuration file")
	logLevel := flag.String("log-level", "warn", "log level")
	flag.Parse()

	if err := util.InitLogger(util.LogConfig{Level: *logLevel, Console: true}); err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize logger: %v\n", err)
		os.Exit(1)
	}

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	version, err := cfg.Connection.ProtocolVersion()
	if err != nil {
		log.Fatal().Err(err).Msg("invalid connection config")
	}

	client, err := simconnect.Open("simtail", cfg.Connection.Host, cfg.Connection.Port, version)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to simulator")
	}
	defer client.Close()

	schema, err := protocol.NewSchema(tailedVars)
	if err != nil {
		log.Fatal().Err(err).Msg("invalid variable schema")
	}

	for i, f := range schema.Fields() {
		if err := client.AddToDataDefinition(defineAircraft, f.Name, f.Unit, f.Type, 0, uint32(i)); err != nil {
			log.Fatal().Err(err).Str("variable", f.Name).Msg("failed to define variable")
		}
	}
	if err := client.RequestDataOnSimObject(requestTailData, defineAircraft, protocol.ObjectIDUser, protocol.PeriodSecond, 0, 0, 0, 0); err != nil {
		log.Fatal().Err(err).Msg("failed to request telemetry")
	}

	if err := client.Register(&tailer{schema: schema}); err != nil {
		log.Fatal().Err(err).Msg("failed to register handlers")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := client.Run(ctx); err != nil && ctx.Err() == nil {
		log.Fatal().Err(err).Msg("session ended")
	}
}
