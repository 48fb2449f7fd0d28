// simbridge is a daemon that connects to a running simulator, records
// telemetry to a SQLite flight log, republishes it over MQTT, and exposes
// session status through a REST API. Lost connections are retried.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/simlink-project/simlink/config"
	"github.com/simlink-project/simlink/internal/api"
	"github.com/simlink-project/simlink/internal/recorder"
	"github.com/simlink-project/simlink/internal/telemetry"
	"github.com/simlink-project/simlink/internal/util"
	"github.com/simlink-project/simlink/protocol"
	"github.com/simlink-project/simlink/simconnect"
)

const (
	defineBridge   = 1
	requestBridge  = 1
	reconnectDelay = 10 * time.Second
)

// bridgedVars is the telemetry row the bridge records and republishes.
var bridgedVars = []protocol.FieldSpec{
	{Name: "PLANE LATITUDE", Unit: "degrees", Type: protocol.DataTypeFloat64},
	{Name: "PLANE LONGITUDE", Unit: "degrees", Type: protocol.DataTypeFloat64},
	{Name: "PLANE ALTITUDE", Unit: "feet", Type: protocol.DataTypeFloat64},
	{Name: "AIRSPEED TRUE", Unit: "knots", Type: protocol.DataTypeFloat64},
	{Name: "PLANE HEADING DEGREES TRUE", Unit: "degrees", Type: protocol.DataTypeFloat64},
	{Name: "SIM ON GROUND", Unit: "bool", Type: protocol.DataTypeFloat64},
}

// bridgeHandler fans each telemetry row out to the snapshot, the flight
// log, and the MQTT broker.
type bridgeHandler struct {
	schema   *protocol.Schema
	snapshot *api.Snapshot
	rec      *recorder.Recorder
	mqtt     *telemetry.Publisher
}

func (b *bridgeHandler) HandleOpen(c *simconnect.Client, r *simconnect.RecvOpen) {
	log.Info().
		Str("server", r.ApplicationName).
		Uint32("build", r.AppBuildMajor).
		Msg("simulator acknowledged session")
}

func (b *bridgeHandler) HandleQuit(c *simconnect.Client, r *simconnect.RecvQuit) {
	log.Warn().Msg("simulator quit")
	c.Close()
}

func (b *bridgeHandler) HandleException(c *simconnect.Client, r *simconnect.RecvException) {
	log.Error().
		Uint32("exception", r.ExceptionID).
		Uint32("send_id", r.SendID).
		Uint32("index", r.Index).
		Msg("simulator reported an exception")
}

func (b *bridgeHandler) HandleSimObjectData(c *simconnect.Client, r *simconnect.RecvSimObjectData) {
	if r.RequestID != requestBridge {
		return
	}

	fields := make(map[string]float64, len(b.schema.Fields()))
	for _, f := range b.schema.Fields() {
		fields[f.Name] = r.GetFloat64()
	}

	b.snapshot.Update(fields)

	if b.rec != nil {
		if err := b.rec.Record(r.RequestID, r.ObjectID, fields); err != nil {
			log.Warn().Err(err).Msg("failed to record telemetry")
		}
	}
	if b.mqtt != nil {
		if err := b.mqtt.Publish(telemetry.TopicTelemetry, fields); err != nil {
			log.Debug().Err(err).Msg("mqtt publish skipped")
		}
	}
}

func (b *bridgeHandler) HandleEvent(c *simconnect.Client, r *simconnect.RecvEvent) {
	if b.mqtt == nil {
		return
	}
	payload := map[string]uint32{"event_id": r.EventID, "data": r.Data}
	if err := b.mqtt.Publish(telemetry.TopicEvents, payload); err != nil {
		log.Debug().Err(err).Msg("mqtt publish skipped")
	}
}

func main() {
	cfgPath := flag.String("config", config.DefaultConfigFile, "path to configuration file")
	flag.Parse()

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	if err := util.InitLogger(util.LogConfig{
		Level:     cfg.Logging.Level,
		Directory: cfg.Logging.Directory,
		Console:   cfg.Logging.Console,
	}); err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize logger: %v\n", err)
		os.Exit(1)
	}

	version, err := cfg.Connection.ProtocolVersion()
	if err != nil {
		log.Fatal().Err(err).Msg("invalid connection config")
	}

	schema, err := protocol.NewSchema(bridgedVars)
	if err != nil {
		log.Fatal().Err(err).Msg("invalid variable schema")
	}

	var rec *recorder.Recorder
	if cfg.Recorder.Enabled {
		rec, err = recorder.Open(cfg.Recorder.Path)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to open flight log")
		}
		defer rec.Close()
	}

	var mqttPub *telemetry.Publisher
	if cfg.MQTT.Enabled {
		mqttPub, err = telemetry.NewPublisher(cfg.MQTT)
		if err != nil {
			log.Error().Err(err).Msg("MQTT unavailable, continuing without it")
		} else {
			defer mqttPub.Close()
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	snapshot := &api.Snapshot{}

	for ctx.Err() == nil {
		if err := runSession(ctx, cfg, version, schema, snapshot, rec, mqttPub); err != nil && ctx.Err() == nil {
			log.Warn().Err(err).Dur("retry_in", reconnectDelay).Msg("session lost, reconnecting")
			select {
			case <-ctx.Done():
			case <-time.After(reconnectDelay):
			}
		}
	}
}

// runSession owns one connection lifetime: connect, subscribe, serve the
// API, and dispatch until the session or the context ends.
func runSession(ctx context.Context, cfg *config.Config, version protocol.Version, schema *protocol.Schema, snapshot *api.Snapshot, rec *recorder.Recorder, mqttPub *telemetry.Publisher) error {
	client, err := simconnect.Open(cfg.Connection.AppName, cfg.Connection.Host, cfg.Connection.Port, version)
	if err != nil {
		return err
	}
	defer client.Close()

	for i, f := range schema.Fields() {
		if err := client.AddToDataDefinition(defineBridge, f.Name, f.Unit, f.Type, 0, uint32(i)); err != nil {
			return fmt.Errorf("define variable %s: %w", f.Name, err)
		}
	}
	if err := client.RequestDataOnSimObject(requestBridge, defineBridge, protocol.ObjectIDUser, protocol.PeriodSecond, 0, 0, 0, 0); err != nil {
		return fmt.Errorf("request telemetry: %w", err)
	}

	handler := &bridgeHandler{schema: schema, snapshot: snapshot, rec: rec, mqtt: mqttPub}
	if err := client.Register(handler); err != nil {
		return err
	}

	sessionCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	var wg sync.WaitGroup
	if cfg.API.Enabled {
		srv := api.NewServer(cfg.API, client, rec, snapshot)
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := srv.Start(sessionCtx); err != nil {
				log.Error().Err(err).Msg("API server failed")
			}
		}()
	}

	err = client.Run(sessionCtx)
	cancel()
	wg.Wait()
	return err
}
