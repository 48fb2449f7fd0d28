package simconnect

import (
	"sync"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/simlink-project/simlink/protocol"
)

// Handler contracts, one per decoded record kind. An object may implement
// any subset; bulk registration adds it to every list its method set
// satisfies. Handlers must be comparable values (pointers in practice) so
// they can be removed again.

type OpenHandler interface {
	HandleOpen(c *Client, r *RecvOpen)
}

type QuitHandler interface {
	HandleQuit(c *Client, r *RecvQuit)
}

type ExceptionHandler interface {
	HandleException(c *Client, r *RecvException)
}

type EventHandler interface {
	HandleEvent(c *Client, r *RecvEvent)
}

type ObjectAddRemoveHandler interface {
	HandleObjectAddRemove(c *Client, r *RecvEventObjectAddRemove)
}

type FilenameHandler interface {
	HandleFilename(c *Client, r *RecvEventFilename)
}

type FrameHandler interface {
	HandleFrame(c *Client, r *RecvEventFrame)
}

type WeatherModeHandler interface {
	HandleWeatherMode(c *Client, r *RecvEventWeatherMode)
}

type SimObjectDataHandler interface {
	HandleSimObjectData(c *Client, r *RecvSimObjectData)
}

type SimObjectDataByTypeHandler interface {
	HandleSimObjectDataByType(c *Client, r *RecvSimObjectDataByType)
}

type ClientDataHandler interface {
	HandleClientData(c *Client, r *RecvClientData)
}

type WeatherObservationHandler interface {
	HandleWeatherObservation(c *Client, r *RecvWeatherObservation)
}

type CloudStateHandler interface {
	HandleCloudState(c *Client, r *RecvCloudState)
}

type AssignedObjectHandler interface {
	HandleAssignedObject(c *Client, r *RecvAssignedObjectID)
}

type ReservedKeyHandler interface {
	HandleReservedKey(c *Client, r *RecvReservedKey)
}

type CustomActionHandler interface {
	HandleCustomAction(c *Client, r *RecvCustomAction)
}

type SystemStateHandler interface {
	HandleSystemState(c *Client, r *RecvSystemState)
}

type AirportListHandler interface {
	HandleAirportList(c *Client, r *RecvAirportList)
}

type WaypointListHandler interface {
	HandleWaypointList(c *Client, r *RecvWaypointList)
}

type NDBListHandler interface {
	HandleNDBList(c *Client, r *RecvNDBList)
}

type VORListHandler interface {
	HandleVORList(c *Client, r *RecvVORList)
}

type MultiplayerServerStartedHandler interface {
	HandleMultiplayerServerStarted(c *Client, r *RecvEventMultiplayerServerStarted)
}

type MultiplayerClientStartedHandler interface {
	HandleMultiplayerClientStarted(c *Client, r *RecvEventMultiplayerClientStarted)
}

type MultiplayerSessionEndedHandler interface {
	HandleMultiplayerSessionEnded(c *Client, r *RecvEventMultiplayerSessionEnded)
}

type RaceEndHandler interface {
	HandleRaceEnd(c *Client, r *RecvEventRaceEnd)
}

type RaceLapHandler interface {
	HandleRaceLap(c *Client, r *RecvEventRaceLap)
}

type UnknownHandler interface {
	HandleUnknown(c *Client, r *RecvUnknown)
}

// handlerKinds returns the record kinds an object's method set subscribes
// it to. The check is structural: any object implementing a handler
// interface qualifies for that kind.
func handlerKinds(h any) []protocol.RecvID {
	var kinds []protocol.RecvID
	add := func(ok bool, id protocol.RecvID) {
		if ok {
			kinds = append(kinds, id)
		}
	}
	_, ok := h.(OpenHandler)
	add(ok, protocol.RecvIDOpen)
	_, ok = h.(QuitHandler)
	add(ok, protocol.RecvIDQuit)
	_, ok = h.(ExceptionHandler)
	add(ok, protocol.RecvIDException)
	_, ok = h.(EventHandler)
	add(ok, protocol.RecvIDEvent)
	_, ok = h.(ObjectAddRemoveHandler)
	add(ok, protocol.RecvIDEventObjectAddRemove)
	_, ok = h.(FilenameHandler)
	add(ok, protocol.RecvIDEventFilename)
	_, ok = h.(FrameHandler)
	add(ok, protocol.RecvIDEventFrame)
	_, ok = h.(WeatherModeHandler)
	add(ok, protocol.RecvIDEventWeatherMode)
	_, ok = h.(SimObjectDataHandler)
	add(ok, protocol.RecvIDSimObjectData)
	_, ok = h.(SimObjectDataByTypeHandler)
	add(ok, protocol.RecvIDSimObjectDataByType)
	_, ok = h.(ClientDataHandler)
	add(ok, protocol.RecvIDClientData)
	_, ok = h.(WeatherObservationHandler)
	add(ok, protocol.RecvIDWeatherObservation)
	_, ok = h.(CloudStateHandler)
	add(ok, protocol.RecvIDCloudState)
	_, ok = h.(AssignedObjectHandler)
	add(ok, protocol.RecvIDAssignedObjectID)
	_, ok = h.(ReservedKeyHandler)
	add(ok, protocol.RecvIDReservedKey)
	_, ok = h.(CustomActionHandler)
	add(ok, protocol.RecvIDCustomAction)
	_, ok = h.(SystemStateHandler)
	add(ok, protocol.RecvIDSystemState)
	_, ok = h.(AirportListHandler)
	add(ok, protocol.RecvIDAirportList)
	_, ok = h.(WaypointListHandler)
	add(ok, protocol.RecvIDWaypointList)
	_, ok = h.(NDBListHandler)
	add(ok, protocol.RecvIDNDBList)
	_, ok = h.(VORListHandler)
	add(ok, protocol.RecvIDVORList)
	_, ok = h.(MultiplayerServerStartedHandler)
	add(ok, protocol.RecvIDEventMultiplayerServer)
	_, ok = h.(MultiplayerClientStartedHandler)
	add(ok, protocol.RecvIDEventMultiplayerClient)
	_, ok = h.(MultiplayerSessionEndedHandler)
	add(ok, protocol.RecvIDEventMultiplayerSessionEnd)
	_, ok = h.(RaceEndHandler)
	add(ok, protocol.RecvIDEventRaceEnd)
	_, ok = h.(RaceLapHandler)
	add(ok, protocol.RecvIDEventRaceLap)
	_, ok = h.(UnknownHandler)
	add(ok, protocol.RecvIDNull)
	return kinds
}

// pendingOp is a queued subscriber-list mutation, applied at the safe
// points before and after a frame's fan-out.
type pendingOp struct {
	add  bool
	kind protocol.RecvID
	h    any
}

// dispatcher fans decoded records out to per-kind subscriber lists.
// Registration and removal never touch a list mid-iteration: while a frame
// is dispatching they queue, and the queue drains immediately before and
// after the fan-out. A handler added during dispatch therefore first sees
// the next frame, and a handler removed during dispatch still sees the
// in-flight one.
type dispatcher struct {
	mu          sync.Mutex
	logger      zerolog.Logger
	handlers    map[protocol.RecvID][]any
	pending     []pendingOp
	dispatching bool
}

func newDispatcher() *dispatcher {
	return &dispatcher{
		logger:   log.With().Str("component", "dispatch").Logger(),
		handlers: make(map[protocol.RecvID][]any),
	}
}

// subscribe queues or applies one addition.
func (d *dispatcher) subscribe(kind protocol.RecvID, h any) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.dispatching {
		d.pending = append(d.pending, pendingOp{add: true, kind: kind, h: h})
		return
	}
	d.handlers[kind] = append(d.handlers[kind], h)
}

// unsubscribe queues or applies one removal.
func (d *dispatcher) unsubscribe(kind protocol.RecvID, h any) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.dispatching {
		d.pending = append(d.pending, pendingOp{kind: kind, h: h})
		return
	}
	d.remove(kind, h)
}

// remove deletes h from one list. Caller holds d.mu.
func (d *dispatcher) remove(kind protocol.RecvID, h any) {
	list := d.handlers[kind]
	for i, cur := range list {
		if cur == h {
			d.handlers[kind] = append(list[:i:i], list[i+1:]...)
			return
		}
	}
}

// drain applies every queued mutation. Caller holds d.mu.
func (d *dispatcher) drain() {
	for _, op := range d.pending {
		if op.add {
			d.handlers[op.kind] = append(d.handlers[op.kind], op.h)
		} else {
			d.remove(op.kind, op.h)
		}
	}
	d.pending = d.pending[:0]
}

// dispatch delivers one decoded record to its subscriber list. The list
// snapshot taken here is what the frame is delivered to; mutations land in
// the pending queue and take effect from the next frame.
func (d *dispatcher) dispatch(c *Client, rec Recv) {
	kind := rec.packet().ID
	if _, ok := rec.(*RecvUnknown); ok {
		kind = protocol.RecvIDNull
	}

	d.mu.Lock()
	d.drain()
	list := d.handlers[kind]
	d.dispatching = true
	d.mu.Unlock()

	for _, h := range list {
		d.invoke(c, h, rec)
	}

	d.mu.Lock()
	d.dispatching = false
	d.drain()
	d.mu.Unlock()
}

// invoke calls one handler, resetting the field cursor of telemetry-row
// records first so every subscriber observes the full field sequence from
// offset zero. A panicking handler is logged and skipped.
func (d *dispatcher) invoke(c *Client, h any, rec Recv) {
	defer func() {
		if r := recover(); r != nil {
			d.logger.Error().
				Uint32("recv_id", uint32(rec.packet().ID)).
				Interface("panic", r).
				Msg("handler panicked")
		}
	}()

	switch r := rec.(type) {
	case *RecvOpen:
		h.(OpenHandler).HandleOpen(c, r)
	case *RecvQuit:
		h.(QuitHandler).HandleQuit(c, r)
	case *RecvException:
		h.(ExceptionHandler).HandleException(c, r)
	case *RecvEventObjectAddRemove:
		h.(ObjectAddRemoveHandler).HandleObjectAddRemove(c, r)
	case *RecvEventFilename:
		h.(FilenameHandler).HandleFilename(c, r)
	case *RecvEventFrame:
		h.(FrameHandler).HandleFrame(c, r)
	case *RecvEventWeatherMode:
		h.(WeatherModeHandler).HandleWeatherMode(c, r)
	case *RecvEvent:
		h.(EventHandler).HandleEvent(c, r)
	case *RecvSimObjectData:
		r.ResetData()
		h.(SimObjectDataHandler).HandleSimObjectData(c, r)
	case *RecvSimObjectDataByType:
		r.ResetData()
		h.(SimObjectDataByTypeHandler).HandleSimObjectDataByType(c, r)
	case *RecvClientData:
		r.ResetData()
		h.(ClientDataHandler).HandleClientData(c, r)
	case *RecvWeatherObservation:
		h.(WeatherObservationHandler).HandleWeatherObservation(c, r)
	case *RecvCloudState:
		h.(CloudStateHandler).HandleCloudState(c, r)
	case *RecvAssignedObjectID:
		h.(AssignedObjectHandler).HandleAssignedObject(c, r)
	case *RecvReservedKey:
		h.(ReservedKeyHandler).HandleReservedKey(c, r)
	case *RecvCustomAction:
		h.(CustomActionHandler).HandleCustomAction(c, r)
	case *RecvSystemState:
		h.(SystemStateHandler).HandleSystemState(c, r)
	case *RecvAirportList:
		h.(AirportListHandler).HandleAirportList(c, r)
	case *RecvWaypointList:
		h.(WaypointListHandler).HandleWaypointList(c, r)
	case *RecvNDBList:
		h.(NDBListHandler).HandleNDBList(c, r)
	case *RecvVORList:
		h.(VORListHandler).HandleVORList(c, r)
	case *RecvEventMultiplayerServerStarted:
		h.(MultiplayerServerStartedHandler).HandleMultiplayerServerStarted(c, r)
	case *RecvEventMultiplayerClientStarted:
		h.(MultiplayerClientStartedHandler).HandleMultiplayerClientStarted(c, r)
	case *RecvEventMultiplayerSessionEnded:
		h.(MultiplayerSessionEndedHandler).HandleMultiplayerSessionEnded(c, r)
	case *RecvEventRaceEnd:
		h.(RaceEndHandler).HandleRaceEnd(c, r)
	case *RecvEventRaceLap:
		h.(RaceLapHandler).HandleRaceLap(c, r)
	case *RecvUnknown:
		h.(UnknownHandler).HandleUnknown(c, r)
	}
}

// Register subscribes h to every record kind its method set handles.
// Returns ErrNoHandler when the object satisfies no handler contract.
func (c *Client) Register(h any) error {
	kinds := handlerKinds(h)
	if len(kinds) == 0 {
		return ErrNoHandler
	}
	for _, k := range kinds {
		c.dispatcher.subscribe(k, h)
	}
	return nil
}

// Unregister removes h from every list Register added it to. Removal during
// dispatch still delivers the in-flight frame to h but no subsequent one.
func (c *Client) Unregister(h any) {
	for _, k := range handlerKinds(h) {
		c.dispatcher.unsubscribe(k, h)
	}
}

// HandlerCount reports the live subscriber count for one record kind.
func (c *Client) HandlerCount(kind protocol.RecvID) int {
	c.dispatcher.mu.Lock()
	defer c.dispatcher.mu.Unlock()
	return len(c.dispatcher.handlers[kind])
}
