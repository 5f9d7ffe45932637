// Package livekit integrates the commander with a LiveKit deployment:
// it reads room occupancy snapshots through the server API and issues
// the move and messaging commands the planner decides on.
package livekit

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/livekit/protocol/livekit"
	lksdk "github.com/livekit/server-sdk-go/v2"

	"github.com/paulsc/officehours/internal/roster"
)

var (
	// ErrNotConfigured is returned when operations are attempted without
	// proper configuration.
	ErrNotConfigured = errors.New("livekit room client not configured")

	// ErrUnknownParticipant is returned when a command targets a display
	// name not seen in the latest snapshot.
	ErrUnknownParticipant = errors.New("participant not present in latest snapshot")
)

// location is where a participant was last observed, addressed the way
// the server API needs it.
type location struct {
	identity string
	room     string
}

// RoomClient adapts a LiveKit deployment to the commander's call-client
// interface. The display name (falling back to the identity when a
// participant set no name) is the commander's identity key; the client
// keeps a name-to-identity index from the latest snapshot so commands
// can be addressed. All methods are called from the poll loop's single
// goroutine; no locking is needed.
type RoomClient struct {
	roomClient     *lksdk.RoomServiceClient
	unassignedRoom string
	logger         *slog.Logger

	locations map[roster.Name]location
	roomNames []string
}

// NewRoomClient creates a RoomClient for the given deployment.
// unassignedRoom is the room treated as the waiting pool rather than a
// breakout room. Returns nil if url, apiKey or apiSecret is empty.
func NewRoomClient(url, apiKey, apiSecret, unassignedRoom string, logger *slog.Logger) *RoomClient {
	if url == "" || apiKey == "" || apiSecret == "" {
		return nil
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &RoomClient{
		roomClient:     lksdk.NewRoomServiceClient(url, apiKey, apiSecret),
		unassignedRoom: unassignedRoom,
		logger:         logger,
		locations:      make(map[roster.Name]location),
	}
}

// FetchSnapshot lists all rooms and their participants and assembles a
// snapshot. A failing room listing is the transient failure the loop
// skips an iteration on; a failure to list one room's participants only
// drops that room from the snapshot, with a warning.
func (c *RoomClient) FetchSnapshot(ctx context.Context) (roster.Snapshot, error) {
	if c.roomClient == nil {
		return roster.Snapshot{}, ErrNotConfigured
	}

	resp, err := c.roomClient.ListRooms(ctx, &livekit.ListRoomsRequest{})
	if err != nil {
		return roster.Snapshot{}, fmt.Errorf("failed to list rooms: %w", err)
	}

	var snapshot roster.Snapshot
	locations := make(map[roster.Name]location)
	roomNames := make([]string, 0, len(resp.Rooms))
	for _, room := range resp.Rooms {
		if room.Name == "" {
			c.logger.Warn("dropping room record with empty name", "sid", room.Sid)
			continue
		}
		participants, err := c.roomClient.ListParticipants(ctx, &livekit.ListParticipantsRequest{
			Room: room.Name,
		})
		if err != nil {
			c.logger.Warn("dropping room from snapshot",
				"room", room.Name, "error", err.Error())
			continue
		}
		names := make([]roster.Name, 0, len(participants.Participants))
		for _, p := range participants.Participants {
			display := p.Name
			if display == "" {
				display = p.Identity
			}
			name := roster.Name(display)
			names = append(names, name)
			locations[name] = location{identity: p.Identity, room: room.Name}
		}
		roomNames = append(roomNames, room.Name)
		r := roster.Room{Name: room.Name, Participants: names}
		if room.Name == c.unassignedRoom {
			snapshot.Unassigned = &r
		} else {
			snapshot.Rooms = append(snapshot.Rooms, r)
		}
	}

	c.locations = locations
	c.roomNames = roomNames
	return snapshot, nil
}

// Assign moves a participant into the given room.
func (c *RoomClient) Assign(ctx context.Context, participant roster.Name, roomName string) error {
	if c.roomClient == nil {
		return ErrNotConfigured
	}
	loc, ok := c.locations[participant]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownParticipant, participant)
	}
	_, err := c.roomClient.MoveParticipant(ctx, &livekit.MoveParticipantRequest{
		Room:            loc.room,
		Identity:        loc.identity,
		DestinationRoom: roomName,
	})
	if err != nil {
		return fmt.Errorf("failed to move participant: %w", err)
	}
	return nil
}

// Broadcast sends a reliable data message to every room seen in the
// latest snapshot, the unassigned pool included.
func (c *RoomClient) Broadcast(ctx context.Context, message string) error {
	if c.roomClient == nil {
		return ErrNotConfigured
	}
	var errs []error
	for _, room := range c.roomNames {
		if err := c.sendData(ctx, room, message); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// SendToMainRoom sends a reliable data message to the unassigned pool only.
func (c *RoomClient) SendToMainRoom(ctx context.Context, message string) error {
	if c.roomClient == nil {
		return ErrNotConfigured
	}
	return c.sendData(ctx, c.unassignedRoom, message)
}

func (c *RoomClient) sendData(ctx context.Context, room, message string) error {
	_, err := c.roomClient.SendData(ctx, &livekit.SendDataRequest{
		Room: room,
		Data: []byte(message),
		Kind: livekit.DataPacket_RELIABLE,
	})
	if err != nil {
		return fmt.Errorf("failed to send data to room %s: %w", room, err)
	}
	return nil
}
