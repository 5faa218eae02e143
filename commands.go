// this file defines the inbound control protocol and its parsing
package main

import (
	"encoding/json"
	"fmt"
)

// Command is one parsed client instruction. Each variant carries only the
// fields its player operation needs; payload validation happens here at the
// boundary so the player never sees raw JSON.
type Command interface {
	apply(p *Player)
}

type PlayCmd struct{}
type PauseCmd struct{}
type StopCmd struct{}
type SkipCmd struct{}

type TrackSelectCmd struct{ ID int64 }
type QueueAddCmd struct{ TrackID int64 }
type QueueRemoveCmd struct{ ID int64 }

type PlaylistSelectIDCmd struct {
	ID   int64
	Loop bool
}

type PlaylistSelectNameCmd struct {
	Name string
	Loop bool
}

type AlbumSelectCmd struct {
	ID   int64
	Loop bool
}

type LoopTrackCmd struct{ Enabled bool }
type LoopPlaylistCmd struct{ Enabled bool }

func (PlayCmd) apply(p *Player)  { p.Play() }
func (PauseCmd) apply(p *Player) { p.Pause() }
func (StopCmd) apply(p *Player)  { p.StopAll() }
func (SkipCmd) apply(p *Player)  { p.Skip() }

func (c TrackSelectCmd) apply(p *Player)  { p.SelectTrack(c.ID) }
func (c QueueAddCmd) apply(p *Player)     { p.Enqueue(c.TrackID) }
func (c QueueRemoveCmd) apply(p *Player)  { p.Dequeue(c.ID) }
func (c LoopTrackCmd) apply(p *Player)    { p.SetLoopTrack(c.Enabled) }
func (c LoopPlaylistCmd) apply(p *Player) { p.SetLoopPlaylist(c.Enabled) }

func (c PlaylistSelectIDCmd) apply(p *Player)   { p.SelectPlaylistByID(c.ID, c.Loop) }
func (c PlaylistSelectNameCmd) apply(p *Player) { p.SelectPlaylistByName(c.Name, c.Loop) }
func (c AlbumSelectCmd) apply(p *Player)        { p.SelectAlbum(c.ID, c.Loop) }

// ParseCommand decodes one inbound message. Unknown commands and malformed
// payloads come back as errors; the caller drops the message and keeps the
// loop alive.
func ParseCommand(data []byte) (Command, error) {
	var envelope struct {
		Command string          `json:"command"`
		Payload json.RawMessage `json:"payload"`
	}
	if err := json.Unmarshal(data, &envelope); err != nil {
		return nil, fmt.Errorf("unparseable message: %w", err)
	}

	switch envelope.Command {
	case "play":
		return PlayCmd{}, nil
	case "pause":
		return PauseCmd{}, nil
	case "stop":
		return StopCmd{}, nil
	case "skip":
		return SkipCmd{}, nil

	case "track_select":
		var payload struct {
			ID *int64 `json:"id"`
		}
		if err := decodePayload(envelope.Payload, &payload); err != nil {
			return nil, err
		}
		if payload.ID == nil {
			return nil, fmt.Errorf("track_select: missing id")
		}
		return TrackSelectCmd{ID: *payload.ID}, nil

	case "queue_add":
		var payload struct {
			Track *int64 `json:"track"`
		}
		if err := decodePayload(envelope.Payload, &payload); err != nil {
			return nil, err
		}
		if payload.Track == nil {
			return nil, fmt.Errorf("queue_add: missing track")
		}
		return QueueAddCmd{TrackID: *payload.Track}, nil

	case "queue_remove":
		var payload struct {
			ID *int64 `json:"id"`
		}
		if err := decodePayload(envelope.Payload, &payload); err != nil {
			return nil, err
		}
		if payload.ID == nil {
			return nil, fmt.Errorf("queue_remove: missing id")
		}
		return QueueRemoveCmd{ID: *payload.ID}, nil

	case "playlist_select_id":
		var payload struct {
			ID   *int64 `json:"id"`
			Loop bool   `json:"loop"`
		}
		if err := decodePayload(envelope.Payload, &payload); err != nil {
			return nil, err
		}
		if payload.ID == nil {
			return nil, fmt.Errorf("playlist_select_id: missing id")
		}
		return PlaylistSelectIDCmd{ID: *payload.ID, Loop: payload.Loop}, nil

	case "playlist_select_name":
		var payload struct {
			Name *string `json:"name"`
			Loop bool    `json:"loop"`
		}
		if err := decodePayload(envelope.Payload, &payload); err != nil {
			return nil, err
		}
		if payload.Name == nil {
			return nil, fmt.Errorf("playlist_select_name: missing name")
		}
		return PlaylistSelectNameCmd{Name: *payload.Name, Loop: payload.Loop}, nil

	case "album_select_id":
		var payload struct {
			ID   *int64 `json:"id"`
			Loop bool   `json:"loop"`
		}
		if err := decodePayload(envelope.Payload, &payload); err != nil {
			return nil, err
		}
		if payload.ID == nil {
			return nil, fmt.Errorf("album_select_id: missing id")
		}
		return AlbumSelectCmd{ID: *payload.ID, Loop: payload.Loop}, nil

	// the loop commands carry a bare boolean payload, not an object
	case "loop_track":
		enabled, err := decodeBoolPayload(envelope.Payload)
		if err != nil {
			return nil, fmt.Errorf("loop_track: %w", err)
		}
		return LoopTrackCmd{Enabled: enabled}, nil

	case "loop_playlist":
		enabled, err := decodeBoolPayload(envelope.Payload)
		if err != nil {
			return nil, fmt.Errorf("loop_playlist: %w", err)
		}
		return LoopPlaylistCmd{Enabled: enabled}, nil
	}

	return nil, fmt.Errorf("unknown command %q", envelope.Command)
}

func decodePayload(raw json.RawMessage, dst interface{}) error {
	if len(raw) == 0 {
		return fmt.Errorf("missing payload")
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return fmt.Errorf("bad payload: %w", err)
	}
	return nil
}

func decodeBoolPayload(raw json.RawMessage) (bool, error) {
	if len(raw) == 0 {
		return false, nil
	}
	var enabled bool
	if err := json.Unmarshal(raw, &enabled); err != nil {
		return false, fmt.Errorf("bad payload: %w", err)
	}
	return enabled, nil
}
