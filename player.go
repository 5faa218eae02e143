// this file deals with the playback state of the shared player
package main

import "time"

// Catalog resolves ids and names coming in over the wire to track metadata.
// An unknown id is reported as ok=false, never as an error; the player treats
// it as a silent no-op.
type Catalog interface {
	TrackByID(id int64) (*Track, bool)
	PlaylistTracksByID(id int64) ([]Track, bool)
	PlaylistTracksByName(name string) ([]Track, bool)
	AlbumTracks(id int64) ([]Track, bool)
}

type playMode int

const (
	modeQueue playMode = iota
	modeList
)

// Player is the playback engine: one mutable aggregate holding the queue,
// the current track, elapsed time and loop flags. It is pure logic with no
// locking of its own; the Jukebox owns the only instance and serializes
// every call.
type Player struct {
	catalog Catalog

	queue        []Track
	selection    []Track
	selectionIdx int

	current *Track
	elapsed int
	paused  bool
	mode    playMode

	loopTrack    bool
	loopPlaylist bool
}

func NewPlayer(catalog Catalog) *Player {
	return &Player{
		catalog: catalog,
		queue:   make([]Track, 0),
	}
}

// Reset puts the player back into its initial state, queue included.
func (p *Player) Reset() {
	p.queue = p.queue[:0]
	p.StopAll()
}

func (p *Player) IsStopped() bool {
	return p.current == nil
}

// Enqueue appends the track to the queue and starts playback if the player
// was stopped. Returns false when the id does not resolve.
func (p *Player) Enqueue(trackID int64) bool {
	track, ok := p.catalog.TrackByID(trackID)
	if !ok {
		return false
	}

	p.queue = append(p.queue, *track)
	if p.current == nil {
		p.Play()
	}
	return true
}

// Dequeue removes the first queue entry with the given id. The current track
// is never touched; only not-yet-played entries live in the queue.
func (p *Player) Dequeue(trackID int64) bool {
	for i, t := range p.queue {
		if t.ID == trackID {
			p.queue = append(p.queue[:i], p.queue[i+1:]...)
			return true
		}
	}
	return false
}

// Play resumes a paused track, or advances to the next source when nothing
// is playing.
func (p *Player) Play() *Track {
	if p.current == nil {
		return p.advance()
	}
	p.paused = false
	return p.current
}

func (p *Player) Pause() {
	if p.current != nil {
		p.paused = true
	}
}

// StopAll halts playback entirely. Queue contents survive; the list
// selection is dropped since mode falls back to queue and the backing list
// would only linger as dead data.
func (p *Player) StopAll() {
	p.current = nil
	p.elapsed = 0
	p.paused = false
	p.mode = modeQueue
	p.selection = nil
	p.selectionIdx = 0
	p.loopTrack = false
	p.loopPlaylist = false
}

func (p *Player) Skip() *Track {
	return p.advance()
}

// Tick advances playback by one second. Paused or stopped players are left
// untouched. When the track runs out it either replays (loop track) or the
// player moves on to the next source.
func (p *Player) Tick() *Track {
	if p.current == nil || p.paused {
		return p.current
	}

	p.elapsed++
	if p.elapsed < p.current.Duration {
		return p.current
	}

	if p.loopTrack {
		p.elapsed = 0
		return p.current
	}

	return p.advance()
}

// advance moves to the next track: the following list entry in list mode
// (wrapping when the playlist loops), otherwise the queue head. With nothing
// left to play it stops the player and returns nil.
func (p *Player) advance() *Track {
	p.elapsed = 0
	p.paused = false

	if p.mode == modeList {
		p.selectionIdx++
		if p.selectionIdx >= len(p.selection) {
			if !p.loopPlaylist {
				p.StopAll()
				return nil
			}
			p.selectionIdx = 0
		}
		p.current = &p.selection[p.selectionIdx]
		return p.current
	}

	if len(p.queue) > 0 {
		head := p.queue[0]
		p.queue = p.queue[1:]
		p.current = &head
		return p.current
	}

	p.StopAll()
	return nil
}

// SelectTrack plays a single track immediately. Leaves the queue alone but
// drops list mode and both loop flags.
func (p *Player) SelectTrack(trackID int64) (*Track, bool) {
	track, ok := p.catalog.TrackByID(trackID)
	if !ok {
		return nil, false
	}

	p.mode = modeQueue
	p.selection = nil
	p.selectionIdx = 0
	p.loopTrack = false
	p.loopPlaylist = false

	p.current = track
	p.elapsed = 0
	p.paused = false
	return p.current, true
}

func (p *Player) SelectPlaylistByID(playlistID int64, loop bool) (*Track, bool) {
	tracks, ok := p.catalog.PlaylistTracksByID(playlistID)
	if !ok || len(tracks) == 0 {
		return nil, false
	}
	return p.selectList(tracks, loop), true
}

func (p *Player) SelectPlaylistByName(name string, loop bool) (*Track, bool) {
	tracks, ok := p.catalog.PlaylistTracksByName(name)
	if !ok || len(tracks) == 0 {
		return nil, false
	}
	return p.selectList(tracks, loop), true
}

func (p *Player) SelectAlbum(albumID int64, loop bool) (*Track, bool) {
	tracks, ok := p.catalog.AlbumTracks(albumID)
	if !ok || len(tracks) == 0 {
		return nil, false
	}
	return p.selectList(tracks, loop), true
}

// selectList enters list mode on the given tracks, clearing the queue and
// starting from the first entry.
func (p *Player) selectList(tracks []Track, loop bool) *Track {
	p.mode = modeList
	p.selection = tracks
	p.selectionIdx = 0
	p.loopPlaylist = loop
	p.loopTrack = false

	p.queue = p.queue[:0]
	p.current = &p.selection[0]
	p.elapsed = 0
	p.paused = false
	return p.current
}

// SetLoopTrack toggles replaying the current track. Enabling it forces loop
// playlist off; the reverse direction does not apply.
func (p *Player) SetLoopTrack(enabled bool) {
	if p.current == nil {
		return
	}
	p.loopTrack = enabled
	if enabled {
		p.loopPlaylist = false
	}
}

// SetLoopPlaylist toggles wrapping the list selection. No-op outside list
// mode.
func (p *Player) SetLoopPlaylist(enabled bool) {
	if p.mode != modeList {
		return
	}
	p.loopPlaylist = enabled
}

// PlayerStatus is the snapshot sent to every connected listener.
type PlayerStatus struct {
	Status       string   `json:"status"`
	Track        *string  `json:"track"`
	Elapsed      int      `json:"elapsed"`
	Duration     *int     `json:"duration"`
	Queue        []string `json:"queue"`
	LoopTrack    bool     `json:"loop_track"`
	LoopPlaylist bool     `json:"loop_playlist"`
	Time         string   `json:"time"`
}

const (
	StatusPlaying = "PLAYING"
	StatusPaused  = "PAUSED"
	StatusStopped = "STOPPED"
)

// Snapshot serializes the player state at the given instant.
func (p *Player) Snapshot(now time.Time) PlayerStatus {
	st := PlayerStatus{
		Status:       StatusStopped,
		Elapsed:      p.elapsed,
		Queue:        make([]string, 0, len(p.queue)),
		LoopTrack:    p.loopTrack,
		LoopPlaylist: p.loopPlaylist,
		Time:         now.Format(time.RFC3339),
	}

	if p.current != nil {
		st.Status = StatusPlaying
		if p.paused {
			st.Status = StatusPaused
		}
		title := p.current.Title
		duration := p.current.Duration
		st.Track = &title
		st.Duration = &duration
	}

	for _, t := range p.queue {
		st.Queue = append(st.Queue, t.Title)
	}
	return st
}
