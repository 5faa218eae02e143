package main

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeCatalog backs the player with in-memory metadata.
type fakeCatalog struct {
	tracks    map[int64]Track
	playlists map[int64][]Track
	names     map[string][]Track
	albums    map[int64][]Track
}

func (f *fakeCatalog) TrackByID(id int64) (*Track, bool) {
	t, ok := f.tracks[id]
	if !ok {
		return nil, false
	}
	return &t, true
}

func (f *fakeCatalog) PlaylistTracksByID(id int64) ([]Track, bool) {
	tracks, ok := f.playlists[id]
	return tracks, ok
}

func (f *fakeCatalog) PlaylistTracksByName(name string) ([]Track, bool) {
	tracks, ok := f.names[name]
	return tracks, ok
}

func (f *fakeCatalog) AlbumTracks(id int64) ([]Track, bool) {
	tracks, ok := f.albums[id]
	return tracks, ok
}

func newFakeCatalog() *fakeCatalog {
	trackA := Track{ID: 1, Title: "Alpha", Duration: 3}
	trackB := Track{ID: 2, Title: "Beta", Duration: 2}
	trackC := Track{ID: 3, Title: "Gamma", Duration: 4}

	return &fakeCatalog{
		tracks: map[int64]Track{1: trackA, 2: trackB, 3: trackC},
		playlists: map[int64][]Track{
			10: {trackA, trackB},
			11: {},
		},
		names: map[string][]Track{
			"evening": {trackB, trackC},
		},
		albums: map[int64][]Track{
			20: {trackA, trackB, trackC},
		},
	}
}

func snapshot(p *Player) PlayerStatus {
	return p.Snapshot(time.Now())
}

func TestSelectTrackStartsPlayback(t *testing.T) {
	p := NewPlayer(newFakeCatalog())

	track, ok := p.SelectTrack(1)
	require.True(t, ok)
	require.Equal(t, "Alpha", track.Title)

	st := snapshot(p)
	assert.Equal(t, StatusPlaying, st.Status)
	require.NotNil(t, st.Track)
	assert.Equal(t, "Alpha", *st.Track)
	assert.Equal(t, 0, st.Elapsed)
	require.NotNil(t, st.Duration)
	assert.Equal(t, 3, *st.Duration)
}

func TestSelectTrackUnknownIsNoop(t *testing.T) {
	p := NewPlayer(newFakeCatalog())

	track, ok := p.SelectTrack(99)
	assert.False(t, ok)
	assert.Nil(t, track)
	assert.True(t, p.IsStopped())
}

func TestTickRunsTrackOutAndStops(t *testing.T) {
	p := NewPlayer(newFakeCatalog())
	p.SelectTrack(1) // duration 3

	assert.NotNil(t, p.Tick())
	assert.NotNil(t, p.Tick())
	st := snapshot(p)
	assert.Equal(t, 2, st.Elapsed)
	assert.Equal(t, StatusPlaying, st.Status)

	// final second of the track, nothing queued
	assert.Nil(t, p.Tick())
	st = snapshot(p)
	assert.Equal(t, StatusStopped, st.Status)
	assert.Nil(t, st.Track)
	assert.Nil(t, st.Duration)
	assert.Equal(t, 0, st.Elapsed)
}

func TestTickAdvancesToQueuedTrack(t *testing.T) {
	p := NewPlayer(newFakeCatalog())
	p.SelectTrack(1) // duration 3
	require.True(t, p.Enqueue(2))

	p.Tick()
	p.Tick()
	next := p.Tick()
	require.NotNil(t, next)
	assert.Equal(t, "Beta", next.Title)

	st := snapshot(p)
	assert.Equal(t, StatusPlaying, st.Status)
	assert.Equal(t, 0, st.Elapsed)
	assert.Empty(t, st.Queue)
}

func TestLoopTrackReplaysFromStart(t *testing.T) {
	p := NewPlayer(newFakeCatalog())
	p.SelectTrack(2) // duration 2
	p.SetLoopTrack(true)

	for i := 0; i < 10; i++ {
		track := p.Tick()
		require.NotNil(t, track)
		assert.Equal(t, "Beta", track.Title)
	}

	st := snapshot(p)
	assert.Equal(t, StatusPlaying, st.Status)
	assert.Equal(t, 0, st.Elapsed) // 10 ticks = 5 full plays of a 2s track
}

func TestLoopPlaylistWrapsToFirstTrack(t *testing.T) {
	p := NewPlayer(newFakeCatalog())
	first, ok := p.SelectPlaylistByID(10, true) // [Alpha 3s, Beta 2s]
	require.True(t, ok)
	require.Equal(t, "Alpha", first.Title)

	// run through the full cumulative duration
	for i := 0; i < 5; i++ {
		require.NotNil(t, p.Tick())
	}

	st := snapshot(p)
	assert.Equal(t, StatusPlaying, st.Status)
	require.NotNil(t, st.Track)
	assert.Equal(t, "Alpha", *st.Track)
	assert.Equal(t, 0, st.Elapsed)
}

func TestPlaylistWithoutLoopStopsAtEnd(t *testing.T) {
	p := NewPlayer(newFakeCatalog())
	_, ok := p.SelectPlaylistByID(10, false)
	require.True(t, ok)

	for i := 0; i < 5; i++ {
		p.Tick()
	}

	st := snapshot(p)
	assert.Equal(t, StatusStopped, st.Status)
	assert.Nil(t, st.Track)
}

func TestSelectPlaylistByName(t *testing.T) {
	p := NewPlayer(newFakeCatalog())

	first, ok := p.SelectPlaylistByName("evening", false)
	require.True(t, ok)
	assert.Equal(t, "Beta", first.Title)

	_, ok = p.SelectPlaylistByName("morning", false)
	assert.False(t, ok)
}

func TestSelectEmptyPlaylistIsNoop(t *testing.T) {
	p := NewPlayer(newFakeCatalog())
	p.SelectTrack(1)

	_, ok := p.SelectPlaylistByID(11, false)
	assert.False(t, ok)

	st := snapshot(p)
	assert.Equal(t, StatusPlaying, st.Status)
	assert.Equal(t, "Alpha", *st.Track)
}

func TestSelectAlbumPlaysThrough(t *testing.T) {
	p := NewPlayer(newFakeCatalog())
	first, ok := p.SelectAlbum(20, false) // Alpha 3, Beta 2, Gamma 4
	require.True(t, ok)
	assert.Equal(t, "Alpha", first.Title)

	for i := 0; i < 3; i++ {
		p.Tick()
	}
	assert.Equal(t, "Beta", *snapshot(p).Track)

	for i := 0; i < 2; i++ {
		p.Tick()
	}
	assert.Equal(t, "Gamma", *snapshot(p).Track)

	for i := 0; i < 4; i++ {
		p.Tick()
	}
	assert.Equal(t, StatusStopped, snapshot(p).Status)
}

func TestPauseFreezesElapsedUntilPlay(t *testing.T) {
	p := NewPlayer(newFakeCatalog())
	p.SelectTrack(3) // duration 4
	p.Tick()

	p.Pause()
	for i := 0; i < 5; i++ {
		p.Tick()
	}
	st := snapshot(p)
	assert.Equal(t, StatusPaused, st.Status)
	assert.Equal(t, 1, st.Elapsed)

	p.Play()
	p.Tick()
	st = snapshot(p)
	assert.Equal(t, StatusPlaying, st.Status)
	assert.Equal(t, 2, st.Elapsed)
}

func TestPauseWhenStoppedIsNoop(t *testing.T) {
	p := NewPlayer(newFakeCatalog())
	p.Pause()
	assert.Equal(t, StatusStopped, snapshot(p).Status)
}

func TestEnqueueOnStoppedPlayerAutoplays(t *testing.T) {
	p := NewPlayer(newFakeCatalog())

	require.True(t, p.Enqueue(1))

	st := snapshot(p)
	assert.Equal(t, StatusPlaying, st.Status)
	assert.Equal(t, "Alpha", *st.Track)
	assert.Equal(t, 0, st.Elapsed)
	assert.Empty(t, st.Queue)
}

func TestEnqueueUnknownTrackIsNoop(t *testing.T) {
	p := NewPlayer(newFakeCatalog())
	assert.False(t, p.Enqueue(99))
	assert.True(t, p.IsStopped())
	assert.Empty(t, snapshot(p).Queue)
}

func TestEnqueueWhilePlayingQueuesUp(t *testing.T) {
	p := NewPlayer(newFakeCatalog())
	p.SelectTrack(1)
	p.Enqueue(2)
	p.Enqueue(3)

	assert.Equal(t, []string{"Beta", "Gamma"}, snapshot(p).Queue)
}

func TestDequeueRemovesFirstMatchOnly(t *testing.T) {
	p := NewPlayer(newFakeCatalog())
	p.SelectTrack(1)
	p.Enqueue(2)
	p.Enqueue(3)
	p.Enqueue(2)

	assert.True(t, p.Dequeue(2))
	assert.Equal(t, []string{"Gamma", "Beta"}, snapshot(p).Queue)
}

func TestDequeueMissingIDLeavesStateAlone(t *testing.T) {
	p := NewPlayer(newFakeCatalog())
	p.SelectTrack(1)
	p.Enqueue(2)

	assert.False(t, p.Dequeue(3))

	st := snapshot(p)
	assert.Equal(t, "Alpha", *st.Track)
	assert.Equal(t, []string{"Beta"}, st.Queue)
}

func TestSkipAdvancesThroughQueue(t *testing.T) {
	p := NewPlayer(newFakeCatalog())
	p.SelectTrack(1)
	p.Enqueue(2)

	next := p.Skip()
	require.NotNil(t, next)
	assert.Equal(t, "Beta", next.Title)

	// nothing left
	assert.Nil(t, p.Skip())
	assert.True(t, p.IsStopped())
}

func TestStopAllKeepsQueueContents(t *testing.T) {
	p := NewPlayer(newFakeCatalog())
	p.SelectTrack(1)
	p.Enqueue(2)
	p.Enqueue(3)

	p.StopAll()

	st := snapshot(p)
	assert.Equal(t, StatusStopped, st.Status)
	assert.Equal(t, []string{"Beta", "Gamma"}, st.Queue)

	// play resumes from the queue head
	track := p.Play()
	require.NotNil(t, track)
	assert.Equal(t, "Beta", track.Title)
}

func TestSelectTrackKeepsQueueAndClearsLoops(t *testing.T) {
	p := NewPlayer(newFakeCatalog())
	p.SelectTrack(1)
	p.SetLoopTrack(true)
	p.Enqueue(2)

	p.SelectTrack(3)

	st := snapshot(p)
	assert.Equal(t, "Gamma", *st.Track)
	assert.False(t, st.LoopTrack)
	assert.False(t, st.LoopPlaylist)
	assert.Equal(t, []string{"Beta"}, st.Queue)
}

func TestSelectPlaylistClearsQueue(t *testing.T) {
	p := NewPlayer(newFakeCatalog())
	p.SelectTrack(1)
	p.Enqueue(2)

	_, ok := p.SelectPlaylistByID(10, false)
	require.True(t, ok)
	assert.Empty(t, snapshot(p).Queue)
}

func TestLoopFlagsMutualExclusion(t *testing.T) {
	p := NewPlayer(newFakeCatalog())
	_, ok := p.SelectPlaylistByID(10, true)
	require.True(t, ok)
	require.True(t, snapshot(p).LoopPlaylist)

	// enabling loop track always forces loop playlist off
	p.SetLoopTrack(true)
	st := snapshot(p)
	assert.True(t, st.LoopTrack)
	assert.False(t, st.LoopPlaylist)

	// the reverse direction does not clear loop track
	p.SetLoopPlaylist(true)
	st = snapshot(p)
	assert.True(t, st.LoopTrack)
	assert.True(t, st.LoopPlaylist)
}

func TestSetLoopTrackNoopWhenStopped(t *testing.T) {
	p := NewPlayer(newFakeCatalog())
	p.SetLoopTrack(true)
	assert.False(t, snapshot(p).LoopTrack)
}

func TestSetLoopPlaylistNoopOutsideListMode(t *testing.T) {
	p := NewPlayer(newFakeCatalog())
	p.SelectTrack(1)
	p.SetLoopPlaylist(true)
	assert.False(t, snapshot(p).LoopPlaylist)
}

func TestTickWhenStoppedIsNoop(t *testing.T) {
	p := NewPlayer(newFakeCatalog())
	assert.Nil(t, p.Tick())
	assert.Equal(t, 0, snapshot(p).Elapsed)
}

func TestResetClearsEverything(t *testing.T) {
	p := NewPlayer(newFakeCatalog())
	p.SelectTrack(1)
	p.Enqueue(2)
	p.SetLoopTrack(true)

	p.Reset()

	st := snapshot(p)
	assert.Equal(t, StatusStopped, st.Status)
	assert.Empty(t, st.Queue)
	assert.False(t, st.LoopTrack)
	assert.False(t, st.LoopPlaylist)
}
