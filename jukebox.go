// this file deals with the global state of the system
package main

import (
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// Jukebox owns the one Player the whole process shares. Every connection
// applies commands through it, and a single goroutine drives the once-per-
// second tick regardless of how many listeners are connected. Snapshots fan
// out to subscribers after every tick and after every applied command.
type Jukebox struct {
	mu        sync.Mutex
	player    *Player
	listeners map[chan PlayerStatus]struct{}

	interval time.Duration
	done     chan struct{}
	stopOnce sync.Once

	log zerolog.Logger
}

// listenerBuffer absorbs bursts (command broadcasts between ticks); a slow
// listener skips intermediate snapshots instead of blocking the jukebox.
const listenerBuffer = 8

func NewJukebox(catalog Catalog, interval time.Duration, logger zerolog.Logger) *Jukebox {
	return &Jukebox{
		player:    NewPlayer(catalog),
		listeners: make(map[chan PlayerStatus]struct{}),
		interval:  interval,
		done:      make(chan struct{}),
		log:       logger.With().Str("component", "jukebox").Logger(),
	}
}

// Start launches the tick loop. Call once at process start.
func (j *Jukebox) Start() {
	go j.run()
}

func (j *Jukebox) run() {
	ticker := time.NewTicker(j.interval)
	defer ticker.Stop()

	j.log.Info().Dur("interval", j.interval).Msg("jukebox started")
	for {
		select {
		case <-j.done:
			j.log.Info().Msg("jukebox stopped")
			return
		case <-ticker.C:
			j.tick()
		}
	}
}

// Shutdown stops the tick loop. Connected listeners keep their channels;
// they simply stop receiving snapshots.
func (j *Jukebox) Shutdown() {
	j.stopOnce.Do(func() { close(j.done) })
}

// tick advances playback by one second and broadcasts the result. Serialized
// with Apply through the mutex, so overlapping callers can never advance
// time twice for the same second.
func (j *Jukebox) tick() {
	j.mu.Lock()
	j.player.Tick()
	st := j.player.Snapshot(time.Now())
	j.mu.Unlock()

	j.broadcast(st)
}

// Apply runs one command against the player and broadcasts the new state.
func (j *Jukebox) Apply(cmd Command) {
	j.mu.Lock()
	cmd.apply(j.player)
	st := j.player.Snapshot(time.Now())
	j.mu.Unlock()

	j.broadcast(st)
}

// Status returns the current snapshot without mutating anything.
func (j *Jukebox) Status() PlayerStatus {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.player.Snapshot(time.Now())
}

// Subscribe registers a listener for snapshot fan-out. The caller must
// Unsubscribe when its connection goes away.
func (j *Jukebox) Subscribe() chan PlayerStatus {
	ch := make(chan PlayerStatus, listenerBuffer)
	j.mu.Lock()
	j.listeners[ch] = struct{}{}
	j.mu.Unlock()
	return ch
}

func (j *Jukebox) Unsubscribe(ch chan PlayerStatus) {
	j.mu.Lock()
	delete(j.listeners, ch)
	j.mu.Unlock()
}

func (j *Jukebox) broadcast(st PlayerStatus) {
	j.mu.Lock()
	defer j.mu.Unlock()

	for ch := range j.listeners {
		select {
		case ch <- st:
		default:
			// listener is behind; it will catch up on the next snapshot
		}
	}
}
