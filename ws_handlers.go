// this file contains the websocket endpoint driving the shared player
package main

import (
	"net/http"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo"
	"github.com/rs/zerolog"
)

var upgrader = websocket.Upgrader{
	// the control protocol is open to any origin, like the rest of the API
	CheckOrigin: func(r *http.Request) bool { return true },
}

// playerSocketHandler upgrades the connection and runs it against the shared
// jukebox. Every client sees and mutates the same player.
func playerSocketHandler(jukebox *Jukebox, logger zerolog.Logger) echo.HandlerFunc {
	return func(c echo.Context) error {
		conn, err := upgrader.Upgrade(c.Response(), c.Request(), nil)
		if err != nil {
			return err
		}
		serveConn(conn, jukebox, logger.With().Str("remote", conn.RemoteAddr().String()).Logger())
		return nil
	}
}

// serveConn pumps one client: a reader goroutine applies inbound commands,
// the writer drains the snapshot subscription. Either side failing tears
// down only this connection; the shared player is never touched by a
// disconnect.
func serveConn(conn *websocket.Conn, jukebox *Jukebox, log zerolog.Logger) {
	defer conn.Close()

	ch := jukebox.Subscribe()
	defer jukebox.Unsubscribe(ch)

	// initial snapshot so the client renders state before the first tick
	if err := conn.WriteJSON(jukebox.Status()); err != nil {
		return
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			_, data, err := conn.ReadMessage()
			if err != nil {
				return
			}
			cmd, err := ParseCommand(data)
			if err != nil {
				// bad input is dropped, the loop keeps going
				log.Debug().Err(err).Msg("dropping message")
				continue
			}
			jukebox.Apply(cmd)
		}
	}()

	for {
		select {
		case <-done:
			log.Debug().Msg("client disconnected")
			return
		case st := <-ch:
			if err := conn.WriteJSON(st); err != nil {
				log.Debug().Err(err).Msg("write failed, closing")
				return
			}
		}
	}
}
