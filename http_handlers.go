package main

// this file contains implementation of HTTP handlers - REST API

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/dgrijalva/jwt-go"
	"github.com/labstack/echo"
	"github.com/labstack/echo/middleware"
	"github.com/rs/zerolog"
)

const tokenLifetime = time.Hour * 72

type apiServer struct {
	service   Service
	jukebox   *Jukebox
	sessions  *SessionStore
	jwtSecret []byte
	log       zerolog.Logger
}

func NewHTTPRouter(service Service, jukebox *Jukebox, sessions *SessionStore, jwtSecret []byte, logger zerolog.Logger) *echo.Echo {
	a := &apiServer{
		service:   service,
		jukebox:   jukebox,
		sessions:  sessions,
		jwtSecret: jwtSecret,
		log:       logger.With().Str("component", "http").Logger(),
	}

	r := echo.New()
	r.HideBanner = true
	r.Use(middleware.LoggerWithConfig(middleware.LoggerConfig{
		Format: "method=${method}, uri=${uri}, status=${status}\n",
	}))

	// the shared player; one persistent connection per client
	r.GET("/ws", playerSocketHandler(jukebox, logger))

	router := r.Group("/api")
	router.GET("/health", a.healthCheckHandler)

	router.POST("/auth/register", a.registerHandler)
	router.POST("/auth/login", a.loginHandler)
	router.POST("/auth/logout", a.logoutHandler, middleware.JWT(a.jwtSecret), a.requireSession)

	authed := []echo.MiddlewareFunc{middleware.JWT(a.jwtSecret), a.requireSession}

	userGroup := router.Group("/users", authed...)
	{
		userGroup.GET("", a.listUsersHandler)
		userGroup.GET("/:id", a.getUserHandler)
		userGroup.PUT("/:id", a.updateUserHandler)
		userGroup.DELETE("/:id", a.deleteUserHandler)
	}

	artistGroup := router.Group("/artists")
	{
		artistGroup.GET("", a.listArtistsHandler)
		artistGroup.GET("/:id", a.getArtistHandler)
		artistGroup.POST("", a.createArtistHandler, authed...)
		artistGroup.PUT("/:id", a.updateArtistHandler, authed...)
		artistGroup.DELETE("/:id", a.deleteArtistHandler, authed...)
	}

	albumGroup := router.Group("/albums")
	{
		albumGroup.GET("", a.listAlbumsHandler)
		albumGroup.GET("/:id", a.getAlbumHandler)
		albumGroup.GET("/:id/tracks", a.albumTracksHandler)
		albumGroup.POST("", a.createAlbumHandler, authed...)
		albumGroup.PUT("/:id", a.updateAlbumHandler, authed...)
		albumGroup.DELETE("/:id", a.deleteAlbumHandler, authed...)
	}

	trackGroup := router.Group("/tracks")
	{
		trackGroup.GET("", a.listTracksHandler)
		trackGroup.GET("/:id", a.getTrackHandler)
		trackGroup.POST("", a.createTrackHandler, authed...)
		trackGroup.PUT("/:id", a.updateTrackHandler, authed...)
		trackGroup.DELETE("/:id", a.deleteTrackHandler, authed...)
	}

	playlistGroup := router.Group("/playlists")
	{
		playlistGroup.GET("", a.listPlaylistsHandler)
		playlistGroup.GET("/:id", a.getPlaylistHandler)
		playlistGroup.GET("/:id/tracks", a.playlistTracksHandler)
		playlistGroup.POST("", a.createPlaylistHandler, authed...)
		playlistGroup.PUT("/:id", a.updatePlaylistHandler, authed...)
		playlistGroup.DELETE("/:id", a.deletePlaylistHandler, authed...)
		playlistGroup.POST("/:id/tracks/:trackID", a.addPlaylistTrackHandler, authed...)
		playlistGroup.DELETE("/:id/tracks/:trackID", a.removePlaylistTrackHandler, authed...)
	}

	return r
}

// requireSession runs after the JWT middleware: the token must carry a
// session id that is still alive in the registry. Looking the session up
// slides its expiry; logout or inactivity kills the token even before its
// JWT exp.
func (a *apiServer) requireSession(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		token, ok := c.Get("user").(*jwt.Token)
		if !ok {
			return c.JSON(http.StatusUnauthorized, echo.Map{"message": "missing token"})
		}
		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			return c.JSON(http.StatusUnauthorized, echo.Map{"message": "missing token"})
		}
		sid, _ := claims["sid"].(string)

		userID, ok := a.sessions.UserID(sid)
		if !ok {
			return c.JSON(http.StatusUnauthorized, echo.Map{"message": "session expired"})
		}
		user, err := a.service.UserByID(userID)
		if err != nil {
			return c.JSON(http.StatusUnauthorized, echo.Map{"message": "session expired"})
		}

		c.Set("currentUser", user)
		return next(c)
	}
}

func currentUser(c echo.Context) *User {
	return c.Get("currentUser").(*User)
}

func idParam(c echo.Context, name string) (int64, error) {
	return strconv.ParseInt(c.Param(name), 10, 64)
}

// jsonError maps service errors onto status codes; anything unrecognized is
// a 500.
func (a *apiServer) jsonError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, ErrNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"message": "not found"})
	case errors.Is(err, ErrForbidden):
		return c.JSON(http.StatusForbidden, echo.Map{"message": err.Error()})
	case errors.Is(err, ErrBadCredentials):
		return c.JSON(http.StatusUnauthorized, echo.Map{"message": err.Error()})
	case errors.Is(err, ErrInvalid):
		return c.JSON(http.StatusBadRequest, echo.Map{"message": err.Error()})
	}
	a.log.Error().Err(err).Str("uri", c.Request().RequestURI).Msg("handler failed")
	return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
}

func (a *apiServer) healthCheckHandler(c echo.Context) error {
	return c.String(http.StatusOK, "I am up and running!")
}

// auth

func (a *apiServer) registerHandler(c echo.Context) error {
	req := RegisterRequest{}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid body"})
	}
	user, err := a.service.Register(req)
	if err != nil {
		return a.jsonError(c, err)
	}
	return c.JSON(http.StatusOK, user)
}

func (a *apiServer) loginHandler(c echo.Context) error {
	form := struct {
		Login    string `json:"login"`
		Password string `json:"password"`
	}{}
	if err := c.Bind(&form); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid body"})
	}

	user, err := a.service.Login(form.Login, form.Password)
	if err != nil {
		return a.jsonError(c, err)
	}

	sid := a.sessions.Create(user.ID)

	token := jwt.New(jwt.SigningMethodHS256)
	claims := token.Claims.(jwt.MapClaims)
	claims["sid"] = sid
	claims["user_id"] = user.ID
	claims["exp"] = time.Now().Add(tokenLifetime).Unix()
	t, err := token.SignedString(a.jwtSecret)
	if err != nil {
		return a.jsonError(c, err)
	}

	return c.JSON(http.StatusOK, echo.Map{"token": t})
}

func (a *apiServer) logoutHandler(c echo.Context) error {
	token := c.Get("user").(*jwt.Token)
	claims := token.Claims.(jwt.MapClaims)
	if sid, ok := claims["sid"].(string); ok {
		a.sessions.Delete(sid)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "logged out"})
}

// users

func (a *apiServer) listUsersHandler(c echo.Context) error {
	users, err := a.service.Users()
	if err != nil {
		return a.jsonError(c, err)
	}
	return c.JSON(http.StatusOK, users)
}

func (a *apiServer) getUserHandler(c echo.Context) error {
	id, err := idParam(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid id"})
	}
	user, err := a.service.UserByID(id)
	if err != nil {
		return a.jsonError(c, err)
	}
	return c.JSON(http.StatusOK, user)
}

func (a *apiServer) updateUserHandler(c echo.Context) error {
	id, err := idParam(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid id"})
	}
	req := UserUpdateRequest{}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid body"})
	}
	user, err := a.service.UpdateUser(currentUser(c), id, req)
	if err != nil {
		return a.jsonError(c, err)
	}
	return c.JSON(http.StatusOK, user)
}

func (a *apiServer) deleteUserHandler(c echo.Context) error {
	id, err := idParam(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid id"})
	}
	if err := a.service.DeleteUser(currentUser(c), id); err != nil {
		return a.jsonError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "deleted"})
}

// artists

func (a *apiServer) listArtistsHandler(c echo.Context) error {
	artists, err := a.service.Artists()
	if err != nil {
		return a.jsonError(c, err)
	}
	return c.JSON(http.StatusOK, artists)
}

func (a *apiServer) getArtistHandler(c echo.Context) error {
	id, err := idParam(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid id"})
	}
	artist, err := a.service.ArtistByID(id)
	if err != nil {
		return a.jsonError(c, err)
	}
	return c.JSON(http.StatusOK, artist)
}

func (a *apiServer) createArtistHandler(c echo.Context) error {
	req := ArtistRequest{}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid body"})
	}
	artist, err := a.service.CreateArtist(req)
	if err != nil {
		return a.jsonError(c, err)
	}
	return c.JSON(http.StatusOK, artist)
}

func (a *apiServer) updateArtistHandler(c echo.Context) error {
	id, err := idParam(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid id"})
	}
	req := ArtistRequest{}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid body"})
	}
	artist, err := a.service.UpdateArtist(id, req)
	if err != nil {
		return a.jsonError(c, err)
	}
	return c.JSON(http.StatusOK, artist)
}

func (a *apiServer) deleteArtistHandler(c echo.Context) error {
	id, err := idParam(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid id"})
	}
	if err := a.service.DeleteArtist(id); err != nil {
		return a.jsonError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "deleted"})
}

// albums

func (a *apiServer) listAlbumsHandler(c echo.Context) error {
	albums, err := a.service.Albums()
	if err != nil {
		return a.jsonError(c, err)
	}
	return c.JSON(http.StatusOK, albums)
}

func (a *apiServer) getAlbumHandler(c echo.Context) error {
	id, err := idParam(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid id"})
	}
	album, err := a.service.AlbumByID(id)
	if err != nil {
		return a.jsonError(c, err)
	}
	return c.JSON(http.StatusOK, album)
}

func (a *apiServer) albumTracksHandler(c echo.Context) error {
	id, err := idParam(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid id"})
	}
	tracks, ok := a.service.AlbumTracks(id)
	if !ok {
		return a.jsonError(c, ErrNotFound)
	}
	return c.JSON(http.StatusOK, tracks)
}

func (a *apiServer) createAlbumHandler(c echo.Context) error {
	req := AlbumRequest{}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid body"})
	}
	album, err := a.service.CreateAlbum(req)
	if err != nil {
		return a.jsonError(c, err)
	}
	return c.JSON(http.StatusOK, album)
}

func (a *apiServer) updateAlbumHandler(c echo.Context) error {
	id, err := idParam(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid id"})
	}
	req := AlbumRequest{}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid body"})
	}
	album, err := a.service.UpdateAlbum(id, req)
	if err != nil {
		return a.jsonError(c, err)
	}
	return c.JSON(http.StatusOK, album)
}

func (a *apiServer) deleteAlbumHandler(c echo.Context) error {
	id, err := idParam(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid id"})
	}
	if err := a.service.DeleteAlbum(id); err != nil {
		return a.jsonError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "deleted"})
}

// tracks

func (a *apiServer) listTracksHandler(c echo.Context) error {
	tracks, err := a.service.Tracks()
	if err != nil {
		return a.jsonError(c, err)
	}
	return c.JSON(http.StatusOK, tracks)
}

func (a *apiServer) getTrackHandler(c echo.Context) error {
	id, err := idParam(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid id"})
	}
	track, ok := a.service.TrackByID(id)
	if !ok {
		return a.jsonError(c, ErrNotFound)
	}
	return c.JSON(http.StatusOK, track)
}

func (a *apiServer) createTrackHandler(c echo.Context) error {
	req := TrackRequest{}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid body"})
	}
	track, err := a.service.CreateTrack(req)
	if err != nil {
		return a.jsonError(c, err)
	}
	return c.JSON(http.StatusOK, track)
}

func (a *apiServer) updateTrackHandler(c echo.Context) error {
	id, err := idParam(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid id"})
	}
	req := TrackRequest{}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid body"})
	}
	track, err := a.service.UpdateTrack(id, req)
	if err != nil {
		return a.jsonError(c, err)
	}
	return c.JSON(http.StatusOK, track)
}

func (a *apiServer) deleteTrackHandler(c echo.Context) error {
	id, err := idParam(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid id"})
	}
	if err := a.service.DeleteTrack(id); err != nil {
		return a.jsonError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "deleted"})
}

// playlists

func (a *apiServer) listPlaylistsHandler(c echo.Context) error {
	playlists, err := a.service.Playlists()
	if err != nil {
		return a.jsonError(c, err)
	}
	return c.JSON(http.StatusOK, playlists)
}

func (a *apiServer) getPlaylistHandler(c echo.Context) error {
	id, err := idParam(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid id"})
	}
	playlist, err := a.service.PlaylistByID(id)
	if err != nil {
		return a.jsonError(c, err)
	}
	return c.JSON(http.StatusOK, playlist)
}

func (a *apiServer) playlistTracksHandler(c echo.Context) error {
	id, err := idParam(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid id"})
	}
	tracks, ok := a.service.PlaylistTracksByID(id)
	if !ok {
		return a.jsonError(c, ErrNotFound)
	}
	return c.JSON(http.StatusOK, tracks)
}

func (a *apiServer) createPlaylistHandler(c echo.Context) error {
	req := PlaylistRequest{}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid body"})
	}
	playlist, err := a.service.CreatePlaylist(currentUser(c), req)
	if err != nil {
		return a.jsonError(c, err)
	}
	return c.JSON(http.StatusOK, playlist)
}

func (a *apiServer) updatePlaylistHandler(c echo.Context) error {
	id, err := idParam(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid id"})
	}
	req := PlaylistRequest{}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid body"})
	}
	playlist, err := a.service.UpdatePlaylist(currentUser(c), id, req)
	if err != nil {
		return a.jsonError(c, err)
	}
	return c.JSON(http.StatusOK, playlist)
}

func (a *apiServer) deletePlaylistHandler(c echo.Context) error {
	id, err := idParam(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid id"})
	}
	if err := a.service.DeletePlaylist(currentUser(c), id); err != nil {
		return a.jsonError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "deleted"})
}

func (a *apiServer) addPlaylistTrackHandler(c echo.Context) error {
	id, err := idParam(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid id"})
	}
	trackID, err := idParam(c, "trackID")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid track id"})
	}
	if err := a.service.AddPlaylistTrack(currentUser(c), id, trackID); err != nil {
		return a.jsonError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "track added"})
}

func (a *apiServer) removePlaylistTrackHandler(c echo.Context) error {
	id, err := idParam(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid id"})
	}
	trackID, err := idParam(c, "trackID")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid track id"})
	}
	if err := a.service.RemovePlaylistTrack(currentUser(c), id, trackID); err != nil {
		return a.jsonError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "track removed"})
}
