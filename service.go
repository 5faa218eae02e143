package main

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

var (
	ErrNotFound       = errors.New("not found")
	ErrInvalid        = errors.New("invalid input")
	ErrForbidden      = errors.New("forbidden")
	ErrBadCredentials = errors.New("invalid login or password")
)

// maxOwnedPlaylists caps non-admin users.
const maxOwnedPlaylists = 10

type RegisterRequest struct {
	Login     string  `json:"login"`
	Email     string  `json:"email"`
	Password  string  `json:"password"`
	FirstName *string `json:"firstname"`
	LastName  *string `json:"lastname"`
	BirthDate *string `json:"birth_date"`
}

type UserUpdateRequest struct {
	Email     *string `json:"email"`
	Password  *string `json:"password"`
	FirstName *string `json:"firstname"`
	LastName  *string `json:"lastname"`
	BirthDate *string `json:"birth_date"`
}

type ArtistRequest struct {
	Name    string  `json:"name"`
	Country *string `json:"country"`
}

type AlbumRequest struct {
	Title       string  `json:"title"`
	ReleaseDate *string `json:"release_date"`
	ArtistID    int64   `json:"artist_id"`
}

type TrackRequest struct {
	Title    string  `json:"title"`
	Duration int     `json:"duration"`
	FilePath *string `json:"file_path"`
	AlbumID  *int64  `json:"album_id"`
}

type PlaylistRequest struct {
	Name    string `json:"name"`
	OwnerID *int64 `json:"owner_id"`
}

// Service is the application layer between the HTTP/websocket surface and
// the repositories. It also implements Catalog for the player.
type Service interface {
	Catalog

	Register(req RegisterRequest) (*User, error)
	Login(login, password string) (*User, error)

	Users() ([]User, error)
	UserByID(id int64) (*User, error)
	UpdateUser(actor *User, id int64, req UserUpdateRequest) (*User, error)
	DeleteUser(actor *User, id int64) error

	Artists() ([]Artist, error)
	ArtistByID(id int64) (*Artist, error)
	CreateArtist(req ArtistRequest) (*Artist, error)
	UpdateArtist(id int64, req ArtistRequest) (*Artist, error)
	DeleteArtist(id int64) error

	Albums() ([]Album, error)
	AlbumByID(id int64) (*Album, error)
	CreateAlbum(req AlbumRequest) (*Album, error)
	UpdateAlbum(id int64, req AlbumRequest) (*Album, error)
	DeleteAlbum(id int64) error

	Tracks() ([]Track, error)
	CreateTrack(req TrackRequest) (*Track, error)
	UpdateTrack(id int64, req TrackRequest) (*Track, error)
	DeleteTrack(id int64) error

	Playlists() ([]Playlist, error)
	PlaylistByID(id int64) (*Playlist, error)
	CreatePlaylist(actor *User, req PlaylistRequest) (*Playlist, error)
	UpdatePlaylist(actor *User, id int64, req PlaylistRequest) (*Playlist, error)
	DeletePlaylist(actor *User, id int64) error
	AddPlaylistTrack(actor *User, playlistID, trackID int64) error
	RemovePlaylistTrack(actor *User, playlistID, trackID int64) error

	close()
}

type ServiceImpl struct {
	userRepo     UserRepository
	artistRepo   ArtistRepository
	albumRepo    AlbumRepository
	trackRepo    TrackRepository
	playlistRepo PlaylistRepository
}

func (s *ServiceImpl) close() {
	s.userRepo.close()
}

func orNotFound(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	return err
}

// auth

func (s *ServiceImpl) Register(req RegisterRequest) (*User, error) {
	if len(req.Login) < 3 || len(req.Login) > 30 {
		return nil, fmt.Errorf("%w: login must be 3-30 characters", ErrInvalid)
	}
	if !strings.Contains(req.Email, "@") {
		return nil, fmt.Errorf("%w: invalid email", ErrInvalid)
	}
	if len(req.Password) < 8 {
		return nil, fmt.Errorf("%w: password must be at least 8 characters", ErrInvalid)
	}

	if _, err := s.userRepo.GetUserByLogin(req.Login); err == nil {
		return nil, fmt.Errorf("%w: login already registered", ErrInvalid)
	}
	if _, err := s.userRepo.GetUserByEmail(req.Email); err == nil {
		return nil, fmt.Errorf("%w: email already registered", ErrInvalid)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := User{
		Login:     req.Login,
		Email:     req.Email,
		Password:  string(hash),
		FirstName: req.FirstName,
		LastName:  req.LastName,
		BirthDate: req.BirthDate,
		Role:      RoleUser,
	}
	id, err := s.userRepo.InsertUser(user)
	if err != nil {
		return nil, err
	}
	user.ID = id
	return &user, nil
}

func (s *ServiceImpl) Login(login, password string) (*User, error) {
	user, err := s.userRepo.GetUserByLogin(login)
	if err != nil {
		return nil, ErrBadCredentials
	}
	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)) != nil {
		return nil, ErrBadCredentials
	}
	return user, nil
}

// users

func (s *ServiceImpl) Users() ([]User, error) {
	return s.userRepo.GetAllUsers()
}

func (s *ServiceImpl) UserByID(id int64) (*User, error) {
	user, err := s.userRepo.GetUserByID(id)
	return user, orNotFound(err)
}

func (s *ServiceImpl) UpdateUser(actor *User, id int64, req UserUpdateRequest) (*User, error) {
	if actor.Role != RoleAdmin && actor.ID != id {
		return nil, ErrForbidden
	}

	user, err := s.userRepo.GetUserByID(id)
	if err != nil {
		return nil, orNotFound(err)
	}

	if req.Email != nil {
		if !strings.Contains(*req.Email, "@") {
			return nil, fmt.Errorf("%w: invalid email", ErrInvalid)
		}
		user.Email = *req.Email
	}
	if req.Password != nil {
		if len(*req.Password) < 8 {
			return nil, fmt.Errorf("%w: password must be at least 8 characters", ErrInvalid)
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(*req.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, err
		}
		user.Password = string(hash)
	}
	if req.FirstName != nil {
		user.FirstName = req.FirstName
	}
	if req.LastName != nil {
		user.LastName = req.LastName
	}
	if req.BirthDate != nil {
		user.BirthDate = req.BirthDate
	}

	if err := s.userRepo.UpdateUser(*user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *ServiceImpl) DeleteUser(actor *User, id int64) error {
	if actor.Role != RoleAdmin && actor.ID != id {
		return ErrForbidden
	}
	if _, err := s.userRepo.GetUserByID(id); err != nil {
		return orNotFound(err)
	}
	return s.userRepo.DeleteUser(id)
}

// artists

func (s *ServiceImpl) Artists() ([]Artist, error) {
	return s.artistRepo.GetAllArtists()
}

func (s *ServiceImpl) ArtistByID(id int64) (*Artist, error) {
	artist, err := s.artistRepo.GetArtistByID(id)
	return artist, orNotFound(err)
}

func validateArtist(req ArtistRequest) error {
	if len(req.Name) < 2 || len(req.Name) > 100 {
		return fmt.Errorf("%w: artist name must be 2-100 characters", ErrInvalid)
	}
	return nil
}

func (s *ServiceImpl) CreateArtist(req ArtistRequest) (*Artist, error) {
	if err := validateArtist(req); err != nil {
		return nil, err
	}
	artist := Artist{Name: req.Name, Country: req.Country}
	id, err := s.artistRepo.InsertArtist(artist)
	if err != nil {
		return nil, err
	}
	artist.ID = id
	return &artist, nil
}

func (s *ServiceImpl) UpdateArtist(id int64, req ArtistRequest) (*Artist, error) {
	if err := validateArtist(req); err != nil {
		return nil, err
	}
	artist, err := s.artistRepo.GetArtistByID(id)
	if err != nil {
		return nil, orNotFound(err)
	}
	artist.Name = req.Name
	artist.Country = req.Country
	if err := s.artistRepo.UpdateArtist(*artist); err != nil {
		return nil, err
	}
	return artist, nil
}

func (s *ServiceImpl) DeleteArtist(id int64) error {
	if _, err := s.artistRepo.GetArtistByID(id); err != nil {
		return orNotFound(err)
	}
	return s.artistRepo.DeleteArtist(id)
}

// albums

func (s *ServiceImpl) Albums() ([]Album, error) {
	return s.albumRepo.GetAllAlbums()
}

func (s *ServiceImpl) AlbumByID(id int64) (*Album, error) {
	album, err := s.albumRepo.GetAlbumByID(id)
	return album, orNotFound(err)
}

func (s *ServiceImpl) validateAlbum(req AlbumRequest) error {
	if len(req.Title) < 1 || len(req.Title) > 150 {
		return fmt.Errorf("%w: album title must be 1-150 characters", ErrInvalid)
	}
	if _, err := s.artistRepo.GetArtistByID(req.ArtistID); err != nil {
		return fmt.Errorf("%w: artist with given id does not exist", ErrInvalid)
	}
	return nil
}

func (s *ServiceImpl) CreateAlbum(req AlbumRequest) (*Album, error) {
	if err := s.validateAlbum(req); err != nil {
		return nil, err
	}
	album := Album{Title: req.Title, ReleaseDate: req.ReleaseDate, ArtistID: req.ArtistID}
	id, err := s.albumRepo.InsertAlbum(album)
	if err != nil {
		return nil, err
	}
	album.ID = id
	return &album, nil
}

func (s *ServiceImpl) UpdateAlbum(id int64, req AlbumRequest) (*Album, error) {
	if err := s.validateAlbum(req); err != nil {
		return nil, err
	}
	album, err := s.albumRepo.GetAlbumByID(id)
	if err != nil {
		return nil, orNotFound(err)
	}
	album.Title = req.Title
	album.ReleaseDate = req.ReleaseDate
	album.ArtistID = req.ArtistID
	if err := s.albumRepo.UpdateAlbum(*album); err != nil {
		return nil, err
	}
	return album, nil
}

func (s *ServiceImpl) DeleteAlbum(id int64) error {
	if _, err := s.albumRepo.GetAlbumByID(id); err != nil {
		return orNotFound(err)
	}
	return s.albumRepo.DeleteAlbum(id)
}

// tracks

func (s *ServiceImpl) Tracks() ([]Track, error) {
	return s.trackRepo.GetAllTracks()
}

func (s *ServiceImpl) validateTrack(req TrackRequest) error {
	if len(req.Title) < 1 || len(req.Title) > 200 {
		return fmt.Errorf("%w: track title must be 1-200 characters", ErrInvalid)
	}
	if req.Duration <= 0 || req.Duration >= 86400 {
		return fmt.Errorf("%w: duration must be 1-86399 seconds", ErrInvalid)
	}
	if req.AlbumID != nil {
		if _, err := s.albumRepo.GetAlbumByID(*req.AlbumID); err != nil {
			return fmt.Errorf("%w: album with given id does not exist", ErrInvalid)
		}
	}
	return nil
}

func (s *ServiceImpl) CreateTrack(req TrackRequest) (*Track, error) {
	if err := s.validateTrack(req); err != nil {
		return nil, err
	}
	track := Track{Title: req.Title, Duration: req.Duration, FilePath: req.FilePath, AlbumID: req.AlbumID}
	id, err := s.trackRepo.InsertTrack(track)
	if err != nil {
		return nil, err
	}
	track.ID = id
	return &track, nil
}

func (s *ServiceImpl) UpdateTrack(id int64, req TrackRequest) (*Track, error) {
	if err := s.validateTrack(req); err != nil {
		return nil, err
	}
	track, err := s.trackRepo.GetTrackByID(id)
	if err != nil {
		return nil, orNotFound(err)
	}
	track.Title = req.Title
	track.Duration = req.Duration
	track.FilePath = req.FilePath
	track.AlbumID = req.AlbumID
	if err := s.trackRepo.UpdateTrack(*track); err != nil {
		return nil, err
	}
	return track, nil
}

func (s *ServiceImpl) DeleteTrack(id int64) error {
	if _, err := s.trackRepo.GetTrackByID(id); err != nil {
		return orNotFound(err)
	}
	return s.trackRepo.DeleteTrack(id)
}

// playlists

func (s *ServiceImpl) Playlists() ([]Playlist, error) {
	return s.playlistRepo.GetAllPlaylists()
}

func (s *ServiceImpl) PlaylistByID(id int64) (*Playlist, error) {
	playlist, err := s.playlistRepo.GetPlaylistByID(id)
	return playlist, orNotFound(err)
}

func (s *ServiceImpl) CreatePlaylist(actor *User, req PlaylistRequest) (*Playlist, error) {
	if len(req.Name) < 1 || len(req.Name) > 100 {
		return nil, fmt.Errorf("%w: playlist name must be 1-100 characters", ErrInvalid)
	}

	ownerID := actor.ID
	if actor.Role != RoleAdmin {
		count, err := s.playlistRepo.CountPlaylistsByOwner(actor.ID)
		if err != nil {
			return nil, err
		}
		if count >= maxOwnedPlaylists {
			return nil, fmt.Errorf("%w: you cannot have more than %d playlists", ErrForbidden, maxOwnedPlaylists)
		}
	} else if req.OwnerID != nil {
		if _, err := s.userRepo.GetUserByID(*req.OwnerID); err != nil {
			return nil, fmt.Errorf("%w: owner with given id does not exist", ErrInvalid)
		}
		ownerID = *req.OwnerID
	}

	playlist := Playlist{Name: req.Name, OwnerID: ownerID}
	id, err := s.playlistRepo.InsertPlaylist(playlist)
	if err != nil {
		return nil, err
	}
	playlist.ID = id
	return &playlist, nil
}

// ownedPlaylist fetches the playlist and enforces that only the owner or an
// admin may modify it.
func (s *ServiceImpl) ownedPlaylist(actor *User, id int64) (*Playlist, error) {
	playlist, err := s.playlistRepo.GetPlaylistByID(id)
	if err != nil {
		return nil, orNotFound(err)
	}
	if actor.Role != RoleAdmin && playlist.OwnerID != actor.ID {
		return nil, ErrForbidden
	}
	return playlist, nil
}

func (s *ServiceImpl) UpdatePlaylist(actor *User, id int64, req PlaylistRequest) (*Playlist, error) {
	if len(req.Name) < 1 || len(req.Name) > 100 {
		return nil, fmt.Errorf("%w: playlist name must be 1-100 characters", ErrInvalid)
	}
	playlist, err := s.ownedPlaylist(actor, id)
	if err != nil {
		return nil, err
	}
	playlist.Name = req.Name
	if err := s.playlistRepo.UpdatePlaylist(*playlist); err != nil {
		return nil, err
	}
	return playlist, nil
}

func (s *ServiceImpl) DeletePlaylist(actor *User, id int64) error {
	if _, err := s.ownedPlaylist(actor, id); err != nil {
		return err
	}
	return s.playlistRepo.DeletePlaylist(id)
}

func (s *ServiceImpl) AddPlaylistTrack(actor *User, playlistID, trackID int64) error {
	if _, err := s.ownedPlaylist(actor, playlistID); err != nil {
		return err
	}
	if _, err := s.trackRepo.GetTrackByID(trackID); err != nil {
		return orNotFound(err)
	}
	return s.playlistRepo.AddTrackToPlaylist(playlistID, trackID)
}

func (s *ServiceImpl) RemovePlaylistTrack(actor *User, playlistID, trackID int64) error {
	if _, err := s.ownedPlaylist(actor, playlistID); err != nil {
		return err
	}
	removed, err := s.playlistRepo.RemoveTrackFromPlaylist(playlistID, trackID)
	if err != nil {
		return err
	}
	if !removed {
		return ErrNotFound
	}
	return nil
}

// Catalog - lookups the player depends on

func (s *ServiceImpl) TrackByID(id int64) (*Track, bool) {
	track, err := s.trackRepo.GetTrackByID(id)
	if err != nil {
		return nil, false
	}
	return track, true
}

func (s *ServiceImpl) PlaylistTracksByID(id int64) ([]Track, bool) {
	if _, err := s.playlistRepo.GetPlaylistByID(id); err != nil {
		return nil, false
	}
	tracks, err := s.playlistRepo.GetPlaylistTracks(id)
	if err != nil {
		return nil, false
	}
	return tracks, true
}

func (s *ServiceImpl) PlaylistTracksByName(name string) ([]Track, bool) {
	playlist, err := s.playlistRepo.GetPlaylistByName(name)
	if err != nil {
		return nil, false
	}
	tracks, err := s.playlistRepo.GetPlaylistTracks(playlist.ID)
	if err != nil {
		return nil, false
	}
	return tracks, true
}

func (s *ServiceImpl) AlbumTracks(id int64) ([]Track, bool) {
	if _, err := s.albumRepo.GetAlbumByID(id); err != nil {
		return nil, false
	}
	tracks, err := s.albumRepo.GetAlbumTracks(id)
	if err != nil {
		return nil, false
	}
	return tracks, true
}
