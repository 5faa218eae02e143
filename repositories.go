package main

type UserRepository interface {
	InsertUser(user User) (int64, error)
	GetUserByID(id int64) (*User, error)
	GetUserByLogin(login string) (*User, error)
	GetUserByEmail(email string) (*User, error)
	GetAllUsers() ([]User, error)
	UpdateUser(user User) error
	DeleteUser(id int64) error
	close()
}

type ArtistRepository interface {
	InsertArtist(artist Artist) (int64, error)
	GetArtistByID(id int64) (*Artist, error)
	GetAllArtists() ([]Artist, error)
	UpdateArtist(artist Artist) error
	DeleteArtist(id int64) error
	close()
}

type AlbumRepository interface {
	InsertAlbum(album Album) (int64, error)
	GetAlbumByID(id int64) (*Album, error)
	GetAllAlbums() ([]Album, error)
	UpdateAlbum(album Album) error
	DeleteAlbum(id int64) error
	GetAlbumTracks(albumID int64) ([]Track, error)
	close()
}

type TrackRepository interface {
	InsertTrack(track Track) (int64, error)
	GetTrackByID(id int64) (*Track, error)
	GetAllTracks() ([]Track, error)
	UpdateTrack(track Track) error
	DeleteTrack(id int64) error
	close()
}

type PlaylistRepository interface {
	InsertPlaylist(playlist Playlist) (int64, error)
	GetPlaylistByID(id int64) (*Playlist, error)
	GetPlaylistByName(name string) (*Playlist, error)
	GetAllPlaylists() ([]Playlist, error)
	UpdatePlaylist(playlist Playlist) error
	DeletePlaylist(id int64) error
	CountPlaylistsByOwner(ownerID int64) (int64, error)
	AddTrackToPlaylist(playlistID, trackID int64) error
	RemoveTrackFromPlaylist(playlistID, trackID int64) (bool, error)
	GetPlaylistTracks(playlistID int64) ([]Track, error)
	close()
}
