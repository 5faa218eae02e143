package main

import (
	"github.com/jmoiron/sqlx"
)

// SQLRepository implements every repository interface over sqlx. Queries use
// `?` placeholders and are rebound per driver, so sqlite and postgres share
// the same query text; only the open/schema step differs.
type SQLRepository struct {
	db *sqlx.DB
}

func (r *SQLRepository) close() {
	r.db.Close()
}

// users

func (r *SQLRepository) InsertUser(user User) (int64, error) {
	query := r.db.Rebind(`
	  insert into users (login, email, password, first_name, last_name, birth_date, role)
	  values (?, ?, ?, ?, ?, ?, ?)
	  returning id;`)

	var id int64
	err := r.db.QueryRow(query, user.Login, user.Email, user.Password,
		user.FirstName, user.LastName, user.BirthDate, user.Role).Scan(&id)
	return id, err
}

func (r *SQLRepository) GetUserByID(id int64) (*User, error) {
	user := User{}
	err := r.db.Get(&user, r.db.Rebind(`
	  select id, login, email, password, first_name, last_name, birth_date, role
	  from users where id=?;`), id)
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *SQLRepository) GetUserByLogin(login string) (*User, error) {
	user := User{}
	err := r.db.Get(&user, r.db.Rebind(`
	  select id, login, email, password, first_name, last_name, birth_date, role
	  from users where login=?;`), login)
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *SQLRepository) GetUserByEmail(email string) (*User, error) {
	user := User{}
	err := r.db.Get(&user, r.db.Rebind(`
	  select id, login, email, password, first_name, last_name, birth_date, role
	  from users where email=?;`), email)
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *SQLRepository) GetAllUsers() ([]User, error) {
	users := make([]User, 0)
	err := r.db.Select(&users, `
	  select id, login, email, password, first_name, last_name, birth_date, role
	  from users order by id;`)
	return users, err
}

func (r *SQLRepository) UpdateUser(user User) error {
	query := r.db.Rebind(`
	  update users
	  set email=?, password=?, first_name=?, last_name=?, birth_date=?, role=?
	  where id=?;`)

	_, err := r.db.Exec(query, user.Email, user.Password, user.FirstName,
		user.LastName, user.BirthDate, user.Role, user.ID)
	return err
}

func (r *SQLRepository) DeleteUser(id int64) error {
	_, err := r.db.Exec(r.db.Rebind(`delete from users where id=?;`), id)
	return err
}

// artists

func (r *SQLRepository) InsertArtist(artist Artist) (int64, error) {
	query := r.db.Rebind(`
	  insert into artists (name, country) values (?, ?) returning id;`)

	var id int64
	err := r.db.QueryRow(query, artist.Name, artist.Country).Scan(&id)
	return id, err
}

func (r *SQLRepository) GetArtistByID(id int64) (*Artist, error) {
	artist := Artist{}
	err := r.db.Get(&artist, r.db.Rebind(`
	  select id, name, country from artists where id=?;`), id)
	if err != nil {
		return nil, err
	}
	return &artist, nil
}

func (r *SQLRepository) GetAllArtists() ([]Artist, error) {
	artists := make([]Artist, 0)
	err := r.db.Select(&artists, `select id, name, country from artists order by id;`)
	return artists, err
}

func (r *SQLRepository) UpdateArtist(artist Artist) error {
	_, err := r.db.Exec(r.db.Rebind(`
	  update artists set name=?, country=? where id=?;`),
		artist.Name, artist.Country, artist.ID)
	return err
}

func (r *SQLRepository) DeleteArtist(id int64) error {
	_, err := r.db.Exec(r.db.Rebind(`delete from artists where id=?;`), id)
	return err
}

// albums

func (r *SQLRepository) InsertAlbum(album Album) (int64, error) {
	query := r.db.Rebind(`
	  insert into albums (title, release_date, artist_id)
	  values (?, ?, ?) returning id;`)

	var id int64
	err := r.db.QueryRow(query, album.Title, album.ReleaseDate, album.ArtistID).Scan(&id)
	return id, err
}

func (r *SQLRepository) GetAlbumByID(id int64) (*Album, error) {
	album := Album{}
	err := r.db.Get(&album, r.db.Rebind(`
	  select id, title, release_date, artist_id from albums where id=?;`), id)
	if err != nil {
		return nil, err
	}
	return &album, nil
}

func (r *SQLRepository) GetAllAlbums() ([]Album, error) {
	albums := make([]Album, 0)
	err := r.db.Select(&albums, `
	  select id, title, release_date, artist_id from albums order by id;`)
	return albums, err
}

func (r *SQLRepository) UpdateAlbum(album Album) error {
	_, err := r.db.Exec(r.db.Rebind(`
	  update albums set title=?, release_date=?, artist_id=? where id=?;`),
		album.Title, album.ReleaseDate, album.ArtistID, album.ID)
	return err
}

func (r *SQLRepository) DeleteAlbum(id int64) error {
	_, err := r.db.Exec(r.db.Rebind(`delete from albums where id=?;`), id)
	return err
}

func (r *SQLRepository) GetAlbumTracks(albumID int64) ([]Track, error) {
	tracks := make([]Track, 0)
	err := r.db.Select(&tracks, r.db.Rebind(`
	  select id, title, duration, file_path, album_id
	  from tracks where album_id=? order by id;`), albumID)
	return tracks, err
}

// tracks

func (r *SQLRepository) InsertTrack(track Track) (int64, error) {
	query := r.db.Rebind(`
	  insert into tracks (title, duration, file_path, album_id)
	  values (?, ?, ?, ?) returning id;`)

	var id int64
	err := r.db.QueryRow(query, track.Title, track.Duration, track.FilePath, track.AlbumID).Scan(&id)
	return id, err
}

func (r *SQLRepository) GetTrackByID(id int64) (*Track, error) {
	track := Track{}
	err := r.db.Get(&track, r.db.Rebind(`
	  select id, title, duration, file_path, album_id from tracks where id=?;`), id)
	if err != nil {
		return nil, err
	}
	return &track, nil
}

func (r *SQLRepository) GetAllTracks() ([]Track, error) {
	tracks := make([]Track, 0)
	err := r.db.Select(&tracks, `
	  select id, title, duration, file_path, album_id from tracks order by id;`)
	return tracks, err
}

func (r *SQLRepository) UpdateTrack(track Track) error {
	_, err := r.db.Exec(r.db.Rebind(`
	  update tracks set title=?, duration=?, file_path=?, album_id=? where id=?;`),
		track.Title, track.Duration, track.FilePath, track.AlbumID, track.ID)
	return err
}

func (r *SQLRepository) DeleteTrack(id int64) error {
	_, err := r.db.Exec(r.db.Rebind(`delete from tracks where id=?;`), id)
	return err
}

// playlists

func (r *SQLRepository) InsertPlaylist(playlist Playlist) (int64, error) {
	query := r.db.Rebind(`
	  insert into playlists (name, owner_id) values (?, ?) returning id;`)

	var id int64
	err := r.db.QueryRow(query, playlist.Name, playlist.OwnerID).Scan(&id)
	return id, err
}

func (r *SQLRepository) GetPlaylistByID(id int64) (*Playlist, error) {
	playlist := Playlist{}
	err := r.db.Get(&playlist, r.db.Rebind(`
	  select id, name, owner_id from playlists where id=?;`), id)
	if err != nil {
		return nil, err
	}
	return &playlist, nil
}

func (r *SQLRepository) GetPlaylistByName(name string) (*Playlist, error) {
	playlist := Playlist{}
	err := r.db.Get(&playlist, r.db.Rebind(`
	  select id, name, owner_id from playlists where name=? order by id limit 1;`), name)
	if err != nil {
		return nil, err
	}
	return &playlist, nil
}

func (r *SQLRepository) GetAllPlaylists() ([]Playlist, error) {
	playlists := make([]Playlist, 0)
	err := r.db.Select(&playlists, `select id, name, owner_id from playlists order by id;`)
	return playlists, err
}

func (r *SQLRepository) UpdatePlaylist(playlist Playlist) error {
	_, err := r.db.Exec(r.db.Rebind(`
	  update playlists set name=? where id=?;`), playlist.Name, playlist.ID)
	return err
}

func (r *SQLRepository) DeletePlaylist(id int64) error {
	_, err := r.db.Exec(r.db.Rebind(`delete from playlists where id=?;`), id)
	return err
}

func (r *SQLRepository) CountPlaylistsByOwner(ownerID int64) (int64, error) {
	var count int64
	err := r.db.Get(&count, r.db.Rebind(`
	  select count(*) from playlists where owner_id=?;`), ownerID)
	return count, err
}

func (r *SQLRepository) AddTrackToPlaylist(playlistID, trackID int64) error {
	// position keeps playlist order stable; appended tracks go to the end
	query := r.db.Rebind(`
	  insert into playlist_tracks (playlist_id, track_id, position)
	  values (?, ?, (select coalesce(max(position), 0) + 1
	                 from playlist_tracks where playlist_id=?));`)

	_, err := r.db.Exec(query, playlistID, trackID, playlistID)
	return err
}

func (r *SQLRepository) RemoveTrackFromPlaylist(playlistID, trackID int64) (bool, error) {
	res, err := r.db.Exec(r.db.Rebind(`
	  delete from playlist_tracks where playlist_id=? and track_id=?;`),
		playlistID, trackID)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}

func (r *SQLRepository) GetPlaylistTracks(playlistID int64) ([]Track, error) {
	tracks := make([]Track, 0)
	err := r.db.Select(&tracks, r.db.Rebind(`
	  select t.id, t.title, t.duration, t.file_path, t.album_id
	  from tracks as t
	  join playlist_tracks as pt on pt.track_id = t.id
	  where pt.playlist_id=?
	  order by pt.position;`), playlistID)
	return tracks, err
}
