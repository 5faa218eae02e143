// this file defines the data structures to be used throughout
package main

type User struct {
	ID        int64   `db:"id" json:"id"`
	Login     string  `db:"login" json:"login"`
	Email     string  `db:"email" json:"email"`
	Password  string  `db:"password" json:"-"`
	FirstName *string `db:"first_name" json:"firstname"`
	LastName  *string `db:"last_name" json:"lastname"`
	BirthDate *string `db:"birth_date" json:"birth_date"`
	Role      string  `db:"role" json:"role"`
}

const (
	RoleAdmin = "admin"
	RoleUser  = "user"
)

type Artist struct {
	ID      int64   `db:"id" json:"id"`
	Name    string  `db:"name" json:"name"`
	Country *string `db:"country" json:"country"`
}

type Album struct {
	ID          int64   `db:"id" json:"id"`
	Title       string  `db:"title" json:"title"`
	ReleaseDate *string `db:"release_date" json:"release_date"`
	ArtistID    int64   `db:"artist_id" json:"artist_id"`
}

// Track is an immutable value once loaded from the catalog. Duration is the
// logical playback length in seconds; the player never touches audio bytes.
type Track struct {
	ID       int64   `db:"id" json:"id"`
	Title    string  `db:"title" json:"title"`
	Duration int     `db:"duration" json:"duration"`
	FilePath *string `db:"file_path" json:"file_path"`
	AlbumID  *int64  `db:"album_id" json:"album_id"`
}

type Playlist struct {
	ID      int64  `db:"id" json:"id"`
	Name    string `db:"name" json:"name"`
	OwnerID int64  `db:"owner_id" json:"owner_id"`
}
