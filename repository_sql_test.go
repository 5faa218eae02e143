package main

import (
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testRepo(t *testing.T) *SQLRepository {
	t.Helper()
	repo, err := NewSQLiteRepository(":memory:")
	require.NoError(t, err)
	t.Cleanup(repo.close)
	return repo
}

func insertUser(t *testing.T, repo *SQLRepository, login string) User {
	t.Helper()
	user := User{
		Login:    login,
		Email:    login + "@example.com",
		Password: "$2a$10$fakefakefakefakefakefakefakefakefakefakefakefakefakef",
		Role:     RoleUser,
	}
	id, err := repo.InsertUser(user)
	require.NoError(t, err)
	user.ID = id
	return user
}

func TestUserRoundTrip(t *testing.T) {
	repo := testRepo(t)

	user := insertUser(t, repo, "kasia")

	got, err := repo.GetUserByID(user.ID)
	require.NoError(t, err)
	assert.Equal(t, "kasia", got.Login)
	assert.Equal(t, "kasia@example.com", got.Email)

	got, err = repo.GetUserByLogin("kasia")
	require.NoError(t, err)
	assert.Equal(t, user.ID, got.ID)

	got, err = repo.GetUserByEmail("kasia@example.com")
	require.NoError(t, err)
	assert.Equal(t, user.ID, got.ID)

	_, err = repo.GetUserByID(9999)
	assert.ErrorIs(t, err, sql.ErrNoRows)
}

func TestUserUpdateAndDelete(t *testing.T) {
	repo := testRepo(t)

	user := insertUser(t, repo, "tomek")
	first := "Tomek"
	user.FirstName = &first
	user.Role = RoleAdmin
	require.NoError(t, repo.UpdateUser(user))

	got, err := repo.GetUserByID(user.ID)
	require.NoError(t, err)
	require.NotNil(t, got.FirstName)
	assert.Equal(t, "Tomek", *got.FirstName)
	assert.Equal(t, RoleAdmin, got.Role)

	require.NoError(t, repo.DeleteUser(user.ID))
	_, err = repo.GetUserByID(user.ID)
	assert.ErrorIs(t, err, sql.ErrNoRows)
}

func insertCatalog(t *testing.T, repo *SQLRepository) (albumID int64, trackIDs []int64) {
	t.Helper()

	artistID, err := repo.InsertArtist(Artist{Name: "The Static Waves"})
	require.NoError(t, err)

	albumID, err = repo.InsertAlbum(Album{Title: "Night Transmission", ArtistID: artistID})
	require.NoError(t, err)

	for _, title := range []string{"Carrier Signal", "Midnight FM", "Dead Air"} {
		id, err := repo.InsertTrack(Track{Title: title, Duration: 200, AlbumID: &albumID})
		require.NoError(t, err)
		trackIDs = append(trackIDs, id)
	}
	return albumID, trackIDs
}

func TestAlbumTracksKeepInsertionOrder(t *testing.T) {
	repo := testRepo(t)
	albumID, _ := insertCatalog(t, repo)

	tracks, err := repo.GetAlbumTracks(albumID)
	require.NoError(t, err)
	require.Len(t, tracks, 3)
	assert.Equal(t, "Carrier Signal", tracks[0].Title)
	assert.Equal(t, "Midnight FM", tracks[1].Title)
	assert.Equal(t, "Dead Air", tracks[2].Title)
}

func TestPlaylistTracksOrderedByPosition(t *testing.T) {
	repo := testRepo(t)
	_, trackIDs := insertCatalog(t, repo)
	owner := insertUser(t, repo, "owner")

	playlistID, err := repo.InsertPlaylist(Playlist{Name: "Late Night", OwnerID: owner.ID})
	require.NoError(t, err)

	// append in reverse to prove order comes from position, not track id
	require.NoError(t, repo.AddTrackToPlaylist(playlistID, trackIDs[2]))
	require.NoError(t, repo.AddTrackToPlaylist(playlistID, trackIDs[0]))
	require.NoError(t, repo.AddTrackToPlaylist(playlistID, trackIDs[1]))

	tracks, err := repo.GetPlaylistTracks(playlistID)
	require.NoError(t, err)
	require.Len(t, tracks, 3)
	assert.Equal(t, "Dead Air", tracks[0].Title)
	assert.Equal(t, "Carrier Signal", tracks[1].Title)
	assert.Equal(t, "Midnight FM", tracks[2].Title)

	removed, err := repo.RemoveTrackFromPlaylist(playlistID, trackIDs[0])
	require.NoError(t, err)
	assert.True(t, removed)

	removed, err = repo.RemoveTrackFromPlaylist(playlistID, 9999)
	require.NoError(t, err)
	assert.False(t, removed)

	tracks, err = repo.GetPlaylistTracks(playlistID)
	require.NoError(t, err)
	require.Len(t, tracks, 2)
	assert.Equal(t, "Dead Air", tracks[0].Title)
}

func TestPlaylistLookupAndCount(t *testing.T) {
	repo := testRepo(t)
	owner := insertUser(t, repo, "owner")

	_, err := repo.InsertPlaylist(Playlist{Name: "Morning", OwnerID: owner.ID})
	require.NoError(t, err)
	_, err = repo.InsertPlaylist(Playlist{Name: "Evening", OwnerID: owner.ID})
	require.NoError(t, err)

	playlist, err := repo.GetPlaylistByName("Evening")
	require.NoError(t, err)
	assert.Equal(t, "Evening", playlist.Name)

	_, err = repo.GetPlaylistByName("Noon")
	assert.ErrorIs(t, err, sql.ErrNoRows)

	count, err := repo.CountPlaylistsByOwner(owner.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)
}

func TestServiceCatalogLookups(t *testing.T) {
	repo := testRepo(t)
	albumID, trackIDs := insertCatalog(t, repo)
	owner := insertUser(t, repo, "owner")

	playlistID, err := repo.InsertPlaylist(Playlist{Name: "Late Night", OwnerID: owner.ID})
	require.NoError(t, err)
	require.NoError(t, repo.AddTrackToPlaylist(playlistID, trackIDs[0]))

	service := &ServiceImpl{
		userRepo:     repo,
		artistRepo:   repo,
		albumRepo:    repo,
		trackRepo:    repo,
		playlistRepo: repo,
	}

	track, ok := service.TrackByID(trackIDs[0])
	require.True(t, ok)
	assert.Equal(t, "Carrier Signal", track.Title)

	_, ok = service.TrackByID(9999)
	assert.False(t, ok)

	tracks, ok := service.AlbumTracks(albumID)
	require.True(t, ok)
	assert.Len(t, tracks, 3)

	_, ok = service.AlbumTracks(9999)
	assert.False(t, ok)

	tracks, ok = service.PlaylistTracksByID(playlistID)
	require.True(t, ok)
	assert.Len(t, tracks, 1)

	tracks, ok = service.PlaylistTracksByName("Late Night")
	require.True(t, ok)
	assert.Len(t, tracks, 1)

	_, ok = service.PlaylistTracksByName("Unknown")
	assert.False(t, ok)
}
