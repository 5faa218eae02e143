// this file fills an empty database with demo data (run with: jukebox seed)
package main

import (
	"github.com/rs/zerolog"
)

func strPtr(s string) *string { return &s }

func seedDemoData(service *ServiceImpl, logger zerolog.Logger) error {
	admin, err := service.Register(RegisterRequest{
		Login:     "admin",
		Email:     "admin@example.com",
		Password:  "admin12345",
		FirstName: strPtr("Site"),
		LastName:  strPtr("Admin"),
	})
	if err != nil {
		return err
	}
	admin.Role = RoleAdmin
	if err := service.userRepo.UpdateUser(*admin); err != nil {
		return err
	}

	listener, err := service.Register(RegisterRequest{
		Login:     "listener",
		Email:     "listener@example.com",
		Password:  "listener123",
		FirstName: strPtr("Lis"),
		LastName:  strPtr("Tener"),
		BirthDate: strPtr("1994-05-12"),
	})
	if err != nil {
		return err
	}

	type seedTrack struct {
		title    string
		duration int
	}
	type seedAlbum struct {
		artist  string
		country string
		title   string
		date    string
		tracks  []seedTrack
	}

	albums := []seedAlbum{
		{
			artist: "The Static Waves", country: "PL",
			title: "Night Transmission", date: "2019-03-22",
			tracks: []seedTrack{
				{"Carrier Signal", 214},
				{"Midnight FM", 187},
				{"Dead Air", 242},
				{"Sign-Off", 198},
			},
		},
		{
			artist: "Marta Lis", country: "PL",
			title: "Papierowe Miasta", date: "2021-10-01",
			tracks: []seedTrack{
				{"Ulica Krótka", 176},
				{"Tramwaj Nocny", 203},
				{"Papierowe Miasta", 227},
			},
		},
		{
			artist: "Low Orbit", country: "DE",
			title: "Perigee", date: "2017-06-14",
			tracks: []seedTrack{
				{"Launch Window", 251},
				{"Apogee", 308},
				{"Re-entry", 194},
			},
		},
	}

	var firstAlbumTracks []int64
	for _, sa := range albums {
		artist, err := service.CreateArtist(ArtistRequest{Name: sa.artist, Country: strPtr(sa.country)})
		if err != nil {
			return err
		}
		album, err := service.CreateAlbum(AlbumRequest{
			Title:       sa.title,
			ReleaseDate: strPtr(sa.date),
			ArtistID:    artist.ID,
		})
		if err != nil {
			return err
		}
		for _, st := range sa.tracks {
			track, err := service.CreateTrack(TrackRequest{
				Title:    st.title,
				Duration: st.duration,
				AlbumID:  &album.ID,
			})
			if err != nil {
				return err
			}
			if len(firstAlbumTracks) < len(albums[0].tracks) && sa.title == albums[0].title {
				firstAlbumTracks = append(firstAlbumTracks, track.ID)
			}
		}
		logger.Info().Str("album", sa.title).Int("tracks", len(sa.tracks)).Msg("seeded album")
	}

	playlist, err := service.CreatePlaylist(listener, PlaylistRequest{Name: "Late Night"})
	if err != nil {
		return err
	}
	for _, trackID := range firstAlbumTracks {
		if err := service.AddPlaylistTrack(listener, playlist.ID, trackID); err != nil {
			return err
		}
	}

	logger.Info().Msg("demo data seeded")
	return nil
}
