package main

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"musiccatalog/internal/store"
)

type seedAlbum struct {
	Artist string
	Title  string
	Year   int
	Tracks []string
	Genres []string
}

var demoAlbums = []seedAlbum{
	{
		Artist: "Air",
		Title:  "Moon Safari",
		Year:   1997,
		Tracks: []string{"La femme d'argent", "Sexy Boy", "Kelly Watch the Stars"},
		Genres: []string{"Electronic"},
	},
	{
		Artist: "Air",
		Title:  "Talkie Walkie",
		Year:   2004,
		Tracks: []string{"Venus", "Cherry Blossom Girl", "Run"},
		Genres: []string{"Electronic", "Downtempo"},
	},
	{
		Artist: "Boards of Canada",
		Title:  "Music Has the Right to Children",
		Year:   1998,
		Tracks: []string{"Turquoise Hexagon Sun", "Roygbiv", "Aquarius"},
		Genres: []string{"Electronic", "Ambient"},
	},
	{
		Artist: "Massive Attack",
		Title:  "Mezzanine",
		Year:   1998,
		Tracks: []string{"Angel", "Teardrop", "Inertia Creeps"},
		Genres: []string{"Trip Hop"},
	},
	{
		Artist: "Portishead",
		Title:  "Dummy",
		Year:   1994,
		Tracks: []string{"Mysterons", "Sour Times", "Glory Box"},
		Genres: []string{"Trip Hop"},
	},
	{
		Artist: "Radiohead",
		Title:  "OK Computer",
		Year:   1997,
		Tracks: []string{"Airbag", "Paranoid Android", "No Surprises"},
		Genres: []string{"Alternative Rock"},
	},
	{
		Artist: "Nils Frahm",
		Title:  "Spaces",
		Year:   2013,
		Tracks: []string{"An Aborted Beginning", "Says", "Hammers"},
		Genres: []string{"Modern Classical"},
	},
	{
		Artist: "Thundercat",
		Title:  "Drunk",
		Year:   2017,
		Tracks: []string{"Uh Uh", "Them Changes", "Show You The Way"},
		Genres: []string{"Funk", "Jazz"},
	},
}

// bootstrapDemoData fills an empty catalogue with a handful of albums. It does
// nothing once any artist exists.
func bootstrapDemoData(ctx context.Context, dataStore *store.Store) error {
	existing, err := dataStore.ArtistsPage(ctx, store.PageRequest{PageIndex: 1, PageSize: 1})
	if err != nil {
		return fmt.Errorf("check existing artists: %w", err)
	}
	if existing.TotalCount > 0 {
		return nil
	}

	artistIDs := make(map[string]int64)
	genreIDs := make(map[string]int64)

	for _, album := range demoAlbums {
		artistID, ok := artistIDs[album.Artist]
		if !ok {
			artistID, err = dataStore.CreateArtist(ctx, store.ArtistEdit{Name: album.Artist})
			if err != nil {
				return fmt.Errorf("seed artist %q: %w", album.Artist, err)
			}
			artistIDs[album.Artist] = artistID
		}

		edit := store.AlbumEdit{Title: album.Title, ReleaseYear: album.Year, ArtistID: artistID}
		for _, name := range album.Genres {
			genreID, ok := genreIDs[name]
			if !ok {
				genreID, err = dataStore.CreateGenre(ctx, store.GenreEdit{Name: name})
				if err != nil {
					return fmt.Errorf("seed genre %q: %w", name, err)
				}
				genreIDs[name] = genreID
			}
			edit.GenreIDs = append(edit.GenreIDs, genreID)
		}

		albumID, err := dataStore.CreateAlbum(ctx, edit)
		if err != nil {
			return fmt.Errorf("seed album %q: %w", album.Title, err)
		}

		for i, title := range album.Tracks {
			if _, err := dataStore.CreateTrack(ctx, store.TrackEdit{Title: title, TrackNumber: i + 1, AlbumID: albumID}); err != nil {
				return fmt.Errorf("seed track %q: %w", title, err)
			}
		}
	}

	log.Info().
		Int("artists", len(artistIDs)).
		Int("genres", len(genreIDs)).
		Int("albums", len(demoAlbums)).
		Msg("seeded demo catalog")
	return nil
}
