package main

import (
	"errors"
	"fmt"
	"math/rand"
	"strconv"

	"choopy/playlist"

	"github.com/spf13/cobra"
)

func (c *cli) playlistCmd() *cobra.Command {
	var (
		index string
		seed  int64
	)
	cmd := &cobra.Command{
		Use:     "playlist",
		Aliases: []string{"music"},
		Short:   "Show the music groups and the playlist they build",
		Long: `Show the groups of the music index and the playlist built from the
selected groups (music.groups in the config, or the first group).`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if index == "" {
				index = c.cfg.Music.Index
			}
			if index == "" {
				return errors.New("no music index: set music.index or pass --index")
			}
			mode, err := playlist.ParseMode(c.cfg.Music.Mode)
			if err != nil {
				return err
			}
			groups, err := playlist.LoadIndex(cmd.Context(), index)
			if err != nil {
				return err
			}

			var rng *rand.Rand
			if seed != 0 {
				rng = rand.New(rand.NewSource(seed))
			}
			p := playlist.NewPlayer(groups, rng, c.log)
			if len(c.cfg.Music.Groups) > 0 {
				p.SetGroups(c.cfg.Music.Groups)
			}
			p.SetMode(mode)
			p.SetVolume(c.cfg.Music.Volume)
			printPlaylist(cmd, p)
			return nil
		},
	}
	cmd.Flags().StringVar(&index, "index", "", "music index file or URL (overrides music.index)")
	cmd.Flags().Int64Var(&seed, "seed", 0, "shuffle seed for random mode")
	return cmd
}

func printPlaylist(cmd *cobra.Command, p *playlist.Player) {
	w := cmd.OutOrStdout()
	s := p.State()

	Banner(w, "music")
	groups := make([][]string, 0, len(p.Groups()))
	for _, g := range p.Groups() {
		mark := " "
		for _, name := range s.SelectedGroups {
			if name == g.Name {
				mark = "✓"
			}
		}
		groups = append(groups, []string{mark, g.Name, strconv.Itoa(len(g.Tracks))})
	}
	Table(w, []string{"", "GROUP", "TRACKS"}, groups)
	fmt.Fprintln(w)

	if len(s.Playlist) == 0 {
		Subtle.Fprintln(w, "the playlist is empty")
		return
	}
	tracks := make([][]string, 0, len(s.Playlist))
	for i, t := range s.Playlist {
		tracks = append(tracks, []string{
			strconv.Itoa(i + 1), t.Title, t.Artist, t.Group, playlist.FormatDuration(t.Duration),
		})
	}
	Table(w, []string{"#", "TITLE", "ARTIST", "GROUP", "TIME"}, tracks)
	fmt.Fprintln(w)
	Subtle.Fprintln(w, p.Status())
}
