package cmd

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"github.com/starcheat/starcheat/pkg/appearance"
	"github.com/starcheat/starcheat/pkg/directives"
	"github.com/starcheat/starcheat/pkg/player"
	"github.com/starcheat/starcheat/pkg/species"
)

// appearanceCmd represents the appearance command
var appearanceCmd = &cobra.Command{
	Use:     "appearance",
	Aliases: []string{"app"},
	Short:   "Show and edit a character's appearance",
}

var appearanceShowCmd = &cobra.Command{
	Use:   "show [channel...]",
	Short: "Print parts, personality and the color directive table of each channel",
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := openSession(false)
		if err != nil {
			return err
		}
		channels, err := parseChannels(args)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		if len(args) == 0 {
			printParts(out, e.session)
		}
		printChannels(out, e.session, channels...)
		return nil
	},
}

var appearanceAddCmd = &cobra.Command{
	Use:   "add <channel>",
	Short: "Insert a ffffff=ffffff pair at the top of the channel's first group",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ch, err := directives.ParseChannel(args[0])
		if err != nil {
			return err
		}
		return editSessionWith(cmd, func(s *appearance.Session) error {
			if !s.Editable(ch) {
				return fmt.Errorf("%s: %w", ch, directives.ErrEmptyDirectiveSet)
			}
			store, err := s.Store(ch)
			if err != nil {
				return err
			}
			return store.AddDefaultPair()
		})
	},
}

var appearanceRemoveCmd = &cobra.Command{
	Use:   "remove <channel> [row]",
	Short: "Remove a color pair",
	Long: `Remove a color pair from a channel, either the pair shown at a row of
"appearance show" or the pair given with --from and --to.

Pairs are removed by value: if the same pair appears more than once, the
first occurrence is removed.`,
	Args: cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		from, _ := cmd.Flags().GetString("from")
		to, _ := cmd.Flags().GetString("to")
		if len(args) == 1 && (from == "" || to == "") {
			return fmt.Errorf("give a row or both --from and --to")
		}
		return editChannel(cmd, args[0], func(s *directives.Store) error {
			if len(args) == 2 {
				row, err := strconv.Atoi(args[1])
				if err != nil {
					return fmt.Errorf("invalid row %q", args[1])
				}
				return s.RemoveAt(row)
			}
			s.RemoveByValue(directives.NormalizeHex(from), directives.NormalizeHex(to))
			return nil
		})
	},
}

var appearanceEditCmd = &cobra.Command{
	Use:   "edit <channel> <row> <from|to> <color>",
	Short: "Overwrite one side of the color pair at a row",
	Args:  cobra.ExactArgs(4),
	RunE: func(cmd *cobra.Command, args []string) error {
		row, err := strconv.Atoi(args[1])
		if err != nil {
			return fmt.Errorf("invalid row %q", args[1])
		}
		field, err := directives.ParseField(args[2])
		if err != nil {
			return err
		}
		color := directives.NormalizeHex(args[3])
		if !color.Valid() {
			return fmt.Errorf("invalid color %q: must be 6 hex digits", args[3])
		}
		return editChannel(cmd, args[0], func(s *directives.Store) error {
			return s.EditPairAt(row, color, field)
		})
	},
}

var appearancePartCmd = &cobra.Command{
	Use:   "part <hair|facial_hair|facial_mask> <group> <type>",
	Short: "Choose a hair, facial hair or facial mask style",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		part, err := parsePart(args[0])
		if err != nil {
			return err
		}
		return editSessionWith(cmd, func(s *appearance.Session) error {
			return s.SetPart(part, player.Selection{Group: args[1], Type: args[2]})
		})
	},
}

var appearancePersonalityCmd = &cobra.Command{
	Use:   "personality <idle>",
	Short: "Choose the idle stance",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return editSessionWith(cmd, func(s *appearance.Session) error {
			return s.SetPersonality(args[0])
		})
	},
}

var appearanceColorCmd = &cobra.Command{
	Use:   "favorite-color <color>",
	Short: "Set the favorite color",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := player.ParseRGB(args[0])
		if err != nil {
			return err
		}
		return editSessionWith(cmd, func(s *appearance.Session) error {
			return s.SetFavoriteColor(c)
		})
	},
}

var appearanceOptionsCmd = &cobra.Command{
	Use:   "options",
	Short: "List the styles and personalities the species offers",
	RunE: func(cmd *cobra.Command, _ []string) error {
		cat, err := loadCatalogue()
		if err != nil {
			return err
		}
		if cat == nil {
			return fmt.Errorf("no species file given (use --species or species.path in the config)")
		}
		path, err := playerPath()
		if err != nil {
			return err
		}
		p, err := player.Load(path)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "%s %s (genders: %s)\n\n", cat.Kind, p.Gender(), strings.Join(cat.Genders(), ", "))
		w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "PART\tGROUP\tGROUP CHOICE\tTYPES\tTYPE CHOICE")
		for _, part := range player.Parts {
			groups, err := cat.Groups(p.Gender(), part)
			if err != nil {
				return err
			}
			for _, g := range groups {
				types, _ := cat.Types(p.Gender(), part, g)
				fmt.Fprintf(w, "%s\t%s\t%t\t%v\t%t\n", part, g, species.HasChoice(groups), types, species.HasChoice(types))
			}
		}
		w.Flush()
		for _, pers := range cat.Personalities() {
			fmt.Fprintf(out, "personality %s\n", pers.Idle)
		}
		return nil
	},
}

// editSessionWith runs fn against a locked session and saves the result.
func editSessionWith(cmd *cobra.Command, fn func(*appearance.Session) error) error {
	e, err := openSession(true)
	if err != nil {
		return err
	}
	defer e.close()
	if err := fn(e.session); err != nil {
		e.session.Cancel()
		return err
	}
	return e.finish(context.Background(), cmd)
}

// editChannel runs fn against one channel's store and saves the result.
func editChannel(cmd *cobra.Command, channel string, fn func(*directives.Store) error) error {
	ch, err := directives.ParseChannel(channel)
	if err != nil {
		return err
	}
	return editSessionWith(cmd, func(s *appearance.Session) error {
		store, err := s.Store(ch)
		if err != nil {
			return err
		}
		if err := fn(store); err != nil {
			return fmt.Errorf("%s: %w", ch, err)
		}
		return nil
	})
}

func parseChannels(args []string) ([]directives.Channel, error) {
	var out []directives.Channel
	for _, a := range args {
		ch, err := directives.ParseChannel(a)
		if err != nil {
			return nil, err
		}
		out = append(out, ch)
	}
	return out, nil
}

func parsePart(s string) (player.Part, error) {
	ch, err := directives.ParseChannel(s)
	if err == nil {
		for _, p := range player.Parts {
			if string(p) == string(ch) {
				return p, nil
			}
		}
	}
	return "", fmt.Errorf("unknown part %q (want hair, facial_hair or facial_mask)", s)
}

func printParts(out io.Writer, s *appearance.Session) {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	for _, part := range player.Parts {
		sel := s.Part(part)
		fmt.Fprintf(w, "%s\t%s\t%s\n", part, sel.Group, sel.Type)
	}
	fmt.Fprintf(w, "personality\t%s\t\n", s.Personality())
	fmt.Fprintf(w, "favorite color\t%s\t\n", s.FavoriteColor().Hex())
	w.Flush()
	fmt.Fprintln(out)
}

// printChannels prints the flattened directive table of each channel.
// With no channels given, all of them are printed.
func printChannels(out io.Writer, s *appearance.Session, channels ...directives.Channel) {
	if len(channels) == 0 {
		channels = directives.Channels
	}
	for _, ch := range channels {
		store, err := s.Store(ch)
		if err != nil {
			fmt.Fprintf(out, "%s: %v\n", ch, err)
			continue
		}
		fmt.Fprintf(out, "[%s]\n", ch)
		if store.RowCount() == 0 {
			fmt.Fprintln(out, "  (no directives)")
			continue
		}
		view := store.Flatten()
		w := tabwriter.NewWriter(out, 0, 0, 3, ' ', 0)
		fmt.Fprintln(w, "  ROW\tGROUP\tFROM\tTO\t")
		for row, p := range view.Rows {
			group, _, _ := view.Locate(row)
			fmt.Fprintf(w, "  %d\t%d\t%s\t%s\t\n", row, group, p.From, p.To)
		}
		w.Flush()
	}
}

func currentChannels(p *player.Player) map[directives.Channel]string {
	out := make(map[directives.Channel]string, len(directives.Channels))
	for _, ch := range directives.Channels {
		out[ch] = p.Directives(ch)
	}
	return out
}

func init() {
	rootCmd.AddCommand(appearanceCmd)
	appearanceCmd.AddCommand(appearanceShowCmd)
	for _, c := range []*cobra.Command{appearanceAddCmd, appearanceRemoveCmd, appearanceEditCmd, appearancePartCmd, appearancePersonalityCmd, appearanceColorCmd} {
		addDryRunFlag(c)
		appearanceCmd.AddCommand(c)
	}
	appearanceCmd.AddCommand(appearanceOptionsCmd)

	appearanceRemoveCmd.Flags().String("from", "", "Source color of the pair to remove")
	appearanceRemoveCmd.Flags().String("to", "", "Replacement color of the pair to remove")
}
