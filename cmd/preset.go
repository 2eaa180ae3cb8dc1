package cmd

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"github.com/starcheat/starcheat/internal/utils"
	"github.com/starcheat/starcheat/pkg/appearance"
	"github.com/starcheat/starcheat/pkg/directives"
	"github.com/starcheat/starcheat/pkg/storage"
)

// presetCmd represents the preset command
var presetCmd = &cobra.Command{
	Use:   "preset",
	Short: "Save and reuse color directives across characters",
}

var presetSaveCmd = &cobra.Command{
	Use:   "save <name> <channel>",
	Short: "Save the player's directives for a channel as a named preset",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		ch, err := directives.ParseChannel(args[1])
		if err != nil {
			return err
		}
		e, err := openSession(false)
		if err != nil {
			return err
		}
		enc, err := e.session.Encoded(ch)
		if err != nil {
			return err
		}
		db, err := openDB()
		if err != nil {
			return err
		}
		defer db.Close()
		if err := db.SavePreset(context.Background(), storage.Preset{Name: args[0], Channel: ch, Directives: enc}); err != nil {
			return err
		}
		utils.Log.Infof("Saved preset %s for %s", storage.NormalizePresetName(args[0]), ch)
		return nil
	},
}

var presetListCmd = &cobra.Command{
	Use:   "list [channel]",
	Short: "List saved presets",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var ch directives.Channel
		if len(args) == 1 {
			var err error
			if ch, err = directives.ParseChannel(args[0]); err != nil {
				return err
			}
		}
		db, err := openDB()
		if err != nil {
			return err
		}
		defer db.Close()
		presets, err := db.ListPresets(context.Background(), ch)
		if err != nil {
			return err
		}
		if len(presets) == 0 {
			fmt.Println("No presets saved.")
			return nil
		}
		w := tabwriter.NewWriter(os.Stdout, 0, 0, 3, ' ', 0)
		fmt.Fprintln(w, "NAME\tCHANNEL\tGROUPS\tPAIRS\tUPDATED\t")
		for _, p := range presets {
			set, _ := directives.Parse(p.Directives)
			fmt.Fprintf(w, "%s\t%s\t%d\t%d\t%s\t\n", p.Name, p.Channel, len(set), set.Len(), p.UpdatedAt.Format("2006-01-02 15:04:05"))
		}
		return w.Flush()
	},
}

var presetApplyCmd = &cobra.Command{
	Use:   "apply <name> <channel>",
	Short: "Replace a channel's directives with a saved preset",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		ch, err := directives.ParseChannel(args[1])
		if err != nil {
			return err
		}
		db, err := openDB()
		if err != nil {
			return err
		}
		p, err := db.GetPreset(context.Background(), args[0], ch)
		db.Close()
		if err != nil {
			return err
		}
		return editSessionWith(cmd, func(s *appearance.Session) error {
			return s.Replace(ch, p.Directives)
		})
	},
}

var presetDeleteCmd = &cobra.Command{
	Use:   "delete <name> <channel>",
	Short: "Delete a saved preset",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		ch, err := directives.ParseChannel(args[1])
		if err != nil {
			return err
		}
		db, err := openDB()
		if err != nil {
			return err
		}
		defer db.Close()
		return db.DeletePreset(context.Background(), args[0], ch)
	},
}

func init() {
	rootCmd.AddCommand(presetCmd)
	presetCmd.AddCommand(presetSaveCmd)
	presetCmd.AddCommand(presetListCmd)
	presetCmd.AddCommand(presetApplyCmd)
	presetCmd.AddCommand(presetDeleteCmd)
	addDryRunFlag(presetApplyCmd)
}
