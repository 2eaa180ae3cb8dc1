package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/starcheat/starcheat/internal/utils"
	"github.com/starcheat/starcheat/pkg/appearance"
	"github.com/starcheat/starcheat/pkg/player"
	"github.com/starcheat/starcheat/pkg/species"
	"github.com/starcheat/starcheat/pkg/storage"
)

// editSession ties an appearance session to the locked player file it
// came from.
type editSession struct {
	path    string
	lock    *utils.FileLock
	player  *player.Player
	session *appearance.Session
}

func playerPath() (string, error) {
	path := viper.GetString("player.path")
	if path == "" {
		return "", errors.New("no player file given (use --player or player.path in the config)")
	}
	return path, nil
}

func loadCatalogue() (*species.Catalogue, error) {
	path := viper.GetString("species.path")
	if path == "" {
		return nil, nil
	}
	return species.Load(path)
}

func openDB() (*storage.DB, error) {
	path, err := utils.GetAbsDBPath(viper.GetString("db.path"))
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	return storage.Open(path)
}

// openSession locks and loads the player file. With lock false the file
// is only read.
func openSession(lock bool) (*editSession, error) {
	path, err := playerPath()
	if err != nil {
		return nil, err
	}
	e := &editSession{path: path}
	if lock {
		if e.lock, err = utils.NewFileLock(path); err != nil {
			return nil, err
		}
		if err := e.lock.Lock(); err != nil {
			return nil, err
		}
	}
	if e.player, err = player.Load(path); err != nil {
		e.close()
		return nil, err
	}
	cat, err := loadCatalogue()
	if err != nil {
		e.close()
		return nil, err
	}
	if e.session, err = appearance.NewSession(e.player, cat); err != nil {
		e.close()
		return nil, err
	}
	utils.Log.Debugf("[session] opened %s (%s, %s)", path, e.player.Species(), e.player.Gender())
	return e, nil
}

func (e *editSession) close() {
	if e.lock == nil {
		return
	}
	if err := e.lock.Unlock(); err != nil {
		utils.Log.Warn(err)
	}
}

// finish commits the session and writes the player file. In dry-run mode
// the session is cancelled instead and the file is left alone.
func (e *editSession) finish(ctx context.Context, cmd *cobra.Command) error {
	dryRun, _ := cmd.Flags().GetBool("dry-run")
	before := e.session.Original()

	if dryRun {
		printChannels(cmd.OutOrStdout(), e.session)
		e.session.Cancel()
		utils.Log.Info("Dry run, player file not written")
		return nil
	}

	if err := e.session.Commit(); err != nil {
		return err
	}
	if err := e.player.Save(e.path); err != nil {
		return fmt.Errorf("could not save %s: %w", e.path, err)
	}
	utils.Log.Infof("Saved %s", e.path)

	if !viper.GetBool("history.enabled") {
		return nil
	}
	changes := storage.DiffChannels(e.player.Name(), before, currentChannels(e.player))
	if len(changes) == 0 {
		return nil
	}
	db, err := openDB()
	if err != nil {
		utils.Log.Warnf("Could not open history database: %v", err)
		return nil
	}
	defer db.Close()
	if err := db.RecordChanges(ctx, changes); err != nil {
		utils.Log.Warnf("Could not record history: %v", err)
	}
	return nil
}

func addDryRunFlag(c *cobra.Command) {
	c.Flags().Bool("dry-run", false, "Print the result without writing the player file")
}
