package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/starcheat/starcheat/internal/utils"

	homedir "github.com/mitchellh/go-homedir"
	"github.com/spf13/viper"
)

var cfgFile string

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "starcheat",
	Short: "Edit the appearance of a Starbound character.",
	Long: `starcheat edits a character's hair, facial hair, facial mask, personality,
favorite color and the palette-swap color directives of each body channel.

Every change is written back to the player file only when the command succeeds.`,
	CompletionOptions: cobra.CompletionOptions{
		DisableDefaultCmd: true,
	},
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.starcheat.yaml)")

	// Global flags
	rootCmd.PersistentFlags().StringP("loglevel", "l", "info", "Set log level. Available: debug, info, warn, error, fatal")
	rootCmd.PersistentFlags().StringP("player", "p", "", "Path to the player JSON file")
	rootCmd.PersistentFlags().String("species", "", "Path to the species definition used to validate choices")
	rootCmd.PersistentFlags().String("dbpath", "", "Path to SQLite DB file for presets and history")

	viper.BindPFlag("player.path", rootCmd.PersistentFlags().Lookup("player"))
	viper.BindPFlag("species.path", rootCmd.PersistentFlags().Lookup("species"))
	viper.BindPFlag("db.path", rootCmd.PersistentFlags().Lookup("dbpath"))
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := homedir.Dir()
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
		viper.AddConfigPath(home)
		viper.SetConfigName(".starcheat")
		viper.SetConfigType("yaml")
	}

	viper.SetEnvPrefix("starcheat")
	viper.AutomaticEnv()

	// If a config file is found, read it in.
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			fmt.Fprintf(os.Stderr, "Error reading config file: %s\n", err)
		}
	}

	viper.SetDefault("player.path", "")
	viper.SetDefault("species.path", "")
	viper.SetDefault("db.path", "")
	viper.SetDefault("history.enabled", true)

	// Init log library
	levelString, _ := rootCmd.PersistentFlags().GetString("loglevel")
	utils.SetLogLevel(levelString)
}
