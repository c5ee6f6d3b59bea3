package cmd

import (
	"os"

	"github.com/jsphweid/tabdex/config"
	"github.com/jsphweid/tabdex/logger"
	"github.com/spf13/cobra"
)

var (
	cfgPath string
	debug   bool
	cfg     = config.Default()
)

var rootCmd = &cobra.Command{
	Use:   "tabdex",
	Short: "Guitar Pro tab decoder",
	Long: `tabdex decodes Guitar Pro 3, 4, 5, 6 (gpx) and 7+ files into one
canonical score document, as JSON, YAML or MIDI.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		loaded, err := config.Load(cfgPath)
		if err != nil {
			return err
		}
		cfg = loaded
		if debug {
			cfg.Debug = true
		}
		logger.Setup(os.Stderr, cfg.Debug)
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgPath, "config", "", "YAML config file")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "log debug output")
}

func Execute() {
	cobra.CheckErr(rootCmd.Execute())
}
