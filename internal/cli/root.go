package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	cfgFile   string
	verbosity string
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "camerainit",
	Short: "camerainit - initialize camera intrinsics for a photogrammetry dataset",
	Long: `camerainit creates the description of an input image dataset for a
3-D reconstruction pipeline.

For every image it resolves the physical sensor width from a camera
database, estimates an initial focal length in pixels, selects a camera
model family and groups views that share the same physical camera under
one intrinsic parameter set. The resulting dataset file carries the
views and their shared intrinsics for the downstream SfM stages.`,
	SilenceErrors: true,
	SilenceUsage:  true,
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

// versionCmd represents the version command
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Long:  `Display the version number and build information for camerainit.`,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("camerainit v0.1.0")
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: $HOME/.camerainit/config.yaml)")
	rootCmd.PersistentFlags().StringVarP(&verbosity, "verbosity", "v", "info", "verbosity level (debug, info, warn, error)")

	// Bind flags to viper
	_ = viper.BindPFlag("verbosity", rootCmd.PersistentFlags().Lookup("verbosity"))

	// Add subcommands
	rootCmd.AddCommand(versionCmd)
}

// initConfig reads in config file and ENV variables
func initConfig() {
	if cfgFile != "" {
		// Use config file from the flag
		viper.SetConfigFile(cfgFile)
	} else {
		// Find home directory
		home, err := os.UserHomeDir()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error finding home directory: %v\n", err)
			return
		}

		// Search for config in home directory
		viper.AddConfigPath(home + "/.camerainit")
		viper.SetConfigType("yaml")
		viper.SetConfigName("config")
	}

	// Read in environment variables that match CAMERAINIT_*
	viper.SetEnvPrefix("CAMERAINIT")
	viper.AutomaticEnv()

	_ = viper.ReadInConfig()
}
