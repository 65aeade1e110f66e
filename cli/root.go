package cli

import (
	"fmt"
	"os"

	"github.com/leettrack/leettrack/cli/config"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:     "leettrack",
	Short:   "LeetTrack - coding problem progress tracker",
	Long:    `LeetTrack is a CLI for tracking your coding interview problem practice: add problems, record attempts, rate difficulty, and watch your progress.`,
	Version: "1.0.0",
}

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize configuration",
	Long:  `Create the LeetTrack config directory and default configuration file.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := config.Init(); err != nil {
			printError(fmt.Sprintf("Failed to initialize config: %v", err))
			return err
		}

		configPath, _ := config.GetConfigPath()
		printSuccess("Configuration initialized!")
		fmt.Printf("Config file: %s\n", configPath)
		fmt.Println("\nNext steps:")
		fmt.Println("  leettrack auth register --username <name> --email <email>")
		fmt.Println("  leettrack problems curated")
		return nil
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func printSuccess(msg string) {
	fmt.Printf("\033[32m%s\033[0m\n", msg)
}

func printError(msg string) {
	fmt.Fprintf(os.Stderr, "\033[31m%s\033[0m\n", msg)
}

func printInfo(msg string) {
	fmt.Printf("\033[36m%s\033[0m\n", msg)
}

func init() {
	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(authCmd)
	rootCmd.AddCommand(problemsCmd)
	rootCmd.AddCommand(progressCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(systemCmd)
}
