package cmd

import (
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/nsxbet/ddl-analyzer/pkg/config"
)

var profileCmd = &cobra.Command{
	Use:   "profile [flags] <file>",
	Short: "Write the default analysis profile",
	Long: `Write the default analysis profile to a file, as JSON when the file
name ends in .json and as YAML otherwise. Edit it and pass it to
analyze with --profile.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, _ := cmd.Flags().GetString("id")
		cfg := config.DefaultConfig(id)
		if err := cfg.WriteToFile(args[0]); err != nil {
			return err
		}
		slog.Info("Profile written", "file", args[0])
		return nil
	},
}

func init() {
	rootCmd.AddCommand(profileCmd)
	profileCmd.Flags().String("id", "default", "profile identifier")
}
