package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/Ajith-te/Bank-Statement-upload-DB/internal/banks"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}

// newRootCommand creates the root CLI command with all subcommands registered.
func newRootCommand() *cobra.Command {
	var profilesPath string

	rootCmd := &cobra.Command{
		Use:   "statementctl",
		Short: "Validate and ingest bank statement spreadsheets",
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		SilenceUsage: true,
	}
	rootCmd.PersistentFlags().StringVar(&profilesPath, "profiles", os.Getenv("BANKS_PROFILES"), "bank profiles TOML file (default: built-in)")

	loadProfile := func(code string) (*banks.Profile, error) {
		reg, err := banks.Load(profilesPath)
		if err != nil {
			return nil, err
		}
		p := reg.Get(code)
		if p == nil {
			return nil, &unknownBankError{code: code, known: reg.Codes()}
		}
		return p, nil
	}

	rootCmd.AddCommand(newValidateCommand(loadProfile))
	rootCmd.AddCommand(newIngestCommand(loadProfile))
	rootCmd.AddCommand(newBanksCommand(&profilesPath))

	return rootCmd
}

type profileLoader func(code string) (*banks.Profile, error)
