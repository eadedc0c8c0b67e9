package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/Ajith-te/Bank-Statement-upload-DB/internal/banks"
	"github.com/Ajith-te/Bank-Statement-upload-DB/internal/config"
	"github.com/Ajith-te/Bank-Statement-upload-DB/internal/repositories/sqlconnect"
	"github.com/Ajith-te/Bank-Statement-upload-DB/internal/repositories/statementstore"
	"github.com/Ajith-te/Bank-Statement-upload-DB/internal/statements"
	"github.com/Ajith-te/Bank-Statement-upload-DB/pkg/utils"
)

type unknownBankError struct {
	code  string
	known []string
}

func (e *unknownBankError) Error() string {
	return fmt.Sprintf("unknown bank %q (known: %s)", e.code, strings.Join(e.known, ", "))
}

func readUpload(path, adminID string) (statements.Upload, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return statements.Upload{}, fmt.Errorf("reading statement: %w", err)
	}
	return statements.Upload{Filename: filepath.Base(path), Data: data, AdminID: adminID}, nil
}

func newValidateCommand(load profileLoader) *cobra.Command {
	var bank string

	cmd := &cobra.Command{
		Use:   "validate FILE",
		Short: "Check a statement's layout and columns without touching the database",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := load(bank)
			if err != nil {
				return err
			}
			u, err := readUpload(args[0], "")
			if err != nil {
				return err
			}

			rows, err := statements.Prepare(p, u)
			if err != nil {
				return err
			}

			undated := 0
			var first, last time.Time
			for _, row := range rows {
				rec := statements.ToRecord(row, p)
				if !rec.TransactionDate.Valid {
					undated++
					continue
				}
				d := rec.TransactionDate.Time
				if first.IsZero() || d.Before(first) {
					first = d
				}
				if d.After(last) {
					last = d
				}
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s statement OK: %d data rows\n", p.Name, len(rows))
			if !first.IsZero() {
				fmt.Fprintf(out, "dates %s to %s\n", first.Format("2006-01-02"), last.Format("2006-01-02"))
			}
			if undated > 0 {
				fmt.Fprintf(out, "%d rows without a readable %s\n", undated, p.DateColumn())
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&bank, "bank", "", "bank code (required)")
	_ = cmd.MarkFlagRequired("bank")

	return cmd
}

func newIngestCommand(load profileLoader) *cobra.Command {
	var bank, adminID string

	cmd := &cobra.Command{
		Use:   "ingest FILE",
		Short: "Store a statement's new transactions in the database",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := load(bank)
			if err != nil {
				return err
			}
			u, err := readUpload(args[0], adminID)
			if err != nil {
				return err
			}

			cfg, err := config.Load()
			if err != nil {
				return err
			}
			utils.InitLogger(cfg.App.LogLevel, cfg.App.Env)

			if err := sqlconnect.ConnectDb(cfg.DB); err != nil {
				return err
			}
			defer sqlconnect.DB.Close()
			if cfg.DB.Migrate {
				if err := sqlconnect.RunMigrations(sqlconnect.DB); err != nil {
					return utils.ErrorHandler(err, "DB migration failed")
				}
			}

			store := statementstore.New(sqlconnect.DB,
				statementstore.WithLockWait(cfg.Store.LockWait),
				statementstore.WithChunkSize(cfg.Store.ChunkSize),
			)
			res, err := statements.NewIngestor(store).Ingest(cmd.Context(), p, u)
			if err != nil {
				return err
			}

			if res.NothingNew() {
				fmt.Fprintln(cmd.OutOrStdout(), "No new unique transactions to store")
				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s: stored %d of %d rows\n", p.Name, res.Inserted, res.Parsed)
			return nil
		},
	}

	cmd.Flags().StringVar(&bank, "bank", "", "bank code (required)")
	cmd.Flags().StringVar(&adminID, "admin", "", "uploading operator id (required)")
	_ = cmd.MarkFlagRequired("bank")
	_ = cmd.MarkFlagRequired("admin")

	return cmd
}

func newBanksCommand(profilesPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "banks",
		Short: "List the configured bank profiles",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			reg, err := banks.Load(*profilesPath)
			if err != nil {
				return err
			}
			for _, p := range reg.All() {
				fmt.Fprintf(cmd.OutOrStdout(), "%-6s %-6s table=%s header_row=%d trim=%s\n",
					p.Code, p.Name, p.Table, p.HeaderRow+1, p.Trim)
			}
			return nil
		},
	}
}
