package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"folio/site/internal/auth"
	"folio/site/internal/backup"
	"folio/site/internal/logger"
)

func newImportCommand(env func() (*environment, error)) *cobra.Command {
	return &cobra.Command{
		Use:   "import <file.json>",
		Short: "Import content items, skipping slugs that already exist",
		Long: `Import reads either a JSON array of content objects or a backup
snapshot ({"content": [...]}) and creates every item whose slug is free.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("read import file: %w", err)
			}
			payloads, err := decodeImport(raw)
			if err != nil {
				return err
			}

			e, err := env()
			if err != nil {
				return err
			}
			defer e.Close()
			if _, err := e.requireDB(cmd.Context()); err != nil {
				return err
			}
			svc, err := e.service(nil)
			if err != nil {
				return err
			}

			report, err := svc.Import(cmd.Context(), payloads)
			if err != nil {
				return err
			}
			for _, msg := range report.Errors {
				e.log.Warn("Import item failed", logger.String("error", msg))
			}
			fmt.Fprintf(cmd.OutOrStdout(), "migrated %d, skipped %d, failed %d\n",
				report.Migrated, report.Skipped, len(report.Errors))
			return nil
		},
	}
}

// decodeImport accepts a bare array or a backup snapshot.
func decodeImport(raw []byte) ([]map[string]any, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		var items []map[string]any
		if err := json.Unmarshal(trimmed, &items); err != nil {
			return nil, fmt.Errorf("decode import file: %w", err)
		}
		return items, nil
	}
	var snapshot struct {
		Content []map[string]any `json:"content"`
	}
	if err := json.Unmarshal(trimmed, &snapshot); err != nil {
		return nil, fmt.Errorf("decode import file: %w", err)
	}
	return snapshot.Content, nil
}

func newBackupCommand(env func() (*environment, error)) *cobra.Command {
	return &cobra.Command{
		Use:   "backup",
		Short: "Upload a JSON snapshot of all content to object storage",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := env()
			if err != nil {
				return err
			}
			defer e.Close()
			if _, err := e.requireDB(cmd.Context()); err != nil {
				return err
			}
			uploader, err := backup.New(backup.Config{
				Endpoint:  e.cfg.S3Endpoint,
				AccessKey: e.cfg.S3AccessKey,
				SecretKey: e.cfg.S3SecretKey,
				Bucket:    e.cfg.S3Bucket,
				UseSSL:    e.cfg.S3UseSSL,
			}, e.log)
			if err != nil {
				return err
			}
			svc, err := e.service(nil)
			if err != nil {
				return err
			}

			snapshot := backup.Snapshot{
				Version:   backup.SnapshotVersion,
				CreatedAt: time.Now().UTC(),
				Author:    svc.Author(cmd.Context()),
				Content:   svc.FetchAll(cmd.Context()),
			}
			key, err := uploader.Upload(cmd.Context(), snapshot)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "uploaded %d items to %s/%s\n", len(snapshot.Content), e.cfg.S3Bucket, key)
			return nil
		},
	}
}

func newReindexCommand(env func() (*environment, error)) *cobra.Command {
	return &cobra.Command{
		Use:   "reindex",
		Short: "Push every content item to the search index",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := env()
			if err != nil {
				return err
			}
			defer e.Close()
			if e.cfg.MeiliURL == "" {
				return fmt.Errorf("MEILI_URL is not set")
			}
			svc, err := e.service(nil)
			if err != nil {
				return err
			}
			n, err := svc.Reindex(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "indexed %d items\n", n)
			return nil
		},
	}
}

func newHashPasswordCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "hash-password <password>",
		Short: "Print a bcrypt hash for ADMIN_PASSWORD_HASH",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			hash, err := auth.HashPassword(args[0])
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), hash)
			return nil
		},
	}
}
