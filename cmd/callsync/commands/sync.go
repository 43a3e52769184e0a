package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/briandowns/spinner"
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/simard-insights/callsync/internal/cache"
	"github.com/simard-insights/callsync/internal/ingest"
	"github.com/simard-insights/callsync/internal/mail"
)

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Fetch report emails and upsert their records into the store",
	RunE:  runSync,
}

func init() {
	rootCmd.AddCommand(syncCmd)
}

func runSync(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	logger := buildLogger(cfg)

	st, err := buildStore(ctx, cfg)
	if err != nil {
		return fmt.Errorf("connect store: %w", err)
	}
	defer st.Close()

	cacheClient, err := buildCache(cfg)
	if err != nil {
		return fmt.Errorf("connect cache: %w", err)
	}
	defer cacheClient.Close()
	seen := cache.NewSeen(cacheClient, cfg.Mail.Mailbox, cfg.Cache.TTL)

	source := mail.NewIMAPSource(mail.IMAPConfig{
		Server:   cfg.Mail.Server,
		Username: cfg.Mail.Username,
		Password: cfg.Mail.Password,
		Mailbox:  cfg.Mail.Mailbox,
		Subject:  cfg.Mail.Subject,
		Limit:    cfg.Mail.Limit,
	}, logger)

	messages, err := fetchWithSpinner(ctx, source)
	if err != nil {
		return fmt.Errorf("fetch messages: %w", err)
	}
	if len(messages) == 0 {
		color.Yellow("No report messages found for subject %q.", cfg.Mail.Subject)
		return nil
	}

	pipeline := ingest.NewPipeline(logger, nil, st, ingest.Options{
		AdvisorAttribution: cfg.Ingest.AdvisorAttribution,
		UseSubjectStore:    cfg.Ingest.SubjectStore,
		Year:               cfg.Ingest.Year,
	})

	var upserted, skippedRows, skippedMsgs, failures int
	for _, msg := range messages {
		if seen.Has(ctx, msg.UID) {
			skippedMsgs++
			continue
		}

		res, err := pipeline.Ingest(ctx, msg.Doc)
		upserted += res.Upserted
		skippedRows += res.RowsSkipped
		failures += len(res.Errors)

		if err == nil && len(res.Errors) == 0 {
			if markErr := seen.Mark(ctx, msg.UID); markErr != nil {
				logger.Warn().Err(markErr).Uint32("uid", msg.UID).Msg("Failed to mark message as seen")
			}
		}
	}

	color.Green("Synced %d records from %d messages.", upserted, len(messages)-skippedMsgs)
	if skippedMsgs > 0 {
		fmt.Printf("Skipped %d previously ingested messages.\n", skippedMsgs)
	}
	if skippedRows > 0 {
		fmt.Printf("Skipped %d non-data rows.\n", skippedRows)
	}
	if failures > 0 {
		color.Red("%d records failed to upsert; re-run sync to retry them.", failures)
	}
	return nil
}

func fetchWithSpinner(ctx context.Context, source mail.Source) ([]mail.Message, error) {
	s := spinner.New(spinner.CharSets[14], 100*time.Millisecond)
	s.Suffix = " Fetching report messages..."
	if !noColor {
		_ = s.Color("cyan")
	}
	s.Start()
	defer s.Stop()

	return source.Fetch(ctx)
}
