package main

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/mvollmer/discotag/internal/enrich"
	"github.com/mvollmer/discotag/internal/formatter"
	"github.com/mvollmer/discotag/internal/models"
	"github.com/mvollmer/discotag/internal/shared"
	"github.com/urfave/cli/v3"
)

const shutdownGrace = 5 * time.Second

// Enrich runs a metadata enrichment batch over the selected records.
//
// The batch runs on the scheduler's goroutine; this action streams progress
// lines to the output while it waits, then prints the terminal report.
func (r *Runner) Enrich(ctx context.Context, cmd *cli.Command) error {
	r.reloadConfig(cmd.String("config"))

	repo, release, err := r.repository()
	if err != nil {
		return err
	}
	defer release()

	var ids []int64
	if cmd.Bool("all") {
		records, err := repo.List(map[string]any{"enriched": false})
		if err != nil {
			return fmt.Errorf("failed to list pending records: %w", err)
		}
		for _, rec := range records {
			ids = append(ids, rec.ID())
		}
		if len(ids) == 0 {
			return r.writePlain("Nothing to enrich\n")
		}
	} else {
		ids, err = parseIDs(cmd.StringArg("ids"))
		if err != nil {
			return err
		}
	}

	batch := models.NewBatch(ids, cmd.Int("active"))
	if err := batch.Validate(); err != nil {
		return fmt.Errorf("%w: %v", shared.ErrInvalidArgument, err)
	}

	artworkEnabled := func() bool {
		if cmd.IsSet("artwork") {
			return cmd.Bool("artwork")
		}
		return r.config.Enrichment.ArtworkEnabled
	}

	engine := r.newEngine(repo, artworkEnabled)
	scheduler := enrich.NewScheduler(engine, shared.WithLogger(r.logger, "component", "scheduler"))

	progress := make(chan enrich.ProgressUpdate, 64)
	handle, err := scheduler.Submit(ctx, batch, progress)
	if err != nil {
		return fmt.Errorf("failed to submit batch: %w", err)
	}

	running := true
	for running {
		select {
		case upd := <-progress:
			r.writePlain("%s\n", upd.Message)
		case <-handle.Done():
			running = false
		}
	}
drain:
	for {
		select {
		case upd := <-progress:
			r.writePlain("%s\n", upd.Message)
		default:
			break drain
		}
	}

	report, err := handle.Wait(ctx)
	if err != nil {
		return fmt.Errorf("failed to collect report: %w", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
	defer cancel()
	if err := scheduler.Shutdown(shutdownCtx); err != nil {
		r.logger.Warn("scheduler shutdown incomplete", "error", err)
	}

	if _, err := r.output.Write(formatter.ReportToText(report)); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}

	if report.Status == enrich.StatusAborted {
		return fmt.Errorf("batch aborted: %w", report.Err)
	}
	return nil
}

// parseIDs splits a comma-separated identifier list.
func parseIDs(arg string) ([]int64, error) {
	arg = strings.TrimSpace(arg)
	if arg == "" {
		return nil, fmt.Errorf("%w: provide record ids or --all", shared.ErrMissingArgument)
	}

	parts := strings.Split(arg, ",")
	ids := make([]int64, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		id, err := strconv.ParseInt(part, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: id must be an integer, got %q", shared.ErrInvalidArgument, part)
		}
		ids = append(ids, id)
	}

	if len(ids) == 0 {
		return nil, fmt.Errorf("%w: provide record ids or --all", shared.ErrMissingArgument)
	}
	return ids, nil
}
