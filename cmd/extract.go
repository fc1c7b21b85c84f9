package main

import (
	"context"
	"fmt"

	"github.com/javed0211/AzureDevopsMigratorNew-sub000/internal/formatter"
	"github.com/javed0211/AzureDevopsMigratorNew-sub000/internal/models"
	"github.com/javed0211/AzureDevopsMigratorNew-sub000/internal/tasks"
	"github.com/urfave/cli/v3"
)

// ExtractRun runs extraction for one project across the requested artifact types.
func (r *Runner) ExtractRun(ctx context.Context, cmd *cli.Command) error {
	if err := r.bootstrap(); err != nil {
		return err
	}

	engine, err := r.resolveEngine(ctx)
	if err != nil {
		return err
	}

	project, err := r.findProject(cmd.String("project"))
	if err != nil {
		return err
	}

	var artifacts []models.ArtifactType
	for _, raw := range cmd.StringSlice("type") {
		artifact, err := models.ParseArtifactType(raw)
		if err != nil {
			return err
		}
		artifacts = append(artifacts, artifact)
	}

	r.logger.Info("starting extraction", "project", project.Name, "types", len(artifacts))
	r.writePlain("Extracting artifacts from '%s'...\n\n", project.Name)

	progressCh := make(chan tasks.ProgressUpdate, 50)
	done := make(chan struct{})
	go func() {
		defer close(done)
		for update := range progressCh {
			switch update.Phase {
			case tasks.FetchStarted:
				r.writePlain("📥 %s\n", update.Message)
			case tasks.FetchCompleted, tasks.FetchFailed:
				r.writePlain("   %s\n", update.Message)
			case tasks.BatchSettled:
				r.writePlain("   [%d/%d] %s\n", update.Step, update.Total, update.Message)
			}
		}
	}()

	result, err := engine.ExtractBatch(ctx, progressCh, project.ID(), artifacts, tasks.BatchOpts{
		NumWorkers: int(cmd.Int("workers")),
	})
	close(progressCh)
	<-done

	if err != nil {
		return err
	}

	r.writePlain("\n")
	r.writePlainHeader("Extraction Complete")

	text, err := formatter.BatchResultToText(result)
	if err != nil {
		return fmt.Errorf("failed to render batch result: %w", err)
	}
	return r.writePlain("%s", text)
}
