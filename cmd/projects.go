package main

import (
	"context"
	"fmt"

	"github.com/javed0211/AzureDevopsMigratorNew-sub000/internal/formatter"
	"github.com/javed0211/AzureDevopsMigratorNew-sub000/internal/models"
	"github.com/javed0211/AzureDevopsMigratorNew-sub000/internal/services"
	"github.com/javed0211/AzureDevopsMigratorNew-sub000/internal/shared"
	"github.com/urfave/cli/v3"
)

// ProjectsList lists stored projects.
func (r *Runner) ProjectsList(ctx context.Context, cmd *cli.Command) error {
	if err := r.bootstrap(); err != nil {
		return err
	}

	projects, err := r.projects.List(nil)
	if err != nil {
		return fmt.Errorf("failed to list projects: %w", err)
	}

	if cmd.Bool("json") {
		payload := make([]map[string]any, 0, len(projects))
		for _, project := range projects {
			payload = append(payload, map[string]any{
				"id":         project.ID(),
				"externalId": project.ExternalID,
				"name":       project.Name,
				"status":     project.Status,
				"extracted":  len(project.Summaries),
			})
		}
		return r.writeJSON(payload, cmd.Bool("pretty"))
	}

	if len(projects) == 0 {
		r.writePlain("No projects stored. Run 'adomig projects sync' first.\n")
		return nil
	}

	r.writePlain("%-36s %-24s %-12s %s\n", "ID", "NAME", "STATUS", "EXTRACTED")
	for _, project := range projects {
		r.writePlain("%-36s %-24s %-12s %d/%d\n",
			project.ID(), project.Name, project.Status, len(project.Summaries), len(models.AllArtifactTypes()))
	}

	return nil
}

// ProjectsSync fetches projects from the source organization and stores them.
func (r *Runner) ProjectsSync(ctx context.Context, cmd *cli.Command) error {
	if err := r.bootstrap(); err != nil {
		return err
	}

	source, err := r.resolveSource(ctx)
	if err != nil {
		return err
	}

	r.logger.Info("syncing projects", "source", source.Name())
	r.writePlain("Fetching projects from %s...\n\n", source.Name())

	remotes, err := source.Projects(ctx)
	if err != nil {
		return err
	}

	for _, remote := range remotes {
		if err := r.syncOne(ctx, source, remote); err != nil {
			return fmt.Errorf("failed to sync project %s: %w", remote.Name, err)
		}
		r.writePlain("✓ %s\n", remote.Name)
	}

	r.writePlain("\nSynced %d projects\n", len(remotes))
	return nil
}

func (r *Runner) syncOne(ctx context.Context, source services.Source, remote services.AzureProject) error {
	detail, err := source.Project(ctx, remote.ID)
	if err != nil {
		detail = &remote
	}

	project, err := r.projects.GetByExternalID(remote.ID)
	if err != nil {
		project = models.NewProject(remote.ID, remote.Name)
		project.Description = remote.Description
		project.Visibility = remote.Visibility
		project.ProcessTemplate = detail.Capabilities.ProcessTemplate.TemplateName
		project.SourceControl = detail.Capabilities.VersionControl.SourceControlType
		return r.projects.Create(project)
	}

	project.Name = remote.Name
	project.Description = remote.Description
	project.Visibility = remote.Visibility
	project.ProcessTemplate = detail.Capabilities.ProcessTemplate.TemplateName
	project.SourceControl = detail.Capabilities.VersionControl.SourceControlType
	return r.projects.Update(project)
}

// ProjectsRepo inspects one repository: branches, recent commits, and
// active pull requests fetched from the source on demand.
func (r *Runner) ProjectsRepo(ctx context.Context, cmd *cli.Command) error {
	projectRef := cmd.StringArg("project")
	repoRef := cmd.StringArg("repository")
	if projectRef == "" || repoRef == "" {
		return fmt.Errorf("%w: project and repository arguments are required", shared.ErrMissingArgument)
	}

	if err := r.bootstrap(); err != nil {
		return err
	}

	project, err := r.findProject(projectRef)
	if err != nil {
		return err
	}

	source, err := r.resolveSource(ctx)
	if err != nil {
		return err
	}

	repos, err := source.Repositories(ctx, project.ExternalID)
	if err != nil {
		return err
	}

	var repo *services.GitRepository
	for i := range repos {
		if repos[i].ID == repoRef || repos[i].Name == repoRef {
			repo = &repos[i]
			break
		}
	}
	if repo == nil {
		return fmt.Errorf("%w: %s", shared.ErrRepoNotFound, repoRef)
	}

	branches, err := source.Branches(ctx, project.ExternalID, repo.ID)
	if err != nil {
		return err
	}

	commits, err := source.Commits(ctx, project.ExternalID, repo.ID, 10)
	if err != nil {
		return err
	}

	pulls, err := source.PullRequests(ctx, project.ExternalID, repo.ID)
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(map[string]any{
			"id":            repo.ID,
			"name":          repo.Name,
			"defaultBranch": repo.DefaultBranch,
			"branches":      branches,
			"commits":       commits,
			"pullRequests":  pulls,
		}, cmd.Bool("pretty"))
	}

	r.writePlain("Repository: %s (%s)\n", repo.Name, repo.ID)
	r.writePlain("Default branch: %s\n\n", repo.DefaultBranch)

	r.writePlain("Branches (%d):\n", len(branches))
	for _, branch := range branches {
		r.writePlain("  %s\n", branch.Name)
	}

	r.writePlain("\nRecent commits (%d):\n", len(commits))
	for _, commit := range commits {
		r.writePlain("  %.8s %s\n", commit.CommitID, commit.Comment)
	}

	r.writePlain("\nActive pull requests (%d):\n", len(pulls))
	for _, pull := range pulls {
		r.writePlain("  #%d %s\n", pull.ID, pull.Title)
	}

	return nil
}

// ProjectsExport renders or writes a project's extraction summary.
func (r *Runner) ProjectsExport(ctx context.Context, cmd *cli.Command) error {
	ref := cmd.StringArg("project")
	if ref == "" {
		return fmt.Errorf("%w: project argument is required", shared.ErrMissingArgument)
	}

	if err := r.bootstrap(); err != nil {
		return err
	}

	project, err := r.findProject(ref)
	if err != nil {
		return err
	}

	format := cmd.String("format")
	outputPath := cmd.String("output")

	switch format {
	case "text":
		data, err := formatter.SummaryToText(project)
		if err != nil {
			return err
		}
		return r.writePlain("%s", data)
	case "json":
		data, err := formatter.ExportToJSON(project)
		if err != nil {
			return err
		}
		return r.writePlain("%s\n", data)
	case "markdown":
		result, err := formatter.WriteMarkdownExport(project, outputPath)
		if err != nil {
			return err
		}
		r.writePlain("✓ Markdown export written to %s\n", result.Directory)
		return nil
	case "csv":
		result, err := formatter.WriteCSVExport(project, outputPath)
		if err != nil {
			return err
		}
		r.writePlain("✓ Summary written to %s\n", result.SummaryFile)
		r.writePlain("✓ Metadata written to %s\n", result.MetadataFile)
		return nil
	default:
		return fmt.Errorf("%w: unknown format '%s' (must be text, markdown, csv, or json)", shared.ErrInvalidArgument, format)
	}
}
