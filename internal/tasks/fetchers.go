package tasks

import (
	"context"
	"fmt"
	"strconv"

	"github.com/javed0211/AzureDevopsMigratorNew-sub000/internal/models"
	"github.com/javed0211/AzureDevopsMigratorNew-sub000/internal/services"
	"github.com/javed0211/AzureDevopsMigratorNew-sub000/internal/shared"
)

// FetchResult represents the outcome of fetching one artifact type.
// Either Err is set, or Count and Items describe what was extracted.
// A successful fetch with nothing upstream is a valid empty result.
type FetchResult struct {
	Artifact models.ArtifactType
	Count    int
	Items    []models.ArtifactItem
	Err      error
}

// fetch reads one artifact type from the source and maps it to summary items.
func fetch(ctx context.Context, source services.Source, project string, artifact models.ArtifactType) FetchResult {
	result := FetchResult{Artifact: artifact}

	switch artifact {
	case models.ArtifactAreaPaths:
		nodes, err := source.AreaPaths(ctx, project)
		if err != nil {
			result.Err = err
			return result
		}
		result.Count = len(nodes)
		result.Items = nodeItems(nodes)

	case models.ArtifactIterationPaths:
		nodes, err := source.IterationPaths(ctx, project)
		if err != nil {
			result.Err = err
			return result
		}
		result.Count = len(nodes)
		result.Items = nodeItems(nodes)

	case models.ArtifactWorkItemTypes:
		types, err := source.WorkItemTypes(ctx, project)
		if err != nil {
			result.Err = err
			return result
		}
		result.Count = len(types)
		for _, t := range types {
			result.Items = append(result.Items, models.ArtifactItem{
				ExternalID: t.ReferenceName,
				Name:       t.Name,
			})
		}

	case models.ArtifactCustomFields:
		fields, err := source.Fields(ctx, project)
		if err != nil {
			result.Err = err
			return result
		}
		result.Count = len(fields)
		for _, f := range fields {
			result.Items = append(result.Items, models.ArtifactItem{
				ExternalID: f.ReferenceName,
				Name:       f.Name,
				Kind:       f.Type,
			})
		}

	case models.ArtifactBoardColumns:
		columns, err := source.BoardColumns(ctx, project)
		if err != nil {
			result.Err = err
			return result
		}
		result.Count = len(columns)
		for _, c := range columns {
			result.Items = append(result.Items, models.ArtifactItem{
				ExternalID: c.ID,
				Name:       c.Name,
				Path:       c.BoardName,
				Kind:       c.ColumnType,
			})
		}

	case models.ArtifactWikiPages:
		wikis, err := source.WikiPages(ctx, project)
		if err != nil {
			result.Err = err
			return result
		}
		result.Count = len(wikis)
		for _, w := range wikis {
			result.Items = append(result.Items, models.ArtifactItem{
				ExternalID: w.ID,
				Name:       w.Name,
				Kind:       w.Type,
			})
		}

	case models.ArtifactWorkItems:
		items, err := source.WorkItems(ctx, project)
		if err != nil {
			result.Err = err
			return result
		}
		result.Count = len(items)
		result.Items = workItemItems(items)

	case models.ArtifactTestCases:
		items, err := source.TestCases(ctx, project)
		if err != nil {
			result.Err = err
			return result
		}
		result.Count = len(items)
		result.Items = workItemItems(items)

	case models.ArtifactRepositories:
		repos, err := source.Repositories(ctx, project)
		if err != nil {
			result.Err = err
			return result
		}
		result.Count = len(repos)
		for _, r := range repos {
			result.Items = append(result.Items, models.ArtifactItem{
				ExternalID: r.ID,
				Name:       r.Name,
				Path:       r.DefaultBranch,
			})
		}

	case models.ArtifactTestPlans:
		plans, err := source.TestPlans(ctx, project)
		if err != nil {
			result.Err = err
			return result
		}
		result.Count = len(plans)
		for _, p := range plans {
			result.Items = append(result.Items, models.ArtifactItem{
				ExternalID: strconv.Itoa(p.ID),
				Name:       p.Name,
				State:      p.State,
			})
		}

	case models.ArtifactTestSuites:
		suites, err := source.TestSuites(ctx, project)
		if err != nil {
			result.Err = err
			return result
		}
		result.Count = len(suites)
		for _, s := range suites {
			result.Items = append(result.Items, models.ArtifactItem{
				ExternalID: strconv.Itoa(s.ID),
				Name:       s.Name,
				Path:       s.PlanName,
			})
		}

	case models.ArtifactTestResults:
		runs, err := source.TestRuns(ctx, project)
		if err != nil {
			result.Err = err
			return result
		}
		result.Count = len(runs)
		for _, r := range runs {
			result.Items = append(result.Items, models.ArtifactItem{
				ExternalID: strconv.Itoa(r.ID),
				Name:       r.Name,
				State:      r.State,
			})
		}

	case models.ArtifactBuildPipelines:
		defs, err := source.BuildDefinitions(ctx, project)
		if err != nil {
			result.Err = err
			return result
		}
		result.Count = len(defs)
		for _, d := range defs {
			result.Items = append(result.Items, models.ArtifactItem{
				ExternalID: strconv.Itoa(d.ID),
				Name:       d.Name,
				Path:       d.Path,
			})
		}

	case models.ArtifactReleasePipelines:
		defs, err := source.ReleaseDefinitions(ctx, project)
		if err != nil {
			result.Err = err
			return result
		}
		result.Count = len(defs)
		for _, d := range defs {
			result.Items = append(result.Items, models.ArtifactItem{
				ExternalID: strconv.Itoa(d.ID),
				Name:       d.Name,
				Path:       d.Path,
			})
		}

	case models.ArtifactPipelineRuns:
		runs, err := source.PipelineRuns(ctx, project)
		if err != nil {
			result.Err = err
			return result
		}
		result.Count = len(runs)
		for _, r := range runs {
			result.Items = append(result.Items, models.ArtifactItem{
				ExternalID: strconv.Itoa(r.ID),
				Name:       r.Name,
				Path:       r.PipelineName,
				State:      r.Result,
			})
		}

	default:
		result.Err = fmt.Errorf("%w: %q", shared.ErrUnknownArtifactType, artifact)
	}

	return result
}

func nodeItems(nodes []services.ClassificationNode) []models.ArtifactItem {
	items := make([]models.ArtifactItem, 0, len(nodes))
	for _, n := range nodes {
		items = append(items, models.ArtifactItem{
			ExternalID: strconv.Itoa(n.ID),
			Name:       n.Name,
			Path:       n.Path,
		})
	}
	return items
}

func workItemItems(workItems []services.WorkItem) []models.ArtifactItem {
	items := make([]models.ArtifactItem, 0, len(workItems))
	for _, wi := range workItems {
		items = append(items, models.ArtifactItem{
			ExternalID: strconv.Itoa(wi.ID),
			Name:       wi.Title(),
			State:      wi.State(),
			Kind:       wi.Type(),
		})
	}
	return items
}
