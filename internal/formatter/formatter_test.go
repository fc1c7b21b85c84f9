package formatter

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/javed0211/AzureDevopsMigratorNew-sub000/internal/models"
	"github.com/javed0211/AzureDevopsMigratorNew-sub000/internal/tasks"
	th "github.com/javed0211/AzureDevopsMigratorNew-sub000/internal/testing"
)

func exportProject() *models.Project {
	project := models.NewProject("ext-123", "Phoenix")
	project.Description = "Customer portal migration"
	project.ProcessTemplate = "Agile"
	project.PutSummary(models.SuccessSummary(models.ArtifactAreaPaths, 4, []models.ArtifactItem{
		{ExternalID: "1", Name: "Phoenix", Path: `Phoenix`},
		{ExternalID: "2", Name: "Platform", Path: `Phoenix\Platform`},
	}))
	project.PutSummary(models.SuccessSummary(models.ArtifactWorkItems, 250, nil))
	project.PutSummary(models.FailureSummary(models.ArtifactWikiPages, "upstream request failed: status 500"))
	return project
}

func TestExporters(t *testing.T) {
	t.Run("SummaryToCSV", func(t *testing.T) {
		project := exportProject()

		data, err := SummaryToCSV(project)
		if err != nil {
			t.Fatalf("SummaryToCSV failed: %v", err)
		}

		output := string(data)

		if !strings.Contains(output, "ArtifactType,Extracted,Count,Error") {
			t.Errorf("CSV missing headers, got: %s", output)
		}
		if !strings.Contains(output, "areapaths,true,4,") {
			t.Errorf("CSV missing area paths row, got: %s", output)
		}
		if !strings.Contains(output, "workitems,true,250,") {
			t.Errorf("CSV missing work items row")
		}
		if !strings.Contains(output, "wikipages,false,0,upstream request failed: status 500") {
			t.Errorf("CSV missing failed wiki row, got: %s", output)
		}
		if strings.Contains(output, "repositories") {
			t.Errorf("CSV should omit types without a summary")
		}
	})

	t.Run("SummaryToMarkdown", func(t *testing.T) {
		project := exportProject()

		data, err := SummaryToMarkdown(project)
		if err != nil {
			t.Fatalf("SummaryToMarkdown failed: %v", err)
		}

		output := string(data)

		if !strings.Contains(output, "# Phoenix") {
			t.Errorf("Markdown missing title")
		}
		if !strings.Contains(output, "**Description**: Customer portal migration") {
			t.Errorf("Markdown missing description")
		}
		if !strings.Contains(output, "**Process**: Agile") {
			t.Errorf("Markdown missing process template")
		}
		if !strings.Contains(output, "**Artifact types extracted**: 3") {
			t.Errorf("Markdown missing summary count")
		}
		if !strings.Contains(output, "## Extraction Summary") {
			t.Errorf("Markdown missing summary section")
		}
		if !strings.Contains(output, "- workitems: 250 items") {
			t.Errorf("Markdown missing work items line, got: %s", output)
		}
		if !strings.Contains(output, "- wikipages: failed (upstream request failed: status 500)") {
			t.Errorf("Markdown missing failure line")
		}
	})

	t.Run("SummaryToText", func(t *testing.T) {
		project := exportProject()

		data, err := SummaryToText(project)
		if err != nil {
			t.Fatalf("SummaryToText failed: %v", err)
		}

		output := string(data)

		if !strings.Contains(output, "Project: Phoenix") {
			t.Errorf("Text missing project name")
		}
		if !strings.Contains(output, "areapaths: 4") {
			t.Errorf("Text missing area paths line")
		}
		if !strings.Contains(output, "wikipages: FAILED - upstream request failed: status 500") {
			t.Errorf("Text missing failure line, got: %s", output)
		}
	})

	t.Run("JobsToText", func(t *testing.T) {
		completed := models.NewExtractionJob("p1", models.ArtifactWorkItems)
		completed.StartedAt = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
		if err := completed.Begin(); err != nil {
			t.Fatal(err)
		}
		if err := completed.Complete(250, 250); err != nil {
			t.Fatal(err)
		}

		failed := models.NewExtractionJob("p1", models.ArtifactWikiPages)
		if err := failed.Begin(); err != nil {
			t.Fatal(err)
		}
		if err := failed.Fail("extraction timeout after 5m0s"); err != nil {
			t.Fatal(err)
		}

		data, err := JobsToText([]*models.ExtractionJob{completed, failed})
		if err != nil {
			t.Fatalf("JobsToText failed: %v", err)
		}

		output := string(data)

		if !strings.Contains(output, "ARTIFACT") || !strings.Contains(output, "STATUS") {
			t.Errorf("text table missing header, got: %s", output)
		}
		if !strings.Contains(output, "workitems") || !strings.Contains(output, "completed") {
			t.Errorf("text table missing completed row")
		}
		if !strings.Contains(output, "100%") {
			t.Errorf("text table missing progress")
		}
		if !strings.Contains(output, "2026-03-01T12:00:00Z") {
			t.Errorf("text table missing start time, got: %s", output)
		}
		if !strings.Contains(output, "error: extraction timeout after 5m0s") {
			t.Errorf("text table missing error detail")
		}
	})

	t.Run("BatchResultToText", func(t *testing.T) {
		job := models.NewExtractionJob("p1", models.ArtifactRepositories)
		if err := job.Begin(); err != nil {
			t.Fatal(err)
		}
		if err := job.Complete(3, 3); err != nil {
			t.Fatal(err)
		}

		result := &tasks.BatchResult{
			ProjectID: "p1",
			Total:     3,
			Succeeded: 1,
			Failed:    1,
			Skipped:   1,
			Outcomes: []tasks.ArtifactOutcome{
				{Artifact: models.ArtifactRepositories, Job: job},
				{Artifact: models.ArtifactWikiPages, Error: errors.New("upstream request failed")},
				{Artifact: models.ArtifactWorkItems},
			},
		}

		data, err := BatchResultToText(result)
		if err != nil {
			t.Fatalf("BatchResultToText failed: %v", err)
		}

		output := string(data)

		if !strings.Contains(output, "Total: 3  Succeeded: 1  Failed: 1  Skipped: 1") {
			t.Errorf("batch text missing counts, got: %s", output)
		}
		if !strings.Contains(output, "✓ repositories: 3 items") {
			t.Errorf("batch text missing success line")
		}
		if !strings.Contains(output, "✗ wikipages: upstream request failed") {
			t.Errorf("batch text missing failure line")
		}
		if !strings.Contains(output, "- workitems: skipped") {
			t.Errorf("batch text missing skipped line")
		}
	})

	t.Run("ToMetadataJSON", func(t *testing.T) {
		project := exportProject()

		data, err := ToMetadataJSON(project)
		if err != nil {
			t.Fatalf("ToMetadataJSON failed: %v", err)
		}

		output := string(data)

		if !strings.Contains(output, `"externalId": "ext-123"`) {
			t.Errorf("JSON missing external ID field, got: %s", output)
		}
		if !strings.Contains(output, `"name": "Phoenix"`) {
			t.Errorf("JSON missing name field")
		}
		if strings.Contains(output, "summaries") {
			t.Errorf("metadata JSON should not carry summaries")
		}
	})

	t.Run("ExportToJSON", func(t *testing.T) {
		project := exportProject()

		data, err := ExportToJSON(project)
		if err != nil {
			t.Fatalf("ExportToJSON failed: %v", err)
		}

		output := string(data)

		if !strings.Contains(output, `"name": "Phoenix"`) {
			t.Errorf("JSON missing project name")
		}
		if !strings.Contains(output, `"artifactType": "areapaths"`) {
			t.Errorf("JSON missing area paths summary")
		}
		if !strings.Contains(output, `Phoenix\\Platform`) {
			t.Errorf("JSON missing item path, got: %s", output)
		}
	})
}

func TestWriters(t *testing.T) {
	t.Run("WriteCSVExport", func(t *testing.T) {
		project := exportProject()

		t.Run("WithDefaultPath", func(t *testing.T) {
			tempDir := t.TempDir()
			originalDir := th.MustGetwd(t)
			th.MustChdir(t, tempDir)
			defer th.MustChdir(t, originalDir)

			result, err := WriteCSVExport(project, "")
			if err != nil {
				t.Fatalf("WriteCSVExport failed: %v", err)
			}

			if result.SummaryFile != project.ID()+"_summary.csv" {
				t.Errorf("unexpected summary filename: %s", result.SummaryFile)
			}
			th.AssertFileExists(t, result.SummaryFile)
			th.AssertFileExists(t, result.MetadataFile)

			content := th.MustReadFile(t, result.SummaryFile)
			if !strings.Contains(content, "areapaths,true,4,") {
				t.Errorf("written CSV missing summary row, got: %s", content)
			}
		})

		t.Run("WithExplicitPath", func(t *testing.T) {
			tempDir := t.TempDir()
			base := tempDir + "/phoenix"

			result, err := WriteCSVExport(project, base)
			if err != nil {
				t.Fatalf("WriteCSVExport failed: %v", err)
			}

			if result.SummaryFile != base+"_summary.csv" {
				t.Errorf("unexpected summary filename: %s", result.SummaryFile)
			}
			th.AssertFileExists(t, base+"_summary.csv")
			th.AssertFileExists(t, base+"_metadata.json")
		})
	})

	t.Run("WriteMarkdownExport", func(t *testing.T) {
		project := exportProject()
		tempDir := t.TempDir()
		outputDir := tempDir + "/export"

		result, err := WriteMarkdownExport(project, outputDir)
		if err != nil {
			t.Fatalf("WriteMarkdownExport failed: %v", err)
		}

		if result.Directory != outputDir {
			t.Errorf("unexpected directory: %s", result.Directory)
		}
		th.AssertFileExists(t, outputDir+"/README.md")

		content := th.MustReadFile(t, outputDir+"/README.md")
		if !strings.Contains(content, "# Phoenix") {
			t.Errorf("README missing title, got: %s", content)
		}
	})
}
