// package formatter provides functions to export project extraction data to various formats (CSV, Markdown, plain text)
package formatter

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/javed0211/AzureDevopsMigratorNew-sub000/internal/models"
	"github.com/javed0211/AzureDevopsMigratorNew-sub000/internal/shared"
	"github.com/javed0211/AzureDevopsMigratorNew-sub000/internal/tasks"
)

// SummaryToCSV converts a project's extraction summaries to CSV format with columns: ArtifactType, Extracted, Count, Error
func SummaryToCSV(project *models.Project) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	headers := []string{"ArtifactType", "Extracted", "Count", "Error"}
	if err := writer.Write(headers); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for _, artifact := range models.AllArtifactTypes() {
		summary, ok := project.Summary(artifact)
		if !ok {
			continue
		}
		record := []string{
			summary.Artifact.String(),
			strconv.FormatBool(summary.Extracted),
			strconv.Itoa(summary.Count),
			summary.Error,
		}
		if err := writer.Write(record); err != nil {
			return nil, fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}

	return buf.Bytes(), nil
}

// SummaryToMarkdown converts a project's extraction summaries to Markdown format
func SummaryToMarkdown(project *models.Project) ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteString(fmt.Sprintf("# %s\n\n", project.Name))

	if project.Description != "" {
		buf.WriteString(fmt.Sprintf("**Description**: %s\n\n", project.Description))
	}

	buf.WriteString(fmt.Sprintf("**Status**: %s\n", project.Status))
	if project.ProcessTemplate != "" {
		buf.WriteString(fmt.Sprintf("**Process**: %s\n", project.ProcessTemplate))
	}
	buf.WriteString(fmt.Sprintf("**Artifact types extracted**: %d\n\n", len(project.Summaries)))

	buf.WriteString("## Extraction Summary\n\n")
	for _, artifact := range models.AllArtifactTypes() {
		summary, ok := project.Summary(artifact)
		if !ok {
			continue
		}
		if summary.Extracted {
			buf.WriteString(fmt.Sprintf("- %s: %d items\n", summary.Artifact, summary.Count))
		} else {
			buf.WriteString(fmt.Sprintf("- %s: failed (%s)\n", summary.Artifact, summary.Error))
		}
	}

	return buf.Bytes(), nil
}

// SummaryToText converts a project's extraction summaries to plain text format
func SummaryToText(project *models.Project) ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteString(fmt.Sprintf("Project: %s\n", project.Name))
	if project.Description != "" {
		buf.WriteString(fmt.Sprintf("Description: %s\n", project.Description))
	}
	buf.WriteString(fmt.Sprintf("Status: %s\n\n", project.Status))

	for _, artifact := range models.AllArtifactTypes() {
		summary, ok := project.Summary(artifact)
		if !ok {
			continue
		}
		if summary.Extracted {
			buf.WriteString(fmt.Sprintf("%s: %d\n", summary.Artifact, summary.Count))
		} else {
			buf.WriteString(fmt.Sprintf("%s: FAILED - %s\n", summary.Artifact, summary.Error))
		}
	}

	return buf.Bytes(), nil
}

// JobsToText renders a job history as a plain text table, one job per line
func JobsToText(jobs []*models.ExtractionJob) ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteString(fmt.Sprintf("%-16s %-12s %-10s %-10s %s\n", "ARTIFACT", "STATUS", "PROGRESS", "ITEMS", "STARTED"))
	for _, job := range jobs {
		items := strconv.Itoa(job.ExtractedItems)
		if job.Status == models.JobFailed {
			items = "-"
		}
		buf.WriteString(fmt.Sprintf("%-16s %-12s %-10s %-10s %s\n",
			job.Artifact,
			job.Status,
			fmt.Sprintf("%d%%", job.Progress),
			items,
			job.StartedAt.Format(time.RFC3339),
		))
		if job.ErrorMessage != "" {
			buf.WriteString(fmt.Sprintf("  error: %s\n", job.ErrorMessage))
		}
	}

	return buf.Bytes(), nil
}

// BatchResultToText renders a batch extraction result as plain text
func BatchResultToText(result *tasks.BatchResult) ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteString(fmt.Sprintf("Batch extraction for project %s\n", result.ProjectID))
	buf.WriteString(fmt.Sprintf("Total: %d  Succeeded: %d  Failed: %d  Skipped: %d\n\n",
		result.Total, result.Succeeded, result.Failed, result.Skipped))

	for _, outcome := range result.Outcomes {
		switch {
		case outcome.Error != nil:
			buf.WriteString(fmt.Sprintf("✗ %s: %v\n", outcome.Artifact, outcome.Error))
		case outcome.Job != nil:
			buf.WriteString(fmt.Sprintf("✓ %s: %d items\n", outcome.Artifact, outcome.Job.ExtractedItems))
		default:
			buf.WriteString(fmt.Sprintf("- %s: skipped\n", outcome.Artifact))
		}
	}

	return buf.Bytes(), nil
}

// ExportToJSON generates a JSON representation of the project's full extraction state
func ExportToJSON(project *models.Project) ([]byte, error) {
	summaries := []models.ArtifactSummary{}
	for _, artifact := range models.AllArtifactTypes() {
		if summary, ok := project.Summary(artifact); ok {
			summaries = append(summaries, summary)
		}
	}
	payload := map[string]any{
		"id":         project.ID(),
		"externalId": project.ExternalID,
		"name":       project.Name,
		"status":     project.Status,
		"summaries":  summaries,
	}
	return shared.MarshalJSON(payload, true)
}

// ToMetadataJSON generates a JSON representation of the project record (without summary items)
func ToMetadataJSON(project *models.Project) ([]byte, error) {
	metadata := map[string]any{
		"id":              project.ID(),
		"externalId":      project.ExternalID,
		"name":            project.Name,
		"description":     project.Description,
		"status":          project.Status,
		"processTemplate": project.ProcessTemplate,
		"sourceControl":   project.SourceControl,
	}
	return shared.MarshalJSON(metadata, true)
}

// CSVExportResult contains the paths of files created by WriteCSVExport
type CSVExportResult struct {
	SummaryFile  string
	MetadataFile string
}

// WriteCSVExport exports a project's extraction summaries to CSV with an accompanying metadata JSON file.
//
// Defaults to the project ID as the base filename & creates {base}_summary.csv and {base}_metadata.json
func WriteCSVExport(project *models.Project, baseFilepath string) (*CSVExportResult, error) {
	if baseFilepath == "" {
		baseFilepath = project.ID()
	}

	csvData, err := SummaryToCSV(project)
	if err != nil {
		return nil, fmt.Errorf("failed to generate CSV: %w", err)
	}

	summaryFile := baseFilepath + "_summary.csv"
	if err := os.WriteFile(summaryFile, csvData, 0644); err != nil {
		return nil, fmt.Errorf("failed to write CSV file: %w", err)
	}

	metadataJSON, err := ToMetadataJSON(project)
	if err != nil {
		return nil, fmt.Errorf("failed to generate metadata JSON: %w", err)
	}

	metadataFile := baseFilepath + "_metadata.json"
	if err := os.WriteFile(metadataFile, metadataJSON, 0644); err != nil {
		return nil, fmt.Errorf("failed to write metadata file: %w", err)
	}

	return &CSVExportResult{
		SummaryFile:  summaryFile,
		MetadataFile: metadataFile,
	}, nil
}

// MarkdownExportResult contains information about files created by WriteMarkdownExport
type MarkdownExportResult struct {
	Directory string
	Files     []string
}

// WriteMarkdownExport exports a project's extraction summaries to Markdown in a dedicated directory.
//
// Directory name defaults to the project ID. Creates {dir}/README.md.
func WriteMarkdownExport(project *models.Project, outputDir string) (*MarkdownExportResult, error) {
	if outputDir == "" {
		outputDir = project.ID()
	}

	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}

	result := &MarkdownExportResult{
		Directory: outputDir,
		Files:     []string{},
	}

	mdData, err := SummaryToMarkdown(project)
	if err != nil {
		return nil, fmt.Errorf("failed to generate Markdown: %w", err)
	}

	readmeFile := outputDir + "/README.md"
	if err := os.WriteFile(readmeFile, mdData, 0644); err != nil {
		return nil, fmt.Errorf("failed to write README: %w", err)
	}
	result.Files = append(result.Files, readmeFile)

	return result, nil
}
