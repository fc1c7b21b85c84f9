package models

import (
	"fmt"

	"github.com/javed0211/AzureDevopsMigratorNew-sub000/internal/shared"
)

// ArtifactType identifies one category of extractable project data.
type ArtifactType string

const (
	ArtifactAreaPaths        ArtifactType = "areapaths"
	ArtifactIterationPaths   ArtifactType = "iterationpaths"
	ArtifactWorkItemTypes    ArtifactType = "workitemtypes"
	ArtifactCustomFields     ArtifactType = "customfields"
	ArtifactBoardColumns     ArtifactType = "boardcolumns"
	ArtifactWikiPages        ArtifactType = "wikipages"
	ArtifactWorkItems        ArtifactType = "workitems"
	ArtifactRepositories     ArtifactType = "repositories"
	ArtifactTestCases        ArtifactType = "testcases"
	ArtifactTestSuites       ArtifactType = "testsuites"
	ArtifactTestPlans        ArtifactType = "testplans"
	ArtifactTestResults      ArtifactType = "testresults"
	ArtifactBuildPipelines   ArtifactType = "buildpipelines"
	ArtifactReleasePipelines ArtifactType = "releasepipelines"
	ArtifactPipelineRuns     ArtifactType = "pipelineruns"
)

// AllArtifactTypes lists every extractable artifact type in display order.
func AllArtifactTypes() []ArtifactType {
	return []ArtifactType{
		ArtifactAreaPaths,
		ArtifactIterationPaths,
		ArtifactWorkItemTypes,
		ArtifactCustomFields,
		ArtifactBoardColumns,
		ArtifactWikiPages,
		ArtifactWorkItems,
		ArtifactRepositories,
		ArtifactTestCases,
		ArtifactTestSuites,
		ArtifactTestPlans,
		ArtifactTestResults,
		ArtifactBuildPipelines,
		ArtifactReleasePipelines,
		ArtifactPipelineRuns,
	}
}

// ParseArtifactType validates a raw string against the fixed enumeration.
func ParseArtifactType(raw string) (ArtifactType, error) {
	at := ArtifactType(raw)
	for _, known := range AllArtifactTypes() {
		if at == known {
			return at, nil
		}
	}
	return "", fmt.Errorf("%w: %q", shared.ErrUnknownArtifactType, raw)
}

func (a ArtifactType) String() string { return string(a) }

// MaxSummaryItems bounds the preview slice stored in an [ArtifactSummary].
// The full payload stays upstream; the summary is for display.
const MaxSummaryItems = 50

// ArtifactItem is one preview entry in an extraction summary.
type ArtifactItem struct {
	ExternalID string `json:"externalId"`
	Name       string `json:"name"`
	Path       string `json:"path,omitempty"`
	State      string `json:"state,omitempty"`
	Kind       string `json:"kind,omitempty"`
}

// ArtifactSummary is the per-artifact-type extraction outcome owned by a project.
//
// Either Extracted is true and Error is empty, or Extracted is false and
// Error carries the failure message. Each extraction replaces the summary
// for its type wholesale.
type ArtifactSummary struct {
	Artifact  ArtifactType   `json:"artifactType"`
	Extracted bool           `json:"extracted"`
	Count     int            `json:"count"`
	Items     []ArtifactItem `json:"items"`
	Error     string         `json:"error,omitempty"`
}

// SuccessSummary builds a successful summary, truncating items to the preview bound.
func SuccessSummary(artifact ArtifactType, count int, items []ArtifactItem) ArtifactSummary {
	if items == nil {
		items = []ArtifactItem{}
	}
	if len(items) > MaxSummaryItems {
		items = items[:MaxSummaryItems]
	}
	return ArtifactSummary{
		Artifact:  artifact,
		Extracted: true,
		Count:     count,
		Items:     items,
	}
}

// FailureSummary builds a failed summary carrying the error message.
func FailureSummary(artifact ArtifactType, message string) ArtifactSummary {
	return ArtifactSummary{
		Artifact: artifact,
		Items:    []ArtifactItem{},
		Error:    message,
	}
}

// Validate enforces the extracted/error exclusivity invariant.
func (s ArtifactSummary) Validate() error {
	if s.Extracted && s.Error != "" {
		return fmt.Errorf("%w: extracted summary cannot carry an error", shared.ErrInvalidInput)
	}
	if !s.Extracted && s.Error == "" && s.Count > 0 {
		return fmt.Errorf("%w: unextracted summary cannot carry a count", shared.ErrInvalidInput)
	}
	return nil
}
