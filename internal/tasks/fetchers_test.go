package tasks

import (
	"context"
	"errors"
	"testing"

	"github.com/javed0211/AzureDevopsMigratorNew-sub000/internal/models"
	"github.com/javed0211/AzureDevopsMigratorNew-sub000/internal/shared"
	tu "github.com/javed0211/AzureDevopsMigratorNew-sub000/internal/testing"
)

func TestFetch(t *testing.T) {
	ctx := context.Background()

	t.Run("Covers Every Artifact Type", func(t *testing.T) {
		source := tu.NewMockSource()

		for _, artifact := range models.AllArtifactTypes() {
			result := fetch(ctx, source, "Phoenix", artifact)
			if result.Err != nil {
				t.Errorf("%s: unexpected error %v", artifact, result.Err)
				continue
			}
			if result.Count != len(result.Items) {
				t.Errorf("%s: count %d does not match %d items", artifact, result.Count, len(result.Items))
			}
		}
	})

	t.Run("Work Items Carry State And Kind", func(t *testing.T) {
		source := tu.NewMockSource()
		source.Counts[models.ArtifactWorkItems] = 2

		result := fetch(ctx, source, "Phoenix", models.ArtifactWorkItems)
		if result.Err != nil {
			t.Fatalf("unexpected error %v", result.Err)
		}

		if result.Items[0].State != "Active" || result.Items[0].Kind != "Bug" {
			t.Errorf("unexpected item mapping %+v", result.Items[0])
		}
	})

	t.Run("Propagates Source Error", func(t *testing.T) {
		source := tu.NewMockSource()
		source.Errs[models.ArtifactTestSuites] = shared.ErrUpstreamAuth

		result := fetch(ctx, source, "Phoenix", models.ArtifactTestSuites)
		if !errors.Is(result.Err, shared.ErrUpstreamAuth) {
			t.Errorf("expected ErrUpstreamAuth, got %v", result.Err)
		}
	})

	t.Run("Unknown Artifact Type", func(t *testing.T) {
		result := fetch(ctx, tu.NewMockSource(), "Phoenix", models.ArtifactType("bogus"))
		if !errors.Is(result.Err, shared.ErrUnknownArtifactType) {
			t.Errorf("expected ErrUnknownArtifactType, got %v", result.Err)
		}
	})
}
