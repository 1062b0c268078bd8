//go:build integration

package integration

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/ylchen07/jflow/internal/resolve"
	"github.com/ylchen07/jflow/internal/transition"
	"github.com/ylchen07/jflow/internal/workflow"
)

func TestJiraMyself(t *testing.T) {
	requireIntegration(t)

	cfg := loadConfig(t)
	svc := setupJiraService(t, cfg)

	me, err := svc.Myself(context.Background())
	if err != nil {
		t.Fatalf("Myself failed: %v", err)
	}
	t.Logf("Authenticated as %s (%s) on %s", me.DisplayName, me.Name, cfg.Atlassian.Site)
}

func TestJiraMetadata(t *testing.T) {
	requireIntegration(t)

	cfg := loadConfig(t)
	svc := setupJiraService(t, cfg)
	ctx := context.Background()

	types, err := svc.ListIssueTypes(ctx)
	if err != nil {
		t.Fatalf("ListIssueTypes failed: %v", err)
	}
	skipIfEmpty(t, types, "issue types")

	// Every listed name must resolve to itself.
	got, err := resolve.ByName(ctx, resolve.KindIssueType, types[0].Name, svc.ListIssueTypes)
	if err != nil {
		t.Fatalf("ByName(%q) failed: %v", types[0].Name, err)
	}
	if got.ID != types[0].ID {
		t.Fatalf("resolved %q to id %s, want %s", types[0].Name, got.ID, types[0].ID)
	}

	priorities, err := svc.ListPriorities(ctx)
	if err != nil {
		t.Fatalf("ListPriorities failed: %v", err)
	}
	t.Logf("Found %d issue types and %d priorities", len(types), len(priorities))
}

func TestJiraProjectMetadata(t *testing.T) {
	requireIntegration(t)

	cfg := loadConfig(t)
	project := requireProject(t, cfg)
	svc := setupJiraService(t, cfg)
	ctx := context.Background()

	p, err := svc.GetProject(ctx, project)
	if err != nil {
		t.Fatalf("GetProject failed: %v", err)
	}

	components, err := svc.ListComponents(ctx, project)
	if err != nil {
		t.Fatalf("ListComponents failed: %v", err)
	}
	versions, err := svc.ListVersions(ctx, project)
	if err != nil {
		t.Fatalf("ListVersions failed: %v", err)
	}
	t.Logf("Project %s (%s): %d components, %d versions", p.Key, p.ID, len(components), len(versions))
}

func TestJiraListTransitions(t *testing.T) {
	requireIntegration(t)

	key := os.Getenv("JFLOW_TEST_ISSUE")
	if key == "" {
		t.Skip("JFLOW_TEST_ISSUE not set")
	}

	cfg := loadConfig(t)
	svc := setupJiraService(t, cfg)

	transitions, err := svc.ListTransitions(context.Background(), key)
	if err != nil {
		t.Fatalf("ListTransitions failed: %v", err)
	}

	for _, tr := range transitions {
		t.Logf("  %s %q -> %s", tr.ID, tr.Name, tr.To.Name)
		for _, f := range transition.Fields(tr) {
			t.Logf("      %s (%s) required=%v kind=%T", f.ID, f.Name, f.Required, f.Kind)
		}
	}
}

func TestJiraWorkflowNewAndComment(t *testing.T) {
	requireIntegration(t)
	requireWrite(t)

	cfg := loadConfig(t)
	requireProject(t, cfg)
	svc := setupJiraService(t, cfg)
	engine := workflow.New(svc, cfg)

	results, err := engine.Run(context.Background(), workflow.Plan{
		New:     true,
		Comment: "Created by the jflow integration suite for {{ project }}.",
		Options: workflow.Options{
			Title:   "jflow integration " + time.Now().UTC().Format(time.RFC3339),
			Message: "Safe to delete.",
		},
	})
	if err != nil {
		t.Fatalf("Run failed: %s", workflow.Message(err))
	}
	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}
	for _, r := range results {
		t.Logf("%s: %s", r.Action, r.Message)
	}
}
