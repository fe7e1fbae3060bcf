package collection_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/starford/folio/internal/apperr"
	"github.com/starford/folio/internal/models"
	"github.com/starford/folio/internal/testutil"
)

func TestCreateRepositoryGetsDefaultProject(t *testing.T) {
	svc, root := testutil.TestService(t)
	ctx := context.Background()

	repo, err := svc.CreateNode(ctx, root, "Novel", models.NodeRepository)
	if err != nil {
		t.Fatal(err)
	}

	projects, err := svc.ScanProjects(ctx, repo.Path)
	if err != nil {
		t.Fatal(err)
	}
	if len(projects) != 1 {
		t.Fatalf("new repository holds %d projects, want 1", len(projects))
	}
	if !strings.HasPrefix(projects[0].Name, "Draft ") {
		t.Errorf("default project name = %q, want a timestamped Draft name", projects[0].Name)
	}
}

func TestCreateProjectDoesNotRecurse(t *testing.T) {
	svc, root := testutil.TestService(t)
	ctx := context.Background()

	repo, err := svc.CreateNode(ctx, root, "Novel", models.NodeRepository)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := svc.CreateProject(ctx, repo.Path, "Chapter One"); err != nil {
		t.Fatal(err)
	}

	projects, err := svc.ScanProjects(ctx, repo.Path)
	if err != nil {
		t.Fatal(err)
	}
	// Default project plus the explicit one, nothing else.
	if len(projects) != 2 {
		t.Errorf("repository holds %d projects, want 2", len(projects))
	}
}

func TestDraftRoundTripThroughService(t *testing.T) {
	svc, root := testutil.TestService(t)
	ctx := context.Background()

	repo, err := svc.CreateNode(ctx, root, "Novel", models.NodeRepository)
	if err != nil {
		t.Fatal(err)
	}
	proj, err := svc.CreateProject(ctx, repo.Path, "Chapter One")
	if err != nil {
		t.Fatal(err)
	}

	if err := svc.SaveContent(ctx, proj.Path, "Hello"); err != nil {
		t.Fatal(err)
	}
	got, err := svc.LoadContent(ctx, proj.Path)
	if err != nil {
		t.Fatal(err)
	}
	if got != "Hello" {
		t.Errorf("content = %q", got)
	}

	c, err := svc.AppendCommit(ctx, proj.Path, "Hello")
	if err != nil {
		t.Fatal(err)
	}
	if c.CommitNumber != 1 {
		t.Errorf("commit number = %d, want 1", c.CommitNumber)
	}
}

func TestDraftOpsRejectNonProjects(t *testing.T) {
	svc, root := testutil.TestService(t)
	ctx := context.Background()

	repo, err := svc.CreateNode(ctx, root, "Novel", models.NodeRepository)
	if err != nil {
		t.Fatal(err)
	}

	// The repository itself is not a project.
	if _, err := svc.LoadContent(ctx, repo.Path); !errors.Is(err, apperr.ErrWrongNodeType) {
		t.Errorf("LoadContent on repository = %v, want ErrWrongNodeType", err)
	}
	if err := svc.SaveContent(ctx, repo.Path, "x"); !errors.Is(err, apperr.ErrWrongNodeType) {
		t.Errorf("SaveContent on repository = %v, want ErrWrongNodeType", err)
	}
}

func TestIndexOpsRejectNonRepositories(t *testing.T) {
	svc, root := testutil.TestService(t)
	ctx := context.Background()

	if _, err := svc.BuildIndex(ctx, root); !errors.Is(err, apperr.ErrWrongNodeType) {
		t.Errorf("BuildIndex on root = %v, want ErrWrongNodeType", err)
	}
	if _, err := svc.QueryIndex(ctx, root, "q", 10); !errors.Is(err, apperr.ErrWrongNodeType) {
		t.Errorf("QueryIndex on root = %v, want ErrWrongNodeType", err)
	}
}

func TestRenameProjectValidatesName(t *testing.T) {
	svc, root := testutil.TestService(t)
	ctx := context.Background()

	repo, err := svc.CreateNode(ctx, root, "Novel", models.NodeRepository)
	if err != nil {
		t.Fatal(err)
	}
	proj, err := svc.CreateProject(ctx, repo.Path, "Chapter One")
	if err != nil {
		t.Fatal(err)
	}

	if _, err := svc.RenameProject(ctx, proj.Path, ".hidden"); !apperr.IsValidation(err) {
		t.Errorf("rename to dot-name = %v, want validation error", err)
	}
	if _, err := svc.RenameProject(ctx, proj.Path, "CON"); !apperr.IsValidation(err) {
		t.Errorf("rename to reserved name = %v, want validation error", err)
	}
}

func TestOperationsOutsideRootRejected(t *testing.T) {
	svc, _ := testutil.TestService(t)
	ctx := context.Background()

	if err := svc.DeleteProject(ctx, "/somewhere/else"); !errors.Is(err, apperr.ErrOutsideRoot) {
		t.Errorf("delete outside root = %v, want ErrOutsideRoot", err)
	}
}

func TestIndexQueryThroughService(t *testing.T) {
	svc, root := testutil.TestService(t)
	ctx := context.Background()

	repo, err := svc.CreateNode(ctx, root, "Novel", models.NodeRepository)
	if err != nil {
		t.Fatal(err)
	}
	proj, err := svc.CreateProject(ctx, repo.Path, "Chapter One")
	if err != nil {
		t.Fatal(err)
	}
	if err := svc.SaveContent(ctx, proj.Path, "the lighthouse keeper watched the storm"); err != nil {
		t.Fatal(err)
	}

	hits, err := svc.QueryIndex(ctx, repo.Path, "lighthouse", 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(hits) != 1 {
		t.Errorf("got %d hits, want 1", len(hits))
	}
}
