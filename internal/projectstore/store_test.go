package projectstore

import (
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/starford/folio/internal/apperr"
	"github.com/starford/folio/internal/marker"
	"github.com/starford/folio/internal/models"
)

func testStore(t *testing.T) *Store {
	t.Helper()
	return New(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func testProject(t *testing.T, repo, name string) string {
	t.Helper()
	dir := filepath.Join(repo, name)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := marker.Write(dir, marker.Marker{
		Type:      models.NodeProject,
		CreatedAt: time.Now().UnixMilli(),
		Name:      name,
	}); err != nil {
		t.Fatal(err)
	}
	if err := InitProject(dir, time.Now().UnixMilli()); err != nil {
		t.Fatal(err)
	}
	return dir
}

func TestInitProjectSkeleton(t *testing.T) {
	dir := testProject(t, t.TempDir(), "p")

	if !IsProjectDir(dir) {
		t.Error("initialized directory should be a project dir")
	}

	data, err := os.ReadFile(filepath.Join(dir, models.HistoryDir, models.CommitLogFile))
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "[]" {
		t.Errorf("fresh commit log = %q, want []", data)
	}

	meta := readMetadata(dir)
	if meta.ID == "" {
		t.Error("fresh project should get a stable identifier")
	}
}

func TestSaveAndLoadContent(t *testing.T) {
	s := testStore(t)
	dir := testProject(t, t.TempDir(), "p")

	if err := s.SaveContent(dir, "Hello, world"); err != nil {
		t.Fatal(err)
	}
	got, err := s.LoadContent(dir)
	if err != nil {
		t.Fatal(err)
	}
	if got != "Hello, world" {
		t.Errorf("content = %q", got)
	}
}

func TestLoadContentMissingDraft(t *testing.T) {
	s := testStore(t)

	got, err := s.LoadContent(filepath.Join(t.TempDir(), "nowhere"))
	if err != nil {
		t.Fatalf("missing draft should not error: %v", err)
	}
	if got != "" {
		t.Errorf("content = %q, want empty", got)
	}
}

func TestAppendCommitNumbering(t *testing.T) {
	s := testStore(t)
	dir := testProject(t, t.TempDir(), "p")

	for i, text := range []string{"one", "two", "three"} {
		c, err := s.AppendCommit(dir, text)
		if err != nil {
			t.Fatal(err)
		}
		if c.CommitNumber != i+1 {
			t.Errorf("commit %d got number %d", i+1, c.CommitNumber)
		}
		if c.ID == "" {
			t.Error("commit should get an identifier")
		}
	}

	commits := s.ListCommits(dir)
	if len(commits) != 3 {
		t.Fatalf("got %d commits, want 3", len(commits))
	}
	if commits[0].Content != "one" || commits[2].Content != "three" {
		t.Error("commits out of order")
	}
}

func TestDeleteCommitKeepsNumbers(t *testing.T) {
	s := testStore(t)
	dir := testProject(t, t.TempDir(), "p")

	var ids []string
	for _, text := range []string{"one", "two", "three"} {
		c, err := s.AppendCommit(dir, text)
		if err != nil {
			t.Fatal(err)
		}
		ids = append(ids, c.ID)
	}

	found, err := s.DeleteCommit(dir, ids[1])
	if err != nil {
		t.Fatal(err)
	}
	if !found {
		t.Fatal("existing commit should be found")
	}

	commits := s.ListCommits(dir)
	if len(commits) != 2 {
		t.Fatalf("got %d commits, want 2", len(commits))
	}
	// Numbers are never reused or compacted.
	if commits[0].CommitNumber != 1 || commits[1].CommitNumber != 3 {
		t.Errorf("numbers = %d, %d, want 1, 3", commits[0].CommitNumber, commits[1].CommitNumber)
	}

	// The next commit continues past the highest ever issued.
	c, err := s.AppendCommit(dir, "four")
	if err != nil {
		t.Fatal(err)
	}
	if c.CommitNumber != 4 {
		t.Errorf("next number = %d, want 4", c.CommitNumber)
	}
}

func TestDeleteCommitMissing(t *testing.T) {
	s := testStore(t)
	dir := testProject(t, t.TempDir(), "p")

	found, err := s.DeleteCommit(dir, "no-such-id")
	if err != nil {
		t.Fatal(err)
	}
	if found {
		t.Error("missing commit should report found=false")
	}
}

func TestCorruptCommitLogReadsEmpty(t *testing.T) {
	s := testStore(t)
	dir := testProject(t, t.TempDir(), "p")

	logPath := filepath.Join(dir, models.HistoryDir, models.CommitLogFile)
	if err := os.WriteFile(logPath, []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}

	if commits := s.ListCommits(dir); len(commits) != 0 {
		t.Errorf("corrupt log should read as empty, got %d commits", len(commits))
	}

	// Appending after corruption starts the numbering over.
	c, err := s.AppendCommit(dir, "fresh")
	if err != nil {
		t.Fatal(err)
	}
	if c.CommitNumber != 1 {
		t.Errorf("number after corrupt log = %d, want 1", c.CommitNumber)
	}
}

func TestClearCommits(t *testing.T) {
	s := testStore(t)
	dir := testProject(t, t.TempDir(), "p")

	if _, err := s.AppendCommit(dir, "one"); err != nil {
		t.Fatal(err)
	}
	if err := s.ClearCommits(dir); err != nil {
		t.Fatal(err)
	}
	if commits := s.ListCommits(dir); len(commits) != 0 {
		t.Errorf("got %d commits after clear, want 0", len(commits))
	}
}

func TestScanProjects(t *testing.T) {
	s := testStore(t)
	repo := t.TempDir()
	testProject(t, repo, "Beta")
	testProject(t, repo, "Alpha")

	// Hidden and non-project directories are skipped.
	if err := os.MkdirAll(filepath.Join(repo, ".hidden"), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.MkdirAll(filepath.Join(repo, "plain"), 0o755); err != nil {
		t.Fatal(err)
	}

	out, err := s.ScanProjects(repo)
	if err != nil {
		t.Fatal(err)
	}
	if len(out) != 2 {
		t.Fatalf("got %d projects, want 2", len(out))
	}
	if out[0].Name != "Alpha" || out[1].Name != "Beta" {
		t.Errorf("order = %s, %s, want Alpha, Beta", out[0].Name, out[1].Name)
	}
	if out[0].ID == "" {
		t.Error("summary should carry the stable identifier")
	}
}

func TestSummaryIDFallsBackToFolderName(t *testing.T) {
	s := testStore(t)
	repo := t.TempDir()
	dir := testProject(t, repo, "Legacy")

	// Strip the metadata file to simulate a pre-identifier project.
	if err := os.Remove(filepath.Join(dir, models.HistoryDir, models.MetadataFile)); err != nil {
		t.Fatal(err)
	}

	out, err := s.ScanProjects(repo)
	if err != nil {
		t.Fatal(err)
	}
	if len(out) != 1 || out[0].ID != "Legacy" {
		t.Errorf("legacy project should use folder name as id, got %+v", out)
	}
}

func TestRenameProject(t *testing.T) {
	s := testStore(t)
	repo := t.TempDir()
	dir := testProject(t, repo, "Old")

	sum, err := s.RenameProject(dir, "New")
	if err != nil {
		t.Fatal(err)
	}
	if sum.Name != "New" {
		t.Errorf("name = %q, want New", sum.Name)
	}
	if m := marker.Read(sum.Path); m == nil || m.Name != "New" {
		t.Error("marker name should follow the rename")
	}
}

func TestRenameProjectCollision(t *testing.T) {
	s := testStore(t)
	repo := t.TempDir()
	a := testProject(t, repo, "A")
	testProject(t, repo, "B")

	_, err := s.RenameProject(a, "B")
	if !errors.Is(err, apperr.ErrAlreadyExists) {
		t.Errorf("err = %v, want ErrAlreadyExists", err)
	}

	// Case-insensitive collision with a different directory.
	_, err = s.RenameProject(a, "b")
	if !errors.Is(err, apperr.ErrAlreadyExists) {
		t.Errorf("err = %v, want ErrAlreadyExists for case-only collision", err)
	}
}

func TestRenameProjectCaseChange(t *testing.T) {
	s := testStore(t)
	repo := t.TempDir()
	dir := testProject(t, repo, "chapter")

	sum, err := s.RenameProject(dir, "Chapter")
	if err != nil {
		t.Fatalf("pure case change of the same directory should be allowed: %v", err)
	}
	if sum.Name != "Chapter" {
		t.Errorf("name = %q, want Chapter", sum.Name)
	}
}

func TestRenameNonProjectRejected(t *testing.T) {
	s := testStore(t)
	plain := filepath.Join(t.TempDir(), "plain")
	if err := os.MkdirAll(plain, 0o755); err != nil {
		t.Fatal(err)
	}

	_, err := s.RenameProject(plain, "Other")
	if !errors.Is(err, apperr.ErrWrongNodeType) {
		t.Errorf("err = %v, want ErrWrongNodeType", err)
	}
}

func TestMoveProject(t *testing.T) {
	s := testStore(t)
	root := t.TempDir()
	repoA := filepath.Join(root, "A")
	repoB := filepath.Join(root, "B")
	if err := os.MkdirAll(repoB, 0o755); err != nil {
		t.Fatal(err)
	}
	dir := testProject(t, repoA, "p")

	if _, err := s.AppendCommit(dir, "history travels too"); err != nil {
		t.Fatal(err)
	}

	sum, err := s.MoveProject(dir, repoB)
	if err != nil {
		t.Fatal(err)
	}
	if sum.RepositoryPath != repoB {
		t.Errorf("repository = %s, want %s", sum.RepositoryPath, repoB)
	}
	if commits := s.ListCommits(sum.Path); len(commits) != 1 {
		t.Error("commit log should move with the project")
	}
}

func TestMoveProjectSameRepoNoop(t *testing.T) {
	s := testStore(t)
	repo := t.TempDir()
	dir := testProject(t, repo, "p")

	sum, err := s.MoveProject(dir, repo)
	if err != nil {
		t.Fatal(err)
	}
	if sum.Path != dir {
		t.Errorf("path = %s, want unchanged %s", sum.Path, dir)
	}
}

func TestDeleteProject(t *testing.T) {
	s := testStore(t)
	repo := t.TempDir()
	dir := testProject(t, repo, "p")

	if err := s.DeleteProject(dir); err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(dir); !os.IsNotExist(err) {
		t.Error("project directory still exists after delete")
	}
}
