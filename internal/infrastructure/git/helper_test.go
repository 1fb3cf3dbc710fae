package git

import (
	"context"
	"testing"
	"time"
)

func TestTimeoutHelpers(t *testing.T) {
	ctx := context.Background()
	localCtx, cancelLocal := withLocalTimeout(ctx)
	defer cancelLocal()

	if dl, ok := localCtx.Deadline(); !ok {
		t.Fatal("expected local context to have deadline")
	} else if time.Until(dl) > DefaultLocalTimeout {
		t.Fatalf("deadlines should not exceed %v", DefaultLocalTimeout)
	}

	shortCtx, shortCancel := context.WithTimeout(ctx, 1*time.Second)
	defer shortCancel()
	withShort, cancelShort := withLocalTimeout(shortCtx)
	defer cancelShort()
	dl, _ := withShort.Deadline()
	if diff := time.Until(dl); diff > 2*time.Second {
		t.Fatalf("expected short deadline to remain under 2s, got %v", diff)
	}
}

func TestPathHelpers(t *testing.T) {
	if got := extractRepoName("/Users/alice/projects/repo"); got != "repo" {
		t.Fatalf("expected repo name 'repo', got %q", got)
	}
	if got := extractOwner("git@github.com:owner/repo.git"); got != "owner" {
		t.Fatalf("expected owner 'owner', got %q", got)
	}
	if got := extractOwner("https://gitlab.com/team/project.git"); got != "team" {
		t.Fatalf("expected owner 'team', got %q", got)
	}
	if parts := splitPath("a/b/c"); len(parts) != 3 {
		t.Fatalf("expected splitPath to return 3 parts, got %d", len(parts))
	}
}

func TestConvertCommitHelper(t *testing.T) {
	commit := Commit{
		Hash:    "abc123",
		Message: "subject\nbody",
		Author:  Author{Name: "Alice", Email: "alice@example.com"},
		Committer: Author{
			Name:  "Bob",
			Email: "bob@example.com",
		},
		Date:          time.Date(2024, time.January, 2, 3, 4, 5, 0, time.UTC),
		CommitterDate: time.Date(2024, time.January, 2, 4, 4, 5, 0, time.UTC),
		Parents:       []string{"parent"},
	}

	got := convertCommit(&commit)
	if got == nil {
		t.Fatal("convertCommit returned nil for valid commit")
	}
	if got.Hash().String() != "abc123" {
		t.Fatalf("expected hash abc123, got %s", got.Hash())
	}
	if got.Author().Name != "Alice" || got.Committer().Name != "Bob" {
		t.Fatalf("unexpected commit author/committer")
	}
	if len(got.Parents()) != 1 || got.Parents()[0].String() != "parent" {
		t.Fatalf("unexpected parents: %#v", got.Parents())
	}
	if !got.CommitterDate().Equal(commit.CommitterDate) {
		t.Fatalf("unexpected committer date: %v", got.CommitterDate())
	}
	if got.Body() != "body" {
		t.Fatalf("unexpected body: %q", got.Body())
	}
}

func TestConvertTagHelper(t *testing.T) {
	if convertTag(nil) != nil {
		t.Fatal("expected nil tag to return nil")
	}

	lightweight := convertTag(&Tag{Name: "v1.0.0", Hash: "abc"})
	if lightweight.IsAnnotated() {
		t.Fatal("expected a lightweight tag")
	}

	when := time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC)
	annotated := convertTag(&Tag{
		Name:        "v2.0.0",
		Hash:        "def",
		Message:     "Release 2.0.0",
		IsAnnotated: true,
		Date:        when,
		Tagger:      &Author{Name: "Bot", Email: "bot@example.com"},
	})
	if !annotated.IsAnnotated() {
		t.Fatal("expected an annotated tag")
	}
	if annotated.Tagger().Name != "Bot" || !annotated.Date().Equal(when) {
		t.Fatalf("unexpected annotated metadata: %v %v", annotated.Tagger(), annotated.Date())
	}
}

func TestServiceOptions_Committer(t *testing.T) {
	cfg := DefaultServiceConfig()

	WithCommitter("Release Bot", "bot@example.com")(&cfg)
	WithDefaultRemote("upstream")(&cfg)

	if cfg.CommitterName != "Release Bot" || cfg.CommitterEmail != "bot@example.com" {
		t.Fatalf("unexpected committer: %s <%s>", cfg.CommitterName, cfg.CommitterEmail)
	}
	if cfg.DefaultRemote != "upstream" {
		t.Fatalf("unexpected remote: %s", cfg.DefaultRemote)
	}
}
