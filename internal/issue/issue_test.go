// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"strings"
	"testing"
)

var allIds = []Id{
	ClasspathEmptyId,
	ConfigLoadFailedId,
	ConfigurationConflictId,
	MissingMandatoryBundleId,
	LauncherNotFoundId,
	ExtractionFailedId,
	JavaNotFoundId,
	PermissionDeniedId,
}

func stubRender(t *testing.T) {
	t.Helper()
	originalRender := render
	t.Cleanup(func() { render = originalRender })
	render = func(in string, stylePath string) (string, error) {
		return in, nil
	}
}

func TestGet(t *testing.T) {
	tests := []struct {
		id       Id
		wantNil  bool
		contains string
	}{
		{ClasspathEmptyId, false, "No classpath entries"},
		{ConfigLoadFailedId, false, "launcher configuration"},
		{ConfigurationConflictId, false, "-launcher.product.id"},
		{MissingMandatoryBundleId, false, "Only the simple configurator launch style is supported"},
		{LauncherNotFoundId, false, "org.eclipse.equinox.launcher"},
		{ExtractionFailedId, false, "Eclipse-BundleShape"},
		{JavaNotFoundId, false, "JAVA_HOME"},
		{PermissionDeniedId, false, "Permission denied"},
		{Id(9999), true, "unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.contains, func(t *testing.T) {
			issue := Get(tt.id)

			if tt.wantNil {
				if issue != nil {
					t.Errorf("Get(%d) should return nil", tt.id)
				}
				return
			}
			if issue == nil {
				t.Fatalf("Get(%d) returned nil", tt.id)
			}
			if issue.Id() != tt.id {
				t.Errorf("Id() = %d, want %d", issue.Id(), tt.id)
			}
			if !strings.Contains(string(issue.MarkdownMsg()), tt.contains) {
				t.Errorf("Get(%d).MarkdownMsg() should contain %q", tt.id, tt.contains)
			}
		})
	}
}

func TestValues(t *testing.T) {
	issues := Values()

	if len(issues) != len(allIds) {
		t.Fatalf("Values() returned %d issues, want %d", len(issues), len(allIds))
	}
	for i, issue := range issues {
		if issue.Id() != allIds[i] {
			t.Errorf("Values()[%d].Id() = %d, want %d", i, issue.Id(), allIds[i])
		}
	}
}

func TestIssue_LinksAreCloned(t *testing.T) {
	issue := Get(MissingMandatoryBundleId)

	links := issue.ExtLinks()
	if len(links) == 0 {
		t.Fatal("expected external links")
	}
	original := links[0]
	links[0] = "modified"
	if issue.ExtLinks()[0] != original {
		t.Error("ExtLinks() should return a clone")
	}
}

func TestIssue_Render_WithLinks(t *testing.T) {
	stubRender(t)

	testIssue := &Issue{
		id:       Id(9999),
		mdMsg:    "# Test Issue\n\nThis is a test.",
		docLinks: []HttpLink{"https://docs.example.com"},
		extLinks: []HttpLink{"https://external.example.com"},
	}

	rendered, err := testIssue.Render("")
	if err != nil {
		t.Fatalf("Render() returned error: %v", err)
	}
	if !strings.Contains(rendered, "See also") || !strings.Contains(rendered, "https://external.example.com") {
		t.Errorf("Render() with links = %q", rendered)
	}
}

func TestIssue_Render_NoLinks(t *testing.T) {
	stubRender(t)

	testIssue := &Issue{id: Id(9998), mdMsg: "# Test Issue\n\nNo links here."}

	rendered, err := testIssue.Render("")
	if err != nil {
		t.Fatalf("Render() returned error: %v", err)
	}
	if strings.Contains(rendered, "See also") {
		t.Error("Render() without links should not contain 'See also'")
	}
}

func TestAllIssuesAreRenderable(t *testing.T) {
	stubRender(t)

	for _, issue := range Values() {
		rendered, err := issue.Render("")
		if err != nil {
			t.Errorf("Issue %d failed to render: %v", issue.Id(), err)
		}
		if rendered == "" {
			t.Errorf("Issue %d rendered to empty string", issue.Id())
		}
	}
}
