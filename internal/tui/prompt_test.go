package tui

import (
	"testing"
)

func TestIsInteractive(t *testing.T) {
	// The result depends on how the tests are run; just ensure the stat
	// path does not panic.
	_ = IsInteractive()
}

func TestShouldPromptInCI(t *testing.T) {
	tests := []struct {
		name   string
		envVar string
	}{
		{name: "generic CI", envVar: "CI"},
		{name: "GitHub Actions", envVar: "GITHUB_ACTIONS"},
		{name: "GitLab CI", envVar: "GITLAB_CI"},
		{name: "Jenkins", envVar: "JENKINS_URL"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.envVar, "true")
			if ShouldPrompt() {
				t.Errorf("ShouldPrompt() = true with %s set, want false", tt.envVar)
			}
		})
	}
}
