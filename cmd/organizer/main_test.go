package main

import "testing"

func TestCommandTree(t *testing.T) {
	t.Parallel()
	cases := []struct {
		name string
		path []string
	}{
		{"config init", []string{"config", "init"}},
		{"config list", []string{"config", "list"}},
		{"provider add", []string{"provider", "add"}},
		{"provider list", []string{"provider", "list"}},
		{"provider remove", []string{"provider", "remove"}},
		{"provider test", []string{"provider", "test"}},
		{"analyze", []string{"analyze"}},
		{"plan list", []string{"plan", "list"}},
		{"plan show", []string{"plan", "show"}},
		{"plan export", []string{"plan", "export"}},
		{"run", []string{"run"}},
		{"activity", []string{"activity"}},
		{"activity clear", []string{"activity", "clear"}},
		{"keys init", []string{"keys", "init"}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cmd, _, err := rootCmd.Find(tc.path)
			if err != nil {
				t.Fatalf("Find(%v) error = %v", tc.path, err)
			}
			if got, want := cmd.Name(), tc.path[len(tc.path)-1]; got != want {
				t.Errorf("Find(%v) resolved to %q, want %q", tc.path, got, want)
			}
		})
	}
}
