package models

import "testing"

func TestEntry_Matches(t *testing.T) {
	e := &Entry{
		Name:     "Bank of Examples",
		Username: "alice@example.com",
		URL:      "https://bank.example.com",
		Group:    "Finance",
		Password: "s3cret",
		Notes:    "branch code 042",
	}

	tests := []struct {
		query string
		want  bool
	}{
		{"bank", true},
		{"BANK", true},
		{"alice", true},
		{"finance", true},
		{"example.com", true},
		{"s3cret", false}, // passwords are not searchable
		{"branch", false}, // notes are not searchable
		{"missing", false},
		{"", false},
	}

	for _, tc := range tests {
		t.Run(tc.query, func(t *testing.T) {
			if got := e.Matches(tc.query); got != tc.want {
				t.Fatalf("Matches(%q) = %v, want %v", tc.query, got, tc.want)
			}
		})
	}
}
