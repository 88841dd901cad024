package cmd

import (
	"testing"

	"github.com/mj1618/opi-cli/internal/model"
)

func TestFindCommand_Registered(t *testing.T) {
	found := false
	for _, c := range rootCmd.Commands() {
		if c.Name() == "find" {
			found = true
			break
		}
	}
	if !found {
		t.Error("expected 'find' subcommand to be registered")
	}
}

func TestFindCommand_HasExpectedFlags(t *testing.T) {
	for _, name := range []string{"text", "roles", "limit", "exact", "visible-only"} {
		if findCmd.Flags().Lookup(name) == nil {
			t.Errorf("expected flag --%s to exist on find command", name)
		}
	}
}

func TestLimitMatches(t *testing.T) {
	els := []*model.Element{
		{ID: 1, WUID: "a", Role: "btn"},
		{ID: 2, WUID: "b", Role: "btn"},
		{ID: 3, WUID: "c", Role: "txt"},
	}

	got := limitMatches(els, 2)
	if len(got) != 2 {
		t.Fatalf("expected 2 matches, got %d", len(got))
	}
	if got[0].WUID != "a" || got[1].WUID != "b" {
		t.Errorf("expected matches in order a, b, got %s, %s", got[0].WUID, got[1].WUID)
	}

	if got := limitMatches(els, 10); len(got) != 3 {
		t.Errorf("expected all 3 matches under the limit, got %d", len(got))
	}
	if got := limitMatches(nil, 5); got == nil || len(got) != 0 {
		t.Errorf("expected an empty non-nil slice, got %v", got)
	}
}
