package cmd

import (
	"testing"
)

func TestRootCommand_HasSubcommands(t *testing.T) {
	expected := []string{"render", "regions", "probe", "hover", "click", "action", "tree", "find", "assert", "set-pv", "watch", "do", "serve"}
	found := make(map[string]bool)
	for _, c := range rootCmd.Commands() {
		found[c.Name()] = true
	}

	for _, name := range expected {
		if !found[name] {
			t.Errorf("expected subcommand %q not found", name)
		}
	}
}

func TestRootCommand_Version(t *testing.T) {
	if rootCmd.Version == "" {
		t.Error("root command version should be set")
	}
}

func TestRootCommand_PersistentFlags(t *testing.T) {
	for _, name := range []string{"format", "pretty", "log-level", "env-file", "macro", "tolerant", "seed"} {
		if rootCmd.PersistentFlags().Lookup(name) == nil {
			t.Errorf("expected persistent flag --%s", name)
		}
	}
}

func TestSessionOptions_Macros(t *testing.T) {
	macros := rootCmd.PersistentFlags().Lookup("macro").Value.(interface{ Replace([]string) error })
	if err := macros.Replace([]string{"P=pump1"}); err != nil {
		t.Fatal(err)
	}
	defer macros.Replace(nil)

	opts, err := sessionOptions()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if opts.Macros["P"] != "pump1" {
		t.Errorf("expected macro P=pump1, got %v", opts.Macros)
	}
}
