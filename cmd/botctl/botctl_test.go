package main

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/bwmarrin/discordgo"
)

func TestCommandsCmd_PrintsDefinitions(t *testing.T) {
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs([]string{"commands"})
	if err := rootCmd.Execute(); err != nil {
		t.Fatal(err)
	}

	var defs []*discordgo.ApplicationCommand
	if err := json.Unmarshal(out.Bytes(), &defs); err != nil {
		t.Fatalf("decode %s: %v", out.String(), err)
	}
	if len(defs) != 2 || defs[0].Name != "hello" || defs[1].Name != "ping" {
		t.Fatalf("defs = %+v", defs)
	}
}

func TestPruneCmd_RequiresDatabase(t *testing.T) {
	t.Setenv("DATABASE_URL", "")
	rootCmd.SetArgs([]string{"prune"})
	if err := rootCmd.Execute(); err == nil {
		t.Fatal("expected missing DATABASE_URL error")
	}
}
