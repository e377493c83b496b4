package discord

import (
	"crypto/sha1"
	"encoding/json"
	"fmt"

	"github.com/bwmarrin/discordgo"
)

// hashCommand creates a deterministic hash of the fields we publish.
// Option order is kept: it is part of the definition users see.
func hashCommand(cmd *discordgo.ApplicationCommand) string {
	data, _ := json.Marshal(normalizeForHash(cmd))
	sum := sha1.Sum(data)
	return fmt.Sprintf("%x", sum)
}

func normalizeForHash(cmd *discordgo.ApplicationCommand) map[string]any {
	obj := map[string]any{
		"name":        cmd.Name,
		"description": cmd.Description,
		"type":        cmd.Type,
	}
	if cmd.Contexts != nil {
		obj["contexts"] = *cmd.Contexts
	}
	if len(cmd.Options) > 0 {
		opts := make([]map[string]any, len(cmd.Options))
		for i, o := range cmd.Options {
			opts[i] = map[string]any{
				"name":        o.Name,
				"description": o.Description,
				"type":        o.Type,
				"required":    o.Required,
			}
		}
		obj["options"] = opts
	}
	return obj
}

// fingerprints maps every definition name to its hash.
func fingerprints(defs []*discordgo.ApplicationCommand) map[string]string {
	out := make(map[string]string, len(defs))
	for _, d := range defs {
		out[d.Name] = hashCommand(d)
	}
	return out
}

func sameHashes(a, b map[string]string) bool {
	if len(a) != len(b) {
		return false
	}
	for k, v := range a {
		if b[k] != v {
			return false
		}
	}
	return true
}
