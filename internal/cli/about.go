package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"

	tapsocrata "github.com/aretw0/tap-socrata"
	"github.com/aretw0/tap-socrata/internal/config"
	"github.com/aretw0/tap-socrata/internal/presentation/tui"
)

var capabilities = []string{"catalog", "discover", "state"}

// About prints tap metadata and the settings schema. Plain JSON when piped
// or forced, rendered markdown on a terminal.
func About(jsonMode bool) error {
	if jsonMode || !tui.IsTerminal() {
		payload := map[string]any{
			"name":         "tap-socrata",
			"version":      tapsocrata.Version,
			"capabilities": capabilities,
			"settings":     config.SettingsSchema(),
		}
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(payload)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "# tap-socrata %s\n\n", tapsocrata.Version)
	b.WriteString("A Singer tap for the Socrata open data API.\n\n")
	b.WriteString("**Capabilities:** " + strings.Join(capabilities, ", ") + "\n\n")
	b.WriteString("## Settings\n\n")
	b.WriteString("| Setting | Type | Description |\n")
	b.WriteString("| --- | --- | --- |\n")

	schema := config.SettingsSchema()
	names := make([]string, 0, len(schema.Properties))
	for name := range schema.Properties {
		names = append(names, name)
	}
	sort.Strings(names)

	secrets := map[string]bool{}
	for _, name := range config.SecretSettings() {
		secrets[name] = true
	}

	for _, name := range names {
		prop := schema.Properties[name].Value
		if prop == nil {
			continue
		}
		kind := "string"
		if prop.Type != nil && len(*prop.Type) > 0 {
			kind = strings.Join(*prop.Type, ", ")
		}
		description := prop.Description
		if secrets[name] {
			description += " *(secret)*"
		}
		fmt.Fprintf(&b, "| `%s` | %s | %s |\n", name, kind, strings.TrimSpace(description))
	}

	render := tui.NewRenderer()
	out, err := render(b.String())
	if err != nil {
		// Fall back to raw markdown rather than failing the command.
		fmt.Println(b.String())
		return nil
	}
	fmt.Print(out)
	return nil
}
