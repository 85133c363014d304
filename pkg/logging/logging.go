// Package logging constructs the ectologger instances used by the API server
// and the CLIs.
package logging

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/Gobusters/ectologger"
)

var severities = map[string]int{
	"debug": 0,
	"info":  1,
	"warn":  2,
	"error": 3,
	"fatal": 4,
}

// New creates a logger that writes structured JSON lines to stdout. When
// pretty is true the output is indented for local development.
func New(level string, pretty bool) ectologger.Logger {
	minSeverity, ok := severities[strings.ToLower(strings.TrimSpace(level))]
	if !ok {
		minSeverity = severities["info"]
	}

	return ectologger.NewEctoLogger(func(msg ectologger.EctoLogMessage) {
		raw, err := json.Marshal(msg)
		if err != nil {
			fmt.Fprintf(os.Stderr, "failed to marshal log message: %v\n", err)
			return
		}

		var fields map[string]any
		if err := json.Unmarshal(raw, &fields); err == nil {
			if lvl, ok := fields["level"].(string); ok {
				if sev, ok := severities[strings.ToLower(lvl)]; ok && sev < minSeverity {
					return
				}
			}
		}

		if pretty {
			if indented, err := json.MarshalIndent(msg, "", "  "); err == nil {
				raw = indented
			}
		}
		fmt.Fprintln(os.Stdout, string(raw))
	})
}
