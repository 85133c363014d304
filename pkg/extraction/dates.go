package extraction

import (
	"strings"
	"time"

	"github.com/d-krupke/thesis-manager/pkg/models"
)

// dateLayouts are the input formats accepted for dates, tried in order
var dateLayouts = []string{
	"2006-01-02", // 2024-01-15
	"02.01.2006", // 15.01.2024
	"02.01.06",   // 15.01.24
	"02/01/2006", // 15/01/2024
	"02/01/06",   // 15/01/24
	"2006/01/02", // 2024/01/15
	"02-01-2006", // 15-01-2024
	"02-01-06",   // 15-01-24
}

// ParseFlexibleDate parses dates in the formats commonly found in thesis
// spreadsheets. It returns nil for empty or unparseable input.
func ParseFlexibleDate(raw string) *models.Date {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}

	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			d := models.DateOf(t)
			return &d
		}
	}
	return nil
}
