// internal/update/version.go

package update

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"customTools/internal/models"
)

// IsNewer reports whether latest is a higher dotted version than current.
// Missing components count as zero; any non-numeric component makes the
// comparison false.
func IsNewer(current, latest string) bool {
	cur, err := parseVersion(current)
	if err != nil {
		return false
	}
	lat, err := parseVersion(latest)
	if err != nil {
		return false
	}

	n := len(cur)
	if len(lat) > n {
		n = len(lat)
	}
	for i := 0; i < n; i++ {
		c, l := part(cur, i), part(lat, i)
		if l != c {
			return l > c
		}
	}
	return false
}

func parseVersion(v string) ([]int, error) {
	fields := strings.Split(strings.TrimSpace(v), ".")
	parts := make([]int, len(fields))
	for i, f := range fields {
		n, err := strconv.Atoi(f)
		if err != nil {
			return nil, fmt.Errorf("invalid version %q: %w", v, err)
		}
		parts[i] = n
	}
	return parts, nil
}

func part(parts []int, i int) int {
	if i < len(parts) {
		return parts[i]
	}
	return 0
}

// Diff lists the tools whose remote version is newer than the local one,
// sorted by tool name.
func Diff(local, remote *models.Manifest) []models.UpdateInfo {
	var updates []models.UpdateInfo
	if remote == nil {
		return updates
	}
	for _, tool := range ToolNames(remote) {
		current := local.Version(tool)
		latest := remote.Tools[tool]
		if IsNewer(current, latest) {
			updates = append(updates, models.UpdateInfo{Tool: tool, Current: current, Latest: latest})
		}
	}
	return updates
}

// ToolNames returns the manifest's tools sorted by name.
func ToolNames(m *models.Manifest) []string {
	if m == nil {
		return nil
	}
	names := make([]string, 0, len(m.Tools))
	for name := range m.Tools {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

var ErrNoValidSelection = errors.New("no valid updates selected")

// ParseSelection interprets the operator's answer against the numbered tool
// list: "none", "all" or a comma separated list of 1-based indexes. Indexes
// of tools without an update are ignored.
func ParseSelection(input string, tools []string, updatable map[string]bool) ([]string, error) {
	input = strings.ToLower(strings.TrimSpace(input))

	switch input {
	case "none":
		return nil, nil
	case "all":
		var selected []string
		for _, tool := range tools {
			if updatable[tool] {
				selected = append(selected, tool)
			}
		}
		return selected, nil
	}

	var selected []string
	seen := make(map[string]bool)
	for _, field := range strings.Split(input, ",") {
		idx, err := strconv.Atoi(strings.TrimSpace(field))
		if err != nil {
			return nil, fmt.Errorf("invalid input %q: enter numbers separated by commas, 'all', or 'none'", input)
		}
		if idx < 1 || idx > len(tools) {
			continue
		}
		tool := tools[idx-1]
		if updatable[tool] && !seen[tool] {
			selected = append(selected, tool)
			seen[tool] = true
		}
	}
	if len(selected) == 0 {
		return nil, ErrNoValidSelection
	}
	return selected, nil
}
