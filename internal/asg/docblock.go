package asg

import (
	"strings"

	"gopkg.in/yaml.v3"
)

// docblockMarker is a fixed-format-safe yamldoc marker: COBOL's free-form
// comment introducer "*>" followed by "!", carrying embedded YAML metadata
// on a CompilationUnit's leading comment block.
const docblockMarker = "*>!"

// parseDocblockYaml extracts and parses the embedded YAML front-matter, if
// any, from a CompilationUnit's leading comment lines. Lines before the
// first docblockMarker line are ignored (plain documentation); once a
// docblockMarker line is seen, collection continues only while every
// following line also carries the marker. Once started, a line without the
// marker ends collection; any YAML error degrades gracefully (no metadata,
// not a build failure) rather than raising a fatal error, since nothing
// else in the build depends on this feature.
func parseDocblockYaml(lines []string) (map[string]any, error) {
	var doc []string
	started := false
	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, docblockMarker) {
			started = true
			rest := strings.TrimPrefix(trimmed, docblockMarker)
			doc = append(doc, strings.TrimPrefix(rest, " "))
			continue
		}
		if started {
			break
		}
	}
	if len(doc) == 0 {
		return nil, nil
	}
	var out map[string]any
	if err := yaml.Unmarshal([]byte(strings.Join(doc, "\n")), &out); err != nil {
		return nil, err
	}
	return out, nil
}
