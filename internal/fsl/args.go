package fsl

import (
	"fmt"
	"sort"
)

// Args maps option names to values for an FSL command line. Values may be
// string, bool, int or float64; anything else is rendered with %v.
type Args map[string]any

// BuildArgs renders an option map into command-line arguments.
//
// Single-character names become "-k value" pairs, longer names become
// "--key=value". Boolean options are emitted as bare flags only when true.
// An empty string value emits the bare "--key" form. Names are rendered in
// sorted order so the resulting argv is deterministic.
func BuildArgs(args Args) []string {
	keys := make([]string, 0, len(args))
	for k := range args {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var argv []string
	for _, key := range keys {
		value := args[key]

		if b, ok := value.(bool); ok {
			if !b {
				continue
			}
			if len(key) == 1 {
				argv = append(argv, "-"+key)
			} else {
				argv = append(argv, "--"+key)
			}
			continue
		}

		rendered := render(value)
		if len(key) == 1 {
			argv = append(argv, "-"+key, rendered)
			continue
		}
		if rendered == "" {
			argv = append(argv, "--"+key)
			continue
		}
		argv = append(argv, fmt.Sprintf("--%s=%s", key, rendered))
	}

	return argv
}

func render(value any) string {
	if s, ok := value.(string); ok {
		return s
	}
	return fmt.Sprintf("%v", value)
}
