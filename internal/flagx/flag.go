// Package flagx contains helpers around the standard flag package so that
// subcommands can parse their own flags without tripping over flags owned
// by other components.
package flagx

import "strings"

// FilterArgs returns only the arguments belonging to the allowed flags,
// keeping their values.
//
// Both forms are recognized:
//  1. Separate value:   -jobs 4
//  2. Combined value:   --jobs=4
//
// args is usually os.Args after the subcommand; allowedFlags lists flag
// spellings including the dash prefix (e.g. []string{"-jobs", "--jobs"}).
func FilterArgs(args []string, allowedFlags []string) []string {
	allowed := make(map[string]struct{}, len(allowedFlags))
	for _, f := range allowedFlags {
		allowed[f] = struct{}{}
	}

	filtered := make([]string, 0, len(args))
	for i := 0; i < len(args); i++ {
		arg := args[i]

		if strings.HasPrefix(arg, "-") && strings.Contains(arg, "=") {
			name := strings.SplitN(arg, "=", 2)[0]
			if _, ok := allowed[name]; ok {
				filtered = append(filtered, arg)
			}
			continue
		}

		if _, ok := allowed[arg]; ok {
			filtered = append(filtered, arg)
			// If the next argument is not another flag, treat it as this
			// flag's value.
			if i+1 < len(args) && !strings.HasPrefix(args[i+1], "-") {
				filtered = append(filtered, args[i+1])
				i++
			}
		}
	}

	return filtered
}

// Positionals returns the arguments before the first flag. Subcommand
// dispatch uses it to pull the command words off the front of os.Args.
func Positionals(args []string) []string {
	out := make([]string, 0, len(args))
	for _, a := range args {
		if strings.HasPrefix(a, "-") {
			break
		}
		out = append(out, a)
	}
	return out
}
