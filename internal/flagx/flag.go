// Package flagx picks individual flags out of os.Args without claiming the
// whole command line, so several loaders can each parse the flags they own.
package flagx

import (
	"flag"
	"io"
	"os"
	"strings"
)

// FilterArgs returns the subset of args made of allowed flags and their
// values. Both "-c conf.json" and "--config=conf.json" forms are recognized;
// a following token is treated as a value unless it starts with '-'.
func FilterArgs(args []string, allowedFlags []string) []string {
	allowed := make(map[string]struct{}, len(allowedFlags))
	for _, f := range allowedFlags {
		allowed[f] = struct{}{}
	}

	filtered := make([]string, 0, len(args))

	for i := 0; i < len(args); i++ {
		arg := args[i]

		if strings.HasPrefix(arg, "-") && strings.Contains(arg, "=") {
			name, _, _ := strings.Cut(arg, "=")
			if _, ok := allowed[name]; ok {
				filtered = append(filtered, arg)
			}
			continue
		}

		if _, ok := allowed[arg]; ok {
			filtered = append(filtered, arg)
			if i+1 < len(args) && !strings.HasPrefix(args[i+1], "-") {
				filtered = append(filtered, args[i+1])
				i++
			}
		}
	}

	return filtered
}

// StringFlag returns the value of the first flag in names found in args,
// ignoring everything else. When a flag repeats, the last value wins.
func StringFlag(args []string, names ...string) string {
	var value string

	allowed := make([]string, 0, len(names))
	fs := flag.NewFlagSet("flagx", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	for _, n := range names {
		allowed = append(allowed, "-"+n)
		fs.StringVar(&value, n, "", "")
	}
	_ = fs.Parse(FilterArgs(args, allowed))

	return value
}

// ConfigFileFlag returns the JSON config path given with -c or -config.
func ConfigFileFlag() string {
	return StringFlag(os.Args[1:], "c", "config")
}

// EnvFileFlag returns the dotenv path given with -env-file.
func EnvFileFlag() string {
	return StringFlag(os.Args[1:], "env-file")
}
