// Package flagx holds helpers for parsing a subset of command-line flags
// without interfering with flags owned by other stages of config loading.
package flagx

import (
	"flag"
	"io"
	"os"
	"strings"
)

// FilterArgs returns only the allowed flags (and their values) from args.
//
// Supported formats:
//  1. Flag and value as separate arguments:  -c conf.json
//  2. Flag and value combined with '=':      --config=conf.json
//
// A token following an allowed flag is treated as its value unless it
// starts with '-'. The result is never nil.
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

// stringFlag extracts a single string value registered under a short and a
// long name. The last occurrence wins. Parse errors yield "".
func stringFlag(args []string, short, long string) string {
	var v string

	fs := flag.NewFlagSet(long, flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.StringVar(&v, long, "", "")
	fs.StringVar(&v, short, "", "")
	if err := fs.Parse(FilterArgs(args, []string{"-" + short, "-" + long})); err != nil {
		return ""
	}
	return v
}

// JsonConfigFlags returns the config file path given via -c or -config,
// or "" when neither is present.
func JsonConfigFlags() string {
	return stringFlag(os.Args[1:], "c", "config")
}

// EnvFileFlags returns the dotenv file path given via -e or -env-file,
// or "" when neither is present.
func EnvFileFlags() string {
	return stringFlag(os.Args[1:], "e", "env-file")
}
