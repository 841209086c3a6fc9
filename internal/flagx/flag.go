// Package flagx lets several flag sets share one argument list: each set
// parses only the arguments that belong to it.
package flagx

import (
	"flag"
	"io"
	"strings"
)

// canonical turns "--name", "-name" and "name" into "-name".
func canonical(name string) string {
	return "-" + strings.TrimLeft(name, "-")
}

// Keep returns the arguments from args that belong to the named flags,
// together with their values, in their original order.
//
// Accepted forms are "-f value", "--f value", "-f=value" and "--f=value".
// A separate value is taken only when the next argument does not start
// with "-". Parsing stops at "--".
func Keep(args []string, names ...string) []string {
	want := make(map[string]struct{}, len(names))
	for _, n := range names {
		want[canonical(n)] = struct{}{}
	}

	kept := make([]string, 0, len(args))
	for i := 0; i < len(args); i++ {
		arg := args[i]
		if arg == "--" {
			break
		}
		if !strings.HasPrefix(arg, "-") {
			continue
		}

		name, _, inline := strings.Cut(arg, "=")
		if _, ok := want[canonical(name)]; !ok {
			continue
		}
		kept = append(kept, arg)

		if !inline && i+1 < len(args) && !strings.HasPrefix(args[i+1], "-") {
			kept = append(kept, args[i+1])
			i++
		}
	}
	return kept
}

// ConfigPath returns the file named by -c or -config in args, or "" when
// neither is present. The last occurrence wins.
func ConfigPath(args []string) string {
	var path string

	fs := flag.NewFlagSet("config", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.StringVar(&path, "config", "", "path to config file")
	fs.StringVar(&path, "c", "", "path to config file (short)")
	_ = fs.Parse(Keep(args, "c", "config"))

	return path
}
