package main

import (
	"strings"

	"filtersync/internal/errorwrapper"
)

// cliArgs holds the parsed command line. Everything before "--" is flags
// and source descriptors, everything after it is the command to exec once
// the sync completes.
type cliArgs struct {
	configPath  string
	clear       bool
	help        bool
	sources     []string
	execCommand []string
}

// parseArgs scans argv (without the program name) by hand: the "--"
// separator and flags interleaved with positional sources rule out the
// stdlib flag package's ordering.
func parseArgs(argv []string) (cliArgs, error) {
	var args cliArgs

	for i := 0; i < len(argv); i++ {
		arg := argv[i]

		if arg == "--" {
			args.execCommand = argv[i+1:]
			break
		}

		switch arg {
		case "--clear":
			args.clear = true
		case "--config", "-c":
			if i+1 >= len(argv) || argv[i+1] == "--" {
				return cliArgs{}, errorwrapper.NewError("%s requires a path argument", arg)
			}
			i++
			args.configPath = argv[i]
		case "--help", "-h":
			args.help = true
		default:
			if strings.HasPrefix(arg, "-") {
				return cliArgs{}, errorwrapper.NewError("unknown flag: %s", arg)
			}
			args.sources = append(args.sources, arg)
		}
	}

	return args, nil
}
