package config

import (
	"flag"
	"os"
	"strings"
)

// parseFlags populates Config fields from command-line flags.
//
// Supported flags:
//
//	-surl string   remote store endpoint (from an owner's invite link)
//	-skey string   remote store access key
//	-setup         force first-run tenant registration
//	-db string     path of the local cache database
//
// Only the flags listed here are consumed; anything else on the command
// line is left for other components, so package-local flag sets never
// collide.
func parseFlags(cfg *Config) {
	args := filterArgs(os.Args[1:], []string{"-surl", "-skey", "-setup", "-db"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	surl := fs.String("surl", "", "remote store endpoint")
	skey := fs.String("skey", "", "remote store access key")
	setup := fs.Bool("setup", false, "force first-run tenant registration")
	fs.StringVar(&cfg.LocalDBPath, "db", cfg.LocalDBPath, "local cache database path")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	if *surl != "" {
		cfg.Remote = Descriptor{Endpoint: strings.TrimSpace(*surl), AccessKey: strings.TrimSpace(*skey)}
		cfg.RemoteFromFlags = true
	}
	cfg.SetupMode = *setup
}

// filterArgs returns only the allowed flags (and their values) from args.
// Handles both "-flag value" and "-flag=value" forms.
func filterArgs(args []string, allowedFlags []string) []string {
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
			if i+1 < len(args) && !strings.HasPrefix(args[i+1], "-") {
				filtered = append(filtered, args[i+1])
				i++
			}
		}
	}
	return filtered
}
