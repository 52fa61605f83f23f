package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/pflag"

	"negotiation_seller_agent/internal/conf"
)

// cliFlags holds the command line overrides
type cliFlags struct {
	conf  string
	port  int
	level int
	// polite is nil unless --polite was given
	polite *bool
}

// parseFlags reads the command line. --polite takes an explicit value so
// that "--polite false" turns politeness off instead of leaving a stray
// "false" argument behind.
func parseFlags(name string, args []string) (*cliFlags, error) {
	var (
		f      cliFlags
		polite string
	)
	fs := pflag.NewFlagSet(name, pflag.ContinueOnError)
	fs.StringVar(&f.conf, "conf", "../../configs", "config path, eg: --conf config.yaml")
	fs.IntVarP(&f.port, "port", "p", 0, "listen port; overrides server.http.addr")
	fs.IntVarP(&f.level, "level", "l", 0, "log level: 1 warn, 2 info, 3 debug")
	fs.StringVar(&polite, "polite", "", "only answer offers addressed to this agent (true|false)")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if rest := fs.Args(); len(rest) > 0 {
		return nil, fmt.Errorf("unexpected arguments: %s", strings.Join(rest, " "))
	}
	if fs.Changed("polite") {
		v, err := strconv.ParseBool(polite)
		if err != nil {
			return nil, fmt.Errorf("invalid --polite value %q: %w", polite, err)
		}
		f.polite = &v
	}
	return &f, nil
}

// applyFlags lets command line flags win over the config file
func applyFlags(bc *conf.Bootstrap, f *cliFlags) {
	if f.port != 0 {
		bc.Server.Http.Addr = fmt.Sprintf("0.0.0.0:%d", f.port)
	}
	if f.level != 0 {
		bc.Log.Level = f.level
	}
	if f.polite != nil {
		polite := *f.polite
		bc.Agent.Polite = &polite
	}
}
