// Copyright (C) 2024 tracekit contributors
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with this program.  If not, see <http://www.gnu.org/licenses/>.

// Command tracedump decodes an apitrace container and writes one JSON
// object per call to stdout, in the order calls complete.
package main

import (
	"bufio"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/tracekit/apitrace"
	"sigs.k8s.io/yaml"
)

// fileConfig is the optional -config file's shape: the same knobs as
// apitrace.Options, expressed in YAML so a capture pipeline can check one
// config file into source control rather than growing a wall of flags.
type fileConfig struct {
	StrictTail       bool   `json:"strictTail,omitempty"`
	MaxEvents        uint64 `json:"maxEvents,omitempty"`
	DecodeBacktraces *bool  `json:"decodeBacktraces,omitempty"`
}

func loadConfig(path string) (apitrace.Options, error) {
	opts := apitrace.DefaultOptions()
	if path == "" {
		return opts, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return opts, fmt.Errorf("reading config %q: %w", path, err)
	}
	var cfg fileConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return opts, fmt.Errorf("parsing config %q: %w", path, err)
	}
	opts.StrictTail = cfg.StrictTail
	opts.MaxEvents = cfg.MaxEvents
	if cfg.DecodeBacktraces != nil {
		opts.DecodeBacktraces = *cfg.DecodeBacktraces
	}
	return opts, nil
}

// callRecord is the JSON shape tracedump emits for one Call: a flattened
// view that drops the Sig pointer in favor of the fields a consumer
// actually wants to grep or diff.
type callRecord struct {
	Number     uint64   `json:"number"`
	ThreadID   uint16   `json:"threadId"`
	Function   string   `json:"function"`
	API        string   `json:"api"`
	Args       []string `json:"args,omitempty"`
	Ret        string   `json:"ret,omitempty"`
	Incomplete bool     `json:"incomplete,omitempty"`
}

func render(c *apitrace.Call) callRecord {
	rec := callRecord{
		Number:     c.Number,
		ThreadID:   c.ThreadID,
		Incomplete: c.Incomplete,
	}
	if c.Sig != nil {
		rec.Function = c.Sig.Name
		rec.API = c.Sig.API.String()
	}
	for _, a := range c.Args {
		rec.Args = append(rec.Args, a.String())
	}
	if c.Ret != nil {
		rec.Ret = c.Ret.String()
	}
	return rec
}

func main() {
	log.SetFlags(log.Lshortfile)
	configPath := flag.String("config", "", "YAML file of reader options")
	backtraces := flag.Bool("backtraces", true, "decode CALL_BACKTRACE details")
	maxEvents := flag.Uint64("max-events", 0, "stop after this many ENTER/LEAVE events (0 = unbounded)")
	strict := flag.Bool("strict", false, "set Options.StrictTail; no reader path consults it, so a truncated tail is still an implicit terminator")
	flag.Parse()

	opts, err := loadConfig(*configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	flag.Visit(func(f *flag.Flag) {
		if f.Name == "backtraces" {
			opts.DecodeBacktraces = *backtraces
		}
	})
	if *maxEvents != 0 {
		opts.MaxEvents = *maxEvents
	}
	if *strict {
		opts.StrictTail = true
	}

	args := flag.Args()
	if len(args) == 0 {
		args = []string{"-"}
	}

	out := bufio.NewWriter(os.Stdout)
	defer out.Flush()
	enc := json.NewEncoder(out)

	for _, arg := range args {
		if arg == "-" {
			fmt.Fprintln(os.Stderr, "tracedump: reading from stdin is not supported, the container format requires random access")
			os.Exit(1)
		}
		n, err := dumpFile(arg, opts, enc)
		if err != nil {
			fmt.Fprintf(os.Stderr, "tracedump: %s: %s\n", arg, err)
			os.Exit(1)
		}
		if len(args) > 1 {
			log.Printf("%s: wrote %d calls", arg, n)
		}
	}
}

func dumpFile(path string, opts apitrace.Options, enc *json.Encoder) (int, error) {
	r, err := apitrace.OpenOptions(path, opts)
	if err != nil {
		return 0, err
	}
	defer r.Close()

	if _, err := r.ReadProperties(); err != nil {
		return 0, err
	}
	n := 0
	for {
		call, err := r.NextCall()
		if err != nil {
			if aerr, ok := err.(*apitrace.Error); ok && aerr.Kind == apitrace.NoCallAvailable {
				return n, nil
			}
			return n, err
		}
		if err := enc.Encode(render(call)); err != nil {
			return n, err
		}
		n++
	}
}
