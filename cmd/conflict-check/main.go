// Command conflict-check runs the workload and timetable detectors over CSV snapshots.
//
// It exits with status 1 when any high severity conflict is found, which lets planners
// gate a timetable publication in CI.
package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"

	"github.com/noah-isme/univ-admin-api/internal/conflict"
	"github.com/noah-isme/univ-admin-api/internal/importer"
)

const (
	exitOK       = 0
	exitBlocking = 1
	exitUsage    = 2
)

type options struct {
	events      string
	rooms       string
	teachers    string
	assignments string
	underload   float64
	overload    float64
	strict      bool
	comma       string
	noColor     bool
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("conflict-check", flag.ContinueOnError)
	fs.SetOutput(stderr)

	var opts options
	fs.StringVar(&opts.events, "events", "", "timetable events CSV")
	fs.StringVar(&opts.rooms, "rooms", "", "room capacities CSV (name,capacity)")
	fs.StringVar(&opts.teachers, "teachers", "", "teachers CSV")
	fs.StringVar(&opts.assignments, "assignments", "", "assignments CSV")
	fs.Float64Var(&opts.underload, "underload", conflict.DefaultUnderloadPct, "underload threshold in percent")
	fs.Float64Var(&opts.overload, "overload", conflict.DefaultOverloadPct, "overload threshold in percent")
	fs.BoolVar(&opts.strict, "strict", false, "reject events with unparseable or inverted time ranges")
	fs.StringVar(&opts.comma, "comma", ",", "CSV field delimiter")
	fs.BoolVar(&opts.noColor, "no-color", false, "disable coloured output")

	if err := fs.Parse(args); err != nil {
		return exitUsage
	}
	if opts.noColor {
		color.NoColor = true
	}
	if opts.events == "" && (opts.teachers == "" || opts.assignments == "") {
		fmt.Fprintln(stderr, "conflict-check: provide -events, or both -teachers and -assignments")
		fs.Usage()
		return exitUsage
	}
	csvOpts := importer.Options{}
	if r := []rune(opts.comma); len(r) == 1 {
		csvOpts.Comma = r[0]
	} else {
		fmt.Fprintf(stderr, "conflict-check: -comma must be a single character, got %q\n", opts.comma)
		return exitUsage
	}

	printer := newPrinter(stdout)
	blocking := false

	if opts.teachers != "" && opts.assignments != "" {
		conflicts, err := checkWorkload(opts, csvOpts)
		if err != nil {
			printer.fail(stderr, err)
			return exitUsage
		}
		printer.section("Charge pédagogique", conflicts)
		blocking = blocking || conflict.Summarize(conflicts).Blocking
	}

	if opts.events != "" {
		conflicts, issues, err := checkTimetable(opts, csvOpts)
		if err != nil {
			printer.fail(stderr, err)
			return exitUsage
		}
		if len(issues) > 0 {
			printer.issues(issues)
			return exitBlocking
		}
		printer.section("Emploi du temps", conflicts)
		blocking = blocking || conflict.Summarize(conflicts).Blocking
	}

	if blocking {
		return exitBlocking
	}
	return exitOK
}

func checkWorkload(opts options, csvOpts importer.Options) ([]conflict.Conflict, error) {
	teacherFile, err := os.Open(opts.teachers)
	if err != nil {
		return nil, err
	}
	defer teacherFile.Close()
	teachers, err := importer.LoadTeachers(teacherFile, csvOpts)
	if err != nil {
		return nil, err
	}

	assignmentFile, err := os.Open(opts.assignments)
	if err != nil {
		return nil, err
	}
	defer assignmentFile.Close()
	assignments, err := importer.LoadAssignments(assignmentFile, csvOpts)
	if err != nil {
		return nil, err
	}

	policy := conflict.DefaultPolicy()
	thresholds := conflict.Thresholds{UnderloadPct: opts.underload, OverloadPct: opts.overload}
	workloads := conflict.BuildWorkloads(teachers, assignments, policy, thresholds)
	return conflict.DetectWorkload(workloads, assignments, policy.DetectorConfig(thresholds)), nil
}

func checkTimetable(opts options, csvOpts importer.Options) ([]conflict.Conflict, []conflict.EventIssue, error) {
	eventFile, err := os.Open(opts.events)
	if err != nil {
		return nil, nil, err
	}
	defer eventFile.Close()
	events, err := importer.LoadEvents(eventFile, csvOpts)
	if err != nil {
		return nil, nil, err
	}

	capacities := conflict.DefaultRoomCapacities
	if opts.rooms != "" {
		roomFile, err := os.Open(opts.rooms)
		if err != nil {
			return nil, nil, err
		}
		defer roomFile.Close()
		rooms, err := importer.LoadRooms(roomFile, csvOpts)
		if err != nil {
			return nil, nil, err
		}
		capacities = conflict.MergeCapacities(conflict.DefaultRoomCapacities, rooms)
	}

	if opts.strict {
		if issues := conflict.ValidateEvents(events); len(issues) > 0 {
			return nil, issues, nil
		}
	}
	return conflict.DetectTimetable(events, capacities), nil, nil
}
