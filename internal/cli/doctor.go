package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	ps "github.com/mitchellh/go-ps"

	"github.com/vmartins/studysync/internal/keyring"
)

type DoctorCmd struct{}

// Run checks the pieces a sync needs: config, timezone, token, store and
// clock, plus whether another studysync is already running.
func (cmd *DoctorCmd) Run(ctx *Context) error {
	fmt.Println("Running diagnostics...")
	fmt.Println()

	hasError := false

	// Check 1: config valid
	if err := ctx.Config.Validate(); err != nil {
		fmt.Printf("❌ Configuration: FAIL\n")
		fmt.Printf("   Error: %v\n", err)
		hasError = true
	} else {
		fmt.Printf("✓ Configuration: OK (%s)\n", ctx.ConfigPath)
	}

	// Check 2: timezone resolves
	if _, err := ctx.Config.Location(); err != nil {
		fmt.Printf("❌ Timezone: FAIL\n")
		fmt.Printf("   Error: %v\n", err)
		hasError = true
	} else {
		fmt.Printf("✓ Timezone: OK (%s)\n", ctx.Config.Timezone)
	}

	// Check 3: Notion token present
	if _, err := keyring.ResolveToken(); err != nil {
		fmt.Printf("❌ Notion token: FAIL\n")
		fmt.Printf("   Error: %v\n", err)
		fmt.Printf("   Store one with 'studysync token set' or export %s.\n", keyring.EnvToken)
		hasError = true
	} else {
		fmt.Printf("✓ Notion token: OK\n")
	}

	// Check 4: database IDs configured
	if err := checkDatabases(ctx); err != nil {
		fmt.Printf("❌ Notion databases: FAIL\n")
		fmt.Printf("   Error: %v\n", err)
		hasError = true
	} else {
		fmt.Printf("✓ Notion databases: OK\n")
	}

	// Check 5: local store reachable
	if err := ctx.Store.Init(); err != nil {
		fmt.Printf("❌ Local store: FAIL\n")
		fmt.Printf("   Error: %v\n", err)
		hasError = true
	} else {
		fmt.Printf("✓ Local store: OK (%s)\n", ctx.Store.Path())
	}

	// Check 6: clock sanity
	if err := checkClock(); err != nil {
		fmt.Printf("❌ Clock: FAIL\n")
		fmt.Printf("   Error: %v\n", err)
		hasError = true
	} else {
		fmt.Printf("✓ Clock: OK\n")
	}

	// Check 7: concurrent runs (warning only)
	if n, err := countSiblingProcesses(); err != nil {
		fmt.Printf("⚠ Concurrent runs: UNKNOWN (%v)\n", err)
	} else if n > 0 {
		fmt.Printf("⚠ Concurrent runs: WARNING\n")
		fmt.Printf("   %d other studysync process(es) running; concurrent syncs can double-write schedules.\n", n)
	} else {
		fmt.Printf("✓ Concurrent runs: OK\n")
	}

	fmt.Println()
	if hasError {
		fmt.Println("Diagnostics completed with errors.")
		return fmt.Errorf("one or more health checks failed")
	}
	fmt.Println("All diagnostics passed!")
	return nil
}

func checkDatabases(ctx *Context) error {
	n := ctx.Config.Notion
	var missing []string
	if n.TasksDB == "" {
		missing = append(missing, "tasks_db")
	}
	if n.TimeSlotsDB == "" {
		missing = append(missing, "time_slots_db")
	}
	if n.SchedulesDB == "" {
		missing = append(missing, "schedules_db")
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing database IDs: %s (run 'studysync init')", strings.Join(missing, ", "))
	}
	return nil
}

func checkClock() error {
	now := time.Now()
	if now.Year() < 2020 {
		return fmt.Errorf("system clock reads %v, which is implausibly old", now)
	}
	return nil
}

// countSiblingProcesses counts other running processes with our executable
// name.
func countSiblingProcesses() (int, error) {
	self := filepath.Base(os.Args[0])
	procs, err := ps.Processes()
	if err != nil {
		return 0, err
	}
	count := 0
	for _, p := range procs {
		if p.Pid() != os.Getpid() && p.Executable() == self {
			count++
		}
	}
	return count, nil
}
