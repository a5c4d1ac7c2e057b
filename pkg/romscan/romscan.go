// Package romscan discovers ROM files via glob patterns and smoke-tests
// them by powering on a console.Console and running a bounded number of
// frames, checking that the CPU never halts (JAM/KIL) or gets stuck.
package romscan

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/bmatcuk/doublestar"

	"github.com/nescore/gones/pkg/console"
)

// Find expands pattern (which may contain doublestar "**" segments) into a
// sorted list of matching file paths.
func Find(pattern string) ([]string, error) {
	matches, err := doublestar.Glob(pattern)
	if err != nil {
		return nil, fmt.Errorf("glob %q: %w", pattern, err)
	}
	return matches, nil
}

// Result is one ROM's smoke-test outcome.
type Result struct {
	Path   string
	Frames int
	Err    error
}

// Passed reports whether the ROM loaded and ran without error.
func (r Result) Passed() bool {
	return r.Err == nil
}

// Run loads each path in paths, runs it for frameCount frames, and reports
// whether it ran to completion without the CPU jamming. A ROM that fails to
// parse or whose CPU halts mid-run is reported, not a process-ending error -
// batch scans exist to find the broken ROMs, not stop at the first one.
func Run(paths []string, frameCount int) []Result {
	results := make([]Result, 0, len(paths))
	for _, path := range paths {
		results = append(results, runOne(path, frameCount))
	}
	return results
}

func runOne(path string, frameCount int) Result {
	f, err := os.Open(path)
	if err != nil {
		return Result{Path: path, Err: fmt.Errorf("open: %w", err)}
	}
	defer f.Close()

	nes, err := console.NewFromROM(f)
	if err != nil {
		return Result{Path: path, Err: fmt.Errorf("load: %w", err)}
	}

	framesRun := 0
	const maxDotsPerFrame = 300000
	for framesRun = 0; framesRun < frameCount; framesRun++ {
		if nes.CPU.Halted() {
			return Result{Path: path, Frames: framesRun, Err: fmt.Errorf("CPU halted (JAM) at frame %d", framesRun)}
		}
		nes.StepFrame(maxDotsPerFrame)
		if !nes.FrameReady() && framesRun > 0 {
			return Result{Path: path, Frames: framesRun, Err: fmt.Errorf("frame %d never completed (stuck)", framesRun)}
		}
		nes.TakeFrame()
	}

	return Result{Path: path, Frames: framesRun}
}

// Base is a convenience for callers formatting scan reports.
func Base(path string) string {
	return filepath.Base(path)
}
