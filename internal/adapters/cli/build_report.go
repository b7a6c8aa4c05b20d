package cli

import (
	"fmt"
	"io"
	"strings"
	"time"
)

type BuildStep struct {
	Name      string
	StartTime time.Time
	EndTime   time.Time
	Success   bool
	Error     string
}

type cliOutputWithColors interface {
	Green(text string) string
	Yellow(text string) string
	Red(text string) string
	Gray(text string) string
	Stdout() io.Writer
	Stderr() io.Writer
}

type BuildError struct {
	Page    string
	Message string
	Details []string
}

// BuildReport summarises one render run for humans.
type BuildReport struct {
	colors      cliOutputWithColors
	out         io.Writer
	errOut      io.Writer
	steps       []BuildStep
	warnings    []BuildError
	errors      []BuildError
	files       []string
	startTime   time.Time
	pathCount   int
	outputDir   string
	hasFailures bool
}

func NewBuildReport(colors cliOutputWithColors, outputDir string) *BuildReport {
	return &BuildReport{
		colors:    colors,
		out:       colors.Stdout(),
		errOut:    colors.Stderr(),
		steps:     make([]BuildStep, 0),
		warnings:  make([]BuildError, 0),
		errors:    make([]BuildError, 0),
		startTime: time.Now(),
		outputDir: outputDir,
	}
}

func (r *BuildReport) SetPathCount(count int) {
	r.pathCount = count
}

func (r *BuildReport) StartStep(name string) *BuildStep {
	r.steps = append(r.steps, BuildStep{
		Name:      name,
		StartTime: time.Now(),
	})
	return &r.steps[len(r.steps)-1]
}

func (r *BuildReport) EndStep(step *BuildStep, success bool, err string) {
	step.EndTime = time.Now()
	step.Success = success
	step.Error = err
	if !success {
		r.hasFailures = true
	}
}

func (r *BuildReport) AddWarning(page string, message string, details []string) {
	r.warnings = append(r.warnings, BuildError{
		Page:    page,
		Message: message,
		Details: details,
	})
}

// AddError records a failure. A diagnostic with a JavaScript stack is split
// into its message and the stack frames.
func (r *BuildReport) AddError(page string, diagnostic string) {
	lines := strings.Split(strings.TrimRight(diagnostic, "\n"), "\n")
	var details []string
	for _, line := range lines[1:] {
		if line = strings.TrimSpace(line); line != "" {
			details = append(details, line)
		}
	}
	r.errors = append(r.errors, BuildError{
		Page:    page,
		Message: lines[0],
		Details: details,
	})
	r.hasFailures = true
}

func (r *BuildReport) AddFile(path string) {
	r.files = append(r.files, path)
}

func (r *BuildReport) Render() {
	duration := time.Since(r.startTime)

	if len(r.errors) == 0 && len(r.warnings) == 0 {
		r.renderMinimal(duration)
	} else {
		r.renderVerbose(duration)
	}
}

func (r *BuildReport) renderMinimal(duration time.Duration) {
	fmt.Fprintf(r.out, "  "+r.colors.Green("✓ ")+"%d paths rendered\n", r.pathCount)

	stepLines := make([]string, 0, len(r.steps))
	allSuccessful := true

	for _, step := range r.steps {
		if !step.Success {
			allSuccessful = false
			stepLines = append(stepLines, "  "+r.colors.Red("✗ ")+step.Name)
		}
	}

	if allSuccessful {
		r.renderFiles()
		fmt.Fprintf(r.out, "  "+r.colors.Green("✓ ")+"Build complete in %s\n", formatDuration(duration))
	} else {
		fmt.Fprintln(r.out)
		fmt.Fprintln(r.out, "Failed steps:")
		for _, line := range stepLines {
			fmt.Fprintln(r.out, line)
		}
	}

	if r.outputDir != "" {
		fmt.Fprintf(r.out, "\n  %s\n", r.colors.Gray("Output: "+r.outputDir))
	}
}

func (r *BuildReport) renderVerbose(duration time.Duration) {
	fmt.Fprintf(r.out, "  %d paths requested\n", r.pathCount)

	fmt.Fprintln(r.out)
	for _, step := range r.steps {
		status := r.colors.Green("✓")
		if !step.Success {
			status = r.colors.Red("✗")
		}
		fmt.Fprintf(r.out, "  %s %s\n", status, step.Name)
	}

	if len(r.files) > 0 {
		fmt.Fprintln(r.out)
		r.renderFiles()
	}

	if len(r.errors) > 0 {
		fmt.Fprintln(r.errOut)
		fmt.Fprintf(r.errOut, "  "+r.colors.Red("✗ ")+"Errors (%d):\n", len(r.errors))
		r.renderErrors(r.errOut, r.errors)
	}

	if len(r.warnings) > 0 {
		fmt.Fprintln(r.out)
		fmt.Fprintf(r.out, "  "+r.colors.Yellow("⚠ ")+"Warnings (%d):\n", len(r.warnings))
		r.renderErrors(r.out, r.warnings)
	}

	fmt.Fprintln(r.out)
	if len(r.errors) > 0 {
		fmt.Fprintf(r.errOut, "  %s\n", r.colors.Red(fmt.Sprintf("Build failed after %s", formatDuration(duration))))
	} else {
		fmt.Fprintf(r.out, "  "+r.colors.Green("✓ ")+"Build complete in %s\n", formatDuration(duration))
	}

	if r.outputDir != "" {
		fmt.Fprintf(r.out, "\n  %s\n", r.colors.Gray("Output: "+r.outputDir))
	}
}

func (r *BuildReport) renderFiles() {
	for _, file := range r.files {
		fmt.Fprintf(r.out, "    %s\n", r.colors.Gray(file))
	}
}

func (r *BuildReport) renderErrors(w io.Writer, errors []BuildError) {
	for _, err := range errors {
		fmt.Fprintf(w, "  %s %s\n", r.colors.Red("✗"), err.Page)
		fmt.Fprintf(w, "    %s\n", err.Message)

		for _, detail := range deduplicateStrings(err.Details) {
			fmt.Fprintf(w, "      • %s\n", detail)
		}
	}
}

func (r *BuildReport) HasFailures() bool {
	return r.hasFailures
}

func formatDuration(d time.Duration) string {
	if d < time.Second {
		return fmt.Sprintf("%.0fms", float64(d)/float64(time.Millisecond))
	}
	return fmt.Sprintf("%.1fs", float64(d)/float64(time.Second))
}

// deduplicateStrings collapses repeated items, keeping first-seen order.
func deduplicateStrings(items []string) []string {
	if len(items) <= 1 {
		return items
	}

	counts := make(map[string]int)
	order := make([]string, 0, len(items))
	for _, item := range items {
		if counts[item] == 0 {
			order = append(order, item)
		}
		counts[item]++
	}

	result := make([]string, 0, len(order))
	for _, item := range order {
		if counts[item] > 1 {
			result = append(result, fmt.Sprintf("%s (%d occurrences)", item, counts[item]))
		} else {
			result = append(result, item)
		}
	}

	return result
}
