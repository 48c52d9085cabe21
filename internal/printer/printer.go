// Package printer renders installation plans for --dry-run.
package printer

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/fatih/color"

	"github.com/facefusion/ffinstall/internal/installer"
	"github.com/facefusion/ffinstall/internal/variant"
)

// Format is an output format.
type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
)

// ParseFormat parses an output format name.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(s) {
	case "text", "":
		return FormatText, nil
	case "json":
		return FormatJSON, nil
	default:
		return "", fmt.Errorf("unsupported output format: %q (supported: text, json)", s)
	}
}

// Plan is the JSON form of an installation plan.
type Plan struct {
	Variant variant.Variant  `json:"variant"`
	Steps   []installer.Step `json:"steps"`
}

// PrintPlan writes the steps that would install v.
func PrintPlan(w io.Writer, v variant.Variant, steps []installer.Step, format Format) error {
	if format == FormatJSON {
		return printJSON(w, Plan{Variant: v, Steps: steps})
	}
	printTable(w, v, steps)
	return nil
}

func printTable(w io.Writer, v variant.Variant, steps []installer.Step) {
	bold := color.New(color.Bold)
	fmt.Fprintf(w, "%s %s (%s)\n\n", bold.Sprint("Variant:"), v.Name, v.Requirement())

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "STEP\tCOMMAND")
	for _, s := range steps {
		fmt.Fprintf(tw, "%s\t%s\n", s.Name, s.String())
	}
	tw.Flush()
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
