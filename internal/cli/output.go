package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"gopkg.in/yaml.v3"
)

// outputFormat is set by the root command's -o flag ("table", "json", "yaml").
var outputFormat string

// rowFunc turns one listed resource into its table columns.
type rowFunc func(interface{}) []string

// printOutput renders v to stdout in the selected output format. For table
// output v is a []interface{} of resources or a single resource; headers and
// row describe its columns.
func printOutput(v interface{}, headers []string, row rowFunc) {
	if err := renderOutput(os.Stdout, outputFormat, v, headers, row); err != nil {
		exitError(err.Error())
	}
}

// renderOutput writes v to w as an aligned table, JSON, or YAML. The
// structured formats marshal the resources directly, so scripted callers see
// the same representation the API server returns.
func renderOutput(w io.Writer, format string, v interface{}, headers []string, row rowFunc) error {
	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(v); err != nil {
			return fmt.Errorf("encoding JSON: %w", err)
		}
		return nil

	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return fmt.Errorf("encoding YAML: %w", err)
		}
		return enc.Close()

	default:
		items, ok := v.([]interface{})
		if !ok {
			items = []interface{}{v}
		}
		tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
		fmt.Fprintln(tw, strings.Join(headers, "\t"))
		for _, item := range items {
			fmt.Fprintln(tw, strings.Join(row(item), "\t"))
		}
		return tw.Flush()
	}
}

// exitError reports a fatal CLI error to stderr and exits non-zero.
func exitError(msg string) {
	fmt.Fprintln(os.Stderr, "Error:", msg)
	os.Exit(1)
}

// ageUnits drives formatAge; anything a day or older falls through to days.
var ageUnits = []struct {
	below  time.Duration
	per    time.Duration
	suffix string
}{
	{time.Minute, time.Second, "s"},
	{time.Hour, time.Minute, "m"},
	{24 * time.Hour, time.Hour, "h"},
}

// formatAge renders how long ago t happened in kubectl style: 42s, 7m, 3h,
// 12d. Zero times render as "<unknown>".
func formatAge(t time.Time) string {
	if t.IsZero() {
		return "<unknown>"
	}
	age := time.Since(t)
	if age < 0 {
		age = 0
	}
	for _, unit := range ageUnits {
		if age < unit.below {
			return fmt.Sprintf("%d%s", int(age/unit.per), unit.suffix)
		}
	}
	return fmt.Sprintf("%dd", int(age/(24*time.Hour)))
}
