package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/nsxbet/ddl-analyzer/pkg/types"
)

func outputReport(w io.Writer, report *types.Report, format string) error {
	switch format {
	case "json":
		return outputJSON(w, report)
	case "yaml":
		return outputYAML(w, report)
	case "text":
		return outputText(w, report)
	default:
		return errors.Errorf("unsupported output format: %s", format)
	}
}

func outputJSON(w io.Writer, report *types.Report) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(report)
}

func outputYAML(w io.Writer, report *types.Report) error {
	encoder := yaml.NewEncoder(w)
	encoder.SetIndent(2)
	defer encoder.Close()
	return encoder.Encode(report)
}

func outputText(w io.Writer, report *types.Report) error {
	if len(report.Order) > 0 {
		fmt.Fprintln(w, "Load order:")
		for i, table := range report.Order {
			fmt.Fprintf(w, "  %d. %s\n", i+1, table)
		}
		fmt.Fprintln(w)
	}

	if len(report.Domain) > 0 {
		names := make([]string, 0, len(report.Domain))
		for name := range report.Domain {
			names = append(names, name)
		}
		sort.Strings(names)
		fmt.Fprintln(w, "Domains:")
		for _, name := range names {
			fmt.Fprintf(w, "  %s\n", name)
		}
		fmt.Fprintln(w)
	}

	if len(report.Advices) == 0 {
		fmt.Fprintln(w, "No issues found.")
	}
	for _, advice := range report.Advices {
		position := ""
		if advice.StartPosition != nil {
			position = fmt.Sprintf(" at line %d, column %d", advice.StartPosition.Line, advice.StartPosition.Column)
		}

		fmt.Fprintf(w, "[%s] %s%s\n", advice.Status, advice.Title, position)
		if advice.Content != "" {
			fmt.Fprintf(w, "  %s\n", advice.Content)
		}
		fmt.Fprintln(w)
	}

	fmt.Fprintln(w, report.String())
	if report.Fingerprint != "" {
		fmt.Fprintf(w, "Fingerprint: %s\n", report.Fingerprint)
	}
	return nil
}
