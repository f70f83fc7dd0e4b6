// Package output provides utilities for formatting and displaying comparison results.
package output

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/iwvelando/salary-compare/internal/compare"
	"github.com/iwvelando/salary-compare/pkg/constants"
	"github.com/iwvelando/salary-compare/pkg/format"
	"github.com/iwvelando/salary-compare/pkg/growth"
	"github.com/iwvelando/salary-compare/pkg/tax"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"gopkg.in/yaml.v3"
)

// Write renders a comparison report in the requested output format.
func Write(w io.Writer, outputFormat string, report *compare.Report) error {
	switch outputFormat {
	case constants.OutputFormatPretty:
		return PrettyFormat(w, report)
	case constants.OutputFormatCSV:
		return CsvFormat(w, report)
	case constants.OutputFormatJSON:
		return JSONFormat(w, report)
	case constants.OutputFormatYAML:
		return YAMLFormat(w, report)
	}
	return fmt.Errorf("unsupported output format %s", outputFormat)
}

// PrettyFormat outputs a human-readable rather than machine-readable table.
func PrettyFormat(w io.Writer, report *compare.Report) error {
	p := message.NewPrinter(language.English)
	var b strings.Builder

	_, _ = p.Fprintf(&b, "--- Results for gross salary %.2f ---\n", report.GrossSalary)
	b.WriteString("Jurisdiction | Employee SS | Income tax | Net salary | Net monthly | Employer SS | Employer cost | Total tax\n")
	b.WriteString("____________ | ___________ | __________ | __________ | ___________ | ___________ | _____________ | _________\n")
	for _, r := range report.Results {
		_, _ = p.Fprintf(&b, "%s (%s) | %.2f | %.2f | %.2f | %.2f | %.2f | %.2f | %.2f\n",
			report.Name(r.CountryID), r.CountryID,
			r.EmployeeSocialSecurity, r.IncomeTax, r.NetSalary, r.MonthlyNet(),
			r.EmployerSocialSecurity, r.EmployerCost, r.TotalTax)
	}

	if len(report.Results) > 1 {
		fmt.Fprintf(&b, "\n%s leaves %s more per year than %s (%s per month)\n",
			report.Name(report.Best.CountryID),
			format.Currency(report.NetDifferenceYearly, format.EURReport),
			report.Name(report.Worst.CountryID),
			format.Currency(report.NetDifferenceMonthly, format.EURReport))
	}

	if len(report.Projections) > 0 {
		b.WriteString("\n")
		writeProjectionTable(&b, p, report.Projections)
	}

	sources := make([]string, 0, len(report.Jurisdictions))
	for _, j := range report.Jurisdictions {
		if j.Source != "" {
			sources = append(sources, fmt.Sprintf("%s: %s", j.ID, j.Source))
		}
	}
	if len(sources) > 0 {
		fmt.Fprintf(&b, "\nSources: %s\n", strings.Join(sources, "; "))
	}

	_, err := io.WriteString(w, b.String())
	return err
}

// CsvFormat outputs in comma-separated value format, one row per jurisdiction.
func CsvFormat(w io.Writer, report *compare.Report) error {
	writer := csv.NewWriter(w)
	header := []string{"countryId", "name", "grossSalary", "employeeSocialSecurity", "incomeTax",
		"netSalary", "netMonthly", "employerSocialSecurity", "employerCost", "totalTax"}
	if err := writer.Write(header); err != nil {
		return err
	}
	for _, r := range report.Results {
		record := []string{
			string(r.CountryID),
			report.Name(r.CountryID),
			amount(r.GrossSalary),
			amount(r.EmployeeSocialSecurity),
			amount(r.IncomeTax),
			amount(r.NetSalary),
			amount(r.MonthlyNet()),
			amount(r.EmployerSocialSecurity),
			amount(r.EmployerCost),
			amount(r.TotalTax),
		}
		if err := writer.Write(record); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}

// JSONFormat outputs v as indented JSON.
func JSONFormat(w io.Writer, v interface{}) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}

// YAMLFormat outputs v as YAML.
func YAMLFormat(w io.Writer, v interface{}) error {
	encoder := yaml.NewEncoder(w)
	encoder.SetIndent(2)
	if err := encoder.Encode(v); err != nil {
		return err
	}
	return encoder.Close()
}

// WriteProjections renders savings projections in the requested output format.
func WriteProjections(w io.Writer, outputFormat string, projections []growth.Projection) error {
	switch outputFormat {
	case constants.OutputFormatPretty:
		var b strings.Builder
		writeProjectionTable(&b, message.NewPrinter(language.English), projections)
		_, err := io.WriteString(w, b.String())
		return err
	case constants.OutputFormatCSV:
		writer := csv.NewWriter(w)
		if err := writer.Write([]string{"annualRate", "year", "balance"}); err != nil {
			return err
		}
		for _, projection := range projections {
			for _, point := range projection.Points {
				record := []string{
					strconv.FormatFloat(projection.AnnualRate, 'f', -1, 64),
					strconv.Itoa(point.Year),
					amount(point.Balance),
				}
				if err := writer.Write(record); err != nil {
					return err
				}
			}
		}
		writer.Flush()
		return writer.Error()
	case constants.OutputFormatJSON:
		return JSONFormat(w, projections)
	case constants.OutputFormatYAML:
		return YAMLFormat(w, projections)
	}
	return fmt.Errorf("unsupported output format %s", outputFormat)
}

// WriteRules renders the rule table in the requested output format. CSV
// lists one row per bracket.
func WriteRules(w io.Writer, outputFormat string, rules []tax.Rule) error {
	switch outputFormat {
	case constants.OutputFormatPretty:
		var b strings.Builder
		for i, rule := range rules {
			if i > 0 {
				b.WriteString("\n")
			}
			writeRule(&b, rule)
		}
		_, err := io.WriteString(w, b.String())
		return err
	case constants.OutputFormatCSV:
		writer := csv.NewWriter(w)
		if err := writer.Write([]string{"countryId", "upTo", "rate"}); err != nil {
			return err
		}
		for _, rule := range rules {
			for _, bracket := range rule.Brackets {
				upTo := ""
				if !bracket.Unbounded() {
					upTo = amount(bracket.UpperBound)
				}
				if err := writer.Write([]string{string(rule.ID), upTo, strconv.FormatFloat(bracket.Rate, 'f', -1, 64)}); err != nil {
					return err
				}
			}
		}
		writer.Flush()
		return writer.Error()
	case constants.OutputFormatJSON:
		return JSONFormat(w, rules)
	case constants.OutputFormatYAML:
		return YAMLFormat(w, rules)
	}
	return fmt.Errorf("unsupported output format %s", outputFormat)
}

func writeProjectionTable(b *strings.Builder, p *message.Printer, projections []growth.Projection) {
	b.WriteString("Year")
	for _, projection := range projections {
		fmt.Fprintf(b, " | %s", format.Percent(projection.AnnualRate))
	}
	b.WriteString("\n")

	years := 0
	for _, projection := range projections {
		if len(projection.Points) > years {
			years = len(projection.Points)
		}
	}
	for i := 0; i < years; i++ {
		fmt.Fprintf(b, "%4d", i+1)
		for _, projection := range projections {
			if i < len(projection.Points) {
				_, _ = p.Fprintf(b, " | %.2f", projection.Points[i].Balance)
			} else {
				b.WriteString(" | ")
			}
		}
		b.WriteString("\n")
	}
}

func writeRule(b *strings.Builder, rule tax.Rule) {
	fmt.Fprintf(b, "--- %s (%s) ---\n", rule.Name, rule.ID)
	ss := rule.SocialSecurity
	fmt.Fprintf(b, "Social security: employee %s%s, employer %s%s\n",
		format.Percent(ss.EmployeeRate), capNote(ss.EmployeeCapBase),
		format.Percent(ss.EmployerRate), capNote(ss.EmployerCapBase))

	b.WriteString("Brackets:")
	lower := 0.0
	for _, bracket := range rule.Brackets {
		if bracket.Unbounded() {
			fmt.Fprintf(b, " [over %s: %s]", format.Currency(lower, format.EURReport), format.Percent(bracket.Rate))
			continue
		}
		fmt.Fprintf(b, " [%s-%s: %s]", format.Currency(lower, format.EURReport), format.Currency(bracket.UpperBound, format.EURReport), format.Percent(bracket.Rate))
		lower = bracket.UpperBound
	}
	b.WriteString("\n")

	switch allowance := rule.Allowance.(type) {
	case tax.FixedAllowance:
		fmt.Fprintf(b, "Allowance: %s (%s)\n", format.Currency(allowance.Amount, format.EURReport), rule.AllowanceApplication)
	case tax.PhaseOutAllowance:
		fmt.Fprintf(b, "Allowance: %s phasing out between %s and %s (%s)\n",
			format.Currency(allowance.FullAmount, format.EURReport),
			format.Currency(allowance.PhaseOutStart, format.EURReport),
			format.Currency(allowance.PhaseOutEnd, format.EURReport),
			rule.AllowanceApplication)
	case nil:
		b.WriteString("Allowance: none\n")
	}

	if rule.Source != "" {
		fmt.Fprintf(b, "Source: %s\n", rule.Source)
	}
}

func capNote(capBase *float64) string {
	if capBase == nil {
		return ""
	}
	return " capped at " + format.Currency(*capBase, format.EURReport)
}

func amount(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}
