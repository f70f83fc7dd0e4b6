package output

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"regexp"
	"strings"
	"testing"

	"github.com/iwvelando/salary-compare/internal/compare"
	"github.com/iwvelando/salary-compare/internal/config"
	"github.com/iwvelando/salary-compare/pkg/constants"
	"github.com/iwvelando/salary-compare/pkg/growth"
	"github.com/iwvelando/salary-compare/pkg/tax"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

func defaultReport(t *testing.T, grossSalary float64) *compare.Report {
	t.Helper()
	conf, err := config.DefaultConfiguration()
	if err != nil {
		t.Fatalf("DefaultConfiguration() error = %v", err)
	}
	table, err := conf.RuleTable()
	if err != nil {
		t.Fatalf("RuleTable() error = %v", err)
	}
	report, err := compare.NewComparator(zap.NewNop(), table, conf.Projection).Compare(grossSalary)
	if err != nil {
		t.Fatalf("Compare() error = %v", err)
	}
	return report
}

func defaultRules(t *testing.T) []tax.Rule {
	t.Helper()
	conf, err := config.DefaultConfiguration()
	if err != nil {
		t.Fatalf("DefaultConfiguration() error = %v", err)
	}
	table, err := conf.RuleTable()
	if err != nil {
		t.Fatalf("RuleTable() error = %v", err)
	}
	return table.Rules()
}

func TestPrettyFormat(t *testing.T) {
	var buf bytes.Buffer
	if err := PrettyFormat(&buf, defaultReport(t, 30000)); err != nil {
		t.Fatalf("PrettyFormat() error = %v", err)
	}
	output := buf.String()

	expected := []string{
		"--- Results for gross salary 30,000.00 ---",
		"Jurisdiction | Employee SS | Income tax | Net salary | Net monthly | Employer SS | Employer cost | Total tax",
		"España (ES) | 1,941.00 | 5,528.70 | 22,530.30 |",
		"Andorra (AD) | 1,950.00 | 202.50 | 27,847.50 |",
		"Estonia (EE) | 1,080.00 | 5,784.00 | 23,136.00 |",
		"Andorra leaves 5,317.20 € more per year than España (443.10 € per month)",
		"Year | 5% | 2%",
		"Sources: ES: AEAT / Seg. Social (2024)",
	}
	for _, want := range expected {
		if !strings.Contains(output, want) {
			t.Errorf("PrettyFormat output missing %q\n%s", want, output)
		}
	}

	// Every amount uses comma grouping and a decimal point.
	if spanishStyleNumber.MatchString(output) {
		t.Errorf("PrettyFormat mixes number styles: %q\n%s", spanishStyleNumber.FindString(output), output)
	}
}

var spanishStyleNumber = regexp.MustCompile(`\d\.\d{3}\b|\d,\d{2}\b[^\d]`)

func TestPrettyFormatSingleJurisdiction(t *testing.T) {
	report := &compare.Report{
		GrossSalary: 1000,
		Results: []tax.Result{
			{CountryID: "XX", GrossSalary: 1000, NetSalary: 900, IncomeTax: 100, TotalTax: 100, EmployerCost: 1000},
		},
	}

	var buf bytes.Buffer
	if err := PrettyFormat(&buf, report); err != nil {
		t.Fatalf("PrettyFormat() error = %v", err)
	}
	output := buf.String()

	if !strings.Contains(output, "XX (XX) | 0.00 | 100.00 | 900.00 | 75.00 |") {
		t.Errorf("PrettyFormat missing row for XX\n%s", output)
	}
	if strings.Contains(output, "more per year") {
		t.Error("PrettyFormat should not compare a single jurisdiction")
	}
	if strings.Contains(output, "Year |") {
		t.Error("PrettyFormat should not print an empty projection table")
	}
	if strings.Contains(output, "Sources:") {
		t.Error("PrettyFormat should not print sources when none are set")
	}
}

func TestCsvFormat(t *testing.T) {
	var buf bytes.Buffer
	if err := CsvFormat(&buf, defaultReport(t, 30000)); err != nil {
		t.Fatalf("CsvFormat() error = %v", err)
	}

	records, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("CSV output does not parse: %v", err)
	}
	if len(records) != 4 {
		t.Fatalf("expected header plus 3 rows, got %d records", len(records))
	}
	if records[0][0] != "countryId" || records[0][5] != "netSalary" {
		t.Errorf("unexpected header %v", records[0])
	}

	es := records[1]
	expected := map[int]string{
		0: "ES",
		1: "España",
		2: "30000.00",
		3: "1941.00",
		4: "5528.70",
		5: "22530.30",
		7: "9144.00",
		8: "39144.00",
		9: "16613.70",
	}
	for column, want := range expected {
		if es[column] != want {
			t.Errorf("ES column %s = %s, want %s", records[0][column], es[column], want)
		}
	}
}

func TestJSONFormat(t *testing.T) {
	var buf bytes.Buffer
	if err := JSONFormat(&buf, defaultReport(t, 30000)); err != nil {
		t.Fatalf("JSONFormat() error = %v", err)
	}

	var decoded struct {
		GrossSalary float64      `json:"grossSalary"`
		Best        tax.Result   `json:"best"`
		Results     []tax.Result `json:"results"`
		Projections []growth.Projection
	}
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("JSON output does not parse: %v", err)
	}
	if decoded.GrossSalary != 30000 {
		t.Errorf("grossSalary = %v, want 30000", decoded.GrossSalary)
	}
	if decoded.Best.CountryID != "AD" {
		t.Errorf("best = %s, want AD", decoded.Best.CountryID)
	}
	if len(decoded.Results) != 3 {
		t.Errorf("expected 3 results, got %d", len(decoded.Results))
	}
	if len(decoded.Projections) != 2 {
		t.Errorf("expected 2 projections, got %d", len(decoded.Projections))
	}
}

func TestYAMLFormat(t *testing.T) {
	var buf bytes.Buffer
	if err := YAMLFormat(&buf, defaultReport(t, 30000)); err != nil {
		t.Fatalf("YAMLFormat() error = %v", err)
	}

	var decoded struct {
		GrossSalary float64 `yaml:"grossSalary"`
		Worst       struct {
			CountryID string `yaml:"countryId"`
		} `yaml:"worst"`
	}
	if err := yaml.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("YAML output does not parse: %v", err)
	}
	if decoded.GrossSalary != 30000 {
		t.Errorf("grossSalary = %v, want 30000", decoded.GrossSalary)
	}
	if decoded.Worst.CountryID != "ES" {
		t.Errorf("worst = %s, want ES", decoded.Worst.CountryID)
	}
}

func TestWrite(t *testing.T) {
	report := defaultReport(t, 30000)
	for _, format := range []string{
		constants.OutputFormatPretty,
		constants.OutputFormatCSV,
		constants.OutputFormatJSON,
		constants.OutputFormatYAML,
	} {
		t.Run(format, func(t *testing.T) {
			var buf bytes.Buffer
			if err := Write(&buf, format, report); err != nil {
				t.Fatalf("Write(%s) error = %v", format, err)
			}
			if buf.Len() == 0 {
				t.Errorf("Write(%s) produced no output", format)
			}
		})
	}

	var buf bytes.Buffer
	if err := Write(&buf, "xml", report); err == nil {
		t.Error("expected error for unsupported format")
	}
}

func TestWriteProjections(t *testing.T) {
	projections := growth.Project(100, 1, 0.12)

	var pretty bytes.Buffer
	if err := WriteProjections(&pretty, constants.OutputFormatPretty, projections); err != nil {
		t.Fatalf("WriteProjections(pretty) error = %v", err)
	}
	if !strings.Contains(pretty.String(), "Year | 12%") {
		t.Errorf("missing projection header\n%s", pretty.String())
	}
	if !strings.Contains(pretty.String(), "   1 | 1,280.93") {
		t.Errorf("missing first year balance\n%s", pretty.String())
	}

	var buf bytes.Buffer
	if err := WriteProjections(&buf, constants.OutputFormatCSV, projections); err != nil {
		t.Fatalf("WriteProjections(csv) error = %v", err)
	}
	records, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("CSV output does not parse: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("expected header plus 1 row, got %d", len(records))
	}
	if records[1][0] != "0.12" || records[1][1] != "1" || records[1][2] != "1280.93" {
		t.Errorf("unexpected row %v", records[1])
	}

	if err := WriteProjections(&buf, "xml", projections); err == nil {
		t.Error("expected error for unsupported format")
	}
}

func TestWriteProjectionsUneven(t *testing.T) {
	projections := []growth.Projection{
		{AnnualRate: 0.05, Points: growth.CompoundGrowth(100, 2, 0.05)},
		{AnnualRate: 0.02, Points: growth.CompoundGrowth(100, 1, 0.02)},
	}

	var buf bytes.Buffer
	if err := WriteProjections(&buf, constants.OutputFormatPretty, projections); err != nil {
		t.Fatalf("WriteProjections() error = %v", err)
	}
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected header plus 2 years, got %d lines\n%s", len(lines), buf.String())
	}
	if !strings.HasSuffix(lines[2], "|") {
		t.Errorf("second year should leave the shorter projection blank, got %q", lines[2])
	}
}

func TestWriteRules(t *testing.T) {
	rules := defaultRules(t)

	var pretty bytes.Buffer
	if err := WriteRules(&pretty, constants.OutputFormatPretty, rules); err != nil {
		t.Fatalf("WriteRules(pretty) error = %v", err)
	}
	expected := []string{
		"--- España (ES) ---",
		"Social security: employee 6.47% capped at 56,640.00 €, employer 30.48% capped at 56,640.00 €",
		"[0.00 €-12,450.00 €: 19%]",
		"[over 300,000.00 €: 47%]",
		"Allowance: 5,550.00 € (SUBTRACT_TAX_ON_ALLOWANCE)",
		"--- Andorra (AD) ---",
		"Allowance: none",
		"Allowance: 7,848.00 € phasing out between 14,400.00 € and 25,200.00 € (SUBTRACT_FROM_BASE)",
		"Source: EMTA Estonia (2024)",
	}
	for _, want := range expected {
		if !strings.Contains(pretty.String(), want) {
			t.Errorf("WriteRules output missing %q\n%s", want, pretty.String())
		}
	}
	if spanishStyleNumber.MatchString(pretty.String()) {
		t.Errorf("WriteRules mixes number styles: %q", spanishStyleNumber.FindString(pretty.String()))
	}

	var buf bytes.Buffer
	if err := WriteRules(&buf, constants.OutputFormatCSV, rules); err != nil {
		t.Fatalf("WriteRules(csv) error = %v", err)
	}
	records, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("CSV output does not parse: %v", err)
	}
	// ES 6 brackets, AD 3, EE 1
	if len(records) != 11 {
		t.Fatalf("expected header plus 10 brackets, got %d records", len(records))
	}
	if records[1][0] != "ES" || records[1][1] != "12450.00" || records[1][2] != "0.19" {
		t.Errorf("unexpected first bracket %v", records[1])
	}
	if records[10][0] != "EE" || records[10][1] != "" || records[10][2] != "0.2" {
		t.Errorf("unexpected last bracket %v", records[10])
	}

	buf.Reset()
	if err := WriteRules(&buf, constants.OutputFormatJSON, rules); err != nil {
		t.Fatalf("WriteRules(json) error = %v", err)
	}
	if !strings.Contains(buf.String(), `"upperBound": null`) {
		t.Errorf("unbounded bracket should encode as null\n%s", buf.String())
	}

	buf.Reset()
	if err := WriteRules(&buf, constants.OutputFormatYAML, rules); err != nil {
		t.Fatalf("WriteRules(yaml) error = %v", err)
	}
	if !strings.Contains(buf.String(), "id: AD") {
		t.Errorf("YAML output missing AD\n%s", buf.String())
	}
}
