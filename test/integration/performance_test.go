package integration

import (
	"testing"
	"time"

	"github.com/iwvelando/salary-compare/pkg/validation"
)

// TestPerformance sweeps the whole selectable salary range
func TestPerformance(t *testing.T) {
	conf, comparator := loadExample(t)
	s := conf.Salary

	start := time.Now()
	count := 0
	for gross := s.Min; gross <= s.Max; gross += s.Step {
		if _, err := comparator.Compare(validation.ClampSalary(gross, s.Min, s.Max, s.Step)); err != nil {
			t.Fatalf("Compare(%.0f) failed: %v", gross, err)
		}
		count++
	}
	elapsed := time.Since(start)

	t.Logf("Compared %d salaries in %v", count, elapsed)

	if count != 136 {
		t.Errorf("expected 136 salaries between %.0f and %.0f, got %d", s.Min, s.Max, count)
	}
	if elapsed > 5*time.Second {
		t.Errorf("sweep took %v, exceeds 5 second threshold", elapsed)
	}
}

// TestNetSalaryMonotonic checks a raise never lowers the net salary anywhere
func TestNetSalaryMonotonic(t *testing.T) {
	_, comparator := loadExample(t)

	previous := map[string]float64{}
	for gross := 0.0; gross <= 400000; gross += 250 {
		report, err := comparator.Compare(gross)
		if err != nil {
			t.Fatalf("Compare(%.0f) failed: %v", gross, err)
		}
		for _, r := range report.Results {
			id := string(r.CountryID)
			if last, ok := previous[id]; ok && r.NetSalary < last-1e-9 {
				t.Errorf("%s: net salary dropped from %.4f to %.4f at %.0f", id, last, r.NetSalary, gross)
			}
			previous[id] = r.NetSalary
		}
	}
}

func BenchmarkCompare(b *testing.B) {
	_, comparator := loadExample(b)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := comparator.Compare(35000); err != nil {
			b.Fatal(err)
		}
	}
}
