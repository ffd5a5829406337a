package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/terraincognita07/lunacycle/internal/models"
)

const testSecretKey = "0123456789abcdef0123456789abcdef"

// newTestEnvironment points the config at a temp sqlite file and returns the
// path of a config file that does not exist.
func newTestEnvironment(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()

	t.Setenv("STORE", "sqlite")
	t.Setenv("DB_PATH", filepath.Join(dir, "lunacycle-cli-test.db"))
	t.Setenv("SECRET_KEY", testSecretKey)
	t.Setenv("LOGS_PATH", "")
	t.Setenv("TZ", "UTC")
	return filepath.Join(dir, "missing.toml")
}

func runCommand(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()

	rootCmd := NewRootCommand()
	var output bytes.Buffer
	rootCmd.SetOut(&output)
	rootCmd.SetErr(&output)
	rootCmd.SetIn(strings.NewReader(stdin))
	rootCmd.SetArgs(args)

	err := rootCmd.Execute()
	return output.String(), err
}

func TestTokenCommandMintsVerifiableToken(t *testing.T) {
	configPath := newTestEnvironment(t)

	output, err := runCommand(t, "", "--config", configPath, "token", "--user", "user-1")
	if err != nil {
		t.Fatalf("token command failed: %v", err)
	}

	claims := jwt.MapClaims{}
	_, err = jwt.ParseWithClaims(strings.TrimSpace(output), claims, func(*jwt.Token) (interface{}, error) {
		return []byte(testSecretKey), nil
	})
	if err != nil {
		t.Fatalf("parse minted token: %v", err)
	}
	if claims["uid"] != "user-1" {
		t.Fatalf("expected uid claim user-1, got %#v", claims["uid"])
	}
}

func TestTokenCommandRejectsInsecureSecret(t *testing.T) {
	configPath := newTestEnvironment(t)
	t.Setenv("SECRET_KEY", "change_me_in_production")

	if _, err := runCommand(t, "", "--config", configPath, "token", "--user", "user-1"); err == nil {
		t.Fatal("expected placeholder secret to be rejected")
	}
}

func TestTokenCommandRequiresUser(t *testing.T) {
	configPath := newTestEnvironment(t)

	if _, err := runCommand(t, "", "--config", configPath, "token"); err == nil {
		t.Fatal("expected missing --user to fail")
	}
}

func TestImportThenStats(t *testing.T) {
	configPath := newTestEnvironment(t)

	document := models.PeriodDocument{Periods: []models.PeriodInterval{
		{ID: "jan", StartDate: mustDay(t, "2024-01-01"), EndDate: mustDay(t, "2024-01-05"), Flow: models.FlowMedium},
		{ID: "feb", StartDate: mustDay(t, "2024-01-29"), EndDate: mustDay(t, "2024-02-02"), Flow: models.FlowHeavy},
	}}
	payload, err := models.EncodePeriodDocument(document)
	if err != nil {
		t.Fatalf("encode document: %v", err)
	}
	documentPath := filepath.Join(t.TempDir(), "periods.json")
	if err := os.WriteFile(documentPath, payload, 0o600); err != nil {
		t.Fatalf("write document: %v", err)
	}

	output, err := runCommand(t, "", "--config", configPath, "import", "--user", "user-1", "--file", documentPath)
	if err != nil {
		t.Fatalf("import command failed: %v", err)
	}
	if !strings.Contains(output, "imported 2 periods for user-1") {
		t.Fatalf("unexpected import output %q", output)
	}

	output, err = runCommand(t, "", "--config", configPath, "stats", "--user", "user-1", "--month", "2024-02")
	if err != nil {
		t.Fatalf("stats command failed: %v", err)
	}

	report := statsReport{}
	if err := json.Unmarshal([]byte(output), &report); err != nil {
		t.Fatalf("decode stats output %q: %v", output, err)
	}
	if report.Periods != 2 || !report.Available || report.Statistics == nil {
		t.Fatalf("unexpected report: %+v", report)
	}
	if report.Statistics.MedianCycleLength != 28 {
		t.Fatalf("expected median cycle 28, got %d", report.Statistics.MedianCycleLength)
	}
	if report.Prediction.NextPeriodStart != "2024-02-26" || report.Prediction.OvulationDay != "2024-02-12" {
		t.Fatalf("unexpected prediction: %+v", report.Prediction)
	}
}

func TestImportReadsStdinAndRejectsMalformedDocument(t *testing.T) {
	configPath := newTestEnvironment(t)

	_, err := runCommand(t, `{"periods":[{"id":"","start_date":"2024-01-01","end_date":"2024-01-02","flow":"light"}]}`,
		"--config", configPath, "import", "--user", "user-1")
	if err == nil {
		t.Fatal("expected malformed document to be rejected")
	}
}

func TestStatsWithoutHistoryReportsReason(t *testing.T) {
	configPath := newTestEnvironment(t)

	output, err := runCommand(t, "", "--config", configPath, "stats", "--user", "nobody", "--month", "2024-02")
	if err != nil {
		t.Fatalf("stats command failed: %v", err)
	}

	report := statsReport{}
	if err := json.Unmarshal([]byte(output), &report); err != nil {
		t.Fatalf("decode stats output: %v", err)
	}
	if report.Available || report.Reason == "" || report.Periods != 0 {
		t.Fatalf("expected unavailable report with reason, got %+v", report)
	}
}

func TestStatsRejectsBadMonth(t *testing.T) {
	configPath := newTestEnvironment(t)

	if _, err := runCommand(t, "", "--config", configPath, "stats", "--user", "user-1", "--month", "02/2024"); err == nil {
		t.Fatal("expected invalid month to fail")
	}
}

func mustDay(t *testing.T, raw string) time.Time {
	t.Helper()
	day, err := models.ParseCalendarDate(raw)
	if err != nil {
		t.Fatalf("parse %q: %v", raw, err)
	}
	return day
}
