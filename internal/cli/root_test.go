package cli

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/codalotl/halmos-report/internal/types"
	"github.com/codalotl/halmos-report/internal/value"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func runCLI(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	root := newRootCmd()
	root.SetOut(&stdout)
	root.SetErr(&stderr)
	root.SetArgs(append([]string{"--color=never"}, args...))
	_, err := root.ExecuteC()
	return stdout.String(), stderr.String(), err
}

func fixture() string {
	return filepath.Join("testdata", "perp.json")
}

func TestDefaultCommandPrintsCounterexamples(t *testing.T) {
	out, _, err := runCLI(t, fixture())
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(out, "Analyzing Halmos output from "+fixture()+"\n"))
	require.Contains(t, out, "Contract: test/Perp.t.sol:PerpTest")
	require.Contains(t, out, "Counterexamples:")
	require.Contains(t, out, "selector = 0xbb4fc585 (openMakerPosition)")
	require.Contains(t, out, "delta = -1")
	require.Contains(t, out, "Overall Exit Code: 1")
}

func TestCounterexamplesFilters(t *testing.T) {
	out, _, err := runCLI(t, "cex", "--contracts", "test/Account.t.sol:AccountTest", fixture())
	require.NoError(t, err)
	require.Contains(t, out, "check_deposit(uint256)")
	require.NotContains(t, out, "PerpTest")

	out, _, err = runCLI(t, "counterexamples", "--failed-only", fixture())
	require.NoError(t, err)
	require.Contains(t, out, "check_openMakerPosition")
	require.NotContains(t, out, "check_closeMakerPosition")
	require.NotContains(t, out, "AccountTest")
}

func TestSummaryCommand(t *testing.T) {
	out, _, err := runCLI(t, "summary", fixture())
	require.NoError(t, err)
	require.Contains(t, out, "Test Results Summary:")
	require.Contains(t, out, strings.Repeat("=", 60))
	require.Contains(t, out, "    Num Models (Counterexamples): 1\n")
	require.Contains(t, out, "    Num Paths: [4, 3, 0]\n")
	require.Contains(t, out, "    Time: 2.35s\n")
	require.NotContains(t, out, "Parameters:")
}

func TestTableCommand(t *testing.T) {
	out, _, err := runCLI(t, "table", fixture())
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 4)
	require.True(t, strings.HasPrefix(lines[0], "contract,test,exitcode"))
}

func TestTableMergesDirectory(t *testing.T) {
	dir := t.TempDir()
	data, err := os.ReadFile(fixture())
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.json"), data, 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "b.json"), data, 0o644))

	out, _, err := runCLI(t, "table", dir)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 7)
	require.Equal(t, 1, strings.Count(out, "contract,test"))
}

func TestBannerShowsPathAsGiven(t *testing.T) {
	out, _, err := runCLI(t, "summary", "testdata")
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(out, "Analyzing Halmos output from "+filepath.Join("testdata", "perp.json")+"\n"))

	require.Equal(t, "halmos/out/halmos_test.json", displayPath("halmos/out/halmos_test.json", "/p/halmos/out/halmos_test.json", "/p/halmos/out/halmos_test.json"))
	require.Equal(t, filepath.Join("out", "b", "r.json"), displayPath("out", "/p/out", "/p/out/b/r.json"))
}

func TestFormatCommand(t *testing.T) {
	out, _, err := runCLI(t, "format", "bytes4", "0xbb4fc585", "--name", "selector")
	require.NoError(t, err)
	require.Equal(t, "0xbb4fc585 (openMakerPosition)\n", out)

	out, _, err = runCLI(t, "format", "int8", "255")
	require.NoError(t, err)
	require.Equal(t, "-1\n", out)

	_, _, err = runCLI(t, "format", "intQ", "1")
	var decodeErr *value.DecodeError
	require.True(t, errors.As(err, &decodeErr))

	_, _, err = runCLI(t, "format", "uint256", "nope")
	require.ErrorContains(t, err, "invalid value")
}

func TestConfigSelectorsAndVerboseLogging(t *testing.T) {
	cfgPath := filepath.Join(t.TempDir(), "cfg.yml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("log-level: warn\nselectors:\n  \"0x12345678\": deposit\n"), 0o644))

	out, stderr, err := runCLI(t, "--config", cfgPath, "format", "bytes4", "0x12345678", "--name=selector")
	require.NoError(t, err)
	require.Equal(t, "0x12345678 (deposit)\n", out)
	require.Empty(t, stderr)

	_, stderr, err = runCLI(t, "--config", cfgPath, "-v", "summary", fixture())
	require.NoError(t, err)
	require.Contains(t, stderr, "report decoded")
}

func TestMissingReport(t *testing.T) {
	_, _, err := runCLI(t, filepath.Join(t.TempDir(), "missing.json"))
	require.ErrorContains(t, err, "report not found")
}

func TestMalformedReport(t *testing.T) {
	path := filepath.Join(t.TempDir(), "r.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"test_results": {}}`), 0o644))
	_, _, err := runCLI(t, path)
	var missing *types.MissingKeyError
	require.True(t, errors.As(err, &missing))
}

func TestInvalidColor(t *testing.T) {
	_, _, err := runCLI(t, "--color=purple", "summary", fixture())
	require.ErrorContains(t, err, "color must be one of")
}

func TestWithEnvFlags(t *testing.T) {
	args, err := withEnvFlags(`--contracts "A B" --failed-only`, []string{"summary", "r.json"})
	require.NoError(t, err)
	require.Equal(t, []string{"--contracts", "A B", "--failed-only", "summary", "r.json"}, args)

	args, err = withEnvFlags("  ", []string{"x"})
	require.NoError(t, err)
	require.Equal(t, []string{"x"}, args)

	_, err = withEnvFlags(`--contracts "unterminated`, nil)
	require.ErrorContains(t, err, flagsEnvVar)
}

func TestShouldShowUsage(t *testing.T) {
	require.True(t, shouldShowUsage(errors.New("unknown command \"x\" for \"halmos-report\"")))
	require.True(t, shouldShowUsage(errors.New("accepts at most 1 arg(s), received 2")))
	require.False(t, shouldShowUsage(errors.New("report not found at x")))
}
