package cli

import (
	"context"
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"

	"github.com/leapstack-labs/vela/internal/cli/commands"
	"github.com/leapstack-labs/vela/internal/cli/config"
	"github.com/leapstack-labs/vela/internal/cli/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, stdin string, args ...string) testutil.Result {
	t.Helper()
	config.ResetConfig()
	return testutil.Execute(NewRootCmd(), stdin, args...)
}

func TestRun(t *testing.T) {
	dir := testutil.SetupTestProject(t)
	path := testutil.WriteScript(t, dir, "hello.vl", `
fun greet(name) {
  return "hello " + name;
}
var msg = greet("vela");
print(msg, 1 + 2);
print([1, "two"]);
`)

	res := execute(t, "", "run", path)
	require.NoError(t, res.Err)
	assert.Equal(t, "hello vela 3\n[\n  1,\n  \"two\"\n]\n", res.Out)
	assert.Empty(t, res.ErrOut)
}

func TestRun_Stdin(t *testing.T) {
	testutil.SetupTestProject(t)

	res := execute(t, `print(upper("piped"));`, "run", "-")
	require.NoError(t, res.Err)
	assert.Equal(t, "PIPED\n", res.Out)
}

func TestRun_RuntimeError(t *testing.T) {
	dir := testutil.SetupTestProject(t)
	path := testutil.WriteScript(t, dir, "ghost.vl", "print(\"before\");\nprint(ghost);\nprint(\"after\");\n")

	res := execute(t, "", "run", path)
	require.Error(t, res.Err)
	assert.True(t, commands.IsReported(res.Err))

	assert.Equal(t, "before\n", res.Out, "output before the failure stays, nothing after runs")
	assert.Contains(t, res.ErrOut, `undefined variable "ghost"`)
	assert.Contains(t, res.ErrOut, "2 | print(ghost);")
	assert.Contains(t, res.ErrOut, "  |       ^")
	testutil.AssertNoANSI(t, res.ErrOut)
}

func TestRun_SyntaxErrorRunsNothing(t *testing.T) {
	dir := testutil.SetupTestProject(t)
	path := testutil.WriteScript(t, dir, "bad.vl", "print(\"never\");\nvar = 1;\n")

	res := execute(t, "", "run", path)
	require.Error(t, res.Err)
	assert.Empty(t, res.Out)
	assert.Contains(t, res.ErrOut, "parse error at line 2, column 5")
}

func TestRun_MissingFile(t *testing.T) {
	testutil.SetupTestProject(t)

	res := execute(t, "", "run", "nope.vl")
	require.Error(t, res.Err)
	assert.False(t, commands.IsReported(res.Err))
	assert.Contains(t, res.Err.Error(), "failed to read script")
}

func TestRun_ExtensionsFlag(t *testing.T) {
	dir := testutil.SetupTestProject(t)
	path := testutil.WriteScript(t, dir, "ext.vl", `print(sum(1, 2));`)

	res := execute(t, "", "run", "--extensions", "utils", path)
	require.Error(t, res.Err)
	assert.Contains(t, res.ErrOut, `undefined variable "sum"`)

	res = execute(t, "", "run", "--extensions", "nope", path)
	require.Error(t, res.Err)
	assert.Contains(t, res.Err.Error(), `unknown extension "nope"`)
}

func TestRun_MaxCallDepth(t *testing.T) {
	dir := testutil.SetupTestProject(t)
	path := testutil.WriteScript(t, dir, "loop.vl", `fun f() { return f(); } f();`)

	res := execute(t, "", "run", "--max-call-depth", "50", path)
	require.Error(t, res.Err)
	assert.Contains(t, res.ErrOut, "LimitError")
}

func TestRun_StorePersists(t *testing.T) {
	dir := testutil.SetupTestProject(t)
	write := testutil.WriteScript(t, dir, "write.vl", `store_set("visits", { count: 3 });`)
	read := testutil.WriteScript(t, dir, "read.vl", `var v = store_get("visits"); print(v.count);`)
	db := filepath.Join(dir, "state.db")

	res := execute(t, "", "run", "--store", db, write)
	require.NoError(t, res.Err)

	res = execute(t, "", "run", "--store", db, read)
	require.NoError(t, res.Err)
	assert.Equal(t, "3\n", res.Out)
}

func TestRun_WatchReportsSetupErrors(t *testing.T) {
	dir := testutil.SetupTestProject(t)
	path := testutil.WriteScript(t, dir, "w.vl", `print("hi");`)
	// A store path below a regular file cannot be opened.
	badStore := filepath.Join(path, "state.db")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	config.ResetConfig()
	root := NewRootCmd()
	root.SetContext(ctx)
	res := testutil.Execute(root, "", "run", "--watch", "--store", badStore, path)

	require.NoError(t, res.Err, "watch mode stops cleanly once the context is done")
	assert.Contains(t, res.Out, "watching")
	assert.Contains(t, res.ErrOut, "error: ")
	assert.Contains(t, res.ErrOut, "open store")
}

func TestCheck(t *testing.T) {
	dir := testutil.SetupTestProject(t)
	good := testutil.WriteScript(t, dir, "good.vl", "print(ghost);\n")
	bad := testutil.WriteScript(t, dir, "bad.vl", "print(\"open);\n")

	res := execute(t, "", "check", good)
	require.NoError(t, res.Err)
	assert.Contains(t, res.Out, "good.vl")
	assert.Empty(t, res.ErrOut)

	res = execute(t, "", "check", good, bad)
	require.Error(t, res.Err)
	assert.True(t, commands.IsReported(res.Err))
	assert.Contains(t, res.Err.Error(), "1 of 2 files failed")
	assert.Contains(t, res.ErrOut, "unterminated string literal")
}

func TestCheck_JSON(t *testing.T) {
	dir := testutil.SetupTestProject(t)
	good := testutil.WriteScript(t, dir, "good.vl", "var x = 1;\n")
	bad := testutil.WriteScript(t, dir, "bad.vl", "var x = 1;\nvar = 2;\n")

	res := execute(t, "", "check", "-o", "json", good, bad)
	require.Error(t, res.Err)

	var results []struct {
		File   string `json:"file"`
		OK     bool   `json:"ok"`
		Error  string `json:"error"`
		Line   int    `json:"line"`
		Column int    `json:"column"`
	}
	require.NoError(t, json.Unmarshal([]byte(res.Out), &results))
	require.Len(t, results, 2)

	assert.Equal(t, good, results[0].File)
	assert.True(t, results[0].OK)
	assert.Equal(t, bad, results[1].File)
	assert.False(t, results[1].OK)
	assert.Equal(t, 2, results[1].Line)
	assert.Equal(t, 5, results[1].Column)
}

func TestTokens(t *testing.T) {
	dir := testutil.SetupTestProject(t)
	path := testutil.WriteScript(t, dir, "t.vl", `var x = 1;`)

	res := execute(t, "", "tokens", "-o", "json", path)
	require.NoError(t, res.Err)

	var toks []struct {
		Kind   string `json:"kind"`
		Text   string `json:"text"`
		Line   int    `json:"line"`
		Column int    `json:"column"`
	}
	require.NoError(t, json.Unmarshal([]byte(res.Out), &toks))
	require.Len(t, toks, 6)
	assert.Equal(t, "Keyword", toks[0].Kind)
	assert.Equal(t, "var", toks[0].Text)
	assert.Equal(t, "Identifier", toks[1].Kind)
	assert.Equal(t, 5, toks[1].Column)
	assert.Equal(t, "EndOfInput", toks[5].Kind)

	res = execute(t, "", "tokens", path)
	require.NoError(t, res.Err)
	assert.Contains(t, res.Out, "Keyword")
	assert.Contains(t, res.Out, "1:5")
	testutil.AssertNoANSI(t, res.Out)
}

func TestAST(t *testing.T) {
	dir := testutil.SetupTestProject(t)
	path := testutil.WriteScript(t, dir, "a.vl", `val x = 1;`)

	res := execute(t, "", "ast", path)
	require.NoError(t, res.Err)
	assert.True(t, strings.HasPrefix(res.Out, "kind: Program\n"), res.Out)
	assert.Contains(t, res.Out, "kind: VariableDeclaration")
	assert.Contains(t, res.Out, "constant: true")

	res = execute(t, "", "ast", "--format", "json", path)
	require.NoError(t, res.Err)
	var tree map[string]any
	require.NoError(t, json.Unmarshal([]byte(res.Out), &tree))
	assert.Equal(t, "Program", tree["kind"])

	res = execute(t, "", "ast", "--format", "xml", path)
	require.Error(t, res.Err)
	assert.Contains(t, res.Err.Error(), "invalid format")
}

func TestREPL(t *testing.T) {
	testutil.SetupTestProject(t)

	input := strings.Join([]string{
		`var x = 40`,
		`+ 2;`,
		`fun twice(n) {`,
		`  return n * 2;`,
		`}`,
		`print(twice(x));`,
		`print(ghost);`,
		`.vars`,
		`.quit`,
		`print("unreachable");`,
	}, "\n")

	res := execute(t, input, "repl")
	require.NoError(t, res.Err)
	assert.Contains(t, res.Out, "84\n")
	assert.NotContains(t, res.Out, "unreachable")
	assert.Contains(t, res.Out, "twice")
	assert.Contains(t, res.ErrOut, `undefined variable "ghost"`)
}

func TestREPL_InputSharesStdin(t *testing.T) {
	testutil.SetupTestProject(t)

	input := "var n = input(\"name? \");\nhello\nprint(\"got:\" + n);\n"
	res := execute(t, input, "repl", "--extensions", "utils,input")
	require.NoError(t, res.Err)
	assert.Empty(t, res.ErrOut)
	assert.Equal(t, "name? got:hello\n", res.Out)
}

func TestREPL_Reset(t *testing.T) {
	testutil.SetupTestProject(t)

	res := execute(t, "var x = 1;\n.reset\nprint(x);\n.bogus\n", "repl")
	require.NoError(t, res.Err)
	assert.Contains(t, res.ErrOut, `undefined variable "x"`)
	assert.Contains(t, res.ErrOut, "unknown command: .bogus")
}

func TestExtensions(t *testing.T) {
	testutil.SetupTestProject(t)

	res := execute(t, "", "extensions", "-o", "json")
	require.NoError(t, res.Err)

	var infos []struct {
		Name     string   `json:"name"`
		Enabled  bool     `json:"enabled"`
		Provides []string `json:"provides"`
	}
	require.NoError(t, json.Unmarshal([]byte(res.Out), &infos))

	byName := map[string]bool{}
	for _, info := range infos {
		byName[info.Name] = info.Enabled
		if info.Name == "utils" {
			assert.Contains(t, info.Provides, "print")
		}
	}
	assert.True(t, byName["utils"])
	assert.False(t, byName["http"], "http is not enabled by the test project")
}

func TestVersion(t *testing.T) {
	testutil.SetupTestProject(t)

	res := execute(t, "", "version")
	require.NoError(t, res.Err)
	assert.Contains(t, res.Out, "Vela v"+Version)
}

func TestCompletion(t *testing.T) {
	res := execute(t, "", "completion", "bash")
	require.NoError(t, res.Err)
	assert.Contains(t, res.Out, "vela")
}
