package scout_test

import (
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/cboone/scout"
	"github.com/cboone/scout/htmldoc"
	"github.com/cboone/scout/internal/testsite"
)

const (
	shouldTimeoutHelperEnv = "SCOUT_SHOULD_TIMEOUT_HELPER"
	actTimeoutHelperEnv    = "SCOUT_ACT_TIMEOUT_HELPER"
)

func openList(t *testing.T, opts ...scout.Option) (*scout.Page, *htmldoc.Executor) {
	t.Helper()
	doc, err := htmldoc.NewString(testsite.Page("list.html"))
	require.NoError(t, err)
	return scout.Open(t, doc, opts...), doc
}

// runHelper re-runs the named test in a subprocess with env set and returns
// its combined output. The subprocess is expected to fail.
func runHelper(t *testing.T, name, env string) string {
	t.Helper()
	cmd := exec.Command(os.Args[0], "-test.run", "^"+name+"$")
	cmd.Env = append(os.Environ(), env+"=1")
	out, err := cmd.CombinedOutput()
	if err == nil {
		t.Fatalf("expected subprocess to fail, output:\n%s", string(out))
	}
	return string(out)
}

func TestShouldPasses(t *testing.T) {
	p, _ := openList(t)
	todos := p.S("#todo-list>li")

	c := p.Should(todos, scout.Have.ExactTexts("a", "b", "c urgent", "d"))
	assert.Equal(t, 4, c.Len())

	p.Should(todos, scout.Have.Length(4))
	p.Should(todos.Matching(".completed"), scout.Have.ExactTexts("a"))
	p.Should(todos, scout.Have.No().Texts("x", "y", "z", "w"))
	p.Should(p.S("#todo-list>li", scout.Visible()), scout.Have.Length(3))
	p.Should(p.S("todo-count"), scout.Have.TextCaseInsensitive("ITEMS LEFT"))
}

func TestShouldWaitsForRerender(t *testing.T) {
	p, doc := openList(t)
	todos := p.S("#todo-list>li")

	go func() {
		time.Sleep(100 * time.Millisecond)
		_ = doc.Replace(`<ul id="todo-list"><li>x</li><li>y</li></ul>`)
	}()

	// The same locator value is resolved afresh on every attempt.
	p.Should(todos, scout.Have.ExactTexts("x", "y"), scout.WithinTimeout(2*time.Second))
}

func TestShouldTimeout(t *testing.T) {
	if os.Getenv(shouldTimeoutHelperEnv) == "1" {
		p, _ := openList(t)
		p.Should(p.S("#todo-list>li"), scout.Have.ExactTexts("x"), scout.WithinTimeout(150*time.Millisecond))
		return
	}

	output := runHelper(t, "TestShouldTimeout", shouldTimeoutHelperEnv)
	if !strings.Contains(output, "scout: should: timed out after 150ms waiting for have.exactTexts(x)") {
		t.Fatalf("expected timeout message, got:\n%s", output)
	}
	if !strings.Contains(output, "#todo-list>li should have exact texts: '[x]'") {
		t.Fatalf("expected condition message, got:\n%s", output)
	}
	if !strings.Contains(output, "actual texts: '[a, b, c urgent, d]'") {
		t.Fatalf("expected actual texts, got:\n%s", output)
	}
}

func TestActTimeout(t *testing.T) {
	if os.Getenv(actTimeoutHelperEnv) == "1" {
		p, _ := openList(t, scout.WithTimeout(150*time.Millisecond))
		p.Click(p.S("missing"))
		return
	}

	output := runHelper(t, "TestActTimeout", actTimeoutHelperEnv)
	if !strings.Contains(output, "scout: click: timed out after 150ms waiting for missing to match at least one element") {
		t.Fatalf("expected click timeout message, got:\n%s", output)
	}
}

func TestCheck(t *testing.T) {
	p, _ := openList(t)

	out := p.Check(p.S("#todo-list>li"), scout.Have.ExactTexts("a", "b"))
	assert.False(t, out.Passed)
	assert.Equal(t, "[a, b, c urgent, d]", out.Actual)

	out = p.Check(p.S("#todo-list>li"), scout.Have.No().ExactTexts("a", "b"))
	assert.True(t, out.Passed)
}

func TestActions(t *testing.T) {
	p, _ := openList(t)
	input := p.S("new-todo")
	value := func() string {
		c := p.Elements(input)
		require.Len(t, c, 1)
		return c[0].(*htmldoc.Element).Attr("value")
	}

	p.Type(input, "milk")
	assert.Equal(t, "milk", value())
	p.SetValue(input, "eggs")
	assert.Equal(t, "eggs", value())
	p.Clear(input)
	assert.Equal(t, "", value())

	p.Click(p.S("todo-2").Find(".toggle"))
	p.Should(p.S("input.toggle[checked]"), scout.Have.Length(2))
}

func TestActionWaitsForTarget(t *testing.T) {
	p, doc := openList(t)

	go func() {
		time.Sleep(100 * time.Millisecond)
		_ = doc.Replace(`<input data-qa="late" type="checkbox">`)
	}()

	p.Click(p.S("late"), scout.WithinTimeout(2*time.Second))
	p.Should(p.S("input[checked]"), scout.Have.Length(1))
}

func TestOpenWithRegistry(t *testing.T) {
	r := scout.NewRegistry()
	r.Register(startsWith)
	p, _ := openList(t, scout.WithRegistry(r))

	assert.Same(t, r, p.Registry())
	assert.Same(t, r, scout.RegistryFrom(p.Context()))
	p.Should(p.S("#todo-list label"), scout.Have.Matcher("startsWith", ""))
}

func TestOpenWithLogger(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	p, _ := openList(t, scout.WithLogger(zap.New(core)))

	p.Should(p.S("todo-1"), scout.Have.Length(1))

	entries := logs.FilterMessage("condition met").All()
	require.Len(t, entries, 1)
	assert.Equal(t, "scout", entries[0].LoggerName)
	assert.Equal(t, "todo-1", entries[0].ContextMap()["locator"])

	// The executor has no logger of its own and logs through the page's.
	resolved := logs.FilterMessage("resolved").All()
	require.NotEmpty(t, resolved)
	assert.Equal(t, "scout.htmldoc", resolved[0].LoggerName)
	assert.Equal(t, "todo-1", resolved[0].ContextMap()["selector"])
}

func TestMatchSnapshot(t *testing.T) {
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(t.TempDir()))
	t.Cleanup(func() { _ = os.Chdir(wd) })
	p, _ := openList(t)
	todos := p.S("#todo-list>li").Find("label")

	t.Setenv("SCOUT_UPDATE", "1")
	p.MatchSnapshot(todos, "labels")

	matches, err := filepath.Glob(filepath.Join("testdata", "TestMatchSnapshot-*", "labels.txt"))
	require.NoError(t, err)
	require.Len(t, matches, 1)
	data, err := os.ReadFile(matches[0])
	require.NoError(t, err)
	assert.Equal(t, "<label>a</label>\n<label>b</label>\n<label> c </label>\n<label>d</label>\n", string(data))

	t.Setenv("SCOUT_UPDATE", "")
	p.MatchSnapshot(todos, "labels")
}
