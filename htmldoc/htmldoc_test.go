package htmldoc_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cboone/scout"
	"github.com/cboone/scout/htmldoc"
	"github.com/cboone/scout/internal/testsite"
)

func newList(t *testing.T) *htmldoc.Executor {
	t.Helper()
	doc, err := htmldoc.NewString(testsite.Page("list.html"))
	require.NoError(t, err)
	return doc
}

func texts(t *testing.T, doc *htmldoc.Executor, loc scout.Locator) []string {
	t.Helper()
	c, err := loc.Resolve(context.Background(), doc)
	require.NoError(t, err)
	return c.Texts()
}

func TestResolveSelectorKinds(t *testing.T) {
	doc := newList(t)

	tests := []struct {
		name     string
		selector string
		want     []string
	}{
		{"css", "#todo-list>li", []string{"a", "b", "c urgent", "d"}},
		{"attribute id", "todo-2", []string{"b"}},
		{"text deepest element", "text=urgent", []string{"urgent"}},
		{"text with nested markup", "text=items left", []string{"2 items left"}},
		{"xpath", "//ul[@id='todo-list']/li/label", []string{"a", "b", "c", "d"}},
		{"no match", ".missing", []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := texts(t, doc, scout.By(tt.selector))
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("texts mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestResolveRefinements(t *testing.T) {
	doc := newList(t)
	todos := scout.By("#todo-list>li")

	tests := []struct {
		name string
		loc  scout.Locator
		want []string
	}{
		{"filter by descendant", todos.FilterBy(".tag"), []string{"c urgent"}},
		{"filter by text descendant", todos.FilterBy("text=b"), []string{"b"}},
		{"filter by yields empty", todos.FilterBy(".missing"), []string{}},
		{"matching class", todos.Matching(".completed"), []string{"a"}},
		{"matching attribute", todos.Matching("[data-qa=todo-3]"), []string{"c urgent"}},
		{"matching tag", scout.By("#todo-list>*").Matching("li").Nth(0), []string{"a"}},
		{"nth", todos.Nth(1), []string{"b"}},
		{"nth from end", todos.Nth(-1), []string{"d"}},
		{"nth out of range", todos.Nth(10), []string{}},
		{"find", todos.Find("label"), []string{"a", "b", "c", "d"}},
		{"find then nth", todos.Find("label").Nth(2), []string{"c"}},
		{"chained", todos.Matching(":not(.completed)").FilterBy("button").First(), []string{"b"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := texts(t, doc, tt.loc)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("%s: texts mismatch (-want +got):\n%s", tt.loc, diff)
			}
		})
	}
}

func TestCountMatchersTreatNamesAsTags(t *testing.T) {
	doc := newList(t)
	ctx := scout.ContextWithRegistry(context.Background(), scout.NewRegistry())

	tests := []struct {
		name string
		loc  scout.Locator
		cond scout.Condition
		want bool
	}{
		{"elements by tag", scout.By("#todo-list>li", scout.Visible()), scout.Have.Elements("button"), true},
		{"filtered by tag", scout.By("#todo-list>*"), scout.Have.Filtered("li"), true},
		{"identifier is not data-qa", scout.By("#todo-list>li"), scout.Have.Elements("delete-btn_1"), false},
		{"data-qa as css", scout.By("#todo-list>li"), scout.Have.Elements("[data-qa=delete-btn_1]"), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := scout.Evaluate(ctx, doc, tt.loc, tt.cond)
			require.NoError(t, err)
			assert.Equal(t, tt.want, out.Passed, out.Message())
		})
	}
}

func TestStateConditions(t *testing.T) {
	doc := newList(t)
	ctx := scout.ContextWithRegistry(context.Background(), scout.NewRegistry())

	tests := []struct {
		name string
		loc  scout.Locator
		cond scout.Condition
		want bool
	}{
		{"visible", scout.By("todo-1"), scout.Be.Visible(), true},
		{"hidden", scout.By("todo-4"), scout.Be.Visible(), false},
		{"hidden by ancestor", scout.By("todo-4").Find("label"), scout.Be.Not().Visible(), true},
		{"checked box", scout.By("todo-1").Find(".toggle"), scout.Be.Checked(), true},
		{"unchecked box", scout.By("todo-2").Find(".toggle"), scout.Be.Not().Checked(), true},
		{"checked radio", scout.By(`input[type="radio"]`).First(), scout.Be.Checked(), true},
		{"not an input", scout.By("todo-1"), scout.Be.Checked(), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := scout.Evaluate(ctx, doc, tt.loc, tt.cond)
			require.NoError(t, err)
			assert.Equal(t, tt.want, out.Passed, out.Message())
		})
	}
}

func TestResolveVisibleOption(t *testing.T) {
	doc := newList(t)

	all := texts(t, doc, scout.By("#todo-list>li"))
	visible := texts(t, doc, scout.By("#todo-list>li", scout.Visible()))

	assert.Len(t, all, 4)
	assert.Equal(t, []string{"a", "b", "c urgent"}, visible)
}

func TestResolveInvalidSelector(t *testing.T) {
	doc := newList(t)

	_, err := scout.By("li[").Resolve(context.Background(), doc)
	require.ErrorContains(t, err, "invalid css selector")

	_, err = scout.By("//li[").Resolve(context.Background(), doc)
	require.ErrorContains(t, err, "invalid xpath")
}

func TestResolveSeesReplacedDocument(t *testing.T) {
	doc := newList(t)
	todos := scout.By("#todo-list>li")

	require.Len(t, texts(t, doc, todos), 4)

	require.NoError(t, doc.Replace(`<ul id="todo-list"><li>only</li></ul>`))
	assert.Equal(t, []string{"only"}, texts(t, doc, todos))
}

func TestNewFileRereadsOnEveryResolve(t *testing.T) {
	path := filepath.Join(t.TempDir(), "page.html")
	require.NoError(t, os.WriteFile(path, []byte(`<p class="msg">loading</p>`), 0o644))

	doc := htmldoc.NewFile(path)
	msg := scout.By(".msg")
	assert.Equal(t, []string{"loading"}, texts(t, doc, msg))

	require.NoError(t, os.WriteFile(path, []byte(`<p class="msg">done</p>`), 0o644))
	assert.Equal(t, []string{"done"}, texts(t, doc, msg))
}

func TestNewFileMissing(t *testing.T) {
	doc := htmldoc.NewFile(filepath.Join(t.TempDir(), "absent.html"))
	_, err := scout.By("p").Resolve(context.Background(), doc)
	require.ErrorIs(t, err, os.ErrNotExist)
}

func TestActEditsValue(t *testing.T) {
	ctx := context.Background()
	doc := newList(t)
	input := scout.By("new-todo")

	value := func() string {
		c, err := input.Resolve(ctx, doc)
		require.NoError(t, err)
		require.Len(t, c, 1)
		return c[0].(*htmldoc.Element).Attr("value")
	}

	require.NoError(t, input.Act(ctx, doc, scout.ActionType, "mi"))
	require.NoError(t, input.Act(ctx, doc, scout.ActionType, "lk"))
	assert.Equal(t, "milk", value())

	require.NoError(t, input.Act(ctx, doc, scout.ActionSetValue, "eggs"))
	assert.Equal(t, "eggs", value())

	require.NoError(t, input.Act(ctx, doc, scout.ActionClear))
	assert.Equal(t, "", value())
}

func TestActClickTogglesInputs(t *testing.T) {
	ctx := context.Background()
	doc := newList(t)
	checked := scout.By("input.toggle[checked]")

	require.Len(t, texts(t, doc, checked), 1)
	require.NoError(t, scout.By("todo-2").Find(".toggle").Act(ctx, doc, scout.ActionClick))
	assert.Len(t, texts(t, doc, checked), 2)

	require.NoError(t, scout.By(`input[value="active"]`).Act(ctx, doc, scout.ActionClick))
	selected, err := scout.By(`input[type="radio"][checked]`).Resolve(ctx, doc)
	require.NoError(t, err)
	require.Len(t, selected, 1)
	assert.Equal(t, "active", selected[0].(*htmldoc.Element).Attr("value"))
}

func TestActPressUnsupported(t *testing.T) {
	doc := newList(t)
	err := scout.By("new-todo").Act(context.Background(), doc, scout.ActionPress, "Enter")
	require.ErrorIs(t, err, htmldoc.ErrUnsupportedAction)
}

func TestActRejectsForeignElements(t *testing.T) {
	ctx := context.Background()
	a, b := newList(t), newList(t)

	c, err := scout.By("new-todo").Resolve(ctx, a)
	require.NoError(t, err)
	require.Error(t, b.Act(ctx, c, scout.ActionClear))
}

func TestElementHasAndIs(t *testing.T) {
	doc := newList(t)
	c, err := scout.By("todo-3").Resolve(context.Background(), doc)
	require.NoError(t, err)
	require.Len(t, c, 1)
	el := c[0]

	assert.True(t, el.Has(scout.Resolve(".tag")))
	assert.True(t, el.Has(scout.Resolve("text=urgent")))
	assert.True(t, el.Has(scout.Resolve("./label")))
	assert.False(t, el.Has(scout.Resolve("todo-3")), "the element is not its own descendant")
	assert.True(t, el.Is(scout.Resolve("todo-3")))
	assert.True(t, el.Is(scout.Resolve("li:not(.completed)")))
	assert.True(t, el.Is(scout.Resolve("//li[@data-qa='todo-3']")))
	assert.False(t, el.Is(scout.Resolve("li[")))
	assert.Contains(t, el.HTML(), `<span class="tag">urgent</span>`)
}
