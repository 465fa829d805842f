// Package scout provides lazy element locators and text conditions for
// browser UI tests.
//
// A [Locator] describes how to find elements; it never queries the document
// when it is built or chained. Every assertion or action resolves the whole
// chain again through an [Executor], so the same Locator stays valid across
// re-renders and can be retried safely.
//
// # Quick Start
//
//	func TestTodos(t *testing.T) {
//		doc, _ := htmldoc.NewString(page)
//		p := scout.Open(t, doc)
//		todos := p.S("#todo-list>li")
//		p.Should(todos, scout.Have.ExactTexts("a", "b", "c"))
//		p.Should(todos.Matching(".completed"), scout.Have.Length(0))
//	}
//
// # Selectors
//
// [Resolve] classifies selector strings, first match wins:
//
//   - "text=Delete" finds the deepest elements whose text contains "Delete"
//   - "delete-btn_2" (letters, digits, '-' and '_' only) finds elements whose
//     data-qa attribute equals it
//   - anything else is a CSS selector, or XPath when it starts with "/", "./"
//     or "("
//
// Sub-selectors given to [Locator.FilterBy], [Locator.Matching],
// [Locator.Find] and the elements and filtered matchers are classified by
// [SubSelector]: "text=" still selects by text, but everything else is CSS or
// XPath, so "button" there means the tag.
//
// # Conditions
//
// Conditions are matcher invocations looked up by name in a [Registry]. The
// built-ins are exactTexts, texts, elements, filtered, length,
// textCaseInsensitive and exactTextCaseInsensitive, built with [Have] and
// negated with [Haves.No] or [Not], plus the state matchers visible and
// checked, built with [Be] and negated with [Bes.Not]. Custom matchers are registered once,
// before the first assertion, with [Registry.Register].
//
// A failing condition reports the locator, the expected and actual values,
// and a dump of the collection:
//
//	#todo-list>li should have exact texts: '[a, b]'
//	actual texts: '[a]'
//	actual collection:
//	<li>a</li>
//
// # Waiting
//
// [Page.Should] and the actions poll until they succeed or a timeout
// expires:
//
//   - Defaults: 4s timeout, 50ms poll interval
//   - Per-page overrides: [WithTimeout], [WithPollInterval]
//   - Per-call overrides: [WithinTimeout], [WithWaitPollInterval]
//   - Poll intervals under 10ms are clamped to 10ms
//   - Executor errors fail immediately and are reported unchanged
//
// # Snapshots
//
// [Page.MatchSnapshot] compares a collection dump to a golden file under
// testdata. Set SCOUT_UPDATE=1 to create or update golden files.
//
// # Executors
//
// Package htmldoc resolves locators against a parsed HTML document; package
// cdp drives a headless Chrome.
package scout
