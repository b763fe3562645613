// Package pages holds the page-object base shared by every site under test.
//
// A BasePage wraps one rod page. Every lookup polls the DOM until the element
// shows up or the explicit wait elapses; timeouts come back as errors wrapping
// ErrTimeout, while predicate helpers (IsElementVisible and friends) report
// false instead.
package pages

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/input"
	"github.com/go-rod/rod/lib/proto"
	"go.uber.org/zap"

	"github.com/ahrdadan/demo-e2e/internal/logging"
)

const (
	// DefaultTimeout is the explicit wait used when a page is built without one
	DefaultTimeout = 15 * time.Second
	// DefaultPageLoadTimeout bounds navigations
	DefaultPageLoadTimeout = 30 * time.Second
)

var (
	// ErrTimeout means the awaited element or condition never appeared
	ErrTimeout = errors.New("timed out waiting for element")
	// ErrIndexOutOfRange means a positional lookup asked past the last match
	ErrIndexOutOfRange = errors.New("index out of range")
)

const pollInterval = 250 * time.Millisecond

// BasePage bundles the waiting lookups and actions page objects delegate to.
type BasePage struct {
	page        *rod.Page
	timeout     time.Duration
	loadTimeout time.Duration
	log         *zap.Logger
}

// NewBasePage wraps page; name tags the page object's log lines.
func NewBasePage(page *rod.Page, timeout time.Duration, name string) *BasePage {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &BasePage{
		page:        page,
		timeout:     timeout,
		loadTimeout: DefaultPageLoadTimeout,
		log:         logging.Named(name),
	}
}

// SetPageLoadTimeout bounds Open, WaitForPageLoad and navigation waits.
func (p *BasePage) SetPageLoadTimeout(d time.Duration) {
	if d > 0 {
		p.loadTimeout = d
	}
}

// Rod returns the underlying rod page
func (p *BasePage) Rod() *rod.Page { return p.page }

// Timeout returns the explicit wait
func (p *BasePage) Timeout() time.Duration { return p.timeout }

// Logger returns the page object's logger
func (p *BasePage) Logger() *zap.Logger { return p.log }

func (p *BasePage) within(timeout time.Duration) *rod.Page {
	if timeout <= 0 {
		timeout = p.timeout
	}
	return p.page.Timeout(timeout)
}

// Open navigates to url and waits for the load event.
func (p *BasePage) Open(url string) error {
	p.log.Info("Opening URL", zap.String("url", url))

	pg := p.within(p.loadTimeout)
	defer pg.CancelTimeout()

	if err := pg.Navigate(url); err != nil {
		return p.wrap(fmt.Sprintf("navigate to %s", url), err)
	}
	if err := pg.WaitLoad(); err != nil {
		return p.wrap(fmt.Sprintf("load %s", url), err)
	}
	return nil
}

// Title returns the document title
func (p *BasePage) Title() (string, error) {
	res, err := p.page.Eval(`() => document.title`)
	if err != nil {
		return "", fmt.Errorf("failed to read title: %w", err)
	}
	return res.Value.Str(), nil
}

// CurrentURL returns the address of the loaded document
func (p *BasePage) CurrentURL() (string, error) {
	res, err := p.page.Eval(`() => window.location.href`)
	if err != nil {
		return "", fmt.Errorf("failed to read url: %w", err)
	}
	return res.Value.Str(), nil
}

// URL is CurrentURL with errors folded into an empty string, for predicates.
func (p *BasePage) URL() string {
	u, err := p.CurrentURL()
	if err != nil {
		p.log.Debug("reading url failed", zap.Error(err))
	}
	return u
}

// WaitUntil polls cond until it holds or timeout (the explicit wait when
// zero) elapses.
func (p *BasePage) WaitUntil(cond func() bool, timeout time.Duration) bool {
	if timeout <= 0 {
		timeout = p.timeout
	}
	deadline := time.Now().Add(timeout)

	for {
		if cond() {
			return true
		}
		if time.Now().After(deadline) {
			return false
		}
		time.Sleep(pollInterval)
	}
}

// WaitForURLContains waits until the address contains fragment, ignoring case.
func (p *BasePage) WaitForURLContains(fragment string, timeout time.Duration) bool {
	fragment = strings.ToLower(fragment)
	return p.WaitUntil(func() bool {
		return strings.Contains(strings.ToLower(p.URL()), fragment)
	}, timeout)
}

func (p *BasePage) lookup(pg *rod.Page, loc Locator) (*rod.Element, error) {
	sel, err := loc.Selector()
	if err != nil {
		return nil, err
	}

	var el *rod.Element
	if loc.IsXPath() {
		el, err = pg.ElementX(sel)
	} else {
		el, err = pg.Element(sel)
	}
	if err != nil {
		return nil, p.wrap(loc.String(), err)
	}
	return el, nil
}

func (p *BasePage) wrap(what string, err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %s after %s", ErrTimeout, what, p.timeout)
	}
	return fmt.Errorf("%s: %w", what, err)
}

// FindElement waits until loc matches an element and returns the first match.
func (p *BasePage) FindElement(loc Locator) (*rod.Element, error) {
	pg := p.within(0)
	defer pg.CancelTimeout()

	el, err := p.lookup(pg, loc)
	if err != nil {
		return nil, err
	}
	return el.Context(p.page.GetContext()), nil
}

// FindElements waits until loc matches at least one element and returns all matches.
func (p *BasePage) FindElements(loc Locator) (rod.Elements, error) {
	if _, err := p.FindElement(loc); err != nil {
		return nil, err
	}
	return p.elements(loc)
}

func (p *BasePage) elements(loc Locator) (rod.Elements, error) {
	sel, err := loc.Selector()
	if err != nil {
		return nil, err
	}
	if loc.IsXPath() {
		return p.page.ElementsX(sel)
	}
	return p.page.Elements(sel)
}

// Count returns how many elements match loc right now, without waiting.
func (p *BasePage) Count(loc Locator) int {
	els, err := p.elements(loc)
	if err != nil {
		return 0
	}
	return len(els)
}

// Click waits for loc to be interactable and clicks it.
func (p *BasePage) Click(loc Locator) error {
	p.log.Debug("Clicking element", zap.Stringer("locator", loc))

	el, err := p.FindElement(loc)
	if err != nil {
		return err
	}
	return p.ClickElement(el)
}

// ClickElement clicks an element obtained from FindElement(s).
func (p *BasePage) ClickElement(el *rod.Element) error {
	el = el.Timeout(p.timeout)
	defer el.CancelTimeout()

	if err := el.Click(proto.InputMouseButtonLeft, 1); err != nil {
		return p.wrap("click "+describe(el), err)
	}
	return nil
}

// AwaitNavigation runs action and waits for the document it triggers to load.
func (p *BasePage) AwaitNavigation(action func() error) error {
	pg := p.within(p.loadTimeout)
	defer pg.CancelTimeout()

	wait := pg.WaitNavigation(proto.PageLifecycleEventNameLoad)
	if err := action(); err != nil {
		return err
	}
	wait()
	return nil
}

// ClickAndWaitForNavigation clicks loc and blocks until the next document loads.
func (p *BasePage) ClickAndWaitForNavigation(loc Locator) error {
	el, err := p.FindElement(loc)
	if err != nil {
		return err
	}
	return p.AwaitNavigation(func() error { return p.ClickElement(el) })
}

// ClickNth clicks the index-th element (0-based) matching loc.
func (p *BasePage) ClickNth(loc Locator, index int, waitForNavigation bool) error {
	els, err := p.FindElements(loc)
	if err != nil {
		return err
	}
	if index < 0 || index >= len(els) {
		return fmt.Errorf("%w: %d of %d for %s", ErrIndexOutOfRange, index, len(els), loc)
	}

	p.log.Debug("Clicking element", zap.Stringer("locator", loc), zap.Int("index", index))
	if waitForNavigation {
		return p.AwaitNavigation(func() error { return p.ClickElement(els[index]) })
	}
	return p.ClickElement(els[index])
}

// TypeText types text into loc, clearing the field first when clearFirst is set.
func (p *BasePage) TypeText(loc Locator, text string, clearFirst bool) error {
	p.log.Debug("Typing into element", zap.String("text", text), zap.Stringer("locator", loc))

	el, err := p.FindElement(loc)
	if err != nil {
		return err
	}
	return p.TypeInto(el, text, clearFirst)
}

// TypeInto is TypeText for an element obtained from FindElement(s).
func (p *BasePage) TypeInto(el *rod.Element, text string, clearFirst bool) error {
	el = el.Timeout(p.timeout)
	defer el.CancelTimeout()

	if clearFirst {
		_, err := el.Eval(`() => {
			this.value = '';
			this.dispatchEvent(new Event('input', { bubbles: true }));
		}`)
		if err != nil {
			return p.wrap("clear "+describe(el), err)
		}
	}
	if text == "" {
		return nil
	}
	if err := el.Input(text); err != nil {
		return p.wrap("type into "+describe(el), err)
	}
	return nil
}

// PressEnter sends the Enter key to loc and waits for the navigation it triggers.
func (p *BasePage) PressEnter(loc Locator) error {
	el, err := p.FindElement(loc)
	if err != nil {
		return err
	}
	return p.AwaitNavigation(func() error {
		if err := el.Type(input.Enter); err != nil {
			return p.wrap("press enter on "+loc.String(), err)
		}
		return nil
	})
}

// Text returns the rendered text of the first element matching loc.
func (p *BasePage) Text(loc Locator) (string, error) {
	el, err := p.FindElement(loc)
	if err != nil {
		return "", err
	}
	text, err := el.Text()
	if err != nil {
		return "", p.wrap("text of "+loc.String(), err)
	}
	return text, nil
}

// Texts returns the rendered text of every element matching loc.
func (p *BasePage) Texts(loc Locator) ([]string, error) {
	els, err := p.FindElements(loc)
	if err != nil {
		return nil, err
	}

	texts := make([]string, 0, len(els))
	for _, el := range els {
		text, err := el.Text()
		if err != nil {
			return nil, p.wrap("text of "+loc.String(), err)
		}
		texts = append(texts, text)
	}
	return texts, nil
}

// IsElementVisible reports whether loc becomes visible within timeout
// (the explicit wait when timeout is zero).
func (p *BasePage) IsElementVisible(loc Locator, timeout time.Duration) bool {
	pg := p.within(timeout)
	defer pg.CancelTimeout()

	el, err := p.lookup(pg, loc)
	if err != nil {
		return false
	}
	return el.WaitVisible() == nil
}

// IsElementPresent reports whether loc matches anything right now.
func (p *BasePage) IsElementPresent(loc Locator) bool {
	sel, err := loc.Selector()
	if err != nil {
		return false
	}

	var has bool
	if loc.IsXPath() {
		has, _, err = p.page.HasX(sel)
	} else {
		has, _, err = p.page.Has(sel)
	}
	return err == nil && has
}

// WaitForElementToDisappear reports whether loc is absent or hidden within timeout.
func (p *BasePage) WaitForElementToDisappear(loc Locator, timeout time.Duration) bool {
	return p.WaitUntil(func() bool { return !p.visibleNow(loc) }, timeout)
}

func (p *BasePage) visibleNow(loc Locator) bool {
	els, err := p.elements(loc)
	if err != nil {
		return false
	}
	for _, el := range els {
		if visible, err := el.Visible(); err == nil && visible {
			return true
		}
	}
	return false
}

// SelectByText picks the option of the <select> at loc whose text matches text.
func (p *BasePage) SelectByText(loc Locator, text string) error {
	el, err := p.FindElement(loc)
	if err != nil {
		return err
	}
	if err := el.Timeout(p.timeout).Select([]string{text}, true, rod.SelectorTypeText); err != nil {
		return p.wrap(fmt.Sprintf("select %q in %s", text, loc), err)
	}
	return nil
}

// SelectByValue picks the option of the <select> at loc with the given value.
func (p *BasePage) SelectByValue(loc Locator, value string) error {
	el, err := p.FindElement(loc)
	if err != nil {
		return err
	}
	option := "[value=" + strconv.Quote(value) + "]"
	if err := el.Timeout(p.timeout).Select([]string{option}, true, rod.SelectorTypeCSSSector); err != nil {
		return p.wrap(fmt.Sprintf("select value %q in %s", value, loc), err)
	}
	return nil
}

// Hover moves the mouse over loc.
func (p *BasePage) Hover(loc Locator) error {
	el, err := p.FindElement(loc)
	if err != nil {
		return err
	}
	if err := el.Hover(); err != nil {
		return p.wrap("hover "+loc.String(), err)
	}
	return nil
}

// ScrollTo scrolls loc into view.
func (p *BasePage) ScrollTo(loc Locator) error {
	el, err := p.FindElement(loc)
	if err != nil {
		return err
	}
	if err := el.ScrollIntoView(); err != nil {
		return p.wrap("scroll to "+loc.String(), err)
	}
	return nil
}

// Attribute returns the live DOM property name of loc, falling back to the
// HTML attribute when no such property exists. For inputs and selects this
// means "value" reflects what is typed or selected now.
func (p *BasePage) Attribute(loc Locator, name string) (string, error) {
	el, err := p.FindElement(loc)
	if err != nil {
		return "", err
	}
	return elementAttribute(el, name)
}

func elementAttribute(el *rod.Element, name string) (string, error) {
	prop, err := el.Property(name)
	if err == nil && !prop.Nil() {
		return prop.String(), nil
	}

	attr, err := el.Attribute(name)
	if err != nil {
		return "", fmt.Errorf("attribute %s: %w", name, err)
	}
	if attr == nil {
		return "", nil
	}
	return *attr, nil
}

// Attributes returns Attribute(name) for every element matching loc.
func (p *BasePage) Attributes(loc Locator, name string) ([]string, error) {
	els, err := p.FindElements(loc)
	if err != nil {
		return nil, err
	}

	values := make([]string, 0, len(els))
	for _, el := range els {
		v, err := elementAttribute(el, name)
		if err != nil {
			return nil, err
		}
		values = append(values, v)
	}
	return values, nil
}

// Property returns the DOM property name of loc as a string, empty when unset.
func (p *BasePage) Property(loc Locator, name string) (string, error) {
	el, err := p.FindElement(loc)
	if err != nil {
		return "", err
	}
	prop, err := el.Property(name)
	if err != nil {
		return "", p.wrap(fmt.Sprintf("property %s of %s", name, loc), err)
	}
	if prop.Nil() {
		return "", nil
	}
	return prop.String(), nil
}

// IsSelected reports whether the checkbox, radio or option at loc is selected.
func (p *BasePage) IsSelected(loc Locator) (bool, error) {
	el, err := p.FindElement(loc)
	if err != nil {
		return false, err
	}
	res, err := el.Eval(`() => !!(this.checked || this.selected)`)
	if err != nil {
		return false, p.wrap("selected state of "+loc.String(), err)
	}
	return res.Value.Bool(), nil
}

// WaitForPageLoad waits for the document's load event.
func (p *BasePage) WaitForPageLoad() error {
	pg := p.within(p.loadTimeout)
	defer pg.CancelTimeout()

	if err := pg.WaitLoad(); err != nil {
		return p.wrap("page load", err)
	}
	return nil
}

// AcceptAlert clicks trigger, waits for the JavaScript dialog it raises and
// accepts it. The dialog message is returned.
func (p *BasePage) AcceptAlert(trigger Locator) (string, error) {
	return p.handleAlert(trigger, true)
}

// DismissAlert is AcceptAlert but cancels the dialog.
func (p *BasePage) DismissAlert(trigger Locator) (string, error) {
	return p.handleAlert(trigger, false)
}

func (p *BasePage) handleAlert(trigger Locator, accept bool) (string, error) {
	el, err := p.FindElement(trigger)
	if err != nil {
		return "", err
	}

	pg := p.within(0)
	defer pg.CancelTimeout()
	wait, handle := pg.HandleDialog()

	// A pending dialog blocks the click's input event until it is handled.
	clickErr := make(chan error, 1)
	go func() { clickErr <- el.Click(proto.InputMouseButtonLeft, 1) }()

	ev := wait()
	if ev == nil || ev.Type == "" {
		return "", fmt.Errorf("%w: alert after clicking %s", ErrTimeout, trigger)
	}
	if err := handle(&proto.PageHandleJavaScriptDialog{Accept: accept}); err != nil {
		return "", fmt.Errorf("failed to handle alert: %w", err)
	}
	if err := <-clickErr; err != nil {
		return ev.Message, p.wrap("click "+trigger.String(), err)
	}
	return ev.Message, nil
}

// Screenshot captures the visible viewport as PNG.
func (p *BasePage) Screenshot() ([]byte, error) {
	data, err := p.page.Screenshot(false, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to take screenshot: %w", err)
	}
	return data, nil
}

// describe names an element for error messages.
func describe(el *rod.Element) string {
	desc, err := el.Describe(0, false)
	if err != nil || desc == nil {
		return "element"
	}
	name := strings.ToLower(desc.LocalName)
	for i := 0; i+1 < len(desc.Attributes); i += 2 {
		if desc.Attributes[i] == "id" {
			return name + "#" + desc.Attributes[i+1]
		}
	}
	return name
}
