package opencart

import (
	"strings"
	"time"

	"github.com/go-rod/rod"
	"go.uber.org/zap"

	"github.com/ahrdadan/demo-e2e/internal/pages"
)

// RegistrationSuccessText is the heading OpenCart shows for a new account
const RegistrationSuccessText = "Your Account Has Been Created"

// Register page locators
var (
	FirstNameInput        = pages.ID("input-firstname")
	LastNameInput         = pages.ID("input-lastname")
	RegisterEmailInput    = pages.ID("input-email")
	RegisterPasswordInput = pages.ID("input-password")
	NewsletterYes         = pages.ID("input-newsletter-yes")
	NewsletterNo          = pages.ID("input-newsletter-no")
	PrivacyPolicyCheckbox = pages.CSS("input[name='agree']")
	RegisterContinue      = pages.CSS("button[type='submit']")
	RegisterErrorAlert    = pages.CSS("#alert .alert-danger")
	RegisterSuccessHeader = pages.CSS("#content h1")
	FieldErrors           = pages.CSS(".invalid-feedback")
	RegisterLoginLink     = pages.LinkText("login page")
)

// Registration is the data the account form asks for.
type Registration struct {
	FirstName  string
	LastName   string
	Email      string
	Password   string
	Newsletter bool
}

// RegisterPage is the account creation form.
type RegisterPage struct {
	*pages.BasePage
	url string
}

// NewRegisterPage binds the register page of the store at base to page.
func NewRegisterPage(page *rod.Page, base string, timeout time.Duration) *RegisterPage {
	return &RegisterPage{
		BasePage: pages.NewBasePage(page, timeout, "RegisterPage"),
		url:      RouteURL(base, "account/register"),
	}
}

// OpenRegisterPage navigates straight to the register route.
func (r *RegisterPage) OpenRegisterPage() error {
	if err := r.Open(r.url); err != nil {
		return err
	}
	return r.WaitForPageLoad()
}

func (r *RegisterPage) EnterFirstName(name string) error {
	return r.TypeText(FirstNameInput, name, true)
}

func (r *RegisterPage) EnterLastName(name string) error {
	return r.TypeText(LastNameInput, name, true)
}

func (r *RegisterPage) EnterEmail(email string) error {
	return r.TypeText(RegisterEmailInput, email, true)
}

func (r *RegisterPage) EnterPassword(password string) error {
	return r.TypeText(RegisterPasswordInput, password, true)
}

// SubscribeToNewsletter picks the yes or no newsletter option.
func (r *RegisterPage) SubscribeToNewsletter(subscribe bool) error {
	if subscribe {
		return r.Click(NewsletterYes)
	}
	return r.Click(NewsletterNo)
}

// AgreeToPrivacyPolicy ticks the agreement checkbox unless it already is.
func (r *RegisterPage) AgreeToPrivacyPolicy() error {
	selected, err := r.IsSelected(PrivacyPolicyCheckbox)
	if err != nil {
		return err
	}
	if selected {
		return nil
	}
	return r.Click(PrivacyPolicyCheckbox)
}

// ClickContinue submits the form
func (r *RegisterPage) ClickContinue() error {
	if err := r.Click(RegisterContinue); err != nil {
		return err
	}
	r.Logger().Info("Clicked continue button on registration form")
	return nil
}

// Register fills every field, accepts the policy and submits.
func (r *RegisterPage) Register(reg Registration) error {
	r.Logger().Info("Registering new user", zap.String("email", reg.Email))

	steps := []func() error{
		func() error { return r.EnterFirstName(reg.FirstName) },
		func() error { return r.EnterLastName(reg.LastName) },
		func() error { return r.EnterEmail(reg.Email) },
		func() error { return r.EnterPassword(reg.Password) },
		func() error { return r.SubscribeToNewsletter(reg.Newsletter) },
		r.AgreeToPrivacyPolicy,
		r.ClickContinue,
	}
	for _, step := range steps {
		if err := step(); err != nil {
			return err
		}
	}
	return nil
}

// IsRegistrationSuccessful waits for the success route or heading.
func (r *RegisterPage) IsRegistrationSuccessful() bool {
	return r.WaitUntil(func() bool {
		if containsFold(r.URL(), "account/success") {
			return true
		}
		if !r.IsElementPresent(RegisterSuccessHeader) {
			return false
		}
		heading, err := r.Text(RegisterSuccessHeader)
		return err == nil && strings.Contains(heading, RegistrationSuccessText)
	}, 0)
}

// IsErrorDisplayed waits briefly for the danger alert
func (r *RegisterPage) IsErrorDisplayed() bool {
	return r.IsElementVisible(RegisterErrorAlert, alertWait)
}

// ErrorMessage returns the danger alert text
func (r *RegisterPage) ErrorMessage() (string, error) {
	return r.Text(RegisterErrorAlert)
}

// FieldErrors returns the non-empty inline validation messages.
func (r *RegisterPage) FieldErrors() ([]string, error) {
	if !r.IsElementPresent(FieldErrors) {
		return nil, nil
	}
	texts, err := r.Texts(FieldErrors)
	if err != nil {
		return nil, err
	}

	var out []string
	for _, t := range texts {
		if t = strings.TrimSpace(t); t != "" {
			out = append(out, t)
		}
	}
	return out, nil
}

// IsOnRegisterPage reports whether the URL is the register route
func (r *RegisterPage) IsOnRegisterPage() bool {
	return containsFold(r.URL(), "account/register")
}
