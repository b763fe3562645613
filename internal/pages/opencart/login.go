package opencart

import (
	"time"

	"github.com/go-rod/rod"
	"go.uber.org/zap"

	"github.com/ahrdadan/demo-e2e/internal/pages"
)

// Login page locators
var (
	LoginEmailInput       = pages.ID("input-email")
	LoginPasswordInput    = pages.ID("input-password")
	LoginButton           = pages.CSS("button[type='submit']")
	ForgottenPasswordLink = pages.LinkText("Forgotten Password")
	LoginRegisterLink     = pages.CSS("#content .col-sm-6:first-child a")
	LoginErrorAlert       = pages.CSS("#alert .alert-danger")
	LoginPageTitle        = pages.CSS("#content h2")
	LoginContinueButton   = pages.LinkText("Continue")
)

// LoginPage is the returning customer form.
type LoginPage struct {
	*pages.BasePage
	url string
}

// NewLoginPage binds the login page of the store at base to page.
func NewLoginPage(page *rod.Page, base string, timeout time.Duration) *LoginPage {
	return &LoginPage{
		BasePage: pages.NewBasePage(page, timeout, "LoginPage"),
		url:      RouteURL(base, "account/login"),
	}
}

// OpenLoginPage navigates straight to the login route.
func (l *LoginPage) OpenLoginPage() error {
	if err := l.Open(l.url); err != nil {
		return err
	}
	return l.WaitForPageLoad()
}

func (l *LoginPage) EnterEmail(email string) error {
	return l.TypeText(LoginEmailInput, email, true)
}

func (l *LoginPage) EnterPassword(password string) error {
	return l.TypeText(LoginPasswordInput, password, true)
}

// ClickLogin submits the form. OpenCart answers with an alert or a redirect.
func (l *LoginPage) ClickLogin() error {
	if err := l.Click(LoginButton); err != nil {
		return err
	}
	l.Logger().Info("Clicked login button")
	return nil
}

// Login fills both fields and submits.
func (l *LoginPage) Login(email, password string) error {
	l.Logger().Info("Logging in", zap.String("email", email))
	if err := l.EnterEmail(email); err != nil {
		return err
	}
	if err := l.EnterPassword(password); err != nil {
		return err
	}
	return l.ClickLogin()
}

// IsErrorDisplayed waits briefly for the danger alert
func (l *LoginPage) IsErrorDisplayed() bool {
	return l.IsElementVisible(LoginErrorAlert, alertWait)
}

// ErrorMessage returns the danger alert text
func (l *LoginPage) ErrorMessage() (string, error) {
	return l.Text(LoginErrorAlert)
}

// ClickForgottenPassword follows the forgotten password link
func (l *LoginPage) ClickForgottenPassword() error {
	return l.ClickAndWaitForNavigation(ForgottenPasswordLink)
}

// ClickContinueToRegister follows the new customer Continue link
func (l *LoginPage) ClickContinueToRegister() error {
	return l.ClickAndWaitForNavigation(LoginContinueButton)
}

// IsOnLoginPage reports whether the URL is the login route
func (l *LoginPage) IsOnLoginPage() bool {
	return containsFold(l.URL(), "account/login")
}

// IsLoggedIn waits for the redirect to the account dashboard.
func (l *LoginPage) IsLoggedIn() bool {
	return l.WaitForURLContains("account/account", alertWait)
}
