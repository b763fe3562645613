//go:build e2e

package e2e

import (
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/ahrdadan/demo-e2e/internal/fakedata"
	"github.com/ahrdadan/demo-e2e/internal/harness"
	"github.com/ahrdadan/demo-e2e/internal/pages/opencart"
)

type RegistrationSuite struct {
	harness.Suite
}

func TestRegistration(t *testing.T) {
	suite.Run(t, new(RegistrationSuite))
}

func registration(u fakedata.User, newsletter bool) opencart.Registration {
	return opencart.Registration{
		FirstName:  u.FirstName,
		LastName:   u.LastName,
		Email:      u.Email,
		Password:   u.Password,
		Newsletter: newsletter,
	}
}

func (s *RegistrationSuite) TestRegisterPageLoads() {
	s.Mark(harness.Smoke, harness.Registration)
	s.True(harness.OpenCartRegister(s.T()).IsOnRegisterPage())
}

func (s *RegistrationSuite) TestRegisterPageElementsVisible() {
	s.Mark(harness.Smoke, harness.Registration)
	register := harness.OpenCartRegister(s.T())

	s.True(register.IsElementVisible(opencart.FirstNameInput, 0))
	s.True(register.IsElementVisible(opencart.LastNameInput, 0))
	s.True(register.IsElementVisible(opencart.RegisterEmailInput, 0))
	s.True(register.IsElementVisible(opencart.RegisterPasswordInput, 0))
	s.True(register.IsElementVisible(opencart.RegisterContinue, 0))
}

func (s *RegistrationSuite) TestSuccessfulRegistration() {
	s.Mark(harness.Smoke, harness.Registration)
	register := harness.OpenCartRegister(s.T())

	s.Require().NoError(register.Register(registration(fakedata.NewUser(), false)))
	s.True(register.IsRegistrationSuccessful())
}

func (s *RegistrationSuite) TestRegistrationWithNewsletterSubscription() {
	s.Mark(harness.Regression, harness.Registration)
	register := harness.OpenCartRegister(s.T())

	s.Require().NoError(register.Register(registration(fakedata.NewUser(), true)))
	s.True(register.IsRegistrationSuccessful())
}

func (s *RegistrationSuite) TestRegistrationWithEmptyFields() {
	s.Mark(harness.Regression, harness.Registration)
	register := harness.OpenCartRegister(s.T())

	s.Require().NoError(register.AgreeToPrivacyPolicy())
	s.Require().NoError(register.ClickContinue())

	s.True(register.IsOnRegisterPage())
	s.Eventually(func() bool {
		errs, err := register.FieldErrors()
		return err == nil && len(errs) > 0
	}, s.Config().ExplicitWait, s.Config().ExplicitWait/30)
}

func (s *RegistrationSuite) TestRegistrationWithoutPrivacyPolicy() {
	s.Mark(harness.Regression, harness.Registration)
	register := harness.OpenCartRegister(s.T())
	u := fakedata.NewUser()

	s.Require().NoError(register.EnterFirstName(u.FirstName))
	s.Require().NoError(register.EnterLastName(u.LastName))
	s.Require().NoError(register.EnterEmail(u.Email))
	s.Require().NoError(register.EnterPassword(u.Password))
	s.Require().NoError(register.ClickContinue())

	s.True(register.IsErrorDisplayed())
	s.True(register.IsOnRegisterPage())
}

func (s *RegistrationSuite) TestRegistrationWithInvalidEmail() {
	s.Mark(harness.Regression, harness.Registration)
	register := harness.OpenCartRegister(s.T())

	s.Require().NoError(register.Register(opencart.Registration{
		FirstName: "Test",
		LastName:  "User",
		Email:     "invalidemail",
		Password:  "password123",
	}))
	s.True(register.IsOnRegisterPage())
}

func (s *RegistrationSuite) TestRegistrationWithShortPassword() {
	s.Mark(harness.Regression, harness.Registration)
	register := harness.OpenCartRegister(s.T())
	u := fakedata.NewUser()
	u.Password = "123"

	s.Require().NoError(register.Register(registration(u, false)))
	s.True(register.IsOnRegisterPage())
}

func (s *RegistrationSuite) TestNavigateToRegisterFromHome() {
	s.Mark(harness.Regression, harness.Registration)
	home := harness.OpenCartHome(s.T())

	s.Require().NoError(home.GoToRegister())
	s.True(harness.RegisterPage(s.T()).IsOnRegisterPage())
}
