// Package fakedata generates throwaway identities for registration flows.
package fakedata

import (
	"fmt"
	"strings"
	"sync"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/google/uuid"
)

const (
	// MaxTelephoneLen caps generated phone numbers
	MaxTelephoneLen = 15
	// PasswordLen is the length of generated passwords
	PasswordLen = 12

	emailDomain = "example.com"
)

// User is a random registrant.
type User struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	Telephone string `json:"telephone"`
	Password  string `json:"password"`
}

// Generator wraps a faker; the zero seed draws from crypto randomness.
type Generator struct {
	mu    sync.Mutex
	faker *gofakeit.Faker
}

// New returns a generator; pass seed 0 for a non-deterministic one.
func New(seed int64) *Generator {
	return &Generator{faker: gofakeit.New(seed)}
}

var defaultGenerator = New(0)

// Email returns a unique address on example.com.
func Email() string { return defaultGenerator.Email() }

// NewUser returns a random registrant.
func NewUser() User { return defaultGenerator.User() }

// Email returns a unique address. A uuid fragment keeps addresses distinct
// even for a seeded generator, so reruns never collide with accounts
// created earlier.
func (g *Generator) Email() string {
	g.mu.Lock()
	word := strings.ToLower(g.faker.Username())
	g.mu.Unlock()

	return fmt.Sprintf("%s.%s@%s", sanitize(word), uuid.NewString()[:8], emailDomain)
}

// User returns a random registrant.
func (g *Generator) User() User {
	g.mu.Lock()
	first := g.faker.FirstName()
	last := g.faker.LastName()
	phone := g.faker.Phone()
	password := g.faker.Password(true, true, true, false, false, PasswordLen)
	g.mu.Unlock()

	if len(phone) > MaxTelephoneLen {
		phone = phone[:MaxTelephoneLen]
	}

	return User{
		FirstName: first,
		LastName:  last,
		Email:     g.Email(),
		Telephone: phone,
		Password:  password,
	}
}

func sanitize(s string) string {
	var b strings.Builder
	for _, r := range s {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	if b.Len() == 0 {
		return "user"
	}
	return b.String()
}
