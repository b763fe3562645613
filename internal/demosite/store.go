package demosite

import (
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// DefaultSessionTTL is how long an idle storefront session is kept
const DefaultSessionTTL = 24 * time.Hour

// CartItem is one cart row
type CartItem struct {
	Key       string
	ProductID int
	Quantity  int
}

// Account is a registered storefront customer
type Account struct {
	FirstName  string
	LastName   string
	Email      string
	Password   string
	Newsletter bool
}

// Session is one browser's storefront state, keyed by cookie.
type Session struct {
	ID       string
	Customer string // email of the logged in account, empty for guests
	Cart     []CartItem
	touched  time.Time
}

// Store is an in-memory session and account store with TTL eviction.
type Store struct {
	mu       sync.RWMutex
	sessions map[string]*Session
	accounts map[string]Account
	ttl      time.Duration
	ticker   *time.Ticker
	stop     chan struct{}
	log      *zap.Logger
}

// NewStore returns a store seeded with accounts and starts eviction.
func NewStore(ttl time.Duration, log *zap.Logger, seed ...Account) *Store {
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}
	s := &Store{
		sessions: make(map[string]*Session),
		accounts: make(map[string]Account),
		ttl:      ttl,
		stop:     make(chan struct{}),
		log:      log,
	}
	for _, a := range seed {
		s.accounts[strings.ToLower(a.Email)] = a
	}

	s.startCleanup()
	return s
}

func (s *Store) startCleanup() {
	interval := s.ttl / 4
	if interval < time.Second {
		interval = time.Second
	}
	s.ticker = time.NewTicker(interval)

	go func() {
		for {
			select {
			case <-s.ticker.C:
				s.cleanupExpired(time.Now())
			case <-s.stop:
				s.ticker.Stop()
				return
			}
		}
	}()
}

func (s *Store) cleanupExpired(now time.Time) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	deleted := 0
	for id, sess := range s.sessions {
		if now.Sub(sess.touched) > s.ttl {
			delete(s.sessions, id)
			deleted++
		}
	}
	if deleted > 0 {
		s.log.Debug("Evicted idle sessions", zap.Int("count", deleted))
	}
	return deleted
}

// Stop ends eviction
func (s *Store) Stop() {
	close(s.stop)
}

// Session returns the session id, creating it when unknown. The bool
// reports whether a new session was created.
func (s *Store) Session(id string) (*Session, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if sess, ok := s.sessions[id]; ok && id != "" {
		sess.touched = time.Now()
		return sess.clone(), false
	}

	sess := &Session{ID: uuid.NewString(), touched: time.Now()}
	s.sessions[sess.ID] = sess
	return sess.clone(), true
}

func (sess *Session) clone() *Session {
	c := *sess
	c.Cart = append([]CartItem(nil), sess.Cart...)
	return &c
}

// update applies fn to the live session under the write lock.
func (s *Store) update(id string, fn func(*Session)) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[id]
	if !ok {
		return false
	}
	fn(sess)
	sess.touched = time.Now()
	return true
}

// AddToCart adds quantity of product, merging with an existing row.
func (s *Store) AddToCart(id string, productID, quantity int) bool {
	return s.update(id, func(sess *Session) {
		for i := range sess.Cart {
			if sess.Cart[i].ProductID == productID {
				sess.Cart[i].Quantity += quantity
				return
			}
		}
		sess.Cart = append(sess.Cart, CartItem{Key: uuid.NewString(), ProductID: productID, Quantity: quantity})
	})
}

// SetQuantity changes a row's quantity; zero or less removes it.
func (s *Store) SetQuantity(id, key string, quantity int) bool {
	found := false
	s.update(id, func(sess *Session) {
		for i := range sess.Cart {
			if sess.Cart[i].Key != key {
				continue
			}
			found = true
			if quantity <= 0 {
				sess.Cart = append(sess.Cart[:i], sess.Cart[i+1:]...)
			} else {
				sess.Cart[i].Quantity = quantity
			}
			return
		}
	})
	return found
}

// RemoveFromCart drops the row with key
func (s *Store) RemoveFromCart(id, key string) bool {
	return s.SetQuantity(id, key, 0)
}

// Login marks the session as belonging to email
func (s *Store) Login(id, email string) {
	s.update(id, func(sess *Session) { sess.Customer = strings.ToLower(email) })
}

// Logout clears the session's customer
func (s *Store) Logout(id string) {
	s.update(id, func(sess *Session) { sess.Customer = "" })
}

// Authenticate checks credentials
func (s *Store) Authenticate(email, password string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	a, ok := s.accounts[strings.ToLower(email)]
	return ok && a.Password == password
}

// Register stores a new account; false when the email is taken.
func (s *Store) Register(a Account) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := strings.ToLower(a.Email)
	if _, taken := s.accounts[key]; taken {
		return false
	}
	s.accounts[key] = a
	return true
}

// Account looks up a registered customer
func (s *Store) Account(email string) (Account, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	a, ok := s.accounts[strings.ToLower(email)]
	return a, ok
}

// Stats returns the number of live sessions and accounts
func (s *Store) Stats() (sessions, accounts int) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions), len(s.accounts)
}
