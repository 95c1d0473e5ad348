package service

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// sessionTTL bounds how long a started checkout stays redeemable.
const sessionTTL = 30 * time.Minute

// paypalSession holds the payment details for one in-flight checkout.
// Nothing but the opaque session ID ever reaches the client, so the amount
// and parties cannot be tampered with between start and completion.
type paypalSession struct {
	ID          string
	HouseholdID string
	PayerID     string
	PayeeID     string
	Amount      decimal.Decimal
	CreatedAt   time.Time
}

// sessionRegistry is an in-memory store of in-flight PayPal checkouts.
type sessionRegistry struct {
	mu       sync.Mutex
	sessions map[string]*paypalSession
}

func newSessionRegistry() *sessionRegistry {
	return &sessionRegistry{sessions: make(map[string]*paypalSession)}
}

func (r *sessionRegistry) create(householdID, payerID, payeeID string, amount decimal.Decimal) *paypalSession {
	sess := &paypalSession{
		ID:          uuid.New().String(),
		HouseholdID: householdID,
		PayerID:     payerID,
		PayeeID:     payeeID,
		Amount:      amount,
		CreatedAt:   time.Now(),
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sweepLocked()
	r.sessions[sess.ID] = sess
	return sess
}

// take removes and returns the session, or nil if it is unknown or expired.
func (r *sessionRegistry) take(id string) *paypalSession {
	r.mu.Lock()
	defer r.mu.Unlock()
	sess, ok := r.sessions[id]
	if !ok {
		return nil
	}
	delete(r.sessions, id)
	if time.Since(sess.CreatedAt) > sessionTTL {
		return nil
	}
	return sess
}

func (r *sessionRegistry) sweepLocked() {
	for id, sess := range r.sessions {
		if time.Since(sess.CreatedAt) > sessionTTL {
			delete(r.sessions, id)
		}
	}
}

// pairLocks serializes payments per (household, payer, payee) triple so two
// concurrent payments against the same debts cannot both apply a plan
// computed from the same read.
type pairLocks struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func newPairLocks() *pairLocks {
	return &pairLocks{locks: make(map[string]*sync.Mutex)}
}

func (p *pairLocks) lock(householdID, payerID, payeeID string) func() {
	key := householdID + "\x00" + payerID + "\x00" + payeeID
	p.mu.Lock()
	l, ok := p.locks[key]
	if !ok {
		l = &sync.Mutex{}
		p.locks[key] = l
	}
	p.mu.Unlock()
	l.Lock()
	return l.Unlock
}
