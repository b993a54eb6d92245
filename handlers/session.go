package handlers

import (
    "encoding/gob"
    "log"
    "net/http"

    "github.com/gorilla/sessions"

    "donate-payment-api/config"
    "donate-payment-api/models"
)

const (
    sessionName                 = "donate-session"
    completedTransactionDetails = "completed_transaction_details"

    homePath      = "/"
    upsellPath    = "/donate/card-upsell"
    completedPath = "/donate/completed"
)

func init() {
    gob.Register(models.TransactionDetails{})
}

// SessionStore wraps the cookie store and the session keys the payment
// flow uses, so handlers never touch raw session values.
type SessionStore struct {
    store *sessions.CookieStore
}

func NewSessionStore(cfg config.SessionConfig) *SessionStore {
    store := sessions.NewCookieStore([]byte(cfg.Secret))
    store.Options = &sessions.Options{
        Path:     "/",
        Domain:   cfg.Domain,
        MaxAge:   cfg.MaxAge,
        Secure:   true,
        HttpOnly: true,
        SameSite: http.SameSiteLaxMode,
    }
    return &SessionStore{store: store}
}

// TransactionDetails reads the completed transaction from the session.
func (s *SessionStore) TransactionDetails(r *http.Request) (*models.TransactionDetails, bool) {
    session, err := s.store.Get(r, sessionName)
    if err != nil {
        log.Printf("Error getting session: %v", err)
        return nil, false
    }

    details, ok := session.Values[completedTransactionDetails].(models.TransactionDetails)
    if !ok {
        return nil, false
    }
    return &details, true
}

// SaveTransactionDetails stores the completed transaction in the
// session. Called only after a successful gateway result.
func (s *SessionStore) SaveTransactionDetails(w http.ResponseWriter, r *http.Request, details models.TransactionDetails) error {
    session, err := s.store.Get(r, sessionName)
    if err != nil {
        log.Printf("Error getting session: %v", err)
    }

    session.Values[completedTransactionDetails] = details
    return session.Save(r, w)
}

// TransactionRequired guards endpoints that only make sense after a
// completed donation. Donors without one are sent back to the start.
func (s *SessionStore) TransactionRequired(next http.Handler) http.Handler {
    return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
        if _, ok := s.TransactionDetails(r); !ok {
            http.Redirect(w, r, homePath, http.StatusFound)
            return
        }
        next.ServeHTTP(w, r)
    })
}
