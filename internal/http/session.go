package http

import (
	"net/http"
	"time"

	"github.com/google/uuid"

	"vibes/internal/cache"
	"vibes/internal/filter"
	"vibes/internal/log"
)

// SessionCookie carries the id of the browser's filter session.
const SessionCookie = "vibes_session"

// sessions keeps one filter.Manager per browser session. Evicted managers
// are closed, which supersedes their waiting keystrokes.
type sessions struct {
	store  *cache.LRUCache[*filter.Manager]
	clock  filter.Clock
	window time.Duration
	ttl    time.Duration
}

func newSessions(max int, ttl time.Duration, clock filter.Clock, window time.Duration, logger *log.Logger) *sessions {
	onEvict := func(id string, m *filter.Manager) {
		m.Close()
		logger.Debug("Filter session evicted", log.FieldSessionID, id)
	}
	return &sessions{
		store:  cache.NewLRUCache[*filter.Manager](max, ttl, cache.WithEvict(onEvict)),
		clock:  clock,
		window: window,
		ttl:    ttl,
	}
}

// manager returns the session's manager, issuing a new cookie when the
// request has none or an unusable one.
func (s *sessions) manager(w http.ResponseWriter, r *http.Request) (*filter.Manager, string) {
	id := ""
	if c, err := r.Cookie(SessionCookie); err == nil {
		if _, perr := uuid.Parse(c.Value); perr == nil {
			id = c.Value
		}
	}
	if id == "" {
		id = uuid.NewString()
	}
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    id,
		Path:     "/",
		MaxAge:   int(s.ttl / time.Second),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Secure:   r.TLS != nil,
	})
	m := s.store.GetOrCreate(id, func() *filter.Manager {
		return filter.NewManager(s.clock, s.window)
	})
	return m, id
}

func (s *sessions) size() int { return s.store.Size() }

func (s *sessions) close() { s.store.Purge() }
