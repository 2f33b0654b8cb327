// Package escalation surfaces pending damage reports that have sat
// unattended past their priority deadline, so a supervisor sees a recurring
// reminder until the damage is resolved or acknowledged for the session.
package escalation

import (
	"context"
	"net/url"
	"sort"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/vidronox/fleetcheck/internal/models"
	"go.mongodb.org/mongo-driver/bson"
)

// Deadline returns how long a pending damage of the given priority may sit
// before it escalates.
func Deadline(priority models.DamagePriority) time.Duration {
	switch priority {
	case models.PriorityHigh:
		return 24 * time.Hour
	case models.PriorityMedium:
		return 4 * 24 * time.Hour
	default:
		return 7 * 24 * time.Hour
	}
}

func priorityRank(priority models.DamagePriority) int {
	switch priority {
	case models.PriorityHigh:
		return 2
	case models.PriorityMedium:
		return 1
	default:
		return 0
	}
}

// DamageSource is the slice of damage persistence the monitor needs.
type DamageSource interface {
	FindDamages(ctx context.Context, filter bson.M, limit int64) ([]models.Damage, error)
}

// Monitor tracks pending damages and per-session acknowledgements.
type Monitor struct {
	mu      sync.Mutex
	pending []models.Damage
	// acked maps user ID to the set of damage IDs that user dismissed
	// this session.
	acked map[string]map[string]struct{}
}

// NewMonitor creates an empty monitor.
func NewMonitor() *Monitor {
	return &Monitor{
		acked: make(map[string]map[string]struct{}),
	}
}

// SetPending replaces the candidate list and drops acknowledgements for
// damages that are no longer pending.
func (m *Monitor) SetPending(damages []models.Damage) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.pending = damages

	live := make(map[string]struct{}, len(damages))
	for _, d := range damages {
		live[d.ID.Hex()] = struct{}{}
	}
	for userID, set := range m.acked {
		for damageID := range set {
			if _, ok := live[damageID]; !ok {
				delete(set, damageID)
			}
		}
		if len(set) == 0 {
			delete(m.acked, userID)
		}
	}
}

// Acknowledge suppresses a damage for userID for the rest of the session.
func (m *Monitor) Acknowledge(userID, damageID string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.acked[userID] == nil {
		m.acked[userID] = make(map[string]struct{})
	}
	m.acked[userID][damageID] = struct{}{}
}

// Candidate returns the damage to surface for userID at now: the
// highest-priority pending damage past its deadline that the user has not
// acknowledged, oldest first within a priority. Nil when nothing escalates.
func (m *Monitor) Candidate(userID string, now time.Time) *models.Damage {
	m.mu.Lock()
	defer m.mu.Unlock()

	var due []models.Damage
	for _, d := range m.pending {
		if d.Status != models.DamagePending {
			continue
		}
		if now.Sub(d.CreatedAt) < Deadline(d.Priority) {
			continue
		}
		if set, ok := m.acked[userID]; ok {
			if _, dismissed := set[d.ID.Hex()]; dismissed {
				continue
			}
		}
		due = append(due, d)
	}
	if len(due) == 0 {
		return nil
	}

	sort.SliceStable(due, func(i, j int) bool {
		ri, rj := priorityRank(due[i].Priority), priorityRank(due[j].Priority)
		if ri != rj {
			return ri > rj
		}
		return due[i].CreatedAt.Before(due[j].CreatedAt)
	})

	candidate := due[0]
	return &candidate
}

// Run keeps the pending list fresh on a ticker until ctx is done. The
// realtime change feed triggers full re-fetches client-side; this loop is
// the server-side equivalent.
func (m *Monitor) Run(ctx context.Context, source DamageSource, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	m.refresh(ctx, source)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.refresh(ctx, source)
		}
	}
}

func (m *Monitor) refresh(ctx context.Context, source DamageSource) {
	damages, err := source.FindDamages(ctx, bson.M{"status": models.DamagePending}, 0)
	if err != nil {
		log.WithError(err).Warn("failed to refresh pending damages")
		return
	}
	m.SetPending(damages)
}

// WhatsAppLink builds the prefilled deep link for the "notify via
// messaging" escalation action.
func WhatsAppLink(damage *models.Damage, plate string) string {
	text := "Lembrete FleetCheck: avaria pendente no veículo " + plate +
		" (prioridade " + string(damage.Priority) + "): " + damage.Description
	return "https://wa.me/?text=" + url.QueryEscape(text)
}
