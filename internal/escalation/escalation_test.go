package escalation

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/vidronox/fleetcheck/internal/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func pendingDamage(priority models.DamagePriority, age time.Duration, now time.Time) models.Damage {
	return models.Damage{
		ID:          primitive.NewObjectID(),
		VehicleID:   primitive.NewObjectID(),
		Description: "test damage",
		Priority:    priority,
		Status:      models.DamagePending,
		CreatedAt:   now.Add(-age),
	}
}

func TestDeadline(t *testing.T) {
	assert.Equal(t, 24*time.Hour, Deadline(models.PriorityHigh))
	assert.Equal(t, 4*24*time.Hour, Deadline(models.PriorityMedium))
	assert.Equal(t, 7*24*time.Hour, Deadline(models.PriorityLow))
}

func TestMonitor_Candidate(t *testing.T) {
	now := time.Now()

	t.Run("nothing pending", func(t *testing.T) {
		m := NewMonitor()
		assert.Nil(t, m.Candidate("sup1", now))
	})

	t.Run("fresh damage does not escalate", func(t *testing.T) {
		m := NewMonitor()
		m.SetPending([]models.Damage{pendingDamage(models.PriorityHigh, 2*time.Hour, now)})
		assert.Nil(t, m.Candidate("sup1", now))
	})

	t.Run("overdue high beats overdue low", func(t *testing.T) {
		m := NewMonitor()
		low := pendingDamage(models.PriorityLow, 10*24*time.Hour, now)
		high := pendingDamage(models.PriorityHigh, 2*24*time.Hour, now)
		m.SetPending([]models.Damage{low, high})

		got := m.Candidate("sup1", now)
		assert.NotNil(t, got)
		assert.Equal(t, high.ID, got.ID)
	})

	t.Run("same priority picks oldest", func(t *testing.T) {
		m := NewMonitor()
		newer := pendingDamage(models.PriorityMedium, 5*24*time.Hour, now)
		older := pendingDamage(models.PriorityMedium, 6*24*time.Hour, now)
		m.SetPending([]models.Damage{newer, older})

		got := m.Candidate("sup1", now)
		assert.NotNil(t, got)
		assert.Equal(t, older.ID, got.ID)
	})

	t.Run("medium escalates only past four days", func(t *testing.T) {
		m := NewMonitor()
		m.SetPending([]models.Damage{pendingDamage(models.PriorityMedium, 3*24*time.Hour, now)})
		assert.Nil(t, m.Candidate("sup1", now))

		m.SetPending([]models.Damage{pendingDamage(models.PriorityMedium, 5*24*time.Hour, now)})
		assert.NotNil(t, m.Candidate("sup1", now))
	})

	t.Run("resolved damage never escalates", func(t *testing.T) {
		m := NewMonitor()
		d := pendingDamage(models.PriorityHigh, 2*24*time.Hour, now)
		d.Status = models.DamageResolved
		m.SetPending([]models.Damage{d})
		assert.Nil(t, m.Candidate("sup1", now))
	})
}

func TestMonitor_Acknowledge(t *testing.T) {
	now := time.Now()
	m := NewMonitor()
	high := pendingDamage(models.PriorityHigh, 2*24*time.Hour, now)
	low := pendingDamage(models.PriorityLow, 10*24*time.Hour, now)
	m.SetPending([]models.Damage{high, low})

	// Acknowledging the high one surfaces the low one next
	m.Acknowledge("sup1", high.ID.Hex())
	got := m.Candidate("sup1", now)
	assert.NotNil(t, got)
	assert.Equal(t, low.ID, got.ID)

	// Another supervisor's session is unaffected
	got = m.Candidate("sup2", now)
	assert.NotNil(t, got)
	assert.Equal(t, high.ID, got.ID)

	m.Acknowledge("sup1", low.ID.Hex())
	assert.Nil(t, m.Candidate("sup1", now))
}

func TestMonitor_SetPendingSweepsStaleAcks(t *testing.T) {
	now := time.Now()
	m := NewMonitor()
	d := pendingDamage(models.PriorityHigh, 2*24*time.Hour, now)
	m.SetPending([]models.Damage{d})
	m.Acknowledge("sup1", d.ID.Hex())

	// The damage leaves the pending set and comes back (e.g. reopened):
	// the stale acknowledgement must not suppress it.
	m.SetPending(nil)
	m.SetPending([]models.Damage{d})

	got := m.Candidate("sup1", now)
	assert.NotNil(t, got)
	assert.Equal(t, d.ID, got.ID)
}

func TestWhatsAppLink(t *testing.T) {
	d := &models.Damage{
		ID:          primitive.NewObjectID(),
		Priority:    models.PriorityHigh,
		Description: "Pneu furado",
	}
	link := WhatsAppLink(d, "ABC-1234")
	assert.True(t, strings.HasPrefix(link, "https://wa.me/?text="))
	assert.Contains(t, link, "ABC-1234")
	assert.NotContains(t, link, " ") // fully escaped
}
