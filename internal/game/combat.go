package game

import (
	"time"

	"github.com/sirupsen/logrus"

	"github.com/samdwyer/dungeoncrawler/internal/world"
)

// Scheduler runs f once after d has elapsed.
type Scheduler interface {
	AfterFunc(d time.Duration, f func())
}

// TimerScheduler schedules callbacks on time.AfterFunc.
type TimerScheduler struct{}

// AfterFunc implements Scheduler.
func (TimerScheduler) AfterFunc(d time.Duration, f func()) {
	time.AfterFunc(d, f)
}

// Attack swings the player's weapon at the engaged enemy, if any. The
// attacking flag is lowered after the weapon cadence unless the player
// attacks again first.
func (s *Session) Attack() world.AttackResult {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StatePlaying {
		return world.AttackResult{}
	}

	res := s.grid.Attack()
	if res.Target != 0 {
		s.log.WithFields(logrus.Fields{
			"mob":    res.Target,
			"damage": res.Damage,
		}).Debug("Player hit mob")
	}

	token := res.Token
	s.scheduler.AfterFunc(res.ClearAfter, func() {
		s.endAttack(token)
	})
	return res
}

// endAttack runs from the scheduler. The player survives level transitions,
// so the token stays meaningful on whatever grid is live by then.
func (s *Session) endAttack(token uint64) {
	s.mu.Lock()
	changed := s.grid.EndAttack(token)
	s.mu.Unlock()

	if changed {
		s.notify()
	}
}
