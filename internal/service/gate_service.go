package service

import (
	"crypto/subtle"
	"errors"
	"fmt"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/kitchenlog/internal/db"
)

const (
	// LockoutThreshold is the number of recorded failures that locks a client out.
	LockoutThreshold = 10
	// LockoutWindow is how long a locked client is refused credential checks.
	LockoutWindow = 300 * time.Second
)

// ErrUnknownRole indicates a login attempt against a role that has no configured secret.
var ErrUnknownRole = errors.New("unknown role")

// GateResult describes the outcome of a credential check.
// Exactly one of Authenticated/Locked may be set; both false means the
// credential was rejected and the failure has been recorded.
type GateResult struct {
	Authenticated bool
	Locked        bool
	RetryAfter    time.Duration
}

// GateService guards the shared-secret login behind a per-IP failure limit.
// Lockout state is persisted so failed attempts survive restarts; a
// successful login deliberately leaves the counter untouched.
type GateService struct {
	db        *gorm.DB
	passwords map[string]string
	now       func() time.Time
}

// NewGateService creates a GateService. passwords maps role names to their
// secrets; the "admin" secret also works as a universal override for every role.
func NewGateService(gdb *gorm.DB, passwords map[string]string) *GateService {
	return &GateService{db: gdb, passwords: passwords, now: time.Now}
}

// SetClock replaces the time source, mainly for tests.
func (s *GateService) SetClock(now func() time.Time) {
	if now == nil {
		s.now = time.Now
		return
	}
	s.now = now
}

// Check evaluates a credential for the given role and client IP.
//
// Order matters: the lockout state is consulted first, and while locked the
// credential is never compared and the counter is never incremented. Once the
// window has elapsed the counter is reset to zero before the fresh evaluation.
// Storage errors abort the check; they are never interpreted as authenticated.
func (s *GateService) Check(role, password, clientIP string) (GateResult, error) {
	ip := strings.TrimSpace(clientIP)
	if ip == "" {
		ip = "unknown"
	}
	if _, ok := s.passwords[role]; !ok {
		return GateResult{}, ErrUnknownRole
	}

	now := s.now().Unix()

	var lockout db.Lockout
	err := s.db.Where("ip = ?", ip).First(&lockout).Error
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return GateResult{}, fmt.Errorf("load lockout state: %w", err)
	}

	if err == nil && lockout.Attempts >= LockoutThreshold {
		elapsed := now - lockout.LastAttempt
		if elapsed < int64(LockoutWindow/time.Second) {
			remaining := time.Duration(int64(LockoutWindow/time.Second)-elapsed) * time.Second
			return GateResult{Locked: true, RetryAfter: remaining}, nil
		}

		// Window elapsed: reset first, then evaluate the attempt fresh.
		if err := s.db.Model(&db.Lockout{}).Where("ip = ?", ip).
			Update("attempts", 0).Error; err != nil {
			return GateResult{}, fmt.Errorf("reset lockout: %w", err)
		}
	}

	if s.matches(role, password) {
		return GateResult{Authenticated: true}, nil
	}

	if err := s.recordFailure(ip, now); err != nil {
		return GateResult{}, fmt.Errorf("record failed attempt: %w", err)
	}
	return GateResult{}, nil
}

// matches accepts the role's own secret or the admin override. Configured
// secrets may be bcrypt hashes or plaintext; plaintext comparison is
// constant time.
func (s *GateService) matches(role, password string) bool {
	if password == "" {
		return false
	}

	candidates := []string{s.passwords[role]}
	if role != "admin" {
		candidates = append(candidates, s.passwords["admin"])
	}

	for _, secret := range candidates {
		if secret == "" {
			continue
		}
		if strings.HasPrefix(secret, "$2") {
			if bcrypt.CompareHashAndPassword([]byte(secret), []byte(password)) == nil {
				return true
			}
			continue
		}
		if subtle.ConstantTimeCompare([]byte(secret), []byte(password)) == 1 {
			return true
		}
	}
	return false
}

func (s *GateService) recordFailure(ip string, now int64) error {
	entry := db.Lockout{IP: ip, Attempts: 1, LastAttempt: now}
	return s.db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "ip"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"attempts":     gorm.Expr("attempts + 1"),
			"last_attempt": now,
		}),
	}).Create(&entry).Error
}
