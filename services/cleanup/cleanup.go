/*
 * Package cleanup sweeps anonymous guest accounts. Guests get a
 * synthesized @gartictext.com email at join time; any such account older
 * than the TTL is deleted. The sweep never touches game state: it only
 * matches the age + email-domain predicate.
 */
package cleanup

import (
	"context"
	"os"
	"strconv"
	"time"

	game_constants "gartictext/constants/game"
	models "gartictext/models/postgres"
	"gartictext/utils/logger"

	"gorm.io/gorm"
)

// TTL resolves the anonymous-user TTL from ANON_USER_TTL_HOURS.
func TTL() time.Duration {
	if v := os.Getenv("ANON_USER_TTL_HOURS"); v != "" {
		if hours, err := strconv.Atoi(v); err == nil && hours > 0 {
			return time.Duration(hours) * time.Hour
		}
	}
	return game_constants.DefaultAnonUserTTL
}

// Interval resolves the sweep interval from CLEANUP_INTERVAL_MINUTES.
func Interval() time.Duration {
	if v := os.Getenv("CLEANUP_INTERVAL_MINUTES"); v != "" {
		if minutes, err := strconv.Atoi(v); err == nil && minutes > 0 {
			return time.Duration(minutes) * time.Minute
		}
	}
	return game_constants.DefaultCleanupInterval
}

// FindTemporaryUsers lists the anonymous accounts older than ttl.
func FindTemporaryUsers(db *gorm.DB, ttl time.Duration) ([]models.User, error) {
	cutoff := time.Now().Add(-ttl)
	var users []models.User
	err := db.Where("email LIKE ? AND created_at < ?",
		"%"+game_constants.AnonEmailDomain, cutoff).Find(&users).Error
	return users, err
}

// DeleteTemporaryUsers removes the anonymous accounts older than ttl and
// returns how many were deleted.
func DeleteTemporaryUsers(db *gorm.DB, ttl time.Duration) (int64, error) {
	cutoff := time.Now().Add(-ttl)
	result := db.Where("email LIKE ? AND created_at < ?",
		"%"+game_constants.AnonEmailDomain, cutoff).Delete(&models.User{})
	return result.RowsAffected, result.Error
}

// Run loops the sweep until ctx is cancelled. Meant to be spawned as a
// goroutine from main.
func Run(ctx context.Context, db *gorm.DB) {
	ttl := TTL()
	interval := Interval()
	logger.Infof("cleanup sweep started: interval=%s ttl=%s", interval, ttl)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Info("cleanup sweep stopped")
			return
		case <-ticker.C:
			deleted, err := DeleteTemporaryUsers(db, ttl)
			if err != nil {
				logger.Errorf("cleanup sweep failed: %v", err)
				continue
			}
			if deleted > 0 {
				logger.Infof("cleanup sweep deleted %d temporary users", deleted)
			}
		}
	}
}
