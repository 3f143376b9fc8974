package utils

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/cppla/mememates/config"
)

const registrationOpTimeout = 500 * time.Millisecond

func registrationKey(parts ...string) string {
	return "mememates:reg:" + strings.Join(parts, ":")
}

// RegistrationCooldownTry enforces RegisterCooldownSec between registration attempts per IP.
// Without Redis, or on a Redis error, the attempt is allowed.
func RegistrationCooldownTry(ip string) bool {
	sec := config.Get().RegisterCooldownSec
	cli := GetRedis()
	if sec <= 0 || cli == nil {
		return true
	}
	ctx, cancel := context.WithTimeout(context.Background(), registrationOpTimeout)
	defer cancel()
	ok, err := cli.SetNX(ctx, registrationKey("cooldown", ip), "1", time.Duration(sec)*time.Second).Result()
	if err != nil {
		Sugar.Warnf("registration cooldown check failed ip=%s err=%v", ip, err)
		return true
	}
	return ok
}

// RegistrationCooldownClear lifts the cooldown after an attempt that created nothing.
func RegistrationCooldownClear(ip string) {
	cli := GetRedis()
	if config.Get().RegisterCooldownSec <= 0 || cli == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), registrationOpTimeout)
	defer cancel()
	if err := cli.Del(ctx, registrationKey("cooldown", ip)).Err(); err != nil {
		Sugar.Warnf("registration cooldown clear failed ip=%s err=%v", ip, err)
	}
}

// RegistrationDailyLimitCheck allows up to RegisterMaxPerIPPerDay successful registrations per IP per day.
func RegistrationDailyLimitCheck(ip string) bool {
	limit := config.Get().RegisterMaxPerIPPerDay
	cli := GetRedis()
	if limit <= 0 || cli == nil {
		return true
	}
	ctx, cancel := context.WithTimeout(context.Background(), registrationOpTimeout)
	defer cancel()
	n, err := cli.Get(ctx, registrationDayKey(ip, time.Now())).Int()
	if errors.Is(err, redis.Nil) {
		return true
	}
	if err != nil {
		Sugar.Warnf("registration daily limit check failed ip=%s err=%v", ip, err)
		return true
	}
	return n < limit
}

// RegistrationDailyIncrement counts a successful registration until the end of the day.
func RegistrationDailyIncrement(ip string) {
	cli := GetRedis()
	if config.Get().RegisterMaxPerIPPerDay <= 0 || cli == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), registrationOpTimeout)
	defer cancel()
	now := time.Now()
	key := registrationDayKey(ip, now)
	if err := cli.Incr(ctx, key).Err(); err != nil {
		Sugar.Warnf("registration counter failed ip=%s err=%v", ip, err)
		return
	}
	_ = cli.Expire(ctx, key, time.Until(endOfDay(now))).Err()
}

func registrationDayKey(ip string, now time.Time) string {
	return registrationKey("day", ip, now.Format("20060102"))
}

func endOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d+1, 0, 0, 0, 0, t.Location())
}
