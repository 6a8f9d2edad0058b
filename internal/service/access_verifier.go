package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	gocache "github.com/patrickmn/go-cache"
	"github.com/redis/go-redis/v9"

	"github.com/Divyapahuja31/ASKMYNOTES/internal/entity"
	"github.com/Divyapahuja31/ASKMYNOTES/internal/pkg/logger"
	"github.com/Divyapahuja31/ASKMYNOTES/internal/repository/contract"
	"github.com/Divyapahuja31/ASKMYNOTES/internal/repository/specification"
	"github.com/Divyapahuja31/ASKMYNOTES/pkg/crag/cragerr"
)

type IAccessVerifier interface {
	// VerifyOwnership checks the subject exists and belongs to the user.
	VerifyOwnership(ctx context.Context, userId, subjectId uuid.UUID) (*entity.Subject, error)

	// CheckAndCountAsk enforces the per-user daily ask quota.
	CheckAndCountAsk(ctx context.Context, userId uuid.UUID) error
}

type accessVerifier struct {
	subjects   contract.SubjectRepository
	cache      *gocache.Cache
	rdb        *redis.Client
	dailyLimit int
	log        logger.ILogger
}

func NewAccessVerifier(
	subjects contract.SubjectRepository,
	rdb *redis.Client,
	dailyLimit int,
	log logger.ILogger,
) IAccessVerifier {
	return &accessVerifier{
		subjects:   subjects,
		cache:      gocache.New(5*time.Minute, 10*time.Minute),
		rdb:        rdb,
		dailyLimit: dailyLimit,
		log:        log,
	}
}

func (v *accessVerifier) VerifyOwnership(ctx context.Context, userId, subjectId uuid.UUID) (*entity.Subject, error) {
	cacheKey := fmt.Sprintf("subject:%s:%s", userId, subjectId)
	if cached, ok := v.cache.Get(cacheKey); ok {
		return cached.(*entity.Subject), nil
	}

	subject, err := v.subjects.FindOne(ctx,
		specification.ByID{ID: subjectId},
		specification.UserOwnedBy{UserID: userId},
	)
	if err != nil {
		return nil, err
	}
	if subject == nil {
		return nil, cragerr.Authorization("subject not found")
	}

	v.cache.Set(cacheKey, subject, gocache.DefaultExpiration)
	return subject, nil
}

// CheckAndCountAsk increments a per-day redis counter and rejects once the
// limit is reached. A limit < 0 means unlimited; an unreachable redis lets
// the ask through rather than blocking the product on a cache outage.
func (v *accessVerifier) CheckAndCountAsk(ctx context.Context, userId uuid.UUID) error {
	if v.dailyLimit < 0 || v.rdb == nil {
		return nil
	}

	now := time.Now()
	key := fmt.Sprintf("ask_quota:%s:%s", userId, now.Format("2006-01-02"))

	count, err := v.rdb.Incr(ctx, key).Result()
	if err != nil {
		v.log.Warn("access", "redis quota check failed, allowing ask", map[string]interface{}{
			"user_id": userId.String(),
			"error":   err.Error(),
		})
		return nil
	}
	if count == 1 {
		midnight := time.Date(now.Year(), now.Month(), now.Day()+1, 0, 0, 0, 0, now.Location())
		v.rdb.Expire(ctx, key, time.Until(midnight))
	}

	if count > int64(v.dailyLimit) {
		return fmt.Errorf("%w: %d asks used today (limit %d)", cragerr.ErrQuotaExceeded, count-1, v.dailyLimit)
	}
	return nil
}
