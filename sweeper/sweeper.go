package sweeper

import (
	"context"
	"fmt"
	"time"

	"bate-papo/backend/database"
	"bate-papo/backend/models"
	"bate-papo/backend/services"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

const lockKey = "bate-papo:sweeper"

// Locker 避免多個程序同時執行清理
type Locker interface {
	TryLock(ctx context.Context, key string, ttl time.Duration) (bool, error)
	Unlock(ctx context.Context, key string) error
}

// Config 設定清理排程
type Config struct {
	Interval    time.Duration // 排程間隔
	IdleTimeout time.Duration // 超過這個時間沒有心跳就移除
	Location    *time.Location
	Now         func() time.Time
	Locker      Locker // 可為 nil
	Publisher   services.Publisher
}

// Sweeper 定期移除閒置的使用者，並為每個被移除的使用者發出 "sai da sala..." 狀態訊息
type Sweeper struct {
	cron         *cron.Cron
	participants database.ParticipantStore
	messages     database.MessageStore
	cfg          Config
}

// New 建立 Sweeper
func New(participants database.ParticipantStore, messages database.MessageStore, cfg Config) *Sweeper {
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if cfg.Location == nil {
		cfg.Location = time.Local
	}
	return &Sweeper{
		cron: cron.New(
			cron.WithLocation(cfg.Location),
			cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger)),
		),
		participants: participants,
		messages:     messages,
		cfg:          cfg,
	}
}

// Start 註冊清理工作並啟動排程
func (s *Sweeper) Start() error {
	schedule := fmt.Sprintf("@every %s", s.cfg.Interval)
	if _, err := s.cron.AddFunc(schedule, s.tick); err != nil {
		return fmt.Errorf("register sweep job: %w", err)
	}
	s.cron.Start()
	zap.S().Infow("idle participant sweeper started",
		"interval", s.cfg.Interval,
		"idleTimeout", s.cfg.IdleTimeout,
	)
	return nil
}

// Stop 停止排程，並等待執行中的清理完成
func (s *Sweeper) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	zap.S().Info("idle participant sweeper stopped")
}

// tick 是排程呼叫的入口，錯誤只記錄，等下一次排程
func (s *Sweeper) tick() {
	ctx, cancel := context.WithTimeout(context.Background(), s.cfg.Interval)
	defer cancel()

	if s.cfg.Locker != nil {
		acquired, err := s.cfg.Locker.TryLock(ctx, lockKey, s.cfg.Interval)
		if err != nil {
			zap.S().Errorw("failed to acquire sweeper lock", "error", err)
			return
		}
		if !acquired {
			zap.S().Debug("sweep already running on another instance, skipping")
			return
		}
		defer func() {
			if err := s.cfg.Locker.Unlock(context.Background(), lockKey); err != nil {
				zap.S().Warnw("failed to release sweeper lock", "error", err)
			}
		}()
	}

	evicted, err := s.Sweep(ctx)
	if err != nil {
		zap.S().Errorw("sweep failed", "error", err)
		return
	}
	if evicted > 0 {
		zap.S().Infow("evicted idle participants", "count", evicted)
	}
}

// Sweep 移除 lastStatus <= now-IdleTimeout 的使用者，回傳被移除的人數
func (s *Sweeper) Sweep(ctx context.Context) (int, error) {
	now := s.cfg.Now()
	cutoff := now.Add(-s.cfg.IdleTimeout).UnixMilli()

	idle, err := s.participants.FindIdle(ctx, cutoff)
	if err != nil {
		return 0, fmt.Errorf("find idle participants: %w", err)
	}
	if len(idle) == 0 {
		return 0, nil
	}

	names := database.Names(idle)
	if _, err := s.participants.DeleteByNames(ctx, names); err != nil {
		return 0, fmt.Errorf("delete idle participants: %w", err)
	}

	statuses := make([]models.Message, 0, len(names))
	for _, name := range names {
		statuses = append(statuses, services.StatusMessage(name, services.StatusLeft, now, s.cfg.Location))
	}
	ids, err := s.messages.InsertMany(ctx, statuses)
	if err != nil {
		return len(names), fmt.Errorf("insert leave statuses: %w", err)
	}

	if s.cfg.Publisher != nil {
		for i := range statuses {
			if i < len(ids) {
				statuses[i].ID = ids[i]
			}
			s.cfg.Publisher.Publish(statuses[i])
		}
	}
	return len(names), nil
}
