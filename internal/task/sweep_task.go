package task

import (
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// SessionSweeper 会话清理接口
type SessionSweeper interface {
	Sweep() int
}

// ThrottlePruner 冷却表清理接口
type ThrottlePruner interface {
	Prune(olderThan time.Duration) int
}

// SweepTask 定时清理空闲会话和过期的冷却记录
type SweepTask struct {
	sessions SessionSweeper
	throttle ThrottlePruner
	Cron     *cron.Cron
	spec     string

	// 冷却记录保留时长，超过后删除
	throttleRetention time.Duration
	log               *zap.Logger
}

func NewSweepTask(sessions SessionSweeper, throttle ThrottlePruner, spec string, retention time.Duration, log *zap.Logger) *SweepTask {
	return &SweepTask{
		sessions:          sessions,
		throttle:          throttle,
		Cron:              cron.New(cron.WithSeconds()), // 支持秒级控制
		spec:              spec,
		throttleRetention: retention,
		log:               log,
	}
}

// Start 启动定时任务
func (t *SweepTask) Start() error {
	// 首次执行
	go t.run()

	if _, err := t.Cron.AddFunc(t.spec, t.run); err != nil {
		return fmt.Errorf("无法启动会话清理任务: %w", err)
	}

	t.Cron.Start()
	t.log.Info("会话清理任务已启动", zap.String("spec", t.spec))
	return nil
}

// Stop 停止调度并等待正在执行的任务结束
func (t *SweepTask) Stop() {
	<-t.Cron.Stop().Done()
}

func (t *SweepTask) run() {
	sessions := t.sessions.Sweep()
	pruned := 0
	if t.throttle != nil {
		pruned = t.throttle.Prune(t.throttleRetention)
	}
	t.log.Debug("[Cron] 本轮清理完成", zap.Int("sessions", sessions), zap.Int("throttle", pruned))
}
