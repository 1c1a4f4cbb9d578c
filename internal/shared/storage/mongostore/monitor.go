package mongostore

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"go.mongodb.org/mongo-driver/v2/event"
)

// QueryRecorder 查询指标回调：操作名、集合名、耗时
type QueryRecorder func(operation, collection string, duration time.Duration)

// queryMonitor 把驱动的命令事件转发给 QueryRecorder
//
// 集合名只出现在 Started 事件的命令文档里，Succeeded/Failed
// 事件通过 RequestID 关联取回。recorder 可在连接建立后再设置。
type queryMonitor struct {
	recorder atomic.Pointer[QueryRecorder]
	inflight sync.Map // RequestID -> collection
}

// commandMonitor 构造驱动事件监听器
func (m *queryMonitor) commandMonitor() *event.CommandMonitor {
	return &event.CommandMonitor{
		Started: func(_ context.Context, ev *event.CommandStartedEvent) {
			if m.recorder.Load() == nil {
				return
			}
			collection := ""
			if raw, err := ev.Command.LookupErr(ev.CommandName); err == nil {
				collection, _ = raw.StringValueOK()
			}
			m.inflight.Store(ev.RequestID, collection)
		},
		Succeeded: func(_ context.Context, ev *event.CommandSucceededEvent) {
			m.record(ev.RequestID, ev.CommandName, ev.Duration)
		},
		Failed: func(_ context.Context, ev *event.CommandFailedEvent) {
			m.record(ev.RequestID, ev.CommandName, ev.Duration)
		},
	}
}

func (m *queryMonitor) record(requestID int64, command string, duration time.Duration) {
	collection := ""
	if v, ok := m.inflight.LoadAndDelete(requestID); ok {
		collection, _ = v.(string)
	}
	if rec := m.recorder.Load(); rec != nil {
		(*rec)(command, collection, duration)
	}
}

// SetQueryRecorder 安装查询指标回调，传 nil 关闭
func (s *Store) SetQueryRecorder(rec QueryRecorder) {
	if rec == nil {
		s.monitor.recorder.Store(nil)
		return
	}
	s.monitor.recorder.Store(&rec)
}
