package lock

import (
	"context"
	"fmt"
	"sync"
	"time"
)

var (
	lockMap sync.Map
)

// WithDelay выполняет safeCode под блокировкой по ключу, ожидая освобождение не дольше wait.
// success=false — блокировку получить не удалось (конкурентная операция ещё выполняется)
func WithDelay(ctx context.Context, key string, wait time.Duration, safeCode func() error) (success bool, err error) {
	isLocked := false
	isTimeout := time.After(wait)
	for {
		if _, loaded := lockMap.LoadOrStore(key, true); !loaded {
			isLocked = true
			break
		}
		select {
		case <-isTimeout:
			return false, nil
		case <-ctx.Done():
			return false, nil
		default:
			time.Sleep(50 * time.Millisecond)
		}
	}
	if isLocked {
		defer lockMap.Delete(key)
		return true, safeCode()
	}
	return false, nil
}

// AssignmentKey ключ сериализации переходов по назначению
func AssignmentKey(id string) string {
	return fmt.Sprintf("assignment:%v", id)
}

// RequestKey ключ сериализации переходов по заявке
func RequestKey(id string) string {
	return fmt.Sprintf("request:%v", id)
}
