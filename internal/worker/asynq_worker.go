package worker

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/charmsmith/internal/logger"
	"github.com/charmsmith/internal/provider"
	"github.com/charmsmith/internal/queue"

	"github.com/hibiken/asynq"
)

// Consumer 异步任务消费者
type Consumer struct {
	*provider.Container
}

// NewConsumer 创建消费者
func NewConsumer(c *provider.Container) *Consumer {
	return &Consumer{
		Container: c,
	}
}

// Register 注册消费者
func (c *Consumer) Register(mux *asynq.ServeMux) {
	if c == nil || mux == nil {
		logger.Debugw("worker_register_skip_nil", "consumer_nil", c == nil, "mux_nil", mux == nil)
		return
	}
	mux.HandleFunc(queue.TaskOrderPlaced, c.handleOrderPlaced)
}

// handleOrderPlaced 新订单通知：把交接摘要转发给店主。
// 该旁路失败不影响已落库订单，返回错误交由 asynq 重试。
func (c *Consumer) handleOrderPlaced(_ context.Context, task *asynq.Task) error {
	if c == nil || task == nil {
		return nil
	}
	var payload queue.OrderPlacedPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		logger.Warnw("worker_order_placed_unmarshal_failed", "error", err)
		return err
	}
	if len(payload.OrderNos) == 0 {
		logger.Debugw("worker_order_placed_skip_empty_payload")
		return nil
	}
	if c.EmailService == nil || !c.EmailService.Enabled() {
		logger.Debugw("worker_order_placed_skip_email_disabled", "order_nos", payload.OrderNos)
		return nil
	}

	subject := "New order " + strings.Join(payload.OrderNos, ", ")
	if err := c.EmailService.SendOrderNotification(subject, payload.Summary); err != nil {
		logger.Warnw("worker_order_placed_email_failed",
			"order_nos", payload.OrderNos,
			"error", err,
		)
		return err
	}
	logger.Infow("worker_order_placed_notified", "order_nos", payload.OrderNos)
	return nil
}
