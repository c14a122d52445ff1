package queue

import (
	"encoding/json"

	"github.com/hibiken/asynq"
)

const (
	// TaskOrderPlaced 新订单店主通知任务
	TaskOrderPlaced = "order:placed"
)

// OrderPlacedPayload 新订单通知任务载荷
type OrderPlacedPayload struct {
	OrderIDs []uint   `json:"order_ids"`
	OrderNos []string `json:"order_nos"`
	Summary  string   `json:"summary"`
}

// NewOrderPlacedTask 创建新订单通知任务
func NewOrderPlacedTask(payload OrderPlacedPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskOrderPlaced, data), nil
}
