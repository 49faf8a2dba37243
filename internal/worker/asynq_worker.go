package worker

import (
	"context"
	"encoding/json"
	"errors"
	"strings"

	"github.com/storefront-api/internal/logger"
	"github.com/storefront-api/internal/models"
	"github.com/storefront-api/internal/provider"
	"github.com/storefront-api/internal/queue"
	"github.com/storefront-api/internal/service"

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
	mux.HandleFunc(queue.TaskOrderReceiptEmail, c.handleOrderReceiptEmail)
}

func (c *Consumer) handleOrderReceiptEmail(_ context.Context, task *asynq.Task) error {
	if c == nil || task == nil {
		logger.Debugw("worker_order_receipt_email_skip_nil", "consumer_nil", c == nil, "task_nil", task == nil)
		return nil
	}
	var payload queue.OrderReceiptEmailPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		logger.Warnw("worker_order_receipt_email_unmarshal_failed", "error", err)
		return err
	}
	if payload.OrderID == 0 {
		logger.Debugw("worker_order_receipt_email_skip_invalid_payload", "order_id", payload.OrderID)
		return nil
	}
	order, err := c.OrderRepo.GetByID(payload.OrderID, true)
	if err != nil {
		logger.Warnw("worker_order_receipt_email_fetch_order_failed", "order_id", payload.OrderID, "error", err)
		return err
	}
	if order == nil {
		logger.Debugw("worker_order_receipt_email_skip_order_not_found", "order_id", payload.OrderID)
		return nil
	}
	if !order.Complete {
		logger.Debugw("worker_order_receipt_email_skip_incomplete", "order_id", order.ID)
		return nil
	}
	user, err := c.UserRepo.GetByID(order.UserID)
	if err != nil {
		logger.Warnw("worker_order_receipt_email_fetch_user_failed", "order_id", order.ID, "user_id", order.UserID, "error", err)
		return err
	}
	receiverEmail := ""
	if user != nil {
		receiverEmail = strings.TrimSpace(user.Email)
	}
	if receiverEmail == "" {
		logger.Debugw("worker_order_receipt_email_skip_empty_receiver", "order_id", order.ID)
		return nil
	}
	if c.EmailService == nil {
		logger.Warnw("worker_order_receipt_email_skip_email_service_nil", "order_id", order.ID)
		return nil
	}
	input := buildOrderReceiptEmailInput(order)
	if err := c.EmailService.SendOrderReceipt(receiverEmail, input); err != nil {
		// 邮件服务未配置属于部署状态问题，重试不会成功，直接跳过
		if errors.Is(err, service.ErrEmailNotConfigured) {
			logger.Warnw("worker_order_receipt_email_skip_not_configured", "order_id", order.ID)
			return nil
		}
		logger.Warnw("worker_order_receipt_email_send_failed",
			"order_id", order.ID,
			"receiver_email", receiverEmail,
			"error", err,
		)
		return err
	}
	return nil
}

func buildOrderReceiptEmailInput(order *models.Order) service.OrderReceiptEmailInput {
	input := service.OrderReceiptEmailInput{
		OrderID:       order.ID,
		TransactionID: order.TransactionID,
		ItemCount:     order.ItemCount(),
		Total:         order.TotalAmount(),
	}
	if order.ShippingAddress != nil {
		input.Address = order.ShippingAddress.Address
		input.City = order.ShippingAddress.City
		input.State = order.ShippingAddress.State
		input.Zipcode = order.ShippingAddress.Zipcode
	}
	return input
}
