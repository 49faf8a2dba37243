package service

import "errors"

// 业务错误哨兵，handler 层用 errors.Is 映射为响应码
var (
	ErrProductNotFound        = errors.New("product not found")
	ErrOrderNotFound          = errors.New("order not found")
	ErrActiveOrderNotFound    = errors.New("active order not found")
	ErrOrderAccessDenied      = errors.New("order access denied")
	ErrOrderCompleted         = errors.New("order already completed")
	ErrInvalidCartAction      = errors.New("invalid cart action")
	ErrInvalidOrderItem       = errors.New("invalid order item")
	ErrInvalidShippingAddress = errors.New("invalid shipping address")
	ErrInvalidCredentials     = errors.New("invalid credentials")
	ErrInvalidEmail           = errors.New("invalid email")
	ErrEmailExists            = errors.New("email already exists")
	ErrUserDisabled           = errors.New("user disabled")
	ErrWeakPassword           = errors.New("weak password")
	ErrEmailNotConfigured     = errors.New("email service not configured")
	ErrNotFound               = errors.New("not found")
)
