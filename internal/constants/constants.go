package constants

// 购物车操作常量
const (
	CartActionAdd    = "add"
	CartActionRemove = "remove"
)

// 用户状态常量
const (
	UserStatusActive   = "active"
	UserStatusDisabled = "disabled"
)

// 队列常量
const (
	QueueDefault          = "default"
	TaskOrderReceiptEmail = "order:receipt_email"
)

// 缓存默认配置常量
const (
	RedisPrefixDefault = "sf"
)
