package public

import (
	"errors"

	"github.com/storefront-api/internal/http/response"
	"github.com/storefront-api/internal/service"

	"github.com/gin-gonic/gin"
)

// mappedHandlerError 定义业务错误到接口错误响应的映射关系。
type mappedHandlerError struct {
	target error
	code   int
	msg    string
}

func respondWithMappedError(c *gin.Context, err error, rules []mappedHandlerError, fallbackCode int, fallbackMsg string) {
	for _, rule := range rules {
		if errors.Is(err, rule.target) {
			respondError(c, rule.code, rule.msg, nil)
			return
		}
	}
	respondError(c, fallbackCode, fallbackMsg, err)
}

func concatMappedHandlerErrors(groups ...[]mappedHandlerError) []mappedHandlerError {
	total := 0
	for _, group := range groups {
		total += len(group)
	}
	result := make([]mappedHandlerError, 0, total)
	for _, group := range groups {
		result = append(result, group...)
	}
	return result
}

var cartUpdateErrorRules = []mappedHandlerError{
	{target: service.ErrInvalidCartAction, code: response.CodeBadRequest, msg: "invalid cart action"},
	{target: service.ErrInvalidOrderItem, code: response.CodeBadRequest, msg: "invalid cart item"},
	{target: service.ErrProductNotFound, code: response.CodeNotFound, msg: "product not found"},
}

var checkoutErrorRules = []mappedHandlerError{
	{target: service.ErrActiveOrderNotFound, code: response.CodeNotFound, msg: "no active order to check out"},
	{target: service.ErrInvalidShippingAddress, code: response.CodeBadRequest, msg: "invalid shipping address"},
}

var orderAccessErrorRules = []mappedHandlerError{
	{target: service.ErrOrderNotFound, code: response.CodeNotFound, msg: "order not found"},
	{target: service.ErrOrderAccessDenied, code: response.CodeForbidden, msg: "order belongs to another customer"},
}

var orderUpdateExtraErrorRules = []mappedHandlerError{
	{target: service.ErrOrderCompleted, code: response.CodeConflict, msg: "completed order is immutable"},
	{target: service.ErrInvalidOrderItem, code: response.CodeBadRequest, msg: "invalid order item"},
	{target: service.ErrProductNotFound, code: response.CodeBadRequest, msg: "order item references unknown product"},
}

var userRegisterErrorRules = []mappedHandlerError{
	{target: service.ErrInvalidEmail, code: response.CodeBadRequest, msg: "invalid email address"},
	{target: service.ErrEmailExists, code: response.CodeBadRequest, msg: "email already registered"},
}

var userLoginErrorRules = []mappedHandlerError{
	{target: service.ErrInvalidEmail, code: response.CodeBadRequest, msg: "invalid email address"},
	{target: service.ErrInvalidCredentials, code: response.CodeUnauthorized, msg: "invalid email or password"},
	{target: service.ErrUserDisabled, code: response.CodeUnauthorized, msg: "account disabled"},
}

func respondCartUpdateError(c *gin.Context, err error) {
	respondWithMappedError(c, err, cartUpdateErrorRules, response.CodeInternal, "failed to update cart")
}

func respondCheckoutError(c *gin.Context, err error) {
	respondWithMappedError(c, err, checkoutErrorRules, response.CodeInternal, "failed to process order")
}

func respondOrderAccessError(c *gin.Context, err error) {
	respondWithMappedError(c, err, orderAccessErrorRules, response.CodeInternal, "failed to load order")
}

func respondOrderUpdateError(c *gin.Context, err error) {
	respondWithMappedError(c, err, concatMappedHandlerErrors(orderAccessErrorRules, orderUpdateExtraErrorRules), response.CodeInternal, "failed to update order")
}
