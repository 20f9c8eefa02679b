// Package errcode HTTP 错误码
// 交易所错误按类别映射到 HTTP 状态码, 其余错误统一视为内部错误.
package errcode

import (
	"net/http"

	"github.com/pkg/errors"

	"github.com/ProjectsTask/EasySwapMarket/market/errs"
)

// Err 返回给前端的错误
type Err struct {
	HTTPCode int    `json:"-"`
	Code     int    `json:"code"`
	Reason   string `json:"reason,omitempty"` // 交易所错误名, 如 OfferExists
	Msg      string `json:"msg"`
}

func (e *Err) Error() string {
	return e.Msg
}

var (
	ErrInvalidParams = &Err{HTTPCode: http.StatusBadRequest, Code: 10001, Msg: "invalid params"}
	ErrUnauthorized  = &Err{HTTPCode: http.StatusUnauthorized, Code: 10002, Msg: "missing account"}
	ErrNotFound      = &Err{HTTPCode: http.StatusNotFound, Code: 10003, Msg: "not found"}
	ErrUnavailable   = &Err{HTTPCode: http.StatusServiceUnavailable, Code: 10004, Msg: "service unavailable"}
	ErrUnexpected    = &Err{HTTPCode: http.StatusInternalServerError, Code: 10500, Msg: "unexpected error"}
)

// 交易所错误类别对应的业务码
var kindCodes = map[errs.Kind]struct {
	http int
	code int
}{
	errs.KindValidation:    {http.StatusBadRequest, 20001},
	errs.KindStateConflict: {http.StatusConflict, 20002},
	errs.KindAuthorization: {http.StatusForbidden, 20003},
	errs.KindPaused:        {http.StatusServiceUnavailable, 20004},
	errs.KindTransfer:      {http.StatusBadGateway, 20005},
	errs.KindInternal:      {http.StatusInternalServerError, 20006},
}

// NewCustomErr 参数错误, 使用自定义提示
func NewCustomErr(msg string) *Err {
	return &Err{HTTPCode: http.StatusBadRequest, Code: ErrInvalidParams.Code, Msg: msg}
}

// FromError 把任意错误转换为 *Err
func FromError(err error) *Err {
	if err == nil {
		return nil
	}
	var e *Err
	if errors.As(err, &e) {
		return e
	}
	var me *errs.Error
	if errors.As(err, &me) {
		kc, ok := kindCodes[me.Kind]
		if !ok {
			return ErrUnexpected
		}
		return &Err{HTTPCode: kc.http, Code: kc.code, Reason: me.Code, Msg: err.Error()}
	}
	return ErrUnexpected
}
