// Package errs 交易所错误分类
// 每个错误都带有 Kind (决定调用方是否可以重试) 和 Code (稳定的错误名)
package errs

import (
	"fmt"

	"github.com/pkg/errors"
)

// Kind 错误类别
type Kind int

const (
	KindUnknown       Kind = iota
	KindValidation         // 输入不合法, 修正后可重试
	KindStateConflict      // 调用方看到的状态已过期, 需要重新读取
	KindAuthorization      // 调用方无权限, 不可重试
	KindPaused             // 已暂停, 恢复后可重试
	KindTransfer           // 外部资金或 NFT 转移被拒绝, 整个操作已回滚
	KindInternal
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindStateConflict:
		return "state_conflict"
	case KindAuthorization:
		return "authorization"
	case KindPaused:
		return "paused"
	case KindTransfer:
		return "transfer"
	case KindInternal:
		return "internal"
	default:
		return "unknown"
	}
}

// Error 带分类的错误
type Error struct {
	Kind    Kind
	Code    string
	Message string
}

func (e *Error) Error() string {
	if e.Message == "" {
		return e.Code
	}
	return e.Code + ": " + e.Message
}

// Is 按 Code 比较, 使 errors.Is 可以匹配 WithMessage 生成的副本
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// WithMessage 返回同一错误码、带附加说明的副本
func (e *Error) WithMessage(format string, args ...interface{}) *Error {
	return &Error{Kind: e.Kind, Code: e.Code, Message: fmt.Sprintf(format, args...)}
}

func newErr(kind Kind, code string) *Error {
	return &Error{Kind: kind, Code: code}
}

var (
	ErrInvalidValueSent  = newErr(KindValidation, "InvalidValueSent")
	ErrDurationTooShort  = newErr(KindValidation, "DurationTooShort")
	ErrDurationTooLong   = newErr(KindValidation, "DurationTooLong")
	ErrInvalidPercent    = newErr(KindValidation, "InvalidPercent")
	ErrInvalidAddress    = newErr(KindValidation, "InvalidAddress")
	ErrInvalidTokenOwner = newErr(KindValidation, "InvalidTokenOwner")
	ErrArrayLength       = newErr(KindValidation, "ArrayLengthMismatch")
	ErrInsufficientFunds = newErr(KindValidation, "InsufficientFunds")
	ErrInsufficientValue = newErr(KindValidation, "InsufficientValue")
	ErrInvalidPrice      = newErr(KindValidation, "InvalidPrice")
	ErrInvalidCollection = newErr(KindValidation, "InvalidCollection")
	ErrInvalidTokenID    = newErr(KindValidation, "InvalidTokenId")
	ErrInvalidBid        = newErr(KindValidation, "InvalidBid")
	ErrInvalidDesk       = newErr(KindValidation, "InvalidDesk")
	ErrInvalidConfig     = newErr(KindValidation, "InvalidConfig")
	ErrInvalidAmount     = newErr(KindValidation, "InvalidAmount")
	ErrSenderIsRecipient = newErr(KindValidation, "SenderIsRecipient")

	ErrAlreadyExists       = newErr(KindStateConflict, "AlreadyExists")
	ErrNoActiveCommitment  = newErr(KindStateConflict, "NoActiveCommitment")
	ErrInvalidIndex        = newErr(KindStateConflict, "InvalidIndex")
	ErrCommitmentExpired   = newErr(KindStateConflict, "CommitmentExpired")
	ErrAuctionNotFound     = newErr(KindStateConflict, "AuctionNotFound")
	ErrTokenNotFound       = newErr(KindStateConflict, "TokenNotFound")
	ErrCollectionNotFound  = newErr(KindStateConflict, "CollectionNotFound")
	ErrNothingToWithdraw   = newErr(KindStateConflict, "NothingToWithdraw")
	ErrCollectionExists    = newErr(KindStateConflict, "CollectionExists")
	ErrSaleContractMissing = newErr(KindStateConflict, "SaleContractMissing")

	ErrNotOwner        = newErr(KindAuthorization, "NotOwner")
	ErrNotMaker        = newErr(KindAuthorization, "NotMaker")
	ErrNotTokenOwner   = newErr(KindAuthorization, "NotTokenOwner")
	ErrNotSaleContract = newErr(KindAuthorization, "NotSaleContract")

	ErrPaused = newErr(KindPaused, "Paused")

	ErrTransferRejected  = newErr(KindTransfer, "TransferRejected")
	ErrNftTransferFailed = newErr(KindTransfer, "NftTransferFailed")

	ErrInvariant = newErr(KindInternal, "InvariantViolated")
)

// KindOf 返回错误链中第一个 *Error 的类别
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

// CodeOf 返回错误链中第一个 *Error 的错误码
func CodeOf(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// Retryable 是否可以在不重新读取状态的情况下重试
func Retryable(err error) bool {
	switch KindOf(err) {
	case KindValidation, KindPaused:
		return true
	default:
		return false
	}
}
