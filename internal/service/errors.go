package service

import (
	"errors"
)

const (
	BadRequest          = 400
	Unauthorized        = 401
	NotFound            = 404
	InternalServerError = 500
	ServiceUnavailable  = 503
)

var (
	ErrParamInvalid        = errors.New("参数错误")
	ErrUserNotFound        = errors.New("用户不存在")
	ErrUserFollowSelf      = errors.New("用户不能关注自己")
	ErrPostNotFound        = errors.New("帖子不存在")
	ErrPostCommentNotFound = errors.New("评论不存在")
	ErrStoryNotFound       = errors.New("快拍不存在")
	ErrDuplicateEdge       = errors.New("重复操作")
	ErrEdgeNotFound        = errors.New("关系不存在")
	ErrLockUnavailable     = errors.New("计数器繁忙，请稍后重试")
	ErrUnknownReference    = errors.New("计数对象不存在")
	ErrUnknownCounter      = errors.New("未知的计数字段")
	UnauthorizedError      = errors.New("权限不足")
	UnExpectedError        = errors.New("系统异常，请稍后重试")
)

var ErrorMap = map[error]int{
	ErrParamInvalid:        BadRequest,
	ErrUserNotFound:        NotFound,
	ErrUserFollowSelf:      BadRequest,
	ErrPostNotFound:        NotFound,
	ErrPostCommentNotFound: NotFound,
	ErrStoryNotFound:       NotFound,
	ErrDuplicateEdge:       BadRequest,
	ErrEdgeNotFound:        NotFound,
	ErrLockUnavailable:     ServiceUnavailable,
	ErrUnknownReference:    NotFound,
	ErrUnknownCounter:      BadRequest,
	UnauthorizedError:      Unauthorized,
	UnExpectedError:        InternalServerError,
}

// CodeOf 返回错误对应的业务码, 支持被包装的哨兵错误
func CodeOf(err error) (int, bool) {
	if code, ok := ErrorMap[err]; ok {
		return code, true
	}
	for sentinel, code := range ErrorMap {
		if errors.Is(err, sentinel) {
			return code, true
		}
	}
	return InternalServerError, false
}
