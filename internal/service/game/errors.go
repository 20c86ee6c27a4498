package game

// 错误分类，调度边界据此决定日志级别；
// 所有错误都转换为单连接的结构化错误响应，绝不中断连接
const (
	ERR_VALIDATION = "Validation"
	ERR_PERMISSION = "Permission"
	ERR_STATE      = "State"
	ERR_NOT_FOUND  = "NotFound"
	ERR_CAPACITY   = "Capacity"
)

type GameError struct {
	Kind string
	Msg  string
}

func (e *GameError) Error() string {
	return e.Msg
}

func NewValidationError(msg string) *GameError {
	return &GameError{Kind: ERR_VALIDATION, Msg: msg}
}

func NewPermissionError(msg string) *GameError {
	return &GameError{Kind: ERR_PERMISSION, Msg: msg}
}

func NewStateError(msg string) *GameError {
	return &GameError{Kind: ERR_STATE, Msg: msg}
}

func NewNotFoundError(msg string) *GameError {
	return &GameError{Kind: ERR_NOT_FOUND, Msg: msg}
}

func NewCapacityError(msg string) *GameError {
	return &GameError{Kind: ERR_CAPACITY, Msg: msg}
}
