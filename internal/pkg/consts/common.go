package consts

const (
	CounterModeLock   = "lock"
	CounterModeAtomic = "atomic"
)

const (
	DefaultPageSize  = 20
	MaxPageSize      = 50
	DefaultAvatarURL = "default_avatar.png"
)
