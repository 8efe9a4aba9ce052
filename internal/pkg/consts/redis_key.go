package consts

const (
	CounterCacheKey           = "counter:cache:"
	CounterDirtyKey           = "counter:dirty"
	CounterDirtyProcessingKey = "counter:dirty:processing"
)

const CounterLockPrefix = "counter:lock:"
