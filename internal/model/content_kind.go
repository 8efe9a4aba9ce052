package model

// ContentKind 信息流与标注使用的内容类型
type ContentKind string

const (
	KindPost    ContentKind = "post"
	KindComment ContentKind = "comment"
	KindStory   ContentKind = "story"
	KindProfile ContentKind = "profile"
)
