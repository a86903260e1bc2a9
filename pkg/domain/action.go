package domain

import "time"

// ActionKind represents the type of engagement action
type ActionKind string

// action kinds
const (
	ActionLike   ActionKind = "like"
	ActionFollow ActionKind = "follow"
	ActionReply  ActionKind = "reply"
	ActionSkip   ActionKind = "skip"
	ActionFail   ActionKind = "fail"
)

// Action represents one journaled engagement attempt
type Action struct {
	ID        int64
	Kind      ActionKind
	PostID    string
	Author    string
	Text      string // reply text for replies, empty otherwise
	Detail    string // skip reason or error
	CreatedAt time.Time
}
