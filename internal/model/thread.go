package model

// Thread 串，同时用于主串与回复
// Optional fields are pointers so that "absent" survives the cache round trip.
type Thread struct {
	ID            int64    `db:"id" json:"id"`
	FID           *int64   `db:"fid" json:"fid,omitempty"`
	ReplyCount    *int64   `db:"reply_count" json:"ReplyCount,omitempty"`
	Img           string   `db:"img" json:"img"`
	Ext           string   `db:"ext" json:"ext"`
	Time          string   `db:"time" json:"now"`
	UserHash      string   `db:"user_hash" json:"user_hash"`
	Name          string   `db:"name" json:"name"`
	Title         string   `db:"title" json:"title"`
	Content       string   `db:"content" json:"content"`
	Sage          *int64   `db:"sage" json:"sage,omitempty"`
	Admin         int64    `db:"admin" json:"admin"`
	Hide          *int64   `db:"hide" json:"Hide,omitempty"`
	Replies       []Thread `db:"-" json:"Replies,omitempty"`
	RemainReplies *int64   `db:"remain_replies" json:"RemainReplies,omitempty"`
	Email         *string  `db:"email" json:"email,omitempty"`
	Master        *int64   `db:"master" json:"master,omitempty"`
	Page          int64    `db:"page" json:"page"`

	// ForumName is resolved locally for timeline rows.
	ForumName string `db:"forum_name" json:"forumName,omitempty"`
	// LastAccess epoch millis, history rows only.
	LastAccess *int64 `db:"last_access" json:"lastAccess,omitempty"`
}

// IsAdmin 红名
func (t *Thread) IsAdmin() bool {
	return t.Admin != 0
}

// IsSage 被 SAGE 的串
func (t *Thread) IsSage() bool {
	return t.Sage != nil && *t.Sage == 1
}
