package model

// ForumGroup 版块分组，forums 按服务端顺序排列
type ForumGroup struct {
	ID     string  `db:"id" json:"id"`
	Name   string  `db:"name" json:"name"`
	Sort   string  `db:"sort" json:"sort"`
	Status string  `db:"status" json:"status"`
	Forums []Forum `db:"-" json:"forums"`
}

// Forum 版块
// GroupID is the group the forum was listed under; FGroup is whatever the API
// reported and is absent for pseudo forums such as the timeline.
type Forum struct {
	ID              string  `db:"id" json:"id"`
	GroupID         string  `db:"group_id" json:"-"`
	FGroup          *string `db:"fgroup" json:"fgroup,omitempty"`
	Sort            *string `db:"sort" json:"sort,omitempty"`
	Name            string  `db:"name" json:"name"`
	ShowName        *string `db:"show_name" json:"showName,omitempty"`
	Msg             *string `db:"msg" json:"msg,omitempty"`
	Interval        *string `db:"interval" json:"interval,omitempty"`
	SafeMode        *string `db:"safe_mode" json:"safe_mode,omitempty"`
	AutoDelete      *string `db:"auto_delete" json:"auto_delete,omitempty"`
	ThreadCount     *string `db:"thread_count" json:"thread_count,omitempty"`
	PermissionLevel *string `db:"permission_level" json:"permission_level,omitempty"`
	ForumFuseID     *string `db:"forum_fuse_id" json:"forum_fuse_id,omitempty"`
	CreatedAt       *string `db:"created_at" json:"createdAt,omitempty"`
	UpdateAt        *string `db:"update_at" json:"updateAt,omitempty"`
	Status          *string `db:"status" json:"status,omitempty"`
}

// DisplayName showName when set, otherwise name
func (f *Forum) DisplayName() string {
	if f.ShowName != nil && *f.ShowName != "" {
		return *f.ShowName
	}
	return f.Name
}
