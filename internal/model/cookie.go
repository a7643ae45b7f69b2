package model

// Cookie 饼干，cookie 字段即会话令牌
type Cookie struct {
	Cookie   string `db:"cookie" json:"cookie"`
	Name     string `db:"name" json:"name"`
	Selected bool   `db:"selected" json:"selected"`
}
