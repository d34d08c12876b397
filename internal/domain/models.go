package domain

import "time"

// Post - корень ветки обсуждения.
type Post struct {
	ID        int64     `json:"id" gorm:"primaryKey;autoIncrement"`
	Title     string    `json:"title" gorm:"type:varchar(200);not null"`
	Content   string    `json:"content" gorm:"type:text;not null"`
	Author    string    `json:"author" gorm:"type:varchar(100);not null"`
	CreatedAt time.Time `json:"createdAt" gorm:"type:timestamp;not null;autoCreateTime:false"`
	UpdatedAt time.Time `json:"updatedAt" gorm:"type:timestamp;not null;autoUpdateTime:false"`
	// Только для gorm: задает ON DELETE CASCADE, никогда не загружается.
	Comments []*Comment `json:"-" gorm:"foreignKey:PostID;constraint:OnDelete:CASCADE"`
}

func (Post) TableName() string { return "post" }

// Comment - корневой комментарий (ParentID == nil) или ответ на него.
type Comment struct {
	ID        int64     `json:"id" gorm:"primaryKey;autoIncrement"`
	Content   string    `json:"content" gorm:"type:text;not null"`
	Author    string    `json:"author" gorm:"type:varchar(100);not null"`
	CreatedAt time.Time `json:"createdAt" gorm:"type:timestamp;not null;autoCreateTime:false"`
	PostID    int64     `json:"postId" gorm:"not null;index:idx_comment_post_parent,priority:1"`
	ParentID  *int64    `json:"parentId,omitempty" gorm:"index:idx_comment_post_parent,priority:2"`
	// Ответы по (CreatedAt, ID). Заполняются только при выдаче ветки.
	Replies []*Comment `json:"replies" gorm:"foreignKey:ParentID;constraint:OnDelete:CASCADE"`
}

func (Comment) TableName() string { return "comment" }

// IsTopLevel сообщает, висит ли c прямо под постом.
func (c *Comment) IsTopLevel() bool { return c.ParentID == nil }

// Before упорядочивает по времени создания, при равенстве по id.
func (c *Comment) Before(o *Comment) bool {
	if !c.CreatedAt.Equal(o.CreatedAt) {
		return c.CreatedAt.Before(o.CreatedAt)
	}
	return c.ID < o.ID
}
