package models

import "time"

// Follow is a directed subscription: UserID wants AuthorID's posts in
// their feed. The pair is unique; self-follows are rejected by the
// follow handler, not by the schema.
type Follow struct {
	ID       int  `gorm:"primaryKey" json:"id"`
	UserID   int  `gorm:"not null;uniqueIndex:idx_follow_user_author" json:"user_id"`
	AuthorID int  `gorm:"not null;uniqueIndex:idx_follow_user_author" json:"author_id"`
	User     User `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	Author   User `gorm:"foreignKey:AuthorID;constraint:OnDelete:CASCADE" json:"-"`

	CreatedAt time.Time `json:"created_at"`
}
