package models

import "time"

// Article is a publishable news record. Counters only ever increment and
// CreatedAt is assigned once at creation.
type Article struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	Title     string    `json:"title" binding:"required"`
	Text      string    `json:"text" binding:"required"`
	Images    []string  `gorm:"type:jsonb;serializer:json" json:"images"`
	Tags      []string  `gorm:"type:jsonb;serializer:json" json:"tags"`
	Author    string    `json:"author"`
	Likes     int64     `json:"likes"`
	Dislikes  int64     `json:"dislikes"`
	Views     int64     `json:"views"`
	CreatedAt time.Time `gorm:"index" json:"createdAt"`
}

// HasTag reports whether tag is one of the article's tags.
func (a *Article) HasTag(tag string) bool {
	for _, t := range a.Tags {
		if t == tag {
			return true
		}
	}
	return false
}
