package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Post type and status values.
const (
	PostTypeDevotional   = "devotional"
	PostTypeScripture    = "scripture"
	PostTypeAnnouncement = "announcement"

	PostStatusPublished = "published"
	PostStatusDraft     = "draft"
	PostStatusScheduled = "scheduled"
)

// Post is a CMS entry shown on the storefront (devotionals, scripture,
// announcements).
type Post struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	Title     string             `bson:"title" json:"title"`
	Content   string             `bson:"content" json:"content"`
	Type      string             `bson:"type" json:"type"`
	Status    string             `bson:"status" json:"status"`
	Author    string             `bson:"author,omitempty" json:"author,omitempty"`
	Views     int                `bson:"views" json:"views"`
	Likes     int                `bson:"likes" json:"likes"`
	Tags      []string           `bson:"tags,omitempty" json:"tags,omitempty"`
	PublishAt *time.Time         `bson:"publishAt,omitempty" json:"publishAt,omitempty"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time          `bson:"updatedAt" json:"updatedAt"`
}
