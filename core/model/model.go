package model

// Role describes a user's position inside the family.
type Role string

const (
	RoleOwner   Role = "owner"
	RoleRegular Role = "regular"
)

// MediaKind describes the content type of a post attachment.
type MediaKind string

const (
	MediaImage MediaKind = "image"
	MediaVideo MediaKind = "video"
	MediaAudio MediaKind = "audio"
)

// User is a family member account.
type User struct {
	ID        int    `json:"id" gorm:"column:id;primaryKey"`
	FirstName string `json:"firstName" gorm:"column:first_name"`
	LastName  string `json:"lastName" gorm:"column:last_name"`
	AvatarURL string `json:"avatarUrl" gorm:"column:avatar_url"`
	Role      Role   `json:"role" gorm:"column:role"`
	Pro       bool   `json:"pro" gorm:"column:pro"`
}

// Post is a single feed entry. Text and media are both optional, but the
// add-post flow guarantees at least one of them is set.
type Post struct {
	ID        string     `json:"id" gorm:"column:id;primaryKey"`
	Text      *string    `json:"text,omitempty" gorm:"column:text"`
	MediaURL  *string    `json:"mediaUrl,omitempty" gorm:"column:media_url"`
	MediaKind *MediaKind `json:"mediaKind,omitempty" gorm:"column:media_kind"`
	UserID    int        `json:"userId" gorm:"column:user_id"`
	Date      string     `json:"date" gorm:"column:date"`
	Likes     []int      `json:"likes" gorm:"column:likes;serializer:json"`
}

// Liked reports whether the given user id is present in the likes list.
func (p Post) Liked(userID int) bool {
	for _, id := range p.Likes {
		if id == userID {
			return true
		}
	}
	return false
}

// Comment belongs to exactly one post and is immutable after creation.
type Comment struct {
	ID     string `json:"id" gorm:"column:id;primaryKey"`
	UserID int    `json:"userId" gorm:"column:user_id"`
	PostID string `json:"postId" gorm:"column:post_id"`
	Text   string `json:"text" gorm:"column:text"`
	Date   string `json:"date" gorm:"column:date"`
}

// Position is a geographic coordinate reported by the presence pinger.
type Position struct {
	Latitude  float64 `json:"latitude" gorm:"column:latitude"`
	Longitude float64 `json:"longitude" gorm:"column:longitude"`
}

// PresenceStatus is the last known whereabouts of a user. There is at most
// one row per user; the derived online/offline/at-home state is computed at
// read time by the family feature, never stored.
type PresenceStatus struct {
	UserID     int      `json:"userId" gorm:"column:user_id;primaryKey"`
	LastOnline string   `json:"lastOnline" gorm:"column:last_online"`
	Position   Position `json:"position" gorm:"embedded"`
}
