package store

import (
	"database/sql"
	"time"
)

// User is a row in the users table.
type User struct {
	ID           int64
	Email        string
	PasswordHash string
	Role         string
	Name         string
	CreatedAt    time.Time
	UpdatedAt    time.Time
	LastLoginAt  sql.NullTime
}

// IsAdmin returns true if the user has the admin role.
func (u *User) IsAdmin() bool {
	return u.Role == "admin"
}

// Evento is a row in the eventos table.
type Evento struct {
	ID          int64
	Title       string
	Date        time.Time
	Time        string
	Location    string
	Type        string
	Description string
	ImageUrl    string
	VideoUrl    string
	IsFeatured  bool
	IsPublished bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Noticia is a row in the noticias table. Gallery holds a JSON array of
// image URLs; handlers marshal/unmarshal at the boundary.
type Noticia struct {
	ID            int64
	Title         string
	Slug          string
	Excerpt       string
	Content       string
	ContentFormat string
	Category      string
	ImageUrl      string
	VideoUrl      string
	Gallery       string
	PublishDate   sql.NullTime
	IsPublished   bool
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// SocialLink is a row in the social_links table.
type SocialLink struct {
	ID             int64
	Platform       string
	Username       string
	Url            string
	Icon           sql.NullString
	FollowersCount string
	DisplayOrder   int64
	IsActive       bool
	CreatedAt      time.Time
}

// Medium is a row in the media table describing one stored bucket object.
type Medium struct {
	ID        int64
	Uuid      string
	Bucket    string
	Folder    string
	Filename  string
	MimeType  string
	Size      int64
	Width     sql.NullInt64
	Height    sql.NullInt64
	CreatedAt time.Time
}

// StoragePath returns the object path within its bucket ("folder/name" or "name").
func (m *Medium) StoragePath() string {
	if m.Folder == "" {
		return m.Filename
	}
	return m.Folder + "/" + m.Filename
}

// ActivityLog is a row in the activity_log table.
type ActivityLog struct {
	ID        int64
	Level     string
	Category  string
	Message   string
	UserID    sql.NullInt64
	IpAddress string
	Metadata  string
	CreatedAt time.Time
}

// SiteConfig is a row in the site_config key/value table.
type SiteConfig struct {
	Key       string
	Value     string
	UpdatedAt time.Time
}

// ContactMessage is a row in the contact_messages table.
type ContactMessage struct {
	ID        int64
	Name      string
	Email     string
	Phone     string
	Subject   string
	Message   string
	CreatedAt time.Time
}

// Visit is a row in the visits page-view tracking table.
type Visit struct {
	ID        int64
	Path      string
	Device    string
	Browser   string
	Country   string
	CreatedAt time.Time
}
