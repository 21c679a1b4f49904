package main

import (
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"inkwell/constants"
)

// User roles. The first account ever registered is assigned RoleAdmin;
// everyone after that is a reader.
const (
	RoleAdmin  = "admin"
	RoleReader = "reader"
)

// User represents a registered account
type User struct {
	gorm.Model
	Email        string `gorm:"uniqueIndex;not null"`
	PasswordHash string `gorm:"not null"`
	Name         string
	Role         string `gorm:"default:reader"`

	Posts    []BlogPost `gorm:"foreignKey:AuthorID"`
	Comments []Comment  `gorm:"foreignKey:AuthorID"`
}

// IsAdmin returns true if the user may manage posts.
func (u User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// GravatarURL returns the avatar image URL for the user's email.
func (u User) GravatarURL() string {
	sum := md5.Sum([]byte(strings.ToLower(strings.TrimSpace(u.Email))))
	return fmt.Sprintf("https://www.gravatar.com/avatar/%s?s=%d&d=retro&r=g",
		hex.EncodeToString(sum[:]), constants.GRAVATAR_SIZE)
}

// BlogPost represents a published article
type BlogPost struct {
	gorm.Model
	Title       string `gorm:"uniqueIndex;not null"`
	Subtitle    string
	Body        string `gorm:"type:text"`
	ImageURL    string
	PublishedOn time.Time

	AuthorID uint `gorm:"index"`
	Author   User

	Comments []Comment `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
}

// DisplayDate formats the publication date for rendering. The date is set
// once at creation and never recomputed.
func (p BlogPost) DisplayDate() string {
	return p.PublishedOn.Format(constants.DATE_FORMAT)
}

// Comment represents a reader comment on a post. Comments are flat and
// listed in insertion order.
type Comment struct {
	gorm.Model
	Body string `gorm:"type:text"`

	AuthorID uint `gorm:"index"`
	Author   User

	BlogPostID uint `gorm:"index"`
}
