package service

import (
	"strconv"
	"time"

	"flatboard/internal/model"
)

// nextUserID derives a user id from the creation instant in Unix
// milliseconds, bumping by one until unused so rapid registrations cannot
// collide.
func nextUserID(doc *model.Document, now time.Time) int64 {
	id := now.UnixMilli()
	for {
		taken := false
		for _, u := range doc.Users {
			if u.ID == id {
				taken = true
				break
			}
		}
		if !taken {
			return id
		}
		id++
	}
}

// nextPostID is the same derivation for posts, as the decimal string the
// posts map is keyed by.
func nextPostID(doc *model.Document, now time.Time) string {
	id := now.UnixMilli()
	for {
		key := strconv.FormatInt(id, 10)
		if _, ok := doc.Posts[key]; !ok {
			return key
		}
		id++
	}
}
