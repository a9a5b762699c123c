package db

import (
	"time"
)

type CleanupRun struct {
	Id            int       `db:"id" json:"id"`
	Email         string    `db:"email" json:"email"`
	UnreadDeleted int       `db:"unread_deleted" json:"unreadDeleted"`
	SpamDeleted   int       `db:"spam_deleted" json:"spamDeleted"`
	TrashDeleted  int       `db:"trash_deleted" json:"trashDeleted"`
	OldDeleted    int       `db:"old_deleted" json:"oldDeleted"`
	TotalDeleted  int       `db:"total_deleted" json:"totalDeleted"`
	Success       bool      `db:"success" json:"success"`
	RanAt         time.Time `db:"ran_at" json:"ranAt"`
}
