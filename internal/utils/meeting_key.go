package utils

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// MeetingKey derives the deterministic identity of a meeting from the tuple
// that defines it. Approving the same meeting request twice produces the same
// key, so the unique index on meetings.meeting_key absorbs retried approvals.
func MeetingKey(supervisorID, studentID uint64, title, date, timeOfDay string) string {
	seed := fmt.Sprintf("%d|%d|%s|%s|%s", supervisorID, studentID, title, date, timeOfDay)
	sum := sha256.Sum256([]byte(seed))
	return hex.EncodeToString(sum[:])
}
