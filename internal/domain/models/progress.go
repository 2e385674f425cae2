package models

// Progress records which stages of one task a student has completed.
//
// At most one Progress document exists per (StudentUsername, TaskID).
// CompletedStages is a set: membership matters, position does not.
// Neither key is checked against the students or tasks collections on write.
type Progress struct {
	ID              string   `bson:"_id" json:"id"`
	StudentUsername string   `bson:"student_username" json:"studentUsername"`
	TaskID          string   `bson:"task_id" json:"taskId"`
	CompletedStages []string `bson:"completed_stages" json:"completedStages"`
}

// ProgressKey is the composite key of a Progress document.
type ProgressKey struct {
	StudentUsername string
	TaskID          string
}

// Key returns the composite key of p.
func (p Progress) Key() ProgressKey {
	return ProgressKey{StudentUsername: p.StudentUsername, TaskID: p.TaskID}
}

// String renders the key for logs and lock maps.
func (k ProgressKey) String() string {
	return k.StudentUsername + "\x00" + k.TaskID
}
