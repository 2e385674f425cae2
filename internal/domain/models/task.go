package models

import "time"

// Stage is one checklist item within a Task. Stage IDs are unique within
// their task only.
type Stage struct {
	ID   string `bson:"id" json:"id"`
	Name string `bson:"name" json:"name"`
}

// Task is an ordered list of stages assigned to every student.
//
// Stage order is display order; stages may be completed in any order.
type Task struct {
	ID          string  `bson:"_id" json:"id"`
	Title       string  `bson:"title" json:"title"`
	TitleCI     string  `bson:"title_ci" json:"-"`
	Description string  `bson:"description" json:"description"`
	Stages      []Stage `bson:"stages" json:"stages"`

	CreatedAt time.Time `bson:"created_at" json:"createdAt"`
}

// StageIDs returns the set of stage identifiers currently defined on the task.
func (t *Task) StageIDs() map[string]struct{} {
	ids := make(map[string]struct{}, len(t.Stages))
	for _, st := range t.Stages {
		ids[st.ID] = struct{}{}
	}
	return ids
}
