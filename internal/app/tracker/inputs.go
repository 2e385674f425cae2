package tracker

// NewStudent is the body of POST /api/students.
type NewStudent struct {
	Name     string `json:"name" validate:"notblank"`
	Email    string `json:"email" validate:"required,emailaddr"`
	Username string `json:"username" validate:"notblank"`
	Password string `json:"password,omitempty"`
	Avatar   string `json:"avatar,omitempty"`
}

// NewStage is one stage in a NewTask. An empty ID is assigned on create.
type NewStage struct {
	ID   string `json:"id"`
	Name string `json:"name" validate:"notblank"`
}

// NewTask is the body of POST /api/tasks.
type NewTask struct {
	Title       string     `json:"title" validate:"notblank"`
	Description string     `json:"description" validate:"notblank"`
	Stages      []NewStage `json:"stages" validate:"required,min=1,dive"`
}

// ProgressUpdate is the body of POST /api/progress: the complete set of
// stages the student has finished for the task.
type ProgressUpdate struct {
	StudentUsername string   `json:"studentUsername" validate:"notblank"`
	TaskID          string   `json:"taskId" validate:"notblank"`
	CompletedStages []string `json:"completedStages" validate:"required,dive,notblank"`
}

// StageToggle is the body of POST /api/progress/toggle.
type StageToggle struct {
	StudentUsername string `json:"studentUsername" validate:"notblank"`
	TaskID          string `json:"taskId" validate:"notblank"`
	StageID         string `json:"stageId" validate:"notblank"`
	Completed       *bool  `json:"completed" validate:"required"`
}
