package models

import "time"

// Student is a learner who can be assigned tasks and record stage progress.
//
// Username is the natural key the progress ledger uses; renaming a student
// leaves their existing progress documents pointing at the old username.
type Student struct {
	ID       string `bson:"_id" json:"id"`
	Name     string `bson:"name" json:"name"`
	NameCI   string `bson:"name_ci" json:"-"` // lowercase, diacritics-stripped
	Email    string `bson:"email" json:"email"`
	Username string `bson:"username" json:"username"` // unique, case-sensitive

	// PasswordHash is a bcrypt hash of the optional password supplied at
	// registration. It is never serialized to clients.
	PasswordHash string `bson:"password_hash,omitempty" json:"-"`
	Avatar       string `bson:"avatar,omitempty" json:"avatar,omitempty"`

	JoinedAt time.Time `bson:"joined_at" json:"joinedAt"`
}

// HasPassword reports whether the student registered with a password.
func (s *Student) HasPassword() bool {
	return s.PasswordHash != ""
}
