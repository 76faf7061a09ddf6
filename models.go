package grademywork

import (
	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// User is the account returned by the "who am I" endpoint and by the
// authentication calls.
type User struct {
	Username string `json:"username"`
	Email    string `json:"email,omitempty"`
}

// Assessment is an assessment owned by a user. Rubrics are kept as raw JSON
// because their layout is defined by the service.
type Assessment struct {
	Caption    string              `json:"caption"`
	Owner      string              `json:"owner,omitempty"`
	IsPublic   bool                `json:"isPublic"`
	IsArchived bool                `json:"isArchived"`
	IsReleased bool                `json:"isReleased"`
	Rubrics    jsoniter.RawMessage `json:"rubrics,omitempty"`
	Sheets     []Sheet             `json:"sheets,omitempty"`
}

// AssessmentInput is the body of NewAssessment.
type AssessmentInput struct {
	IsPublic bool                `json:"isPublic"`
	Rubrics  jsoniter.RawMessage `json:"rubrics,omitempty"`
	Sheets   []Sheet             `json:"sheets,omitempty"`
}

// Sheet is one sheet of an assessment.
type Sheet struct {
	Caption   string              `json:"caption"`
	Questions jsoniter.RawMessage `json:"questions,omitempty"`
	Answers   jsoniter.RawMessage `json:"answers,omitempty"`
}

// PrivilegeType is the kind of access a privilege grants on a sheet.
type PrivilegeType string

// Privilege grants the account identified by Email access to a sheet.
type Privilege struct {
	Email string        `json:"email"`
	Type  PrivilegeType `json:"type"`
}

// AssessmentStats is the free-form statistics document of an assessment.
type AssessmentStats map[string]interface{}

// clone returns a deep enough copy for the session cache: slices and raw
// messages are copied so the cached value cannot be mutated by callers.
func (u *User) clone() *User {
	if u == nil {
		return nil
	}
	c := *u
	return &c
}

func (a *Assessment) clone() *Assessment {
	if a == nil {
		return nil
	}
	c := *a
	c.Rubrics = cloneRaw(a.Rubrics)
	if a.Sheets != nil {
		c.Sheets = make([]Sheet, len(a.Sheets))
		for i, s := range a.Sheets {
			c.Sheets[i] = Sheet{
				Caption:   s.Caption,
				Questions: cloneRaw(s.Questions),
				Answers:   cloneRaw(s.Answers),
			}
		}
	}
	return &c
}

func cloneRaw(raw jsoniter.RawMessage) jsoniter.RawMessage {
	if raw == nil {
		return nil
	}
	return append(jsoniter.RawMessage(nil), raw...)
}
