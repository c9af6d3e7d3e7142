package models

import "time"

// Family groups caregivers who share children
type Family struct {
	ID         int64     `json:"id"`
	Name       string    `json:"name"`
	FamilyCode string    `json:"familyCode"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

// Family member roles
const (
	RoleOwner     = "owner"
	RoleCaregiver = "caregiver"
)

// FamilyMember represents the relationship between a user and a family
type FamilyMember struct {
	ID       int64     `json:"id"`
	FamilyID int64     `json:"familyId"`
	UserID   int64     `json:"userId"`
	Role     string    `json:"role"`
	JoinedAt time.Time `json:"joinedAt"`
}

// FamilyWithMembers combines a family with its member information
type FamilyWithMembers struct {
	Family  Family         `json:"family"`
	Members []FamilyMember `json:"members"`
	Users   []User         `json:"users"`
}
