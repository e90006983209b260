// Package domain contains core concepts of the care-thread system.
// This file defines the Admission record a thread is bound to.
package domain

import (
	"slices"
	"strings"
	"time"

	"github.com/samber/lo"
)

// ThreadID identifies both an admission and the thread bound to it.
type ThreadID string

type AdmissionStatus string

const (
	StatusActive     AdmissionStatus = "active"
	StatusDischarged AdmissionStatus = "discharged"
)

// PatientDetails is the clinical metadata of one admission episode.
// Concurrent edits are last-writer-wins.
type PatientDetails struct {
	FirstName     string `validate:"required,max=80"`
	MiddleName    string `validate:"max=80"`
	LastName      string `validate:"required,max=80"`
	Age           int    `validate:"gte=0,lte=150"`
	Sex           string `validate:"omitempty,oneof=female male other unknown"`
	Diagnosis     string `validate:"max=500"`
	PatientNumber string `validate:"max=64"`
	Ward          string `validate:"max=64"`
	Room          string `validate:"max=64"`
}

// FullName joins the non-empty name parts.
func (p PatientDetails) FullName() string {
	return strings.Join(lo.Compact([]string{p.FirstName, p.MiddleName, p.LastName}), " ")
}

// Appearance is cosmetic and carries no invariant.
type Appearance struct {
	AvatarColor string `validate:"omitempty,max=32"`
	Background  string `validate:"omitempty,max=32"`
}

// Admission is the thread's anchor record. Members always contains
// MainCareOwnerID, and a discharged admission keeps its last member set.
type Admission struct {
	ID              ThreadID
	Patient         PatientDetails
	Appearance      Appearance
	MainCareOwnerID UserID
	Members         []UserID
	Status          AdmissionStatus
	DateAdmitted    time.Time
	DateDischarged  *time.Time
	LastSeq         uint64
	LastActivity    time.Time
}

func (a Admission) HasMember(userID UserID) bool {
	return slices.Contains(a.Members, userID)
}

func (a Admission) IsActive() bool {
	return a.Status == StatusActive
}

// clone detaches slices and pointers so a mutated copy never aliases the original.
func (a Admission) clone() Admission {
	a.Members = slices.Clone(a.Members)
	if a.DateDischarged != nil {
		at := *a.DateDischarged
		a.DateDischarged = &at
	}
	return a
}

func (a Admission) withMember(userID UserID) Admission {
	a = a.clone()
	a.Members = addToSet(a.Members, userID)
	return a
}

func (a Admission) withoutMember(userID UserID) Admission {
	a = a.clone()
	a.Members = lo.Without(a.Members, userID)
	return a
}

// addToSet inserts id keeping the slice sorted and free of duplicates.
func addToSet(set []UserID, id UserID) []UserID {
	if slices.Contains(set, id) {
		return set
	}
	set = append(set, id)
	slices.Sort(set)
	return set
}
