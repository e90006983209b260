package api

import (
	"care-thread/domain"
	"care-thread/domain/event"
	"time"

	"github.com/samber/lo"
)

type patientPayload struct {
	FirstName     string `json:"firstName"`
	MiddleName    string `json:"middleName,omitempty"`
	LastName      string `json:"lastName"`
	Age           int    `json:"age"`
	Sex           string `json:"sex,omitempty"`
	Diagnosis     string `json:"diagnosis,omitempty"`
	PatientNumber string `json:"patientNumber,omitempty"`
	Ward          string `json:"ward,omitempty"`
	Room          string `json:"room,omitempty"`
}

type appearancePayload struct {
	AvatarColor string `json:"avatarColor,omitempty"`
	Background  string `json:"background,omitempty"`
}

type admissionRequest struct {
	Patient    patientPayload    `json:"patient"`
	Appearance appearancePayload `json:"appearance"`
}

type messageRequest struct {
	Kind          string `json:"kind" validate:"required,oneof=text image video"`
	Content       string `json:"content"`
	AttachmentRef string `json:"attachmentRef,omitempty"`
}

type memberRequest struct {
	UserID string `json:"userId" validate:"required,max=128"`
}

type userRequest struct {
	Role        string `json:"role" validate:"required,oneof=admin healthcare_worker system_clerk"`
	DisplayName string `json:"displayName" validate:"max=120"`
}

type admissionResponse struct {
	ID              string            `json:"id"`
	Patient         patientPayload    `json:"patient"`
	Appearance      appearancePayload `json:"appearance"`
	MainCareOwnerID string            `json:"mainCareOwnerId"`
	Members         []string          `json:"members"`
	Status          string            `json:"status"`
	DateAdmitted    time.Time         `json:"dateAdmitted"`
	DateDischarged  *time.Time        `json:"dateDischarged,omitempty"`
	LastActivity    time.Time         `json:"lastActivity"`
}

type summaryResponse struct {
	Admission admissionResponse `json:"admission"`
	IsMember  bool              `json:"isMember"`
	Unread    int               `json:"unread"`
}

type messageResponse struct {
	ID            string     `json:"id"`
	ThreadID      string     `json:"threadId"`
	Seq           uint64     `json:"seq"`
	SenderID      string     `json:"senderId"`
	Timestamp     time.Time  `json:"timestamp"`
	Kind          string     `json:"kind"`
	Content       string     `json:"content"`
	AttachmentRef string     `json:"attachmentRef,omitempty"`
	SystemEvent   string     `json:"systemEvent,omitempty"`
	Subject       string     `json:"subject,omitempty"`
	ReadBy        []string   `json:"readBy"`
	ReadByOthers  bool       `json:"readByOthers"`
	Deleted       bool       `json:"deleted"`
	DeletedAt     *time.Time `json:"deletedAt,omitempty"`
}

type pageResponse struct {
	Messages []messageResponse `json:"messages"`
	Next     *uint64           `json:"next,omitempty"`
}

type auditResponse struct {
	ID       string            `json:"id"`
	UserID   string            `json:"userId"`
	Action   string            `json:"action"`
	ThreadID string            `json:"threadId"`
	TargetID string            `json:"targetId"`
	At       time.Time         `json:"at"`
	Details  map[string]string `json:"details,omitempty"`
}

type auditPageResponse struct {
	Events []auditResponse `json:"events"`
	Cursor *string         `json:"cursor,omitempty"`
}

type errorResponse struct {
	Error  string `json:"error"`
	Reason string `json:"reason"`
}

func (p patientPayload) toDomain() domain.PatientDetails {
	return domain.PatientDetails{
		FirstName:     p.FirstName,
		MiddleName:    p.MiddleName,
		LastName:      p.LastName,
		Age:           p.Age,
		Sex:           p.Sex,
		Diagnosis:     p.Diagnosis,
		PatientNumber: p.PatientNumber,
		Ward:          p.Ward,
		Room:          p.Room,
	}
}

func (a appearancePayload) toDomain() domain.Appearance {
	return domain.Appearance{AvatarColor: a.AvatarColor, Background: a.Background}
}

func (m messageRequest) toDomain() domain.Draft {
	return domain.Draft{
		Kind:          domain.MessageKind(m.Kind),
		Content:       m.Content,
		AttachmentRef: m.AttachmentRef,
	}
}

func toAdmissionResponse(a domain.Admission) admissionResponse {
	p := a.Patient
	return admissionResponse{
		ID: string(a.ID),
		Patient: patientPayload{
			FirstName:     p.FirstName,
			MiddleName:    p.MiddleName,
			LastName:      p.LastName,
			Age:           p.Age,
			Sex:           p.Sex,
			Diagnosis:     p.Diagnosis,
			PatientNumber: p.PatientNumber,
			Ward:          p.Ward,
			Room:          p.Room,
		},
		Appearance:      appearancePayload{AvatarColor: a.Appearance.AvatarColor, Background: a.Appearance.Background},
		MainCareOwnerID: string(a.MainCareOwnerID),
		Members:         toStrings(a.Members),
		Status:          string(a.Status),
		DateAdmitted:    a.DateAdmitted,
		DateDischarged:  a.DateDischarged,
		LastActivity:    a.LastActivity,
	}
}

// toSummaryResponse hides clinical details from non-members: they only
// learn that the admission exists.
func toSummaryResponse(s domain.ThreadSummary) summaryResponse {
	admission := toAdmissionResponse(s.Admission)
	if !s.IsMember {
		admission.Patient.Diagnosis = ""
		admission.Members = nil
	}
	return summaryResponse{Admission: admission, IsMember: s.IsMember, Unread: s.Unread}
}

func toMessageResponse(m domain.Message) messageResponse {
	return messageResponse{
		ID:            m.ID.String(),
		ThreadID:      string(m.ThreadID),
		Seq:           m.Seq,
		SenderID:      string(m.SenderID),
		Timestamp:     m.Timestamp,
		Kind:          string(m.Kind),
		Content:       m.Content,
		AttachmentRef: m.AttachmentRef,
		SystemEvent:   string(m.SystemEvent),
		Subject:       string(m.Subject),
		ReadBy:        toStrings(m.ReadBy),
		ReadByOthers:  m.ReadByOthers(),
		Deleted:       m.Deleted,
		DeletedAt:     m.DeletedAt,
	}
}

func toAuditResponse(e event.AuditEvent) auditResponse {
	return auditResponse{
		ID:       e.ID.String(),
		UserID:   string(e.UserID),
		Action:   string(e.Action),
		ThreadID: string(e.Thread),
		TargetID: e.TargetID,
		At:       e.At,
		Details:  e.Details,
	}
}

func toStrings(ids []domain.UserID) []string {
	return lo.Map(ids, func(id domain.UserID, _ int) string { return string(id) })
}
