package locator

import (
	"time"

	"github.com/google/uuid"
)

// ChannelKind identifies one of the phone slots on a locator record.
type ChannelKind string

const (
	ChannelSubjectCell          ChannelKind = "subject_cell"
	ChannelSubjectCellAlt       ChannelKind = "subject_cell_alt"
	ChannelSubjectPhone         ChannelKind = "subject_phone"
	ChannelSubjectPhoneAlt      ChannelKind = "subject_phone_alt"
	ChannelSubjectWorkPhone     ChannelKind = "subject_work_phone"
	ChannelIndirectContactCell  ChannelKind = "indirect_contact_cell"
	ChannelIndirectContactPhone ChannelKind = "indirect_contact_phone"
	ChannelCaretakerCell        ChannelKind = "caretaker_cell"
	ChannelCaretakerTel         ChannelKind = "caretaker_tel"
)

var channelLabels = map[ChannelKind]string{
	ChannelSubjectCell:          "Subject cell",
	ChannelSubjectCellAlt:       "Subject cell (alt)",
	ChannelSubjectPhone:         "Subject phone",
	ChannelSubjectPhoneAlt:      "Subject phone (alt)",
	ChannelSubjectWorkPhone:     "Subject work phone",
	ChannelIndirectContactCell:  "Indirect contact cell",
	ChannelIndirectContactPhone: "Indirect contact phone",
	ChannelCaretakerCell:        "Caretaker cell",
	ChannelCaretakerTel:         "Caretaker telephone",
}

// Label returns the human-readable form used in exports and UI payloads.
func (k ChannelKind) Label() string {
	if l, ok := channelLabels[k]; ok {
		return l
	}
	return string(k)
}

// LocationKind identifies one of the address slots on a locator record.
type LocationKind string

const (
	LocationPhysicalAddress        LocationKind = "physical_address"
	LocationWorkplace              LocationKind = "workplace_location"
	LocationIndirectContactAddress LocationKind = "indirect_contact_address"
)

var locationLabels = map[LocationKind]string{
	LocationPhysicalAddress:        "Physical address",
	LocationWorkplace:              "Workplace location",
	LocationIndirectContactAddress: "Indirect contact address",
}

func (k LocationKind) Label() string {
	if l, ok := locationLabels[k]; ok {
		return l
	}
	return string(k)
}

// LocatorInfo maps to the locator table. A subject may have several rows;
// the one with the latest reported_at is authoritative.
type LocatorInfo struct {
	ID                     uuid.UUID `db:"id" json:"id"`
	StudyIdentifier        string    `db:"study_identifier" json:"study_identifier"`
	SubjectIdentifier      *string   `db:"subject_identifier" json:"subject_identifier,omitempty"`
	FirstName              string    `db:"first_name" json:"first_name"`
	LastName               string    `db:"last_name" json:"last_name"`
	ReportedAt             time.Time `db:"reported_at" json:"reported_at"`
	MayCall                bool      `db:"may_call" json:"may_call"`
	MayVisitHome           bool      `db:"may_visit_home" json:"may_visit_home"`
	SubjectCell            *string   `db:"subject_cell" json:"subject_cell,omitempty"`
	SubjectCellAlt         *string   `db:"subject_cell_alt" json:"subject_cell_alt,omitempty"`
	SubjectPhone           *string   `db:"subject_phone" json:"subject_phone,omitempty"`
	SubjectPhoneAlt        *string   `db:"subject_phone_alt" json:"subject_phone_alt,omitempty"`
	SubjectWorkPhone       *string   `db:"subject_work_phone" json:"subject_work_phone,omitempty"`
	IndirectContactCell    *string   `db:"indirect_contact_cell" json:"indirect_contact_cell,omitempty"`
	IndirectContactPhone   *string   `db:"indirect_contact_phone" json:"indirect_contact_phone,omitempty"`
	CaretakerCell          *string   `db:"caretaker_cell" json:"caretaker_cell,omitempty"`
	CaretakerTel           *string   `db:"caretaker_tel" json:"caretaker_tel,omitempty"`
	PhysicalAddress        *string   `db:"physical_address" json:"physical_address,omitempty"`
	WorkplaceLocation      *string   `db:"workplace_location" json:"workplace_location,omitempty"`
	IndirectContactAddress *string   `db:"indirect_contact_address" json:"indirect_contact_address,omitempty"`
	CreatedAt              time.Time `db:"created_at" json:"created_at"`
}

// Channel is a phone slot together with its number.
type Channel struct {
	Kind  ChannelKind `json:"kind"`
	Value string      `json:"value"`
}

// Location is an address slot together with its value.
type Location struct {
	Kind  LocationKind `json:"kind"`
	Value string       `json:"value"`
}

// AvailableChannels returns the non-empty phone slots in calling priority
// order: subject numbers first, then indirect contacts, then caretakers.
func AvailableChannels(l *LocatorInfo) []Channel {
	slots := []struct {
		kind  ChannelKind
		value *string
	}{
		{ChannelSubjectCell, l.SubjectCell},
		{ChannelSubjectCellAlt, l.SubjectCellAlt},
		{ChannelSubjectPhone, l.SubjectPhone},
		{ChannelSubjectPhoneAlt, l.SubjectPhoneAlt},
		{ChannelSubjectWorkPhone, l.SubjectWorkPhone},
		{ChannelIndirectContactCell, l.IndirectContactCell},
		{ChannelIndirectContactPhone, l.IndirectContactPhone},
		{ChannelCaretakerCell, l.CaretakerCell},
		{ChannelCaretakerTel, l.CaretakerTel},
	}
	var out []Channel
	for _, s := range slots {
		if s.value != nil && *s.value != "" {
			out = append(out, Channel{Kind: s.kind, Value: *s.value})
		}
	}
	return out
}

// AvailableLocations returns the non-empty address slots in visit priority
// order.
func AvailableLocations(l *LocatorInfo) []Location {
	slots := []struct {
		kind  LocationKind
		value *string
	}{
		{LocationPhysicalAddress, l.PhysicalAddress},
		{LocationWorkplace, l.WorkplaceLocation},
		{LocationIndirectContactAddress, l.IndirectContactAddress},
	}
	var out []Location
	for _, s := range slots {
		if s.value != nil && *s.value != "" {
			out = append(out, Location{Kind: s.kind, Value: *s.value})
		}
	}
	return out
}
