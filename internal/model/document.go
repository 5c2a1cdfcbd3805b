package model

import (
	"fmt"
	"time"
)

// FlowDirection says which of the three sender/recipient relationships a
// document represents. It is fixed at creation and never changes afterwards.
type FlowDirection string

const (
	// DirectionOutgoing is correspondence sent by the organization (ZPGK).
	DirectionOutgoing FlowDirection = "zpgk_out"
	// DirectionIncomingPartner is correspondence received from HAZU.
	DirectionIncomingPartner FlowDirection = "hazu_in"
	// DirectionIncomingThirdParty is correspondence received from any other party.
	DirectionIncomingThirdParty FlowDirection = "third_party_in"
)

// ParseFlowDirection validates a wire value against the known variants.
func ParseFlowDirection(s string) (FlowDirection, error) {
	switch d := FlowDirection(s); d {
	case DirectionOutgoing, DirectionIncomingPartner, DirectionIncomingThirdParty:
		return d, nil
	default:
		return "", fmt.Errorf("unknown flow direction %q", s)
	}
}

// Valid reports whether d is one of the three known variants.
func (d FlowDirection) Valid() bool {
	_, err := ParseFlowDirection(string(d))
	return err == nil
}

// FixedSender returns the sender implied by the direction, if any. For
// third-party correspondence the sender is user-supplied, so ok is false.
func (d FlowDirection) FixedSender() (sender string, ok bool) {
	switch d {
	case DirectionOutgoing:
		return "ZPGK", true
	case DirectionIncomingPartner:
		return "HAZU", true
	default:
		return "", false
	}
}

// NumberPrefix is the registry-number prefix for the direction:
// "01" for outgoing, "02" for both incoming variants.
func (d FlowDirection) NumberPrefix() string {
	if d == DirectionOutgoing {
		return "01"
	}
	return "02"
}

// DirectionFilter is the two-bucket list filter over registry-number
// prefixes. It is intentionally coarser than FlowDirection: the two incoming
// variants share the "02" prefix and are indistinguishable here.
type DirectionFilter string

const (
	FilterOutgoing DirectionFilter = "outgoing"
	FilterIncoming DirectionFilter = "incoming"
)

// ParseDirectionFilter validates a ?type= query value.
func ParseDirectionFilter(s string) (DirectionFilter, error) {
	switch f := DirectionFilter(s); f {
	case FilterOutgoing, FilterIncoming:
		return f, nil
	default:
		return "", fmt.Errorf("unknown direction filter %q", s)
	}
}

// NumberPrefix returns the registry-number prefix the filter matches on,
// including the separator ("01/" or "02/").
func (f DirectionFilter) NumberPrefix() string {
	if f == FilterOutgoing {
		return "01/"
	}
	return "02/"
}

// Document is a single entry in the correspondence registry.
// This is a pure domain model with no database-specific dependencies or tags;
// it is shared across the HTTP, service, and repository layers.
type Document struct {
	ID             string        `json:"id"`
	FlowDirection  FlowDirection `json:"type"`
	Sender         string        `json:"sender"`
	RegistryNumber string        `json:"registry_number"`
	Title          string        `json:"title"`
	Date           Date          `json:"date"`
	Notes          string        `json:"notes"`
	PDFFilename    string        `json:"pdf_filename"`
	CreatedAt      time.Time     `json:"created_at"`
	UpdatedAt      time.Time     `json:"updated_at"`
}

// HasAttachment reports whether the document currently references a stored file.
func (d *Document) HasAttachment() bool {
	return d.PDFFilename != ""
}
