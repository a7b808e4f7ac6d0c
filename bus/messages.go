// Package bus defines the message envelope and transport-facing interfaces
// from spec §6: scan.start, scan.status, and result.scan, plus Publisher/
// Subscriber, with the JSON encoding of each message. No concrete transport
// lives here — the MQTT wiring is an external collaborator per spec §1's
// scope boundary.
package bus

import (
	"context"
	"encoding/json"
	"fmt"

	notus "github.com/greenbone/notus-scanner-go"
	"github.com/google/uuid"
)

// MessageType identifies the envelope's payload shape.
type MessageType string

const (
	TypeScanStart  MessageType = "scan.start"
	TypeScanStatus MessageType = "scan.status"
	TypeResultScan MessageType = "result.scan"
)

// Topics these message types are published/subscribed on (spec §6).
const (
	TopicScanStart  = "scanner/package/cmd/notus"
	TopicScanStatus = "scanner/status"
	TopicResultScan = "scanner/scan/info"
)

// ScanStatus is the lifecycle state carried on a ScanStatusMessage. Only
// Running and Finished are emitted by the core (spec §4.9); the rest exist
// for forward compatibility with an external dispatcher.
type ScanStatus string

const (
	StatusRequested   ScanStatus = "requested"
	StatusQueued      ScanStatus = "queued"
	StatusInit        ScanStatus = "init"
	StatusRunning     ScanStatus = "running"
	StatusStopping    ScanStatus = "stopping"
	StatusStopped     ScanStatus = "stopped"
	StatusFinished    ScanStatus = "finished"
	StatusInterrupted ScanStatus = "interrupted"
)

// envelope is the common header shared by every message (spec §6).
type envelope struct {
	MessageID   string      `json:"message_id"`
	MessageType MessageType `json:"message_type"`
	GroupID     string      `json:"group_id"`
	Created     float64     `json:"created"`
}

func newEnvelope(typ MessageType, groupID string, created float64) envelope {
	return envelope{
		MessageID:   uuid.NewString(),
		MessageType: typ,
		GroupID:     groupID,
		Created:     created,
	}
}

func mismatchError(want, got MessageType) error {
	return &notus.Error{
		Kind:    notus.KindMessageParsing,
		Message: fmt.Sprintf("message_type %q does not match expected %q", got, want),
		Op:      "bus.Unmarshal",
	}
}

// ScanStartMessage requests a scan of package_list on a host (spec §3, §6).
type ScanStartMessage struct {
	MessageID   string
	GroupID     string
	Created     float64
	ScanID      string   `json:"scan_id"`
	HostIP      string   `json:"host_ip"`
	HostName    string   `json:"host_name"`
	OSRelease   string   `json:"os_release"`
	PackageList []string `json:"package_list"`
}

type scanStartWire struct {
	envelope
	ScanID      string   `json:"scan_id"`
	HostIP      string   `json:"host_ip"`
	HostName    string   `json:"host_name"`
	OSRelease   string   `json:"os_release"`
	PackageList []string `json:"package_list"`
}

// NewScanStartMessage builds a ScanStartMessage with an empty MessageID;
// MarshalJSON assigns a fresh message_id when none is set. created is the caller-supplied Unix timestamp (the bus package never
// calls time.Now itself, keeping it deterministic for tests).
func NewScanStartMessage(groupID string, created float64, scanID, hostIP, hostName, osRelease string, packageList []string) ScanStartMessage {
	return ScanStartMessage{
		GroupID:     groupID,
		Created:     created,
		ScanID:      scanID,
		HostIP:      hostIP,
		HostName:    hostName,
		OSRelease:   osRelease,
		PackageList: packageList,
	}
}

// MarshalJSON implements json.Marshaler, emitting the common envelope
// fields alongside the scan.start payload.
func (m ScanStartMessage) MarshalJSON() ([]byte, error) {
	w := scanStartWire{
		envelope:    newEnvelope(TypeScanStart, m.GroupID, m.Created),
		ScanID:      m.ScanID,
		HostIP:      m.HostIP,
		HostName:    m.HostName,
		OSRelease:   m.OSRelease,
		PackageList: m.PackageList,
	}
	if m.MessageID != "" {
		w.envelope.MessageID = m.MessageID
	}
	return json.Marshal(w)
}

// UnmarshalJSON implements json.Unmarshaler. It rejects any envelope whose
// message_type isn't scan.start (spec §6).
func (m *ScanStartMessage) UnmarshalJSON(data []byte) error {
	var w scanStartWire
	if err := json.Unmarshal(data, &w); err != nil {
		return &notus.Error{Kind: notus.KindMessageParsing, Message: "decoding scan.start message", Op: "bus.Unmarshal", Inner: err}
	}
	if w.MessageType != TypeScanStart {
		return mismatchError(TypeScanStart, w.MessageType)
	}
	*m = ScanStartMessage{
		MessageID:   w.MessageID,
		GroupID:     w.GroupID,
		Created:     w.Created,
		ScanID:      w.ScanID,
		HostIP:      w.HostIP,
		HostName:    w.HostName,
		OSRelease:   w.OSRelease,
		PackageList: w.PackageList,
	}
	return nil
}

// ScanStatusMessage reports a scan's lifecycle transition (spec §3, §6).
type ScanStatusMessage struct {
	MessageID string
	GroupID   string
	Created   float64
	ScanID    string     `json:"scan_id"`
	HostIP    string     `json:"host_ip"`
	Status    ScanStatus `json:"status"`
}

type scanStatusWire struct {
	envelope
	ScanID string     `json:"scan_id"`
	HostIP string     `json:"host_ip"`
	Status ScanStatus `json:"status"`
}

// NewScanStatusMessage builds a ScanStatusMessage with an empty MessageID;
// MarshalJSON assigns a fresh message_id when none is set.
func NewScanStatusMessage(groupID string, created float64, scanID, hostIP string, status ScanStatus) ScanStatusMessage {
	return ScanStatusMessage{GroupID: groupID, Created: created, ScanID: scanID, HostIP: hostIP, Status: status}
}

// MarshalJSON implements json.Marshaler.
func (m ScanStatusMessage) MarshalJSON() ([]byte, error) {
	w := scanStatusWire{
		envelope: newEnvelope(TypeScanStatus, m.GroupID, m.Created),
		ScanID:   m.ScanID,
		HostIP:   m.HostIP,
		Status:   m.Status,
	}
	if m.MessageID != "" {
		w.envelope.MessageID = m.MessageID
	}
	return json.Marshal(w)
}

// UnmarshalJSON implements json.Unmarshaler, rejecting any envelope whose
// message_type isn't scan.status.
func (m *ScanStatusMessage) UnmarshalJSON(data []byte) error {
	var w scanStatusWire
	if err := json.Unmarshal(data, &w); err != nil {
		return &notus.Error{Kind: notus.KindMessageParsing, Message: "decoding scan.status message", Op: "bus.Unmarshal", Inner: err}
	}
	if w.MessageType != TypeScanStatus {
		return mismatchError(TypeScanStatus, w.MessageType)
	}
	*m = ScanStatusMessage{
		MessageID: w.MessageID,
		GroupID:   w.GroupID,
		Created:   w.Created,
		ScanID:    w.ScanID,
		HostIP:    w.HostIP,
		Status:    w.Status,
	}
	return nil
}

// ResultMessage reports a single vulnerability finding (spec §3, §6).
type ResultMessage struct {
	MessageID  string
	GroupID    string
	Created    float64
	ScanID     string `json:"scan_id"`
	HostIP     string `json:"host_ip"`
	HostName   string `json:"host_name"`
	OID        string `json:"oid"`
	Value      string `json:"value"`
	Port       string `json:"port"`
	URI        string `json:"uri"`
	ResultType string `json:"result_type"`
}

type resultWire struct {
	envelope
	ScanID     string `json:"scan_id"`
	HostIP     string `json:"host_ip"`
	HostName   string `json:"host_name"`
	OID        string `json:"oid"`
	Value      string `json:"value"`
	Port       string `json:"port"`
	URI        string `json:"uri"`
	ResultType string `json:"result_type"`
}

// NewResultMessage builds a ResultMessage with an empty MessageID (MarshalJSON
// assigns a fresh message_id when none is set) and the fixed
// port/uri/result_type values spec §6 mandates.
func NewResultMessage(groupID string, created float64, scanID, hostIP, hostName, oid, value string) ResultMessage {
	return ResultMessage{
		GroupID:    groupID,
		Created:    created,
		ScanID:     scanID,
		HostIP:     hostIP,
		HostName:   hostName,
		OID:        oid,
		Value:      value,
		Port:       "package",
		URI:        "",
		ResultType: "ALARM",
	}
}

// MarshalJSON implements json.Marshaler.
func (m ResultMessage) MarshalJSON() ([]byte, error) {
	w := resultWire{
		envelope:   newEnvelope(TypeResultScan, m.GroupID, m.Created),
		ScanID:     m.ScanID,
		HostIP:     m.HostIP,
		HostName:   m.HostName,
		OID:        m.OID,
		Value:      m.Value,
		Port:       m.Port,
		URI:        m.URI,
		ResultType: m.ResultType,
	}
	if m.MessageID != "" {
		w.envelope.MessageID = m.MessageID
	}
	return json.Marshal(w)
}

// UnmarshalJSON implements json.Unmarshaler, rejecting any envelope whose
// message_type isn't result.scan.
func (m *ResultMessage) UnmarshalJSON(data []byte) error {
	var w resultWire
	if err := json.Unmarshal(data, &w); err != nil {
		return &notus.Error{Kind: notus.KindMessageParsing, Message: "decoding result.scan message", Op: "bus.Unmarshal", Inner: err}
	}
	if w.MessageType != TypeResultScan {
		return mismatchError(TypeResultScan, w.MessageType)
	}
	*m = ResultMessage{
		MessageID:  w.MessageID,
		GroupID:    w.GroupID,
		Created:    w.Created,
		ScanID:     w.ScanID,
		HostIP:     w.HostIP,
		HostName:   w.HostName,
		OID:        w.OID,
		Value:      w.Value,
		Port:       w.Port,
		URI:        w.URI,
		ResultType: w.ResultType,
	}
	return nil
}

// Publisher is the fire-and-forget outbound side of the bus adapter (spec
// §5, §6). Implementations carry their own topic routing; the core never
// blocks on delivery confirmation.
type Publisher interface {
	PublishScanStatus(topic string, msg ScanStatusMessage) error
	PublishResult(topic string, msg ResultMessage) error
}

// Subscriber is the inbound side of the bus adapter: it delivers scan.start
// messages to handle one at a time (spec §5's synchronous, per-message
// scheduling model). Handle must not be called again for the same
// Subscriber until the previous call returns; a concurrent dispatcher does
// this by routing distinct subscriptions to distinct Driver instances
// instead of reentering a single one.
type Subscriber interface {
	Subscribe(ctx context.Context, topic string, handle func(context.Context, ScanStartMessage)) error
}
