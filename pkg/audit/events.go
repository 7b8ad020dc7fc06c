package audit

import (
	"fmt"
	"strconv"
)

// Operation names used in the action structured data
const (
	OperationCreate = "create"
	OperationUpdate = "update"
	OperationDelete = "delete"
)

func result(success bool) string {
	if success {
		return "success"
	}
	return "failure"
}

func severity(success bool) Severity {
	if success {
		return SeverityInfo
	}
	return SeverityWarning
}

func withError(msg, errMsg string) string {
	if errMsg != "" {
		return msg + ": " + errMsg
	}
	return msg
}

// AuthenticateEvent represents a login attempt
type AuthenticateEvent struct {
	Username          string
	ClientIP          string
	AuthenticatorName string
	Success           bool
	ErrorMessage      string
}

func (e AuthenticateEvent) MessageID() string {
	return "authn"
}

func (e AuthenticateEvent) Message() string {
	if e.Success {
		return fmt.Sprintf("%s successfully authenticated with authenticator %s", e.Username, e.AuthenticatorName)
	}
	return withError(fmt.Sprintf("%s failed to authenticate with authenticator %s", e.Username, e.AuthenticatorName), e.ErrorMessage)
}

func (e AuthenticateEvent) Severity() Severity {
	return severity(e.Success)
}

func (e AuthenticateEvent) Facility() int {
	return FacilityAuthPriv
}

func (e AuthenticateEvent) StructuredData() map[string]map[string]string {
	return map[string]map[string]string{
		SDIDAuth: {
			"authenticator": e.AuthenticatorName,
			"user":          e.Username,
		},
		SDIDClient: {
			"ip": e.ClientIP,
		},
		SDIDAction: {
			"operation": "authenticate",
			"result":    result(e.Success),
		},
	}
}

// ClientEvent represents a change to a client record
type ClientEvent struct {
	Username     string
	ClientIP     string
	ClientID     uint
	Operation    string
	Success      bool
	ErrorMessage string
}

func (e ClientEvent) MessageID() string {
	return "client"
}

func (e ClientEvent) Message() string {
	if e.Success {
		return fmt.Sprintf("%s %sd client %d", e.Username, e.Operation, e.ClientID)
	}
	return withError(fmt.Sprintf("%s tried to %s client %d", e.Username, e.Operation, e.ClientID), e.ErrorMessage)
}

func (e ClientEvent) Severity() Severity {
	return severity(e.Success)
}

func (e ClientEvent) Facility() int {
	return FacilityAuth
}

func (e ClientEvent) StructuredData() map[string]map[string]string {
	return map[string]map[string]string{
		SDIDAuth: {
			"user": e.Username,
		},
		SDIDSubject: {
			"client": strconv.FormatUint(uint64(e.ClientID), 10),
		},
		SDIDClient: {
			"ip": e.ClientIP,
		},
		SDIDAction: {
			"operation": e.Operation,
			"result":    result(e.Success),
		},
	}
}

// ProjectEvent represents a project being created under a client
type ProjectEvent struct {
	Username     string
	ClientIP     string
	ProjectID    uint
	ClientID     uint
	Users        int
	Success      bool
	ErrorMessage string
}

func (e ProjectEvent) MessageID() string {
	return "project"
}

func (e ProjectEvent) Message() string {
	if e.Success {
		return fmt.Sprintf("%s created project %d for client %d with %d users", e.Username, e.ProjectID, e.ClientID, e.Users)
	}
	return withError(fmt.Sprintf("%s tried to create a project for client %d", e.Username, e.ClientID), e.ErrorMessage)
}

func (e ProjectEvent) Severity() Severity {
	return severity(e.Success)
}

func (e ProjectEvent) Facility() int {
	return FacilityAuth
}

func (e ProjectEvent) StructuredData() map[string]map[string]string {
	sd := map[string]map[string]string{
		SDIDAuth: {
			"user": e.Username,
		},
		SDIDSubject: {
			"client": strconv.FormatUint(uint64(e.ClientID), 10),
		},
		SDIDClient: {
			"ip": e.ClientIP,
		},
		SDIDAction: {
			"operation": OperationCreate,
			"result":    result(e.Success),
		},
	}
	if e.ProjectID != 0 {
		sd[SDIDSubject]["project"] = strconv.FormatUint(uint64(e.ProjectID), 10)
	}
	return sd
}
