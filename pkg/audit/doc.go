// Package audit provides audit logging for changes made through the API.
//
// Every login attempt and every client or project write produces an event.
// Events are written to stdout as RFC5424 syslog lines and, when
// AUDIT_DATABASE_URL is set, persisted to the messages table.
//
// # Event Types
//
//   - AuthenticateEvent: login success or failure
//   - ClientEvent: client create, update and delete
//   - ProjectEvent: project creation
//
// # Usage
//
//	audit.Log(audit.ClientEvent{
//	    Username:  id.Username,
//	    ClientIP:  clientIP,
//	    ClientID:  client.ID,
//	    Operation: audit.OperationCreate,
//	    Success:   true,
//	})
package audit
