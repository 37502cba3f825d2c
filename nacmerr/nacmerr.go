// Package nacmerr is a reference implementation of the nacm.ErrorPayload
// collaborator (spec.md §6): it builds the structured deny response for
// a DeniedAccessControl verdict. Two renderings are provided from one
// value, grounded in two different parts of the example pack: a NETCONF
// <rpc-error> (the shape the reference NETCONF material in
// rpc_config.go's RPCError builds) and a gRPC status (the shape
// gnmi_server's gnsi_authz.go/gnsi_pathz.go return from their own RPCs).
package nacmerr

import (
	"encoding/xml"
	"fmt"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// AccessDenied is the structured error RFC 8341 §3.4.4/§3.4.5 call for:
// error-type "application" (or "protocol" for RPC-layer denials),
// error-tag "access-denied", and a human-readable message.
type AccessDenied struct {
	// ErrorType is "protocol" for RPC denials, "application" for
	// data-node (read/write) denials, matching the two call sites in
	// RFC 8341.
	ErrorType string
	// ErrorTag is always nacm.AppTagAccessDenied for NACM-originated
	// denials; kept as a field rather than a hard-coded constant so a
	// caller embedding this type for a different collaborator can
	// reuse the rendering code.
	ErrorTag string
	Message  string
}

func (e *AccessDenied) Error() string {
	return fmt.Sprintf("%s: %s", e.ErrorTag, e.Message)
}

// netconfRPCError is the <rpc-error> element shape, serialised with
// encoding/xml the way the NETCONF reference material encodes its own
// RPCError type.
type netconfRPCError struct {
	XMLName   xml.Name `xml:"rpc-error"`
	ErrorType string   `xml:"error-type"`
	ErrorTag  string   `xml:"error-tag"`
	Severity  string   `xml:"error-severity"`
	Message   string   `xml:"error-message"`
}

// MarshalNETCONF renders e as a NETCONF <rpc-error> element.
func (e *AccessDenied) MarshalNETCONF() ([]byte, error) {
	errType := e.ErrorType
	if errType == "" {
		errType = "application"
	}
	return xml.Marshal(&netconfRPCError{
		ErrorType: errType,
		ErrorTag:  e.ErrorTag,
		Severity:  "error",
		Message:   e.Message,
	})
}

// GRPCStatus implements the interface google.golang.org/grpc/status
// recognises so that returning an *AccessDenied directly from a gRPC
// handler produces a codes.PermissionDenied status with e.Error() (tag
// and message) as its message, the
// same translation gnsi_authz.go performs by hand with status.Errorf.
func (e *AccessDenied) GRPCStatus() *status.Status {
	return status.New(codes.PermissionDenied, e.Error())
}

// Payload is the nacm.ErrorPayload collaborator implementation. One
// instance is created per call site (evaluate_rpc vs. evaluate_write),
// since RFC 8341 assigns a different error-type to each.
type Payload struct {
	// ErrorType is "protocol" for RPC denials, "application" for
	// data-node denials; empty defaults to "application".
	ErrorType string
}

// AccessDenied builds the structured deny response. appTag is always
// nacm.AppTagAccessDenied in practice; it is accepted as a parameter,
// not hard-coded, because that is the collaborator contract spec.md §6
// defines.
func (p Payload) AccessDenied(appTag, message string) (error, error) {
	return &AccessDenied{ErrorType: p.ErrorType, ErrorTag: appTag, Message: message}, nil
}

// RPCPayload is Payload preconfigured with the "protocol" error-type RFC
// 8341 §3.4.4 specifies for RPC denials.
func RPCPayload() Payload {
	return Payload{ErrorType: "protocol"}
}

// DataPayload is Payload preconfigured with the "application" error-type
// RFC 8341 §3.4.5 specifies for data-node write denials.
func DataPayload() Payload {
	return Payload{ErrorType: "application"}
}
