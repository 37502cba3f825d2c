package nacmerr

import (
	"encoding/xml"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

func TestRPCPayloadBuildsProtocolError(t *testing.T) {
	p := RPCPayload()
	err, buildErr := p.AccessDenied("access-denied", "no matching rule")
	require.NoError(t, buildErr)
	denied, ok := err.(*AccessDenied)
	require.True(t, ok)
	assert.Equal(t, "protocol", denied.ErrorType)
	assert.Equal(t, "access-denied: no matching rule", denied.Error())
}

func TestDataPayloadBuildsApplicationError(t *testing.T) {
	p := DataPayload()
	err, buildErr := p.AccessDenied("access-denied", "default deny")
	require.NoError(t, buildErr)
	denied := err.(*AccessDenied)
	assert.Equal(t, "application", denied.ErrorType)
}

func TestMarshalNETCONF(t *testing.T) {
	denied := &AccessDenied{ErrorType: "protocol", ErrorTag: "access-denied", Message: "denied"}
	out, err := denied.MarshalNETCONF()
	require.NoError(t, err)

	var parsed struct {
		XMLName   xml.Name `xml:"rpc-error"`
		ErrorType string   `xml:"error-type"`
		ErrorTag  string   `xml:"error-tag"`
		Message   string   `xml:"error-message"`
	}
	require.NoError(t, xml.Unmarshal(out, &parsed))
	assert.Equal(t, "protocol", parsed.ErrorType)
	assert.Equal(t, "access-denied", parsed.ErrorTag)
	assert.Equal(t, "denied", parsed.Message)
}

func TestGRPCStatus(t *testing.T) {
	denied := &AccessDenied{ErrorType: "application", ErrorTag: "access-denied", Message: "denied"}
	st := status.Convert(denied)
	assert.Equal(t, codes.PermissionDenied, st.Code())
}
