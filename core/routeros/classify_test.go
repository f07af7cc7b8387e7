package routeros

import (
	"errors"
	"fmt"
	"io"
	"net"
	"syscall"
	"testing"

	"github.com/go-routeros/routeros/v3"
	"github.com/go-routeros/routeros/v3/proto"
	"github.com/stretchr/testify/assert"
)

func TestClassifyRunError(t *testing.T) {
	trap := &routeros.DeviceError{Sentence: &proto.Sentence{Word: "!trap", Map: map[string]string{"message": "no such command prefix"}}}
	fatal := &routeros.DeviceError{Sentence: &proto.Sentence{Word: "!fatal", Map: map[string]string{"message": "session terminated"}}}

	tests := []struct {
		name       string
		err        error
		connection bool
	}{
		{"Trap", trap, false},
		{"Fatal", fatal, true},
		{"Unknown Reply", &routeros.UnknownReplyError{Sentence: &proto.Sentence{Word: "!weird"}}, false},
		{"EOF", io.EOF, true},
		{"Unexpected EOF", fmt.Errorf("read: %w", io.ErrUnexpectedEOF), true},
		{"Broken Pipe", &net.OpError{Op: "write", Net: "tcp", Err: syscall.EPIPE}, true},
		{"Reset", fmt.Errorf("read: %w", syscall.ECONNRESET), true},
		{"Closed", net.ErrClosed, true},
		{"Other", errors.New("odd"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := classifyRunError("r1", "10.0.0.1:8728", "/ppp/active", tt.err)
			assert.Equal(t, tt.connection, IsConnectionError(err))
			assert.Equal(t, !tt.connection, IsResourceError(err))
			assert.ErrorIs(t, err, tt.err)
			if tt.connection {
				assert.Contains(t, err.Error(), "r1")
			} else {
				assert.Contains(t, err.Error(), "/ppp/active")
			}
		})
	}
}
