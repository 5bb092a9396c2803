package collect

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"wakekeeper/internal/sysprobe"
)

type stubConnections struct {
	conns []sysprobe.ConnectionRecord
	err   error
}

func (s stubConnections) ListConnections(ctx context.Context) ([]sysprobe.ConnectionRecord, error) {
	return s.conns, s.err
}

func TestNetstat(t *testing.T) {
	now := time.Date(2023, 11, 14, 22, 13, 20, 0, time.UTC)
	lister := stubConnections{conns: []sysprobe.ConnectionRecord{
		{LocalIP: "10.0.0.5", LocalPort: 51000, RemoteIP: "93.184.216.34", RemotePort: 443, PID: 42},
		{LocalIP: "0.0.0.0", LocalPort: 22, PID: 1},
		{LocalIP: "10.0.0.5", LocalPort: 51001, RemoteIP: "1.1.1.1", RemotePort: 53, PID: 999},
	}}

	lines := Netstat(context.Background(), lister, map[int32]string{42: "curl"}, now, zap.NewNop().Sugar())

	require.Len(t, lines, 2)
	assert.Equal(t, "2023-11-14 22:13:20 10.0.0.5 51000 93.184.216.34 443 curl", lines[0])
	// A connection whose owner is not in the inventory is labeled, not dropped.
	assert.Equal(t, "2023-11-14 22:13:20 10.0.0.5 51001 1.1.1.1 53 -", lines[1])
}

func TestNetstatAccessDenied(t *testing.T) {
	lister := stubConnections{err: errors.New("operation not permitted")}
	lines := Netstat(context.Background(), lister, nil, time.Now(), zap.NewNop().Sugar())
	assert.Nil(t, lines)
}
