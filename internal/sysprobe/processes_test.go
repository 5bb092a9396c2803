package sysprobe

import (
	"context"
	"os"
	"testing"

	gopsnet "github.com/shirou/gopsutil/v3/net"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListProcessesIncludesSelf(t *testing.T) {
	probe := New()

	recs, err := probe.Processes.ListProcesses(context.Background())
	require.NoError(t, err)
	require.NotEmpty(t, recs)

	self := int32(os.Getpid())
	var found *ProcessRecord
	for i := range recs {
		if recs[i].PID == self {
			found = &recs[i]
			break
		}
	}
	require.NotNil(t, found, "inventory should include the test process")
	assert.NotEmpty(t, found.Name)
	assert.Positive(t, found.CreateTime)
}

func TestToConnectionRecords(t *testing.T) {
	conns := []gopsnet.ConnectionStat{
		{
			Laddr: gopsnet.Addr{IP: "10.0.0.5", Port: 51000},
			Raddr: gopsnet.Addr{IP: "93.184.216.34", Port: 443},
			Pid:   42,
		},
		{
			Laddr: gopsnet.Addr{IP: "0.0.0.0", Port: 22},
		},
	}

	recs := toConnectionRecords(conns)

	require.Len(t, recs, 2)
	assert.Equal(t, ConnectionRecord{
		LocalIP:    "10.0.0.5",
		LocalPort:  51000,
		RemoteIP:   "93.184.216.34",
		RemotePort: 443,
		PID:        42,
	}, recs[0])
	assert.Empty(t, recs[1].RemoteIP)
}
