package collect

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wakekeeper/internal/sysprobe"
)

func TestSelectorMatches(t *testing.T) {
	rec := sysprobe.ProcessRecord{PID: 42, Name: "bash"}

	tests := []struct {
		name string
		sel  Selector
		want bool
	}{
		{"zero selector matches everything", Selector{}, true},
		{"pid match", Selector{PID: 42}, true},
		{"pid mismatch", Selector{PID: 7}, false},
		{"name match", Selector{Name: "bash"}, true},
		{"name match is case-insensitive", Selector{Name: "BASH"}, true},
		{"name mismatch", Selector{Name: "zsh"}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.sel.Matches(rec))
		})
	}
}

func TestFilter(t *testing.T) {
	recs := []sysprobe.ProcessRecord{
		{PID: 1, Name: "systemd"},
		{PID: 42, Name: "nginx"},
		{PID: 43, Name: "nginx"},
	}

	all := Filter(recs, Selector{})
	assert.Len(t, all, 3)

	byName := Filter(recs, Selector{Name: "nginx"})
	require.Len(t, byName, 2)
	assert.EqualValues(t, 42, byName[0].PID)
	assert.EqualValues(t, 43, byName[1].PID)

	byPID := Filter(recs, Selector{PID: 1})
	require.Len(t, byPID, 1)
	assert.Equal(t, "systemd", byPID[0].Name)

	assert.Empty(t, Filter(recs, Selector{PID: 9999}))
}

func TestNamesByPID(t *testing.T) {
	names := NamesByPID([]sysprobe.ProcessRecord{
		{PID: 1, Name: "systemd"},
		{PID: 42, Name: "nginx"},
	})
	assert.Equal(t, map[int32]string{1: "systemd", 42: "nginx"}, names)
}

func TestProcessRows(t *testing.T) {
	now := time.Unix(1700000000, 0)
	recs := []sysprobe.ProcessRecord{{
		PID:         42,
		Name:        "app",
		Username:    "svc",
		Status:      "sleeping",
		Exe:         "/opt/app/app",
		Cmdline:     "/opt/app/app --serve",
		ParentPID:   1,
		CreateTime:  1700000000000,
		OpenFiles:   []string{"/opt/app/app.log", "/opt/app/state.db"},
		MappedFiles: []string{"/opt/app/app", "/usr/lib/libc.so.6"},
		Connections: []sysprobe.ConnectionRecord{
			{LocalIP: "10.0.0.5", LocalPort: 8080, RemoteIP: "10.0.0.9", RemotePort: 51000},
			{LocalIP: "0.0.0.0", LocalPort: 8080},
			{LocalIP: "10.0.0.5", LocalPort: 8081, RemoteIP: "10.0.0.10", RemotePort: 51001},
		},
	}}

	rows := ProcessRows(recs, now)
	require.Len(t, rows, 1)
	row := rows[0]

	assert.EqualValues(t, 42, row.ProcessID)
	assert.Equal(t, "app", row.Name)
	assert.Equal(t, "2023-11-14 22:13:20", row.CreationTime)
	assert.Equal(t, "/opt/app/app.log /opt/app/state.db", row.OpenFiles)
	assert.Equal(t, "/opt/app/app,/usr/lib/libc.so.6", row.MappedFilepaths)

	// Unpeered sockets are omitted; peered ones render one line each.
	assert.Equal(t,
		"1700000000 10.0.0.5 8080 10.0.0.9 51000\r\n1700000000 10.0.0.5 8081 10.0.0.10 51001",
		row.Connections)
}

func TestProcessRowsEmpty(t *testing.T) {
	rows := ProcessRows(nil, time.Now())
	assert.NotNil(t, rows)
	assert.Empty(t, rows)
}
