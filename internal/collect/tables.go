// Package collect normalizes probe output into the evidence artifacts the
// archive carries: the structured process and open-file tables, the netstat
// log, and the resolved open-file path set.
package collect

import "encoding/json"

// TableFormatTag marks every structured table wakekeeper writes so consumers
// can recognize the flavor before looking at rows.
const TableFormatTag = "WakekeeperJsonTable"

// ProcessRow is one processes.json row. Field order is the wire order.
type ProcessRow struct {
	ProcessID       int32  `json:"Process ID"`
	Name            string `json:"Name"`
	Username        string `json:"Username"`
	Status          string `json:"Status"`
	ExecutablePath  string `json:"Executable Path"`
	Command         string `json:"Command"`
	ParentID        int32  `json:"Parent ID"`
	CreationTime    string `json:"Creation Time"`
	OpenFiles       string `json:"Open Files"`
	Connections     string `json:"Connections"`
	MappedFilepaths string `json:"Mapped Filepaths"`
}

// OpenFileRow is one open_files.json row.
type OpenFileRow struct {
	OpenFile string `json:"Open File"`
}

// ProcessTable is the processes.json document.
type ProcessTable struct {
	Format string       `json:"format"`
	Rows   []ProcessRow `json:"rows"`
}

// OpenFileTable is the open_files.json document.
type OpenFileTable struct {
	Format string        `json:"format"`
	Rows   []OpenFileRow `json:"rows"`
}

// MarshalProcessTable encodes rows under the wakekeeper format tag.
func MarshalProcessTable(rows []ProcessRow) ([]byte, error) {
	if rows == nil {
		rows = []ProcessRow{}
	}
	return json.MarshalIndent(ProcessTable{Format: TableFormatTag, Rows: rows}, "", " ")
}

// MarshalOpenFileTable encodes the resolved open-file paths as table rows.
func MarshalOpenFileTable(paths []string) ([]byte, error) {
	rows := make([]OpenFileRow, 0, len(paths))
	for _, p := range paths {
		rows = append(rows, OpenFileRow{OpenFile: p})
	}
	return json.MarshalIndent(OpenFileTable{Format: TableFormatTag, Rows: rows}, "", " ")
}
