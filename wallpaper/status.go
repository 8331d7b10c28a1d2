package wallpaper

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// ErrNoStatus is returned by Load before any update was recorded.
var ErrNoStatus = errors.New("no status recorded")

// Status is the persisted outcome of the last update.
type Status struct {
	Time     time.Time       `json:"time"`
	Path     string          `json:"path"`
	Success  bool            `json:"success"`
	Method   Method          `json:"method,omitempty"`
	Error    string          `json:"error,omitempty"`
	Attempts []StatusAttempt `json:"attempts,omitempty"`
}

type StatusAttempt struct {
	Method Method `json:"method"`
	Kind   string `json:"kind"`
	Error  string `json:"error"`
}

// NewStatus converts an apply result. err, if set, is a failure that
// happened before the applier ran.
func NewStatus(path string, res Result, err error) Status {
	st := Status{
		Time:    time.Now(),
		Path:    path,
		Success: res.Success && err == nil,
		Method:  res.Method,
	}
	switch {
	case err != nil:
		st.Error = err.Error()
	case res.Err != nil:
		st.Error = res.Err.Error()
	}
	for _, a := range res.Attempts {
		st.Attempts = append(st.Attempts, StatusAttempt{
			Method: a.Method,
			Kind:   fmt.Sprint(a.Kind),
			Error:  fmt.Sprint(a.Err),
		})
	}
	return st
}

// StatusStore keeps the last Status in a JSON file.
type StatusStore struct {
	Path string
}

func (s *StatusStore) Save(st Status) error {
	data, err := st.JSON()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(s.Path), 0755); err != nil {
		return err
	}
	return os.WriteFile(s.Path, data, 0644)
}

func (s *StatusStore) Load() (Status, error) {
	var st Status
	data, err := os.ReadFile(s.Path)
	if errors.Is(err, fs.ErrNotExist) {
		return st, ErrNoStatus
	}
	if err != nil {
		return st, err
	}
	if err := json.Unmarshal(data, &st); err != nil {
		return st, fmt.Errorf("parse %s: %w", s.Path, err)
	}
	return st, nil
}

// JSON returns st as indented JSON, as stored on disk.
func (st Status) JSON() ([]byte, error) {
	return json.MarshalIndent(st, "", "  ")
}

// String renders st for the terminal.
func (st Status) String() string {
	out := fmt.Sprintf("last update: %s\nimage:       %s\n", st.Time.Format(time.RFC1123), st.Path)
	if st.Success {
		return out + fmt.Sprintf("result:      ok via %s\n", st.Method)
	}
	out += fmt.Sprintf("result:      failed: %s\n", st.Error)
	for _, a := range st.Attempts {
		out += fmt.Sprintf("  %-22s %s: %s\n", a.Method, a.Kind, a.Error)
	}
	return out
}
