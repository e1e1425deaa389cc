package campus

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseStatus(t *testing.T) {
	tests := []struct {
		input string
		want  Status
		ok    bool
	}{
		{"pending", StatusPending, true},
		{"Pending", StatusPending, true},
		{"In Progress", StatusInProgress, true},
		{"in-progress", StatusInProgress, true},
		{"in_progress", StatusInProgress, true},
		{"Solved", StatusSolved, true},
		{"resolved", StatusSolved, true},
		{"archived", "", false},
		{"", "", false},
	}
	for _, tt := range tests {
		got, ok := ParseStatus(tt.input)
		assert.Equal(t, tt.ok, ok, "input %q", tt.input)
		assert.Equal(t, tt.want, got, "input %q", tt.input)
	}
}

func TestStatusChangeSolvedRequiresRemark(t *testing.T) {
	err := StatusChange{ComplaintID: "c1", Status: StatusSolved}.Validate()
	assert.ErrorIs(t, err, ErrRemarkRequired)

	err = StatusChange{ComplaintID: "c1", Status: StatusSolved, Remark: "   "}.Validate()
	assert.ErrorIs(t, err, ErrRemarkRequired)

	assert.NoError(t, StatusChange{ComplaintID: "c1", Status: StatusSolved, Remark: "pipe fixed"}.Validate())
	assert.NoError(t, StatusChange{ComplaintID: "c1", Status: StatusInProgress}.Validate())
}

func TestStatusChangeRequiresComplaintID(t *testing.T) {
	for _, id := range []string{"", "   "} {
		err := StatusChange{ComplaintID: id, Status: StatusInProgress}.Validate()
		assert.ErrorIs(t, err, ErrComplaintIDRequired, "id %q", id)
	}
}

func TestStatusChangeRejectsUnknownStatus(t *testing.T) {
	err := StatusChange{ComplaintID: "c1", Status: "Solved"}.Validate()
	assert.ErrorIs(t, err, ErrInvalidStatus)
}

func TestStatusChangeBodyUsesDisplaySpelling(t *testing.T) {
	body := StatusChange{ComplaintID: "c1", Status: StatusInProgress, Remark: "on it"}.Body()
	assert.Equal(t, StatusUpdate{Status: "In Progress", Remark: "on it"}, body)
}

func TestComplaintDecodeNormalizes(t *testing.T) {
	raw := `{"_id":"c1","title":"Leak","description":"Room 302","type":"Hostel",
		"status":"In Progress","isAnonymous":false,"studentId":{"_id":"s1","name":"Asha"},
		"history":[{"status":"Pending","remark":"","updatedAt":"2026-01-02T10:00:00Z"}]}`
	var c Complaint
	require.NoError(t, json.Unmarshal([]byte(raw), &c))
	assert.Equal(t, StatusInProgress, c.Status)
	assert.Equal(t, DepartmentHostel, c.Type)
	assert.Equal(t, "Asha", c.Reporter())
	require.Len(t, c.History, 1)
	assert.Equal(t, StatusPending, c.History[0].Status)
}

func TestComplaintDecodeBareStudentID(t *testing.T) {
	var c Complaint
	require.NoError(t, json.Unmarshal([]byte(`{"_id":"c1","status":"Pending","studentId":"s1"}`), &c))
	require.NotNil(t, c.Student)
	assert.Equal(t, "s1", c.Student.ID)
	assert.Equal(t, "Unknown", c.Reporter())
}

func TestComplaintReporter(t *testing.T) {
	assert.Equal(t, "Anonymous", Complaint{IsAnonymous: true, Student: &StudentRef{Name: "x"}}.Reporter())
	assert.Equal(t, "Unknown", Complaint{}.Reporter())
}

func TestApplyAppendsHistory(t *testing.T) {
	at := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	c := Complaint{ID: "c1", Status: StatusPending}
	c.Apply(StatusChange{ComplaintID: "c1", Status: StatusInProgress, Remark: " plumber called "}, at)
	c.Apply(StatusChange{ComplaintID: "c1", Status: StatusSolved, Remark: "fixed"}, at.Add(time.Hour))

	assert.Equal(t, StatusSolved, c.Status)
	require.Len(t, c.History, 2)
	assert.Equal(t, HistoryEntry{Status: StatusInProgress, Remark: "plumber called", UpdatedAt: at}, c.History[0])
	assert.Equal(t, StatusSolved, c.History[1].Status)
}

func TestNewComplaintValidate(t *testing.T) {
	ok := NewComplaint{Title: "Leak", Description: "Room 302"}.WithDefaults()
	assert.NoError(t, ok.Validate())
	assert.Equal(t, DefaultCategory, ok.Category)
	assert.Equal(t, DepartmentHostel, ok.Type)

	assert.ErrorIs(t, NewComplaint{Title: "Leak"}.Validate(), ErrComplaintIncomplete)
	assert.ErrorIs(t, NewComplaint{Title: "a", Description: "b", Type: "library"}.Validate(), ErrInvalidDepartment)

	bad := NewComplaint{Title: "a", Description: "b", IsAnonymous: true, StudentRef: "s1"}
	assert.True(t, errors.Is(bad.Validate(), ErrAnonymousWithStudent))
}

func TestAnonymizedStripsStudent(t *testing.T) {
	n := NewComplaint{Title: "a", Description: "b", Type: DepartmentMess, StudentRef: "s1"}.Anonymized()
	assert.True(t, n.IsAnonymous)
	assert.Empty(t, n.StudentRef)
	assert.Equal(t, "Mess", n.Category)
	assert.NoError(t, n.Validate())

	data, err := json.Marshal(n)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "studentId")
}

func TestBoardApply(t *testing.T) {
	b := NewBoard([]Complaint{
		{ID: "c1", Status: StatusPending},
		{ID: "c2", Status: StatusInProgress},
	})
	original := b.Items()

	at := time.Now()
	got, ok := b.Apply(StatusChange{ComplaintID: "c1", Status: StatusSolved, Remark: "done"}, at)
	require.True(t, ok)
	assert.Equal(t, StatusSolved, got.Status)

	stored, _ := b.Get("c1")
	assert.Equal(t, StatusSolved, stored.Status)
	assert.Len(t, stored.History, 1)
	assert.Equal(t, StatusPending, original[0].Status, "earlier snapshots are not mutated")

	_, ok = b.Apply(StatusChange{ComplaintID: "missing", Status: StatusSolved, Remark: "x"}, at)
	assert.False(t, ok)

	assert.Equal(t, map[Status]int{StatusSolved: 1, StatusInProgress: 1}, b.Counts())
	assert.Len(t, b.Filter(StatusSolved), 1)
	assert.Len(t, b.Filter(""), 2)
	assert.Equal(t, 2, b.Len())
}

func TestBoardUpsert(t *testing.T) {
	b := NewBoard([]Complaint{{ID: "c1", Title: "old"}})

	b.Upsert(Complaint{ID: "c2", Title: "new"})
	items := b.Items()
	require.Len(t, items, 2)
	assert.Equal(t, "c2", items[0].ID, "new complaints go to the top")

	b.Upsert(Complaint{ID: "c1", Title: "edited"})
	got, ok := b.Get("c1")
	require.True(t, ok)
	assert.Equal(t, "edited", got.Title)
	assert.Equal(t, 2, b.Len())
}
