package model

import (
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm/schema"
)

func parse(t *testing.T, v any) *schema.Schema {
	t.Helper()
	s, err := schema.Parse(v, &sync.Map{}, schema.NamingStrategy{})
	require.NoError(t, err)
	return s
}

func TestProjectMapping(t *testing.T) {
	s := parse(t, &Project{})

	assert.Equal(t, "projects", s.Table)
	require.NotNil(t, s.PrioritizedPrimaryField)
	assert.Equal(t, "project_id", s.PrioritizedPrimaryField.DBName)

	name := s.LookUpField("project_name")
	require.NotNil(t, name)
	assert.True(t, name.NotNull)
	assert.Equal(t, 100, name.Size)

	added := s.LookUpField("date_added")
	require.NotNil(t, added)
	assert.False(t, added.Creatable)
	assert.False(t, added.Updatable)
	assert.True(t, added.HasDefaultValue)

	rel, ok := s.Relationships.Relations["Tasks"]
	require.True(t, ok)
	assert.Equal(t, schema.HasMany, rel.Type)
	require.Len(t, rel.References, 1)
	assert.Equal(t, "tasks", rel.References[0].ForeignKey.Schema.Table)
	assert.Equal(t, "project_id", rel.References[0].ForeignKey.DBName)
}

func TestTaskMapping(t *testing.T) {
	s := parse(t, &Task{})

	assert.Equal(t, "tasks", s.Table)
	assert.Equal(t, "task_id", s.PrioritizedPrimaryField.DBName)

	for _, col := range []string{"task_name", "assigned_to_email"} {
		f := s.LookUpField(col)
		require.NotNil(t, f, col)
		assert.True(t, f.NotNull, col)
		assert.Equal(t, 100, f.Size, col)
	}

	assert.False(t, s.LookUpField("date_added").Creatable)
	assert.True(t, s.LookUpField("date_updated").Updatable)
	assert.False(t, s.LookUpField("project_id").NotNull)

	rel, ok := s.Relationships.Relations["Project"]
	require.True(t, ok)
	assert.Equal(t, schema.BelongsTo, rel.Type)

	// tasks.project_id -> projects.project_id, never the other way round
	require.Len(t, rel.References, 1)
	ref := rel.References[0]
	assert.Equal(t, "tasks", ref.ForeignKey.Schema.Table)
	assert.Equal(t, "project_id", ref.ForeignKey.DBName)
	assert.Equal(t, "projects", ref.PrimaryKey.Schema.Table)
	assert.Equal(t, "project_id", ref.PrimaryKey.DBName)
}

func TestTaskWithProjectIsReadOnlyAndUnkeyed(t *testing.T) {
	s := parse(t, &TaskWithProject{})

	assert.Equal(t, "vw_tasks_projects", s.Table)
	assert.Nil(t, s.PrioritizedPrimaryField)
	for _, f := range s.Fields {
		assert.False(t, f.Creatable, f.Name)
		assert.False(t, f.Updatable, f.Name)
		assert.True(t, f.Readable, f.Name)
	}
}

func TestTaskApplyOverwritesEveryMutableField(t *testing.T) {
	project := 7
	due := NewDate(time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC))
	added := time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)
	existing := Task{TaskID: 3, TaskName: "old", AssignedToEmail: "a@x.io", Priority: 5, ProjectID: &project, DateDue: &due, DateAdded: added}

	now := time.Date(2025, 2, 2, 12, 0, 0, 0, time.UTC)
	existing.Apply(Task{TaskID: 99, TaskName: "new", AssignedToEmail: "b@x.io", Priority: 1}, now)

	assert.Equal(t, 3, existing.TaskID)
	assert.Equal(t, "new", existing.TaskName)
	assert.Equal(t, "b@x.io", existing.AssignedToEmail)
	assert.Equal(t, 1, existing.Priority)
	assert.Nil(t, existing.ProjectID)
	assert.Nil(t, existing.DateDue)
	assert.Equal(t, added, existing.DateAdded)
	require.NotNil(t, existing.DateUpdated)
	assert.Equal(t, now, *existing.DateUpdated)
}

func TestDateJSON(t *testing.T) {
	var task Task
	require.NoError(t, json.Unmarshal([]byte(`{"taskName":"x","dateDue":"2025-06-30T00:00:00"}`), &task))
	require.NotNil(t, task.DateDue)
	assert.Equal(t, "2025-06-30", task.DateDue.String())

	require.NoError(t, json.Unmarshal([]byte(`{"dateDue":"2025-07-01"}`), &task))
	assert.Equal(t, "2025-07-01", task.DateDue.String())

	out, err := json.Marshal(task.DateDue)
	require.NoError(t, err)
	assert.JSONEq(t, `"2025-07-01"`, string(out))

	var d Date
	assert.Error(t, json.Unmarshal([]byte(`"not a date"`), &d))
	assert.Error(t, json.Unmarshal([]byte(`20250701`), &d))
}

func TestDateScan(t *testing.T) {
	var d Date
	require.NoError(t, d.Scan(time.Date(2025, 1, 2, 15, 4, 5, 0, time.FixedZone("x", 3600))))
	assert.Equal(t, "2025-01-02", d.String())

	require.NoError(t, d.Scan([]byte("2025-02-03")))
	assert.Equal(t, "2025-02-03", d.String())

	require.NoError(t, d.Scan(nil))
	assert.True(t, d.Time().IsZero())

	assert.Error(t, d.Scan(42))

	v, err := NewDate(time.Date(2025, 4, 5, 6, 7, 8, 0, time.UTC)).Value()
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, 4, 5, 0, 0, 0, 0, time.UTC), v)
}
