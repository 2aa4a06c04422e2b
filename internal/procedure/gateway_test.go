package procedure

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"projecttracker/internal/model"
)

func TestCallStatement(t *testing.T) {
	tests := []struct {
		selectList string
		name       string
		nargs      int
		want       string
	}{
		{"SELECT *", "sp_select_projects", 0, "SELECT * FROM sp_select_projects()"},
		{"SELECT *", "sp_select_task", 1, "SELECT * FROM sp_select_task($1)"},
		{"SELECT return_value", "sp_update_task", 3, "SELECT return_value FROM sp_update_task($1, $2, $3)"},
	}
	for _, tt := range tests {
		got, err := callStatement(tt.selectList, tt.name, tt.nargs)
		require.NoError(t, err)
		assert.Equal(t, tt.want, got)
	}
}

func TestCallStatementRejectsNonIdentifiers(t *testing.T) {
	for _, name := range []string{"", "sp_x; DROP TABLE tasks", "1proc", "sp-delete", "schema.proc()"} {
		_, err := callStatement("SELECT *", name, 0)
		assert.ErrorIs(t, err, ErrInvalidName, name)
	}
}

func TestResultJSON(t *testing.T) {
	r := Result[model.Project]{Rows: []model.Project{{ProjectID: 1, ProjectName: "Alpha"}}, Status: 1}
	out, err := json.Marshal(r)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(out, &decoded))
	assert.EqualValues(t, 1, decoded["status"])
	assert.Len(t, decoded["rows"], 1)
}
